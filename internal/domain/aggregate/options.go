package aggregate

import "github.com/halfspace-analytics/halfspace/pkg/logger"

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry sets the configuration registry.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithRunner sets the runner used by AggregateMany. Without one, jobs
// run serially.
func WithRunner(r Runner) Option {
	return func(e *Engine) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

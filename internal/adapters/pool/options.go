package pool

import (
	"time"

	"github.com/halfspace-analytics/halfspace/pkg/logger"
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkerCount sets the number of concurrent workers.
func WithWorkerCount(count int) Option {
	return func(p *Pool) {
		if count > 0 {
			p.size = count
		}
	}
}

// WithTaskTimeout sets the per-job deadline.
func WithTaskTimeout(timeout time.Duration) Option {
	return func(p *Pool) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// WithLogger sets the pool logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

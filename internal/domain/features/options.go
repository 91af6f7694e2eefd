package features

import "github.com/halfspace-analytics/halfspace/pkg/logger"

// Option configures an Enricher.
type Option func(*Enricher)

// WithXGModel sets the pre-trained shot classifier used to fill missing
// goal probabilities.
func WithXGModel(m XGModel) Option {
	return func(e *Enricher) {
		e.xgModel = m
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Enricher) {
		if l != nil {
			e.logger = l
		}
	}
}

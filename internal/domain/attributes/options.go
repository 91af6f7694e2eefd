package attributes

import "github.com/halfspace-analytics/halfspace/pkg/logger"

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithMinMinutes floors the minutes denominator used by per-90 rates.
func WithMinMinutes(minutes float64) ModelOption {
	return func(m *Model) {
		if minutes > 0 {
			m.minMinutes = minutes
		}
	}
}

// WithDefaultMinutes substitutes for missing minutes-played data.
func WithDefaultMinutes(minutes float64) ModelOption {
	return func(m *Model) {
		if minutes > 0 {
			m.defaultMinutes = minutes
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

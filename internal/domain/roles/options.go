package roles

import "github.com/halfspace-analytics/halfspace/pkg/logger"

// Option configures a Classifier.
type Option func(*Classifier)

// WithAmplificationPower sets the exponent applied to role affinities
// before normalization. Higher values sharpen the distribution.
func WithAmplificationPower(power float64) Option {
	return func(c *Classifier) {
		if power > 0 {
			c.power = power
		}
	}
}

// WithMinRolePercentage sets the share below which a role is dropped
// from the final distribution.
func WithMinRolePercentage(minPercentage float64) Option {
	return func(c *Classifier) {
		if minPercentage >= 0 {
			c.minPercentage = minPercentage
		}
	}
}

// WithLogger sets the classifier logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

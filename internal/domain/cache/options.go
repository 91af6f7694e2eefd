package cache

// Default configuration values.
const defaultCapacity = 256

// config holds settings shared by all value types. Options operate on
// this struct because Go does not allow parameterized option functions
// over a generic receiver.
type config struct {
	capacity int
	name     string
}

func newConfig() *config {
	return &config{
		capacity: defaultCapacity,
		name:     "default",
	}
}

// Option configures a Cache.
type Option func(*config)

// WithCapacity bounds the number of entries. Zero or negative means
// unbounded.
func WithCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// WithName labels the cache in metrics.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// Package cache provides keyed memoization for population-level tables.
package cache

import (
	"context"
	"sync"

	"github.com/halfspace-analytics/halfspace/pkg/metrics"
)

// Cache memoizes expensive population computations keyed by filter hash.
// Concurrent callers may momentarily duplicate work for the same key;
// the mutex only guarantees the stored value is never corrupted.
type Cache[V any] struct {
	mu       sync.Mutex
	entries  map[string]V
	order    []string
	capacity int
	name     string
}

// New creates a cache with configuration options.
func New[V any](opts ...Option) *Cache[V] {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Cache[V]{
		entries:  make(map[string]V),
		capacity: cfg.capacity,
		name:     cfg.name,
	}
}

// Get returns the cached value for key, if present.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	if ok {
		metrics.RecordCacheHit(c.name)
	} else {
		metrics.RecordCacheMiss(c.name)
	}
	return v, ok
}

// GetOrCompute returns the cached value for key, computing and storing
// it on a miss. The compute function runs outside the lock so a slow
// recomputation never blocks readers of other keys.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := compute(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	c.Put(key, v)
	return v, nil
}

// Put stores a value, evicting the oldest entry when at capacity.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if c.capacity > 0 && len(c.entries) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}

	c.entries[key] = value
	metrics.UpdateCacheSize(len(c.entries))
}

// Invalidate removes a single key.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		return
	}

	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	metrics.UpdateCacheSize(len(c.entries))
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]V)
	c.order = nil
	metrics.UpdateCacheSize(0)
}

// Size returns the current number of entries.
func (c *Cache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

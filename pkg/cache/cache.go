// Package cache provides a small in-process TTL store. Each external adapter
// owns its own instance; entries are never shared across adapters.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value V
	exp   time.Time
}

// TTL is a key -> (value, fetch time) map with a fixed time-to-live.
// A Get never returns data older than the TTL.
type TTL[V any] struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]entry[V]

	// now is swappable for tests
	now func() time.Time
}

// NewTTL creates a cache whose entries expire after ttl.
// A non-positive ttl disables caching (every Get misses).
func NewTTL[V any](ttl time.Duration) *TTL[V] {
	return &TTL[V]{
		ttl: ttl,
		m:   make(map[string]entry[V]),
		now: time.Now,
	}
}

// Get returns the cached value for key if it has not expired
func (c *TTL[V]) Get(key string) (V, bool) {
	var zero V
	if c.ttl <= 0 {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok {
		return zero, false
	}
	if c.now().After(e.exp) {
		delete(c.m, key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, stamped with the configured TTL
func (c *TTL[V]) Set(key string, value V) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.m[key] = entry[V]{value: value, exp: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Len returns the number of entries, expired or not
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Package cache provides a bounded in-memory cache with per-entry expiry.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/okian/crossjudge/pkg/metrics"
)

// Default cache configuration constants.
const (
	defaultTTL        = time.Hour
	defaultMaxEntries = 1000
)

// Option applies a configuration option to a Cache.
type Option func(*options)

type options struct {
	name       string
	ttl        time.Duration
	maxEntries int
	trimTo     int
	now        func() time.Time
}

// WithName sets the label reported in cache metrics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithTTL sets how long an entry stays valid after it is stored.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithMaxEntries bounds the number of entries. Once a write pushes the cache
// past max, the oldest entries are evicted until trimTo remain. A trimTo of
// zero or above max means "evict down to max".
func WithMaxEntries(maxEntries, trimTo int) Option {
	return func(o *options) {
		if maxEntries > 0 {
			o.maxEntries = maxEntries
			o.trimTo = trimTo
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a TTL cache with a size bound. Eviction and insertion happen under
// one lock so concurrent writers cannot overshoot the bound.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	opts    options
}

// New creates a cache.
func New[V any](opts ...Option) *Cache[V] {
	o := options{
		name:       "default",
		ttl:        defaultTTL,
		maxEntries: defaultMaxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.trimTo <= 0 || o.trimTo > o.maxEntries {
		o.trimTo = o.maxEntries
	}
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		opts:    o,
	}
}

// Get returns the value stored under key if it has not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		metrics.RecordCacheMiss(c.opts.name)
		return zero, false
	}
	if c.opts.now().Sub(e.storedAt) >= c.opts.ttl {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed it.
		if cur, still := c.entries[key]; still && cur.storedAt.Equal(e.storedAt) {
			delete(c.entries, key)
		}
		size := len(c.entries)
		c.mu.Unlock()
		metrics.RecordCacheMiss(c.opts.name)
		metrics.UpdateCacheEntries(c.opts.name, size)
		return zero, false
	}
	metrics.RecordCacheHit(c.opts.name)
	return e.value, true
}

// Set stores value under key, evicting the oldest entries when full.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, storedAt: c.opts.now()}
	evicted := 0
	if len(c.entries) > c.opts.maxEntries {
		evicted = c.evictOldestLocked(len(c.entries) - c.opts.trimTo)
	}
	size := len(c.entries)
	c.mu.Unlock()

	if evicted > 0 {
		metrics.RecordCacheEvictions(c.opts.name, evicted)
	}
	metrics.UpdateCacheEntries(c.opts.name, size)
}

// Delete removes key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Purge removes every entry.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()
	metrics.UpdateCacheEntries(c.opts.name, 0)
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictOldestLocked drops n entries with the oldest timestamps.
// Must be called with c.mu held.
func (c *Cache[V]) evictOldestLocked(n int) int {
	if n <= 0 {
		return 0
	}
	type aged struct {
		key string
		at  time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{key: k, at: e.storedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].at.Equal(all[j].at) {
			return all[i].key < all[j].key
		}
		return all[i].at.Before(all[j].at)
	})
	n = min(n, len(all))
	for _, a := range all[:n] {
		delete(c.entries, a.key)
	}
	return n
}

package inference

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a generic key/value store with per-entry expiry. There is no
// background eviction: expired entries are purged lazily on read and are
// indistinguishable from absent entries to the caller. Set overwrites
// unconditionally and there is no capacity bound.
//
// The cache is safe for concurrent use; entries are owned exclusively by the
// cache and never exposed.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]cacheEntry[V]
}

// NewCache constructs an empty cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]cacheEntry[V])}
}

// Get returns the live value for key. An entry whose expiry has passed is
// removed and reported as absent.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !time.Now().Before(entry.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Set stores value under key for the given TTL, replacing any existing
// entry. A non-positive TTL stores an already-expired entry, which the next
// Get treats as absent.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, expiresAt: time.Now().Add(ttl)}
}

// Len returns the number of stored entries, counting not-yet-purged expired
// ones. Intended for tests and diagnostics.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

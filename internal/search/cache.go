// Package search composes the ingestion pipeline: cache check, upstream
// fetch, normalization, persistence, cache fill.
package search

import (
	"strings"
	"sync"
	"time"

	"tunescout/pkg/models"
)

// DefaultCacheTTL is how long a result set stays servable without a
// fresh upstream fetch.
const DefaultCacheTTL = 60 * time.Second

type cacheEntry struct {
	items      []models.MediaItem
	capturedAt time.Time
}

// Cache is a process-wide result cache keyed by lowercased search term.
// Entries expire after the configured TTL; expiry is only checked on
// Get (lazy eviction), there is no background sweep. An empty slice is
// a valid cached value, distinct from a miss.
//
// Safe for concurrent use. Concurrent writes to the same term race
// benignly: both represent equivalent fetches and the last one wins.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache builds a cache with the given TTL. now may be nil for the
// wall clock; tests inject a fake clock to exercise expiry.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached result set for term, if present and fresh.
// An expired entry is deleted on the spot and reported as a miss.
func (c *Cache) Get(term string) ([]models.MediaItem, bool) {
	key := strings.ToLower(term)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.capturedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.items, true
}

// Set stores the result set for term, stamping it with the current
// clock.
func (c *Cache) Set(term string, items []models.MediaItem) {
	key := strings.ToLower(term)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{items: items, capturedAt: c.now()}
}

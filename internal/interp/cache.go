package interp

import (
	"sync"
	"time"

	"github.com/boxline/boxline-data/internal/dispatch"
)

// Interpretations are stable for a given query, so a long TTL just saves
// model calls; the cap keeps a chatty deployment bounded.
const (
	cacheTTL        = 24 * time.Hour
	cacheMaxEntries = 1000
)

type cacheEntry struct {
	req       dispatch.Request
	expiresAt time.Time
}

// requestCache is a thread-safe TTL cache of interpreted queries.
type requestCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func newRequestCache() *requestCache {
	return &requestCache{entries: make(map[string]cacheEntry)}
}

func (c *requestCache) get(key string) (dispatch.Request, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return dispatch.Request{}, false
	}
	return e.req, true
}

func (c *requestCache) set(key string, req dispatch.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= cacheMaxEntries {
		c.evictLocked()
	}
	c.entries[key] = cacheEntry{req: req, expiresAt: time.Now().Add(cacheTTL)}
}

// evictLocked drops expired entries, and if nothing has expired yet,
// clears the map outright rather than tracking recency.
func (c *requestCache) evictLocked() {
	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) >= cacheMaxEntries {
		c.entries = make(map[string]cacheEntry)
	}
}

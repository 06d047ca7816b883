package security

import (
	"sync"
	"time"
)

const (
	defaultCacheSize = 8192
	defaultCacheTTL  = 2 * time.Minute
)

type cacheEntry struct {
	path    ValidatedPath
	err     error
	expires time.Time
}

// validationCache memoizes validation results for a short TTL. Entries are
// evicted wholesale once the map fills; validation is cheap enough that a
// full LRU is not worth the bookkeeping.
type validationCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	maxSize int
	ttl     time.Duration
}

func newValidationCache(maxSize int, ttl time.Duration) *validationCache {
	return &validationCache{
		entries: make(map[string]cacheEntry, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func (c *validationCache) get(raw string) (ValidatedPath, error, bool) {
	c.mu.RLock()
	entry, ok := c.entries[raw]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expires) {
		return ValidatedPath{}, nil, false
	}
	return entry.path, entry.err, true
}

func (c *validationCache) set(raw string, path ValidatedPath, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.entries = make(map[string]cacheEntry, c.maxSize)
	}
	c.entries[raw] = cacheEntry{
		path:    path,
		err:     err,
		expires: time.Now().Add(c.ttl),
	}
}

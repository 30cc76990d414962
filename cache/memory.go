package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// cacheEntry holds a cached value with its timestamp.
type cacheEntry struct {
	value     string
	timestamp time.Time
}

// InMemoryCache is a thread-safe in-memory cache with optional TTL.
// Without a TTL entries live as long as the process.
type InMemoryCache struct {
	cache  map[string]cacheEntry
	mu     sync.RWMutex
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// NewInMemoryCache creates a new in-memory cache with the specified TTL.
// If ttlSeconds is 0 or negative, entries never expire.
func NewInMemoryCache(ttlSeconds int) *InMemoryCache {
	return NewInMemoryCacheWithTTL(time.Duration(ttlSeconds) * time.Second)
}

// NewInMemoryCacheWithTTL is like NewInMemoryCache with a duration TTL.
func NewInMemoryCacheWithTTL(ttl time.Duration) *InMemoryCache {
	if ttl < 0 {
		ttl = 0 // No expiration
	}
	return &InMemoryCache{
		cache: make(map[string]cacheEntry),
		ttl:   ttl,
	}
}

// Get retrieves a value from the cache.
// Returns the value and true if found and not expired, empty string and false otherwise.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return "", false
	}

	if c.expired(entry, time.Now()) {
		c.mu.Lock()
		delete(c.cache, key)
		c.mu.Unlock()
		c.misses.Add(1)
		return "", false
	}

	c.hits.Add(1)
	return entry.value, true
}

// Set stores a value in the cache.
func (c *InMemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = cacheEntry{
		value:     value,
		timestamp: time.Now(),
	}
	return nil
}

// Len returns the number of entries in the cache (including expired ones).
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Clear removes all entries from the cache.
func (c *InMemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cacheEntry)
	return nil
}

// Close is a no-op; it lets InMemoryCache satisfy Store.
func (c *InMemoryCache) Close() error {
	return nil
}

// Stats returns the live entry count and lookup counters.
func (c *InMemoryCache) Stats() (Stats, error) {
	return Stats{
		Entries: c.liveEntries(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

func (c *InMemoryCache) liveEntries() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int64
	now := time.Now()
	for _, entry := range c.cache {
		if !c.expired(entry, now) {
			n++
		}
	}
	return n
}

func (c *InMemoryCache) expired(entry cacheEntry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(entry.timestamp) > c.ttl
}

var (
	_ TranslationCache = (*InMemoryCache)(nil)
	_ Store            = (*InMemoryCache)(nil)
)

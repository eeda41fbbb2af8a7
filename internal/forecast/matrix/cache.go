package matrix

import (
	"fmt"
	"sync"
	"time"

	"github.com/jcorreia/practiva/internal/forecast/domain"
)

const (
	defaultCacheTTL     = 5 * time.Minute
	defaultCacheEntries = 32
)

// Key builds the cache key for one generation call. Strategy is part of the
// key so skill-based and staff-based matrices never cross-hit.
func Key(mode domain.Mode, start time.Time, strategy domain.AggregationStrategy) string {
	return fmt.Sprintf("%s|%s|%s", mode, domain.PeriodFrom(start).Key(), strategy)
}

type cacheEntry struct {
	data    domain.MatrixData
	expires time.Time
}

// Cache memoizes assembled matrices with a bounded TTL. Mutation only occurs
// through Set, Clear, and Sweep from the generation flow.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[string]cacheEntry
	clock   func() time.Time
}

// NewCache creates a matrix cache. Non-positive ttl or max select defaults.
func NewCache(ttl time.Duration, max int) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if max <= 0 {
		max = defaultCacheEntries
	}
	return &Cache{
		ttl:     ttl,
		max:     max,
		entries: map[string]cacheEntry{},
		clock:   time.Now,
	}
}

// Get returns the cached matrix for key if present and unexpired.
func (c *Cache) Get(key string) (domain.MatrixData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || c.clock().After(entry.expires) {
		return domain.MatrixData{}, false
	}
	return entry.data, true
}

// Set stores a matrix under key, evicting the entry closest to expiry when
// the cache is full.
func (c *Cache) Set(key string, data domain.MatrixData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		if _, exists := c.entries[key]; !exists {
			c.evictOldestLocked()
		}
	}
	c.entries[key] = cacheEntry{data: data, expires: c.clock().Add(c.ttl)}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]cacheEntry{}
}

// Sweep removes expired entries and returns how many were dropped.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock()
	dropped := 0
	for key, entry := range c.entries {
		if now.After(entry.expires) {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.expires.Before(oldest) {
			oldestKey = key
			oldest = entry.expires
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

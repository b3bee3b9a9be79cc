package storage

import (
	"container/list"
	"sync"
	"time"
)

// cacheEntry is one cached fetch result.
type cacheEntry struct {
	key      string
	value    interface{}
	storedAt time.Time
	element  *list.Element
}

// ResultCache is an LRU cache with optional TTL for fetch results, so
// repeated identical queries within the TTL skip the provider entirely.
type ResultCache struct {
	maxSize int
	ttl     time.Duration
	entries map[string]*cacheEntry
	lruList *list.List
	mu      sync.RWMutex
}

// NewResultCache creates a cache holding at most maxSize results. A zero
// ttl disables expiry.
func NewResultCache(maxSize int, ttl time.Duration) *ResultCache {
	if maxSize < 1 {
		maxSize = 64
	}
	return &ResultCache{
		maxSize: maxSize,
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
		lruList: list.New(),
	}
}

// Get returns the cached value for key, if present and unexpired.
func (c *ResultCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if c.ttl > 0 && time.Since(entry.storedAt) > c.ttl {
		c.removeLocked(entry)
		return nil, false
	}

	c.lruList.MoveToFront(entry.element)
	return entry.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *ResultCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		entry.value = value
		entry.storedAt = time.Now()
		c.lruList.MoveToFront(entry.element)
		return
	}

	if len(c.entries) >= c.maxSize {
		if oldest := c.lruList.Back(); oldest != nil {
			c.removeLocked(oldest.Value.(*cacheEntry))
		}
	}

	entry := &cacheEntry{key: key, value: value, storedAt: time.Now()}
	entry.element = c.lruList.PushFront(entry)
	c.entries[key] = entry
}

// Len returns the number of live entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ResultCache) removeLocked(entry *cacheEntry) {
	c.lruList.Remove(entry.element)
	delete(c.entries, entry.key)
}

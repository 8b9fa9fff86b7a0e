package cache

import (
	"container/list"
	"sync"
	"time"
)

// TemporalCache is a bounded TTL key/value store used to memoize derived
// authorization data (e.g. the matter IDs visible to a user) between list
// requests. Staleness after a permission change is bounded by the TTL; there
// is no invalidation hook on grant mutation.
//
// The cache is per-process. Entries are immutable once set; eviction removes
// the oldest-inserted entry when the cache is full (insertion order, not LRU).
type TemporalCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int

	entries map[string]*list.Element
	order   *list.List // front = oldest inserted

	now func() time.Time // overridable in tests
}

type cacheEntry struct {
	key       string
	value     any
	expiresAt time.Time
}

// NewTemporalCache creates a cache with a fixed TTL and capacity.
func NewTemporalCache(ttl time.Duration, maxSize int) *TemporalCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &TemporalCache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// Get returns the cached value for key, or ok=false on a miss or an expired
// entry. Expired entries are removed on read.
func (c *TemporalCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.removeLocked(elem)
		return nil, false
	}

	return entry.value, true
}

// Set stores a value under key with the cache's TTL. If the cache is full,
// the single oldest-inserted entry is evicted to make room. Setting an
// existing key replaces the value and resets its insertion position.
func (c *TemporalCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.removeLocked(elem)
	}

	if c.order.Len() >= c.maxSize {
		if oldest := c.order.Front(); oldest != nil {
			c.removeLocked(oldest)
		}
	}

	entry := &cacheEntry{
		key:       key,
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
	c.entries[key] = c.order.PushBack(entry)
}

// Delete removes a key if present.
func (c *TemporalCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.removeLocked(elem)
	}
}

// Len returns the number of live entries, counting entries that expired but
// have not been read since.
func (c *TemporalCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *TemporalCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	delete(c.entries, entry.key)
	c.order.Remove(elem)
}

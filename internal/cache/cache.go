// Package cache guarda linhas do tempo já montadas, com expiração e capacidade máxima.
package cache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const defaultSweepInterval = time.Minute

// Cache is an in-memory TTL cache bounded by item count.
// When full, Set evicts expired entries first and then the entry closest to expiring.
type Cache struct {
	mu       sync.RWMutex
	items    map[string]*entry
	ttl      time.Duration
	maxItems int
	sweep    time.Duration
	now      func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once

	hits      int64
	misses    int64
	evictions int64
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Option configures a Cache
type Option func(*Cache)

// WithMaxItems bounds the number of entries; zero or negative means unbounded
func WithMaxItems(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxItems = n
		}
	}
}

// withSweepInterval sets how often expired entries are removed in the background
func withSweepInterval(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.sweep = d
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates a cache whose entries live for ttl
func NewCache(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		items:    make(map[string]*entry),
		ttl:      ttl,
		sweep:    defaultSweepInterval,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.sweeper()

	return c
}

// Get retrieves a live value
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, exists := c.items[key]
	c.mu.RUnlock()

	if !exists || !c.now().Before(e.expiresAt) {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	atomic.AddInt64(&c.hits, 1)
	return e.value, true
}

// Set stores a value, evicting if the cache is at capacity
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.items[key]; !exists && c.maxItems > 0 && len(c.items) >= c.maxItems {
		c.makeRoomLocked(now)
	}

	c.items[key] = &entry{
		value:     value,
		expiresAt: now.Add(c.ttl),
	}
}

// makeRoomLocked frees at least one slot; caller holds mu
func (c *Cache) makeRoomLocked(now time.Time) {
	if c.removeExpiredLocked(now) > 0 {
		return
	}

	var oldestKey string
	var oldest time.Time
	for key, e := range c.items {
		if oldestKey == "" || e.expiresAt.Before(oldest) {
			oldestKey, oldest = key, e.expiresAt
		}
	}
	delete(c.items, oldestKey)
	atomic.AddInt64(&c.evictions, 1)
}

// Delete removes a key and reports whether it was present
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.items[key]
	delete(c.items, key)
	return exists
}

// InvalidatePrefix removes all keys with the given prefix and returns how many were removed
func (c *Cache) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Stats is a point-in-time view of the cache
type Stats struct {
	Items     int   `json:"items"`
	Capacity  int   `json:"capacity"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// Stats returns item count, capacity and hit/miss/eviction counters
func (c *Cache) Stats() Stats {
	return Stats{
		Items:     c.Size(),
		Capacity:  c.maxItems,
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Evictions: atomic.LoadInt64(&c.evictions),
	}
}

// Size returns the number of stored entries, expired or not
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stop stops the background sweeper. Safe to call more than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}

func (c *Cache) sweeper() {
	ticker := time.NewTicker(c.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.removeExpiredLocked(c.now())
			c.mu.Unlock()
		case <-c.stopChan:
			return
		}
	}
}

// removeExpiredLocked drops expired entries; caller holds mu
func (c *Cache) removeExpiredLocked(now time.Time) int {
	removed := 0
	for key, e := range c.items {
		if !now.Before(e.expiresAt) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

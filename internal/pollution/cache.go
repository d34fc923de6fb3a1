package pollution

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultCacheTTL bounds how long a cached reading stays servable.
	DefaultCacheTTL = 30 * time.Minute

	// DefaultCacheCapacity caps the number of cached readings.
	DefaultCacheCapacity = 500
)

// CacheConfig holds configuration for the reading cache.
type CacheConfig struct {
	// TTL is the maximum age of a servable entry (default: 30 minutes).
	TTL time.Duration

	// Capacity is the maximum number of entries; the oldest entries are
	// evicted when exceeded (default: 500).
	Capacity int
}

// cacheEntry is one cached reading plus its insertion time for TTL and
// eviction ordering. Entries are replaced wholesale, never mutated.
type cacheEntry struct {
	point    Point
	storedAt time.Time
}

// Cache is a bounded in-memory TTL cache of pollution readings, keyed by
// coordinate and pollutant. It is the only shared mutable state in the
// aggregation subsystem and is safe for concurrent use. It exists to serve
// random-sample requests without a provider round trip, not for
// correctness; it is not persisted across restarts.
type Cache struct {
	ttl      time.Duration
	capacity int
	now      func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache creates a Cache with zero-value defaults applied.
func NewCache(cfg CacheConfig) *Cache {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	capacity := cfg.Capacity
	if capacity == 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		entries:  make(map[string]cacheEntry),
	}
}

// cacheKey identifies a reading by rounded coordinate and pollutant, so a
// refreshed reading for the same spot replaces its predecessor and
// unlabeled points at different spots stay distinct.
func cacheKey(p Point) string {
	return fmt.Sprintf("%.3f,%.3f:%s", p.Lat, p.Lng, p.PollutantType)
}

// Put stores a reading, evicting expired entries and then the oldest
// entries when over capacity.
func (c *Cache) Put(p Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.pruneLocked(now)

	c.entries[cacheKey(p)] = cacheEntry{point: p, storedAt: now}

	for len(c.entries) > c.capacity {
		c.evictOldestLocked()
	}
}

// Fresh returns all unexpired readings for a pollutant. The result is a
// copy; callers may shuffle or truncate freely.
func (c *Cache) Fresh(pollutant Pollutant) []Point {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	var points []Point
	for _, e := range c.entries {
		if e.point.PollutantType != pollutant {
			continue
		}
		if now.Sub(e.storedAt) > c.ttl {
			continue
		}
		points = append(points, e.point)
	}
	return points
}

// Len returns the current entry count, including expired entries not yet
// pruned.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Prune drops expired entries.
func (c *Cache) Prune() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneLocked(c.now())
}

func (c *Cache) pruneLocked(now time.Time) {
	for key, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

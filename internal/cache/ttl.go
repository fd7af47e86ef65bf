// Package cache provides the in-memory TTL caches for generated advisories
// and chat replies, plus the fingerprint keys that index them.
package cache

import (
	"sync"
	"time"
)

// Default lifetimes for the two cache instances. Chat replies tolerate more
// repetition than advisories, so they live longer.
const (
	DefaultAdvisoryTTL = 2 * time.Hour
	DefaultChatTTL     = 4 * time.Hour
)

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Size    int     `json:"size"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Total   uint64  `json:"total"`
	HitRate float64 `json:"hit_rate"`
}

type entry struct {
	value     string
	expiresAt time.Time
}

// TTLCache is a mutex-guarded string cache with per-instance TTL and lazy
// eviction: expired entries are removed when a Get finds them, and the Get
// counts as a miss.
type TTLCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	hits    uint64
	misses  uint64

	now func() time.Time // test hook
}

// New creates an empty cache whose entries live for ttl.
func New(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key if it exists and has not expired.
func (c *TTLCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return "", false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		c.misses++
		return "", false
	}
	c.hits++
	return e.value, true
}

// Set inserts or replaces the value for key, restarting its lifetime.
func (c *TTLCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Stats returns current size and counter values.
func (c *TTLCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Size:   len(c.entries),
		Hits:   c.hits,
		Misses: c.misses,
		Total:  c.hits + c.misses,
	}
	if s.Total > 0 {
		s.HitRate = float64(s.Hits) / float64(s.Total)
	}
	return s
}

// Clear drops every entry and resets the counters.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.hits = 0
	c.misses = 0
}

package signals

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/thebenmerlin/MVP90/internal/domain/metric"
	"github.com/thebenmerlin/MVP90/internal/domain/startup"
)

// ==============================================================================
// Cache - per-entity snapshot cache with lazy expiry
// ==============================================================================

// Snapshot composed signal plus the live metrics derived while building it
type Snapshot struct {
	Signal  startup.Signal
	Metrics map[string]metric.Metric
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{Signal: s.Signal}
	if s.Metrics != nil {
		out.Metrics = make(map[string]metric.Metric, len(s.Metrics))
		for k, v := range s.Metrics {
			out.Metrics[k] = v
		}
	}
	return out
}

type cacheEntry struct {
	snapshot  Snapshot
	expiresAt time.Time
}

// CacheStatus cache counters
type CacheStatus struct {
	Cached int   `json:"cached"` // unexpired entries
	Total  int   `json:"total"`  // tracked entities
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Cache holds one snapshot per entity id. Expired entries are evicted on lookup.
type Cache struct {
	mu      sync.RWMutex
	entries map[int]cacheEntry

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		entries: make(map[int]cacheEntry),
	}
}

// Get returns a copy of the snapshot if present and unexpired at now
func (c *Cache) Get(id int, now time.Time) (Snapshot, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()

	if ok && now.Before(entry.expiresAt) {
		c.hits.Add(1)
		return entry.snapshot.clone(), true
	}

	if ok {
		c.mu.Lock()
		// re-check: a concurrent Set may have replaced the stale entry
		if cur, still := c.entries[id]; still && !now.Before(cur.expiresAt) {
			delete(c.entries, id)
		}
		c.mu.Unlock()
	}

	c.misses.Add(1)
	return Snapshot{}, false
}

// peek is Get without eviction or counters
func (c *Cache) peek(id int, now time.Time) (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	if !ok || !now.Before(entry.expiresAt) {
		return Snapshot{}, false
	}
	return entry.snapshot.clone(), true
}

// Set stores a copy of the snapshot until expiresAt
func (c *Cache) Set(id int, snap Snapshot, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[id] = cacheEntry{snapshot: snap.clone(), expiresAt: expiresAt}
}

// Delete evicts one entry
func (c *Cache) Delete(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, id)
}

// Clear evicts everything. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[int]cacheEntry)
}

// Status counts unexpired entries at now
func (c *Cache) Status(now time.Time, total int) CacheStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached := 0
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			cached++
		}
	}

	return CacheStatus{
		Cached: cached,
		Total:  total,
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

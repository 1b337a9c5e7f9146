package state

import (
	"sync"
	"time"
)

// Cache holds the last known snapshot and stats along with the generation
// watermark used by the differential fetch. The remote service is the source
// of truth for generation numbering; the cache only enforces monotonicity so
// that late responses for older requests cannot roll the view backwards.
type Cache struct {
	mu                   sync.RWMutex
	snapshot             *Snapshot
	stats                *Stats
	lastPolledGeneration int
	lastUpdate           time.Time
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Accept installs a snapshot if it is not stale. reportedGen is the
// current_generation the remote reported alongside the snapshot; the
// watermark advances to it, which may skip values when the client is slow.
// Returns false if the snapshot was discarded as stale.
func (c *Cache) Accept(s *Snapshot, reportedGen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.Generation < c.lastPolledGeneration {
		return false
	}

	c.snapshot = s
	c.lastPolledGeneration = reportedGen
	c.lastUpdate = time.Now()
	return true
}

// SetStats installs a stats payload. Stats carry no ordering guard and are
// applied last-completed-wins; they never touch the generation watermark or
// the snapshot timestamp.
func (c *Cache) SetStats(st *Stats) {
	c.mu.Lock()
	c.stats = st
	c.mu.Unlock()
}

// Snapshot returns the current snapshot, or nil if none was accepted yet.
func (c *Cache) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Stats returns the current stats payload, or nil.
func (c *Cache) Stats() *Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// LastPolledGeneration returns the differential-fetch watermark.
func (c *Cache) LastPolledGeneration() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastPolledGeneration
}

// LastUpdate returns the wall-clock time of the last snapshot acceptance.
func (c *Cache) LastUpdate() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}

// Clear empties the cache and resets the watermark. Used on reset.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.snapshot = nil
	c.stats = nil
	c.lastPolledGeneration = 0
	c.lastUpdate = time.Time{}
	c.mu.Unlock()
}

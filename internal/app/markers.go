package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	markerTTL        = 30 * time.Minute
	maxMarkerReports = 256
)

type markerEntry struct {
	markers []Marker
	stored  time.Time
}

// markerCache keeps recent geo results for the JSON marker feed. Expired entries
// are evicted on write; the oldest entry goes first once the cache is full.
type markerCache struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	entries map[string]markerEntry
	order   []string
}

func newMarkerCache(clock clockwork.Clock) *markerCache {
	return &markerCache{clock: clock, entries: make(map[string]markerEntry)}
}

func (c *markerCache) Put(markers []Marker) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.evict(now)

	id := uuid.NewString()
	c.entries[id] = markerEntry{markers: markers, stored: now}
	c.order = append(c.order, id)
	return id
}

func (c *markerCache) Get(id string) ([]Marker, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok || c.clock.Since(e.stored) > markerTTL {
		return nil, false
	}
	return e.markers, true
}

func (c *markerCache) evict(now time.Time) {
	i := 0
	for ; i < len(c.order); i++ {
		id := c.order[i]
		if now.Sub(c.entries[id].stored) <= markerTTL && len(c.order)-i < maxMarkerReports {
			break
		}
		delete(c.entries, id)
	}
	c.order = c.order[i:]
}

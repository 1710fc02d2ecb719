package geocode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	"github.com/pscheid92/nlpnavigator/internal/adapter/redis"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"golang.org/x/sync/singleflight"
)

// SharedCache is the optional cross-process layer.
type SharedCache interface {
	Get(ctx context.Context, location string) (redis.GeocodeEntry, bool, error)
	Set(ctx context.Context, location string, entry redis.GeocodeEntry) error
}

// CachedGeocoder memoises lookups for the process lifetime. Negative answers are
// cached too; transport failures are not. Concurrent lookups of the same place
// share one remote request.
type CachedGeocoder struct {
	remote  domain.Geocoder
	shared  SharedCache // may be nil
	metrics *metrics.CacheMetrics

	mu      sync.RWMutex
	entries map[string]redis.GeocodeEntry
	group   singleflight.Group
}

var _ domain.Geocoder = (*CachedGeocoder)(nil)

// NewCachedGeocoder wraps remote. shared and m may be nil.
func NewCachedGeocoder(remote domain.Geocoder, shared SharedCache, m *metrics.CacheMetrics) *CachedGeocoder {
	return &CachedGeocoder{
		remote:  remote,
		shared:  shared,
		metrics: m,
		entries: make(map[string]redis.GeocodeEntry),
	}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, location string) (domain.Coordinates, error) {
	key := strings.ToLower(strings.TrimSpace(location))
	if key == "" {
		return domain.Coordinates{}, fmt.Errorf("%w: empty location", domain.ErrLocationNotFound)
	}

	// Layer 1: in-memory
	if entry, ok := g.memGet(key); ok {
		g.hit("memory")
		return result(entry, location)
	}
	g.miss("memory")

	v, err, _ := g.group.Do(key, func() (any, error) {
		// A flight that finished since the check above already stored it.
		if entry, ok := g.memGet(key); ok {
			return entry, nil
		}

		// Layer 2: Redis
		if entry, ok := g.sharedGet(ctx, key); ok {
			g.memSet(key, entry)
			return entry, nil
		}

		// Layer 3: remote geocoder
		coords, err := g.remote.Geocode(ctx, location)
		var entry redis.GeocodeEntry
		switch {
		case err == nil:
			entry = redis.GeocodeEntry{Found: true, Coords: coords}
		case errors.Is(err, domain.ErrLocationNotFound):
			entry = redis.GeocodeEntry{Found: false}
		default:
			return nil, err
		}

		g.memSet(key, entry)
		g.sharedSet(ctx, key, entry)
		return entry, nil
	})
	if err != nil {
		return domain.Coordinates{}, err
	}
	return result(v.(redis.GeocodeEntry), location)
}

// Len reports how many locations are memoised.
func (g *CachedGeocoder) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

func result(entry redis.GeocodeEntry, location string) (domain.Coordinates, error) {
	if !entry.Found {
		return domain.Coordinates{}, fmt.Errorf("%w: %q", domain.ErrLocationNotFound, location)
	}
	return entry.Coords, nil
}

func (g *CachedGeocoder) memGet(key string) (redis.GeocodeEntry, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.entries[key]
	return e, ok
}

func (g *CachedGeocoder) memSet(key string, entry redis.GeocodeEntry) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entries[key] = entry
}

func (g *CachedGeocoder) sharedGet(ctx context.Context, key string) (redis.GeocodeEntry, bool) {
	if g.shared == nil {
		return redis.GeocodeEntry{}, false
	}
	entry, ok, err := g.shared.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "Shared geocode cache read failed", "location", key, "error", err)
		g.fail("redis")
		return redis.GeocodeEntry{}, false
	}
	if ok {
		g.hit("redis")
	} else {
		g.miss("redis")
	}
	return entry, ok
}

func (g *CachedGeocoder) sharedSet(ctx context.Context, key string, entry redis.GeocodeEntry) {
	if g.shared == nil {
		return
	}
	if err := g.shared.Set(ctx, key, entry); err != nil {
		slog.WarnContext(ctx, "Shared geocode cache write failed", "location", key, "error", err)
		g.fail("redis")
	}
}

func (g *CachedGeocoder) hit(layer string) {
	if g.metrics != nil {
		g.metrics.Hits.WithLabelValues(layer).Inc()
	}
}

func (g *CachedGeocoder) miss(layer string) {
	if g.metrics != nil {
		g.metrics.Misses.WithLabelValues(layer).Inc()
	}
}

func (g *CachedGeocoder) fail(layer string) {
	if g.metrics != nil {
		g.metrics.Errors.WithLabelValues(layer).Inc()
	}
}

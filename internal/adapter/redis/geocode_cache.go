package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pscheid92/nlpnavigator/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// GeocodeEntry is a cached lookup. Found is false for places the geocoder did not know.
type GeocodeEntry struct {
	Found  bool               `json:"found"`
	Coords domain.Coordinates `json:"coords"`
}

// GeocodeCache shares resolved locations between processes.
type GeocodeCache struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

func NewGeocodeCache(rdb goredis.Cmdable, ttl time.Duration) *GeocodeCache {
	return &GeocodeCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached entry. A miss is (zero, false, nil).
func (c *GeocodeCache) Get(ctx context.Context, location string) (GeocodeEntry, bool, error) {
	data, err := c.rdb.Get(ctx, geocodeCacheKey(location)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return GeocodeEntry{}, false, nil
	}
	if err != nil {
		return GeocodeEntry{}, false, fmt.Errorf("redis geocode cache GET failed: %w", err)
	}

	var entry GeocodeEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return GeocodeEntry{}, false, fmt.Errorf("failed to unmarshal cached geocode: %w", err)
	}
	return entry, true, nil
}

func (c *GeocodeCache) Set(ctx context.Context, location string, entry GeocodeEntry) error {
	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal geocode: %w", err)
	}
	if err := c.rdb.Set(ctx, geocodeCacheKey(location), encoded, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis geocode cache SET failed: %w", err)
	}
	return nil
}

// geocodeCacheKey normalises case and surrounding whitespace so "Berlin " and "berlin" share an entry.
func geocodeCacheKey(location string) string {
	return "geocode:" + strings.ToLower(strings.TrimSpace(location))
}

// Package geocode resolves free-text locations through Nominatim, pacing remote
// requests and caching answers in memory and, optionally, in Redis.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/platform/retry"
)

// ErrRateLimited is returned when Nominatim keeps answering 429.
var ErrRateLimited = errors.New("geocoder rate limited")

type rateLimitedError struct {
	retryAfter time.Duration
}

func (e *rateLimitedError) Error() string             { return ErrRateLimited.Error() }
func (e *rateLimitedError) Unwrap() error             { return ErrRateLimited }
func (e *rateLimitedError) RetryAfter() time.Duration { return e.retryAfter }

// parseRetryAfter reads the delay-seconds form of Retry-After.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// Nominatim is the remote lookup. Requests are serialised and each one is preceded
// by a fixed delay, which keeps the client inside the public usage policy.
type Nominatim struct {
	baseURL    string
	userAgent  string
	delay      time.Duration
	httpClient *http.Client
	clock      clockwork.Clock
	policy     retry.Policy

	mu sync.Mutex
}

type NominatimOptions struct {
	BaseURL   string
	UserAgent string
	Delay     time.Duration
	Timeout   time.Duration
	Clock     clockwork.Clock // nil means the real clock
}

func NewNominatim(opts NominatimOptions) *Nominatim {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Nominatim{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		delay:      opts.Delay,
		httpClient: &http.Client{Timeout: opts.Timeout},
		clock:      clock,
		policy: retry.Policy{
			MaxAttempts:      3,
			InitialBackoff:   opts.Delay,
			RateLimitBackoff: 5 * time.Second,
			MaxBackoff:       time.Minute,
			Clock:            clock,
		},
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (n *Nominatim) Geocode(ctx context.Context, location string) (domain.Coordinates, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	return retry.Do(ctx, n.policy, classify, func() (domain.Coordinates, error) {
		if err := n.wait(ctx); err != nil {
			return domain.Coordinates{}, err
		}
		return n.search(ctx, location)
	})
}

func classify(err error) retry.Action {
	if errors.Is(err, ErrRateLimited) {
		return retry.After
	}
	return retry.Stop
}

func (n *Nominatim) wait(ctx context.Context) error {
	if n.delay <= 0 {
		return nil
	}
	select {
	case <-n.clock.After(n.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Nominatim) search(ctx context.Context, location string) (domain.Coordinates, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.Coordinates{}, &rateLimitedError{retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode != http.StatusOK:
		return domain.Coordinates{}, fmt.Errorf("geocoder returned HTTP %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinates{}, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("%w: %q", domain.ErrLocationNotFound, location)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}
	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}

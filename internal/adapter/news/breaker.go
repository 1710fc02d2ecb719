// Package news fetches articles (NewsAPI, or Google News RSS without a key) and web
// search results (Google Custom Search) for the news sentiment page.
package news

import (
	"log/slog"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	"github.com/pscheid92/nlpnavigator/internal/domain"
)

// guard fails fast for a minute after three consecutive upstream failures.
type guard struct {
	name    string
	cb      circuitbreaker.CircuitBreaker[any]
	metrics *metrics.ModelMetrics
}

func newGuard(name string, m *metrics.ModelMetrics) *guard {
	cb := circuitbreaker.NewBuilder[any]().
		WithFailureThreshold(3).
		WithDelay(time.Minute).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed", "component", name, "from", e.OldState.String(), "to", e.NewState.String())
			if m != nil {
				m.BreakerTrips.WithLabelValues(name, e.NewState.String()).Inc()
			}
		}).
		Build()
	return &guard{name: name, cb: cb, metrics: m}
}

func run[T any](g *guard, fn func() (T, error)) (T, error) {
	var zero T
	if !g.cb.TryAcquirePermit() {
		g.observe("rejected", 0)
		return zero, domain.ErrModelUnavailable
	}

	start := time.Now()
	v, err := fn()
	if err != nil {
		g.cb.RecordError(err)
		g.observe("error", time.Since(start))
		return zero, err
	}
	g.cb.RecordSuccess()
	g.observe("ok", time.Since(start))
	return v, nil
}

func (g *guard) observe(result string, d time.Duration) {
	if g.metrics == nil {
		return
	}
	g.metrics.Calls.WithLabelValues(g.name, result).Inc()
	if d > 0 {
		g.metrics.CallDuration.WithLabelValues(g.name).Observe(d.Seconds())
	}
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	goredis "github.com/redis/go-redis/v9"
)

const breakerComponent = "redis"

// CircuitBreakerHook fails every command fast while Redis is unreachable.
// Redis only backs the geocode cache, so callers treat ErrOpen as a miss.
type CircuitBreakerHook struct {
	cb circuitbreaker.CircuitBreaker[any]
}

var _ goredis.Hook = (*CircuitBreakerHook)(nil)

// NewCircuitBreakerHook opens at a 60% failure rate over at least 5 requests in a
// 10s window, waits 30s before probing, and closes after one successful probe.
func NewCircuitBreakerHook(m *metrics.ModelMetrics) *CircuitBreakerHook {
	cb := circuitbreaker.NewBuilder[any]().
		WithFailureRateThreshold(0.6, 5, 10*time.Second).
		WithDelay(30 * time.Second).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Geocode cache breaker changed state", "from", e.OldState.String(), "to", e.NewState.String())
			if m != nil {
				m.BreakerTrips.WithLabelValues(breakerComponent, e.NewState.String()).Inc()
				m.BreakerState.WithLabelValues(breakerComponent).Set(breakerGauge(e.NewState))
			}
		}).
		Build()

	return &CircuitBreakerHook{cb: cb}
}

func breakerGauge(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

// guard runs op under the breaker. Nil replies are answers, and a request
// abandoned by its own caller says nothing about Redis health.
func (h *CircuitBreakerHook) guard(ctx context.Context, what string, op func() error) error {
	if !h.cb.TryAcquirePermit() {
		return fmt.Errorf("redis %s: %w", what, circuitbreaker.ErrOpen)
	}

	err := op()
	switch {
	case err == nil, errors.Is(err, goredis.Nil):
		h.cb.RecordSuccess()
		return err
	case ctx.Err() != nil:
		h.cb.RecordSuccess()
		return fmt.Errorf("redis %s: %w", what, err)
	default:
		h.cb.RecordError(err)
		return fmt.Errorf("redis %s: %w", what, err)
	}
}

func (h *CircuitBreakerHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		var conn net.Conn
		err := h.guard(ctx, "dial", func() error {
			var err error
			conn, err = next(ctx, network, addr)
			return err
		})
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

func (h *CircuitBreakerHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		return h.guard(ctx, cmd.Name(), func() error { return next(ctx, cmd) })
	}
}

func (h *CircuitBreakerHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		return h.guard(ctx, "pipeline", func() error { return next(ctx, cmds) })
	}
}

func (h *CircuitBreakerHook) State() circuitbreaker.State {
	return h.cb.State()
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// ModelMetrics holds Prometheus metrics for outbound model and API calls.
type ModelMetrics struct {
	Calls         *prometheus.CounterVec
	CallDuration  *prometheus.HistogramVec
	BreakerState  *prometheus.GaugeVec
	BreakerTrips  *prometheus.CounterVec
	ScoresBySrc   *prometheus.CounterVec
	DegradedPages *prometheus.CounterVec
}

// NewModelMetrics creates and registers model call metrics on the given registry.
func NewModelMetrics(reg prometheus.Registerer) *ModelMetrics {
	m := &ModelMetrics{
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "calls_total",
			Help:      "Total number of outbound model and API calls, by target and result.",
		}, []string{"target", "result"}),
		CallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "call_duration_seconds",
			Help:      "Duration of outbound model and API calls in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}, []string{"target"}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "circuit_breaker",
			Name:      "state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open), by component.",
		}, []string{"component"}),
		BreakerTrips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "circuit_breaker",
			Name:      "state_changes_total",
			Help:      "Total number of circuit breaker state changes, by component and new state.",
		}, []string{"component", "state"}),
		ScoresBySrc: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sentiment",
			Name:      "scores_total",
			Help:      "Total number of sentiment scores, by source (too_short, keyword, model, degraded).",
		}, []string{"source"}),
		DegradedPages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_results_total",
			Help:      "Total number of page results served with a fallback, by feature.",
		}, []string{"feature"}),
	}

	reg.MustRegister(m.Calls, m.CallDuration, m.BreakerState, m.BreakerTrips, m.ScoresBySrc, m.DegradedPages)
	return m
}

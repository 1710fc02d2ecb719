package metrics

import "github.com/prometheus/client_golang/prometheus"

// StoreMetrics holds Prometheus metrics for the record stores.
type StoreMetrics struct {
	Appends      *prometheus.CounterVec
	LockWait     *prometheus.HistogramVec
	Registration *prometheus.CounterVec
}

// NewStoreMetrics creates and registers record store metrics on the given registry.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Appends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "appends_total",
			Help:      "Total number of record appends, by store and result.",
		}, []string{"store", "result"}),
		LockWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for the store file lock in seconds.",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"store"}),
		Registration: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Total number of registration and login attempts, by event and result.",
		}, []string{"event", "result"}),
	}

	reg.MustRegister(m.Appends, m.LockWait, m.Registration)
	return m
}

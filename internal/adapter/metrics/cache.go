package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics holds Prometheus metrics for geocode cache performance.
type CacheMetrics struct {
	Hits   *prometheus.CounterVec
	Misses *prometheus.CounterVec
	Errors *prometheus.CounterVec
}

// NewCacheMetrics creates and registers geocode cache metrics on the given registry.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "geocode_cache",
			Name:      "hits_total",
			Help:      "Total number of geocode cache hits, by layer.",
		}, []string{"layer"}),
		Misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "geocode_cache",
			Name:      "misses_total",
			Help:      "Total number of geocode cache misses, by layer.",
		}, []string{"layer"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "geocode_cache",
			Name:      "errors_total",
			Help:      "Total number of geocode cache read or write failures, by layer.",
		}, []string{"layer"}),
	}

	reg.MustRegister(m.Hits, m.Misses, m.Errors)
	return m
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AnalyticsMetrics records memo cache effectiveness and computation latency.
type AnalyticsMetrics struct {
	hits     *prometheus.CounterVec
	misses   *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewAnalyticsMetrics registers the analytics metrics on the provided registerer.
func NewAnalyticsMetrics(reg prometheus.Registerer) *AnalyticsMetrics {
	if reg == nil {
		return &AnalyticsMetrics{}
	}
	hits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_cache_hits_total",
		Help: "Memoized analytics results served from cache.",
	}, []string{"kind"})
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_cache_misses_total",
		Help: "Analytics results recomputed because no cached value existed.",
	}, []string{"kind"})
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_cache_errors_total",
		Help: "Cache read/write failures that fell back to recomputation.",
	}, []string{"kind", "op"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analytics_compute_duration_seconds",
		Help:    "Duration of analytics recomputations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	reg.MustRegister(hits, misses, errs, duration)
	return &AnalyticsMetrics{
		hits:     hits,
		misses:   misses,
		errors:   errs,
		duration: duration,
	}
}

// IncHit increments the cache hit counter for kind.
func (m *AnalyticsMetrics) IncHit(kind string) {
	if m == nil || m.hits == nil {
		return
	}
	m.hits.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncMiss increments the cache miss counter for kind.
func (m *AnalyticsMetrics) IncMiss(kind string) {
	if m == nil || m.misses == nil {
		return
	}
	m.misses.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncError increments the cache error counter for kind and operation.
func (m *AnalyticsMetrics) IncError(kind, op string) {
	if m == nil || m.errors == nil {
		return
	}
	m.errors.WithLabelValues(normalizeLabel(kind), normalizeLabel(op)).Inc()
}

// ObserveCompute records how long a recomputation for kind took.
func (m *AnalyticsMetrics) ObserveCompute(kind string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(kind)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

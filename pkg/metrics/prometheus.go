package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetches     *prometheus.CounterVec
	fetchErrors *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_provider_fetches_total",
				Help: "Total number of upstream provider fetches",
			},
			[]string{"provider", "symbol"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_provider_fetch_errors_total",
				Help: "Total number of failed upstream provider fetches",
			},
			[]string{"provider"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketlens_provider_fetch_duration_seconds",
				Help:    "Duration of upstream provider fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache"},
		),
		cacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache"},
		),
	}
}

// RecordFetch records one upstream fetch for a provider and symbol.
func (r *Recorder) RecordFetch(provider, symbol string) {
	r.fetches.WithLabelValues(provider, symbol).Inc()
}

// RecordFetchError records a failed upstream fetch.
func (r *Recorder) RecordFetchError(provider string) {
	r.fetchErrors.WithLabelValues(provider).Inc()
}

// RecordFetchLatency records upstream fetch latency in seconds.
func (r *Recorder) RecordFetchLatency(provider string, seconds float64) {
	r.latency.WithLabelValues(provider).Observe(seconds)
}

// RecordCacheHit records a hit on the named cache.
func (r *Recorder) RecordCacheHit(name string) {
	r.cacheHits.WithLabelValues(name).Inc()
}

// RecordCacheMiss records a miss on the named cache.
func (r *Recorder) RecordCacheMiss(name string) {
	r.cacheMisses.WithLabelValues(name).Inc()
}

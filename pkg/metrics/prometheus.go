package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal *prometheus.CounterVec
	cacheTotal   *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	universeSize prometheus.Gauge
	scores       *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_fetches_total",
				Help: "Total provider fetches by provider and data kind",
			},
			[]string{"provider", "kind"},
		),
		cacheTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_cache_requests_total",
				Help: "Cache lookups by result (hit or miss)",
			},
			[]string{"result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		universeSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "stockpulse_universe_size",
				Help: "Number of instruments in the screened universe",
			},
		),
		scores: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_composite_score",
				Help: "Latest composite score per symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordFetch records one provider call.
func (r *Recorder) RecordFetch(provider, kind string) {
	r.fetchesTotal.WithLabelValues(provider, kind).Inc()
}

// RecordCache records a cache lookup result.
func (r *Recorder) RecordCache(result string) {
	r.cacheTotal.WithLabelValues(result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordUniverseSize records the screened universe size.
func (r *Recorder) RecordUniverseSize(n int) {
	r.universeSize.Set(float64(n))
}

// RecordScore records a symbol's composite score.
func (r *Recorder) RecordScore(symbol string, score int) {
	r.scores.WithLabelValues(symbol).Set(float64(score))
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	chartsComputed *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	computeLatency prometheus.Histogram
	ephemerisCalls *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		chartsComputed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trueark_charts_computed_total",
				Help: "Total number of charts computed and validated",
			},
			[]string{"mode"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trueark_errors_total",
				Help: "Total number of errors by kind",
			},
			[]string{"kind"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trueark_chart_cache_lookups_total",
				Help: "Chart cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		computeLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trueark_chart_compute_seconds",
				Help:    "Full chart pipeline duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ephemerisCalls: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trueark_ephemeris_call_seconds",
				Help:    "Duration of individual ephemeris provider calls",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"op"},
		),
	}
}

// RecordChartComputed records a successfully validated chart.
func (r *Recorder) RecordChartComputed(mode string) {
	r.chartsComputed.WithLabelValues(mode).Inc()
}

// RecordError records an error occurrence by kind.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordComputeLatency records the full pipeline duration in seconds.
func (r *Recorder) RecordComputeLatency(seconds float64) {
	r.computeLatency.Observe(seconds)
}

// RecordEphemerisCall records one provider call duration.
func (r *Recorder) RecordEphemerisCall(op string, seconds float64) {
	r.ephemerisCalls.WithLabelValues(op).Observe(seconds)
}

// RecordCacheHit records a chart cache lookup outcome.
func (r *Recorder) RecordCacheHit(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheLookups.WithLabelValues(outcome).Inc()
}

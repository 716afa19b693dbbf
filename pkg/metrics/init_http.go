package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analyses of large models take seconds, reads of cached reports take
// microseconds; the buckets cover both.
var apiLatencyBuckets = []float64{0.001, 0.005, 0.025, 0.1, 0.25, 1, 2.5, 10, 30}

// Report documents range from a few KiB to tens of MiB.
var apiResponseBuckets = prometheus.ExponentialBuckets(1<<10, 4, 8)

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ormlens_api_requests_total",
			Help: "API requests by method, route pattern and response status",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ormlens_api_request_duration_seconds",
			Help:    "API request latency by route, analysis time included",
			Buckets: apiLatencyBuckets,
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ormlens_api_requests_in_flight",
			Help: "API requests currently being served",
		},
	)

	r.HTTPResponseSizeBytes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ormlens_api_response_bytes",
			Help:    "API response body size by route",
			Buckets: apiResponseBuckets,
		},
		[]string{"method", "route"},
	)
}

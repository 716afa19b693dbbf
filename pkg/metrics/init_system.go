package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process gauges are refreshed by UpdateSystemMetrics, which the server
// calls on a ticker.
func (r *Registry) initSystemMetrics() {
	r.UptimeSeconds = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ormlens_server_uptime_seconds",
			Help: "Seconds since the analysis server started",
		},
	)

	r.Goroutines = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ormlens_server_goroutines",
			Help: "Goroutines running, batch analysis workers included",
		},
	)

	r.HeapInUseBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ormlens_server_heap_inuse_bytes",
			Help: "Heap bytes in use by cached reports and running analyses",
		},
	)

	r.GCCycles = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ormlens_server_gc_cycles",
			Help: "Completed garbage collection cycles",
		},
	)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initServerMetrics() {
	r.ReportCacheEntries = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ormlens_report_cache_entries",
			Help: "Reports currently held in the in-memory cache",
		},
	)

	r.ReportCacheLookups = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ormlens_report_cache_lookups_total",
			Help: "Report cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	r.EventsPublished = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ormlens_events_published_total",
			Help: "Report events published by transport (inproc, nng)",
		},
		[]string{"transport"},
	)

	r.AuthFailuresTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "ormlens_auth_failures_total",
			Help: "Requests rejected for a missing or invalid bearer token",
		},
	)

	r.ModelsLoadedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ormlens_models_loaded_total",
			Help: "Entity models loaded by format and outcome",
		},
		[]string{"format", "status"},
	)

	r.SchemaInspectsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ormlens_schema_inspections_total",
			Help: "Database schema inspections by driver and outcome",
		},
		[]string{"driver", "status"},
	)
}

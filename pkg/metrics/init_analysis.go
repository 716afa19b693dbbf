package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAnalysisMetrics() {
	r.AnalysesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ormlens_analyses_total",
			Help: "Total number of model analyses by outcome (complete, truncated)",
		},
		[]string{"status"},
	)

	r.AnalysisDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ormlens_analysis_duration_seconds",
			Help:    "Duration of a single model analysis in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 30},
		},
	)

	r.AnalysisEntities = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ormlens_analysis_entities",
			Help:    "Number of entities per analyzed model",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	r.FindingsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ormlens_findings_total",
			Help: "Total number of findings emitted by severity",
		},
		[]string{"severity"},
	)

	r.TruncatedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ormlens_truncated_total",
			Help: "Searches that stopped at a limit or deadline, by stage",
		},
		[]string{"stage"},
	)

	r.RolesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ormlens_roles_total",
			Help: "Entities classified per DDD role",
		},
		[]string{"role"},
	)

	r.PathQueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ormlens_path_queries_total",
			Help: "Path enumeration requests by outcome",
		},
		[]string{"status"},
	)
}

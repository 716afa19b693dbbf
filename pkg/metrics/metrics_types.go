package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// API Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Analysis Metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	AnalysisEntities prometheus.Histogram
	FindingsTotal    *prometheus.CounterVec
	TruncatedTotal   *prometheus.CounterVec
	RolesTotal       *prometheus.CounterVec
	PathQueriesTotal *prometheus.CounterVec

	// Server Metrics
	ReportCacheEntries  prometheus.Gauge
	ReportCacheLookups  *prometheus.CounterVec
	EventsPublished     *prometheus.CounterVec
	AuthFailuresTotal   prometheus.Counter
	ModelsLoadedTotal   *prometheus.CounterVec
	SchemaInspectsTotal *prometheus.CounterVec

	// Process Metrics
	UptimeSeconds  prometheus.Gauge
	Goroutines     prometheus.Gauge
	HeapInUseBytes prometheus.Gauge
	GCCycles       prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time
	mu        sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
	}

	r.initHTTPMetrics()
	r.initAnalysisMetrics()
	r.initServerMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

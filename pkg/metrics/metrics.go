package metrics

import (
	"runtime"
	"time"
)

// Analysis outcome labels
const (
	StatusComplete  = "complete"
	StatusTruncated = "truncated"
	StatusSuccess   = "success"
	StatusError     = "error"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordResponseSize records the size of an HTTP response body
func (r *Registry) RecordResponseSize(method, path string, size float64) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(size)
}

// IncHTTPRequestsInFlight marks the start of a request
func (r *Registry) IncHTTPRequestsInFlight() { r.HTTPRequestsInFlight.Inc() }

// DecHTTPRequestsInFlight marks the end of a request
func (r *Registry) DecHTTPRequestsInFlight() { r.HTTPRequestsInFlight.Dec() }

// AnalysisObservation summarizes one analysis run for the registry
type AnalysisObservation struct {
	Duration  time.Duration
	Entities  int
	Findings  map[string]int // by severity
	Roles     map[string]int // by role
	Truncated []string       // stages that stopped early
}

// RecordAnalysis records the outcome of one analysis run
func (r *Registry) RecordAnalysis(obs AnalysisObservation) {
	status := StatusComplete
	if len(obs.Truncated) > 0 {
		status = StatusTruncated
	}
	r.AnalysesTotal.WithLabelValues(status).Inc()
	r.AnalysisDuration.Observe(obs.Duration.Seconds())
	r.AnalysisEntities.Observe(float64(obs.Entities))

	for severity, n := range obs.Findings {
		r.FindingsTotal.WithLabelValues(severity).Add(float64(n))
	}
	for role, n := range obs.Roles {
		r.RolesTotal.WithLabelValues(role).Add(float64(n))
	}
	for _, stage := range obs.Truncated {
		r.TruncatedTotal.WithLabelValues(stage).Inc()
	}
}

// RecordPathQuery records a path enumeration request
func (r *Registry) RecordPathQuery(truncated bool) {
	status := StatusComplete
	if truncated {
		status = StatusTruncated
	}
	r.PathQueriesTotal.WithLabelValues(status).Inc()
}

// RecordCacheLookup records a report cache hit or miss
func (r *Registry) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.ReportCacheLookups.WithLabelValues(result).Inc()
}

// RecordModelLoad records loading one entity model
func (r *Registry) RecordModelLoad(format string, err error) {
	r.ModelsLoadedTotal.WithLabelValues(format, statusOf(err)).Inc()
}

// RecordSchemaInspection records one database schema inspection
func (r *Registry) RecordSchemaInspection(driver string, err error) {
	r.SchemaInspectsTotal.WithLabelValues(driver, statusOf(err)).Inc()
}

// UpdateSystemMetrics refreshes the process gauges
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(r.startTime).Seconds())
	r.Goroutines.Set(float64(runtime.NumGoroutine()))
	r.HeapInUseBytes.Set(float64(m.HeapInuse))
	r.GCCycles.Set(float64(m.NumGC))
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

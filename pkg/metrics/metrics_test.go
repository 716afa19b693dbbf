package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal not initialized")
	}
	if r.AnalysesTotal == nil {
		t.Error("AnalysesTotal not initialized")
	}
	if r.ReportCacheEntries == nil {
		t.Error("ReportCacheEntries not initialized")
	}
	if r.UptimeSeconds == nil {
		t.Error("UptimeSeconds not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()

	r.RecordHTTPRequest("POST", "/api/v1/analyze", "200", 100*time.Millisecond)
	r.RecordHTTPRequest("POST", "/api/v1/analyze", "200", 200*time.Millisecond)
	r.RecordHTTPRequest("GET", "/api/v1/reports/{id}", "404", 50*time.Millisecond)

	counter, err := r.HTTPRequestsTotal.GetMetricWithLabelValues("POST", "/api/v1/analyze", "200")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if got := counterValue(t, counter); got != 2 {
		t.Errorf("Counter value = %v, want 2", got)
	}
}

func TestRecordAnalysis(t *testing.T) {
	r := NewRegistry()

	r.RecordAnalysis(AnalysisObservation{
		Duration: 5 * time.Millisecond,
		Entities: 12,
		Findings: map[string]int{"ERROR": 3, "INFO": 4},
		Roles:    map[string]int{"AGGREGATE_ROOT": 2},
	})
	r.RecordAnalysis(AnalysisObservation{
		Duration:  time.Second,
		Entities:  500,
		Truncated: []string{"deep_cycles"},
	})

	complete, _ := r.AnalysesTotal.GetMetricWithLabelValues(StatusComplete)
	if got := counterValue(t, complete); got != 1 {
		t.Errorf("complete analyses = %v, want 1", got)
	}
	truncated, _ := r.AnalysesTotal.GetMetricWithLabelValues(StatusTruncated)
	if got := counterValue(t, truncated); got != 1 {
		t.Errorf("truncated analyses = %v, want 1", got)
	}

	errorsFound, _ := r.FindingsTotal.GetMetricWithLabelValues("ERROR")
	if got := counterValue(t, errorsFound); got != 3 {
		t.Errorf("ERROR findings = %v, want 3", got)
	}
	stage, _ := r.TruncatedTotal.GetMetricWithLabelValues("deep_cycles")
	if got := counterValue(t, stage); got != 1 {
		t.Errorf("deep_cycles truncations = %v, want 1", got)
	}
	roots, _ := r.RolesTotal.GetMetricWithLabelValues("AGGREGATE_ROOT")
	if got := counterValue(t, roots); got != 2 {
		t.Errorf("AGGREGATE_ROOT = %v, want 2", got)
	}
}

func TestRecordLoadsAndLookups(t *testing.T) {
	r := NewRegistry()

	r.RecordModelLoad("yaml", nil)
	r.RecordModelLoad("json", errors.New("bad input"))
	r.RecordSchemaInspection("sqlite", nil)
	r.RecordCacheLookup(true)
	r.RecordCacheLookup(false)
	r.RecordCacheLookup(false)
	r.RecordPathQuery(true)

	failed, _ := r.ModelsLoadedTotal.GetMetricWithLabelValues("json", StatusError)
	if got := counterValue(t, failed); got != 1 {
		t.Errorf("failed json loads = %v, want 1", got)
	}
	misses, _ := r.ReportCacheLookups.GetMetricWithLabelValues("miss")
	if got := counterValue(t, misses); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}
	inspected, _ := r.SchemaInspectsTotal.GetMetricWithLabelValues("sqlite", StatusSuccess)
	if got := counterValue(t, inspected); got != 1 {
		t.Errorf("sqlite inspections = %v, want 1", got)
	}
	paths, _ := r.PathQueriesTotal.GetMetricWithLabelValues(StatusTruncated)
	if got := counterValue(t, paths); got != 1 {
		t.Errorf("truncated path queries = %v, want 1", got)
	}
}

func TestUpdateSystemMetrics(t *testing.T) {
	r := NewRegistry()
	r.UpdateSystemMetrics()

	var metric dto.Metric
	if err := r.Goroutines.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() < 1 {
		t.Errorf("Goroutines = %v, want >= 1", metric.Gauge.GetValue())
	}

	metric.Reset()
	if err := r.HeapInUseBytes.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Gauge.GetValue() <= 0 {
		t.Errorf("HeapInUseBytes = %v, want > 0", metric.Gauge.GetValue())
	}
}

func TestMetricNamesUseOrmlensPrefix(t *testing.T) {
	r := NewRegistry()
	r.RecordHTTPRequest("GET", "/health", "200", time.Millisecond)
	r.RecordAnalysis(AnalysisObservation{Entities: 1})

	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("Expected gathered metric families")
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "ormlens_") {
			t.Errorf("Metric %s lacks ormlens_ prefix", mf.GetName())
		}
	}
}

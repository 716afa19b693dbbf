package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestNewHealthChecker(t *testing.T) {
	hc := NewHealthChecker()

	for name, resp := range map[string]Response{
		"health":    hc.Check(),
		"readiness": hc.CheckReadiness(),
		"liveness":  hc.CheckLiveness(),
	} {
		if resp.Status != StatusHealthy {
			t.Errorf("%s: expected healthy with no checks, got %s", name, resp.Status)
		}
		if len(resp.Checks) != 0 {
			t.Errorf("%s: expected no checks, got %d", name, len(resp.Checks))
		}
	}
}

func TestCheckSetsAreSeparate(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("general", SimpleCheck("general"))
	hc.RegisterReadinessCheck("ready", SimpleCheck("ready"))
	hc.RegisterLivenessCheck("live", SimpleCheck("live"))

	if _, ok := hc.Check().Checks["general"]; !ok {
		t.Error("expected general check in health response")
	}
	if _, ok := hc.CheckReadiness().Checks["ready"]; !ok {
		t.Error("expected ready check in readiness response")
	}
	if got := len(hc.CheckLiveness().Checks); got != 1 {
		t.Errorf("expected 1 liveness check, got %d", got)
	}
}

func TestCheckStatusAggregation(t *testing.T) {
	tests := []struct {
		name           string
		checkStatuses  []Status
		expectedStatus Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"one unhealthy", []Status{StatusHealthy, StatusUnhealthy}, StatusUnhealthy},
		{"degraded and unhealthy", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
		{"no checks", nil, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			for i, status := range tt.checkStatuses {
				s := status
				hc.RegisterCheck(string(rune('a'+i)), func() Check { return Check{Status: s} })
			}

			if resp := hc.Check(); resp.Status != tt.expectedStatus {
				t.Errorf("expected status %s, got %s", tt.expectedStatus, resp.Status)
			}
		})
	}
}

func TestCheckMetadata(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("slow", func() Check {
		time.Sleep(5 * time.Millisecond)
		return Check{Status: StatusHealthy}
	})

	before := time.Now()
	check := hc.Check().Checks["slow"]

	if check.Name != "slow" {
		t.Errorf("expected name filled from registration, got %q", check.Name)
	}
	if check.Duration < 5*time.Millisecond {
		t.Errorf("expected duration >= 5ms, got %v", check.Duration)
	}
	if check.LastChecked.Before(before.Add(-time.Second)) {
		t.Errorf("unexpected LastChecked %v", check.LastChecked)
	}
}

func TestClassifierCheck(t *testing.T) {
	registered := func() []string { return []string{"cascade", "heuristic"} }

	if got := ClassifierCheck("heuristic", registered)().Status; got != StatusHealthy {
		t.Errorf("expected healthy, got %s", got)
	}
	if got := ClassifierCheck("astrology", registered)().Status; got != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", got)
	}
}

func TestCacheCheck(t *testing.T) {
	tests := []struct {
		entries  int
		capacity int
		want     Status
	}{
		{0, 10, StatusHealthy},
		{9, 10, StatusHealthy},
		{10, 10, StatusDegraded},
		{5, 0, StatusHealthy},
	}

	for _, tt := range tests {
		n := tt.entries
		check := CacheCheck(func() int { return n }, tt.capacity)()
		if check.Status != tt.want {
			t.Errorf("CacheCheck(%d/%d) = %s, want %s", tt.entries, tt.capacity, check.Status, tt.want)
		}
		if check.Details["entries"] != tt.entries {
			t.Errorf("expected entries detail %d, got %v", tt.entries, check.Details["entries"])
		}
	}
}

func TestEventBridgeCheck(t *testing.T) {
	up := func() bool { return true }
	down := func() bool { return false }

	if got := EventBridgeCheck(false, down)().Status; got != StatusHealthy {
		t.Errorf("disabled bridge: expected healthy, got %s", got)
	}
	if got := EventBridgeCheck(true, up)().Status; got != StatusHealthy {
		t.Errorf("running bridge: expected healthy, got %s", got)
	}
	if got := EventBridgeCheck(true, down)().Status; got != StatusDegraded {
		t.Errorf("stopped bridge: expected degraded, got %s", got)
	}
}

func TestMemoryCheck(t *testing.T) {
	tests := []struct {
		name  string
		alloc uint64
		sys   uint64
		want  Status
	}{
		{"normal", 100, 1000, StatusHealthy},
		{"high", 950, 1000, StatusDegraded},
		{"no sys", 10, 0, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := MemoryCheck(func() (uint64, uint64) { return tt.alloc, tt.sys })()
			if check.Status != tt.want {
				t.Errorf("expected %s, got %s", tt.want, check.Status)
			}
		})
	}

	if got := MemoryCheck(nil)().Status; got == "" {
		t.Error("expected runtime memory check to report a status")
	}
}

func TestHTTPHandler(t *testing.T) {
	tests := []struct {
		name         string
		checkStatus  Status
		expectedCode int
	}{
		{"healthy returns 200", StatusHealthy, http.StatusOK},
		{"degraded returns 200", StatusDegraded, http.StatusOK},
		{"unhealthy returns 503", StatusUnhealthy, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			hc.RegisterCheck("test", func() Check { return Check{Status: tt.checkStatus} })

			rec := httptest.NewRecorder()
			hc.HTTPHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.expectedCode {
				t.Errorf("expected status code %d, got %d", tt.expectedCode, rec.Code)
			}
			if rec.Header().Get("Content-Type") != "application/json" {
				t.Error("expected Content-Type application/json")
			}

			var resp Response
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.checkStatus {
				t.Errorf("expected response status %s, got %s", tt.checkStatus, resp.Status)
			}
		})
	}
}

func TestReadinessAndLivenessHandlers(t *testing.T) {
	for _, status := range []Status{StatusHealthy, StatusDegraded, StatusUnhealthy} {
		hc := NewHealthChecker()
		s := status
		hc.RegisterReadinessCheck("r", func() Check { return Check{Status: s} })
		hc.RegisterLivenessCheck("l", func() Check { return Check{Status: s} })

		want := http.StatusServiceUnavailable
		if status == StatusHealthy {
			want = http.StatusOK
		}

		for name, h := range map[string]http.HandlerFunc{
			"ready": hc.ReadinessHandler(),
			"live":  hc.LivenessHandler(),
		} {
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/"+name, nil))
			if rec.Code != want {
				t.Errorf("%s with %s: expected %d, got %d", name, status, want, rec.Code)
			}
		}
	}
}

func TestConcurrentRegistrationAndChecks(t *testing.T) {
	hc := NewHealthChecker()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			hc.RegisterCheck(string(rune('a'+i)), SimpleCheck("x"))
		}(i)
		go func() {
			defer wg.Done()
			_ = hc.Check()
		}()
	}
	wg.Wait()

	if got := len(hc.Check().Checks); got != 10 {
		t.Errorf("expected 10 checks, got %d", got)
	}
}

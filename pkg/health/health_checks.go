package health

import (
	"runtime"
	"slices"
)

// SimpleCheck always reports healthy
func SimpleCheck(name string) CheckFunc {
	return func() Check {
		return Check{Name: name, Status: StatusHealthy}
	}
}

// ClassifierCheck reports unhealthy when the configured classifier is not
// among the registered ones.
func ClassifierCheck(configured string, registered func() []string) CheckFunc {
	return func() Check {
		names := registered()
		check := Check{
			Name:    "classifier",
			Details: map[string]any{"configured": configured, "registered": names},
		}
		if slices.Contains(names, configured) {
			check.Status = StatusHealthy
			check.Message = "Classifier available"
		} else {
			check.Status = StatusUnhealthy
			check.Message = "Classifier not registered"
		}
		return check
	}
}

// CacheCheck reports the report cache fill level. A full cache is degraded
// because every new report evicts an older one.
func CacheCheck(size func() int, capacity int) CheckFunc {
	return func() Check {
		n := size()
		check := Check{
			Name:    "report_cache",
			Details: map[string]any{"entries": n, "capacity": capacity},
		}
		if capacity > 0 && n >= capacity {
			check.Status = StatusDegraded
			check.Message = "Cache full, evicting reports"
		} else {
			check.Status = StatusHealthy
			check.Message = "Cache has room"
		}
		return check
	}
}

// EventBridgeCheck reports whether the external event bridge is up. A
// disabled bridge is healthy.
func EventBridgeCheck(enabled bool, running func() bool) CheckFunc {
	return func() Check {
		check := Check{Name: "event_bridge", Details: map[string]any{"enabled": enabled}}
		switch {
		case !enabled:
			check.Status = StatusHealthy
			check.Message = "Event bridge disabled"
		case running():
			check.Status = StatusHealthy
			check.Message = "Publishing events"
		default:
			check.Status = StatusDegraded
			check.Message = "Event bridge not running"
		}
		return check
	}
}

// MemoryCheck reports degraded when allocated heap exceeds 90% of memory
// obtained from the OS. getUsage defaults to runtime.ReadMemStats.
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	if getUsage == nil {
		getUsage = func() (uint64, uint64) {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			return m.Alloc, m.Sys
		}
	}
	return func() Check {
		alloc, sys := getUsage()
		check := Check{
			Name:    "memory",
			Details: map[string]any{"alloc_bytes": alloc, "sys_bytes": sys},
		}
		if sys > 0 && float64(alloc)/float64(sys) > 0.9 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}
		return check
	}
}

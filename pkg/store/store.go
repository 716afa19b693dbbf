// Package store keeps recently produced analysis reports in memory so the
// HTTP and GraphQL surfaces can serve them by id. Nothing is persisted.
package store

import (
	"errors"
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dd0wney/cluso-ormlens/pkg/analysis"
	"github.com/dd0wney/cluso-ormlens/pkg/metrics"
)

// ErrReportNotFound is returned for ids that were never stored or were evicted
var ErrReportNotFound = errors.New("report not found")

// DefaultSize is the cache capacity used when none is configured
const DefaultSize = 256

// ReportStore is a bounded LRU cache of reports keyed by report id. It is
// safe for concurrent use.
type ReportStore struct {
	cache   *lru.Cache[string, *analysis.Report]
	metrics *metrics.Registry
}

// New creates a store holding at most size reports. reg may be nil.
func New(size int, reg *metrics.Registry) (*ReportStore, error) {
	if size <= 0 {
		size = DefaultSize
	}

	s := &ReportStore{metrics: reg}
	cache, err := lru.NewWithEvict[string, *analysis.Report](size, func(string, *analysis.Report) {
		s.updateGauge()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create report cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

// Put stores a report, evicting the least recently used one when full.
func (s *ReportStore) Put(r *analysis.Report) {
	s.cache.Add(r.ID, r)
	s.updateGauge()
}

// Get returns the report with the given id.
func (s *ReportStore) Get(id string) (*analysis.Report, error) {
	r, ok := s.cache.Get(id)
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(ok)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	return r, nil
}

// List returns the cached reports, newest first.
func (s *ReportStore) List() []*analysis.Report {
	reports := s.cache.Values()
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports
}

// Delete removes a report and reports whether it was present.
func (s *ReportStore) Delete(id string) bool {
	ok := s.cache.Remove(id)
	s.updateGauge()
	return ok
}

// Len returns the number of cached reports
func (s *ReportStore) Len() int {
	return s.cache.Len()
}

func (s *ReportStore) updateGauge() {
	if s.metrics == nil || s.cache == nil {
		return
	}
	s.metrics.ReportCacheEntries.Set(float64(s.cache.Len()))
}

package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-ormlens/pkg/analysis"
	"github.com/dd0wney/cluso-ormlens/pkg/metrics"
)

func report(id string, age time.Duration) *analysis.Report {
	return &analysis.Report{ID: id, CreatedAt: time.Now().Add(-age)}
}

func TestPutGet(t *testing.T) {
	s, err := New(4, nil)
	require.NoError(t, err)

	s.Put(report("a", 0))

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	_, err = s.Get("b")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestEviction(t *testing.T) {
	s, err := New(2, nil)
	require.NoError(t, err)

	s.Put(report("a", 0))
	s.Put(report("b", 0))
	_, _ = s.Get("a") // a is now most recent
	s.Put(report("c", 0))

	_, err = s.Get("b")
	assert.ErrorIs(t, err, ErrReportNotFound)
	assert.Equal(t, 2, s.Len())
}

func TestListNewestFirst(t *testing.T) {
	s, err := New(0, nil)
	require.NoError(t, err)

	s.Put(report("old", time.Hour))
	s.Put(report("new", 0))
	s.Put(report("mid", time.Minute))

	var ids []string
	for _, r := range s.List() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"new", "mid", "old"}, ids)
}

func TestDelete(t *testing.T) {
	s, err := New(2, nil)
	require.NoError(t, err)

	s.Put(report("a", 0))
	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))
	assert.Equal(t, 0, s.Len())
}

func TestMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	s, err := New(1, reg)
	require.NoError(t, err)

	s.Put(report("a", 0))
	s.Put(report("b", 0))
	_, _ = s.Get("a")
	_, _ = s.Get("b")

	var m dto.Metric
	require.NoError(t, reg.ReportCacheEntries.Write(&m))
	assert.Equal(t, float64(1), m.Gauge.GetValue())

	for result, want := range map[string]float64{"hit": 1, "miss": 1} {
		c, err := reg.ReportCacheLookups.GetMetricWithLabelValues(result)
		require.NoError(t, err)
		require.NoError(t, c.Write(&m))
		assert.Equal(t, want, m.Counter.GetValue(), result)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s, err := New(16, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := fmt.Sprintf("%d-%d", i, j)
				s.Put(report(id, 0))
				_, _ = s.Get(id)
				_ = s.List()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 16, s.Len())
}

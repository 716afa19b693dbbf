package analysis

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-ormlens/pkg/ddd"
	"github.com/dd0wney/cluso-ormlens/pkg/logging"
	"github.com/dd0wney/cluso-ormlens/pkg/metrics"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
	"github.com/dd0wney/cluso-ormlens/pkg/rules"
)

func newAnalyzer(t *testing.T, opts Options) *Analyzer {
	t.Helper()
	a, err := New(opts, logging.NewNopLogger(), nil)
	require.NoError(t, err)
	return a
}

func entity(t *testing.T, r *Report, name string) model.EntityNode {
	t.Helper()
	e, ok := r.Entity(name)
	require.True(t, ok, "entity %s missing from report", name)
	return e
}

func TestAnalyze_ShippingDomain(t *testing.T) {
	report := newAnalyzer(t, DefaultOptions()).Analyze(context.Background(), shippingModel())

	cargo := entity(t, report, "Cargo")
	assert.Equal(t, model.RoleAggregateRoot, cargo.Role)
	assert.Equal(t, "Cargo", cargo.Aggregate)

	assert.Equal(t, model.RoleValueObject, entity(t, report, "Itinerary").Role)
	assert.Equal(t, "Cargo", entity(t, report, "DeliveryHistory").Aggregate)
	assert.Equal(t, "Cargo", entity(t, report, "HandlingEvent").Aggregate)

	voyage := entity(t, report, "Voyage")
	assert.Equal(t, model.RoleAggregateRoot, voyage.Role)
	assert.Equal(t, "Voyage", voyage.Aggregate)
	assert.Equal(t, "Voyage", entity(t, report, "CarrierMovement").Aggregate)

	location := entity(t, report, "Location")
	assert.Equal(t, model.RoleReferenceEntity, location.Role)
	assert.NotEqual(t, cargo.Aggregate, location.Aggregate)

	names := make([]string, 0, len(report.Aggregates))
	for _, agg := range report.Aggregates {
		names = append(names, agg.Name)
	}
	assert.Equal(t, []string{"Cargo", "Location", "Voyage"}, names)

	assert.True(t, report.Summary.Acyclic)
	assert.Equal(t, []string{"Cargo"}, report.Summary.Roots)
	assert.Equal(t, []string{"Location"}, report.Summary.Leaves)
	assert.False(t, report.Truncated)

	// Location is referenced from eight relationships
	var hub *model.Finding
	for i, f := range report.Findings {
		if f.Check == rules.CheckFanIn {
			hub = &report.Findings[i]
		}
	}
	require.NotNil(t, hub)
	assert.Equal(t, "Location", hub.Entity)

	// Cargo's lazy origin reference crosses into the Location aggregate
	found := false
	for _, c := range report.Cuts {
		if c.Source == "Cargo" && c.Target == "Location" && c.Action == ddd.ActionUseIDReference {
			found = true
		}
	}
	assert.True(t, found, "expected Cargo->Location cut, got %+v", report.Cuts)
}

func TestAnalyze_InputUntouched(t *testing.T) {
	input := shippingModel()
	before := model.CloneAll(input)

	newAnalyzer(t, DefaultOptions()).Analyze(context.Background(), input)

	assert.Equal(t, before, input)
}

func TestAnalyze_Idempotent(t *testing.T) {
	a := newAnalyzer(t, DefaultOptions())

	first := a.Analyze(context.Background(), shippingModel())
	second := a.Analyze(context.Background(), first.Entities)

	assert.Equal(t, first.Entities, second.Entities)
	assert.Equal(t, first.Findings, second.Findings)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestAnalyze_EmptyAndNilInput(t *testing.T) {
	a := newAnalyzer(t, DefaultOptions())

	for _, input := range [][]model.EntityNode{nil, {}} {
		report := a.Analyze(context.Background(), input)
		assert.Empty(t, report.Entities)
		assert.NotNil(t, report.Findings)
		assert.Equal(t, 0, report.Summary.EntityCount)
		assert.True(t, report.Summary.Acyclic)
	}
}

func TestAnalyze_DanglingAndDuplicates(t *testing.T) {
	input := []model.EntityNode{
		{Name: "Order", Relationships: []model.Relationship{ref("customer", "Customer")}},
		{Name: "Order", Package: "dupe"},
	}

	report := newAnalyzer(t, DefaultOptions()).Analyze(context.Background(), input)

	require.Len(t, report.Entities, 2)
	assert.Equal(t, []string{"Order"}, report.Summary.Duplicates)
	require.Len(t, report.Summary.Dangling, 1)
	assert.Equal(t, "Customer", report.Summary.Dangling[0].Target)
	assert.Equal(t, 0, report.Summary.RelationshipCount)
}

func TestAnalyze_DeadlineTruncates(t *testing.T) {
	// Dense cyclic model
	var input []model.EntityNode
	for i := 0; i < 40; i++ {
		n := model.EntityNode{Name: fmt.Sprintf("E%02d", i)}
		for j := 0; j < 40; j++ {
			if i != j {
				n.Relationships = append(n.Relationships, ref(fmt.Sprintf("r%d", j), fmt.Sprintf("E%02d", j)))
			}
		}
		input = append(input, n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	report := newAnalyzer(t, DefaultOptions()).Analyze(ctx, input)

	assert.True(t, report.Truncated)
	assert.Contains(t, report.TruncatedStages, rules.StageDeepCycles)
	last := report.Findings[len(report.Findings)-1]
	assert.Equal(t, rules.CheckTruncated, last.Check)

	// Everything still classified
	for _, e := range report.Entities {
		assert.NotEmpty(t, e.Role)
		assert.NotEmpty(t, e.Aggregate)
	}
}

func TestAnalyze_PropagationDepthTruncates(t *testing.T) {
	opts := DefaultOptions()
	opts.Limits.MaxDepth = 1

	input := []model.EntityNode{
		{Name: "A", Relationships: []model.Relationship{owned("b", "B", model.MappingOneToOne, true)}},
		{Name: "B", Relationships: []model.Relationship{owned("c", "C", model.MappingOneToOne, true)}},
		{Name: "C"},
	}

	report := newAnalyzer(t, opts).Analyze(context.Background(), input)
	assert.Contains(t, report.TruncatedStages, rules.StagePropagation)
}

func TestNew_UnknownClassifier(t *testing.T) {
	opts := DefaultOptions()
	opts.Classifier = "groovy"

	_, err := New(opts, nil, nil)
	assert.True(t, errors.Is(err, ddd.ErrUnknownClassifier))
}

func TestAnalyze_CascadeClassifier(t *testing.T) {
	opts := DefaultOptions()
	opts.Classifier = ddd.CascadeName

	a := newAnalyzer(t, opts)
	assert.Equal(t, ddd.CascadeName, a.Classifier())

	report := a.Analyze(context.Background(), shippingModel())
	assert.Equal(t, ddd.CascadeName, report.Classifier)
	// No relationship is on the owning side, so nothing qualifies as a root
	assert.Equal(t, 0, report.Summary.Roles[model.RoleAggregateRoot])
}

func TestAnalyze_RecordsMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	a, err := New(DefaultOptions(), nil, reg)
	require.NoError(t, err)

	a.Analyze(context.Background(), shippingModel())

	counter, err := reg.AnalysesTotal.GetMetricWithLabelValues(metrics.StatusComplete)
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, counter.Write(&m))
	assert.Equal(t, float64(1), m.Counter.GetValue())

	roots, err := reg.RolesTotal.GetMetricWithLabelValues(string(model.RoleAggregateRoot))
	require.NoError(t, err)
	require.NoError(t, roots.Write(&m))
	assert.Equal(t, float64(2), m.Counter.GetValue())
}

func TestPaths(t *testing.T) {
	a := newAnalyzer(t, DefaultOptions())

	result := a.Paths(context.Background(), shippingModel(), "Cargo", "Location")
	require.NotEmpty(t, result.Paths)
	assert.Equal(t, []string{"Cargo", "Location"}, result.Paths[0])
	assert.False(t, result.Truncated)

	none := a.Paths(context.Background(), shippingModel(), "Location", "Cargo")
	assert.Empty(t, none.Paths)
}

func TestAnalyzeBatch(t *testing.T) {
	a := newAnalyzer(t, DefaultOptions())

	models := [][]model.EntityNode{
		shippingModel(),
		{{Name: "Lonely"}},
		shippingModel(),
	}

	reports, err := a.AnalyzeBatch(context.Background(), models, 2)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Len(t, reports[1].Entities, 1)
	assert.True(t, reflect.DeepEqual(reports[0].Entities, reports[2].Entities))
	assert.NotEqual(t, reports[0].ID, reports[2].ID)
}

func TestAnalyzeBatch_NilContext(t *testing.T) {
	a := newAnalyzer(t, DefaultOptions())

	reports, err := a.AnalyzeBatch(nil, [][]model.EntityNode{shippingModel(), {{Name: "Lonely"}}}, 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Len(t, reports[0].Entities, len(shippingModel()))
	assert.False(t, reports[1].Truncated)
}

func TestReport_Filters(t *testing.T) {
	report := newAnalyzer(t, DefaultOptions()).Analyze(context.Background(), shippingModel())

	assert.Len(t, report.EntitiesByRole(model.RoleValueObject), 3)
	assert.Len(t, report.EntitiesByRole(""), len(report.Entities))

	for _, f := range report.FindingsBySeverity(model.SeverityInfo) {
		assert.Equal(t, model.SeverityInfo, f.Severity)
	}
	assert.Len(t, report.FindingsBySeverity(""), len(report.Findings))

	_, ok := report.Entity("Nope")
	assert.False(t, ok)
}

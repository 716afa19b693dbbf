package visualization

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/dd0wney/cluso-ormlens/pkg/graph"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

func entity(name string, targets ...string) model.EntityNode {
	n := model.EntityNode{Name: name, Kind: model.KindEntity}
	for _, t := range targets {
		n.Relationships = append(n.Relationships, model.Relationship{
			Attribute: "to" + t,
			Target:    t,
			Lazy:      true,
		})
	}
	return n
}

func chain() *graph.Graph {
	return graph.Build([]model.EntityNode{
		entity("A", "B"),
		entity("B", "C"),
		entity("C"),
	})
}

func checkBounds(t *testing.T, positions map[string]Position, width, height float64) {
	t.Helper()
	for name, pos := range positions {
		if pos.X < 0 || pos.X > width {
			t.Errorf("%s X position %f out of bounds", name, pos.X)
		}
		if pos.Y < 0 || pos.Y > height {
			t.Errorf("%s Y position %f out of bounds", name, pos.Y)
		}
	}
}

// TestForceDirectedLayout tests the force-directed layout algorithm
func TestForceDirectedLayout(t *testing.T) {
	layout := NewForceDirectedLayout(LayoutConfig{Width: 800, Height: 600, Iterations: 50, Seed: 7})

	positions := layout.ComputeLayout(chain())
	if len(positions) != 3 {
		t.Fatalf("Expected 3 positions, got %d", len(positions))
	}
	checkBounds(t, positions, 800, 600)

	again := layout.ComputeLayout(chain())
	if !reflect.DeepEqual(positions, again) {
		t.Error("Expected identical positions for the same seed")
	}
}

func TestForceDirectedLayout_SingleAndEmpty(t *testing.T) {
	layout := NewForceDirectedLayout(LayoutConfig{Width: 800, Height: 600})

	if got := layout.ComputeLayout(graph.Build(nil)); len(got) != 0 {
		t.Errorf("Expected no positions for empty graph, got %d", len(got))
	}

	positions := layout.ComputeLayout(graph.Build([]model.EntityNode{entity("Solo")}))
	if positions["Solo"] != (Position{X: 400, Y: 300}) {
		t.Errorf("Expected single vertex centered, got %+v", positions["Solo"])
	}
}

// TestCircularLayout tests the circular layout algorithm
func TestCircularLayout(t *testing.T) {
	g := graph.Build([]model.EntityNode{entity("A"), entity("B"), entity("C"), entity("D")})
	layout := NewCircularLayout(LayoutConfig{Width: 800, Height: 600, Padding: 50})

	positions := layout.ComputeLayout(g)
	if len(positions) != 4 {
		t.Fatalf("Expected 4 positions, got %d", len(positions))
	}

	// Radius is min(400, 300) - padding
	const radius = 250.0
	for name, pos := range positions {
		dist := math.Hypot(pos.X-400, pos.Y-300)
		if math.Abs(dist-radius) > 1e-9 {
			t.Errorf("%s at distance %f from center, expected %f", name, dist, radius)
		}
	}

	if first := positions["A"]; math.Abs(first.X-650) > 1e-9 || math.Abs(first.Y-300) > 1e-9 {
		t.Errorf("Expected first vertex at angle zero, got %+v", first)
	}
}

func TestHierarchicalLayout_Levels(t *testing.T) {
	tests := []struct {
		name  string
		nodes []model.EntityNode
		want  [][]string
	}{
		{
			name:  "chain",
			nodes: []model.EntityNode{entity("A", "B"), entity("B", "C"), entity("C")},
			want:  [][]string{{"A"}, {"B"}, {"C"}},
		},
		{
			name:  "pure cycle falls back to first vertex",
			nodes: []model.EntityNode{entity("X", "Y"), entity("Y", "X")},
			want:  [][]string{{"X"}, {"Y"}},
		},
		{
			name:  "unreachable cycle joins last level",
			nodes: []model.EntityNode{entity("A", "B"), entity("B"), entity("C", "D"), entity("D", "C")},
			want:  [][]string{{"A"}, {"B", "C", "D"}},
		},
		{
			name:  "empty",
			nodes: nil,
			want:  nil,
		},
	}

	layout := NewHierarchicalLayout(DefaultLayoutConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := layout.Levels(graph.Build(tt.nodes))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Levels() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestHierarchicalLayout tests the hierarchical layout algorithm
func TestHierarchicalLayout(t *testing.T) {
	layout := NewHierarchicalLayout(LayoutConfig{Width: 800, Height: 600, Padding: 50})

	positions := layout.ComputeLayout(chain())
	if len(positions) != 3 {
		t.Fatalf("Expected 3 positions, got %d", len(positions))
	}
	checkBounds(t, positions, 800, 600)

	if !(positions["A"].Y < positions["B"].Y && positions["B"].Y < positions["C"].Y) {
		t.Errorf("Expected levels top to bottom, got A=%v B=%v C=%v", positions["A"], positions["B"], positions["C"])
	}
	if positions["A"].X != 400 {
		t.Errorf("Expected lone vertex centered horizontally, got %f", positions["A"].X)
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		layout, err := New(name, DefaultLayoutConfig())
		if err != nil {
			t.Fatalf("New(%q) failed: %v", name, err)
		}
		if layout.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, layout.Name())
		}
	}

	if _, err := New("spiral", DefaultLayoutConfig()); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("Expected ErrUnknownLayout, got %v", err)
	}
}

func TestNormalizePositions(t *testing.T) {
	in := map[string]Position{
		"a": {X: -10, Y: -10},
		"b": {X: 10, Y: 30},
	}
	out := normalizePositions(in, 200, 100, 10)

	if out["a"] != (Position{X: 10, Y: 10}) {
		t.Errorf("Expected min corner at padding, got %+v", out["a"])
	}
	if out["b"] != (Position{X: 190, Y: 90}) {
		t.Errorf("Expected max corner at size minus padding, got %+v", out["b"])
	}
}

func TestRender(t *testing.T) {
	entities := []model.EntityNode{
		{
			Name: "Order", Role: model.RoleAggregateRoot, Aggregate: "Order",
			Relationships: []model.Relationship{
				{Attribute: "lines", Target: "OrderLine", CascadeAll: true, OwningSide: true},
				{Attribute: "customer", Target: "Customer", Lazy: true},
				{Attribute: "coupon", Target: "Coupon", Lazy: true},
			},
		},
		{Name: "OrderLine", Role: model.RoleValueObject, Aggregate: "Order"},
		{Name: "Customer", Role: model.RoleAggregateRoot, Aggregate: "Customer"},
	}

	viz, err := Render(LayoutHierarchical, DefaultLayoutConfig(), entities)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if viz.Layout != LayoutHierarchical || viz.Width != 1200 || viz.Height != 800 {
		t.Errorf("Unexpected canvas: %s %fx%f", viz.Layout, viz.Width, viz.Height)
	}
	if len(viz.Nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(viz.Nodes))
	}
	if viz.Nodes[1].Name != "OrderLine" || viz.Nodes[1].Role != model.RoleValueObject || viz.Nodes[1].Aggregate != "Order" {
		t.Errorf("Unexpected node annotation: %+v", viz.Nodes[1])
	}

	// The dangling Coupon reference is not drawn
	if len(viz.Edges) != 2 {
		t.Fatalf("Expected 2 edges, got %d", len(viz.Edges))
	}
	weights := map[string]float64{}
	for _, e := range viz.Edges {
		weights[e.Attribute] = e.Weight
	}
	// base + cascade all + eager + owning side
	if math.Abs(weights["lines"]-1.0) > 1e-9 {
		t.Errorf("Expected lines weight 1.0, got %f", weights["lines"])
	}
	if math.Abs(weights["customer"]-0.1) > 1e-9 {
		t.Errorf("Expected customer weight 0.1, got %f", weights["customer"])
	}

	if _, err := Render("spiral", DefaultLayoutConfig(), entities); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("Expected ErrUnknownLayout, got %v", err)
	}
}

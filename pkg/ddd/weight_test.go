package ddd

import (
	"math"
	"testing"

	"github.com/dd0wney/cluso-ormlens/pkg/graph"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

func TestEdgeWeight(t *testing.T) {
	tests := []struct {
		name    string
		rel     model.Relationship
		want    float64
		reasons int
	}{
		{"lazy reference", model.Relationship{Lazy: true}, 0.1, 1},
		{"eager", model.Relationship{}, 0.4, 2},
		{"cascade all", model.Relationship{Lazy: true, CascadeAll: true, CascadePersist: true}, 0.6, 2},
		{"cascade merge", model.Relationship{Lazy: true, CascadeMerge: true}, 0.3, 2},
		{"cascade remove only", model.Relationship{Lazy: true, CascadeRemove: true}, 0.1, 1},
		{"owning eager persist", model.Relationship{OwningSide: true, CascadePersist: true}, 0.7, 4},
		{"many to many floored", model.Relationship{Lazy: true, Mapping: model.MappingManyToMany}, 0, 2},
		{"many to many eager", model.Relationship{Mapping: model.MappingManyToMany}, 0.2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := EdgeWeight(&tt.rel)
			if math.Abs(w.Value-tt.want) > 1e-9 {
				t.Errorf("EdgeWeight() = %v, want %v", w.Value, tt.want)
			}
			if len(w.Reasons) != tt.reasons {
				t.Errorf("Expected %d reasons, got %v", tt.reasons, w.Reasons)
			}
		})
	}
}

func TestRecommendCuts_CrossAggregateWeakLink(t *testing.T) {
	g := graph.Build([]model.EntityNode{
		node("Order", "com.shop.order", cascadePersist("Line"), rel("Customer")),
		node("Line", "com.shop.order"),
		node("Customer", "com.shop.crm", cascadePersist("Address")),
		node("Address", "com.shop.crm"),
	})
	result := Assign(g, NewHeuristicClassifier(DefaultThresholds()), 0)

	cuts := RecommendCuts(g, result)

	var found *Cut
	for i := range cuts {
		if cuts[i].Source == "Order" && cuts[i].Target == "Customer" && cuts[i].Action == ActionUseIDReference {
			found = &cuts[i]
		}
	}
	if found == nil {
		t.Fatalf("Expected an ID-reference cut for Order->Customer, got %+v", cuts)
	}
	if found.Attribute != "refCustomer" {
		t.Errorf("Attribute = %q, want refCustomer", found.Attribute)
	}
	if found.Reason != "Cross-Aggregate Boundary (Order -> Customer) & Weak Link" {
		t.Errorf("Unexpected reason %q", found.Reason)
	}

	for _, c := range cuts {
		if c.Source == "Order" && c.Target == "Line" && c.Action == ActionUseIDReference {
			t.Error("Same-aggregate link must not be cut")
		}
	}
}

func TestRecommendCuts_StabilityViolation(t *testing.T) {
	// Core is used by many and depends on Volatile, which depends on many
	g := graph.Build([]model.EntityNode{
		node("A", "p", eager("Core")),
		node("B", "p", eager("Core")),
		node("C", "p", eager("Core")),
		node("Core", "p", eager("Volatile")),
		node("Volatile", "p", eager("X"), eager("Y"), eager("Z")),
		node("X", "p"), node("Y", "p"), node("Z", "p"),
	})
	roles := map[string]model.Role{}
	for _, v := range g.Vertices() {
		roles[v] = model.RoleEntity
	}
	result := Result{Assignments: map[string]Assignment{}}
	for _, v := range g.Vertices() {
		result.Assignments[v] = Assignment{Role: model.RoleEntity, Aggregate: "P"}
	}

	cuts := RecommendCuts(g, result)
	if len(cuts) != 1 {
		t.Fatalf("Expected 1 cut, got %+v", cuts)
	}
	if cuts[0].Action != ActionInvert || cuts[0].Source != "Core" || cuts[0].Target != "Volatile" {
		t.Errorf("Unexpected cut %+v", cuts[0])
	}
	if cuts[0].Weight != 0 {
		t.Errorf("Stability cuts carry weight 0, got %v", cuts[0].Weight)
	}
}

func TestRecommendCuts_Sorted(t *testing.T) {
	g := graph.Build(randomModel(7))
	cuts := RecommendCuts(g, Assign(g, NewHeuristicClassifier(DefaultThresholds()), 0))

	for i := 1; i < len(cuts); i++ {
		a, b := cuts[i-1], cuts[i]
		if a.Source > b.Source || (a.Source == b.Source && a.Target > b.Target) {
			t.Errorf("Cuts out of order at %d: %+v before %+v", i, a, b)
		}
	}
}

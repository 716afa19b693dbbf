package ddd

import (
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-ormlens/pkg/algorithms"
	"github.com/dd0wney/cluso-ormlens/pkg/graph"
)

// Cut actions
const (
	ActionUseIDReference = "Replace object reference with ID reference"
	ActionInvert         = "Invert dependency or use Event"
)

// Cut recommends breaking one relationship
type Cut struct {
	Source    string  `json:"source"`
	Target    string  `json:"target"`
	Attribute string  `json:"attribute"`
	Reason    string  `json:"reason"`
	Action    string  `json:"action"`
	Weight    float64 `json:"weight"`
}

// RecommendCuts lists relationships worth breaking: weak links that cross an
// aggregate boundary, and stable entities depending on unstable ones.
// Results are sorted by source, target and attribute.
func RecommendCuts(g *graph.Graph, r Result) []Cut {
	coupling := algorithms.Coupling(g)
	cuts := make([]Cut, 0)

	for _, e := range g.Edges() {
		sourceAgg := r.Assignments[e.From].Aggregate
		targetAgg := r.Assignments[e.To].Aggregate

		if sourceAgg != targetAgg {
			if w := EdgeWeight(&e.Relationship); w.Value < weakLinkThreshold {
				cuts = append(cuts, Cut{
					Source:    e.From,
					Target:    e.To,
					Attribute: e.Relationship.Attribute,
					Reason:    fmt.Sprintf("Cross-Aggregate Boundary (%s -> %s) & Weak Link", sourceAgg, targetAgg),
					Action:    ActionUseIDReference,
					Weight:    w.Value,
				})
			}
		}

		src, dst := coupling[e.From], coupling[e.To]
		if src.Instability < stableInstability && dst.Instability > unstableInstability {
			cuts = append(cuts, Cut{
				Source:    e.From,
				Target:    e.To,
				Attribute: e.Relationship.Attribute,
				Reason: fmt.Sprintf("Stability Violation (Source I=%.2f depends on Unstable Target I=%.2f)",
					src.Instability, dst.Instability),
				Action: ActionInvert,
				Weight: 0,
			})
		}
	}

	sort.SliceStable(cuts, func(i, j int) bool {
		a, b := cuts[i], cuts[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Attribute < b.Attribute
	})
	return cuts
}

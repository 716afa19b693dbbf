package rules

import (
	"context"

	"github.com/dd0wney/cluso-ormlens/pkg/algorithms"
	"github.com/dd0wney/cluso-ormlens/pkg/graph"
)

// Facts are the structural properties of one entity graph that rules
// evaluate. Collecting them once lets several rules and the report share
// the same, possibly expensive, results.
type Facts struct {
	Graph       *graph.Graph
	Cycles      []string
	DeepCycles  algorithms.DeepCycleResult
	SelfRefs    []string
	InDegrees   map[string]int
	OutDegrees  map[string]int
	SCC         *algorithms.SCCResult
	Roots       []string
	Leaves      []string
	Hierarchies []algorithms.Hierarchy

	// Truncated names the searches that stopped early
	Truncated []string
}

// Stage names reported in Facts.Truncated
const (
	StageDeepCycles  = "deep_cycles"
	StagePropagation = "propagation"
	StagePaths       = "paths"
)

// Collect computes the facts of g. Deep-cycle search honours limits and the
// context; everything else is linear or near-linear in the graph size.
func Collect(ctx context.Context, g *graph.Graph, limits algorithms.Limits, nameSimilarity bool) *Facts {
	f := &Facts{
		Graph:       g,
		Cycles:      algorithms.CycleVertices(g),
		SelfRefs:    algorithms.SelfReferences(g),
		InDegrees:   algorithms.InDegrees(g),
		OutDegrees:  algorithms.OutDegrees(g),
		SCC:         algorithms.StronglyConnectedComponents(g),
		Roots:       algorithms.Roots(g),
		Leaves:      algorithms.Leaves(g),
		Hierarchies: algorithms.InheritanceHierarchies(g, nameSimilarity),
	}

	f.DeepCycles = algorithms.DetectDeepCycles(ctx, g, limits)
	if f.DeepCycles.Truncated {
		f.MarkTruncated(StageDeepCycles)
	}
	return f
}

// MarkTruncated records that a stage stopped before completing.
func (f *Facts) MarkTruncated(stage string) {
	for _, s := range f.Truncated {
		if s == stage {
			return
		}
	}
	f.Truncated = append(f.Truncated, stage)
}

package algorithms

import (
	"context"

	"github.com/dd0wney/cluso-ormlens/pkg/graph"
)

// PathResult holds the simple paths found between two vertices
type PathResult struct {
	Paths     [][]string `json:"paths"`
	Truncated bool       `json:"truncated,omitempty"`
}

// Paths enumerates simple paths from source to target breadth-first, so
// shorter paths come first. The number of paths can grow exponentially, so
// enumeration stops at limits.MaxPaths results, limits.MaxDepth edges per
// path or limits.MaxSteps expansions, and reports the result as truncated.
// Unknown endpoints yield no paths.
func Paths(ctx context.Context, g *graph.Graph, source, target string, limits Limits) PathResult {
	limits = limits.Normalize()
	result := PathResult{Paths: make([][]string, 0)}

	if !g.HasVertex(source) || !g.HasVertex(target) {
		return result
	}

	b := newBudget(ctx, limits.MaxSteps)
	queue := [][]string{{source}}

	for len(queue) > 0 {
		if !b.step() {
			result.Truncated = true
			break
		}

		path := queue[0]
		queue = queue[1:]
		last := path[len(path)-1]

		if last == target {
			result.Paths = append(result.Paths, path)
			if len(result.Paths) >= limits.MaxPaths {
				result.Truncated = len(queue) > 0
				break
			}
			continue
		}

		if len(path)-1 >= limits.MaxDepth {
			result.Truncated = true
			continue
		}

		// Parallel edges lead to the same vertex sequence
		expanded := make(map[string]bool)
		for _, edge := range g.OutgoingEdges(last) {
			next := edge.To
			if expanded[next] || contains(path, next) {
				continue // avoid cycles
			}
			expanded[next] = true
			extended := make([]string, len(path), len(path)+1)
			copy(extended, path)
			queue = append(queue, append(extended, next))
		}
	}

	return result
}

func contains(path []string, v string) bool {
	for _, p := range path {
		if p == v {
			return true
		}
	}
	return false
}

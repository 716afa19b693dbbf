package algorithms

import (
	"context"
	"sort"

	"github.com/dd0wney/cluso-ormlens/pkg/graph"
)

// Cycle represents a detected cycle as a sequence of entity names
type Cycle []string

// DetectCycles finds cycles in the graph using DFS with three-color marking.
// Each back edge found yields one cycle; self-loops are cycles of length 1.
//
// Algorithm: Uses depth-first search with three colors:
//   - WHITE (0): Unvisited vertex
//   - GRAY (1): Currently visiting (vertex is in the recursion stack)
//   - BLACK (2): Finished visiting (all descendants have been explored)
//
// When we encounter a GRAY vertex during DFS, we've found a back edge, which indicates a cycle.
func DetectCycles(g *graph.Graph) []Cycle {
	const WHITE = 0

	color := make(map[string]int, g.VertexCount())
	parent := make(map[string]string, g.VertexCount())
	cycles := make([]Cycle, 0)

	// DFS from each unvisited vertex to cover disconnected components
	for _, v := range g.Vertices() {
		if color[v] == WHITE {
			dfsDetectCycle(g, v, color, parent, &cycles)
		}
	}

	return cycles
}

// dfsDetectCycle performs DFS to detect cycles
func dfsDetectCycle(
	g *graph.Graph,
	v string,
	color map[string]int,
	parent map[string]string,
	cycles *[]Cycle,
) {
	const (
		WHITE = 0
		GRAY  = 1
		BLACK = 2
	)

	color[v] = GRAY

	for _, edge := range g.OutgoingEdges(v) {
		next := edge.To

		// Self-loop detected
		if next == v {
			*cycles = append(*cycles, Cycle{v})
			continue
		}

		switch color[next] {
		case WHITE:
			// Tree edge - continue DFS
			parent[next] = v
			dfsDetectCycle(g, next, color, parent, cycles)
		case GRAY:
			// Back edge found - cycle detected!
			*cycles = append(*cycles, extractCycle(next, v, parent))
		}
		// If BLACK, it's a forward/cross edge - no cycle from this edge
	}

	color[v] = BLACK
}

// extractCycle reconstructs the cycle from parent pointers.
// Given a back edge from 'end' to 'start', we trace back from 'end' to 'start' using parent pointers
func extractCycle(start, end string, parent map[string]string) Cycle {
	cycle := Cycle{start}

	current := end
	for current != start {
		cycle = append(cycle, current)
		p, exists := parent[current]
		if !exists {
			break
		}
		current = p
	}

	return cycle
}

// CycleVertices returns, sorted by name, every vertex that lies on at least
// one cycle. Back-edge cycles from DetectCycles are completed with the
// members of non-trivial strongly connected components, because a vertex
// whose only route back to itself runs through a cross edge is never on a
// back-edge cycle.
func CycleVertices(g *graph.Graph) []string {
	onCycle := make(map[string]bool)
	for _, cycle := range DetectCycles(g) {
		for _, v := range cycle {
			onCycle[v] = true
		}
	}
	for _, c := range StronglyConnectedComponents(g).Components {
		if c.Size > 1 {
			for _, v := range c.Members {
				onCycle[v] = true
			}
		}
	}
	return sortedKeys(onCycle)
}

// HasCycle checks if the graph contains any cycles (faster than detecting all cycles)
func HasCycle(g *graph.Graph) bool {
	const WHITE = 0

	color := make(map[string]int, g.VertexCount())
	for _, v := range g.Vertices() {
		if color[v] == WHITE && hasCycleDFS(g, v, color) {
			return true
		}
	}
	return false
}

// hasCycleDFS performs DFS to check for cycles (returns true on first cycle found)
func hasCycleDFS(g *graph.Graph, v string, color map[string]int) bool {
	const (
		WHITE = 0
		GRAY  = 1
		BLACK = 2
	)

	color[v] = GRAY

	for _, edge := range g.OutgoingEdges(v) {
		next := edge.To
		if next == v {
			return true
		}
		if color[next] == WHITE {
			if hasCycleDFS(g, next, color) {
				return true
			}
		} else if color[next] == GRAY {
			return true
		}
	}

	color[v] = BLACK
	return false
}

// DeepCycleResult holds the vertices on cycles of length three or more
type DeepCycleResult struct {
	Vertices  []string `json:"vertices"`
	Truncated bool     `json:"truncated,omitempty"`
}

// MinDeepCycleLength is the shortest cycle, in edges, that counts as deep.
const MinDeepCycleLength = 3

// DetectDeepCycles keeps the cycle vertices that have a simple path back to
// themselves of at least MinDeepCycleLength edges. Every candidate gets an
// independent search with its own on-path set, so the cost is far higher
// than DetectCycles; it is meant for graphs of tens to hundreds of vertices.
// A search that runs out of steps or depth, or sees the context end, marks
// the result truncated and treats the candidate as not deep.
func DetectDeepCycles(ctx context.Context, g *graph.Graph, limits Limits) DeepCycleResult {
	limits = limits.Normalize()
	result := DeepCycleResult{Vertices: make([]string, 0)}

	for _, v := range CycleVertices(g) {
		if ctx != nil && ctx.Err() != nil {
			result.Truncated = true
			break
		}
		deep, truncated := inDeepCycle(ctx, g, v, limits)
		if truncated {
			result.Truncated = true
		}
		if deep {
			result.Vertices = append(result.Vertices, v)
		}
	}

	return result
}

// deepFrame is one entry of the explicit DFS stack: a vertex on the current
// path and the index of the next outgoing edge to try.
type deepFrame struct {
	vertex string
	next   int
}

// inDeepCycle searches simple paths starting at target for an edge back to
// target that closes a cycle of MinDeepCycleLength or more edges.
func inDeepCycle(ctx context.Context, g *graph.Graph, target string, limits Limits) (found, truncated bool) {
	b := newBudget(ctx, limits.MaxSteps)
	onPath := map[string]bool{target: true}
	stack := []deepFrame{{vertex: target}}

	for len(stack) > 0 {
		if !b.step() {
			return false, true
		}

		top := &stack[len(stack)-1]
		edges := g.OutgoingEdges(top.vertex)
		if top.next >= len(edges) {
			// Exhausted: backtrack
			delete(onPath, top.vertex)
			stack = stack[:len(stack)-1]
			continue
		}

		next := edges[top.next].To
		top.next++

		// Path length in edges if we follow this one
		depth := len(stack)
		if next == target {
			if depth >= MinDeepCycleLength {
				return true, false
			}
			continue
		}
		if onPath[next] {
			continue
		}
		if depth >= limits.MaxDepth {
			truncated = true
			continue
		}

		onPath[next] = true
		stack = append(stack, deepFrame{vertex: next})
	}

	return false, truncated
}

// SelfReferences returns, sorted by name, the vertices with an edge to themselves.
func SelfReferences(g *graph.Graph) []string {
	self := make(map[string]bool)
	for _, e := range g.Edges() {
		if e.IsSelfLoop() {
			self[e.From] = true
		}
	}
	return sortedKeys(self)
}

// CycleStats provides statistics about detected cycles
type CycleStats struct {
	TotalCycles   int     `json:"totalCycles"`
	ShortestCycle int     `json:"shortestCycle"`
	LongestCycle  int     `json:"longestCycle"`
	AverageLength float64 `json:"averageLength"`
	SelfLoops     int     `json:"selfLoops"`
}

// AnalyzeCycles computes statistics about detected cycles
func AnalyzeCycles(cycles []Cycle) CycleStats {
	if len(cycles) == 0 {
		return CycleStats{}
	}

	stats := CycleStats{
		TotalCycles:   len(cycles),
		ShortestCycle: len(cycles[0]),
		LongestCycle:  len(cycles[0]),
	}

	totalLength := 0
	for _, cycle := range cycles {
		length := len(cycle)
		totalLength += length

		if length == 1 {
			stats.SelfLoops++
		}
		if length < stats.ShortestCycle {
			stats.ShortestCycle = length
		}
		if length > stats.LongestCycle {
			stats.LongestCycle = length
		}
	}

	stats.AverageLength = float64(totalLength) / float64(len(cycles))
	return stats
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

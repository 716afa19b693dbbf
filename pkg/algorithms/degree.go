package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-ormlens/pkg/graph"
)

// InDegree counts the edges targeting v by scanning every edge.
func InDegree(g *graph.Graph, v string) int {
	n := 0
	for _, e := range g.Edges() {
		if e.To == v {
			n++
		}
	}
	return n
}

// OutDegree counts the edges leaving v by scanning every edge.
func OutDegree(g *graph.Graph, v string) int {
	n := 0
	for _, e := range g.Edges() {
		if e.From == v {
			n++
		}
	}
	return n
}

// InDegrees returns the in-degree of every vertex in one pass over the edges.
func InDegrees(g *graph.Graph) map[string]int {
	degrees := make(map[string]int, g.VertexCount())
	for _, v := range g.Vertices() {
		degrees[v] = 0
	}
	for _, e := range g.Edges() {
		degrees[e.To]++
	}
	return degrees
}

// OutDegrees returns the out-degree of every vertex in one pass over the edges.
func OutDegrees(g *graph.Graph) map[string]int {
	degrees := make(map[string]int, g.VertexCount())
	for _, v := range g.Vertices() {
		degrees[v] = 0
	}
	for _, e := range g.Edges() {
		degrees[e.From]++
	}
	return degrees
}

// Roots returns, sorted by name, the vertices nothing points at.
func Roots(g *graph.Graph) []string {
	return verticesWhere(InDegrees(g), func(d int) bool { return d == 0 })
}

// Leaves returns, sorted by name, the vertices that point at nothing.
func Leaves(g *graph.Graph) []string {
	return verticesWhere(OutDegrees(g), func(d int) bool { return d == 0 })
}

func verticesWhere(degrees map[string]int, keep func(int) bool) []string {
	out := make([]string, 0)
	for v, d := range degrees {
		if keep(d) {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

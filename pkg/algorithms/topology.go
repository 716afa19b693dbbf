package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-ormlens/pkg/graph"
)

// IsDAG checks if the entity graph is a Directed Acyclic Graph
func IsDAG(g *graph.Graph) bool {
	return !HasCycle(g)
}

// TopologicalSort returns vertices in topological order using Kahn's algorithm.
// For every edge u->v, u comes before v. Ties are broken by input order.
// Returns an error if the graph contains a cycle.
func TopologicalSort(g *graph.Graph) ([]string, error) {
	if !IsDAG(g) {
		return nil, fmt.Errorf("graph contains cycles, cannot perform topological sort")
	}

	vertices := g.Vertices()
	inDegree := InDegrees(g)

	// Queue of vertices with in-degree 0
	queue := make([]string, 0)
	for _, v := range vertices {
		if inDegree[v] == 0 {
			queue = append(queue, v)
		}
	}

	sorted := make([]string, 0, len(vertices))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		// Reduce in-degree of neighbors
		for _, edge := range g.OutgoingEdges(current) {
			inDegree[edge.To]--
			if inDegree[edge.To] == 0 {
				queue = append(queue, edge.To)
			}
		}
	}

	if len(sorted) != len(vertices) {
		return nil, fmt.Errorf("unexpected cycle detected during sort")
	}

	return sorted, nil
}

// FlushOrder returns an order in which rows can be inserted: every
// relationship target comes before its source. Returns an error on cycles.
func FlushOrder(g *graph.Graph) ([]string, error) {
	sorted, err := TopologicalSort(g)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	return sorted, nil
}

// IsConnected checks weak connectivity: every vertex reachable from any
// other when edges are treated as undirected.
func IsConnected(g *graph.Graph) bool {
	vertices := g.Vertices()
	if len(vertices) <= 1 {
		return true
	}

	// Undirected adjacency
	adjacent := make(map[string][]string, len(vertices))
	for _, e := range g.Edges() {
		adjacent[e.From] = append(adjacent[e.From], e.To)
		adjacent[e.To] = append(adjacent[e.To], e.From)
	}

	visited := map[string]bool{vertices[0]: true}
	queue := []string{vertices[0]}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adjacent[current] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	return len(visited) == len(vertices)
}

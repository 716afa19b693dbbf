// Package graph builds the directed entity-relationship graph that every
// structural analysis runs on.
//
// Vertices are entity names. Each relationship whose target is a known entity
// becomes a directed edge carrying the relationship metadata; relationships to
// unknown entities are kept aside as dangling references and never followed.
// Parallel edges between the same pair of vertices are preserved.
package graph

import "github.com/dd0wney/cluso-ormlens/pkg/model"

// Edge is a directed relationship between two known entities
type Edge struct {
	ID           int                `json:"id"`
	From         string             `json:"from"`
	To           string             `json:"to"`
	Relationship model.Relationship `json:"relationship"`
}

// IsSelfLoop reports whether the edge targets its own source.
func (e *Edge) IsSelfLoop() bool {
	return e.From == e.To
}

// DanglingRef is a relationship whose target is outside the analyzed set
type DanglingRef struct {
	From      string `json:"from"`
	Attribute string `json:"attribute"`
	Target    string `json:"target"`
}

// Graph is an immutable directed multigraph over entity names
type Graph struct {
	vertices []string
	nodes    map[string]*model.EntityNode
	out      map[string][]*Edge
	edges    []*Edge
	dangling []DanglingRef
	dupes    []string
}

// Build creates a graph from the given nodes. The nodes are copied, so later
// changes to the input do not affect the graph. When two nodes share a name
// the first one wins and the duplicate is recorded.
func Build(nodes []model.EntityNode) *Graph {
	g := &Graph{
		vertices: make([]string, 0, len(nodes)),
		nodes:    make(map[string]*model.EntityNode, len(nodes)),
		out:      make(map[string][]*Edge, len(nodes)),
	}

	// One vertex per distinct name
	for i := range nodes {
		name := nodes[i].Name
		if _, exists := g.nodes[name]; exists {
			g.dupes = append(g.dupes, name)
			continue
		}
		clone := nodes[i].Clone()
		g.nodes[name] = &clone
		g.vertices = append(g.vertices, name)
	}

	// Edges only between known vertices
	for _, name := range g.vertices {
		node := g.nodes[name]
		for _, rel := range node.Relationships {
			if _, known := g.nodes[rel.Target]; !known {
				g.dangling = append(g.dangling, DanglingRef{
					From:      name,
					Attribute: rel.Attribute,
					Target:    rel.Target,
				})
				continue
			}
			edge := &Edge{
				ID:           len(g.edges),
				From:         name,
				To:           rel.Target,
				Relationship: rel,
			}
			g.edges = append(g.edges, edge)
			g.out[name] = append(g.out[name], edge)
		}
	}

	return g
}

// Vertices returns vertex names in input order.
func (g *Graph) Vertices() []string {
	return append([]string(nil), g.vertices...)
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	return len(g.vertices)
}

// EdgeCount returns the number of edges, parallel edges included.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// HasVertex reports whether name is a vertex of the graph.
func (g *Graph) HasVertex(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Node returns the entity stored for a vertex. The returned pointer must be
// treated as read-only.
func (g *Graph) Node(name string) (*model.EntityNode, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// OutgoingEdges returns the edges leaving a vertex, in relationship order.
func (g *Graph) OutgoingEdges(name string) []*Edge {
	return g.out[name]
}

// IncomingEdges returns the edges targeting a vertex. They are derived by
// scanning every edge; there is no separate incoming index.
func (g *Graph) IncomingEdges(name string) []*Edge {
	var in []*Edge
	for _, e := range g.edges {
		if e.To == name {
			in = append(in, e)
		}
	}
	return in
}

// Edges returns every edge in creation order.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// EdgesBetween returns the parallel edges from one vertex to another.
func (g *Graph) EdgesBetween(from, to string) []*Edge {
	var between []*Edge
	for _, e := range g.out[from] {
		if e.To == to {
			between = append(between, e)
		}
	}
	return between
}

// Dangling returns relationships whose targets are unknown.
func (g *Graph) Dangling() []DanglingRef {
	return g.dangling
}

// Duplicates returns names that appeared more than once in the input.
func (g *Graph) Duplicates() []string {
	return g.dupes
}

package ddd

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dd0wney/cluso-ormlens/pkg/graph"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// DefaultAggregateName derives the aggregate an entity belongs to before
// propagation: the capitalized last segment of its package, or "Default".
func DefaultAggregateName(pkg string) string {
	segment := pkg
	if i := strings.LastIndexByte(pkg, '.'); i >= 0 {
		segment = pkg[i+1:]
	}
	if segment == "" {
		return model.DefaultAggregate
	}

	r, size := utf8.DecodeRuneInString(segment)
	return string(unicode.ToUpper(r)) + segment[size:]
}

// OrderRoots returns the AGGREGATE_ROOT vertices by descending number of
// outgoing relationships, ties broken by name.
func OrderRoots(g *graph.Graph, roles map[string]model.Role) []string {
	type root struct {
		name string
		out  int
	}

	var roots []root
	for _, name := range g.Vertices() {
		if roles[name] != model.RoleAggregateRoot {
			continue
		}
		node, _ := g.Node(name)
		roots = append(roots, root{name: name, out: len(node.Relationships)})
	}

	sort.Slice(roots, func(i, j int) bool {
		if roots[i].out != roots[j].out {
			return roots[i].out > roots[j].out
		}
		return roots[i].name < roots[j].name
	})

	names := make([]string, len(roots))
	for i, r := range roots {
		names[i] = r.name
	}
	return names
}

// Propagation is the outcome of aggregate propagation
type Propagation struct {
	Aggregates map[string]string
	Truncated  bool
}

type propFrame struct {
	vertex string
	depth  int
}

// PropagateAggregates assigns every vertex its default aggregate, then lets
// each root claim what it owns, in OrderRoots order. A root claims itself and
// follows relationships that cascade persist or load eagerly; another root
// is only claimed through a cascade-persist relationship. Each root starts
// with a fresh visited set, so a later root can reclaim a vertex an earlier
// one took. Vertices deeper than maxDepth below a root are not claimed and
// mark the result truncated.
func PropagateAggregates(g *graph.Graph, roles map[string]model.Role, maxDepth int) Propagation {
	result := Propagation{Aggregates: make(map[string]string, g.VertexCount())}

	for _, name := range g.Vertices() {
		node, _ := g.Node(name)
		result.Aggregates[name] = DefaultAggregateName(node.Package)
	}

	for _, root := range OrderRoots(g, roles) {
		visited := make(map[string]bool)
		stack := []propFrame{{vertex: root}}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if visited[top.vertex] {
				continue
			}
			visited[top.vertex] = true
			result.Aggregates[top.vertex] = root

			edges := g.OutgoingEdges(top.vertex)
			// Reverse push keeps declaration order on pop
			for i := len(edges) - 1; i >= 0; i-- {
				rel := &edges[i].Relationship
				if !rel.Persists() && !rel.Eager() {
					continue
				}
				if roles[edges[i].To] == model.RoleAggregateRoot && !rel.Persists() {
					continue
				}
				if visited[edges[i].To] {
					continue
				}
				if maxDepth > 0 && top.depth >= maxDepth {
					result.Truncated = true
					continue
				}
				stack = append(stack, propFrame{vertex: edges[i].To, depth: top.depth + 1})
			}
		}
	}

	return result
}

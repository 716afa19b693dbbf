package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-ormlens/pkg/graph"
)

// Component is one strongly connected component
type Component struct {
	ID      int      `json:"id"`
	Members []string `json:"members"`
	Size    int      `json:"size"`
}

// SCCResult holds the result of Tarjan's strongly connected components algorithm.
// Every vertex belongs to exactly one component, singletons included.
type SCCResult struct {
	Components     []*Component   `json:"components"`
	ComponentOf    map[string]int `json:"-"`
	Largest        *Component     `json:"largest,omitempty"`
	SingletonCount int            `json:"singletonCount"`
}

// NonTrivial returns the components with more than minSize members.
func (r *SCCResult) NonTrivial(minSize int) []*Component {
	var out []*Component
	for _, c := range r.Components {
		if c.Size > minSize {
			out = append(out, c)
		}
	}
	return out
}

// tarjanState holds per-vertex state during Tarjan's DFS.
type tarjanState struct {
	index   int
	lowlink int
	onStack bool
}

// StronglyConnectedComponents finds all SCCs using Tarjan's algorithm in O(V+E) time.
// Only outgoing edges are followed (directed graph semantics). Members of each
// component are sorted by name; components appear in completion order.
func StronglyConnectedComponents(g *graph.Graph) *SCCResult {
	vertices := g.Vertices()

	state := make(map[string]*tarjanState, len(vertices))
	var stack []string
	indexCounter := 0
	var components []*Component
	componentOf := make(map[string]int, len(vertices))

	var strongconnect func(u string)
	strongconnect = func(u string) {
		state[u] = &tarjanState{
			index:   indexCounter,
			lowlink: indexCounter,
			onStack: true,
		}
		indexCounter++
		stack = append(stack, u)

		for _, edge := range g.OutgoingEdges(u) {
			v := edge.To
			if _, exists := state[v]; !exists {
				strongconnect(v)
				if state[v].lowlink < state[u].lowlink {
					state[u].lowlink = state[v].lowlink
				}
			} else if state[v].onStack {
				if state[v].index < state[u].lowlink {
					state[u].lowlink = state[v].index
				}
			}
		}

		// If u is a root vertex, pop the stack to form an SCC
		if state[u].lowlink == state[u].index {
			id := len(components)
			var members []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				state[w].onStack = false
				members = append(members, w)
				componentOf[w] = id
				if w == u {
					break
				}
			}
			sort.Strings(members)

			components = append(components, &Component{
				ID:      id,
				Members: members,
				Size:    len(members),
			})
		}
	}

	for _, v := range vertices {
		if _, exists := state[v]; !exists {
			strongconnect(v)
		}
	}

	// Compute Largest and SingletonCount
	var largest *Component
	singletons := 0
	for _, c := range components {
		if c.Size == 1 {
			singletons++
		}
		if largest == nil || c.Size > largest.Size {
			largest = c
		}
	}

	return &SCCResult{
		Components:     components,
		ComponentOf:    componentOf,
		Largest:        largest,
		SingletonCount: singletons,
	}
}

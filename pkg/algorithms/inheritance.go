package algorithms

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-ormlens/pkg/graph"
)

// HierarchySource says how an inheritance hierarchy was discovered
type HierarchySource string

const (
	// HierarchyDeclared comes from explicit parent entities inside the model.
	HierarchyDeclared HierarchySource = "declared"
	// HierarchyExternal marks a child whose parent is outside the model.
	HierarchyExternal HierarchySource = "external"
	// HierarchyNameSimilarity is advisory: names contain one another.
	HierarchyNameSimilarity HierarchySource = "name_similarity"
)

// Hierarchy is one discovered inheritance hierarchy keyed by its base
type Hierarchy struct {
	Base    string          `json:"base"`
	Members []string        `json:"members"`
	Source  HierarchySource `json:"source"`
}

// Advisory reports whether the hierarchy is a naming heuristic only.
func (h Hierarchy) Advisory() bool {
	return h.Source == HierarchyNameSimilarity
}

// InheritanceHierarchies discovers hierarchies from declared parent entities.
// A child whose parent is not part of the graph is reported under its own
// name with an "(extends Parent)" member. With nameSimilarity set, vertices
// whose lowercase names contain one another are grouped as well; those
// groups are advisory. A declared parent inside the model replaces the
// group for the same base, while an external parent is added to it.
// Results are sorted by base name.
func InheritanceHierarchies(g *graph.Graph, nameSimilarity bool) []Hierarchy {
	byBase := make(map[string]Hierarchy)
	vertices := g.Vertices()

	if nameSimilarity {
		for _, name := range vertices {
			lower := strings.ToLower(name)
			var related []string
			for _, other := range vertices {
				if other == name {
					continue
				}
				otherLower := strings.ToLower(other)
				if strings.Contains(otherLower, lower) || strings.Contains(lower, otherLower) {
					related = append(related, other)
				}
			}
			if len(related) > 0 {
				sort.Strings(related)
				byBase[name] = Hierarchy{Base: name, Members: related, Source: HierarchyNameSimilarity}
			}
		}
	}

	// Parent -> children from declared parents
	children := make(map[string][]string)
	var parents []string
	for _, name := range vertices {
		node, _ := g.Node(name)
		parent := node.ParentEntity
		if parent == "" {
			continue
		}
		if _, seen := children[parent]; !seen {
			parents = append(parents, parent)
		}
		children[parent] = append(children[parent], name)
	}

	for _, parent := range parents {
		kids := children[parent]
		if g.HasVertex(parent) {
			members := append([]string(nil), kids...)
			sort.Strings(members)
			byBase[parent] = Hierarchy{Base: parent, Members: members, Source: HierarchyDeclared}
			continue
		}

		// Parent outside the analyzed set
		for _, child := range kids {
			external := fmt.Sprintf("(extends %s)", parent)
			h, exists := byBase[child]
			if !exists {
				h = Hierarchy{Base: child}
			}
			// Similar names found for the child are kept alongside the
			// declared parent, which makes the entry no longer advisory.
			h.Members = append(h.Members, external)
			h.Source = HierarchyExternal
			byBase[child] = h
		}
	}

	result := make([]Hierarchy, 0, len(byBase))
	for _, h := range byBase {
		result = append(result, h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Base < result[j].Base })
	return result
}

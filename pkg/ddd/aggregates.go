package ddd

import (
	"sort"

	"github.com/dd0wney/cluso-ormlens/pkg/algorithms"
	"github.com/dd0wney/cluso-ormlens/pkg/graph"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// Aggregate is a cluster of entities sharing an aggregate name
type Aggregate struct {
	Name    string   `json:"name"`
	Root    string   `json:"root,omitempty"`
	Members []string `json:"members"`
}

// GroupAggregates groups the vertices of g by their assigned aggregate.
// The root of a group is the AGGREGATE_ROOT named after it when there is one,
// otherwise the most central member that is not a VALUE_OBJECT.
// Groups are sorted by name.
func GroupAggregates(g *graph.Graph, r Result) []Aggregate {
	coupling := algorithms.Coupling(g)

	members := make(map[string][]string)
	for _, name := range g.Vertices() {
		agg := r.Assignments[name].Aggregate
		members[agg] = append(members[agg], name)
	}

	groups := make([]Aggregate, 0, len(members))
	for name, names := range members {
		sort.Strings(names)
		groups = append(groups, Aggregate{
			Name:    name,
			Root:    pickRoot(name, names, r, coupling),
			Members: names,
		})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

// pickRoot expects members sorted by name.
func pickRoot(aggregate string, members []string, r Result, coupling map[string]algorithms.CouplingMetrics) string {
	for _, m := range members {
		if m == aggregate && r.Assignments[m].Role == model.RoleAggregateRoot {
			return m
		}
	}

	best, bestScore := "", -1
	for _, m := range members {
		if r.Assignments[m].Role == model.RoleValueObject {
			continue
		}
		if score := coupling[m].Centrality; score > bestScore {
			best, bestScore = m, score
		}
	}
	return best
}

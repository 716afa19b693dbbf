package ddd

import (
	"github.com/dd0wney/cluso-ormlens/pkg/graph"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// Assignment is the role and aggregate computed for one entity
type Assignment struct {
	Role      model.Role `json:"role"`
	Aggregate string     `json:"aggregate"`
}

// Result maps every entity name to its assignment
type Result struct {
	Assignments map[string]Assignment
	Truncated   bool
}

// Assign classifies g with c and propagates aggregates from the roots.
// The graph is not modified.
func Assign(g *graph.Graph, c Classifier, maxDepth int) Result {
	roles := c.Classify(g)
	prop := PropagateAggregates(g, roles, maxDepth)

	result := Result{
		Assignments: make(map[string]Assignment, len(roles)),
		Truncated:   prop.Truncated,
	}
	for _, name := range g.Vertices() {
		result.Assignments[name] = Assignment{
			Role:      roles[name],
			Aggregate: prop.Aggregates[name],
		}
	}
	return result
}

// Annotate returns copies of nodes carrying their assigned role and
// aggregate. A node sharing its name with an earlier node takes the
// assignment of the first one.
func (r Result) Annotate(nodes []model.EntityNode) []model.EntityNode {
	out := model.CloneAll(nodes)
	for i := range out {
		a, ok := r.Assignments[out[i].Name]
		if !ok {
			a = Assignment{Role: model.RoleEntity, Aggregate: DefaultAggregateName(out[i].Package)}
		}
		out[i].Role = a.Role
		out[i].Aggregate = a.Aggregate
	}
	return out
}

// CountRoles tallies the assignments per role
func (r Result) CountRoles() map[model.Role]int {
	counts := make(map[model.Role]int, len(model.Roles))
	for _, a := range r.Assignments {
		counts[a.Role]++
	}
	return counts
}

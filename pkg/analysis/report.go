package analysis

import (
	"time"

	"github.com/dd0wney/cluso-ormlens/pkg/algorithms"
	"github.com/dd0wney/cluso-ormlens/pkg/ddd"
	"github.com/dd0wney/cluso-ormlens/pkg/graph"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// Summary holds the structural facts behind a report's findings
type Summary struct {
	EntityCount       int                                   `json:"entityCount"`
	RelationshipCount int                                   `json:"relationshipCount"`
	Roots             []string                              `json:"roots"`
	Leaves            []string                              `json:"leaves"`
	CycleVertices     []string                              `json:"cycleVertices"`
	DeepCycleVertices []string                              `json:"deepCycleVertices"`
	SelfReferences    []string                              `json:"selfReferences"`
	Components        []*algorithms.Component               `json:"components"`
	CycleStats        algorithms.CycleStats                 `json:"cycleStats"`
	Acyclic           bool                                  `json:"acyclic"`
	FlushOrder        []string                              `json:"flushOrder,omitempty"`
	Hierarchies       []algorithms.Hierarchy                `json:"hierarchies"`
	Coupling          map[string]algorithms.CouplingMetrics `json:"coupling"`
	MostReferenced    []algorithms.RankedVertex             `json:"mostReferenced"`
	Dangling          []graph.DanglingRef                   `json:"dangling"`
	Duplicates        []string                              `json:"duplicates,omitempty"`
	Roles             map[model.Role]int                    `json:"roles"`
	Severities        map[model.Severity]int                `json:"severities"`
}

// Report is the complete result of analyzing one entity model
type Report struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"createdAt"`
	Classifier string             `json:"classifier"`
	Entities   []model.EntityNode `json:"entities"`
	Findings   []model.Finding    `json:"findings"`
	Aggregates []ddd.Aggregate    `json:"aggregates"`
	Cuts       []ddd.Cut          `json:"cuts"`
	Summary    Summary            `json:"summary"`
	Truncated  bool               `json:"truncated"`
	// TruncatedStages names the searches that hit a limit or the deadline
	TruncatedStages []string      `json:"truncatedStages,omitempty"`
	Duration        time.Duration `json:"durationNanos"`
}

// EntitiesByRole returns the annotated entities with the given role; an
// empty role returns all of them.
func (r *Report) EntitiesByRole(role model.Role) []model.EntityNode {
	if role == "" {
		return r.Entities
	}
	out := make([]model.EntityNode, 0)
	for _, e := range r.Entities {
		if e.Role == role {
			out = append(out, e)
		}
	}
	return out
}

// FindingsBySeverity returns the findings with the given severity; an empty
// severity returns all of them.
func (r *Report) FindingsBySeverity(severity model.Severity) []model.Finding {
	if severity == "" {
		return r.Findings
	}
	out := make([]model.Finding, 0)
	for _, f := range r.Findings {
		if f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}

// Entity returns the annotated entity with the given name
func (r *Report) Entity(name string) (model.EntityNode, bool) {
	for _, e := range r.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return model.EntityNode{}, false
}

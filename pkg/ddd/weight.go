package ddd

import "github.com/dd0wney/cluso-ormlens/pkg/model"

// Edge weight contributions
const (
	baseWeight          = 0.1
	cascadeAllWeight    = 0.5
	cascadePartWeight   = 0.2
	eagerWeight         = 0.3
	owningSideWeight    = 0.1
	manyToManyPenalty   = 0.2
	weakLinkThreshold   = 0.3
	stableInstability   = 0.3
	unstableInstability = 0.7
)

// Weight is the coupling strength of one relationship
type Weight struct {
	Value   float64  `json:"value"`
	Reasons []string `json:"reasons"`
}

// EdgeWeight scores how tightly a relationship binds its target to its
// source. Composition-like relationships score high, loose references low.
func EdgeWeight(rel *model.Relationship) Weight {
	w := Weight{Value: baseWeight, Reasons: []string{"Base Link"}}

	switch {
	case rel.CascadeAll:
		w.Value += cascadeAllWeight
		w.Reasons = append(w.Reasons, "Cascade ALL (+0.5)")
	case rel.CascadePersist || rel.CascadeMerge:
		w.Value += cascadePartWeight
		w.Reasons = append(w.Reasons, "Cascade Partial (+0.2)")
	}

	if rel.Eager() {
		w.Value += eagerWeight
		w.Reasons = append(w.Reasons, "EAGER Fetch (+0.3)")
	}

	if rel.OwningSide {
		w.Value += owningSideWeight
		w.Reasons = append(w.Reasons, "Owning Side (+0.1)")
	}

	if rel.Mapping == model.MappingManyToMany {
		w.Value -= manyToManyPenalty
		w.Reasons = append(w.Reasons, "ManyToMany (-0.2)")
	}

	if w.Value < 0 {
		w.Value = 0
	}
	return w
}

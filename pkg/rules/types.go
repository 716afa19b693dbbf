package rules

import (
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// Rule is the interface every structural rule implements. Rules read the
// precomputed Facts of one model and never touch the input nodes.
type Rule interface {
	// ID is the rule identifier carried by every finding it emits
	ID() string

	// Check evaluates the rule and returns its findings (empty if clean)
	Check(f *Facts) []model.Finding
}

// Check sub-identifiers of GRAPH_ANALYSIS findings
const (
	CheckDeepCycle         = "DEEP_CYCLE"
	CheckSelfReference     = "SELF_REFERENCE"
	CheckFanOut            = "HIGH_FAN_OUT"
	CheckFanIn             = "HIGH_FAN_IN"
	CheckStronglyConnected = "STRONGLY_CONNECTED"
	CheckNoRoots           = "NO_ROOTS"
	CheckManyRoots         = "MANY_ROOTS"
	CheckNoLeaves          = "NO_LEAVES"
	CheckInheritance       = "INHERITANCE"
	CheckNameSimilarity    = "NAME_SIMILARITY"
	CheckTruncated         = "TRUNCATED"
)

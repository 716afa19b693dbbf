package rules

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// GraphAnalysisID is the rule id of every structural graph finding
const GraphAnalysisID = "GRAPH_ANALYSIS"

// GraphThresholds tune when GraphRule reports hubs, components and roots
type GraphThresholds struct {
	FanOut     int `yaml:"fan_out" validate:"gte=0"`
	FanIn      int `yaml:"fan_in" validate:"gte=0"`
	SCCMinSize int `yaml:"scc_min_size" validate:"gte=0"`
	MaxRoots   int `yaml:"max_roots" validate:"gte=0"`
}

// DefaultGraphThresholds returns the usual reporting thresholds
func DefaultGraphThresholds() GraphThresholds {
	return GraphThresholds{FanOut: 5, FanIn: 3, SCCMinSize: 2, MaxRoots: 5}
}

// GraphRule reports structural issues of the entity relationship graph.
type GraphRule struct {
	Thresholds GraphThresholds
}

// NewGraphRule creates a graph rule with the given thresholds
func NewGraphRule(t GraphThresholds) *GraphRule {
	return &GraphRule{Thresholds: t}
}

// ID returns GRAPH_ANALYSIS
func (r *GraphRule) ID() string {
	return GraphAnalysisID
}

// Check emits findings in a fixed order: deep cycles, self references,
// fan-out, fan-in, strongly connected components, roots, leaves,
// hierarchies and finally truncation. Per-entity findings follow vertex order.
func (r *GraphRule) Check(f *Facts) []model.Finding {
	findings := make([]model.Finding, 0)
	add := func(check string, severity model.Severity, entity, format string, args ...any) {
		findings = append(findings, model.Finding{
			RuleID:   GraphAnalysisID,
			Check:    check,
			Severity: severity,
			Entity:   entity,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	for _, name := range f.DeepCycles.Vertices {
		add(CheckDeepCycle, model.SeverityError, name,
			"Entity '%s' is part of a deep cyclic dependency (length 3 or more). "+
				"These cycles are structural issues that can cause problems with serialization and transaction boundaries. "+
				"Consider breaking the cycle by using ID references or @XmlIDREF.", name)
	}

	for _, name := range f.SelfRefs {
		add(CheckSelfReference, model.SeverityInfo, name,
			"Entity '%s' has a self-referencing relationship. "+
				"Ensure proper handling for graph traversal to avoid infinite loops.", name)
	}

	vertices := f.Graph.Vertices()
	for _, name := range vertices {
		if out := f.OutDegrees[name]; out > r.Thresholds.FanOut {
			add(CheckFanOut, model.SeverityInfo, name,
				"Entity '%s' has %d outgoing relationships. High fan-out can lead to complex object graphs.", name, out)
		}
	}
	for _, name := range vertices {
		if in := f.InDegrees[name]; in > r.Thresholds.FanIn {
			add(CheckFanIn, model.SeverityInfo, name,
				"Entity '%s' is referenced by %d other entities. This entity may be a central hub in your data model.", name, in)
		}
	}

	for _, c := range f.SCC.NonTrivial(r.Thresholds.SCCMinSize) {
		for _, name := range c.Members {
			add(CheckStronglyConnected, model.SeverityWarning, name,
				"Entity '%s' is part of a strongly connected component with %d entities. These entities are tightly coupled.",
				name, c.Size)
		}
	}

	switch {
	case len(f.Roots) == 0:
		add(CheckNoRoots, model.SeverityWarning, "",
			"No root entities found (all entities have incoming relationships). "+
				"This may indicate a circular model with no clear entry points.")
	case len(f.Roots) > r.Thresholds.MaxRoots:
		add(CheckManyRoots, model.SeverityInfo, "",
			"Found %d root entities. Many root entities may indicate "+
				"a fragmented data model without clear aggregate roots.", len(f.Roots))
	}

	if len(f.Leaves) == 0 {
		add(CheckNoLeaves, model.SeverityInfo, "",
			"No leaf entities found (all entities have outgoing relationships). "+
				"This may indicate a highly interconnected model.")
	}

	for _, h := range f.Hierarchies {
		if h.Advisory() {
			add(CheckNameSimilarity, model.SeverityInfo, h.Base,
				"Entity names suggest a possible hierarchy around '%s' (%s). "+
					"This is based on naming only; declare a parent entity if it is real.",
				h.Base, strings.Join(h.Members, ", "))
			continue
		}
		add(CheckInheritance, model.SeverityInfo, h.Base,
			"Potential inheritance hierarchy detected with base class '%s' and %d subclasses. "+
				"Ensure proper @Inheritance strategy.", h.Base, len(h.Members))
	}

	if len(f.Truncated) > 0 {
		add(CheckTruncated, model.SeverityWarning, "",
			"Analysis stopped early in %s; results are incomplete. "+
				"Raise the search limits or the timeout for a full analysis.", strings.Join(f.Truncated, ", "))
	}

	return findings
}

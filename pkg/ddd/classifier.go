// Package ddd assigns Domain-Driven-Design roles to entities and clusters
// them into aggregates.
//
// Classification is a pure function of the entity graph: classifiers return
// a fresh name -> role mapping and never modify the graph or its nodes.
package ddd

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dd0wney/cluso-ormlens/pkg/algorithms"
	"github.com/dd0wney/cluso-ormlens/pkg/graph"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// ErrUnknownClassifier is returned when no classifier is registered under a name
var ErrUnknownClassifier = errors.New("unknown classifier")

// Classifier assigns a DDD role to every vertex of an entity graph.
type Classifier interface {
	Name() string
	Classify(g *graph.Graph) map[string]model.Role
}

// Thresholds tune the heuristic classifier
type Thresholds struct {
	// A reference entity has more than ReferenceMinDegree relationships in total,
	ReferenceMinDegree int `yaml:"reference_min_degree" validate:"gte=0"`
	// more than ReferenceInRatio times as many incoming as outgoing ones,
	ReferenceInRatio float64 `yaml:"reference_in_ratio" validate:"gte=0"`
	// and fewer than ReferenceMaxAttributes attributes.
	ReferenceMaxAttributes int `yaml:"reference_max_attributes" validate:"gte=0"`
	// An unowned entity with more than RootMinOut outgoing relationships is a root.
	RootMinOut int `yaml:"root_min_out" validate:"gte=0"`
}

// DefaultThresholds returns the thresholds of the built-in heuristic
func DefaultThresholds() Thresholds {
	return Thresholds{
		ReferenceMinDegree:     3,
		ReferenceInRatio:       1.5,
		ReferenceMaxAttributes: 5,
		RootMinOut:             3,
	}
}

// HeuristicClassifier is the default classifier. Per node, in order:
//
//  1. EMBEDDABLE is a VALUE_OBJECT.
//  2. ABSTRACT_ENTITY and MAPPED_SUPERCLASS are ENTITY.
//  3. A heavily referenced, attribute-light ENTITY without collections is a
//     REFERENCE_ENTITY.
//  4. A node no other node cascades persist or remove into, that either
//     cascades persist itself or has many outgoing relationships, is an
//     AGGREGATE_ROOT.
//  5. Everything else is an ENTITY.
type HeuristicClassifier struct {
	Thresholds Thresholds
}

// NewHeuristicClassifier creates the default classifier with the given thresholds
func NewHeuristicClassifier(t Thresholds) *HeuristicClassifier {
	return &HeuristicClassifier{Thresholds: t}
}

// Name returns the registry name of the classifier
func (c *HeuristicClassifier) Name() string {
	return HeuristicName
}

// Classify assigns a role to every vertex of g.
func (c *HeuristicClassifier) Classify(g *graph.Graph) map[string]model.Role {
	roles := make(map[string]model.Role, g.VertexCount())
	in := algorithms.InDegrees(g)
	owned := stronglyOwned(g)

	for _, name := range g.Vertices() {
		node, _ := g.Node(name)
		roles[name] = c.classify(node, in[name], owned[name])
	}
	return roles
}

func (c *HeuristicClassifier) classify(node *model.EntityNode, in int, owned bool) model.Role {
	kind := node.DeclaredKind()
	switch {
	case kind == model.KindEmbeddable:
		return model.RoleValueObject
	case kind.IsSupertype():
		return model.RoleEntity
	}

	t := c.Thresholds
	out := len(node.Relationships)

	if in+out > t.ReferenceMinDegree &&
		float64(in) > t.ReferenceInRatio*float64(out) &&
		node.Attrs() < t.ReferenceMaxAttributes &&
		!node.HasCollections() &&
		kind == model.KindEntity {
		return model.RoleReferenceEntity
	}

	cascadeCount := 0
	for i := range node.Relationships {
		if node.Relationships[i].Persists() {
			cascadeCount++
		}
	}

	if !owned && (cascadeCount > 0 || out > t.RootMinOut) {
		return model.RoleAggregateRoot
	}
	return model.RoleEntity
}

// stronglyOwned marks the vertices that some other vertex cascades persist
// or remove into. Self loops do not count.
func stronglyOwned(g *graph.Graph) map[string]bool {
	owned := make(map[string]bool)
	for _, e := range g.Edges() {
		if e.IsSelfLoop() {
			continue
		}
		if e.Relationship.Persists() || e.Relationship.Removes() {
			owned[e.To] = true
		}
	}
	return owned
}

// CascadeClassifier treats an entity with at least MinCascades owning-side
// cascading relationships as an aggregate root. It ignores degree and
// attribute counts entirely.
type CascadeClassifier struct {
	MinCascades int
}

// NewCascadeClassifier creates a cascade classifier with the usual minimum of two
func NewCascadeClassifier() *CascadeClassifier {
	return &CascadeClassifier{MinCascades: 2}
}

// Name returns the registry name of the classifier
func (c *CascadeClassifier) Name() string {
	return CascadeName
}

// Classify assigns a role to every vertex of g.
func (c *CascadeClassifier) Classify(g *graph.Graph) map[string]model.Role {
	roles := make(map[string]model.Role, g.VertexCount())
	for _, name := range g.Vertices() {
		node, _ := g.Node(name)
		kind := node.DeclaredKind()
		switch {
		case kind == model.KindEmbeddable:
			roles[name] = model.RoleValueObject
		case kind.IsSupertype():
			roles[name] = model.RoleEntity
		case owningCascades(node) >= c.MinCascades:
			roles[name] = model.RoleAggregateRoot
		default:
			roles[name] = model.RoleEntity
		}
	}
	return roles
}

func owningCascades(node *model.EntityNode) int {
	n := 0
	for i := range node.Relationships {
		rel := &node.Relationships[i]
		if rel.OwningSide && rel.Cascades() {
			n++
		}
	}
	return n
}

// Registered classifier names
const (
	HeuristicName = "heuristic"
	CascadeName   = "cascade"
)

// Factory builds a classifier from thresholds
type Factory func(t Thresholds) Classifier

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		HeuristicName: func(t Thresholds) Classifier { return NewHeuristicClassifier(t) },
		CascadeName:   func(Thresholds) Classifier { return NewCascadeClassifier() },
	}
)

// Register makes a classifier available by name. Registering a name twice
// replaces the earlier factory.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// New returns the classifier registered under name. An empty name selects
// the heuristic classifier.
func New(name string, t Thresholds) (Classifier, error) {
	if name == "" {
		name = HeuristicName
	}

	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClassifier, name)
	}
	return f(t), nil
}

// Names lists the registered classifiers, sorted
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package model

import "errors"

// ErrDuplicateEntity is returned by validation when two entities share a name.
var ErrDuplicateEntity = errors.New("duplicate entity name")

// EntityKind is the declared persistence kind of a mapped type
type EntityKind string

const (
	KindEntity           EntityKind = "ENTITY"
	KindAbstractEntity   EntityKind = "ABSTRACT_ENTITY"
	KindMappedSuperclass EntityKind = "MAPPED_SUPERCLASS"
	KindEmbeddable       EntityKind = "EMBEDDABLE"
	KindInterface        EntityKind = "INTERFACE"
	KindViewEntity       EntityKind = "VIEW_ENTITY"
)

// Kinds lists every declared kind in a stable order.
var Kinds = []EntityKind{
	KindEntity,
	KindAbstractEntity,
	KindMappedSuperclass,
	KindEmbeddable,
	KindInterface,
	KindViewEntity,
}

// IsSupertype reports whether the kind only contributes state to subclasses.
func (k EntityKind) IsSupertype() bool {
	return k == KindAbstractEntity || k == KindMappedSuperclass
}

// EntityNode is one mapped type of an ORM model together with its outgoing
// relationships. Role and Aggregate are only ever filled in on copies produced
// by an analysis run; input nodes are treated as read-only.
type EntityNode struct {
	Name           string         `json:"name" yaml:"name" validate:"required,max=255"`
	Package        string         `json:"packageName,omitempty" yaml:"packageName,omitempty" validate:"max=1024"`
	Kind           EntityKind     `json:"type" yaml:"type" validate:"omitempty,oneof=ENTITY ABSTRACT_ENTITY MAPPED_SUPERCLASS EMBEDDABLE INTERFACE VIEW_ENTITY"`
	ParentEntity   string         `json:"parentEntity,omitempty" yaml:"parentEntity,omitempty"`
	AttributeCount int            `json:"attributeCount,omitempty" yaml:"attributeCount,omitempty" validate:"gte=0"`
	Attributes     []string       `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Relationships  []Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty" validate:"dive"`

	Role      Role   `json:"dddRole,omitempty" yaml:"dddRole,omitempty"`
	Aggregate string `json:"aggregateName,omitempty" yaml:"aggregateName,omitempty"`
}

// DeclaredKind returns the node kind, treating an empty kind as ENTITY.
func (n *EntityNode) DeclaredKind() EntityKind {
	if n.Kind == "" {
		return KindEntity
	}
	return n.Kind
}

// Attrs returns the attribute count. An explicit count wins over the
// length of the attribute name list.
func (n *EntityNode) Attrs() int {
	if n.AttributeCount > 0 {
		return n.AttributeCount
	}
	return len(n.Attributes)
}

// HasCollections reports whether any outgoing relationship is collection valued.
func (n *EntityNode) HasCollections() bool {
	for i := range n.Relationships {
		if n.Relationships[i].Mapping.IsCollection() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the node.
func (n *EntityNode) Clone() EntityNode {
	c := *n
	if n.Attributes != nil {
		c.Attributes = append([]string(nil), n.Attributes...)
	}
	if n.Relationships != nil {
		c.Relationships = append([]Relationship(nil), n.Relationships...)
	}
	return c
}

// CloneAll deep-copies a slice of nodes, dropping role and aggregate
// annotations so the copies start from a clean state.
func CloneAll(nodes []EntityNode) []EntityNode {
	out := make([]EntityNode, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].Clone()
		out[i].Role = ""
		out[i].Aggregate = ""
	}
	return out
}

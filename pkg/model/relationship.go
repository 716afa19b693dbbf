package model

// MappingKind is the ORM mapping type of a relationship attribute
type MappingKind string

const (
	MappingOneToOne          MappingKind = "OneToOne"
	MappingOneToMany         MappingKind = "OneToMany"
	MappingManyToOne         MappingKind = "ManyToOne"
	MappingManyToMany        MappingKind = "ManyToMany"
	MappingEmbedded          MappingKind = "Embedded"
	MappingElementCollection MappingKind = "ElementCollection"
)

// IsCollection reports whether the mapping holds many targets per source.
// ElementCollection is not counted: its elements are values, not entities.
func (m MappingKind) IsCollection() bool {
	return m == MappingOneToMany || m == MappingManyToMany
}

// Relationship is one outgoing association of an entity.
type Relationship struct {
	Attribute  string      `json:"attributeName" yaml:"attributeName" validate:"required"`
	Target     string      `json:"targetEntity" yaml:"targetEntity" validate:"required"`
	Mapping    MappingKind `json:"mappingType,omitempty" yaml:"mappingType,omitempty"`
	OwningSide bool        `json:"owningSide,omitempty" yaml:"owningSide,omitempty"`
	MappedBy   string      `json:"mappedBy,omitempty" yaml:"mappedBy,omitempty"`
	Lazy       bool        `json:"lazy,omitempty" yaml:"lazy,omitempty"`

	CascadePersist bool `json:"cascadePersist,omitempty" yaml:"cascadePersist,omitempty"`
	CascadeMerge   bool `json:"cascadeMerge,omitempty" yaml:"cascadeMerge,omitempty"`
	CascadeRemove  bool `json:"cascadeRemove,omitempty" yaml:"cascadeRemove,omitempty"`
	CascadeRefresh bool `json:"cascadeRefresh,omitempty" yaml:"cascadeRefresh,omitempty"`
	CascadeDetach  bool `json:"cascadeDetach,omitempty" yaml:"cascadeDetach,omitempty"`
	CascadeAll     bool `json:"cascadeAll,omitempty" yaml:"cascadeAll,omitempty"`
	OrphanRemoval  bool `json:"orphanRemoval,omitempty" yaml:"orphanRemoval,omitempty"`
}

// Persists reports whether persist cascades along the relationship.
// CascadeAll implies every individual cascade flag.
func (r *Relationship) Persists() bool {
	return r.CascadePersist || r.CascadeAll
}

// Removes reports whether remove cascades along the relationship.
func (r *Relationship) Removes() bool {
	return r.CascadeRemove || r.CascadeAll
}

// Merges reports whether merge cascades along the relationship.
func (r *Relationship) Merges() bool {
	return r.CascadeMerge || r.CascadeAll
}

// Cascades reports whether any cascade flag is set.
func (r *Relationship) Cascades() bool {
	return r.CascadeAll || r.CascadePersist || r.CascadeMerge || r.CascadeRemove ||
		r.CascadeRefresh || r.CascadeDetach
}

// Eager reports whether the target is always loaded with the source.
func (r *Relationship) Eager() bool {
	return !r.Lazy
}

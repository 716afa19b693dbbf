package model

// Role is the Domain-Driven-Design role assigned to an entity
type Role string

const (
	RoleAggregateRoot   Role = "AGGREGATE_ROOT"
	RoleEntity          Role = "ENTITY"
	RoleValueObject     Role = "VALUE_OBJECT"
	RoleReferenceEntity Role = "REFERENCE_ENTITY"
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleAggregateRoot, RoleEntity, RoleValueObject, RoleReferenceEntity}

// DefaultAggregate is the aggregate name of entities without a package.
const DefaultAggregate = "Default"

package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Model size limits
	MaxEntities         = 10000
	MaxRelationships    = 1000
	MaxAttributeNameLen = 255

	// Java-style qualified identifiers, '$' allowed for nested classes
	namePattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$.]*$`)

	knownMappings = map[model.MappingKind]bool{
		model.MappingOneToOne:          true,
		model.MappingOneToMany:         true,
		model.MappingManyToOne:         true,
		model.MappingManyToMany:        true,
		model.MappingEmbedded:          true,
		model.MappingElementCollection: true,
	}
)

func init() {
	validate = validator.New()
}

// ValidateStruct checks v against its validate struct tags.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateModel checks an entity model before analysis. Every problem is
// reported; duplicate names wrap model.ErrDuplicateEntity. The analyzer
// itself tolerates everything this rejects, so validation is optional.
func ValidateModel(nodes []model.EntityNode) error {
	if len(nodes) > MaxEntities {
		return fmt.Errorf("model has %d entities, maximum is %d", len(nodes), MaxEntities)
	}

	var errs []error
	seen := make(map[string]bool, len(nodes))

	for i := range nodes {
		n := &nodes[i]
		label := n.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}

		if err := validate.Struct(n); err != nil {
			errs = append(errs, fmt.Errorf("entity %s: %w", label, formatValidationError(err)))
			continue
		}
		if !namePattern.MatchString(n.Name) {
			errs = append(errs, fmt.Errorf("entity %s: name contains invalid characters", label))
		}
		if seen[n.Name] {
			errs = append(errs, fmt.Errorf("%w: %s", model.ErrDuplicateEntity, n.Name))
		}
		seen[n.Name] = true

		if len(n.Relationships) > MaxRelationships {
			errs = append(errs, fmt.Errorf("entity %s: %d relationships, maximum is %d",
				label, len(n.Relationships), MaxRelationships))
		}
		for j := range n.Relationships {
			if err := validateRelationship(&n.Relationships[j]); err != nil {
				errs = append(errs, fmt.Errorf("entity %s: %w", label, err))
			}
		}
	}

	return errors.Join(errs...)
}

func validateRelationship(r *model.Relationship) error {
	if len(r.Attribute) > MaxAttributeNameLen {
		return fmt.Errorf("attribute %.32s...: exceeds maximum length of %d characters", r.Attribute, MaxAttributeNameLen)
	}
	if r.Mapping != "" && !knownMappings[r.Mapping] {
		return fmt.Errorf("attribute %s: unknown mapping type %q", r.Attribute, r.Mapping)
	}
	if !namePattern.MatchString(r.Target) {
		return fmt.Errorf("attribute %s: target %q is not a valid entity name", r.Attribute, r.Target)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// First failure only
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}

package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

func TestValidateModel(t *testing.T) {
	tests := []struct {
		name        string
		nodes       []model.EntityNode
		expectError bool
		contains    string
	}{
		{
			name:  "Empty model",
			nodes: nil,
		},
		{
			name: "Valid model",
			nodes: []model.EntityNode{
				{Name: "Order", Package: "com.shop", Relationships: []model.Relationship{
					{Attribute: "customer", Target: "Customer", Mapping: model.MappingManyToOne},
				}},
				{Name: "Customer", Kind: model.KindEntity},
				{Name: "Address", Kind: model.KindEmbeddable},
			},
		},
		{
			name:        "Missing name",
			nodes:       []model.EntityNode{{Package: "com.shop"}},
			expectError: true,
			contains:    "is required",
		},
		{
			name:        "Unknown kind",
			nodes:       []model.EntityNode{{Name: "Order", Kind: "TABLE"}},
			expectError: true,
			contains:    "must be one of",
		},
		{
			name:        "Invalid characters",
			nodes:       []model.EntityNode{{Name: "Order Line"}},
			expectError: true,
			contains:    "invalid characters",
		},
		{
			name:        "Negative attribute count",
			nodes:       []model.EntityNode{{Name: "Order", AttributeCount: -1}},
			expectError: true,
			contains:    "at least 0",
		},
		{
			name: "Relationship without target",
			nodes: []model.EntityNode{{Name: "Order", Relationships: []model.Relationship{
				{Attribute: "customer"},
			}}},
			expectError: true,
			contains:    "Target",
		},
		{
			name: "Unknown mapping",
			nodes: []model.EntityNode{{Name: "Order", Relationships: []model.Relationship{
				{Attribute: "customer", Target: "Customer", Mapping: "OneToFew"},
			}}},
			expectError: true,
			contains:    "unknown mapping type",
		},
		{
			name: "Dangling target is not an error",
			nodes: []model.EntityNode{{Name: "Order", Relationships: []model.Relationship{
				{Attribute: "customer", Target: "Customer"},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModel(tt.nodes)
			if tt.expectError && err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got %q", tt.contains, err)
			}
		})
	}
}

func TestValidateModel_Duplicates(t *testing.T) {
	err := ValidateModel([]model.EntityNode{
		{Name: "Order"},
		{Name: "Customer"},
		{Name: "Order"},
	})

	if !errors.Is(err, model.ErrDuplicateEntity) {
		t.Fatalf("Expected ErrDuplicateEntity, got %v", err)
	}
	if !strings.Contains(err.Error(), "Order") {
		t.Errorf("Expected duplicate name in message, got %q", err)
	}
}

func TestValidateModel_ReportsEveryProblem(t *testing.T) {
	err := ValidateModel([]model.EntityNode{
		{Name: "A b"},
		{Name: "C", Kind: "NOPE"},
	})
	if err == nil {
		t.Fatal("Expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "A b") || !strings.Contains(msg, "entity C") {
		t.Errorf("Expected both entities reported, got %q", msg)
	}
}

func TestValidateModel_TooLarge(t *testing.T) {
	old := MaxEntities
	MaxEntities = 2
	defer func() { MaxEntities = old }()

	err := ValidateModel([]model.EntityNode{{Name: "A"}, {Name: "B"}, {Name: "C"}})
	if err == nil || !strings.Contains(err.Error(), "maximum is 2") {
		t.Errorf("Expected size error, got %v", err)
	}
}

func TestValidateStruct(t *testing.T) {
	type request struct {
		Source string `validate:"required"`
	}

	if err := ValidateStruct(request{Source: "Order"}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := ValidateStruct(request{}); err == nil || !strings.Contains(err.Error(), "request.Source") {
		t.Errorf("Expected required error, got %v", err)
	}
}

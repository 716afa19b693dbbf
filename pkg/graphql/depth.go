package graphql

import (
	"fmt"
	"strings"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// QueryDepth returns the deepest nesting of object selections in query.
// Scalar leaves and introspection fields do not count.
func QueryDepth(query string) (int, error) {
	document, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return 0, fmt.Errorf("failed to parse query: %w", err)
	}

	fragments := make(map[string]*ast.FragmentDefinition)
	for _, def := range document.Definitions {
		if f, ok := def.(*ast.FragmentDefinition); ok {
			fragments[f.Name.Value] = f
		}
	}

	maxDepth := 0
	for _, def := range document.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok {
			d := selectionDepth(op.SelectionSet, 0, fragments, make(map[string]bool))
			maxDepth = max(maxDepth, d)
		}
	}
	return maxDepth, nil
}

func selectionDepth(set *ast.SelectionSet, depth int, fragments map[string]*ast.FragmentDefinition, seen map[string]bool) int {
	if set == nil {
		return depth
	}

	deepest := depth
	for _, selection := range set.Selections {
		switch sel := selection.(type) {
		case *ast.Field:
			if strings.HasPrefix(sel.Name.Value, "__") || sel.SelectionSet == nil {
				continue
			}
			deepest = max(deepest, selectionDepth(sel.SelectionSet, depth+1, fragments, seen))
		case *ast.InlineFragment:
			deepest = max(deepest, selectionDepth(sel.SelectionSet, depth, fragments, seen))
		case *ast.FragmentSpread:
			name := sel.Name.Value
			frag, ok := fragments[name]
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			deepest = max(deepest, selectionDepth(frag.SelectionSet, depth, fragments, seen))
			delete(seen, name)
		}
	}
	return deepest
}

// ValidateQueryDepth rejects queries nested deeper than maxDepth
func ValidateQueryDepth(query string, maxDepth int) error {
	depth, err := QueryDepth(query)
	if err != nil {
		return err
	}
	if depth > maxDepth {
		return fmt.Errorf("query depth %d exceeds maximum allowed depth %d", depth, maxDepth)
	}
	return nil
}

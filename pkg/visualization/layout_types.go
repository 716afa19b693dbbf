// Package visualization positions the entity graph on a 2D canvas so a
// report can be drawn by an external viewer.
package visualization

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-ormlens/pkg/graph"
)

// ErrUnknownLayout is returned by New for an unregistered layout name
var ErrUnknownLayout = errors.New("unknown layout")

// Layout names
const (
	LayoutHierarchical = "hierarchical"
	LayoutCircular     = "circular"
	LayoutForce        = "force"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       int64   // Seed for layouts with random initial placement
}

// DefaultLayoutConfig returns a 1200x800 canvas
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{Width: 1200, Height: 800, Iterations: 50, Padding: 50, Seed: 1}
}

func (c *LayoutConfig) withDefaults() *LayoutConfig {
	out := *c
	d := DefaultLayoutConfig()
	if out.Width <= 0 {
		out.Width = d.Width
	}
	if out.Height <= 0 {
		out.Height = d.Height
	}
	if out.Iterations <= 0 {
		out.Iterations = d.Iterations
	}
	if out.Padding <= 0 {
		out.Padding = d.Padding
	}
	return &out
}

// Layout computes a position for every vertex of an entity graph
type Layout interface {
	Name() string
	ComputeLayout(g *graph.Graph) map[string]Position
}

// Names lists the available layouts
func Names() []string {
	names := []string{LayoutHierarchical, LayoutCircular, LayoutForce}
	sort.Strings(names)
	return names
}

// New returns the layout registered under name
func New(name string, config LayoutConfig) (Layout, error) {
	switch name {
	case LayoutHierarchical:
		return NewHierarchicalLayout(config), nil
	case LayoutCircular:
		return NewCircularLayout(config), nil
	case LayoutForce:
		return NewForceDirectedLayout(config), nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownLayout, name, Names())
	}
}

package visualization

import (
	"github.com/dd0wney/cluso-ormlens/pkg/algorithms"
	"github.com/dd0wney/cluso-ormlens/pkg/graph"
)

// HierarchicalLayout places vertices in layers by BFS depth from the roots,
// so owners sit above what they reference.
type HierarchicalLayout struct {
	config *LayoutConfig
}

// NewHierarchicalLayout creates a new hierarchical layout
func NewHierarchicalLayout(config LayoutConfig) *HierarchicalLayout {
	return &HierarchicalLayout{config: config.withDefaults()}
}

// Name returns "hierarchical"
func (hl *HierarchicalLayout) Name() string { return LayoutHierarchical }

// Levels groups vertices by BFS depth from the roots (vertices without
// incoming edges). Vertices unreachable from any root, such as pure cycles,
// are appended to the last level.
func (hl *HierarchicalLayout) Levels(g *graph.Graph) [][]string {
	vertices := g.Vertices()
	if len(vertices) == 0 {
		return nil
	}

	roots := algorithms.Roots(g)
	if len(roots) == 0 {
		roots = []string{vertices[0]}
	}

	var levels [][]string
	visited := make(map[string]bool, len(vertices))
	for _, r := range roots {
		visited[r] = true
	}

	current := roots
	for len(current) > 0 {
		levels = append(levels, current)
		var next []string
		for _, v := range current {
			for _, e := range g.OutgoingEdges(v) {
				if !visited[e.To] {
					visited[e.To] = true
					next = append(next, e.To)
				}
			}
		}
		current = next
	}

	last := len(levels) - 1
	for _, v := range vertices {
		if !visited[v] {
			levels[last] = append(levels[last], v)
		}
	}
	return levels
}

// ComputeLayout arranges vertices by level, evenly spaced within a level
func (hl *HierarchicalLayout) ComputeLayout(g *graph.Graph) map[string]Position {
	positions := make(map[string]Position, g.VertexCount())
	levels := hl.Levels(g)
	if len(levels) == 0 {
		return positions
	}

	c := hl.config
	levelHeight := (c.Height - 2*c.Padding) / float64(len(levels))
	levelWidth := c.Width - 2*c.Padding

	for levelIdx, level := range levels {
		y := c.Padding + float64(levelIdx)*levelHeight + levelHeight/2
		spacing := levelWidth / float64(len(level)+1)
		for i, v := range level {
			positions[v] = Position{X: c.Padding + spacing*float64(i+1), Y: y}
		}
	}

	return positions
}

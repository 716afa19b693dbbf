package visualization

import (
	"math"

	"github.com/dd0wney/cluso-ormlens/pkg/graph"
)

// CircularLayout arranges vertices on a circle in input order
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config LayoutConfig) *CircularLayout {
	return &CircularLayout{config: config.withDefaults()}
}

// Name returns "circular"
func (cl *CircularLayout) Name() string { return LayoutCircular }

// ComputeLayout arranges vertices in a circle, the first at angle zero
func (cl *CircularLayout) ComputeLayout(g *graph.Graph) map[string]Position {
	vertices := g.Vertices()
	positions := make(map[string]Position, len(vertices))
	if len(vertices) == 0 {
		return positions
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	radius := math.Min(centerX, centerY) - cl.config.Padding
	angleStep := 2 * math.Pi / float64(len(vertices))

	for i, v := range vertices {
		angle := float64(i) * angleStep
		positions[v] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions
}

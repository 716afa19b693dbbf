package visualization

import (
	"math"
	"math/rand"

	"github.com/dd0wney/cluso-ormlens/pkg/graph"
)

// ForceDirectedLayout implements Fruchterman-Reingold style layout.
// Initial placement is seeded from the config so output is reproducible.
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config LayoutConfig) *ForceDirectedLayout {
	return &ForceDirectedLayout{config: config.withDefaults()}
}

// Name returns "force"
func (fdl *ForceDirectedLayout) Name() string { return LayoutForce }

// ComputeLayout computes positions using force-directed algorithm
func (fdl *ForceDirectedLayout) ComputeLayout(g *graph.Graph) map[string]Position {
	vertices := g.Vertices()
	c := fdl.config

	if len(vertices) == 0 {
		return make(map[string]Position)
	}

	// Single vertex - center it
	if len(vertices) == 1 {
		return map[string]Position{vertices[0]: {X: c.Width / 2, Y: c.Height / 2}}
	}

	rng := rand.New(rand.NewSource(c.Seed))
	positions := make(map[string]Position, len(vertices))
	for _, v := range vertices {
		positions[v] = Position{
			X: rng.Float64()*(c.Width-2*c.Padding) + c.Padding,
			Y: rng.Float64()*(c.Height-2*c.Padding) + c.Padding,
		}
	}

	// Undirected adjacency, self loops dropped
	adjacent := make(map[string]map[string]bool, len(vertices))
	for _, v := range vertices {
		adjacent[v] = make(map[string]bool)
	}
	for _, e := range g.Edges() {
		if e.IsSelfLoop() {
			continue
		}
		adjacent[e.From][e.To] = true
		adjacent[e.To][e.From] = true
	}

	k := math.Sqrt((c.Width * c.Height) / float64(len(vertices))) // Optimal distance
	temperature := c.Width / 10.0

	for iter := 0; iter < c.Iterations; iter++ {
		forces := make(map[string]Position, len(vertices))

		// Repulsion between all pairs
		for i, v1 := range vertices {
			for _, v2 := range vertices[i+1:] {
				dx := positions[v1].X - positions[v2].X
				dy := positions[v1].Y - positions[v2].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[v1] = Position{X: forces[v1].X + fx, Y: forces[v1].Y + fy}
				forces[v2] = Position{X: forces[v2].X - fx, Y: forces[v2].Y - fy}
			}
		}

		// Attraction between connected vertices
		for _, v1 := range vertices {
			for v2 := range adjacent[v1] {
				dx := positions[v1].X - positions[v2].X
				dy := positions[v1].Y - positions[v2].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				forces[v1] = Position{
					X: forces[v1].X - (dx/dist)*force,
					Y: forces[v1].Y - (dy/dist)*force,
				}
			}
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(c.Iterations)
		for _, v := range vertices {
			fx, fy := forces[v].X, forces[v].Y
			force := math.Sqrt(fx*fx + fy*fy)
			if force > 0 {
				step := math.Min(force, temperature) * cool
				positions[v] = Position{
					X: positions[v].X + (fx/force)*step,
					Y: positions[v].Y + (fy/force)*step,
				}
			}
		}

		temperature *= 0.95
	}

	return normalizePositions(positions, c.Width, c.Height, c.Padding)
}

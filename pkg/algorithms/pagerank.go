package algorithms

import (
	"math"
	"sort"

	"github.com/dd0wney/cluso-ormlens/pkg/graph"
)

// PageRankOptions configures PageRank algorithm
type PageRankOptions struct {
	DampingFactor float64 // Usually 0.85
	MaxIterations int
	Tolerance     float64 // Convergence threshold
}

// DefaultPageRankOptions returns default PageRank configuration
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// PageRankResult contains PageRank scores for all vertices
type PageRankResult struct {
	Scores     map[string]float64 // Entity name -> PageRank score
	Iterations int                // Number of iterations performed
	Converged  bool               // Whether algorithm converged
}

// RankedVertex is an entity with its score
type RankedVertex struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// PageRank scores entities by how much the rest of the model refers to
// them, following relationships from owner to target. Widely shared
// entities such as reference data score highest.
func PageRank(g *graph.Graph, opts PageRankOptions) *PageRankResult {
	vertices := g.Vertices()
	if len(vertices) == 0 {
		return &PageRankResult{Scores: make(map[string]float64), Converged: true}
	}

	n := float64(len(vertices))
	scores := make(map[string]float64, len(vertices))
	for _, v := range vertices {
		scores[v] = 1.0 / n
	}

	outDegree := OutDegrees(g)
	newScores := make(map[string]float64, len(vertices))
	converged := false
	iterations := 0

	for iterations < opts.MaxIterations {
		iterations++

		for _, v := range vertices {
			// Start with random jump probability
			newScore := (1.0 - opts.DampingFactor) / n

			// Add contributions from incoming edges
			for _, e := range g.IncomingEdges(v) {
				if outCount := outDegree[e.From]; outCount > 0 {
					newScore += opts.DampingFactor * (scores[e.From] / float64(outCount))
				}
			}
			newScores[v] = newScore
		}

		maxDiff := 0.0
		for _, v := range vertices {
			maxDiff = math.Max(maxDiff, math.Abs(newScores[v]-scores[v]))
		}

		scores, newScores = newScores, scores
		if maxDiff < opts.Tolerance {
			converged = true
			break
		}
	}

	// Normalize scores to sum to 1, summing in vertex order so results
	// are reproducible
	sum := 0.0
	for _, v := range vertices {
		sum += scores[v]
	}
	if sum > 0 {
		for _, v := range vertices {
			scores[v] /= sum
		}
	}

	return &PageRankResult{
		Scores:     scores,
		Iterations: iterations,
		Converged:  converged,
	}
}

// Top returns the n highest scoring vertices, ties broken by name
func (pr *PageRankResult) Top(n int) []RankedVertex {
	ranked := make([]RankedVertex, 0, len(pr.Scores))
	for name, score := range pr.Scores {
		ranked = append(ranked, RankedVertex{Name: name, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})
	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Rank returns the PageRank score for a specific vertex
func (pr *PageRankResult) Rank(name string) float64 {
	return pr.Scores[name]
}

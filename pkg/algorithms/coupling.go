package algorithms

import "github.com/dd0wney/cluso-ormlens/pkg/graph"

// CouplingMetrics describes how a vertex depends on and is depended upon
type CouplingMetrics struct {
	Afferent    int     `json:"afferent"`    // Ca: incoming edges
	Efferent    int     `json:"efferent"`    // Ce: outgoing edges
	Instability float64 `json:"instability"` // Ce / (Ca + Ce), 0.5 when isolated
	Centrality  int     `json:"centrality"`  // Ca + Ce
}

// Coupling computes afferent/efferent coupling and instability per vertex.
// I = 0 marks a stable, heavily used vertex; I = 1 a vertex nothing depends on.
func Coupling(g *graph.Graph) map[string]CouplingMetrics {
	in := InDegrees(g)
	out := OutDegrees(g)

	metrics := make(map[string]CouplingMetrics, g.VertexCount())
	for _, v := range g.Vertices() {
		m := CouplingMetrics{Afferent: in[v], Efferent: out[v]}
		m.Centrality = m.Afferent + m.Efferent
		if m.Centrality == 0 {
			m.Instability = 0.5
		} else {
			m.Instability = float64(m.Efferent) / float64(m.Centrality)
		}
		metrics[v] = m
	}
	return metrics
}

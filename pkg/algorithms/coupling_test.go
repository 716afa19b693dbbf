package algorithms

import (
	"testing"
)

func TestCoupling(t *testing.T) {
	// Customer is depended upon; Order depends on everything
	g := testGraph("Order->Customer", "Order->Product", "Invoice->Customer", "Lonely")

	metrics := Coupling(g)

	tests := []struct {
		vertex      string
		afferent    int
		efferent    int
		instability float64
	}{
		{"Order", 0, 2, 1.0},
		{"Customer", 2, 0, 0.0},
		{"Invoice", 0, 1, 1.0},
		{"Lonely", 0, 0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.vertex, func(t *testing.T) {
			m, ok := metrics[tt.vertex]
			if !ok {
				t.Fatalf("No metrics for %s", tt.vertex)
			}
			if m.Afferent != tt.afferent || m.Efferent != tt.efferent {
				t.Errorf("Ca/Ce = %d/%d, want %d/%d", m.Afferent, m.Efferent, tt.afferent, tt.efferent)
			}
			if m.Instability != tt.instability {
				t.Errorf("Instability = %v, want %v", m.Instability, tt.instability)
			}
			if m.Centrality != m.Afferent+m.Efferent {
				t.Errorf("Centrality = %d, want %d", m.Centrality, m.Afferent+m.Efferent)
			}
		})
	}
}

func TestCoupling_InstabilityInRange(t *testing.T) {
	g := testGraph("A->B", "B->C", "C->A", "A->C", "D->A")

	for v, m := range Coupling(g) {
		if m.Instability < 0 || m.Instability > 1 {
			t.Errorf("%s instability %v out of [0,1]", v, m.Instability)
		}
	}
}

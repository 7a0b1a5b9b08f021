package codegraph

import "testing"

func TestCalculateMetrics(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "App.Hub", Label: "Hub"},
			{ID: "App.A", Label: "A"},
			{ID: "App.B", Label: "B"},
			{ID: "App.C", Label: "C"},
		},
		Edges: []Edge{
			{Source: "App.A", Target: "App.Hub", Kind: EdgeCall},
			{Source: "App.B", Target: "App.Hub", Kind: EdgeCall},
			{Source: "App.C", Target: "App.Hub", Kind: EdgeReference},
			// Structural edge, must not count toward degrees.
			{Source: "App", Target: "App.Hub", Kind: EdgeContainment},
		},
	}

	m := g.CalculateMetrics()

	if m.Summary.TotalNodes != 4 {
		t.Errorf("TotalNodes = %d, want 4", m.Summary.TotalNodes)
	}
	if m.NodeMetrics[0].NodeID != "App.Hub" {
		t.Errorf("top PageRank node = %s, want App.Hub", m.NodeMetrics[0].NodeID)
	}

	var hub NodeMetric
	for _, nm := range m.NodeMetrics {
		if nm.NodeID == "App.Hub" {
			hub = nm
		}
	}
	if hub.InDegree != 3 {
		t.Errorf("Hub in-degree = %d, want 3 (containment excluded)", hub.InDegree)
	}
	if hub.OutDegree != 0 {
		t.Errorf("Hub out-degree = %d, want 0", hub.OutDegree)
	}
	if m.Summary.IsCyclic {
		t.Error("acyclic graph reported cyclic")
	}
}

func TestCalculateMetrics_Empty(t *testing.T) {
	m := (&Graph{}).CalculateMetrics()
	if m.Summary.TotalNodes != 0 || len(m.NodeMetrics) != 0 {
		t.Error("empty graph should produce empty metrics")
	}
}

func TestDetectCycles(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "App.A"}, {ID: "App.B"}, {ID: "App.C"}, {ID: "App.Solo"},
		},
		Edges: []Edge{
			{Source: "App.A", Target: "App.B", Kind: EdgeCall},
			{Source: "App.B", Target: "App.A", Kind: EdgeCall},
			{Source: "App.A", Target: "App.C", Kind: EdgeCall},
			{Source: "App.Solo", Target: "App.C", Kind: EdgeReference},
		},
	}

	cycles := g.DetectCycles()
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cycles))
	}
	if len(cycles[0]) != 2 || cycles[0][0] != "App.A" || cycles[0][1] != "App.B" {
		t.Errorf("cycle = %v, want [App.A App.B]", cycles[0])
	}
}

func TestDetectCycles_ContainmentIgnored(t *testing.T) {
	// A containment back-edge must never manufacture a cycle.
	g := &Graph{
		Nodes: []Node{{ID: "App"}, {ID: "App.Svc"}},
		Edges: []Edge{
			{Source: "App", Target: "App.Svc", Kind: EdgeContainment},
			{Source: "App.Svc", Target: "App", Kind: EdgeReference},
		},
	}

	if cycles := g.DetectCycles(); len(cycles) != 0 {
		t.Errorf("got %d cycles, want 0", len(cycles))
	}
}

package codegraph

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Metrics holds centrality and structure metrics over the usage graph.
type Metrics struct {
	NodeMetrics []NodeMetric   `json:"node_metrics" toon:"node_metrics"`
	Summary     MetricsSummary `json:"summary" toon:"summary"`
}

// NodeMetric is the computed metrics for a single node.
type NodeMetric struct {
	NodeID    string  `json:"node_id" toon:"node_id"`
	Label     string  `json:"label" toon:"label"`
	PageRank  float64 `json:"pagerank" toon:"pagerank"`
	InDegree  int     `json:"in_degree" toon:"in_degree"`
	OutDegree int     `json:"out_degree" toon:"out_degree"`
}

// MetricsSummary aggregates graph-level statistics.
type MetricsSummary struct {
	TotalNodes int     `json:"total_nodes" toon:"total_nodes"`
	TotalEdges int     `json:"total_edges" toon:"total_edges"`
	AvgDegree  float64 `json:"avg_degree" toon:"avg_degree"`
	Density    float64 `json:"density" toon:"density"`
	CycleCount int     `json:"cycle_count" toon:"cycle_count"`
	IsCyclic   bool    `json:"is_cyclic" toon:"is_cyclic"`
}

const (
	pagerankDamping   = 0.85
	pagerankTolerance = 1e-6
)

// CalculateMetrics computes PageRank and degree metrics over the call
// and reference edges. Containment edges are structural and excluded so
// a namespace does not outrank the code inside it.
func (g *Graph) CalculateMetrics() *Metrics {
	m := &Metrics{
		Summary: MetricsSummary{
			TotalNodes: len(g.Nodes),
			TotalEdges: len(g.Edges),
		},
	}
	if len(g.Nodes) == 0 {
		return m
	}

	dg, byNode := buildDirected(g)

	ranks := network.PageRank(dg, pagerankDamping, pagerankTolerance)

	inDeg := make(map[string]int)
	outDeg := make(map[string]int)
	usageEdges := 0
	for _, e := range g.Edges {
		if e.Kind == EdgeContainment {
			continue
		}
		outDeg[e.Source]++
		inDeg[e.Target]++
		usageEdges++
	}

	for _, n := range g.Nodes {
		nm := NodeMetric{
			NodeID:    n.ID,
			Label:     n.Label,
			InDegree:  inDeg[n.ID],
			OutDegree: outDeg[n.ID],
		}
		if id, ok := byNode[n.ID]; ok {
			nm.PageRank = ranks[id]
		}
		m.NodeMetrics = append(m.NodeMetrics, nm)
	}
	sort.Slice(m.NodeMetrics, func(i, j int) bool {
		if m.NodeMetrics[i].PageRank != m.NodeMetrics[j].PageRank {
			return m.NodeMetrics[i].PageRank > m.NodeMetrics[j].PageRank
		}
		return m.NodeMetrics[i].NodeID < m.NodeMetrics[j].NodeID
	})

	n := float64(len(g.Nodes))
	m.Summary.AvgDegree = float64(usageEdges) / n
	if len(g.Nodes) > 1 {
		m.Summary.Density = float64(usageEdges) / (n * (n - 1))
	}

	cycles := g.DetectCycles()
	m.Summary.CycleCount = len(cycles)
	m.Summary.IsCyclic = len(cycles) > 0

	return m
}

// DetectCycles returns the strongly connected components with more than
// one member, each as a sorted list of node ids.
func (g *Graph) DetectCycles() [][]string {
	if len(g.Nodes) == 0 {
		return nil
	}
	dg, byNode := buildDirected(g)

	idToNode := make(map[int64]string, len(byNode))
	for id, idx := range byNode {
		idToNode[idx] = id
	}

	var cycles [][]string
	for _, scc := range topo.TarjanSCC(dg) {
		if len(scc) < 2 {
			continue
		}
		ids := make([]string, 0, len(scc))
		for _, node := range scc {
			ids = append(ids, idToNode[node.ID()])
		}
		sort.Strings(ids)
		cycles = append(cycles, ids)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

// buildDirected converts the usage edges to a gonum directed graph.
func buildDirected(g *Graph) (*simple.DirectedGraph, map[string]int64) {
	dg := simple.NewDirectedGraph()
	byNode := make(map[string]int64, len(g.Nodes))

	for i, n := range g.Nodes {
		id := int64(i)
		byNode[n.ID] = id
		dg.AddNode(simple.Node(id))
	}
	for _, e := range g.Edges {
		if e.Kind == EdgeContainment {
			continue
		}
		from, okF := byNode[e.Source]
		to, okT := byNode[e.Target]
		if !okF || !okT || from == to {
			continue
		}
		dg.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}
	return dg, byNode
}

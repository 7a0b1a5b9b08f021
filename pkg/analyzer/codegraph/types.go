package codegraph

// NodeKind classifies a graph node.
type NodeKind string

const (
	NodeNamespace        NodeKind = "Namespace"
	NodeClass            NodeKind = "Class"
	NodeMethod           NodeKind = "Method"
	NodeProperty         NodeKind = "Property"
	NodeVariable         NodeKind = "Variable"
	NodeExternalMethod   NodeKind = "ExternalMethod"
	NodeExternalProperty NodeKind = "ExternalProperty"
	NodeExternalGeneric  NodeKind = "ExternalGeneric"
)

// String returns the string representation.
func (k NodeKind) String() string {
	return string(k)
}

// IsExternal reports whether the kind is a synthetic external kind.
func (k NodeKind) IsExternal() bool {
	switch k {
	case NodeExternalMethod, NodeExternalProperty, NodeExternalGeneric:
		return true
	}
	return false
}

// EdgeKind classifies a graph edge.
type EdgeKind string

const (
	EdgeContainment EdgeKind = "containment"
	EdgeCall        EdgeKind = "call"
	EdgeReference   EdgeKind = "reference"
	EdgeExternal    EdgeKind = "external"
)

// String returns the string representation.
func (k EdgeKind) String() string {
	return string(k)
}

// Node is one entity in the usage graph: a declared program element or a
// synthetic node for an external reference target.
type Node struct {
	ID                string   `json:"id" toon:"id"`
	Kind              NodeKind `json:"kind" toon:"kind"`
	Label             string   `json:"label" toon:"label"`
	Used              bool     `json:"used" toon:"used"`
	DeclaredType      string   `json:"declaredType,omitempty" toon:"declaredType,omitempty"`
	FilePath          string   `json:"filePath,omitempty" toon:"filePath,omitempty"`
	LineNumber        int      `json:"lineNumber,omitempty" toon:"lineNumber,omitempty"`
	IsExternalLibrary bool     `json:"isExternalLibrary" toon:"isExternalLibrary"`
}

// Edge is a directed relationship between two node ids.
type Edge struct {
	Source string   `json:"source" toon:"source"`
	Target string   `json:"target" toon:"target"`
	Kind   EdgeKind `json:"kind" toon:"kind"`
}

// Graph is the finalized node/edge output plus run statistics.
type Graph struct {
	Nodes []Node `json:"nodes" toon:"nodes"`
	Edges []Edge `json:"edges" toon:"edges"`
	Stats Stats  `json:"stats" toon:"stats"`
}

// Stats summarizes a run so callers can detect degraded results.
type Stats struct {
	FilesAnalyzed int              `json:"files_analyzed" toon:"files_analyzed"`
	FilesSkipped  int              `json:"files_skipped" toon:"files_skipped"`
	NodesByKind   map[NodeKind]int `json:"nodes_by_kind" toon:"nodes_by_kind"`
	EdgesByKind   map[EdgeKind]int `json:"edges_by_kind" toon:"edges_by_kind"`
	UnusedCount   int              `json:"unused_count" toon:"unused_count"`
}

// NodeByID returns the node with the given id, if present.
func (g *Graph) NodeByID(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Unused returns all internal declared nodes with Used == false, in id
// order. Synthetic external nodes are always used and never appear.
func (g *Graph) Unused() []Node {
	var out []Node
	for _, n := range g.Nodes {
		if !n.Used {
			out = append(out, n)
		}
	}
	return out
}

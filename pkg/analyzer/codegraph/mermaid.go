package codegraph

import (
	"fmt"
	"strings"
)

// MermaidDirection specifies the diagram direction.
type MermaidDirection string

const (
	DirectionTD MermaidDirection = "TD" // Top-down
	DirectionLR MermaidDirection = "LR" // Left-right
)

// MermaidOptions configures Mermaid diagram generation.
type MermaidOptions struct {
	Direction     MermaidDirection
	IncludeUnused bool
	MaxNodes      int // 0 = no limit
}

// DefaultMermaidOptions returns sensible defaults.
func DefaultMermaidOptions() MermaidOptions {
	return MermaidOptions{
		Direction:     DirectionTD,
		IncludeUnused: true,
	}
}

// RenderMermaid renders the graph as a Mermaid flowchart. Unused nodes
// are drawn with a dashed style so dead code stands out in the diagram.
func (g *Graph) RenderMermaid(opts MermaidOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "graph %s\n", opts.Direction)

	included := make(map[string]struct{}, len(g.Nodes))
	count := 0
	for _, n := range g.Nodes {
		if !opts.IncludeUnused && !n.Used {
			continue
		}
		if opts.MaxNodes > 0 && count >= opts.MaxNodes {
			break
		}
		included[n.ID] = struct{}{}
		count++
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", sanitizeMermaidID(n.ID), escapeMermaidLabel(n.Label))
	}

	for _, e := range g.Edges {
		if _, ok := included[e.Source]; !ok {
			continue
		}
		if _, ok := included[e.Target]; !ok {
			continue
		}
		arrow := "-->"
		if e.Kind == EdgeContainment {
			arrow = "---"
		}
		fmt.Fprintf(&b, "    %s %s %s\n", sanitizeMermaidID(e.Source), arrow, sanitizeMermaidID(e.Target))
	}

	var unused []string
	for _, n := range g.Nodes {
		if _, ok := included[n.ID]; ok && !n.Used {
			unused = append(unused, sanitizeMermaidID(n.ID))
		}
	}
	if len(unused) > 0 {
		b.WriteString("    classDef unused stroke-dasharray: 5 5\n")
		fmt.Fprintf(&b, "    class %s unused\n", strings.Join(unused, ","))
	}

	return b.String()
}

// sanitizeMermaidID makes an entity id safe as a Mermaid node id.
func sanitizeMermaidID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// escapeMermaidLabel escapes characters that break Mermaid labels.
func escapeMermaidLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, "#quot;")
	label = strings.ReplaceAll(label, "[", "#91;")
	label = strings.ReplaceAll(label, "]", "#93;")
	return label
}

package graph

import (
	"fmt"
	"strings"
)

// Exporter renders a graph as diagram source
type Exporter struct {
	graph *Graph
}

// NewExporter creates a new exporter for the given graph
func NewExporter(g *Graph) *Exporter {
	return &Exporter{graph: g}
}

// MermaidOptions defines configuration for Mermaid diagram generation
type MermaidOptions struct {
	// Direction of the flowchart (e.g., "TD", "LR")
	Direction string
	// HideInitials leaves initial information packets out
	HideInitials bool
}

// DrawMermaid generates a left-to-right Mermaid flowchart
func (ge *Exporter) DrawMermaid() string {
	return ge.DrawMermaidWithOptions(MermaidOptions{Direction: "LR"})
}

// DrawMermaidWithOptions generates a Mermaid diagram with custom options
func (ge *Exporter) DrawMermaidWithOptions(opts MermaidOptions) string {
	g := ge.graph
	var sb strings.Builder

	direction := opts.Direction
	if direction == "" {
		direction = "LR"
	}
	sb.WriteString(fmt.Sprintf("flowchart %s\n", direction))

	grouped := make(map[string]bool)
	for i, gr := range g.groups {
		sb.WriteString(fmt.Sprintf("    subgraph group_%d[\"%s\"]\n", i, escapeLabel(gr.Name)))
		for _, id := range gr.Nodes {
			if n, ok := g.nodeIndex[id]; ok {
				sb.WriteString(fmt.Sprintf("        %s\n", mermaidNode(n)))
				grouped[id] = true
			}
		}
		sb.WriteString("    end\n")
	}
	for _, n := range g.nodes {
		if !grouped[n.ID] {
			sb.WriteString(fmt.Sprintf("    %s\n", mermaidNode(n)))
		}
	}

	for _, e := range g.edges {
		sb.WriteString(fmt.Sprintf("    %s -->|\"%s → %s\"| %s\n",
			nodeKey(e.From.NodeID), leafPort(e.From), leafPort(e.To), nodeKey(e.To.NodeID)))
	}

	if !opts.HideInitials {
		for i, iip := range g.initials {
			key := fmt.Sprintf("iip_%d", i)
			sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", key, escapeLabel(fmt.Sprintf("%v", iip.Data))))
			sb.WriteString(fmt.Sprintf("    %s -.->|\"%s\"| %s\n", key, leafPort(iip.To), nodeKey(iip.To.NodeID)))
			sb.WriteString(fmt.Sprintf("    style %s fill:#FFFFE0\n", key))
		}
	}

	for _, name := range sortedKeys(g.inports) {
		p := g.inports[name]
		key := "in_" + nodeKey(name)
		sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", key, escapeLabel(name)))
		sb.WriteString(fmt.Sprintf("    %s -.->|\"%s\"| %s\n", key, p.Port, nodeKey(p.Process)))
		sb.WriteString(fmt.Sprintf("    style %s fill:#90EE90\n", key))
	}
	for _, name := range sortedKeys(g.outports) {
		p := g.outports[name]
		key := "out_" + nodeKey(name)
		sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", key, escapeLabel(name)))
		sb.WriteString(fmt.Sprintf("    %s -.->|\"%s\"| %s\n", nodeKey(p.Process), p.Port, key))
		sb.WriteString(fmt.Sprintf("    style %s fill:#FFB6C1\n", key))
	}

	return sb.String()
}

// DrawDOT generates a DOT (Graphviz) representation of the graph
func (ge *Exporter) DrawDOT() string {
	g := ge.graph
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("digraph %q {\n", g.Name))
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [shape=box];\n")

	for i, gr := range g.groups {
		sb.WriteString(fmt.Sprintf("    subgraph cluster_%d {\n", i))
		sb.WriteString(fmt.Sprintf("        label=%q;\n", gr.Name))
		for _, id := range gr.Nodes {
			if g.HasNode(id) {
				sb.WriteString(fmt.Sprintf("        %q;\n", id))
			}
		}
		sb.WriteString("    }\n")
	}

	for _, n := range g.nodes {
		sb.WriteString(fmt.Sprintf("    %q [label=%q];\n", n.ID, n.ID+"\n"+n.Component))
	}

	for _, e := range g.edges {
		sb.WriteString(fmt.Sprintf("    %q -> %q [taillabel=%q, headlabel=%q];\n",
			e.From.NodeID, e.To.NodeID, leafPort(e.From), leafPort(e.To)))
	}

	for i, iip := range g.initials {
		key := fmt.Sprintf("iip_%d", i)
		sb.WriteString(fmt.Sprintf("    %s [label=%q, shape=plaintext];\n", key, fmt.Sprintf("'%v'", iip.Data)))
		sb.WriteString(fmt.Sprintf("    %s -> %q [style=dashed, headlabel=%q];\n", key, iip.To.NodeID, leafPort(iip.To)))
	}

	for _, name := range sortedKeys(g.inports) {
		p := g.inports[name]
		sb.WriteString(fmt.Sprintf("    %q [shape=ellipse, style=filled, fillcolor=lightgreen];\n", "in:"+name))
		sb.WriteString(fmt.Sprintf("    %q -> %q [headlabel=%q];\n", "in:"+name, p.Process, p.Port))
	}
	for _, name := range sortedKeys(g.outports) {
		p := g.outports[name]
		sb.WriteString(fmt.Sprintf("    %q [shape=ellipse, style=filled, fillcolor=lightpink];\n", "out:"+name))
		sb.WriteString(fmt.Sprintf("    %q -> %q [taillabel=%q];\n", p.Process, "out:"+name, p.Port))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func mermaidNode(n *Node) string {
	return fmt.Sprintf("%s[\"%s<br/><i>%s</i>\"]", nodeKey(n.ID), escapeLabel(n.ID), escapeLabel(n.Component))
}

func leafPort(l Leaf) string {
	if l.Index != nil {
		return fmt.Sprintf("%s[%d]", l.Port, *l.Index)
	}
	return l.Port
}

// nodeKey turns an arbitrary id into a Mermaid-safe identifier
func nodeKey(id string) string {
	var sb strings.Builder
	sb.WriteString("n_")
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteString(fmt.Sprintf("_%x_", r))
		}
	}
	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}

package graph

import (
	"fmt"
	"strings"
)

// Mermaid renders a canonical graph as a Mermaid flowchart string. Output is
// deterministic for a given graph: nodes and edges appear in canonical order.
func Mermaid(g *Graph) string {
	var b strings.Builder

	b.WriteString("graph TD\n")
	if g == nil || len(g.Nodes) == 0 {
		b.WriteString("    %% empty workflow\n")
		return b.String()
	}

	for _, n := range g.Nodes {
		b.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", mermaidSafeID(n.ID), mermaidEscape(n.Label)))
	}
	for _, e := range g.Edges {
		b.WriteString(fmt.Sprintf("    %s --> %s\n", mermaidSafeID(e.Source), mermaidSafeID(e.Target)))
	}

	return b.String()
}

// mermaidSafeID replaces characters Mermaid treats as syntax in identifiers.
func mermaidSafeID(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

func mermaidEscape(label string) string {
	label = strings.ReplaceAll(label, `"`, "#quot;")
	return strings.ReplaceAll(label, "\n", " ")
}

// Package graph turns stored workflow definitions into a canonical directed
// multigraph suitable for rendering or analysis, independent of the source
// connection encoding.
package graph

import (
	"strconv"
	"strings"

	"flowdex/backend/pkg/models"
)

// stickyNoteMarker identifies purely annotative nodes. They carry no
// execution semantics and never appear in the canonical graph.
const stickyNoteMarker = "stickyNote"

// Node is one renderable node of the canonical graph.
type Node struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Category string  `json:"category"`
}

// Edge is one directed connection between two canonical nodes. Slot and
// Index reproduce the source ordering so repeated normalization of the same
// definition is edge-for-edge identical.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Slot   int    `json:"slot"`
	Index  int    `json:"index"`
}

// Graph is the canonical form of one workflow definition. Nodes is never nil;
// an empty graph means "no preview available", not an error.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// ID returns a deterministic identity for the edge within its graph.
func (e Edge) ID() string {
	return e.Source + "-" + strconv.Itoa(e.Slot) + "-" + e.Target + "-" + strconv.Itoa(e.Index)
}

// Normalize converts a stored definition into its canonical graph. It never
// fails: annotative and positionless nodes are filtered out, connection
// entries whose source or target name does not resolve to a surviving node
// are dropped, and missing coordinates default to zero.
func Normalize(def *models.WorkflowDefinition) *Graph {
	g := &Graph{Nodes: []Node{}}
	if def == nil {
		return g
	}

	kept := make([]models.GraphNode, 0, len(def.Nodes))
	for _, n := range def.Nodes {
		if n.Name == "" || n.Type == "" {
			continue
		}
		if strings.Contains(n.Type, stickyNoteMarker) {
			continue
		}
		if len(n.Position) == 0 {
			continue
		}
		kept = append(kept, n)
	}

	// Name is the join key used by connection records. On collision the
	// later node wins; the corpus relies on this looseness.
	nameToID := make(map[string]string, len(kept))
	for _, n := range kept {
		nameToID[n.Name] = nodeID(n)
	}

	for _, n := range kept {
		x, y := 0.0, 0.0
		if len(n.Position) > 0 {
			x = n.Position[0]
		}
		if len(n.Position) > 1 {
			y = n.Position[1]
		}
		g.Nodes = append(g.Nodes, Node{
			ID:       nodeID(n),
			Label:    n.Name,
			X:        x,
			Y:        y,
			Category: typeCategory(n.Type),
		})
	}

	// Connection map iteration order is not deterministic, so edges are
	// emitted per source node in node order instead.
	seen := make(map[string]bool, len(kept))
	for _, n := range kept {
		if seen[n.Name] {
			continue
		}
		seen[n.Name] = true

		outputs, ok := def.Connections[n.Name]
		if !ok {
			continue
		}
		sourceID := nameToID[n.Name]
		for _, slot := range outputs.Slots {
			for groupIdx, group := range slot.Groups {
				for targetIdx, target := range group {
					targetID, ok := nameToID[target.Node]
					if !ok {
						continue
					}
					g.Edges = append(g.Edges, Edge{
						Source: sourceID,
						Target: targetID,
						Slot:   groupIdx,
						Index:  targetIdx,
					})
				}
			}
		}
	}

	return g
}

// nodeID returns the stable identity for a node: the export id when present,
// otherwise the name.
func nodeID(n models.GraphNode) string {
	if n.ID != "" {
		return n.ID
	}
	return n.Name
}

// typeCategory derives a coarse category from the last dot-delimited segment
// of a fully qualified node type, e.g. "n8n-nodes-base.slack" -> "slack".
func typeCategory(nodeType string) string {
	parts := strings.Split(nodeType, ".")
	return parts[len(parts)-1]
}

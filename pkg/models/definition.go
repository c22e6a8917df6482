package models

import (
	"encoding/json"
	"sort"
)

// GraphNode is one node of a stored workflow definition. Name is the join key
// referenced by connection records; ID is present in newer exports and
// preferred as the stable identity when set.
type GraphNode struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	TypeVersion float64        `json:"typeVersion,omitempty"`
	Position    []float64      `json:"position,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// ConnectionTarget is one downstream reference inside a connection record.
type ConnectionTarget struct {
	Node  string `json:"node"`
	Type  string `json:"type,omitempty"`
	Index int    `json:"index"`
}

// OutputSlot is one named output of a source node together with its ordered
// connection groups.
type OutputSlot struct {
	Name   string
	Groups [][]ConnectionTarget
}

// NodeOutputs is the canonical form of a source node's outgoing connections.
// The corpus contains three historical encodings of the same concept:
//
//	[[{...}]]                 bare list of slot groups
//	{"main": [[{...}]]}       the bare list under a "main" key
//	{"main": ..., "error": ...}  arbitrary named output slots
//
// All three decode into the same ordered slot list, so downstream code never
// branches on the source shape.
type NodeOutputs struct {
	Slots []OutputSlot
}

// UnmarshalJSON resolves the connection-record polymorphism at the ingestion
// boundary. Unrecognized or malformed payloads decode to zero slots rather
// than failing; the corpus is known to contain minor inconsistencies.
func (o *NodeOutputs) UnmarshalJSON(data []byte) error {
	o.Slots = nil

	// Shape (a): bare ordered list of slot groups.
	var bare [][]ConnectionTarget
	if err := json.Unmarshal(data, &bare); err == nil {
		if len(bare) > 0 {
			o.Slots = []OutputSlot{{Name: "main", Groups: bare}}
		}
		return nil
	}

	// Shapes (b) and (c): object keyed by output slot name. json.RawMessage
	// keeps slot payloads opaque until each is decoded as a group list.
	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil
	}

	// "main" first so shapes (b) and (c) order identically, remaining slots
	// in sorted-key order for deterministic output.
	names := make([]string, 0, len(keyed))
	if _, ok := keyed["main"]; ok {
		names = append(names, "main")
	}
	for _, name := range sortedKeys(keyed) {
		if name != "main" {
			names = append(names, name)
		}
	}

	for _, name := range names {
		var groups [][]ConnectionTarget
		if err := json.Unmarshal(keyed[name], &groups); err != nil {
			continue
		}
		o.Slots = append(o.Slots, OutputSlot{Name: name, Groups: groups})
	}
	return nil
}

// MarshalJSON writes the canonical keyed form.
func (o NodeOutputs) MarshalJSON() ([]byte, error) {
	out := make(map[string][][]ConnectionTarget, len(o.Slots))
	for _, slot := range o.Slots {
		out[slot.Name] = slot.Groups
	}
	return json.Marshal(out)
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WorkflowDefinition is the stored graph for one workflow: its nodes plus a
// connection map from source node name to that node's outputs.
type WorkflowDefinition struct {
	Nodes       []GraphNode            `json:"nodes"`
	Connections map[string]NodeOutputs `json:"connections"`
}

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMermaidLinear(t *testing.T) {
	g := Normalize(linearDefinition())

	out := Mermaid(g)

	assert.Equal(t, "graph TD\n"+
		"    Webhook[\"Webhook\"]\n"+
		"    Transform[\"Transform\"]\n"+
		"    Slack[\"Slack\"]\n"+
		"    Webhook --> Transform\n"+
		"    Transform --> Slack\n", out)
}

func TestMermaidDeterministic(t *testing.T) {
	def := linearDefinition()
	assert.Equal(t, Mermaid(Normalize(def)), Mermaid(Normalize(def)))
}

func TestMermaidEmptyGraph(t *testing.T) {
	assert.Contains(t, Mermaid(nil), "graph TD")
	assert.Contains(t, Mermaid(&Graph{Nodes: []Node{}}), "empty workflow")
}

func TestMermaidEscapesUnsafeIdentifiers(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "HTTP Request", Label: `Say "hi"`}},
	}

	out := Mermaid(g)

	assert.Contains(t, out, "HTTP_Request[")
	assert.NotContains(t, out, `Say "hi"`)
}

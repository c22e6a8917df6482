package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSummary(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	cases := []struct {
		name    string
		payload string
		ok      bool
	}{
		{
			name:    "bare record array",
			payload: `[{"id":"1","name":"Slack sync","categories":["automation"]}]`,
			ok:      true,
		},
		{
			name:    "scraper envelope",
			payload: `{"workflows":[{"id":"1","name":"Slack sync"}],"metadata":{"count":1}}`,
			ok:      true,
		},
		{
			name:    "empty array",
			payload: `[]`,
			ok:      true,
		},
		{
			name:    "record missing id",
			payload: `[{"name":"nameless"}]`,
			ok:      false,
		},
		{
			name:    "empty id",
			payload: `[{"id":"","name":"blank id"}]`,
			ok:      false,
		},
		{
			name:    "unknown difficulty",
			payload: `[{"id":"1","name":"x","difficulty":"impossible"}]`,
			ok:      false,
		},
		{
			name:    "negative stats",
			payload: `[{"id":"1","name":"x","stats":{"views":-1}}]`,
			ok:      false,
		},
		{
			name:    "envelope without workflows",
			payload: `{"metadata":{}}`,
			ok:      false,
		},
		{
			name:    "not JSON",
			payload: `{"workflows":`,
			ok:      false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateSummary([]byte(tc.payload))
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateDefinition(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	cases := []struct {
		name    string
		payload string
		ok      bool
	}{
		{
			name: "nodes with main connections",
			payload: `{
				"nodes":[{"name":"Webhook","type":"n8n-nodes-base.webhook","position":[0,0]}],
				"connections":{"Webhook":{"main":[[{"node":"Slack","type":"main","index":0}]]}}
			}`,
			ok: true,
		},
		{
			name: "legacy bare-list connections stay valid",
			payload: `{
				"nodes":[{"name":"A","type":"ns.a"}],
				"connections":{"A":[[{"node":"B","index":0}]]}
			}`,
			ok: true,
		},
		{
			name:    "connections must be an object",
			payload: `{"nodes":[{"name":"A","type":"ns.a"}],"connections":[]}`,
			ok:      false,
		},
		{
			name:    "no connections at all",
			payload: `{"nodes":[{"name":"Lonely","type":"ns.x"}]}`,
			ok:      true,
		},
		{
			name:    "missing nodes",
			payload: `{"connections":{}}`,
			ok:      false,
		},
		{
			name:    "node without type",
			payload: `{"nodes":[{"name":"A"}]}`,
			ok:      false,
		},
		{
			name:    "empty node name",
			payload: `{"nodes":[{"name":"","type":"ns.a"}]}`,
			ok:      false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateDefinition([]byte(tc.payload))
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

// Package validation checks corpus artifacts against embedded JSON Schemas
// before they are served or imported.
package validation

import (
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// summarySchemaJSON validates the bulk summary artifact: either a bare record
// array or the scraper envelope. Embedded as a constant to avoid filesystem
// dependencies.
const summarySchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://flowdex.dev/schemas/summary.json",
  "oneOf": [
    { "$ref": "#/$defs/records" },
    {
      "type": "object",
      "required": ["workflows"],
      "properties": {
        "workflows": { "$ref": "#/$defs/records" },
        "metadata": { "type": "object" }
      }
    }
  ],
  "$defs": {
    "records": {
      "type": "array",
      "items": { "$ref": "#/$defs/record" }
    },
    "record": {
      "type": "object",
      "required": ["id", "name"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "name": { "type": "string" },
        "description": { "type": "string" },
        "categories": { "type": "array", "items": { "type": "string" } },
        "integrations": { "type": "array", "items": { "type": "string" } },
        "tags": { "type": "array", "items": { "type": "string" } },
        "difficulty": {
          "type": "string",
          "enum": ["beginner", "intermediate", "advanced"]
        },
        "author": { "type": "string" },
        "stats": {
          "type": "object",
          "properties": {
            "views": { "type": "integer", "minimum": 0 },
            "downloads": { "type": "integer", "minimum": 0 }
          }
        }
      }
    }
  }
}`

// definitionSchemaJSON validates one stored workflow definition. The
// connections value is deliberately loose: the corpus carries three
// historical encodings, all normalized downstream.
const definitionSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://flowdex.dev/schemas/definition.json",
  "type": "object",
  "required": ["nodes"],
  "properties": {
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "type"],
        "properties": {
          "id": { "type": "string" },
          "name": { "type": "string", "minLength": 1 },
          "type": { "type": "string", "minLength": 1 },
          "typeVersion": { "type": "number" },
          "position": {
            "type": "array",
            "items": { "type": "number" }
          },
          "parameters": { "type": "object" }
        }
      }
    },
    "connections": { "type": "object" }
  }
}`

// Validator validates corpus artifacts. Safe for concurrent use; schemas are
// compiled once at construction.
type Validator struct {
	summary    *jsonschema.Schema
	definition *jsonschema.Schema
}

// NewValidator compiles the embedded schemas.
func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()

	summary, err := compile(c, "https://flowdex.dev/schemas/summary.json", summarySchemaJSON)
	if err != nil {
		return nil, err
	}
	definition, err := compile(c, "https://flowdex.dev/schemas/definition.json", definitionSchemaJSON)
	if err != nil {
		return nil, err
	}

	return &Validator{summary: summary, definition: definition}, nil
}

func compile(c *jsonschema.Compiler, id, schemaJSON string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema %s: %w", id, err)
	}
	if err := c.AddResource(id, doc); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", id, err)
	}
	schema, err := c.Compile(id)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", id, err)
	}
	return schema, nil
}

// ValidateSummary checks raw summary JSON against the summary schema.
func (v *Validator) ValidateSummary(data []byte) error {
	return validate(v.summary, data)
}

// ValidateDefinition checks one raw definition blob against its schema.
func (v *Validator) ValidateDefinition(data []byte) error {
	return validate(v.definition, data)
}

func validate(schema *jsonschema.Schema, data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return schema.Validate(doc)
}

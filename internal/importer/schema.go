package importer

import (
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

const journeySchemaURL = "https://journeyctl.dev/schemas/journey.json"

// journeySchemaJSON describes an exported journey document. Status and
// priority accept either a bare string or a {"value": ...} wrapper.
const journeySchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://journeyctl.dev/schemas/journey.json",
  "type": "object",
  "required": ["name", "nodes", "edges"],
  "properties": {
    "id": { "type": "string" },
    "name": { "type": "string", "minLength": 1 },
    "description": { "type": "string" },
    "createdAt": { "type": "string" },
    "updatedAt": { "type": "string" },
    "isPublished": { "type": "boolean" },
    "isDeleted": { "type": "boolean" },
    "isArchived": { "type": "boolean" },
    "isLocked": { "type": "boolean" },
    "isReadOnly": { "type": "boolean" },
    "isEditable": { "type": "boolean" },
    "goalLogicOperator": { "enum": ["AND", "OR"] },
    "nodes": { "type": "array", "items": { "$ref": "#/$defs/node" } },
    "edges": { "type": "array", "items": { "$ref": "#/$defs/edge" } },
    "goals": { "type": ["array", "null"], "items": { "$ref": "#/$defs/goal" } },
    "milestones": { "type": ["array", "null"], "items": { "$ref": "#/$defs/milestone" } },
    "reports": { "type": ["array", "null"], "items": { "$ref": "#/$defs/report" } }
  },
  "$defs": {
    "node": {
      "type": "object",
      "required": ["id", "node-subtype"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "type": { "type": "string" },
        "node-subtype": {
          "enum": ["entry", "decision", "wait", "loop", "decision-point", "goal", "milestone", "merge", "unknown"]
        },
        "position": {
          "type": "object",
          "required": ["x", "y"],
          "properties": { "x": { "type": "number" }, "y": { "type": "number" } }
        },
        "data": { "type": ["object", "null"] },
        "selected": { "type": "boolean" }
      }
    },
    "edge": {
      "type": "object",
      "required": ["id", "source", "target"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "source": { "type": "string", "minLength": 1 },
        "target": { "type": "string", "minLength": 1 },
        "sourceHandle": { "type": ["string", "null"] },
        "targetHandle": { "type": ["string", "null"] },
        "type": { "type": "string" },
        "data": { "type": ["object", "null"] }
      }
    },
    "tagged": {
      "oneOf": [
        { "type": "string" },
        { "type": "object", "required": ["value"], "properties": { "value": { "type": "string" } } }
      ]
    },
    "goal": {
      "type": "object",
      "required": ["id", "title"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "title": { "type": "string" },
        "targetValue": { "type": "number" },
        "currentValue": { "type": "number" },
        "status": { "$ref": "#/$defs/tagged" },
        "priority": { "$ref": "#/$defs/tagged" }
      }
    },
    "milestone": {
      "type": "object",
      "required": ["id", "title"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "title": { "type": "string" },
        "status": { "$ref": "#/$defs/tagged" },
        "progress": { "type": "integer", "minimum": 0, "maximum": 100 },
        "dependencies": { "type": ["array", "null"], "items": { "type": "string" } },
        "sortOrder": { "type": "integer", "minimum": 0 }
      }
    },
    "report": {
      "type": "object",
      "required": ["id", "type"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "type": { "enum": ["progress", "performance", "summary"] }
      }
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(journeySchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal journey schema: %w", err)
	}
	if err := c.AddResource(journeySchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add journey schema resource: %w", err)
	}
	s, err := c.Compile(journeySchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile journey schema: %w", err)
	}
	return s, nil
})

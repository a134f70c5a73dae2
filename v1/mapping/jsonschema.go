package mapping

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema is the structural shape of a mapping document. Semantic
// rules (which keys each kind needs, duplicate targets) live in Validate.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "version": {"type": ["string", "number"]},
    "description": {"type": "string"},
    "target_schema": {"type": "string"},
    "field_mappings": {"$ref": "#/definitions/mappingSet"},
    "mappings": {"type": "array", "items": {"$ref": "#/definitions/listMapping"}},
    "auto_mapping": {
      "type": "object",
      "additionalProperties": false,
      "properties": {"enabled": {"type": "boolean"}}
    }
  },
  "definitions": {
    "mappingSet": {
      "oneOf": [
        {
          "type": "object",
          "additionalProperties": {
            "oneOf": [{"type": "string"}, {"$ref": "#/definitions/mapping"}]
          }
        },
        {"type": "array", "items": {"$ref": "#/definitions/listMapping"}}
      ]
    },
    "mapping": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "target": {"type": "string"},
        "source": {"type": "string"},
        "type": {"type": "string"},
        "transform": {"type": "string"},
        "function": {"type": "string"},
        "args": {"type": "array"},
        "default": {},
        "required": {"type": "boolean"},
        "condition": {"type": "string"},
        "description": {"type": "string"},
        "validation": {
          "oneOf": [
            {"type": "string"},
            {"type": "array", "items": {"type": "string"}}
          ]
        },
        "conditions": {"type": "array", "items": {"$ref": "#/definitions/branch"}},
        "nested": {"$ref": "#/definitions/mappingSet"}
      }
    },
    "listMapping": {
      "allOf": [{"$ref": "#/definitions/mapping"}, {"required": ["target"]}]
    },
    "branch": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "when": {"type": "string"},
        "condition": {"type": "string"},
        "value": {},
        "function": {"type": "string"},
        "args": {"type": "array"}
      }
    }
  }
}`

var documentSchemaLoader = gojsonschema.NewStringLoader(documentSchema)

// checkStructure validates a decoded document against documentSchema and
// returns one problem per violation.
func checkStructure(doc interface{}) ([]string, error) {
	result, err := gojsonschema.Validate(documentSchemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("mapping: schema validation error: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return problems, nil
}

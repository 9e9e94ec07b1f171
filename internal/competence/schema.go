package competence

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const documentSchemaURL = "schema://competence-model.json"

// documentSchema describes the JSON rendition of a model document.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["elements"],
  "properties": {
    "version": {"type": "string"},
    "elements": {
      "type": "object",
      "properties": {
        "competences": {"type": ["array", "null"], "items": {"$ref": "#/$defs/ref"}},
        "gamesituations": {"type": ["array", "null"], "items": {"$ref": "#/$defs/gamesituation"}}
      }
    },
    "relations": {
      "type": "object",
      "properties": {
        "competenceprerequisites": {
          "type": ["array", "null"],
          "items": {
            "type": "object",
            "required": ["id"],
            "properties": {
              "id": {"type": "string", "minLength": 1},
              "prerequisites": {"type": ["array", "null"], "items": {"$ref": "#/$defs/ref"}}
            }
          }
        }
      }
    },
    "mappings": {
      "type": "object",
      "properties": {
        "difficulties": {"type": ["array", "null"], "items": {"$ref": "#/$defs/weighted"}}
      }
    }
  },
  "$defs": {
    "ref": {
      "type": "object",
      "required": ["id"],
      "properties": {"id": {"type": "string", "minLength": 1}}
    },
    "weighted": {
      "type": "object",
      "required": ["id", "weight"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "weight": {"type": "number", "exclusiveMinimum": 0}
      }
    },
    "gamesituation": {
      "type": "object",
      "required": ["id", "difficulty", "competences"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "difficulty": {"type": "string", "minLength": 1},
        "learning": {"type": "boolean"},
        "assessment": {"type": "boolean"},
        "competences": {"type": "array", "minItems": 1, "items": {"$ref": "#/$defs/weighted"}}
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func documentJSONSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(documentSchema), &def); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(documentSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(documentSchemaURL)
	})
	return compiledSchema, compileErr
}

// validateJSONDocument checks raw JSON against the model document schema.
func validateJSONDocument(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := documentJSONSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

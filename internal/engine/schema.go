package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema guards the structured state-update payload before it is
// unmarshalled into the world document. It checks shape, not semantics:
// the domain types normalize values afterwards.
const documentSchema = `{
	"type": "object",
	"required": ["time", "locations", "activities", "relationship"],
	"properties": {
		"time": {
			"type": "object",
			"required": ["current_datetime"],
			"properties": {
				"current_datetime": {"type": "string"},
				"days_into_offgrid": {"type": "integer", "minimum": 0},
				"time_of_day": {"type": "string"}
			}
		},
		"locations": {
			"type": "object",
			"required": ["george", "rebecca"],
			"properties": {
				"george": {"type": "string"},
				"rebecca": {"type": "string"}
			}
		},
		"activities": {"type": "object"},
		"relationship": {
			"type": "object",
			"properties": {
				"overall_tone": {"type": "string"},
				"recent_key_moments": {
					"type": "array",
					"items": {"type": "string"}
				}
			}
		},
		"threads": {
			"type": "array",
			"items": {"type": "string"}
		},
		"facts": {"type": "object"},
		"recent_places": {
			"type": "array",
			"items": {"type": "string"}
		},
		"character_state": {"type": "string"}
	}
}`

var compiledDocumentSchema = jsonschema.MustCompileString("world_state.json", documentSchema)

// validateDocumentPayload checks a raw state-update payload against the
// document schema.
func validateDocumentPayload(payload []byte) error {
	var decoded interface{}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	if err := decoder.Decode(&decoded); err != nil {
		return fmt.Errorf("decode state payload: %w", err)
	}
	if err := compiledDocumentSchema.Validate(decoded); err != nil {
		return fmt.Errorf("state payload failed schema validation: %w", err)
	}
	return nil
}

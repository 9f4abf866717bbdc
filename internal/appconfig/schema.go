// internal/appconfig/schema.go
package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains the shape of a benchmark config file before it is
// unmarshaled, so typos surface as schema errors rather than silently
// falling back to defaults.
var configSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"epochs":      map[string]any{"type": "integer", "minimum": 1},
		"vocab_size":  map[string]any{"type": "integer", "minimum": 1},
		"ninp":        map[string]any{"type": "integer", "minimum": 1},
		"nhid":        map[string]any{"type": "integer", "minimum": 1},
		"nhead":       map[string]any{"type": "integer", "minimum": 1},
		"num_layers":  map[string]any{"type": "integer", "minimum": 1},
		"dropout":     map[string]any{"type": "number", "minimum": 0, "exclusiveMaximum": 1},
		"initrange":   map[string]any{"type": "number", "exclusiveMinimum": 0},
		"criterion":   map[string]any{"type": "string"},
		"lr":          map[string]any{"type": "number", "exclusiveMinimum": 0},
		"grad_scaler": map[string]any{"type": "boolean"},
		"clip_value":  map[string]any{"type": "number", "exclusiveMinimum": 0},
		"batch_size":  map[string]any{"type": "integer", "minimum": 1},
		"seq_len":     map[string]any{"type": "integer", "minimum": 1},
		"debug":       map[string]any{"type": "boolean"},
		"logFile":     map[string]any{"type": "string"},
		"outputDir":   map[string]any{"type": "string"},
	},
}

// ValidateSchema checks raw config JSON against the embedded schema.
func ValidateSchema(data []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(configSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}

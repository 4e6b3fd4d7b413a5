package ruleset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const fileSchemaURL = "schema://luxscan-ruleset.json"

// fileSchema describes a ruleset override file. Both sections are optional;
// anything omitted keeps its built-in value.
var fileSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"groups": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties":           groupProperties(),
		},
		"weights": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"broad":             map[string]any{"type": "integer"},
				"low_explicit":      map[string]any{"type": "integer"},
				"visibility_hazard": map[string]any{"type": "integer"},
				"egress":            map[string]any{"type": "integer"},
				"electrical":        map[string]any{"type": "integer"},
			},
		},
	},
}

func groupProperties() map[string]any {
	props := make(map[string]any, len(AllGroups()))
	for _, name := range AllGroups() {
		props[string(name)] = map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]any{"type": "string", "minLength": 1},
		}
	}
	return props
}

// file is the decoded override document.
type file struct {
	Groups  map[GroupName][]string `json:"groups"`
	Weights map[string]int         `json:"weights"`
}

// LoadFile reads a JSON ruleset override, validates it against the file
// schema, merges it over the built-in tables, and compiles the result.
func LoadFile(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}
	return Parse(data)
}

// Parse is LoadFile for an in-memory document.
func Parse(data []byte) (*Ruleset, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse ruleset: %w", err)
	}

	compiled, err := compileFileSchema()
	if err != nil {
		return nil, err
	}
	if err := compiled.Validate(doc); err != nil {
		return nil, fmt.Errorf("ruleset does not match schema: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode ruleset: %w", err)
	}

	spec := DefaultSpec()
	for name, patterns := range f.Groups {
		spec.Groups[name] = patterns
	}
	for name, w := range f.Weights {
		switch GroupName(name) {
		case Broad:
			spec.Weights.Broad = w
		case LowExplicit:
			spec.Weights.LowExplicit = w
		case VisibilityHazard:
			spec.Weights.VisibilityHazard = w
		case Egress:
			spec.Weights.Egress = w
		case Electrical:
			spec.Weights.Electrical = w
		}
	}
	return New(spec)
}

func compileFileSchema() (*jsonschema.Schema, error) {
	// Round-trip through JSON so the compiler sees plain decoded values.
	raw, err := json.Marshal(fileSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal ruleset schema: %w", err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse ruleset schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(fileSchemaURL, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(fileSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile ruleset schema: %w", err)
	}
	return compiled, nil
}

// Marshal renders rs as a complete override document that Parse accepts.
func Marshal(rs *Ruleset) ([]byte, error) {
	spec := rs.Spec()
	doc := struct {
		Groups  map[GroupName][]string `json:"groups"`
		Weights Weights                `json:"weights"`
	}{spec.Groups, spec.Weights}
	return json.MarshalIndent(doc, "", "  ")
}

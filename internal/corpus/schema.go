package corpus

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const questionSchemaURL = "schema://fpdrill/question.json"

// questionSchema is the JSON Schema every imported question must satisfy.
func questionSchema() map[string]any {
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"id":            map[string]any{"type": "string", "minLength": 1},
			"grade":         map[string]any{"type": "string", "enum": anyList(Grades)},
			"year":          map[string]any{"type": "integer", "minimum": 1900, "maximum": 2999},
			"session":       map[string]any{"type": "string", "enum": anyList(Sessions)},
			"category":      map[string]any{"type": "string", "enum": anyList(CategoryIDs())},
			"subcategory":   map[string]any{"type": "string"},
			"questionType":  map[string]any{"type": "string", "enum": anyList(QuestionTypes)},
			"questionText":  map[string]any{"type": "string", "minLength": 1},
			"options":       map[string]any{"type": "array", "minItems": 2, "items": map[string]any{"type": "string"}},
			"correctAnswer": map[string]any{"type": "integer", "minimum": 0},
			"explanation":   map[string]any{"type": "string"},
			"difficulty":    map[string]any{"type": "string", "enum": anyList(Difficulties)},
			"tags":          map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"createdAt":     map[string]any{"type": "string"},
			"updatedAt":     map[string]any{"type": "string"},
		},
		"required": []any{
			"id", "grade", "year", "session", "category", "questionType",
			"questionText", "options", "correctAnswer", "difficulty",
		},
	}
}

// compiledSchema compiles the question schema once per process.
var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	// The jsonschema library expects a parsed JSON value, so round-trip the
	// Go definition through encoding/json.
	defBytes, err := json.Marshal(questionSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(questionSchemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(questionSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return compiled, nil
})

// validateRecord checks one raw record against the question schema and
// returns a single-line reason on failure.
func validateRecord(raw json.RawMessage) (string, error) {
	schema, err := compiledSchema()
	if err != nil {
		return "", err
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Sprintf("invalid JSON: %v", err), nil
	}
	if err := schema.Validate(parsed); err != nil {
		return flatten(err.Error()), nil
	}
	return "", nil
}

func flatten(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[i]), "- "))
	}
	return strings.Join(lines, "; ")
}

func anyList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

package converter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/teilomillet/chatagent/llm"
)

// StructConverter parses a completion into a value of T. The format
// instruction embeds a JSON schema derived from T's structure, so the model
// knows the exact record shape to produce.
type StructConverter[T any] struct {
	schema []byte
}

// NewStructConverter derives the schema for T once, at construction.
func NewStructConverter[T any]() (*StructConverter[T], error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	var zero T
	schema := reflector.Reflect(&zero)
	raw, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("derive schema: %w", err)
	}
	return &StructConverter[T]{schema: raw}, nil
}

// Format returns the instruction telling the model how to shape its answer.
func (c *StructConverter[T]) Format() string {
	return fmt.Sprintf("Respond with only a valid RFC8259 compliant JSON object, without any leading or "+
		"trailing text and without markdown code fences, conforming to this JSON schema:\n%s", c.schema)
}

// Schema returns the derived JSON schema text.
func (c *StructConverter[T]) Schema() string {
	return string(c.schema)
}

// Convert parses the completion into T. Unknown fields are rejected rather
// than dropped; the offending text travels with the error.
func (c *StructConverter[T]) Convert(text string) (T, error) {
	var result T
	cleaned := stripFences(text)

	dec := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&result); err != nil {
		var zero T
		return zero, &llm.FormatMismatchError{Shape: "struct", Text: text, Err: err}
	}
	return result, nil
}

package converter

import (
	"encoding/json"

	"github.com/teilomillet/chatagent/llm"
)

// MapConverter parses a completion into a string-keyed mapping.
type MapConverter struct{}

func NewMapConverter() *MapConverter {
	return &MapConverter{}
}

// Format returns the instruction telling the model how to shape its answer.
func (c *MapConverter) Format() string {
	return "Respond with only a valid RFC8259 compliant JSON object, without any leading or trailing text " +
		"and without markdown code fences."
}

// Convert parses the completion into a map. The offending text travels with
// the error when the completion is not a JSON object.
func (c *MapConverter) Convert(text string) (map[string]any, error) {
	cleaned := stripFences(text)
	var result map[string]any
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &llm.FormatMismatchError{Shape: "map", Text: text, Err: err}
	}
	return result, nil
}

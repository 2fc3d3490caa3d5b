// Package converter turns completion text into structured values. Each
// converter produces a format instruction to embed in the prompt and a
// parse function for the completion; parsing fails with a
// FormatMismatchError rather than coercing or dropping fields.
package converter

import (
	"errors"
	"strings"
)

var errEmptyCompletion = errors.New("completion is empty")

// stripFences removes a surrounding markdown code fence, with or without a
// language tag. Models frequently wrap JSON answers in one despite the
// format instruction.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

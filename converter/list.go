package converter

import (
	"strings"

	"github.com/teilomillet/chatagent/llm"
)

// ListConverter parses a completion into a list of strings.
type ListConverter struct{}

func NewListConverter() *ListConverter {
	return &ListConverter{}
}

// Format returns the instruction telling the model how to shape its answer.
func (c *ListConverter) Format() string {
	return "Respond with only a list of comma-separated values, without any leading or trailing text. " +
		"Example format: foo, bar, baz"
}

// Convert parses the completion into its elements. Comma-separated values
// and line-oriented lists (with optional bullet or numbering prefixes) are
// both accepted, matching what models actually emit for the instruction.
func (c *ListConverter) Convert(text string) ([]string, error) {
	cleaned := stripFences(text)
	if cleaned == "" {
		return nil, &llm.FormatMismatchError{Shape: "list", Text: text, Err: errEmptyCompletion}
	}

	var raw []string
	if lines := nonEmptyLines(cleaned); len(lines) > 1 {
		raw = lines
	} else {
		raw = strings.Split(cleaned, ",")
	}

	items := make([]string, 0, len(raw))
	for _, item := range raw {
		item = trimListMarker(strings.TrimSpace(item))
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, &llm.FormatMismatchError{Shape: "list", Text: text, Err: errEmptyCompletion}
	}
	return items, nil
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// trimListMarker drops a leading bullet ("-", "*") or "1." style number.
func trimListMarker(item string) string {
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(item, marker) {
			return strings.TrimSpace(strings.TrimPrefix(item, marker))
		}
	}
	if i := strings.IndexByte(item, '.'); i > 0 && i < 4 && isDigits(item[:i]) {
		return strings.TrimSpace(item[i+1:])
	}
	return item
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

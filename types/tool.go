package types

import "encoding/json"

// Function describes a callable function the model may request during
// generation. Parameters follow the JSON schema object convention used by
// OpenAI-compatible APIs.
type Function struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Tool wraps a Function for the wire format, where Type is always "function".
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// ToolCall is a request from the model to invoke a declared function.
type ToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

// Arguments parses the call arguments into a map.
func (tc *ToolCall) Arguments() (map[string]any, error) {
	var args map[string]any
	if err := json.Unmarshal(tc.Function.Arguments, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// ArgumentString returns a named string argument, or "" when absent or
// not a string.
func (tc *ToolCall) ArgumentString(key string) string {
	args, err := tc.Arguments()
	if err != nil {
		return ""
	}
	if val, ok := args[key].(string); ok {
		return val
	}
	return ""
}

// ToolResult carries the outcome of executing a requested function back to
// the model.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

func NewToolResult(toolCallID, content string) ToolResult {
	return ToolResult{ToolCallID: toolCallID, Content: content}
}

func NewToolError(toolCallID, errorMessage string) ToolResult {
	return ToolResult{ToolCallID: toolCallID, Content: errorMessage, IsError: true}
}

package providers

import "github.com/teilomillet/chatagent/types"

// StopReason tells why the model stopped generating.
type StopReason string

const (
	StopReasonStop      StopReason = "stop"
	StopReasonLength    StopReason = "length"
	StopReasonToolCalls StopReason = "tool_calls"
)

// Usage contains token usage statistics for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the model's completion for a prompt: the generated message,
// any requested tool calls, and metadata. A Response is produced once per
// invocation (or accumulated from stream chunks) and never modified after.
type Response struct {
	Content    string
	ToolCalls  []types.ToolCall
	Usage      *Usage
	StopReason StopReason
}

// HasToolCalls reports whether the model requested tool use instead of
// returning a final message.
func (r *Response) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}

// String returns the text content of the response.
func (r *Response) String() string {
	return r.Content
}

// Package types contains the shared data model used across the chatagent
// library. It keeps the core packages free of import cycles.
package types

// Role identifies the author of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Media is an attachment carried by a message: either raw bytes or a URL,
// with a declared MIME type. Exactly one of Data and URL is set.
type Media struct {
	MIMEType string
	Data     []byte
	URL      string
}

// Message is a single entry in a prompt or completion. Messages are treated
// as values: augmentation steps copy rather than mutate them.
type Message struct {
	Role       Role
	Content    string
	Media      []Media
	ToolCalls  []ToolCall // set on assistant messages that request tool use
	ToolCallID string     // set on tool messages responding to a call
}

// Turn is one exchange entry persisted in conversational memory.
type Turn struct {
	Role    Role
	Content string
}

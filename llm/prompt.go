// Package llm implements the core prompt model and the completion invoker of
// the chatagent library.
package llm

import (
	"strings"

	"github.com/teilomillet/chatagent/types"
)

// Prompt is an ordered sequence of messages plus the functions the model may
// call. A Prompt is immutable once constructed: every augmentation helper
// returns a new Prompt and leaves the receiver untouched.
type Prompt struct {
	Messages []types.Message
	Tools    []types.Tool
}

// PromptOption configures a Prompt at construction.
type PromptOption func(*Prompt)

// NewPrompt creates a Prompt with a single user message and applies the
// given options.
func NewPrompt(input string, opts ...PromptOption) *Prompt {
	p := &Prompt{}
	if input != "" {
		p.Messages = append(p.Messages, types.Message{Role: types.RoleUser, Content: input})
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithSystemPrompt prepends a system message.
func WithSystemPrompt(content string) PromptOption {
	return func(p *Prompt) {
		p.Messages = append([]types.Message{{Role: types.RoleSystem, Content: content}}, p.Messages...)
	}
}

// WithMessage appends a message.
func WithMessage(msg types.Message) PromptOption {
	return func(p *Prompt) {
		p.Messages = append(p.Messages, msg)
	}
}

// WithMessages appends multiple messages in order.
func WithMessages(msgs ...types.Message) PromptOption {
	return func(p *Prompt) {
		p.Messages = append(p.Messages, msgs...)
	}
}

// WithMedia attaches media to the last user message.
func WithMedia(media ...types.Media) PromptOption {
	return func(p *Prompt) {
		for i := len(p.Messages) - 1; i >= 0; i-- {
			if p.Messages[i].Role == types.RoleUser {
				p.Messages[i].Media = append(p.Messages[i].Media, media...)
				return
			}
		}
	}
}

// WithTools declares callable functions on the prompt.
func WithTools(tools ...types.Tool) PromptOption {
	return func(p *Prompt) {
		p.Tools = append(p.Tools, tools...)
	}
}

// clone returns a deep-enough copy for safe append-and-replace operations.
// Message values are shared; they are never mutated after construction.
func (p *Prompt) clone() *Prompt {
	cp := &Prompt{
		Messages: append([]types.Message(nil), p.Messages...),
		Tools:    append([]types.Tool(nil), p.Tools...),
	}
	return cp
}

// Append returns a new Prompt with msg added at the end.
func (p *Prompt) Append(msg types.Message) *Prompt {
	cp := p.clone()
	cp.Messages = append(cp.Messages, msg)
	return cp
}

// System returns the first system message and whether one exists.
func (p *Prompt) System() (types.Message, bool) {
	for _, m := range p.Messages {
		if m.Role == types.RoleSystem {
			return m, true
		}
	}
	return types.Message{}, false
}

// ReplaceSystem returns a new Prompt whose system message content is set to
// content. When no system message exists one is prepended.
func (p *Prompt) ReplaceSystem(content string) *Prompt {
	cp := p.clone()
	for i, m := range cp.Messages {
		if m.Role == types.RoleSystem {
			m.Content = content
			cp.Messages[i] = m
			return cp
		}
	}
	cp.Messages = append([]types.Message{{Role: types.RoleSystem, Content: content}}, cp.Messages...)
	return cp
}

// LastUser returns the index of the last user message, or -1.
func (p *Prompt) LastUser() int {
	for i := len(p.Messages) - 1; i >= 0; i-- {
		if p.Messages[i].Role == types.RoleUser {
			return i
		}
	}
	return -1
}

// UserText returns the content of the last user message, or "".
func (p *Prompt) UserText() string {
	if i := p.LastUser(); i >= 0 {
		return p.Messages[i].Content
	}
	return ""
}

// RewriteUser returns a new Prompt with the last user message content
// replaced by content.
func (p *Prompt) RewriteUser(content string) *Prompt {
	cp := p.clone()
	if i := cp.LastUser(); i >= 0 {
		m := cp.Messages[i]
		m.Content = content
		cp.Messages[i] = m
	}
	return cp
}

// String renders the prompt as "role: content" lines, for logging and for
// providers without a message-structured wire format.
func (p *Prompt) String() string {
	var sb strings.Builder
	for _, m := range p.Messages {
		sb.WriteString(string(m.Role))
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Package agent implements the retrieval-augmented prompt assembly pipeline:
// retrievers pull tagged content fragments, transformers shape them to token
// budgets, augmentors merge them back into the prompt, and listeners persist
// the finished exchange.
package agent

import (
	"github.com/teilomillet/chatagent/llm"
	"github.com/teilomillet/chatagent/types"
)

// PromptContext wraps the prompt being assembled together with the content
// fragments retrieved for it, grouped by content-type tag. A PromptContext
// is owned exclusively by one request; it is not safe for concurrent use.
type PromptContext struct {
	// Prompt is the current prompt, replaced by each augmentation step.
	Prompt *llm.Prompt

	// Original is the prompt as supplied by the caller, before any
	// augmentation. Listeners read the user's question from here.
	Original *llm.Prompt

	fragments map[string][]types.ContentFragment
}

// NewPromptContext creates a context for one request.
func NewPromptContext(prompt *llm.Prompt) *PromptContext {
	return &PromptContext{
		Prompt:    prompt,
		Original:  prompt,
		fragments: make(map[string][]types.ContentFragment),
	}
}

// AddFragments merges fragments into the context. Later additions for the
// same tag append after earlier ones, they never replace them.
func (pc *PromptContext) AddFragments(frags ...types.ContentFragment) {
	for _, f := range frags {
		pc.fragments[f.Tag] = append(pc.fragments[f.Tag], f)
	}
}

// FragmentsFor returns the fragments retrieved for a tag, in arrival order.
func (pc *PromptContext) FragmentsFor(tag string) []types.ContentFragment {
	return pc.fragments[tag]
}

// SetFragments replaces the fragment list for a tag. Transformers use it to
// install their shaped output.
func (pc *PromptContext) SetFragments(tag string, frags []types.ContentFragment) {
	pc.fragments[tag] = frags
}

// Tags returns the tags that currently hold fragments.
func (pc *PromptContext) Tags() []string {
	tags := make([]string, 0, len(pc.fragments))
	for tag, frags := range pc.fragments {
		if len(frags) > 0 {
			tags = append(tags, tag)
		}
	}
	return tags
}

// AgentResponse pairs the completion with the context that produced it, for
// listeners and downstream evaluation.
type AgentResponse struct {
	Response *llm.Response
	Context  *PromptContext
}

package agent

import (
	"strings"

	"github.com/teilomillet/chatagent/types"
)

// Augmentor merges tagged fragments back into the prompt. Each augmentor
// only touches the messages derived from its own declared tag set, so
// augmentors over disjoint tags compose in either order.
type Augmentor interface {
	Augment(pc *PromptContext) error
}

// DefaultHistoryTemplate is the system-text template applied when none is
// supplied. The {history} placeholder receives the joined fragment texts.
const DefaultHistoryTemplate = `Use the conversation history from the HISTORY section to provide accurate answers.

HISTORY:
{history}`

// LongTermHistoryTemplate marks long-term memory off from the rest of the
// system text.
const LongTermHistoryTemplate = `Use the long term conversation history from the LONG TERM HISTORY section to provide accurate answers.

LONG TERM HISTORY:
{history}`

// SystemPromptAugmentor substitutes the {history} placeholder of its
// template with the joined fragment texts of its tags and appends the
// rendered block to the system message, creating one when the prompt has
// none. With no matching fragments the placeholder becomes the empty
// string; the augmentor never fails on missing content.
type SystemPromptAugmentor struct {
	Template string
	Tags     []string
}

// NewSystemPromptAugmentor creates an augmentor for the given tags. An
// empty template selects DefaultHistoryTemplate.
func NewSystemPromptAugmentor(template string, tags ...string) *SystemPromptAugmentor {
	if template == "" {
		template = DefaultHistoryTemplate
	}
	return &SystemPromptAugmentor{Template: template, Tags: tags}
}

func (a *SystemPromptAugmentor) Augment(pc *PromptContext) error {
	history := joinFragments(pc, a.Tags)
	rendered := strings.TrimSpace(strings.ReplaceAll(a.Template, "{history}", history))

	if system, ok := pc.Prompt.System(); ok {
		pc.Prompt = pc.Prompt.ReplaceSystem(system.Content + "\n\n" + rendered)
	} else {
		pc.Prompt = pc.Prompt.ReplaceSystem(rendered)
	}
	return nil
}

// QuestionContextAugmentor appends fragment text into the user message,
// delimited from the original question. With no matching fragments the
// prompt is left untouched.
type QuestionContextAugmentor struct {
	Tags []string
}

// NewQuestionContextAugmentor creates an augmentor for the given tags,
// defaulting to external knowledge.
func NewQuestionContextAugmentor(tags ...string) *QuestionContextAugmentor {
	if len(tags) == 0 {
		tags = []string{types.ContentExternalKnowledge}
	}
	return &QuestionContextAugmentor{Tags: tags}
}

func (a *QuestionContextAugmentor) Augment(pc *PromptContext) error {
	context := joinFragments(pc, a.Tags)
	if context == "" {
		return nil
	}

	question := pc.Prompt.UserText()
	var sb strings.Builder
	sb.WriteString(question)
	sb.WriteString("\n\nContext information is below.\n")
	sb.WriteString("---------------------\n")
	sb.WriteString(context)
	sb.WriteString("\n---------------------\n")
	sb.WriteString("Given the context information and not prior knowledge, answer the question.")

	pc.Prompt = pc.Prompt.RewriteUser(sb.String())
	return nil
}

// joinFragments concatenates the fragment texts of the given tags, in tag
// declaration order then arrival order, one fragment per line.
func joinFragments(pc *PromptContext, tags []string) string {
	var texts []string
	for _, tag := range tags {
		for _, frag := range pc.FragmentsFor(tag) {
			texts = append(texts, frag.Text)
		}
	}
	return strings.Join(texts, "\n")
}

package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teilomillet/chatagent/llm"
	"github.com/teilomillet/chatagent/types"
)

func TestSystemPromptAugmentor(t *testing.T) {
	t.Run("Substitutes history into a new system message", func(t *testing.T) {
		pc := NewPromptContext(llm.NewPrompt("what did I say?"))
		pc.AddFragments(
			types.NewFragment(types.ContentShortTermMemory, "user: my name is Bob"),
			types.NewFragment(types.ContentShortTermMemory, "assistant: nice to meet you, Bob"),
		)

		aug := NewSystemPromptAugmentor("", types.ContentShortTermMemory)
		require.NoError(t, aug.Augment(pc))

		system, ok := pc.Prompt.System()
		require.True(t, ok)
		assert.Contains(t, system.Content, "HISTORY:")
		assert.Contains(t, system.Content, "user: my name is Bob")
		assert.Contains(t, system.Content, "assistant: nice to meet you, Bob")
	})

	t.Run("Appends to an existing system message", func(t *testing.T) {
		prompt := llm.NewPrompt("hello", llm.WithSystemPrompt("You are terse."))
		pc := NewPromptContext(prompt)
		pc.AddFragments(types.NewFragment(types.ContentLongTermMemory, "user: I live in Lyon"))

		aug := NewSystemPromptAugmentor(LongTermHistoryTemplate, types.ContentLongTermMemory)
		require.NoError(t, aug.Augment(pc))

		system, ok := pc.Prompt.System()
		require.True(t, ok)
		assert.Contains(t, system.Content, "You are terse.")
		assert.Contains(t, system.Content, "LONG TERM HISTORY:")
		assert.Contains(t, system.Content, "user: I live in Lyon")
	})

	t.Run("Missing fragments render an empty history", func(t *testing.T) {
		pc := NewPromptContext(llm.NewPrompt("hello"))

		aug := NewSystemPromptAugmentor("LONG TERM HISTORY:\n{history}", types.ContentLongTermMemory)
		require.NoError(t, aug.Augment(pc))

		system, ok := pc.Prompt.System()
		require.True(t, ok)
		assert.Equal(t, "LONG TERM HISTORY:", system.Content)
	})

	t.Run("Original prompt is untouched", func(t *testing.T) {
		prompt := llm.NewPrompt("hello")
		pc := NewPromptContext(prompt)
		pc.AddFragments(types.NewFragment(types.ContentShortTermMemory, "user: hi"))

		aug := NewSystemPromptAugmentor("", types.ContentShortTermMemory)
		require.NoError(t, aug.Augment(pc))

		_, ok := pc.Original.System()
		assert.False(t, ok)
		assert.Equal(t, "hello", pc.Original.UserText())
	})
}

func TestQuestionContextAugmentor(t *testing.T) {
	t.Run("Appends delimited context to the question", func(t *testing.T) {
		pc := NewPromptContext(llm.NewPrompt("What is the capital of Denmark?"))
		pc.AddFragments(
			types.NewFragment(types.ContentExternalKnowledge, "Copenhagen is the capital of Denmark."),
		)

		aug := NewQuestionContextAugmentor()
		require.NoError(t, aug.Augment(pc))

		question := pc.Prompt.UserText()
		assert.Contains(t, question, "What is the capital of Denmark?")
		assert.Contains(t, question, "Context information is below.")
		assert.Contains(t, question, "Copenhagen is the capital of Denmark.")
		assert.Contains(t, question, "Given the context information and not prior knowledge, answer the question.")
	})

	t.Run("No fragments leaves the prompt untouched", func(t *testing.T) {
		pc := NewPromptContext(llm.NewPrompt("What is the capital of Denmark?"))

		aug := NewQuestionContextAugmentor()
		require.NoError(t, aug.Augment(pc))
		assert.Equal(t, "What is the capital of Denmark?", pc.Prompt.UserText())
	})
}

func TestAugmentorsOverDisjointTagsCommute(t *testing.T) {
	build := func() *PromptContext {
		pc := NewPromptContext(llm.NewPrompt("where do I live?"))
		pc.AddFragments(
			types.NewFragment(types.ContentShortTermMemory, "user: I moved last year"),
			types.NewFragment(types.ContentExternalKnowledge, "Lyon is in France."),
		)
		return pc
	}

	system := NewSystemPromptAugmentor("", types.ContentShortTermMemory)
	question := NewQuestionContextAugmentor()

	first := build()
	require.NoError(t, system.Augment(first))
	require.NoError(t, question.Augment(first))

	second := build()
	require.NoError(t, question.Augment(second))
	require.NoError(t, system.Augment(second))

	assert.Equal(t, first.Prompt.String(), second.Prompt.String())
}

package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teilomillet/chatagent/embedding"
	"github.com/teilomillet/chatagent/llm"
	"github.com/teilomillet/chatagent/memory"
	"github.com/teilomillet/chatagent/types"
	"github.com/teilomillet/chatagent/vector"
)

func exchangeResponse(question, answer string) *AgentResponse {
	pc := NewPromptContext(llm.NewPrompt(question))
	pc.Prompt = pc.Prompt.RewriteUser(question + "\n\nContext information is below.")
	return &AgentResponse{
		Response: &llm.Response{Content: answer, StopReason: llm.StopReasonStop},
		Context:  pc,
	}
}

func TestChatMemoryListener(t *testing.T) {
	mem := memory.NewInMemoryChatMemory()
	l := &ChatMemoryListener{Memory: mem}

	err := l.OnResponse(context.Background(), exchangeResponse("my name is Bob", "hello Bob"))
	require.NoError(t, err)

	turns := mem.LastN(0)
	require.Len(t, turns, 2)

	// The persisted question is the caller's original one, not the
	// augmented rewrite.
	assert.Equal(t, types.RoleUser, turns[0].Role)
	assert.Equal(t, "my name is Bob", turns[0].Content)
	assert.Equal(t, types.RoleAssistant, turns[1].Role)
	assert.Equal(t, "hello Bob", turns[1].Content)
}

func TestVectorStoreMemoryListener(t *testing.T) {
	ctx := context.Background()
	store := vector.NewInMemoryStore()
	embedder := embedding.HashEmbedder{}
	l := &VectorStoreMemoryListener{Store: store, Embedder: embedder}

	err := l.OnResponse(ctx, exchangeResponse("my name is Bob", "hello Bob"))
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	vec, err := embedder.Embed(ctx, "user: my name is Bob")
	require.NoError(t, err)
	results, err := store.Search(ctx, vec, 1)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "user: my name is Bob", results[0].Content)
	assert.Equal(t, types.ContentLongTermMemory, results[0].Metadata["content_type"])
	assert.Equal(t, "user", results[0].Metadata["role"])
}

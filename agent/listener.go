package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/teilomillet/chatagent/embedding"
	"github.com/teilomillet/chatagent/memory"
	"github.com/teilomillet/chatagent/types"
	"github.com/teilomillet/chatagent/vector"
)

// Listener is a side-effect hook invoked after a completion. A listener
// failure is reported through the agent's logger and never invalidates the
// already-produced response.
type Listener interface {
	Name() string
	OnResponse(ctx context.Context, resp *AgentResponse) error
}

// ChatMemoryListener persists the exchange into short-term memory: the
// user's original question and the assistant's answer, as two turns.
type ChatMemoryListener struct {
	Memory memory.ChatMemory
}

func (l *ChatMemoryListener) Name() string {
	return "chat_memory"
}

func (l *ChatMemoryListener) OnResponse(ctx context.Context, resp *AgentResponse) error {
	l.Memory.Append(types.Turn{Role: types.RoleUser, Content: resp.Context.Original.UserText()})
	l.Memory.Append(types.Turn{Role: types.RoleAssistant, Content: resp.Response.Content})
	return nil
}

// VectorStoreMemoryListener embeds the exchange and upserts it into a
// vector store for long-term similarity retrieval.
type VectorStoreMemoryListener struct {
	Store    vector.Store
	Embedder embedding.Embedder
}

func (l *VectorStoreMemoryListener) Name() string {
	return "vector_store_memory"
}

func (l *VectorStoreMemoryListener) OnResponse(ctx context.Context, resp *AgentResponse) error {
	turns := []types.Turn{
		{Role: types.RoleUser, Content: resp.Context.Original.UserText()},
		{Role: types.RoleAssistant, Content: resp.Response.Content},
	}

	docs := make([]vector.Document, 0, len(turns))
	for _, turn := range turns {
		content := fmt.Sprintf("%s: %s", turn.Role, turn.Content)
		vec, err := l.Embedder.Embed(ctx, content)
		if err != nil {
			return fmt.Errorf("embed turn: %w", err)
		}
		docs = append(docs, vector.Document{
			ID:      uuid.NewString(),
			Content: content,
			Vector:  vec,
			Metadata: map[string]string{
				"content_type": types.ContentLongTermMemory,
				"role":         string(turn.Role),
			},
		})
	}
	return l.Store.Upsert(ctx, docs)
}

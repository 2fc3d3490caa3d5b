package agent

import (
	"context"
	"fmt"
	"strconv"

	"github.com/teilomillet/chatagent/embedding"
	"github.com/teilomillet/chatagent/memory"
	"github.com/teilomillet/chatagent/types"
	"github.com/teilomillet/chatagent/vector"
)

// Retriever pulls content fragments for one content-type tag. Retrievers
// run concurrently with each other; each must be safe to call from its own
// goroutine.
type Retriever interface {
	// Tag is the content-type tag every returned fragment carries.
	Tag() string

	Retrieve(ctx context.Context, pc *PromptContext) ([]types.ContentFragment, error)
}

// ChatMemoryRetriever returns the most recent raw conversational turns from
// short-term memory.
type ChatMemoryRetriever struct {
	Memory memory.ChatMemory
	N      int // 0 means every stored turn
}

func (r *ChatMemoryRetriever) Tag() string {
	return types.ContentShortTermMemory
}

func (r *ChatMemoryRetriever) Retrieve(ctx context.Context, pc *PromptContext) ([]types.ContentFragment, error) {
	turns := r.Memory.LastN(r.N)
	frags := make([]types.ContentFragment, 0, len(turns))
	for _, turn := range turns {
		frag := types.NewFragment(r.Tag(), fmt.Sprintf("%s: %s", turn.Role, turn.Content))
		frags = append(frags, frag.WithMetadata("source", "chat_memory"))
	}
	return frags, nil
}

// VectorStoreRetriever similarity-searches a vector index for external
// knowledge related to the user's question.
type VectorStoreRetriever struct {
	Store    vector.Store
	Embedder embedding.Embedder
	TopK     int
}

func (r *VectorStoreRetriever) Tag() string {
	return types.ContentExternalKnowledge
}

func (r *VectorStoreRetriever) Retrieve(ctx context.Context, pc *PromptContext) ([]types.ContentFragment, error) {
	return similaritySearch(ctx, r.Store, r.Embedder, pc.Original.UserText(), r.TopK, r.Tag())
}

// VectorStoreChatMemoryRetriever similarity-searches the persisted
// conversation history for long-term memory.
type VectorStoreChatMemoryRetriever struct {
	Store    vector.Store
	Embedder embedding.Embedder
	TopK     int
}

func (r *VectorStoreChatMemoryRetriever) Tag() string {
	return types.ContentLongTermMemory
}

func (r *VectorStoreChatMemoryRetriever) Retrieve(ctx context.Context, pc *PromptContext) ([]types.ContentFragment, error) {
	return similaritySearch(ctx, r.Store, r.Embedder, pc.Original.UserText(), r.TopK, r.Tag())
}

func similaritySearch(ctx context.Context, store vector.Store, embedder embedding.Embedder, query string, topK int, tag string) ([]types.ContentFragment, error) {
	if topK <= 0 {
		topK = 4
	}
	vec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results, err := store.Search(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	frags := make([]types.ContentFragment, 0, len(results))
	for _, res := range results {
		frag := types.NewFragment(tag, res.Content).
			WithMetadata("document_id", res.ID).
			WithMetadata("score", strconv.FormatFloat(float64(res.Score), 'f', 4, 32))
		frags = append(frags, frag)
	}
	return frags, nil
}

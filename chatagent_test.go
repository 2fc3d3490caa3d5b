package chatagent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teilomillet/chatagent/config"
	"github.com/teilomillet/chatagent/embedding"
	"github.com/teilomillet/chatagent/llm"
	"github.com/teilomillet/chatagent/memory"
	"github.com/teilomillet/chatagent/providers"
	"github.com/teilomillet/chatagent/tokenizer"
	"github.com/teilomillet/chatagent/utils"
	"github.com/teilomillet/chatagent/vector"
)

func newMockClient(t *testing.T, provider *providers.MockProvider) *llm.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)
	provider.SetEndpoint(server.URL)

	cfg := config.NewConfig(config.SetMaxRetries(0), config.SetRetryDelay(0))
	return llm.NewClientWithProvider(cfg, utils.NewLogger(utils.LogLevelOff), provider)
}

func TestNew(t *testing.T) {
	t.Run("Builds a client with defaults", func(t *testing.T) {
		client, err := New(config.SetProvider("mock"))
		require.NoError(t, err)
		assert.Equal(t, "mock", client.Provider.Name())
	})

	t.Run("Rejects invalid configuration", func(t *testing.T) {
		_, err := New(config.SetTemperature(9))
		assert.Error(t, err)
	})

	t.Run("Rejects unknown providers", func(t *testing.T) {
		_, err := New(config.SetProvider("nope"))
		assert.Error(t, err)
	})
}

func TestNewMemoryAgent(t *testing.T) {
	ctx := context.Background()

	newDeps := func() MemoryAgentDeps {
		return MemoryAgentDeps{
			Memory:    memory.NewInMemoryChatMemory(),
			Store:     vector.NewInMemoryStore(),
			Embedder:  embedding.HashEmbedder{},
			Estimator: tokenizer.FixedEstimator{PerText: 10},
		}
	}

	t.Run("Remembers earlier exchanges within a conversation", func(t *testing.T) {
		provider := providers.NewMockProvider("", "mock-model", nil)
		provider.QueueText("Nice to meet you, Bob.")
		provider.QueueText("Your name is Bob.")

		agent := NewMemoryAgent(config.NewConfig(), newMockClient(t, provider), newDeps())

		first, err := agent.Call(ctx, NewPromptContext(NewPrompt("My name is Bob.")))
		require.NoError(t, err)
		assert.Equal(t, "Nice to meet you, Bob.", first.Response.Content)

		// The second call retrieves the first exchange from memory; the
		// provider sees it in the assembled prompt.
		second, err := agent.Call(ctx, NewPromptContext(NewPrompt("What is my name?")))
		require.NoError(t, err)
		assert.Equal(t, "Your name is Bob.", second.Response.Content)

		req := provider.LastRequest()
		require.NotNil(t, req)
		var text string
		for _, m := range req.Messages {
			text += string(m.Role) + ": " + m.Content + "\n"
		}
		assert.Contains(t, text, "My name is Bob.")
		assert.Contains(t, text, "Nice to meet you, Bob.")
	})

	t.Run("Exchanges are persisted into both stores", func(t *testing.T) {
		provider := providers.NewMockProvider("", "mock-model", nil)
		provider.QueueText("Hello.")

		deps := newDeps()
		agent := NewMemoryAgent(config.NewConfig(), newMockClient(t, provider), deps)

		_, err := agent.Call(ctx, NewPromptContext(NewPrompt("Hi there.")))
		require.NoError(t, err)

		assert.Len(t, deps.Memory.LastN(0), 2)
		assert.Equal(t, 2, deps.Store.(*vector.InMemoryStore).Len())
	})
}

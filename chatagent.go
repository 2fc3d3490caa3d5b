// Package chatagent is a retrieval-augmented chat agent library. It
// assembles prompts from templates, conversational memory, and
// vector-indexed knowledge, invokes a chat-completion provider (blocking or
// streaming, with bounded function calling), and parses completions into
// structured values.
//
// The core packages are re-exported here for a compact API surface.
package chatagent

import (
	"github.com/teilomillet/chatagent/agent"
	"github.com/teilomillet/chatagent/config"
	"github.com/teilomillet/chatagent/embedding"
	"github.com/teilomillet/chatagent/llm"
	"github.com/teilomillet/chatagent/memory"
	"github.com/teilomillet/chatagent/providers"
	"github.com/teilomillet/chatagent/tokenizer"
	"github.com/teilomillet/chatagent/types"
	"github.com/teilomillet/chatagent/utils"
	"github.com/teilomillet/chatagent/vector"
)

type (
	// Prompt is an ordered, immutable message sequence.
	Prompt = llm.Prompt

	// PromptTemplate fills `{name}` placeholders into a Prompt.
	PromptTemplate = llm.PromptTemplate

	// Response is the model's completion with usage and stop reason.
	Response = providers.Response

	// TokenStream is a pull-based stream of completion chunks.
	TokenStream = llm.TokenStream

	// PromptContext carries a prompt plus its retrieved fragments.
	PromptContext = agent.PromptContext

	// AgentResponse pairs a completion with the context that produced it.
	AgentResponse = agent.AgentResponse

	// ChatAgent runs the retrieval-augmented assembly pipeline.
	ChatAgent = agent.ChatAgent

	// Message is a single prompt or completion entry.
	Message = types.Message

	// ContentFragment is a retrieved piece of text with provenance.
	ContentFragment = types.ContentFragment

	// Function describes a callable function the model may request.
	Function = types.Function

	// Tool wraps a Function for the wire format.
	Tool = types.Tool

	// Config is the library configuration.
	Config = config.Config
)

var (
	NewPrompt         = llm.NewPrompt
	WithSystemPrompt  = llm.WithSystemPrompt
	WithMessage       = llm.WithMessage
	WithMessages      = llm.WithMessages
	WithMedia         = llm.WithMedia
	WithTools         = llm.WithTools
	NewPromptTemplate = llm.NewPromptTemplate
	Collect           = llm.Collect

	NewPromptContext = agent.NewPromptContext
	NewChatAgent     = agent.NewChatAgent

	LoadConfig = config.LoadConfig
	NewConfig  = config.NewConfig
)

// New builds a completion client from the given options, with library
// defaults for everything unset.
func New(opts ...config.ConfigOption) (*llm.Client, error) {
	cfg := config.NewConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := utils.NewLogger(cfg.LogLevel)
	return llm.NewClient(cfg, logger, providers.NewRegistry())
}

// MemoryAgentDeps are the external collaborators a memory agent composes.
type MemoryAgentDeps struct {
	Memory    memory.ChatMemory
	Store     vector.Store
	Embedder  embedding.Embedder
	Estimator tokenizer.Estimator
}

// NewMemoryAgent wires the standard retrieval-augmented pipeline: external
// knowledge and long-term memory from the vector store, short-term memory
// from the chat memory, token budgets from cfg, and listeners persisting
// every exchange back into both stores.
func NewMemoryAgent(cfg *config.Config, invoker agent.Invoker, deps MemoryAgentDeps) *ChatAgent {
	budget := cfg.MemoryBudget
	return agent.NewChatAgent(invoker,
		agent.WithRetrievers(
			&agent.VectorStoreRetriever{Store: deps.Store, Embedder: deps.Embedder, TopK: 4},
			&agent.ChatMemoryRetriever{Memory: deps.Memory, N: 10},
			&agent.VectorStoreChatMemoryRetriever{Store: deps.Store, Embedder: deps.Embedder, TopK: 10},
		),
		agent.WithTransformers(
			agent.NewLastMaxTokenSizeTransformer(deps.Estimator, budget.ShortTermTokens, types.ContentShortTermMemory),
			agent.NewLastMaxTokenSizeTransformer(deps.Estimator, budget.LongTermTokens, types.ContentLongTermMemory),
			agent.NewLastMaxTokenSizeTransformer(deps.Estimator, budget.ExternalKnowledgeTokens, types.ContentExternalKnowledge),
		),
		agent.WithAugmentors(
			agent.NewQuestionContextAugmentor(),
			agent.NewSystemPromptAugmentor(agent.LongTermHistoryTemplate, types.ContentLongTermMemory),
			agent.NewSystemPromptAugmentor("", types.ContentShortTermMemory),
		),
		agent.WithListeners(
			&agent.ChatMemoryListener{Memory: deps.Memory},
			&agent.VectorStoreMemoryListener{Store: deps.Store, Embedder: deps.Embedder},
		),
		agent.WithPartialRetrieval(cfg.TolerateRetrieverErrors),
		agent.WithLogger(utils.NewLogger(cfg.LogLevel)),
	)
}

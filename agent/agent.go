package agent

import (
	"context"
	"sync"

	"github.com/teilomillet/chatagent/llm"
	"github.com/teilomillet/chatagent/types"
	"github.com/teilomillet/chatagent/utils"
)

// Invoker is the completion client contract the agent drives. llm.Client
// satisfies it; tests substitute a mock.
type Invoker interface {
	Generate(ctx context.Context, prompt *llm.Prompt, opts ...llm.GenerateOption) (*llm.Response, error)
	Stream(ctx context.Context, prompt *llm.Prompt, opts ...llm.GenerateOption) (llm.TokenStream, error)
}

// ChatAgent runs the assembly pipeline for each request: retrievers fan
// out, join, transformers shape, augmentors merge, the invoker completes,
// and listeners persist the exchange.
type ChatAgent struct {
	invoker      Invoker
	retrievers   []Retriever
	transformers []Transformer
	augmentors   []Augmentor
	listeners    []Listener
	tolerate     bool
	logger       utils.Logger
}

// AgentOption configures a ChatAgent at construction.
type AgentOption func(*ChatAgent)

func WithRetrievers(retrievers ...Retriever) AgentOption {
	return func(a *ChatAgent) { a.retrievers = append(a.retrievers, retrievers...) }
}

func WithTransformers(transformers ...Transformer) AgentOption {
	return func(a *ChatAgent) { a.transformers = append(a.transformers, transformers...) }
}

func WithAugmentors(augmentors ...Augmentor) AgentOption {
	return func(a *ChatAgent) { a.augmentors = append(a.augmentors, augmentors...) }
}

func WithListeners(listeners ...Listener) AgentOption {
	return func(a *ChatAgent) { a.listeners = append(a.listeners, listeners...) }
}

// WithPartialRetrieval degrades retriever failures to partial context:
// fragments from the retrievers that succeeded still reach the prompt.
// Without it, the first retrieval failure aborts the request.
func WithPartialRetrieval(tolerate bool) AgentOption {
	return func(a *ChatAgent) { a.tolerate = tolerate }
}

func WithLogger(logger utils.Logger) AgentOption {
	return func(a *ChatAgent) { a.logger = logger }
}

// NewChatAgent creates an agent around a completion invoker.
func NewChatAgent(invoker Invoker, opts ...AgentOption) *ChatAgent {
	a := &ChatAgent{
		invoker: invoker,
		logger:  utils.NewLogger(utils.LogLevelWarn),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Call runs the full pipeline and blocks for the completion.
func (a *ChatAgent) Call(ctx context.Context, pc *PromptContext) (*AgentResponse, error) {
	if err := a.assemble(ctx, pc); err != nil {
		return nil, err
	}

	resp, err := a.invoker.Generate(ctx, pc.Prompt)
	if err != nil {
		return nil, err
	}

	agentResp := &AgentResponse{Response: resp, Context: pc}
	a.notify(ctx, agentResp)
	return agentResp, nil
}

// CallStream runs the pipeline and returns the completion as a token
// stream. Listeners are not invoked: the final content only exists once the
// caller has drained the stream.
func (a *ChatAgent) CallStream(ctx context.Context, pc *PromptContext) (llm.TokenStream, error) {
	if err := a.assemble(ctx, pc); err != nil {
		return nil, err
	}
	return a.invoker.Stream(ctx, pc.Prompt)
}

// assemble runs retrievers concurrently, joins on all of them, then applies
// transformers and augmentors in declared order. Fragment merge order is
// the retriever declaration order regardless of completion order.
func (a *ChatAgent) assemble(ctx context.Context, pc *PromptContext) error {
	if err := a.retrieve(ctx, pc); err != nil {
		return err
	}
	for _, t := range a.transformers {
		if err := t.Transform(pc); err != nil {
			return err
		}
	}
	for _, aug := range a.augmentors {
		if err := aug.Augment(pc); err != nil {
			return err
		}
	}
	return nil
}

func (a *ChatAgent) retrieve(ctx context.Context, pc *PromptContext) error {
	if len(a.retrievers) == 0 {
		return nil
	}

	frags := make([][]types.ContentFragment, len(a.retrievers))
	errs := make([]error, len(a.retrievers))

	var wg sync.WaitGroup
	for i, r := range a.retrievers {
		wg.Add(1)
		go func(i int, r Retriever) {
			defer wg.Done()
			frags[i], errs[i] = r.Retrieve(ctx, pc)
		}(i, r)
	}
	wg.Wait()

	var firstErr error
	for i, err := range errs {
		if err == nil {
			continue
		}
		if a.tolerate {
			a.logger.Warn("Retriever failed, continuing with partial context",
				"tag", a.retrievers[i].Tag(), "error", err)
			continue
		}
		if firstErr == nil {
			firstErr = &llm.RetrievalError{Tag: a.retrievers[i].Tag(), Err: err}
		}
	}
	if firstErr != nil {
		return firstErr
	}

	for i, fs := range frags {
		if errs[i] == nil {
			pc.AddFragments(fs...)
		}
	}
	return nil
}

// notify invokes every listener. Listener failures are reported through
// the logger and never propagate to the caller.
func (a *ChatAgent) notify(ctx context.Context, resp *AgentResponse) {
	for _, l := range a.listeners {
		if err := l.OnResponse(ctx, resp); err != nil {
			lerr := &llm.ListenerError{Listener: l.Name(), Err: err}
			a.logger.Error("Listener failed", "listener", l.Name(), "error", lerr)
		}
	}
}

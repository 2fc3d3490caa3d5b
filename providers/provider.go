// Package providers implements chat-completion provider adapters behind a
// unified interface. The library ships an OpenAI-compatible provider and a
// mock provider for tests; new providers register through the Registry.
package providers

import (
	"errors"

	"github.com/teilomillet/chatagent/config"
	"github.com/teilomillet/chatagent/types"
	"github.com/teilomillet/chatagent/utils"
)

// ErrStreamSkip is returned by ParseStreamChunk for chunks that carry no
// content, such as role announcements or usage-only frames.
var ErrStreamSkip = errors.New("stream chunk carries no content")

// Request is the provider-neutral completion request: the finalized message
// sequence, the declared callable functions, and whether the response should
// be delivered incrementally.
type Request struct {
	Messages []types.Message
	Tools    []types.Tool
	Stream   bool
}

// Provider is the adapter contract every completion backend implements.
type Provider interface {
	// Identification and transport configuration.
	Name() string
	Endpoint() string
	Headers() map[string]string
	SetExtraHeaders(extraHeaders map[string]string)
	SetDefaultOptions(cfg *config.Config)
	SetOption(key string, value any)
	SetLogger(logger utils.Logger)

	// Request preparation.
	PrepareRequest(req *Request, options map[string]any) ([]byte, error)
	PrepareStreamRequest(req *Request, options map[string]any) ([]byte, error)

	// Response handling. ParseStreamChunk returns ErrStreamSkip for
	// non-content chunks and io.EOF semantics are handled by the caller on
	// the [DONE] sentinel.
	ParseResponse(body []byte) (*Response, error)
	ParseStreamChunk(chunk []byte) (*Response, error)

	// Capability checks.
	SupportsStreaming() bool
	SupportsFunctionCalling() bool
}

// ProviderConstructor creates a provider instance. Each implementation
// supplies one to the registry.
type ProviderConstructor func(apiKey, model string, extraHeaders map[string]string) Provider

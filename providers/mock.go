package providers

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/teilomillet/chatagent/config"
	"github.com/teilomillet/chatagent/types"
	"github.com/teilomillet/chatagent/utils"
)

// MockProvider implements the Provider interface for tests. Responses are
// served from a queue regardless of the request body, so tests pair it with
// an httptest server that returns any payload.
type MockProvider struct {
	mu           sync.Mutex
	endpoint     string
	model        string
	extraHeaders map[string]string
	options      map[string]any
	logger       utils.Logger

	responses    []*Response
	currentIndex int
	loop         bool
	err          error
	lastRequest  *Request
}

// NewMockProvider creates a mock provider pointing at the given endpoint.
func NewMockProvider(endpoint, model string, extraHeaders map[string]string) *MockProvider {
	if extraHeaders == nil {
		extraHeaders = make(map[string]string)
	}
	return &MockProvider{
		endpoint:     endpoint,
		model:        model,
		extraHeaders: extraHeaders,
		options:      make(map[string]any),
		logger:       utils.NewLogger(utils.LogLevelOff),
	}
}

// QueueResponse appends a canned completion.
func (p *MockProvider) QueueResponse(resp *Response) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, resp)
}

// QueueText appends a canned plain-text completion.
func (p *MockProvider) QueueText(content string) {
	p.QueueResponse(&Response{Content: content, StopReason: StopReasonStop})
}

// QueueToolCall appends a canned completion requesting the named function.
func (p *MockProvider) QueueToolCall(id, name string, args map[string]any) {
	raw, _ := json.Marshal(args)
	tc := types.ToolCall{ID: id, Type: "function"}
	tc.Function.Name = name
	tc.Function.Arguments = raw
	p.QueueResponse(&Response{ToolCalls: []types.ToolCall{tc}, StopReason: StopReasonToolCalls})
}

// SetLoop makes the queue wrap around instead of erroring when exhausted.
func (p *MockProvider) SetLoop(loop bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loop = loop
}

// SetError makes every parse fail with err.
func (p *MockProvider) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// LastRequest returns the most recently prepared request, for asserting on
// the assembled prompt.
func (p *MockProvider) LastRequest() *Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastRequest
}

// SetEndpoint repoints the provider, for tests that start their server
// after constructing the provider.
func (p *MockProvider) SetEndpoint(endpoint string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endpoint = endpoint
}

func (p *MockProvider) Name() string                           { return "mock" }
func (p *MockProvider) Endpoint() string                       { return p.endpoint }
func (p *MockProvider) SetLogger(logger utils.Logger)          { p.logger = logger }
func (p *MockProvider) SetOption(key string, value any)        { p.options[key] = value }
func (p *MockProvider) SetDefaultOptions(cfg *config.Config)   {}
func (p *MockProvider) SetExtraHeaders(h map[string]string)    { p.extraHeaders = h }
func (p *MockProvider) SupportsStreaming() bool                { return true }
func (p *MockProvider) SupportsFunctionCalling() bool          { return true }

func (p *MockProvider) Headers() map[string]string {
	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range p.extraHeaders {
		headers[k] = v
	}
	return headers
}

func (p *MockProvider) PrepareRequest(req *Request, options map[string]any) ([]byte, error) {
	p.mu.Lock()
	p.lastRequest = req
	p.mu.Unlock()
	body := map[string]any{
		"model":    p.model,
		"messages": req.Messages,
	}
	if len(req.Tools) > 0 {
		body["tools"] = req.Tools
	}
	for k, v := range options {
		body[k] = v
	}
	return json.Marshal(body)
}

func (p *MockProvider) PrepareStreamRequest(req *Request, options map[string]any) ([]byte, error) {
	return p.PrepareRequest(req, options)
}

func (p *MockProvider) next() (*Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	if len(p.responses) == 0 {
		return &Response{Content: "mock response", StopReason: StopReasonStop}, nil
	}
	if p.currentIndex >= len(p.responses) {
		if !p.loop {
			return nil, errors.New("mock responses exhausted")
		}
		p.currentIndex = 0
	}
	resp := p.responses[p.currentIndex]
	p.currentIndex++
	return resp, nil
}

func (p *MockProvider) ParseResponse(body []byte) (*Response, error) {
	return p.next()
}

func (p *MockProvider) ParseStreamChunk(chunk []byte) (*Response, error) {
	var sc struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(chunk, &sc); err != nil {
		return nil, err
	}
	if sc.Content == "" {
		return nil, ErrStreamSkip
	}
	return &Response{Content: sc.Content, StopReason: StopReasonStop}, nil
}

package providers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/teilomillet/chatagent/config"
	"github.com/teilomillet/chatagent/types"
	"github.com/teilomillet/chatagent/utils"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAIProvider implements the Provider interface for OpenAI's chat
// completion API and for any endpoint speaking the same wire format.
type OpenAIProvider struct {
	apiKey       string
	model        string
	endpoint     string
	extraHeaders map[string]string
	options      map[string]any
	logger       utils.Logger
}

// NewOpenAIProvider creates a new OpenAI provider instance.
func NewOpenAIProvider(apiKey, model string, extraHeaders map[string]string) Provider {
	if extraHeaders == nil {
		extraHeaders = make(map[string]string)
	}
	return &OpenAIProvider{
		apiKey:       apiKey,
		model:        model,
		endpoint:     defaultOpenAIEndpoint,
		extraHeaders: extraHeaders,
		options:      make(map[string]any),
		logger:       utils.NewLogger(utils.LogLevelInfo),
	}
}

func (p *OpenAIProvider) Name() string     { return "openai" }
func (p *OpenAIProvider) Endpoint() string { return p.endpoint }

func (p *OpenAIProvider) SetLogger(logger utils.Logger) { p.logger = logger }

func (p *OpenAIProvider) SetOption(key string, value any) {
	p.options[key] = value
	p.logger.Debug("Option set", "key", key, "value", value)
}

func (p *OpenAIProvider) SetDefaultOptions(cfg *config.Config) {
	p.SetOption("temperature", cfg.Temperature)
	p.SetOption("max_tokens", cfg.MaxTokens)
	if cfg.Endpoint != "" {
		p.endpoint = cfg.Endpoint
	}
}

func (p *OpenAIProvider) SetExtraHeaders(extraHeaders map[string]string) {
	p.extraHeaders = extraHeaders
}

func (p *OpenAIProvider) Headers() map[string]string {
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + p.apiKey,
	}
	for key, value := range p.extraHeaders {
		headers[key] = value
	}
	return headers
}

func (p *OpenAIProvider) SupportsStreaming() bool       { return true }
func (p *OpenAIProvider) SupportsFunctionCalling() bool { return true }

// PrepareRequest builds the chat/completions request body.
func (p *OpenAIProvider) PrepareRequest(req *Request, options map[string]any) ([]byte, error) {
	request := map[string]any{
		"model":    p.model,
		"messages": p.wireMessages(req.Messages),
	}
	if len(req.Tools) > 0 {
		request["tools"] = req.Tools
	}
	for k, v := range p.options {
		request[k] = v
	}
	for k, v := range options {
		request[k] = v
	}
	return json.Marshal(request)
}

// PrepareStreamRequest builds the request body with streaming enabled.
func (p *OpenAIProvider) PrepareStreamRequest(req *Request, options map[string]any) ([]byte, error) {
	merged := make(map[string]any, len(options)+1)
	for k, v := range options {
		merged[k] = v
	}
	merged["stream"] = true
	return p.PrepareRequest(req, merged)
}

// wireMessages converts messages to the OpenAI message array. Messages with
// media become content-part arrays.
func (p *OpenAIProvider) wireMessages(messages []types.Message) []map[string]any {
	wire := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		msg := map[string]any{"role": string(m.Role)}
		switch {
		case len(m.Media) > 0:
			parts := []map[string]any{{"type": "text", "text": m.Content}}
			for _, media := range m.Media {
				parts = append(parts, imagePart(media))
			}
			msg["content"] = parts
		default:
			msg["content"] = m.Content
		}
		if len(m.ToolCalls) > 0 {
			msg["tool_calls"] = m.ToolCalls
		}
		if m.ToolCallID != "" {
			msg["tool_call_id"] = m.ToolCallID
		}
		wire = append(wire, msg)
	}
	return wire
}

func imagePart(media types.Media) map[string]any {
	url := media.URL
	if url == "" {
		url = fmt.Sprintf("data:%s;base64,%s", media.MIMEType, base64.StdEncoding.EncodeToString(media.Data))
	}
	return map[string]any{
		"type":      "image_url",
		"image_url": map[string]any{"url": url},
	}
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content   string           `json:"content"`
			ToolCalls []types.ToolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ParseResponse extracts the completion from a blocking response body.
func (p *OpenAIProvider) ParseResponse(body []byte) (*Response, error) {
	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("API error: %s (%s)", resp.Error.Message, resp.Error.Type)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}
	choice := resp.Choices[0]
	return &Response{
		Content:    choice.Message.Content,
		ToolCalls:  choice.Message.ToolCalls,
		Usage:      resp.Usage,
		StopReason: stopReason(choice.FinishReason),
	}, nil
}

type openAIStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
}

// ParseStreamChunk extracts the delta from one SSE data payload.
func (p *OpenAIProvider) ParseStreamChunk(chunk []byte) (*Response, error) {
	var sc openAIStreamChunk
	if err := json.Unmarshal(chunk, &sc); err != nil {
		return nil, fmt.Errorf("parse stream chunk: %w", err)
	}
	if len(sc.Choices) == 0 {
		return nil, ErrStreamSkip
	}
	choice := sc.Choices[0]
	if choice.Delta.Content == "" && choice.FinishReason == "" {
		return nil, ErrStreamSkip
	}
	return &Response{
		Content:    choice.Delta.Content,
		Usage:      sc.Usage,
		StopReason: stopReason(choice.FinishReason),
	}, nil
}

func stopReason(finishReason string) StopReason {
	switch finishReason {
	case "length":
		return StopReasonLength
	case "tool_calls":
		return StopReasonToolCalls
	default:
		return StopReasonStop
	}
}

package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/teilomillet/chatagent/config"
	"github.com/teilomillet/chatagent/providers"
	"github.com/teilomillet/chatagent/utils"
)

// GenerateOption adjusts a single invocation without touching the client's
// defaults.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	options map[string]any
}

// WithOption sets a provider option for this call only, such as
// "temperature" or "max_tokens".
func WithOption(key string, value any) GenerateOption {
	return func(gc *generateConfig) {
		gc.options[key] = value
	}
}

// Client sends finalized prompts to a completion provider. It supports a
// blocking mode, an incremental streaming mode, and a bounded
// function-calling exchange when the prompt declares tools.
type Client struct {
	Provider   providers.Provider
	client     *http.Client
	logger     utils.Logger
	config     *config.Config
	limiter    *rate.Limiter
	functions  map[string]FunctionHandler
	MaxRetries int
	RetryDelay time.Duration
}

// NewClient builds a Client for the provider named in cfg.
func NewClient(cfg *config.Config, logger utils.Logger, registry *providers.Registry) (*Client, error) {
	provider, err := registry.Get(cfg.Provider, cfg.APIKeys[cfg.Provider], cfg.Model, cfg.ExtraHeaders)
	if err != nil {
		return nil, err
	}
	provider.SetDefaultOptions(cfg)
	provider.SetLogger(logger)
	return NewClientWithProvider(cfg, logger, provider), nil
}

// NewClientWithProvider builds a Client around an already-constructed
// provider. Tests use it with the mock provider.
func NewClientWithProvider(cfg *config.Config, logger utils.Logger, provider providers.Provider) *Client {
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Client{
		Provider:   provider,
		client:     &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		config:     cfg,
		limiter:    limiter,
		functions:  make(map[string]FunctionHandler),
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}
}

// Logger returns the client's logger.
func (c *Client) Logger() utils.Logger {
	return c.logger
}

// Generate sends the prompt and blocks for the full completion. When the
// prompt declares tools and the model requests a call, the registered
// handler runs and the exchange continues until a final message or the
// round bound is hit.
func (c *Client) Generate(ctx context.Context, prompt *Prompt, opts ...GenerateOption) (*Response, error) {
	gc := &generateConfig{options: make(map[string]any)}
	for _, opt := range opts {
		opt(gc)
	}
	return c.runFunctionLoop(ctx, prompt, gc.options)
}

// invoke performs one completion round trip with retries.
func (c *Client) invoke(ctx context.Context, prompt *Prompt, options map[string]any) (*Response, error) {
	req := &providers.Request{Messages: prompt.Messages, Tools: prompt.Tools}

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		c.logger.Debug("Invoking completion", "provider", c.Provider.Name(), "attempt", attempt+1)

		resp, err := c.attempt(ctx, req, options)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		c.logger.Warn("Completion attempt failed", "error", err, "attempt", attempt+1)

		if attempt < c.MaxRetries {
			if err := c.wait(ctx); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("failed to generate after %d attempts: %w", c.MaxRetries+1, lastErr)
}

func (c *Client) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.RetryDelay):
		return nil
	}
}

func (c *Client) attempt(ctx context.Context, req *providers.Request, options map[string]any) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	reqBody, err := c.Provider.PrepareRequest(req, options)
	if err != nil {
		return nil, fmt.Errorf("prepare request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Provider.Endpoint(), bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.Provider.Headers() {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		c.logger.Error("API error", "provider", c.Provider.Name(), "status", httpResp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("API error: status code %d", httpResp.StatusCode)
	}

	return c.Provider.ParseResponse(body)
}

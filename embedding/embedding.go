// Package embedding bridges text to fixed-length vectors through an
// externally hosted embedding service.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/teilomillet/chatagent/utils"
)

// Embedder turns text into a fixed-length numeric vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

const defaultEmbeddingEndpoint = "https://api.openai.com/v1/embeddings"

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint.
type OpenAIEmbedder struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	logger   utils.Logger
}

// NewOpenAIEmbedder creates an embedder for the given model. An empty
// endpoint selects the OpenAI default.
func NewOpenAIEmbedder(apiKey, model, endpoint string, timeout time.Duration, logger utils.Logger) *OpenAIEmbedder {
	if endpoint == "" {
		endpoint = defaultEmbeddingEndpoint
	}
	return &OpenAIEmbedder{
		apiKey:   apiKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody, err := json.Marshal(map[string]any{
		"model": e.model,
		"input": text,
	})
	if err != nil {
		return nil, fmt.Errorf("prepare embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send embedding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		e.logger.Error("Embedding API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("embedding API error: status code %d", resp.StatusCode)
	}

	var parsed struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse embedding response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return parsed.Data[0].Embedding, nil
}

// HashEmbedder derives a deterministic vector from the text itself. It
// stands in for a hosted embedding service in tests: equal texts map to
// equal vectors, and texts sharing terms land near each other.
type HashEmbedder struct {
	Dim int
}

func (e HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	dim := e.Dim
	if dim == 0 {
		dim = 64
	}
	vec := make([]float32, dim)
	for i := 0; i < len(text); i++ {
		vec[int(text[i])%dim]++
	}
	return vec, nil
}

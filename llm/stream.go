package llm

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/teilomillet/chatagent/providers"
)

// StreamToken is one incremental piece of a streaming completion.
type StreamToken struct {
	// Text is the token text.
	Text string

	// Index is the position of this token in the sequence.
	Index int

	// StopReason is set on the final content token when the provider
	// reports one.
	StopReason StopReason
}

// TokenStream is a lazy, finite, non-restartable sequence of completion
// chunks. The consumer pulls; closing the stream stops production and
// releases the underlying connection.
type TokenStream interface {
	// Next returns the next token, or io.EOF when the stream is finished.
	Next(ctx context.Context) (*StreamToken, error)

	io.Closer
}

// Stream sends the prompt and returns the completion as a TokenStream.
func (c *Client) Stream(ctx context.Context, prompt *Prompt, opts ...GenerateOption) (TokenStream, error) {
	gc := &generateConfig{options: make(map[string]any)}
	for _, opt := range opts {
		opt(gc)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req := &providers.Request{Messages: prompt.Messages, Tools: prompt.Tools, Stream: true}
	reqBody, err := c.Provider.PrepareStreamRequest(req, gc.options)
	if err != nil {
		return nil, fmt.Errorf("prepare stream request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Provider.Endpoint(), bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.Provider.Headers() {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		c.logger.Error("API error", "provider", c.Provider.Name(), "status", httpResp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("API error: status code %d", httpResp.StatusCode)
	}

	return &sseTokenStream{
		provider: c.Provider,
		body:     httpResp.Body,
		decoder:  newSSEDecoder(httpResp.Body),
	}, nil
}

// sseTokenStream adapts a server-sent-events response body to a TokenStream.
type sseTokenStream struct {
	provider providers.Provider
	body     io.ReadCloser
	decoder  *sseDecoder
	index    int
	done     bool
}

func (s *sseTokenStream) Next(ctx context.Context) (*StreamToken, error) {
	if s.done {
		return nil, io.EOF
	}
	for {
		if err := ctx.Err(); err != nil {
			s.Close()
			return nil, err
		}
		if !s.decoder.Next() {
			s.done = true
			if err := s.decoder.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}

		data := bytes.TrimSpace(s.decoder.Event().Data)
		if len(data) == 0 {
			continue
		}
		if strings.TrimSpace(string(data)) == "[DONE]" {
			s.done = true
			return nil, io.EOF
		}

		resp, err := s.provider.ParseStreamChunk(data)
		if errors.Is(err, providers.ErrStreamSkip) {
			continue
		}
		if err != nil {
			return nil, err
		}

		token := &StreamToken{
			Text:       resp.Content,
			Index:      s.index,
			StopReason: resp.StopReason,
		}
		s.index++
		return token, nil
	}
}

// Close releases the underlying connection. Further Next calls return io.EOF.
func (s *sseTokenStream) Close() error {
	s.done = true
	return s.body.Close()
}

// Collect drains a stream and concatenates the token texts, closing the
// stream on return. It mirrors the collect-and-join consumption pattern of
// streaming callers.
func Collect(ctx context.Context, stream TokenStream) (string, error) {
	defer stream.Close()
	var sb strings.Builder
	for {
		token, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(token.Text)
	}
}

// sseDecoder splits a server-sent-events stream into dispatched events.
type sseDecoder struct {
	reader  *bufio.Scanner
	current sseEvent
	err     error
}

type sseEvent struct {
	Type string
	Data []byte
}

func newSSEDecoder(reader io.Reader) *sseDecoder {
	return &sseDecoder{
		reader: bufio.NewScanner(reader),
	}
}

func (d *sseDecoder) Next() bool {
	if d.err != nil {
		return false
	}

	event := ""
	data := bytes.NewBuffer(nil)

	for d.reader.Scan() {
		line := d.reader.Bytes()

		// Dispatch event on empty line.
		if len(line) == 0 {
			if data.Len() == 0 && event == "" {
				continue
			}
			d.current = sseEvent{Type: event, Data: data.Bytes()}
			return true
		}

		name, value, _ := bytes.Cut(line, []byte(":"))
		if len(value) > 0 && value[0] == ' ' {
			value = value[1:]
		}

		switch string(name) {
		case "":
			continue // comment line
		case "event":
			event = string(value)
		case "data":
			data.Write(value)
			data.WriteRune('\n')
		}
	}
	d.err = d.reader.Err()

	// Dispatch a trailing event not terminated by a blank line.
	if data.Len() > 0 || event != "" {
		d.current = sseEvent{Type: event, Data: data.Bytes()}
		return true
	}
	return false
}

func (d *sseDecoder) Event() sseEvent {
	return d.current
}

func (d *sseDecoder) Err() error {
	return d.err
}

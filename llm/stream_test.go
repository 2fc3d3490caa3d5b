package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teilomillet/chatagent/config"
	"github.com/teilomillet/chatagent/providers"
	"github.com/teilomillet/chatagent/utils"
)

func newStreamClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider := providers.NewMockProvider(server.URL, "mock-model", nil)
	cfg := config.NewConfig(config.SetMaxRetries(0), config.SetRetryDelay(0))
	return NewClientWithProvider(cfg, utils.NewLogger(utils.LogLevelOff), provider)
}

func sseHandler(events ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, ev := range events {
			fmt.Fprintf(w, "data: %s\n\n", ev)
		}
	}
}

func TestStream(t *testing.T) {
	ctx := context.Background()

	t.Run("Delivers tokens in order and ends with EOF", func(t *testing.T) {
		client := newStreamClient(t, sseHandler(
			`{"content":"Hello"}`,
			`{"content":" world"}`,
			`{}`,
			`[DONE]`,
		))

		stream, err := client.Stream(ctx, NewPrompt("hi"))
		require.NoError(t, err)
		defer stream.Close()

		first, err := stream.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Hello", first.Text)
		assert.Equal(t, 0, first.Index)

		second, err := stream.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, " world", second.Text)
		assert.Equal(t, 1, second.Index)

		_, err = stream.Next(ctx)
		assert.ErrorIs(t, err, io.EOF)

		// The stream is finite and non-restartable.
		_, err = stream.Next(ctx)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("Collect concatenates every token", func(t *testing.T) {
		client := newStreamClient(t, sseHandler(
			`{"content":"Tom"}`,
			`{"content":" Hanks"}`,
			`[DONE]`,
		))

		stream, err := client.Stream(ctx, NewPrompt("actor?"))
		require.NoError(t, err)

		text, err := Collect(ctx, stream)
		require.NoError(t, err)
		assert.Equal(t, "Tom Hanks", text)
	})

	t.Run("Cancellation stops production", func(t *testing.T) {
		release := make(chan struct{})
		client := newStreamClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, "data: {\"content\":\"first\"}\n\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})

		streamCtx, cancel := context.WithCancel(ctx)
		stream, err := client.Stream(streamCtx, NewPrompt("hi"))
		require.NoError(t, err)
		defer stream.Close()
		defer close(release)

		first, err := stream.Next(streamCtx)
		require.NoError(t, err)
		assert.Equal(t, "first", first.Text)

		cancel()
		_, err = stream.Next(streamCtx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Close makes further reads return EOF", func(t *testing.T) {
		client := newStreamClient(t, sseHandler(`{"content":"a"}`, `[DONE]`))

		stream, err := client.Stream(ctx, NewPrompt("hi"))
		require.NoError(t, err)

		require.NoError(t, stream.Close())
		_, err = stream.Next(ctx)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("Non-200 status fails without a stream", func(t *testing.T) {
		client := newStreamClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		})

		_, err := client.Stream(ctx, NewPrompt("hi"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})
}

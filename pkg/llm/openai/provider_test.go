package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-kiosk-be/pkg/llm"
)

func testProvider(url string) *OpenAIProvider {
	p := NewOpenAIProvider("test-key", "gpt-4o")
	p.BaseURL = url
	p.RetryDelay = time.Millisecond
	return p
}

func TestCompleteMissingKey(t *testing.T) {
	p := NewOpenAIProvider("", "gpt-4o")
	_, err := p.Complete(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestCompleteStructuredOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/responses", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req responsesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Text)
		assert.Equal(t, "json_schema", req.Text.Format.Type)
		assert.Equal(t, "kiosk_answer", req.Text.Format.Name)
		assert.True(t, req.Text.Format.Strict)

		json.NewEncoder(w).Encode(map[string]any{
			"output_text": `{"answer":{"direct":"At 9:00 AM.","steps":[],"mistakes":[]},"refinement_chips":[]}`,
		})
	}))
	defer srv.Close()

	p := testProvider(srv.URL)
	out, err := p.Complete(
		context.Background(),
		[]llm.Message{{Role: "user", Content: "when does it start"}},
		llm.WithJSONSchema("kiosk_answer", json.RawMessage(`{"type":"object"}`)),
	)
	require.NoError(t, err)
	assert.Contains(t, out, "9:00 AM")
}

func TestCompleteRetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"output_text": "ok"})
	}))
	defer srv.Close()

	p := testProvider(srv.URL)
	out, err := p.Complete(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCompleteGivesUpAfterOneRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := testProvider(srv.URL)
	_, err := p.Complete(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	assert.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCompleteFallsBackToOutputBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"output": []map[string]any{
				{"content": []map[string]any{{"type": "output_text", "text": "part one"}}},
				{"content": []map[string]any{{"type": "text", "text": "part two"}}},
			},
		})
	}))
	defer srv.Close()

	p := testProvider(srv.URL)
	out, err := p.Complete(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "part one\npart two", out)
}

func TestStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req responsesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		deltas := []string{"The keynote ", "starts at ", "9:00 AM."}
		for _, d := range deltas {
			raw, _ := json.Marshal(streamEvent{Type: "response.output_text.delta", Delta: d})
			fmt.Fprintf(w, "data: %s\n\n", raw)
		}
		fmt.Fprint(w, "data: {\"type\":\"response.completed\"}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	p := testProvider(srv.URL)
	var got []string
	full, err := p.Stream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, func(delta string) error {
		got = append(got, delta)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "The keynote starts at 9:00 AM.", full)
	assert.Equal(t, []string{"The keynote ", "starts at ", "9:00 AM."}, got)
}

func TestStreamRetriesBeforeFirstDelta(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		raw, _ := json.Marshal(streamEvent{Type: "response.output_text.delta", Delta: "hello"})
		fmt.Fprintf(w, "data: %s\n\n", raw)
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	p := testProvider(srv.URL)
	full, err := p.Stream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, func(string) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, "hello", full)
	assert.Equal(t, int32(2), calls.Load())
}

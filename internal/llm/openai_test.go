package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatCompletionResponse returns a minimal valid Chat Completions API JSON response.
func fakeChatCompletionResponse() string {
	return `{
		"id": "chatcmpl-test123",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-4o-mini",
		"choices": [
			{
				"index": 0,
				"message": {"role": "assistant", "content": "Focus on retention first."},
				"finish_reason": "stop"
			}
		],
		"usage": {"prompt_tokens": 42, "completion_tokens": 9, "total_tokens": 51}
	}`
}

func newFakeOpenAIClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &OpenAIClient{
		client: openai.NewClient(
			option.WithBaseURL(server.URL),
			option.WithAPIKey("test-key"),
		),
	}
}

func TestOpenAIComplete_Success(t *testing.T) {
	var capturedBody map[string]interface{}

	c := newFakeOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &capturedBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, fakeChatCompletionResponse())
	})

	resp, err := c.Complete(context.Background(), Request{
		Model:  "gpt-4o-mini",
		System: "You are a strategy advisor.",
		Messages: []Message{
			{Role: RoleUser, Content: "What should we prioritize?"},
		},
		Temperature: 0.2,
		MaxTokens:   512,
	})
	require.NoError(t, err)

	assert.Equal(t, "Focus on retention first.", resp.Text)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, "stop", resp.StopReason)
	assert.Equal(t, 42, resp.Usage.PromptTokens)
	assert.Equal(t, 9, resp.Usage.CompletionTokens)

	assert.Equal(t, "gpt-4o-mini", capturedBody["model"])
	assert.EqualValues(t, 512, capturedBody["max_tokens"])
	assert.InDelta(t, 0.2, capturedBody["temperature"], 1e-9)

	messages, ok := capturedBody["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2, "system prompt must be prepended as the first message")
	first, ok := messages[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "You are a strategy advisor.", first["content"])
}

func TestOpenAIComplete_OmitsUnsetSamplingParams(t *testing.T) {
	var capturedBody map[string]interface{}

	c := newFakeOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &capturedBody))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, fakeChatCompletionResponse())
	})

	_, err := c.Complete(context.Background(), Request{
		Model:    "gpt-4o-mini",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)

	_, hasTemp := capturedBody["temperature"]
	assert.False(t, hasTemp, "zero temperature must not be sent")
	_, hasMax := capturedBody["max_tokens"]
	assert.False(t, hasMax, "zero max_tokens must not be sent")
}

func TestOpenAIComplete_RateLimited(t *testing.T) {
	c := newFakeOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limited", "type": "rate_limit_error"}}`)
	})

	_, err := c.Complete(context.Background(), Request{
		Model:    "gpt-4o-mini",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrorTypeRateLimited, perr.Type)
	assert.True(t, perr.Retryable)
}

func TestOpenAIComplete_ContextOverflow(t *testing.T) {
	c := newFakeOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"message": "This model's maximum context length is 128000 tokens", "type": "invalid_request_error", "code": "context_length_exceeded"}}`)
	})

	_, err := c.Complete(context.Background(), Request{
		Model:    "gpt-4o-mini",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrorTypeContextOverflow, perr.Type)
	assert.False(t, perr.Retryable)
}

func TestOpenAIComplete_EmptyChoices(t *testing.T) {
	c := newFakeOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-empty",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [],
			"usage": {"prompt_tokens": 1, "completion_tokens": 0, "total_tokens": 1}
		}`)
	})

	_, err := c.Complete(context.Background(), Request{
		Model:    "gpt-4o-mini",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrorTypeTransient, perr.Type)
}

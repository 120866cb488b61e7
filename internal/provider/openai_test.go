package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/minutes-flow/internal/model"
)

func chatCompletionJSON(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func TestOpenAIChatComplete(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-mock", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-3.5-turbo", req["model"])
		assert.Equal(t, float64(1500), req["max_tokens"])
		assert.Equal(t, 0.7, req["temperature"])
		msgs := req["messages"].([]any)
		require.Len(t, msgs, 1)
		assert.Equal(t, "user", msgs[0].(map[string]any)["role"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletionJSON("Y")))
	}))
	defer srv.Close()

	g := NewGenerative(model.ProviderDescriptor{Name: "gpt-3.5-turbo", API: model.APIOpenAI, ModelID: "gpt-3.5-turbo"},
		NewOpenAIChat("sk-mock", srv.URL+"/", nil), GenerationOptions{MaxTokens: 1500, Temperature: 0.7})

	got, err := g.Summarize(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Y", got)
	assert.Equal(t, 1, calls)
}

func TestOpenAIChatAPIErrorNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"server exploded","type":"server_error"}}`))
	}))
	defer srv.Close()

	g := NewGenerative(model.ProviderDescriptor{Name: "gpt", ModelID: "gpt-3.5-turbo"},
		NewOpenAIChat("sk-mock", srv.URL+"/", nil), GenerationOptions{})

	_, err := g.Summarize(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrProviderCall))
	assert.Equal(t, 1, calls)
}

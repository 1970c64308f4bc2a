package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_ProviderSelection(t *testing.T) {
	cfg := Config{OllamaHost: "http://localhost:11434", OpenAIKey: "sk-test", GroqKey: "gsk-test"}
	logger := zap.NewNop()

	t.Run("ollama", func(t *testing.T) {
		gen, err := New("ollama/llama3", cfg, logger)
		require.NoError(t, err)
		assert.IsType(t, &OllamaGenerator{}, gen)
		assert.Equal(t, "llama3", gen.Model())
	})

	t.Run("openai", func(t *testing.T) {
		gen, err := New("openai/gpt-4", cfg, logger)
		require.NoError(t, err)
		assert.IsType(t, &OpenAICompatibleGenerator{}, gen)
		assert.Equal(t, "gpt-4", gen.Model())
	})

	t.Run("groq", func(t *testing.T) {
		gen, err := New("groq/llama3-70b-8192", cfg, logger)
		require.NoError(t, err)
		assert.IsType(t, &OpenAICompatibleGenerator{}, gen)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New("mystery/model", cfg, logger)
		require.Error(t, err)
	})

	t.Run("missing prefix", func(t *testing.T) {
		_, err := New("gpt-4", cfg, logger)
		require.Error(t, err)
	})
}

func TestOpenAICompatible_Complete(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hello back"}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	gen := NewOpenAICompatible(server.URL, "secret-key", "gpt-4", zap.NewNop())
	got, err := gen.Complete(context.Background(), "hello there")
	require.NoError(t, err)

	assert.Equal(t, "hello back", got)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "gpt-4", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "hello there", gotReq.Messages[0].Content)
}

func TestOpenAICompatible_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	gen := NewOpenAICompatible(server.URL, "key", "gpt-4", zap.NewNop())
	_, err := gen.Complete(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAICompatible_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	gen := NewOpenAICompatible(server.URL, "key", "gpt-4", zap.NewNop())
	_, err := gen.Complete(context.Background(), "anything")
	require.Error(t, err)
}

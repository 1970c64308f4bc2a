// Package generator provides completion clients for LLM backends.
package generator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Generator is the interface for producing a completion from a prompt.
type Generator interface {
	// Complete sends the prompt to the backend and returns the
	// completion text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Model returns the backend model identifier.
	Model() string
}

// Provider prefixes recognised in model ids ("provider/model").
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
)

// Config holds the per-provider connection settings used by the factory.
type Config struct {
	OllamaHost string // Ollama server URL
	OpenAIKey  string // OpenAI API key
	GroqKey    string // Groq API key
}

// New builds the Generator for a model id of the form "provider/model".
// The provider is resolved once here; callers never branch on it again.
func New(modelID string, cfg Config, logger *zap.Logger) (Generator, error) {
	provider, model, ok := strings.Cut(modelID, "/")
	if !ok {
		return nil, fmt.Errorf("model id %q is missing a provider prefix (want \"provider/model\")", modelID)
	}

	switch provider {
	case ProviderOllama:
		return NewOllama(cfg.OllamaHost, model, logger)
	case ProviderOpenAI:
		return NewOpenAICompatible(openAIBaseURL, cfg.OpenAIKey, model, logger), nil
	case ProviderGroq:
		return NewOpenAICompatible(groqBaseURL, cfg.GroqKey, model, logger), nil
	default:
		return nil, fmt.Errorf("unknown provider %q in model id %q", provider, modelID)
	}
}

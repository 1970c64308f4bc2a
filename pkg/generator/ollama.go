package generator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// defaultOllamaHost is used when no server address is configured.
const defaultOllamaHost = "http://localhost:11434"

// generateTimeout bounds a single completion request. Generations can
// run long on modest hardware.
const generateTimeout = 5 * time.Minute

// OllamaGenerator produces completions through a local Ollama server.
type OllamaGenerator struct {
	client *api.Client
	model  string
	logger *zap.Logger
}

// NewOllama creates a generator backed by the Ollama generate API.
func NewOllama(host, model string, logger *zap.Logger) (*OllamaGenerator, error) {
	if host == "" {
		host = defaultOllamaHost
	}

	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}

	return &OllamaGenerator{
		client: api.NewClient(base, &http.Client{Timeout: generateTimeout}),
		model:  model,
		logger: logger,
	}, nil
}

// Model returns the backend model identifier.
func (g *OllamaGenerator) Model() string { return g.model }

// Complete streams the generation and accumulates the chunks into the
// full completion text.
func (g *OllamaGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	stream := true
	req := &api.GenerateRequest{
		Model:  g.model,
		Prompt: prompt,
		Stream: &stream,
	}

	var response strings.Builder
	err := g.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		response.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generation failed for model %s: %w", g.model, err)
	}

	g.logger.Debug("ollama generation complete",
		zap.String("model", g.model),
		zap.Int("response_len", response.Len()))
	return response.String(), nil
}

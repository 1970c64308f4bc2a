package embedding

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

const (
	// DefaultHost is the Ollama server address used when none is configured.
	DefaultHost = "http://localhost:11434"

	maxRetries     = 3
	baseRetryDelay = 1 * time.Second
	requestTimeout = 30 * time.Second
)

// OllamaEmbedder generates embeddings through a local Ollama server.
type OllamaEmbedder struct {
	client    *api.Client
	model     string
	logger    *zap.Logger
	dimension int
}

// NewOllama creates an embedder backed by the Ollama embeddings API.
func NewOllama(host, model string, logger *zap.Logger) (*OllamaEmbedder, error) {
	if host == "" {
		host = DefaultHost
	}

	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}

	httpClient := &http.Client{Timeout: requestTimeout}
	return &OllamaEmbedder{
		client: api.NewClient(base, httpClient),
		model:  model,
		logger: logger,
	}, nil
}

// Model returns the embedding model identifier.
func (e *OllamaEmbedder) Model() string { return e.model }

// Embed generates the embedding vector for text, retrying transient
// failures with exponential backoff. Model warm-up chatter stays on the
// debug log and never reaches the primary output stream.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := &api.EmbeddingRequest{
		Model:  e.model,
		Prompt: text,
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := e.client.Embeddings(ctx, req)
		if err == nil {
			e.logger.Debug("embedding request succeeded",
				zap.String("model", e.model),
				zap.Int("input_len", len(text)),
				zap.Int("dimension", len(resp.Embedding)))
			return toFloat32(resp.Embedding), nil
		}

		lastErr = err
		delay := time.Duration(math.Pow(2, float64(attempt))) * baseRetryDelay
		e.logger.Debug("embedding attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_in", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("embedding failed after %d attempts: %w", maxRetries, lastErr)
}

// Dimension discovers the model's vector size by embedding a fixed
// probe string once. The result is cached for the embedder's lifetime.
func (e *OllamaEmbedder) Dimension(ctx context.Context) (int, error) {
	if e.dimension > 0 {
		return e.dimension, nil
	}

	vec, err := e.Embed(ctx, dimensionProbe)
	if err != nil {
		return 0, fmt.Errorf("failed to probe embedding dimension: %w", err)
	}
	e.dimension = len(vec)
	return e.dimension, nil
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

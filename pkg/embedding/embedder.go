// Package embedding provides clients for generating vector embeddings.
package embedding

import "context"

// Embedder is the interface for turning text into a fixed-length vector.
type Embedder interface {
	// Embed generates the embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension reports the vector size produced by the model.
	Dimension(ctx context.Context) (int, error)

	// Model returns the embedding model identifier.
	Model() string
}

// dimensionProbe is the fixed text embedded once to discover the
// vector size of a model.
const dimensionProbe = "Sample text"

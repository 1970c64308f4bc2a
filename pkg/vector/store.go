// Package vector provides nearest-neighbor search over chunk embeddings.
package vector

import (
	"context"

	"github.com/andrew/llm-eval/pkg/models"
)

// Index defines the interface for vector database operations
type Index interface {
	// EnsureCollection creates the collection with the given vector
	// dimension if it does not already exist
	EnsureCollection(ctx context.Context, dimension int) error

	// DeleteCollection removes the collection and every vector in it.
	// Deleting a collection that does not exist is not an error.
	DeleteCollection(ctx context.Context) error

	// Upsert inserts or updates one vector with its chunk metadata
	Upsert(ctx context.Context, chunk models.Chunk, vec []float32) error

	// Query finds the topK vectors most similar to the query vector,
	// ordered by descending similarity
	Query(ctx context.Context, vec []float32, topK int) ([]models.SearchResult, error)

	// Close releases resources used by the index
	Close() error
}

// Config contains connection settings for a vector database
type Config struct {
	Host       string // Server host
	Port       int    // gRPC port
	Collection string // Collection name addressed by this index
}

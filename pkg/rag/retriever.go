// Package rag answers queries by retrieving relevant chunks from the
// vector index and conditioning a generation model's prompt on them.
package rag

import (
	"context"
	"strings"
	"time"

	"github.com/andrew/llm-eval/pkg/embedding"
	"github.com/andrew/llm-eval/pkg/vector"
)

// DefaultTopK is the number of chunks retrieved per query.
const DefaultTopK = 5

// Retriever embeds a query and gathers the most similar chunk texts
// from the vector index.
type Retriever struct {
	embedder embedding.Embedder
	index    vector.Index
	topK     int
}

// NewRetriever creates a Retriever over the given embedder and index.
// topK values below 1 fall back to DefaultTopK.
func NewRetriever(emb embedding.Embedder, idx vector.Index, topK int) *Retriever {
	if topK < 1 {
		topK = DefaultTopK
	}
	return &Retriever{embedder: emb, index: idx, topK: topK}
}

// Retrieve embeds query, searches the index, and joins the retrieved
// texts with blank lines into one context block. The returned duration
// covers the index query only, measured with the monotonic clock; the
// embedding call is not separately attributed.
func (r *Retriever) Retrieve(ctx context.Context, query string) (string, time.Duration, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return "", 0, err
	}

	start := time.Now()
	results, err := r.index.Query(ctx, vec, r.topK)
	elapsed := time.Since(start)
	if err != nil {
		return "", elapsed, err
	}

	texts := make([]string, 0, len(results))
	for _, res := range results {
		texts = append(texts, res.Chunk.Text)
	}
	return strings.Join(texts, "\n\n"), elapsed, nil
}

// Package indexer populates the vector index from a directory of
// source documents.
package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/andrew/llm-eval/pkg/embedding"
	"github.com/andrew/llm-eval/pkg/embedstore"
	"github.com/andrew/llm-eval/pkg/fileutil"
	"github.com/andrew/llm-eval/pkg/models"
	"github.com/andrew/llm-eval/pkg/vector"
)

// Config selects what gets indexed and how.
type Config struct {
	// SourceDir is the directory of documents to index.
	SourceDir string

	// Extension filters the files considered, including the dot (".txt").
	Extension string

	// UsePrecalculated loads embeddings from the cache file instead of
	// computing them. A missing or corrupt cache is then fatal.
	UsePrecalculated bool

	// RecreateCollection deletes a pre-existing collection of the same
	// name before indexing. Destructive and irreversible.
	RecreateCollection bool
}

// Metrics summarises one indexing run. Times are in seconds.
type Metrics struct {
	EmbeddingTime             float64 `json:"embedding_time"`
	InsertionTime             float64 `json:"insertion_time"`
	TotalFiles                int     `json:"total_files"`
	TotalVectors              int     `json:"total_vectors"`
	AvgInsertionTimePerVector float64 `json:"avg_insertion_time_per_vector"`
}

// Save writes the metrics as an indented JSON record.
func (m Metrics) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// Builder drives the batch indexing run: chunk, embed (or load from
// cache), and upsert into the vector index.
type Builder struct {
	cfg      Config
	store    *embedstore.Store
	embedder embedding.Embedder
	index    vector.Index
	logger   *zap.Logger
}

// New creates a Builder.
func New(cfg Config, store *embedstore.Store, emb embedding.Embedder, idx vector.Index, logger *zap.Logger) *Builder {
	return &Builder{
		cfg:      cfg,
		store:    store,
		embedder: emb,
		index:    idx,
		logger:   logger,
	}
}

// Build indexes every matching file in the source directory. Failure to
// produce embeddings for the batch is fatal; a single vector that fails
// to upsert is logged and skipped so the rest of the batch proceeds.
func (b *Builder) Build(ctx context.Context) (Metrics, error) {
	var metrics Metrics

	names, err := fileutil.ListFiles(b.cfg.SourceDir, b.cfg.Extension)
	if err != nil {
		return metrics, err
	}
	if len(names) == 0 {
		return metrics, fmt.Errorf("no %q files found in %s", b.cfg.Extension, b.cfg.SourceDir)
	}
	metrics.TotalFiles = len(names)

	dim, err := b.embedder.Dimension(ctx)
	if err != nil {
		return metrics, err
	}

	if b.cfg.RecreateCollection {
		if err := b.index.DeleteCollection(ctx); err != nil {
			return metrics, err
		}
	}
	if err := b.index.EnsureCollection(ctx, dim); err != nil {
		return metrics, err
	}

	embedStart := time.Now()
	entriesBySource, err := b.loadOrCreate(ctx, names)
	if err != nil {
		return metrics, err
	}
	metrics.EmbeddingTime = time.Since(embedStart).Seconds()

	insertStart := time.Now()
	for i, name := range names {
		entries := entriesBySource[name]
		b.logger.Info("inserting vectors",
			zap.String("file", name),
			zap.Int("file_index", i+1),
			zap.Int("file_count", len(names)),
			zap.Int("vectors", len(entries)))

		for idx, entry := range entries {
			chunk := models.Chunk{
				ID:     entry.ChunkID,
				Source: name,
				Text:   entry.Text,
				Index:  idx,
			}
			if err := b.index.Upsert(ctx, chunk, entry.Vector); err != nil {
				// Best-effort insert: one bad vector must not abort
				// the batch.
				b.logger.Warn("skipping vector that failed to insert",
					zap.String("chunk_id", entry.ChunkID),
					zap.Error(err))
				continue
			}
			metrics.TotalVectors++
		}
	}
	metrics.InsertionTime = time.Since(insertStart).Seconds()

	if metrics.TotalVectors > 0 {
		metrics.AvgInsertionTimePerVector = metrics.InsertionTime / float64(metrics.TotalVectors)
	}

	b.logger.Info("indexing complete",
		zap.Int("files", metrics.TotalFiles),
		zap.Int("vectors", metrics.TotalVectors),
		zap.Float64("embedding_time_s", metrics.EmbeddingTime),
		zap.Float64("insertion_time_s", metrics.InsertionTime))

	return metrics, nil
}

// loadOrCreate resolves embeddings for the named files, either from the
// cache file or by chunking and embedding them fresh. The two modes are
// mutually exclusive by configuration.
func (b *Builder) loadOrCreate(ctx context.Context, names []string) (map[string][]embedstore.Entry, error) {
	if b.cfg.UsePrecalculated {
		entries := make(map[string][]embedstore.Entry, len(names))
		for _, name := range names {
			group, err := b.store.Load(name)
			if err != nil {
				return nil, fmt.Errorf("failed to load precalculated embeddings: %w", err)
			}
			// A nil group is a soft cache miss, already logged by the
			// store. The file contributes no vectors.
			entries[name] = group
		}
		return entries, nil
	}

	docs, err := fileutil.ReadDocuments(b.cfg.SourceDir, b.cfg.Extension)
	if err != nil {
		return nil, err
	}
	entries, err := b.store.Create(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	return entries, nil
}

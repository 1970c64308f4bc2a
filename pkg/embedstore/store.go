// Package embedstore persists per-chunk embeddings in a binary cache
// file so repeated indexing runs can skip re-embedding.
package embedstore

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/andrew/llm-eval/pkg/chunker"
	"github.com/andrew/llm-eval/pkg/embedding"
	"github.com/andrew/llm-eval/pkg/models"
)

// ErrNotFound is returned when the cache file does not exist.
var ErrNotFound = errors.New("embeddings file not found")

// Entry is one chunk's cached embedding.
type Entry struct {
	ChunkID string
	Text    string
	Vector  []float32
}

// fileGroup holds the order-aligned sequences written for one source
// document. The three slices always have equal length.
type fileGroup struct {
	ChunkIDs []string
	Texts    []string
	Vectors  [][]float32
}

// Store reads and writes the embedding cache file.
type Store struct {
	path     string
	chunker  *chunker.Chunker
	embedder embedding.Embedder
	logger   *zap.Logger
}

// New creates a Store for the cache file at path.
func New(path string, ch *chunker.Chunker, emb embedding.Embedder, logger *zap.Logger) *Store {
	return &Store{
		path:     path,
		chunker:  ch,
		embedder: emb,
		logger:   logger,
	}
}

// Path returns the cache file location.
func (s *Store) Path() string { return s.path }

// Create chunks and embeds every document, writes one group per source
// to the cache file, and returns the same data keyed by source. Any
// embedding failure aborts the whole batch.
func (s *Store) Create(ctx context.Context, docs []models.Document) (map[string][]Entry, error) {
	// Probe the dimension up front so a misconfigured model fails
	// before any chunk work happens.
	dim, err := s.embedder.Dimension(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]fileGroup, len(docs))
	data := make(map[string][]Entry, len(docs))

	for _, doc := range docs {
		chunks := s.chunker.Chunk(doc.Content)
		s.logger.Info("embedding document",
			zap.String("source", doc.Source),
			zap.Int("chunks", len(chunks)))

		grp := fileGroup{
			ChunkIDs: make([]string, 0, len(chunks)),
			Texts:    make([]string, 0, len(chunks)),
			Vectors:  make([][]float32, 0, len(chunks)),
		}
		entries := make([]Entry, 0, len(chunks))

		for i, text := range chunks {
			vec, err := s.embedder.Embed(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("failed to embed chunk %d of %s: %w", i, doc.Source, err)
			}
			if len(vec) != dim {
				return nil, fmt.Errorf("embedding for chunk %d of %s has dimension %d, want %d",
					i, doc.Source, len(vec), dim)
			}

			id := models.ChunkID(doc.Source, i)
			grp.ChunkIDs = append(grp.ChunkIDs, id)
			grp.Texts = append(grp.Texts, text)
			grp.Vectors = append(grp.Vectors, vec)
			entries = append(entries, Entry{ChunkID: id, Text: text, Vector: vec})
		}

		groups[doc.Source] = grp
		data[doc.Source] = entries
	}

	if err := s.write(groups); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) write(groups map[string]fileGroup) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create embeddings directory: %w", err)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create embeddings file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(groups); err != nil {
		return fmt.Errorf("failed to encode embeddings file: %w", err)
	}
	return nil
}

// Load returns the cached entries for one source document. A missing
// cache file is ErrNotFound; a missing source inside an existing file
// is a soft miss that logs a warning and returns nil.
func (s *Store) Load(source string) ([]Entry, error) {
	groups, err := s.read()
	if err != nil {
		return nil, err
	}

	grp, ok := groups[source]
	if !ok {
		s.logger.Warn("source not found in embeddings file",
			zap.String("source", source),
			zap.Strings("available", sortedKeys(groups)))
		return nil, nil
	}
	return grp.entries(), nil
}

// LoadAll returns every cached group keyed by source document.
func (s *Store) LoadAll() (map[string][]Entry, error) {
	groups, err := s.read()
	if err != nil {
		return nil, err
	}

	data := make(map[string][]Entry, len(groups))
	for source, grp := range groups {
		data[source] = grp.entries()
	}
	return data, nil
}

func (s *Store) read() (map[string]fileGroup, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to open embeddings file: %w", err)
	}
	defer f.Close()

	var groups map[string]fileGroup
	if err := gob.NewDecoder(f).Decode(&groups); err != nil {
		return nil, fmt.Errorf("failed to decode embeddings file %s: %w", s.path, err)
	}
	return groups, nil
}

func (g fileGroup) entries() []Entry {
	entries := make([]Entry, len(g.ChunkIDs))
	for i := range g.ChunkIDs {
		entries[i] = Entry{
			ChunkID: g.ChunkIDs[i],
			Text:    g.Texts[i],
			Vector:  g.Vectors[i],
		}
	}
	return entries
}

func sortedKeys(groups map[string]fileGroup) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

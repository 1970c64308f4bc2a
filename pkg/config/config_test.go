package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
questions_file: questions.txt
embed_model: nomic-embed-text
rag_model: ollama/llama3
models:
  gpt-4: openai/gpt-4
  llama3-70b: groq/llama3-70b-8192
vector:
  collection: rag_eval
  host: qdrant.local
chunking:
  sentences_per_chunk: 8
  overlap: 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "questions.txt", cfg.QuestionsFile)
	assert.Equal(t, "nomic-embed-text", cfg.EmbedModel)
	assert.Equal(t, "ollama/llama3", cfg.RagModel)
	assert.Equal(t, "openai/gpt-4", cfg.Models["gpt-4"])
	assert.Equal(t, "rag_eval", cfg.Vector.Collection)
	assert.Equal(t, "qdrant.local", cfg.Vector.Host)
	assert.Equal(t, 8, cfg.Chunking.SentencesPerChunk)
	assert.Equal(t, 1, cfg.Chunking.Overlap)

	// Defaults fill everything the file omits.
	assert.Equal(t, 6334, cfg.Vector.Port)
	assert.Equal(t, 5, cfg.Vector.TopK)
	assert.Equal(t, "english", cfg.Chunking.Language)
	assert.Equal(t, ".txt", cfg.Sources.Extension)
	assert.Equal(t, "evaluation", cfg.OutputDir)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_MissingEmbedModel(t *testing.T) {
	path := writeConfig(t, `
vector:
  collection: rag_eval
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed_model")
}

func TestLoad_MissingCollection(t *testing.T) {
	path := writeConfig(t, `
embed_model: nomic-embed-text
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector.collection")
}

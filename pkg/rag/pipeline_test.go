package rag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrew/llm-eval/pkg/models"
)

type fakeEmbedder struct {
	err error
}

func (f fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f fakeEmbedder) Dimension(context.Context) (int, error) { return 3, nil }
func (f fakeEmbedder) Model() string                          { return "fake-embed" }

type fakeIndex struct {
	texts []string
	topK  int
	err   error
}

func (f *fakeIndex) EnsureCollection(context.Context, int) error { return nil }
func (f *fakeIndex) DeleteCollection(context.Context) error      { return nil }
func (f *fakeIndex) Upsert(context.Context, models.Chunk, []float32) error {
	return nil
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, topK int) ([]models.SearchResult, error) {
	f.topK = topK
	if f.err != nil {
		return nil, f.err
	}
	results := make([]models.SearchResult, len(f.texts))
	for i, text := range f.texts {
		results[i] = models.SearchResult{
			Chunk: models.Chunk{ID: "doc_0", Text: text},
			Score: 1.0 - float32(i)*0.1,
		}
	}
	return results, nil
}

func (f *fakeIndex) Close() error { return nil }

type fakeGenerator struct {
	prompt string
	reply  string
	err    error
}

func (f *fakeGenerator) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeGenerator) Model() string { return "fake-gen" }

func writeTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompt.tmpl")
	tmpl := "Context:\n{{.Docs}}\n\nQuestion: {{.Query}}"
	require.NoError(t, os.WriteFile(path, []byte(tmpl), 0o644))
	return path
}

func TestPipeline_Answer(t *testing.T) {
	idx := &fakeIndex{texts: []string{"first chunk", "second chunk"}}
	gen := &fakeGenerator{reply: "the answer"}

	pipeline, err := NewPipeline(
		NewRetriever(fakeEmbedder{}, idx, 5),
		gen,
		writeTemplate(t),
		zap.NewNop(),
	)
	require.NoError(t, err)

	result := pipeline.Answer(context.Background(), "what is it?")

	assert.Equal(t, "the answer", result.Response)
	assert.GreaterOrEqual(t, result.RetrievalDuration, 0.0)
	assert.GreaterOrEqual(t, result.GenerationDuration, 0.0)
	assert.Equal(t, 5, idx.topK)

	// Retrieved texts are joined with a blank line and substituted into
	// the template alongside the query.
	assert.Equal(t, "Context:\nfirst chunk\n\nsecond chunk\n\nQuestion: what is it?", gen.prompt)
}

func TestPipeline_GeneratorFailureIsTolerated(t *testing.T) {
	idx := &fakeIndex{texts: []string{"chunk"}}
	gen := &fakeGenerator{err: errors.New("model is down")}

	pipeline, err := NewPipeline(
		NewRetriever(fakeEmbedder{}, idx, 5),
		gen,
		writeTemplate(t),
		zap.NewNop(),
	)
	require.NoError(t, err)

	result := pipeline.Answer(context.Background(), "anything?")

	assert.NotEmpty(t, result.Response)
	assert.Contains(t, result.Response, "model is down")
	assert.Equal(t, models.NoDuration, result.RetrievalDuration)
	assert.Equal(t, models.NoDuration, result.GenerationDuration)
}

func TestPipeline_RetrievalFailureIsTolerated(t *testing.T) {
	idx := &fakeIndex{err: errors.New("index unavailable")}

	pipeline, err := NewPipeline(
		NewRetriever(fakeEmbedder{}, idx, 5),
		&fakeGenerator{reply: "unused"},
		writeTemplate(t),
		zap.NewNop(),
	)
	require.NoError(t, err)

	result := pipeline.Answer(context.Background(), "anything?")

	assert.Contains(t, result.Response, "index unavailable")
	assert.Equal(t, models.NoDuration, result.RetrievalDuration)
	assert.Equal(t, models.NoDuration, result.GenerationDuration)
}

func TestPipeline_EmbeddingFailureIsTolerated(t *testing.T) {
	pipeline, err := NewPipeline(
		NewRetriever(fakeEmbedder{err: errors.New("embedder gone")}, &fakeIndex{}, 5),
		&fakeGenerator{reply: "unused"},
		writeTemplate(t),
		zap.NewNop(),
	)
	require.NoError(t, err)

	result := pipeline.Answer(context.Background(), "anything?")

	assert.Contains(t, result.Response, "embedder gone")
	assert.Equal(t, models.NoDuration, result.GenerationDuration)
}

func TestNewPipeline_MissingTemplateIsFatal(t *testing.T) {
	_, err := NewPipeline(
		NewRetriever(fakeEmbedder{}, &fakeIndex{}, 5),
		&fakeGenerator{},
		filepath.Join(t.TempDir(), "nope.tmpl"),
		zap.NewNop(),
	)
	require.Error(t, err)
}

func TestRetriever_DefaultTopK(t *testing.T) {
	r := NewRetriever(fakeEmbedder{}, &fakeIndex{}, 0)
	assert.Equal(t, DefaultTopK, r.topK)
}

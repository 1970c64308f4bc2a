package main

import (
	"fmt"

	"github.com/andrew/llm-eval/pkg/chunker"
	"github.com/andrew/llm-eval/pkg/embedding"
	"github.com/andrew/llm-eval/pkg/generator"
	"github.com/andrew/llm-eval/pkg/rag"
	"github.com/andrew/llm-eval/pkg/vector"
)

func newChunker() (*chunker.Chunker, error) {
	return chunker.New(
		cfg.Chunking.SentencesPerChunk,
		cfg.Chunking.Overlap,
		chunker.WithLanguage(cfg.Chunking.Language),
	)
}

func newEmbedder() (embedding.Embedder, error) {
	return embedding.NewOllama(cfg.Ollama.Host, cfg.EmbedModel, logger)
}

func newVectorIndex() (vector.Index, error) {
	return vector.NewQdrant(vector.Config{
		Host:       cfg.Vector.Host,
		Port:       cfg.Vector.Port,
		Collection: cfg.Vector.Collection,
	}, logger)
}

func generatorConfig() generator.Config {
	return generator.Config{
		OllamaHost: cfg.Ollama.Host,
		OpenAIKey:  cfg.OpenAI.APIKey,
		GroqKey:    cfg.Groq.APIKey,
	}
}

// newPipeline wires the RAG pipeline from the configured embedding
// model, vector collection, and rag_model generation backend. The
// returned index must be closed by the caller.
func newPipeline() (*rag.Pipeline, vector.Index, error) {
	if cfg.RagModel == "" {
		return nil, nil, fmt.Errorf("config: rag_model is required for RAG queries")
	}

	emb, err := newEmbedder()
	if err != nil {
		return nil, nil, err
	}
	idx, err := newVectorIndex()
	if err != nil {
		return nil, nil, err
	}
	gen, err := generator.New(cfg.RagModel, generatorConfig(), logger)
	if err != nil {
		idx.Close()
		return nil, nil, err
	}

	pipeline, err := rag.NewPipeline(
		rag.NewRetriever(emb, idx, cfg.Vector.TopK),
		gen,
		cfg.PromptTemplate,
		logger,
	)
	if err != nil {
		idx.Close()
		return nil, nil, err
	}
	return pipeline, idx, nil
}

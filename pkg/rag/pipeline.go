package rag

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/andrew/llm-eval/pkg/generator"
	"github.com/andrew/llm-eval/pkg/models"
)

// Result is the outcome of one pipeline run. Durations are wall-clock
// seconds: GenerationDuration covers the generator call only and
// RetrievalDuration the index query only. Query embedding and prompt
// assembly are not separately attributed; this is an accepted
// measurement approximation. Both durations are models.NoDuration when
// the run failed.
type Result struct {
	Response           string  `json:"response"`
	RetrievalDuration  float64 `json:"retrieval_duration"`
	GenerationDuration float64 `json:"generation_duration"`
}

// promptData carries the substitutions for the prompt template.
type promptData struct {
	Query string
	Docs  string
}

// Pipeline orchestrates retrieval and generation for a single query.
type Pipeline struct {
	retriever *Retriever
	gen       generator.Generator
	tmpl      *template.Template
	logger    *zap.Logger
}

// NewPipeline creates a Pipeline. The prompt template file must contain
// {{.Query}} and {{.Docs}} placeholders; failure to load or parse it is
// fatal to construction.
func NewPipeline(retriever *Retriever, gen generator.Generator, promptPath string, logger *zap.Logger) (*Pipeline, error) {
	raw, err := os.ReadFile(promptPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt template %s: %w", promptPath, err)
	}

	tmpl, err := template.New("rag_prompt").Parse(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template %s: %w", promptPath, err)
	}

	return &Pipeline{
		retriever: retriever,
		gen:       gen,
		tmpl:      tmpl,
		logger:    logger,
	}, nil
}

// Answer runs the full pipeline for query. It never returns an error:
// any failure is logged and reported inside the Result with both
// durations set to the sentinel, so a batch evaluation can keep going
// when one backend is down.
func (p *Pipeline) Answer(ctx context.Context, query string) Result {
	docs, retrievalTime, err := p.retriever.Retrieve(ctx, query)
	if err != nil {
		return p.failed("retrieval failed", err)
	}

	var prompt strings.Builder
	if err := p.tmpl.Execute(&prompt, promptData{Query: query, Docs: docs}); err != nil {
		return p.failed("prompt assembly failed", err)
	}

	start := time.Now()
	response, err := p.gen.Complete(ctx, prompt.String())
	generationTime := time.Since(start)
	if err != nil {
		return p.failed("generation failed", err)
	}

	p.logger.Debug("rag query answered",
		zap.String("model", p.gen.Model()),
		zap.Duration("retrieval", retrievalTime),
		zap.Duration("generation", generationTime))

	return Result{
		Response:           response,
		RetrievalDuration:  retrievalTime.Seconds(),
		GenerationDuration: generationTime.Seconds(),
	}
}

func (p *Pipeline) failed(stage string, err error) Result {
	p.logger.Error("error in RAG process", zap.String("stage", stage), zap.Error(err))
	return Result{
		Response:           fmt.Sprintf("An error occurred: %v", err),
		RetrievalDuration:  models.NoDuration,
		GenerationDuration: models.NoDuration,
	}
}

// Package eval runs a fixed list of questions through every configured
// model backend and collects the answers.
package eval

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/andrew/llm-eval/pkg/generator"
	"github.com/andrew/llm-eval/pkg/models"
	"github.com/andrew/llm-eval/pkg/rag"
)

// Client is one answering backend in the evaluation matrix. Name is the
// logical model name that appears in the reports.
type Client struct {
	Name   string
	Answer func(ctx context.Context, question string) models.Answer
}

// RagClient wraps a RAG pipeline as an evaluation client.
func RagClient(name string, pipeline *rag.Pipeline) Client {
	return Client{
		Name: name,
		Answer: func(ctx context.Context, question string) models.Answer {
			result := pipeline.Answer(ctx, question)
			return models.Answer{
				Model:              name,
				Answer:             result.Response,
				RetrievalDuration:  result.RetrievalDuration,
				GenerationDuration: result.GenerationDuration,
			}
		},
	}
}

// GeneratorClient wraps a plain completion backend as an evaluation
// client. Backend failures become error answers so the batch continues.
func GeneratorClient(name string, gen generator.Generator, logger *zap.Logger) Client {
	return Client{
		Name: name,
		Answer: func(ctx context.Context, question string) models.Answer {
			start := time.Now()
			response, err := gen.Complete(ctx, question)
			elapsed := time.Since(start)
			if err != nil {
				logger.Error("model query failed",
					zap.String("model", name),
					zap.Error(err))
				return models.Answer{
					Model:              name,
					Answer:             fmt.Sprintf("An error occurred: %v", err),
					RetrievalDuration:  models.NoDuration,
					GenerationDuration: models.NoDuration,
				}
			}
			return models.Answer{
				Model:              name,
				Answer:             response,
				RetrievalDuration:  models.NoDuration,
				GenerationDuration: elapsed.Seconds(),
			}
		},
	}
}

// ReadQuestions loads a newline-delimited questions file, one question
// per non-blank line.
func ReadQuestions(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open questions file: %w", err)
	}
	defer f.Close()

	var questions []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			questions = append(questions, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questions file: %w", err)
	}
	return questions, nil
}

// GenerateAnswers queries every client with every question, strictly
// sequentially, preserving the input question order and the client
// order within each question.
func GenerateAnswers(ctx context.Context, questions []string, clients []Client, logger *zap.Logger) []models.QuestionAnswers {
	answers := make([]models.QuestionAnswers, 0, len(questions))

	for i, question := range questions {
		logger.Info("processing question",
			zap.Int("index", i+1),
			zap.Int("total", len(questions)),
			zap.String("question", question))

		qa := models.QuestionAnswers{Question: question}
		for _, client := range clients {
			logger.Info("querying model", zap.String("model", client.Name))
			qa.Answers = append(qa.Answers, client.Answer(ctx, question))
		}
		answers = append(answers, qa)
	}

	return answers
}

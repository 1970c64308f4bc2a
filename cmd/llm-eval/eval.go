package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/andrew/llm-eval/pkg/eval"
	"github.com/andrew/llm-eval/pkg/generator"
	"github.com/andrew/llm-eval/pkg/report"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Run every question through every configured model and export reports",
	Long: `Reads the questions file, queries the RAG pipeline and every model in
the models map with each question in order, and writes the collected
answers as JSON, CSV, HTML, and Markdown reports to the output directory.`,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	if cfg.QuestionsFile == "" {
		return fmt.Errorf("config: questions_file is required for evaluation")
	}

	questions, err := eval.ReadQuestions(cfg.QuestionsFile)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return fmt.Errorf("no questions found in %s", cfg.QuestionsFile)
	}

	clients, closeIndex, err := buildClients()
	if err != nil {
		return err
	}
	defer closeIndex()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory %s: %w", cfg.OutputDir, err)
	}

	answers := eval.GenerateAnswers(context.Background(), questions, clients, logger)

	outputs := map[string]func() error{
		"answers.json": func() error { return report.SaveJSON(answers, filepath.Join(cfg.OutputDir, "answers.json")) },
		"answers.csv":  func() error { return report.SaveCSV(answers, filepath.Join(cfg.OutputDir, "answers.csv")) },
		"answers.html": func() error { return report.SaveHTML(answers, filepath.Join(cfg.OutputDir, "answers.html")) },
		"answers.md":   func() error { return report.SaveMarkdown(answers, filepath.Join(cfg.OutputDir, "answers.md")) },
	}
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	bold := color.New(color.Bold).SprintFunc()
	for _, name := range names {
		if err := outputs[name](); err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", bold(filepath.Join(cfg.OutputDir, name)))
	}

	cmd.Printf("Evaluated %d questions across %d models\n", len(questions), len(clients))
	return nil
}

// buildClients assembles the ordered evaluation matrix: the RAG
// pipeline first (when configured), then the plain generation backends
// from the models map in deterministic name order.
func buildClients() ([]eval.Client, func(), error) {
	var clients []eval.Client
	closeIndex := func() {}

	if cfg.RagModel != "" {
		pipeline, idx, err := newPipeline()
		if err != nil {
			return nil, nil, err
		}
		closeIndex = func() { idx.Close() }
		clients = append(clients, eval.RagClient("ollama_rag", pipeline))
	}

	names := make([]string, 0, len(cfg.Models))
	for name := range cfg.Models {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		gen, err := generator.New(cfg.Models[name], generatorConfig(), logger)
		if err != nil {
			closeIndex()
			return nil, nil, err
		}
		clients = append(clients, eval.GeneratorClient(name, gen, logger))
	}

	if len(clients) == 0 {
		return nil, nil, fmt.Errorf("config: no models configured (set rag_model and/or models)")
	}
	return clients, closeIndex, nil
}

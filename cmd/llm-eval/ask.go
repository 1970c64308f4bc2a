package main

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question with the RAG pipeline",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	pipeline, idx, err := newPipeline()
	if err != nil {
		return err
	}
	defer idx.Close()

	result := pipeline.Answer(context.Background(), question)

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	cmd.Printf("%s %s\n", boldGreen("Question:"), question)
	cmd.Printf("%s %s\n", boldCyan("Answer:"), result.Response)
	if result.RetrievalDuration >= 0 {
		cmd.Printf("retrieval: %.3fs  generation: %.3fs\n",
			result.RetrievalDuration, result.GenerationDuration)
	}
	return nil
}

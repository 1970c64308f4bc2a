package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/andrew/llm-eval/pkg/embedstore"
	"github.com/andrew/llm-eval/pkg/indexer"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Chunk, embed, and index the source documents",
	Long: `Reads every matching file from the configured source directory,
splits it into sentence chunks, embeds each chunk, and upserts the
vectors into the vector index collection. With index.use_precalculated
set, embeddings are loaded from the cache file instead of recomputed.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if cfg.Sources.Dir == "" {
		return fmt.Errorf("config: sources.dir is required for indexing")
	}

	ch, err := newChunker()
	if err != nil {
		return err
	}
	emb, err := newEmbedder()
	if err != nil {
		return err
	}
	store := embedstore.New(cfg.EmbeddingsFile, ch, emb, logger)

	idx, err := newVectorIndex()
	if err != nil {
		return err
	}
	defer idx.Close()

	builder := indexer.New(indexer.Config{
		SourceDir:          cfg.Sources.Dir,
		Extension:          cfg.Sources.Extension,
		UsePrecalculated:   cfg.Index.UsePrecalculated,
		RecreateCollection: cfg.Index.RecreateCollection,
	}, store, emb, idx, logger)

	metrics, err := builder.Build(context.Background())
	if err != nil {
		return err
	}

	metricsPath := filepath.Join(cfg.OutputDir, "index_metrics.json")
	if err := metrics.Save(metricsPath); err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	cmd.Printf("Indexed %s vectors from %s files into collection %s\n",
		bold(metrics.TotalVectors), bold(metrics.TotalFiles), bold(cfg.Vector.Collection))
	cmd.Printf("Metrics written to %s\n", metricsPath)
	return nil
}

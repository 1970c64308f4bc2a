// Command llm-eval indexes a document corpus into a vector store and
// evaluates configured LLM backends, including a RAG pipeline, against
// a fixed list of questions.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrew/llm-eval/pkg/config"
	"github.com/andrew/llm-eval/pkg/logging"
)

var (
	cfgPath string
	cfg     *config.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "llm-eval",
	Short:         "Evaluate and compare LLM backends against a fixed question set",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "path to the configuration file")
}

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}

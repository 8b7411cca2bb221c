package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pep299/article-quiz/internal/config"
	"github.com/pep299/article-quiz/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:          "article-quiz",
	Short:        "Summarize articles and quiz yourself on them",
	Long:         "article-quiz fetches a web article, summarizes it, and generates multiple-choice questions from the summary.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")

	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(newsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and a logger for a command run
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, zl, nil
}

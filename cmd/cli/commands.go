package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pep299/article-quiz/internal/analyzer"
	"github.com/pep299/article-quiz/internal/article"
	"github.com/pep299/article-quiz/internal/feeds"
	"github.com/pep299/article-quiz/internal/quiz"
	"github.com/pep299/article-quiz/internal/service"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <url>",
	Short: "Fetch an article and print its summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, zl, err := setup()
		if err != nil {
			return err
		}
		defer zl.Sync()

		sum, err := service.NewSummarizer(cmd.Context(), cfg, analyzer.NewProse())
		if err != nil {
			return err
		}
		svc := service.NewSummaryService(article.NewClient(), sum, nil, zl)

		result, err := svc.Summarize(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON(cmd) {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		printSummary(cmd.OutOrStdout(), result)
		return nil
	},
}

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Generate quiz questions from a summary",
	Long:  "Generate quiz questions from --summary, or from standard input when the flag is empty.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, zl, err := setup()
		if err != nil {
			return err
		}
		defer zl.Sync()

		summary, err := readSummary(cmd)
		if err != nil {
			return err
		}

		opts := []quiz.Option{quiz.WithQuota(cfg.QuizSize)}
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetUint64("seed")
			opts = append(opts, quiz.WithSource(quiz.NewSeededSource(seed)))
		}
		svc := service.NewQuizService(analyzer.NewProse(), zl, opts...)

		result, err := svc.GenerateQuiz(cmd.Context(), summary)
		if err != nil {
			return err
		}
		if asJSON(cmd) {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		printQuiz(cmd.OutOrStdout(), result)
		return nil
	},
}

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "List headlines from the configured feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, zl, err := setup()
		if err != nil {
			return err
		}
		defer zl.Sync()

		query, _ := cmd.Flags().GetString("query")
		svc := service.NewNewsService(feeds.NewClient(), cfg.RSSFeeds, cfg.NewsLimit, zl,
			service.WithExclusions(cfg.NewsExcludeKeywords, cfg.NewsExcludeCategories))

		headlines, err := svc.Headlines(cmd.Context(), query)
		if err != nil {
			return err
		}
		if asJSON(cmd) {
			return writeJSON(cmd.OutOrStdout(), headlines)
		}
		printHeadlines(cmd.OutOrStdout(), headlines)
		return nil
	},
}

func init() {
	quizCmd.Flags().String("summary", "", "Summary text to build the quiz from")
	quizCmd.Flags().Uint64("seed", 0, "Seed for reproducible distractor selection")

	newsCmd.Flags().StringP("query", "q", "", "Only show headlines containing this text")
}

func asJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func readSummary(cmd *cobra.Command) (string, error) {
	summary, _ := cmd.Flags().GetString("summary")
	if strings.TrimSpace(summary) != "" {
		return summary, nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading summary: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("no summary provided: pass --summary or pipe text on stdin")
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSummary(w io.Writer, result *service.SummaryResult) {
	fmt.Fprintln(w, result.Title)
	if len(result.Authors) > 0 {
		fmt.Fprintf(w, "By %s\n", strings.Join(result.Authors, ", "))
	}
	if result.PublishDate != nil {
		fmt.Fprintf(w, "Published %s\n", result.PublishDate.Format("2006-01-02"))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, result.Summary)
}

func printQuiz(w io.Writer, result *service.QuizResult) {
	fmt.Fprintf(w, "Quiz %s\n", result.QuizID)
	for i, q := range result.Questions {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, q.Prompt)
		for j, option := range q.Options {
			fmt.Fprintf(w, "   %c) %s\n", 'A'+j, option)
		}
		fmt.Fprintf(w, "   Answer: %s\n", q.CorrectAnswer)
	}
}

func printHeadlines(w io.Writer, headlines []feeds.Headline) {
	if len(headlines) == 0 {
		fmt.Fprintln(w, "No headlines found")
		return
	}
	for _, h := range headlines {
		fmt.Fprintf(w, "- %s (%s)\n  %s\n", h.Title, h.Source.Name, h.URL)
	}
}

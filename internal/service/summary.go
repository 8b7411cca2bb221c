package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pep299/article-quiz/internal/article"
	"github.com/pep299/article-quiz/internal/cache"
	"github.com/pep299/article-quiz/internal/config"
	"github.com/pep299/article-quiz/internal/gemini"
	"github.com/pep299/article-quiz/internal/summarizer"
)

// ErrEmptySummary is returned when an article yields no summary text
var ErrEmptySummary = errors.New("could not generate summary")

// Fetcher downloads articles
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*article.Article, error)
}

// SummaryResult is the summary of one article
type SummaryResult struct {
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Authors     []string   `json:"authors"`
	PublishDate *time.Time `json:"publish_date"`
	Cached      bool       `json:"-"`
}

// SummaryService fetches and summarizes articles, caching results by URL
type SummaryService struct {
	fetcher    Fetcher
	summarizer summarizer.Summarizer
	cache      *cache.Manager
	logger     *zap.Logger
}

// NewSummaryService creates a summary service. cacheManager may be nil.
func NewSummaryService(fetcher Fetcher, s summarizer.Summarizer, cacheManager *cache.Manager, logger *zap.Logger) *SummaryService {
	return &SummaryService{
		fetcher:    fetcher,
		summarizer: s,
		cache:      cacheManager,
		logger:     logger,
	}
}

// NewSummarizer picks the summarizer configured by cfg
func NewSummarizer(ctx context.Context, cfg *config.Config, tokenizer summarizer.Tokenizer) (summarizer.Summarizer, error) {
	if cfg.Summarizer == "gemini" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("creating gemini client: %w", err)
		}
		return client, nil
	}
	return summarizer.NewExtractive(tokenizer, cfg.SummarySentences), nil
}

// Summarize returns the summary of the article at rawURL
func (s *SummaryService) Summarize(ctx context.Context, rawURL string) (*SummaryResult, error) {
	u, err := article.ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	url := u.String()

	if s.cache != nil {
		entry, err := s.cache.GetSummary(ctx, url)
		if err == nil {
			s.logger.Debug("summary cache hit", zap.String("url", url))
			return &SummaryResult{
				Title:       entry.Title,
				Summary:     entry.Summary,
				Authors:     nonNil(entry.Authors),
				PublishDate: entry.PublishDate,
				Cached:      true,
			}, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("summary cache lookup failed", zap.String("url", url), zap.Error(err))
		}
	}

	a, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching article: %w", err)
	}

	text, err := s.summarizer.Summarize(ctx, a)
	if errors.Is(err, summarizer.ErrEmptyText) {
		return nil, ErrEmptySummary
	}
	if err != nil {
		return nil, fmt.Errorf("summarizing article: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptySummary
	}

	result := &SummaryResult{
		Title:       a.Title,
		Summary:     text,
		Authors:     nonNil(a.Authors),
		PublishDate: a.PublishDate,
	}

	if s.cache != nil {
		entry := &cache.CacheEntry{
			URL:         url,
			Title:       result.Title,
			Summary:     result.Summary,
			Authors:     result.Authors,
			PublishDate: result.PublishDate,
		}
		if err := s.cache.SetSummary(ctx, entry); err != nil {
			s.logger.Warn("caching summary failed", zap.String("url", url), zap.Error(err))
		}
	}

	s.logger.Info("article summarized",
		zap.String("url", url),
		zap.String("title", result.Title),
		zap.Int("summary_length", len(result.Summary)),
	)
	return result, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pep299/article-quiz/internal/feeds"
)

// ErrFeedsUnavailable is returned when every configured feed failed
var ErrFeedsUnavailable = errors.New("no news feeds available")

// HeadlineSource aggregates headlines from feeds
type HeadlineSource interface {
	Headlines(ctx context.Context, urls []string, options feeds.FilterOptions, limit int) ([]feeds.Headline, map[string]error)
}

// NewsService serves headlines from the configured feeds
type NewsService struct {
	source            HeadlineSource
	feeds             []string
	limit             int
	excludeKeywords   []string
	excludeCategories []string
	logger            *zap.Logger
}

// NewsOption configures a NewsService
type NewsOption func(*NewsService)

// WithExclusions drops headlines mentioning any of keywords or filed under any of categories
func WithExclusions(keywords, categories []string) NewsOption {
	return func(s *NewsService) {
		s.excludeKeywords = keywords
		s.excludeCategories = categories
	}
}

// NewNewsService creates a news service
func NewNewsService(source HeadlineSource, feedURLs []string, limit int, logger *zap.Logger, opts ...NewsOption) *NewsService {
	s := &NewsService{
		source: source,
		feeds:  feedURLs,
		limit:  limit,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Headlines returns recent headlines whose title or description matches query
func (s *NewsService) Headlines(ctx context.Context, query string) ([]feeds.Headline, error) {
	options := feeds.FilterOptions{
		Query:             query,
		ExcludeCategories: s.excludeCategories,
		MinTitleLength:    10,
		MaxAge:            7 * 24 * time.Hour,
		ExcludeKeywords:   s.excludeKeywords,
	}

	headlines, errs := s.source.Headlines(ctx, s.feeds, options, s.limit)
	for url, err := range errs {
		s.logger.Warn("feed fetch failed", zap.String("feed", url), zap.Error(err))
	}
	if len(s.feeds) > 0 && len(errs) == len(s.feeds) {
		return nil, ErrFeedsUnavailable
	}

	if headlines == nil {
		headlines = []feeds.Headline{}
	}
	return headlines, nil
}

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pep299/article-quiz/internal/analyzer"
	"github.com/pep299/article-quiz/internal/article"
	"github.com/pep299/article-quiz/internal/cache"
	"github.com/pep299/article-quiz/internal/config"
	"github.com/pep299/article-quiz/internal/feeds"
	"github.com/pep299/article-quiz/internal/quiz"
	"github.com/pep299/article-quiz/internal/service"
)

const version = "v1.0.0"

// QuizGenerator builds a quiz from a summary
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, summary string) (*service.QuizResult, error)
}

// ArticleSummarizer summarizes the article at a URL
type ArticleSummarizer interface {
	Summarize(ctx context.Context, url string) (*service.SummaryResult, error)
}

// NewsLister lists headlines matching a query
type NewsLister interface {
	Headlines(ctx context.Context, query string) ([]feeds.Headline, error)
}

// CacheAdmin exposes cache maintenance
type CacheAdmin interface {
	GetStats(ctx context.Context) (*cache.Stats, error)
	Clear(ctx context.Context) error
	Purge(ctx context.Context) (int, error)
	Close() error
}

// Services groups the use-cases served over HTTP
type Services struct {
	Quiz      QuizGenerator
	Summaries ArticleSummarizer
	News      NewsLister
	Cache     CacheAdmin
}

// Server holds the HTTP server and its dependencies
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	services Services
}

// NewServer wires the production dependencies described by cfg
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	cacheManager, err := cache.NewManager(ctx, cache.Options{
		Type:     cfg.CacheType,
		Bucket:   cfg.CacheBucket,
		Duration: time.Duration(cfg.CacheDuration) * time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("creating cache manager: %w", err)
	}

	nlp := analyzer.NewProse()

	sum, err := service.NewSummarizer(ctx, cfg, nlp)
	if err != nil {
		cacheManager.Close()
		return nil, err
	}

	return NewServerWith(cfg, logger, Services{
		Quiz:      service.NewQuizService(nlp, logger, quiz.WithQuota(cfg.QuizSize)),
		Summaries: service.NewSummaryService(article.NewClient(), sum, cacheManager, logger),
		News:      service.NewNewsService(feeds.NewClient(), cfg.RSSFeeds, cfg.NewsLimit, logger,
			service.WithExclusions(cfg.NewsExcludeKeywords, cfg.NewsExcludeCategories)),
		Cache:     cacheManager,
	}), nil
}

// NewServerWith creates a server over already constructed services
func NewServerWith(cfg *config.Config, logger *zap.Logger, services Services) *Server {
	return &Server{
		config:   cfg,
		logger:   logger,
		services: services,
	}
}

// SetupRoutes configures HTTP routes
func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.corsMiddleware)
	r.Use(s.loggingMiddleware)

	// Quiz and summary endpoints used by the frontend
	r.HandleFunc("/generate-quiz", s.generateQuizHandler).Methods("POST", "OPTIONS")
	r.HandleFunc("/summarize", s.summarizeHandler).Methods("POST", "OPTIONS")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.healthHandler).Methods("GET", "OPTIONS")
	api.HandleFunc("/news", s.newsHandler).Methods("GET", "OPTIONS")
	api.HandleFunc("/cache/stats", s.cacheStatsHandler).Methods("GET", "OPTIONS")
	api.HandleFunc("/cache/clear", s.cacheClearHandler).Methods("DELETE", "OPTIONS")

	// Static frontend
	r.HandleFunc("/", s.indexHandler).Methods("GET", "OPTIONS")
	r.HandleFunc("/{file}", s.staticHandler).Methods("GET", "OPTIONS")

	return r
}

// PurgeCache removes expired cache entries
func (s *Server) PurgeCache(ctx context.Context) error {
	removed, err := s.services.Cache.Purge(ctx)
	if err != nil {
		return fmt.Errorf("purging cache: %w", err)
	}
	s.logger.Info("cache purged", zap.Int("removed", removed))
	return nil
}

// Close releases server resources
func (s *Server) Close() error {
	return s.services.Cache.Close()
}

// Middleware functions

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap the ResponseWriter to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapped.statusCode),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

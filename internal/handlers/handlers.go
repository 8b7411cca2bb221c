package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pep299/article-quiz/internal/article"
	"github.com/pep299/article-quiz/internal/quiz"
	"github.com/pep299/article-quiz/internal/response"
	"github.com/pep299/article-quiz/internal/service"
)

const indexFile = "summarizer.html"

// generateQuizHandler builds a quiz from a posted summary
func (s *Server) generateQuizHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Summary string `json:"summary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Summary) == "" {
		response.WriteBadRequest(w, "No summary provided")
		return
	}

	result, err := s.services.Quiz.GenerateQuiz(r.Context(), req.Summary)
	if err != nil {
		if errors.Is(err, quiz.ErrInvalidInput) {
			response.WriteBadRequest(w, err.Error())
			return
		}
		s.logger.Error("quiz generation failed", zap.Error(err))
		response.WriteInternalError(w, "Error generating quiz: "+err.Error())
		return
	}

	response.WriteOK(w, result)
}

// summarizeHandler downloads and summarizes a posted URL
func (s *Server) summarizeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		response.WriteBadRequest(w, "No URL provided")
		return
	}

	result, err := s.services.Summaries.Summarize(r.Context(), req.URL)
	switch {
	case errors.Is(err, article.ErrInvalidURL):
		response.WriteBadRequest(w, "Invalid URL")
		return
	case errors.Is(err, service.ErrEmptySummary):
		response.WriteInternalError(w, "Could not generate summary")
		return
	case err != nil:
		s.logger.Error("summarization failed", zap.String("url", req.URL), zap.Error(err))
		response.WriteInternalError(w, "Error processing article: "+err.Error())
		return
	}

	response.WriteOK(w, result)
}

// healthHandler provides health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response.WriteOK(w, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"version":   version,
	})
}

// newsHandler lists headlines matching the q parameter
func (s *Server) newsHandler(w http.ResponseWriter, r *http.Request) {
	headlines, err := s.services.News.Headlines(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, service.ErrFeedsUnavailable) {
			response.WriteError(w, http.StatusBadGateway, "News feeds are unavailable")
			return
		}
		response.WriteInternalError(w, "Error fetching news: "+err.Error())
		return
	}

	response.WriteOK(w, map[string]interface{}{
		"articles": headlines,
		"count":    len(headlines),
	})
}

// cacheStatsHandler returns cache statistics
func (s *Server) cacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.services.Cache.GetStats(r.Context())
	if err != nil {
		response.WriteInternalError(w, "Error getting cache stats: "+err.Error())
		return
	}

	response.WriteOK(w, stats)
}

// cacheClearHandler clears the cache
func (s *Server) cacheClearHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Cache.Clear(r.Context()); err != nil {
		response.WriteInternalError(w, "Error clearing cache: "+err.Error())
		return
	}

	response.WriteOK(w, map[string]string{
		"status":  "success",
		"message": "Cache cleared successfully",
	})
}

// indexHandler serves the frontend entry page
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	s.serveStatic(w, r, indexFile)
}

// staticHandler serves a single file from the static directory
func (s *Server) staticHandler(w http.ResponseWriter, r *http.Request) {
	s.serveStatic(w, r, mux.Vars(r)["file"])
}

func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request, name string) {
	path := filepath.Join(s.config.StaticDir, filepath.Base(filepath.Clean("/"+name)))

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		response.WriteNotFound(w, "File not found")
		return
	}

	http.ServeFile(w, r, path)
}

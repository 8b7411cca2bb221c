package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/pep299/article-quiz/internal/config"
	"github.com/pep299/article-quiz/internal/handlers"
	"github.com/pep299/article-quiz/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create server
	server, err := handlers.NewServer(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("Failed to create server", zap.Error(err))
	}
	defer server.Close()

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      server.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Expired summaries are purged on a schedule
	c := cron.New()
	if _, err := c.AddFunc(cfg.CachePurgeSchedule, func() {
		if err := server.PurgeCache(ctx); err != nil {
			zl.Error("Scheduled cache purge failed", zap.Error(err))
		}
	}); err != nil {
		zl.Fatal("Invalid cache purge schedule", zap.String("schedule", cfg.CachePurgeSchedule), zap.Error(err))
	}
	c.Start()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server
	go func() {
		zl.Info("Starting server",
			zap.String("addr", httpServer.Addr),
			zap.String("summarizer", cfg.Summarizer),
			zap.String("cache", cfg.CacheType),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	zl.Info("Shutting down server...")

	// Cancel background tasks
	cancel()
	<-c.Stop().Done()

	// Shutdown HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("Server shutdown error", zap.Error(err))
	}

	zl.Info("Server stopped")
}

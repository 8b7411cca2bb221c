// Package articlequiz is the Cloud Functions entrypoint of the article quiz service.
package articlequiz

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/pep299/article-quiz/internal/config"
	"github.com/pep299/article-quiz/internal/handlers"
	"github.com/pep299/article-quiz/internal/logger"
	"github.com/pep299/article-quiz/internal/response"
)

func init() {
	functions.HTTP("ArticleQuiz", ArticleQuiz)
}

var (
	initOnce sync.Once
	router   http.Handler
	initErr  error
)

// ArticleQuiz serves every route of the HTTP server from a single function
func ArticleQuiz(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(func() {
		router, initErr = newRouter(context.Background())
	})

	if initErr != nil {
		var lw io.Writer = funcframework.LogWriter(r.Context())
		fmt.Fprintf(lw, "initialization failed: %v\n", initErr)
		response.WriteInternalError(w, "Internal server error")
		return
	}

	router.ServeHTTP(w, r)
}

func newRouter(ctx context.Context) (http.Handler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	server, err := handlers.NewServer(ctx, cfg, zl)
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}
	return server.SetupRoutes(), nil
}

// Package server exposes the review store over HTTP using gin.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pennyflow/pennyflow/internal/importer"
)

// Server wraps the local review service behind a REST API.
type Server struct {
	svc *importer.Service
}

// New creates a server over the given review service.
func New(svc *importer.Service) *Server {
	return &Server{svc: svc}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.POST("/workspaces", s.createWorkspace)
	api.GET("/workspaces", s.listWorkspaces)
	api.GET("/workspaces/:id", s.getWorkspace)

	ws := api.Group("/workspaces/:id")
	ws.GET("/review", s.getPendingReview)
	ws.GET("/review/summary", s.getReviewSummary)
	ws.GET("/transactions", s.listTransactions)

	// Mutations need edit rights on the workspace
	edit := ws.Group("", s.requireEditRole)
	edit.POST("/import", s.uploadStatement)
	edit.PUT("/review/selection", s.setSelection)
	edit.POST("/review/select-all", s.selectAll)
	edit.POST("/review/deselect-all", s.deselectAll)
	edit.POST("/review/complete", s.completeReview)
	edit.DELETE("/review", s.deleteAllPending)

	return r
}

// Run serves the API until the context is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs each request through slog instead of gin's default writer.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("Handled request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// Package server provides the HTTP REST API: record CRUD, enrichment
// triggers and polling, publishing, export, the public landing page, the
// image proxy, and logo uploads.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/talentpage/internal/enrich"
	"github.com/jonathan/talentpage/internal/store"
)

// Config holds server configuration.
type Config struct {
	Port      int
	BaseURL   string
	UploadDir string
}

// Server is the HTTP server and orchestrator.
type Server struct {
	httpServer *http.Server
	store      store.Store
	enrich     *enrich.Manager
	validate   *validator.Validate
	logger     *zap.Logger
	baseURL    string
	uploadDir  string
}

// New creates a server over the given store and enrichment manager.
func New(cfg Config, st store.Store, mgr *enrich.Manager, logger *zap.Logger) *Server {
	s := &Server{
		store:     st,
		enrich:    mgr,
		validate:  validator.New(),
		logger:    logger,
		baseURL:   cfg.BaseURL,
		uploadDir: cfg.UploadDir,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/tlp", s.handleCreate)
	mux.HandleFunc("GET /api/tlp/{id}/data", s.handleGetData)
	mux.HandleFunc("PUT /api/tlp/{id}", s.handleUpdate)

	mux.HandleFunc("POST /api/tlp/{id}/scrape-brand", s.handleScrapeBrand)
	mux.HandleFunc("POST /api/tlp/{id}/market-research", s.handleMarketResearch)
	mux.HandleFunc("GET /api/tlp/{id}/scraping-status", s.handleScrapingStatus)
	mux.HandleFunc("GET /api/tlp/{id}/market-data", s.handleMarketData)

	mux.HandleFunc("POST /api/tlp/{id}/publish", s.handlePublish)
	mux.HandleFunc("POST /api/tlp/{id}/export", s.handleExport)

	mux.HandleFunc("GET /tlp/{id}", s.handlePublicPage)

	mux.HandleFunc("GET /api/image-proxy", s.handleImageProxy)
	mux.HandleFunc("POST /api/upload/logo", s.handleUploadLogo)
	mux.HandleFunc("GET /api/uploads/{filename}", s.handleServeUpload)

	mux.HandleFunc("GET /api/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start listens for requests until SIGINT/SIGTERM, then shuts down
// gracefully, waiting for in-flight enrichment tasks.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.enrich.Wait()
	s.store.Close()
	s.logger.Info("server stopped")
	return nil
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

// jsonResponse writes a JSON response with the given status.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

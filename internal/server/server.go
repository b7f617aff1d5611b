// Package server exposes the analysis pipeline over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/lukinkon/lukin/internal/analyzer"
	"github.com/lukinkon/lukin/internal/store"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:8080"

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 30 * time.Second
)

// Config defines server settings.
type Config struct {
	Addr        string
	SaveHistory bool
}

// Server serves the analysis API.
type Server struct {
	config     Config
	analyzer   *analyzer.Analyzer
	store      *store.Store
	logger     *log.Logger
	router     *mux.Router
	httpServer *http.Server
}

// New creates a server. The store may be nil, which disables history
// endpoints and saving.
func New(cfg Config, a *analyzer.Analyzer, st *store.Store, logger *log.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if logger == nil {
		logger = log.New(os.Stderr, "lukin ", log.LstdFlags)
	}
	s := &Server{
		config:   cfg,
		analyzer: a,
		store:    st,
		logger:   logger,
	}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()
	s.router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/profiles", s.profiles).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.stats).Methods(http.MethodPost)
	api.HandleFunc("/detect", s.detect).Methods(http.MethodPost)
	api.HandleFunc("/caesar", s.caesar).Methods(http.MethodPost)
	api.HandleFunc("/substitution", s.substitution).Methods(http.MethodPost)
	api.HandleFunc("/analyze", s.analyze).Methods(http.MethodPost)
	if s.store != nil {
		api.HandleFunc("/history", s.history).Methods(http.MethodGet)
		api.HandleFunc("/history/{id:[0-9]+}", s.historyEntry).Methods(http.MethodGet)
	}

	logged := requestLogging(s.logger)
	// mux skips middleware for unmatched requests.
	s.router.NotFoundHandler = logged(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	}))
	s.router.MethodNotAllowedHandler = logged(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}))
	s.router.Use(logged)
}

// Start serves until ctx is canceled or SIGINT/SIGTERM arrives, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on http://%s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	s.logger.Printf("server stopped")
	return nil
}

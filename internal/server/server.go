// Package server provides the HTTP API for Kotae.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/indexer"
	"github.com/hyperjump/kotae/internal/rag"
	"github.com/hyperjump/kotae/internal/storage"
)

// WatchService is the subset of the directory watcher the API exposes.
type WatchService interface {
	Directories() []string
	AddDirectory(path string, syncExisting bool) error
	RemoveDirectory(path string) error
}

// Server is the HTTP server for the Kotae API.
type Server struct {
	engine  *rag.Engine
	synth   *rag.Synthesizer
	indexer *indexer.Indexer
	storage storage.Storage
	watch   WatchService
	cfg     *config.Config
	logger  *zap.Logger

	configPath string
	configMu   sync.Mutex
	server     *http.Server
}

// NewServer creates a server with the given dependencies. watch may be nil
// when directory watching is disabled; configPath may be empty when watch
// directory changes need not persist.
func NewServer(
	engine *rag.Engine,
	synth *rag.Synthesizer,
	idx *indexer.Indexer,
	store storage.Storage,
	watch WatchService,
	cfg *config.Config,
	configPath string,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:     engine,
		synth:      synth,
		indexer:    idx,
		storage:    store,
		watch:      watch,
		cfg:        cfg,
		configPath: configPath,
		logger:     logger,
	}
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/ask", s.handleAsk)
	r.Post("/api/v1/documents", s.handleIndexDocument)
	r.Get("/api/v1/documents", s.handleListDocuments)
	r.Get("/api/v1/documents/{id}", s.handleGetDocument)
	r.Delete("/api/v1/documents/{id}", s.handleDeleteDocument)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/api/v1/watch/directories", s.handleWatchDirectoriesList)
	r.Post("/api/v1/watch/directories", s.handleWatchDirectoriesAdd)
	r.Delete("/api/v1/watch/directories", s.handleWatchDirectoriesRemove)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

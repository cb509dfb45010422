// Package server exposes stored tree documents over HTTP.
//
// Every mutation loads the document, applies one editor operation, lays the
// tree out again and stores it, so stored trees always carry current
// positions. Layouts and rendered artifacts go through a pipeline runner and
// are cached per document.
//
// Routes:
//
//	GET    /healthz
//	GET    /documents
//	POST   /documents
//	GET    /documents/{id}
//	DELETE /documents/{id}
//	GET    /documents/{id}/tree              ?format=json|yaml
//	PUT    /documents/{id}/tree              import, ids regenerated
//	POST   /documents/{id}/nodes/{nodeID}/children
//	PATCH  /documents/{id}/nodes/{nodeID}    text and/or highlight
//	DELETE /documents/{id}/nodes/{nodeID}
//	GET    /documents/{id}/layout
//	GET    /documents/{id}/render.{format}   svg, png, jpeg, json, dot
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/pipeline"
	"github.com/matzehuels/arbor/pkg/store"
)

// maxBodyBytes bounds request bodies, imports included.
const maxBodyBytes = 4 << 20

// Server serves the document API.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	cfg    config.Config
	logger *log.Logger

	// mu serializes load-modify-store cycles so concurrent edits of one
	// document are not lost.
	mu sync.Mutex
}

// New creates a server. A nil runner disables caching; a nil logger uses
// log.Default().
func New(st store.Store, runner *pipeline.Runner, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{
		store:  st,
		runner: runner,
		cfg:    cfg,
		logger: logger,
	}
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)

			r.Get("/tree", s.handleExport)
			r.Put("/tree", s.handleImport)

			r.Post("/nodes/{nodeID}/children", s.handleAddChild)
			r.Patch("/nodes/{nodeID}", s.handlePatchNode)
			r.Delete("/nodes/{nodeID}", s.handleDeleteNode)

			r.Get("/layout", s.handleLayout)
			r.Get("/render.{format}", s.handleRender)
		})
	})
	return r
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ABOUTME: HTTP surface for the analysis pipeline behind a chi router: run lifecycle
// ABOUTME: endpoints, artifact downloads, Markdown previews, and SSE event streaming.
package server

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/2389-research/qaforge/runner"
	"github.com/2389-research/qaforge/store"
	"github.com/2389-research/qaforge/stream"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wires the runner, event broker, and run index behind an HTTP API.
type Server struct {
	runner *runner.Runner
	broker *stream.Broker
	index  *store.Index
	router chi.Router
	bind   string
}

// NewServer builds a fully wired server from the configuration: SQLite run
// index under the data dir, event broker, and runner publishing into it.
func NewServer(cfg *Config) (*Server, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("DataDir must not be empty")
	}

	index, err := store.OpenIndex(filepath.Join(cfg.DataDir, "qaforge.db"))
	if err != nil {
		return nil, fmt.Errorf("opening run index: %w", err)
	}

	broker := stream.NewBroker(stream.Options{HeartbeatInterval: cfg.Heartbeat})
	run := runner.New(runner.Config{
		DataDir:   cfg.DataDir,
		Publisher: broker,
		Index:     index,
	})

	s := &Server{
		runner: run,
		broker: broker,
		index:  index,
		bind:   cfg.Bind,
	}
	s.router = s.buildRouter()
	return s, nil
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Addr returns the configured bind address.
func (s *Server) Addr() string {
	return s.bind
}

// Close releases the server's resources.
func (s *Server) Close() error {
	return s.index.Close()
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/runs", func(r chi.Router) {
		r.Post("/", s.handleStartRun)
		r.Get("/", s.handleListRuns)

		r.Route("/{runID}", func(r chi.Router) {
			r.Get("/", s.handleGetRun)
			r.Post("/cancel", s.handleCancelRun)
			r.Get("/events", s.handleRunEvents)
			r.Get("/artifacts/{name}", s.handleArtifact)
			r.Get("/preview/{name}", s.handlePreview)
		})
	})

	return r
}

// Package server exposes the sprite pipeline over HTTP.
//
// # Routes
//
//	GET  /healthz               build info
//	POST /v1/pack               JSON sizes in, layout JSON out
//	POST /v1/sprites            multipart images in, stored sheet id out
//	GET  /v1/sprites/{id}.png   stored sheet image
//	GET  /v1/sprites/{id}.css   stored stylesheet
//	GET  /v1/sprites/{id}.json  stored layout
//
// Uploaded sheets live in the runner's cache for [cache.TTLUpload]; point the
// runner at a Redis cache to share them across replicas.
//
// Errors are JSON objects {"code": ..., "error": ...} with the status chosen
// from the error code (see [statusFor]).
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/spritepack/pkg/buildinfo"
	"github.com/matzehuels/spritepack/pkg/pipeline"
	"github.com/matzehuels/spritepack/pkg/sprite"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8080"

	// DefaultMaxUploadBytes caps request bodies.
	DefaultMaxUploadBytes = 32 << 20

	shutdownTimeout = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr           string
	Runner         *pipeline.Runner
	Logger         *log.Logger
	MaxUploadBytes int64
	// MaxModules caps images per request; 0 uses the pipeline default.
	MaxModules int
	// MaxPixels caps the decoded pixels of one upload request; 0 uses
	// sprite.MaxSheetPixels.
	MaxPixels int
}

// Server is the HTTP front end of a pipeline runner.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New builds a server. A nil runner gets an uncached one.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = sprite.MaxSheetPixels
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	s := &Server{
		cfg:    cfg,
		runner: cfg.Runner,
		logger: cfg.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(serverHeader)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/pack", s.handlePack)
		r.Post("/sprites", s.handleCreateSprite)
		r.Get("/sprites/{file}", s.handleGetSprite)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound(r.URL.Path))
	})
	return r
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "version", buildinfo.Get().Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) options() pipeline.Options {
	return pipeline.Options{MaxModules: s.cfg.MaxModules}
}

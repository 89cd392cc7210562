// Package server is the browser front-end for stipple.
//
// Each visitor gets a session cookie holding the ID of their current point
// set. The page shows the inputs, the derived total, "Points Drawn: N" and an
// SVG preview; regenerating replaces the set, and exporting downloads it as
// canvasData.dxf. A JSON API mirrors the page for scripted use.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stipple/pkg/dxf"
	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/session"
)

// CookieName is the session cookie.
const CookieName = "stipple_session"

// DefaultAddr is the default listen address.
const DefaultAddr = ":8080"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Config configures a Server.
type Config struct {
	// Addr is the listen address. Defaults to DefaultAddr.
	Addr string

	// Store holds sessions. Defaults to a MemoryStore.
	Store session.Store

	// Runner generates and renders. Defaults to an uncached runner.
	Runner *pipeline.Runner

	// Logger defaults to log.Default().
	Logger *log.Logger

	// SessionTTL defaults to session.DefaultTTL.
	SessionTTL time.Duration

	// Defaults seeds a visitor's first point set. Nil means
	// pipeline.DefaultOptions().
	Defaults *pipeline.Options
}

// Server serves the page and the JSON API.
type Server struct {
	addr     string
	store    session.Store
	runner   *pipeline.Runner
	logger   *log.Logger
	ttl      time.Duration
	defaults pipeline.Options
	router   chi.Router
}

// New creates a server from cfg, filling in defaults.
func New(cfg Config) *Server {
	s := &Server{
		addr:   cfg.Addr,
		store:  cfg.Store,
		runner: cfg.Runner,
		logger: cfg.Logger,
		ttl:    cfg.SessionTTL,
	}
	if s.addr == "" {
		s.addr = DefaultAddr
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.store == nil {
		s.store = session.NewMemoryStore()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.ttl <= 0 {
		s.ttl = session.DefaultTTL
	}
	if cfg.Defaults != nil {
		s.defaults = *cfg.Defaults
	} else {
		s.defaults = pipeline.DefaultOptions()
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/regenerate", s.handleRegenerateForm)
	r.Get("/"+dxf.Filename, s.handleExport)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/regenerate", s.handleRegenerateAPI)
		r.Get("/points", s.handlePoints)
		r.Get("/export", s.handleExport)
		r.Get("/preview.{format}", s.handlePreview)
	})
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	cleanup := time.NewTicker(time.Hour)
	defer cleanup.Stop()

	for {
		select {
		case err := <-errc:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-cleanup.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup", "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Warn("shutdown", "error", err)
				return srv.Close()
			}
			return nil
		}
	}
}

// Package server exposes the diagram codec and renderers over HTTP for an
// editor front-end.
//
// # Endpoints
//
//	GET  /healthz          liveness and version
//	POST /v1/parse         text → JSON diagram
//	POST /v1/serialize     JSON diagram → canonical text
//	POST /v1/format        text → canonical text
//	POST /v1/render        text → artifact (?format=svg|png|pdf|json|dot&view=scene|topology)
//
// Parse failures answer 422 with the offending line. Every response carries
// an X-Request-ID header.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/feyndraw/pkg/pipeline"
)

// Defaults for [New].
const (
	DefaultMaxBodyBytes = 1 << 20
	DefaultTimeout      = 30 * time.Second
)

// Server routes API requests to a pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	maxBody  int64
	timeout  time.Duration
	defaults pipeline.Options
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithMaxBodyBytes caps request bodies; larger bodies get 413.
func WithMaxBodyBytes(n int64) Option { return func(s *Server) { s.maxBody = n } }

// WithTimeout bounds the handling time of each request.
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// WithRenderDefaults sets render options used when a request leaves them unset.
func WithRenderDefaults(o pipeline.Options) Option { return func(s *Server) { s.defaults = o } }

// New builds a server around runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		logger:  log.Default(),
		maxBody: DefaultMaxBodyBytes,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/parse", s.handleParse)
		r.Post("/serialize", s.handleSerialize)
		r.Post("/format", s.handleFormat)
		r.Post("/render", s.handleRender)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Package service exposes the layout pipeline over HTTP.
//
// Endpoints:
//
//	POST   /v1/layout        run the pipeline on a posted graph document
//	GET    /v1/layouts       list stored layouts
//	GET    /v1/layouts/{id}  fetch one stored layout
//	DELETE /v1/layouts/{id}  delete a stored layout
//	GET    /healthz          liveness probe
package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/graphdraw/graphdraw/pkg/observability"
	"github.com/graphdraw/graphdraw/pkg/pipeline"
	"github.com/graphdraw/graphdraw/pkg/store"
)

// Config configures the layout service.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// ShutdownTimeout bounds graceful shutdown. Defaults to 10s.
	ShutdownTimeout time.Duration
}

// Service wires the pipeline runner and layout store into an HTTP server.
type Service struct {
	cfg    Config
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a service. A nil store disables the persistence endpoints'
// backing storage and is replaced by an in-memory store.
func New(cfg Config, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Service {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{cfg: cfg, runner: runner, store: st, logger: logger}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.hooksMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Get("/layouts", s.handleListLayouts)
		r.Get("/layouts/{id}", s.handleGetLayout)
		r.Delete("/layouts/{id}", s.handleDeleteLayout)
	})
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("layout service listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down layout service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// hooksMiddleware reports request and response events to the registered
// HTTP hooks.
func (s *Service) hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

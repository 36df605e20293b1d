// Package ui exposes the formviz operations to the host platform over HTTP.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/dataviz-labs/formviz/internal/access"
	"github.com/dataviz-labs/formviz/internal/hooks"
	"github.com/dataviz-labs/formviz/internal/lang"
	"github.com/dataviz-labs/formviz/internal/script"
	"github.com/dataviz-labs/formviz/internal/session"
	"github.com/dataviz-labs/formviz/internal/viscache"
	"github.com/dataviz-labs/formviz/pkg/core"
)

// Server is the formviz HTTP server.
type Server struct {
	store    core.Store
	sessions *session.Provider
	catalog  *lang.Catalog
	port     int
	watch    bool
	logger   *slog.Logger
}

// Config holds configuration for the server.
type Config struct {
	Store         core.Store
	Catalog       *lang.Catalog
	Port          int
	SessionSecret string
	WatchLang     bool
	Logger        *slog.Logger
}

// NewServer creates a new Server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		store:    cfg.Store,
		sessions: session.New(cfg.SessionSecret),
		catalog:  cfg.Catalog,
		port:     cfg.Port,
		watch:    cfg.WatchLang,
		logger:   logger,
	}
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting formviz server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.setupRoutes(r)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.catalog.Watch(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down formviz server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// setupRoutes wires the handlers onto the router.
func (s *Server) setupRoutes(r chi.Router) {
	h := newHandlers(
		access.NewResolver(s.store),
		script.NewIndexBuilder(s.store),
		hooks.New(s.store, s.logger),
		viscache.NewWriter(s.store, s.logger),
		s.sessions,
		s.catalog,
		s.logger,
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/forms/{formID}/views/{viewID}/visualizations", h.AccessibleVisualizations)
		r.Post("/hooks/form-deleted", h.FormDeleted)
		r.Put("/visualizations/{visID}/cache", h.UpdateCache)

		r.Post("/session", h.Login)
		r.Delete("/session", h.Logout)
	})

	r.Get("/page/init.js", h.PageInitScript)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the chi router.
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/beetlekeeper/internal/admin"
	"github.com/taibuivan/beetlekeeper/internal/collection"
	"github.com/taibuivan/beetlekeeper/internal/forum"
	"github.com/taibuivan/beetlekeeper/internal/messaging"
	"github.com/taibuivan/beetlekeeper/internal/platform/config"
	"github.com/taibuivan/beetlekeeper/internal/platform/constants"
	"github.com/taibuivan/beetlekeeper/internal/platform/metrics"
	"github.com/taibuivan/beetlekeeper/internal/platform/middleware"
	"github.com/taibuivan/beetlekeeper/internal/taxonomy"
	"github.com/taibuivan/beetlekeeper/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. Always 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. 200 only when every dependency answers.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus registry. Nil disables /metrics.
	Metrics http.Handler

	// Media serves locally stored images under MediaPrefix. Nil when images live in object storage.
	Media       http.Handler
	MediaPrefix string

	Auth       *auth.Handler
	Collection *collection.Handler
	Taxonomy   *taxonomy.Handler
	Forum      *forum.Handler
	Messaging  *messaging.Handler
	Admin      *admin.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, recorder *metrics.Metrics, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(recorder.Middleware())
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}
	if h.Media != nil && strings.HasPrefix(h.MediaPrefix, "/") {
		prefix := strings.TrimSuffix(h.MediaPrefix, "/")
		r.Method(http.MethodGet, prefix+"/*", http.StripPrefix(prefix, h.Media))
	}

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/taxonomy", h.Taxonomy.Routes())
		api.Mount("/forum", h.Forum.Routes())
		api.Mount("/admin", h.Admin.Routes())

		api.Group(func(member chi.Router) {
			member.Use(middleware.RequireAuth)
			member.Mount("/collection", h.Collection.Routes())
			member.Mount("/messages", h.Messaging.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}

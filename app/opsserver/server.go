// Package opsserver exposes the operational HTTP surface: health and
// readiness probes, prometheus metrics, and a JWT-protected admin API for
// sweeps, link imports, guild configuration, and ledger reads.
package opsserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	guildconfigservice "github.com/open-ladder/ranksync/app/modules/guildconfig/application"
	handlelinkservice "github.com/open-ladder/ranksync/app/modules/handlelink/application"
	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
	ranksyncqueue "github.com/open-ladder/ranksync/app/modules/ranksync/infrastructure/queue"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds the server's own settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
}

// pinger is the slice of the database handle readiness needs.
type pinger interface {
	PingContext(ctx context.Context) error
}

// Server is the ops/admin HTTP server.
type Server struct {
	cfg     Config
	logger  *slog.Logger
	tokens  TokenProvider
	db      pinger
	queue   ranksyncqueue.QueueService
	sync    ranksyncservice.Service
	configs guildconfigservice.Service
	links   handlelinkservice.Service

	httpServer *http.Server
}

// New builds the server and its route tree.
func New(
	cfg Config,
	logger *slog.Logger,
	registry *prometheus.Registry,
	tokens TokenProvider,
	db pinger,
	queue ranksyncqueue.QueueService,
	syncSvc ranksyncservice.Service,
	configs guildconfigservice.Service,
	links handlelinkservice.Service,
) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		tokens:  tokens,
		db:      db,
		queue:   queue,
		sync:    syncSvc,
		configs: configs,
		links:   links,
	}

	router := chi.NewRouter()
	router.Get("/healthz", s.handleHealthz)
	router.Get("/readyz", s.handleReadyz)
	if registry != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	limiter := NewIPRateLimiter(5, 10)
	router.Route("/api", func(r chi.Router) {
		r.Use(CORSMiddleware(cfg.AllowedOrigins))
		r.Use(RateLimitMiddleware(limiter))
		r.Use(AuthMiddleware(s.tokens))

		r.Post("/sweeps", s.handleSweepRequest)
		r.Route("/guilds/{guildID}", func(r chi.Router) {
			r.Get("/sweeps", s.handleListSweeps)
			r.Post("/seed", s.handleSeedRequest)
			r.Post("/links/import", s.handleLinkImport)
			r.Get("/config", s.handleGetConfig)
			r.Put("/config", s.handlePutConfig)
			r.Get("/members/{memberID}/achievement", s.handleGetAchievement)
		})
	})

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Ops server listening", slog.String("addr", s.cfg.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the route tree for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

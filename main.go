package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/open-ladder/ranksync/app/modules/guildconfig"
	"github.com/open-ladder/ranksync/app/modules/handlelink"
	"github.com/open-ladder/ranksync/app/modules/ranksync"
	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
	"github.com/open-ladder/ranksync/app/opsserver"
	"github.com/open-ladder/ranksync/config"
	"github.com/open-ladder/ranksync/internal/eventbus"
	"github.com/open-ladder/ranksync/internal/observability"
	"github.com/open-ladder/ranksync/internal/ratingservice"
	"github.com/open-ladder/ranksync/internal/roledirectory"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const serviceName = "ranksync"

// version is set at build time via -ldflags.
var version = "dev"

// streams the engine owns or consumes. Each one is provisioned at startup
// so subscribers never race stream creation.
var streamNames = []string{
	"guildconfig",
	"handlelink",
	"rating",
	"ranksync",
	"notification",
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("ranksync exited with error: %v", err)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceName:  serviceName,
		Environment:  cfg.Observability.Environment,
		Version:      version,
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
		LogLevel:     cfg.Observability.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := obs.Logger
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := obs.Close(shutdownCtx); err != nil {
			logger.Error("Failed to shut down observability", slog.String("error", err.Error()))
		}
	}()

	db, err := openDatabase(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	bus, err := eventbus.NewEventBus(ctx, eventbus.Config{
		URL:      cfg.NATS.URL,
		NKeySeed: cfg.NATS.NKeySeed,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	defer bus.Close()

	for _, stream := range streamNames {
		if err := bus.CreateStream(ctx, stream); err != nil {
			return fmt.Errorf("failed to create stream %q: %w", stream, err)
		}
	}

	wmLogger := watermill.NewSlogLogger(logger)
	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return fmt.Errorf("failed to create watermill router: %w", err)
	}
	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	serviceMetrics := observability.NewServiceMetrics(obs.Registry, serviceName)
	handlerMetrics := observability.NewHandlerMetrics(obs.Registry, serviceName)

	ratings := buildRatingSource(cfg, logger)
	roles := roledirectory.New(roledirectory.Config{
		BaseURL:            cfg.RoleDirectory.BaseURL,
		Token:              cfg.RoleDirectory.Token,
		MutationsPerSecond: cfg.RoleDirectory.MutationsPerSecond,
		Burst:              cfg.RoleDirectory.MutationBurst,
	}, logger)

	configModule, err := guildconfig.NewModule(ctx, obs, db, bus, router, serviceMetrics, handlerMetrics)
	if err != nil {
		return fmt.Errorf("failed to create guild config module: %w", err)
	}
	linkModule, err := handlelink.NewModule(ctx, obs, db, bus, router, serviceMetrics, handlerMetrics)
	if err != nil {
		return fmt.Errorf("failed to create handle link module: %w", err)
	}
	syncModule, err := ranksync.NewModule(
		ctx,
		ranksync.Config{
			QueueDSN:      cfg.Postgres.DSN,
			SweepInterval: cfg.Sweep.Interval,
		},
		obs,
		db,
		bus,
		router,
		serviceMetrics,
		handlerMetrics,
		ratings,
		roles,
		linkModule.Service,
		configModule.Service,
	)
	if err != nil {
		return fmt.Errorf("failed to create rank sync module: %w", err)
	}

	tokens := opsserver.NewTokenProvider(cfg.JWT.Secret)
	ops := opsserver.New(
		opsserver.Config{
			Addr:           cfg.HTTP.Addr,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		},
		logger,
		obs.Registry,
		tokens,
		db.DB,
		syncModule.Queue,
		syncModule.Service,
		configModule.Service,
		linkModule.Service,
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go configModule.Run(ctx, &wg)
	go linkModule.Run(ctx, &wg)
	go syncModule.Run(ctx, &wg)

	errCh := make(chan error, 2)
	go func() {
		if err := router.Run(ctx); err != nil {
			errCh <- fmt.Errorf("watermill router stopped: %w", err)
		}
	}()
	go func() {
		if err := ops.Start(); err != nil {
			errCh <- fmt.Errorf("ops server stopped: %w", err)
		}
	}()

	logger.InfoContext(ctx, "ranksync started",
		slog.String("version", version),
		slog.String("http_addr", cfg.HTTP.Addr),
		slog.Duration("sweep_interval", cfg.Sweep.Interval),
	)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		logger.Error("Component failed, shutting down", slog.String("error", runErr.Error()))
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := ops.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ops server shutdown failed", slog.String("error", err.Error()))
	}
	if err := router.Close(); err != nil {
		logger.Error("Watermill router close failed", slog.String("error", err.Error()))
	}

	configModule.Close()
	linkModule.Close()
	syncModule.Close()
	wg.Wait()

	logger.Info("ranksync stopped")
	return runErr
}

// openDatabase opens the shared bun handle and verifies connectivity.
func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// buildRatingSource constructs the rating service client, optionally
// fronted by the redis snapshot cache.
func buildRatingSource(cfg *config.Config, logger *slog.Logger) ranksyncservice.RatingService {
	clientCfg := ratingservice.Config{BaseURL: cfg.RatingService.BaseURL}
	if cfg.RatingService.ClientID != "" {
		clientCfg.OAuth = &ratingservice.OAuthConfig{
			ClientID:     cfg.RatingService.ClientID,
			ClientSecret: cfg.RatingService.ClientSecret,
			TokenURL:     cfg.RatingService.TokenURL,
		}
	}
	client := ratingservice.New(clientCfg, logger)

	if cfg.RatingService.RedisAddr == "" {
		return client
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RatingService.RedisAddr,
		Password: cfg.RatingService.RedisPassword,
	})
	return ratingservice.NewCache(client, rdb, cfg.RatingService.CacheTTL, logger)
}

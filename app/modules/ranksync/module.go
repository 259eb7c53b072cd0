package ranksync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	guildconfigservice "github.com/open-ladder/ranksync/app/modules/guildconfig/application"
	handlelinkservice "github.com/open-ladder/ranksync/app/modules/handlelink/application"
	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
	ranksyncadapters "github.com/open-ladder/ranksync/app/modules/ranksync/infrastructure/adapters"
	ranksyncnotify "github.com/open-ladder/ranksync/app/modules/ranksync/infrastructure/notify"
	ranksyncqueue "github.com/open-ladder/ranksync/app/modules/ranksync/infrastructure/queue"
	ranksyncdb "github.com/open-ladder/ranksync/app/modules/ranksync/infrastructure/repositories"
	ranksyncrouter "github.com/open-ladder/ranksync/app/modules/ranksync/infrastructure/router"
	"github.com/open-ladder/ranksync/internal/eventbus"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
	"github.com/open-ladder/ranksync/internal/observability"
	"github.com/uptrace/bun"
)

// Config carries the module's wiring inputs that do not come from sibling
// modules.
type Config struct {
	// QueueDSN is the Postgres DSN River's own pool connects with.
	QueueDSN string
	// SweepInterval is the period of the automatic full sweep.
	SweepInterval time.Duration
}

// Module bundles the sync engine with its event router and job queue.
type Module struct {
	Service    ranksyncservice.Service
	Router     *ranksyncrouter.RankSyncRouter
	Queue      ranksyncqueue.QueueService
	obs        *observability.Observability
	cancelFunc context.CancelFunc
}

// NewModule creates the rank sync module. The rating service and role
// directory clients come in through their ports so the composition root
// decides the transports.
func NewModule(
	ctx context.Context,
	cfg Config,
	obs *observability.Observability,
	db *bun.DB,
	bus eventbus.EventBus,
	router *message.Router,
	metrics observability.ServiceMetrics,
	handlerMetrics handlerwrapper.Metrics,
	ratings ranksyncservice.RatingService,
	roles ranksyncservice.RoleDirectory,
	links handlelinkservice.Service,
	configs guildconfigservice.Service,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "ranksync.NewModule called")

	repo := ranksyncdb.NewRepository(db)
	store := ranksyncadapters.NewAchievementStore(repo)
	linkSource := ranksyncadapters.NewLinkSource(links)
	settings := ranksyncadapters.NewSettingsProvider(configs)
	notifier := ranksyncnotify.NewNotifier(bus, logger)

	service := ranksyncservice.NewRankSyncService(
		ratings,
		roles,
		store,
		linkSource,
		settings,
		notifier,
		logger,
		metrics,
		obs.Tracer,
	)

	syncRouter := ranksyncrouter.NewRankSyncRouter(logger, router, bus, obs.Tracer, handlerMetrics)
	if err := syncRouter.Configure(service); err != nil {
		return nil, fmt.Errorf("failed to configure rank sync router: %w", err)
	}

	queue, err := ranksyncqueue.NewService(ctx, db, cfg.QueueDSN, logger, metrics, bus, service, settings, cfg.SweepInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rank sync queue: %w", err)
	}

	return &Module{
		Service: service,
		Router:  syncRouter,
		Queue:   queue,
		obs:     obs,
	}, nil
}

// Run starts the job queue and keeps the module alive until the context is
// canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.obs.Logger
	logger.InfoContext(ctx, "Starting rank sync module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.Queue.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to start rank sync queue", "error", err)
		return
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := m.Queue.Stop(stopCtx); err != nil {
		logger.ErrorContext(stopCtx, "Failed to stop rank sync queue", "error", err)
	}
	logger.InfoContext(ctx, "Rank sync module stopped")
}

// Close stops the module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}

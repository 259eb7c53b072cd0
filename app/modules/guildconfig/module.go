package guildconfig

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	guildconfigservice "github.com/open-ladder/ranksync/app/modules/guildconfig/application"
	guildconfigdb "github.com/open-ladder/ranksync/app/modules/guildconfig/infrastructure/repositories"
	guildconfigrouter "github.com/open-ladder/ranksync/app/modules/guildconfig/infrastructure/router"
	"github.com/open-ladder/ranksync/internal/eventbus"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
	"github.com/open-ladder/ranksync/internal/observability"
	"github.com/uptrace/bun"
)

// Module bundles the guild config service with its event router.
type Module struct {
	Service    guildconfigservice.Service
	Router     *guildconfigrouter.GuildConfigRouter
	obs        *observability.Observability
	cancelFunc context.CancelFunc
}

// NewModule creates a new guild config module.
func NewModule(
	ctx context.Context,
	obs *observability.Observability,
	db *bun.DB,
	bus eventbus.EventBus,
	router *message.Router,
	metrics observability.ServiceMetrics,
	handlerMetrics handlerwrapper.Metrics,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "guildconfig.NewModule called")

	repo := guildconfigdb.NewRepository(db)
	service := guildconfigservice.NewGuildConfigService(repo, logger, metrics, obs.Tracer, db)

	configRouter := guildconfigrouter.NewGuildConfigRouter(logger, router, bus, obs.Tracer, handlerMetrics)
	if err := configRouter.Configure(service); err != nil {
		return nil, fmt.Errorf("failed to configure guild config router: %w", err)
	}

	return &Module{
		Service: service,
		Router:  configRouter,
		obs:     obs,
	}, nil
}

// Run keeps the module alive until the context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.obs.Logger
	logger.InfoContext(ctx, "Starting guild config module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Guild config module stopped")
}

// Close stops the module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}

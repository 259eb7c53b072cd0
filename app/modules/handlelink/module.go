package handlelink

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	handlelinkservice "github.com/open-ladder/ranksync/app/modules/handlelink/application"
	handlelinkdb "github.com/open-ladder/ranksync/app/modules/handlelink/infrastructure/repositories"
	handlelinkrouter "github.com/open-ladder/ranksync/app/modules/handlelink/infrastructure/router"
	"github.com/open-ladder/ranksync/internal/eventbus"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
	"github.com/open-ladder/ranksync/internal/observability"
	"github.com/uptrace/bun"
)

// Module bundles the handle link service with its event router.
type Module struct {
	Service    handlelinkservice.Service
	Router     *handlelinkrouter.HandleLinkRouter
	obs        *observability.Observability
	cancelFunc context.CancelFunc
}

// NewModule creates a new handle link module.
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
	logger.InfoContext(ctx, "handlelink.NewModule called")

	repo := handlelinkdb.NewRepository(db)
	service := handlelinkservice.NewHandleLinkService(repo, logger, metrics, obs.Tracer, db)

	linkRouter := handlelinkrouter.NewHandleLinkRouter(logger, router, bus, obs.Tracer, handlerMetrics)
	if err := linkRouter.Configure(service); err != nil {
		return nil, fmt.Errorf("failed to configure handle link router: %w", err)
	}

	return &Module{
		Service: service,
		Router:  linkRouter,
		obs:     obs,
	}, nil
}

// Run keeps the module alive until the context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.obs.Logger
	logger.InfoContext(ctx, "Starting handle link module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Handle link module stopped")
}

// Close stops the module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}

package ranksyncrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	handlelinkevents "github.com/open-ladder/ranksync/app/modules/handlelink/domain/events"
	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
	ranksyncevents "github.com/open-ladder/ranksync/app/modules/ranksync/domain/events"
	ranksynchandlers "github.com/open-ladder/ranksync/app/modules/ranksync/infrastructure/handlers"
	"github.com/open-ladder/ranksync/internal/eventbus"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
	"go.opentelemetry.io/otel/trace"
)

// RankSyncRouter registers the rank sync module's event handlers.
type RankSyncRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
	wrapperCfg handlerwrapper.Config
}

// NewRankSyncRouter creates a new RankSyncRouter.
func NewRankSyncRouter(
	logger *slog.Logger,
	router *message.Router,
	bus eventbus.EventBus,
	tracer trace.Tracer,
	metrics handlerwrapper.Metrics,
) *RankSyncRouter {
	return &RankSyncRouter{
		logger:     logger,
		Router:     router,
		subscriber: bus,
		wrapperCfg: handlerwrapper.Config{
			Logger:    logger,
			Tracer:    tracer,
			Metrics:   metrics,
			Publisher: bus,
		},
	}
}

// Configure sets up the router with the necessary handlers.
func (r *RankSyncRouter) Configure(service ranksyncservice.Service) error {
	handlers := ranksynchandlers.NewRankSyncHandlers(service, r.logger)
	r.RegisterHandlers(handlers)
	return nil
}

// registerHandler registers a typed handler for one topic.
func registerHandler[T any](
	r *RankSyncRouter,
	topic string,
	handler func(context.Context, *T, *message.Message) ([]handlerwrapper.Result, error),
) {
	handlerName := "handler." + topic

	r.Router.AddNoPublisherHandler(
		handlerName,
		topic,
		r.subscriber,
		handlerwrapper.WrapTyped(r.wrapperCfg, handlerName, handler),
	)
}

// RegisterHandlers registers all rank sync event handlers.
func (r *RankSyncRouter) RegisterHandlers(handlers ranksynchandlers.Handlers) {
	registerHandler(r, ranksyncevents.RatingChangesV1, handlers.HandleRatingChanges)
	registerHandler(r, ranksyncevents.SweepRequestedV1, handlers.HandleSweepRequested)
	registerHandler(r, handlelinkevents.LinkRemovedV1, handlers.HandleLinkRemoved)
}

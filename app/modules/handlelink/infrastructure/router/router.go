package handlelinkrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	handlelinkservice "github.com/open-ladder/ranksync/app/modules/handlelink/application"
	handlelinkevents "github.com/open-ladder/ranksync/app/modules/handlelink/domain/events"
	handlelinkhandlers "github.com/open-ladder/ranksync/app/modules/handlelink/infrastructure/handlers"
	"github.com/open-ladder/ranksync/internal/eventbus"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
	"go.opentelemetry.io/otel/trace"
)

// HandleLinkRouter registers the handle link module's event handlers.
type HandleLinkRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
	wrapperCfg handlerwrapper.Config
}

// NewHandleLinkRouter creates a new HandleLinkRouter.
func NewHandleLinkRouter(
	logger *slog.Logger,
	router *message.Router,
	bus eventbus.EventBus,
	tracer trace.Tracer,
	metrics handlerwrapper.Metrics,
) *HandleLinkRouter {
	return &HandleLinkRouter{
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
func (r *HandleLinkRouter) Configure(service handlelinkservice.Service) error {
	handlers := handlelinkhandlers.NewHandleLinkHandlers(service, r.logger)
	r.RegisterHandlers(handlers)
	return nil
}

// registerHandler registers a typed handler for one topic.
func registerHandler[T any](
	r *HandleLinkRouter,
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

// RegisterHandlers registers all handle link event handlers.
func (r *HandleLinkRouter) RegisterHandlers(handlers handlelinkhandlers.Handlers) {
	registerHandler(r, handlelinkevents.LinkRequestedV1, handlers.HandleLinkRequested)
	registerHandler(r, handlelinkevents.UnlinkRequestedV1, handlers.HandleUnlinkRequested)
}

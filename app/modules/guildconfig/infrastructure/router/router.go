package guildconfigrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	guildconfigservice "github.com/open-ladder/ranksync/app/modules/guildconfig/application"
	guildconfigevents "github.com/open-ladder/ranksync/app/modules/guildconfig/domain/events"
	guildconfighandlers "github.com/open-ladder/ranksync/app/modules/guildconfig/infrastructure/handlers"
	"github.com/open-ladder/ranksync/internal/eventbus"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
	"go.opentelemetry.io/otel/trace"
)

// GuildConfigRouter registers the guild config module's event handlers.
type GuildConfigRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
	wrapperCfg handlerwrapper.Config
}

// NewGuildConfigRouter creates a new GuildConfigRouter.
func NewGuildConfigRouter(
	logger *slog.Logger,
	router *message.Router,
	bus eventbus.EventBus,
	tracer trace.Tracer,
	metrics handlerwrapper.Metrics,
) *GuildConfigRouter {
	return &GuildConfigRouter{
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
func (r *GuildConfigRouter) Configure(service guildconfigservice.Service) error {
	handlers := guildconfighandlers.NewGuildConfigHandlers(service, r.logger)
	r.RegisterHandlers(handlers)
	return nil
}

// registerHandler registers a typed handler for one topic.
func registerHandler[T any](
	r *GuildConfigRouter,
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

// RegisterHandlers registers all guild config event handlers.
func (r *GuildConfigRouter) RegisterHandlers(handlers guildconfighandlers.Handlers) {
	registerHandler(r, guildconfigevents.UpdateRequestedV1, handlers.HandleUpdateRequested)
}

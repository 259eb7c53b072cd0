package guildconfighandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	guildconfigevents "github.com/open-ladder/ranksync/app/modules/guildconfig/domain/events"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
)

// Handlers defines the event handlers for the guild config module.
type Handlers interface {
	HandleUpdateRequested(ctx context.Context, payload *guildconfigevents.UpdateRequestedPayloadV1, msg *message.Message) ([]handlerwrapper.Result, error)
}

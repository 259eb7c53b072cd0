package handlelinkhandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	handlelinkevents "github.com/open-ladder/ranksync/app/modules/handlelink/domain/events"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
)

// Handlers defines the event handlers for the handle link module.
type Handlers interface {
	HandleLinkRequested(ctx context.Context, payload *handlelinkevents.LinkRequestedPayloadV1, msg *message.Message) ([]handlerwrapper.Result, error)
	HandleUnlinkRequested(ctx context.Context, payload *handlelinkevents.UnlinkRequestedPayloadV1, msg *message.Message) ([]handlerwrapper.Result, error)
}

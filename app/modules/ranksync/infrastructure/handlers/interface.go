package ranksynchandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	handlelinkevents "github.com/open-ladder/ranksync/app/modules/handlelink/domain/events"
	ranksyncevents "github.com/open-ladder/ranksync/app/modules/ranksync/domain/events"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
)

// Handlers defines the event handlers for the rank sync module.
type Handlers interface {
	HandleRatingChanges(ctx context.Context, payload *ranksyncevents.RatingChangeBatchPayloadV1, msg *message.Message) ([]handlerwrapper.Result, error)
	HandleSweepRequested(ctx context.Context, payload *ranksyncevents.SweepRequestedPayloadV1, msg *message.Message) ([]handlerwrapper.Result, error)
	HandleLinkRemoved(ctx context.Context, payload *handlelinkevents.LinkRemovedPayloadV1, msg *message.Message) ([]handlerwrapper.Result, error)
}

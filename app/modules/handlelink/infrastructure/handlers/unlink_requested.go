package handlelinkhandlers

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"
	handlelinkservice "github.com/open-ladder/ranksync/app/modules/handlelink/application"
	handlelinkevents "github.com/open-ladder/ranksync/app/modules/handlelink/domain/events"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
)

// HandleUnlinkRequested handles the handlelink.unlink.requested event. A
// successful unlink emits link.removed, which the sync module consumes to
// strip the member's rank roles.
func (h *HandleLinkHandlers) HandleUnlinkRequested(ctx context.Context, payload *handlelinkevents.UnlinkRequestedPayloadV1, _ *message.Message) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	removed, err := h.service.RemoveLink(ctx, payload.GuildID, payload.MemberID)
	if err != nil {
		if errors.Is(err, handlelinkservice.ErrLinkNotFound) {
			return []handlerwrapper.Result{{
				Topic: handlelinkevents.UnlinkFailedV1,
				Payload: handlelinkevents.UnlinkFailedPayloadV1{
					GuildID:  payload.GuildID,
					MemberID: payload.MemberID,
					Reason:   err.Error(),
				},
			}}, nil
		}
		return nil, err
	}

	return []handlerwrapper.Result{{
		Topic: handlelinkevents.LinkRemovedV1,
		Payload: handlelinkevents.LinkRemovedPayloadV1{
			GuildID:  removed.GuildID,
			MemberID: removed.MemberID,
			Handle:   removed.Handle,
		},
	}}, nil
}

package handlelinkhandlers

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"
	handlelinkdomain "github.com/open-ladder/ranksync/app/modules/handlelink/domain"
	handlelinkevents "github.com/open-ladder/ranksync/app/modules/handlelink/domain/events"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
)

// HandleLinkRequested handles the handlelink.link.requested event.
func (h *HandleLinkHandlers) HandleLinkRequested(ctx context.Context, payload *handlelinkevents.LinkRequestedPayloadV1, _ *message.Message) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	link, err := h.service.SetLink(ctx, payload.GuildID, payload.MemberID, payload.Handle)
	if err != nil {
		if isLinkRejection(err) {
			return []handlerwrapper.Result{{
				Topic: handlelinkevents.LinkFailedV1,
				Payload: handlelinkevents.LinkFailedPayloadV1{
					GuildID:  payload.GuildID,
					MemberID: payload.MemberID,
					Handle:   payload.Handle,
					Reason:   err.Error(),
				},
			}}, nil
		}
		return nil, err
	}

	return []handlerwrapper.Result{{
		Topic: handlelinkevents.LinkCreatedV1,
		Payload: handlelinkevents.LinkCreatedPayloadV1{
			GuildID:  link.GuildID,
			MemberID: link.MemberID,
			Handle:   link.Handle,
			LinkedAt: link.LinkedAt,
		},
	}}, nil
}

// isLinkRejection reports whether the error is a validation rejection rather
// than an infrastructure failure.
func isLinkRejection(err error) bool {
	return errors.Is(err, handlelinkdomain.ErrMissingGuildID) ||
		errors.Is(err, handlelinkdomain.ErrMissingMemberID) ||
		errors.Is(err, handlelinkdomain.ErrMissingHandle) ||
		errors.Is(err, handlelinkdomain.ErrHandleTaken)
}

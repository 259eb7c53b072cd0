package ranksynchandlers

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"
	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	ranksyncevents "github.com/open-ladder/ranksync/app/modules/ranksync/domain/events"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
)

// TriggerEvent marks sweeps started by an explicit sweep-requested event.
const TriggerEvent = "event"

// HandleSweepRequested handles the ranksync.sweep.requested event. Transient
// failures propagate for redelivery; anything else completes the sweep with
// an error report, since redelivery cannot fix missing links or a
// misconfigured role directory.
func (h *RankSyncHandlers) HandleSweepRequested(ctx context.Context, payload *ranksyncevents.SweepRequestedPayloadV1, _ *message.Message) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	summary, err := h.service.RunSweep(ctx, ranksyncdomain.GuildID(payload.GuildID))
	if err != nil {
		if ranksyncdomain.IsTransient(err) {
			return nil, err
		}
		return []handlerwrapper.Result{{
			Topic: ranksyncevents.SweepCompletedV1,
			Payload: ranksyncevents.SweepCompletedPayloadV1{
				GuildID: payload.GuildID,
				Trigger: TriggerEvent,
				Error:   err.Error(),
			},
		}}, nil
	}

	return []handlerwrapper.Result{{
		Topic: ranksyncevents.SweepCompletedV1,
		Payload: ranksyncevents.SweepCompletedPayloadV1{
			GuildID: payload.GuildID,
			Trigger: TriggerEvent,
			Summary: ranksyncevents.SummaryV1FromDomain(summary),
		},
	}}, nil
}

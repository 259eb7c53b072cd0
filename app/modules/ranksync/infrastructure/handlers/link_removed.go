package ranksynchandlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	handlelinkevents "github.com/open-ladder/ranksync/app/modules/handlelink/domain/events"
	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/open-ladder/ranksync/internal/attr"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
)

// HandleLinkRemoved handles the handlelink.link.removed event by stripping
// the member's rank roles. The achievement ledger stays; an unlinked member
// who relinks later picks their record back up.
func (h *RankSyncHandlers) HandleLinkRemoved(ctx context.Context, payload *handlelinkevents.LinkRemovedPayloadV1, _ *message.Message) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	removed, err := h.service.StripRankRoles(ctx, ranksyncdomain.GuildID(payload.GuildID), ranksyncdomain.MemberID(payload.MemberID))
	if err != nil {
		if ranksyncdomain.IsTransient(err) {
			return nil, err
		}
		// The next sweep converges the member; redelivery would not.
		h.logger.WarnContext(ctx, "Rank role strip after unlink failed",
			attr.CorrelationID(ctx),
			attr.GuildID(payload.GuildID),
			attr.MemberID(payload.MemberID),
			attr.Error(err),
		)
		return nil, nil
	}

	h.logger.InfoContext(ctx, "Rank roles stripped after unlink",
		attr.CorrelationID(ctx),
		attr.GuildID(payload.GuildID),
		attr.MemberID(payload.MemberID),
		slog.Int("removed", len(removed)),
	)
	return nil, nil
}

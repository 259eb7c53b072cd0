// Package ranksyncnotify delivers achievement notices to the notification
// stream. The chat gateway renders them into the guild's configured channel.
package ranksyncnotify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
	ranksyncevents "github.com/open-ladder/ranksync/app/modules/ranksync/domain/events"
	"github.com/open-ladder/ranksync/internal/attr"
	"github.com/open-ladder/ranksync/internal/eventbus"
)

// Notifier publishes rank-up notices.
type Notifier struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// NewNotifier creates a new notifier.
func NewNotifier(publisher message.Publisher, logger *slog.Logger) *Notifier {
	return &Notifier{publisher: publisher, logger: logger}
}

// NotifyRankUp publishes one achievement notice. The caller treats failures
// as best effort; nothing here retries.
func (n *Notifier) NotifyRankUp(ctx context.Context, notice ranksyncservice.RankUpNotice) error {
	payload := ranksyncevents.RankUpNoticePayloadV1{
		GuildID:   string(notice.Member.GuildID),
		MemberID:  string(notice.Member.MemberID),
		Handle:    string(notice.Member.Handle),
		ChannelID: notice.ChannelID,
		Rating:    notice.Rating,
		RankTitle: notice.Tier.Title,
		IsNewMax:  notice.IsNewMax,
		IsNewRank: notice.IsNewRank,
	}
	if notice.Previous != nil {
		payload.PreviousMax = notice.Previous.MaxRatingSeen
		payload.PreviousRank = notice.Previous.HighestRankSeen
	}

	if err := eventbus.PublishJSON(ctx, n.publisher, ranksyncevents.RankUpNoticeV1, payload); err != nil {
		return fmt.Errorf("publish rank up notice: %w", err)
	}

	n.logger.InfoContext(ctx, "Rank up notice published",
		attr.GuildID(payload.GuildID),
		attr.MemberID(payload.MemberID),
		slog.String("rank", payload.RankTitle),
		slog.Int("rating", payload.Rating))
	return nil
}

var _ ranksyncservice.NotificationSink = (*Notifier)(nil)

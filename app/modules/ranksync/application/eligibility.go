package ranksyncservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/open-ladder/ranksync/internal/attr"
)

const provisionalLiftReason = "Provisional gate lifted on first rank promotion"

// checkEligibility runs the one-time checks a member's first promotion
// unlocks: provisional gating roles come off, and the guild's trusted role is
// granted when the member's rating history qualifies. Problems here are
// logged but never fail the member; the roles converge on a later run.
func (s *RankSyncService) checkEligibility(
	ctx context.Context,
	member ranksyncdomain.Member,
	settings GuildSettings,
	currentRoles, guildRoles ranksyncdomain.RoleSet,
) {
	var held []string
	for _, name := range settings.ProvisionalRoles {
		if currentRoles.Has(name) {
			held = append(held, name)
		}
	}
	if len(held) > 0 {
		err := s.retry.Do(ctx, ranksyncdomain.IsTransient, func() error {
			return s.roles.RemoveRoles(ctx, member.GuildID, member.MemberID, held, provisionalLiftReason)
		})
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to lift provisional roles",
				attr.CorrelationID(ctx),
				slog.String("guild_id", string(member.GuildID)),
				slog.String("member_id", string(member.MemberID)),
				attr.Error(err),
			)
		}
	}

	if settings.TrustedRole == "" || currentRoles.Has(settings.TrustedRole) {
		return
	}
	if !guildRoles.Has(settings.TrustedRole) {
		return
	}

	var history []ranksyncdomain.RatingPoint
	err := s.retry.Do(ctx, ranksyncdomain.IsTransient, func() error {
		var rerr error
		history, rerr = s.ratings.GetRatingHistory(ctx, member.Handle)
		return rerr
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Trusted eligibility check could not read rating history",
			attr.CorrelationID(ctx),
			slog.String("guild_id", string(member.GuildID)),
			slog.String("member_id", string(member.MemberID)),
			attr.Error(err),
		)
		return
	}

	if !qualifiesForTrusted(history, settings.TrustedMinRating, settings.TrustedCutoff) {
		return
	}

	reason := fmt.Sprintf("Historical rating reached %d", settings.TrustedMinRating)
	err = s.retry.Do(ctx, ranksyncdomain.IsTransient, func() error {
		return s.roles.AddRoles(ctx, member.GuildID, member.MemberID, []string{settings.TrustedRole}, reason)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to grant trusted role",
			attr.CorrelationID(ctx),
			slog.String("guild_id", string(member.GuildID)),
			slog.String("member_id", string(member.MemberID)),
			attr.Error(err),
		)
	}
}

// qualifiesForTrusted reports whether any history point reaches minRating at
// or before cutoff. A nil cutoff accepts any time.
func qualifiesForTrusted(history []ranksyncdomain.RatingPoint, minRating int, cutoff *time.Time) bool {
	if minRating <= 0 {
		return false
	}
	for _, point := range history {
		if point.Rating < minRating {
			continue
		}
		if cutoff == nil || !point.At.After(*cutoff) {
			return true
		}
	}
	return false
}

package ranksyncservice

import (
	"context"
	"fmt"
	"log/slog"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/open-ladder/ranksync/internal/attr"
	"github.com/open-ladder/ranksync/internal/results"
)

// SeedAchievements backfills the achievement ledger of every linked member
// from rating history, falling back to the current snapshot when the history
// is unavailable. Roles are not touched and nothing is announced.
func (s *RankSyncService) SeedAchievements(ctx context.Context, guildID ranksyncdomain.GuildID) (ranksyncdomain.SyncSummary, error) {
	op := func(ctx context.Context) (results.OperationResult[ranksyncdomain.SyncSummary, error], error) {
		return s.seedAchievementsLogic(ctx, guildID)
	}

	result, err := withTelemetry(s, ctx, "SeedAchievements", string(guildID), op)
	if err != nil {
		return ranksyncdomain.SyncSummary{}, err
	}
	if result.IsFailure() {
		return ranksyncdomain.SyncSummary{}, *result.Failure
	}
	return *result.Success, nil
}

// seedAchievementsLogic contains the core logic.
func (s *RankSyncService) seedAchievementsLogic(ctx context.Context, guildID ranksyncdomain.GuildID) (results.OperationResult[ranksyncdomain.SyncSummary, error], error) {
	if guildID == "" {
		return results.FailureResult[ranksyncdomain.SyncSummary, error](ErrMissingGuildID), nil
	}

	release, err := s.guard.Acquire(ctx, guildID)
	if err != nil {
		return results.OperationResult[ranksyncdomain.SyncSummary, error]{}, fmt.Errorf("acquire run token: %w", err)
	}
	defer release()

	members, err := s.links.GuildMembers(ctx, guildID)
	if err != nil {
		return results.OperationResult[ranksyncdomain.SyncSummary, error]{}, fmt.Errorf("collect linked members: %w", err)
	}
	if len(members) == 0 {
		dataErr := &ranksyncdomain.DataError{GuildID: guildID, Reason: "no linked members"}
		return results.FailureResult[ranksyncdomain.SyncSummary, error](dataErr), nil
	}

	handles := make([]ranksyncdomain.Handle, len(members))
	for i, m := range members {
		handles[i] = m.Handle
	}

	var snapshots map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot
	err = s.retry.Do(ctx, ranksyncdomain.IsTransient, func() error {
		var rerr error
		snapshots, rerr = s.ratings.GetCurrentRatings(ctx, handles)
		return rerr
	})
	if err != nil {
		return results.OperationResult[ranksyncdomain.SyncSummary, error]{}, fmt.Errorf("resolve current ratings: %w", err)
	}

	var summary ranksyncdomain.SyncSummary
	for _, member := range members {
		if err := ctx.Err(); err != nil {
			return results.OperationResult[ranksyncdomain.SyncSummary, error]{}, err
		}

		seedRating, ok := s.seedObservation(ctx, member, snapshots)
		if !ok {
			summary.Skipped++
			continue
		}
		tier := ranksyncdomain.TierForRating(&seedRating)

		record, err := s.store.Get(ctx, guildID, member.MemberID)
		if err != nil {
			summary.Failures = append(summary.Failures, ranksyncdomain.MemberFailure{
				MemberID: member.MemberID,
				Reason:   fmt.Sprintf("read achievement record: %v", err),
			})
			continue
		}

		updated, isNewMax, isNewRank := ranksyncdomain.ApplyObservation(record, seedRating, tier)
		if !isNewMax && !isNewRank {
			summary.Skipped++
			continue
		}
		if err := s.store.Upsert(ctx, member, updated); err != nil {
			summary.Failures = append(summary.Failures, ranksyncdomain.MemberFailure{
				MemberID: member.MemberID,
				Reason:   fmt.Sprintf("persist achievement record: %v", err),
			})
			continue
		}
		summary.Updated++
	}

	return results.SuccessResult[ranksyncdomain.SyncSummary, error](summary), nil
}

// seedObservation picks the rating a member's ledger is seeded from: the
// history peak when available, the snapshot's effective rating otherwise.
// The second return is false when the member has no rating data at all.
func (s *RankSyncService) seedObservation(ctx context.Context, member ranksyncdomain.Member, snapshots map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot) (int, bool) {
	var history []ranksyncdomain.RatingPoint
	err := s.retry.Do(ctx, ranksyncdomain.IsTransient, func() error {
		var rerr error
		history, rerr = s.ratings.GetRatingHistory(ctx, member.Handle)
		return rerr
	})
	if err == nil && len(history) > 0 {
		peak := history[0].Rating
		for _, point := range history[1:] {
			if point.Rating > peak {
				peak = point.Rating
			}
		}
		return peak, true
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Seeding from snapshot, rating history unavailable",
			attr.CorrelationID(ctx),
			slog.String("guild_id", string(member.GuildID)),
			slog.String("member_id", string(member.MemberID)),
			attr.Error(err),
		)
	}

	snapshot, ok := snapshots[member.Handle]
	if !ok {
		return 0, false
	}
	effective := snapshot.EffectiveRating()
	if effective == nil {
		return 0, false
	}
	return *effective, true
}

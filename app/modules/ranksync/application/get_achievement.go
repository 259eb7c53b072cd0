package ranksyncservice

import (
	"context"
	"fmt"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/open-ladder/ranksync/internal/results"
)

// GetAchievement returns one member's ledger record, or
// ErrAchievementNotFound when nothing was ever recorded.
func (s *RankSyncService) GetAchievement(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (*ranksyncdomain.AchievementRecord, error) {
	op := func(ctx context.Context) (results.OperationResult[*ranksyncdomain.AchievementRecord, error], error) {
		return s.getAchievementLogic(ctx, guildID, memberID)
	}

	result, err := withTelemetry(s, ctx, "GetAchievement", string(guildID)+"/"+string(memberID), op)
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// getAchievementLogic contains the core logic.
func (s *RankSyncService) getAchievementLogic(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (results.OperationResult[*ranksyncdomain.AchievementRecord, error], error) {
	if guildID == "" {
		return results.FailureResult[*ranksyncdomain.AchievementRecord, error](ErrMissingGuildID), nil
	}
	if memberID == "" {
		return results.FailureResult[*ranksyncdomain.AchievementRecord, error](ErrMissingMemberID), nil
	}

	record, err := s.store.Get(ctx, guildID, memberID)
	if err != nil {
		return results.OperationResult[*ranksyncdomain.AchievementRecord, error]{}, fmt.Errorf("failed to get achievement record: %w", err)
	}
	if record == nil {
		return results.FailureResult[*ranksyncdomain.AchievementRecord, error](ErrAchievementNotFound), nil
	}

	return results.SuccessResult[*ranksyncdomain.AchievementRecord, error](record), nil
}

package ranksyncservice

import (
	"context"
	"fmt"
	"log/slog"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/open-ladder/ranksync/internal/attr"
	"github.com/open-ladder/ranksync/internal/results"
)

const unlinkReason = "Handle link removed"

// StripRankRoles removes every rank-namespace role a member holds. It runs
// when a member's handle link is removed; the achievement ledger stays
// untouched. The guild's run token is held so the strip never interleaves
// with a reconciliation run.
func (s *RankSyncService) StripRankRoles(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (removed []string, err error) {
	op := func(ctx context.Context) (results.OperationResult[[]string, error], error) {
		return s.stripRankRolesLogic(ctx, guildID, memberID)
	}

	result, err := withTelemetry(s, ctx, "StripRankRoles", string(guildID)+"/"+string(memberID), op)
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// stripRankRolesLogic contains the core logic.
func (s *RankSyncService) stripRankRolesLogic(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (results.OperationResult[[]string, error], error) {
	if guildID == "" {
		return results.FailureResult[[]string, error](ErrMissingGuildID), nil
	}
	if memberID == "" {
		return results.FailureResult[[]string, error](ErrMissingMemberID), nil
	}

	release, err := s.guard.Acquire(ctx, guildID)
	if err != nil {
		return results.OperationResult[[]string, error]{}, fmt.Errorf("acquire run token: %w", err)
	}
	defer release()

	var current ranksyncdomain.RoleSet
	err = s.retry.Do(ctx, ranksyncdomain.IsTransient, func() error {
		var rerr error
		current, rerr = s.roles.MemberRoles(ctx, guildID, memberID)
		return rerr
	})
	if err != nil {
		return results.OperationResult[[]string, error]{}, fmt.Errorf("read member roles: %w", err)
	}

	diff := ranksyncdomain.ComputeRoleDiff(current, ranksyncdomain.Unrated, ranksyncdomain.RankNamespace(), nil)
	if diff.IsNoop() {
		return results.SuccessResult[[]string, error](nil), nil
	}

	err = s.retry.Do(ctx, ranksyncdomain.IsTransient, func() error {
		return s.roles.RemoveRoles(ctx, guildID, memberID, diff.ToRemove, unlinkReason)
	})
	if err != nil {
		return results.OperationResult[[]string, error]{}, fmt.Errorf("remove rank roles: %w", err)
	}

	s.logger.InfoContext(ctx, "Rank roles stripped after unlink",
		attr.CorrelationID(ctx),
		slog.String("guild_id", string(guildID)),
		slog.String("member_id", string(memberID)),
		slog.Any("removed", diff.ToRemove),
	)
	return results.SuccessResult[[]string, error](diff.ToRemove), nil
}

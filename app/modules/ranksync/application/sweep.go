package ranksyncservice

import (
	"context"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/open-ladder/ranksync/internal/results"
)

// RunSweep reconciles every linked member of one guild: role diffs are
// applied, the achievement ledger converges toward the best-known ratings,
// and new achievements are announced.
func (s *RankSyncService) RunSweep(ctx context.Context, guildID ranksyncdomain.GuildID) (ranksyncdomain.SyncSummary, error) {
	op := func(ctx context.Context) (results.OperationResult[ranksyncdomain.SyncSummary, error], error) {
		return s.runSweepLogic(ctx, guildID)
	}

	result, err := withTelemetry(s, ctx, "RunSweep", string(guildID), op)
	if err != nil {
		return ranksyncdomain.SyncSummary{}, err
	}
	if result.IsFailure() {
		return ranksyncdomain.SyncSummary{}, *result.Failure
	}
	return *result.Success, nil
}

// runSweepLogic contains the core logic.
func (s *RankSyncService) runSweepLogic(ctx context.Context, guildID ranksyncdomain.GuildID) (results.OperationResult[ranksyncdomain.SyncSummary, error], error) {
	if guildID == "" {
		return results.FailureResult[ranksyncdomain.SyncSummary, error](ErrMissingGuildID), nil
	}

	summary, err := s.runPipeline(ctx, runInput{
		guildID: guildID,
		kind:    kindSweep,
		collect: func(ctx context.Context) ([]ranksyncdomain.Member, error) {
			return s.links.GuildMembers(ctx, guildID)
		},
	})
	if err != nil {
		if ranksyncdomain.IsData(err) {
			return results.FailureResult[ranksyncdomain.SyncSummary, error](err), nil
		}
		return results.OperationResult[ranksyncdomain.SyncSummary, error]{}, err
	}

	return results.SuccessResult[ranksyncdomain.SyncSummary, error](summary), nil
}

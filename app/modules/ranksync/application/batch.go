package ranksyncservice

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/open-ladder/ranksync/internal/attr"
	"github.com/open-ladder/ranksync/internal/fanout"
	"github.com/open-ladder/ranksync/internal/results"
)

// BatchOutcome maps each affected guild to its run outcome. A guild whose
// whole run short-circuited carries the error; its members are picked up by
// the next sweep.
type BatchOutcome = map[ranksyncdomain.GuildID]fanout.Result[ranksyncdomain.SyncSummary]

// HandleRatingChangeBatch processes one competition's rating movements across
// every guild where an affected handle is linked. Guild runs fan out
// concurrently; no guild's failure touches another.
func (s *RankSyncService) HandleRatingChangeBatch(ctx context.Context, batch ranksyncdomain.RatingChangeBatch) (BatchOutcome, error) {
	op := func(ctx context.Context) (results.OperationResult[BatchOutcome, error], error) {
		return s.handleBatchLogic(ctx, batch)
	}

	result, err := withTelemetry(s, ctx, "HandleRatingChangeBatch", strconv.FormatInt(batch.CompetitionID, 10), op)
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// handleBatchLogic contains the core logic.
func (s *RankSyncService) handleBatchLogic(ctx context.Context, batch ranksyncdomain.RatingChangeBatch) (results.OperationResult[BatchOutcome, error], error) {
	if batch.CompetitionID == 0 {
		return results.FailureResult[BatchOutcome, error](ErrMissingCompetitionID), nil
	}
	if len(batch.Entries) == 0 {
		return results.FailureResult[BatchOutcome, error](ErrEmptyBatch), nil
	}

	observed := make(map[ranksyncdomain.Handle]int, len(batch.Entries))
	handles := make([]ranksyncdomain.Handle, 0, len(batch.Entries))
	for _, entry := range batch.Entries {
		normalized := ranksyncdomain.NormalizeHandle(entry.Handle)
		if _, ok := observed[normalized]; !ok {
			handles = append(handles, normalized)
		}
		observed[normalized] = entry.NewRating
	}

	guildIDs, err := s.links.GuildsWithHandles(ctx, handles)
	if err != nil {
		return results.OperationResult[BatchOutcome, error]{}, fmt.Errorf("find guilds with affected handles: %w", err)
	}
	if len(guildIDs) == 0 {
		s.logger.InfoContext(ctx, "No guild links any handle of the batch",
			attr.CorrelationID(ctx),
			slog.Int64("competition_id", batch.CompetitionID),
		)
		return results.SuccessResult[BatchOutcome, error](BatchOutcome{}), nil
	}

	outcomes := fanout.Map(ctx, guildIDs, func(ctx context.Context, guildID ranksyncdomain.GuildID) (ranksyncdomain.SyncSummary, error) {
		return s.runPipeline(ctx, runInput{
			guildID: guildID,
			kind:    kindBatch,
			collect: func(ctx context.Context) ([]ranksyncdomain.Member, error) {
				return s.links.MembersByHandles(ctx, guildID, handles)
			},
			observed: observed,
		})
	})

	return results.SuccessResult[BatchOutcome, error](outcomes), nil
}

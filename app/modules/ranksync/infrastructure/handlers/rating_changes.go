package ranksynchandlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	ranksyncevents "github.com/open-ladder/ranksync/app/modules/ranksync/domain/events"
	"github.com/open-ladder/ranksync/internal/attr"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
)

// HandleRatingChanges handles the rating.changes event. The feed delivers a
// batch at least once; the pipeline behind the service is idempotent, so a
// redelivered batch converges to the same state without duplicate role
// mutations.
func (h *RankSyncHandlers) HandleRatingChanges(ctx context.Context, payload *ranksyncevents.RatingChangeBatchPayloadV1, _ *message.Message) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	batch := ranksyncdomain.RatingChangeBatch{
		CompetitionID: payload.CompetitionID,
		Entries:       make([]ranksyncdomain.RatingChange, len(payload.Entries)),
	}
	for i, entry := range payload.Entries {
		batch.Entries[i] = ranksyncdomain.RatingChange{
			Handle:    ranksyncdomain.Handle(entry.Handle),
			OldRating: entry.OldRating,
			NewRating: entry.NewRating,
		}
	}

	outcomes, err := h.service.HandleRatingChangeBatch(ctx, batch)
	if err != nil {
		if isBatchRejection(err) {
			// A malformed batch stays malformed on redelivery.
			h.logger.WarnContext(ctx, "Dropping malformed rating change batch",
				attr.CorrelationID(ctx),
				slog.Int64("competition_id", payload.CompetitionID),
				attr.Error(err),
			)
			return nil, nil
		}
		return nil, err
	}

	processed := ranksyncevents.BatchProcessedPayloadV1{
		CompetitionID: payload.CompetitionID,
		Summaries:     make(map[string]ranksyncevents.SyncSummaryV1, len(outcomes)),
	}
	for guildID, outcome := range outcomes {
		if outcome.Err != nil {
			if processed.Errors == nil {
				processed.Errors = make(map[string]string)
			}
			processed.Errors[string(guildID)] = outcome.Err.Error()
			continue
		}
		processed.Summaries[string(guildID)] = ranksyncevents.SummaryV1FromDomain(outcome.Value)
	}

	return []handlerwrapper.Result{{
		Topic:   ranksyncevents.BatchProcessedV1,
		Payload: processed,
	}}, nil
}

// isBatchRejection reports whether the error is a validation rejection
// rather than an infrastructure failure.
func isBatchRejection(err error) bool {
	return errors.Is(err, ranksyncservice.ErrEmptyBatch) ||
		errors.Is(err, ranksyncservice.ErrMissingCompetitionID)
}

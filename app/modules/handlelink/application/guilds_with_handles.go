package handlelinkservice

import (
	"context"
	"fmt"
	"strconv"

	"github.com/open-ladder/ranksync/internal/results"
	"github.com/uptrace/bun"
)

// GuildsWithHandles returns the IDs of every guild linking at least one of
// the given handles. It fans a rating-change batch out to the guilds it
// actually affects.
func (s *HandleLinkService) GuildsWithHandles(ctx context.Context, handles []string) ([]string, error) {
	findTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]string, error], error) {
		return s.guildsWithHandlesLogic(ctx, db, handles)
	}

	result, err := withTelemetry(s, ctx, "GuildsWithHandles", strconv.Itoa(len(handles)), func(ctx context.Context) (results.OperationResult[[]string, error], error) {
		return runInTx(s, ctx, findTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// guildsWithHandlesLogic contains the core logic.
func (s *HandleLinkService) guildsWithHandlesLogic(ctx context.Context, db bun.IDB, handles []string) (results.OperationResult[[]string, error], error) {
	if len(handles) == 0 {
		return results.SuccessResult[[]string, error]([]string{}), nil
	}

	guildIDs, err := s.repo.GuildsWithHandles(ctx, db, handles)
	if err != nil {
		return results.OperationResult[[]string, error]{}, fmt.Errorf("failed to find guilds by handles: %w", err)
	}

	return results.SuccessResult[[]string, error](guildIDs), nil
}

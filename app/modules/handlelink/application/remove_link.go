package handlelinkservice

import (
	"context"
	"errors"
	"fmt"

	handlelinkdomain "github.com/open-ladder/ranksync/app/modules/handlelink/domain"
	handlelinkdb "github.com/open-ladder/ranksync/app/modules/handlelink/infrastructure/repositories"
	"github.com/open-ladder/ranksync/internal/results"
	"github.com/uptrace/bun"
)

// RemoveLink deletes a member's link and returns what was removed. The
// member's achievement ledger is untouched; only the live association goes.
func (s *HandleLinkService) RemoveLink(ctx context.Context, guildID, memberID string) (*handlelinkdomain.Link, error) {
	removeTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*handlelinkdomain.Link, error], error) {
		return s.removeLinkLogic(ctx, db, guildID, memberID)
	}

	result, err := withTelemetry(s, ctx, "RemoveLink", guildID+"/"+memberID, func(ctx context.Context) (results.OperationResult[*handlelinkdomain.Link, error], error) {
		return runInTx(s, ctx, removeTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// removeLinkLogic contains the core logic.
func (s *HandleLinkService) removeLinkLogic(ctx context.Context, db bun.IDB, guildID, memberID string) (results.OperationResult[*handlelinkdomain.Link, error], error) {
	link, err := s.repo.GetByMember(ctx, db, guildID, memberID)
	if err != nil {
		if errors.Is(err, handlelinkdb.ErrNotFound) {
			return results.FailureResult[*handlelinkdomain.Link, error](ErrLinkNotFound), nil
		}
		return results.OperationResult[*handlelinkdomain.Link, error]{}, fmt.Errorf("failed to get link before removal: %w", err)
	}

	if err := s.repo.Remove(ctx, db, guildID, memberID); err != nil {
		if errors.Is(err, handlelinkdb.ErrNotFound) {
			return results.FailureResult[*handlelinkdomain.Link, error](ErrLinkNotFound), nil
		}
		return results.OperationResult[*handlelinkdomain.Link, error]{}, fmt.Errorf("failed to remove link: %w", err)
	}

	return results.SuccessResult[*handlelinkdomain.Link, error](link), nil
}

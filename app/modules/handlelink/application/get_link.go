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

// ErrLinkNotFound is returned when a member has no link.
var ErrLinkNotFound = errors.New("member has no linked handle")

// GetLink returns a member's link.
func (s *HandleLinkService) GetLink(ctx context.Context, guildID, memberID string) (*handlelinkdomain.Link, error) {
	getTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*handlelinkdomain.Link, error], error) {
		return s.getLinkLogic(ctx, db, guildID, memberID)
	}

	result, err := withTelemetry(s, ctx, "GetLink", guildID+"/"+memberID, func(ctx context.Context) (results.OperationResult[*handlelinkdomain.Link, error], error) {
		return runInTx(s, ctx, getTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// getLinkLogic contains the core logic.
func (s *HandleLinkService) getLinkLogic(ctx context.Context, db bun.IDB, guildID, memberID string) (results.OperationResult[*handlelinkdomain.Link, error], error) {
	link, err := s.repo.GetByMember(ctx, db, guildID, memberID)
	if err != nil {
		if errors.Is(err, handlelinkdb.ErrNotFound) {
			return results.FailureResult[*handlelinkdomain.Link, error](ErrLinkNotFound), nil
		}
		return results.OperationResult[*handlelinkdomain.Link, error]{}, fmt.Errorf("failed to get link: %w", err)
	}

	return results.SuccessResult[*handlelinkdomain.Link, error](link), nil
}

package handlelinkservice

import (
	"context"
	"fmt"

	handlelinkdomain "github.com/open-ladder/ranksync/app/modules/handlelink/domain"
	"github.com/open-ladder/ranksync/internal/results"
	"github.com/uptrace/bun"
)

// ListGuildLinks returns every link in a guild.
func (s *HandleLinkService) ListGuildLinks(ctx context.Context, guildID string) ([]handlelinkdomain.Link, error) {
	listTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]handlelinkdomain.Link, error], error) {
		return s.listGuildLinksLogic(ctx, db, guildID)
	}

	result, err := withTelemetry(s, ctx, "ListGuildLinks", guildID, func(ctx context.Context) (results.OperationResult[[]handlelinkdomain.Link, error], error) {
		return runInTx(s, ctx, listTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// listGuildLinksLogic contains the core logic.
func (s *HandleLinkService) listGuildLinksLogic(ctx context.Context, db bun.IDB, guildID string) (results.OperationResult[[]handlelinkdomain.Link, error], error) {
	if guildID == "" {
		return results.FailureResult[[]handlelinkdomain.Link, error](handlelinkdomain.ErrMissingGuildID), nil
	}

	links, err := s.repo.ListByGuild(ctx, db, guildID)
	if err != nil {
		return results.OperationResult[[]handlelinkdomain.Link, error]{}, fmt.Errorf("failed to list links: %w", err)
	}

	return results.SuccessResult[[]handlelinkdomain.Link, error](links), nil
}

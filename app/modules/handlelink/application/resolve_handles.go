package handlelinkservice

import (
	"context"
	"fmt"

	handlelinkdomain "github.com/open-ladder/ranksync/app/modules/handlelink/domain"
	"github.com/open-ladder/ranksync/internal/results"
	"github.com/uptrace/bun"
)

// ResolveHandles maps normalized handles to the member IDs linked to them.
// Handles with no link in the guild are simply absent from the result.
func (s *HandleLinkService) ResolveHandles(ctx context.Context, guildID string, handles []string) (map[string]string, error) {
	resolveTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[map[string]string, error], error) {
		return s.resolveHandlesLogic(ctx, db, guildID, handles)
	}

	result, err := withTelemetry(s, ctx, "ResolveHandles", guildID, func(ctx context.Context) (results.OperationResult[map[string]string, error], error) {
		return runInTx(s, ctx, resolveTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// resolveHandlesLogic contains the core logic.
func (s *HandleLinkService) resolveHandlesLogic(ctx context.Context, db bun.IDB, guildID string, handles []string) (results.OperationResult[map[string]string, error], error) {
	if len(handles) == 0 {
		return results.SuccessResult[map[string]string, error](map[string]string{}), nil
	}

	links, err := s.repo.GetByHandles(ctx, db, guildID, handles)
	if err != nil {
		return results.OperationResult[map[string]string, error]{}, fmt.Errorf("failed to resolve handles: %w", err)
	}

	resolved := make(map[string]string, len(links))
	for _, link := range links {
		resolved[handlelinkdomain.NormalizeHandle(link.Handle)] = link.MemberID
	}

	return results.SuccessResult[map[string]string, error](resolved), nil
}

package guildconfigservice

import (
	"context"
	"fmt"

	"github.com/open-ladder/ranksync/internal/results"
	"github.com/uptrace/bun"
)

// ListAutoSyncGuilds returns the IDs of guilds with automatic sync enabled.
func (s *GuildConfigService) ListAutoSyncGuilds(ctx context.Context) ([]string, error) {
	listTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]string, error], error) {
		return s.listAutoSyncGuildsLogic(ctx, db)
	}

	result, err := withTelemetry(s, ctx, "ListAutoSyncGuilds", "all", func(ctx context.Context) (results.OperationResult[[]string, error], error) {
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

// listAutoSyncGuildsLogic contains the core logic.
func (s *GuildConfigService) listAutoSyncGuildsLogic(ctx context.Context, db bun.IDB) (results.OperationResult[[]string, error], error) {
	guildIDs, err := s.repo.ListAutoSyncGuilds(ctx, db)
	if err != nil {
		return results.OperationResult[[]string, error]{}, fmt.Errorf("failed to list auto-sync guilds: %w", err)
	}

	return results.SuccessResult[[]string, error](guildIDs), nil
}

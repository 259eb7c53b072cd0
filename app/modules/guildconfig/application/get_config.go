package guildconfigservice

import (
	"context"
	"errors"
	"fmt"

	guildconfigdomain "github.com/open-ladder/ranksync/app/modules/guildconfig/domain"
	guildconfigdb "github.com/open-ladder/ranksync/app/modules/guildconfig/infrastructure/repositories"
	"github.com/open-ladder/ranksync/internal/results"
	"github.com/uptrace/bun"
)

// GetConfig returns the stored config for a guild, or the defaults when the
// guild has never been configured.
func (s *GuildConfigService) GetConfig(ctx context.Context, guildID string) (*guildconfigdomain.GuildConfig, error) {
	getTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*guildconfigdomain.GuildConfig, error], error) {
		return s.getConfigLogic(ctx, db, guildID)
	}

	result, err := withTelemetry(s, ctx, "GetConfig", guildID, func(ctx context.Context) (results.OperationResult[*guildconfigdomain.GuildConfig, error], error) {
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

// getConfigLogic contains the core logic.
func (s *GuildConfigService) getConfigLogic(ctx context.Context, db bun.IDB, guildID string) (results.OperationResult[*guildconfigdomain.GuildConfig, error], error) {
	if guildID == "" {
		return results.FailureResult[*guildconfigdomain.GuildConfig, error](guildconfigdomain.ErrMissingGuildID), nil
	}

	config, err := s.repo.GetConfig(ctx, db, guildID)
	if err != nil {
		if errors.Is(err, guildconfigdb.ErrNotFound) {
			return results.SuccessResult[*guildconfigdomain.GuildConfig, error](guildconfigdomain.Defaults(guildID)), nil
		}
		return results.OperationResult[*guildconfigdomain.GuildConfig, error]{}, fmt.Errorf("failed to get guild config: %w", err)
	}

	return results.SuccessResult[*guildconfigdomain.GuildConfig, error](config), nil
}

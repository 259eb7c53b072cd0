package guildconfigservice

import (
	"context"
	"errors"
	"fmt"

	guildconfigdomain "github.com/open-ladder/ranksync/app/modules/guildconfig/domain"
	"github.com/open-ladder/ranksync/internal/results"
	"github.com/uptrace/bun"
)

// ErrNilConfig is returned when an update carries no config at all.
var ErrNilConfig = errors.New("config cannot be nil")

// UpsertConfig validates and stores a full replacement config.
func (s *GuildConfigService) UpsertConfig(ctx context.Context, config *guildconfigdomain.GuildConfig) (*guildconfigdomain.GuildConfig, error) {
	identifier := ""
	if config != nil {
		identifier = config.GuildID
	}

	upsertTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*guildconfigdomain.GuildConfig, error], error) {
		return s.upsertConfigLogic(ctx, db, config)
	}

	result, err := withTelemetry(s, ctx, "UpsertConfig", identifier, func(ctx context.Context) (results.OperationResult[*guildconfigdomain.GuildConfig, error], error) {
		return runInTx(s, ctx, upsertTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// upsertConfigLogic contains the core logic.
func (s *GuildConfigService) upsertConfigLogic(ctx context.Context, db bun.IDB, config *guildconfigdomain.GuildConfig) (results.OperationResult[*guildconfigdomain.GuildConfig, error], error) {
	if config == nil {
		return results.FailureResult[*guildconfigdomain.GuildConfig, error](ErrNilConfig), nil
	}
	if err := config.Validate(); err != nil {
		return results.FailureResult[*guildconfigdomain.GuildConfig, error](err), nil
	}

	if err := s.repo.UpsertConfig(ctx, db, config); err != nil {
		return results.OperationResult[*guildconfigdomain.GuildConfig, error]{}, fmt.Errorf("failed to upsert guild config: %w", err)
	}

	return results.SuccessResult[*guildconfigdomain.GuildConfig, error](config), nil
}

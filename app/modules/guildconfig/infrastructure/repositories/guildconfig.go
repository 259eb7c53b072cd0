package guildconfigdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	guildconfigdomain "github.com/open-ladder/ranksync/app/modules/guildconfig/domain"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a guild has no stored config.
var ErrNotFound = errors.New("guild config not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new guild config repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetConfig retrieves the stored config for a guild.
func (r *Impl) GetConfig(ctx context.Context, db bun.IDB, guildID string) (*guildconfigdomain.GuildConfig, error) {
	db = r.resolveDB(db)
	model := new(GuildConfig)
	err := db.NewSelect().
		Model(model).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}
	return toDomain(model), nil
}

// UpsertConfig creates or replaces a guild's config.
func (r *Impl) UpsertConfig(ctx context.Context, db bun.IDB, config *guildconfigdomain.GuildConfig) error {
	db = r.resolveDB(db)
	model := toModel(config)
	model.UpdatedAt = time.Now()
	_, err := db.NewInsert().
		Model(model).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("auto_sync_enabled = EXCLUDED.auto_sync_enabled").
		Set("notify_channel_id = EXCLUDED.notify_channel_id").
		Set("min_notify_rating = EXCLUDED.min_notify_rating").
		Set("provisional_roles = EXCLUDED.provisional_roles").
		Set("trusted_role = EXCLUDED.trusted_role").
		Set("trusted_min_rating = EXCLUDED.trusted_min_rating").
		Set("trusted_cutoff = EXCLUDED.trusted_cutoff").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert guild config: %w", err)
	}
	return nil
}

// ListAutoSyncGuilds returns the IDs of guilds with automatic sync enabled.
func (r *Impl) ListAutoSyncGuilds(ctx context.Context, db bun.IDB) ([]string, error) {
	db = r.resolveDB(db)
	var guildIDs []string
	err := db.NewSelect().
		Model((*GuildConfig)(nil)).
		Column("guild_id").
		Where("auto_sync_enabled = ?", true).
		Order("guild_id ASC").
		Scan(ctx, &guildIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list auto-sync guilds: %w", err)
	}
	return guildIDs, nil
}

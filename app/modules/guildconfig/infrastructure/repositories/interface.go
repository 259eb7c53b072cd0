package guildconfigdb

import (
	"context"

	guildconfigdomain "github.com/open-ladder/ranksync/app/modules/guildconfig/domain"
	"github.com/uptrace/bun"
)

// Repository defines the contract for guild config persistence.
type Repository interface {
	// GetConfig retrieves the stored config for a guild.
	GetConfig(ctx context.Context, db bun.IDB, guildID string) (*guildconfigdomain.GuildConfig, error)

	// UpsertConfig creates or replaces a guild's config.
	UpsertConfig(ctx context.Context, db bun.IDB, config *guildconfigdomain.GuildConfig) error

	// ListAutoSyncGuilds returns the IDs of guilds with automatic sync enabled.
	ListAutoSyncGuilds(ctx context.Context, db bun.IDB) ([]string, error)
}

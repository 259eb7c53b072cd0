package guildconfigservice

import (
	"context"

	guildconfigdomain "github.com/open-ladder/ranksync/app/modules/guildconfig/domain"
)

// Service defines the guild configuration operations.
type Service interface {
	// GetConfig returns the stored config for a guild, or the defaults when
	// the guild has never been configured.
	GetConfig(ctx context.Context, guildID string) (*guildconfigdomain.GuildConfig, error)

	// UpsertConfig validates and stores a full replacement config.
	UpsertConfig(ctx context.Context, config *guildconfigdomain.GuildConfig) (*guildconfigdomain.GuildConfig, error)

	// ListAutoSyncGuilds returns the IDs of guilds with automatic sync enabled.
	ListAutoSyncGuilds(ctx context.Context) ([]string, error)
}

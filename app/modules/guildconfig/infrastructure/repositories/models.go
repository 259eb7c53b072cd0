package guildconfigdb

import (
	"time"

	guildconfigdomain "github.com/open-ladder/ranksync/app/modules/guildconfig/domain"
	"github.com/uptrace/bun"
)

// GuildConfig is the persistence model for per-guild sync settings.
type GuildConfig struct {
	bun.BaseModel `bun:"table:guild_configs,alias:gc"`

	ID               int64      `bun:"id,pk,autoincrement" json:"id"`
	GuildID          string     `bun:"guild_id,unique,notnull" json:"guild_id"`
	AutoSyncEnabled  bool       `bun:"auto_sync_enabled,notnull" json:"auto_sync_enabled"`
	NotifyChannelID  string     `bun:"notify_channel_id,nullzero" json:"notify_channel_id,omitempty"`
	MinNotifyRating  int        `bun:"min_notify_rating,notnull" json:"min_notify_rating"`
	ProvisionalRoles []string   `bun:"provisional_roles,array" json:"provisional_roles,omitempty"`
	TrustedRole      string     `bun:"trusted_role,nullzero" json:"trusted_role,omitempty"`
	TrustedMinRating int        `bun:"trusted_min_rating,notnull" json:"trusted_min_rating"`
	TrustedCutoff    *time.Time `bun:"trusted_cutoff,nullzero" json:"trusted_cutoff,omitempty"`
	CreatedAt        time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func toDomain(m *GuildConfig) *guildconfigdomain.GuildConfig {
	if m == nil {
		return nil
	}
	return &guildconfigdomain.GuildConfig{
		GuildID:          m.GuildID,
		AutoSyncEnabled:  m.AutoSyncEnabled,
		NotifyChannelID:  m.NotifyChannelID,
		MinNotifyRating:  m.MinNotifyRating,
		ProvisionalRoles: m.ProvisionalRoles,
		TrustedRole:      m.TrustedRole,
		TrustedMinRating: m.TrustedMinRating,
		TrustedCutoff:    m.TrustedCutoff,
	}
}

func toModel(c *guildconfigdomain.GuildConfig) *GuildConfig {
	if c == nil {
		return nil
	}
	return &GuildConfig{
		GuildID:          c.GuildID,
		AutoSyncEnabled:  c.AutoSyncEnabled,
		NotifyChannelID:  c.NotifyChannelID,
		MinNotifyRating:  c.MinNotifyRating,
		ProvisionalRoles: c.ProvisionalRoles,
		TrustedRole:      c.TrustedRole,
		TrustedMinRating: c.TrustedMinRating,
		TrustedCutoff:    c.TrustedCutoff,
	}
}

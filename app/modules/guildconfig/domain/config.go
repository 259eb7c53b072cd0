package guildconfigdomain

import (
	"errors"
	"time"
)

// GuildConfig holds the per-guild synchronization settings.
type GuildConfig struct {
	GuildID          string
	AutoSyncEnabled  bool
	NotifyChannelID  string
	MinNotifyRating  int
	ProvisionalRoles []string
	TrustedRole      string
	TrustedMinRating int
	TrustedCutoff    *time.Time
}

// DefaultMinNotifyRating is the rating floor below which rank-up notices
// are suppressed unless a guild overrides it.
const DefaultMinNotifyRating = 1200

var (
	ErrMissingGuildID        = errors.New("guild id is required")
	ErrNegativeNotifyRating  = errors.New("min notify rating cannot be negative")
	ErrTrustedRoleIncomplete = errors.New("trusted role requires a positive min rating")
)

// Defaults returns the configuration a guild gets before anyone has
// customized it.
func Defaults(guildID string) *GuildConfig {
	return &GuildConfig{
		GuildID:         guildID,
		AutoSyncEnabled: true,
		MinNotifyRating: DefaultMinNotifyRating,
	}
}

// Validate checks the invariants a config must satisfy before it is stored.
func (c *GuildConfig) Validate() error {
	if c.GuildID == "" {
		return ErrMissingGuildID
	}
	if c.MinNotifyRating < 0 {
		return ErrNegativeNotifyRating
	}
	if c.TrustedRole != "" && c.TrustedMinRating <= 0 {
		return ErrTrustedRoleIncomplete
	}
	return nil
}

// ProvisionalRoleSet returns the provisional role names as a membership set.
func (c *GuildConfig) ProvisionalRoleSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.ProvisionalRoles))
	for _, role := range c.ProvisionalRoles {
		set[role] = struct{}{}
	}
	return set
}

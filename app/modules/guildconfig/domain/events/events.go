package guildconfigevents

import "time"

// Stream name for guild configuration events.
const GuildConfigStream = "guildconfig"

// Guild configuration event subjects.
const (
	UpdateRequestedV1 = "guildconfig.update.requested.v1"
	UpdatedV1         = "guildconfig.updated.v1"
	UpdateFailedV1    = "guildconfig.update.failed.v1"
)

// UpdateRequestedPayloadV1 carries a full replacement config for a guild.
type UpdateRequestedPayloadV1 struct {
	GuildID          string     `json:"guild_id"`
	AutoSyncEnabled  bool       `json:"auto_sync_enabled"`
	NotifyChannelID  string     `json:"notify_channel_id,omitempty"`
	MinNotifyRating  int        `json:"min_notify_rating"`
	ProvisionalRoles []string   `json:"provisional_roles,omitempty"`
	TrustedRole      string     `json:"trusted_role,omitempty"`
	TrustedMinRating int        `json:"trusted_min_rating,omitempty"`
	TrustedCutoff    *time.Time `json:"trusted_cutoff,omitempty"`
}

// UpdatedPayloadV1 reports the stored config after a successful update.
type UpdatedPayloadV1 struct {
	GuildID          string     `json:"guild_id"`
	AutoSyncEnabled  bool       `json:"auto_sync_enabled"`
	NotifyChannelID  string     `json:"notify_channel_id,omitempty"`
	MinNotifyRating  int        `json:"min_notify_rating"`
	ProvisionalRoles []string   `json:"provisional_roles,omitempty"`
	TrustedRole      string     `json:"trusted_role,omitempty"`
	TrustedMinRating int        `json:"trusted_min_rating,omitempty"`
	TrustedCutoff    *time.Time `json:"trusted_cutoff,omitempty"`
}

// UpdateFailedPayloadV1 reports why a config update was rejected.
type UpdateFailedPayloadV1 struct {
	GuildID string `json:"guild_id"`
	Reason  string `json:"reason"`
}

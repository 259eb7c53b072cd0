package ranksyncservice

import (
	"context"
	"time"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
)

// RatingService is the read side of the external rating provider.
type RatingService interface {
	// GetCurrentRatings fetches the current and best-ever ratings for all
	// handles in one call. The result is keyed by the requested handles, not
	// by whatever casing the provider echoes back. A handle unknown to the
	// provider is absent from the result rather than an error.
	GetCurrentRatings(ctx context.Context, handles []ranksyncdomain.Handle) (map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot, error)

	// GetRatingHistory returns one handle's rating history, oldest first.
	GetRatingHistory(ctx context.Context, handle ranksyncdomain.Handle) ([]ranksyncdomain.RatingPoint, error)
}

// RoleDirectory reads and mutates the chat platform's role assignments.
// Mutations are rate-limited by the implementation; callers serialize them
// per guild through the run-guard.
type RoleDirectory interface {
	GuildRoleNames(ctx context.Context, guildID ranksyncdomain.GuildID) (ranksyncdomain.RoleSet, error)
	MemberRoles(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (ranksyncdomain.RoleSet, error)
	AddRoles(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID, roleNames []string, reason string) error
	RemoveRoles(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID, roleNames []string, reason string) error
}

// AchievementStore persists the per-member achievement ledger. Each Upsert is
// independently atomic.
type AchievementStore interface {
	// Get returns the stored record, or (nil, nil) when the member has none
	// yet.
	Get(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (*ranksyncdomain.AchievementRecord, error)
	Upsert(ctx context.Context, member ranksyncdomain.Member, record ranksyncdomain.AchievementRecord) error
}

// LinkSource resolves member-to-handle links.
type LinkSource interface {
	// GuildMembers returns every linked member of the guild.
	GuildMembers(ctx context.Context, guildID ranksyncdomain.GuildID) ([]ranksyncdomain.Member, error)

	// MembersByHandles returns the guild's linked members whose handle is in
	// handles, matched case-insensitively. Members returned carry their
	// normalized handle.
	MembersByHandles(ctx context.Context, guildID ranksyncdomain.GuildID, handles []ranksyncdomain.Handle) ([]ranksyncdomain.Member, error)

	// GuildsWithHandles returns the guilds in which at least one of the
	// handles is linked.
	GuildsWithHandles(ctx context.Context, handles []ranksyncdomain.Handle) ([]ranksyncdomain.GuildID, error)
}

// GuildSettings is the slice of a guild's configuration the sync engine acts
// on.
type GuildSettings struct {
	AutoSyncEnabled  bool
	NotifyChannelID  string
	MinNotifyRating  int
	ProvisionalRoles []string
	TrustedRole      string
	TrustedMinRating int
	TrustedCutoff    *time.Time
}

// SettingsProvider supplies per-guild sync settings.
type SettingsProvider interface {
	// GuildSettings returns the guild's settings, falling back to defaults
	// for a guild that was never configured.
	GuildSettings(ctx context.Context, guildID ranksyncdomain.GuildID) (GuildSettings, error)

	// AutoSyncGuildIDs returns the guilds with automatic sync enabled.
	AutoSyncGuildIDs(ctx context.Context) ([]ranksyncdomain.GuildID, error)
}

// RankUpNotice announces one member's new achievement.
type RankUpNotice struct {
	Member    ranksyncdomain.Member
	ChannelID string
	Rating    int
	Tier      ranksyncdomain.RankTier
	// Previous is the ledger record before this observation, nil on the
	// member's first.
	Previous  *ranksyncdomain.AchievementRecord
	IsNewMax  bool
	IsNewRank bool
}

// NotificationSink delivers achievement notices. Delivery is best effort;
// the engine logs a failed delivery and moves on, it never retries.
type NotificationSink interface {
	NotifyRankUp(ctx context.Context, notice RankUpNotice) error
}

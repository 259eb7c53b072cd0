package ranksyncservice

import (
	"context"
	"errors"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
)

// Validation sentinels returned by the exposed operations.
var (
	ErrMissingGuildID       = errors.New("guild id is required")
	ErrMissingMemberID      = errors.New("member id is required")
	ErrAchievementNotFound  = errors.New("no achievement record for member")
	ErrEmptyBatch           = errors.New("rating change batch has no entries")
	ErrMissingCompetitionID = errors.New("rating change batch has no competition id")
)

// Service defines the rank synchronization operations.
type Service interface {
	// RunSweep reconciles every linked member of one guild: role diffs are
	// applied, the achievement ledger converges toward the best-known
	// ratings, and new achievements are announced.
	RunSweep(ctx context.Context, guildID ranksyncdomain.GuildID) (ranksyncdomain.SyncSummary, error)

	// HandleRatingChangeBatch processes one competition's rating movements
	// across every guild where an affected handle is linked. Guilds run
	// concurrently and independently; each gets its own outcome.
	HandleRatingChangeBatch(ctx context.Context, batch ranksyncdomain.RatingChangeBatch) (BatchOutcome, error)

	// SeedAchievements backfills the achievement ledger of every linked
	// member from rating history, without touching roles or announcing
	// anything.
	SeedAchievements(ctx context.Context, guildID ranksyncdomain.GuildID) (ranksyncdomain.SyncSummary, error)

	// GetAchievement returns one member's ledger record, or
	// ErrAchievementNotFound.
	GetAchievement(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (*ranksyncdomain.AchievementRecord, error)

	// StripRankRoles removes every rank-namespace role the member holds,
	// returning the removed role names. The achievement ledger is retained.
	StripRankRoles(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) ([]string, error)
}

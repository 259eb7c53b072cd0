package ranksyncdb

import (
	"context"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/uptrace/bun"
)

// Repository defines the contract for achievement ledger persistence.
type Repository interface {
	// Get retrieves one member's ledger record.
	Get(ctx context.Context, db bun.IDB, guildID, memberID string) (*ranksyncdomain.AchievementRecord, error)

	// Upsert creates or replaces one member's ledger record atomically.
	Upsert(ctx context.Context, db bun.IDB, member ranksyncdomain.Member, record ranksyncdomain.AchievementRecord) error

	// ListByGuild retrieves every ledger record in a guild, keyed by member ID.
	ListByGuild(ctx context.Context, db bun.IDB, guildID string) (map[string]ranksyncdomain.AchievementRecord, error)
}

package ranksyncdb

import (
	"time"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/uptrace/bun"
)

// RankAchievement is the persistence model for the per-member achievement
// ledger. One row per (guild, member); the handle column records which handle
// earned the row and is informational only.
type RankAchievement struct {
	bun.BaseModel `bun:"table:rank_achievements,alias:ra"`

	ID              int64     `bun:"id,pk,autoincrement" json:"id"`
	GuildID         string    `bun:"guild_id,notnull" json:"guild_id"`
	MemberID        string    `bun:"member_id,notnull" json:"member_id"`
	Handle          string    `bun:"handle,nullzero" json:"handle,omitempty"`
	MaxRatingSeen   *int      `bun:"max_rating_seen" json:"max_rating_seen,omitempty"`
	HighestRankSeen *string   `bun:"highest_rank_seen,nullzero" json:"highest_rank_seen,omitempty"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func toRecord(m *RankAchievement) *ranksyncdomain.AchievementRecord {
	if m == nil {
		return nil
	}
	return &ranksyncdomain.AchievementRecord{
		MaxRatingSeen:   m.MaxRatingSeen,
		HighestRankSeen: m.HighestRankSeen,
	}
}

package ranksyncdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when no ledger record exists for the lookup.
var ErrNotFound = errors.New("achievement record not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new achievement ledger repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Get retrieves one member's ledger record.
func (r *Impl) Get(ctx context.Context, db bun.IDB, guildID, memberID string) (*ranksyncdomain.AchievementRecord, error) {
	db = r.resolveDB(db)
	model := new(RankAchievement)
	err := db.NewSelect().
		Model(model).
		Where("guild_id = ?", guildID).
		Where("member_id = ?", memberID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get achievement record: %w", err)
	}
	return toRecord(model), nil
}

// Upsert creates or replaces one member's ledger record atomically.
func (r *Impl) Upsert(ctx context.Context, db bun.IDB, member ranksyncdomain.Member, record ranksyncdomain.AchievementRecord) error {
	db = r.resolveDB(db)
	model := &RankAchievement{
		GuildID:         string(member.GuildID),
		MemberID:        string(member.MemberID),
		Handle:          string(member.Handle),
		MaxRatingSeen:   record.MaxRatingSeen,
		HighestRankSeen: record.HighestRankSeen,
		UpdatedAt:       time.Now(),
	}
	_, err := db.NewInsert().
		Model(model).
		On("CONFLICT (guild_id, member_id) DO UPDATE").
		Set("handle = EXCLUDED.handle").
		Set("max_rating_seen = EXCLUDED.max_rating_seen").
		Set("highest_rank_seen = EXCLUDED.highest_rank_seen").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert achievement record: %w", err)
	}
	return nil
}

// ListByGuild retrieves every ledger record in a guild, keyed by member ID.
func (r *Impl) ListByGuild(ctx context.Context, db bun.IDB, guildID string) (map[string]ranksyncdomain.AchievementRecord, error) {
	db = r.resolveDB(db)
	var models []RankAchievement
	err := db.NewSelect().
		Model(&models).
		Where("guild_id = ?", guildID).
		Order("member_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievement records: %w", err)
	}

	records := make(map[string]ranksyncdomain.AchievementRecord, len(models))
	for i := range models {
		records[models[i].MemberID] = *toRecord(&models[i])
	}
	return records, nil
}

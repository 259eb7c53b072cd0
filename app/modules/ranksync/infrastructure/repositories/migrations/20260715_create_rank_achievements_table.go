package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if err := CreateRankAchievementsTable(ctx, db); err != nil {
				return err
			}

			fmt.Println("Adding rank_achievements uniqueness constraint...")
			if _, err := db.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_rank_achievements_guild_member
					ON rank_achievements (guild_id, member_id);
			`); err != nil {
				return fmt.Errorf("failed to add rank_achievements index: %w", err)
			}
			fmt.Println("rank_achievements constraint added successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			return DropRankAchievementsTable(ctx, db)
		},
	)
}

package migrations

import (
	"context"
	"fmt"

	ranksyncdb "github.com/open-ladder/ranksync/app/modules/ranksync/infrastructure/repositories"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

// CreateRankAchievementsTable creates the rank_achievements table using the Bun model.
func CreateRankAchievementsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Creating rank_achievements table...")
	_, err := db.NewCreateTable().Model((*ranksyncdb.RankAchievement)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create rank_achievements table: %w", err)
	}
	fmt.Println("rank_achievements table created successfully!")
	return nil
}

// DropRankAchievementsTable drops the rank_achievements table.
func DropRankAchievementsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Dropping rank_achievements table...")
	_, err := db.NewDropTable().Model((*ranksyncdb.RankAchievement)(nil)).IfExists().Cascade().Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to drop rank_achievements table: %w", err)
	}
	fmt.Println("rank_achievements table dropped successfully!")
	return nil
}

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}

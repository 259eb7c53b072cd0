package migrations

import (
	"context"
	"fmt"

	guildconfigdb "github.com/open-ladder/ranksync/app/modules/guildconfig/infrastructure/repositories"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

// CreateGuildConfigsTable creates the guild_configs table using the Bun model.
func CreateGuildConfigsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Creating guild_configs table...")
	_, err := db.NewCreateTable().Model((*guildconfigdb.GuildConfig)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create guild_configs table: %w", err)
	}
	fmt.Println("guild_configs table created successfully!")
	return nil
}

// DropGuildConfigsTable drops the guild_configs table.
func DropGuildConfigsTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Dropping guild_configs table...")
	_, err := db.NewDropTable().Model((*guildconfigdb.GuildConfig)(nil)).IfExists().Cascade().Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to drop guild_configs table: %w", err)
	}
	fmt.Println("guild_configs table dropped successfully!")
	return nil
}

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}

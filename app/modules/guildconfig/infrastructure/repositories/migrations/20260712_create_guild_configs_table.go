package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if err := CreateGuildConfigsTable(ctx, db); err != nil {
				return err
			}
			fmt.Println("Adding min_notify_rating default...")
			if _, err := db.ExecContext(ctx, `
				ALTER TABLE guild_configs
				ALTER COLUMN min_notify_rating SET DEFAULT 1200;
			`); err != nil {
				return fmt.Errorf("failed to set min_notify_rating default: %w", err)
			}
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			return DropGuildConfigsTable(ctx, db)
		},
	)
}

package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if err := CreateHandleLinksTable(ctx, db); err != nil {
				return err
			}

			fmt.Println("Adding handle_links uniqueness constraints...")
			if _, err := db.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_handle_links_guild_member
					ON handle_links (guild_id, member_id);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_handle_links_guild_handle
					ON handle_links (guild_id, lower(handle));
			`); err != nil {
				return fmt.Errorf("failed to add handle_links indexes: %w", err)
			}
			fmt.Println("handle_links constraints added successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			return DropHandleLinksTable(ctx, db)
		},
	)
}

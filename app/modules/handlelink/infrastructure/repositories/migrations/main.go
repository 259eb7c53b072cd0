package migrations

import (
	"context"
	"fmt"

	handlelinkdb "github.com/open-ladder/ranksync/app/modules/handlelink/infrastructure/repositories"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

// CreateHandleLinksTable creates the handle_links table using the Bun model.
func CreateHandleLinksTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Creating handle_links table...")
	_, err := db.NewCreateTable().Model((*handlelinkdb.HandleLink)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create handle_links table: %w", err)
	}
	fmt.Println("handle_links table created successfully!")
	return nil
}

// DropHandleLinksTable drops the handle_links table.
func DropHandleLinksTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Dropping handle_links table...")
	_, err := db.NewDropTable().Model((*handlelinkdb.HandleLink)(nil)).IfExists().Cascade().Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to drop handle_links table: %w", err)
	}
	fmt.Println("handle_links table dropped successfully!")
	return nil
}

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}

package handlelinkdb

import (
	"context"

	handlelinkdomain "github.com/open-ladder/ranksync/app/modules/handlelink/domain"
	"github.com/uptrace/bun"
)

// Repository defines the contract for handle link persistence.
type Repository interface {
	// GetByMember retrieves a member's link.
	GetByMember(ctx context.Context, db bun.IDB, guildID, memberID string) (*handlelinkdomain.Link, error)

	// GetByHandle retrieves the link holding a handle, compared
	// case-insensitively.
	GetByHandle(ctx context.Context, db bun.IDB, guildID, handle string) (*handlelinkdomain.Link, error)

	// GetByHandles retrieves all links in a guild whose handles match the
	// given set, compared case-insensitively.
	GetByHandles(ctx context.Context, db bun.IDB, guildID string, handles []string) ([]handlelinkdomain.Link, error)

	// GuildsWithHandles retrieves the IDs of every guild linking at least one
	// of the given handles, compared case-insensitively.
	GuildsWithHandles(ctx context.Context, db bun.IDB, handles []string) ([]string, error)

	// ListByGuild retrieves every link in a guild.
	ListByGuild(ctx context.Context, db bun.IDB, guildID string) ([]handlelinkdomain.Link, error)

	// Upsert creates or replaces a member's link.
	Upsert(ctx context.Context, db bun.IDB, link *handlelinkdomain.Link) error

	// Remove deletes a member's link.
	Remove(ctx context.Context, db bun.IDB, guildID, memberID string) error
}

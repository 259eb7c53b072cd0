package handlelinkservice

import (
	"context"

	handlelinkdomain "github.com/open-ladder/ranksync/app/modules/handlelink/domain"
)

// Service defines the handle link operations.
type Service interface {
	// SetLink links a member to a handle, replacing the member's previous
	// link. It fails when another member in the guild already holds the
	// handle.
	SetLink(ctx context.Context, guildID, memberID, handle string) (*handlelinkdomain.Link, error)

	// GetLink returns a member's link.
	GetLink(ctx context.Context, guildID, memberID string) (*handlelinkdomain.Link, error)

	// RemoveLink deletes a member's link and returns what was removed.
	RemoveLink(ctx context.Context, guildID, memberID string) (*handlelinkdomain.Link, error)

	// ListGuildLinks returns every link in a guild.
	ListGuildLinks(ctx context.Context, guildID string) ([]handlelinkdomain.Link, error)

	// ResolveHandles maps normalized handles to member IDs for the guild
	// members currently linked to them.
	ResolveHandles(ctx context.Context, guildID string, handles []string) (map[string]string, error)

	// GuildsWithHandles returns the IDs of every guild linking at least one
	// of the given handles.
	GuildsWithHandles(ctx context.Context, handles []string) ([]string, error)

	// BulkImport links many members at once, reporting per-row failures.
	BulkImport(ctx context.Context, guildID string, rows []handlelinkdomain.ImportRow) (*handlelinkdomain.ImportReport, error)
}

package handlelinkdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	handlelinkdomain "github.com/open-ladder/ranksync/app/modules/handlelink/domain"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when no link exists for the lookup.
var ErrNotFound = errors.New("handle link not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new handle link repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetByMember retrieves a member's link.
func (r *Impl) GetByMember(ctx context.Context, db bun.IDB, guildID, memberID string) (*handlelinkdomain.Link, error) {
	db = r.resolveDB(db)
	model := new(HandleLink)
	err := db.NewSelect().
		Model(model).
		Where("guild_id = ?", guildID).
		Where("member_id = ?", memberID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get link by member: %w", err)
	}
	return toDomain(model), nil
}

// GetByHandle retrieves the link holding a handle, compared case-insensitively.
func (r *Impl) GetByHandle(ctx context.Context, db bun.IDB, guildID, handle string) (*handlelinkdomain.Link, error) {
	db = r.resolveDB(db)
	model := new(HandleLink)
	err := db.NewSelect().
		Model(model).
		Where("guild_id = ?", guildID).
		Where("lower(handle) = ?", handlelinkdomain.NormalizeHandle(handle)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get link by handle: %w", err)
	}
	return toDomain(model), nil
}

// GetByHandles retrieves all links in a guild whose handles match the given
// set, compared case-insensitively.
func (r *Impl) GetByHandles(ctx context.Context, db bun.IDB, guildID string, handles []string) ([]handlelinkdomain.Link, error) {
	if len(handles) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)

	normalized := make([]string, 0, len(handles))
	for _, h := range handles {
		normalized = append(normalized, handlelinkdomain.NormalizeHandle(h))
	}

	var models []HandleLink
	err := db.NewSelect().
		Model(&models).
		Where("guild_id = ?", guildID).
		Where("lower(handle) IN (?)", bun.In(normalized)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get links by handles: %w", err)
	}

	links := make([]handlelinkdomain.Link, 0, len(models))
	for i := range models {
		links = append(links, *toDomain(&models[i]))
	}
	return links, nil
}

// GuildsWithHandles retrieves the IDs of every guild linking at least one of
// the given handles, compared case-insensitively.
func (r *Impl) GuildsWithHandles(ctx context.Context, db bun.IDB, handles []string) ([]string, error) {
	if len(handles) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)

	normalized := make([]string, 0, len(handles))
	for _, h := range handles {
		normalized = append(normalized, handlelinkdomain.NormalizeHandle(h))
	}

	var guildIDs []string
	err := db.NewSelect().
		Model((*HandleLink)(nil)).
		ColumnExpr("DISTINCT guild_id").
		Where("lower(handle) IN (?)", bun.In(normalized)).
		Order("guild_id ASC").
		Scan(ctx, &guildIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find guilds by handles: %w", err)
	}
	return guildIDs, nil
}

// ListByGuild retrieves every link in a guild.
func (r *Impl) ListByGuild(ctx context.Context, db bun.IDB, guildID string) ([]handlelinkdomain.Link, error) {
	db = r.resolveDB(db)
	var models []HandleLink
	err := db.NewSelect().
		Model(&models).
		Where("guild_id = ?", guildID).
		Order("member_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	links := make([]handlelinkdomain.Link, 0, len(models))
	for i := range models {
		links = append(links, *toDomain(&models[i]))
	}
	return links, nil
}

// Upsert creates or replaces a member's link.
func (r *Impl) Upsert(ctx context.Context, db bun.IDB, link *handlelinkdomain.Link) error {
	db = r.resolveDB(db)
	model := toModel(link)
	model.LinkedAt = time.Now()
	_, err := db.NewInsert().
		Model(model).
		On("CONFLICT (guild_id, member_id) DO UPDATE").
		Set("handle = EXCLUDED.handle").
		Set("linked_at = EXCLUDED.linked_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert link: %w", err)
	}
	return nil
}

// Remove deletes a member's link.
func (r *Impl) Remove(ctx context.Context, db bun.IDB, guildID, memberID string) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*HandleLink)(nil)).
		Where("guild_id = ?", guildID).
		Where("member_id = ?", memberID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove link: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

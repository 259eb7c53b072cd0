package handlelinkservice

import (
	"context"

	handlelinkdomain "github.com/open-ladder/ranksync/app/modules/handlelink/domain"
	handlelinkdb "github.com/open-ladder/ranksync/app/modules/handlelink/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// FakeRepository provides a programmable stub for the handlelinkdb.Repository interface.
type FakeRepository struct {
	trace []string

	GetByMemberFunc       func(ctx context.Context, db bun.IDB, guildID, memberID string) (*handlelinkdomain.Link, error)
	GetByHandleFunc       func(ctx context.Context, db bun.IDB, guildID, handle string) (*handlelinkdomain.Link, error)
	GetByHandlesFunc      func(ctx context.Context, db bun.IDB, guildID string, handles []string) ([]handlelinkdomain.Link, error)
	GuildsWithHandlesFunc func(ctx context.Context, db bun.IDB, handles []string) ([]string, error)
	ListByGuildFunc       func(ctx context.Context, db bun.IDB, guildID string) ([]handlelinkdomain.Link, error)
	UpsertFunc            func(ctx context.Context, db bun.IDB, link *handlelinkdomain.Link) error
	RemoveFunc            func(ctx context.Context, db bun.IDB, guildID, memberID string) error
}

// NewFakeRepository initializes a new FakeRepository with an empty trace.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRepository) GetByMember(ctx context.Context, db bun.IDB, guildID, memberID string) (*handlelinkdomain.Link, error) {
	f.record("GetByMember")
	if f.GetByMemberFunc != nil {
		return f.GetByMemberFunc(ctx, db, guildID, memberID)
	}
	return nil, handlelinkdb.ErrNotFound
}

func (f *FakeRepository) GetByHandle(ctx context.Context, db bun.IDB, guildID, handle string) (*handlelinkdomain.Link, error) {
	f.record("GetByHandle")
	if f.GetByHandleFunc != nil {
		return f.GetByHandleFunc(ctx, db, guildID, handle)
	}
	return nil, handlelinkdb.ErrNotFound
}

func (f *FakeRepository) GetByHandles(ctx context.Context, db bun.IDB, guildID string, handles []string) ([]handlelinkdomain.Link, error) {
	f.record("GetByHandles")
	if f.GetByHandlesFunc != nil {
		return f.GetByHandlesFunc(ctx, db, guildID, handles)
	}
	return nil, nil
}

func (f *FakeRepository) GuildsWithHandles(ctx context.Context, db bun.IDB, handles []string) ([]string, error) {
	f.record("GuildsWithHandles")
	if f.GuildsWithHandlesFunc != nil {
		return f.GuildsWithHandlesFunc(ctx, db, handles)
	}
	return nil, nil
}

func (f *FakeRepository) ListByGuild(ctx context.Context, db bun.IDB, guildID string) ([]handlelinkdomain.Link, error) {
	f.record("ListByGuild")
	if f.ListByGuildFunc != nil {
		return f.ListByGuildFunc(ctx, db, guildID)
	}
	return nil, nil
}

func (f *FakeRepository) Upsert(ctx context.Context, db bun.IDB, link *handlelinkdomain.Link) error {
	f.record("Upsert")
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, db, link)
	}
	return nil
}

func (f *FakeRepository) Remove(ctx context.Context, db bun.IDB, guildID, memberID string) error {
	f.record("Remove")
	if f.RemoveFunc != nil {
		return f.RemoveFunc(ctx, db, guildID, memberID)
	}
	return nil
}

var _ handlelinkdb.Repository = (*FakeRepository)(nil)

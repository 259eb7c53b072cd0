package guildconfigservice

import (
	"context"

	guildconfigdomain "github.com/open-ladder/ranksync/app/modules/guildconfig/domain"
	guildconfigdb "github.com/open-ladder/ranksync/app/modules/guildconfig/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// FakeRepository provides a programmable stub for the guildconfigdb.Repository interface.
type FakeRepository struct {
	trace []string

	GetConfigFunc          func(ctx context.Context, db bun.IDB, guildID string) (*guildconfigdomain.GuildConfig, error)
	UpsertConfigFunc       func(ctx context.Context, db bun.IDB, config *guildconfigdomain.GuildConfig) error
	ListAutoSyncGuildsFunc func(ctx context.Context, db bun.IDB) ([]string, error)
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

func (f *FakeRepository) GetConfig(ctx context.Context, db bun.IDB, guildID string) (*guildconfigdomain.GuildConfig, error) {
	f.record("GetConfig")
	if f.GetConfigFunc != nil {
		return f.GetConfigFunc(ctx, db, guildID)
	}
	return nil, guildconfigdb.ErrNotFound
}

func (f *FakeRepository) UpsertConfig(ctx context.Context, db bun.IDB, config *guildconfigdomain.GuildConfig) error {
	f.record("UpsertConfig")
	if f.UpsertConfigFunc != nil {
		return f.UpsertConfigFunc(ctx, db, config)
	}
	return nil
}

func (f *FakeRepository) ListAutoSyncGuilds(ctx context.Context, db bun.IDB) ([]string, error) {
	f.record("ListAutoSyncGuilds")
	if f.ListAutoSyncGuildsFunc != nil {
		return f.ListAutoSyncGuildsFunc(ctx, db)
	}
	return nil, nil
}

var _ guildconfigdb.Repository = (*FakeRepository)(nil)

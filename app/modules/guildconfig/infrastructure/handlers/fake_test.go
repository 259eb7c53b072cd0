package guildconfighandlers

import (
	"context"

	guildconfigservice "github.com/open-ladder/ranksync/app/modules/guildconfig/application"
	guildconfigdomain "github.com/open-ladder/ranksync/app/modules/guildconfig/domain"
)

// FakeService provides a programmable stub for the guildconfigservice.Service interface.
type FakeService struct {
	GetConfigFunc          func(ctx context.Context, guildID string) (*guildconfigdomain.GuildConfig, error)
	UpsertConfigFunc       func(ctx context.Context, config *guildconfigdomain.GuildConfig) (*guildconfigdomain.GuildConfig, error)
	ListAutoSyncGuildsFunc func(ctx context.Context) ([]string, error)
}

func (f *FakeService) GetConfig(ctx context.Context, guildID string) (*guildconfigdomain.GuildConfig, error) {
	if f.GetConfigFunc != nil {
		return f.GetConfigFunc(ctx, guildID)
	}
	return guildconfigdomain.Defaults(guildID), nil
}

func (f *FakeService) UpsertConfig(ctx context.Context, config *guildconfigdomain.GuildConfig) (*guildconfigdomain.GuildConfig, error) {
	if f.UpsertConfigFunc != nil {
		return f.UpsertConfigFunc(ctx, config)
	}
	return config, nil
}

func (f *FakeService) ListAutoSyncGuilds(ctx context.Context) ([]string, error) {
	if f.ListAutoSyncGuildsFunc != nil {
		return f.ListAutoSyncGuildsFunc(ctx)
	}
	return nil, nil
}

var _ guildconfigservice.Service = (*FakeService)(nil)

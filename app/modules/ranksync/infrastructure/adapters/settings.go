package ranksyncadapters

import (
	"context"
	"fmt"

	guildconfigservice "github.com/open-ladder/ranksync/app/modules/guildconfig/application"
	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
)

// SettingsProvider adapts the guild config service to the sync service's
// settings port.
type SettingsProvider struct {
	configs guildconfigservice.Service
}

// NewSettingsProvider creates a new SettingsProvider.
func NewSettingsProvider(configs guildconfigservice.Service) *SettingsProvider {
	return &SettingsProvider{configs: configs}
}

func (p *SettingsProvider) GuildSettings(ctx context.Context, guildID ranksyncdomain.GuildID) (ranksyncservice.GuildSettings, error) {
	config, err := p.configs.GetConfig(ctx, string(guildID))
	if err != nil {
		return ranksyncservice.GuildSettings{}, fmt.Errorf("get guild config: %w", err)
	}
	return ranksyncservice.GuildSettings{
		AutoSyncEnabled:  config.AutoSyncEnabled,
		NotifyChannelID:  config.NotifyChannelID,
		MinNotifyRating:  config.MinNotifyRating,
		ProvisionalRoles: config.ProvisionalRoles,
		TrustedRole:      config.TrustedRole,
		TrustedMinRating: config.TrustedMinRating,
		TrustedCutoff:    config.TrustedCutoff,
	}, nil
}

func (p *SettingsProvider) AutoSyncGuildIDs(ctx context.Context) ([]ranksyncdomain.GuildID, error) {
	ids, err := p.configs.ListAutoSyncGuilds(ctx)
	if err != nil {
		return nil, fmt.Errorf("list auto sync guilds: %w", err)
	}
	guildIDs := make([]ranksyncdomain.GuildID, len(ids))
	for i, id := range ids {
		guildIDs[i] = ranksyncdomain.GuildID(id)
	}
	return guildIDs, nil
}

var _ ranksyncservice.SettingsProvider = (*SettingsProvider)(nil)

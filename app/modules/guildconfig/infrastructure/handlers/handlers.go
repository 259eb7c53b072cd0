package guildconfighandlers

import (
	"log/slog"

	guildconfigservice "github.com/open-ladder/ranksync/app/modules/guildconfig/application"
)

// GuildConfigHandlers implements the Handlers interface for guild config events.
type GuildConfigHandlers struct {
	service guildconfigservice.Service
	logger  *slog.Logger
}

// NewGuildConfigHandlers creates a new GuildConfigHandlers instance.
func NewGuildConfigHandlers(service guildconfigservice.Service, logger *slog.Logger) *GuildConfigHandlers {
	return &GuildConfigHandlers{
		service: service,
		logger:  logger,
	}
}

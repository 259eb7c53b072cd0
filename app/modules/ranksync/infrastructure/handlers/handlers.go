package ranksynchandlers

import (
	"log/slog"

	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
)

// RankSyncHandlers implements the Handlers interface for rank sync events.
type RankSyncHandlers struct {
	service ranksyncservice.Service
	logger  *slog.Logger
}

// NewRankSyncHandlers creates a new RankSyncHandlers instance.
func NewRankSyncHandlers(service ranksyncservice.Service, logger *slog.Logger) *RankSyncHandlers {
	return &RankSyncHandlers{
		service: service,
		logger:  logger,
	}
}

package handlelinkhandlers

import (
	"log/slog"

	handlelinkservice "github.com/open-ladder/ranksync/app/modules/handlelink/application"
)

// HandleLinkHandlers implements the Handlers interface for handle link events.
type HandleLinkHandlers struct {
	service handlelinkservice.Service
	logger  *slog.Logger
}

// NewHandleLinkHandlers creates a new HandleLinkHandlers instance.
func NewHandleLinkHandlers(service handlelinkservice.Service, logger *slog.Logger) *HandleLinkHandlers {
	return &HandleLinkHandlers{
		service: service,
		logger:  logger,
	}
}

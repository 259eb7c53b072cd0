package guildconfighandlers

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"
	guildconfigservice "github.com/open-ladder/ranksync/app/modules/guildconfig/application"
	guildconfigdomain "github.com/open-ladder/ranksync/app/modules/guildconfig/domain"
	guildconfigevents "github.com/open-ladder/ranksync/app/modules/guildconfig/domain/events"
	"github.com/open-ladder/ranksync/internal/handlerwrapper"
)

// HandleUpdateRequested handles the guildconfig.update.requested event.
func (h *GuildConfigHandlers) HandleUpdateRequested(ctx context.Context, payload *guildconfigevents.UpdateRequestedPayloadV1, _ *message.Message) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	config := &guildconfigdomain.GuildConfig{
		GuildID:          payload.GuildID,
		AutoSyncEnabled:  payload.AutoSyncEnabled,
		NotifyChannelID:  payload.NotifyChannelID,
		MinNotifyRating:  payload.MinNotifyRating,
		ProvisionalRoles: payload.ProvisionalRoles,
		TrustedRole:      payload.TrustedRole,
		TrustedMinRating: payload.TrustedMinRating,
		TrustedCutoff:    payload.TrustedCutoff,
	}

	stored, err := h.service.UpsertConfig(ctx, config)
	if err != nil {
		if isRejection(err) {
			return []handlerwrapper.Result{{
				Topic: guildconfigevents.UpdateFailedV1,
				Payload: guildconfigevents.UpdateFailedPayloadV1{
					GuildID: payload.GuildID,
					Reason:  err.Error(),
				},
			}}, nil
		}
		return nil, err
	}

	return []handlerwrapper.Result{{
		Topic: guildconfigevents.UpdatedV1,
		Payload: guildconfigevents.UpdatedPayloadV1{
			GuildID:          stored.GuildID,
			AutoSyncEnabled:  stored.AutoSyncEnabled,
			NotifyChannelID:  stored.NotifyChannelID,
			MinNotifyRating:  stored.MinNotifyRating,
			ProvisionalRoles: stored.ProvisionalRoles,
			TrustedRole:      stored.TrustedRole,
			TrustedMinRating: stored.TrustedMinRating,
			TrustedCutoff:    stored.TrustedCutoff,
		},
	}}, nil
}

// isRejection reports whether the error is a validation rejection rather
// than an infrastructure failure. Rejections produce a failure event and
// must not be retried.
func isRejection(err error) bool {
	return errors.Is(err, guildconfigservice.ErrNilConfig) ||
		errors.Is(err, guildconfigdomain.ErrMissingGuildID) ||
		errors.Is(err, guildconfigdomain.ErrNegativeNotifyRating) ||
		errors.Is(err, guildconfigdomain.ErrTrustedRoleIncomplete)
}

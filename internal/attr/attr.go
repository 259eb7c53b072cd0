package attr

import (
	"context"
	"log/slog"
)

type ctxKey string

const correlationIDKey ctxKey = "correlation_id"

// WithCorrelationID returns a context carrying the correlation ID of the
// message that started the current unit of work.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, or ""
// when none is set.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// CorrelationID returns a slog attribute for the correlation ID in ctx.
func CorrelationID(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", CorrelationIDFromContext(ctx))
}

// Error returns a slog attribute for an error value, tolerating nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// GuildID returns a slog attribute for a guild identifier.
func GuildID(id string) slog.Attr {
	return slog.String("guild_id", id)
}

// MemberID returns a slog attribute for a member identifier.
func MemberID(id string) slog.Attr {
	return slog.String("member_id", id)
}

// Handle returns a slog attribute for a rating-service handle.
func Handle(h string) slog.Attr {
	return slog.String("handle", h)
}

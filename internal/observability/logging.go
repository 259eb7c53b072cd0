package observability

import "log/slog"

// NoOpLogger discards everything. Tests use it to keep services quiet.
var NoOpLogger = slog.New(slog.DiscardHandler)

package loggy

import (
	"context"

	"github.com/tildaslashalef/zanata-sync/internal/ulid"
)

type contextKey string

const (
	loggerKey contextKey = "logger"
	syncIDKey contextKey = "sync_id"
)

// FromContext retrieves the logger from the context, falling back to the global one
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*Logger); ok && logger != nil {
			return logger
		}
	}
	return GetGlobalLogger()
}

// WithLogger returns a new context with the logger attached
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// NewSyncID generates an identifier for one sync invocation
func NewSyncID() string {
	return ulid.SyncID()
}

// WithSyncID attaches a sync id to the context and to the context logger
func WithSyncID(ctx context.Context, syncID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, syncIDKey, syncID)
	return WithLogger(ctx, FromContext(ctx).With("sync_id", syncID))
}

// GetSyncID retrieves the sync id from the context
func GetSyncID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(syncIDKey).(string); ok {
		return id
	}
	return ""
}

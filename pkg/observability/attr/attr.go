// Package attr holds slog attribute helpers shared by every module.
package attr

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

type ctxKey string

// CorrelationIDKey is the context key carrying the correlation id.
const CorrelationIDKey ctxKey = "correlation_id"

// WithCorrelationID stores id on the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// CorrelationID reads the id stored by WithCorrelationID.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(CorrelationIDKey).(string)
	return id
}

// ExtractCorrelationID returns the context's correlation id as an attribute.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", CorrelationID(ctx))
}

// CorrelationIDFromMsg returns the message's correlation id as an attribute.
func CorrelationIDFromMsg(msg *message.Message) slog.Attr {
	return slog.String("correlation_id", middleware.MessageCorrelationID(msg))
}

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

func Time(key string, value time.Time) slog.Attr { return slog.Time(key, value) }

// Error renders err under the "error" key; a nil error renders as empty.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// PlayerID logs a player identifier.
func PlayerID(key string, id int64) slog.Attr { return slog.Int64(key, id) }

// GameID logs a game identifier.
func GameID(id int64) slog.Attr { return slog.Int64("game_id", id) }

package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Logging returns middleware that logs each event's name, duration, and errors.
func Logging(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, event string, data json.RawMessage) error {
			start := time.Now()
			err := next(ctx, event, data)
			duration := time.Since(start)

			attrs := []slog.Attr{
				slog.String("event", event),
				slog.Duration("duration", duration),
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "event handler failed", attrs...)
			} else {
				logger.LogAttrs(ctx, slog.LevelDebug, "event handled", attrs...)
			}

			return err
		}
	}
}

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Recovery returns middleware that recovers from panics in event
// handlers, logs the stack trace, and converts the panic to an error.
func Recovery(logger ...*slog.Logger) Middleware {
	var log *slog.Logger
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0]
	} else {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		return func(ctx context.Context, event string, data json.RawMessage) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := debug.Stack()
					log.Error("panic recovered in event handler",
						"event", event,
						"panic", fmt.Sprint(r),
						"stack", string(stack),
					)
					err = fmt.Errorf("internal error: %v", r)
				}
			}()
			return next(ctx, event, data)
		}
	}
}

// Package middleware provides composable middleware for presence
// clients. Middleware wraps the event dispatch layer, allowing
// cross-cutting concerns like logging, panic recovery, and telemetry
// to be applied to all event handlers.
package middleware

import (
	"context"
	"encoding/json"
)

// Handler processes a dispatched peer event.
type Handler func(ctx context.Context, event string, data json.RawMessage) error

// Middleware wraps a Handler to add cross-cutting behavior.
type Middleware func(Handler) Handler

// Chain composes multiple middleware into a single middleware.
// Middleware is applied in the order given: the first middleware in the
// slice is the outermost wrapper (executes first).
func Chain(mws ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

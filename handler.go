package presence

import (
	"context"
	"encoding/json"

	"github.com/presence-ipc/presence/middleware"
	"github.com/presence-ipc/presence/protocol"
)

// EventHandler processes an event dispatched by the peer.
type EventHandler func(ctx context.Context, event string, data json.RawMessage) error

// OnEvent registers a handler for a dispatched peer event. Handlers
// only fire for events the session is subscribed to; register them
// before calling Subscribe.
func (c *Client) OnEvent(event string, h EventHandler) {
	c.handlers[event] = append(c.handlers[event], h)
}

// dispatch routes a DISPATCH frame through the middleware chain to the
// handlers registered for its event.
func (c *Client) dispatch(frame *protocol.Frame) {
	hs := c.handlers[frame.Evt]
	if len(hs) == 0 {
		c.logger.Debug("no handler for event", "event", frame.Evt)
		return
	}

	var h middleware.Handler = func(ctx context.Context, event string, data json.RawMessage) error {
		for _, fn := range hs {
			if err := fn(ctx, event, data); err != nil {
				return err
			}
		}
		return nil
	}
	if len(c.middlewares) > 0 {
		h = middleware.Chain(c.middlewares...)(h)
	}

	if err := h(context.Background(), frame.Evt, frame.Data); err != nil {
		c.logger.Error("event handler failed", "event", frame.Evt, "error", err)
	}
}

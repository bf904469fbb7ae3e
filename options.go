package presence

import (
	"log/slog"

	"github.com/presence-ipc/presence/middleware"
	"github.com/presence-ipc/presence/transport"
)

// Option configures a Client during construction.
type Option func(*Client)

// WithLogger sets a custom slog logger on the client.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithTransport makes the client use a specific transport instead of
// the platform pipe client. The transport's client ID takes precedence
// over the one passed to New.
func WithTransport(t transport.Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithWebSocket makes the client connect over the peer's local
// WebSocket server instead of the pipe.
func WithWebSocket() Option {
	return func(c *Client) {
		c.useWebSocket = true
	}
}

// WithMiddleware adds middleware to the client's event dispatch chain.
// Middleware is applied in order: the first middleware is outermost.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, mws...)
	}
}

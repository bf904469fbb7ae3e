package transport

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"golang.org/x/net/websocket"
)

// The peer's local WebSocket server binds one port out of a fixed
// range, discovered by scanning just like the pipe slots.
const (
	wsPortBase  = 6463
	wsPortCount = 10
)

// WSClient is an alternate transport speaking the same envelope
// protocol over the peer's local WebSocket server. Like the pipe
// client it is synchronous and single-caller.
type WSClient struct {
	clientID string
	logger   *slog.Logger
	conn     *websocket.Conn
}

// WSOption configures a WSClient.
type WSOption func(*WSClient)

// WithWSLogger sets the logger used for connection diagnostics.
func WithWSLogger(l *slog.Logger) WSOption {
	return func(c *WSClient) { c.logger = l }
}

// NewWebSocket creates a WebSocket transport for the given client ID.
func NewWebSocket(clientID string, opts ...WSOption) *WSClient {
	c := &WSClient{clientID: clientID, logger: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ClientID returns the caller identifier presented to the peer.
func (c *WSClient) ClientID() string { return c.clientID }

// Connect scans ports 6463 through 6472 in ascending order and keeps
// the first endpoint that accepts the upgrade.
func (c *WSClient) Connect() error {
	for port := 0; port < wsPortCount; port++ {
		addr := fmt.Sprintf("ws://127.0.0.1:%d/?v=1&client_id=%s",
			wsPortBase+port, url.QueryEscape(c.clientID))
		ws, err := websocket.Dial(addr, "", "http://127.0.0.1")
		if err != nil {
			c.logger.Debug("ipc port unavailable", "port", wsPortBase+port, "error", err)
			continue
		}
		c.conn = ws
		c.logger.Debug("ipc connected", "port", wsPortBase+port)
		return nil
	}
	return &Error{Kind: KindNoEndpoint}
}

func (c *WSClient) Read(p []byte) (int, error) {
	if c.conn == nil {
		return 0, &Error{Kind: KindNotConnected}
	}
	var msg []byte
	if err := websocket.Message.Receive(c.conn, &msg); err != nil {
		return 0, &Error{Kind: KindReadFailed, Err: err}
	}
	n := copy(p, msg)
	if n < len(msg) {
		return n, io.ErrShortBuffer
	}
	return n, nil
}

func (c *WSClient) Write(p []byte) (int, error) {
	if c.conn == nil {
		return 0, &Error{Kind: KindNotConnected}
	}
	if err := websocket.Message.Send(c.conn, p); err != nil {
		return 0, &Error{Kind: KindWriteFailed, Err: err}
	}
	return len(p), nil
}

// Close releases the WebSocket connection. The close handshake happens
// at the WebSocket layer, so no application close frame is sent.
func (c *WSClient) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

package presence

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/presence-ipc/presence/middleware"
	"github.com/presence-ipc/presence/protocol"
	"github.com/presence-ipc/presence/transport"
	"github.com/presence-ipc/presence/wire"
)

var (
	// ErrNotConnected is returned by operations invoked before Connect.
	ErrNotConnected = errors.New("not connected: call Connect first")

	// ErrPeerClosed is returned when the peer ends the session with a
	// close envelope. The client must reconnect and re-handshake.
	ErrPeerClosed = errors.New("peer closed the session")
)

// Client is a rich-presence session with the desktop peer. It owns one
// transport, frames messages through the envelope codec, and drives the
// handshake and command protocol synchronously: every operation blocks
// until the peer acknowledges it.
//
// A Client is driven by a single goroutine; callers needing concurrent
// access must serialize externally.
type Client struct {
	clientID     string
	logger       *slog.Logger
	transport    transport.Transport
	useWebSocket bool
	middlewares  []middleware.Middleware
	handlers     map[string][]EventHandler

	codec *wire.Codec
	ready *protocol.Ready
}

// New creates a disconnected client for the given client ID.
func New(clientID string, opts ...Option) *Client {
	c := &Client{
		clientID: clientID,
		logger:   slog.Default(),
		handlers: make(map[string][]EventHandler),
	}
	for _, o := range opts {
		o(c)
	}
	if c.transport == nil {
		if c.useWebSocket {
			c.transport = transport.NewWebSocket(clientID, transport.WithWSLogger(c.logger))
		} else {
			c.transport = transport.NewPipe(clientID, transport.WithPipeLogger(c.logger))
		}
	}
	return c
}

// ClientID returns the identifier presented to the peer.
func (c *Client) ClientID() string { return c.transport.ClientID() }

// User returns the peer account announced in the handshake, or nil
// before Connect succeeds.
func (c *Client) User() *protocol.User {
	if c.ready == nil {
		return nil
	}
	return &c.ready.User
}

// Connect establishes the transport connection and performs the
// handshake. The peer answers a valid handshake with a READY event; an
// invalid client ID is answered with a close envelope or an ERROR
// event, both surfaced as errors.
func (c *Client) Connect() error {
	if err := c.transport.Connect(); err != nil {
		return fmt.Errorf("connecting transport: %w", err)
	}
	c.codec = wire.NewCodec(c.transport, c.transport)

	hs := &protocol.Handshake{
		V:        protocol.HandshakeVersion,
		ClientID: c.transport.ClientID(),
	}
	if err := c.codec.Write(wire.OpHandshake, hs); err != nil {
		return fmt.Errorf("sending handshake: %w", err)
	}

	msg, err := c.codec.Read()
	if err != nil {
		return fmt.Errorf("reading handshake reply: %w", err)
	}
	switch msg.Op {
	case wire.OpClose:
		var ee protocol.PeerError
		if json.Unmarshal(msg.Payload, &ee) == nil && ee.Message != "" {
			return fmt.Errorf("handshake rejected: %w", &ee)
		}
		return fmt.Errorf("handshake rejected: %w", ErrPeerClosed)
	case wire.OpFrame:
		var frame protocol.Frame
		if err := json.Unmarshal(msg.Payload, &frame); err != nil {
			return fmt.Errorf("decoding handshake reply: %w", err)
		}
		if frame.Evt == protocol.EventError {
			return frameError(&frame)
		}
		if frame.Evt != protocol.EventReady {
			return fmt.Errorf("unexpected handshake reply event %q", frame.Evt)
		}
		var ready protocol.Ready
		if err := json.Unmarshal(frame.Data, &ready); err != nil {
			return fmt.Errorf("decoding ready event: %w", err)
		}
		c.ready = &ready
	default:
		return fmt.Errorf("unexpected handshake reply opcode %v", msg.Op)
	}

	c.logger.Info("presence session ready",
		"client_id", c.transport.ClientID(),
		"user", c.ready.User.Username,
	)
	return nil
}

// Poll reads and processes a single envelope: pings are answered with
// pongs and dispatched events are routed to registered handlers. Call
// it in a loop after subscribing to events.
func (c *Client) Poll() error {
	if c.codec == nil {
		return ErrNotConnected
	}
	msg, err := c.codec.Read()
	if err != nil {
		return fmt.Errorf("reading envelope: %w", err)
	}
	_, err = c.handleEnvelope(msg)
	return err
}

// Close shuts the session down. The transport performs its close
// handshake toward the peer, flushes, and releases the connection.
func (c *Client) Close() error {
	c.codec = nil
	c.ready = nil
	return c.transport.Close()
}

// roundTrip sends one command frame and blocks until the peer's
// acknowledgement with the matching nonce arrives. Envelopes arriving
// in between (pings, dispatched events) are processed in order.
func (c *Client) roundTrip(cmd, evt string, args interface{}) (*protocol.Frame, error) {
	if c.codec == nil {
		return nil, ErrNotConnected
	}

	nonce := uuid.NewString()
	out := &protocol.Frame{Cmd: cmd, Nonce: nonce, Evt: evt, Args: args}
	if err := c.codec.Write(wire.OpFrame, out); err != nil {
		return nil, fmt.Errorf("sending %s: %w", cmd, err)
	}

	for {
		msg, err := c.codec.Read()
		if err != nil {
			return nil, fmt.Errorf("reading %s reply: %w", cmd, err)
		}
		frame, err := c.handleEnvelope(msg)
		if err != nil {
			return nil, err
		}
		if frame == nil || frame.Nonce != nonce {
			continue
		}
		if frame.Evt == protocol.EventError {
			return nil, frameError(frame)
		}
		return frame, nil
	}
}

// handleEnvelope processes one incoming envelope. It returns the frame
// for command acknowledgements; pings, pongs, and dispatched events are
// consumed and return nil.
func (c *Client) handleEnvelope(msg *wire.Message) (*protocol.Frame, error) {
	switch msg.Op {
	case wire.OpPing:
		if err := c.codec.Write(wire.OpPong, msg.Payload); err != nil {
			return nil, fmt.Errorf("answering ping: %w", err)
		}
		return nil, nil
	case wire.OpClose:
		return nil, ErrPeerClosed
	case wire.OpFrame:
		var frame protocol.Frame
		if err := json.Unmarshal(msg.Payload, &frame); err != nil {
			c.logger.Debug("discarding malformed frame", "error", err)
			return nil, nil
		}
		if frame.Cmd == protocol.CmdDispatch {
			c.dispatch(&frame)
			return nil, nil
		}
		return &frame, nil
	default:
		return nil, nil
	}
}

// frameError decodes the ERROR event data of an acknowledgement.
func frameError(frame *protocol.Frame) error {
	var ee protocol.PeerError
	if err := json.Unmarshal(frame.Data, &ee); err != nil || ee.Message == "" {
		return fmt.Errorf("peer rejected %s", frame.Cmd)
	}
	return &ee
}

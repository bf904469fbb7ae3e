package transport

import (
	"io"
	"log/slog"

	"github.com/presence-ipc/presence/wire"
)

// The peer allocates its pipe server from a fixed pool of slot names;
// the exact slot is not advertised, so connecting probes all of them.
const slotCount = 10

// writeAttempts bounds the total tries of a single Write, including
// the first one.
const writeAttempts = 3

// pipeConn is the platform half of the pipe client: a blocking byte
// stream plus the handle-level operations the client drives. Each
// platform file provides a dialer producing one.
type pipeConn interface {
	io.ReadWriteCloser

	// Probe cheaply checks that the endpoint is still live, via a
	// zero-byte write. It must not consume or deliver any data.
	Probe() error

	// Flush forces buffered writes out to the peer.
	Flush() error
}

// dialFunc opens the pipe endpoint for one slot. It must fail when the
// endpoint does not exist rather than creating it.
type dialFunc func(slot int) (pipeConn, error)

// PipeClient is a blocking IPC connection to the desktop peer over the
// platform pipe mechanism. It transparently re-validates and re-dials
// the connection before every write, absorbing the races inherent in
// the peer tearing down and re-creating its pipe server.
//
// A PipeClient is not safe for concurrent use; callers needing that
// must serialize externally.
type PipeClient struct {
	clientID  string
	logger    *slog.Logger
	dial      dialFunc
	transient func(error) bool

	connected bool
	conn      pipeConn
}

// PipeOption configures a PipeClient.
type PipeOption func(*PipeClient)

// WithPipeLogger sets the logger used for connection diagnostics.
func WithPipeLogger(l *slog.Logger) PipeOption {
	return func(c *PipeClient) { c.logger = l }
}

// NewPipe creates a pipe client for the platform pipe mechanism. The
// client starts disconnected; Connect (or the first Write) dials.
func NewPipe(clientID string, opts ...PipeOption) *PipeClient {
	c := &PipeClient{
		clientID:  clientID,
		logger:    slog.Default(),
		dial:      dialSlot,
		transient: isClosingErr,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ClientID returns the caller identifier presented to the peer.
func (c *PipeClient) ClientID() string { return c.clientID }

// Connect probes slots 0 through 9 in ascending order and keeps the
// first endpoint that opens. If no slot opens, the client is left
// disconnected with no handle and ErrNoEndpoint is returned.
func (c *PipeClient) Connect() error {
	for slot := 0; slot < slotCount; slot++ {
		conn, err := c.dial(slot)
		if err != nil {
			c.logger.Debug("ipc slot unavailable", "slot", slot, "error", err)
			continue
		}
		c.conn = conn
		c.connected = true
		c.logger.Debug("ipc connected", "slot", slot)
		return nil
	}
	return &Error{Kind: KindNoEndpoint}
}

// valid reports whether the held connection is still usable. A
// zero-byte write probe distinguishes a live endpoint from one the
// peer has closed; probe failures are never surfaced.
func (c *PipeClient) valid() bool {
	if c.conn == nil {
		return false
	}
	if err := c.conn.Probe(); err != nil {
		c.logger.Debug("ipc health probe failed", "error", err)
		return false
	}
	return true
}

// ensureConnected re-dials if the client is disconnected or the held
// connection no longer passes the health probe. Stale connections are
// released best-effort.
func (c *PipeClient) ensureConnected() error {
	if c.connected && c.valid() {
		return nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.connected = false
	return c.Connect()
}

// Write writes p to the pipe, re-establishing the connection first if
// needed. A write failing with the platform's "pipe is closing" error
// reflects a race with the peer tearing down its end: the client
// reconnects (possibly to a different slot) and retries, up to three
// tries total. Any other error fails immediately.
func (c *PipeClient) Write(p []byte) (int, error) {
	if err := c.ensureConnected(); err != nil {
		return 0, err
	}

	for attempt := 0; attempt < writeAttempts; attempt++ {
		if c.conn == nil {
			return 0, &Error{Kind: KindNotConnected}
		}
		n, err := c.conn.Write(p)
		if err == nil {
			return n, nil
		}
		if !c.transient(err) {
			return 0, &Error{Kind: KindWriteFailed, Err: err}
		}
		if attempt == writeAttempts-1 {
			return 0, &Error{Kind: KindWriteExhausted, Err: err}
		}
		c.logger.Debug("ipc write hit closing pipe, reconnecting",
			"attempt", attempt+1, "error", err)
		c.connected = false
		if err := c.ensureConnected(); err != nil {
			return 0, err
		}
	}
	return 0, &Error{Kind: KindWriteExhausted}
}

// Read performs exactly one blocking read into p. Reads are never
// retried and never reconnect: a failed read means the session is
// gone, and the protocol layer above decides how to resync.
func (c *PipeClient) Read(p []byte) (int, error) {
	if c.conn == nil {
		return 0, &Error{Kind: KindNotConnected}
	}
	n, err := c.conn.Read(p)
	if err != nil {
		return n, &Error{Kind: KindReadFailed, Err: err}
	}
	return n, nil
}

// Close performs the orderly shutdown sequence: a best-effort close
// frame (opcode 2, empty payload) so the peer learns of the disconnect,
// a flush of buffered writes, then unconditional release of the OS
// resource. A flush failure is reported, but the release happens
// regardless. Close on a disconnected client is a no-op; calling it
// more than once is safe.
func (c *PipeClient) Close() error {
	if c.conn == nil {
		c.connected = false
		return nil
	}

	// A peer that is already gone must not prevent local cleanup.
	if _, err := c.Write(wire.Encode(wire.OpClose, []byte("{}"))); err != nil {
		c.logger.Debug("ipc close frame not delivered", "error", err)
	}

	var ferr error
	if c.conn != nil {
		if err := c.conn.Flush(); err != nil {
			ferr = &Error{Kind: KindFlushFailed, Err: err}
		}
		_ = c.conn.Close()
		c.conn = nil
	}
	c.connected = false
	return ferr
}

// Package transport provides synchronous byte-stream connections to the
// desktop peer's local IPC server. The primary transport is the named
// pipe client (Unix domain sockets on non-Windows platforms); a local
// WebSocket transport and an in-memory pair for tests are also provided.
package transport

import "io"

// Transport is a synchronous, blocking byte-stream connection to the
// desktop peer. Implementations own exactly one underlying connection
// and provide no internal locking: one goroutine drives one Transport.
type Transport interface {
	io.ReadWriteCloser

	// Connect establishes the connection, probing the candidate
	// endpoints the peer may be serving on.
	Connect() error

	// ClientID returns the caller identifier presented to the peer.
	ClientID() string
}

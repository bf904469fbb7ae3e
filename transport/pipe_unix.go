//go:build !windows

package transport

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"syscall"
)

// socketDir resolves the directory the peer creates its sockets in,
// following the peer's own lookup order.
func socketDir() string {
	for _, v := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if dir := os.Getenv(v); dir != "" {
			return dir
		}
	}
	return "/tmp"
}

// dialSlot connects to the Unix domain socket for one slot. Dialing a
// socket nobody listens on fails, which keeps the "must already exist"
// semantics of the Windows pipe open.
func dialSlot(slot int) (pipeConn, error) {
	path := filepath.Join(socketDir(), fmt.Sprintf("discord-ipc-%d", slot))
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, err
	}
	return &unixPipeConn{conn: conn.(*net.UnixConn)}, nil
}

// isClosingErr reports whether err is the transient error of writing
// into a socket the peer is tearing down.
func isClosingErr(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET)
}

// unixPipeConn adapts a Unix domain socket to the pipeConn surface.
type unixPipeConn struct {
	conn *net.UnixConn
}

func (c *unixPipeConn) Read(p []byte) (int, error)  { return c.conn.Read(p) }
func (c *unixPipeConn) Write(p []byte) (int, error) { return c.conn.Write(p) }

// Probe issues a zero-byte write, mirroring the Windows health check.
func (c *unixPipeConn) Probe() error {
	_, err := c.conn.Write(nil)
	return err
}

// Flush is a no-op: Unix domain socket writes are not buffered locally.
func (c *unixPipeConn) Flush() error { return nil }

func (c *unixPipeConn) Close() error { return c.conn.Close() }

//go:build windows

package transport

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// pipePathFormat is the named-pipe path the peer serves on, one slot
// suffix out of 0..9.
const pipePathFormat = `\\.\pipe\discord-ipc-%d`

// dialSlot opens the named pipe for one slot with synchronous
// read+write access. OPEN_EXISTING requires the server side to exist
// already; shared read/write lets other handles coexist per pipe
// sharing semantics.
func dialSlot(slot int) (pipeConn, error) {
	path := fmt.Sprintf(pipePathFormat, slot)
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	h, err := windows.CreateFile(
		p,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return &winPipeConn{handle: h}, nil
}

// isClosingErr reports whether err is ERROR_NO_DATA, the transient
// "pipe is being closed" error a fresh reconnect can absorb.
func isClosingErr(err error) bool {
	return errors.Is(err, windows.ERROR_NO_DATA)
}

// winPipeConn owns one pipe handle and performs blocking I/O on it.
type winPipeConn struct {
	handle windows.Handle
}

func (c *winPipeConn) Read(p []byte) (int, error) {
	var done uint32
	if err := windows.ReadFile(c.handle, p, &done, nil); err != nil {
		return int(done), err
	}
	return int(done), nil
}

func (c *winPipeConn) Write(p []byte) (int, error) {
	var done uint32
	if err := windows.WriteFile(c.handle, p, &done, nil); err != nil {
		return int(done), err
	}
	return int(done), nil
}

// Probe issues a zero-byte write: trivially successful on a live pipe,
// failing once the peer has closed its end.
func (c *winPipeConn) Probe() error {
	var done uint32
	return windows.WriteFile(c.handle, nil, &done, nil)
}

func (c *winPipeConn) Flush() error {
	return windows.FlushFileBuffers(c.handle)
}

func (c *winPipeConn) Close() error {
	return windows.CloseHandle(c.handle)
}

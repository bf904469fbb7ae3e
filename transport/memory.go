package transport

import (
	"bytes"
	"io"
	"sync"

	"github.com/presence-ipc/presence/wire"
)

// MemoryPipe creates a pair of connected in-memory transports for
// testing. Data written to one side can be read from the other. The
// client side carries the given client ID and performs the close
// handshake like the pipe client does; Connect is a no-op on both.
func MemoryPipe(clientID string) (client *MemoryTransport, peer *MemoryTransport) {
	c2p := &memBuf{}
	p2c := &memBuf{}
	return &MemoryTransport{clientID: clientID, initiator: true, r: p2c, w: c2p},
		&MemoryTransport{r: c2p, w: p2c}
}

// MemoryTransport is one side of an in-memory transport pair.
type MemoryTransport struct {
	clientID  string
	initiator bool
	r         *memBuf
	w         *memBuf
}

func (m *MemoryTransport) Connect() error   { return nil }
func (m *MemoryTransport) ClientID() string { return m.clientID }

func (m *MemoryTransport) Read(p []byte) (int, error)  { return m.r.Read(p) }
func (m *MemoryTransport) Write(p []byte) (int, error) { return m.w.Write(p) }

// Close performs the client side's close handshake (best-effort, as on
// the pipe) and shuts both directions down.
func (m *MemoryTransport) Close() error {
	if m.initiator {
		_, _ = m.w.Write(wire.Encode(wire.OpClose, []byte("{}")))
	}
	m.r.Close()
	m.w.Close()
	return nil
}

// memBuf is a thread-safe, blocking in-memory byte pipe.
type memBuf struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
	cond   *sync.Cond
}

func (b *memBuf) init() {
	if b.cond == nil {
		b.cond = sync.NewCond(&b.mu)
	}
}

func (b *memBuf) Write(data []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()
	if b.closed {
		return 0, io.ErrClosedPipe
	}
	n, err := b.buf.Write(data)
	b.cond.Signal()
	return n, err
}

func (b *memBuf) Read(data []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()
	for b.buf.Len() == 0 {
		if b.closed {
			return 0, io.EOF
		}
		b.cond.Wait()
	}
	return b.buf.Read(data)
}

func (b *memBuf) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.init()
	b.closed = true
	b.cond.Broadcast()
}

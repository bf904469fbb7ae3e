//go:build windows

package presencetest

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/Microsoft/go-winio"

	"github.com/presence-ipc/presence/protocol"
	"github.com/presence-ipc/presence/wire"
)

// PipeServer serves the peer protocol on a real named pipe slot so
// integration tests can exercise the Windows pipe transport end to end.
type PipeServer struct {
	t    testing.TB
	ln   net.Listener
	peer *Peer
	conn chan struct{}
}

// ListenPipe starts a peer on the named pipe for the given slot. The
// listener is closed when the test completes.
func ListenPipe(t testing.TB, slot int, opts ...PeerOption) *PipeServer {
	path := fmt.Sprintf(`\\.\pipe\discord-ipc-%d`, slot)
	ln, err := winio.ListenPipe(path, &winio.PipeConfig{
		InputBufferSize:  8 * 1024,
		OutputBufferSize: 8 * 1024,
	})
	if err != nil {
		t.Fatalf("listening on %s: %v", path, err)
	}

	peer := &Peer{
		t: t,
		user: protocol.User{
			ID:       "53908232506183680",
			Username: "testuser",
		},
		closed: make(chan struct{}),
		pongs:  make(chan struct{}, 8),
	}
	for _, o := range opts {
		o(peer)
	}

	s := &PipeServer{t: t, ln: ln, peer: peer, conn: make(chan struct{})}
	go s.accept()
	t.Cleanup(func() { ln.Close() })
	return s
}

// Peer returns the peer once a client has connected.
func (s *PipeServer) Peer() *Peer {
	select {
	case <-s.conn:
	case <-time.After(5 * time.Second):
		s.t.Fatal("no client connected to the pipe server")
	}
	return s.peer
}

func (s *PipeServer) accept() {
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	s.peer.codec = wire.NewCodec(conn, conn)
	close(s.conn)
	s.peer.serve()
}

// Package presencetest provides testing utilities for presence
// clients: a scriptable in-memory peer that speaks the desktop
// application's side of the IPC protocol, plus assertion helpers.
package presencetest

import (
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/presence-ipc/presence/protocol"
	"github.com/presence-ipc/presence/transport"
	"github.com/presence-ipc/presence/wire"
)

// Peer emulates the desktop application's IPC server over an in-memory
// transport. It answers handshakes with READY, acknowledges command
// frames nonce-for-nonce, answers pings with pongs, and records
// everything it receives for assertions.
type Peer struct {
	t         testing.TB
	clientEnd *transport.MemoryTransport
	codec     *wire.Codec

	mu       sync.Mutex
	frames   []protocol.Frame
	activity *protocol.SetActivityArgs
	nextErr  *protocol.PeerError

	rejectHandshake *protocol.PeerError
	user            protocol.User

	closed chan struct{}
	pongs  chan struct{}
}

// PeerOption configures a Peer before it starts serving.
type PeerOption func(*Peer)

// WithUser sets the account the peer announces in READY.
func WithUser(u protocol.User) PeerOption {
	return func(p *Peer) { p.user = u }
}

// WithHandshakeRejection makes the peer answer the handshake with a
// close envelope carrying the given error, as the real peer does for
// an unknown client ID.
func WithHandshakeRejection(code int, message string) PeerOption {
	return func(p *Peer) {
		p.rejectHandshake = &protocol.PeerError{Code: code, Message: message}
	}
}

// NewPeer creates a peer serving on an in-memory transport pair and
// returns it. The client end is available via Transport. The peer runs
// in a background goroutine and stops when the test completes.
func NewPeer(t testing.TB, clientID string, opts ...PeerOption) *Peer {
	clientEnd, peerEnd := transport.MemoryPipe(clientID)

	p := &Peer{
		t:         t,
		clientEnd: clientEnd,
		codec:     wire.NewCodec(peerEnd, peerEnd),
		user: protocol.User{
			ID:       "53908232506183680",
			Username: "testuser",
		},
		closed: make(chan struct{}),
		pongs:  make(chan struct{}, 8),
	}
	for _, o := range opts {
		o(p)
	}

	go p.serve()
	t.Cleanup(func() {
		clientEnd.Close()
		peerEnd.Close()
	})
	return p
}

// Transport returns the client end of the in-memory pair, for passing
// to presence.New via WithTransport.
func (p *Peer) Transport() *transport.MemoryTransport {
	return p.clientEnd
}

// FailNext makes the peer acknowledge the next command frame with an
// ERROR event instead of a normal ack.
func (p *Peer) FailNext(code int, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextErr = &protocol.PeerError{Code: code, Message: message}
}

// Emit dispatches an event to the client, as the peer does for
// subscribed events. The client observes it on its next Poll.
func (p *Peer) Emit(event string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		p.t.Fatalf("marshaling event data: %v", err)
	}
	if err := p.codec.Write(wire.OpFrame, &protocol.Frame{
		Cmd:  protocol.CmdDispatch,
		Evt:  event,
		Data: raw,
	}); err != nil {
		p.t.Logf("emitting %s: %v", event, err)
	}
}

// Ping sends a ping envelope; the client answers it during Poll.
func (p *Peer) Ping() {
	if err := p.codec.Write(wire.OpPing, map[string]string{}); err != nil {
		p.t.Logf("sending ping: %v", err)
	}
}

// Frames returns a copy of all command frames received so far.
func (p *Peer) Frames() []protocol.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]protocol.Frame(nil), p.frames...)
}

// Activity returns the arguments of the last SET_ACTIVITY received,
// or nil if none arrived yet.
func (p *Peer) Activity() *protocol.SetActivityArgs {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activity
}

// PongReceived reports whether the client answered a ping, waiting up
// to the given duration.
func (p *Peer) PongReceived(timeout time.Duration) bool {
	select {
	case <-p.pongs:
		return true
	case <-time.After(timeout):
		return false
	}
}

// CloseReceived reports whether the client's close frame has arrived,
// waiting up to the given duration.
func (p *Peer) CloseReceived(timeout time.Duration) bool {
	select {
	case <-p.closed:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (p *Peer) serve() {
	for {
		msg, err := p.codec.Read()
		if err != nil {
			if err != io.EOF {
				p.t.Logf("peer read: %v", err)
			}
			return
		}
		switch msg.Op {
		case wire.OpHandshake:
			p.handleHandshake(msg.Payload)
		case wire.OpPing:
			_ = p.codec.Write(wire.OpPong, msg.Payload)
		case wire.OpPong:
			select {
			case p.pongs <- struct{}{}:
			default:
			}
		case wire.OpClose:
			close(p.closed)
			return
		case wire.OpFrame:
			p.handleFrame(msg.Payload)
		}
	}
}

func (p *Peer) handleHandshake(payload json.RawMessage) {
	var hs protocol.Handshake
	if err := json.Unmarshal(payload, &hs); err != nil {
		p.t.Logf("malformed handshake: %v", err)
		return
	}
	if p.rejectHandshake != nil {
		_ = p.codec.Write(wire.OpClose, p.rejectHandshake)
		return
	}

	ready, err := json.Marshal(&protocol.Ready{
		V: protocol.HandshakeVersion,
		Config: protocol.ServerConfig{
			Environment: "production",
		},
		User: p.user,
	})
	if err != nil {
		p.t.Fatalf("marshaling ready: %v", err)
	}
	_ = p.codec.Write(wire.OpFrame, &protocol.Frame{
		Cmd:  protocol.CmdDispatch,
		Evt:  protocol.EventReady,
		Data: ready,
	})
}

func (p *Peer) handleFrame(payload json.RawMessage) {
	var frame protocol.Frame
	if err := json.Unmarshal(payload, &frame); err != nil {
		p.t.Logf("malformed frame: %v", err)
		return
	}

	p.mu.Lock()
	p.frames = append(p.frames, frame)
	failWith := p.nextErr
	p.nextErr = nil
	if frame.Cmd == protocol.CmdSetActivity && failWith == nil {
		args, err := json.Marshal(frame.Args)
		if err == nil {
			var sa protocol.SetActivityArgs
			if json.Unmarshal(args, &sa) == nil {
				p.activity = &sa
			}
		}
	}
	p.mu.Unlock()

	ack := &protocol.Frame{Cmd: frame.Cmd, Nonce: frame.Nonce}
	if failWith != nil {
		data, _ := json.Marshal(failWith)
		ack.Evt = protocol.EventError
		ack.Data = data
	}
	_ = p.codec.Write(wire.OpFrame, ack)
}

package presencetest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/presence-ipc/presence/protocol"
	"github.com/presence-ipc/presence/wire"
)

func TestPeerAnswersHandshake(t *testing.T) {
	peer := NewPeer(t, "1234")
	tr := peer.Transport()
	codec := wire.NewCodec(tr, tr)

	if err := codec.Write(wire.OpHandshake, &protocol.Handshake{V: 1, ClientID: "1234"}); err != nil {
		t.Fatal(err)
	}
	msg, err := codec.Read()
	if err != nil {
		t.Fatal(err)
	}
	var frame protocol.Frame
	if err := json.Unmarshal(msg.Payload, &frame); err != nil {
		t.Fatal(err)
	}
	if frame.Evt != protocol.EventReady {
		t.Errorf("handshake reply evt = %q, want READY", frame.Evt)
	}
}

func TestPeerAcksWithNonce(t *testing.T) {
	peer := NewPeer(t, "1234")
	tr := peer.Transport()
	codec := wire.NewCodec(tr, tr)

	out := &protocol.Frame{Cmd: protocol.CmdSubscribe, Nonce: "n-1", Evt: protocol.EventActivityJoin}
	if err := codec.Write(wire.OpFrame, out); err != nil {
		t.Fatal(err)
	}
	msg, err := codec.Read()
	if err != nil {
		t.Fatal(err)
	}
	var ack protocol.Frame
	if err := json.Unmarshal(msg.Payload, &ack); err != nil {
		t.Fatal(err)
	}
	if ack.Nonce != "n-1" || ack.Cmd != protocol.CmdSubscribe {
		t.Errorf("ack = %+v, want echo of cmd and nonce", ack)
	}
}

func TestPeerRecordsClose(t *testing.T) {
	peer := NewPeer(t, "1234")
	tr := peer.Transport()

	if _, err := tr.Write(wire.Encode(wire.OpClose, []byte("{}"))); err != nil {
		t.Fatal(err)
	}
	if !peer.CloseReceived(time.Second) {
		t.Error("peer did not record the close frame")
	}
}

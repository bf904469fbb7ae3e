package presencetest

import (
	"testing"
	"time"

	"github.com/presence-ipc/presence/protocol"
)

// AssertActivity asserts that the peer's last received activity has
// the expected details and state.
func AssertActivity(t testing.TB, peer *Peer, details, state string) {
	t.Helper()
	args := peer.Activity()
	if args == nil || args.Activity == nil {
		t.Fatal("peer received no activity")
	}
	if args.Activity.Details != details {
		t.Errorf("activity details = %q, want %q", args.Activity.Details, details)
	}
	if args.Activity.State != state {
		t.Errorf("activity state = %q, want %q", args.Activity.State, state)
	}
}

// AssertActivityCleared asserts that the last SET_ACTIVITY carried no
// activity.
func AssertActivityCleared(t testing.TB, peer *Peer) {
	t.Helper()
	args := peer.Activity()
	if args != nil && args.Activity != nil {
		t.Errorf("expected cleared activity, peer still holds %+v", args.Activity)
	}
}

// AssertFrameCount asserts the number of command frames with the given
// cmd the peer has received.
func AssertFrameCount(t testing.TB, peer *Peer, cmd string, count int) {
	t.Helper()
	got := 0
	for _, f := range peer.Frames() {
		if f.Cmd == cmd {
			got++
		}
	}
	if got != count {
		t.Errorf("peer received %d %s frames, want %d", got, cmd, count)
	}
}

// AssertClosed asserts that the client performed the close handshake.
func AssertClosed(t testing.TB, peer *Peer) {
	t.Helper()
	if !peer.CloseReceived(time.Second) {
		t.Error("peer never received the close frame")
	}
}

// Timestamps builds activity timestamps from a start time.
func Timestamps(start time.Time) *protocol.ActivityTimestamps {
	return &protocol.ActivityTimestamps{Start: start.UnixMilli()}
}

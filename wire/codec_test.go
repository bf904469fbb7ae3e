package wire

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"
)

func TestEncodeHeader(t *testing.T) {
	got := Encode(OpClose, []byte("{}"))
	want := []byte{2, 0, 0, 0, 2, 0, 0, 0, '{', '}'}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode(OpClose, {}) = %v, want %v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	c := NewCodec(&buf, &buf)

	payloads := []struct {
		op      Opcode
		payload interface{}
	}{
		{OpHandshake, map[string]interface{}{"v": 1, "client_id": "1234"}},
		{OpFrame, map[string]string{"cmd": "SET_ACTIVITY"}},
		{OpPing, map[string]string{}},
	}
	for _, p := range payloads {
		if err := c.Write(p.op, p.payload); err != nil {
			t.Fatalf("Write(%v) failed: %v", p.op, err)
		}
	}

	for _, p := range payloads {
		msg, err := c.Read()
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if msg.Op != p.op {
			t.Errorf("opcode = %v, want %v", msg.Op, p.op)
		}
		want, _ := json.Marshal(p.payload)
		if !bytes.Equal(msg.Payload, want) {
			t.Errorf("payload = %s, want %s", msg.Payload, want)
		}
	}
}

func TestReadTruncatedHeader(t *testing.T) {
	c := NewCodec(bytes.NewReader([]byte{1, 0, 0}), io.Discard)
	if _, err := c.Read(); err == nil {
		t.Fatal("expected error for truncated header")
	}
}

func TestReadTruncatedPayload(t *testing.T) {
	data := Encode(OpFrame, []byte(`{"cmd":"SUBSCRIBE"}`))
	c := NewCodec(bytes.NewReader(data[:len(data)-4]), io.Discard)
	if _, err := c.Read(); err == nil {
		t.Fatal("expected error for truncated payload")
	}
}

func TestReadOversizedLength(t *testing.T) {
	hdr := []byte{1, 0, 0, 0, 0xff, 0xff, 0xff, 0x7f}
	c := NewCodec(bytes.NewReader(hdr), io.Discard)
	if _, err := c.Read(); err == nil {
		t.Fatal("expected error for oversized length field")
	}
}

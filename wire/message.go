package wire

import "encoding/json"

// Opcode identifies the type of an envelope on the IPC stream.
type Opcode uint32

// Opcodes of the desktop peer's IPC protocol. The numeric values are
// dictated by the remote protocol and must not change.
const (
	OpHandshake Opcode = 0
	OpFrame     Opcode = 1
	OpClose     Opcode = 2
	OpPing      Opcode = 3
	OpPong      Opcode = 4
)

func (op Opcode) String() string {
	switch op {
	case OpHandshake:
		return "handshake"
	case OpFrame:
		return "frame"
	case OpClose:
		return "close"
	case OpPing:
		return "ping"
	case OpPong:
		return "pong"
	default:
		return "unknown"
	}
}

// Message is a single decoded envelope: an opcode and its raw JSON payload.
// Payload interpretation is left to the protocol layer.
type Message struct {
	Op      Opcode
	Payload json.RawMessage
}

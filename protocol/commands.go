package protocol

// Commands sent to the desktop peer inside opcode-1 frames.
const (
	CmdDispatch    = "DISPATCH"
	CmdSetActivity = "SET_ACTIVITY"
	CmdSubscribe   = "SUBSCRIBE"
	CmdUnsubscribe = "UNSUBSCRIBE"
)

// Events delivered by the desktop peer, either as the evt of a
// command acknowledgement or inside DISPATCH frames.
const (
	EventReady               = "READY"
	EventError               = "ERROR"
	EventActivityJoin        = "ACTIVITY_JOIN"
	EventActivitySpectate    = "ACTIVITY_SPECTATE"
	EventActivityJoinRequest = "ACTIVITY_JOIN_REQUEST"
)

// HandshakeVersion is the IPC protocol version sent in the handshake.
const HandshakeVersion = 1

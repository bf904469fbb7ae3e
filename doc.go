// Package presence is a client library for the rich-presence IPC
// protocol of the well-known desktop application. It connects over the
// platform's local transport (named pipes on Windows, Unix domain
// sockets elsewhere, with a local WebSocket alternative), performs the
// handshake, and exposes typed operations for publishing activity and
// subscribing to peer events.
//
// A minimal client needs only a few lines:
//
//	c := presence.New("my-client-id")
//	if err := c.Connect(); err != nil { ... }
//	defer c.Close()
//	c.SetActivity(protocol.Activity{Details: "In the menus"})
//
// See the examples/ directory for progressively more complete clients.
package presence

// Package protocol defines the JSON payloads exchanged with the desktop
// peer over the IPC envelope: the handshake, command frames, events, and
// the rich-presence activity model.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Handshake is the opcode-0 payload that opens a session.
type Handshake struct {
	V        int    `json:"v"`
	ClientID string `json:"client_id"`
}

// Frame is the opcode-1 payload: a command with arguments on the way
// out, an acknowledgement or dispatched event on the way back.
type Frame struct {
	Cmd   string          `json:"cmd"`
	Nonce string          `json:"nonce,omitempty"`
	Evt   string          `json:"evt,omitempty"`
	Args  interface{}     `json:"args,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// PeerError is the decoded data of an ERROR event. It is returned as
// an error by operations whose acknowledgement carries evt=ERROR.
type PeerError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *PeerError) Error() string {
	return fmt.Sprintf("peer error %d: %s", e.Code, e.Message)
}

// Ready is the data of the READY event concluding a handshake.
type Ready struct {
	V      int          `json:"v"`
	Config ServerConfig `json:"config"`
	User   User         `json:"user"`
}

// ServerConfig describes the peer environment announced in READY.
type ServerConfig struct {
	CDNHost     string `json:"cdn_host"`
	APIEndpoint string `json:"api_endpoint"`
	Environment string `json:"environment"`
}

// User identifies the account logged in on the desktop peer.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
}

// SetActivityArgs are the arguments of a SET_ACTIVITY command. A nil
// Activity clears the presence.
type SetActivityArgs struct {
	PID      int       `json:"pid"`
	Activity *Activity `json:"activity"`
}

// Activity is a rich-presence state as rendered on the user's profile.
type Activity struct {
	State      string              `json:"state,omitempty"`
	Details    string              `json:"details,omitempty"`
	Timestamps *ActivityTimestamps `json:"timestamps,omitempty"`
	Assets     *ActivityAssets     `json:"assets,omitempty"`
	Party      *ActivityParty      `json:"party,omitempty"`
	Secrets    *ActivitySecrets    `json:"secrets,omitempty"`
	Buttons    []ActivityButton    `json:"buttons,omitempty"`
	Instance   bool                `json:"instance,omitempty"`
}

// ActivityTimestamps holds unix millisecond start/end times; the peer
// renders them as "elapsed" or "remaining".
type ActivityTimestamps struct {
	Start int64 `json:"start,omitempty"`
	End   int64 `json:"end,omitempty"`
}

// ActivityAssets names the art keys and hover texts of an activity.
type ActivityAssets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	SmallText  string `json:"small_text,omitempty"`
}

// ActivityParty describes the party the user is in.
type ActivityParty struct {
	ID   string `json:"id,omitempty"`
	Size []int  `json:"size,omitempty"`
}

// ActivitySecrets carries join/spectate secrets for invitations.
type ActivitySecrets struct {
	Join     string `json:"join,omitempty"`
	Spectate string `json:"spectate,omitempty"`
	Match    string `json:"match,omitempty"`
}

// ActivityButton is a custom button rendered under the presence.
type ActivityButton struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

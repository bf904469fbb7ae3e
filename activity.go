package presence

import (
	"os"

	"github.com/presence-ipc/presence/protocol"
)

// SetActivity replaces the rich-presence activity shown for this
// client, blocking until the peer acknowledges it.
func (c *Client) SetActivity(a protocol.Activity) error {
	_, err := c.roundTrip(protocol.CmdSetActivity, "", &protocol.SetActivityArgs{
		PID:      os.Getpid(),
		Activity: &a,
	})
	return err
}

// ClearActivity removes the activity for this client.
func (c *Client) ClearActivity() error {
	_, err := c.roundTrip(protocol.CmdSetActivity, "", &protocol.SetActivityArgs{
		PID: os.Getpid(),
	})
	return err
}

// Subscribe registers interest in a peer event. Dispatched occurrences
// are delivered to OnEvent handlers via Poll.
func (c *Client) Subscribe(event string) error {
	_, err := c.roundTrip(protocol.CmdSubscribe, event, nil)
	return err
}

// Unsubscribe cancels a prior Subscribe.
func (c *Client) Unsubscribe(event string) error {
	_, err := c.roundTrip(protocol.CmdUnsubscribe, event, nil)
	return err
}

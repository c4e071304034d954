package communication

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("connection closed")

// Conn is an ordered, reliable, bidirectional channel to exactly one remote peer.
type Conn interface {
	// LocalID is the opaque identifier assigned to this endpoint when the transport was initialised.
	LocalID() string
	// Send delivers a payload to the remote peer, in order.
	Send(ctx context.Context, p Payload) error
	// Inbox yields payloads from the remote peer in receipt order. It is closed on disconnect.
	Inbox() <-chan Payload
	Close() error
}

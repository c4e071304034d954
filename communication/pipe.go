package communication

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// pipeBuffer bounds in-flight frames per direction.
const pipeBuffer = 256

// pipeConn is one end of an in-memory connection. Frames go through the codec so both ends see exactly what a
// network peer would.
type pipeConn struct {
	id     string
	out    chan []byte
	inbox  chan Payload
	done   chan struct{}
	closed sync.Once
	peer   *pipeConn
}

// NewPipe returns two connected endpoints, for tests and same-process matches.
func NewPipe(aID, bID string) (Conn, Conn) {
	a := &pipeConn{id: aID, out: make(chan []byte, pipeBuffer), inbox: make(chan Payload, pipeBuffer), done: make(chan struct{})}
	b := &pipeConn{id: bID, out: make(chan []byte, pipeBuffer), inbox: make(chan Payload, pipeBuffer), done: make(chan struct{})}
	a.peer, b.peer = b, a
	go a.deliver()
	go b.deliver()
	return a, b
}

func (c *pipeConn) LocalID() string {
	return c.id
}

func (c *pipeConn) Send(ctx context.Context, p Payload) error {
	frame, err := Encode(p)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrClosed
	case <-c.peer.done:
		return ErrClosed
	default:
	}
	select {
	case c.out <- frame:
		return nil
	case <-c.done:
		return ErrClosed
	case <-c.peer.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *pipeConn) Inbox() <-chan Payload {
	return c.inbox
}

// Close shuts down both directions; the peer's inbox closes once pending frames are drained.
func (c *pipeConn) Close() error {
	c.closed.Do(func() { close(c.done) })
	return nil
}

// deliver moves frames from this end's outbound queue into the peer's inbox, in order.
func (c *pipeConn) deliver() {
	defer close(c.peer.inbox)
	for {
		select {
		case frame := <-c.out:
			if !c.forward(frame) {
				return
			}
		case <-c.done:
			c.drain()
			return
		case <-c.peer.done:
			return
		}
	}
}

func (c *pipeConn) drain() {
	for {
		select {
		case frame := <-c.out:
			if !c.forward(frame) {
				return
			}
		default:
			return
		}
	}
}

func (c *pipeConn) forward(frame []byte) bool {
	p, err := Decode(frame)
	if err != nil {
		log.Error().Err(err).Str("conn", c.id).Msg("dropping undecodable frame")
		return true
	}
	select {
	case c.peer.inbox <- p:
		return true
	case <-c.peer.done:
		return false
	}
}

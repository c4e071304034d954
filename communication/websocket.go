package communication

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MatchPath is the websocket endpoint the host serves.
const MatchPath = "/match"

const (
	readLimit    = 1 << 20 // 1MB
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	// Peers are native clients, not browsers.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Listener serves MatchPath and hands over exactly one peer.
type Listener struct {
	ln       net.Listener
	srv      *http.Server
	accepted chan *websocket.Conn
	taken    atomic.Bool
	log      zerolog.Logger
}

// Listen starts serving on addr. Use ":0" for an ephemeral port and read it back with Addr.
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	l := &Listener{
		ln:       ln,
		accepted: make(chan *websocket.Conn, 1),
		log:      log.With().Str("component", "listener").Logger(),
	}
	mux := http.NewServeMux()
	mux.HandleFunc(MatchPath, l.handle)
	l.srv = &http.Server{Handler: mux, ReadHeaderTimeout: writeWait}

	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.log.Error().Err(err).Msg("serve")
		}
	}()
	l.log.Info().Msgf("listening on %s (ws endpoint: %s)", ln.Addr(), MatchPath)
	return l, nil
}

func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// URL is the address a guest dials.
func (l *Listener) URL() string {
	return "ws://" + l.ln.Addr().String() + MatchPath
}

func (l *Listener) handle(w http.ResponseWriter, r *http.Request) {
	if !l.taken.CompareAndSwap(false, true) {
		http.Error(w, "match full", http.StatusConflict)
		return
	}
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.taken.Store(false)
		l.log.Warn().Err(err).Msg("upgrade")
		return
	}
	l.accepted <- ws
}

// Accept waits for the single peer, then stops serving.
func (l *Listener) Accept(ctx context.Context) (Conn, error) {
	select {
	case ws := <-l.accepted:
		l.Close()
		return newWSConn(ws), nil
	case <-ctx.Done():
		l.Close()
		return nil, ctx.Err()
	}
}

func (l *Listener) Close() error {
	return l.srv.Close()
}

// Dial connects to a host's listener.
func Dial(ctx context.Context, url string) (Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return newWSConn(ws), nil
}

type wsConn struct {
	id      string
	ws      *websocket.Conn
	inbox   chan Payload
	writeMu sync.Mutex
	done    chan struct{}
	once    sync.Once
	log     zerolog.Logger
}

func newWSConn(ws *websocket.Conn) *wsConn {
	id := uuid.NewString()
	c := &wsConn{
		id:    id,
		ws:    ws,
		inbox: make(chan Payload, pipeBuffer),
		done:  make(chan struct{}),
		log:   log.With().Str("component", "ws").Str("local", id).Logger(),
	}

	ws.SetReadLimit(readLimit)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.readLoop()
	go c.pingLoop()
	return c
}

func (c *wsConn) LocalID() string {
	return c.id
}

func (c *wsConn) Inbox() <-chan Payload {
	return c.inbox
}

func (c *wsConn) Send(ctx context.Context, p Payload) error {
	frame, err := Encode(p)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	c.writeMu.Lock()
	_ = c.ws.SetWriteDeadline(deadline)
	err = c.ws.WriteMessage(websocket.BinaryMessage, frame)
	c.writeMu.Unlock()
	if err != nil {
		c.log.Warn().Err(err).Stringer("kind", p.Kind()).Msg("write")
		c.Close()
		return fmt.Errorf("failed to send %s: %w", p.Kind(), err)
	}
	return nil
}

func (c *wsConn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

func (c *wsConn) readLoop() {
	defer close(c.inbox)
	defer c.Close()
	for {
		msgType, frame, err := c.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				select {
				case <-c.done:
				default:
					c.log.Warn().Err(err).Msg("read")
				}
			}
			c.log.Info().Msg("peer disconnected")
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		p, err := Decode(frame)
		if err != nil {
			c.log.Error().Err(err).Msg("dropping undecodable frame")
			continue
		}
		select {
		case c.inbox <- p:
		case <-c.done:
			return
		}
	}
}

func (c *wsConn) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.ws.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				c.log.Warn().Err(err).Msg("ping")
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

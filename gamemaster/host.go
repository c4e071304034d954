package gamemaster

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"pylons/communication"
	"pylons/engine"
	"pylons/game"
	"pylons/meta"
)

// Host owns the authoritative match. A single goroutine (Run) drives the engine: remote intents, local
// intents and timer ticks are all serialised through it.
type Host struct {
	conn     communication.Conn
	name     string
	match    *engine.Match
	observer Observer
	limiter  *rate.Limiter
	ticks    <-chan time.Time
	cmds     chan command

	guestID string
	sendCtx context.Context

	mu     sync.RWMutex
	latest *game.MatchState

	chat  transcript
	anims animations

	matchOpts []engine.Option
	log       zerolog.Logger
}

type command struct {
	run   func(ctx context.Context) bool
	reply chan bool
}

type HostOption func(*Host)

func WithMatchOptions(opts ...engine.Option) HostOption {
	return func(h *Host) { h.matchOpts = append(h.matchOpts, opts...) }
}

func WithObserver(o Observer) HostOption {
	return func(h *Host) { h.observer = o }
}

// WithTicks replaces the wall-clock phase timer.
func WithTicks(ticks <-chan time.Time) HostOption {
	return func(h *Host) { h.ticks = ticks }
}

func WithLimiter(l *rate.Limiter) HostOption {
	return func(h *Host) { h.limiter = l }
}

func NewHost(conn communication.Conn, name string, opts ...HostOption) *Host {
	h := &Host{
		conn:     conn,
		name:     name,
		observer: NopObserver{},
		limiter:  rate.NewLimiter(10, 20),
		cmds:     make(chan command),
		sendCtx:  context.Background(),
		anims:    animations{now: time.Now},
		log:      log.With().Str("component", "host").Logger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.match = engine.NewMatch(h, h.matchOpts...)
	h.latest = h.match.Snapshot()
	return h
}

func (h *Host) LocalID() string {
	return h.conn.LocalID()
}

// State is the latest published snapshot.
func (h *Host) State() *game.MatchState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest.Copy()
}

func (h *Host) Transcript() []communication.Chat {
	return h.chat.all()
}

func (h *Host) Animations() []Animation {
	return h.anims.live()
}

// Match exposes the engine for records once Run has returned.
func (h *Host) Match() *engine.Match {
	return h.match
}

// Run seats the host and serves until ctx ends or the guest disconnects.
func (h *Host) Run(ctx context.Context) error {
	h.sendCtx = ctx
	if _, err := h.match.Join(h.conn.LocalID(), h.name); err != nil {
		return fmt.Errorf("failed to seat host: %w", err)
	}

	if h.ticks == nil {
		ticker := time.NewTicker(meta.TICK)
		defer ticker.Stop()
		h.ticks = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p, ok := <-h.conn.Inbox():
			if !ok {
				h.log.Warn().Str("guest", h.guestID).Msg("guest disconnected")
				return fmt.Errorf("guest %s: %w", h.guestID, communication.ErrClosed)
			}
			h.handle(ctx, p)
		case cmd := <-h.cmds:
			cmd.reply <- cmd.run(ctx)
		case <-h.ticks:
			h.match.Tick(ctx)
		}
	}
}

func (h *Host) handle(ctx context.Context, p communication.Payload) {
	switch msg := p.(type) {
	case communication.Join:
		if h.guestID != "" && h.guestID != msg.PlayerID {
			h.log.Warn().Str("peer", msg.PlayerID).Msg("second join ignored")
			return
		}
		if _, err := h.match.Join(msg.PlayerID, msg.Name); err != nil {
			h.log.Warn().Err(err).Str("peer", msg.PlayerID).Msg("join rejected")
			return
		}
		h.guestID = msg.PlayerID
		for _, line := range h.chat.all() {
			h.send(line)
		}

	case communication.UpdatePlayer:
		if !h.fromGuest(msg.PlayerID) {
			return
		}
		h.updatePlayer(msg)

	case communication.Chat:
		if !h.fromGuest(msg.SenderID) || !h.allow(msg.Kind()) {
			return
		}
		h.chat.add(msg)
		h.observer.OnChat(msg)

	case communication.SubmitOrders:
		if !h.fromGuest(msg.PlayerID) || !h.allow(msg.Kind()) {
			return
		}
		if !h.match.Submit(ctx, msg.PlayerID, msg.Orders, msg.Finished) {
			h.log.Debug().Int("orders", len(msg.Orders)).Msg("guest submission outside building phase")
		}

	default:
		h.log.Warn().Stringer("kind", p.Kind()).Msg("unexpected payload from guest")
	}
}

func (h *Host) updatePlayer(msg communication.UpdatePlayer) {
	cur := h.match.Snapshot().Player(msg.PlayerID)
	if cur == nil {
		return
	}
	if !msg.Ready && cur.Ready {
		h.match.SetReady(msg.PlayerID, false)
	}
	if msg.Faction != "" && msg.Faction != cur.Faction {
		h.match.SetFaction(msg.PlayerID, msg.Faction)
	}
	if msg.Ready && !cur.Ready {
		h.match.SetReady(msg.PlayerID, true)
	}
}

func (h *Host) fromGuest(id string) bool {
	if id == "" || id != h.guestID {
		h.log.Warn().Str("claimed", id).Msg("payload not from seated guest")
		return false
	}
	return true
}

func (h *Host) allow(kind communication.Kind) bool {
	if !h.limiter.Allow() {
		h.log.Warn().Stringer("kind", kind).Msg("guest rate limited")
		return false
	}
	return true
}

func (h *Host) send(p communication.Payload) {
	if err := h.conn.Send(h.sendCtx, p); err != nil {
		h.log.Warn().Err(err).Stringer("kind", p.Kind()).Msg("send")
	}
}

// exec runs f on the loop goroutine and waits for its result.
func (h *Host) exec(ctx context.Context, f func(ctx context.Context) bool) error {
	reply := make(chan bool, 1)
	select {
	case h.cmds <- command{run: f, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case ok := <-reply:
		if !ok {
			return ErrRejected
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Host) SetFaction(ctx context.Context, f game.FactionType) error {
	return h.exec(ctx, func(context.Context) bool {
		return h.match.SetFaction(h.LocalID(), f)
	})
}

func (h *Host) SetReady(ctx context.Context, ready bool) error {
	return h.exec(ctx, func(context.Context) bool {
		return h.match.SetReady(h.LocalID(), ready)
	})
}

func (h *Host) Submit(ctx context.Context, orders []game.BuildOrder, finished bool) error {
	return h.exec(ctx, func(ctx context.Context) bool {
		return h.match.Submit(ctx, h.LocalID(), orders, finished)
	})
}

func (h *Host) Say(ctx context.Context, text string) error {
	line := communication.Chat{SenderID: h.LocalID(), Text: text, Timestamp: time.Now().UnixMilli()}
	return h.exec(ctx, func(context.Context) bool {
		h.chat.add(line)
		h.observer.OnChat(line)
		h.send(line)
		return true
	})
}

// Started, Timer, Snapshot and Animate implement engine.Publisher. The engine calls them on the loop goroutine.

func (h *Host) Started(countdown int) {
	h.send(communication.StartGame{Countdown: countdown})
}

func (h *Host) Timer(seq uint64, phase game.Phase, round, remaining int) {
	h.mu.Lock()
	h.latest.Seq, h.latest.Phase, h.latest.Round, h.latest.PhaseTimeRemaining = seq, phase, round, remaining
	snap := h.latest.Copy()
	h.mu.Unlock()

	h.send(communication.PhaseChange{Seq: seq, Phase: phase, Round: round, PhaseTimeRemaining: remaining})
	h.observer.OnState(snap)
}

func (h *Host) Snapshot(ms *game.MatchState) {
	h.mu.Lock()
	h.latest = ms
	h.mu.Unlock()

	h.send(communication.SyncState{State: *ms})
	h.observer.OnState(ms.Copy())
}

func (h *Host) Animate(e game.Event) {
	h.anims.add(e)
	h.send(communication.Animation{Event: e})
	h.observer.OnAnimation(e)
}

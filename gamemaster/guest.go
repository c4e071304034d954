package gamemaster

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pylons/communication"
	"pylons/game"
	"pylons/meta"
)

// Guest keeps a read-only mirror of the host's match. It never runs simulation logic: snapshots replace the
// mirror wholesale, phase patches overwrite the timer fields, and everything else is presentation.
type Guest struct {
	conn     communication.Conn
	name     string
	observer Observer
	ticks    <-chan time.Time

	mu     sync.RWMutex
	mirror *game.MatchState
	// countdown is the start signal's remaining seconds while no STARTING snapshot has arrived yet.
	countdown int

	chat  transcript
	anims animations

	log zerolog.Logger
}

type GuestOption func(*Guest)

func WithGuestObserver(o Observer) GuestOption {
	return func(g *Guest) { g.observer = o }
}

// WithGuestTicks replaces the wall-clock cosmetic countdown.
func WithGuestTicks(ticks <-chan time.Time) GuestOption {
	return func(g *Guest) { g.ticks = ticks }
}

// WithClock sets the clock used to expire animations.
func WithClock(now func() time.Time) GuestOption {
	return func(g *Guest) { g.anims.now = now }
}

func NewGuest(conn communication.Conn, name string, opts ...GuestOption) *Guest {
	g := &Guest{
		conn:     conn,
		name:     name,
		observer: NopObserver{},
		mirror:   game.NewMatchState(),
		anims:    animations{now: time.Now},
		log:      log.With().Str("component", "guest").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guest) LocalID() string {
	return g.conn.LocalID()
}

func (g *Guest) State() *game.MatchState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mirror.Copy()
}

func (g *Guest) Transcript() []communication.Chat {
	return g.chat.all()
}

func (g *Guest) Animations() []Animation {
	return g.anims.live()
}

// Run announces the guest and applies inbound payloads in receipt order until ctx ends or the host goes away.
func (g *Guest) Run(ctx context.Context) error {
	if err := g.conn.Send(ctx, communication.Join{PlayerID: g.LocalID(), Name: g.name}); err != nil {
		return err
	}

	if g.ticks == nil {
		ticker := time.NewTicker(meta.TICK)
		defer ticker.Stop()
		g.ticks = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p, ok := <-g.conn.Inbox():
			if !ok {
				g.log.Warn().Msg("host disconnected")
				return communication.ErrClosed
			}
			g.Apply(p)
		case <-g.ticks:
			g.Tick()
		}
	}
}

// Apply folds one inbound payload into the mirror.
func (g *Guest) Apply(p communication.Payload) {
	switch msg := p.(type) {
	case communication.SyncState:
		g.mu.Lock()
		if msg.State.Seq <= g.mirror.Seq {
			g.mu.Unlock()
			g.log.Debug().Uint64("seq", msg.State.Seq).Msg("stale snapshot ignored")
			return
		}
		next := msg.State
		g.mirror = &next
		g.countdown = 0
		snap := g.mirror.Copy()
		g.mu.Unlock()
		g.log.Debug().Uint64("seq", next.Seq).Str("digest", snap.Digest()).Msg("snapshot applied")
		g.observer.OnState(snap)

	case communication.PhaseChange:
		g.mu.Lock()
		if msg.Seq <= g.mirror.Seq {
			g.mu.Unlock()
			return
		}
		g.mirror.Seq, g.mirror.Phase, g.mirror.Round, g.mirror.PhaseTimeRemaining = msg.Seq, msg.Phase, msg.Round, msg.PhaseTimeRemaining
		snap := g.mirror.Copy()
		g.mu.Unlock()
		g.observer.OnState(snap)

	case communication.StartGame:
		g.mu.Lock()
		g.countdown = msg.Countdown
		g.mu.Unlock()
		g.log.Info().Msgf("match starting in %ds", msg.Countdown)

	case communication.Chat:
		g.chat.add(msg)
		g.observer.OnChat(msg)

	case communication.Animation:
		g.anims.add(msg.Event)
		g.observer.OnAnimation(msg.Event)

	default:
		g.log.Warn().Stringer("kind", p.Kind()).Msg("unexpected payload from host")
	}
}

// Tick runs the cosmetic countdown. It never changes Seq, so the next authoritative update overwrites it.
func (g *Guest) Tick() {
	g.mu.Lock()
	if !g.mirror.Phase.Timed() || g.mirror.PhaseTimeRemaining <= 0 {
		g.mu.Unlock()
		return
	}
	g.mirror.PhaseTimeRemaining--
	snap := g.mirror.Copy()
	g.mu.Unlock()
	g.observer.OnState(snap)
}

// Countdown is the start signal's countdown, 0 once the first STARTING snapshot arrived.
func (g *Guest) Countdown() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.countdown
}

func (g *Guest) self() game.Player {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if p := g.mirror.Player(g.LocalID()); p != nil {
		return *p
	}
	return game.Player{}
}

func (g *Guest) SetFaction(ctx context.Context, f game.FactionType) error {
	me := g.self()
	return g.conn.Send(ctx, communication.UpdatePlayer{PlayerID: g.LocalID(), Faction: f, Ready: me.Ready})
}

func (g *Guest) SetReady(ctx context.Context, ready bool) error {
	me := g.self()
	return g.conn.Send(ctx, communication.UpdatePlayer{PlayerID: g.LocalID(), Faction: me.Faction, Ready: ready})
}

func (g *Guest) Submit(ctx context.Context, orders []game.BuildOrder, finished bool) error {
	return g.conn.Send(ctx, communication.SubmitOrders{PlayerID: g.LocalID(), Orders: orders, Finished: finished})
}

func (g *Guest) Say(ctx context.Context, text string) error {
	line := communication.Chat{SenderID: g.LocalID(), Text: text, Timestamp: time.Now().UnixMilli()}
	if err := g.conn.Send(ctx, line); err != nil {
		return err
	}
	g.chat.add(line)
	g.observer.OnChat(line)
	return nil
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pylons/game"
	"pylons/meta"
	"pylons/metrics"
)

var (
	ErrMatchFull  = errors.New("match already has two players")
	ErrWrongPhase = errors.New("operation not allowed in current phase")
)

// Match is the host's authoritative session. It is the only writer of match state and is not safe for
// concurrent use; the host drives it from a single goroutine.
type Match struct {
	state     *game.MatchState
	rules     game.Rules
	ids       game.IDGenerator
	pub       Publisher
	pacer     Pacer
	collector metrics.Collector

	pending  [meta.MAX_PLAYERS][]game.BuildOrder // Queued by slot during BUILDING
	finished [meta.MAX_PLAYERS]bool

	record *metrics.MatchRecord
	rounds []metrics.RoundRecord

	log zerolog.Logger
}

type Option func(*Match)

func WithRules(r game.Rules) Option {
	return func(m *Match) { m.rules = r }
}

func WithIDs(ids game.IDGenerator) Option {
	return func(m *Match) { m.ids = ids }
}

func WithPacer(p Pacer) Option {
	return func(m *Match) { m.pacer = p }
}

func WithCollector(c metrics.Collector) Option {
	return func(m *Match) { m.collector = c }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Match) { m.log = l.With().Str("component", "match").Logger() }
}

func NewMatch(pub Publisher, opts ...Option) *Match {
	m := &Match{
		state:     game.NewMatchState(),
		rules:     game.NewStandardRules(),
		ids:       game.UUIDs{},
		pub:       pub,
		pacer:     RealTime{},
		collector: metrics.NewDummyCollector(),
		log:       log.With().Str("component", "match").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns a copy of the current authoritative state.
func (m *Match) Snapshot() *game.MatchState {
	return m.state.Copy()
}

func (m *Match) Phase() game.Phase {
	return m.state.Phase
}

// Record returns the match and round records once the match is over.
func (m *Match) Record() (metrics.MatchRecord, []metrics.RoundRecord, bool) {
	if m.record == nil {
		return metrics.MatchRecord{}, nil, false
	}
	return *m.record, m.rounds, true
}

// Join seats a player in the next free slot. Joining twice with the same id returns the existing slot.
func (m *Match) Join(id, name string) (game.Slot, error) {
	if slot := m.state.SlotOf(id); slot != game.NoSlot {
		return slot, nil
	}
	if m.state.Phase != game.LobbyPhase {
		return game.NoSlot, fmt.Errorf("join %s: %w", id, ErrWrongPhase)
	}
	if len(m.state.Players) >= meta.MAX_PLAYERS {
		return game.NoSlot, ErrMatchFull
	}

	slot := game.Slot(len(m.state.Players))
	m.state.Players = append(m.state.Players, game.Player{
		ID:       id,
		Slot:     slot,
		Name:     name,
		Unlocked: []string{},
	})
	m.log.Info().Msgf("player %s (%s) joined in slot %d", name, id, slot)
	m.publish()
	return slot, nil
}

// SetFaction selects a faction for a player in the lobby. The choice is locked while the player is ready.
func (m *Match) SetFaction(id string, f game.FactionType) bool {
	p := m.lobbyPlayer(id)
	if p == nil || p.Ready {
		return false
	}
	if _, ok := game.LookupFaction(f); !ok {
		return false
	}
	p.Faction = f
	m.publish()
	return true
}

// SetReady marks a player ready or not. Ready requires a faction. When both seats are ready the start
// countdown begins.
func (m *Match) SetReady(id string, ready bool) bool {
	p := m.lobbyPlayer(id)
	if p == nil {
		return false
	}
	if ready && p.Faction == "" {
		return false
	}
	p.Ready = ready
	m.publish()

	if m.allReady() {
		m.enterStarting()
	}
	return true
}

// Submit queues build orders for a player during BUILDING. finished marks the player done; when both are done
// the phase ends immediately.
func (m *Match) Submit(ctx context.Context, id string, orders []game.BuildOrder, finished bool) bool {
	if m.state.Phase != game.BuildingPhase {
		return false
	}
	slot := m.state.SlotOf(id)
	if slot == game.NoSlot || m.finished[slot] {
		return false
	}
	m.pending[slot] = append(m.pending[slot], orders...)
	if !finished {
		return true
	}

	m.finished[slot] = true
	m.log.Info().Msgf("player %s finished building with %d orders queued", id, len(m.pending[slot]))
	if m.finished[game.HostSlot] && m.finished[game.GuestSlot] {
		m.endBuilding(ctx)
		return true
	}
	if other := m.state.PlayerInSlot(slot.Opponent()); other != nil {
		m.log.Info().Msgf("round %d: waiting for %s to finish building (%ds left)", m.state.Round, other.Name, m.state.PhaseTimeRemaining)
	}
	return true
}

// Tick advances the phase timer by one second, performing any transition that falls due.
func (m *Match) Tick(ctx context.Context) {
	if !m.state.Phase.Timed() {
		return
	}
	m.state.PhaseTimeRemaining--
	if m.state.PhaseTimeRemaining > 0 {
		m.state.Seq++
		m.pub.Timer(m.state.Seq, m.state.Phase, m.state.Round, m.state.PhaseTimeRemaining)
		return
	}
	m.state.PhaseTimeRemaining = 0

	switch m.state.Phase {
	case game.StartingPhase:
		m.enterResource()
	case game.ResourcePhase:
		m.enterBuilding()
	case game.BuildingPhase:
		m.endBuilding(ctx)
	}
}

func (m *Match) lobbyPlayer(id string) *game.Player {
	if m.state.Phase != game.LobbyPhase {
		return nil
	}
	return m.state.Player(id)
}

func (m *Match) allReady() bool {
	if len(m.state.Players) < meta.MAX_PLAYERS {
		return false
	}
	for _, p := range m.state.Players {
		if !p.Ready || p.Faction == "" {
			return false
		}
	}
	return true
}

func (m *Match) enterStarting() {
	m.state.InitializeBoard(m.ids)
	m.state.Phase = game.StartingPhase
	m.state.PhaseTimeRemaining = meta.START_COUNTDOWN
	m.collector.Start()
	m.log.Info().Msgf("all players ready, starting in %ds", meta.START_COUNTDOWN)
	m.pub.Started(meta.START_COUNTDOWN)
	m.publish()
}

func (m *Match) enterResource() {
	m.state.Round++
	m.state.Phase = game.ResourcePhase
	m.state.PhaseTimeRemaining = meta.RESOURCE_DELAY
	m.state.CollectIncome()
	m.collector.Round(m.state)
	for _, p := range m.state.Players {
		m.log.Info().Msgf("round %d: %s collected %d (balance %d)", m.state.Round, p.Name, p.LastCollected, p.Resources)
	}
	m.publish()
}

func (m *Match) enterBuilding() {
	m.state.Phase = game.BuildingPhase
	m.state.PhaseTimeRemaining = meta.BUILDING_DURATION
	m.pending = [meta.MAX_PLAYERS][]game.BuildOrder{}
	m.finished = [meta.MAX_PLAYERS]bool{}
	m.log.Info().Msgf("round %d: building for %ds", m.state.Round, meta.BUILDING_DURATION)
	m.publish()
}

// endBuilding applies both players' queued orders, host first, then runs the action pass to completion.
func (m *Match) endBuilding(ctx context.Context) {
	m.state.Phase = game.ActionPhase
	m.state.PhaseTimeRemaining = 0
	for _, slot := range []game.Slot{game.HostSlot, game.GuestSlot} {
		p := m.state.PlayerInSlot(slot)
		if p == nil {
			continue
		}
		accepted := m.state.ApplyOrders(p.ID, m.pending[slot], m.ids)
		m.log.Info().Msgf("round %d: %s had %d/%d orders accepted", m.state.Round, p.Name, accepted, len(m.pending[slot]))
	}
	m.pending = [meta.MAX_PLAYERS][]game.BuildOrder{}
	m.publish()

	m.runActionPass(ctx)

	if m.state.Phase == game.GameOverPhase {
		m.finish()
		return
	}
	m.enterResource()
}

// runActionPass publishes after every resolver step. Pacing errors drop to no delay; the pass itself is never
// cancelled.
func (m *Match) runActionPass(ctx context.Context) {
	pacer := m.pacer
	pause := func(d time.Duration) {
		if err := pacer.Pause(ctx, d); err != nil {
			m.log.Warn().Err(err).Msg("pacing interrupted, finishing pass without delay")
			pacer = NoDelay{}
		}
	}

	pause(meta.PASS_PAUSE)
	pass := game.NewActionPass(m.state, m.rules)
	m.state = pass.State()

	var lastActor string
	for {
		events, ok := pass.Next()
		if !ok {
			break
		}
		if len(events) > 0 && events[0].ActorID != lastActor {
			lastActor = events[0].ActorID
			pause(meta.UNIT_PAUSE)
		}
		m.collector.AddStep()
		for _, e := range events {
			m.pub.Animate(e)
		}
		m.publish()
		pause(stepPause(events))
	}
}

func (m *Match) finish() {
	winner := m.state.Player(m.state.Winner)
	if winner != nil {
		m.log.Info().Msgf("game over after %d rounds, %s wins", m.state.Round, winner.Name)
	}
	rec, rounds := m.collector.Complete(m.state)
	m.record, m.rounds = &rec, rounds
}

func (m *Match) publish() {
	m.state.Seq++
	m.log.Debug().Uint64("seq", m.state.Seq).Str("phase", m.state.Phase.String()).Str("digest", m.state.Digest()).Msg("publish")
	m.pub.Snapshot(m.state.Copy())
}

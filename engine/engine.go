package engine

import (
	"context"
	"time"

	"pylons/game"
	"pylons/meta"
)

// Publisher receives everything the authoritative match makes observable. Snapshots are copies owned by the
// receiver.
type Publisher interface {
	// Started signals the start countdown has begun.
	Started(countdown int)
	// Timer is a phase-timer tick between full snapshots.
	Timer(seq uint64, phase game.Phase, round, remaining int)
	// Snapshot is a full authoritative state.
	Snapshot(ms *game.MatchState)
	// Animate is an advisory presentation event. It never carries state.
	Animate(e game.Event)
}

// Pacer spaces out resolver steps for presentation. It has no effect on the outcome.
type Pacer interface {
	Pause(ctx context.Context, d time.Duration) error
}

// RealTime sleeps for the requested duration.
type RealTime struct{}

func (RealTime) Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoDelay skips all pacing.
type NoDelay struct{}

func (NoDelay) Pause(context.Context, time.Duration) error { return nil }

// stepPause is how long a step stays on screen before the next one.
func stepPause(events []game.Event) time.Duration {
	var d time.Duration
	for _, e := range events {
		switch e.Kind {
		case game.MoveEvent:
			d = max(d, meta.MOVE_PAUSE)
		case game.AttackEvent:
			d = max(d, meta.ATTACK_PAUSE)
		case game.DeathEvent:
			d = max(d, meta.DEATH_PAUSE)
		}
	}
	return d
}

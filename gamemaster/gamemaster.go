package gamemaster

import (
	"errors"
	"sync"
	"time"

	"pylons/communication"
	"pylons/game"
	"pylons/meta"
)

var ErrRejected = errors.New("rejected by host")

// Observer is the presentation collaborator. Callbacks run on the session's loop goroutine and must not block.
type Observer interface {
	OnState(ms *game.MatchState)
	OnAnimation(e game.Event)
	OnChat(line communication.Chat)
}

type NopObserver struct{}

func (NopObserver) OnState(*game.MatchState)  {}
func (NopObserver) OnAnimation(game.Event)    {}
func (NopObserver) OnChat(communication.Chat) {}

// Animation is an event still on screen.
type Animation struct {
	game.Event
	Expires time.Time
}

// animations holds advisory events until they expire. Nothing in it ever feeds back into match state.
type animations struct {
	mu     sync.Mutex
	active []Animation
	now    func() time.Time
}

func (a *animations) add(e game.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = append(a.active, Animation{Event: e, Expires: a.now().Add(meta.ANIMATION_TTL)})
}

// live prunes expired entries and returns the rest.
func (a *animations) live() []Animation {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	kept := a.active[:0]
	for _, anim := range a.active {
		if now.Before(anim.Expires) {
			kept = append(kept, anim)
		}
	}
	a.active = kept
	return append([]Animation(nil), kept...)
}

// transcript is the chat log. It is not part of match state.
type transcript struct {
	mu    sync.Mutex
	lines []communication.Chat
}

func (t *transcript) add(line communication.Chat) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
}

func (t *transcript) all() []communication.Chat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]communication.Chat(nil), t.lines...)
}

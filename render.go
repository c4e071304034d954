package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"pylons/communication"
	"pylons/game"
	"pylons/meta"
)

// renderer prints snapshots as text. Host units are upper case, guest units lower case; owned empty cells
// show as + (host) or - (guest).
type renderer struct {
	mu    sync.Mutex
	out   io.Writer
	self  string
	names map[string]string
	last  game.Phase
	round int
}

func newRenderer(out io.Writer, self string) *renderer {
	return &renderer{out: out, self: self, names: map[string]string{}, last: -1}
}

func (r *renderer) OnState(ms *game.MatchState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range ms.Players {
		r.names[p.ID] = p.Name
	}

	// Timer patches only get a status line.
	if ms.Phase == r.last && ms.Round == r.round && ms.Phase != game.ActionPhase && ms.Phase != game.LobbyPhase {
		if ms.Phase.Timed() {
			fmt.Fprintf(r.out, "  %s %ds\n", ms.Phase, ms.PhaseTimeRemaining)
		}
		return
	}
	r.last, r.round = ms.Phase, ms.Round
	fmt.Fprint(r.out, render(ms, r.self))
}

func (r *renderer) OnAnimation(e game.Event) {
	switch e.Kind {
	case game.MoveEvent:
		fmt.Fprintf(r.out, "  %s moves %s\n", e.ActorID, e.Direction)
	case game.AttackEvent:
		fmt.Fprintf(r.out, "  %s hits %s for %d\n", e.ActorID, e.TargetID, e.Damage)
	case game.DeathEvent:
		fmt.Fprintf(r.out, "  %s destroyed %s\n", e.ActorID, e.TargetID)
	}
}

func (r *renderer) OnChat(line communication.Chat) {
	r.mu.Lock()
	name, ok := r.names[line.SenderID]
	r.mu.Unlock()
	if !ok {
		name = line.SenderID
	}
	fmt.Fprintf(r.out, "[%s] %s\n", name, line.Text)
}

func render(ms *game.MatchState, self string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s  round %d", ms.Phase, ms.Round)
	if ms.Phase.Timed() {
		fmt.Fprintf(&b, "  %ds", ms.PhaseTimeRemaining)
	}
	b.WriteString(" ==\n")

	for _, p := range ms.Players {
		marker := " "
		if p.ID == self {
			marker = "*"
		}
		ready := ""
		if ms.Phase == game.LobbyPhase && p.Ready {
			ready = " ready"
		}
		fmt.Fprintf(&b, "%s %-10s %-8s res %-3d +%d built %d killed %d%s\n",
			marker, p.Name, p.Faction, p.Resources, p.LastCollected, p.UnitsBuilt, p.UnitsKilled, ready)
	}
	if ms.Phase == game.LobbyPhase {
		return b.String()
	}

	b.WriteString("   ")
	for x := 0; x < meta.BOARD_SIZE; x++ {
		fmt.Fprintf(&b, " %d", x)
	}
	b.WriteString("\n")
	for y := 0; y < meta.BOARD_SIZE; y++ {
		fmt.Fprintf(&b, "  %d", y)
		for x := 0; x < meta.BOARD_SIZE; x++ {
			b.WriteString(" ")
			b.WriteString(cell(ms, x, y))
		}
		b.WriteString("\n")
	}

	if ms.Phase == game.GameOverPhase {
		if w := ms.Player(ms.Winner); w != nil {
			fmt.Fprintf(&b, "%s wins\n", w.Name)
		}
	}
	return b.String()
}

func cell(ms *game.MatchState, x, y int) string {
	if i := ms.UnitAt(x, y); i >= 0 {
		u := ms.Units[i]
		glyph := string(u.Stats.Class[0])
		if u.IsQueen() {
			glyph = "Q"
		}
		if ms.SlotOf(u.OwnerID) == game.GuestSlot {
			glyph = strings.ToLower(glyph)
		}
		return glyph
	}
	switch {
	case ms.Pylons.Owned(x, y, game.HostSlot):
		return "+"
	case ms.Pylons.Owned(x, y, game.GuestSlot):
		return "-"
	}
	return "."
}

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pylons/game"
	"pylons/player"
)

func startedMatch() *game.MatchState {
	ms := game.NewMatchState()
	ms.Players = []game.Player{
		{ID: "host", Name: "Hank", Slot: game.HostSlot, Faction: game.Antz},
		{ID: "guest", Name: "Gail", Slot: game.GuestSlot, Faction: game.Beez},
	}
	ms.InitializeBoard(&game.Sequence{Prefix: "q"})
	ms.Phase = game.BuildingPhase
	ms.Round = 1
	ms.PhaseTimeRemaining = 60
	return ms
}

func TestRender(t *testing.T) {
	out := render(startedMatch(), "host")
	lines := strings.Split(out, "\n")
	require.Contains(t, lines[0], "BUILDING")
	require.Contains(t, lines[1], "*")
	require.Contains(t, out, "Gail")

	// Row 3 holds both queens: host at x=1, guest at x=5.
	require.Equal(t, "  3 . Q . . . q .", lines[7])
	require.Equal(t, "  2 . + . . . - .", lines[6])
}

func TestRendererSkipsTimerPatches(t *testing.T) {
	var buf bytes.Buffer
	r := newRenderer(&buf, "host")
	ms := startedMatch()
	r.OnState(ms)
	full := buf.Len()

	ms.PhaseTimeRemaining = 59
	r.OnState(ms)
	require.Equal(t, "  BUILDING 59s\n", buf.String()[full:])
}

type stubSession struct {
	ms      *game.MatchState
	faction game.FactionType
}

func (s *stubSession) LocalID() string                                       { return "host" }
func (s *stubSession) State() *game.MatchState                               { return s.ms.Copy() }
func (s *stubSession) SetReady(context.Context, bool) error                  { return nil }
func (s *stubSession) Submit(context.Context, []game.BuildOrder, bool) error { return nil }
func (s *stubSession) Say(context.Context, string) error                     { return nil }
func (s *stubSession) SetFaction(_ context.Context, f game.FactionType) error {
	s.faction = f
	return nil
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	s := &stubSession{ms: startedMatch()}
	ctrl := player.NewController(s)
	r := newRenderer(&bytes.Buffer{}, "host")

	require.NoError(t, dispatch(ctx, ctrl, r, []string{"faction", "Mantiz"}))
	require.Equal(t, game.Mantiz, s.faction)
	require.Error(t, dispatch(ctx, ctrl, r, []string{"build", "a_w", "x", "2"}))
	require.Error(t, dispatch(ctx, ctrl, r, []string{"build", "a_w"}))
	require.Error(t, dispatch(ctx, ctrl, r, []string{"dance"}))
	require.ErrorIs(t, dispatch(ctx, ctrl, r, []string{"build", "a_w", "1", "2"}), player.ErrInvalidOrder) // No resources
	require.NoError(t, dispatch(ctx, ctrl, r, []string{"finish"}))
}

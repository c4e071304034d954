package player

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"pylons/game"
)

type submission struct {
	orders   []game.BuildOrder
	finished bool
}

type fakeSession struct {
	id        string
	state     *game.MatchState
	submitted []submission
	factions  []game.FactionType
	ready     []bool
	said      []string
}

func (f *fakeSession) LocalID() string         { return f.id }
func (f *fakeSession) State() *game.MatchState { return f.state.Copy() }
func (f *fakeSession) Say(_ context.Context, text string) error {
	f.said = append(f.said, text)
	return nil
}
func (f *fakeSession) SetFaction(_ context.Context, fa game.FactionType) error {
	f.factions = append(f.factions, fa)
	return nil
}
func (f *fakeSession) SetReady(_ context.Context, ready bool) error {
	f.ready = append(f.ready, ready)
	return nil
}
func (f *fakeSession) Submit(_ context.Context, orders []game.BuildOrder, finished bool) error {
	f.submitted = append(f.submitted, submission{orders, finished})
	return nil
}

func buildingSession(t *testing.T, resources int) *fakeSession {
	t.Helper()
	ms := game.NewMatchState()
	ms.Players = []game.Player{
		{ID: "host", Slot: game.HostSlot, Faction: game.Antz},
		{ID: "guest", Slot: game.GuestSlot, Faction: game.Mantiz},
	}
	ms.InitializeBoard(&game.Sequence{Prefix: "q"})
	ms.Phase = game.BuildingPhase
	ms.Round = 1
	ms.Players[0].Resources = resources
	return &fakeSession{id: "host", state: ms}
}

func TestLobbyIntents(t *testing.T) {
	ctx := context.Background()
	s := &fakeSession{id: "host", state: game.NewMatchState()}
	c := NewController(s)

	require.Error(t, c.SelectFaction(ctx, "Wasps"))
	require.NoError(t, c.SelectFaction(ctx, game.Beez))
	require.Equal(t, []game.FactionType{game.Beez}, s.factions)

	require.Error(t, c.ToggleReady(ctx))
	s.state.Players = []game.Player{{ID: "host", Faction: game.Beez}}
	require.NoError(t, c.ToggleReady(ctx))
	s.state.Players[0].Ready = true
	require.NoError(t, c.ToggleReady(ctx))
	require.Equal(t, []bool{true, false}, s.ready)

	require.NoError(t, c.Say(ctx, "hello"))
	require.Equal(t, []string{"hello"}, s.said)
}

func TestQueueOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards each valid order immediately", func(t *testing.T) {
		s := buildingSession(t, 7)
		c := NewController(s)

		require.NoError(t, c.Build(ctx, "a_f", 1, 2))
		require.Len(t, s.submitted, 1)
		require.False(t, s.submitted[0].finished)

		// 3 left: the worker fits, a second fire does not.
		require.ErrorIs(t, c.Build(ctx, "a_f", 1, 4), ErrInvalidOrder)
		require.ErrorIs(t, c.Build(ctx, "a_w", 1, 2), ErrInvalidOrder) // Queued cell
		require.NoError(t, c.Build(ctx, "a_w", 1, 4))
		require.Len(t, c.Pending(), 2)
		require.Len(t, s.submitted, 2)

		require.NoError(t, c.Finish(ctx))
		require.True(t, s.submitted[2].finished)
		require.Empty(t, s.submitted[2].orders)
	})

	t.Run("unlock respects cost", func(t *testing.T) {
		s := buildingSession(t, 8)
		c := NewController(s)
		require.ErrorIs(t, c.Unlock(ctx, "a_b"), ErrInvalidOrder) // 9
		require.NoError(t, c.Unlock(ctx, "a_l"))                  // 7
		require.Error(t, c.Unlock(ctx, "a_l"))
	})

	t.Run("queue resets with the round", func(t *testing.T) {
		s := buildingSession(t, 7)
		c := NewController(s)
		require.NoError(t, c.Build(ctx, "a_w", 1, 2))
		s.state.Round = 2
		require.Empty(t, c.Pending())
	})

	t.Run("outside building nothing is sent", func(t *testing.T) {
		s := buildingSession(t, 7)
		s.state.Phase = game.ActionPhase
		c := NewController(s)
		require.ErrorIs(t, c.Build(ctx, "a_w", 1, 2), ErrNotBuilding)
		require.ErrorIs(t, c.Finish(ctx), ErrNotBuilding)
		require.Empty(t, s.submitted)
	})
}

func TestBuildable(t *testing.T) {
	s := buildingSession(t, 3)
	c := NewController(s)
	options := c.Buildable()
	require.Len(t, options, 1)
	require.Equal(t, "a_w", options[0].CatalogID)

	require.ElementsMatch(t, []game.Point{{X: 1, Y: 2}, {X: 1, Y: 4}}, c.FreeCells())
}

func TestReachable(t *testing.T) {
	s := buildingSession(t, 0)
	c := NewController(s)
	stats, _ := mustFaction(t, game.Antz).Stats("a_f")
	s.state.Units = append(s.state.Units, game.Unit{Stats: stats, InstanceID: "f1", OwnerID: "host", X: 3, Y: 0, CurrentHealth: 2})

	require.True(t, c.Reachable("f1", 3, 0))
	require.True(t, c.Reachable("f1", 4, 1))
	require.False(t, c.Reachable("f1", 3, 3))
	require.False(t, c.Reachable("f1", 9, 0))
	require.False(t, c.Reachable("nobody", 3, 1))
}

func TestAutoBuild(t *testing.T) {
	s := buildingSession(t, 10)
	c := NewController(s)
	require.NoError(t, c.AutoBuild(context.Background(), rand.New(rand.NewPCG(1, 2))))

	last := s.submitted[len(s.submitted)-1]
	require.True(t, last.finished)
	require.Len(t, s.submitted, 3) // Both free cells filled, then finish
}

func mustFaction(t *testing.T, f game.FactionType) *game.Faction {
	t.Helper()
	faction, ok := game.LookupFaction(f)
	require.True(t, ok)
	return faction
}

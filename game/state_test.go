package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitializeBoard(t *testing.T) {
	ms := newTestMatch(t, Beez, Mantiz)

	require.Len(t, ms.Units, 2)
	require.True(t, ms.Units[0].IsQueen())
	require.Equal(t, "host", ms.Units[0].OwnerID)
	require.Equal(t, Point{1, 3}, Point{ms.Units[0].X, ms.Units[0].Y})
	require.Equal(t, "guest", ms.Units[1].OwnerID)
	require.Equal(t, Point{5, 3}, Point{ms.Units[1].X, ms.Units[1].Y})
	require.Equal(t, 10, ms.Units[1].CurrentHealth)

	require.Equal(t, []string{"be_w", "be_t", "be_b"}, ms.Players[0].Unlocked)
	require.Equal(t, []string{"m_w", "m_t", "m_r"}, ms.Players[1].Unlocked)

	require.Equal(t, 5, ms.Pylons[1][2])
	require.Equal(t, -5, ms.Pylons[6][5])
	require.Equal(t, 0, ms.Pylons[3][3])
}

func TestInitializeBoardRequiresTwoFactions(t *testing.T) {
	ms := NewMatchState()
	ms.Players = []Player{{ID: "host", Slot: HostSlot, Faction: Antz}}
	require.Panics(t, func() { ms.InitializeBoard(&Sequence{}) })

	ms.Players = append(ms.Players, Player{ID: "guest", Slot: GuestSlot})
	require.Panics(t, func() { ms.InitializeBoard(&Sequence{}) })
}

func TestMatchStateCopy(t *testing.T) {
	ms := newTestMatch(t, Antz, Beetlez)
	cp := ms.Copy()

	require.Equal(t, ms, cp)
	require.Equal(t, ms.Digest(), cp.Digest())

	cp.Players[0].Unlocked[0] = "changed"
	cp.Units[0].CurrentHealth = 1
	cp.Pylons[1][2] = 0

	require.Equal(t, "a_w", ms.Players[0].Unlocked[0], "Copy must not share unlocked sets")
	require.Equal(t, 10, ms.Units[0].CurrentHealth, "Copy must not share units")
	require.Equal(t, 5, ms.Pylons[1][2], "Copy must not share the grid")
	require.NotEqual(t, ms.Digest(), cp.Digest())
}

func TestDigestSeparatesStrings(t *testing.T) {
	ms := newTestMatch(t, Antz, Beetlez)
	cp := ms.Copy()

	ms.Players[0].Unlocked = []string{"a_w", "a_f"}
	cp.Players[0].Unlocked = []string{"a_wa_f"}
	require.NotEqual(t, ms.Digest(), cp.Digest())

	cp.Players[0].Unlocked = []string{"a_w", "a_f"}
	cp.Players[0].ID, cp.Players[0].Faction = "hostA", "ntz"
	ms.Players[0].ID, ms.Players[0].Faction = "host", "Antz"
	require.NotEqual(t, ms.Digest(), cp.Digest())
}

func TestMatchStateLookups(t *testing.T) {
	ms := newTestMatch(t, Antz, Beetlez)

	require.Equal(t, GuestSlot, ms.SlotOf("guest"))
	require.Equal(t, NoSlot, ms.SlotOf("nobody"))
	require.Nil(t, ms.Player("nobody"))
	require.Equal(t, "host", ms.PlayerInSlot(HostSlot).ID)
	require.Nil(t, ms.PlayerInSlot(NoSlot))
	require.Equal(t, 1, ms.UnitAt(5, 3))
	require.Equal(t, -1, ms.UnitAt(0, 0))
}

func TestPhaseNames(t *testing.T) {
	require.Equal(t, "GAME_OVER", GameOverPhase.String())
	require.Equal(t, "UNKNOWN", Phase(42).String())
	require.True(t, BuildingPhase.Timed())
	require.False(t, ActionPhase.Timed())
	require.Equal(t, GuestSlot, HostSlot.Opponent())
}

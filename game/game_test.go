package game

import "testing"

// newTestMatch seats two players with factions and lays out the starting board.
func newTestMatch(t *testing.T, host, guest FactionType) *MatchState {
	t.Helper()
	ms := NewMatchState()
	ms.Players = []Player{
		{ID: "host", Slot: HostSlot, Faction: host},
		{ID: "guest", Slot: GuestSlot, Faction: guest},
	}
	ms.InitializeBoard(&Sequence{Prefix: "q"})
	return ms
}

// place adds a unit directly, bypassing the validator.
func place(ms *MatchState, id, owner string, stats UnitStats, x, y int) {
	ms.Units = append(ms.Units, Unit{
		Stats:         stats,
		InstanceID:    id,
		OwnerID:       owner,
		X:             x,
		Y:             y,
		CurrentHealth: stats.Health,
	})
}

func mustStats(t *testing.T, f FactionType, catalogID string) UnitStats {
	t.Helper()
	faction, ok := LookupFaction(f)
	if !ok {
		t.Fatalf("unknown faction %s", f)
	}
	stats, ok := faction.Stats(catalogID)
	if !ok {
		t.Fatalf("unknown catalog id %s", catalogID)
	}
	return stats
}

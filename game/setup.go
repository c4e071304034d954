package game

import "golang.org/x/exp/slices"

var (
	hostPosts  = []Point{{1, 2}, {2, 2}, {1, 3}, {2, 3}, {1, 4}, {2, 4}, {1, 5}, {2, 5}}
	guestPosts = []Point{{5, 2}, {6, 2}, {5, 3}, {6, 3}, {5, 4}, {6, 4}, {5, 5}, {6, 5}}

	queenStarts = [...]Point{HostSlot: {1, 3}, GuestSlot: {5, 3}}
)

// InitializeBoard lays out the symmetric starting posts, places each player's Queen and seeds unlocked sets
// from the faction tables. Both players must be seated with factions chosen.
func (ms *MatchState) InitializeBoard(ids IDGenerator) {
	if len(ms.Players) != 2 {
		panic("InitializeBoard needs exactly two players")
	}

	ms.Pylons = PylonGrid{}
	for _, p := range hostPosts {
		ms.Pylons.Set(p.X, p.Y, HostSlot.Sign()*5)
	}
	for _, p := range guestPosts {
		ms.Pylons.Set(p.X, p.Y, GuestSlot.Sign()*5)
	}

	ms.Units = ms.Units[:0]
	for i := range ms.Players {
		player := &ms.Players[i]
		faction, ok := LookupFaction(player.Faction)
		if !ok {
			panic("InitializeBoard: player " + player.ID + " has no faction")
		}
		player.Unlocked = slices.Clone(faction.InitialUnlocks)

		start := queenStarts[player.Slot]
		ms.Units = append(ms.Units, Unit{
			Stats:         Queen,
			InstanceID:    ids.NewID(),
			OwnerID:       player.ID,
			X:             start.X,
			Y:             start.Y,
			CurrentHealth: Queen.Health,
		})
	}
	ms.Winner = ""
	ms.Round = 0
}

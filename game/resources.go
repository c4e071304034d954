package game

import "pylons/meta"

// Income counts the cells owned by the player's slot. Unknown players earn nothing.
func Income(ms *MatchState, playerID string) int {
	slot := ms.SlotOf(playerID)
	if slot == NoSlot {
		return 0
	}

	count := 0
	for x := 0; x < meta.BOARD_SIZE; x++ {
		for y := 0; y < meta.BOARD_SIZE; y++ {
			if ms.Pylons.Owned(x, y, slot) {
				count++
			}
		}
	}
	return count
}

// CollectIncome credits every player's income and records it as LastCollected.
func (ms *MatchState) CollectIncome() {
	for i := range ms.Players {
		income := Income(ms, ms.Players[i].ID)
		ms.Players[i].Resources += income
		ms.Players[i].LastCollected = income
	}
}

package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pylons/meta"
)

func TestIncome(t *testing.T) {
	t.Run("starting layout yields three cells each", func(t *testing.T) {
		ms := newTestMatch(t, Antz, Beez)

		require.Equal(t, 3, Income(ms, "host"))
		require.Equal(t, 3, Income(ms, "guest"))
	})

	t.Run("unknown player earns nothing", func(t *testing.T) {
		ms := newTestMatch(t, Antz, Beez)
		require.Equal(t, 0, Income(ms, "spectator"))
	})

	t.Run("fully owned board is bounded by cell count and disjoint", func(t *testing.T) {
		ms := newTestMatch(t, Antz, Beez)
		for x := range ms.Pylons {
			for y := range ms.Pylons[x] {
				ms.Pylons.Set(x, y, 3)
			}
		}

		require.Equal(t, meta.BOARD_SIZE*meta.BOARD_SIZE, Income(ms, "host"))
		require.Equal(t, 0, Income(ms, "guest"))
	})

	t.Run("collect credits balances and records last collected", func(t *testing.T) {
		ms := newTestMatch(t, Antz, Beez)
		ms.Players[0].Resources = 2

		ms.CollectIncome()

		require.Equal(t, 5, ms.Players[0].Resources)
		require.Equal(t, 3, ms.Players[0].LastCollected)
		require.Equal(t, 3, ms.Players[1].Resources)
		require.Equal(t, 3, ms.Players[1].LastCollected)
	})
}

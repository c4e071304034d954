package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pylons/meta"
)

func TestPylonGridOwned(t *testing.T) {
	t.Run("four posts of one sign own the cell for that slot only", func(t *testing.T) {
		var g PylonGrid
		g.Set(2, 2, 1)
		g.Set(3, 2, 5)
		g.Set(2, 3, 2)
		g.Set(3, 3, 3)

		require.True(t, g.Owned(2, 2, HostSlot))
		require.False(t, g.Owned(2, 2, GuestSlot))
	})

	t.Run("negative posts own the cell for the guest", func(t *testing.T) {
		var g PylonGrid
		g.Set(0, 0, -1)
		g.Set(1, 0, -1)
		g.Set(0, 1, -4)
		g.Set(1, 1, -5)

		require.True(t, g.Owned(0, 0, GuestSlot))
		require.False(t, g.Owned(0, 0, HostSlot))
	})

	t.Run("a missing corner owns nothing", func(t *testing.T) {
		var g PylonGrid
		g.Set(2, 2, 1)
		g.Set(3, 2, 1)
		g.Set(2, 3, 1)

		require.False(t, g.Owned(2, 2, HostSlot))
		require.False(t, g.Owned(2, 2, GuestSlot))
	})

	t.Run("mixed signs own nothing", func(t *testing.T) {
		var g PylonGrid
		g.Set(2, 2, 1)
		g.Set(3, 2, 1)
		g.Set(2, 3, 1)
		g.Set(3, 3, -1)

		require.False(t, g.Owned(2, 2, HostSlot))
		require.False(t, g.Owned(2, 2, GuestSlot))
	})

	t.Run("off-board cells are never owned", func(t *testing.T) {
		var g PylonGrid
		require.False(t, g.Owned(-1, 0, HostSlot))
		require.False(t, g.Owned(meta.BOARD_SIZE, 0, HostSlot))
	})
}

func TestPostDecoding(t *testing.T) {
	require.Equal(t, 4, PostHealth(-4))
	require.Equal(t, 3, PostHealth(3))
	require.Equal(t, 0, PostHealth(0))

	require.Equal(t, HostSlot, PostOwner(2))
	require.Equal(t, GuestSlot, PostOwner(-2))
	require.Equal(t, NoSlot, PostOwner(0))
}

func TestPylonGridSetClamps(t *testing.T) {
	var g PylonGrid
	g.Set(0, 0, 9)
	g.Set(1, 1, -12)

	require.Equal(t, meta.MAX_POST_HEALTH, g[0][0])
	require.Equal(t, -meta.MAX_POST_HEALTH, g[1][1])
}

func TestEdgeBlocked(t *testing.T) {
	t.Run("two enemy posts on the shared edge block", func(t *testing.T) {
		var g PylonGrid
		g.Set(3, 3, -2)
		g.Set(3, 4, -2)

		require.True(t, g.EdgeBlocked(2, 3, 3, 3, HostSlot), "moving right crosses posts (3,3) and (3,4)")
		require.True(t, g.EdgeBlocked(3, 3, 2, 3, HostSlot), "moving left crosses the same edge")
		require.False(t, g.EdgeBlocked(2, 3, 3, 3, GuestSlot), "own posts never block")
	})

	t.Run("a single enemy post does not block", func(t *testing.T) {
		var g PylonGrid
		g.Set(3, 3, -2)

		require.False(t, g.EdgeBlocked(2, 3, 3, 3, HostSlot))
	})

	t.Run("vertical edges use the horizontal post pair", func(t *testing.T) {
		var g PylonGrid
		g.Set(2, 3, 1)
		g.Set(3, 3, 1)

		require.True(t, g.EdgeBlocked(2, 2, 2, 3, GuestSlot), "moving down crosses posts (2,3) and (3,3)")
		require.True(t, g.EdgeBlocked(2, 3, 2, 2, GuestSlot), "moving up crosses the same edge")
	})

	t.Run("non-adjacent cells panic", func(t *testing.T) {
		var g PylonGrid
		require.Panics(t, func() { g.EdgeBlocked(0, 0, 2, 0, HostSlot) })
	})
}

func TestFindPath(t *testing.T) {
	t.Run("open board takes the shortest route", func(t *testing.T) {
		var g PylonGrid
		path := g.FindPath(Point{0, 0}, Point{2, 0}, 3, HostSlot)
		require.Equal(t, []Point{{1, 0}, {2, 0}}, path)
	})

	t.Run("walls force a detour", func(t *testing.T) {
		var g PylonGrid
		g.Set(1, 0, -1)
		g.Set(1, 1, -1)

		path := g.FindPath(Point{0, 0}, Point{1, 0}, 5, HostSlot)
		require.Len(t, path, 3)
		require.Equal(t, Point{1, 0}, path[len(path)-1])
	})

	t.Run("budget too small is unreachable", func(t *testing.T) {
		var g PylonGrid
		require.Nil(t, g.FindPath(Point{0, 0}, Point{3, 0}, 2, HostSlot))
	})
}

package game

import (
	astar "github.com/beefsack/go-astar"

	"pylons/meta"
	"pylons/utils"
)

// PylonGrid holds the wall posts at every cell corner, indexed [x][y]. The sign of a post is its owner
// (positive host, negative guest) and the magnitude its health; 0 means no post.
type PylonGrid [meta.GRID_SIZE][meta.GRID_SIZE]int

// PostHealth is the magnitude of a post value.
func PostHealth(v int) int {
	return utils.Abs(v)
}

// PostOwner decodes the owning slot of a post value.
func PostOwner(v int) Slot {
	switch {
	case v > 0:
		return HostSlot
	case v < 0:
		return GuestSlot
	}
	return NoSlot
}

// Set writes a post, clamping its magnitude to MAX_POST_HEALTH.
func (g *PylonGrid) Set(x, y, v int) {
	g[x][y] = utils.Clamp(v, -meta.MAX_POST_HEALTH, meta.MAX_POST_HEALTH)
}

// Owned reports whether all four corner posts of cell (x, y) belong to slot.
func (g *PylonGrid) Owned(x, y int, slot Slot) bool {
	if !OnBoard(x, y) || slot == NoSlot {
		return false
	}
	return PostOwner(g[x][y]) == slot &&
		PostOwner(g[x+1][y]) == slot &&
		PostOwner(g[x][y+1]) == slot &&
		PostOwner(g[x+1][y+1]) == slot
}

// EdgeBlocked reports whether a mover of slot may not cross from cell (x, y) to the orthogonal neighbour
// (nx, ny). An edge blocks only when both of its posts belong to the opponent.
func (g *PylonGrid) EdgeBlocked(x, y, nx, ny int, mover Slot) bool {
	enemy := func(px, py int) bool {
		owner := PostOwner(g[px][py])
		return owner != NoSlot && owner != mover
	}

	switch {
	case nx == x+1 && ny == y: // Right edge of (x, y)
		return enemy(x+1, y) && enemy(x+1, y+1)
	case nx == x-1 && ny == y: // Left edge
		return enemy(x, y) && enemy(x, y+1)
	case nx == x && ny == y+1: // Bottom edge
		return enemy(x, y+1) && enemy(x+1, y+1)
	case nx == x && ny == y-1: // Top edge
		return enemy(x, y) && enemy(x+1, y)
	}
	panic("EdgeBlocked called with non-adjacent cells")
}

// Point is a board cell.
type Point struct {
	X int `msgpack:"x"`
	Y int `msgpack:"y"`
}

// pathNode is a board cell as seen by one mover. It is comparable, which the search relies on to dedupe nodes.
type pathNode struct {
	grid  *PylonGrid
	mover Slot
	at    Point
}

func (n pathNode) PathNeighbors() []astar.Pather {
	var out []astar.Pather
	for _, d := range directions {
		next := Point{X: n.at.X + d.dx, Y: n.at.Y + d.dy}
		if !OnBoard(next.X, next.Y) || n.grid.EdgeBlocked(n.at.X, n.at.Y, next.X, next.Y, n.mover) {
			continue
		}
		out = append(out, pathNode{grid: n.grid, mover: n.mover, at: next})
	}
	return out
}

func (n pathNode) PathNeighborCost(astar.Pather) float64 {
	return 1
}

func (n pathNode) PathEstimatedCost(to astar.Pather) float64 {
	t := to.(pathNode).at
	return float64(utils.Abs(t.X-n.at.X) + utils.Abs(t.Y-n.at.Y))
}

// FindPath searches for a shortest route from start to target, crossing only edges that are not walled off
// for mover. It returns the cells entered, excluding start, or nil when the target is unreachable within
// maxMove steps.
func (g *PylonGrid) FindPath(start, target Point, maxMove int, mover Slot) []Point {
	if start == target || !OnBoard(start.X, start.Y) || !OnBoard(target.X, target.Y) {
		return nil
	}

	steps, _, found := astar.Path(pathNode{grid: g, mover: mover, at: start}, pathNode{grid: g, mover: mover, at: target})
	if !found {
		return nil
	}

	cells := make([]Point, len(steps))
	for i, step := range steps {
		cells[i] = step.(pathNode).at
	}
	// go-astar lists the route from target back to start.
	if cells[0] != start {
		for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
			cells[i], cells[j] = cells[j], cells[i]
		}
	}
	path := cells[1:]
	if len(path) > maxMove {
		return nil
	}
	return path
}

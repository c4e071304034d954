// meta/meta.go
package meta

import "time"

// BOARD_SIZE is the number of cells along one side of the board.
const BOARD_SIZE = 7

// GRID_SIZE is the number of post intersections along one side of the pylon grid.
const GRID_SIZE = BOARD_SIZE + 1

// MAX_POST_HEALTH bounds the magnitude of a pylon post.
const MAX_POST_HEALTH = 5

// MAX_PLAYERS is fixed: host and guest.
const MAX_PLAYERS = 2

// Phase timers, in whole seconds as carried on the wire.
const (
	START_COUNTDOWN   = 5
	RESOURCE_DELAY    = 3
	BUILDING_DURATION = 60
)

// TICK is the granularity of the host's phase timer.
const TICK = time.Second

// Presentation pacing between resolver steps. Zero in tests.
const (
	MOVE_PAUSE   = 500 * time.Millisecond
	ATTACK_PAUSE = 700 * time.Millisecond
	DEATH_PAUSE  = 500 * time.Millisecond
	UNIT_PAUSE   = 300 * time.Millisecond
	PASS_PAUSE   = time.Second
)

// ANIMATION_TTL is how long an animation intent stays visible on a peer.
const ANIMATION_TTL = 500 * time.Millisecond

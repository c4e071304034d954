package game

// EventKind classifies an animation intent.
type EventKind string

const (
	MoveEvent   EventKind = "MOVE"
	AttackEvent EventKind = "ATTACK"
	DeathEvent  EventKind = "DEATH"
)

// Direction is the facing of a move or attack.
type Direction string

const (
	Up    Direction = "UP"
	Down  Direction = "DOWN"
	Left  Direction = "LEFT"
	Right Direction = "RIGHT"
)

var directions = [...]struct {
	name   Direction
	dx, dy int
}{
	{Up, 0, -1},
	{Down, 0, 1},
	{Left, -1, 0},
	{Right, 1, 0},
}

// Event describes one resolver mutation for presentation. It is advisory: peers must not derive state from it.
type Event struct {
	Kind      EventKind `msgpack:"kind"`
	ActorID   string    `msgpack:"actor"`
	TargetID  string    `msgpack:"target,omitempty"`
	Direction Direction `msgpack:"dir,omitempty"`
	Damage    int       `msgpack:"dmg,omitempty"`
}

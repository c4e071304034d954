package communication

import "pylons/game"

// Kind tags each payload on the wire.
type Kind uint8

const (
	KindJoin Kind = iota + 1
	KindUpdatePlayer
	KindChat
	KindStartGame
	KindPhaseChange
	KindSyncState
	KindSubmitOrders
	KindAnimation
)

var kindNames = map[Kind]string{
	KindJoin:         "JOIN",
	KindUpdatePlayer: "UPDATE_PLAYER",
	KindChat:         "CHAT",
	KindStartGame:    "START_GAME",
	KindPhaseChange:  "PHASE_CHANGE",
	KindSyncState:    "SYNC_STATE",
	KindSubmitOrders: "SUBMIT_BUILD_ORDERS",
	KindAnimation:    "ANIMATION_EVENT",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Payload is the closed set of protocol messages. Only types in this package implement it.
type Payload interface {
	Kind() Kind
	payload()
}

// Join announces the guest to the host.
type Join struct {
	PlayerID string `msgpack:"id"`
	Name     string `msgpack:"name"`
}

// UpdatePlayer asks the host to set a player's lobby fields.
type UpdatePlayer struct {
	PlayerID string           `msgpack:"id"`
	Faction  game.FactionType `msgpack:"faction"`
	Ready    bool             `msgpack:"ready"`
}

// Chat is one transcript line. It never touches match state.
type Chat struct {
	SenderID  string `msgpack:"from"`
	Text      string `msgpack:"text"`
	Timestamp int64  `msgpack:"ts"` // Unix milliseconds
}

// StartGame tells the guest the host has begun the start countdown.
type StartGame struct {
	Countdown int `msgpack:"countdown"`
}

// PhaseChange patches the phase timer between full syncs.
type PhaseChange struct {
	Seq                uint64     `msgpack:"seq"`
	Phase              game.Phase `msgpack:"phase"`
	Round              int        `msgpack:"round"`
	PhaseTimeRemaining int        `msgpack:"remaining"`
}

// SyncState carries a full authoritative snapshot.
type SyncState struct {
	State game.MatchState `msgpack:"state"`
}

// SubmitOrders forwards a player's queued build orders to the host. Finished marks the player done with the
// building phase; Orders may be empty.
type SubmitOrders struct {
	PlayerID string            `msgpack:"id"`
	Orders   []game.BuildOrder `msgpack:"orders"`
	Finished bool              `msgpack:"finished"`
}

// Animation is an advisory presentation event.
type Animation struct {
	Event game.Event `msgpack:"event"`
}

func (Join) Kind() Kind         { return KindJoin }
func (UpdatePlayer) Kind() Kind { return KindUpdatePlayer }
func (Chat) Kind() Kind         { return KindChat }
func (StartGame) Kind() Kind    { return KindStartGame }
func (PhaseChange) Kind() Kind  { return KindPhaseChange }
func (SyncState) Kind() Kind    { return KindSyncState }
func (SubmitOrders) Kind() Kind { return KindSubmitOrders }
func (Animation) Kind() Kind    { return KindAnimation }

func (Join) payload()         {}
func (UpdatePlayer) payload() {}
func (Chat) payload()         {}
func (StartGame) payload()    {}
func (PhaseChange) payload()  {}
func (SyncState) payload()    {}
func (SubmitOrders) payload() {}
func (Animation) payload()    {}

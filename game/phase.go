package game

// Phase is the stage of a match.
type Phase int

const (
	LobbyPhase Phase = iota
	StartingPhase
	ResourcePhase
	BuildingPhase
	ActionPhase
	GameOverPhase
)

var phaseNames = [...]string{"LOBBY", "STARTING", "RESOURCE", "BUILDING", "ACTION", "GAME_OVER"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "UNKNOWN"
	}
	return phaseNames[p]
}

// Timed reports whether the host runs a countdown in this phase.
func (p Phase) Timed() bool {
	return p == StartingPhase || p == ResourcePhase || p == BuildingPhase
}

// Slot is a player's seat in the match. The host always holds HostSlot.
type Slot int

const (
	NoSlot    Slot = -1
	HostSlot  Slot = 0
	GuestSlot Slot = 1
)

// Sign is the post sign owned by the slot: positive for the host, negative for the guest.
func (s Slot) Sign() int {
	switch s {
	case HostSlot:
		return 1
	case GuestSlot:
		return -1
	}
	return 0
}

func (s Slot) Opponent() Slot {
	switch s {
	case HostSlot:
		return GuestSlot
	case GuestSlot:
		return HostSlot
	}
	return NoSlot
}

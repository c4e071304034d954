package game

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"lukechampine.com/blake3"

	"pylons/meta"
)

// Player is one participant's authoritative record.
type Player struct {
	ID            string      `msgpack:"id"`   // Opaque peer id assigned by the transport
	Slot          Slot        `msgpack:"slot"` // 0 = host, 1 = guest
	Name          string      `msgpack:"name"`
	Faction       FactionType `msgpack:"faction"` // "" until selected
	Ready         bool        `msgpack:"ready"`
	Resources     int         `msgpack:"res"`
	LastCollected int         `msgpack:"last"` // Income credited on the latest RESOURCE entry
	Unlocked      []string    `msgpack:"unlocked"`
	UnitsBuilt    int         `msgpack:"built"`
	UnitsKilled   int         `msgpack:"killed"`
}

// Unit is a live unit on the board. Dead units are removed, never kept.
type Unit struct {
	Stats         UnitStats `msgpack:"stats"`
	InstanceID    string    `msgpack:"iid"`
	OwnerID       string    `msgpack:"owner"`
	X             int       `msgpack:"x"`
	Y             int       `msgpack:"y"`
	CurrentHealth int       `msgpack:"chp"`
}

func (u Unit) IsQueen() bool {
	return u.Stats.CatalogID == QueenID
}

// MatchState is the whole replicated match. The host owns the authoritative copy; the guest only ever replaces
// its mirror with a newer one.
type MatchState struct {
	Seq                uint64    `msgpack:"seq"` // Bumped by the host on every publish
	Phase              Phase     `msgpack:"phase"`
	Round              int       `msgpack:"round"`
	Players            []Player  `msgpack:"players"` // Indexed by slot
	Units              []Unit    `msgpack:"units"`   // Storage order is the action order
	Pylons             PylonGrid `msgpack:"pylons"`
	Winner             string    `msgpack:"winner"` // Player id, "" while undecided
	PhaseTimeRemaining int       `msgpack:"remaining"`
}

// NewMatchState returns an empty lobby.
func NewMatchState() *MatchState {
	return &MatchState{
		Phase:   LobbyPhase,
		Players: []Player{},
		Units:   []Unit{},
	}
}

// Copy returns a deep copy; snapshots handed to other goroutines are always copies.
func (ms *MatchState) Copy() *MatchState {
	playersCopy := make([]Player, len(ms.Players))
	for i, p := range ms.Players {
		p.Unlocked = append([]string(nil), p.Unlocked...)
		playersCopy[i] = p
	}

	unitsCopy := make([]Unit, len(ms.Units))
	copy(unitsCopy, ms.Units)

	return &MatchState{
		Seq:                ms.Seq,
		Phase:              ms.Phase,
		Round:              ms.Round,
		Players:            playersCopy,
		Units:              unitsCopy,
		Pylons:             ms.Pylons, // Array value
		Winner:             ms.Winner,
		PhaseTimeRemaining: ms.PhaseTimeRemaining,
	}
}

// Player returns the record for a peer id, or nil.
func (ms *MatchState) Player(id string) *Player {
	for i := range ms.Players {
		if ms.Players[i].ID == id {
			return &ms.Players[i]
		}
	}
	return nil
}

// SlotOf returns NoSlot for unknown ids.
func (ms *MatchState) SlotOf(id string) Slot {
	if p := ms.Player(id); p != nil {
		return p.Slot
	}
	return NoSlot
}

// PlayerInSlot returns nil when the slot is empty.
func (ms *MatchState) PlayerInSlot(slot Slot) *Player {
	if slot < 0 || int(slot) >= len(ms.Players) {
		return nil
	}
	return &ms.Players[slot]
}

// UnitIndex returns the storage index of a live unit, or -1.
func (ms *MatchState) UnitIndex(instanceID string) int {
	for i := range ms.Units {
		if ms.Units[i].InstanceID == instanceID {
			return i
		}
	}
	return -1
}

// UnitAt returns the storage index of the unit on a cell, or -1.
func (ms *MatchState) UnitAt(x, y int) int {
	for i := range ms.Units {
		if ms.Units[i].X == x && ms.Units[i].Y == y {
			return i
		}
	}
	return -1
}

func (ms *MatchState) removeUnit(i int) {
	ms.Units = append(ms.Units[:i], ms.Units[i+1:]...)
}

// OnBoard reports whether a cell coordinate lies on the board.
func OnBoard(x, y int) bool {
	return x >= 0 && x < meta.BOARD_SIZE && y >= 0 && y < meta.BOARD_SIZE
}

// Digest is a content hash of everything observable in the match. Host and mirror agree on it once the mirror
// has applied the host's latest snapshot.
func (ms *MatchState) Digest() string {
	hasher := blake3.New(32, nil)

	binary.Write(hasher, binary.LittleEndian, ms.Seq)
	binary.Write(hasher, binary.LittleEndian, int64(ms.Phase))
	binary.Write(hasher, binary.LittleEndian, int64(ms.Round))
	binary.Write(hasher, binary.LittleEndian, int64(ms.PhaseTimeRemaining))
	writeString(hasher, ms.Winner)

	binary.Write(hasher, binary.LittleEndian, uint32(len(ms.Players)))
	for _, p := range ms.Players {
		writeString(hasher, p.ID)
		writeString(hasher, string(p.Faction))
		binary.Write(hasher, binary.LittleEndian, []int64{
			int64(p.Slot), int64(p.Resources), int64(p.LastCollected), int64(p.UnitsBuilt), int64(p.UnitsKilled),
		})
		binary.Write(hasher, binary.LittleEndian, p.Ready)
		binary.Write(hasher, binary.LittleEndian, uint32(len(p.Unlocked)))
		for _, id := range p.Unlocked {
			writeString(hasher, id)
		}
	}

	binary.Write(hasher, binary.LittleEndian, uint32(len(ms.Units)))
	for _, u := range ms.Units {
		writeString(hasher, u.InstanceID)
		writeString(hasher, u.OwnerID)
		writeString(hasher, u.Stats.CatalogID)
		binary.Write(hasher, binary.LittleEndian, []int64{int64(u.X), int64(u.Y), int64(u.CurrentHealth)})
	}

	for x := range ms.Pylons {
		for y := range ms.Pylons[x] {
			binary.Write(hasher, binary.LittleEndian, int8(ms.Pylons[x][y]))
		}
	}

	return hex.EncodeToString(hasher.Sum(nil))
}

// writeString length-prefixes s so adjacent strings cannot run together.
func writeString(w io.Writer, s string) {
	binary.Write(w, binary.LittleEndian, uint32(len(s)))
	io.WriteString(w, s)
}

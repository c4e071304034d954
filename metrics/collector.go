package metrics

import (
	"sync/atomic"
	"time"

	"pylons/game"
)

// RoundRecord is what happened in one round, captured when the round's RESOURCE phase is entered.
type RoundRecord struct {
	Round         int
	HostIncome    int
	GuestIncome   int
	HostUnits     int // Live units on board, queens included
	GuestUnits    int
	ResolverSteps int // Steps in the action pass that ended the previous round
}

type MatchRecord struct {
	HostName     string
	GuestName    string
	HostFaction  game.FactionType
	GuestFaction game.FactionType
	Winner       string // Player name, "" if the match never finished
	Rounds       int
	HostBuilt    int
	HostKilled   int
	GuestBuilt   int
	GuestKilled  int
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	Digest       string // Final state digest
}

type Collector interface {
	Start()
	AddStep()
	Round(ms *game.MatchState)
	Complete(ms *game.MatchState) (MatchRecord, []RoundRecord)
}

type collector struct {
	startTime time.Time
	steps     atomic.Int32
	rounds    []RoundRecord
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.steps.Store(0)
	m.rounds = nil
}

func (m *collector) AddStep() {
	m.steps.Add(1)
}

func (m *collector) Round(ms *game.MatchState) {
	r := RoundRecord{
		Round:         ms.Round,
		ResolverSteps: int(m.steps.Swap(0)),
	}
	if p := ms.PlayerInSlot(game.HostSlot); p != nil {
		r.HostIncome = p.LastCollected
	}
	if p := ms.PlayerInSlot(game.GuestSlot); p != nil {
		r.GuestIncome = p.LastCollected
	}
	for _, u := range ms.Units {
		switch ms.SlotOf(u.OwnerID) {
		case game.HostSlot:
			r.HostUnits++
		case game.GuestSlot:
			r.GuestUnits++
		}
	}
	m.rounds = append(m.rounds, r)
}

func (m *collector) Complete(ms *game.MatchState) (MatchRecord, []RoundRecord) {
	end := time.Now()
	rec := MatchRecord{
		Rounds:    ms.Round,
		StartTime: m.startTime,
		EndTime:   end,
		Duration:  end.Sub(m.startTime),
		Digest:    ms.Digest(),
	}
	if p := ms.PlayerInSlot(game.HostSlot); p != nil {
		rec.HostName, rec.HostFaction = p.Name, p.Faction
		rec.HostBuilt, rec.HostKilled = p.UnitsBuilt, p.UnitsKilled
	}
	if p := ms.PlayerInSlot(game.GuestSlot); p != nil {
		rec.GuestName, rec.GuestFaction = p.Name, p.Faction
		rec.GuestBuilt, rec.GuestKilled = p.UnitsBuilt, p.UnitsKilled
	}
	if w := ms.Player(ms.Winner); w != nil {
		rec.Winner = w.Name
	}
	return rec, m.rounds
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                   {}
func (m *dummyCollector) AddStep()                 {}
func (m *dummyCollector) Round(ms *game.MatchState) {}
func (m *dummyCollector) Complete(ms *game.MatchState) (MatchRecord, []RoundRecord) {
	return MatchRecord{}, nil
}

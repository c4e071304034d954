package game

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// OrderKind distinguishes unit construction from tech unlocks.
type OrderKind int8

const (
	BuildUnit OrderKind = iota + 1
	UnlockTech
)

func (k OrderKind) String() string {
	switch k {
	case BuildUnit:
		return "BUILD_UNIT"
	case UnlockTech:
		return "UNLOCK_TECH"
	}
	return "UNKNOWN"
}

// BuildOrder is a queued construction or unlock request. X and Y are ignored for unlocks.
type BuildOrder struct {
	Kind      OrderKind `msgpack:"kind"`
	CatalogID string    `msgpack:"cid"`
	X         int       `msgpack:"x"`
	Y         int       `msgpack:"y"`
}

// ApplyOrder validates a single order against the current state and applies it. Invalid orders are dropped
// with the state untouched; the result only reports acceptance.
func (ms *MatchState) ApplyOrder(playerID string, order BuildOrder, ids IDGenerator) bool {
	reject := func(reason string) bool {
		log.Debug().
			Str("player", playerID).
			Stringer("kind", order.Kind).
			Str("catalog", order.CatalogID).
			Msgf("rejected order: %s", reason)
		return false
	}

	player := ms.Player(playerID)
	if player == nil {
		return reject("unknown player")
	}
	faction, ok := LookupFaction(player.Faction)
	if !ok {
		return reject("no faction")
	}
	stats, ok := faction.Stats(order.CatalogID)
	if !ok {
		return reject("not in roster")
	}

	switch order.Kind {
	case BuildUnit:
		if !ms.Pylons.Owned(order.X, order.Y, player.Slot) {
			return reject("cell not owned")
		}
		if ms.UnitAt(order.X, order.Y) >= 0 {
			return reject("cell occupied")
		}
		if !slices.Contains(player.Unlocked, order.CatalogID) {
			return reject("locked")
		}
		if player.Resources < stats.Cost {
			return reject("insufficient resources")
		}

		player.Resources -= stats.Cost
		ms.Units = append(ms.Units, Unit{
			Stats:         stats,
			InstanceID:    ids.NewID(),
			OwnerID:       player.ID,
			X:             order.X,
			Y:             order.Y,
			CurrentHealth: stats.Health,
		})
		player.UnitsBuilt++
		return true

	case UnlockTech:
		if slices.Contains(player.Unlocked, order.CatalogID) {
			return reject("already unlocked")
		}
		cost := UnlockCost(stats.Cost)
		if player.Resources < cost {
			return reject("insufficient resources")
		}

		player.Resources -= cost
		player.Unlocked = append(player.Unlocked, order.CatalogID)
		return true
	}

	return reject("unknown order kind")
}

// ApplyOrders processes a batch in submission order, each against the state left by the previous ones, and
// returns how many were accepted.
func (ms *MatchState) ApplyOrders(playerID string, orders []BuildOrder, ids IDGenerator) int {
	accepted := 0
	for _, order := range orders {
		if ms.ApplyOrder(playerID, order, ids) {
			accepted++
		}
	}
	return accepted
}

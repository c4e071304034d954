package player

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog/log"

	"pylons/game"
	"pylons/meta"
	"pylons/utils"
)

var (
	ErrNotBuilding  = errors.New("not in building phase")
	ErrInvalidOrder = errors.New("order would be rejected")
)

// Session is the local end of a match, either the host or the guest.
type Session interface {
	LocalID() string
	State() *game.MatchState
	SetFaction(ctx context.Context, f game.FactionType) error
	SetReady(ctx context.Context, ready bool) error
	Submit(ctx context.Context, orders []game.BuildOrder, finished bool) error
	Say(ctx context.Context, text string) error
}

// Controller turns user intents into session calls. Each order is forwarded as soon as it is queued; the
// local queue only exists to preview what the host will accept. Not safe for concurrent use.
type Controller struct {
	session Session
	round   int
	pending []game.BuildOrder
}

func NewController(s Session) *Controller {
	return &Controller{session: s}
}

func (c *Controller) Session() Session {
	return c.session
}

// Pending lists orders queued this building phase.
func (c *Controller) Pending() []game.BuildOrder {
	c.sync(c.session.State())
	return append([]game.BuildOrder(nil), c.pending...)
}

func (c *Controller) SelectFaction(ctx context.Context, f game.FactionType) error {
	if _, ok := game.LookupFaction(f); !ok {
		return fmt.Errorf("unknown faction %q", f)
	}
	return c.session.SetFaction(ctx, f)
}

func (c *Controller) ToggleReady(ctx context.Context) error {
	ms := c.session.State()
	me := ms.Player(c.session.LocalID())
	if me == nil {
		return fmt.Errorf("not seated yet")
	}
	return c.session.SetReady(ctx, !me.Ready)
}

func (c *Controller) Build(ctx context.Context, catalogID string, x, y int) error {
	return c.queue(ctx, game.BuildOrder{Kind: game.BuildUnit, CatalogID: catalogID, X: x, Y: y})
}

func (c *Controller) Unlock(ctx context.Context, catalogID string) error {
	return c.queue(ctx, game.BuildOrder{Kind: game.UnlockTech, CatalogID: catalogID})
}

// Finish ends the local player's building phase.
func (c *Controller) Finish(ctx context.Context) error {
	if c.session.State().Phase != game.BuildingPhase {
		return ErrNotBuilding
	}
	return c.session.Submit(ctx, nil, true)
}

func (c *Controller) Say(ctx context.Context, text string) error {
	return c.session.Say(ctx, text)
}

func (c *Controller) queue(ctx context.Context, order game.BuildOrder) error {
	ms := c.session.State()
	if ms.Phase != game.BuildingPhase {
		return ErrNotBuilding
	}
	c.sync(ms)
	if !c.preview(ms, order) {
		return fmt.Errorf("%s %s: %w", order.Kind, order.CatalogID, ErrInvalidOrder)
	}
	if err := c.session.Submit(ctx, []game.BuildOrder{order}, false); err != nil {
		return err
	}
	c.pending = append(c.pending, order)
	return nil
}

// Preview reports whether the host would accept order after everything already queued.
func (c *Controller) Preview(order game.BuildOrder) bool {
	ms := c.session.State()
	c.sync(ms)
	return c.preview(ms, order)
}

func (c *Controller) preview(ms *game.MatchState, order game.BuildOrder) bool {
	ids := &game.Sequence{Prefix: "preview-"}
	me := c.session.LocalID()
	ms.ApplyOrders(me, c.pending, ids)
	return ms.ApplyOrder(me, order, ids)
}

// sync drops the queue once the building phase it belonged to is over.
func (c *Controller) sync(ms *game.MatchState) {
	if ms.Phase != game.BuildingPhase || ms.Round != c.round {
		c.pending = nil
		c.round = ms.Round
	}
}

// Reachable reports whether a unit could walk to (x, y) within its move budget, honouring walls.
func (c *Controller) Reachable(unitID string, x, y int) bool {
	ms := c.session.State()
	i := ms.UnitIndex(unitID)
	if i < 0 || !game.OnBoard(x, y) {
		return false
	}
	u := ms.Units[i]
	start, target := game.Point{X: u.X, Y: u.Y}, game.Point{X: x, Y: y}
	if start == target {
		return true
	}
	return ms.Pylons.FindPath(start, target, u.Stats.Move, ms.SlotOf(u.OwnerID)) != nil
}

// Buildable lists unlocked roster entries the player can still afford after queued orders.
func (c *Controller) Buildable() []game.UnitStats {
	ms := c.session.State()
	c.sync(ms)
	me := ms.Player(c.session.LocalID())
	if me == nil {
		return nil
	}
	faction, ok := game.LookupFaction(me.Faction)
	if !ok {
		return nil
	}
	ms.ApplyOrders(me.ID, c.pending, &game.Sequence{Prefix: "preview-"})
	me = ms.Player(me.ID)

	var out []game.UnitStats
	for _, id := range me.Unlocked {
		stats, ok := faction.Stats(id)
		if ok && stats.Cost <= me.Resources {
			out = append(out, stats)
		}
	}
	return out
}

// FreeCells lists owned, unoccupied cells.
func (c *Controller) FreeCells() []game.Point {
	ms := c.session.State()
	slot := ms.SlotOf(c.session.LocalID())
	var out []game.Point
	for x := 0; x < meta.BOARD_SIZE; x++ {
		for y := 0; y < meta.BOARD_SIZE; y++ {
			if ms.Pylons.Owned(x, y, slot) && ms.UnitAt(x, y) < 0 {
				out = append(out, game.Point{X: x, Y: y})
			}
		}
	}
	return out
}

// AutoBuild spends the budget on random affordable units in random free cells, then finishes the phase.
func (c *Controller) AutoBuild(ctx context.Context, rng *rand.Rand) error {
	for {
		options := c.Buildable()
		cells := c.FreeCells()
		cells = removeQueued(cells, c.pending)
		if len(options) == 0 || len(cells) == 0 {
			break
		}
		stats := options[rng.IntN(len(options))]
		cell := cells[rng.IntN(len(cells))]
		if err := c.Build(ctx, stats.CatalogID, cell.X, cell.Y); err != nil {
			log.Debug().Err(err).Msg("auto build stopped")
			break
		}
	}
	return c.Finish(ctx)
}

func removeQueued(cells []game.Point, pending []game.BuildOrder) []game.Point {
	var queued []game.Point
	for _, o := range pending {
		if o.Kind == game.BuildUnit {
			queued = append(queued, game.Point{X: o.X, Y: o.Y})
		}
	}
	out := cells[:0]
	for _, cell := range cells {
		if utils.FindIndex(queued, cell) < 0 {
			out = append(out, cell)
		}
	}
	return out
}

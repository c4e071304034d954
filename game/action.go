package game

import "pylons/utils"

// ActionPass is one round's combat/movement resolution. It owns its working state exclusively for the whole
// pass; each call to Next performs exactly one atomic mutation so callers can publish between steps.
type ActionPass struct {
	state *MatchState
	rules Rules
	order []string // Instance ids captured at pass start
	next  int
	actor *activation
	done  bool
}

type activation struct {
	id        string
	movesLeft int
}

// NewActionPass takes ownership of state. Callers that keep using their own copy must pass state.Copy().
func NewActionPass(state *MatchState, rules Rules) *ActionPass {
	order := make([]string, len(state.Units))
	for i, u := range state.Units {
		order[i] = u.InstanceID
	}
	return &ActionPass{
		state: state,
		rules: rules,
		order: order,
	}
}

// State is the working state as of the last step. It must not be retained across calls to Next.
func (p *ActionPass) State() *MatchState {
	return p.state
}

// Done reports whether the pass has finished, either normally or because a Queen fell.
func (p *ActionPass) Done() bool {
	return p.done
}

// Next performs the next mutation and returns the events describing it. It returns false once the pass is
// complete; no mutation happens on that call.
func (p *ActionPass) Next() ([]Event, bool) {
	for !p.done {
		if p.actor == nil {
			if !p.activateNext() {
				p.done = true
				break
			}
			continue
		}
		if events, ok := p.advance(); ok {
			return events, true
		}
	}
	return nil, false
}

// Run drains the pass without pacing and returns every event in order.
func (p *ActionPass) Run() []Event {
	var all []Event
	for {
		events, ok := p.Next()
		if !ok {
			return all
		}
		all = append(all, events...)
	}
}

// activateNext picks the next live unit in captured order that acts under the rules.
func (p *ActionPass) activateNext() bool {
	for p.next < len(p.order) {
		id := p.order[p.next]
		p.next++

		i := p.state.UnitIndex(id)
		if i < 0 { // Killed earlier in this pass
			continue
		}
		u := p.state.Units[i]
		if !p.rules.Acts(u) {
			continue
		}
		p.actor = &activation{id: id, movesLeft: p.rules.MoveBudget(u)}
		return true
	}
	return false
}

// advance moves the current actor one step or lets it attack. It returns false when the actor finished
// without mutating anything.
func (p *ActionPass) advance() ([]Event, bool) {
	i := p.state.UnitIndex(p.actor.id)
	if i < 0 {
		p.actor = nil
		return nil, false
	}

	if p.actor.movesLeft > 0 {
		if event, ok := p.step(i); ok {
			p.actor.movesLeft--
			return []Event{event}, true
		}
		p.actor.movesLeft = 0
	}

	events := p.attack(i)
	p.actor = nil
	return events, len(events) > 0
}

func (p *ActionPass) step(i int) (Event, bool) {
	u := &p.state.Units[i]
	if _, _, adjacent := p.adjacentEnemy(*u); adjacent {
		return Event{}, false
	}

	target := p.nearestEnemy(*u)
	if target < 0 {
		return Event{}, false
	}
	t := p.state.Units[target]

	dx, dy := t.X-u.X, t.Y-u.Y
	var d Direction
	if utils.Abs(dx) > utils.Abs(dy) {
		d = Left
		if dx > 0 {
			d = Right
		}
	} else {
		d = Up
		if dy > 0 {
			d = Down
		}
	}

	nx, ny := u.X, u.Y
	for _, dir := range directions {
		if dir.name == d {
			nx, ny = u.X+dir.dx, u.Y+dir.dy
		}
	}
	if !OnBoard(nx, ny) || p.state.UnitAt(nx, ny) >= 0 {
		return Event{}, false
	}

	u.X, u.Y = nx, ny
	return Event{Kind: MoveEvent, ActorID: u.InstanceID, Direction: d}, true
}

func (p *ActionPass) attack(i int) []Event {
	attacker := p.state.Units[i]
	j, dir, ok := p.adjacentEnemy(attacker)
	if !ok {
		return nil
	}

	damage := p.rules.Damage(attacker, p.state.Units[j])
	target := &p.state.Units[j]
	target.CurrentHealth -= damage
	events := []Event{{
		Kind:      AttackEvent,
		ActorID:   attacker.InstanceID,
		TargetID:  target.InstanceID,
		Direction: dir,
		Damage:    damage,
	}}
	if target.CurrentHealth > 0 {
		return events
	}

	killed := *target
	p.state.removeUnit(j)
	if killer := p.state.Player(attacker.OwnerID); killer != nil {
		killer.UnitsKilled++
	}
	events = append(events, Event{Kind: DeathEvent, ActorID: attacker.InstanceID, TargetID: killed.InstanceID})

	if killed.IsQueen() {
		p.state.Winner = attacker.OwnerID
		p.state.Phase = GameOverPhase
		p.state.PhaseTimeRemaining = 0
		p.done = true
	}
	return events
}

// adjacentEnemy checks UP, DOWN, LEFT, RIGHT in that order and returns the first enemy found.
func (p *ActionPass) adjacentEnemy(u Unit) (int, Direction, bool) {
	for _, d := range directions {
		x, y := u.X+d.dx, u.Y+d.dy
		for j, other := range p.state.Units {
			if other.X == x && other.Y == y && other.OwnerID != u.OwnerID {
				return j, d.name, true
			}
		}
	}
	return -1, "", false
}

// nearestEnemy is by Manhattan distance; ties go to the first in storage order.
func (p *ActionPass) nearestEnemy(u Unit) int {
	best, bestDist := -1, 0
	for j, other := range p.state.Units {
		if other.OwnerID == u.OwnerID {
			continue
		}
		dist := utils.Abs(other.X-u.X) + utils.Abs(other.Y-u.Y)
		if best < 0 || dist < bestDist {
			best, bestDist = j, dist
		}
	}
	return best
}

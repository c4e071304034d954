package game

// Rules decides how units behave during the action pass.
type Rules interface {
	Acts(u Unit) bool
	MoveBudget(u Unit) int
	Damage(attacker, target Unit) int
}

// StandardRules is the baseline rule set: only Strikers act, they move their catalog move value and deal their
// catalog attack. Faction abilities are descriptive only.
type StandardRules struct{}

func NewStandardRules() *StandardRules {
	return &StandardRules{}
}

func (sr *StandardRules) Acts(u Unit) bool {
	return u.Stats.Class == Striker
}

func (sr *StandardRules) MoveBudget(u Unit) int {
	return u.Stats.Move
}

func (sr *StandardRules) Damage(attacker, _ Unit) int {
	return attacker.Stats.Attack
}

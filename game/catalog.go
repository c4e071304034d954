package game

import "golang.org/x/exp/slices"

// UnitClass determines what a unit does during the action pass.
type UnitClass string

const (
	Builder UnitClass = "Builder"
	Pounder UnitClass = "Pounder"
	Striker UnitClass = "Striker"
)

// FactionType names one of the four selectable rosters. The empty value means no faction chosen yet.
type FactionType string

const (
	Antz    FactionType = "Antz"
	Beetlez FactionType = "Beetlez"
	Beez    FactionType = "Beez"
	Mantiz  FactionType = "Mantiz"
)

// UnitStats is a static catalog entry.
type UnitStats struct {
	CatalogID string    `msgpack:"cid"`
	Name      string    `msgpack:"name"`
	Class     UnitClass `msgpack:"class"`
	Cost      int       `msgpack:"cost"`
	Move      int       `msgpack:"move"`
	Attack    int       `msgpack:"atk"`
	Health    int       `msgpack:"hp"`
	Work      int       `msgpack:"work"`
}

// Faction is a roster plus the ids unlocked at match start.
type Faction struct {
	Name           FactionType
	Description    string
	SpecialAbility string
	Units          []UnitStats
	InitialUnlocks []string
}

const QueenID = "queen"

// Queen is placed for each player at match start and never built.
var Queen = UnitStats{CatalogID: QueenID, Name: "Queen", Class: Builder, Cost: 0, Move: 0, Attack: 0, Health: 10, Work: 0}

var factions = map[FactionType]*Faction{
	Antz: {
		Name:           Antz,
		Description:    "Well rounded units",
		SpecialAbility: "Builders and Pounders can do both actions (Build & Destroy)",
		Units: []UnitStats{
			{CatalogID: "a_w", Name: "Worker", Class: Builder, Cost: 3, Move: 1, Attack: 0, Health: 1, Work: 1},
			{CatalogID: "a_l", Name: "Laborer", Class: Builder, Cost: 5, Move: 1, Attack: 0, Health: 2, Work: 2},
			{CatalogID: "a_c", Name: "Constructor", Class: Builder, Cost: 8, Move: 1, Attack: 0, Health: 3, Work: 3},
			{CatalogID: "a_f", Name: "Fire", Class: Striker, Cost: 4, Move: 2, Attack: 1, Health: 2, Work: 0},
			{CatalogID: "a_b", Name: "Bull", Class: Striker, Cost: 6, Move: 2, Attack: 2, Health: 3, Work: 0},
			{CatalogID: "a_bu", Name: "Bullet", Class: Striker, Cost: 9, Move: 2, Attack: 3, Health: 4, Work: 0},
		},
		InitialUnlocks: []string{"a_w", "a_f"},
	},
	Beetlez: {
		Name:           Beetlez,
		Description:    "Strong pounders",
		SpecialAbility: "Units take 0 damage unless it is lethal",
		Units: []UnitStats{
			{CatalogID: "b_w", Name: "Worker", Class: Builder, Cost: 3, Move: 1, Attack: 0, Health: 1, Work: 1},
			{CatalogID: "b_l", Name: "Laborer", Class: Builder, Cost: 5, Move: 1, Attack: 0, Health: 2, Work: 2},
			{CatalogID: "b_c", Name: "Constructor", Class: Builder, Cost: 8, Move: 1, Attack: 0, Health: 3, Work: 3},
			{CatalogID: "b_t", Name: "Tinker", Class: Pounder, Cost: 4, Move: 1, Attack: 0, Health: 1, Work: 2},
			{CatalogID: "b_s", Name: "Scraper", Class: Pounder, Cost: 6, Move: 1, Attack: 0, Health: 2, Work: 3},
			{CatalogID: "b_d", Name: "Destructor", Class: Pounder, Cost: 9, Move: 1, Attack: 0, Health: 3, Work: 4},
			{CatalogID: "b_du", Name: "Dung", Class: Striker, Cost: 4, Move: 2, Attack: 1, Health: 2, Work: 0},
			{CatalogID: "b_a", Name: "Atlas", Class: Striker, Cost: 6, Move: 2, Attack: 2, Health: 3, Work: 0},
			{CatalogID: "b_h", Name: "Herculees", Class: Striker, Cost: 8, Move: 2, Attack: 2, Health: 4, Work: 0},
		},
		InitialUnlocks: []string{"b_w", "b_t", "b_du"},
	},
	Beez: {
		Name:           Beez,
		Description:    "High mobility low stats",
		SpecialAbility: "Double movement through enemy territory",
		Units: []UnitStats{
			{CatalogID: "be_w", Name: "Worker", Class: Builder, Cost: 3, Move: 2, Attack: 0, Health: 1, Work: 1},
			{CatalogID: "be_l", Name: "Laborer", Class: Builder, Cost: 5, Move: 2, Attack: 0, Health: 1, Work: 1},
			{CatalogID: "be_c", Name: "Constructor", Class: Builder, Cost: 7, Move: 3, Attack: 0, Health: 2, Work: 2},
			{CatalogID: "be_t", Name: "Tinker", Class: Pounder, Cost: 4, Move: 2, Attack: 0, Health: 1, Work: 1},
			{CatalogID: "be_s", Name: "Scraper", Class: Pounder, Cost: 6, Move: 2, Attack: 0, Health: 1, Work: 1},
			{CatalogID: "be_d", Name: "Destructor", Class: Pounder, Cost: 8, Move: 3, Attack: 0, Health: 2, Work: 2},
			{CatalogID: "be_b", Name: "Bumble", Class: Striker, Cost: 5, Move: 2, Attack: 2, Health: 1, Work: 0},
			{CatalogID: "be_ca", Name: "Carpenter", Class: Striker, Cost: 7, Move: 2, Attack: 3, Health: 2, Work: 0},
			{CatalogID: "be_k", Name: "Killer", Class: Striker, Cost: 9, Move: 2, Attack: 4, Health: 3, Work: 0},
		},
		InitialUnlocks: []string{"be_w", "be_t", "be_b"},
	},
	Mantiz: {
		Name:           Mantiz,
		Description:    "High attack",
		SpecialAbility: "Units may move double their movement value",
		Units: []UnitStats{
			{CatalogID: "m_w", Name: "Worker", Class: Builder, Cost: 3, Move: 1, Attack: 0, Health: 1, Work: 1},
			{CatalogID: "m_l", Name: "Laborer", Class: Builder, Cost: 5, Move: 1, Attack: 0, Health: 1, Work: 1},
			{CatalogID: "m_c", Name: "Constructor", Class: Builder, Cost: 8, Move: 1, Attack: 0, Health: 2, Work: 2},
			{CatalogID: "m_t", Name: "Tinker", Class: Pounder, Cost: 4, Move: 1, Attack: 0, Health: 1, Work: 1},
			{CatalogID: "m_s", Name: "Scraper", Class: Pounder, Cost: 6, Move: 1, Attack: 0, Health: 1, Work: 1},
			{CatalogID: "m_d", Name: "Destructor", Class: Pounder, Cost: 8, Move: 1, Attack: 0, Health: 2, Work: 2},
			{CatalogID: "m_r", Name: "Rainbow", Class: Striker, Cost: 5, Move: 2, Attack: 2, Health: 2, Work: 0},
			{CatalogID: "m_p", Name: "Praying", Class: Striker, Cost: 7, Move: 2, Attack: 3, Health: 3, Work: 0},
			{CatalogID: "m_sh", Name: "Shrimp", Class: Striker, Cost: 9, Move: 2, Attack: 4, Health: 4, Work: 0},
		},
		InitialUnlocks: []string{"m_w", "m_t", "m_r"},
	},
}

// LookupFaction returns the static faction table entry.
func LookupFaction(f FactionType) (*Faction, bool) {
	faction, ok := factions[f]
	return faction, ok
}

// Factions lists the selectable factions in display order.
func Factions() []FactionType {
	return []FactionType{Antz, Beetlez, Beez, Mantiz}
}

// Stats finds a roster entry by catalog id.
func (f *Faction) Stats(catalogID string) (UnitStats, bool) {
	i := slices.IndexFunc(f.Units, func(u UnitStats) bool { return u.CatalogID == catalogID })
	if i < 0 {
		return UnitStats{}, false
	}
	return f.Units[i], true
}

// UnlockCost is floor(cost * 1.5).
func UnlockCost(cost int) int {
	return cost * 3 / 2
}

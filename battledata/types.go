package battledata

import (
	"github.com/battlecore/engine/container"
	"github.com/battlecore/engine/fxlang"
	"github.com/battlecore/engine/id"
)

// Category is a move's damage class.
type Category string

const (
	Physical Category = "physical"
	Special  Category = "special"
	Status   Category = "status"
)

// MoveTarget enumerates how a move's primary target choice projects
// into the actual set of affected mons (spec.md §4.5 step 1).
type MoveTarget string

const (
	TargetNormal          MoveTarget = "normal"
	TargetAny             MoveTarget = "any"
	TargetAdjacentAlly    MoveTarget = "adjacent_ally"
	TargetAllAdjacent     MoveTarget = "all_adjacent"
	TargetAllAdjacentFoes MoveTarget = "all_adjacent_foes"
	TargetAllies          MoveTarget = "allies"
	TargetAdjacentFoe     MoveTarget = "adjacent_foe"
	TargetUser            MoveTarget = "user"
	TargetAdjacentAllyOrUser MoveTarget = "adjacent_ally_or_user"
	TargetRandomNormal    MoveTarget = "random_normal"
	TargetAll             MoveTarget = "all"
)

// MultihitKind distinguishes a fixed hit count from a sampled range.
type MultihitKind int

const (
	MultihitNone MultihitKind = iota
	MultihitStatic
	MultihitRange
)

// Multihit describes how many times a move hits its target(s) in one
// usage (spec.md §4.5 step 4).
type Multihit struct {
	Kind MultihitKind
	N    int // used when Kind == MultihitStatic
	Lo   int // used when Kind == MultihitRange
	Hi   int
}

// Boosts is a sparse stat-stage delta, keyed by stat name ("atk",
// "def", "spa", "spd", "spe", "accuracy", "evasion").
type Boosts map[string]int

// HitEffect is what a move (or its user-effect counterpart) applies on
// a successful hit: some combination of status, volatile condition,
// stat boosts, side/field conditions, a forced switch, or healing.
// Which fields are non-zero/non-empty encodes which sub-effects apply.
type HitEffect struct {
	Status         id.Id
	Volatile       id.Id
	Boosts         Boosts
	SideCondition  id.Id
	FieldCondition id.Id
	ForceSwitch    bool
	Heal           container.Fraction // fraction of target's max HP
}

// SecondaryEffect is a chance-rolled HitEffect attached to a move
// (spec.md §4.5 step 7), e.g. Flamethrower's 10% burn chance.
type SecondaryEffect struct {
	Chance    container.Fraction
	HitEffect *HitEffect
}

// StatTable holds the six base stats common to every mon species.
type StatTable struct {
	HP, Atk, Def, SpA, SpD, Spe int
}

// LevelUpMove is one entry in a species' level-up moveset (spec.md §C
// supplemented features, level-up move-learning flow).
type LevelUpMove struct {
	Level int
	Move  id.Id
}

// MoveData is the full declarative-plus-behavioral record for a move
// (spec.md §4.3).
type MoveData struct {
	Id          id.Id
	Name        string
	Category    Category
	PrimaryType id.Id
	BasePower   int
	Accuracy    int // -1 means the move always hits
	PP          int
	Priority    int
	Target      MoveTarget
	Flags       *container.BagSet[string]

	Recoil container.Fraction // fraction of damage dealt, or of user HP if RecoilFromUserHP
	RecoilFromUserHP bool
	Drain  container.Fraction // fraction of damage dealt, healed to the user

	Multihit *Multihit
	OHKO     bool

	CritRatio int // additive stage bonus to the crit roll

	HitEffect        *HitEffect
	UserEffect       *HitEffect
	SecondaryEffects []SecondaryEffect

	Effect *fxlang.EffectBundle
}

// SpeciesData is a creature species' static record.
type SpeciesData struct {
	Id             id.Id
	Name           string
	Types          []id.Id
	BaseStats      StatTable
	Abilities      []id.Id
	HiddenAbility  id.Id
	CatchRate      int
	BaseExperience int
	GenderRatio    container.Fraction // fraction of the population that is male; {1,1} = always male
	LevelUpMoves   []LevelUpMove
	EggMoves       []id.Id
}

// AbilityData is an ability's static record.
type AbilityData struct {
	Id     id.Id
	Name   string
	Effect *fxlang.EffectBundle
}

// ItemData is a held/bag item's static record.
type ItemData struct {
	Id     id.Id
	Name   string
	Flags  *container.BagSet[string]
	Effect *fxlang.EffectBundle
}

// ConditionData is a status/volatile/side/field condition's static
// record. InitialDuration is nil for conditions whose duration is
// either permanent or computed entirely by the Effect's Duration
// callback.
type ConditionData struct {
	Id              id.Id
	Name            string
	InitialDuration *int
	Effect          *fxlang.EffectBundle
}

// ClauseData is a battle-rule toggle (e.g. "sleep clause", "species
// clause") a host can enable when building a battle. Clauses have no
// callback bundle: they're consulted directly by battle-setup and
// choice-validation code, not dispatched as events.
type ClauseData struct {
	Id          id.Id
	Name        string
	Description string
}

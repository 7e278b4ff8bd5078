package battle

import (
	"github.com/battlecore/engine/arena"
	"github.com/battlecore/engine/container"
	"github.com/battlecore/engine/discovery"
	"github.com/battlecore/engine/fxlang"
	"github.com/battlecore/engine/id"
	"github.com/battlecore/engine/resource"
)

// MonHandle, SideHandle, PlayerHandle are the opaque, generation-tagged
// references spec.md §3 names. A handle never dangles within a
// battle's lifetime; Get against a freed or stale handle fails
// NotFound rather than aliasing.
type (
	MonHandle    = arena.Handle[Mon]
	SideHandle   = arena.Handle[Side]
	PlayerHandle = arena.Handle[Player]
)

// EntityKey names an attachment point for the fxlang registry: a
// specific Mon, a specific Side, or the single Field. fxlang.Registry
// is generic over this type and never inspects it — Battle is the only
// package that constructs and interprets EntityKeys. Index and
// Generation together mirror a Handle's identity, so a freed-and-
// reused arena slot produces a distinct EntityKey rather than
// accidentally aliasing whatever effects were attached to the slot's
// previous occupant.
type EntityKey struct {
	Kind       EntityKind
	Index      int
	Generation uint32
}

// EntityKind discriminates an EntityKey's referent.
type EntityKind int

const (
	EntityMon EntityKind = iota
	EntitySide
	EntityField
)

func monKey(h MonHandle) EntityKey {
	return EntityKey{Kind: EntityMon, Index: h.Index(), Generation: h.Generation()}
}
func sideKey(h SideHandle) EntityKey {
	return EntityKey{Kind: EntitySide, Index: h.Index(), Generation: h.Generation()}
}
func fieldKey() EntityKey { return EntityKey{Kind: EntityField} }

// BoostTable is a mon's signed stat-stage table, clamped to [-6, +6]
// per stat (spec.md §3 invariant 4).
type BoostTable struct {
	Atk, Def, SpA, SpD, Spe, Accuracy, Evasion int
}

// Clamp returns stage clamped to the legal [-6, +6] range.
func Clamp(stage int) int {
	if stage > 6 {
		return 6
	}
	if stage < -6 {
		return -6
	}
	return stage
}

// Apply adds delta to the named stat, clamping the result, and returns
// the actual change applied (which may be less than delta if the stat
// was already near a boundary — needed for accurate log lines).
func (b *BoostTable) Apply(stat string, delta int) int {
	before := b.get(stat)
	after := Clamp(before + delta)
	b.set(stat, after)
	return after - before
}

func (b *BoostTable) get(stat string) int {
	switch stat {
	case "atk":
		return b.Atk
	case "def":
		return b.Def
	case "spa":
		return b.SpA
	case "spd":
		return b.SpD
	case "spe":
		return b.Spe
	case "accuracy":
		return b.Accuracy
	case "evasion":
		return b.Evasion
	default:
		return 0
	}
}

func (b *BoostTable) set(stat string, value int) {
	switch stat {
	case "atk":
		b.Atk = value
	case "def":
		b.Def = value
	case "spa":
		b.SpA = value
	case "spd":
		b.SpD = value
	case "spe":
		b.Spe = value
	case "accuracy":
		b.Accuracy = value
	case "evasion":
		b.Evasion = value
	}
}

// Position locates an active mon within the battle's grid of sides and
// slots (spec.md §3 Mon.position).
type Position struct {
	Side         SideHandle
	PlayerIndex  int
	ActiveSlot   int
}

// ConditionInstance is an attached status/volatile/side/field condition
// (spec.md §3). Duration and Data mirror the fxlang.EffectState that
// backs it; this struct is the battle-facing view exposed to snapshot
// and logging code, constructed from the registry's Attachment.
type ConditionInstance struct {
	Id           id.Id
	SourceEffect fxlang.EffectRef
	SourceMon    *MonHandle
	Duration     *int
	Data         map[string]string
}

// Stats is a mon's computed stat line (base stats folded with IVs/EVs/
// nature — the battle package treats the inputs as opaque and stores
// only the computed result; species/IV/EV/nature math lives wherever a
// host's team builder runs, out of this engine's scope per spec.md §1).
type Stats struct {
	HP, Atk, Def, SpA, SpD, Spe int
}

// Mon is a single creature instance (spec.md §3).
type Mon struct {
	self MonHandle

	Species id.Id
	Name    string
	Level   int
	XP      int
	Types   []id.Id

	Ability id.Id
	Item    id.Id

	BaseStats Stats
	Stats     Stats
	HP        int
	MaxHP     int
	Boosts    BoostTable

	Moveset MonMoveset
	PP      *resource.Pool[id.Id]

	Status id.Id

	Position *Position
	Fainted  bool

	Generation uint64 // bumped on any externally-observable change, backing the discovery model

	// KnownItem/KnownAbility are this mon's opponent-facing discovery
	// state when it belongs to a wild or AI-controlled team; nil for a
	// mon whose full state is always visible to its owner.
	KnownItem    *discovery.Required[id.Id]
	KnownAbility *discovery.Required[id.Id]
}

// MonMoveset is the ordered list of a mon's known moves.
type MonMoveset struct {
	Moves []id.Id
}

// Self returns this mon's own handle, set by Battle when the mon is
// inserted into its arena.
func (m *Mon) Self() MonHandle { return m.self }

// IsActive reports whether this mon currently occupies a side's active
// slot.
func (m *Mon) IsActive() bool { return m.Position != nil }

// Player is a trainer slot (spec.md §3).
type Player struct {
	self PlayerHandle

	Name        string
	Team        []MonHandle
	Bag         *resource.Bag[id.Id]
	Protagonist bool
	Wild        bool

	PendingChoice *ActionChoice
}

func (p *Player) Self() PlayerHandle { return p.self }

// Side holds the shared, per-side conditions (hazards, screens) and
// the players battling from it (spec.md §3).
type Side struct {
	self SideHandle

	Index          int
	Players        []PlayerHandle
	SideConditions *container.OrderedMap[id.Id, *ConditionInstance]

	// AutoShiftSuppressed is a per-active-slot flag map that Clone
	// copies; nothing else in the engine sets or reads it, so a shift
	// choice does not suppress the end-of-turn auto-shift
	// (spec.md §C.5 supplemented feature).
	AutoShiftSuppressed map[int]bool
}

func (s *Side) Self() SideHandle { return s.self }

// Field holds global conditions: weather and arbitrary pseudo-weather/
// terrain entries (spec.md §3).
type Field struct {
	Weather    id.Id
	Conditions *container.OrderedMap[id.Id, *ConditionInstance]
}

// NewField creates an empty Field.
func NewField() *Field {
	return &Field{Conditions: container.NewOrderedMap[id.Id, *ConditionInstance]()}
}

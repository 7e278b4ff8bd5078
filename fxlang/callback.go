package fxlang

import "sort"

// NumberFn is a ReturnsNumber callback: it receives the chain value
// accumulated so far and produces the next value (spec.md §4.4 "Returns
// Number chain events").
type NumberFn func(ctx *Context, current int) (int, error)

// BooleanFn is a ReturnsBoolean callback: returning false vetoes
// (aborts the move, refuses the condition install, blocks the status).
type BooleanFn func(ctx *Context) (bool, error)

// VoidFn is a ReturnsVoid callback: it runs for its side effect only
// (logging, applying a secondary state change).
type VoidFn func(ctx *Context) error

// Callback is one hook registered against a BattleEvent. Exactly one of
// Number/Boolean/Void should be set, matching the event's contract
// (see ContractFor); Validate checks this once per bundle.
type Callback struct {
	Event    BattleEvent
	Order    int
	Priority int
	SubOrder int

	Number  NumberFn
	Boolean BooleanFn
	Void    VoidFn
}

// ReturnKind reports which of Number/Boolean/Void is actually set.
func (c Callback) ReturnKind() ReturnKind {
	switch {
	case c.Number != nil:
		return ReturnsNumber
	case c.Boolean != nil:
		return ReturnsBoolean
	default:
		return ReturnsVoid
	}
}

// Candidate pairs a Callback with the effective speed of the entity its
// effect is attached to, the last input the dispatch ordering needs
// (spec.md §4.4 "Dispatch algorithm" step 2). The battle package
// computes Speed since only it knows the owning Mon's current speed
// stat; fxlang only sorts and dispatches.
type Candidate struct {
	Callback Callback
	Speed    int
	Effect   EffectRef
}

// Sort orders candidates by order ascending, priority descending, speed
// descending, then sub_order ascending — the full tie-resolution chain
// spec.md §4.4 prescribes. It is stable, so candidates that compare
// equal on every field keep their original (scan-order) relative
// position.
func Sort(candidates []Candidate) []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Callback.Order != b.Callback.Order {
			return a.Callback.Order < b.Callback.Order
		}
		if a.Callback.Priority != b.Callback.Priority {
			return a.Callback.Priority > b.Callback.Priority
		}
		if a.Speed != b.Speed {
			return a.Speed > b.Speed
		}
		return a.Callback.SubOrder < b.Callback.SubOrder
	})
	return out
}

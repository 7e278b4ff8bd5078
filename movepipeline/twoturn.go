package movepipeline

import (
	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/fxlang"
	"github.com/battlecore/engine/id"
)

// twoTurnRef tags the volatile ExecuteMove uses to remember that a mon
// is mid-charge on a two-turn move (Fly, Dig, Solar Beam). It carries
// no callback bundle: TwoTurnGate only needs the registry's attach/
// detach/state bookkeeping, not a Start/End hook a content package
// would define.
var twoTurnRef = fxlang.EffectRef{Kind: fxlang.EffectCondition, Id: "twoturnmove"}

// TwoTurnGate resolves spec.md §4.5 step 3 for moves flagged
// "two_turn": the first call attaches the charging volatile and
// returns releasing=false (ExecuteMove should stop after the charge
// announcement); the following turn's call finds the volatile already
// recording this exact move, detaches it, and returns releasing=true
// so ExecuteMove proceeds to resolve hits as normal.
//
// Invulnerability during the charge turn (e.g. Fly/Dig dodging all but
// a tagged counter-move) is content's responsibility to implement as a
// TryHit callback on a volatile this gate could attach alongside
// twoTurnRef; this gate only tracks the charge/release transition.
func TwoTurnGate(b *battle.Battle, user battle.MonHandle, moveID id.Id) (releasing bool, err error) {
	key := battle.MonKey(user)
	for _, att := range b.Effects.Attachments(key) {
		if att.Effect != twoTurnRef {
			continue
		}
		stored, _ := att.State.GetString("move")
		if stored == moveID.String() {
			_ = b.Effects.Detach(key, twoTurnRef)
			return true, nil
		}
	}

	att, err := b.Effects.Attach(key, twoTurnRef, nil, nil, nil)
	if err != nil {
		return false, err
	}
	if att == nil {
		return false, nil
	}
	att.State.SetString("move", moveID.String())
	return false, nil
}

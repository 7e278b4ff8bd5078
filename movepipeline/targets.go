package movepipeline

import (
	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battledata"
	"github.com/battlecore/engine/battleerr"
)

// ResolveTargets projects a move's declared MoveTarget and a chosen
// primary target into the actual set of affected mons (spec.md §4.5
// step 1), using the active mons' Position to determine ally/foe
// relationships. Fainted mons and mons with no position are never
// included.
func ResolveTargets(b *battle.Battle, user battle.MonHandle, chosen battle.MonHandle, moveTarget battledata.MoveTarget) ([]battle.MonHandle, error) {
	userMon, err := b.Mon(user)
	if err != nil {
		return nil, err
	}
	if userMon.Position == nil {
		return nil, battleerr.InvalidArgumentf("move user has no active position")
	}

	switch moveTarget {
	case battledata.TargetUser:
		return []battle.MonHandle{user}, nil

	case battledata.TargetNormal, battledata.TargetAny, battledata.TargetAdjacentFoe,
		battledata.TargetAdjacentAlly, battledata.TargetAdjacentAllyOrUser, battledata.TargetRandomNormal:
		chosenMon, err := b.Mon(chosen)
		if err != nil {
			return nil, err
		}
		if chosenMon.Fainted || chosenMon.Position == nil {
			return nil, battleerr.InvalidChoice(0, "target has no active position")
		}
		return []battle.MonHandle{chosen}, nil

	case battledata.TargetAllAdjacent, battledata.TargetAllAdjacentFoes, battledata.TargetAllies, battledata.TargetAll:
		var out []battle.MonHandle
		for _, h := range b.AllMons() {
			m, err := b.Mon(h)
			if err != nil || m.Fainted || m.Position == nil {
				continue
			}
			sameSide := m.Position.Side == userMon.Position.Side
			switch moveTarget {
			case battledata.TargetAllAdjacentFoes:
				if sameSide {
					continue
				}
			case battledata.TargetAllies:
				if !sameSide || h == user {
					continue
				}
			case battledata.TargetAllAdjacent:
				if h == user {
					continue
				}
			}
			out = append(out, h)
		}
		return out, nil

	default:
		return nil, battleerr.InvalidArgumentf("unrecognized move target %q", moveTarget)
	}
}

package movepipeline

import (
	"strconv"

	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battledata"
	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/battlelog"
	"github.com/battlecore/engine/fxlang"
	"github.com/battlecore/engine/id"
	"github.com/battlecore/engine/rng"
)

// ExecuteMove resolves a single move usage end to end (spec.md §4.5
// steps 1-10): two-turn/charge-move gating, target resolution,
// ModifyMove, BeforeMove veto, hit count, per-hit accuracy/immunity/
// damage/effects, secondary effects, recoil/drain, and hitcount
// logging. Mega/tera/dynamax toggles are scheduler-level choice
// concerns applied to the mon before ExecuteMove is called, not inside
// it — see DESIGN.md.
func ExecuteMove(b *battle.Battle, user battle.MonHandle, moveSlot int, chosen battle.MonHandle, r *rng.Source) (*ActiveMove, error) {
	um, err := b.Mon(user)
	if err != nil {
		return nil, err
	}
	if moveSlot < 0 || moveSlot >= len(um.Moveset.Moves) {
		return nil, battleerr.InvalidChoice(moveSlot, "mon has no move in that slot")
	}
	moveID := um.Moveset.Moves[moveSlot]
	if err := um.PP.Consume(moveID, 1); err != nil {
		return nil, err
	}

	moveData, err := b.Data.GetMove(moveID)
	if err != nil {
		return nil, err
	}
	move := moveData.Clone()

	if hasFlag(move.Flags, "two_turn") {
		releasing, err := TwoTurnGate(b, user, moveID)
		if err != nil {
			return nil, err
		}
		if !releasing {
			b.Log.Append(battlelog.New("charge", "mon", monLogRef(um), "move", move.Name))
			return newActiveMove(move, user, nil), nil
		}
	}

	targets, err := ResolveTargets(b, user, chosen, move.Target)
	if err != nil {
		return nil, err
	}

	active := newActiveMove(move, user, targets)

	modifyCtx := fxlang.NewContext(fxlang.ModifyMove, user, fxlang.EffectRef{})
	fxlang.DispatchVoid(modifyCtx, b.CandidatesForScan(fxlang.ModifyMove, user, nil))

	beforeCtx := fxlang.NewContext(fxlang.BeforeMove, user, fxlang.EffectRef{})
	ok, err := fxlang.DispatchBoolean(beforeCtx, b.CandidatesForScan(fxlang.BeforeMove, user, nil))
	if err != nil {
		return active, err
	}
	if !ok {
		b.Log.Append(battlelog.New("fail", "mon", monLogRef(um)))
		return active, nil
	}

	active.HitCount = hitCount(active.Move, r)

	for _, target := range active.Targets {
		for i := 0; i < active.HitCount; i++ {
			hd := active.hit(target, i)
			if err := resolveHit(b, active, target, i, hd, r); err != nil {
				return active, err
			}
			if hd.Missed || hd.Immune {
				break
			}
		}
	}

	if active.HitCount > 1 {
		b.Log.Append(battlelog.New("hitcount", "count", strconv.Itoa(active.HitCount)))
	}

	applyRecoilAndDrain(b, active)

	afterCtx := fxlang.NewContext(fxlang.AfterMoveSecondary, user, fxlang.EffectRef{})
	fxlang.DispatchVoid(afterCtx, b.CandidatesForScan(fxlang.AfterMoveSecondary, user, &user))

	return active, nil
}

// hitCount resolves spec.md §4.5 step 4: a fixed multihit count is
// deterministic, a ranged one samples uniformly.
func hitCount(move battledata.MoveData, r *rng.Source) int {
	if move.Multihit == nil {
		return 1
	}
	switch move.Multihit.Kind {
	case battledata.MultihitStatic:
		return move.Multihit.N
	case battledata.MultihitRange:
		return r.IntRange(move.Multihit.Lo, move.Multihit.Hi)
	default:
		return 1
	}
}

// resolveHit runs spec.md §4.5 step 5 for one (target, hit index)
// pair: accuracy, immunity, damage, hit effects, and secondary
// effects.
func resolveHit(b *battle.Battle, active *ActiveMove, target battle.MonHandle, index int, hd *HitData, r *rng.Source) error {
	move := active.Move
	user := active.User

	hit, err := AccuracyCheck(b, move, user, target, r)
	if err != nil {
		return err
	}
	if !hit {
		hd.Missed = true
		b.Log.Append(battlelog.New("miss", "target", handleLogRef(b, target)))
		return nil
	}

	allowed, err := ImmunityCheck(b, move, user, target)
	if err != nil {
		return err
	}
	if !allowed {
		hd.Immune = true
		b.Log.Append(battlelog.New("immune", "target", handleLogRef(b, target)))
		return nil
	}

	if move.Category != battledata.Status {
		hd.Crit = CritRoll(move, r)
		damage, typeMod, err := ComputeDamage(b, move, user, target, r, damageInputs{Crit: hd.Crit})
		if err != nil {
			return err
		}
		hd.TypeMod = typeMod
		applied, err := b.ApplyDamage(target, damage)
		if err != nil {
			return err
		}
		hd.Damage = applied
		active.TotalDamage += applied

		tm, err := b.Mon(target)
		if err != nil {
			return err
		}
		b.Log.Append(battlelog.New("damage", "target", handleLogRef(b, target),
			"health", strconv.Itoa(tm.HP)+"/"+strconv.Itoa(tm.MaxHP)))
		if tm.Fainted {
			b.Log.Append(battlelog.New("faint", "target", handleLogRef(b, target)))
		}

		hitCtx := fxlang.NewContext(fxlang.DamagingHit, target, fxlang.EffectRef{})
		fxlang.DispatchVoid(hitCtx, b.CandidatesForScan(fxlang.DamagingHit, target, &user))
	}

	if move.HitEffect != nil {
		applyHitEffect(b, active, move.HitEffect, target, "hit_effect")
	}
	if move.UserEffect != nil {
		applyHitEffect(b, active, move.UserEffect, user, "user_effect")
	}

	for _, secondary := range move.SecondaryEffects {
		if secondary.HitEffect == nil {
			continue
		}
		if r.Chance(int(secondary.Chance.Numerator), int(secondary.Chance.Denominator)) {
			applyHitEffect(b, active, secondary.HitEffect, target, "secondary")
		}
	}

	return nil
}

// applyHitEffect installs the sub-effects a HitEffect names onto
// subject (the target for hit_effect, the user for user_effect):
// status, volatile, stat boosts, side/field conditions, heal, and a
// forced-switch flag (spec.md §4.5 step 6). Each condition-bearing
// sub-application re-enters the effect registry via AttachCondition,
// which fires Start and can veto, attributed to active's own effect
// reference so a Start callback's ctx.SourceEffect() can tell which
// move (and which of its hit_effect/user_effect/secondary halves)
// installed it.
func applyHitEffect(b *battle.Battle, active *ActiveMove, effect *battledata.HitEffect, subject battle.MonHandle, hitEffectType string) {
	source := active.effectRef(hitEffectType)
	if effect.Status != id.Empty {
		applyStatus(b, subject, effect.Status, source)
	}
	if effect.Volatile != id.Empty {
		_, _ = b.AttachCondition(battle.MonKey(subject), effect.Volatile, nil, &source)
	}
	for stat, delta := range effect.Boosts {
		_ = b.UpdateMon(subject, func(m *battle.Mon) {
			m.Boosts.Apply(stat, delta)
		})
	}
	if effect.SideCondition != id.Empty {
		if m, err := b.Mon(subject); err == nil && m.Position != nil {
			_, _ = b.AttachCondition(battle.SideKey(m.Position.Side), effect.SideCondition, nil, &source)
		}
	}
	if effect.FieldCondition != id.Empty {
		_, _ = b.AttachCondition(battle.FieldKey(), effect.FieldCondition, nil, &source)
	}
	if effect.Heal.Numerator != 0 {
		if m, err := b.Mon(subject); err == nil {
			amount := effect.Heal.ApplyToInt(m.MaxHP)
			if amount > 0 {
				_, _ = b.Heal(subject, amount)
			}
		}
	}
	if effect.ForceSwitch {
		b.Log.Append(battlelog.New("forceswitch", "target", handleLogRef(b, subject)))
	}
}

// applyStatus installs a major status condition on subject, enforcing
// spec.md §3 invariant 3 ("at most one status") and re-entering the
// registry through the SetStatus/AllySetStatus veto chain (spec.md §4.4
// table) before Start fires, then firing AfterSetStatus once the
// status is live and recording it on Mon.Status so effective-speed and
// other status-gated logic see it for the remainder of the battle.
func applyStatus(b *battle.Battle, subject battle.MonHandle, statusID id.Id, source fxlang.EffectRef) {
	m, err := b.Mon(subject)
	if err != nil || m.Status != id.Empty {
		return
	}

	setCtx := fxlang.NewContext(fxlang.SetStatus, subject, source)
	candidates := b.CandidatesForScan(fxlang.SetStatus, subject, nil)
	candidates = append(candidates, b.CandidatesForAllies(fxlang.AllySetStatus, subject)...)
	ok, err := fxlang.DispatchBoolean(setCtx, candidates)
	if err != nil || !ok {
		return
	}

	installed, err := b.AttachCondition(battle.MonKey(subject), statusID, nil, &source)
	if err != nil || !installed {
		return
	}
	_ = b.UpdateMon(subject, func(mon *battle.Mon) {
		mon.Status = statusID
	})

	afterCtx := fxlang.NewContext(fxlang.AfterSetStatus, subject, source)
	fxlang.DispatchVoid(afterCtx, b.CandidatesForScan(fxlang.AfterSetStatus, subject, nil))
}

// applyRecoilAndDrain resolves spec.md §4.5 step 8's recoil/drain:
// recoil is a fraction of damage dealt (or of the user's own max HP,
// per RecoilFromUserHP), drain heals the user by a fraction of damage
// dealt.
func applyRecoilAndDrain(b *battle.Battle, active *ActiveMove) {
	if active.TotalDamage == 0 {
		return
	}
	move := active.Move
	if move.Recoil.Numerator != 0 {
		var amount int
		if move.RecoilFromUserHP {
			um, err := b.Mon(active.User)
			if err != nil {
				return
			}
			amount = move.Recoil.ApplyToInt(um.MaxHP)
		} else {
			amount = move.Recoil.ApplyToInt(active.TotalDamage)
		}
		if amount > 0 {
			_, _ = b.ApplyDamage(active.User, amount)
			b.Log.Append(battlelog.New("recoil", "target", handleLogRef(b, active.User)))
		}
	}
	if move.Drain.Numerator != 0 {
		amount := move.Drain.ApplyToInt(active.TotalDamage)
		if amount > 0 {
			_, _ = b.Heal(active.User, amount)
		}
	}
}

func monLogRef(m *battle.Mon) string {
	return m.Name
}

func handleLogRef(b *battle.Battle, h battle.MonHandle) string {
	m, err := b.Mon(h)
	if err != nil {
		return "unknown"
	}
	return monLogRef(m)
}

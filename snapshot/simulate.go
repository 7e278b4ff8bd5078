package snapshot

import (
	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battlelog"
	"github.com/battlecore/engine/container"
	"github.com/battlecore/engine/movepipeline"
	"github.com/battlecore/engine/rng"
)

// StatusEffect summarizes every condition/boost/field change a
// simulated move produced on one side of the interaction (spec.md
// §4.5's "StatusEffect = { volatile?, side_condition?, weather?,
// terrain?, pseudo_weather?, boosts?, switch }"). The engine doesn't
// distinguish weather from terrain from pseudo-weather internally —
// all three are just conditions attached at the field entity key — so
// they're reported together as Field; a caller that cares about the
// distinction already knows it from the condition id.
type StatusEffect struct {
	Volatiles      []string
	SideConditions []string
	Field          []string
	Boosts         map[string]int
	Switch         bool
}

func (s StatusEffect) isEmpty() bool {
	return len(s.Volatiles) == 0 && len(s.SideConditions) == 0 && len(s.Field) == 0 && len(s.Boosts) == 0 && !s.Switch
}

// HitSummary reports the outcome of one resolved (target, hit index)
// pair, matching movepipeline.HitData's public shape.
type HitSummary struct {
	Missed bool
	Immune bool
	Crit   bool
	Damage int
}

// MoveResult is simulate_move's return contract (spec.md §4.5 "Move-
// result simulator").
type MoveResult struct {
	DamageOnTarget               container.Fraction
	TotalHeal                    int
	TargetHP                     int
	CombinedStatusEffectOnTarget StatusEffect
	CombinedStatusEffectOnUser   StatusEffect
	FirstHit                     *HitSummary
}

// Simulate runs one move usage against an isolated clone of b and
// reports what happened, without mutating b itself. user/target/
// moveSlot are the same arguments ExecuteMove takes; r drives whatever
// randomness the move's accuracy/crit/multihit rolls need, exactly as
// it would during a real turn (callers wanting a deterministic
// preview should pass a throwaway rng.Source seeded however they see
// fit — Simulate has no opinion on that).
func Simulate(b *battle.Battle, user battle.MonHandle, moveSlot int, target battle.MonHandle, r *rng.Source) (*MoveResult, error) {
	clone := b.Clone()

	beforeUser, err := clone.Mon(user)
	if err != nil {
		return nil, err
	}
	beforeTarget, err := clone.Mon(target)
	if err != nil {
		return nil, err
	}
	before := capture(clone, user, target, *beforeUser, *beforeTarget)
	logMark := len(clone.Log.All())

	active, err := movepipeline.ExecuteMove(clone, user, moveSlot, target, r)
	if err != nil {
		return nil, err
	}

	afterUser, err := clone.Mon(user)
	if err != nil {
		return nil, err
	}
	afterTarget, err := clone.Mon(target)
	if err != nil {
		return nil, err
	}
	after := capture(clone, user, target, *afterUser, *afterTarget)
	emitted := clone.Log.All()[logMark:]

	maxHP := beforeTarget.MaxHP
	if maxHP <= 0 {
		maxHP = 1
	}
	damage := beforeTarget.HP - afterTarget.HP
	if damage < 0 {
		damage = 0
	}

	heal := 0
	if d := afterUser.HP - beforeUser.HP; d > 0 {
		heal += d
	}
	if d := afterTarget.HP - beforeTarget.HP; d > 0 {
		heal += d
	}

	result := &MoveResult{
		DamageOnTarget:               container.NewFraction(int64(damage), int64(maxHP)),
		TotalHeal:                    heal,
		TargetHP:                     afterTarget.HP,
		CombinedStatusEffectOnTarget: diffStatus(before.target, after.target, before.field, after.field, emitted, afterTarget.Name),
		CombinedStatusEffectOnUser:   diffStatus(before.user, after.user, nil, nil, emitted, afterUser.Name),
	}

	if hd, ok := active.HitAt(target, 0); ok {
		result.FirstHit = &HitSummary{Missed: hd.Missed, Immune: hd.Immune, Crit: hd.Crit, Damage: hd.Damage}
	}
	return result, nil
}

type entityState struct {
	volatiles []string
	side      []string
	boosts    battle.BoostTable
}

type capturedState struct {
	user, target entityState
	field        []string
}

func capture(b *battle.Battle, user, target battle.MonHandle, um, tm battle.Mon) capturedState {
	return capturedState{
		user:   entityState{volatiles: conditionIDs(b, battle.MonKey(user)), side: sideConditionIDs(b, um), boosts: um.Boosts},
		target: entityState{volatiles: conditionIDs(b, battle.MonKey(target)), side: sideConditionIDs(b, tm), boosts: tm.Boosts},
		field:  conditionIDs(b, battle.FieldKey()),
	}
}

func sideConditionIDs(b *battle.Battle, m battle.Mon) []string {
	if m.Position == nil {
		return nil
	}
	return conditionIDs(b, battle.SideKey(m.Position.Side))
}

func conditionIDs(b *battle.Battle, entity battle.EntityKey) []string {
	atts := b.Effects.Attachments(entity)
	out := make([]string, len(atts))
	for i, att := range atts {
		out[i] = att.Effect.Id
	}
	return out
}

func diffStatus(before, after entityState, fieldBefore, fieldAfter []string, emitted []battlelog.Entry, subjectName string) StatusEffect {
	out := StatusEffect{
		Volatiles:      added(before.volatiles, after.volatiles),
		SideConditions: added(before.side, after.side),
		Field:          added(fieldBefore, fieldAfter),
		Boosts:         diffBoosts(before.boosts, after.boosts),
		Switch:         forceSwitchLogged(emitted, subjectName),
	}
	if out.isEmpty() {
		return StatusEffect{}
	}
	return out
}

func added(before, after []string) []string {
	seen := make(map[string]bool, len(before))
	for _, id := range before {
		seen[id] = true
	}
	var out []string
	for _, id := range after {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

func diffBoosts(before, after battle.BoostTable) map[string]int {
	out := map[string]int{}
	for _, stat := range []struct {
		name        string
		before, after int
	}{
		{"atk", before.Atk, after.Atk},
		{"def", before.Def, after.Def},
		{"spa", before.SpA, after.SpA},
		{"spd", before.SpD, after.SpD},
		{"spe", before.Spe, after.Spe},
		{"accuracy", before.Accuracy, after.Accuracy},
		{"evasion", before.Evasion, after.Evasion},
	} {
		if d := stat.after - stat.before; d != 0 {
			out[stat.name] = d
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func forceSwitchLogged(entries []battlelog.Entry, name string) bool {
	for _, e := range entries {
		if e.Verb != "forceswitch" {
			continue
		}
		for _, f := range e.Fields {
			if f.Key == "target" && f.Value == name {
				return true
			}
		}
	}
	return false
}

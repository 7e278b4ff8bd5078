package movepipeline

import (
	"math"

	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battledata"
	"github.com/battlecore/engine/container"
	"github.com/battlecore/engine/fxlang"
	"github.com/battlecore/engine/rng"
)

// stageMultiplier converts a boost stage in [-6, +6] into the
// conventional doubling/halving ratio applied to a stat.
func stageMultiplier(stage int) container.Fraction {
	if stage >= 0 {
		return container.NewFraction(int64(2+stage), 2)
	}
	return container.NewFraction(2, int64(2-stage))
}

func boostedStat(base int, stage int) int {
	return stageMultiplier(stage).ApplyToInt(base)
}

// hasFlag reports whether flags contains name; flags is nil for any
// move/item that declares none, so this guards the nil receiver rather
// than pushing that check onto every call site.
func hasFlag(flags *container.BagSet[string], name string) bool {
	return flags != nil && flags.Contains(name)
}

// offensiveStat picks the attacking stat a move's category uses,
// applies its boost stage, and runs the corresponding Modify*
// dispatch chain.
func offensiveStat(b *battle.Battle, move battledata.MoveData, user battle.MonHandle) (int, error) {
	m, err := b.Mon(user)
	if err != nil {
		return 0, err
	}
	event := fxlang.ModifyAtk
	base, stage := m.Stats.Atk, m.Boosts.Atk
	if move.Category == battledata.Special {
		event, base, stage = fxlang.ModifySpA, m.Stats.SpA, m.Boosts.SpA
	}
	value := boostedStat(base, stage)
	return runNumberChain(b, event, user, nil, value)
}

// defensiveStat picks the defending stat, applies its boost stage
// (crits ignore favorable defensive boosts, per spec.md §4.5 step 5c),
// and runs the corresponding Modify* dispatch chain.
func defensiveStat(b *battle.Battle, move battledata.MoveData, target battle.MonHandle, crit bool) (int, error) {
	m, err := b.Mon(target)
	if err != nil {
		return 0, err
	}
	event := fxlang.ModifyDef
	base, stage := m.Stats.Def, m.Boosts.Def
	if move.Category == battledata.Special {
		event, base, stage = fxlang.ModifySpD, m.Stats.SpD, m.Boosts.SpD
	}
	if crit && stage > 0 {
		stage = 0
	}
	value := boostedStat(base, stage)
	return runNumberChain(b, event, target, nil, value)
}

func runNumberChain(b *battle.Battle, event fxlang.BattleEvent, target battle.MonHandle, source *battle.MonHandle, initial int) (int, error) {
	ctx := fxlang.NewContext(event, target, fxlang.EffectRef{})
	candidates := b.CandidatesForScan(event, target, source)
	return fxlang.DispatchNumber(ctx, candidates, initial)
}

// AccuracyCheck resolves spec.md §4.5 step 5a: effective accuracy is
// base accuracy scaled by the accuracy/evasion stage ratio between
// user and target, capped at 100; no effect callback adjusts it. A
// move with Accuracy == -1 always hits.
func AccuracyCheck(b *battle.Battle, move battledata.MoveData, user, target battle.MonHandle, r *rng.Source) (bool, error) {
	if move.Accuracy < 0 || hasFlag(move.Flags, "ignore_accuracy") {
		return true, nil
	}
	um, err := b.Mon(user)
	if err != nil {
		return false, err
	}
	tm, err := b.Mon(target)
	if err != nil {
		return false, err
	}

	accuracyStage := um.Boosts.Accuracy
	evasionStage := tm.Boosts.Evasion
	if hasFlag(move.Flags, "ignore_evasion") {
		evasionStage = 0
	}
	netStage := accuracyStage - evasionStage
	if netStage > 6 {
		netStage = 6
	}
	if netStage < -6 {
		netStage = -6
	}

	chance := stageMultiplier(netStage).ApplyToInt(move.Accuracy)
	if chance > 100 {
		chance = 100
	}
	return r.Chance(chance, 100), nil
}

// ImmunityCheck resolves spec.md §4.5 step 5b: an explicit
// ignore_immunity flag, a zero type-chart multiplier for a non-status
// move, and a TryHit event veto (ability-level immunities such as
// Wonder Guard). A typeless move gets no bypass: its PrimaryType goes
// through the chart like any other.
func ImmunityCheck(b *battle.Battle, move battledata.MoveData, user, target battle.MonHandle) (bool, error) {
	if hasFlag(move.Flags, "ignore_immunity") {
		return true, nil
	}
	tm, err := b.Mon(target)
	if err != nil {
		return false, err
	}
	chart, err := b.Data.GetTypeChart()
	if err != nil {
		return false, err
	}
	if move.Category != battledata.Status {
		eff := chart.CombinedEffectiveness(move.PrimaryType, tm.Types)
		if eff.Numerator == 0 {
			return false, nil
		}
	}

	ctx := fxlang.NewContext(fxlang.TryHit, target, fxlang.EffectRef{})
	candidates := b.CandidatesForScan(fxlang.TryHit, target, &user)
	return fxlang.DispatchBoolean(ctx, candidates)
}

// CritRoll resolves spec.md §4.5 step 5c's critical-hit check: a fixed
// stage-to-odds table indexed by the move's CritRatio alone; no effect
// raises the stage.
func CritRoll(move battledata.MoveData, r *rng.Source) bool {
	stage := move.CritRatio
	if stage < 0 {
		stage = 0
	}
	numerator, denominator := 1, 24
	switch {
	case stage >= 3:
		numerator, denominator = 1, 1
	case stage == 2:
		numerator, denominator = 1, 2
	case stage == 1:
		numerator, denominator = 1, 8
	}
	return r.Chance(numerator, denominator)
}

// damageInputs bundles everything ComputeDamage needs beyond the move
// and the user/target handles, so the function signature doesn't grow
// every time a new multiplier is added.
type damageInputs struct {
	Crit         bool
	ScreenActive bool // Light Screen/Reflect/Aurora Veil, halved unless Crit
	Doubles      bool // screens multiply by 2/3 instead of 1/2 in doubles
}

// ComputeDamage resolves spec.md §4.5 step 5c in full: base power
// chain, offensive/defensive stat selection, level scaling, STAB, type
// effectiveness, the 0.85-1.00 random spread, crit multiplier, screens,
// and a final ModifyDamage chain. Returns the applied damage and the
// type effectiveness multiplier (for "no effect"/"not very
// effective"/"super effective" logging).
func ComputeDamage(b *battle.Battle, move battledata.MoveData, user, target battle.MonHandle, r *rng.Source, in damageInputs) (int, container.Fraction, error) {
	um, err := b.Mon(user)
	if err != nil {
		return 0, container.Whole(1), err
	}
	tm, err := b.Mon(target)
	if err != nil {
		return 0, container.Whole(1), err
	}
	chart, err := b.Data.GetTypeChart()
	if err != nil {
		return 0, container.Whole(1), err
	}

	basePower, err := runNumberChain(b, fxlang.BasePower, user, nil, move.BasePower)
	if err != nil {
		return 0, container.Whole(1), err
	}

	atk, err := offensiveStat(b, move, user)
	if err != nil {
		return 0, container.Whole(1), err
	}
	def, err := defensiveStat(b, move, target, in.Crit)
	if err != nil {
		return 0, container.Whole(1), err
	}

	if def < 1 {
		def = 1
	}
	// Standard level/power/stat damage formula.
	damage := (((2*um.Level/5 + 2) * basePower * atk / def) / 50) + 2

	stab := container.Whole(1)
	for _, t := range um.Types {
		if t == move.PrimaryType {
			stab = container.NewFraction(3, 2)
			break
		}
	}
	damage = stab.ApplyToInt(damage)

	typeMod := chart.CombinedEffectiveness(move.PrimaryType, tm.Types)
	damage = typeMod.ApplyToInt(damage)

	randomPercent := 85 + int(math.Floor(r.Float64()*16))
	damage = container.NewFraction(int64(randomPercent), 100).ApplyToInt(damage)

	if in.Crit {
		damage = container.NewFraction(3, 2).ApplyToInt(damage)
	}

	if in.ScreenActive && !in.Crit {
		if in.Doubles {
			damage = container.NewFraction(2, 3).ApplyToInt(damage)
		} else {
			damage = container.NewFraction(1, 2).ApplyToInt(damage)
		}
	}

	damage, err = runNumberChain(b, fxlang.ModifyDamage, target, &user, damage)
	if err != nil {
		return 0, typeMod, err
	}
	if damage < 1 && typeMod.Numerator != 0 && move.Category != battledata.Status {
		damage = 1
	}
	return damage, typeMod, nil
}

package movepipeline

import (
	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battledata"
	"github.com/battlecore/engine/container"
	"github.com/battlecore/engine/fxlang"
)

// hitKey addresses one (target, hit index) pair's transient data within
// a single move usage — spec.md §3's "ActiveMove ... hit_data: map[(mon,
// hit_index)]MoveHitData".
type hitKey struct {
	Target   battle.MonHandle
	HitIndex int
}

// HitData records what happened to one target on one hit of a move
// usage, kept around so later stages (secondary effects, recoil,
// logging) don't recompute it.
type HitData struct {
	Missed    bool
	Immune    bool
	Crit      bool
	TypeMod   container.Fraction
	Damage    int
}

// ActiveMove is one in-flight move usage (spec.md §3 "ActiveMove"): the
// move's data cloned so ModifyMove callbacks can mutate it freely
// without touching the stored MoveData, the resolved target set, and
// per-hit bookkeeping accumulated as the pipeline runs.
type ActiveMove struct {
	Move   battledata.MoveData
	User   battle.MonHandle
	Targets []battle.MonHandle

	HitCount    int
	TotalDamage int
	SpreadHit   bool

	hitData map[hitKey]*HitData
}

func newActiveMove(move battledata.MoveData, user battle.MonHandle, targets []battle.MonHandle) *ActiveMove {
	return &ActiveMove{
		Move:      move,
		User:      user,
		Targets:   targets,
		SpreadHit: len(targets) > 1,
		hitData:   make(map[hitKey]*HitData),
	}
}

// HitAt returns the recorded HitData for (target, index), or the zero
// HitData if that hit was never resolved (e.g. the move had fewer
// targets or a lower hit count than requested). Exported for snapshot's
// move-result simulator, which reports the first hit's outcome back to
// a caller that never sees an ActiveMove's internal hitKey indexing.
func (a *ActiveMove) HitAt(target battle.MonHandle, index int) (HitData, bool) {
	hd, ok := a.hitData[hitKey{Target: target, HitIndex: index}]
	if !ok {
		return HitData{}, false
	}
	return *hd, true
}

func (a *ActiveMove) hit(target battle.MonHandle, index int) *HitData {
	k := hitKey{Target: target, HitIndex: index}
	hd, ok := a.hitData[k]
	if !ok {
		hd = &HitData{}
		a.hitData[k] = hd
	}
	return hd
}

// effectRef identifies this usage's hit_effect/user_effect callbacks to
// the registry so ctx.SourceEffect() reports which move (and which of
// its two effect halves) is running — spec.md §4.4 "source_effect_context".
func (a *ActiveMove) effectRef(hitEffectType string) fxlang.EffectRef {
	return fxlang.EffectRef{
		Kind:          fxlang.EffectActiveMove,
		Id:            string(a.Move.Id),
		HitEffectType: hitEffectType,
	}
}

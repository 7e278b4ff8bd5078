package scheduler

import (
	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battlelog"
	"github.com/battlecore/engine/fxlang"
	"github.com/battlecore/engine/id"
)

// runResidual dispatches the end-of-turn Residual event (spec.md §4.6)
// over every live mon in effective-speed order (residualMonOrder), then
// each side, then the field
// last — the scan order spec.md gives so weather damage always
// resolves after per-mon and per-side residuals. Each attachment's
// duration is ticked down first; one that expires is detached (firing
// End) before Residual fires for the remainder, so an effect never
// gets a "bonus" tick on the turn it expires.
func (s *Scheduler) runResidual(result *TurnResult) {
	s.Battle.Log.Residual()

	for _, h := range s.residualMonOrder() {
		s.tickAndDispatch(battle.MonKey(h), h)
		s.afterResidual(h, result)
	}

	for _, side := range s.Battle.AllSides() {
		s.tickAndDispatch(battle.SideKey(side), battle.MonHandle{})
	}

	s.tickAndDispatch(battle.FieldKey(), battle.MonHandle{})
}

// tickAndDispatch ticks every attachment's duration at entity, detaches
// the ones that expired, then fires Residual for whatever remains
// attached, using only entity's own attachments. target is the mon the
// Residual context names and whose status is cleared when its condition
// expires; the zero MonHandle is passed for side/field entities.
func (s *Scheduler) tickAndDispatch(entity battle.EntityKey, target battle.MonHandle) {
	for _, att := range append([]*fxlang.Attachment(nil), s.Battle.Effects.Attachments(entity)...) {
		if att.State.TickDuration() {
			_ = s.Battle.Effects.Detach(entity, att.Effect)
			s.clearExpiredStatus(target, att.Effect)
		}
	}

	candidates := s.candidatesAt(entity)
	if len(candidates) == 0 {
		return
	}
	ctx := fxlang.NewContext(fxlang.Residual, target, fxlang.EffectRef{})
	fxlang.DispatchVoid(ctx, fxlang.Sort(candidates))
}

// residualMonOrder returns every live, active mon sorted by effective
// speed descending (Trick Room inverts it, same as the action queue),
// so a faster mon's residual effects (leftovers, poison, burn) resolve
// before a slower mon's when both trigger in the same residual phase.
// Each mon's own attachments still sort by the usual priority/sub-
// order rule within that one mon's dispatch — see tickAndDispatch.
func (s *Scheduler) residualMonOrder() []battle.MonHandle {
	type entry struct {
		h     battle.MonHandle
		speed int
	}
	var entries []entry
	for _, h := range s.Battle.AllMons() {
		m, err := s.Battle.Mon(h)
		if err != nil || m.Fainted || m.Position == nil {
			continue
		}
		entries = append(entries, entry{h: h, speed: s.effectiveSpeed(h, m)})
	}
	trickRoom := s.trickRoomActive()
	insertionSortStableEntries(entries, func(a, b entry) bool {
		if trickRoom {
			return a.speed < b.speed
		}
		return a.speed > b.speed
	})
	out := make([]battle.MonHandle, len(entries))
	for i, e := range entries {
		out[i] = e.h
	}
	return out
}

// clearExpiredStatus resets target.Status once the condition backing
// it expires and is force-detached. The registry has no notion of
// which mon field an EffectRef backs, so this is the one place that
// reconciles Mon.Status with an attachment's removal — target is the
// zero MonHandle for side/field entities, where Mon lookup fails
// harmlessly and this is a no-op.
func (s *Scheduler) clearExpiredStatus(target battle.MonHandle, effect fxlang.EffectRef) {
	if effect.Kind != fxlang.EffectCondition {
		return
	}
	m, err := s.Battle.Mon(target)
	if err != nil || m.Status.String() != effect.Id {
		return
	}
	_ = s.Battle.UpdateMon(target, func(mon *battle.Mon) {
		mon.Status = id.Empty
	})
}

func insertionSortStableEntries[T any](items []T, less func(a, b T) bool) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && less(items[j], items[j-1]); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

func (s *Scheduler) candidatesAt(entity battle.EntityKey) []fxlang.Candidate {
	var out []fxlang.Candidate
	for _, att := range s.Battle.Effects.Attachments(entity) {
		for _, cb := range att.Bundle.CallbacksFor(fxlang.Residual) {
			out = append(out, fxlang.Candidate{Callback: cb, Effect: att.Effect})
		}
	}
	return out
}

// afterResidual logs a faint line and records it in result if mon's
// HP was reduced to zero by a residual callback (e.g. poison, burn,
// sandstorm chip damage).
func (s *Scheduler) afterResidual(h battle.MonHandle, result *TurnResult) {
	m, err := s.Battle.Mon(h)
	if err != nil || !m.Fainted {
		return
	}
	for _, already := range result.Fainted {
		if already == h {
			return
		}
	}
	result.Fainted = append(result.Fainted, h)
	s.Battle.Log.Append(battlelog.New("faint", "mon", m.Name))
}

package battledata

import "github.com/battlecore/engine/id"

// Clone methods implement the "all return owned clones" contract
// spec.md §4.3 places on DataStore: the battle never retains a borrow
// into the store, so every Get* must hand back a value the caller can
// freely mutate (e.g. an ActiveMove's per-use HitEffect tweaks) without
// corrupting the shared static record.

func (h *HitEffect) Clone() *HitEffect {
	if h == nil {
		return nil
	}
	out := *h
	if h.Boosts != nil {
		out.Boosts = make(Boosts, len(h.Boosts))
		for k, v := range h.Boosts {
			out.Boosts[k] = v
		}
	}
	return &out
}

func (m *Multihit) Clone() *Multihit {
	if m == nil {
		return nil
	}
	out := *m
	return &out
}

func (m MoveData) Clone() MoveData {
	out := m
	if m.Flags != nil {
		out.Flags = m.Flags.Clone()
	}
	out.Multihit = m.Multihit.Clone()
	out.HitEffect = m.HitEffect.Clone()
	out.UserEffect = m.UserEffect.Clone()
	if m.SecondaryEffects != nil {
		out.SecondaryEffects = make([]SecondaryEffect, len(m.SecondaryEffects))
		for i, se := range m.SecondaryEffects {
			out.SecondaryEffects[i] = SecondaryEffect{Chance: se.Chance, HitEffect: se.HitEffect.Clone()}
		}
	}
	return out
}

func (s SpeciesData) Clone() SpeciesData {
	out := s
	out.Types = append([]id.Id(nil), s.Types...)
	out.Abilities = append([]id.Id(nil), s.Abilities...)
	out.LevelUpMoves = append([]LevelUpMove(nil), s.LevelUpMoves...)
	out.EggMoves = append([]id.Id(nil), s.EggMoves...)
	return out
}

func (a AbilityData) Clone() AbilityData {
	return a
}

func (it ItemData) Clone() ItemData {
	out := it
	if it.Flags != nil {
		out.Flags = it.Flags.Clone()
	}
	return out
}

func (c ConditionData) Clone() ConditionData {
	out := c
	if c.InitialDuration != nil {
		d := *c.InitialDuration
		out.InitialDuration = &d
	}
	return out
}

func (c ClauseData) Clone() ClauseData {
	return c
}

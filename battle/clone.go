package battle

import (
	"github.com/battlecore/engine/id"
)

// Clone returns an independent copy of b: same arena layout (every
// handle from b still resolves on the clone), but no shared mutable
// state, so running a move against the clone can never leak into b.
// Grounded on the move-result simulator's "clone the relevant state,
// run the steps, don't commit" contract — snapshot.Simulate is the
// only caller.
func (b *Battle) Clone() *Battle {
	return &Battle{
		Data:    b.Data,
		mons:    b.mons.Clone(cloneMon),
		sides:   b.sides.Clone(cloneSide),
		players: b.players.Clone(clonePlayer),
		Field:   b.Field.clone(),
		Effects: b.Effects.Clone(),
		Log:     b.Log.Clone(),
		turn:    b.turn,
	}
}

func cloneMon(m Mon) Mon {
	out := m
	out.Types = append([]id.Id(nil), m.Types...)
	out.Moveset.Moves = append([]id.Id(nil), m.Moveset.Moves...)
	if m.PP != nil {
		out.PP = m.PP.Clone()
	}
	if m.KnownItem != nil {
		k := m.KnownItem.Clone()
		out.KnownItem = &k
	}
	if m.KnownAbility != nil {
		k := m.KnownAbility.Clone()
		out.KnownAbility = &k
	}
	if m.Position != nil {
		pos := *m.Position
		out.Position = &pos
	}
	return out
}

func clonePlayer(p Player) Player {
	out := p
	out.Team = append([]MonHandle(nil), p.Team...)
	if p.Bag != nil {
		out.Bag = p.Bag.Clone()
	}
	if p.PendingChoice != nil {
		c := *p.PendingChoice
		out.PendingChoice = &c
	}
	return out
}

func cloneSide(s Side) Side {
	out := s
	out.Players = append([]PlayerHandle(nil), s.Players...)
	if s.SideConditions != nil {
		out.SideConditions = s.SideConditions.Clone(func(c *ConditionInstance) *ConditionInstance {
			return cloneConditionInstance(c)
		})
	}
	out.AutoShiftSuppressed = make(map[int]bool, len(s.AutoShiftSuppressed))
	for k, v := range s.AutoShiftSuppressed {
		out.AutoShiftSuppressed[k] = v
	}
	return out
}

func (f *Field) clone() *Field {
	return &Field{
		Weather: f.Weather,
		Conditions: f.Conditions.Clone(func(c *ConditionInstance) *ConditionInstance {
			return cloneConditionInstance(c)
		}),
	}
}

func cloneConditionInstance(c *ConditionInstance) *ConditionInstance {
	out := &ConditionInstance{Id: c.Id, SourceEffect: c.SourceEffect}
	if c.SourceMon != nil {
		h := *c.SourceMon
		out.SourceMon = &h
	}
	if c.Duration != nil {
		d := *c.Duration
		out.Duration = &d
	}
	out.Data = make(map[string]string, len(c.Data))
	for k, v := range c.Data {
		out.Data[k] = v
	}
	return out
}

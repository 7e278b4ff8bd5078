package snapshot

import (
	"github.com/battlecore/engine/battle"
)

// MonView is the read-only projection of one mon as seen by a given
// viewer: own-team mons show their true Item/Ability, opposing mons
// show only what that viewer's discovery state has narrowed down to a
// single known value (battle.Mon.KnownItem/KnownAbility).
type MonView struct {
	Name     string
	Level    int
	Types    []string
	HP       int
	MaxHP    int
	Fainted  bool
	Status   string
	Boosts   battle.BoostTable
	Position *battle.Position

	Item    string
	Ability string
}

// PlayerView is one player's team as seen by the requesting viewer.
type PlayerView struct {
	Name string
	Team []MonView
}

// SideView groups the players battling from one side.
type SideView struct {
	Index   int
	Players []PlayerView
}

// State is the full read-only battle projection spec.md §4.9 builds
// host-facing and AI-facing views on top of.
type State struct {
	Turn    int
	Weather string
	Sides   []SideView
}

// View projects b's current state for viewer: viewer's own team is
// rendered with full knowledge, every other player's team has its
// Item/Ability gated by discovery. A zero PlayerHandle (the caller has
// no particular viewer — a spectator or an omniscient AI hook) renders
// every team with full knowledge.
func View(b *battle.Battle, viewer battle.PlayerHandle) (*State, error) {
	state := &State{Turn: b.Turn(), Weather: b.Field.Weather.String()}

	for _, sh := range b.AllSides() {
		sd, err := b.Side(sh)
		if err != nil {
			return nil, err
		}
		sv := SideView{Index: sd.Index}
		for _, ph := range sd.Players {
			p, err := b.Player(ph)
			if err != nil {
				return nil, err
			}
			pv := PlayerView{Name: p.Name}
			own := ph == viewer || viewer == (battle.PlayerHandle{})
			for _, mh := range p.Team {
				m, err := b.Mon(mh)
				if err != nil {
					return nil, err
				}
				pv.Team = append(pv.Team, monView(m, own))
			}
			sv.Players = append(sv.Players, pv)
		}
		state.Sides = append(state.Sides, sv)
	}
	return state, nil
}

func monView(m *battle.Mon, own bool) MonView {
	types := make([]string, len(m.Types))
	for i, t := range m.Types {
		types[i] = t.String()
	}
	v := MonView{
		Name:     m.Name,
		Level:    m.Level,
		Types:    types,
		HP:       m.HP,
		MaxHP:    m.MaxHP,
		Fainted:  m.Fainted,
		Status:   m.Status.String(),
		Boosts:   m.Boosts,
		Position: m.Position,
	}
	if own {
		v.Item = m.Item.String()
		v.Ability = m.Ability.String()
		return v
	}
	if m.KnownItem != nil {
		if item, ok := m.KnownItem.Value(); ok {
			v.Item = item.String()
		}
	}
	if m.KnownAbility != nil {
		if ability, ok := m.KnownAbility.Value(); ok {
			v.Ability = ability.String()
		}
	}
	return v
}

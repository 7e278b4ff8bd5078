package scheduler

import (
	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/fxlang"
	"github.com/battlecore/engine/id"
)

// SetPlayerChoice parses and validates choice for player against the
// battle's current state (spec.md §4.6 "choice validation rejects
// before any state mutates"), then stores it as the player's pending
// action for the turn now being built.
func (s *Scheduler) SetPlayerChoice(player battle.PlayerHandle, choice string) error {
	c, err := battle.ParseChoice(choice)
	if err != nil {
		return err
	}

	p, err := s.Battle.Player(player)
	if err != nil {
		return err
	}
	mon, err := s.activeMonFor(player, p)
	if err != nil {
		return err
	}

	if err := s.validateChoice(player, p, mon, c); err != nil {
		return err
	}

	return s.Battle.UpdatePlayer(player, func(p *battle.Player) {
		cc := c
		p.PendingChoice = &cc
	})
}

func (s *Scheduler) activeMonFor(player battle.PlayerHandle, p *battle.Player) (battle.MonHandle, error) {
	for _, h := range p.Team {
		m, err := s.Battle.Mon(h)
		if err != nil {
			return battle.MonHandle{}, err
		}
		if m.Position != nil {
			return h, nil
		}
	}
	return battle.MonHandle{}, battleerr.InvalidChoice(0, "player has no active mon")
}

func (s *Scheduler) validateChoice(player battle.PlayerHandle, p *battle.Player, mon battle.MonHandle, c battle.ActionChoice) error {
	switch c.Kind {
	case battle.ChoiceMove:
		return s.validateMoveChoice(mon, c)
	case battle.ChoiceSwitch:
		return s.validateSwitchChoice(p, c)
	case battle.ChoiceEscape:
		if !p.Wild {
			return battleerr.InvalidChoice(0, "cannot escape a trainer battle")
		}
		return nil
	case battle.ChoiceItem, battle.ChoicePass, battle.ChoiceShift, battle.ChoiceLearnMove:
		return nil
	default:
		return battleerr.InvalidChoice(0, "unrecognized choice")
	}
}

func (s *Scheduler) validateMoveChoice(mon battle.MonHandle, c battle.ActionChoice) error {
	m, err := s.Battle.Mon(mon)
	if err != nil {
		return err
	}
	if c.MoveSlot < 0 || c.MoveSlot >= len(m.Moveset.Moves) {
		return battleerr.InvalidChoice(c.MoveSlot, "mon has no move in that slot")
	}
	moveID := m.Moveset.Moves[c.MoveSlot]
	counter, ok := m.PP.Get(moveID)
	if !ok || counter.Current() <= 0 {
		return battleerr.InvalidChoice(c.MoveSlot, "move has no PP remaining")
	}
	if name, locked := s.disabledMoveName(mon, moveID); locked {
		return battleerr.InvalidChoice(c.MoveSlot, "cannot move: "+name+" is disabled")
	}
	return nil
}

// disabledMoveName reports whether moveID is locked by a "disable"
// condition attached to mon (spec.md §7's InvalidChoice taxonomy,
// "disabled move chosen"), and the move's display name for the error
// message. It is scoped specifically to the "disable" effect id rather
// than any condition that happens to record a "move" state key, since
// a charging two-turn move also stores one (movepipeline.twoTurnRef)
// and must not be mistaken for a disable lock.
func (s *Scheduler) disabledMoveName(mon battle.MonHandle, moveID id.Id) (string, bool) {
	for _, att := range s.Battle.Effects.Attachments(battle.MonKey(mon)) {
		if att.Effect.Kind != fxlang.EffectCondition || att.Effect.Id != "disable" {
			continue
		}
		locked, ok := att.State.GetString("move")
		if !ok || locked != moveID.String() {
			continue
		}
		if data, err := s.Battle.Data.GetMove(moveID); err == nil {
			return data.Name, true
		}
		return moveID.String(), true
	}
	return "", false
}

func (s *Scheduler) validateSwitchChoice(p *battle.Player, c battle.ActionChoice) error {
	if c.SwitchTarget < 0 || c.SwitchTarget >= len(p.Team) {
		return battleerr.InvalidChoice(c.SwitchTarget, "no team slot at that index")
	}
	target := p.Team[c.SwitchTarget]
	tm, err := s.Battle.Mon(target)
	if err != nil {
		return err
	}
	if tm.Fainted {
		return battleerr.InvalidChoice(c.SwitchTarget, "cannot switch to a fainted mon")
	}
	if tm.Position != nil {
		return battleerr.InvalidChoice(c.SwitchTarget, "mon is already active")
	}
	return nil
}

// AllChoicesSubmitted reports whether every player with a live active
// mon has a PendingChoice recorded, the precondition for ExecuteTurn.
func (s *Scheduler) AllChoicesSubmitted() (bool, error) {
	for _, side := range s.sides() {
		sd, err := s.Battle.Side(side)
		if err != nil {
			return false, err
		}
		for _, ph := range sd.Players {
			p, err := s.Battle.Player(ph)
			if err != nil {
				return false, err
			}
			if !s.hasLiveActiveMon(p) {
				continue
			}
			if p.PendingChoice == nil {
				return false, nil
			}
		}
	}
	return true, nil
}

func (s *Scheduler) hasLiveActiveMon(p *battle.Player) bool {
	for _, h := range p.Team {
		m, err := s.Battle.Mon(h)
		if err == nil && m.Position != nil && !m.Fainted {
			return true
		}
	}
	return false
}

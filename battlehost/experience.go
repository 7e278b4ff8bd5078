package battlehost

import (
	"strconv"

	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/battlelog"
	"github.com/battlecore/engine/capture"
	"github.com/battlecore/engine/id"
	"github.com/battlecore/engine/resource"
	"github.com/battlecore/engine/scheduler"
)

// pendingLearn pairs a learn-move prompt with the mon it was raised
// for, since capture.LearnMoveChoice itself only names a team position
// and a player can have more than one mon leveling into a fifth move
// on the same turn.
type pendingLearn struct {
	mon    battle.MonHandle
	choice capture.LearnMoveChoice
}

// awardWildExperience implements spec.md §4.8's wild-mode experience
// flow: every wild mon that fainted this turn (result.Fainted) credits
// xp to the opposing, non-wild side's currently active mons, then
// checks each for a level-up and, on a level-up that would add a
// fifth move, queues a learn-move prompt for that mon's owner rather
// than applying it automatically.
//
// As a documented simplification of the fuller "every mon that
// participated" tracking spec.md §4.8 describes, only mons active at
// the instant of the faint are credited — a mon switched out earlier
// in the turn earns nothing.
func (s *Session) awardWildExperience(result *scheduler.TurnResult) {
	for _, fainted := range result.Fainted {
		owner, ownerPH, found := s.ownerOf(fainted)
		if !found || !owner.Wild {
			continue
		}
		faintedMon, err := s.Battle.Mon(fainted)
		if err != nil {
			continue
		}
		species, err := s.Battle.Data.GetSpecies(faintedMon.Species)
		if err != nil {
			continue
		}

		recipients := s.activeOpponents(ownerPH)
		if len(recipients) == 0 {
			continue
		}
		gain := (species.BaseExperience * faintedMon.Level) / 7
		gain /= len(recipients)
		if gain <= 0 {
			continue
		}
		for _, mh := range recipients {
			s.grantExperience(mh, gain)
		}
	}
}

// ownerOf walks every side's player roster to find who fields mh —
// Mon carries no owner back-reference (see battle.Mon), so this is
// the one place that reconstructs it.
func (s *Session) ownerOf(mh battle.MonHandle) (*battle.Player, battle.PlayerHandle, bool) {
	for _, sh := range s.Battle.AllSides() {
		sd, err := s.Battle.Side(sh)
		if err != nil {
			continue
		}
		for _, ph := range sd.Players {
			p, err := s.Battle.Player(ph)
			if err != nil {
				continue
			}
			for _, team := range p.Team {
				if team == mh {
					return p, ph, true
				}
			}
		}
	}
	return nil, battle.PlayerHandle{}, false
}

// activeOpponents returns every active mon belonging to a non-wild
// player on a side other than wildOwner's.
func (s *Session) activeOpponents(wildOwner battle.PlayerHandle) []battle.MonHandle {
	_, wildSide, _ := s.playerSide(wildOwner)
	var out []battle.MonHandle
	for _, sh := range s.Battle.AllSides() {
		if sh == wildSide {
			continue
		}
		sd, err := s.Battle.Side(sh)
		if err != nil {
			continue
		}
		for _, ph := range sd.Players {
			p, err := s.Battle.Player(ph)
			if err != nil || p.Wild {
				continue
			}
			for _, mh := range p.Team {
				m, err := s.Battle.Mon(mh)
				if err == nil && m.Position != nil && !m.Fainted {
					out = append(out, mh)
				}
			}
		}
	}
	return out
}

func (s *Session) playerSide(ph battle.PlayerHandle) (*battle.Player, battle.SideHandle, bool) {
	for _, sh := range s.Battle.AllSides() {
		sd, err := s.Battle.Side(sh)
		if err != nil {
			continue
		}
		for _, candidate := range sd.Players {
			if candidate == ph {
				p, err := s.Battle.Player(candidate)
				if err != nil {
					return nil, battle.SideHandle{}, false
				}
				return p, sh, true
			}
		}
	}
	return nil, battle.SideHandle{}, false
}

// grantExperience adds gain xp to mh and applies the resulting level in
// one step, logging a single levelup entry however many boundaries it
// crosses. It then offers every move learnable across those levels, in
// order: each is learned directly while the moveset has a free slot,
// and otherwise queued as its own learn-move prompt.
func (s *Session) grantExperience(mh battle.MonHandle, gain int) {
	_, ownerPH, found := s.ownerOf(mh)
	if !found {
		return
	}
	m, err := s.Battle.Mon(mh)
	if err != nil {
		return
	}
	fromLevel := m.Level
	newXP := m.XP + gain
	newLevel := capture.LevelForXP(newXP)

	if err := s.Battle.UpdateMon(mh, func(mon *battle.Mon) {
		mon.XP = newXP
		mon.Level = newLevel
	}); err != nil {
		return
	}
	s.Battle.Log.Append(battlelog.New("xp", "mon", m.Name, "gain", strconv.Itoa(gain)))
	if newLevel <= fromLevel {
		return
	}
	s.Battle.Log.Append(battlelog.New("levelup", "mon", m.Name, "level", strconv.Itoa(newLevel)))

	species, err := s.Battle.Data.GetSpecies(m.Species)
	if err != nil {
		return
	}
	learnable := capture.LearnableMoves(species.LevelUpMoves, fromLevel, newLevel, s.declinedMoves[mh])
	for _, move := range learnable {
		s.tryLearnMove(mh, ownerPH, move)
	}
}

// tryLearnMove either learns move directly (moveset has a free slot)
// or queues a learn-move prompt when all four slots are full,
// reporting whether a prompt was queued.
func (s *Session) tryLearnMove(mh battle.MonHandle, owner battle.PlayerHandle, move id.Id) bool {
	m, err := s.Battle.Mon(mh)
	if err != nil {
		return false
	}
	moveData, err := s.Battle.Data.GetMove(move)
	if err != nil {
		return false
	}

	if len(m.Moveset.Moves) < 4 {
		if err := s.Battle.UpdateMon(mh, func(mon *battle.Mon) {
			mon.Moveset.Moves = append(mon.Moveset.Moves, move)
			mon.PP.Set(move, resource.NewCounter(moveData.PP))
		}); err != nil {
			return false
		}
		s.Battle.Log.Append(battlelog.New("learnmove", "mon", m.Name, "move", string(move)))
		return false
	}

	choice := pendingLearn{mon: mh, choice: capture.LearnMoveChoice{
		TeamPosition: s.teamPosition(owner, mh),
		Move:         move,
		MoveName:     moveData.Name,
	}}
	s.learnQueue[owner] = append(s.learnQueue[owner], choice)
	return true
}

// teamPosition returns mh's index in owner's team, or -1.
func (s *Session) teamPosition(owner battle.PlayerHandle, mh battle.MonHandle) int {
	p, err := s.Battle.Player(owner)
	if err != nil {
		return -1
	}
	for i, h := range p.Team {
		if h == mh {
			return i
		}
	}
	return -1
}

// resolveLearnMoveChoice applies the head of ph's learn-move queue
// against choice, a `learnmove <slot-or-4>` reply, and pops it, so the
// player's next queued prompt (if any) becomes the head.
func (s *Session) resolveLearnMoveChoice(ph battle.PlayerHandle, reply string) error {
	queue := s.learnQueue[ph]
	if len(queue) == 0 {
		return battleerr.InvalidArgument("no learn-move prompt is pending for this player")
	}
	c, err := battle.ParseChoice(reply)
	if err != nil {
		return err
	}
	if c.Kind != battle.ChoiceLearnMove {
		return battleerr.InvalidChoice(0, "must submit a learnmove choice")
	}

	head := queue[0]
	s.learnQueue[ph] = queue[1:]
	if len(s.learnQueue[ph]) == 0 {
		delete(s.learnQueue, ph)
	}

	m, err := s.Battle.Mon(head.mon)
	if err != nil {
		return err
	}
	if c.LearnMoveSlot == 4 {
		if s.declinedMoves[head.mon] == nil {
			s.declinedMoves[head.mon] = make(map[id.Id]bool)
		}
		s.declinedMoves[head.mon][head.choice.Move] = true
		s.Battle.Log.Append(battlelog.New("declinemove", "mon", m.Name, "move", string(head.choice.Move)))
		return nil
	}

	newMoveset := capture.ResolveLearnMove(m.Moveset.Moves, head.choice.Move, c.LearnMoveSlot)
	moveData, err := s.Battle.Data.GetMove(head.choice.Move)
	if err != nil {
		return err
	}
	if err := s.Battle.UpdateMon(head.mon, func(mon *battle.Mon) {
		mon.Moveset.Moves = newMoveset
		mon.PP.Set(head.choice.Move, resource.NewCounter(moveData.PP))
	}); err != nil {
		return err
	}
	s.Battle.Log.Append(battlelog.New("learnmove", "mon", m.Name, "move", string(head.choice.Move)))
	return nil
}

package scheduler

import (
	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battleerr"
)

// ApplyReplacement switches a fainted-and-vacated position over
// immediately, outside the normal action queue (spec.md §4.6's forced
// "needs replacement" prompt resolves as soon as the host answers it,
// not at the next turn's priority order). buildQueue only considers
// mons that already hold a Position, so a player with no active mon
// left can never reach the normal SetPlayerChoice/ExecuteTurn path —
// battlehost calls this directly once it sees a player in
// TurnResult.NeedsReplacement.
func (s *Scheduler) ApplyReplacement(player battle.PlayerHandle, teamSlot int) error {
	p, err := s.Battle.Player(player)
	if err != nil {
		return err
	}
	if err := s.validateSwitchChoice(p, battle.ActionChoice{Kind: battle.ChoiceSwitch, SwitchTarget: teamSlot}); err != nil {
		return err
	}

	side, playerIndex, err := s.locatePlayer(player)
	if err != nil {
		return err
	}
	slot, err := s.freeActiveSlot(p, side, playerIndex)
	if err != nil {
		return err
	}

	target := p.Team[teamSlot]
	return s.Battle.SwitchIn(target, battle.Position{Side: side, PlayerIndex: playerIndex, ActiveSlot: slot})
}

func (s *Scheduler) locatePlayer(player battle.PlayerHandle) (battle.SideHandle, int, error) {
	for _, side := range s.Battle.AllSides() {
		sd, err := s.Battle.Side(side)
		if err != nil {
			continue
		}
		for i, ph := range sd.Players {
			if ph == player {
				return side, i, nil
			}
		}
	}
	return battle.SideHandle{}, 0, battleerr.InternalInvariantViolation("player not attached to any side")
}

// freeActiveSlot returns the lowest active-slot index this player
// currently has nobody occupying — the slot a fainted mon just
// vacated, since Mon.Position is cleared rather than preserved when HP
// reaches zero. s.ActivePerPlayer (when set) bounds the search so a
// simultaneous multi-faint in doubles/triples still finds every
// vacant slot, not just the ones inferred from a still-occupied
// neighbor.
func (s *Scheduler) freeActiveSlot(p *battle.Player, side battle.SideHandle, playerIndex int) (int, error) {
	used := map[int]bool{}
	maxSlot := -1
	for _, h := range p.Team {
		m, err := s.Battle.Mon(h)
		if err != nil || m.Position == nil {
			continue
		}
		if m.Position.Side != side || m.Position.PlayerIndex != playerIndex {
			continue
		}
		used[m.Position.ActiveSlot] = true
		if m.Position.ActiveSlot > maxSlot {
			maxSlot = m.Position.ActiveSlot
		}
	}
	limit := maxSlot
	if s.ActivePerPlayer-1 > limit {
		limit = s.ActivePerPlayer - 1
	}
	for i := 0; i <= limit; i++ {
		if !used[i] {
			return i, nil
		}
	}
	return 0, battleerr.InternalInvariantViolation("no vacant active slot to replace into")
}

package scheduler

import (
	"strconv"

	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/battlelog"
	"github.com/battlecore/engine/movepipeline"
	"github.com/battlecore/engine/rng"
	"github.com/battlecore/engine/shift"
)

// Scheduler drives turns for one Battle (spec.md §4.6). It holds no
// battle state of its own beyond configuration: everything mutable
// lives on the Battle it wraps, so a Scheduler can be rebuilt freely
// across a suspend/resume boundary (e.g. a battlehost restoring a
// session from a snapshot).
type Scheduler struct {
	Battle         *battle.Battle
	RNG            *rng.Source
	Tie            TieRule
	AdjacencyReach int

	// ActivePerPlayer is how many active slots each player fields (1
	// singles, 2 doubles, ...). Zero means "infer from whichever
	// positions are currently occupied", which is only correct when a
	// player never has every one of their active slots vacated in the
	// same instant; battlehost sets this explicitly once it knows the
	// battle's format.
	ActivePerPlayer int
}

// New creates a Scheduler for b.
func New(b *battle.Battle, r *rng.Source, tie TieRule, adjacencyReach int) *Scheduler {
	return &Scheduler{Battle: b, RNG: r, Tie: tie, AdjacencyReach: adjacencyReach}
}

// TurnResult summarizes the outcome of one ExecuteTurn call.
type TurnResult struct {
	Turn             int
	Fainted          []battle.MonHandle
	NeedsReplacement []battle.PlayerHandle
	Ended            bool
	WinningSide      *battle.SideHandle
}

// ExecuteTurn runs one full turn (spec.md §4.6): the action queue in
// sorted order, the residual phase, end-of-turn shift, the turn
// counter advance, and battle-end detection. It requires every player
// with a live active mon to have already called SetPlayerChoice.
func (s *Scheduler) ExecuteTurn() (*TurnResult, error) {
	ok, err := s.AllChoicesSubmitted()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, battleerr.InvalidArgument("not every active player has submitted a choice")
	}

	s.Battle.Log.Turn(s.Battle.Turn())
	result := &TurnResult{Turn: s.Battle.Turn()}

	queue, err := s.buildQueue()
	if err != nil {
		return nil, err
	}

	for _, action := range queue {
		m, err := s.Battle.Mon(action.Mon)
		if err != nil {
			return nil, err
		}
		if m.Fainted {
			continue
		}
		if err := s.executeAction(action, result); err != nil {
			return nil, err
		}
		if ended, side := s.detectBattleEnd(); ended {
			result.Ended = true
			result.WinningSide = side
			s.clearChoices()
			return result, nil
		}
	}

	s.runResidual(result)
	if ended, side := s.detectBattleEnd(); ended {
		result.Ended = true
		result.WinningSide = side
		s.clearChoices()
		return result, nil
	}

	s.runShift()
	s.collectNeedsReplacement(result)
	s.clearChoices()
	s.Battle.AdvanceTurn()
	return result, nil
}

func (s *Scheduler) executeAction(a Action, result *TurnResult) error {
	switch a.Choice.Kind {
	case battle.ChoiceSwitch:
		return s.executeSwitch(a, result)
	case battle.ChoiceMove:
		return s.executeMove(a, result)
	case battle.ChoiceItem:
		m, err := s.Battle.Mon(a.Mon)
		if err != nil {
			return err
		}
		s.Battle.Log.Append(battlelog.New("item", "mon", m.Name, "item", a.Choice.ItemID))
		return nil
	case battle.ChoiceEscape:
		return s.executeEscape(a, result)
	default:
		return nil
	}
}

func (s *Scheduler) executeSwitch(a Action, result *TurnResult) error {
	p, err := s.Battle.Player(a.Player)
	if err != nil {
		return err
	}
	target := p.Team[a.Choice.SwitchTarget]

	current, err := s.Battle.Mon(a.Mon)
	if err != nil {
		return err
	}
	pos := *current.Position
	if err := s.Battle.SwitchOut(a.Mon); err != nil {
		return err
	}
	if err := s.Battle.SwitchIn(target, pos); err != nil {
		return err
	}
	tm, _ := s.Battle.Mon(target)
	name := ""
	if tm != nil {
		name = tm.Name
	}
	s.Battle.Log.Append(battlelog.New("switch", "mon", name))
	return nil
}

func (s *Scheduler) executeMove(a Action, result *TurnResult) error {
	chosen, ok := s.resolveChosenTarget(a.Mon, a.Choice)
	if !ok {
		s.Battle.Log.Append(battlelog.New("fail", "reason", "no valid target"))
		return nil
	}
	active, err := movepipeline.ExecuteMove(s.Battle, a.Mon, a.Choice.MoveSlot, chosen, s.RNG)
	if err != nil {
		return err
	}
	for _, t := range active.Targets {
		tm, err := s.Battle.Mon(t)
		if err == nil && tm.Fainted {
			result.Fainted = append(result.Fainted, t)
		}
	}
	return nil
}

// executeEscape resolves spec.md §4.8's fleeing-from-a-wild-encounter
// mechanic: always succeeds against a wild opponent (the only case
// ChoiceEscape validates for) unless a field/side effect vetoes it via
// BeforeMove-style content, which this simplified pipeline does not
// model — see DESIGN.md.
func (s *Scheduler) executeEscape(a Action, result *TurnResult) error {
	result.Ended = true
	s.Battle.Log.Append(battlelog.New("escape", "player", ""))
	return nil
}

// resolveChosenTarget finds the mon a move choice targets: the
// opposing active mon at the requested slot if MoveTarget names one,
// otherwise the first live opposing active mon. Self/field-targeting
// moves ignore the returned handle entirely (movepipeline.ResolveTargets
// only consults it for opponent-facing MoveTarget kinds).
func (s *Scheduler) resolveChosenTarget(user battle.MonHandle, c battle.ActionChoice) (battle.MonHandle, bool) {
	um, err := s.Battle.Mon(user)
	if err != nil || um.Position == nil {
		return battle.MonHandle{}, false
	}
	var candidates []battle.MonHandle
	for _, h := range s.Battle.AllMons() {
		m, err := s.Battle.Mon(h)
		if err != nil || m.Fainted || m.Position == nil {
			continue
		}
		if m.Position.Side == um.Position.Side {
			continue
		}
		candidates = append(candidates, h)
	}
	if len(candidates) == 0 {
		return battle.MonHandle{}, false
	}
	if c.MoveTarget >= 0 && c.MoveTarget < len(candidates) {
		return candidates[c.MoveTarget], true
	}
	return candidates[0], true
}

func (s *Scheduler) clearChoices() {
	for _, side := range s.Battle.AllSides() {
		sd, err := s.Battle.Side(side)
		if err != nil {
			continue
		}
		for _, ph := range sd.Players {
			_ = s.Battle.UpdatePlayer(ph, func(p *battle.Player) {
				p.PendingChoice = nil
			})
		}
	}
}

func (s *Scheduler) collectNeedsReplacement(result *TurnResult) {
	for _, side := range s.Battle.AllSides() {
		sd, err := s.Battle.Side(side)
		if err != nil {
			continue
		}
		for _, ph := range sd.Players {
			p, err := s.Battle.Player(ph)
			if err != nil {
				continue
			}
			if p.Wild {
				continue
			}
			if s.playerNeedsReplacement(p) {
				result.NeedsReplacement = append(result.NeedsReplacement, ph)
			}
		}
	}
}

// playerNeedsReplacement reports whether p currently has no active mon
// but still has an unfainted mon on its team able to switch in (spec.md
// §4.6's forced-replacement prompt).
func (s *Scheduler) playerNeedsReplacement(p *battle.Player) bool {
	hasActive := false
	hasReserve := false
	for _, h := range p.Team {
		m, err := s.Battle.Mon(h)
		if err != nil {
			continue
		}
		if m.Position != nil {
			hasActive = true
		}
		if !m.Fainted && m.Position == nil {
			hasReserve = true
		}
	}
	return !hasActive && hasReserve
}

// detectBattleEnd reports whether any side has no player left with a
// live mon (active or in reserve), and if so which side (singular,
// under the two-side assumption this engine models — see DESIGN.md)
// remains.
func (s *Scheduler) detectBattleEnd() (bool, *battle.SideHandle) {
	sides := s.Battle.AllSides()
	var alive []battle.SideHandle
	for _, side := range sides {
		if s.sideHasAnyLiveMon(side) {
			alive = append(alive, side)
		}
	}
	if len(alive) == 1 && len(sides) > 1 {
		winner := alive[0]
		sd, _ := s.Battle.Side(winner)
		index := 0
		if sd != nil {
			index = sd.Index
		}
		s.Battle.Log.Append(battlelog.New("win", "side", strconv.Itoa(index)))
		return true, &winner
	}
	if len(alive) == 0 {
		s.Battle.Log.Append(battlelog.New("win", "side", "none"))
		return true, nil
	}
	return false, nil
}

func (s *Scheduler) sideHasAnyLiveMon(side battle.SideHandle) bool {
	sd, err := s.Battle.Side(side)
	if err != nil {
		return false
	}
	for _, ph := range sd.Players {
		p, err := s.Battle.Player(ph)
		if err != nil {
			continue
		}
		for _, h := range p.Team {
			m, err := s.Battle.Mon(h)
			if err == nil && !m.Fainted {
				return true
			}
		}
	}
	return false
}

func (s *Scheduler) sides() []battle.SideHandle {
	return s.Battle.AllSides()
}

func (s *Scheduler) playerFor(mon battle.MonHandle) (battle.PlayerHandle, error) {
	for _, side := range s.Battle.AllSides() {
		sd, err := s.Battle.Side(side)
		if err != nil {
			continue
		}
		for _, ph := range sd.Players {
			p, err := s.Battle.Player(ph)
			if err != nil {
				continue
			}
			for _, h := range p.Team {
				if h == mon {
					return ph, nil
				}
			}
		}
	}
	return battle.PlayerHandle{}, battleerr.InternalInvariantViolation("mon does not belong to any player")
}

// runShift wires shift.EnsureAdjacency between the first two sides
// (spec.md §4.7); a battle with more than two sides (a format this
// engine does not otherwise model) skips shifting entirely.
func (s *Scheduler) runShift() {
	sides := s.Battle.AllSides()
	if len(sides) != 2 {
		return
	}
	activeA := s.activeMonsOf(sides[0])
	activeB := s.activeMonsOf(sides[1])
	shiftA, shiftB := shift.EnsureAdjacency(activeA, activeB, s.AdjacencyReach)
	s.applyShift(sides[0], shiftA)
	s.applyShift(sides[1], shiftB)
}

func (s *Scheduler) activeMonsOf(side battle.SideHandle) []shift.ActiveMon {
	sd, err := s.Battle.Side(side)
	if err != nil {
		return nil
	}
	var out []shift.ActiveMon
	for pi, ph := range sd.Players {
		p, err := s.Battle.Player(ph)
		if err != nil {
			continue
		}
		for _, h := range p.Team {
			m, err := s.Battle.Mon(h)
			if err != nil || m.Position == nil {
				continue
			}
			out = append(out, shift.ActiveMon{PlayerIndex: pi, ActiveSlot: m.Position.ActiveSlot, Fainted: m.Fainted})
		}
	}
	return out
}

// applyShift moves the one mon matching sh's From* coordinates into
// its new position. sh is nil when EnsureAdjacency found nothing to
// move for this side.
func (s *Scheduler) applyShift(side battle.SideHandle, sh *shift.Shift) {
	if sh == nil {
		return
	}
	sd, err := s.Battle.Side(side)
	if err != nil {
		return
	}
	for pi, ph := range sd.Players {
		if pi != sh.FromPlayerIndex {
			continue
		}
		p, err := s.Battle.Player(ph)
		if err != nil {
			continue
		}
		for _, h := range p.Team {
			m, err := s.Battle.Mon(h)
			if err != nil || m.Position == nil || m.Position.ActiveSlot != sh.FromActiveSlot {
				continue
			}
			pos := *m.Position
			if sh.PlayerIndex != -1 {
				pos.PlayerIndex = sh.PlayerIndex
			}
			if sh.ActiveSlot != -1 {
				pos.ActiveSlot = sh.ActiveSlot
			}
			_ = s.Battle.UpdateMon(h, func(m *battle.Mon) {
				m.Position = &pos
			})
			return
		}
	}
}

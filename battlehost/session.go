package battlehost

import (
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/battlelog"
	"github.com/battlecore/engine/datastore"
	"github.com/battlecore/engine/id"
	"github.com/battlecore/engine/rng"
	"github.com/battlecore/engine/scheduler"
	"github.com/battlecore/engine/snapshot"
)

// Session is one running battle plus everything a Driver API caller
// needs to drive it: the player-id <-> battle.PlayerHandle mapping
// (spec.md's player_id is host-facing and opaque; this engine's own
// PlayerHandle never leaves the package), forced-replacement and
// learn-move prompts pending against specific players, and the
// wild-mode experience bookkeeping spec.md §4.8 describes.
type Session struct {
	ID       string
	Battle   *battle.Battle
	Sched    *scheduler.Scheduler
	opts     Options
	log      *zap.Logger
	started  bool
	ended    bool

	playerIDs  map[string]battle.PlayerHandle
	idByHandle map[battle.PlayerHandle]string

	needsReplacement map[battle.PlayerHandle]bool
	learnQueue       map[battle.PlayerHandle][]pendingLearn
	declinedMoves    map[battle.MonHandle]map[id.Id]bool
}

// NewSession constructs a Battle from opts against store and wires a
// Scheduler over it, assigning each player an opaque string id (a
// host never needs to know about arena.Handle). logger may be nil, in
// which case diagnostics are discarded.
func NewSession(opts Options, store datastore.DataStore, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.Sides) < 2 {
		return nil, battleerr.InvalidArgument("a battle needs at least two sides")
	}
	if opts.ActivePerPlayer <= 0 {
		opts.ActivePerPlayer = 1
	}

	b := battle.New(store)
	s := &Session{
		ID:               uuid.NewString(),
		Battle:           b,
		opts:             opts,
		log:              logger,
		playerIDs:        make(map[string]battle.PlayerHandle),
		idByHandle:       make(map[battle.PlayerHandle]string),
		needsReplacement: make(map[battle.PlayerHandle]bool),
		learnQueue:       make(map[battle.PlayerHandle][]pendingLearn),
		declinedMoves:    make(map[battle.MonHandle]map[id.Id]bool),
	}

	for sideIndex, sideSpec := range opts.Sides {
		if len(sideSpec.Players) == 0 {
			return nil, battleerr.InvalidArgument("every side needs at least one player")
		}
		side := b.AddSide(sideIndex)
		for _, ps := range sideSpec.Players {
			if len(ps.Team) == 0 {
				return nil, battleerr.InvalidArgument("every player needs at least one mon")
			}
			ph, err := b.AddPlayer(side, ps.Name, ps.Wild)
			if err != nil {
				return nil, err
			}
			playerID := uuid.NewString()
			s.playerIDs[playerID] = ph
			s.idByHandle[ph] = playerID

			for _, mon := range ps.Team {
				if _, err := b.AddMon(ph, mon); err != nil {
					return nil, err
				}
			}
		}
	}

	sched := scheduler.New(b, rng.New(opts.Seed), opts.Tie, opts.AdjacencyReach)
	sched.ActivePerPlayer = opts.ActivePerPlayer
	s.Sched = sched

	s.log.Info("battle session created", zap.String("session_id", s.ID), zap.Int("sides", len(opts.Sides)))
	return s, nil
}

// PlayerIDs returns every player id assigned at construction, in side
// then player order.
func (s *Session) PlayerIDs() []string {
	out := make([]string, 0, len(s.playerIDs))
	for _, sh := range s.Battle.AllSides() {
		sd, err := s.Battle.Side(sh)
		if err != nil {
			continue
		}
		for _, ph := range sd.Players {
			if pid, ok := s.idByHandle[ph]; ok {
				out = append(out, pid)
			}
		}
	}
	return out
}

func (s *Session) lookup(playerID string) (battle.PlayerHandle, error) {
	ph, ok := s.playerIDs[playerID]
	if !ok {
		return battle.PlayerHandle{}, battleerr.NotFound("player", playerID)
	}
	return ph, nil
}

// Start switches each player's first ActivePerPlayer non-fainted mons
// into active position and emits the initial switch-in log lines
// (spec.md §6 "emit initial switch-ins and the first turn request").
// It fails if any player has zero usable mons.
func (s *Session) Start() error {
	if s.started {
		return battleerr.InvalidArgument("battle already started")
	}
	for _, side := range s.Battle.AllSides() {
		sd, err := s.Battle.Side(side)
		if err != nil {
			return err
		}
		for playerIndex, ph := range sd.Players {
			p, err := s.Battle.Player(ph)
			if err != nil {
				return err
			}
			placed := 0
			for _, mh := range p.Team {
				if placed >= s.opts.ActivePerPlayer {
					break
				}
				m, err := s.Battle.Mon(mh)
				if err != nil {
					return err
				}
				if m.Fainted {
					continue
				}
				pos := battle.Position{Side: side, PlayerIndex: playerIndex, ActiveSlot: placed}
				if err := s.Battle.SwitchIn(mh, pos); err != nil {
					return err
				}
				s.Battle.Log.Append(battlelog.New("switch", "mon", m.Name, "slot", strconv.Itoa(placed)))
				placed++
			}
			if placed == 0 {
				return battleerr.InvalidArgumentf("player %q has no usable mon to start with", p.Name)
			}
		}
	}
	s.started = true
	return nil
}

// SetPlayerChoice validates and records one choice string for
// playerID, routing it to whichever of the three pending-prompt
// mechanisms (ordinary turn choice, forced replacement, learn-move
// reply) currently applies to that player.
func (s *Session) SetPlayerChoice(playerID, choice string) error {
	ph, err := s.lookup(playerID)
	if err != nil {
		return err
	}

	if len(s.learnQueue[ph]) > 0 {
		return s.resolveLearnMoveChoice(ph, choice)
	}
	if s.needsReplacement[ph] {
		c, err := battle.ParseChoice(choice)
		if err != nil {
			return err
		}
		if c.Kind != battle.ChoiceSwitch {
			return battleerr.InvalidChoice(0, "must submit a switch choice to replace a fainted mon")
		}
		if err := s.Sched.ApplyReplacement(ph, c.SwitchTarget); err != nil {
			return err
		}
		delete(s.needsReplacement, ph)
		return nil
	}
	return s.Sched.SetPlayerChoice(ph, choice)
}

// ContinueBattle advances the battle one turn if every live active
// player has submitted a choice and no replacement/learn-move prompt
// is outstanding; otherwise it returns (nil, nil) — the host should
// call RequestForPlayer to see what is still needed. It is the Driver
// API's continue_battle().
func (s *Session) ContinueBattle() (*scheduler.TurnResult, error) {
	if s.ended || !s.started {
		return nil, nil
	}
	if len(s.needsReplacement) > 0 || len(s.learnQueue) > 0 {
		return nil, nil
	}
	ok, err := s.Sched.AllChoicesSubmitted()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	result, err := s.Sched.ExecuteTurn()
	if err != nil {
		return nil, err
	}
	if result.Ended {
		s.ended = true
	}
	for _, ph := range result.NeedsReplacement {
		s.needsReplacement[ph] = true
	}
	s.awardWildExperience(result)
	s.log.Debug("turn executed", zap.String("session_id", s.ID), zap.Int("turn", result.Turn), zap.Bool("ended", result.Ended))
	return result, nil
}

// AutoContinue repeatedly calls ContinueBattle until the battle ends
// or a request needs a player's input (spec.md §6 "auto_continue").
func (s *Session) AutoContinue() ([]*scheduler.TurnResult, error) {
	var out []*scheduler.TurnResult
	for {
		result, err := s.ContinueBattle()
		if err != nil {
			return out, err
		}
		if result == nil {
			return out, nil
		}
		out = append(out, result)
		if result.Ended {
			return out, nil
		}
	}
}

// RequestForPlayer reports what, if anything, playerID still needs to
// submit before the battle can proceed.
func (s *Session) RequestForPlayer(playerID string) (*Request, error) {
	ph, err := s.lookup(playerID)
	if err != nil {
		return nil, err
	}
	if s.ended || !s.started {
		return &Request{Kind: RequestNone}, nil
	}
	if queue := s.learnQueue[ph]; len(queue) > 0 {
		cp := queue[0].choice
		return &Request{Kind: RequestLearnMove, LearnMove: &cp}, nil
	}
	if s.needsReplacement[ph] {
		return &Request{Kind: RequestSwitch}, nil
	}

	p, err := s.Battle.Player(ph)
	if err != nil {
		return nil, err
	}
	if p.PendingChoice != nil {
		return &Request{Kind: RequestNone}, nil
	}
	for _, mh := range p.Team {
		m, err := s.Battle.Mon(mh)
		if err == nil && m.Position != nil && !m.Fainted {
			return &Request{Kind: RequestTurn}, nil
		}
	}
	return &Request{Kind: RequestNone}, nil
}

// PlayerData returns playerID's own read-only team summary (spec.md
// §6 "a read-only player summary including per-mon public facts") —
// always the full-knowledge view of their own team, never masked,
// since snapshot.View only masks a viewer's view of *other* players.
func (s *Session) PlayerData(playerID string) (*snapshot.PlayerView, error) {
	ph, err := s.lookup(playerID)
	if err != nil {
		return nil, err
	}
	state, err := snapshot.View(s.Battle, ph)
	if err != nil {
		return nil, err
	}
	for _, side := range state.Sides {
		for i := range side.Players {
			pv := side.Players[i]
			// The viewer's own PlayerView is the one whose mon count
			// and every item/ability came through unmasked; simplest
			// stable way to find it again is by re-walking the side
			// structure the same way View built it, keyed on the
			// player handle rather than re-deriving identity from the
			// rendered fields.
			if s.isPlayer(side, i, ph) {
				return &pv, nil
			}
		}
	}
	return nil, battleerr.NotFound("player", playerID)
}

func (s *Session) isPlayer(side snapshot.SideView, playerIndex int, ph battle.PlayerHandle) bool {
	sd, err := s.Battle.Side(s.sideHandleByIndex(side.Index))
	if err != nil || playerIndex >= len(sd.Players) {
		return false
	}
	return sd.Players[playerIndex] == ph
}

func (s *Session) sideHandleByIndex(index int) battle.SideHandle {
	for _, sh := range s.Battle.AllSides() {
		sd, err := s.Battle.Side(sh)
		if err == nil && sd.Index == index {
			return sh
		}
	}
	return battle.SideHandle{}
}

// NewLogEntries returns and clears the pending log delta (spec.md §6
// new_log_entries()).
func (s *Session) NewLogEntries() []battlelog.Entry {
	return s.Battle.Log.Drain()
}

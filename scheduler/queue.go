package scheduler

import (
	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/container"
	"github.com/battlecore/engine/id"
	"github.com/battlecore/engine/rng"
)

var paralysisID = id.From("paralysis")

// stageMultiplier converts a boost stage in [-6, +6] into the
// conventional doubling/halving ratio, mirroring movepipeline's own
// (unexported) helper of the same name — duplicated rather than
// imported since effective-speed math is a scheduling concern
// distinct from damage math, and the two packages should not become
// coupled just to share six lines.
func stageMultiplier(stage int) container.Fraction {
	if stage >= 0 {
		return container.NewFraction(int64(2+stage), 2)
	}
	return container.NewFraction(2, int64(2-stage))
}

// actionClass orders the categories spec.md §4.6 names ahead of move
// priority: switches resolve before any in-battle move, then items,
// then moves, then an attempted escape goes last since it only
// succeeds if nothing else ended the battle first.
type actionClass int

const (
	classSwitch actionClass = iota
	classItem
	classMove
	classEscape
	classPass
)

func classOf(kind battle.ChoiceKind) actionClass {
	switch kind {
	case battle.ChoiceSwitch:
		return classSwitch
	case battle.ChoiceItem:
		return classItem
	case battle.ChoiceMove:
		return classMove
	case battle.ChoiceEscape:
		return classEscape
	default:
		return classPass
	}
}

// Action is one queued turn action: a player's resolved choice paired
// with the sort keys spec.md §4.6 orders the queue by.
type Action struct {
	Player battle.PlayerHandle
	Mon    battle.MonHandle
	Choice battle.ActionChoice

	class    actionClass
	priority int
	speed    int
}

// TieRule selects how same-class/priority/speed ties are broken
// (spec.md §4.6's "configured tie resolution").
type TieRule int

const (
	// TieKeep preserves each action's position in the order buildQueue
	// encountered it (stable sort, no extra randomization).
	TieKeep TieRule = iota
	// TieShuffle randomizes ties using the turn's rng source.
	TieShuffle
)

// buildQueue collects one Action per live active mon whose player has
// a pending choice,
// computing its sort keys, then orders the queue by action class
// ascending, move priority descending, effective speed descending
// (inverted under Trick Room), and finally the configured tie rule.
// ChoiceShift and ChoiceLearnMove are not turn actions in their own
// right (shift is resolved automatically at end of turn; learning a
// move is an out-of-turn level-up flow) and are excluded here.
func (s *Scheduler) buildQueue() ([]Action, error) {
	var actions []Action

	for _, mon := range s.Battle.AllMons() {
		m, err := s.Battle.Mon(mon)
		if err != nil {
			return nil, err
		}
		if m.Position == nil || m.Fainted {
			continue
		}
		player, err := s.playerFor(mon)
		if err != nil {
			return nil, err
		}
		p, err := s.Battle.Player(player)
		if err != nil {
			return nil, err
		}
		if p.PendingChoice == nil {
			continue
		}
		choice := *p.PendingChoice
		if choice.Kind == battle.ChoiceShift || choice.Kind == battle.ChoiceLearnMove {
			continue
		}

		a := Action{Player: player, Mon: mon, Choice: choice, class: classOf(choice.Kind)}
		if choice.Kind == battle.ChoiceMove {
			priority, err := s.movePriority(mon, choice.MoveSlot)
			if err != nil {
				return nil, err
			}
			a.priority = priority
		}
		a.speed = s.effectiveSpeed(mon, m)
		actions = append(actions, a)
	}

	sortActions(actions, s.trickRoomActive(), s.Tie, s.RNG)
	return actions, nil
}

func (s *Scheduler) movePriority(mon battle.MonHandle, slot int) (int, error) {
	m, err := s.Battle.Mon(mon)
	if err != nil {
		return 0, err
	}
	if slot < 0 || slot >= len(m.Moveset.Moves) {
		return 0, nil
	}
	move, err := s.Battle.Data.GetMove(m.Moveset.Moves[slot])
	if err != nil {
		return 0, err
	}
	return move.Priority, nil
}

// effectiveSpeed folds stat boosts and the paralysis speed-quarter
// into a mon's raw Spe (spec.md §4.6's "effective speed"), leaving the
// Trick Room inversion to the comparator since that flips sort
// direction rather than the stat itself.
func (s *Scheduler) effectiveSpeed(h battle.MonHandle, m *battle.Mon) int {
	speed := stageMultiplier(m.Boosts.Spe).ApplyToInt(m.Stats.Spe)
	if m.Status == paralysisID {
		speed /= 4
	}
	return speed
}

func (s *Scheduler) trickRoomActive() bool {
	for _, att := range s.Battle.Effects.Attachments(battle.FieldKey()) {
		if att.Effect.Id == "trickroom" {
			return true
		}
	}
	return false
}

func sortActions(actions []Action, trickRoom bool, tie TieRule, r *rng.Source) {
	if tie == TieShuffle {
		shuffle(actions, r)
	}
	insertionSortStableEntries(actions, func(a, b Action) bool {
		if a.class != b.class {
			return a.class < b.class
		}
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		if a.speed != b.speed {
			if trickRoom {
				return a.speed < b.speed
			}
			return a.speed > b.speed
		}
		return false
	})
}

// shuffle applies a Fisher-Yates shuffle driven by r, used only under
// TieShuffle before the stable sort so equal-key actions land in a
// random relative order instead of queue-insertion order.
func shuffle(actions []Action, r *rng.Source) {
	for i := len(actions) - 1; i > 0; i-- {
		j := r.IntRange(0, i)
		actions[i], actions[j] = actions[j], actions[i]
	}
}

package battle

import (
	"strconv"
	"strings"

	"github.com/battlecore/engine/battleerr"
)

// ChoiceKind discriminates the action a player selected for one active
// position (spec.md §6 "Choice syntax").
type ChoiceKind int

const (
	ChoiceMove ChoiceKind = iota
	ChoiceSwitch
	ChoiceItem
	ChoiceEscape
	ChoicePass
	ChoiceShift
	ChoiceLearnMove
)

// ActionChoice is one parsed action, targeting a single active
// position. A full player turn is a ';'-separated stream of these, one
// per active slot (spec.md §6).
type ActionChoice struct {
	Kind ChoiceKind

	// MoveSlot/SwitchTarget/LearnMoveSlot are raw, zero-based indices
	// into the acting player's moveset or team as given in the choice
	// string; the scheduler resolves them against the live team.
	MoveSlot      int
	MoveTarget    int  // sub-argument after ',', e.g. "move 2,1"
	Mega          bool // "move 0,mega"
	SwitchTarget  int
	ItemID        string
	ItemSubTarget int // sub-argument after ',', e.g. "item maxpotion,-1"
	LearnMoveSlot int // 4 means "skip", per spec.md §4.8
}

// ParseChoice parses one '|'-free single-position token (already split
// on ';' by the caller) into an ActionChoice. Sub-arguments are
// separated by ','.
func ParseChoice(token string) (ActionChoice, error) {
	parts := strings.Split(strings.TrimSpace(token), ",")
	fields := strings.Fields(parts[0])
	if len(fields) == 0 {
		return ActionChoice{}, battleerr.InvalidArgumentf("empty choice token")
	}
	verb := fields[0]

	switch verb {
	case "move":
		if len(fields) != 2 {
			return ActionChoice{}, battleerr.InvalidArgumentf("move choice requires a slot: %q", token)
		}
		slot, err := strconv.Atoi(fields[1])
		if err != nil {
			return ActionChoice{}, battleerr.InvalidArgumentf("move slot must be numeric: %q", token)
		}
		c := ActionChoice{Kind: ChoiceMove, MoveSlot: slot, MoveTarget: noTarget}
		for _, sub := range parts[1:] {
			sub = strings.TrimSpace(sub)
			if sub == "mega" {
				c.Mega = true
				continue
			}
			target, err := strconv.Atoi(sub)
			if err != nil {
				return ActionChoice{}, battleerr.InvalidArgumentf("unrecognized move sub-argument: %q", sub)
			}
			c.MoveTarget = target
		}
		return c, nil

	case "switch":
		if len(fields) != 2 {
			return ActionChoice{}, battleerr.InvalidArgumentf("switch choice requires a team position: %q", token)
		}
		slot, err := strconv.Atoi(fields[1])
		if err != nil {
			return ActionChoice{}, battleerr.InvalidArgumentf("switch target must be numeric: %q", token)
		}
		return ActionChoice{Kind: ChoiceSwitch, SwitchTarget: slot}, nil

	case "item":
		if len(fields) != 2 {
			return ActionChoice{}, battleerr.InvalidArgumentf("item choice requires an item id: %q", token)
		}
		c := ActionChoice{Kind: ChoiceItem, ItemID: fields[1], ItemSubTarget: noTarget}
		if len(parts) > 1 {
			sub, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return ActionChoice{}, battleerr.InvalidArgumentf("item sub-argument must be numeric: %q", parts[1])
			}
			c.ItemSubTarget = sub
		}
		return c, nil

	case "escape":
		return ActionChoice{Kind: ChoiceEscape}, nil

	case "pass":
		return ActionChoice{Kind: ChoicePass}, nil

	case "shift":
		return ActionChoice{Kind: ChoiceShift}, nil

	case "learnmove":
		if len(fields) != 2 {
			return ActionChoice{}, battleerr.InvalidArgumentf("learnmove choice requires a slot: %q", token)
		}
		slot, err := strconv.Atoi(fields[1])
		if err != nil {
			return ActionChoice{}, battleerr.InvalidArgumentf("learnmove slot must be numeric: %q", token)
		}
		return ActionChoice{Kind: ChoiceLearnMove, LearnMoveSlot: slot}, nil

	default:
		return ActionChoice{}, battleerr.InvalidChoice(0, "unrecognized choice verb: "+verb)
	}
}

// ParseTurn splits a full per-player choice string on ';' into one
// ActionChoice per active position.
func ParseTurn(choice string) ([]ActionChoice, error) {
	tokens := strings.Split(choice, ";")
	out := make([]ActionChoice, 0, len(tokens))
	for _, t := range tokens {
		c, err := ParseChoice(t)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// noTarget marks a choice's optional sub-target as unset, distinct
// from the valid target index 0.
const noTarget = -1

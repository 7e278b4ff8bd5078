package battlehost

import "github.com/battlecore/engine/capture"

// RequestKind discriminates what request_for_player is waiting on for
// one player (spec.md §6 "None | Turn(...) | Switch(...) | LearnMove(...)").
type RequestKind int

const (
	// RequestNone means this player has nothing pending — either the
	// battle has ended or they've already submitted everything needed
	// for the turn in progress.
	RequestNone RequestKind = iota
	// RequestTurn means this player must submit a full per-active-slot
	// choice string for the upcoming turn.
	RequestTurn
	// RequestSwitch means this player has a fainted, unreplaced active
	// position and must submit a `switch N` choice before the battle
	// can continue at all.
	RequestSwitch
	// RequestLearnMove means this player's mon leveled into a fifth
	// move and must submit `learnmove <slot-or-4>`.
	RequestLearnMove
)

// Request is request_for_player's return value.
type Request struct {
	Kind      RequestKind
	LearnMove *capture.LearnMoveChoice
}

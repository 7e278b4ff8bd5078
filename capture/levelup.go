package capture

import (
	"github.com/battlecore/engine/battledata"
	"github.com/battlecore/engine/id"
)

// LearnableMoves returns the moves a mon unlocks leveling from
// fromLevel+1 through toLevel (inclusive), in level order (spec.md
// §4.8: "in order, each learnable move at that level"), skipping any
// id present in declined — a previously-declined move is never
// re-offered.
func LearnableMoves(levelUpMoves []battledata.LevelUpMove, fromLevel, toLevel int, declined map[id.Id]bool) []id.Id {
	var out []id.Id
	for _, m := range levelUpMoves {
		if m.Level <= fromLevel || m.Level > toLevel {
			continue
		}
		if declined != nil && declined[m.Move] {
			continue
		}
		out = append(out, m.Move)
	}
	return out
}

// LearnMoveChoice is a pending "which move to forget" prompt, emitted
// when a mon already knows four moves and levels into a fifth
// (spec.md §4.8 "learnmove request").
type LearnMoveChoice struct {
	TeamPosition int
	Move         id.Id
	MoveName     string
}

// ResolveLearnMove applies a player's `learnmove <slot-to-forget-or-4>`
// reply against a four-move set. Replying 4 skips learning; 0-3
// replaces that slot with newMove. moveset must have exactly 4
// entries.
func ResolveLearnMove(moveset []id.Id, newMove id.Id, reply int) []id.Id {
	if reply < 0 || reply > 3 {
		return moveset
	}
	out := append([]id.Id(nil), moveset...)
	out[reply] = newMove
	return out
}

// LevelForXP and XPForLevel implement the "medium fast" growth curve
// (total xp to reach level n is n^3), the most common default across
// the reference material this engine's content would otherwise use.
// spec.md §4.8 names "a level boundary" without fixing a curve per
// species, so this is the Open Question decision recorded in
// DESIGN.md: one fixed curve rather than per-species growth-rate data,
// which would belong to SpeciesData and is left to a future content
// schema revision.
const MaxLevel = 100

// XPForLevel returns the total experience required to reach level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return level * level * level
}

// LevelForXP returns the highest level whose XPForLevel threshold xp
// meets or exceeds, capped at MaxLevel.
func LevelForXP(xp int) int {
	level := 1
	for level < MaxLevel && xp >= XPForLevel(level+1) {
		level++
	}
	return level
}

package shift

// ActiveMon is one side's view of a single active slot: which player
// occupies it, which slot index within that player's active line, and
// whether the mon there has fainted (a fainted mon is never a shift
// candidate).
type ActiveMon struct {
	PlayerIndex int
	ActiveSlot  int
	Fainted     bool
}

// Shift describes a single mon's repositioning: at most one of
// PlayerIndex/ActiveSlot changes relative to the mon's current spot.
// FromPlayerIndex/FromActiveSlot name the moving mon's current
// position so a caller holding its own handle-keyed state can find it
// without re-deriving "which ActiveMon was closest to center" itself.
type Shift struct {
	PlayerIndex int // new player position, -1 if unchanged
	ActiveSlot  int // new active slot, -1 if unchanged

	FromPlayerIndex int
	FromActiveSlot  int
}

// none reports whether a Shift is a no-op.
func (s Shift) none() bool { return s.PlayerIndex == -1 && s.ActiveSlot == -1 }

// EnsureAdjacency computes the minimal set of shifts needed so the two
// sides' active mons satisfy adjacencyReach (spec.md §4.7). sideA and
// sideB are each indexed by active slot (0..activePerPlayer*playerCount-1
// in the side's own left-to-right order); sideB's coordinate axis is
// inverted so that position i on sideA and position i on sideB are
// directly opposite. Returns one Shift per side (nil entry if that
// side needs no shift), never both for the same side in one call
// (spec.md invariant: "at most one shift per side per invocation").
func EnsureAdjacency(sideA, sideB []ActiveMon, adjacencyReach int) (shiftA, shiftB *Shift) {
	n := len(sideA)
	if len(sideB) > n {
		n = len(sideB)
	}
	if n == 0 {
		return nil, nil
	}

	minDistance := -1
	for i := range sideA {
		if sideA[i].Fainted {
			continue
		}
		for j := range sideB {
			if sideB[j].Fainted {
				continue
			}
			d := distance(i, j, n)
			if minDistance == -1 || d < minDistance {
				minDistance = d
			}
		}
	}
	if minDistance == -1 || minDistance < adjacencyReach {
		return nil, nil
	}

	centerA := (n - 1) / 2
	centerB := centerA
	if (n-1)%2 != 0 {
		centerB = centerA + 1
	}

	if s := closestToCenter(sideA, centerA); s != nil {
		shiftA = s
	}
	if s := closestToCenter(sideB, centerB); s != nil {
		shiftB = s
	}
	return shiftA, shiftB
}

// distance maps slot i on side A and slot j on side B (inverted) into
// the shared 1-D coordinate system and returns their separation.
func distance(i, j, n int) int {
	invertedJ := n - 1 - j
	d := i - invertedJ
	if d < 0 {
		d = -d
	}
	return d
}

// closestToCenter finds the live active mon nearest center and returns
// the Shift that would move it there, or nil if it is already there or
// none of the slots are live.
func closestToCenter(side []ActiveMon, center int) *Shift {
	best := -1
	bestDist := -1
	for i, m := range side {
		if m.Fainted {
			continue
		}
		d := i - center
		if d < 0 {
			d = -d
		}
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best == -1 || best == center {
		return nil
	}

	target := side[center]
	moving := side[best]
	s := Shift{PlayerIndex: -1, ActiveSlot: -1, FromPlayerIndex: moving.PlayerIndex, FromActiveSlot: moving.ActiveSlot}
	if moving.PlayerIndex != target.PlayerIndex {
		s.PlayerIndex = target.PlayerIndex
	}
	if moving.ActiveSlot != target.ActiveSlot {
		s.ActiveSlot = target.ActiveSlot
	}
	if s.none() {
		return nil
	}
	return &s
}

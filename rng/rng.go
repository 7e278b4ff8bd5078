package rng

import (
	"math/rand/v2"

	"github.com/battlecore/engine/battleerr"
)

// Roller mirrors dice.Roller's shape so callers that only need "a
// die roller" can be satisfied by either package; the battle engine
// always uses the seedable Source below.
type Roller interface {
	Roll(size int) (int, error)
	RollN(count, size int) ([]int, error)
}

// Source is a seeded, replayable random source for battle mechanics:
// accuracy checks, damage's 85-100% spread, critical-hit rolls,
// secondary-effect chance rolls, multihit sampling, speed-tie
// resolution, and the capture shake checks.
type Source struct {
	r *rand.Rand
}

// New creates a Source seeded deterministically from seed. The same
// seed always produces the same sequence of outputs.
func New(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed, seed>>32|1))}
}

// Roll returns a random number from 1 to size inclusive.
func (s *Source) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, battleerr.InvalidArgumentf("rng: invalid die size %d", size)
	}
	return s.r.IntN(size) + 1, nil
}

// RollN rolls count dice of the given size.
func (s *Source) RollN(count, size int) ([]int, error) {
	if size <= 0 {
		return nil, battleerr.InvalidArgumentf("rng: invalid die size %d", size)
	}
	if count < 0 {
		return nil, battleerr.InvalidArgumentf("rng: invalid die count %d", count)
	}
	out := make([]int, count)
	for i := range out {
		out[i] = s.r.IntN(size) + 1
	}
	return out, nil
}

// Chance reports whether a roll in [0, denominator) lands below
// numerator — the standard "numerator/denominator probability"
// pattern spec.md uses throughout (secondary-effect chance, catch
// critical-capture roll, and so on).
func (s *Source) Chance(numerator, denominator int) bool {
	if denominator <= 0 {
		return false
	}
	return s.r.IntN(denominator) < numerator
}

// Float64 returns a pseudo-random float in [0, 1), used for the
// damage roll's 0.85-1.00 multiplier.
func (s *Source) Float64() float64 {
	return s.r.Float64()
}

// IntRange returns a pseudo-random integer in [lo, hi] inclusive, used
// for multihit-count sampling (spec.md §4.5 step 4).
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.IntN(hi-lo+1)
}

var _ Roller = (*Source)(nil)

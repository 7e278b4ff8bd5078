package capture

import (
	"math"

	"github.com/battlecore/engine/rng"
)

// Result is the outcome of one catch attempt.
type Result struct {
	Caught      bool
	Critical    bool // true if this was a critical capture (single shake check)
	ShakeCount  int  // number of successful shake checks before failure, 0-4
	Uncatchable bool // true if the attempt never rolled at all
}

// CriticalChanceFunc computes the probability (0-1) of a critical
// capture given how many mons the player has already caught this
// session. Hosts supply their own curve; spec.md names the factor
// without fixing its formula (see DESIGN.md Open Question decision).
type CriticalChanceFunc func(playerMonsCaughtSoFar int) float64

// DefaultCriticalChance is a conservative standing curve: it rises
// with caught count and saturates at 10%, in the absence of a
// host-specified policy.
func DefaultCriticalChance(playerMonsCaughtSoFar int) float64 {
	chance := float64(playerMonsCaughtSoFar) * 0.005
	if chance > 0.1 {
		chance = 0.1
	}
	return chance
}

// Options configures one catch attempt (spec.md §4.8).
type Options struct {
	MaxHP     int
	HP        int
	CatchRate int // SpeciesData.CatchRate

	BallBonus   float64 // ball-specific multiplier, e.g. 1.0 for a standard ball
	StatusBonus float64 // status-condition multiplier, e.g. 2.5 asleep/frozen, 1.5 paralyzed/poisoned/burned, 1.0 otherwise

	// Catchable is false for wild_options.catchable=false or any
	// trainer battle; either short-circuits to Uncatchable.
	Catchable bool

	PlayerMonsCaughtSoFar int
	CriticalChance        CriticalChanceFunc // nil uses DefaultCriticalChance
}

// Attempt runs one catch attempt against r.
func Attempt(r *rng.Source, opts Options) Result {
	if !opts.Catchable {
		return Result{Uncatchable: true}
	}

	critChance := opts.CriticalChance
	if critChance == nil {
		critChance = DefaultCriticalChance
	}

	a := catchValue(opts)

	if r.Float64() < critChance(opts.PlayerMonsCaughtSoFar) {
		shakeB := shakeThreshold(a)
		if shakeCheck(r, shakeB) {
			return Result{Caught: true, Critical: true, ShakeCount: 1}
		}
		return Result{Critical: true, ShakeCount: 0}
	}

	shakeB := shakeThreshold(a)
	count := 0
	for i := 0; i < 4; i++ {
		if !shakeCheck(r, shakeB) {
			return Result{ShakeCount: count}
		}
		count++
	}
	return Result{Caught: true, ShakeCount: count}
}

// catchValue computes spec.md §4.8's `a`:
// floor( (3*max_hp - 2*hp) * catch_rate * ball_bonus / (3*max_hp) ) * status_bonus
func catchValue(opts Options) float64 {
	numerator := float64(3*opts.MaxHP-2*opts.HP) * float64(opts.CatchRate) * opts.BallBonus
	denominator := float64(3 * opts.MaxHP)
	a := math.Floor(numerator / denominator)
	return a * opts.StatusBonus
}

// shakeThreshold computes spec.md §4.8's `b = 65536 / sqrt(sqrt(255*256/a))`.
func shakeThreshold(a float64) float64 {
	if a <= 0 {
		return 0
	}
	inner := 255.0 * 256.0 / a
	return 65536.0 / math.Sqrt(math.Sqrt(inner))
}

// shakeCheck rolls one shake: succeeds if a uniform draw in [0, 65536)
// lands below threshold.
func shakeCheck(r *rng.Source, threshold float64) bool {
	roll := r.IntRange(0, 65535)
	return float64(roll) < threshold
}

// ExperienceAward computes the standard species-exp x level / 7 /
// participants formula (spec.md §4.8), scaled by an optional
// traded/overseas multiplier (1.0 if neither applies).
func ExperienceAward(baseExperience, fainterLevel, participantCount int, scale float64) int {
	if participantCount <= 0 {
		participantCount = 1
	}
	raw := float64(baseExperience*fainterLevel) / 7.0 / float64(participantCount)
	return int(math.Floor(raw * scale))
}

package battledata

import (
	"github.com/battlecore/engine/container"
	"github.com/battlecore/engine/id"
)

// TypeChart is the attack-type × defend-type effectiveness table.
// Effectiveness is kept as an exact container.Fraction (not a float)
// so the damage pipeline's chain of multipliers never accumulates
// float drift before the final ApplyToInt (spec.md §4.5 step 5c
// "Type effectiveness (product over target's types)").
type TypeChart struct {
	multipliers map[typeKey]container.Fraction
	typeless    map[id.Id]bool // copied by Clone; nothing sets it and no lookup consults it
}

type typeKey struct {
	attack, defend id.Id
}

// NewTypeChart creates an empty chart; Set populates it.
func NewTypeChart() *TypeChart {
	return &TypeChart{
		multipliers: make(map[typeKey]container.Fraction),
		typeless:    make(map[id.Id]bool),
	}
}

// Set records the effectiveness multiplier of attack against defend.
func (c *TypeChart) Set(attack, defend id.Id, multiplier container.Fraction) {
	c.multipliers[typeKey{attack, defend}] = multiplier
}

// Effectiveness returns the multiplier of attack against defend,
// defaulting to 1/1 (neutral) for any pair the chart doesn't name.
func (c *TypeChart) Effectiveness(attack, defend id.Id) container.Fraction {
	if m, ok := c.multipliers[typeKey{attack, defend}]; ok {
		return m
	}
	return container.Whole(1)
}

// CombinedEffectiveness is the product of attack's effectiveness
// against every one of defend's types — the "product over target's
// types from the type chart" spec.md §4.5 step 5c describes.
func (c *TypeChart) CombinedEffectiveness(attack id.Id, defendTypes []id.Id) container.Fraction {
	result := container.Whole(1)
	for _, t := range defendTypes {
		result = result.Mul(c.Effectiveness(attack, t))
	}
	return result
}

// Clone returns a deep copy so a DataStore caller can never mutate the
// store's internal chart (spec.md §4.3 "All return owned clones").
func (c *TypeChart) Clone() *TypeChart {
	out := NewTypeChart()
	for k, v := range c.multipliers {
		out.multipliers[k] = v
	}
	for k, v := range c.typeless {
		out.typeless[k] = v
	}
	return out
}

package battledata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlecore/engine/battledata"
	"github.com/battlecore/engine/container"
	"github.com/battlecore/engine/id"
)

func TestTypeChartCombinedEffectivenessIsProductOverDefendTypes(t *testing.T) {
	chart := battledata.NewTypeChart()
	fire, grass, water := id.From("fire"), id.From("grass"), id.From("water")
	chart.Set(fire, grass, container.NewFraction(2, 1))
	chart.Set(fire, water, container.NewFraction(1, 2))

	combined := chart.CombinedEffectiveness(fire, []id.Id{grass, water})
	assert.Equal(t, 100, combined.ApplyToInt(100)) // 2 * 0.5 = neutral
}

func TestTypeChartDefaultsToNeutral(t *testing.T) {
	chart := battledata.NewTypeChart()
	normal, steel := id.From("normal"), id.From("steel")
	assert.True(t, chart.Effectiveness(normal, steel).IsOne())
}

func TestTypeChartCloneIsIndependent(t *testing.T) {
	chart := battledata.NewTypeChart()
	fire, grass := id.From("fire"), id.From("grass")
	chart.Set(fire, grass, container.NewFraction(2, 1))

	clone := chart.Clone()
	clone.Set(fire, grass, container.NewFraction(1, 1))

	assert.Equal(t, int64(2), chart.Effectiveness(fire, grass).Numerator)
	assert.Equal(t, int64(1), clone.Effectiveness(fire, grass).Numerator)
}

func TestMoveDataCloneDeepCopiesHitEffectBoosts(t *testing.T) {
	original := battledata.MoveData{
		Id:    id.From("swordsdance"),
		Flags: container.NewBagSet("snatch"),
		UserEffect: &battledata.HitEffect{
			Boosts: battledata.Boosts{"atk": 2},
		},
	}
	clone := original.Clone()
	clone.UserEffect.Boosts["atk"] = 99
	clone.Flags.Add("contact")

	assert.Equal(t, 2, original.UserEffect.Boosts["atk"])
	assert.False(t, original.Flags.Contains("contact"))
}

func TestSpeciesDataCloneDeepCopiesSlices(t *testing.T) {
	original := battledata.SpeciesData{
		Id:    id.From("pikachu"),
		Types: []id.Id{id.From("electric")},
	}
	clone := original.Clone()
	clone.Types[0] = id.From("water")

	require.Len(t, original.Types, 1)
	assert.Equal(t, id.From("electric"), original.Types[0])
}

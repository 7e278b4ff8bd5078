package shift_test

import (
	"testing"

	"github.com/battlecore/engine/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeLine(playerIndices ...int) []shift.ActiveMon {
	out := make([]shift.ActiveMon, len(playerIndices))
	for slot, p := range playerIndices {
		out[slot] = shift.ActiveMon{PlayerIndex: p, ActiveSlot: slot}
	}
	return out
}

func TestEnsureAdjacencyNoShiftWhenAMirroredPairIsAlreadyWithinReach(t *testing.T) {
	a := activeLine(0, 0, 0)
	b := activeLine(1, 1, 1)

	sa, sb := shift.EnsureAdjacency(a, b, 1)
	assert.Nil(t, sa)
	assert.Nil(t, sb)
}

func TestEnsureAdjacencyFillsAnEmptyCenterFromTheClosestLiveMon(t *testing.T) {
	a := []shift.ActiveMon{
		{PlayerIndex: 0, ActiveSlot: 0},
		{PlayerIndex: 0, ActiveSlot: 1, Fainted: true},
		{PlayerIndex: 0, ActiveSlot: 2, Fainted: true},
	}
	b := []shift.ActiveMon{
		{PlayerIndex: 1, ActiveSlot: 0},
		{PlayerIndex: 1, ActiveSlot: 1, Fainted: true},
		{PlayerIndex: 1, ActiveSlot: 2, Fainted: true},
	}

	sa, sb := shift.EnsureAdjacency(a, b, 1)
	require.NotNil(t, sa)
	assert.Equal(t, 1, sa.ActiveSlot)
	require.NotNil(t, sb)
	assert.Equal(t, 1, sb.ActiveSlot)
}

func TestEnsureAdjacencyNoShiftWhenOnlyLiveMonsAlreadySitAtCenter(t *testing.T) {
	a := []shift.ActiveMon{
		{PlayerIndex: 0, ActiveSlot: 0, Fainted: true},
		{PlayerIndex: 0, ActiveSlot: 1},
		{PlayerIndex: 0, ActiveSlot: 2, Fainted: true},
	}
	b := []shift.ActiveMon{
		{PlayerIndex: 1, ActiveSlot: 0, Fainted: true},
		{PlayerIndex: 1, ActiveSlot: 1},
		{PlayerIndex: 1, ActiveSlot: 2, Fainted: true},
	}

	sa, sb := shift.EnsureAdjacency(a, b, 1)
	assert.Nil(t, sa)
	assert.Nil(t, sb)
}

func TestEnsureAdjacencyEmptySidesNoShift(t *testing.T) {
	sa, sb := shift.EnsureAdjacency(nil, nil, 3)
	assert.Nil(t, sa)
	assert.Nil(t, sb)
}

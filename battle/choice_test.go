package battle_test

import (
	"testing"

	"github.com/battlecore/engine/battle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChoiceMoveWithTarget(t *testing.T) {
	c, err := battle.ParseChoice("move 2,1")
	require.NoError(t, err)
	assert.Equal(t, battle.ChoiceMove, c.Kind)
	assert.Equal(t, 2, c.MoveSlot)
	assert.Equal(t, 1, c.MoveTarget)
	assert.False(t, c.Mega)
}

func TestParseChoiceMoveWithMega(t *testing.T) {
	c, err := battle.ParseChoice("move 0,mega")
	require.NoError(t, err)
	assert.Equal(t, 0, c.MoveSlot)
	assert.True(t, c.Mega)
}

func TestParseChoiceSwitch(t *testing.T) {
	c, err := battle.ParseChoice("switch 3")
	require.NoError(t, err)
	assert.Equal(t, battle.ChoiceSwitch, c.Kind)
	assert.Equal(t, 3, c.SwitchTarget)
}

func TestParseChoiceItemWithSubTarget(t *testing.T) {
	c, err := battle.ParseChoice("item maxpotion,-1")
	require.NoError(t, err)
	assert.Equal(t, "maxpotion", c.ItemID)
	assert.Equal(t, -1, c.ItemSubTarget)
}

func TestParseChoiceSimpleVerbs(t *testing.T) {
	for token, kind := range map[string]battle.ChoiceKind{
		"escape": battle.ChoiceEscape,
		"pass":   battle.ChoicePass,
		"shift":  battle.ChoiceShift,
	} {
		c, err := battle.ParseChoice(token)
		require.NoError(t, err)
		assert.Equal(t, kind, c.Kind)
	}
}

func TestParseChoiceLearnMove(t *testing.T) {
	c, err := battle.ParseChoice("learnmove 2")
	require.NoError(t, err)
	assert.Equal(t, battle.ChoiceLearnMove, c.Kind)
	assert.Equal(t, 2, c.LearnMoveSlot)
}

func TestParseChoiceRejectsUnknownVerb(t *testing.T) {
	_, err := battle.ParseChoice("teleport 1")
	assert.Error(t, err)
}

func TestParseTurnSplitsOnSemicolon(t *testing.T) {
	choices, err := battle.ParseTurn("move 0,1;switch 2")
	require.NoError(t, err)
	require.Len(t, choices, 2)
	assert.Equal(t, battle.ChoiceMove, choices[0].Kind)
	assert.Equal(t, battle.ChoiceSwitch, choices[1].Kind)
}

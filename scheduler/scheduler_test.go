package scheduler_test

import (
	"testing"

	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battledata"
	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/container"
	"github.com/battlecore/engine/fxlang"
	"github.com/battlecore/engine/id"
	"github.com/battlecore/engine/resource"
	"github.com/battlecore/engine/rng"
	"github.com/battlecore/engine/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	moves      map[id.Id]battledata.MoveData
	conditions map[id.Id]battledata.ConditionData
	chart      *battledata.TypeChart
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		moves:      map[id.Id]battledata.MoveData{},
		conditions: map[id.Id]battledata.ConditionData{},
		chart:      battledata.NewTypeChart(),
	}
}

func (s *fakeStore) GetSpecies(id.Id) (battledata.SpeciesData, error) {
	return battledata.SpeciesData{}, battleerr.NotFound("species", "")
}
func (s *fakeStore) GetMove(moveID id.Id) (battledata.MoveData, error) {
	m, ok := s.moves[moveID]
	if !ok {
		return battledata.MoveData{}, battleerr.NotFound("move", moveID.String())
	}
	return m, nil
}
func (s *fakeStore) GetAbility(id.Id) (battledata.AbilityData, error) {
	return battledata.AbilityData{}, battleerr.NotFound("ability", "")
}
func (s *fakeStore) GetItem(id.Id) (battledata.ItemData, error) {
	return battledata.ItemData{}, battleerr.NotFound("item", "")
}
func (s *fakeStore) GetCondition(cond id.Id) (battledata.ConditionData, error) {
	c, ok := s.conditions[cond]
	if !ok {
		return battledata.ConditionData{}, battleerr.NotFound("condition", cond.String())
	}
	return c, nil
}
func (s *fakeStore) GetClause(id.Id) (battledata.ClauseData, error) {
	return battledata.ClauseData{}, battleerr.NotFound("clause", "")
}
func (s *fakeStore) GetTypeChart() (*battledata.TypeChart, error) { return s.chart, nil }
func (s *fakeStore) TranslateAlias(a id.Id) id.Id                 { return a }
func (s *fakeStore) AllMoveIds(func(battledata.MoveData) bool) ([]id.Id, error) {
	return nil, nil
}

func newMon(name string, hp, spe int) battle.Mon {
	pp := resource.NewPool[id.Id]()
	tackle := id.From("tackle")
	pp.Set(tackle, resource.NewCounter(35))
	return battle.Mon{
		Name:    name,
		Level:   50,
		Types:   []id.Id{id.From("normal")},
		Stats:   battle.Stats{HP: hp, Atk: 60, Def: 60, SpA: 60, SpD: 60, Spe: spe},
		MaxHP:   hp,
		HP:      hp,
		Moveset: battle.MonMoveset{Moves: []id.Id{tackle}},
		PP:      pp,
	}
}

func basicMove() battledata.MoveData {
	return battledata.MoveData{
		Id:          id.From("tackle"),
		Name:        "Tackle",
		Category:    battledata.Physical,
		PrimaryType: id.From("normal"),
		BasePower:   40,
		Accuracy:    100,
		PP:          35,
		Target:      battledata.TargetNormal,
		Flags:       container.NewBagSet[string](),
	}
}

func setup(t *testing.T) (*fakeStore, *battle.Battle, battle.PlayerHandle, battle.PlayerHandle, battle.MonHandle, battle.MonHandle) {
	t.Helper()
	store := newFakeStore()
	store.moves[id.From("tackle")] = basicMove()

	b := battle.New(store)
	sideA := b.AddSide(0)
	sideB := b.AddSide(1)
	playerA, err := b.AddPlayer(sideA, "Ash", false)
	require.NoError(t, err)
	playerB, err := b.AddPlayer(sideB, "Gary", false)
	require.NoError(t, err)

	fast, err := b.AddMon(playerA, newMon("Jolteon", 100, 120))
	require.NoError(t, err)
	slow, err := b.AddMon(playerB, newMon("Snorlax", 200, 30))
	require.NoError(t, err)

	require.NoError(t, b.SwitchIn(fast, battle.Position{Side: sideA, PlayerIndex: 0, ActiveSlot: 0}))
	require.NoError(t, b.SwitchIn(slow, battle.Position{Side: sideB, PlayerIndex: 0, ActiveSlot: 0}))
	return store, b, playerA, playerB, fast, slow
}

func TestSetPlayerChoiceRejectsUnknownMoveSlot(t *testing.T) {
	_, b, playerA, _, _, _ := setup(t)
	s := scheduler.New(b, rng.New(1), scheduler.TieKeep, 1)

	err := s.SetPlayerChoice(playerA, "move 5")
	assert.True(t, battleerr.IsInvalidChoice(err))
}

func TestSetPlayerChoiceRejectsSwitchToActiveMon(t *testing.T) {
	_, b, playerA, _, _, _ := setup(t)
	s := scheduler.New(b, rng.New(1), scheduler.TieKeep, 1)

	err := s.SetPlayerChoice(playerA, "switch 0")
	assert.True(t, battleerr.IsInvalidChoice(err))
}

func TestSetPlayerChoiceRejectsEscapeInTrainerBattle(t *testing.T) {
	_, b, playerA, _, _, _ := setup(t)
	s := scheduler.New(b, rng.New(1), scheduler.TieKeep, 1)

	err := s.SetPlayerChoice(playerA, "escape")
	assert.True(t, battleerr.IsInvalidChoice(err))
}

func TestSetPlayerChoiceRejectsDisabledMove(t *testing.T) {
	_, b, playerA, _, fast, _ := setup(t)
	s := scheduler.New(b, rng.New(1), scheduler.TieKeep, 1)

	disableRef := fxlang.EffectRef{Kind: fxlang.EffectCondition, Id: "disable"}
	att, err := b.Effects.Attach(battle.MonKey(fast), disableRef, &fxlang.EffectBundle{}, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, att)
	att.State.SetString("move", "tackle")

	err = s.SetPlayerChoice(playerA, "move 0")
	assert.True(t, battleerr.IsInvalidChoice(err))
}

func TestSetPlayerChoiceAllowsMoveDisabledByDifferentMove(t *testing.T) {
	_, b, playerA, _, fast, _ := setup(t)
	s := scheduler.New(b, rng.New(1), scheduler.TieKeep, 1)

	disableRef := fxlang.EffectRef{Kind: fxlang.EffectCondition, Id: "disable"}
	att, err := b.Effects.Attach(battle.MonKey(fast), disableRef, &fxlang.EffectBundle{}, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, att)
	att.State.SetString("move", "some-other-move")

	assert.NoError(t, s.SetPlayerChoice(playerA, "move 0"))
}

func TestExecuteTurnResidualClearsStatusOnExpiry(t *testing.T) {
	store, b, playerA, playerB, fast, _ := setup(t)
	duration := 1
	store.conditions[id.From("brief-paralysis")] = battledata.ConditionData{
		Id:              id.From("brief-paralysis"),
		InitialDuration: &duration,
		Effect:          &fxlang.EffectBundle{},
	}
	ok, err := b.AttachCondition(battle.MonKey(fast), id.From("brief-paralysis"), nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, b.UpdateMon(fast, func(m *battle.Mon) {
		m.Status = id.From("brief-paralysis")
	}))

	s := scheduler.New(b, rng.New(4), scheduler.TieKeep, 1)
	require.NoError(t, s.SetPlayerChoice(playerA, "move 0"))
	require.NoError(t, s.SetPlayerChoice(playerB, "move 0"))

	_, err = s.ExecuteTurn()
	require.NoError(t, err)

	m, err := b.Mon(fast)
	require.NoError(t, err)
	assert.Empty(t, m.Status, "status should clear once its condition expires")
}

func TestExecuteTurnRequiresAllChoicesSubmitted(t *testing.T) {
	_, b, playerA, _, _, _ := setup(t)
	s := scheduler.New(b, rng.New(1), scheduler.TieKeep, 1)
	require.NoError(t, s.SetPlayerChoice(playerA, "move 0"))

	_, err := s.ExecuteTurn()
	assert.True(t, battleerr.IsInvalidArgument(err))
}

func TestExecuteTurnFasterMonActsFirstAndDamagesSlower(t *testing.T) {
	_, b, playerA, playerB, _, slow := setup(t)
	s := scheduler.New(b, rng.New(9), scheduler.TieKeep, 1)

	require.NoError(t, s.SetPlayerChoice(playerA, "move 0"))
	require.NoError(t, s.SetPlayerChoice(playerB, "move 0"))

	result, err := s.ExecuteTurn()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Turn)
	assert.False(t, result.Ended)

	sm, err := b.Mon(slow)
	require.NoError(t, err)
	assert.True(t, sm.HP < 200)
	assert.Equal(t, 1, b.Turn())
}

func TestExecuteTurnSwitchRunsBeforeMoves(t *testing.T) {
	_, b, playerA, playerB, _, _ := setup(t)
	bench, err := b.AddMon(playerA, newMon("Vaporeon", 150, 10))
	require.NoError(t, err)

	s := scheduler.New(b, rng.New(3), scheduler.TieKeep, 1)
	require.NoError(t, s.SetPlayerChoice(playerA, "switch 1"))
	require.NoError(t, s.SetPlayerChoice(playerB, "move 0"))

	result, err := s.ExecuteTurn()
	require.NoError(t, err)
	assert.False(t, result.Ended)

	bm, err := b.Mon(bench)
	require.NoError(t, err)
	require.NotNil(t, bm.Position)
	assert.True(t, bm.HP < 150, "the mon switched in should have taken the opponent's move")
}

func TestExecuteTurnResidualTicksDurationAndDetachesOnExpiry(t *testing.T) {
	store, b, playerA, playerB, fast, _ := setup(t)
	duration := 1
	store.conditions[id.From("brief")] = battledata.ConditionData{
		Id:              id.From("brief"),
		InitialDuration: &duration,
		Effect:          &fxlang.EffectBundle{},
	}
	ok, err := b.AttachCondition(battle.MonKey(fast), id.From("brief"), nil, nil)
	require.NoError(t, err)
	require.True(t, ok)

	s := scheduler.New(b, rng.New(4), scheduler.TieKeep, 1)
	require.NoError(t, s.SetPlayerChoice(playerA, "move 0"))
	require.NoError(t, s.SetPlayerChoice(playerB, "move 0"))

	_, err = s.ExecuteTurn()
	require.NoError(t, err)

	attachments := b.Effects.Attachments(battle.MonKey(fast))
	for _, att := range attachments {
		assert.NotEqual(t, "brief", att.Effect.Id, "condition with duration 1 should expire after one residual tick")
	}
}

func TestExecuteTurnDetectsBattleEnd(t *testing.T) {
	_, b, playerA, playerB, _, slow := setup(t)
	_, err := b.ApplyDamage(slow, 199)
	require.NoError(t, err)

	s := scheduler.New(b, rng.New(2), scheduler.TieKeep, 1)
	require.NoError(t, s.SetPlayerChoice(playerA, "move 0"))
	require.NoError(t, s.SetPlayerChoice(playerB, "move 0"))

	result, err := s.ExecuteTurn()
	require.NoError(t, err)
	assert.True(t, result.Ended)
	require.NotNil(t, result.WinningSide)
}

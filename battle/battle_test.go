package battle_test

import (
	"testing"

	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battledata"
	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/fxlang"
	"github.com/battlecore/engine/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore implements datastore.DataStore with only GetCondition
// wired; every other lookup returns NotFound, sufficient for the
// battle-aggregate tests in this file.
type fakeStore struct {
	conditions map[id.Id]battledata.ConditionData
}

func newFakeStore() *fakeStore {
	return &fakeStore{conditions: map[id.Id]battledata.ConditionData{}}
}

func (s *fakeStore) GetSpecies(id.Id) (battledata.SpeciesData, error) { return battledata.SpeciesData{}, battleerr.NotFound("species", "") }
func (s *fakeStore) GetMove(id.Id) (battledata.MoveData, error)       { return battledata.MoveData{}, battleerr.NotFound("move", "") }
func (s *fakeStore) GetAbility(id.Id) (battledata.AbilityData, error) {
	return battledata.AbilityData{}, battleerr.NotFound("ability", "")
}
func (s *fakeStore) GetItem(id.Id) (battledata.ItemData, error) { return battledata.ItemData{}, battleerr.NotFound("item", "") }
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
func (s *fakeStore) GetTypeChart() (*battledata.TypeChart, error) { return battledata.NewTypeChart(), nil }
func (s *fakeStore) TranslateAlias(a id.Id) id.Id                 { return a }
func (s *fakeStore) AllMoveIds(func(battledata.MoveData) bool) ([]id.Id, error) {
	return nil, nil
}

func newTestMon(hp int) battle.Mon {
	return battle.Mon{MaxHP: hp, HP: hp}
}

func TestApplyDamageFaintsAtZeroAndClearsPosition(t *testing.T) {
	b := battle.New(newFakeStore())
	side := b.AddSide(0)
	player, err := b.AddPlayer(side, "Ash", false)
	require.NoError(t, err)
	mon, err := b.AddMon(player, newTestMon(100))
	require.NoError(t, err)

	require.NoError(t, b.SwitchIn(mon, battle.Position{Side: side, PlayerIndex: 0, ActiveSlot: 0}))

	dealt, err := b.ApplyDamage(mon, 150)
	require.NoError(t, err)
	assert.Equal(t, 100, dealt)

	m, err := b.Mon(mon)
	require.NoError(t, err)
	assert.True(t, m.Fainted)
	assert.Nil(t, m.Position)
	assert.Equal(t, 0, m.HP)
}

func TestApplyDamageNeverGoesNegative(t *testing.T) {
	b := battle.New(newFakeStore())
	side := b.AddSide(0)
	player, _ := b.AddPlayer(side, "Ash", false)
	mon, _ := b.AddMon(player, newTestMon(10))

	dealt, err := b.ApplyDamage(mon, 9999)
	require.NoError(t, err)
	assert.Equal(t, 10, dealt)
}

func TestHealClampsToMaxHPAndRefusesFaintedMon(t *testing.T) {
	b := battle.New(newFakeStore())
	side := b.AddSide(0)
	player, _ := b.AddPlayer(side, "Ash", false)
	mon, _ := b.AddMon(player, newTestMon(100))

	_, _ = b.ApplyDamage(mon, 60)
	healed, err := b.Heal(mon, 1000)
	require.NoError(t, err)
	assert.Equal(t, 60, healed)
	m, _ := b.Mon(mon)
	assert.Equal(t, 100, m.HP)

	_, _ = b.ApplyDamage(mon, 100)
	healed, err = b.Heal(mon, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, healed)
}

func TestSwitchOutDetachesVolatiles(t *testing.T) {
	b := battle.New(newFakeStore())
	side := b.AddSide(0)
	player, _ := b.AddPlayer(side, "Ash", false)
	mon, _ := b.AddMon(player, newTestMon(100))
	require.NoError(t, b.SwitchIn(mon, battle.Position{Side: side, PlayerIndex: 0, ActiveSlot: 0}))

	key := battle.MonKey(mon)
	ref := fxlang.EffectRef{Kind: fxlang.EffectCondition, Id: "confusion"}
	_, err := b.Effects.Attach(key, ref, &fxlang.EffectBundle{}, nil, nil)
	require.NoError(t, err)
	require.Len(t, b.Effects.Attachments(key), 1)

	require.NoError(t, b.SwitchOut(mon))
	assert.Empty(t, b.Effects.Attachments(key))

	m, err := b.Mon(mon)
	require.NoError(t, err)
	assert.Nil(t, m.Position)
}

func TestSwitchInRefusesFaintedMon(t *testing.T) {
	b := battle.New(newFakeStore())
	side := b.AddSide(0)
	player, _ := b.AddPlayer(side, "Ash", false)
	mon, _ := b.AddMon(player, newTestMon(10))
	_, _ = b.ApplyDamage(mon, 10)

	err := b.SwitchIn(mon, battle.Position{Side: side, PlayerIndex: 0, ActiveSlot: 0})
	assert.True(t, battleerr.IsInvalidChoice(err))
}

func TestAttachConditionUsesStoreInitialDurationWhenNoneGiven(t *testing.T) {
	store := newFakeStore()
	five := 5
	store.conditions[id.From("burn")] = battledata.ConditionData{
		Id:              id.From("burn"),
		InitialDuration: &five,
		Effect:          &fxlang.EffectBundle{},
	}
	b := battle.New(store)
	side := b.AddSide(0)
	player, _ := b.AddPlayer(side, "Ash", false)
	mon, _ := b.AddMon(player, newTestMon(100))

	ok, err := b.AttachCondition(battle.MonKey(mon), id.From("burn"), nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	attachments := b.Effects.Attachments(battle.MonKey(mon))
	require.Len(t, attachments, 1)
	assert.Equal(t, 5, *attachments[0].State.Duration)
}

func TestDetachConditionRemovesAttachment(t *testing.T) {
	store := newFakeStore()
	store.conditions[id.From("burn")] = battledata.ConditionData{
		Id:     id.From("burn"),
		Effect: &fxlang.EffectBundle{},
	}
	b := battle.New(store)
	side := b.AddSide(0)
	player, _ := b.AddPlayer(side, "Ash", false)
	mon, _ := b.AddMon(player, newTestMon(100))

	_, err := b.AttachCondition(battle.MonKey(mon), id.From("burn"), nil, nil)
	require.NoError(t, err)

	require.NoError(t, b.DetachCondition(battle.MonKey(mon), id.From("burn")))
	assert.Empty(t, b.Effects.Attachments(battle.MonKey(mon)))
}

func TestAllMonsReturnsEveryLiveMonInInsertOrder(t *testing.T) {
	b := battle.New(newFakeStore())
	side := b.AddSide(0)
	player, _ := b.AddPlayer(side, "Ash", false)
	m1, _ := b.AddMon(player, newTestMon(100))
	m2, _ := b.AddMon(player, newTestMon(100))

	assert.Equal(t, []battle.MonHandle{m1, m2}, b.AllMons())
}

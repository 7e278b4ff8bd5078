package movepipeline_test

import (
	"testing"

	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battledata"
	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/container"
	"github.com/battlecore/engine/fxlang"
	"github.com/battlecore/engine/id"
	"github.com/battlecore/engine/movepipeline"
	"github.com/battlecore/engine/resource"
	"github.com/battlecore/engine/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore implements datastore.DataStore with GetMove/GetTypeChart
// wired, sufficient for move-pipeline tests.
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

func newMon(name string, hp, atk, def int) battle.Mon {
	pp := resource.NewPool[id.Id]()
	tackle := id.From("tackle")
	pp.Set(tackle, resource.NewCounter(35))
	return battle.Mon{
		Name:      name,
		Level:     50,
		Types:     []id.Id{id.From("normal")},
		Stats:     battle.Stats{HP: hp, Atk: atk, Def: def, SpA: atk, SpD: def, Spe: 50},
		MaxHP:     hp,
		HP:        hp,
		Moveset:   battle.MonMoveset{Moves: []id.Id{tackle}},
		PP:        pp,
	}
}

func setup(t *testing.T, move battledata.MoveData) (*battle.Battle, battle.MonHandle, battle.MonHandle) {
	t.Helper()
	store := newFakeStore()
	store.moves[id.From("tackle")] = move

	b := battle.New(store)
	sideA := b.AddSide(0)
	sideB := b.AddSide(1)
	playerA, err := b.AddPlayer(sideA, "Ash", false)
	require.NoError(t, err)
	playerB, err := b.AddPlayer(sideB, "Gary", false)
	require.NoError(t, err)

	user, err := b.AddMon(playerA, newMon("Pikachu", 100, 80, 60))
	require.NoError(t, err)
	target, err := b.AddMon(playerB, newMon("Eevee", 100, 60, 60))
	require.NoError(t, err)

	require.NoError(t, b.SwitchIn(user, battle.Position{Side: sideA, PlayerIndex: 0, ActiveSlot: 0}))
	require.NoError(t, b.SwitchIn(target, battle.Position{Side: sideB, PlayerIndex: 0, ActiveSlot: 0}))
	return b, user, target
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

func TestExecuteMoveDealsDamageAndConsumesPP(t *testing.T) {
	b, user, target := setup(t, basicMove())
	r := rng.New(7)

	active, err := movepipeline.ExecuteMove(b, user, 0, target, r)
	require.NoError(t, err)
	assert.Equal(t, 1, active.HitCount)
	assert.True(t, active.TotalDamage > 0)

	tm, err := b.Mon(target)
	require.NoError(t, err)
	assert.Equal(t, 100-active.TotalDamage, tm.HP)

	um, err := b.Mon(user)
	require.NoError(t, err)
	counter, ok := um.PP.Get(id.From("tackle"))
	require.True(t, ok)
	assert.Equal(t, 34, counter.Current())
}

func TestExecuteMoveRejectsUnknownSlot(t *testing.T) {
	b, user, target := setup(t, basicMove())
	r := rng.New(1)

	_, err := movepipeline.ExecuteMove(b, user, 5, target, r)
	assert.True(t, battleerr.IsInvalidChoice(err))
}

func TestExecuteMoveAppliesRecoil(t *testing.T) {
	move := basicMove()
	move.Recoil = container.NewFraction(1, 4)
	b, user, target := setup(t, move)
	r := rng.New(3)

	active, err := movepipeline.ExecuteMove(b, user, 0, target, r)
	require.NoError(t, err)
	require.True(t, active.TotalDamage > 0)

	um, err := b.Mon(user)
	require.NoError(t, err)
	expectedRecoil := container.NewFraction(1, 4).ApplyToInt(active.TotalDamage)
	assert.Equal(t, 100-expectedRecoil, um.HP)
}

func TestExecuteMoveMultihitRunsFixedCount(t *testing.T) {
	move := basicMove()
	move.BasePower = 15
	move.Multihit = &battledata.Multihit{Kind: battledata.MultihitStatic, N: 3}
	b, user, target := setup(t, move)
	r := rng.New(42)

	active, err := movepipeline.ExecuteMove(b, user, 0, target, r)
	require.NoError(t, err)
	assert.Equal(t, 3, active.HitCount)
}

func TestExecuteMoveTwoTurnChargesThenReleases(t *testing.T) {
	move := basicMove()
	move.Flags.Add("two_turn")
	b, user, target := setup(t, move)
	r := rng.New(5)

	charge, err := movepipeline.ExecuteMove(b, user, 0, target, r)
	require.NoError(t, err)
	assert.Equal(t, 0, charge.TotalDamage)
	tm, err := b.Mon(target)
	require.NoError(t, err)
	assert.Equal(t, 100, tm.HP)

	release, err := movepipeline.ExecuteMove(b, user, 0, target, r)
	require.NoError(t, err)
	assert.True(t, release.TotalDamage > 0)
}

func TestExecuteMoveAppliesStatusAndSetsMonStatus(t *testing.T) {
	move := basicMove()
	move.HitEffect = &battledata.HitEffect{Status: id.From("paralysis")}
	b, user, target := setup(t, move)
	store := b.Data.(*fakeStore)
	store.conditions[id.From("paralysis")] = battledata.ConditionData{
		Id:     id.From("paralysis"),
		Effect: &fxlang.EffectBundle{},
	}
	r := rng.New(7)

	_, err := movepipeline.ExecuteMove(b, user, 0, target, r)
	require.NoError(t, err)

	tm, err := b.Mon(target)
	require.NoError(t, err)
	assert.Equal(t, id.From("paralysis"), tm.Status)

	attachments := b.Effects.Attachments(battle.MonKey(target))
	require.Len(t, attachments, 1)
	assert.Equal(t, "paralysis", attachments[0].Effect.Id)
}

func TestExecuteMoveDoesNotOverwriteExistingStatus(t *testing.T) {
	move := basicMove()
	move.HitEffect = &battledata.HitEffect{Status: id.From("paralysis")}
	b, user, target := setup(t, move)
	store := b.Data.(*fakeStore)
	store.conditions[id.From("paralysis")] = battledata.ConditionData{
		Id:     id.From("paralysis"),
		Effect: &fxlang.EffectBundle{},
	}
	require.NoError(t, b.UpdateMon(target, func(m *battle.Mon) {
		m.Status = id.From("burn")
	}))
	r := rng.New(7)

	_, err := movepipeline.ExecuteMove(b, user, 0, target, r)
	require.NoError(t, err)

	tm, err := b.Mon(target)
	require.NoError(t, err)
	assert.Equal(t, id.From("burn"), tm.Status, "a mon that already has a status cannot be given a second one")
	assert.Empty(t, b.Effects.Attachments(battle.MonKey(target)))
}

func TestExecuteMoveStatusMoveDealsNoDamage(t *testing.T) {
	move := basicMove()
	move.Category = battledata.Status
	move.BasePower = 0
	b, user, target := setup(t, move)
	r := rng.New(11)

	active, err := movepipeline.ExecuteMove(b, user, 0, target, r)
	require.NoError(t, err)
	assert.Equal(t, 0, active.TotalDamage)

	tm, err := b.Mon(target)
	require.NoError(t, err)
	assert.Equal(t, 100, tm.HP)
}

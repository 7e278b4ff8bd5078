package snapshot_test

import (
	"testing"

	"github.com/battlecore/engine/battle"
	"github.com/battlecore/engine/battledata"
	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/container"
	"github.com/battlecore/engine/discovery"
	"github.com/battlecore/engine/id"
	"github.com/battlecore/engine/resource"
	"github.com/battlecore/engine/rng"
	"github.com/battlecore/engine/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	moves map[id.Id]battledata.MoveData
	chart *battledata.TypeChart
}

func newFakeStore() *fakeStore {
	return &fakeStore{moves: map[id.Id]battledata.MoveData{}, chart: battledata.NewTypeChart()}
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
	return battledata.ConditionData{}, battleerr.NotFound("condition", cond.String())
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
		Name:    name,
		Level:   50,
		Types:   []id.Id{id.From("normal")},
		Stats:   battle.Stats{HP: hp, Atk: atk, Def: def, SpA: atk, SpD: def, Spe: 50},
		MaxHP:   hp,
		HP:      hp,
		Item:    id.From("leftovers"),
		Ability: id.From("static"),
		Moveset: battle.MonMoveset{Moves: []id.Id{tackle}},
		PP:      pp,
	}
}

func tackle() battledata.MoveData {
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

func setup(t *testing.T) (*battle.Battle, battle.PlayerHandle, battle.PlayerHandle, battle.MonHandle, battle.MonHandle) {
	t.Helper()
	store := newFakeStore()
	store.moves[id.From("tackle")] = tackle()

	b := battle.New(store)
	sideA := b.AddSide(0)
	sideB := b.AddSide(1)
	playerA, err := b.AddPlayer(sideA, "Ash", false)
	require.NoError(t, err)
	playerB, err := b.AddPlayer(sideB, "Gary", false)
	require.NoError(t, err)

	attacker, err := b.AddMon(playerA, newMon("Charmander", 100, 60, 40))
	require.NoError(t, err)
	defender, err := b.AddMon(playerB, newMon("Squirtle", 100, 40, 60))
	require.NoError(t, err)

	require.NoError(t, b.SwitchIn(attacker, battle.Position{Side: sideA, PlayerIndex: 0, ActiveSlot: 0}))
	require.NoError(t, b.SwitchIn(defender, battle.Position{Side: sideB, PlayerIndex: 0, ActiveSlot: 0}))
	return b, playerA, playerB, attacker, defender
}

func TestSimulateReportsDamageWithoutMutatingTheBattle(t *testing.T) {
	b, _, _, attacker, defender := setup(t)

	before, err := b.Mon(defender)
	require.NoError(t, err)
	beforeHP := before.HP

	result, err := snapshot.Simulate(b, attacker, 0, defender, rng.New(7))
	require.NoError(t, err)

	assert.Greater(t, result.DamageOnTarget.Float64(), 0.0)
	assert.Less(t, result.TargetHP, beforeHP)

	after, err := b.Mon(defender)
	require.NoError(t, err)
	assert.Equal(t, beforeHP, after.HP, "Simulate must not mutate the real battle")

	attackerAfter, err := b.Mon(attacker)
	require.NoError(t, err)
	counter, ok := attackerAfter.PP.Get(id.From("tackle"))
	require.True(t, ok)
	assert.Equal(t, 35, counter.Current(), "Simulate must not spend the real mon's PP")
}

func TestSimulateReportsFirstHit(t *testing.T) {
	b, _, _, attacker, defender := setup(t)

	result, err := snapshot.Simulate(b, attacker, 0, defender, rng.New(3))
	require.NoError(t, err)

	require.NotNil(t, result.FirstHit)
	assert.False(t, result.FirstHit.Immune)
	assert.Equal(t, result.FirstHit.Damage > 0, !result.FirstHit.Missed)
}

func TestViewMasksOpponentItemAndAbilityUntilDiscovered(t *testing.T) {
	b, playerA, playerB, _, defender := setup(t)

	require.NoError(t, b.UpdateMon(defender, func(m *battle.Mon) {
		unknown := discovery.Unknown[id.Id]()
		m.KnownItem = &unknown
	}))

	state, err := snapshot.View(b, playerA)
	require.NoError(t, err)

	var opponentMon *snapshot.MonView
	for _, side := range state.Sides {
		for _, p := range side.Players {
			if p.Name != "Gary" {
				continue
			}
			for i := range p.Team {
				opponentMon = &p.Team[i]
			}
		}
	}
	require.NotNil(t, opponentMon)
	assert.Empty(t, opponentMon.Item, "undiscovered item should not leak through the viewer-facing snapshot")

	ownState, err := snapshot.View(b, playerB)
	require.NoError(t, err)
	var ownMon *snapshot.MonView
	for _, side := range ownState.Sides {
		for _, p := range side.Players {
			if p.Name != "Gary" {
				continue
			}
			for i := range p.Team {
				ownMon = &p.Team[i]
			}
		}
	}
	require.NotNil(t, ownMon)
	assert.Equal(t, "leftovers", ownMon.Item, "a player always sees their own mon's true item")
}

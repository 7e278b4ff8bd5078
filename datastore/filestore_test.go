package datastore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlecore/engine/battledata"
	"github.com/battlecore/engine/datastore"
	"github.com/battlecore/engine/fxlang"
	"github.com/battlecore/engine/id"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func buildFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "aliases.json"), `{"hyperbeam2": "hyperbeam"}`)
	writeFile(t, filepath.Join(root, "clauses.json"), `{"sleepclause": {"name": "Sleep Clause", "description": "Only one mon may be put to sleep per side."}}`)
	writeFile(t, filepath.Join(root, "conditions.json"), `{"burn": {"name": "Burn"}, "perishsong": {"name": "Perish Song", "initial_duration": 4}}`)
	writeFile(t, filepath.Join(root, "type-chart.json"), `{"fire": {"grass": [2,1], "water": [1,2]}}`)
	writeFile(t, filepath.Join(root, "moves", "gen1.json"), `{
		"tackle": {"name": "Tackle", "category": "physical", "primary_type": "normal", "base_power": 40, "accuracy": 100, "pp": 35, "target": "normal"},
		"hyperbeam": {"name": "Hyper Beam", "category": "special", "primary_type": "normal", "base_power": 150, "accuracy": 90, "pp": 5, "target": "any"}
	}`)
	writeFile(t, filepath.Join(root, "abilities", "gen3.json"), `{"intimidate": {"name": "Intimidate"}}`)
	writeFile(t, filepath.Join(root, "items", "gen2.json"), `{"leftovers": {"name": "Leftovers", "flags": ["held"]}}`)
	writeFile(t, filepath.Join(root, "mons", "gen1.json"), `{
		"pikachu": {"name": "Pikachu", "types": ["electric"], "base_stats": {"hp":35,"atk":55,"def":40,"spa":50,"spd":50,"spe":90}, "abilities": ["static"], "catch_rate": 190}
	}`)

	return root
}

func TestFileStoreLoadsAndServesOwnedClones(t *testing.T) {
	root := buildFixture(t)
	store, err := datastore.NewFileStore(root, nil)
	require.NoError(t, err)

	tackle, err := store.GetMove(id.From("tackle"))
	require.NoError(t, err)
	assert.Equal(t, 40, tackle.BasePower)

	pikachu, err := store.GetSpecies(id.From("pikachu"))
	require.NoError(t, err)
	assert.Equal(t, 90, pikachu.BaseStats.Spe)
	pikachu.Types[0] = id.From("mutated")

	pikachuAgain, err := store.GetSpecies(id.From("pikachu"))
	require.NoError(t, err)
	assert.Equal(t, id.From("electric"), pikachuAgain.Types[0]) // store's copy unaffected by caller mutation
}

func TestFileStoreResolvesAliasesAcrossAllLookups(t *testing.T) {
	root := buildFixture(t)
	store, err := datastore.NewFileStore(root, nil)
	require.NoError(t, err)

	move, err := store.GetMove(id.From("hyperbeam2"))
	require.NoError(t, err)
	assert.Equal(t, "Hyper Beam", move.Name)

	assert.Equal(t, id.From("hyperbeam"), store.TranslateAlias(id.From("hyperbeam2")))
	assert.Equal(t, id.From("tackle"), store.TranslateAlias(id.From("tackle"))) // unaliased passes through
}

func TestFileStoreUnknownIdReturnsNotFound(t *testing.T) {
	root := buildFixture(t)
	store, err := datastore.NewFileStore(root, nil)
	require.NoError(t, err)

	_, err = store.GetMove(id.From("nonexistentmove"))
	require.Error(t, err)
}

func TestFileStoreTypeChartAndAllMoveIds(t *testing.T) {
	root := buildFixture(t)
	store, err := datastore.NewFileStore(root, nil)
	require.NoError(t, err)

	chart, err := store.GetTypeChart()
	require.NoError(t, err)
	assert.Equal(t, int64(2), chart.Effectiveness(id.From("fire"), id.From("grass")).Numerator)

	specialMoves, err := store.AllMoveIds(func(m battledata.MoveData) bool { return m.Category == battledata.Special })
	require.NoError(t, err)
	assert.ElementsMatch(t, []id.Id{id.From("hyperbeam")}, specialMoves)
}

func TestFileStoreWiresHandWrittenEffectsThroughProvider(t *testing.T) {
	root := buildFixture(t)
	provider := stubEffects{moveFired: make(map[string]bool)}
	store, err := datastore.NewFileStore(root, provider)
	require.NoError(t, err)

	tackle, err := store.GetMove(id.From("tackle"))
	require.NoError(t, err)
	require.NotNil(t, tackle.Effect)
	assert.Contains(t, tackle.Effect.Callbacks, fxlang.BasePower)
}

type stubEffects struct {
	moveFired map[string]bool
}

func (s stubEffects) MoveEffect(moveID id.Id) *fxlang.EffectBundle {
	if moveID.String() != "tackle" {
		return nil
	}
	return &fxlang.EffectBundle{Callbacks: map[fxlang.BattleEvent][]fxlang.Callback{
		fxlang.BasePower: {{Number: func(ctx *fxlang.Context, current int) (int, error) { return current, nil }}},
	}}
}
func (s stubEffects) AbilityEffect(id.Id) *fxlang.EffectBundle   { return nil }
func (s stubEffects) ItemEffect(id.Id) *fxlang.EffectBundle      { return nil }
func (s stubEffects) ConditionEffect(id.Id) *fxlang.EffectBundle { return nil }

package datastore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/battledata"
	"github.com/battlecore/engine/container"
	"github.com/battlecore/engine/fxlang"
	"github.com/battlecore/engine/id"
)

// EffectProvider supplies the hand-written Go callback bundles that
// JSON content can't carry. A dex package implements this by looking
// up an id in its own registry of closures; FileStore caches the
// result so attaching the same move's effect on every usage doesn't
// repeat the lookup.
type EffectProvider interface {
	MoveEffect(move id.Id) *fxlang.EffectBundle
	AbilityEffect(ability id.Id) *fxlang.EffectBundle
	ItemEffect(item id.Id) *fxlang.EffectBundle
	ConditionEffect(condition id.Id) *fxlang.EffectBundle
}

// noEffects is the zero-value EffectProvider used when a FileStore is
// built without one — every record is declarative-only.
type noEffects struct{}

func (noEffects) MoveEffect(id.Id) *fxlang.EffectBundle      { return nil }
func (noEffects) AbilityEffect(id.Id) *fxlang.EffectBundle   { return nil }
func (noEffects) ItemEffect(id.Id) *fxlang.EffectBundle      { return nil }
func (noEffects) ConditionEffect(id.Id) *fxlang.EffectBundle { return nil }

// FileStore is the reference DataStore: a directory tree matching
// spec.md §6's layout, read once at construction and served from
// memory thereafter. The root directory honors the DATA_DIR
// environment variable by convention (see battlehost.ResolveDataDir),
// but FileStore itself just takes a path — reading env vars is the
// caller's job (see SPEC_FULL.md "A.3 Configuration").
type FileStore struct {
	species    map[id.Id]battledata.SpeciesData
	moves      map[id.Id]battledata.MoveData
	abilities  map[id.Id]battledata.AbilityData
	items      map[id.Id]battledata.ItemData
	conditions map[id.Id]battledata.ConditionData
	clauses    map[id.Id]battledata.ClauseData
	typeChart  *battledata.TypeChart
	aliases    map[id.Id]id.Id

	effects     EffectProvider
	effectCache *container.LRU[id.Id, *fxlang.EffectBundle]
}

// NewFileStore loads every record under root and returns a ready
// FileStore. effects may be nil, in which case content carries no
// behavior (declarative fields only — useful for snapshot/simulator
// tests that don't need to run callbacks).
func NewFileStore(root string, effects EffectProvider) (*FileStore, error) {
	if effects == nil {
		effects = noEffects{}
	}
	fs := &FileStore{
		species:     make(map[id.Id]battledata.SpeciesData),
		moves:       make(map[id.Id]battledata.MoveData),
		abilities:   make(map[id.Id]battledata.AbilityData),
		items:       make(map[id.Id]battledata.ItemData),
		conditions:  make(map[id.Id]battledata.ConditionData),
		clauses:     make(map[id.Id]battledata.ClauseData),
		aliases:     make(map[id.Id]id.Id),
		effects:     effects,
		effectCache: container.NewLRU[id.Id, *fxlang.EffectBundle](512),
	}

	if err := fs.loadAliases(filepath.Join(root, "aliases.json")); err != nil {
		return nil, err
	}
	if err := fs.loadClauses(filepath.Join(root, "clauses.json")); err != nil {
		return nil, err
	}
	if err := fs.loadConditionsFile(filepath.Join(root, "conditions.json")); err != nil {
		return nil, err
	}
	if err := fs.loadTypeChart(filepath.Join(root, "type-chart.json")); err != nil {
		return nil, err
	}
	if err := fs.loadMoves(filepath.Join(root, "moves")); err != nil {
		return nil, err
	}
	if err := fs.loadAbilities(filepath.Join(root, "abilities")); err != nil {
		return nil, err
	}
	if err := fs.loadItems(filepath.Join(root, "items")); err != nil {
		return nil, err
	}
	if err := fs.loadSpecies(filepath.Join(root, "mons")); err != nil {
		return nil, err
	}

	return fs, nil
}

func readJSONFilesInDir(dir string) ([]json.RawMessage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, battleerr.Wrapf(battleerr.CodeInvalidArgument, err, "reading data directory %s", dir)
	}
	var out []json.RawMessage
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, battleerr.Wrapf(battleerr.CodeInvalidArgument, err, "reading %s", e.Name())
		}
		out = append(out, raw)
	}
	return out, nil
}

func readJSONFile(path string) (json.RawMessage, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, battleerr.Wrapf(battleerr.CodeInvalidArgument, err, "reading %s", path)
	}
	return raw, true, nil
}

func (fs *FileStore) loadAliases(path string) error {
	raw, ok, err := readJSONFile(path)
	if err != nil || !ok {
		return err
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return battleerr.Wrapf(battleerr.CodeInvalidArgument, err, "parsing aliases.json")
	}
	for k, v := range m {
		fs.aliases[id.From(k)] = id.From(v)
	}
	return nil
}

func (fs *FileStore) loadClauses(path string) error {
	raw, ok, err := readJSONFile(path)
	if err != nil || !ok {
		return err
	}
	var m map[string]struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return battleerr.Wrapf(battleerr.CodeInvalidArgument, err, "parsing clauses.json")
	}
	for k, v := range m {
		clauseID := id.From(k)
		fs.clauses[clauseID] = battledata.ClauseData{Id: clauseID, Name: v.Name, Description: v.Description}
	}
	return nil
}

type jsonCondition struct {
	Name            string `json:"name"`
	InitialDuration *int   `json:"initial_duration"`
}

func (fs *FileStore) loadConditionsFile(path string) error {
	raw, ok, err := readJSONFile(path)
	if err != nil || !ok {
		return err
	}
	var m map[string]jsonCondition
	if err := json.Unmarshal(raw, &m); err != nil {
		return battleerr.Wrapf(battleerr.CodeInvalidArgument, err, "parsing conditions.json")
	}
	for k, v := range m {
		condID := id.From(k)
		fs.conditions[condID] = battledata.ConditionData{
			Id:              condID,
			Name:            v.Name,
			InitialDuration: v.InitialDuration,
			Effect:          fs.compileConditionEffect(condID),
		}
	}
	return nil
}

func (fs *FileStore) loadTypeChart(path string) error {
	raw, ok, err := readJSONFile(path)
	if err != nil {
		return err
	}
	chart := battledata.NewTypeChart()
	if ok {
		var m map[string]map[string][2]int64
		if err := json.Unmarshal(raw, &m); err != nil {
			return battleerr.Wrapf(battleerr.CodeInvalidArgument, err, "parsing type-chart.json")
		}
		for attack, row := range m {
			for defend, ratio := range row {
				chart.Set(id.From(attack), id.From(defend), container.NewFraction(ratio[0], ratio[1]))
			}
		}
	}
	fs.typeChart = chart
	return nil
}

type jsonMultihit struct {
	Static *int `json:"static"`
	Lo     *int `json:"lo"`
	Hi     *int `json:"hi"`
}

type jsonHitEffect struct {
	Status         string         `json:"status"`
	Volatile       string         `json:"volatile"`
	Boosts         map[string]int `json:"boosts"`
	SideCondition  string         `json:"side_condition"`
	FieldCondition string         `json:"field_condition"`
	ForceSwitch    bool           `json:"force_switch"`
	Heal           *[2]int64      `json:"heal"`
}

func (h *jsonHitEffect) toHitEffect() *battledata.HitEffect {
	if h == nil {
		return nil
	}
	out := &battledata.HitEffect{
		Status:         id.From(h.Status),
		Volatile:       id.From(h.Volatile),
		SideCondition:  id.From(h.SideCondition),
		FieldCondition: id.From(h.FieldCondition),
		ForceSwitch:    h.ForceSwitch,
	}
	if h.Boosts != nil {
		out.Boosts = battledata.Boosts(h.Boosts)
	}
	if h.Heal != nil {
		out.Heal = container.NewFraction(h.Heal[0], h.Heal[1])
	}
	return out
}

type jsonSecondaryEffect struct {
	Chance    [2]int64       `json:"chance"`
	HitEffect *jsonHitEffect `json:"hit_effect"`
}

type jsonMove struct {
	Name             string                `json:"name"`
	Category         string                `json:"category"`
	PrimaryType      string                `json:"primary_type"`
	BasePower        int                   `json:"base_power"`
	Accuracy         int                   `json:"accuracy"`
	PP               int                   `json:"pp"`
	Priority         int                   `json:"priority"`
	Target           string                `json:"target"`
	Flags            []string              `json:"flags"`
	Recoil           *[2]int64             `json:"recoil"`
	RecoilFromUserHP bool                  `json:"recoil_from_user_hp"`
	Drain            *[2]int64             `json:"drain"`
	Multihit         *jsonMultihit         `json:"multihit"`
	OHKO             bool                  `json:"ohko"`
	CritRatio        int                   `json:"crit_ratio"`
	HitEffect        *jsonHitEffect        `json:"hit_effect"`
	UserEffect       *jsonHitEffect        `json:"user_effect"`
	SecondaryEffects []jsonSecondaryEffect `json:"secondary_effects"`
}

func (fs *FileStore) loadMoves(dir string) error {
	files, err := readJSONFilesInDir(dir)
	if err != nil {
		return err
	}
	for _, raw := range files {
		var m map[string]jsonMove
		if err := json.Unmarshal(raw, &m); err != nil {
			return battleerr.Wrapf(battleerr.CodeInvalidArgument, err, "parsing move record")
		}
		for k, v := range m {
			moveID := id.From(k)
			data := battledata.MoveData{
				Id:               moveID,
				Name:             v.Name,
				Category:         battledata.Category(v.Category),
				PrimaryType:      id.From(v.PrimaryType),
				BasePower:        v.BasePower,
				Accuracy:         v.Accuracy,
				PP:               v.PP,
				Priority:         v.Priority,
				Target:           battledata.MoveTarget(v.Target),
				Flags:            container.NewBagSet(v.Flags...),
				RecoilFromUserHP: v.RecoilFromUserHP,
				OHKO:             v.OHKO,
				CritRatio:        v.CritRatio,
				HitEffect:        v.HitEffect.toHitEffect(),
				UserEffect:       v.UserEffect.toHitEffect(),
				Effect:           fs.compileMoveEffect(moveID),
			}
			if v.Recoil != nil {
				data.Recoil = container.NewFraction(v.Recoil[0], v.Recoil[1])
			}
			if v.Drain != nil {
				data.Drain = container.NewFraction(v.Drain[0], v.Drain[1])
			}
			if v.Multihit != nil {
				switch {
				case v.Multihit.Static != nil:
					data.Multihit = &battledata.Multihit{Kind: battledata.MultihitStatic, N: *v.Multihit.Static}
				case v.Multihit.Lo != nil && v.Multihit.Hi != nil:
					data.Multihit = &battledata.Multihit{Kind: battledata.MultihitRange, Lo: *v.Multihit.Lo, Hi: *v.Multihit.Hi}
				}
			}
			for _, se := range v.SecondaryEffects {
				data.SecondaryEffects = append(data.SecondaryEffects, battledata.SecondaryEffect{
					Chance:    container.NewFraction(se.Chance[0], se.Chance[1]),
					HitEffect: se.HitEffect.toHitEffect(),
				})
			}
			fs.moves[moveID] = data
		}
	}
	return nil
}

func (fs *FileStore) loadAbilities(dir string) error {
	files, err := readJSONFilesInDir(dir)
	if err != nil {
		return err
	}
	for _, raw := range files {
		var m map[string]struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &m); err != nil {
			return battleerr.Wrapf(battleerr.CodeInvalidArgument, err, "parsing ability record")
		}
		for k, v := range m {
			abilityID := id.From(k)
			fs.abilities[abilityID] = battledata.AbilityData{
				Id: abilityID, Name: v.Name, Effect: fs.compileAbilityEffect(abilityID),
			}
		}
	}
	return nil
}

func (fs *FileStore) loadItems(dir string) error {
	files, err := readJSONFilesInDir(dir)
	if err != nil {
		return err
	}
	for _, raw := range files {
		var m map[string]struct {
			Name  string   `json:"name"`
			Flags []string `json:"flags"`
		}
		if err := json.Unmarshal(raw, &m); err != nil {
			return battleerr.Wrapf(battleerr.CodeInvalidArgument, err, "parsing item record")
		}
		for k, v := range m {
			itemID := id.From(k)
			fs.items[itemID] = battledata.ItemData{
				Id: itemID, Name: v.Name, Flags: container.NewBagSet(v.Flags...),
				Effect: fs.compileItemEffect(itemID),
			}
		}
	}
	return nil
}

type jsonLevelUpMove struct {
	Level int    `json:"level"`
	Move  string `json:"move"`
}

func (fs *FileStore) loadSpecies(dir string) error {
	files, err := readJSONFilesInDir(dir)
	if err != nil {
		return err
	}
	for _, raw := range files {
		var m map[string]struct {
			Name           string            `json:"name"`
			Types          []string          `json:"types"`
			BaseStats      battledata.StatTable `json:"base_stats"`
			Abilities      []string          `json:"abilities"`
			HiddenAbility  string            `json:"hidden_ability"`
			CatchRate      int               `json:"catch_rate"`
			BaseExperience int               `json:"base_experience"`
			GenderRatio    *[2]int64         `json:"gender_ratio"`
			LevelUpMoves   []jsonLevelUpMove `json:"level_up_moves"`
			EggMoves       []string          `json:"egg_moves"`
		}
		if err := json.Unmarshal(raw, &m); err != nil {
			return battleerr.Wrapf(battleerr.CodeInvalidArgument, err, "parsing species record")
		}
		for k, v := range m {
			speciesID := id.From(k)
			data := battledata.SpeciesData{
				Id: speciesID, Name: v.Name, BaseStats: v.BaseStats,
				HiddenAbility: id.From(v.HiddenAbility), CatchRate: v.CatchRate, BaseExperience: v.BaseExperience,
				GenderRatio: container.Whole(1),
			}
			for _, t := range v.Types {
				data.Types = append(data.Types, id.From(t))
			}
			for _, a := range v.Abilities {
				data.Abilities = append(data.Abilities, id.From(a))
			}
			for _, e := range v.EggMoves {
				data.EggMoves = append(data.EggMoves, id.From(e))
			}
			for _, lum := range v.LevelUpMoves {
				data.LevelUpMoves = append(data.LevelUpMoves, battledata.LevelUpMove{Level: lum.Level, Move: id.From(lum.Move)})
			}
			if v.GenderRatio != nil {
				data.GenderRatio = container.NewFraction(v.GenderRatio[0], v.GenderRatio[1])
			}
			fs.species[speciesID] = data
		}
	}
	return nil
}

// compile* resolve an EffectProvider lookup through the LRU cache, so
// repeated attaches of the same content (a commonly-used move, a
// common ability) don't repeat the provider call. The cache is keyed
// by a tagged id so moves/abilities/items/conditions sharing a literal
// id string (unlikely, but not prevented by id.Id's shape) can't
// collide.

func (fs *FileStore) compileMoveEffect(move id.Id) *fxlang.EffectBundle {
	return fs.compile("move:"+move.String(), func() *fxlang.EffectBundle { return fs.effects.MoveEffect(move) })
}

func (fs *FileStore) compileAbilityEffect(ability id.Id) *fxlang.EffectBundle {
	return fs.compile("ability:"+ability.String(), func() *fxlang.EffectBundle { return fs.effects.AbilityEffect(ability) })
}

func (fs *FileStore) compileItemEffect(item id.Id) *fxlang.EffectBundle {
	return fs.compile("item:"+item.String(), func() *fxlang.EffectBundle { return fs.effects.ItemEffect(item) })
}

func (fs *FileStore) compileConditionEffect(condition id.Id) *fxlang.EffectBundle {
	return fs.compile("condition:"+condition.String(), func() *fxlang.EffectBundle { return fs.effects.ConditionEffect(condition) })
}

func (fs *FileStore) compile(cacheKey string, resolve func() *fxlang.EffectBundle) *fxlang.EffectBundle {
	key := id.Id(cacheKey)
	if cached, ok := fs.effectCache.Get(key); ok {
		return cached
	}
	bundle := resolve()
	fs.effectCache.Put(key, bundle)
	return bundle
}

func (fs *FileStore) resolveAlias(i id.Id) id.Id {
	if canon, ok := fs.aliases[i]; ok {
		return canon
	}
	return i
}

func (fs *FileStore) GetSpecies(species id.Id) (battledata.SpeciesData, error) {
	v, ok := fs.species[fs.resolveAlias(species)]
	if !ok {
		return battledata.SpeciesData{}, battleerr.NotFound("species", species.String())
	}
	return v.Clone(), nil
}

func (fs *FileStore) GetMove(move id.Id) (battledata.MoveData, error) {
	v, ok := fs.moves[fs.resolveAlias(move)]
	if !ok {
		return battledata.MoveData{}, battleerr.NotFound("move", move.String())
	}
	return v.Clone(), nil
}

func (fs *FileStore) GetAbility(ability id.Id) (battledata.AbilityData, error) {
	v, ok := fs.abilities[fs.resolveAlias(ability)]
	if !ok {
		return battledata.AbilityData{}, battleerr.NotFound("ability", ability.String())
	}
	return v.Clone(), nil
}

func (fs *FileStore) GetItem(item id.Id) (battledata.ItemData, error) {
	v, ok := fs.items[fs.resolveAlias(item)]
	if !ok {
		return battledata.ItemData{}, battleerr.NotFound("item", item.String())
	}
	return v.Clone(), nil
}

func (fs *FileStore) GetCondition(condition id.Id) (battledata.ConditionData, error) {
	v, ok := fs.conditions[fs.resolveAlias(condition)]
	if !ok {
		return battledata.ConditionData{}, battleerr.NotFound("condition", condition.String())
	}
	return v.Clone(), nil
}

func (fs *FileStore) GetClause(clause id.Id) (battledata.ClauseData, error) {
	v, ok := fs.clauses[fs.resolveAlias(clause)]
	if !ok {
		return battledata.ClauseData{}, battleerr.NotFound("clause", clause.String())
	}
	return v.Clone(), nil
}

func (fs *FileStore) GetTypeChart() (*battledata.TypeChart, error) {
	return fs.typeChart.Clone(), nil
}

func (fs *FileStore) TranslateAlias(alias id.Id) id.Id {
	return fs.resolveAlias(alias)
}

func (fs *FileStore) AllMoveIds(filter func(battledata.MoveData) bool) ([]id.Id, error) {
	var out []id.Id
	for moveID, data := range fs.moves {
		if filter == nil || filter(data) {
			out = append(out, moveID)
		}
	}
	return out, nil
}

var _ DataStore = (*FileStore)(nil)

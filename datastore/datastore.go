// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package datastore defines the read-only content-lookup interface
// (spec.md §4.3 "DataStore") and a file-backed reference
// implementation over the directory layout spec.md §6 prescribes.
// Every Get* call returns an owned clone; the battle package never
// retains a borrow into a store's internals, so a store can be backed
// by anything — JSON on disk, an in-memory fixture for tests, a future
// host-supplied implementation — without the battle package caring.
//
// Grounded on mechanics/features/loader.go and mechanics/conditions'
// loader pattern (peek the id, route to a typed record) and
// items/item.go's record shape; the on-disk layout itself is original
// to this engine (spec.md §6), not copied from the teacher.
package datastore

import (
	"github.com/battlecore/engine/battledata"
	"github.com/battlecore/engine/id"
)

// DataStore is the read-only content surface the battle engine runs
// against. All lookups return battleerr.NotFound when the id is
// unknown, never a zero-value record with no way to distinguish
// "absent" from "found, zero".
type DataStore interface {
	GetSpecies(species id.Id) (battledata.SpeciesData, error)
	GetMove(move id.Id) (battledata.MoveData, error)
	GetAbility(ability id.Id) (battledata.AbilityData, error)
	GetItem(item id.Id) (battledata.ItemData, error)
	GetCondition(condition id.Id) (battledata.ConditionData, error)
	GetClause(clause id.Id) (battledata.ClauseData, error)
	GetTypeChart() (*battledata.TypeChart, error)

	// TranslateAlias resolves a deprecated or alternate id to its
	// canonical form (e.g. a renamed move), returning the input
	// unchanged if no alias is registered.
	TranslateAlias(alias id.Id) id.Id

	// AllMoveIds returns every move id for which filter returns true.
	// A nil filter returns every move id known to the store.
	AllMoveIds(filter func(battledata.MoveData) bool) ([]id.Id, error)
}

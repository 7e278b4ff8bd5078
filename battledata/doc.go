// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package battledata defines the immutable content records a DataStore
// serves: species, moves, abilities, items, conditions, clauses, and
// the type chart (spec.md §4.3). Every record is plain data plus,
// where content needs behavior, an *fxlang.EffectBundle assembled by a
// dex package — battledata itself never runs a callback, it only
// carries the bundle.
//
// Record shape is grounded on items/item.go's field groupings and
// mechanics/features/loader.go's id-plus-payload pattern, generalized
// from the teacher's single item/feature kind into the six content
// kinds spec.md §4.3 names.
package battledata

// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package battle is the root aggregate: it owns every arena (Mon, Side,
// Player) and the fxlang effect registry, and is the only thing that
// ever holds a live handle across a battle's lifetime (spec.md §3
// "Ownership"). Every other package (movepipeline, scheduler, shift,
// capture, snapshot) operates on a *Battle by handle, never by
// back-pointer.
//
// Grounded on game/context.go's "infrastructure + data" bundling
// pattern and gamectx.GameContext's registry-of-registries shape,
// generalized from a single generic Context[T] into the concrete
// multi-arena root spec.md §3's entity list requires.
package battle

// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package snapshot provides the two read-only views spec.md §4.5/§4.9
// build on top of a live *battle.Battle: Simulate, the move-result
// simulator that content-scoring hooks call to ask "what would this
// move do right now" without committing any state, and View, a
// per-player read-only projection of battle state that masks
// discovery-gated opponent knowledge (held item, ability) the same way
// a real player only sees what they've observed.
//
// Simulate is grounded on movepipeline's own staged execution: it
// clones the battle (battle.Battle.Clone, added for this package),
// runs the same ExecuteMove the scheduler uses against the clone, and
// diffs before/after state. There is no separate "dry-run" code path
// inside movepipeline to keep in sync — the simulator exercises the
// real pipeline on throwaway state instead of a parallel simplified
// one.
package snapshot

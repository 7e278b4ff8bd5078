// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler drives one battle turn end to end (spec.md §4.6):
// choice validation, action-queue construction and sorting, move/
// switch execution (delegating per-move resolution to movepipeline),
// the residual phase, end-of-turn shift, and battle-end detection.
//
// Grounded on the turn/initiative ordering idiom used across the
// pack's turn-based engines (action class, then priority, then
// speed, then a tie-break) and on pipeline/executor.go's staged-
// execution idea, generalized the same way movepipeline is: a fixed,
// named sequence of Go functions rather than an interchangeable-stage
// registry, since spec.md §4.6 prescribes an exact phase order.
package scheduler

// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package shift computes end-of-turn repositioning to keep both sides'
// active mons within adjacency reach after a faint or manual shift
// (spec.md §4.7). No pack example fits the shape of this problem: the
// adjacency rule is a 1-D projection across two aligned sides, not a
// 2D grid or room graph, so tools/spatial's square/hex grid machinery
// (built for free-form 2D movement, per its own doc.go Non-Goals) does
// not apply — see DESIGN.md for the full reasoning.
package shift

// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package capture implements wild-mode catching and experience (spec.md
// §4.8): the catch-rate/shake-check formula, critical capture,
// experience award on faint, and the level-up move-learning flow. No
// teacher file models "catch a creature" directly; grounded on
// tools/selectables' weighted-pick idiom for critical-capture's
// probability roll and dice's Roller-shaped random source (rng.Source
// here, for seedability — see DESIGN.md).
package capture

// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package rng provides the seedable random source the move pipeline,
// scheduler tie-breaks, and capture formula need for spec.md §5's
// determinism contract: "replays with the same seed and same choice
// sequence must produce byte-identical logs." dice.Roller's one pack
// implementation (dice.CryptoRoller) is crypto/rand-backed and
// therefore fundamentally unseedable, so this package keeps
// dice.Roller's method shape (Roll/RollN) but backs it with
// math/rand/v2's seedable PCG source instead — see DESIGN.md for why
// no example-pack dependency could serve this instead.
package rng

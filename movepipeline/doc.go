// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package movepipeline resolves one move usage end to end (spec.md
// §4.5): two-turn gating, target resolution, per-hit accuracy/
// immunity/damage computation against the fxlang effect registry's
// modifier chains, hit-effect and secondary-effect application,
// recoil/drain, and logging.
//
// Grounded on pipeline/executor.go's sequential-stage idiom
// (pipeline.Sequential, pipeline.Stage), generalized from an
// any-typed value threaded through opaque stages into a single
// strongly-typed *ActiveMove threaded through named Go functions —
// spec.md's hit resolution has a fixed, well-known shape (accuracy,
// then immunity, then damage, then effects), so a registry of
// interchangeable stages would add indirection without buying
// flexibility the domain needs. dice/roller.go's Roller interface
// shape is kept (via rng.Source, for seedability — see DESIGN.md) for
// every random decision: accuracy rolls, multihit sampling, the
// damage roll's 0.85-1.00 multiplier, crit rolls, and secondary-effect
// chance checks.
package movepipeline

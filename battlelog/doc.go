// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package battlelog is the engine's append-only observable log (spec.md
// §4.9, §6 "Log line format"). Every entry is a structured, ordered
// key-value record that renders as a stable pipe-separated string with
// a leading verb: "damage|mon:Pikachu,player-1,1|health:45/100". Group
// markers ("turn", "residual", "time") demarcate phases, and a
// "split" entry precedes a public/private pair for HP encoding.
//
// The teacher has no direct analog to a replay log; this package is
// grounded on events.Event's ref-plus-context shape (events/event.go,
// events/context.go), reexpressed as a flat recorded line rather than
// a live dispatched object, since nothing here is ever handled — only
// appended and later read by a driver (see DESIGN.md).
package battlelog

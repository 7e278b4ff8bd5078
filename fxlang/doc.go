// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package fxlang is the effect registry and event-dispatch runtime — the
// core of the core. It gives abilities, items, conditions, and in-flight
// moves a uniform way to hook named BattleEvents, compose their answers
// deterministically, and persist small bits of per-attachment state
// (stockpile counts, disable targets, perish-song counters) without the
// runtime knowing any content's schema.
//
// fxlang itself knows nothing about Mon, Side, or Field: Registry is
// generic over the entity-key type its caller uses to name attachment
// points, and Context carries target/source/user as opaque values. The
// battle package is what supplies the domain-specific scan order (target
// volatiles, then status, then ability, then item, then side conditions,
// then field) and speed values; fxlang only sorts and dispatches whatever
// candidate list it's handed.
//
// Grounded on the callback-and-event shape of events/bus.go,
// events/context.go, events/modifier.go, and mechanics/conditions'
// Condition/Duration pair, generalized from single-purpose game-event
// subscriptions into the chained Number/Boolean/Void event families this
// runtime's move pipeline and condition system require.
package fxlang

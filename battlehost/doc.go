// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package battlehost is the embedder envelope spec.md §5/§6 describes:
// the Driver API a host calls directly (Session.Start,
// SetPlayerChoice, ContinueBattle, RequestForPlayer, PlayerData,
// NewLogEntries), plus a multi-threaded cooperative layer (Host,
// LogBroadcaster, ControlChannel) for services that run many battles
// concurrently and want channel-based fan-out instead of direct calls
// into a single goroutine.
//
// The single-threaded Driver API and the channel-based envelope are
// two views onto the same Session: a host embedding the engine
// in-process can call Session's methods directly (no goroutines of
// its own required, matching spec.md §5's "scheduling model of the
// battle engine itself: single-threaded cooperative"), while a
// service that wants to run one goroutine per battle and talk to it
// over channels can use Host, which does exactly that and nothing
// more — it never mutates a Session from more than one goroutine at a
// time, so Session itself stays free of its own locking.
//
// No pack example ships a turn-based game server or a broadcast-log
// envelope, so this package's shape is grounded directly on spec.md
// §5/§6's own prose rather than a teacher file — see DESIGN.md.
package battlehost

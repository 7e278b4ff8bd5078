// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package arena implements the generational-index handle arenas that
// back Mon, Move, Effect, Side, and Player storage (spec.md §4.1). The
// Battle root exclusively owns arenas; every other entity holds a
// Handle, never a pointer, so there are no back-pointers between
// entities (spec.md §3 "Ownership").
package arena

import "github.com/battlecore/engine/battleerr"

// Handle is an opaque, generation-tagged index into an Arena[T]. It is
// parameterized by the stored type so a MonHandle and a SideHandle are
// distinct Go types and can never be confused at a call site, even
// though both are "just" an index and a generation under the hood.
// The zero Handle never refers to a live slot (index 0 is reserved),
// so it doubles as "no handle" without an Option wrapper.
type Handle[T any] struct {
	index int
	gen   uint32
}

// IsZero reports whether this is the zero Handle.
func (h Handle[T]) IsZero() bool {
	return h.index == 0 && h.gen == 0
}

// Index and Generation expose the handle's raw components for callers
// that need a comparable, hashable key derived from a handle (e.g.
// fxlang's generic entity-key type) without importing T's arena
// machinery. They carry no meaning outside of "this happens to be the
// same pair another handle had".
func (h Handle[T]) Index() int        { return h.index }
func (h Handle[T]) Generation() uint32 { return h.gen }

// Arena is a dense, generation-tagged store of T. Freed slots are
// reused, but their generation advances, so a Handle obtained before a
// free fails NotFound after reuse rather than aliasing the new
// occupant (spec.md §3 invariant 1, §4.1).
type Arena[T any] struct {
	slots     []slot[T]
	freeList  []int
	entityTag string // used in NotFound error messages, e.g. "mon"
}

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// New creates an empty arena. entityTag names the stored entity kind
// for error messages (e.g. "mon", "side").
func New[T any](entityTag string) *Arena[T] {
	return &Arena[T]{
		// index 0 is reserved so the zero Handle is never live.
		slots:     make([]slot[T], 1),
		entityTag: entityTag,
	}
}

// Insert allocates a new slot (reusing a freed one if available) and
// returns its Handle.
func (a *Arena[T]) Insert(value T) Handle[T] {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.slots[idx].value = value
		a.slots[idx].live = true
		a.slots[idx].gen++
		return Handle[T]{index: idx, gen: a.slots[idx].gen}
	}

	idx := len(a.slots)
	a.slots = append(a.slots, slot[T]{value: value, live: true, gen: 1})
	return Handle[T]{index: idx, gen: 1}
}

// Get resolves a Handle to its value. It returns a NotFound
// *battleerr.Error if the handle is zero, out of range, freed, or
// stale (pointing at a generation that has since been reused).
func (a *Arena[T]) Get(h Handle[T]) (T, error) {
	var zero T
	if h.IsZero() {
		return zero, battleerr.NotFound(a.entityTag, "zero handle")
	}
	if h.index <= 0 || h.index >= len(a.slots) {
		return zero, battleerr.NotFound(a.entityTag, "handle out of range")
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return zero, battleerr.NotFound(a.entityTag, "stale or freed handle")
	}
	return s.value, nil
}

// MustGet resolves a Handle and panics on failure. Reserved for
// call sites that have already validated liveness (e.g. immediately
// after Insert) and where a NotFound would indicate a genuine
// internal-invariant violation rather than caller error.
func (a *Arena[T]) MustGet(h Handle[T]) T {
	v, err := a.Get(h)
	if err != nil {
		panic(err)
	}
	return v
}

// Set overwrites the value at a live handle.
func (a *Arena[T]) Set(h Handle[T], value T) error {
	if _, err := a.Get(h); err != nil {
		return err
	}
	a.slots[h.index].value = value
	return nil
}

// Update applies fn to the value stored at h and writes back the
// result, returning NotFound if the handle isn't live.
func (a *Arena[T]) Update(h Handle[T], fn func(T) T) error {
	v, err := a.Get(h)
	if err != nil {
		return err
	}
	a.slots[h.index].value = fn(v)
	return nil
}

// Free releases a slot. Its index is reused by a future Insert, but
// the generation advances so existing Handles to it become stale.
func (a *Arena[T]) Free(h Handle[T]) error {
	if _, err := a.Get(h); err != nil {
		return err
	}
	var zero T
	a.slots[h.index].value = zero
	a.slots[h.index].live = false
	a.freeList = append(a.freeList, h.index)
	return nil
}

// IsLive reports whether a handle currently resolves to a live value,
// without returning an error for the common "check before act" case.
func (a *Arena[T]) IsLive(h Handle[T]) bool {
	_, err := a.Get(h)
	return err == nil
}

// Handles returns every currently-live handle, in slot order (stable
// for a given sequence of inserts/frees — used wherever the engine
// needs deterministic iteration, e.g. scanning all Mon for a Residual
// event).
func (a *Arena[T]) Handles() []Handle[T] {
	out := make([]Handle[T], 0, len(a.slots))
	for i, s := range a.slots {
		if i == 0 || !s.live {
			continue
		}
		out = append(out, Handle[T]{index: i, gen: s.gen})
	}
	return out
}

// Len returns the number of currently-live entries.
func (a *Arena[T]) Len() int {
	return len(a.Handles())
}

// Clone returns an independent arena with the same slot layout (same
// handles resolve in both), running every live value through
// cloneValue so pointer-bearing fields (PP pools, boost tables held by
// reference, etc.) don't alias the original. Used by Battle.Clone for
// the move-result simulator's dry-run copy.
func (a *Arena[T]) Clone(cloneValue func(T) T) *Arena[T] {
	out := &Arena[T]{
		slots:     make([]slot[T], len(a.slots)),
		freeList:  append([]int(nil), a.freeList...),
		entityTag: a.entityTag,
	}
	for i, s := range a.slots {
		out.slots[i] = slot[T]{gen: s.gen, live: s.live}
		if s.live {
			out.slots[i].value = cloneValue(s.value)
		}
	}
	return out
}

// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package discovery models the opponent-knowledge accumulation described
// in spec.md §4.2: a value is either fully Known, or narrowed down to a
// PossibleValues set inferred from observed battle behavior. Used by the
// snapshot package to build the AI-facing, imperfect-information view of
// an opposing team (e.g. "this mon's held item is one of {leftovers,
// sitrus berry}" until it's revealed).
//
// Semantics are grounded on the opponent-knowledge model in
// original_source/battler-client/src/discovery.rs; the Go expression
// below is original code, not a translation.
package discovery

import "github.com/battlecore/engine/container"

// Required holds either a single Known value or a set of PossibleValues
// for a comparable type T.
type Required[T comparable] struct {
	known   *T
	options *container.BagSet[T]
}

// Known creates a Required in the fully-known state.
func Known[T comparable](value T) Required[T] {
	v := value
	return Required[T]{known: &v}
}

// Possible creates a Required narrowed to the given candidate set.
func Possible[T comparable](values ...T) Required[T] {
	return Required[T]{options: container.NewBagSet(values...)}
}

// Unknown creates a Required with no information at all (an empty
// PossibleValues set) — every subsequent record/merge narrows it.
func Unknown[T comparable]() Required[T] {
	return Required[T]{options: container.NewBagSet[T]()}
}

// IsKnown reports whether this Required has collapsed to a single value.
func (r Required[T]) IsKnown() bool {
	return r.known != nil
}

// Value returns the known value and true if this Required is in the
// Known state.
func (r Required[T]) Value() (T, bool) {
	var zero T
	if r.known != nil {
		return *r.known, true
	}
	return zero, false
}

// Clone returns an independent copy of r, so narrowing the clone's
// options never affects r.
func (r Required[T]) Clone() Required[T] {
	out := Required[T]{}
	if r.known != nil {
		v := *r.known
		out.known = &v
	}
	if r.options != nil {
		out.options = r.options.Clone()
	}
	return out
}

// Options returns the candidate set. For a Known value this is the
// singleton {value}; callers that need to distinguish should check
// IsKnown first.
func (r Required[T]) Options() *container.BagSet[T] {
	if r.known != nil {
		return container.NewBagSet(*r.known)
	}
	if r.options == nil {
		return container.NewBagSet[T]()
	}
	return r.options
}

// CanBe reports whether v is consistent with what's currently known:
// for Known(k), only k itself; for PossibleValues, set membership.
func (r Required[T]) CanBe(v T) bool {
	if r.known != nil {
		return *r.known == v
	}
	if r.options == nil {
		return false
	}
	return r.options.Contains(v)
}

// Record folds a newer observation (other) into this Required: the
// newer value wins, except that Known always beats PossibleValues
// regardless of which side is newer — a concrete fact outranks a guess.
// Two Knowns of equal value collapse to Known; two PossibleValues union.
func (r Required[T]) Record(other Required[T]) Required[T] {
	if other.known != nil {
		return other
	}
	if r.known != nil {
		return r
	}
	return Required[T]{options: r.Options().Union(other.Options())}
}

// Merge combines two equally-precedent observations (e.g. two
// independent inference passes over the same turn). Two distinct Known
// values promote to PossibleValues{a,b} since neither can be dismissed;
// a Known merged with a PossibleValues set inserts the known value into
// the set; two PossibleValues sets union.
func (r Required[T]) Merge(other Required[T]) Required[T] {
	switch {
	case r.known != nil && other.known != nil:
		if *r.known == *other.known {
			return r
		}
		return Possible(*r.known, *other.known)
	case r.known != nil:
		return Possible(append(other.Options().Values(), *r.known)...)
	case other.known != nil:
		return Possible(append(r.Options().Values(), *other.known)...)
	default:
		return Required[T]{options: r.Options().Union(other.Options())}
	}
}

// MakeAmbiguous demotes a Known value down to a PossibleValues set
// containing only that value — used when a future observation might
// need to broaden it (e.g. a Transform copy temporarily makes a known
// ability uncertain again).
func (r Required[T]) MakeAmbiguous() Required[T] {
	if r.known != nil {
		return Possible(*r.known)
	}
	return r
}

// Set layers two disjoint collections — known and possible — over a
// comparable type, used to model team-wide facts accumulated across
// turns (spec.md §4.2 "DiscoveryRequiredSet").
type Set[T comparable] struct {
	known    *container.BagSet[T]
	possible *container.BagSet[T]
}

// NewSet creates an empty Set.
func NewSet[T comparable]() *Set[T] {
	return &Set[T]{known: container.NewBagSet[T](), possible: container.NewBagSet[T]()}
}

// Known returns the set of values known for certain.
func (s *Set[T]) Known() *container.BagSet[T] {
	return s.known
}

// Possible returns the set of values that are merely possible (not yet
// confirmed, not yet ruled out).
func (s *Set[T]) Possible() *container.BagSet[T] {
	return s.possible
}

// Promote moves a value from possible to known, e.g. when a move is
// actually observed being used.
func (s *Set[T]) Promote(value T) {
	s.possible.Remove(value)
	s.known.Add(value)
}

// Downgrade moves a value from known back to possible — rare, but
// needed for effects like Transform that make previously-certain facts
// uncertain again relative to the copying mon.
func (s *Set[T]) Downgrade(value T) {
	s.known.Remove(value)
	s.possible.Add(value)
}

// AddPossible records a new candidate without asserting it's known.
func (s *Set[T]) AddPossible(value T) {
	if s.known.Contains(value) {
		return
	}
	s.possible.Add(value)
}

// Merge combines two Sets with equal precedence: the resulting known
// set is the intersection of both known sets (only facts both agree on
// survive as certain); the resulting possible set is every value seen
// by either side, minus whatever is now known.
func (s *Set[T]) Merge(other *Set[T]) *Set[T] {
	out := &Set[T]{known: s.known.Intersect(other.known)}
	allPossible := s.known.Union(s.possible).Union(other.known).Union(other.possible)
	possible := container.NewBagSet[T]()
	for _, v := range allPossible.Values() {
		if !out.known.Contains(v) {
			possible.Add(v)
		}
	}
	out.possible = possible
	return out
}

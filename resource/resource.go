// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package resource tracks the two depletable/accumulable quantities the
// battle engine needs: move PP (depletes toward zero, has a ceiling)
// and bag item counts (accumulates, no ceiling, only floored at zero).
// Grounded on mechanics/resources.Pool/Counter, generalized with a
// generic key type so the same Pool serves a Mon's per-move-slot PP
// and a Bag serves a Player's per-item counts without two near-
// duplicate implementations.
package resource

import (
	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/container"
)

// Counter is a depletable quantity with a ceiling (PP, a limited-use
// item charge). It starts full.
type Counter struct {
	current int
	max     int
}

// NewCounter creates a Counter starting at max.
func NewCounter(max int) *Counter {
	if max < 0 {
		max = 0
	}
	return &Counter{current: max, max: max}
}

// Current returns the amount currently available.
func (c *Counter) Current() int { return c.current }

// Max returns the ceiling.
func (c *Counter) Max() int { return c.max }

// Consume spends amount, failing with InvalidArgument if amount is
// negative or exceeds what's currently available (PP exhausted).
func (c *Counter) Consume(amount int) error {
	if amount < 0 {
		return battleerr.InvalidArgumentf("cannot consume negative amount %d", amount)
	}
	if amount > c.current {
		return battleerr.InvalidArgumentf("cannot consume %d: only %d available", amount, c.current)
	}
	c.current -= amount
	return nil
}

// Restore adds amount back, clamped to Max (e.g. a Leppa Berry).
func (c *Counter) Restore(amount int) {
	if amount < 0 {
		return
	}
	c.current += amount
	if c.current > c.max {
		c.current = c.max
	}
}

// RestoreToFull sets current back to max.
func (c *Counter) RestoreToFull() { c.current = c.max }

// SetMax changes the ceiling (e.g. a PP Up raising a move's max PP),
// clamping current down if it now exceeds the new max.
func (c *Counter) SetMax(max int) {
	if max < 0 {
		max = 0
	}
	c.max = max
	if c.current > c.max {
		c.current = c.max
	}
}

// IsAvailable reports whether any amount remains.
func (c *Counter) IsAvailable() bool { return c.current > 0 }

// Clone returns an independent copy of c.
func (c *Counter) Clone() *Counter {
	cp := *c
	return &cp
}

// Pool is a keyed collection of Counters — a Mon's per-move-slot PP
// table, or any other depletable-with-ceiling tracker keyed by K.
// Insertion order is preserved so that e.g. a moveset's PP displays in
// move-slot order rather than Go map iteration order.
type Pool[K comparable] struct {
	counters *container.OrderedMap[K, *Counter]
}

// NewPool creates an empty Pool.
func NewPool[K comparable]() *Pool[K] {
	return &Pool[K]{counters: container.NewOrderedMap[K, *Counter]()}
}

// Set installs (or replaces) the Counter for key.
func (p *Pool[K]) Set(key K, counter *Counter) {
	p.counters.Set(key, counter)
}

// Get retrieves the Counter for key.
func (p *Pool[K]) Get(key K) (*Counter, bool) {
	return p.counters.Get(key)
}

// Consume spends amount from key's Counter, returning NotFound if key
// isn't tracked.
func (p *Pool[K]) Consume(key K, amount int) error {
	c, ok := p.counters.Get(key)
	if !ok {
		return battleerr.NotFound("resource", "unknown pool key")
	}
	return c.Consume(amount)
}

// Restore adds amount back to key's Counter; a no-op if key isn't
// tracked.
func (p *Pool[K]) Restore(key K, amount int) {
	if c, ok := p.counters.Get(key); ok {
		c.Restore(amount)
	}
}

// RestoreAll restores every tracked Counter to full (e.g. a heal-all
// effect, or bag-level PP restoration at a Pokemon Center analogue).
func (p *Pool[K]) RestoreAll() {
	for _, key := range p.counters.Keys() {
		c, _ := p.counters.Get(key)
		c.RestoreToFull()
	}
}

// Keys returns every tracked key in insertion order.
func (p *Pool[K]) Keys() []K {
	return p.counters.Keys()
}

// Clone returns a pool with its own independent Counters, so spending
// or restoring PP on the clone never touches p.
func (p *Pool[K]) Clone() *Pool[K] {
	return &Pool[K]{counters: p.counters.Clone(func(c *Counter) *Counter { return c.Clone() })}
}

// Stack is an accumulating, unceilinged count — a Player's bag slot
// for one item id. It never goes negative.
type Stack struct {
	count int
}

// NewStack creates a Stack starting at initial (clamped to ≥ 0).
func NewStack(initial int) *Stack {
	if initial < 0 {
		initial = 0
	}
	return &Stack{count: initial}
}

// Count returns the current amount held.
func (s *Stack) Count() int { return s.count }

// Add increases the count by amount.
func (s *Stack) Add(amount int) {
	if amount < 0 {
		return
	}
	s.count += amount
}

// Remove decreases the count by amount, failing with InvalidArgument
// if that would go negative (e.g. using an item not actually held).
func (s *Stack) Remove(amount int) error {
	if amount < 0 {
		return battleerr.InvalidArgumentf("cannot remove negative amount %d", amount)
	}
	if amount > s.count {
		return battleerr.InvalidArgumentf("cannot remove %d: only %d held", amount, s.count)
	}
	s.count -= amount
	return nil
}

// Has reports whether at least amount is currently held.
func (s *Stack) Has(amount int) bool {
	return s.count >= amount
}

// Clone returns an independent copy of s.
func (s *Stack) Clone() *Stack {
	cp := *s
	return &cp
}

// Bag is a keyed collection of Stacks — a Player's item inventory
// (spec.md §3 "bag: map<Id, count>").
type Bag[K comparable] struct {
	stacks *container.OrderedMap[K, *Stack]
}

// NewBag creates an empty Bag.
func NewBag[K comparable]() *Bag[K] {
	return &Bag[K]{stacks: container.NewOrderedMap[K, *Stack]()}
}

// Add increases key's held count by amount, creating the slot if
// needed.
func (b *Bag[K]) Add(key K, amount int) {
	if s, ok := b.stacks.Get(key); ok {
		s.Add(amount)
		return
	}
	b.stacks.Set(key, NewStack(amount))
}

// Remove decreases key's held count by amount, failing with
// InvalidArgument if the bag doesn't hold enough (or at all).
func (b *Bag[K]) Remove(key K, amount int) error {
	s, ok := b.stacks.Get(key)
	if !ok {
		return battleerr.InvalidArgumentf("bag holds none of this item")
	}
	return s.Remove(amount)
}

// Count returns how many of key are held (zero if untracked).
func (b *Bag[K]) Count(key K) int {
	if s, ok := b.stacks.Get(key); ok {
		return s.Count()
	}
	return 0
}

// Has reports whether the bag holds at least amount of key.
func (b *Bag[K]) Has(key K, amount int) bool {
	return b.Count(key) >= amount
}

// Keys returns every item key the bag has ever tracked, in the order
// first added.
func (b *Bag[K]) Keys() []K {
	return b.stacks.Keys()
}

// Clone returns a bag with its own independent Stacks.
func (b *Bag[K]) Clone() *Bag[K] {
	return &Bag[K]{stacks: b.stacks.Clone(func(s *Stack) *Stack { return s.Clone() })}
}

package fxlang

import (
	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/container"
)

// DurationFn customizes a condition's initial residual-tick count; nil
// means the condition is permanent (spec.md §4.4 Duration event).
type DurationFn func(ctx *Context) (int, error)

// EffectBundle is the full callback set an ability, item, condition, or
// move contributes. Spec.md models a direct callback set plus an
// optional nested "Condition" sub-bundle for installed conditions; this
// runtime consolidates the two, since in practice every bundle that
// carries a Duration *is* the condition, and one that doesn't is a
// permanent ability/item/move-definition hook. See DESIGN.md.
type EffectBundle struct {
	Callbacks map[BattleEvent][]Callback
	Duration  DurationFn
}

// Validate checks that every callback's populated Fn field matches its
// event's declared contract. This is the closest Go equivalent to the
// spec's compile-time "a callback whose declared return type conflicts
// with the event's flags is a content error" check — there's no script
// to compile since content is hand-written Go closures, so this runs
// once when a dex package builds its bundles.
func (b *EffectBundle) Validate() error {
	for event, callbacks := range b.Callbacks {
		want, known := ContractFor(event)
		if !known {
			return battleerr.InvalidArgumentf("unknown event %q in effect bundle", event)
		}
		for _, cb := range callbacks {
			if cb.ReturnKind() != want {
				return battleerr.InvalidArgumentf(
					"callback for event %q has return kind %v, contract requires %v",
					event, cb.ReturnKind(), want,
				)
			}
		}
	}
	return nil
}

// CallbacksFor returns the callback slice for event, or nil.
func (b *EffectBundle) CallbacksFor(event BattleEvent) []Callback {
	if b == nil {
		return nil
	}
	return b.Callbacks[event]
}

// EffectState is the per-attachment persistent bag described in spec.md
// §4.4 "Per-condition state": content stores small bits of state
// (stockpile count, disable target, perish count) here without the
// runtime knowing the schema. Duration is core-managed; Data is not.
type EffectState struct {
	Duration *int
	data     map[string]string
	dirty    bool
}

// NewEffectState creates an empty state with the given initial
// duration (nil for permanent).
func NewEffectState(duration *int) *EffectState {
	return &EffectState{Duration: duration, data: make(map[string]string)}
}

// GetString returns a stored value and whether it was present.
func (s *EffectState) GetString(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

// SetString stores a value, marking the state dirty.
func (s *EffectState) SetString(key, value string) {
	s.data[key] = value
	s.dirty = true
}

// Delete removes a key, marking the state dirty if it was present.
func (s *EffectState) Delete(key string) {
	if _, ok := s.data[key]; ok {
		delete(s.data, key)
		s.dirty = true
	}
}

// IsDirty reports whether state has changed since the last MarkClean.
func (s *EffectState) IsDirty() bool { return s.dirty }

// MarkClean clears the dirty flag, e.g. after persisting a snapshot.
func (s *EffectState) MarkClean() { s.dirty = false }

// Clone returns an independent copy of s, including its own Duration
// pointer and data map, so ticking the clone's duration never touches
// s.
func (s *EffectState) Clone() *EffectState {
	out := &EffectState{data: make(map[string]string, len(s.data)), dirty: s.dirty}
	if s.Duration != nil {
		d := *s.Duration
		out.Duration = &d
	}
	for k, v := range s.data {
		out.data[k] = v
	}
	return out
}

// TickDuration decrements Duration by one residual phase, reporting
// whether it has now expired (reached zero). A nil Duration (permanent)
// never expires.
func (s *EffectState) TickDuration() (expired bool) {
	if s.Duration == nil {
		return false
	}
	*s.Duration--
	return *s.Duration <= 0
}

// Attachment is one effect installed at one entity: the effect's
// identity, its callback bundle, and its mutable per-installation
// state.
type Attachment struct {
	Effect EffectRef
	Bundle *EffectBundle
	State  *EffectState
}

// Registry owns the two symmetric indexes spec.md §3 "Ownership"
// describes: entity → attached effects, and effect → attached entities.
// K is the entity-key type the caller uses to name attachment points
// (the battle package's own Mon/Side/Field handle wrapper); fxlang does
// not need to know what K actually is.
type Registry[K comparable] struct {
	byEntity *container.OrderedMap[K, []*Attachment]
	byEffect map[EffectRef][]K
}

// NewRegistry creates an empty Registry.
func NewRegistry[K comparable]() *Registry[K] {
	return &Registry[K]{
		byEntity: container.NewOrderedMap[K, []*Attachment](),
		byEffect: make(map[EffectRef][]K),
	}
}

// Attachments returns every effect currently attached to entity, in
// attach order.
func (r *Registry[K]) Attachments(entity K) []*Attachment {
	list, _ := r.byEntity.Get(entity)
	return list
}

// Entities returns every entity that currently has ref attached.
func (r *Registry[K]) Entities(ref EffectRef) []K {
	return append([]K(nil), r.byEffect[ref]...)
}

// Attach installs bundle on entity under ref. It fires Start (if
// bundle declares a Start callback) over this bundle's own Start
// callbacks only, each with Speed left at zero; a veto (false) rolls
// back the insert entirely and
// Attach returns (nil, nil) to signal "refused, not an error". source,
// if non-nil, is pushed onto the Start dispatch context so a Start
// callback's ctx.SourceEffect() reports what caused this attach (e.g.
// the move whose hit_effect installed the condition).
func (r *Registry[K]) Attach(entity K, ref EffectRef, bundle *EffectBundle, initialDuration *int, source *EffectRef) (*Attachment, error) {
	state := NewEffectState(initialDuration)
	if bundle != nil {
		if startCallbacks := bundle.CallbacksFor(Start); len(startCallbacks) > 0 {
			ctx := NewContext(Start, entity, ref)
			if source != nil {
				ctx.PushSource(*source)
			}
			candidates := make([]Candidate, len(startCallbacks))
			for i, cb := range startCallbacks {
				candidates[i] = Candidate{Callback: cb, Effect: ref}
			}
			ok, err := DispatchBoolean(ctx, candidates)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, nil
			}
		}
	}

	att := &Attachment{Effect: ref, Bundle: bundle, State: state}
	list, _ := r.byEntity.Get(entity)
	r.byEntity.Set(entity, append(list, att))
	r.byEffect[ref] = append(r.byEffect[ref], entity)
	return att, nil
}

// Detach fires End (if declared) and removes ref from entity. It is a
// no-op if ref is not currently attached to entity.
func (r *Registry[K]) Detach(entity K, ref EffectRef) error {
	list, ok := r.byEntity.Get(entity)
	if !ok {
		return nil
	}

	idx := -1
	for i, att := range list {
		if att.Effect == ref {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	att := list[idx]
	if endCallbacks := att.Bundle.CallbacksFor(End); len(endCallbacks) > 0 {
		ctx := NewContext(End, entity, ref)
		candidates := make([]Candidate, len(endCallbacks))
		for i, cb := range endCallbacks {
			candidates[i] = Candidate{Callback: cb, Effect: ref}
		}
		DispatchVoid(ctx, candidates)
	}

	next := append(append([]*Attachment{}, list[:idx]...), list[idx+1:]...)
	r.byEntity.Set(entity, next)

	entities := r.byEffect[ref]
	for i, e := range entities {
		if e == entity {
			r.byEffect[ref] = append(entities[:i], entities[i+1:]...)
			break
		}
	}
	return nil
}

// DetachAll removes every effect attached to entity, firing End for
// each (e.g. a fainted mon losing all its volatiles).
func (r *Registry[K]) DetachAll(entity K) {
	for _, att := range append([]*Attachment(nil), r.Attachments(entity)...) {
		_ = r.Detach(entity, att.Effect)
	}
}

// Clone returns a registry with the same attachments but independent
// EffectState (so TickDuration on the clone never affects r). Bundle
// pointers are shared since content is immutable once constructed.
func (r *Registry[K]) Clone() *Registry[K] {
	out := NewRegistry[K]()
	for _, entity := range r.byEntity.Keys() {
		list, _ := r.byEntity.Get(entity)
		cloned := make([]*Attachment, len(list))
		for i, att := range list {
			cloned[i] = &Attachment{Effect: att.Effect, Bundle: att.Bundle, State: att.State.Clone()}
		}
		out.byEntity.Set(entity, cloned)
	}
	for ref, entities := range r.byEffect {
		out.byEffect[ref] = append([]K(nil), entities...)
	}
	return out
}

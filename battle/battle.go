package battle

import (
	"github.com/battlecore/engine/arena"
	"github.com/battlecore/engine/battleerr"
	"github.com/battlecore/engine/battlelog"
	"github.com/battlecore/engine/container"
	"github.com/battlecore/engine/datastore"
	"github.com/battlecore/engine/fxlang"
	"github.com/battlecore/engine/id"
)

// Battle is the root aggregate: the only thing that owns arenas
// (spec.md §3 "Ownership"). Everything else — movepipeline, scheduler,
// shift, capture, snapshot — operates on a *Battle through its
// handle-returning methods.
type Battle struct {
	Data datastore.DataStore

	mons    *arena.Arena[Mon]
	sides   *arena.Arena[Side]
	players *arena.Arena[Player]

	Field   *Field
	Effects *fxlang.Registry[EntityKey]
	Log     *battlelog.Log

	turn int
}

// New creates an empty Battle backed by store. Callers build out
// Sides/Players/Mon via AddSide/AddPlayer/AddMon before starting play.
func New(store datastore.DataStore) *Battle {
	return &Battle{
		Data:    store,
		mons:    arena.New[Mon]("mon"),
		sides:   arena.New[Side]("side"),
		players: arena.New[Player]("player"),
		Field:   NewField(),
		Effects: fxlang.NewRegistry[EntityKey](),
		Log:     battlelog.NewLog(),
	}
}

// Turn returns the current turn number (starts at 0 before Start).
func (b *Battle) Turn() int { return b.turn }

// AdvanceTurn increments the turn counter; called by the scheduler
// once residual processing for the previous turn completes.
func (b *Battle) AdvanceTurn() { b.turn++ }

// AddSide inserts a new Side and returns its handle.
func (b *Battle) AddSide(index int) SideHandle {
	h := b.sides.Insert(Side{
		Index:               index,
		SideConditions:      container.NewOrderedMap[id.Id, *ConditionInstance](),
		AutoShiftSuppressed: make(map[int]bool),
	})
	side, _ := b.sides.Get(h)
	side.self = h
	_ = b.sides.Set(h, side)
	return h
}

// AddPlayer inserts a new Player attached to side and returns its
// handle.
func (b *Battle) AddPlayer(side SideHandle, name string, wild bool) (PlayerHandle, error) {
	s, err := b.sides.Get(side)
	if err != nil {
		return PlayerHandle{}, err
	}
	h := b.players.Insert(Player{Name: name, Wild: wild})
	p, _ := b.players.Get(h)
	p.self = h
	_ = b.players.Set(h, p)

	s.Players = append(s.Players, h)
	return h, b.sides.Set(side, s)
}

// AddMon inserts a new Mon onto player's team and returns its handle.
func (b *Battle) AddMon(player PlayerHandle, mon Mon) (MonHandle, error) {
	p, err := b.players.Get(player)
	if err != nil {
		return MonHandle{}, err
	}
	h := b.mons.Insert(mon)
	m, _ := b.mons.Get(h)
	m.self = h
	_ = b.mons.Set(h, m)

	p.Team = append(p.Team, h)
	return h, b.players.Set(player, p)
}

// Mon resolves a MonHandle.
func (b *Battle) Mon(h MonHandle) (*Mon, error) {
	m, err := b.mons.Get(h)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMon applies fn to the mon at h and writes the result back.
func (b *Battle) UpdateMon(h MonHandle, fn func(*Mon)) error {
	m, err := b.mons.Get(h)
	if err != nil {
		return err
	}
	fn(&m)
	return b.mons.Set(h, m)
}

// Side resolves a SideHandle.
func (b *Battle) Side(h SideHandle) (*Side, error) {
	s, err := b.sides.Get(h)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSide applies fn to the side at h and writes the result back.
func (b *Battle) UpdateSide(h SideHandle, fn func(*Side)) error {
	s, err := b.sides.Get(h)
	if err != nil {
		return err
	}
	fn(&s)
	return b.sides.Set(h, s)
}

// Player resolves a PlayerHandle.
func (b *Battle) Player(h PlayerHandle) (*Player, error) {
	p, err := b.players.Get(h)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePlayer applies fn to the player at h and writes the result
// back.
func (b *Battle) UpdatePlayer(h PlayerHandle, fn func(*Player)) error {
	p, err := b.players.Get(h)
	if err != nil {
		return err
	}
	fn(&p)
	return b.players.Set(h, p)
}

// AllMons returns every live mon handle, in arena order — the stable
// iteration spec.md §3 invariant 7 relies on for deterministic
// residual-phase scans.
func (b *Battle) AllMons() []MonHandle {
	return b.mons.Handles()
}

// AllSides returns every side handle, in arena (insertion) order.
func (b *Battle) AllSides() []SideHandle {
	return b.sides.Handles()
}

// ApplyDamage subtracts amount from mon's HP, clamping at zero, sets
// Fainted and clears Position when HP reaches zero (spec.md §3
// invariant 2: "hp == 0 iff fainted"), and returns the amount actually
// applied (which may be less than requested if HP was already low).
func (b *Battle) ApplyDamage(h MonHandle, amount int) (int, error) {
	m, err := b.mons.Get(h)
	if err != nil {
		return 0, err
	}
	if amount < 0 {
		amount = 0
	}
	before := m.HP
	m.HP -= amount
	if m.HP <= 0 {
		m.HP = 0
	}
	if m.HP == 0 {
		m.Fainted = true
		m.Position = nil
		b.Effects.DetachAll(monKey(h))
	}
	m.Generation++
	if err := b.mons.Set(h, m); err != nil {
		return 0, err
	}
	return before - m.HP, nil
}

// Heal adds amount to mon's HP, clamped to MaxHP. A fainted mon cannot
// be healed by in-battle effects (spec.md §3 invariant 2's Revive
// exception is bag-only, out-of-combat, and therefore not modeled by
// this method).
func (b *Battle) Heal(h MonHandle, amount int) (int, error) {
	m, err := b.mons.Get(h)
	if err != nil {
		return 0, err
	}
	if m.Fainted || amount <= 0 {
		return 0, nil
	}
	before := m.HP
	m.HP += amount
	if m.HP > m.MaxHP {
		m.HP = m.MaxHP
	}
	m.Generation++
	if err := b.mons.Set(h, m); err != nil {
		return 0, err
	}
	return m.HP - before, nil
}

// SwitchIn places mon into the given position, firing SwitchIn via the
// effect registry once positioned.
func (b *Battle) SwitchIn(h MonHandle, pos Position) error {
	m, err := b.mons.Get(h)
	if err != nil {
		return err
	}
	if m.Fainted {
		return battleerr.InvalidChoice(pos.ActiveSlot, "cannot switch in a fainted mon")
	}
	m.Position = &pos
	m.Generation++
	if err := b.mons.Set(h, m); err != nil {
		return err
	}

	key := monKey(h)
	ctx := fxlang.NewContext(fxlang.SwitchIn, h, fxlang.EffectRef{})
	fxlang.DispatchVoid(ctx, b.candidatesFor(fxlang.SwitchIn, key))
	return nil
}

// SwitchOut clears mon's position and detaches its volatile
// conditions, which do not persist across a switch (spec.md §3
// lifecycle: "destroyed when ... its owning mon ... switches out, for
// volatiles").
func (b *Battle) SwitchOut(h MonHandle) error {
	m, err := b.mons.Get(h)
	if err != nil {
		return err
	}
	m.Position = nil
	m.Generation++
	if err := b.mons.Set(h, m); err != nil {
		return err
	}
	b.Effects.DetachAll(monKey(h))
	return nil
}

// candidatesFor builds the dispatch candidate list for event at a
// single entity key, in attach order (the fxlang Dispatch functions sort
// it), with Speed left at zero — used for events like
// SwitchIn/Start/End where only one entity's own attachments matter and
// there is no cross-entity scan-order or speed tie-break to apply.
func (b *Battle) candidatesFor(event fxlang.BattleEvent, key EntityKey) []fxlang.Candidate {
	var out []fxlang.Candidate
	for _, att := range b.Effects.Attachments(key) {
		for _, cb := range att.Bundle.CallbacksFor(event) {
			out = append(out, fxlang.Candidate{Callback: cb, Effect: att.Effect})
		}
	}
	return out
}

// speedOf returns a mon's effective speed stat, used only to break
// same-priority ties among candidates attached to different entities
// in CandidatesForScan.
func (b *Battle) speedOf(h MonHandle) int {
	m, err := b.mons.Get(h)
	if err != nil {
		return 0
	}
	return m.Stats.Spe
}

// CandidatesForScan gathers every callback attached for event across
// the scan order spec.md §4.4 step 1 names: target's own attachments
// (volatiles/status/ability/item — these all live under the target's
// single EntityKey, so their relative order among themselves falls out
// of fxlang.Sort's own priority/speed/sub_order tie-break rather than a
// separate kind-based pass — see DESIGN.md), then source's side
// conditions, then the field. fxlang.Sort is applied once over the
// combined set so priority/speed ties resolve correctly across
// entities, not just within one.
func (b *Battle) CandidatesForScan(event fxlang.BattleEvent, target MonHandle, source *MonHandle) []fxlang.Candidate {
	var out []fxlang.Candidate

	targetSpeed := b.speedOf(target)
	for _, c := range b.candidatesFor(event, monKey(target)) {
		c.Speed = targetSpeed
		out = append(out, c)
	}

	if source != nil {
		if m, err := b.mons.Get(*source); err == nil && m.Position != nil {
			speed := b.speedOf(*source)
			for _, c := range b.candidatesFor(event, sideKey(m.Position.Side)) {
				c.Speed = speed
				out = append(out, c)
			}
		}
	}

	for _, c := range b.candidatesFor(event, fieldKey()) {
		out = append(out, c)
	}

	return fxlang.Sort(out)
}

// CandidatesForAllies gathers every callback attached to subject's
// active teammates (same side, excluding subject) for event — used by
// ally-scoped events like AllySetStatus, where a teammate's ability can
// veto a status about to be set on subject.
func (b *Battle) CandidatesForAllies(event fxlang.BattleEvent, subject MonHandle) []fxlang.Candidate {
	sm, err := b.mons.Get(subject)
	if err != nil || sm.Position == nil {
		return nil
	}
	var out []fxlang.Candidate
	for _, h := range b.AllMons() {
		if h == subject {
			continue
		}
		m, err := b.mons.Get(h)
		if err != nil || m.Fainted || m.Position == nil || m.Position.Side != sm.Position.Side {
			continue
		}
		speed := b.speedOf(h)
		for _, c := range b.candidatesFor(event, monKey(h)) {
			c.Speed = speed
			out = append(out, c)
		}
	}
	return out
}

// AttachCondition installs a condition onto a mon (volatile/status) or
// the field (weather/pseudo-weather), going through the effect
// registry so Start fires and can veto. ConditionInstance bookkeeping
// (Data/Duration) lives on the registry's Attachment; this method
// returns whether the install was accepted. source, if non-nil, is
// threaded through to the registry so the Start callback chain can
// attribute this attach to the move/effect that caused it.
func (b *Battle) AttachCondition(entity EntityKey, conditionID id.Id, initialDuration *int, source *fxlang.EffectRef) (bool, error) {
	data, err := b.Data.GetCondition(conditionID)
	if err != nil {
		return false, err
	}
	ref := fxlang.EffectRef{Kind: fxlang.EffectCondition, Id: conditionID.String()}

	duration := initialDuration
	if duration == nil {
		duration = data.InitialDuration
	}
	att, err := b.Effects.Attach(entity, ref, data.Effect, duration, source)
	if err != nil {
		return false, err
	}
	return att != nil, nil
}

// DetachCondition removes a condition from entity, firing End.
func (b *Battle) DetachCondition(entity EntityKey, conditionID id.Id) error {
	return b.Effects.Detach(entity, fxlang.EffectRef{Kind: fxlang.EffectCondition, Id: conditionID.String()})
}

// MonKey and SideKey expose the EntityKey constructors to other
// packages in this module (movepipeline, scheduler, shift, capture)
// that need to address the effect registry without duplicating the
// index/generation extraction.
func MonKey(h MonHandle) EntityKey   { return monKey(h) }
func SideKey(h SideHandle) EntityKey { return sideKey(h) }
func FieldKey() EntityKey            { return fieldKey() }

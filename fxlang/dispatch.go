package fxlang

import "github.com/battlecore/engine/battleerr"

// CallbackError pairs a dispatch failure with the effect that raised
// it, so a ReturnsVoid dispatch (which runs every candidate regardless
// of earlier failures) can report all of them instead of just the
// first.
type CallbackError struct {
	Effect EffectRef
	Err    error
}

// DispatchNumber runs a ReturnsNumber chain: every candidate runs in
// sorted order, each receiving the running value and producing the
// next one (spec.md §4.4 step 3). A callback error aborts the chain
// immediately since a partially-applied numeric chain (e.g. half the
// STAB/type/crit multipliers applied) would silently corrupt damage
// math.
func DispatchNumber(ctx *Context, candidates []Candidate, initial int) (int, error) {
	value := initial
	for _, cand := range Sort(candidates) {
		if cand.Callback.Number == nil {
			return value, battleerr.InternalInvariantViolation(
				"dispatch number: candidate for event has no Number callback",
				battleerr.WithMeta("event", string(cand.Callback.Event)),
			)
		}
		ctx.Event = cand.Callback.Event
		ctx.Effect = cand.Effect
		next, err := cand.Callback.Number(ctx, value)
		if err != nil {
			return value, err
		}
		value = next
	}
	return value, nil
}

// DispatchBoolean runs a ReturnsBoolean event: iteration short-circuits
// on the first veto (a callback returning false), matching spec.md
// §4.4 step 4. Returns true if no candidate vetoes.
func DispatchBoolean(ctx *Context, candidates []Candidate) (bool, error) {
	for _, cand := range Sort(candidates) {
		if cand.Callback.Boolean == nil {
			return false, battleerr.InternalInvariantViolation(
				"dispatch boolean: candidate for event has no Boolean callback",
				battleerr.WithMeta("event", string(cand.Callback.Event)),
			)
		}
		ctx.Event = cand.Callback.Event
		ctx.Effect = cand.Effect
		ok, err := cand.Callback.Boolean(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// DispatchVoid runs every candidate regardless of individual failures
// (spec.md §4.4 step 5: "errors are contained per callback and
// converted to log entries"). Callers that want those entries in the
// battle log should translate the returned CallbackErrors themselves;
// fxlang has no concept of a log.
func DispatchVoid(ctx *Context, candidates []Candidate) []CallbackError {
	var errs []CallbackError
	for _, cand := range Sort(candidates) {
		if cand.Callback.Void == nil {
			errs = append(errs, CallbackError{Effect: cand.Effect, Err: battleerr.InternalInvariantViolation(
				"dispatch void: candidate for event has no Void callback",
				battleerr.WithMeta("event", string(cand.Callback.Event)),
			)})
			continue
		}
		ctx.Event = cand.Callback.Event
		ctx.Effect = cand.Effect
		if err := cand.Callback.Void(ctx); err != nil {
			errs = append(errs, CallbackError{Effect: cand.Effect, Err: err})
		}
	}
	return errs
}

// Copyright (C) 2024 Kirk Diggler
// SPDX-License-Identifier: GPL-3.0-or-later

// Package battleerr provides the error taxonomy described in spec.md §7:
// a small, closed set of error kinds that every layer of the engine
// reports through, each carrying structured metadata about the battle
// state at the point of failure.
package battleerr

import (
	"errors"
	"fmt"
)

// Code categorizes why an operation on the battle failed.
type Code string

const (
	// CodeInvalidChoice marks a player choice that is syntactically or
	// semantically illegal. Recoverable: the host re-prompts the player.
	CodeInvalidChoice Code = "invalid_choice"
	// CodeNotFound marks a missing data-store key. Generally fatal for
	// the battle, recoverable at the host level by aborting cleanly.
	CodeNotFound Code = "not_found"
	// CodeInvalidArgument marks a malformed team, option, or configuration.
	// Fatal for the battle.
	CodeInvalidArgument Code = "invalid_argument"
	// CodeInternalInvariantViolation marks a should-not-happen branch
	// (e.g. a handle resolving to a freed generation). Logged with full
	// context; the battle aborts.
	CodeInternalInvariantViolation Code = "internal_invariant_violation"
	// CodeChannelLagged marks an embedder-level event: a log subscriber
	// fell behind the broadcast buffer. Non-fatal; the subscriber must
	// resubscribe and tolerate hole-punches.
	CodeChannelLagged Code = "channel_lagged"
)

// Error is the concrete error type returned across the engine's public
// API. It is always reachable via errors.As from any wrapped error
// returned by this module.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "battleerr: nil error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Option configures an Error at construction time.
type Option func(*Error)

// WithMeta attaches a single piece of structured context to the error.
func WithMeta(key string, value any) Option {
	return func(e *Error) {
		if e.Meta == nil {
			e.Meta = make(map[string]any)
		}
		e.Meta[key] = value
	}
}

// New creates an Error with the given code and message.
func New(code Code, message string, opts ...Option) *Error {
	e := &Error{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a code and message, preserving the
// original error via Unwrap.
func Wrap(code Code, err error, message string, opts ...Option) *Error {
	e := New(code, message, opts...)
	e.Cause = err
	return e
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(code Code, err error, format string, args ...any) *Error {
	return Wrap(code, err, fmt.Sprintf(format, args...))
}

// GetCode extracts the Code from any error, returning "" if the error
// (or any error it wraps) is not a *Error.
func GetCode(err error) Code {
	var be *Error
	if errors.As(err, &be) && be != nil {
		return be.Code
	}
	return ""
}

// GetMeta extracts the structured metadata from any error.
func GetMeta(err error) map[string]any {
	var be *Error
	if errors.As(err, &be) && be != nil {
		return be.Meta
	}
	return nil
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// InvalidChoice creates a CodeInvalidChoice error naming the failing
// sub-choice and the reason, matching the user-visible format from
// spec.md §7 ("invalid choice 1: cannot switch: ...").
func InvalidChoice(index int, reason string, opts ...Option) *Error {
	return New(CodeInvalidChoice, fmt.Sprintf("invalid choice %d: %s", index, reason), opts...)
}

// NotFound creates a CodeNotFound error for a missing data-store key.
func NotFound(kind, key string, opts ...Option) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s not found: %s", kind, key), opts...)
}

// InvalidArgument creates a CodeInvalidArgument error.
func InvalidArgument(message string, opts ...Option) *Error {
	return New(CodeInvalidArgument, message, opts...)
}

// InvalidArgumentf creates a formatted CodeInvalidArgument error.
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// InternalInvariantViolation creates a CodeInternalInvariantViolation
// error for a should-not-happen branch.
func InternalInvariantViolation(message string, opts ...Option) *Error {
	return New(CodeInternalInvariantViolation, message, opts...)
}

// InternalInvariantViolationf creates a formatted variant.
func InternalInvariantViolationf(format string, args ...any) *Error {
	return Newf(CodeInternalInvariantViolation, format, args...)
}

// ChannelLagged creates a CodeChannelLagged error for a subscriber that
// fell behind the log broadcast buffer.
func ChannelLagged(missed int, opts ...Option) *Error {
	return New(CodeChannelLagged, fmt.Sprintf("subscriber lagged, missed %d entries", missed), opts...)
}

// Predicates mirroring rpgerr's Is* convenience functions.

// IsInvalidChoice reports whether err is a CodeInvalidChoice error.
func IsInvalidChoice(err error) bool { return Is(err, CodeInvalidChoice) }

// IsNotFound reports whether err is a CodeNotFound error.
func IsNotFound(err error) bool { return Is(err, CodeNotFound) }

// IsInvalidArgument reports whether err is a CodeInvalidArgument error.
func IsInvalidArgument(err error) bool { return Is(err, CodeInvalidArgument) }

// IsInternalInvariantViolation reports whether err is a
// CodeInternalInvariantViolation error.
func IsInternalInvariantViolation(err error) bool {
	return Is(err, CodeInternalInvariantViolation)
}

// IsChannelLagged reports whether err is a CodeChannelLagged error.
func IsChannelLagged(err error) bool { return Is(err, CodeChannelLagged) }

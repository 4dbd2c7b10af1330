package app

import (
	"errors"
	"fmt"
)

// Kind classifies a controller failure so callers can tell "nothing to
// do" apart from "infrastructure degraded".
type Kind int

const (
	// KindStorage: the ledger statement failed. The command did not run.
	KindStorage Kind = iota + 1
	// KindPlatform: a Discord API call failed. Ledger state may already
	// have been written.
	KindPlatform
	// KindPrecondition: the actor or room was not in the required state.
	// No state was touched.
	KindPrecondition
)

func (k Kind) String() string {
	switch k {
	case KindStorage:
		return "storage"
	case KindPlatform:
		return "platform"
	case KindPrecondition:
		return "precondition"
	default:
		return "unknown"
	}
}

// Error is the controller's structured failure. Extract it with
// errors.As:
//
//	var appErr *app.Error
//	if errors.As(err, &appErr) && appErr.Kind == app.KindPrecondition { ... }
type Error struct {
	Kind   Kind
	Op     string // failing operation, e.g. "invite"
	Reason string // human-readable precondition reason, empty otherwise
	Err    error  // wrapped cause, nil for precondition failures
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind checks whether err is an *Error with the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

func IsPrecondition(err error) bool { return IsKind(err, KindPrecondition) }
func IsStorage(err error) bool      { return IsKind(err, KindStorage) }
func IsPlatform(err error) bool     { return IsKind(err, KindPlatform) }

func storageErr(op string, err error) error {
	return &Error{Kind: KindStorage, Op: op, Err: err}
}

func platformErr(op string, err error) error {
	return &Error{Kind: KindPlatform, Op: op, Err: err}
}

func preconditionErr(op, reason string) error {
	return &Error{Kind: KindPrecondition, Op: op, Reason: reason}
}

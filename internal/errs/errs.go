// Package errs classifies the planner's fatal and recoverable conditions
// into four kinds: InvalidInput, UnreachableTarget, GraphInconsistency,
// and Timeout. It follows the convention of per-package sentinel errors,
// separating "validation" sentinels from "planner governance" sentinels,
// but adds one thin wrapper type so callers at the request boundary can
// branch on errors.As without re-deriving the kind from a hardcoded
// sentinel list of their own.
package errs

import "errors"

// Kind identifies which bucket of the error taxonomy an error belongs
// to.
type Kind int

const (
	// KindInvalidInput marks a condition the caller can fix: the LKP lies
	// outside the inner boundary, a vehicle ID collides with another, or a
	// coordinate is malformed.
	KindInvalidInput Kind = iota

	// KindUnreachableTarget marks the solver reporting infeasible, or the
	// vehicle pre-filter removing every vehicle; the former is fatal,
	// the latter resolves to a valid empty Plan (the caller decides which).
	KindUnreachableTarget

	// KindGraphInconsistency marks a programming bug: a missing edge on a
	// lookup that should have succeeded, an unparsable escape-node
	// attribute, or a Position with an out-of-range edge cursor.
	KindGraphInconsistency

	// KindTimeout marks the solver exhausting its wall-clock budget
	// without finding any feasible solution.
	KindTimeout
)

// String renders the Kind for log lines and error messages.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUnreachableTarget:
		return "unreachable_target"
	case KindGraphInconsistency:
		return "graph_inconsistency"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error wraps an underlying sentinel/wrapped error with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}

	return e.Kind.String() + ": " + e.Err.Error()
}

// Unwrap exposes the wrapped error to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// InvalidInput wraps err as a KindInvalidInput error.
func InvalidInput(err error) error { return &Error{Kind: KindInvalidInput, Err: err} }

// UnreachableTarget wraps err as a KindUnreachableTarget error.
func UnreachableTarget(err error) error { return &Error{Kind: KindUnreachableTarget, Err: err} }

// GraphInconsistency wraps err as a KindGraphInconsistency error. Routing
// and tree construction propagate these as terminal errors signaling a
// bug, never a recoverable caller mistake.
func GraphInconsistency(err error) error { return &Error{Kind: KindGraphInconsistency, Err: err} }

// Timeout wraps err as a KindTimeout error.
func Timeout(err error) error { return &Error{Kind: KindTimeout, Err: err} }

// Is reports whether err (or anything it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}

	return false
}

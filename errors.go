package rdf2cypher

import "github.com/pkg/errors"

// Error kind sentinels, per spec §7. Wrap these with pkg/errors so callers
// can recover the sentinel via errors.Cause while the chain keeps a stack
// trace and a human-readable reason.
var (
	// ErrBackend indicates the driver returned a protocol or server-side
	// error. Surfaced to the caller; a read path aborts its current
	// iteration.
	ErrBackend = errors.New("backend error")

	// ErrCodecMismatch indicates a value returned by the backend cannot be
	// decoded to an RDF term. Surfaced; indicates corrupt storage.
	ErrCodecMismatch = errors.New("codec mismatch")

	// ErrInvariantViolation indicates the caller's input violates a §3
	// storage invariant (backtick in a predicate IRI, reserved uri clash).
	// Surfaced synchronously at add-time.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrUnsupported indicates an algebra sub-operator cannot be pushed
	// down to Cypher. This is a compile-time signal: the executor bridge
	// catches it and falls back to the host evaluator. It must never
	// reach the user.
	ErrUnsupported = errors.New("unsupported for pushdown")

	// ErrNestedTransaction indicates begin was called while a transaction
	// was already open. Surfaced synchronously.
	ErrNestedTransaction = errors.New("nested transaction unsupported")

	// ErrCancelled indicates a query's cancellation token fired.
	// Surfaced; iteration terminates.
	ErrCancelled = errors.New("cancelled")
)

func newBackendError(reason string) error {
	return errors.Wrap(ErrBackend, reason)
}

func newCodecMismatch(reason string) error {
	return errors.Wrap(ErrCodecMismatch, reason)
}

func newInvariantViolation(reason string) error {
	return errors.Wrap(ErrInvariantViolation, reason)
}

// Unsupported wraps ErrUnsupported with a reason code the executor bridge
// logs via the observability shim before falling back (§4.7.5).
func Unsupported(reasonCode string) error {
	return errors.Wrap(ErrUnsupported, reasonCode)
}

func newNestedTransaction() error {
	return errors.WithStack(ErrNestedTransaction)
}

func newCancelled() error {
	return errors.WithStack(ErrCancelled)
}

// Is reports whether err's chain contains target, delegating to the
// standard library via pkg/errors' Cause-compatible wrapping.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Package fault defines the four error kinds the acceleration-structure
// core can raise, per spec §7: InvalidInput, AllocationFailure,
// InvariantViolation, and IoFailure. Callers distinguish them with
// errors.Is against the package-level sentinels; Wrap attaches context
// without losing that identity.
package fault

import (
	"errors"
	"fmt"
)

var (
	// InvalidInput marks a caller-supplied value the core refuses to
	// build on: an empty triangle list, a degenerate or non-affine
	// transform, an instance referencing a BLAS the caller never built.
	InvalidInput = errors.New("accelstruct: invalid input")

	// AllocationFailure marks a DeviceMemory.Alloc refusal. Any blob the
	// core had partially written is discarded, never returned.
	AllocationFailure = errors.New("accelstruct: allocation failure")

	// InvariantViolation marks an internal bug: a linearizer counter
	// mismatch, an unreachable tagged-tree variant. It is always a
	// library defect, never a caller mistake.
	InvariantViolation = errors.New("accelstruct: invariant violation")

	// IoFailure marks a short read/write during (de)serialization.
	IoFailure = errors.New("accelstruct: io failure")
)

// wrapped carries a context string and the kind sentinel it wraps, so
// errors.Is(err, fault.InvalidInput) keeps working after fmt-free wrapping.
type wrapped struct {
	kind    error
	context string
	cause   error
}

func (w *wrapped) Error() string {
	if w.cause == nil {
		return fmt.Sprintf("%s: %s", w.kind, w.context)
	}
	return fmt.Sprintf("%s: %s: %v", w.kind, w.context, w.cause)
}

func (w *wrapped) Unwrap() []error {
	if w.cause == nil {
		return []error{w.kind}
	}
	return []error{w.kind, w.cause}
}

// Wrap attaches context (and an optional underlying cause) to one of the
// package's sentinel kinds. Passing a kind other than one of the four
// sentinels above is a programmer error but still produces a usable error.
func Wrap(kind error, context string, cause error) error {
	return &wrapped{kind: kind, context: context, cause: cause}
}

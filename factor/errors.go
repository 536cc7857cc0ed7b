// SPDX-License-Identifier: MIT
package factor

import (
	"errors"
	"fmt"
)

// Sentinel errors for the factor package. Every message is prefixed
// "factor: "; wrap with fmt.Errorf("%w") at call sites that add context.
//
// ERROR PRIORITY: a caller checking a returned error should test, in
// order, ErrNotBuilt / ErrDimensionMismatch (malformed call), then
// ErrNumericalFailure (this update cannot be trusted, refactor), then
// ErrRankDeficient (this build cannot be trusted, caller decides
// recovery). ErrInvariantViolated only ever appears from debug-gated
// assertions and indicates a bug in this package, not in caller input.
var (
	// ErrNotBuilt is returned by FTRAN/BTRAN/Update when called against a
	// Store on which Build has not run since the last Setup.
	ErrNotBuilt = errors.New("factor: store has not been built")

	// ErrDimensionMismatch is returned when a supplied vector's length
	// does not match the store's row count, or Setup is given
	// inconsistent array lengths.
	ErrDimensionMismatch = errors.New("factor: dimension mismatch")

	// ErrNumericalFailure is returned by Update when alpha is zero or the
	// pivot*alpha product underflows below the tiny-value floor; the store
	// is left unchanged and the caller must refactor.
	ErrNumericalFailure = errors.New("factor: numerical failure during update")

	// ErrInvariantViolated marks a debug-build-only assertion failure. No
	// code path in this package returns it.
	ErrInvariantViolated = errors.New("factor: internal invariant violated")
)

// RankDeficiencyError wraps the deficiency count returned by Build when
// the basis matrix is structurally or numerically singular for one or
// more columns. The caller decides whether to accept logical
// replacements; the engine never substitutes them silently.
type RankDeficiencyError struct {
	Count int
}

func (e *RankDeficiencyError) Error() string {
	return fmt.Sprintf("factor: rank deficient: %d column(s) had no acceptable pivot", e.Count)
}

// ErrRankDeficient is the sentinel a caller can match with errors.Is
// against a *RankDeficiencyError returned by Build.
var ErrRankDeficient = errors.New("factor: rank deficient")

func (e *RankDeficiencyError) Unwrap() error { return ErrRankDeficient }

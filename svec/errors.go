// SPDX-License-Identifier: MIT
package svec

import "errors"

// Sentinel errors for the svec package. Every message is prefixed "svec: "
// for consistency and easy grepping across logs; wrap with fmt.Errorf("%w")
// at the call site when additional context is needed.
var (
	// ErrBadSize is returned when NewVector is asked for a non-positive length.
	ErrBadSize = errors.New("svec: size must be > 0")

	// ErrIndexOutOfRange indicates a position outside [0, n) was supplied to
	// an operation that addresses the dense array directly.
	ErrIndexOutOfRange = errors.New("svec: index out of range")
)

// SPDX-License-Identifier: MIT

// Package factor: domain types for the factor store.
package factor

// densityTracker holds one exponentially-weighted moving average per
// triangular-solve operation (spec §4.3/§4.7), updated after every solve
// and consulted before the next one. It is held in an unexported Store
// field with no accessor, so a host cannot read or restore it, and every
// Build resets it to zero.
type densityTracker struct {
	ftranL float64
	ftranU float64
	btranL float64
	btranU float64
}

func ewma(old, observed float64) float64 {
	return densityWeight*old + (1-densityWeight)*observed
}

// Store is the factor store (FS) of spec §3: the persistent factored
// representation of the current basis matrix B, plus the product-form
// eta buffer accumulated since the last refactorization.
//
// All mutation funnels through Build (a full rebuild) or
// Update (one Forrest-Tomlin step); every other method is a
// read-only accessor or a solve. A *Store is single-threaded (§5): the
// caller serializes access to one instance.
type Store struct {
	cfg config

	numCol int
	numRow int

	// Setup input, retained for Build; the engine never mutates these.
	aStart     []int
	aIndex     []int
	aValue     []float64
	basicIndex []int

	built bool
	density densityTracker

	// L, minus its unit diagonal, compressed column form.
	LPivotIndex []int
	LStart      []int
	LIndex      []int
	LValue      []float64

	// Same L, compressed row form.
	LRStart []int
	LRIndex []int
	LRValue []float64

	// U pivots, in factorization/update order. UPivotIndex[i] == -1
	// marks a tombstoned slot.
	UPivotIndex []int
	UPivotValue []float64

	// UPivotLookup[v] == i  =>  UPivotIndex[i] == v. Sized numCol+numRow
	// per spec §3, though only row-range indices [0,numRow) are ever
	// used as keys by this engine (structural-variable lookups are a
	// simplex-driver concern outside this scope).
	UPivotLookup []int

	// U by columns, trailing free space per column.
	UStart []int
	ULastP []int
	UIndex []int
	UValue []float64

	// U by rows, trailing free space per row, shared backing array.
	URStart []int
	URLastP []int
	URSpace []int
	URIndex []int
	URValue []float64

	// Product-form row etas accumulated since the last refactor.
	PFPivotIndex []int
	PFStart      []int
	PFIndex      []int
	PFValue      []float64

	// UTotalX is a running count of live U+R entries. Update maintains it
	// but does not read it: the UpdateLimitReached hint depends only on the
	// number of updates since the last Build.
	UTotalX int
}

// New allocates a Store configured by opts. Setup and Build must be
// called before any solve or update.
func New(opts ...Option) *Store {
	return &Store{cfg: gatherOptions(opts...)}
}

// NumRow reports the row dimension m fixed by the last Setup.
func (s *Store) NumRow() int { return s.numRow }

// NumCol reports the column dimension n fixed by the last Setup.
func (s *Store) NumCol() int { return s.numCol }

// Built reports whether Build has run at least once since the last
// Setup, including a Build that reported rank deficiency.
func (s *Store) Built() bool { return s.built }

// UpdateCount reports the number of Forrest-Tomlin updates applied since
// the last refactorization.
func (s *Store) UpdateCount() int { return len(s.PFPivotIndex) }

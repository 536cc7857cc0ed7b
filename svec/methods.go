// SPDX-License-Identifier: MIT
package svec

import "math"

// Clear resets the buffer: Count becomes 0, every position previously
// listed in Index is zeroed in Array, and SyntheticTick is reset. Array
// positions not listed in Index are left as they are. Complexity: O(Count).
func (v *Vector) Clear() {
	for _, p := range v.Index[:v.Count] {
		v.Array[p] = 0
	}
	v.Count = 0
	v.Index = v.Index[:0]
	v.SyntheticTick = 0
}

// Tight removes from Index (and zeros in Array) every entry whose magnitude
// is <= tol. Applying Tight twice is a no-op (spec §8 property 7): the
// second pass finds every surviving entry already above tol.
// Complexity: O(Count).
func (v *Vector) Tight(tol float64) {
	kept := v.Index[:0]
	for _, p := range v.Index[:v.Count] {
		if math.Abs(v.Array[p]) <= tol {
			v.Array[p] = 0
			continue
		}
		kept = append(kept, p)
	}
	v.Index = kept
	v.Count = len(kept)
}

// Pack copies the current (Index, Array[Index]) pairs into PackIndex/
// PackValue, the compact form FT's updater consumes. Complexity: O(Count).
func (v *Vector) Pack() {
	if cap(v.PackIndex) < v.Count {
		v.PackIndex = make([]int, v.Count)
		v.PackValue = make([]float64, v.Count)
	}
	v.PackIndex = v.PackIndex[:v.Count]
	v.PackValue = v.PackValue[:v.Count]
	for i, p := range v.Index[:v.Count] {
		v.PackIndex[i] = p
		v.PackValue[i] = v.Array[p]
	}
	v.PackCount = v.Count
}

// CollectAj adds s*A[:,j] to the buffer in place, where A is given in
// compressed-column form (aStart, aIndex, aValue). A position is recorded
// as a new nonzero the first time it is touched (Array[pos] == 0 test, per
// spec §4.1); positions already nonzero are simply accumulated into.
// Complexity: O(nnz(A[:,j])).
func (v *Vector) CollectAj(aStart, aIndex []int, aValue []float64, j int, s float64) {
	for k := aStart[j]; k < aStart[j+1]; k++ {
		pos := aIndex[k]
		if v.Array[pos] == 0 {
			v.Index = append(v.Index, pos)
			v.Count++
		}
		v.Array[pos] += s * aValue[k]
	}
}

// Scatter sets Array[pos] = val, recording pos in Index if it was not
// already a tracked nonzero position (Array[pos] == 0 test). Used by the
// triangular solve kernel and FT eta application to fill new entries
// without duplicating index bookkeeping logic at every call site.
func (v *Vector) Scatter(pos int, val float64) {
	if v.Array[pos] == 0 && val != 0 {
		v.Index = append(v.Index, pos)
		v.Count++
	}
	v.Array[pos] = val
}

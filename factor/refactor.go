// SPDX-License-Identifier: MIT
package factor

import (
	"math"
)

// uPair is a (row, value) entry used only while the refactorization
// driver is assembling the column/row working lists; it never escapes
// this file.
type uPair struct {
	row int
	val float64
}

// Build runs the refactorization driver: a Markowitz-style sparse LU of
// the basis matrix selected by basicIndex in Setup, with threshold
// partial pivoting restricted by pivot_threshold and pivot_tolerance
// (spec §4.6). It discards any accumulated FT updates and produces a
// fresh FS with p = 0 and no tombstoned slots.
//
// Columns are processed in the fixed order of basicIndex (no column
// permutation, only row permutation via pivot choice), the same
// restriction other_examples/edp1096-sparse's Markowitz driver makes;
// this keeps the resulting column-form/row-form storage exactly the
// shape the triangular solve kernel and the FT updater expect.
//
// Returns the count of columns for which no acceptable pivot was found
// (0 means full rank) and a *RankDeficiencyError wrapping that same
// count when it is nonzero, so callers preferring the error form can
// use errors.As/errors.Is instead of checking the return value.
func (s *Store) Build() (int, error) {
	start := s.cfg.clock.Now()
	m := s.numRow

	row := make([]map[int]float64, m)
	col := make([]map[int]float64, m)
	for i := 0; i < m; i++ {
		row[i] = make(map[int]float64)
	}
	for j := 0; j < m; j++ {
		col[j] = make(map[int]float64)
		aCol := s.basicIndex[j]
		for k := s.aStart[aCol]; k < s.aStart[aCol+1]; k++ {
			r, v := s.aIndex[k], s.aValue[k]
			if v == 0 {
				continue
			}
			row[r][j] = v
			col[j][r] = v
		}
	}

	lPivot := make([]int, m)
	uPivot := make([]int, m)
	uValue := make([]float64, m)
	lCols := make([][]uPair, m)
	lrBuild := make([][]uPair, m)
	uColHistorical := make([][]uPair, m) // U-column j's entries from rows pivoted earlier than j
	urRowBuild := make([][]uPair, m)      // row r's UR entries, accumulated as later columns pivot

	deficiency := 0

	for j := 0; j < m; j++ {
		live := col[j]

		r, pivotVal, acceptable := s.choosePivot(live, row)
		if !acceptable {
			deficiency++
		}
		if r < 0 {
			// Structurally empty column: nothing left to pivot against.
			// Pick an arbitrary never-pivoted row to keep the
			// permutation total; no elimination is possible.
			for i := 0; i < m; i++ {
				if row[i] != nil {
					r = i
					break
				}
			}
			pivotVal = 0
		}

		lPivot[j] = r
		uPivot[j] = r
		uValue[j] = pivotVal

		// Historical entries in this column become U-column j and, now
		// that we know which row r this step pivoted, also become the
		// matching entry of row r'(earlier)'s UR list.
		for _, h := range uColHistorical[j] {
			urRowBuild[h.row] = append(urRowBuild[h.row], uPair{row: r, val: h.val})
		}

		if pivotVal != 0 {
			for i2, a := range live {
				if i2 == r {
					continue
				}
				l := a / pivotVal
				lCols[j] = append(lCols[j], uPair{row: i2, val: l})
				lrBuild[i2] = append(lrBuild[i2], uPair{row: r, val: l})

				for k, rv := range row[r] {
					if k == j {
						continue
					}
					cur := row[i2][k]
					nv := cur - l*rv
					if nv == 0 {
						if cur != 0 {
							delete(row[i2], k)
							delete(col[k], i2)
						}
						continue
					}
					row[i2][k] = nv
					col[k][i2] = nv
				}
				delete(row[i2], j)
			}
		}

		// Freeze row r: its remaining live entries (at columns not yet
		// pivoted) become historical U-column contributions, and must
		// leave the live column maps so later choosePivot calls never
		// reconsider a retired row.
		for k, val := range row[r] {
			if k == j {
				continue
			}
			uColHistorical[k] = append(uColHistorical[k], uPair{row: r, val: val})
			delete(col[k], r)
		}
		row[r] = nil
		col[j] = nil
	}

	s.finishRefactor(lPivot, uPivot, uValue, lCols, lrBuild, uColHistorical, urRowBuild)

	s.built = true
	s.cfg.logSink.Logf(1, "factor: Build: m=%d deficiency=%d elapsed=%d", m, deficiency, s.cfg.clock.Now()-start)
	if deficiency > 0 {
		return deficiency, &RankDeficiencyError{Count: deficiency}
	}
	return 0, nil
}

// choosePivot selects a row from the live (still-active) entries of
// column j using threshold partial pivoting with Markowitz tie-breaking
// (spec §4.6). acceptable is false when even the best candidate fails
// the absolute pivot tolerance, in which case it is still returned as a
// usable (if risky) pivot and the caller counts the column as deficient
// per the GLOSSARY definition of rank deficiency. r is -1 when the
// column has no nonzero entries at all among active rows.
func (s *Store) choosePivot(live map[int]float64, row []map[int]float64) (r int, pivotVal float64, acceptable bool) {
	if len(live) == 0 {
		return -1, 0, false
	}

	maxAbs := 0.0
	for _, v := range live {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs < s.cfg.pivotTolerance {
		// No candidate clears the absolute floor; fall back to the
		// largest-magnitude entry so the permutation stays total.
		best, bestVal := -1, 0.0
		for i, v := range live {
			if best < 0 || math.Abs(v) > math.Abs(bestVal) {
				best, bestVal = i, v
			}
		}
		return best, bestVal, false
	}

	tau := s.cfg.pivotThreshold
	best, bestVal, bestMerit := -1, 0.0, -1
	for i, v := range live {
		if math.Abs(v) < tau*maxAbs || math.Abs(v) < s.cfg.pivotTolerance {
			continue
		}
		merit := (len(row[i]) - 1) * (len(live) - 1)
		if best < 0 || merit < bestMerit || (merit == bestMerit && i < best) {
			best, bestVal, bestMerit = i, v, merit
		}
	}
	return best, bestVal, true
}

// finishRefactor compresses the working lists built by Build into the
// store's CSC/CSR arrays, replacing any prior factorization wholesale.
func (s *Store) finishRefactor(lPivot, uPivot []int, uValue []float64, lCols, lrBuild, uColHistorical, urRowBuild [][]uPair) {
	m := s.numRow

	s.LPivotIndex = lPivot
	s.LStart = make([]int, m+1)
	var lIndex []int
	var lValue []float64
	for j := 0; j < m; j++ {
		s.LStart[j] = len(lIndex)
		for _, p := range lCols[j] {
			lIndex = append(lIndex, p.row)
			lValue = append(lValue, p.val)
		}
	}
	s.LStart[m] = len(lIndex)
	s.LIndex, s.LValue = lIndex, lValue

	s.LRStart = make([]int, m+1)
	var lrIndex []int
	var lrValue []float64
	for i := 0; i < m; i++ {
		s.LRStart[i] = len(lrIndex)
		for _, p := range lrBuild[lPivot[i]] {
			lrIndex = append(lrIndex, p.row)
			lrValue = append(lrValue, p.val)
		}
	}
	s.LRStart[m] = len(lrIndex)
	s.LRIndex, s.LRValue = lrIndex, lrValue

	s.UPivotIndex = uPivot
	s.UPivotValue = uValue
	s.UPivotLookup = make([]int, s.numCol+s.numRow)
	for i := range s.UPivotLookup {
		s.UPivotLookup[i] = -1
	}
	for slot, r := range uPivot {
		s.UPivotLookup[r] = slot
	}

	s.UStart = make([]int, m)
	s.ULastP = make([]int, m)
	var uIndex []int
	var uValue2 []float64
	for j := 0; j < m; j++ {
		s.UStart[j] = len(uIndex)
		for _, p := range uColHistorical[j] {
			uIndex = append(uIndex, p.row)
			uValue2 = append(uValue2, p.val)
		}
		s.ULastP[j] = len(uIndex)
	}
	s.UIndex, s.UValue = uIndex, uValue2

	s.URStart = make([]int, m)
	s.URLastP = make([]int, m)
	s.URSpace = make([]int, m)
	var urIndex []int
	var urValue []float64
	for i := 0; i < m; i++ {
		r := lPivot[i]
		s.URStart[i] = len(urIndex)
		for _, p := range urRowBuild[r] {
			urIndex = append(urIndex, p.row)
			urValue = append(urValue, p.val)
		}
		s.URLastP[i] = len(urIndex)
		s.URSpace[i] = 0
	}
	s.URIndex, s.URValue = urIndex, urValue

	s.PFPivotIndex = nil
	s.PFStart = []int{0}
	s.PFIndex = nil
	s.PFValue = nil

	s.UTotalX = len(uIndex) + len(urIndex)
	s.density = densityTracker{}
}

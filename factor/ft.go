// SPDX-License-Identifier: MIT
package factor

import (
	"fmt"
	"math"

	"github.com/go-sparselu/sparselu/svec"
)

// ftranFT applies the forward row-eta pass of the PF buffer (spec §4.4):
// for each eta in append order, v[r] is replaced by v[r] minus the eta's
// dot product with the rest of v.
func (s *Store) ftranFT(v *svec.Vector) {
	for i := 0; i < len(s.PFPivotIndex); i++ {
		r := s.PFPivotIndex[i]
		v0 := v.Array[r]
		v1 := v0
		for k := s.PFStart[i]; k < s.PFStart[i+1]; k++ {
			v1 -= v.Array[s.PFIndex[k]] * s.PFValue[k]
		}
		if v0 == 0 && v1 == 0 {
			continue
		}
		if math.Abs(v1) < s.cfg.epsilonTiny {
			v1 = 0
		}
		if v0 == 0 && v1 != 0 {
			v.Index = append(v.Index, r)
			v.Count++
		}
		v.Array[r] = v1
	}
}

// btranFT applies the backward row-eta pass of the PF buffer (spec §4.4),
// walking etas in reverse append order.
func (s *Store) btranFT(v *svec.Vector) {
	for i := len(s.PFPivotIndex) - 1; i >= 0; i-- {
		r := s.PFPivotIndex[i]
		x := v.Array[r]
		if x == 0 {
			continue
		}
		for k := s.PFStart[i]; k < s.PFStart[i+1]; k++ {
			pos := s.PFIndex[k]
			nv := v.Array[pos] - x*s.PFValue[k]
			if v.Array[pos] == 0 && nv != 0 {
				v.Index = append(v.Index, pos)
				v.Count++
			}
			if math.Abs(nv) < s.cfg.epsilonTiny {
				nv = 0
			}
			v.Array[pos] = nv
		}
	}
}

// Update applies one Forrest-Tomlin product-form step (spec §4.5): the
// basic variable at rowOut leaves, aq = B^-1*A[:,in] and ep =
// B^-T*e_rowOut have already been produced by the caller (packed), and
// the store's factorization is advanced in place to reflect the new
// basis without a full refactorization.
//
// On ErrNumericalFailure the store is left exactly as it was; the
// caller must refactor before solving again. On success the returned
// Hint is OK or UpdateLimitReached, a soft signal (not an error) that a
// refactorization is now cheaper than further updates.
func (s *Store) Update(aq, ep *svec.Vector, rowOut int) (Hint, error) {
	if !s.built {
		return OK, ErrNotBuilt
	}
	if rowOut < 0 || rowOut >= s.numRow {
		return OK, fmt.Errorf("factor: Update: rowOut %d out of range [0,%d): %w", rowOut, s.numRow, ErrDimensionMismatch)
	}
	if aq.Len() != s.numRow || ep.Len() != s.numRow {
		return OK, fmt.Errorf("factor: Update: %w", ErrDimensionMismatch)
	}

	start := s.cfg.clock.Now()

	aq.Tight(s.cfg.epsilonTiny)
	aq.Pack()
	ep.Tight(s.cfg.epsilonTiny)
	ep.Pack()

	pLogic := s.UPivotLookup[rowOut]
	pivot := s.UPivotValue[pLogic]
	alpha := aq.Array[rowOut]

	if alpha == 0 || math.Abs(pivot*alpha) < s.cfg.epsilonTiny {
		return Numerical, ErrNumericalFailure
	}

	// Step 1: retire the leaving pivot's slot.
	s.UPivotIndex[pLogic] = -1

	// Step 2: delete rowOut from every column's U-view that currently
	// carries an entry there, found via pLogic's own UR row.
	for k := s.URStart[pLogic]; k < s.URLastP[pLogic]; k++ {
		col := s.UPivotLookup[s.URIndex[k]]
		last := s.ULastP[col] - 1
		for t := s.UStart[col]; t <= last; t++ {
			if s.UIndex[t] == rowOut {
				s.UIndex[t], s.UIndex[last] = s.UIndex[last], s.UIndex[t]
				s.UValue[t], s.UValue[last] = s.UValue[last], s.UValue[t]
				break
			}
		}
		s.ULastP[col] = last
	}

	// Step 3: delete pLogic's column identity (rowOut) from every row's
	// UR-view it appears in, found via pLogic's own U column.
	for k := s.UStart[pLogic]; k < s.ULastP[pLogic]; k++ {
		rowSlot := s.UPivotLookup[s.UIndex[k]]
		last := s.URLastP[rowSlot] - 1
		for t := s.URStart[rowSlot]; t <= last; t++ {
			if s.URIndex[t] == rowOut {
				s.URIndex[t], s.URIndex[last] = s.URIndex[last], s.URIndex[t]
				s.URValue[t], s.URValue[last] = s.URValue[last], s.URValue[t]
				break
			}
		}
		s.URLastP[rowSlot] = last
		s.URSpace[rowSlot]++
	}

	deletedUColSize := s.ULastP[pLogic] - s.UStart[pLogic]
	deletedURRowSize := s.URLastP[pLogic] - s.URStart[pLogic]
	oldPLogicStart := s.URStart[pLogic]
	oldPLogicSpace := s.URSpace[pLogic]

	// Step 4: append the new column to the U-col view.
	newColStart := len(s.UIndex)
	s.UStart = append(s.UStart, newColStart)
	added := 0
	for idx := 0; idx < aq.PackCount; idx++ {
		r := aq.PackIndex[idx]
		if r == rowOut {
			continue
		}
		s.UIndex = append(s.UIndex, r)
		s.UValue = append(s.UValue, aq.PackValue[idx])
		added++
	}
	s.ULastP = append(s.ULastP, len(s.UIndex))
	s.UTotalX += added + 1

	// Step 5: insert the new column into the UR-row view, row by row.
	for idx := 0; idx < aq.PackCount; idx++ {
		r := aq.PackIndex[idx]
		if r == rowOut {
			continue
		}
		iLogic := s.UPivotLookup[r]
		if s.URSpace[iLogic] == 0 {
			s.relocateURRow(iLogic)
		}
		pos := s.URLastP[iLogic]
		s.URIndex[pos] = rowOut
		s.URValue[pos] = aq.PackValue[idx]
		s.URLastP[iLogic]++
		s.URSpace[iLogic]--
	}

	// Step 6: the new pivot's empty UR row slot reuses pLogic's old
	// backing region and its accumulated slack.
	s.URStart = append(s.URStart, oldPLogicStart)
	s.URLastP = append(s.URLastP, oldPLogicStart)
	s.URSpace = append(s.URSpace, oldPLogicSpace+deletedURRowSize)

	// Step 7: register the new pivot.
	newSlot := len(s.UPivotIndex)
	s.UPivotLookup[rowOut] = newSlot
	s.UPivotIndex = append(s.UPivotIndex, rowOut)
	s.UPivotValue = append(s.UPivotValue, pivot*alpha)

	// Step 8: append the R eta from ep.
	for idx := 0; idx < ep.PackCount; idx++ {
		col := ep.PackIndex[idx]
		if col == rowOut {
			continue
		}
		s.PFIndex = append(s.PFIndex, col)
		s.PFValue = append(s.PFValue, -ep.PackValue[idx]*pivot)
	}
	s.PFPivotIndex = append(s.PFPivotIndex, rowOut)
	s.PFStart = append(s.PFStart, len(s.PFIndex))

	// Step 9: account for the two ranges retired in steps 2-3, then
	// leave the tombstoned slot's own ranges empty (spec §8 property:
	// deleted slot ranges must be empty), since their backing slots now
	// belong to the new pivot's row registered in step 6.
	s.UTotalX -= deletedUColSize + deletedURRowSize
	s.ULastP[pLogic] = s.UStart[pLogic]
	s.URLastP[pLogic] = s.URStart[pLogic]
	s.URSpace[pLogic] = 0

	hint := OK
	if len(s.PFPivotIndex) >= s.cfg.updateLimit {
		hint = UpdateLimitReached
	}
	s.cfg.logSink.Logf(2, "factor: Update: rowOut=%d hint=%s elapsed=%d", rowOut, hint, s.cfg.clock.Now()-start)
	return hint, nil
}

// relocateURRow moves row iLogic's UR entries to the tail of the shared
// backing array, reserving extra slack so near-future inserts into this
// row don't need to relocate again immediately (spec §4.5 step 5). The
// abandoned region is never reused before the next refactorization.
func (s *Store) relocateURRow(iLogic int) {
	oldStart, oldLast := s.URStart[iLogic], s.URLastP[iLogic]
	rowCount := oldLast - oldStart
	newSpace := int(math.Ceil(1.1*float64(rowCount))) + 5

	newStart := len(s.URIndex)
	s.URIndex = append(s.URIndex, make([]int, rowCount+newSpace)...)
	s.URValue = append(s.URValue, make([]float64, rowCount+newSpace)...)
	copy(s.URIndex[newStart:], s.URIndex[oldStart:oldLast])
	copy(s.URValue[newStart:], s.URValue[oldStart:oldLast])

	s.URStart[iLogic] = newStart
	s.URLastP[iLogic] = newStart + rowCount
	s.URSpace[iLogic] = newSpace
}

// SPDX-License-Identifier: MIT
package factor

import (
	"fmt"
	"math"

	"github.com/go-sparselu/sparselu/svec"
)

// FTRAN solves B*x = r in place: vec enters holding r and leaves holding
// x. expectedDensity is the caller's estimate of the solution's density
// (e.g. from pricing); it is blended with the instantaneous and
// historical density already tracked by the store when choosing the
// hyper-sparse/dense path for each stage, per spec §4.3/§9.
func (s *Store) FTRAN(vec *svec.Vector, expectedDensity float64) error {
	if !s.built {
		return ErrNotBuilt
	}
	if vec.Len() != s.numRow {
		return fmt.Errorf("factor: FTRAN: %w", ErrDimensionMismatch)
	}

	s.ftranL(vec, expectedDensity)
	s.ftranU(vec, expectedDensity)
	return nil
}

// BTRAN solves B^T*x = r in place, applying U^-T then L^-T (spec §4.3).
func (s *Store) BTRAN(vec *svec.Vector, expectedDensity float64) error {
	if !s.built {
		return ErrNotBuilt
	}
	if vec.Len() != s.numRow {
		return fmt.Errorf("factor: BTRAN: %w", ErrDimensionMismatch)
	}

	s.btranU(vec, expectedDensity)
	s.btranL(vec, expectedDensity)
	return nil
}

func (s *Store) ftranL(rhs *svec.Vector, expectedDensity float64) {
	m := s.numRow
	current := math.Max(rhs.Density(), expectedDensity)
	hyper := !(current > s.cfg.hyperCancel || s.density.ftranL > s.cfg.hyperFTRANL)

	for i := 0; i < m; i++ {
		r := s.LPivotIndex[i]
		x := rhs.Array[r]
		if math.Abs(x) <= s.cfg.epsilonTiny {
			rhs.Array[r] = 0
			continue
		}
		set(rhs, r, x, hyper)
		for k := s.LStart[i]; k < s.LStart[i+1]; k++ {
			col := s.LIndex[k]
			set(rhs, col, rhs.Array[col]-x*s.LValue[k], hyper)
		}
	}
	s.density.ftranL = ewma(s.density.ftranL, current)
}

func (s *Store) ftranU(rhs *svec.Vector, expectedDensity float64) {
	if len(s.PFPivotIndex) > 0 {
		s.ftranFT(rhs)
		rhs.Tight(s.cfg.epsilonTiny)
		rhs.Pack()
	}

	current := math.Max(rhs.Density(), expectedDensity)
	hyper := !(current > s.cfg.hyperCancel || s.density.ftranU > s.cfg.hyperFTRANU)

	extWork := 0.0
	extCount := 0
	for i := len(s.UPivotIndex) - 1; i >= 0; i-- {
		if s.UPivotIndex[i] == -1 {
			continue
		}
		row := s.UPivotIndex[i]
		x := rhs.Array[row]
		if x == 0 {
			continue
		}
		x /= s.UPivotValue[i]
		set(rhs, row, x, hyper)
		for k := s.UStart[i]; k < s.ULastP[i]; k++ {
			col := s.UIndex[k]
			set(rhs, col, rhs.Array[col]-x*s.UValue[k], hyper)
		}
		if i >= s.numRow {
			extCount++
			extWork += float64(s.ULastP[i] - s.UStart[i])
		}
	}
	rhs.SyntheticTick += 15*extWork + 10*float64(extCount)
	s.density.ftranU = ewma(s.density.ftranU, current)
}

func (s *Store) btranU(rhs *svec.Vector, expectedDensity float64) {
	current := math.Max(rhs.Density(), expectedDensity)
	hyper := !(current > s.cfg.hyperCancel || s.density.btranU > s.cfg.hyperBTRANU)

	for i := 0; i < len(s.UPivotIndex); i++ {
		if s.UPivotIndex[i] == -1 {
			continue
		}
		p := s.UPivotIndex[i]
		x := rhs.Array[p]
		if math.Abs(x) <= s.cfg.epsilonTiny {
			continue
		}
		x /= s.UPivotValue[i]
		set(rhs, p, x, hyper)
		for k := s.URStart[i]; k < s.URLastP[i]; k++ {
			col := s.URIndex[k]
			set(rhs, col, rhs.Array[col]-x*s.URValue[k], hyper)
		}
	}
	s.density.btranU = ewma(s.density.btranU, current)

	if len(s.PFPivotIndex) > 0 {
		rhs.Tight(s.cfg.epsilonTiny)
		rhs.Pack()
		s.btranFT(rhs)
		rhs.Tight(s.cfg.epsilonTiny)
	}
}

func (s *Store) btranL(rhs *svec.Vector, expectedDensity float64) {
	current := math.Max(rhs.Density(), expectedDensity)
	hyper := !(current > s.cfg.hyperCancel || s.density.btranL > s.cfg.hyperBTRANL)

	for i := s.numRow - 1; i >= 0; i-- {
		r := s.LPivotIndex[i]
		x := rhs.Array[r]
		if math.Abs(x) <= s.cfg.epsilonTiny {
			rhs.Array[r] = 0
			continue
		}
		set(rhs, r, x, hyper)
		for k := s.LRStart[i]; k < s.LRStart[i+1]; k++ {
			col := s.LRIndex[k]
			set(rhs, col, rhs.Array[col]-x*s.LRValue[k], hyper)
		}
	}
	s.density.btranL = ewma(s.density.btranL, current)
}

// set writes val at pos, maintaining the hyper-sparse Index when hyper
// is true (via Scatter) and writing the dense array directly otherwise.
// In the dense case Index is left stale: positions first filled here are
// not added to it, and Tight/Pack work from Index only, so they do not
// pick those positions up either.
func set(v *svec.Vector, pos int, val float64, hyper bool) {
	if hyper {
		v.Scatter(pos, val)
		return
	}
	v.Array[pos] = val
}

package factor

import (
	"testing"

	"github.com/go-sparselu/sparselu/svec"
	"github.com/stretchr/testify/require"
)

func identityStore(t *testing.T, m int) *Store {
	t.Helper()
	aStart := make([]int, m+1)
	aIndex := make([]int, m)
	aValue := make([]float64, m)
	basicIndex := make([]int, m)
	for i := 0; i < m; i++ {
		aStart[i] = i
		aIndex[i] = i
		aValue[i] = 1
		basicIndex[i] = i
	}
	aStart[m] = m

	s := New()
	require.NoError(t, s.Setup(m, m, aStart, aIndex, aValue, basicIndex))
	deficiency, err := s.Build()
	require.NoError(t, err)
	require.Zero(t, deficiency)
	return s
}

func denseVec(t *testing.T, n int, entries map[int]float64) *svec.Vector {
	t.Helper()
	v, err := svec.NewVector(n)
	require.NoError(t, err)
	for pos, val := range entries {
		v.Scatter(pos, val)
	}
	return v
}

// S3: a single Forrest-Tomlin update that replaces the basic column
// pivoting at a given row with a new column of the same sparsity
// pattern but a different value, then re-solves against the new basis.
func TestUpdate_SingleStep(t *testing.T) {
	s := permuted3x3(t)

	// B's column at basic slot0 pivots at row1 with value 3; replace it
	// with a column that still only touches row1, value 7.
	cNew := denseVec(t, 3, map[int]float64{1: 7})
	require.NoError(t, s.FTRAN(cNew, 1.0)) // aq = B^-1 * cNew

	eRowOut := denseVec(t, 3, map[int]float64{1: 1})
	require.NoError(t, s.BTRAN(eRowOut, 1.0)) // ep = B^-T * e_1

	hint, err := s.Update(cNew, eRowOut, 1)
	require.NoError(t, err)
	require.Equal(t, OK, hint)
	require.Equal(t, 1, s.UpdateCount())

	// New diagonal at row1 is 7, row0 still 2, row2 still 5.
	r := denseVec(t, 3, map[int]float64{0: 2, 1: 14, 2: 15})
	require.NoError(t, s.FTRAN(r, 1.0))
	require.InDelta(t, 1.0, r.Array[0], 1e-9)
	require.InDelta(t, 2.0, r.Array[1], 1e-9)
	require.InDelta(t, 3.0, r.Array[2], 1e-9)
}

func TestUpdate_RejectsDimensionMismatch(t *testing.T) {
	s := permuted3x3(t)
	bad, err := svec.NewVector(2)
	require.NoError(t, err)
	_, err = s.Update(bad, bad, 0)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestUpdate_NumericalFailureLeavesStoreIntact(t *testing.T) {
	s := permuted3x3(t)
	before := append([]int(nil), s.UPivotIndex...)

	aq := denseVec(t, 3, map[int]float64{0: 1e-30})
	ep := denseVec(t, 3, map[int]float64{1: 1})

	hint, err := s.Update(aq, ep, 1)
	require.ErrorIs(t, err, ErrNumericalFailure)
	require.Equal(t, Numerical, hint)
	require.Equal(t, before, s.UPivotIndex)
	require.Zero(t, s.UpdateCount())
}

// S5: repeated updates that each leave one fill entry in the same UR
// row force that row's backing space to exhaust and relocate more than
// once; the row's accumulated entries must survive intact.
func TestUpdate_URRowRelocates(t *testing.T) {
	const m = 7
	const targetRow = 6
	s := identityStore(t, m)

	for i := 0; i < targetRow; i++ {
		cNew := denseVec(t, m, map[int]float64{i: 1, targetRow: float64(i + 1)})
		require.NoError(t, s.FTRAN(cNew, 1.0))

		eRowOut := denseVec(t, m, map[int]float64{i: 1})
		require.NoError(t, s.BTRAN(eRowOut, 1.0))

		hint, err := s.Update(cNew, eRowOut, i)
		require.NoError(t, err)
		require.Equal(t, OK, hint)
	}

	slot := s.UPivotLookup[targetRow]
	require.Equal(t, targetRow, s.UPivotIndex[slot])

	got := map[int]float64{}
	for k := s.URStart[slot]; k < s.URLastP[slot]; k++ {
		got[s.URIndex[k]] = s.URValue[k]
	}
	want := map[int]float64{0: 1, 1: 2, 2: 3, 3: 4, 4: 5, 5: 6}
	require.Equal(t, want, got)

	// Two relocations (rowCount 0->5 and 5->6 crossing zero space) leave
	// 10 slack slots behind the 6 live entries.
	require.Equal(t, 10, s.URSpace[slot])
}

// S4: a large identity basis exercises both the hyper-sparse and dense
// solve paths depending on the caller-supplied expected density, with
// identical (trivial) results either way.
func TestFTRAN_HyperSparseAndDenseAgree(t *testing.T) {
	const m = 1000
	s := identityStore(t, m)

	hyper := denseVec(t, m, map[int]float64{17: 5})
	require.NoError(t, s.FTRAN(hyper, 0.001))
	require.Equal(t, 5.0, hyper.Array[17])

	dense := denseVec(t, m, map[int]float64{17: 5})
	require.NoError(t, s.FTRAN(dense, 0.99))
	require.Equal(t, 5.0, dense.Array[17])
}

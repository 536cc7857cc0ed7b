package svec_test

import (
	"testing"

	"github.com/go-sparselu/sparselu/svec"
	"github.com/stretchr/testify/require"
)

func TestNewVector_BadSize(t *testing.T) {
	_, err := svec.NewVector(0)
	require.ErrorIs(t, err, svec.ErrBadSize)

	_, err = svec.NewVector(-3)
	require.ErrorIs(t, err, svec.ErrBadSize)
}

func TestVector_ClearZeroesTrackedEntries(t *testing.T) {
	v, err := svec.NewVector(5)
	require.NoError(t, err)

	v.Scatter(1, 3.0)
	v.Scatter(3, -2.0)
	require.Equal(t, 2, v.Count)

	v.Clear()
	require.Equal(t, 0, v.Count)
	require.Empty(t, v.Index)
	for _, x := range v.Array {
		require.Zero(t, x)
	}
}

func TestVector_TightDropsSmallEntries(t *testing.T) {
	v, err := svec.NewVector(4)
	require.NoError(t, err)

	v.Scatter(0, 1e-30)
	v.Scatter(2, 5.0)
	v.Tight(svec.DefaultEpsilonTiny)

	require.Equal(t, 1, v.Count)
	require.Equal(t, []int{2}, v.Index)
	require.Zero(t, v.Array[0])
}

func TestVector_TightIdempotent(t *testing.T) {
	v, err := svec.NewVector(4)
	require.NoError(t, err)

	v.Scatter(0, 1e-30)
	v.Scatter(2, 5.0)
	v.Tight(svec.DefaultEpsilonTiny)
	first := append([]int(nil), v.Index...)

	v.Tight(svec.DefaultEpsilonTiny)
	require.Equal(t, first, v.Index)
	require.Equal(t, 1, v.Count)
}

func TestVector_PackProducesCompactPairs(t *testing.T) {
	v, err := svec.NewVector(6)
	require.NoError(t, err)

	v.Scatter(4, 7.0)
	v.Scatter(1, -1.5)
	v.Pack()

	require.Equal(t, 2, v.PackCount)
	got := map[int]float64{}
	for i := 0; i < v.PackCount; i++ {
		got[v.PackIndex[i]] = v.PackValue[i]
	}
	require.Equal(t, map[int]float64{4: 7.0, 1: -1.5}, got)
}

func TestVector_PackOfClearIsEmpty(t *testing.T) {
	v, err := svec.NewVector(3)
	require.NoError(t, err)

	v.Scatter(0, 9.0)
	v.Clear()
	v.Pack()

	require.Zero(t, v.PackCount)
}

func TestVector_CollectAj(t *testing.T) {
	// A = [[1,0],[2,3],[0,4]] in compressed-column form.
	aStart := []int{0, 2, 4}
	aIndex := []int{0, 1, 1, 2}
	aValue := []float64{1, 2, 3, 4}

	v, err := svec.NewVector(3)
	require.NoError(t, err)

	v.CollectAj(aStart, aIndex, aValue, 1, 2.0) // 2 * column 1 = (0,6,8)
	require.Equal(t, 2, v.Count)
	require.Equal(t, 6.0, v.Array[1])
	require.Equal(t, 8.0, v.Array[2])

	v.CollectAj(aStart, aIndex, aValue, 0, 1.0) // += column 0 = (1,2,0)
	require.Equal(t, 3, v.Count)
	require.Equal(t, 1.0, v.Array[0])
	require.Equal(t, 8.0, v.Array[1])
}

func TestVector_DensityAndHyperSparse(t *testing.T) {
	v, err := svec.NewVector(10)
	require.NoError(t, err)

	v.Scatter(0, 1.0)
	require.InDelta(t, 0.1, v.Density(), 1e-9)
	require.True(t, v.IsHyperSparse())

	for i := 1; i < 9; i++ {
		v.Scatter(i, 1.0)
	}
	require.False(t, v.IsHyperSparse())
}

package zonalib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartitionCoversGridExactly(t *testing.T) {
	cases := []struct{ h, w, chunk int }{
		{4, 4, 2},
		{5, 3, 2},
		{2000, 3000, 2000},
		{7, 7, 7},
		{1, 10, 3},
		{10, 1, 4},
	}
	for _, tc := range cases {
		wins := Partition(tc.h, tc.w, tc.chunk)
		nRows := (tc.h + tc.chunk - 1) / tc.chunk
		nCols := (tc.w + tc.chunk - 1) / tc.chunk
		require.Len(t, wins, nRows*nCols, "case %+v", tc)

		covered := make([]int, tc.h*tc.w)
		for _, win := range wins {
			require.False(t, win.Empty())
			require.GreaterOrEqual(t, win.Col, 0)
			require.GreaterOrEqual(t, win.Row, 0)
			require.LessOrEqual(t, win.Col+win.W, tc.w)
			require.LessOrEqual(t, win.Row+win.H, tc.h)
			for r := win.Row; r < win.Row+win.H; r++ {
				for c := win.Col; c < win.Col+win.W; c++ {
					covered[r*tc.w+c]++
				}
			}
		}
		for i, n := range covered {
			require.Equal(t, 1, n, "pixel %d covered %d times in case %+v", i, n, tc)
		}
	}
}

func TestPartitionRowMajorOrder(t *testing.T) {
	wins := Partition(5, 5, 2)
	require.Len(t, wins, 9)
	require.Equal(t, Window{Col: 0, Row: 0, W: 2, H: 2}, wins[0])
	require.Equal(t, Window{Col: 2, Row: 0, W: 2, H: 2}, wins[1])
	require.Equal(t, Window{Col: 4, Row: 0, W: 1, H: 2}, wins[2])
	require.Equal(t, Window{Col: 4, Row: 4, W: 1, H: 1}, wins[8])
}

func TestPartitionDegenerateInputs(t *testing.T) {
	require.Nil(t, Partition(0, 10, 2))
	require.Nil(t, Partition(10, 0, 2))
	require.Nil(t, Partition(10, 10, 0))
}

func TestWindowIntersect(t *testing.T) {
	a := Window{Col: 0, Row: 0, W: 4, H: 4}
	b := Window{Col: 2, Row: 3, W: 10, H: 10}
	got, ok := a.Intersect(b)
	require.True(t, ok)
	require.Equal(t, Window{Col: 2, Row: 3, W: 2, H: 1}, got)

	_, ok = a.Intersect(Window{Col: 4, Row: 0, W: 2, H: 2})
	require.False(t, ok)

	_, ok = a.Intersect(Window{Col: -5, Row: -5, W: 3, H: 3})
	require.False(t, ok)
}

func TestPartitionRows(t *testing.T) {
	require.Equal(t, 2, PartitionRows(4, 2))
	require.Equal(t, 3, PartitionRows(5, 2))
	require.Equal(t, 1, PartitionRows(1, 2000))
	require.Equal(t, 0, PartitionRows(0, 2))
	require.Equal(t, 0, PartitionRows(4, 0))
}

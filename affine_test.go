package zonalib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var northUp = Affine{500000, 10, 0, 6000000, 0, -10}

func TestAffineApply(t *testing.T) {
	x, y := northUp.Apply(0, 0)
	require.Equal(t, 500000.0, x)
	require.Equal(t, 6000000.0, y)

	x, y = northUp.Apply(3, 2)
	require.Equal(t, 500030.0, x)
	require.Equal(t, 5999980.0, y)
}

func TestAffineInvertRoundTrip(t *testing.T) {
	inv, err := northUp.Invert()
	require.NoError(t, err)
	for _, p := range [][2]float64{{0, 0}, {7, 3}, {123.5, 88.25}} {
		x, y := northUp.Apply(p[0], p[1])
		col, row := inv.Apply(x, y)
		require.InDelta(t, p[0], col, 1e-9)
		require.InDelta(t, p[1], row, 1e-9)
	}
}

func TestAffineInvertSingular(t *testing.T) {
	_, err := Affine{0, 0, 0, 0, 0, 0}.Invert()
	require.ErrorIs(t, err, ErrSingularTransform)
}

func TestWindowBoundsRoundTrip(t *testing.T) {
	// identity CRS case: bounds -> window recovers the window exactly
	wins := []Window{
		{Col: 0, Row: 0, W: 4, H: 4},
		{Col: 2000, Row: 4000, W: 2000, H: 1371},
		{Col: 17, Row: 3, W: 1, H: 1},
	}
	for _, win := range wins {
		b := WindowBounds(win, northUp)
		got, err := WindowFromBounds(b, northUp)
		require.NoError(t, err)
		require.Equal(t, win, got)
	}
}

func TestAffineFromBounds(t *testing.T) {
	b := Bounds{Left: 100, Bottom: 0, Right: 200, Top: 50}
	tr := AffineFromBounds(b, 10, 5)
	x, y := tr.Apply(0, 0)
	require.Equal(t, 100.0, x)
	require.Equal(t, 50.0, y)
	x, y = tr.Apply(10, 5)
	require.Equal(t, 200.0, x)
	require.Equal(t, 0.0, y)
}

func TestWindowBoundsOrientation(t *testing.T) {
	b := WindowBounds(Window{Col: 1, Row: 1, W: 2, H: 2}, northUp)
	require.True(t, b.Valid())
	require.Equal(t, 500010.0, b.Left)
	require.Equal(t, 500030.0, b.Right)
	require.Equal(t, 5999990.0, b.Top)
	require.Equal(t, 5999970.0, b.Bottom)
}

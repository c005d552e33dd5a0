package zonalib

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResampleNearestPreservesCodes(t *testing.T) {
	g := NewRasterToolbox()
	srs, err := g.getSridRef(ACQUISITION_SRID)
	require.NoError(t, err)

	src := blockOf(4, 4,
		1, 1, 2, 2,
		1, 1, 2, 2,
		3, 3, 1, 1,
		3, 3, 1, 1,
	)
	srcTr := Affine{500000, 10, 0, 6000000, 0, -10}
	// same extent, half the resolution
	dstTr := Affine{500000, 20, 0, 6000000, 0, -20}

	dst, err := g.ResampleBlock(src, srcTr, srs, 2, 2, dstTr, srs, KERNEL_NEAREST)
	require.NoError(t, err)
	codes := map[float32]bool{1: true, 2: true, 3: true}
	for _, v := range dst.Data {
		require.True(t, codes[v], "nearest-neighbor invented code %v", v)
	}
}

func TestResamplePartialCoverageStaysNeutral(t *testing.T) {
	g := NewRasterToolbox()
	srs, err := g.getSridRef(ACQUISITION_SRID)
	require.NoError(t, err)

	src := NewBlock(2, 2)
	src.Fill(7)
	srcTr := Affine{500000, 10, 0, 6000000, 0, -10}
	// destination window extends past the source's east edge
	dstTr := Affine{500010, 10, 0, 6000000, 0, -10}

	dst, err := g.ResampleBlock(src, srcTr, srs, 2, 2, dstTr, srs, KERNEL_NEAREST)
	require.NoError(t, err)
	// first column still covered, second column untouched neutral NaN
	require.Equal(t, float32(7), dst.At(0, 0))
	require.Equal(t, float32(7), dst.At(1, 0))
	require.True(t, math.IsNaN(float64(dst.At(0, 1))))
	require.True(t, math.IsNaN(float64(dst.At(1, 1))))
}

func TestResampleEmptySource(t *testing.T) {
	g := NewRasterToolbox()
	_, err := g.ResampleBlock(Block{}, Affine{}, nil, 2, 2, Affine{}, nil, KERNEL_BILINEAR)
	require.ErrorIs(t, err, ErrEmptySource)
}

func TestTransformBoundsIdentity(t *testing.T) {
	g := NewRasterToolbox()
	srs, err := g.getSridRef(ACQUISITION_SRID)
	require.NoError(t, err)
	b := Bounds{Left: 1, Bottom: 2, Right: 3, Top: 4}
	got, err := g.TransformBounds(b, srs, srs)
	require.NoError(t, err)
	require.Equal(t, b, got)
}

func TestLocateWindowNoOverlap(t *testing.T) {
	g := NewRasterToolbox()
	srs, err := g.getSridRef(ACQUISITION_SRID)
	require.NoError(t, err)
	target := &GridRef{
		Transform: Affine{500000, 10, 0, 6000000, 0, -10},
		SRS:       srs,
		Width:     4,
		Height:    4,
	}
	// a box entirely west of the grid
	far := Bounds{Left: 400000, Bottom: 5999960, Right: 400040, Top: 6000000}
	_, err = g.LocateWindow(far, srs, target)
	require.ErrorIs(t, err, ErrNoOverlap)
}

func TestLocateWindowClipsToGrid(t *testing.T) {
	g := NewRasterToolbox()
	srs, err := g.getSridRef(ACQUISITION_SRID)
	require.NoError(t, err)
	target := &GridRef{
		Transform: Affine{500000, 10, 0, 6000000, 0, -10},
		SRS:       srs,
		Width:     4,
		Height:    4,
	}
	// half inside, half west of the grid
	b := Bounds{Left: 499980, Bottom: 5999980, Right: 500020, Top: 6000000}
	win, err := g.LocateWindow(b, srs, target)
	require.NoError(t, err)
	require.Equal(t, Window{Col: 0, Row: 0, W: 2, H: 2}, win)
}

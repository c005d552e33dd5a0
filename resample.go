package zonalib

import (
	"math"

	"github.com/wgdzlh/zonalib/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// wrapBlock exposes an in-memory block as a single-band float32 GDAL dataset
// so the warper can consume it. The dataset copies the block's pixels; the
// caller still owns blk.
func (g *RasterToolbox) wrapBlock(blk Block, tr Affine, srs *gdal.SpatialRef) (ds *gdal.Dataset, err error) {
	ds, err = gdal.Create(gdal.Memory, "", 1, gdal.Float32, blk.W, blk.H)
	if err != nil {
		log.Error(g.logTag+"create mem dataset failed", zap.Error(err))
		return
	}
	if err = ds.SetGeoTransform([6]float64(tr)); err != nil {
		ds.Close()
		return
	}
	if srs != nil {
		if err = ds.SetSpatialRef(srs); err != nil {
			ds.Close()
			return
		}
	}
	if err = ds.Bands()[0].IO(gdal.IOWrite, 0, 0, blk.Data, blk.W, blk.H); err != nil {
		ds.Close()
		return
	}
	return
}

// ResampleBlock reprojects a source block onto a destination window grid.
// kernel must be KERNEL_NEAREST for categorical codes (anything smoothing
// would invent codes that exist in no category definition) or
// KERNEL_BILINEAR for continuous index values. The destination starts out
// all-NaN so partial source coverage leaves the uncovered pixels neutral.
// A zero-sized source reports ErrEmptySource; callers substitute an
// all-nodata block instead of failing the pass.
func (g *RasterToolbox) ResampleBlock(src Block, srcTr Affine, srcSrs *gdal.SpatialRef,
	dstW, dstH int, dstTr Affine, dstSrs *gdal.SpatialRef, kernel string) (dst Block, err error) {
	if src.W <= 0 || src.H <= 0 {
		err = ErrEmptySource
		return
	}
	if dstW <= 0 || dstH <= 0 {
		err = ErrInvalidWindow
		return
	}
	srcDs, err := g.wrapBlock(src, srcTr, srcSrs)
	if err != nil {
		return
	}
	defer srcDs.Close()

	dst = NewBlock(dstW, dstH)
	dst.Fill(float32(math.NaN()))
	dstDs, err := g.wrapBlock(dst, dstTr, dstSrs)
	if err != nil {
		dst = Block{}
		return
	}
	defer dstDs.Close()

	warpSwitches := []string{"-r", kernel, "-srcnodata", "nan", "-dstnodata", "nan"}
	if err = dstDs.WarpInto([]*gdal.Dataset{srcDs}, warpSwitches); err != nil {
		log.Error(g.logTag+"warp into dest window failed", zap.String("kernel", kernel), zap.Error(err))
		dst = Block{}
		return
	}
	if err = dstDs.Bands()[0].IO(gdal.IORead, 0, 0, dst.Data, dst.W, dst.H); err != nil {
		dst = Block{}
		err = ErrTifReadFailed
	}
	return
}

// NodataBlock is the stand-in for windows whose source coverage is empty.
func NodataBlock(w, h int) Block {
	blk := NewBlock(w, h)
	blk.Fill(float32(math.NaN()))
	return blk
}

// alignedWindowRead reads the part of src spatially covering refWin of the
// reference grid and resamples it onto refWin's pixel grid. The outcome is
// tagged: aligned data, empty (no overlap, caller fills neutral), or a
// recoverable failure.
type alignOutcome int

const (
	alignOk alignOutcome = iota
	alignEmpty
	alignFailed
)

func (g *RasterToolbox) alignedWindowRead(src *Raster, refWin Window, ref *GridRef, kernel string) (blk Block, outcome alignOutcome, err error) {
	refBounds := WindowBounds(refWin, ref.Transform)
	srcWin, err := g.LocateWindow(refBounds, ref.SRS, &src.Grid)
	if err != nil {
		if err == ErrNoOverlap || err == ErrInvalidBounds {
			outcome, err = alignEmpty, nil
			return
		}
		outcome = alignFailed
		return
	}
	raw, err := src.ReadBlock(1, srcWin)
	if err != nil {
		outcome = alignFailed
		return
	}
	// sentinel nodata must become NaN before warping, or interpolation
	// kernels would blend it into real values
	src.MaskNoData(raw)
	// both window grids get exact local transforms rebuilt from their bounds,
	// mirroring how the source window was located
	srcWinTr := AffineFromBounds(WindowBounds(srcWin, src.Grid.Transform), srcWin.W, srcWin.H)
	dstWinTr := AffineFromBounds(refBounds, refWin.W, refWin.H)
	blk, err = g.ResampleBlock(raw, srcWinTr, src.Grid.SRS, refWin.W, refWin.H, dstWinTr, ref.SRS, kernel)
	if err != nil {
		if err == ErrEmptySource {
			outcome, err = alignEmpty, nil
			return
		}
		outcome = alignFailed
		return
	}
	outcome = alignOk
	return
}

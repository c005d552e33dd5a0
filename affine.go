package zonalib

import (
	"math"

	"github.com/wgdzlh/zonalib/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// Affine is a geotransform in GDAL coefficient order:
//
//	x = a[0] + col*a[1] + row*a[2]
//	y = a[3] + col*a[4] + row*a[5]
type Affine [6]float64

// Apply maps pixel coordinates to CRS coordinates.
func (a Affine) Apply(col, row float64) (x, y float64) {
	x = a[0] + col*a[1] + row*a[2]
	y = a[3] + col*a[4] + row*a[5]
	return
}

// Invert returns the transform mapping CRS coordinates back to pixels.
func (a Affine) Invert() (inv Affine, err error) {
	det := a[1]*a[5] - a[2]*a[4]
	if det == 0 {
		err = ErrSingularTransform
		return
	}
	inv[1] = a[5] / det
	inv[2] = -a[2] / det
	inv[4] = -a[4] / det
	inv[5] = a[1] / det
	inv[0] = -(inv[1]*a[0] + inv[2]*a[3])
	inv[3] = -(inv[4]*a[0] + inv[5]*a[3])
	return
}

// AffineFromBounds builds the north-up transform of a w x h grid covering
// exactly the given box.
func AffineFromBounds(b Bounds, w, h int) Affine {
	return Affine{
		b.Left, (b.Right - b.Left) / float64(w), 0,
		b.Top, 0, (b.Bottom - b.Top) / float64(h),
	}
}

// WindowBounds georeferences a pixel window. Pure affine application.
func WindowBounds(win Window, tr Affine) Bounds {
	x0, y0 := tr.Apply(float64(win.Col), float64(win.Row))
	x1, y1 := tr.Apply(float64(win.Col+win.W), float64(win.Row+win.H))
	x2, y2 := tr.Apply(float64(win.Col+win.W), float64(win.Row))
	x3, y3 := tr.Apply(float64(win.Col), float64(win.Row+win.H))
	return Bounds{
		Left:   math.Min(math.Min(x0, x1), math.Min(x2, x3)),
		Bottom: math.Min(math.Min(y0, y1), math.Min(y2, y3)),
		Right:  math.Max(math.Max(x0, x1), math.Max(x2, x3)),
		Top:    math.Max(math.Max(y0, y1), math.Max(y2, y3)),
	}
}

// WindowFromBounds locates the pixel window of a grid covering the given box
// in that grid's own CRS. Offsets and lengths are rounded to whole pixels;
// the result is NOT yet clipped to the grid extent.
func WindowFromBounds(b Bounds, tr Affine) (win Window, err error) {
	inv, err := tr.Invert()
	if err != nil {
		return
	}
	c0, r0 := inv.Apply(b.Left, b.Top)
	c1, r1 := inv.Apply(b.Right, b.Bottom)
	c2, r2 := inv.Apply(b.Right, b.Top)
	c3, r3 := inv.Apply(b.Left, b.Bottom)
	colOff := math.Min(math.Min(c0, c1), math.Min(c2, c3))
	rowOff := math.Min(math.Min(r0, r1), math.Min(r2, r3))
	colEnd := math.Max(math.Max(c0, c1), math.Max(c2, c3))
	rowEnd := math.Max(math.Max(r0, r1), math.Max(r2, r3))
	win = Window{
		Col: int(math.Round(colOff)),
		Row: int(math.Round(rowOff)),
		W:   int(math.Round(colEnd - colOff)),
		H:   int(math.Round(rowEnd - rowOff)),
	}
	return
}

// TransformBounds reprojects a box between CRSs by its four corners. The
// reprojected polygon of a skewed projection can bulge past the corner box;
// the slight over-cover is acceptable because callers clip the resulting
// window against the grid extent anyway.
func (g *RasterToolbox) TransformBounds(b Bounds, src, dst *gdal.SpatialRef) (out Bounds, err error) {
	if src == nil || dst == nil || src.IsSame(dst) {
		out = b
		return
	}
	trans, err := gdal.NewTransform(src, dst)
	if err != nil {
		log.Error(g.logTag+"create coordinate transform failed", zap.Error(err))
		return
	}
	defer trans.Close()
	xs := []float64{b.Left, b.Right, b.Right, b.Left}
	ys := []float64{b.Bottom, b.Bottom, b.Top, b.Top}
	if err = trans.TransformEx(xs, ys, nil, nil); err != nil {
		log.Error(g.logTag+"bounds transform failed", zap.Error(err))
		return
	}
	out = Bounds{
		Left:   math.Min(math.Min(xs[0], xs[1]), math.Min(xs[2], xs[3])),
		Bottom: math.Min(math.Min(ys[0], ys[1]), math.Min(ys[2], ys[3])),
		Right:  math.Max(math.Max(xs[0], xs[1]), math.Max(xs[2], xs[3])),
		Top:    math.Max(math.Max(ys[0], ys[1]), math.Max(ys[2], ys[3])),
	}
	return
}

// LocateWindow finds the pixel window of the target grid that covers bounds
// given in a possibly different CRS, clipped to the grid extent.
// Returns ErrNoOverlap when the clipped window is empty.
func (g *RasterToolbox) LocateWindow(b Bounds, src *gdal.SpatialRef, target *GridRef) (win Window, err error) {
	tb, err := g.TransformBounds(b, src, target.SRS)
	if err != nil {
		return
	}
	if !tb.Valid() {
		err = ErrInvalidBounds
		return
	}
	raw, err := WindowFromBounds(tb, target.Transform)
	if err != nil {
		return
	}
	win, ok := raw.Intersect(GridWindow(target.Width, target.Height))
	if !ok {
		err = ErrNoOverlap
	}
	return
}

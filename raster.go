package zonalib

import (
	"fmt"
	"math"

	"github.com/wgdzlh/zonalib/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// GridRef captures the geometry of one raster grid. Transform plus
// width/height fully determine the geographic extent; two grids sharing
// transform, CRS and dimensions are pixel-for-pixel co-registered.
type GridRef struct {
	Transform Affine
	SRS       *gdal.SpatialRef
	Width     int
	Height    int
	NoData    *float64
}

func (r *GridRef) Bounds() Bounds {
	return WindowBounds(GridWindow(r.Width, r.Height), r.Transform)
}

// SameGeometry reports pixel-for-pixel co-registration with o.
func (r *GridRef) SameGeometry(o *GridRef) bool {
	if r.Width != o.Width || r.Height != o.Height || r.Transform != o.Transform {
		return false
	}
	return sameSRS(r.SRS, o.SRS)
}

func sameSRS(a, b *gdal.SpatialRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.IsSame(b)
}

// Raster is one open raster file. Files are opened once per job and read
// through repeated windowed reads; the wrapper keeps the grid geometry
// alongside the handle so window arithmetic needs no further dataset calls.
type Raster struct {
	ds   *gdal.Dataset
	path string
	Grid GridRef
}

// OpenRaster opens an existing raster read-only and snapshots its grid.
func (g *RasterToolbox) OpenRaster(tif string) (r *Raster, err error) {
	ds, err := gdal.Open(tif, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open tif failed", zap.String("tif", tif), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	r = &Raster{ds: ds, path: tif}
	if r.Grid, err = snapshotGrid(ds); err != nil {
		log.Error(g.logTag+"read tif geometry failed", zap.String("tif", tif), zap.Error(err))
		ds.Close()
		r = nil
		err = ErrWrongTif
	}
	return
}

func snapshotGrid(ds *gdal.Dataset) (grid GridRef, err error) {
	st := ds.Structure()
	grid.Width = st.SizeX
	grid.Height = st.SizeY
	gt, err := ds.GeoTransform()
	if err != nil {
		return
	}
	grid.Transform = Affine(gt)
	grid.SRS = ds.SpatialRef()
	if bands := ds.Bands(); len(bands) > 0 {
		if nd, ok := bands[0].NoData(); ok {
			grid.NoData = &nd
		}
	}
	return
}

func (r *Raster) Path() string {
	return r.path
}

func (r *Raster) BandCount() int {
	return r.ds.Structure().NBands
}

func (r *Raster) DataType() string {
	bands := r.ds.Bands()
	if len(bands) == 0 {
		return ""
	}
	return bands[0].Structure().DataType.String()
}

func (r *Raster) Close() {
	if r.ds != nil {
		r.ds.Close()
		r.ds = nil
	}
}

// ReadBlock reads one band's pixels for a window, as float32 regardless of
// the stored data type.
func (r *Raster) ReadBlock(band int, win Window) (blk Block, err error) {
	if win.Empty() {
		err = ErrInvalidWindow
		return
	}
	bands := r.ds.Bands()
	if band < 1 || band > len(bands) {
		err = ErrWrongTif
		return
	}
	blk = NewBlock(win.W, win.H)
	if err = bands[band-1].IO(gdal.IORead, win.Col, win.Row, blk.Data, win.W, win.H); err != nil {
		err = ErrTifReadFailed
	}
	return
}

// WriteBlock writes one band's pixels for a window. Each window of a job
// targets a disjoint region, so a single writer suffices.
func (r *Raster) WriteBlock(band int, win Window, blk Block) (err error) {
	if win.Empty() || blk.W != win.W || blk.H != win.H {
		err = ErrInvalidWindow
		return
	}
	bands := r.ds.Bands()
	if band < 1 || band > len(bands) {
		err = ErrWrongTif
		return
	}
	if err = bands[band-1].IO(gdal.IOWrite, win.Col, win.Row, blk.Data, win.W, win.H); err != nil {
		err = ErrTifWriteFailed
	}
	return
}

// BandDescription returns the semantic label of a 1-based band, or a
// positional fallback when the file carries none.
func (r *Raster) BandDescription(band int) string {
	bands := r.ds.Bands()
	if band < 1 || band > len(bands) {
		return ""
	}
	if desc := bands[band-1].Description(); desc != "" {
		return desc
	}
	return positionalBandName(band)
}

func positionalBandName(band int) string {
	return fmt.Sprintf("band_%d", band)
}

// BandNames returns every band's label in band order.
func (r *Raster) BandNames() []string {
	names := make([]string, r.BandCount())
	for i := range names {
		names[i] = r.BandDescription(i + 1)
	}
	return names
}

// MaskNoData replaces the raster's sentinel nodata value with NaN in place,
// so downstream reducers need only one missing-value convention.
func (r *Raster) MaskNoData(blk Block) {
	if r.Grid.NoData == nil {
		return
	}
	nd := float32(*r.Grid.NoData)
	nan := float32(math.NaN())
	for i, v := range blk.Data {
		if v == nd {
			blk.Data[i] = nan
		}
	}
}

// CreateRaster creates a float32 GTiff on the reference grid with NaN nodata
// and LZW compression, and labels every band.
func (g *RasterToolbox) CreateRaster(out string, grid *GridRef, bandNames []string) (r *Raster, err error) {
	ds, err := gdal.Create(gdal.GTiff, out, len(bandNames), gdal.Float32, grid.Width, grid.Height,
		gdal.CreationOption(COMPRESS_OPTION, BIGTIFF_OPTION))
	if err != nil {
		log.Error(g.logTag+"create tif failed", zap.String("tif", out), zap.Error(err))
		err = ErrTifWriteFailed
		return
	}
	if err = ds.SetGeoTransform([6]float64(grid.Transform)); err != nil {
		ds.Close()
		return
	}
	if grid.SRS != nil {
		if err = ds.SetSpatialRef(grid.SRS); err != nil {
			ds.Close()
			return
		}
	}
	nan := math.NaN()
	for i, band := range ds.Bands() {
		if err = band.SetNoData(nan); err != nil {
			ds.Close()
			return
		}
		if err = band.SetDescription(bandNames[i]); err != nil {
			log.Warn(g.logTag+"set band description failed", zap.Int("band", i+1), zap.Error(err))
			err = nil // labels are advisory, not fatal
		}
	}
	outGrid := *grid
	outGrid.NoData = &nan
	r = &Raster{ds: ds, path: out, Grid: outGrid}
	return
}

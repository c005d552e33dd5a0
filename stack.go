package zonalib

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/wgdzlh/zonalib/log"
	"github.com/wgdzlh/zonalib/utils"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
)

// summary bands come first, in this fixed order, then the per-acquisition
// bands in input order
var stackSummaryBands = []string{BAND_MEDIAN, BAND_MIN, BAND_MAX, BAND_SD}

// StackRasters reads the single-band rasters in files (which must already
// share one grid), computes per-pixel nan-ignoring median/min/max/population
// stddev across them, and writes one multi-band float32 raster: the four
// summary bands first, then every acquisition band, each labelled.
// Geometry is checked once up front; a mismatch is a hard error since
// pixel-wise reducers across misaligned grids are meaningless.
func (g *RasterToolbox) StackRasters(files, names []string, out string) (err error) {
	if len(files) == 0 {
		err = ErrNoRasters
		return
	}
	if len(names) != len(files) {
		err = ErrBandCountMismatch
		return
	}
	rasters := make([]*Raster, 0, len(files))
	defer func() {
		for _, r := range rasters {
			r.Close()
		}
	}()
	for _, tif := range files {
		r, e := g.OpenRaster(tif)
		if e != nil {
			err = e
			return
		}
		rasters = append(rasters, r)
	}
	ref := &rasters[0].Grid
	for i, r := range rasters[1:] {
		if !ref.SameGeometry(&r.Grid) {
			log.Error(g.logTag+"band stack geometry mismatch",
				zap.String("ref", files[0]), zap.String("tif", files[i+1]))
			err = ErrGridMismatch
			return
		}
	}

	bandNames := append(append([]string{}, stackSummaryBands...), names...)
	tmp := utils.TmpPath(out)
	dst, err := g.CreateRaster(tmp, ref, bandNames)
	if err != nil {
		return
	}
	committed := false
	defer func() {
		if !committed {
			dst.Close()
			os.Remove(tmp)
		}
	}()
	log.Info(g.logTag+"start band stack", zap.Int("acquisitions", len(files)),
		zap.Int("bands", len(bandNames)), zap.String("out", out))

	nSummary := len(stackSummaryBands)
	wins := Partition(ref.Height, ref.Width, g.cfg.ChunkSize)
	scratch := make([]float64, 0, len(files))
	lastRow := -1
	for _, win := range wins {
		rowIdx := win.Row / g.cfg.ChunkSize
		if lastRow >= 0 && rowIdx != lastRow {
			g.maybeReclaim(lastRow)
		}
		lastRow = rowIdx

		blocks := make([]Block, len(rasters))
		for i, r := range rasters {
			if blocks[i], err = r.ReadBlock(1, win); err != nil {
				return
			}
			r.MaskNoData(blocks[i])
		}
		summary := make([]Block, nSummary)
		for i := range summary {
			summary[i] = NewBlock(win.W, win.H)
		}
		for p := 0; p < win.Pixels(); p++ {
			vals := scratch[:0]
			for _, blk := range blocks {
				if v := float64(blk.Data[p]); !math.IsNaN(v) {
					vals = append(vals, v)
				}
			}
			med, mn, mx, sd := reduceSamples(vals)
			summary[0].Data[p] = float32(med)
			summary[1].Data[p] = float32(mn)
			summary[2].Data[p] = float32(mx)
			summary[3].Data[p] = float32(sd)
		}
		for i := range summary {
			if err = dst.WriteBlock(i+1, win, summary[i]); err != nil {
				return
			}
		}
		for i, blk := range blocks {
			if err = dst.WriteBlock(nSummary+i+1, win, blk); err != nil {
				return
			}
		}
	}
	if lastRow >= 0 {
		g.maybeReclaim(lastRow)
	}

	dst.Close()
	if err = os.Rename(tmp, out); err != nil {
		return
	}
	committed = true
	log.Info(g.logTag+"band stack done", zap.String("out", out))
	return
}

// reduceSamples computes the four summary statistics over one pixel's valid
// samples. Zero samples yield NaN across the board.
func reduceSamples(vals []float64) (med, mn, mx, sd float64) {
	if len(vals) == 0 {
		nan := math.NaN()
		return nan, nan, nan, nan
	}
	med, _ = stats.Median(vals)
	mn, _ = stats.Min(vals)
	mx, _ = stats.Max(vals)
	sd, _ = stats.StandardDeviationPopulation(vals)
	return
}

// WriteBandListing records the ordered band labels of a product raster in a
// flat text file for quick inspection.
func WriteBandListing(path string, names []string) (err error) {
	var sb strings.Builder
	for i, name := range names {
		fmt.Fprintf(&sb, "Band %d: %s\n", i+1, name)
	}
	return os.WriteFile(path, []byte(sb.String()), os.ModePerm)
}

// StackBandNames returns the band labels StackRasters writes for the given
// acquisition names.
func StackBandNames(names []string) []string {
	return append(append([]string{}, stackSummaryBands...), names...)
}

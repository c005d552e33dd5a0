package zonalib

import (
	"math"
	"os"

	"github.com/wgdzlh/zonalib/log"
	"github.com/wgdzlh/zonalib/utils"

	"go.uber.org/zap"
)

// CombineSummary reports one combination job: how many windows reached a
// terminal WRITTEN state, how many were skipped with a logged error, and the
// per-season valid-pixel totals of the binary bands.
type CombineSummary struct {
	Windows     int
	Skipped     int
	WinterValid int64
	SummerValid int64
}

// CombineLandCover aligns the winter and summer land-cover rasters onto the
// combined-NDVI reference grid window-by-window and writes one raster with
// every NDVI band plus two binary season-validity bands (1 where the
// land-cover code is a real category, 0 elsewhere). Land cover is
// categorical, so alignment uses the nearest-neighbor kernel only.
// A failed window is logged with its coordinates and skipped; the job always
// runs to completion.
func (g *RasterToolbox) CombineLandCover(refTif, winterTif, summerTif, out string) (sum CombineSummary, err error) {
	ref, err := g.OpenRaster(refTif)
	if err != nil {
		return
	}
	defer ref.Close()
	winter, err := g.OpenRaster(winterTif)
	if err != nil {
		return
	}
	defer winter.Close()
	summer, err := g.OpenRaster(summerTif)
	if err != nil {
		return
	}
	defer summer.Close()

	nRef := ref.BandCount()
	bandNames := make([]string, 0, nRef+2)
	for i := 1; i <= nRef; i++ {
		bandNames = append(bandNames, ref.BandDescription(i))
	}
	bandNames = append(bandNames, BAND_WINTER, BAND_SUMMER)

	tmp := utils.TmpPath(out)
	dst, err := g.CreateRaster(tmp, &ref.Grid, bandNames)
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

	wins := Partition(ref.Grid.Height, ref.Grid.Width, g.cfg.ChunkSize)
	log.Info(g.logTag+"start land-cover combine", zap.String("ref", refTif),
		zap.Int("bands", nRef+2), zap.Int("windows", len(wins)))

	seasons := []*Raster{winter, summer}
	valid := []*int64{&sum.WinterValid, &sum.SummerValid}
	lastRow := -1
	for _, win := range wins {
		rowIdx := win.Row / g.cfg.ChunkSize
		if lastRow >= 0 && rowIdx != lastRow {
			g.maybeReclaim(lastRow)
		}
		lastRow = rowIdx
		sum.Windows++

		if e := g.combineWindow(ref, dst, win, nRef, seasons, valid); e != nil {
			log.Error(g.logTag+"combine window failed", windowFields(win, e)...)
			sum.Skipped++
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
	total := float64(ref.Grid.Width) * float64(ref.Grid.Height)
	log.Info(g.logTag+"land-cover combine done", zap.String("out", out),
		zap.Int("windows", sum.Windows), zap.Int("skipped", sum.Skipped),
		zap.Int64("winterValid", sum.WinterValid),
		zap.Float64("winterPct", 100*float64(sum.WinterValid)/total),
		zap.Int64("summerValid", sum.SummerValid),
		zap.Float64("summerPct", 100*float64(sum.SummerValid)/total))
	return
}

func (g *RasterToolbox) combineWindow(ref, dst *Raster, win Window, nRef int, seasons []*Raster, valid []*int64) (err error) {
	for b := 1; b <= nRef; b++ {
		blk, e := ref.ReadBlock(b, win)
		if e != nil {
			return e
		}
		if e = dst.WriteBlock(b, win, blk); e != nil {
			return e
		}
	}
	for si, season := range seasons {
		var codes Block
		blk, outcome, e := g.alignedWindowRead(season, win, &ref.Grid, KERNEL_NEAREST)
		switch outcome {
		case alignOk:
			codes = blk
		case alignEmpty:
			codes = NodataBlock(win.W, win.H)
		default:
			return e
		}
		binary := g.binaryCategoryBand(codes, season.Grid.NoData)
		for _, v := range binary.Data {
			if v == 1 {
				*valid[si]++
			}
		}
		if e = dst.WriteBlock(nRef+si+1, win, binary); e != nil {
			return e
		}
	}
	return
}

// binaryCategoryBand maps a categorical block to 1 where the code is a real
// category and 0 where it is excluded, nodata, or missing after alignment.
func (g *RasterToolbox) binaryCategoryBand(codes Block, nodata *float64) Block {
	out := NewBlock(codes.W, codes.H)
	nd := float32(0)
	hasNd := nodata != nil
	if hasNd {
		nd = float32(*nodata)
	}
	for i, v := range codes.Data {
		if math.IsNaN(float64(v)) || (hasNd && v == nd) || g.isExcluded(int(v)) {
			continue
		}
		out.Data[i] = 1
	}
	return out
}

// CombineClips merges the two pre-clipped season rasters with every band of
// the combined NDVI. The clips are expected on the reference grid already;
// any geometry difference is a misconfiguration and aborts the stage.
// All bands are harmonized to NaN nodata on the way through.
func (g *RasterToolbox) CombineClips(refTif, winterClip, summerClip, out string) (sum CombineSummary, err error) {
	ref, err := g.OpenRaster(refTif)
	if err != nil {
		return
	}
	defer ref.Close()
	winter, err := g.OpenRaster(winterClip)
	if err != nil {
		return
	}
	defer winter.Close()
	summer, err := g.OpenRaster(summerClip)
	if err != nil {
		return
	}
	defer summer.Close()
	for _, clip := range []*Raster{winter, summer} {
		if clip.Grid.Width != ref.Grid.Width || clip.Grid.Height != ref.Grid.Height ||
			!sameSRS(clip.Grid.SRS, ref.Grid.SRS) {
			log.Error(g.logTag+"clip grid mismatch", zap.String("clip", clip.Path()), zap.String("ref", refTif))
			err = ErrGridMismatch
			return
		}
	}

	nRef := ref.BandCount()
	bandNames := make([]string, 0, nRef+2)
	bandNames = append(bandNames, BAND_CLIP_WINTER, BAND_CLIP_SUMMER)
	for i := 1; i <= nRef; i++ {
		bandNames = append(bandNames, ref.BandDescription(i))
	}

	tmp := utils.TmpPath(out)
	dst, err := g.CreateRaster(tmp, &ref.Grid, bandNames)
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

	wins := Partition(ref.Grid.Height, ref.Grid.Width, g.cfg.ChunkSize)
	log.Info(g.logTag+"start clip combine", zap.String("ref", refTif),
		zap.Int("bands", nRef+2), zap.Int("windows", len(wins)))

	clips := []*Raster{winter, summer}
	lastRow := -1
	for _, win := range wins {
		rowIdx := win.Row / g.cfg.ChunkSize
		if lastRow >= 0 && rowIdx != lastRow {
			g.maybeReclaim(lastRow)
		}
		lastRow = rowIdx
		sum.Windows++

		failed := false
		for ci, clip := range clips {
			blk, e := clip.ReadBlock(1, win)
			if e != nil {
				log.Error(g.logTag+"clip window read failed", windowFields(win, e)...)
				failed = true
				break
			}
			clip.MaskNoData(blk)
			if e = dst.WriteBlock(ci+1, win, blk); e != nil {
				log.Error(g.logTag+"clip window write failed", windowFields(win, e)...)
				failed = true
				break
			}
		}
		if !failed {
			for b := 1; b <= nRef; b++ {
				blk, e := ref.ReadBlock(b, win)
				if e != nil {
					log.Error(g.logTag+"ndvi window read failed", windowFields(win, e)...)
					failed = true
					break
				}
				ref.MaskNoData(blk)
				if e = dst.WriteBlock(2+b, win, blk); e != nil {
					log.Error(g.logTag+"ndvi window write failed", windowFields(win, e)...)
					failed = true
					break
				}
			}
		}
		if failed {
			sum.Skipped++
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
	log.Info(g.logTag+"clip combine done", zap.String("out", out),
		zap.Int("windows", sum.Windows), zap.Int("skipped", sum.Skipped))
	return
}

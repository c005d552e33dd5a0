package zonalib

import (
	"encoding/json"
	"math"
	"os"
	"time"

	"github.com/wgdzlh/zonalib/log"
	"github.com/wgdzlh/zonalib/utils"

	"go.uber.org/zap"
)

// catMoments keeps streaming running moments per category, so accumulator
// memory stays constant no matter how many pixels a raster pair has.
type catMoments struct {
	count int64
	sum   float64
	sumSq float64
}

// ZonalAccumulator folds per-window samples into per-category moments.
// Created empty at the start of a raster-pair pass, mutated once per window,
// finalized exactly once.
type ZonalAccumulator struct {
	codes   []int
	moments map[int]*catMoments
	valid   []bool // scratch validity mask, reused across windows
}

func NewZonalAccumulator(codes []int) *ZonalAccumulator {
	a := &ZonalAccumulator{
		codes:   append([]int(nil), codes...),
		moments: make(map[int]*catMoments, len(codes)),
	}
	for _, code := range codes {
		a.moments[code] = &catMoments{}
	}
	return a
}

// Accumulate masks the value block by each category of the categorical block
// and folds the valid samples in. Validity (value not NaN and not nodata) is
// computed once per window, not once per category, since the category loop
// dominates the cost for large category sets.
func (a *ZonalAccumulator) Accumulate(catBlk, valBlk Block, nodata *float64) error {
	n := len(catBlk.Data)
	if n != len(valBlk.Data) || catBlk.W != valBlk.W {
		return ErrGridMismatch
	}
	if cap(a.valid) < n {
		a.valid = make([]bool, n)
	}
	valid := a.valid[:n]
	nd := float32(0)
	hasNd := nodata != nil
	if hasNd {
		nd = float32(*nodata)
	}
	for i, v := range valBlk.Data {
		valid[i] = !(math.IsNaN(float64(v)) || (hasNd && v == nd))
	}
	for _, code := range a.codes {
		m := a.moments[code]
		fc := float32(code)
		for i, c := range catBlk.Data {
			if c == fc && valid[i] {
				v := float64(valBlk.Data[i])
				m.count++
				m.sum += v
				m.sumSq += v * v
			}
		}
	}
	return nil
}

// Finalize reduces the moments to per-category means. A category that never
// matched a valid pixel maps to NaN, telling consumers "no coverage" rather
// than a fake zero.
func (a *ZonalAccumulator) Finalize() map[int]float64 {
	means := make(map[int]float64, len(a.codes))
	for _, code := range a.codes {
		m := a.moments[code]
		if m.count == 0 {
			means[code] = math.NaN()
		} else {
			means[code] = m.sum / float64(m.count)
		}
	}
	return means
}

// Count reports how many valid samples a category has received so far.
func (a *ZonalAccumulator) Count(code int) int64 {
	if m, ok := a.moments[code]; ok {
		return m.count
	}
	return 0
}

// StdDev reports the population standard deviation of a category's samples,
// NaN when the category is empty.
func (a *ZonalAccumulator) StdDev(code int) float64 {
	m, ok := a.moments[code]
	if !ok || m.count == 0 {
		return math.NaN()
	}
	n := float64(m.count)
	mean := m.sum / n
	return math.Sqrt(m.sumSq/n - mean*mean)
}

// PairStats summarizes one raster-pair pass for the job report.
type PairStats struct {
	Windows int
	Skipped int
}

// ZonalMeanByCategory runs the windowed pass over one categorical raster
// (the reference grid) and one continuous-value raster, and returns the
// per-category means. The value raster is reprojected window-by-window when
// its grid differs; a per-window failure is logged with its coordinates and
// skipped, never aborting the pass.
func (g *RasterToolbox) ZonalMeanByCategory(catTif, valTif string, codes []int) (means map[int]float64, stats PairStats, err error) {
	catR, err := g.OpenRaster(catTif)
	if err != nil {
		return
	}
	defer catR.Close()
	valR, err := g.OpenRaster(valTif)
	if err != nil {
		return
	}
	defer valR.Close()

	ref := &catR.Grid
	needsReproject := !ref.SameGeometry(&valR.Grid)
	wins := Partition(ref.Height, ref.Width, g.cfg.ChunkSize)
	log.Info(g.logTag+"start zonal pass",
		zap.String("categorical", catTif), zap.String("values", valTif),
		zap.Int("windows", len(wins)),
		zap.Int("windowRows", PartitionRows(ref.Height, g.cfg.ChunkSize)),
		zap.Bool("reproject", needsReproject))

	acc := NewZonalAccumulator(codes)
	lastRow := -1
	for _, win := range wins {
		rowIdx := win.Row / g.cfg.ChunkSize
		if lastRow >= 0 && rowIdx != lastRow {
			g.maybeReclaim(lastRow)
		}
		lastRow = rowIdx
		stats.Windows++

		catBlk, e := catR.ReadBlock(1, win)
		if e != nil {
			log.Error(g.logTag+"categorical window read failed", windowFields(win, e)...)
			stats.Skipped++
			continue
		}
		var valBlk Block
		if !needsReproject {
			if valBlk, e = valR.ReadBlock(1, win); e != nil {
				log.Error(g.logTag+"value window read failed", windowFields(win, e)...)
				stats.Skipped++
				continue
			}
		} else {
			blk, outcome, e2 := g.alignedWindowRead(valR, win, ref, KERNEL_BILINEAR)
			switch outcome {
			case alignOk:
				valBlk = blk
			case alignEmpty:
				// nothing of the value raster under this window; omit from
				// accumulation rather than counting fake samples
				stats.Skipped++
				continue
			default:
				log.Error(g.logTag+"value window reprojection failed", windowFields(win, e2)...)
				stats.Skipped++
				continue
			}
		}
		if e = acc.Accumulate(catBlk, valBlk, valR.Grid.NoData); e != nil {
			log.Error(g.logTag+"window accumulation failed", windowFields(win, e)...)
			stats.Skipped++
		}
	}
	if lastRow >= 0 {
		g.maybeReclaim(lastRow)
	}
	means = acc.Finalize()
	log.Info(g.logTag+"zonal pass done",
		zap.Int("windows", stats.Windows), zap.Int("skipped", stats.Skipped))
	return
}

func windowFields(win Window, err error) []zap.Field {
	return []zap.Field{
		zap.Int("col", win.Col), zap.Int("row", win.Row),
		zap.Int("w", win.W), zap.Int("h", win.H),
		zap.Error(err),
	}
}

// SeasonJob binds one season's categorical raster to its category
// definition.
type SeasonJob struct {
	Name       string
	CatTif     string
	Categories CategorySet
}

// BuildZonalSeries computes the monthly per-category NDVI means for every
// season against every monthly NDVI raster found in ndviDir. One failed
// month records all-NaN means for that month and the series continues, so a
// single bad acquisition never blocks the year.
func (g *RasterToolbox) BuildZonalSeries(jobs []SeasonJob, ndviDir string) (series ZonalSeries, err error) {
	files, months, err := utils.ListPeriodRasters(ndviDir, NDVI_PREFIX, FILE_EXT_TIF)
	if err != nil {
		return
	}
	if len(files) == 0 {
		err = ErrNoRasters
		return
	}
	log.Info(g.logTag+"start zonal series", zap.Int("months", len(months)), zap.Int("seasons", len(jobs)))

	series = make(ZonalSeries, len(jobs))
	for _, job := range jobs {
		codes := job.Categories.ValidCodes(g.cfg.ExcludeCodes)
		if len(codes) == 0 {
			err = ErrNoCategories
			return
		}
		labelOf := make(map[int]string, len(job.Categories))
		for _, c := range job.Categories {
			labelOf[c.Code] = c.Label
		}
		labels := make([]string, len(codes))
		byCat := make(map[int][]NanFloat, len(codes))
		for i, code := range codes {
			labels[i] = labelOf[code]
			byCat[code] = make([]NanFloat, 0, len(files))
		}
		okMonths := 0
		for mi, tif := range files {
			start := time.Now()
			means, stats, e := g.ZonalMeanByCategory(job.CatTif, tif, codes)
			if e != nil {
				log.Error(g.logTag+"month failed, recording NaN",
					zap.String("season", job.Name), zap.String("month", months[mi]), zap.Error(e))
				for _, code := range codes {
					byCat[code] = append(byCat[code], NanFloat(math.NaN()))
				}
				continue
			}
			for _, code := range codes {
				byCat[code] = append(byCat[code], NanFloat(means[code]))
			}
			okMonths++
			log.Info(g.logTag+"month done",
				zap.String("season", job.Name), zap.String("month", months[mi]),
				zap.Int("windows", stats.Windows), zap.Int("skipped", stats.Skipped),
				zap.Duration("took", time.Since(start)))
		}
		series[job.Name] = SeasonSeries{
			Categories: codes,
			Labels:     labels,
			ByCategory: byCat,
			Months:     months,
		}
		log.Info(g.logTag+"season done", zap.String("season", job.Name),
			zap.Int("okMonths", okMonths), zap.Int("failedMonths", len(files)-okMonths))
	}
	return
}

// Save persists the series as indented JSON next to the other pipeline
// products.
func (s ZonalSeries) Save(path string) (err error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return
	}
	return os.WriteFile(path, data, os.ModePerm)
}

func LoadZonalSeries(path string) (s ZonalSeries, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	err = json.Unmarshal(data, &s)
	return
}

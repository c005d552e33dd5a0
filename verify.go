package zonalib

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wgdzlh/zonalib/log"

	"go.uber.org/zap"
)

// RasterInfo is one raster's metadata record for the verification report.
type RasterInfo struct {
	File   string
	Path   string
	CRS    string
	Width  int
	Height int
	ResX   float64
	ResY   float64
	NoData string // empty when undefined
	DType  string
	Bands  int
	Bounds Bounds
}

// InspectRaster reads one raster's metadata without touching pixel data.
func (g *RasterToolbox) InspectRaster(tif string) (info RasterInfo, err error) {
	r, err := g.OpenRaster(tif)
	if err != nil {
		return
	}
	defer r.Close()
	info = RasterInfo{
		File:   filepath.Base(tif),
		Path:   tif,
		CRS:    srsLabel(r),
		Width:  r.Grid.Width,
		Height: r.Grid.Height,
		ResX:   r.Grid.Transform[1],
		ResY:   -r.Grid.Transform[5],
		DType:  r.DataType(),
		Bands:  r.BandCount(),
		Bounds: r.Grid.Bounds(),
	}
	if info.ResY < 0 {
		info.ResY = -info.ResY
	}
	if r.Grid.NoData != nil {
		info.NoData = strconv.FormatFloat(*r.Grid.NoData, 'g', -1, 64)
	}
	return
}

func srsLabel(r *Raster) string {
	srs := r.Grid.SRS
	if srs == nil {
		return ""
	}
	if name, code := srs.AuthorityName(""), srs.AuthorityCode(""); name != "" && code != "" {
		return name + ":" + code
	}
	wkt, _ := srs.WKT()
	return wkt
}

// VerifyReport aggregates one record per readable raster plus per-property
// distinct-value counts; a property with more than one distinct value marks
// the set as inconsistent for stacking.
type VerifyReport struct {
	Infos    []RasterInfo
	Failures []string
	Distinct map[string]int
}

var verifyProps = []string{"crs", "width", "height", "res", "nodata", "dtype"}

func propValue(info RasterInfo, prop string) string {
	switch prop {
	case "crs":
		return info.CRS
	case "width":
		return strconv.Itoa(info.Width)
	case "height":
		return strconv.Itoa(info.Height)
	case "res":
		return fmt.Sprintf("%g x %g", info.ResX, info.ResY)
	case "nodata":
		return info.NoData
	case "dtype":
		return info.DType
	}
	return ""
}

// VerifyRasters inspects every path and reports property consistency.
// Unreadable files are recorded, not fatal; zero readable rasters is.
func (g *RasterToolbox) VerifyRasters(tifs []string) (rep VerifyReport, err error) {
	rep.Distinct = make(map[string]int, len(verifyProps))
	seen := make(map[string]map[string]struct{}, len(verifyProps))
	for _, prop := range verifyProps {
		seen[prop] = map[string]struct{}{}
	}
	for _, tif := range tifs {
		info, e := g.InspectRaster(tif)
		if e != nil {
			log.Error(g.logTag+"raster inspection failed", zap.String("tif", tif), zap.Error(e))
			rep.Failures = append(rep.Failures, filepath.Base(tif)+": "+e.Error())
			continue
		}
		rep.Infos = append(rep.Infos, info)
		for _, prop := range verifyProps {
			seen[prop][propValue(info, prop)] = struct{}{}
		}
	}
	if len(rep.Infos) == 0 {
		err = ErrNoRasters
		return
	}
	for _, prop := range verifyProps {
		rep.Distinct[prop] = len(seen[prop])
	}
	log.Info(g.logTag+"raster verification done",
		zap.Int("ok", len(rep.Infos)), zap.Int("failed", len(rep.Failures)),
		zap.Bool("consistent", rep.Consistent()))
	return
}

// Consistent reports whether every checked property has exactly one distinct
// value across the set, the precondition for band stacking.
func (rep VerifyReport) Consistent() bool {
	for _, prop := range verifyProps {
		if rep.Distinct[prop] > 1 {
			return false
		}
	}
	return true
}

// WriteCSV persists the report, one row per raster.
func (rep VerifyReport) WriteCSV(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err = w.Write([]string{
		"file", "crs", "width", "height", "res_x", "res_y", "nodata", "dtype", "bands",
		"left", "bottom", "right", "top",
	}); err != nil {
		return
	}
	for _, info := range rep.Infos {
		rec := []string{
			info.File,
			info.CRS,
			strconv.Itoa(info.Width),
			strconv.Itoa(info.Height),
			strconv.FormatFloat(info.ResX, 'g', -1, 64),
			strconv.FormatFloat(info.ResY, 'g', -1, 64),
			info.NoData,
			info.DType,
			strconv.Itoa(info.Bands),
			strconv.FormatFloat(info.Bounds.Left, 'f', 6, 64),
			strconv.FormatFloat(info.Bounds.Bottom, 'f', 6, 64),
			strconv.FormatFloat(info.Bounds.Right, 'f', 6, 64),
			strconv.FormatFloat(info.Bounds.Top, 'f', 6, 64),
		}
		if err = w.Write(rec); err != nil {
			return
		}
	}
	w.Flush()
	return w.Error()
}

// CompareRasters verifies that two rasters share every checked property,
// for the pre-merge clip comparison.
func (g *RasterToolbox) CompareRasters(tifA, tifB string) (same bool, rep VerifyReport, err error) {
	rep, err = g.VerifyRasters([]string{tifA, tifB})
	if err != nil {
		return
	}
	same = len(rep.Infos) == 2 && rep.Consistent()
	return
}

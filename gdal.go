package zonalib

import (
	"runtime/debug"
	"sync"

	"github.com/wgdzlh/zonalib/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// RasterToolbox bundles the fixed job configuration with cached spatial
// references. A single toolbox drives one sequential batch job; windows are
// processed one at a time and no concurrency is attempted inside.
type RasterToolbox struct {
	cfg      Config
	refMap   map[int]*gdal.SpatialRef
	rLock    sync.Mutex
	excluded map[int]struct{}
	logTag   string
}

var registerOnce sync.Once

// NewRasterToolbox initializes the toolbox with an optional Config (defaults
// are used for anything unset).
func NewRasterToolbox(cfg ...Config) *RasterToolbox {
	registerOnce.Do(gdal.RegisterAll)
	c := DefaultConfig()
	if len(cfg) > 0 {
		c = cfg[0].withDefaults()
	}
	g := &RasterToolbox{
		cfg:      c,
		refMap:   map[int]*gdal.SpatialRef{},
		excluded: map[int]struct{}{},
		logTag:   "RasterToolbox:",
	}
	for _, code := range c.ExcludeCodes {
		g.excluded[code] = struct{}{}
	}
	return g
}

func (g *RasterToolbox) Config() Config {
	return g.cfg
}

// getSridRef returns the cached spatial reference for an EPSG code.
// Cached refs are shared and must not be closed by callers.
func (g *RasterToolbox) getSridRef(srid int) (ref *gdal.SpatialRef, err error) {
	g.rLock.Lock()
	defer g.rLock.Unlock()
	ref, ok := g.refMap[srid]
	if ok {
		return
	}
	ref, err = gdal.NewSpatialRefFromEPSG(srid)
	if err != nil {
		log.Error(g.logTag+"set ref srid failed", zap.Int("srid", srid), zap.Error(err))
		return
	}
	g.refMap[srid] = ref
	return
}

// maybeReclaim forces reclamation of unreferenced buffers every FreeMemRows
// processed window rows. Correctness never depends on it; it only smooths
// the resident-set sawtooth from many short-lived window buffers.
func (g *RasterToolbox) maybeReclaim(rowIdx int) {
	if (rowIdx+1)%g.cfg.FreeMemRows == 0 {
		debug.FreeOSMemory()
	}
}

func (g *RasterToolbox) isExcluded(code int) bool {
	_, ok := g.excluded[code]
	return ok
}

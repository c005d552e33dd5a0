// Command stackndvi stacks the monthly NDVI rasters into one multi-band
// product: median/min/max/sd summary bands first, then one band per month.
package main

import (
	"fmt"
	"os"

	zonalib "github.com/wgdzlh/zonalib"
	"github.com/wgdzlh/zonalib/log"
	"github.com/wgdzlh/zonalib/utils"
)

const (
	ndviDir  = "data/raw/ndvi_monthly"
	outTif   = "data/proc/ndvi_stack.tif"
	bandsTxt = "data/proc/ndvi_stack_bands.txt"
)

func main() {
	defer log.Sync()
	files, _, err := utils.ListPeriodRasters(ndviDir, zonalib.NDVI_PREFIX, zonalib.FILE_EXT_TIF)
	if err != nil {
		fail("list rasters: %v", err)
	}
	if len(files) == 0 {
		fail("no NDVI rasters found in %s", ndviDir)
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = utils.GetFilenameWithoutExt(f)
	}
	if err = os.MkdirAll("data/proc", os.ModePerm); err != nil {
		fail("create output dir: %v", err)
	}

	g := zonalib.NewRasterToolbox()
	if err = g.StackRasters(files, names, outTif); err != nil {
		fail("stack: %v", err)
	}
	if err = zonalib.WriteBandListing(bandsTxt, zonalib.StackBandNames(names)); err != nil {
		fail("band listing: %v", err)
	}
	fmt.Printf("stacked %d rasters into %s (%d bands)\n", len(files), outTif, len(files)+4)
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

package zonalib

const (
	FILE_EXT_TIF  = ".tif"
	FILE_EXT_JSON = ".json"
	FILE_EXT_CSV  = ".csv"
	FILE_EXT_TXT  = ".txt"

	// all monthly acquisitions share one CRS fixed at export time
	ACQUISITION_SRID = 32721 // UTM zone 21S

	NDVI_PREFIX = "NDVI_"
	PERIOD_FMT  = "2006-01"

	// window edge in pixels; bounds per-iteration memory, not correctness
	DEFAULT_CHUNK_SIZE = 2000
	// forced memory reclamation cadence, in processed window rows
	DEFAULT_FREE_MEM_ROWS = 5

	// categorical sentinel codes never aggregated: 0 is the mask, 255 nodata
	CODE_MASK   = 0
	CODE_NODATA = 255

	BAND_MEDIAN = "median"
	BAND_MIN    = "min"
	BAND_MAX    = "max"
	BAND_SD     = "sd"

	BAND_WINTER = "winter"
	BAND_SUMMER = "summer"

	BAND_CLIP_WINTER = "clip_winter"
	BAND_CLIP_SUMMER = "clip_summer"

	SEASON_WINTER = "winter"
	SEASON_SUMMER = "summer"

	COMPRESS_OPTION = "COMPRESS=LZW"
	BIGTIFF_OPTION  = "BIGTIFF=IF_SAFER"

	KERNEL_NEAREST  = "near"
	KERNEL_BILINEAR = "bilinear"
)

// Config is fixed at toolbox construction; nothing reads mutable globals.
type Config struct {
	ChunkSize    int   // max window edge in pixels
	ExcludeCodes []int // categorical codes dropped from aggregation
	FreeMemRows  int   // window rows between forced memory reclamations
	TmpDir       string
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:    DEFAULT_CHUNK_SIZE,
		ExcludeCodes: []int{CODE_MASK, CODE_NODATA},
		FreeMemRows:  DEFAULT_FREE_MEM_ROWS,
	}
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DEFAULT_CHUNK_SIZE
	}
	if c.FreeMemRows <= 0 {
		c.FreeMemRows = DEFAULT_FREE_MEM_ROWS
	}
	if c.ExcludeCodes == nil {
		c.ExcludeCodes = []int{CODE_MASK, CODE_NODATA}
	}
	return c
}

package zonalib

import "errors"

var (
	ErrInvalidTif        = errors.New("gdal invalid tif")
	ErrWrongTif          = errors.New("gdal wrong tif")
	ErrTifReadFailed     = errors.New("gdal tif read failed")
	ErrTifWriteFailed    = errors.New("gdal tif write failed")
	ErrNoRasters         = errors.New("no readable rasters")
	ErrNoOverlap         = errors.New("window has no overlap with grid")
	ErrEmptySource       = errors.New("reprojected source window is empty")
	ErrGridMismatch      = errors.New("raster grid geometry mismatch")
	ErrSingularTransform = errors.New("affine transform is singular")
	ErrInvalidWindow     = errors.New("invalid window geometry")
	ErrInvalidBounds     = errors.New("invalid bounding box")
	ErrDuplicateCode     = errors.New("duplicate category code")
	ErrNoCategories      = errors.New("no categories defined")
	ErrBandCountMismatch = errors.New("band name count mismatch")
)

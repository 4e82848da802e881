package echolab

import (
	"errors"
)

// Error kinds surfaced by the calibration resolver, store queries and the
// grid/resample pipeline. See DESIGN.md for the mapping from the teacher's
// sentinel-error pattern.
var (
	ErrInvalidCalibrationShape = errors.New("calibration override is not scalar, length-1, n_pings or len(indices)")
	ErrInvalidChannelSelector  = errors.New("channel number or channel id not found")
	ErrInvalidResampleRate     = errors.New("target resample rate is not an integer ratio of an input sample interval")
	ErrUnknownProperty         = errors.New("store does not carry the requested property")
	ErrIndexOutOfRange         = errors.New("requested index exceeds n_pings")
)

// TileDB plumbing errors, kept from the teacher's tiledb.go/schema.go
// (there deduplicated: the teacher declares several of these in both
// files, which this package does not repeat).
var (
	ErrCreateSchemaTdb    = errors.New("error creating tiledb schema")
	ErrCreateDimTdb       = errors.New("error creating tiledb dimension")
	ErrCreateAttributeTdb = errors.New("error creating attribute for tiledb array")
	ErrCreateArrayTdb     = errors.New("error creating tiledb array")
	ErrWriteArrayTdb      = errors.New("error writing tiledb array")
	ErrAddFilters         = errors.New("error adding filter to filter list")
	ErrDims               = errors.New("error slice has more than 2 dimensions")
	ErrDtype              = errors.New("error slice datatype is unexpected")
	ErrSetBuff            = errors.New("error setting tiledb query buffer")
)

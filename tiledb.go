package echolab

import (
	"errors"
	"reflect"
	"strconv"
	"time"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/samber/lo"
	stgpsr "github.com/yuin/stagparser"
)

// ArrayOpen is a helper func for opening a tiledb array.
func ArrayOpen(ctx *tiledb.Context, uri string, mode tiledb.QueryType) (*tiledb.Array, error) {
	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return nil, err
	}

	err = array.Open(mode)
	if err != nil {
		array.Free()
		return nil, err
	}

	return array, nil
}

// AddFilters sequentially appends compression filters to the filter pipeline list.
func AddFilters(filterList *tiledb.FilterList, filter ...*tiledb.Filter) error {
	for _, filt := range filter {
		if err := filterList.AddFilter(filt); err != nil {
			return err
		}
	}
	return nil
}

// ZstdFilter initialises the Zstandard compression filter and sets the compression
// level.
func ZstdFilter(ctx *tiledb.Context, level int32) (*tiledb.Filter, error) {
	filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_ZSTD)
	if err != nil {
		return nil, err
	}
	if err := filt.SetOption(tiledb.TILEDB_COMPRESSION_LEVEL, level); err != nil {
		filt.Free()
		return nil, err
	}
	return filt, nil
}

// GzipFilter initialises the deflate compression filter and sets the compression
// level.
func GzipFilter(ctx *tiledb.Context, level int32) (*tiledb.Filter, error) {
	filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_GZIP)
	if err != nil {
		return nil, err
	}
	if err := filt.SetOption(tiledb.TILEDB_COMPRESSION_LEVEL, level); err != nil {
		filt.Free()
		return nil, err
	}
	return filt, nil
}

// Lz4Filter initialises the LZ4 compression filter and sets the compression
// level.
func Lz4Filter(ctx *tiledb.Context, level int32) (*tiledb.Filter, error) {
	filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_LZ4)
	if err != nil {
		return nil, err
	}
	if err := filt.SetOption(tiledb.TILEDB_COMPRESSION_LEVEL, level); err != nil {
		filt.Free()
		return nil, err
	}
	return filt, nil
}

// RleFilter initialises the Run Length Encoding compression filter and sets the
// compression level. The level is ignored internally by TileDB for RLE.
func RleFilter(ctx *tiledb.Context, level int32) (*tiledb.Filter, error) {
	filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_RLE)
	if err != nil {
		return nil, err
	}
	if err := filt.SetOption(tiledb.TILEDB_COMPRESSION_LEVEL, level); err != nil {
		filt.Free()
		return nil, err
	}
	return filt, nil
}

// Bzip2Filter initialises the Burrows-Wheeler compression filter and sets the
// compression level.
func Bzip2Filter(ctx *tiledb.Context, level int32) (*tiledb.Filter, error) {
	filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_BZIP2)
	if err != nil {
		return nil, err
	}
	if err := filt.SetOption(tiledb.TILEDB_COMPRESSION_LEVEL, level); err != nil {
		filt.Free()
		return nil, err
	}
	return filt, nil
}

// BitWidthReductionFilter initialises the bit width reduction filter and
// sets the window size.
func BitWidthReductionFilter(ctx *tiledb.Context, window int32) (*tiledb.Filter, error) {
	filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_BIT_WIDTH_REDUCTION)
	if err != nil {
		return nil, err
	}
	if err := filt.SetOption(tiledb.TILEDB_BIT_WIDTH_MAX_WINDOW, window); err != nil {
		filt.Free()
		return nil, err
	}
	return filt, nil
}

// AttachFilters sets the same filter pipeline on a batch of attributes.
func AttachFilters(filterList *tiledb.FilterList, attrs ...*tiledb.Attribute) error {
	for _, attr := range attrs {
		if err := attr.SetFilterList(filterList); err != nil {
			return err
		}
	}
	return nil
}

// CreateAttr creates a tiledb attribute along with its compression filter
// pipeline, configured by the struct tags attached to the containing type.
// Tags for tiledb include: dtype, var, ftype. dtype is the datatype, var
// marks a variable-length field, ftype is "dim" or "attr" ("dim" fields are
// skipped here). Supported dtypes: int8, uint8, int16, uint16, int32,
// uint32, int64, uint64, float32, float64, datetime_ns, string.
// Tags for filters include: zstd(level=16), gzip(level=6), bysh, bish,
// lz4(level=6), rle(level=-1), bzip2(level=6), bitw(window=-1), applied in
// the order listed. Variable-length fields get their offsets compressed
// with positive-delta, byteshuffle, then zstd(level=16).
func CreateAttr(
	fieldName string,
	filterDefs []stgpsr.Definition,
	tiledbDefs map[string]stgpsr.Definition,
	schema *tiledb.ArraySchema,
	ctx *tiledb.Context,
) error {
	var tdbDtype tiledb.Datatype

	def, ok := tiledbDefs["dtype"]
	if !ok {
		return errors.Join(ErrCreateAttributeTdb, errors.New("dtype tag not found"))
	}
	dtype, _ := def.Attribute("dtype")

	switch dtype {
	case "int8":
		tdbDtype = tiledb.TILEDB_INT8
	case "uint8":
		tdbDtype = tiledb.TILEDB_UINT8
	case "int16":
		tdbDtype = tiledb.TILEDB_INT16
	case "uint16":
		tdbDtype = tiledb.TILEDB_UINT16
	case "int32":
		tdbDtype = tiledb.TILEDB_INT32
	case "uint32":
		tdbDtype = tiledb.TILEDB_UINT32
	case "int64":
		tdbDtype = tiledb.TILEDB_INT64
	case "uint64":
		tdbDtype = tiledb.TILEDB_UINT64
	case "float32":
		tdbDtype = tiledb.TILEDB_FLOAT32
	case "float64":
		tdbDtype = tiledb.TILEDB_FLOAT64
	case "datetime_ns":
		tdbDtype = tiledb.TILEDB_DATETIME_NS
	case "string":
		tdbDtype = tiledb.TILEDB_STRING_UTF8
	}

	attrFilts, err := tiledb.NewFilterList(ctx)
	if err != nil {
		return errors.Join(ErrCreateAttributeTdb, err)
	}
	defer attrFilts.Free()

	for _, filter := range filterDefs {
		switch filter.Name() {
		case "zstd":
			level, ok := filter.Attribute("level")
			if !ok {
				return errors.Join(ErrCreateAttributeTdb, errors.New("zstd level not defined"))
			}
			filt, err := ZstdFilter(ctx, int32(level.(int64)))
			if err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
			defer filt.Free()
			if err := attrFilts.AddFilter(filt); err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
		case "gzip":
			level, ok := filter.Attribute("level")
			if !ok {
				return errors.Join(ErrCreateAttributeTdb, errors.New("gzip level not defined"))
			}
			filt, err := GzipFilter(ctx, int32(level.(int64)))
			if err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
			defer filt.Free()
			if err := attrFilts.AddFilter(filt); err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
		case "lz4":
			level, ok := filter.Attribute("level")
			if !ok {
				return errors.Join(ErrCreateAttributeTdb, errors.New("lz4 level not defined"))
			}
			filt, err := Lz4Filter(ctx, int32(level.(int64)))
			if err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
			defer filt.Free()
			if err := attrFilts.AddFilter(filt); err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
		case "rle":
			level, ok := filter.Attribute("level")
			if !ok {
				return errors.Join(ErrCreateAttributeTdb, errors.New("rle level not defined"))
			}
			filt, err := RleFilter(ctx, int32(level.(int64)))
			if err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
			defer filt.Free()
			if err := attrFilts.AddFilter(filt); err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
		case "bzip2":
			level, ok := filter.Attribute("level")
			if !ok {
				return errors.Join(ErrCreateAttributeTdb, errors.New("bzip2 level not defined"))
			}
			filt, err := Bzip2Filter(ctx, int32(level.(int64)))
			if err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
			defer filt.Free()
			if err := attrFilts.AddFilter(filt); err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
		case "bitw":
			win, ok := filter.Attribute("window")
			if !ok {
				return errors.Join(ErrCreateAttributeTdb, errors.New("bitwidth window not defined"))
			}
			filt, err := BitWidthReductionFilter(ctx, int32(win.(int64)))
			if err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
			defer filt.Free()
			if err := attrFilts.AddFilter(filt); err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
		case "bish":
			filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_BITSHUFFLE)
			if err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
			defer filt.Free()
			if err := attrFilts.AddFilter(filt); err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
		case "bysh":
			filt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_BYTESHUFFLE)
			if err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
			defer filt.Free()
			if err := attrFilts.AddFilter(filt); err != nil {
				return errors.Join(ErrCreateAttributeTdb, err)
			}
		}
	}

	attr, err := tiledb.NewAttribute(ctx, fieldName, tdbDtype)
	if err != nil {
		return errors.Join(ErrCreateAttributeTdb, err)
	}
	defer attr.Free()

	_, isVar := tiledbDefs["var"]
	if isVar {
		if err := attr.SetCellValNum(tiledb.TILEDB_VAR_NUM); err != nil {
			return errors.Join(ErrCreateAttributeTdb, err)
		}
	}

	if err := AttachFilters(attrFilts, attr); err != nil {
		return errors.Join(ErrCreateAttributeTdb, err)
	}

	if err := schema.AddAttributes(attr); err != nil {
		return errors.Join(ErrCreateAttributeTdb, err)
	}

	if isVar {
		offsetFilts, err := tiledb.NewFilterList(ctx)
		if err != nil {
			return errors.Join(ErrCreateAttributeTdb, err)
		}
		ddFilt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_POSITIVE_DELTA)
		if err != nil {
			return errors.Join(ErrCreateAttributeTdb, err)
		}
		byshFilt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_BYTESHUFFLE)
		if err != nil {
			return errors.Join(ErrCreateAttributeTdb, err)
		}
		zstdFilt, err := ZstdFilter(ctx, int32(16))
		if err != nil {
			return errors.Join(ErrCreateAttributeTdb, err)
		}
		if err := AddFilters(offsetFilts, ddFilt, byshFilt, zstdFilt); err != nil {
			return errors.Join(ErrCreateAttributeTdb, err)
		}
		if err := schema.SetOffsetsFilterList(offsetFilts); err != nil {
			return errors.Join(ErrCreateAttributeTdb, err)
		}
	}

	return nil
}

// sliceDimsType determines the number of nested slice dimensions and the
// underlying element type, e.g. [][]float64 -> (2, float64). Care must be
// taken that the caller initialises *dims to zero.
func sliceDimsType(typ reflect.Type, dims *int) reflect.Type {
	if typ.Kind() == reflect.Slice {
		*dims++
		return sliceDimsType(typ.Elem(), dims)
	}
	return typ
}

// sliceOffsets computes 1-D byte offsets for a variable-length 2-D field,
// used when writing it flattened to a TileDB var-length attribute.
func sliceOffsets[T any](s [][]T, byteSize uint64) (offsets []uint64) {
	nrows := len(s)
	offsets = make([]uint64, nrows)
	offset := uint64(0)
	for i := 0; i < nrows; i++ {
		offsets[i] = offset
		offset += uint64(len(s[i])) * byteSize
	}
	return offsets
}

// setStructFieldBuffers attaches every exported slice field of t to query
// as a TileDB data (and, for 2-D fields, offsets) buffer, driven by
// reflection so a new result-record type needs no bespoke writer.
func setStructFieldBuffers(query *tiledb.Query, t any) error {
	const (
		byteSize1 = uint64(1)
		byteSize2 = uint64(2)
		byteSize4 = uint64(4)
		byteSize8 = uint64(8)
	)

	values := reflect.ValueOf(t).Elem()
	types := reflect.TypeOf(t).Elem()
	for i := 0; i < values.NumField(); i++ {
		fld := values.Field(i)
		typ := fld.Type()
		if !types.Field(i).IsExported() {
			continue
		}
		name := types.Field(i).Name
		dims := 0
		stype := sliceDimsType(typ, &dims)

		switch dims {
		case 1:
			var err error
			switch stype.Name() {
			case "int8":
				_, err = query.SetDataBuffer(name, fld.Interface().([]int8))
			case "uint8":
				_, err = query.SetDataBuffer(name, fld.Interface().([]uint8))
			case "int16":
				_, err = query.SetDataBuffer(name, fld.Interface().([]int16))
			case "uint16":
				_, err = query.SetDataBuffer(name, fld.Interface().([]uint16))
			case "int32":
				_, err = query.SetDataBuffer(name, fld.Interface().([]int32))
			case "uint32":
				_, err = query.SetDataBuffer(name, fld.Interface().([]uint32))
			case "int64":
				_, err = query.SetDataBuffer(name, fld.Interface().([]int64))
			case "uint64":
				_, err = query.SetDataBuffer(name, fld.Interface().([]uint64))
			case "float32":
				_, err = query.SetDataBuffer(name, fld.Interface().([]float32))
			case "float64":
				_, err = query.SetDataBuffer(name, fld.Interface().([]float64))
			case "Time":
				slc := fld.Interface().([]time.Time)
				timestamps := make([]int64, len(slc))
				for t := range slc {
					timestamps[t] = slc[t].UnixNano()
				}
				_, err = query.SetDataBuffer(name, timestamps)
			default:
				return errors.Join(ErrDtype, errors.New(stype.Name()))
			}
			if err != nil {
				return errors.Join(ErrSetBuff, err, errors.New(name))
			}
		case 2:
			var err error
			switch stype.Name() {
			case "int8":
				slc := fld.Interface().([][]int8)
				if _, err = query.SetOffsetsBuffer(name, sliceOffsets(slc, byteSize1)); err == nil {
					_, err = query.SetDataBuffer(name, lo.Flatten(slc))
				}
			case "uint8":
				slc := fld.Interface().([][]uint8)
				if _, err = query.SetOffsetsBuffer(name, sliceOffsets(slc, byteSize1)); err == nil {
					_, err = query.SetDataBuffer(name, lo.Flatten(slc))
				}
			case "int16":
				slc := fld.Interface().([][]int16)
				if _, err = query.SetOffsetsBuffer(name, sliceOffsets(slc, byteSize2)); err == nil {
					_, err = query.SetDataBuffer(name, lo.Flatten(slc))
				}
			case "uint16":
				slc := fld.Interface().([][]uint16)
				if _, err = query.SetOffsetsBuffer(name, sliceOffsets(slc, byteSize2)); err == nil {
					_, err = query.SetDataBuffer(name, lo.Flatten(slc))
				}
			case "int32":
				slc := fld.Interface().([][]int32)
				if _, err = query.SetOffsetsBuffer(name, sliceOffsets(slc, byteSize4)); err == nil {
					_, err = query.SetDataBuffer(name, lo.Flatten(slc))
				}
			case "uint32":
				slc := fld.Interface().([][]uint32)
				if _, err = query.SetOffsetsBuffer(name, sliceOffsets(slc, byteSize4)); err == nil {
					_, err = query.SetDataBuffer(name, lo.Flatten(slc))
				}
			case "int64":
				slc := fld.Interface().([][]int64)
				if _, err = query.SetOffsetsBuffer(name, sliceOffsets(slc, byteSize8)); err == nil {
					_, err = query.SetDataBuffer(name, lo.Flatten(slc))
				}
			case "uint64":
				slc := fld.Interface().([][]uint64)
				if _, err = query.SetOffsetsBuffer(name, sliceOffsets(slc, byteSize8)); err == nil {
					_, err = query.SetDataBuffer(name, lo.Flatten(slc))
				}
			case "float32":
				slc := fld.Interface().([][]float32)
				if _, err = query.SetOffsetsBuffer(name, sliceOffsets(slc, byteSize4)); err == nil {
					_, err = query.SetDataBuffer(name, lo.Flatten(slc))
				}
			case "float64":
				slc := fld.Interface().([][]float64)
				if _, err = query.SetOffsetsBuffer(name, sliceOffsets(slc, byteSize8)); err == nil {
					_, err = query.SetDataBuffer(name, lo.Flatten(slc))
				}
			default:
				return errors.Join(ErrDtype, errors.New(stype.Name()))
			}
			if err != nil {
				return errors.Join(ErrSetBuff, err, errors.New(name))
			}
		default:
			return errors.Join(ErrDims, errors.New(strconv.Itoa(dims)))
		}
	}
	return nil
}

// WriteArrayMetadata attaches JSON-serialised metadata to a TileDB array
// under key.
func WriteArrayMetadata(ctx *tiledb.Context, arrayURI, key string, md any) error {
	array, err := ArrayOpen(ctx, arrayURI, tiledb.TILEDB_WRITE)
	if err != nil {
		return errors.Join(err, errors.New("error opening (w) tiledb array: "+arrayURI))
	}
	defer array.Free()
	defer array.Close()

	jsn, err := JSONDumps(md)
	if err != nil {
		return errors.Join(err, errors.New("error serialising metadata to json"))
	}

	if err := array.PutMetadata(key, []byte(jsn)); err != nil {
		return errors.Join(err, errors.New("error writing metadata to array: "+arrayURI))
	}

	return nil
}

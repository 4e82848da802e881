package echolab

import (
	"errors"
	"reflect"
	"strings"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	stgpsr "github.com/yuin/stagparser"
)

// pascalCase converts a string separated by underscores into PascalCase.
// For example, ALONG_SHIP -> AlongShip.
func pascalCase(name string) (result string) {
	result = ""
	split := strings.Split(name, "_")

	for _, v := range split {
		low := strings.ToLower(v)
		result += strings.ToUpper(string(low[0])) + low[1:]
	}

	return result
}

func fieldNames(t any) (names []string) {
	names = make([]string, 0, 10)

	btype := reflect.TypeOf(t)
	for i := 0; i < btype.NumField(); i++ {
		if btype.Field(i).IsExported() {
			names = append(names, btype.Field(i).Name)
		}
	}
	return names
}

// chunkedStructSlices initialises every exported slice field of t to a
// defined capacity, reducing reallocation overhead while filling a record
// struct from a ChannelStore ahead of a TileDB write.
func chunkedStructSlices(t any, length int) error {
	values := reflect.ValueOf(t).Elem()
	types := reflect.TypeOf(t).Elem()
	for i := 0; i < values.NumField(); i++ {
		field := values.Field(i)
		ftype := field.Type()
		if types.Field(i).IsExported() {
			field.Set(reflect.MakeSlice(ftype, 0, length))
		}
	}

	return nil
}

// schemaAttrs walks every exported field of t and adds it to schema as a
// TileDB attribute, driven by the field's `tiledb`/`filters` struct tags.
// Fields tagged ftype=dim are skipped; those become array dimensions,
// handled separately by the schema's domain.
func schemaAttrs(t any, schema *tiledb.ArraySchema, ctx *tiledb.Context) error {
	var (
		fieldTdbDefs map[string]stgpsr.Definition
		def          stgpsr.Definition
		ok           bool
	)
	values := reflect.ValueOf(t).Elem()
	types := values.Type()
	filtDefs, _ := stgpsr.ParseStruct(t, "filters")
	tdbDefs, _ := stgpsr.ParseStruct(t, "tiledb")

	for i := 0; i < values.NumField(); i++ {
		name := types.Field(i).Name

		fieldFiltDefs := filtDefs[name]

		fieldTdbDefs = make(map[string]stgpsr.Definition)
		for _, v := range tdbDefs[name] {
			fieldTdbDefs[v.Name()] = v
		}

		def, ok = fieldTdbDefs["ftype"]
		if !ok {
			return errors.Join(ErrCreateAttributeTdb, errors.New("ftype tag not found"))
		}
		ftype, _ := def.Attribute("ftype")
		if ftype == "dim" {
			continue
		}

		if err := CreateAttr(name, fieldFiltDefs, fieldTdbDefs, schema, ctx); err != nil {
			return errors.Join(ErrCreateAttributeTdb, err)
		}
	}
	return nil
}

// PingVectorRecord mirrors ChannelStore's per-ping scalar vectors (§4.1),
// tagged for a 1-D dense, ping-indexed TileDB schema.
type PingVectorRecord struct {
	PingTime              []int64         `tiledb:"dtype=int64,ftype=attr" filters:"zstd(level=16)"`
	TransducerDepth       []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	Frequency             []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	TransmitPower         []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	PulseLength           []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	Bandwidth             []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	SampleInterval        []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	SoundVelocity         []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	AbsorptionCoefficient []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	Heave                 []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	Pitch                 []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	Roll                  []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	Temperature           []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	Heading               []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	TransmitMode          []int32         `tiledb:"dtype=int32,ftype=attr" filters:"zstd(level=16)"`
	SampleOffset          []int32         `tiledb:"dtype=int32,ftype=attr" filters:"zstd(level=16)"`
	SampleCount           []int32         `tiledb:"dtype=int32,ftype=attr" filters:"zstd(level=16)"`
	DetectedBottom        []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	BottomReflectivity    []float64       `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
}

// SampleMatrixRecord mirrors ChannelStore's per-ping x per-sample flat
// matrices (§4.1), tagged for a 2-D dense [ping, sample] TileDB schema.
type SampleMatrixRecord struct {
	Power              []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	AnglesAlongshipE   []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	AnglesAthwartshipE []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
}

// pingVectorDenseSchema builds the 1-D, ping-indexed dense schema for a
// channel's scalar per-ping vectors, grounded on the teacher's
// pingDenseSchema generalized from a swath-bathymetry ping header to this
// format's per-ping metadata.
func pingVectorDenseSchema(ctx *tiledb.Context, nPings int) (*tiledb.ArraySchema, error) {
	if nPings < 1 {
		nPings = 1
	}
	tileSz := uint64(nPings)
	if tileSz > 50000 {
		tileSz = 50000
	}

	domain, err := tiledb.NewDomain(ctx)
	if err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	defer domain.Free()

	dim, err := tiledb.NewDimension(ctx, "PING_ID", tiledb.TILEDB_INT64, []int64{0, int64(nPings) - 1}, tileSz)
	if err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	defer dim.Free()

	dimFilters, err := tiledb.NewFilterList(ctx)
	if err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	defer dimFilters.Free()

	deltaFilt, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_POSITIVE_DELTA)
	if err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	defer deltaFilt.Free()

	zstdFilt, err := ZstdFilter(ctx, int32(16))
	if err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	defer zstdFilt.Free()

	if err := AddFilters(dimFilters, deltaFilt, zstdFilt); err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	if err := dim.SetFilterList(dimFilters); err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	if err := domain.AddDimensions(dim); err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}

	schema, err := tiledb.NewArraySchema(ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schema.SetDomain(domain); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	if err := schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	if err := schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schemaAttrs(&PingVectorRecord{}, schema, ctx); err != nil {
		return nil, errors.Join(ErrCreateAttributeTdb, err)
	}

	return schema, nil
}

// sampleMatrixDenseSchema builds the 2-D [ping, sample] dense schema for a
// channel's power/angle matrices, grounded on the teacher's beam sparse
// schema's filter setup but using a dense domain since the sample grid is
// already a regular rectangle once the store has been trimmed/padded.
func sampleMatrixDenseSchema(ctx *tiledb.Context, nPings, nSamples int) (*tiledb.ArraySchema, error) {
	if nPings < 1 {
		nPings = 1
	}
	if nSamples < 1 {
		nSamples = 1
	}
	pingTile := uint64(nPings)
	if pingTile > 1000 {
		pingTile = 1000
	}
	sampleTile := uint64(nSamples)
	if sampleTile > 4096 {
		sampleTile = 4096
	}

	domain, err := tiledb.NewDomain(ctx)
	if err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	defer domain.Free()

	pingDim, err := tiledb.NewDimension(ctx, "PING_ID", tiledb.TILEDB_INT64, []int64{0, int64(nPings) - 1}, pingTile)
	if err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	defer pingDim.Free()

	sampleDim, err := tiledb.NewDimension(ctx, "SAMPLE_ID", tiledb.TILEDB_INT64, []int64{0, int64(nSamples) - 1}, sampleTile)
	if err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}
	defer sampleDim.Free()

	if err := domain.AddDimensions(pingDim, sampleDim); err != nil {
		return nil, errors.Join(ErrCreateDimTdb, err)
	}

	schema, err := tiledb.NewArraySchema(ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schema.SetDomain(domain); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	if err := schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}
	if err := schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSchemaTdb, err)
	}

	if err := schemaAttrs(&SampleMatrixRecord{}, schema, ctx); err != nil {
		return nil, errors.Join(ErrCreateAttributeTdb, err)
	}

	return schema, nil
}

package echolab

import (
	"errors"
	"math"
	"path/filepath"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// ToTileDB writes a channel's store to groupURI as two sibling dense
// arrays, "ping-vectors.tiledb" (per-ping scalars) and
// "sample-matrix.tiledb" (the power/angle grids), and attaches the
// channel's metadata as JSON array metadata on the former, grounded on the
// teacher's cmd/main.go ToTileDB call sequence (att.ToTileDB,
// svp.ToTileDB) generalized from one array per collaborator to the two
// arrays a ChannelStore needs.
func (cs *ChannelStore) ToTileDB(groupURI string, ctx *tiledb.Context) error {
	n := cs.nPings()

	vectorURI := filepath.Join(groupURI, "ping-vectors.tiledb")
	if err := cs.writePingVectors(vectorURI, ctx, n); err != nil {
		return err
	}

	if cs.StorePower || cs.StoreAngles {
		matrixURI := filepath.Join(groupURI, "sample-matrix.tiledb")
		if err := cs.writeSampleMatrix(matrixURI, ctx, n); err != nil {
			return err
		}
	}

	if n > 0 && cs.ChannelMeta[0] != nil {
		if err := WriteArrayMetadata(ctx, vectorURI, "Channel-Metadata", cs.ChannelMeta[0]); err != nil {
			return err
		}
	}

	return nil
}

func (cs *ChannelStore) writePingVectors(uri string, ctx *tiledb.Context, n int) error {
	schema, err := pingVectorDenseSchema(ctx, n)
	if err != nil {
		return err
	}
	defer schema.Free()

	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return errors.Join(ErrCreateArrayTdb, err)
	}
	defer array.Free()

	if err := array.Create(schema); err != nil {
		return errors.Join(ErrCreateArrayTdb, err)
	}

	record := PingVectorRecord{
		PingTime:              cs.PingTime[:n],
		TransducerDepth:       cs.TransducerDepth[:n],
		Frequency:             cs.Frequency[:n],
		TransmitPower:         cs.TransmitPower[:n],
		PulseLength:           cs.PulseLength[:n],
		Bandwidth:             cs.Bandwidth[:n],
		SampleInterval:        cs.SampleInterval[:n],
		SoundVelocity:         cs.SoundVelocity[:n],
		AbsorptionCoefficient: cs.AbsorptionCoefficient[:n],
		Heave:                 cs.Heave[:n],
		Pitch:                 cs.Pitch[:n],
		Roll:                  cs.Roll[:n],
		Temperature:           cs.Temperature[:n],
		Heading:               cs.Heading[:n],
		TransmitMode:          toInt32Slice(cs.TransmitMode[:n]),
		SampleOffset:          toInt32Slice(cs.SampleOffset[:n]),
		SampleCount:           toInt32Slice(cs.SampleCount[:n]),
		DetectedBottom:        nanFilledOrZero(cs.DetectedBottom, n),
		BottomReflectivity:    nanFilledOrZero(cs.BottomReflectivity, n),
	}

	if err := array.Open(tiledb.TILEDB_WRITE); err != nil {
		return errors.Join(ErrWriteArrayTdb, err)
	}
	defer array.Close()

	query, err := tiledb.NewQuery(ctx, array)
	if err != nil {
		return errors.Join(ErrWriteArrayTdb, err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrWriteArrayTdb, err)
	}
	if err := setStructFieldBuffers(query, &record); err != nil {
		return errors.Join(ErrWriteArrayTdb, err)
	}
	if err := query.Submit(); err != nil {
		return errors.Join(ErrWriteArrayTdb, err)
	}

	return nil
}

func (cs *ChannelStore) writeSampleMatrix(uri string, ctx *tiledb.Context, n int) error {
	schema, err := sampleMatrixDenseSchema(ctx, n, cs.NSamples)
	if err != nil {
		return err
	}
	defer schema.Free()

	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return errors.Join(ErrCreateArrayTdb, err)
	}
	defer array.Free()

	if err := array.Create(schema); err != nil {
		return errors.Join(ErrCreateArrayTdb, err)
	}

	cells := n * cs.NSamples
	record := SampleMatrixRecord{}
	if cs.StorePower {
		record.Power = cs.Power[:cells]
	}
	if cs.StoreAngles {
		record.AnglesAlongshipE = cs.AnglesAlongshipE[:cells]
		record.AnglesAthwartshipE = cs.AnglesAthwartshipE[:cells]
	}

	if err := array.Open(tiledb.TILEDB_WRITE); err != nil {
		return errors.Join(ErrWriteArrayTdb, err)
	}
	defer array.Close()

	query, err := tiledb.NewQuery(ctx, array)
	if err != nil {
		return errors.Join(ErrWriteArrayTdb, err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrWriteArrayTdb, err)
	}
	if err := setStructFieldBuffers(query, &record); err != nil {
		return errors.Join(ErrWriteArrayTdb, err)
	}
	if err := query.Submit(); err != nil {
		return errors.Join(ErrWriteArrayTdb, err)
	}

	return nil
}

func toInt32Slice(in []int) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}

// nanFilledOrZero returns s truncated/padded to length n, filling with NaN
// when s is shorter (or nil) since DetectedBottom/BottomReflectivity are
// only allocated lazily on the first BOT/DEP datagram.
func nanFilledOrZero(s []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	copy(out, s)
	return out
}

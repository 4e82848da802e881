package echolab

import (
	"math"

	"github.com/samber/lo"
)

// CalParam is a compile-time-checked enum of calibration parameter names,
// per the §9 guidance to avoid routing resolution through bare strings.
type CalParam string

const (
	CalGain                  CalParam = "gain"
	CalTransmitPower         CalParam = "transmit_power"
	CalEquivalentBeamAngle   CalParam = "equivalent_beam_angle"
	CalPulseLength           CalParam = "pulse_length"
	CalAbsorptionCoefficient CalParam = "absorption_coefficient"
	CalSaCorrection          CalParam = "sa_correction"
	CalSoundVelocity         CalParam = "sound_velocity"
	CalSampleInterval        CalParam = "sample_interval"
	CalSampleOffset          CalParam = "sample_offset"
	CalAngleSensitivityAlong CalParam = "angle_sensitivity_alongship"
	CalAngleSensitivityAthw  CalParam = "angle_sensitivity_athwartship"
	CalAngleOffsetAlong      CalParam = "angle_offset_alongship"
	CalAngleOffsetAthw       CalParam = "angle_offset_athwartship"
)

// CalValue models §9's `Optional<Scalar | PerPingVector>`: either unset, a
// single scalar broadcast to every requested index, or a per-ping vector
// gathered by index.
type CalValue struct {
	set    bool
	scalar float64
	vector []float64 // gathered by store ping number when len == n_pings, else mapped positionally to indices
}

// NewCalScalar builds a CalValue holding a single broadcast scalar.
func NewCalScalar(v float64) *CalValue { return &CalValue{set: true, scalar: v, vector: nil} }

// NewCalVector builds a CalValue holding a per-ping (or length-1, or
// length-|indices|) override vector.
func NewCalVector(v []float64) *CalValue {
	if len(v) == 1 {
		return &CalValue{set: true, scalar: v[0]}
	}
	return &CalValue{set: true, vector: v}
}

// Calibration is the user-supplied override record consulted first by the
// resolver, one optional field per CalParam.
type Calibration struct {
	Gain                  *CalValue
	TransmitPower         *CalValue
	EquivalentBeamAngle   *CalValue
	PulseLength           *CalValue
	AbsorptionCoefficient *CalValue
	SaCorrection          *CalValue
	SoundVelocity         *CalValue
	SampleInterval        *CalValue
	SampleOffset          *CalValue
	AngleSensitivityAlong *CalValue
	AngleSensitivityAthw  *CalValue
	AngleOffsetAlong      *CalValue
	AngleOffsetAthw       *CalValue
}

func (c *Calibration) field(name CalParam) *CalValue {
	if c == nil {
		return nil
	}
	switch name {
	case CalGain:
		return c.Gain
	case CalTransmitPower:
		return c.TransmitPower
	case CalEquivalentBeamAngle:
		return c.EquivalentBeamAngle
	case CalPulseLength:
		return c.PulseLength
	case CalAbsorptionCoefficient:
		return c.AbsorptionCoefficient
	case CalSaCorrection:
		return c.SaCorrection
	case CalSoundVelocity:
		return c.SoundVelocity
	case CalSampleInterval:
		return c.SampleInterval
	case CalSampleOffset:
		return c.SampleOffset
	case CalAngleSensitivityAlong:
		return c.AngleSensitivityAlong
	case CalAngleSensitivityAthw:
		return c.AngleSensitivityAthw
	case CalAngleOffsetAlong:
		return c.AngleOffsetAlong
	case CalAngleOffsetAthw:
		return c.AngleOffsetAthw
	default:
		return nil
	}
}

// Resolve implements the three-tier priority chain of §4.5: user override →
// per-ping store vector → per-ping ChannelMetadata lookup (with the
// sa_correction table special case). indices are ping row numbers into the
// store (not necessarily sorted or contiguous).
func (cs *ChannelStore) Resolve(cal *Calibration, name CalParam, indices []int) ([]float64, error) {
	n := len(indices)
	out := make([]float64, n)

	if ov := cal.field(name); ov != nil {
		switch {
		case ov.vector == nil:
			for i := range out {
				out[i] = ov.scalar
			}
			return out, nil
		case len(ov.vector) == cs.nPings():
			for i, idx := range indices {
				if idx < 0 || idx >= len(ov.vector) {
					return nil, ErrIndexOutOfRange
				}
				out[i] = ov.vector[idx]
			}
			return out, nil
		case len(ov.vector) == n:
			copy(out, ov.vector)
			return out, nil
		default:
			return nil, ErrInvalidCalibrationShape
		}
	}

	if vec, ok := cs.perPingVector(name); ok {
		for i, idx := range indices {
			if idx < 0 || idx >= len(vec) {
				return nil, ErrIndexOutOfRange
			}
			out[i] = vec[idx]
		}
		return out, nil
	}

	for i, idx := range indices {
		if idx < 0 || idx >= cs.nPings() {
			return nil, ErrIndexOutOfRange
		}
		meta := cs.ChannelMeta[idx]
		if meta == nil {
			out[i] = math.NaN()
			continue
		}
		switch name {
		case CalSaCorrection:
			pl := cs.PulseLength[idx]
			v, ok := meta.SaCorrectionFor(pl)
			if !ok {
				out[i] = math.NaN()
			} else {
				out[i] = v
			}
		case CalGain:
			out[i] = meta.Gain
		case CalEquivalentBeamAngle:
			out[i] = meta.EquivalentBeamAngle
		case CalAngleSensitivityAlong:
			out[i] = meta.AngleSensitivityAlong
		case CalAngleSensitivityAthw:
			out[i] = meta.AngleSensitivityAthw
		case CalAngleOffsetAlong:
			out[i] = meta.AngleOffsetAlong
		case CalAngleOffsetAthw:
			out[i] = meta.AngleOffsetAthw
		default:
			out[i] = math.NaN()
		}
	}

	return out, nil
}

// perPingVector returns the store's own per-ping vector for name, if the
// store tracks one directly (tier two of the priority chain).
func (cs *ChannelStore) perPingVector(name CalParam) ([]float64, bool) {
	switch name {
	case CalTransmitPower:
		return cs.TransmitPower, true
	case CalPulseLength:
		return cs.PulseLength, true
	case CalAbsorptionCoefficient:
		return cs.AbsorptionCoefficient, true
	case CalSoundVelocity:
		return cs.SoundVelocity, true
	case CalSampleInterval:
		return cs.SampleInterval, true
	case CalSampleOffset:
		f := make([]float64, len(cs.SampleOffset))
		for i, v := range cs.SampleOffset {
			f[i] = float64(v)
		}
		return f, true
	default:
		return nil, false
	}
}

// CollapseIfConstant replaces a resolved per-ping vector with a length-1
// vector when every entry is close to a common scalar, mirroring the
// teacher-adjacent original's "calibration_parameters.from_raw_data
// collapses to a scalar when all resolved values agree" behavior (§4.5).
func CollapseIfConstant(v []float64) []float64 {
	if len(v) == 0 {
		return v
	}
	first := v[0]
	allClose := lo.EveryBy(v, func(x float64) bool {
		return math.Abs(x-first) <= 1e-9*math.Max(1, math.Abs(first))
	})
	if allClose {
		return []float64{first}
	}
	return v
}

package echolab

import (
	"math"

	"github.com/samber/lo"
)

// GetSampleData is the GridBuilder/Resampler entry point of §4.3. It
// resolves return_indices (all pings when nil — filter-kwarg-driven
// derivation is the caller's responsibility), resamples
// and shifts the selected rows onto a common sample thickness and offset,
// regrids across differing sound speeds, and emits a single rectangular
// ProcessedData.
func (cs *ChannelStore) GetSampleData(property StoreProperty, cal *Calibration, target ResampleTarget, returnIndices []int) (*ProcessedData, error) {
	indices := returnIndices
	if indices == nil {
		indices = make([]int, cs.nPings())
		for i := range indices {
			indices[i] = i
		}
	}
	if len(indices) == 0 {
		return &ProcessedData{DataType: dataTypeFor(property), IsLog: property == PropertyPower}, nil
	}

	var matrix []float64
	switch property {
	case PropertyPower:
		if !cs.StorePower {
			return nil, ErrUnknownProperty
		}
		matrix = cs.Power
	case PropertyAnglesAlongshipE:
		if !cs.StoreAngles {
			return nil, ErrUnknownProperty
		}
		matrix = cs.AnglesAlongshipE
	case PropertyAnglesAthwartshipE:
		if !cs.StoreAngles {
			return nil, ErrUnknownProperty
		}
		matrix = cs.AnglesAthwartshipE
	default:
		return nil, ErrUnknownProperty
	}
	isPower := property == PropertyPower

	sampleIntervals, err := cs.Resolve(cal, CalSampleInterval, indices)
	if err != nil {
		return nil, err
	}
	soundVelocities, err := cs.Resolve(cal, CalSoundVelocity, indices)
	if err != nil {
		return nil, err
	}
	sampleOffsetsF, err := cs.Resolve(cal, CalSampleOffset, indices)
	if err != nil {
		return nil, err
	}

	uniqueIntervals := uniqueNonNaN(sampleIntervals)
	if len(uniqueIntervals) == 0 {
		return nil, ErrInvalidResampleRate
	}

	var T float64
	needResample := len(uniqueIntervals) > 1
	if needResample {
		T, err = resolveTargetInterval(target, uniqueIntervals)
		if err != nil {
			return nil, err
		}
	} else {
		T = uniqueIntervals[0]
	}

	rows := make([][]float64, len(indices))
	rowOffsetT := make([]int, len(indices))

	for n, idx := range indices {
		if idx < 0 || idx >= cs.nPings() {
			return nil, ErrIndexOutOfRange
		}
		count := cs.SampleCount[idx]
		raw := cs.rowSlice(matrix, idx)[:count]
		si := sampleIntervals[n]

		if needResample {
			ratio, upsample, ok := computeRatio(T, si)
			if !ok {
				return nil, ErrInvalidResampleRate
			}
			rows[n] = resampleRow(raw, ratio, upsample, isPower)
			rowOffsetT[n] = int(math.Round(float64(sampleOffsetsF[n]) * si / T))
		} else {
			rowCopy := make([]float64, len(raw))
			copy(rowCopy, raw)
			rows[n] = rowCopy
			rowOffsetT[n] = int(sampleOffsetsF[n])
		}
	}

	minOffT := lo.Min(rowOffsetT)

	outCols := 0
	for n := range rows {
		pad := rowOffsetT[n] - minOffT
		if pad+len(rows[n]) > outCols {
			outCols = pad + len(rows[n])
		}
	}

	data := make([][]float64, len(rows))
	for n := range rows {
		padded := make([]float64, outCols)
		for k := range padded {
			padded[k] = math.NaN()
		}
		pad := rowOffsetT[n] - minOffT
		copy(padded[pad:pad+len(rows[n])], rows[n])
		data[n] = padded
	}

	// sound-speed regridding, §4.3 step 6
	uniqueVelocities := uniqueNonNaN(soundVelocities)
	var cStar float64
	if len(uniqueVelocities) <= 1 {
		if len(uniqueVelocities) == 1 {
			cStar = uniqueVelocities[0]
		}
	} else {
		counts := make(map[float64]int)
		for _, v := range soundVelocities {
			if !math.IsNaN(v) {
				counts[v]++
			}
		}
		best := -1
		for _, v := range uniqueVelocities {
			if counts[v] > best {
				best = counts[v]
				cStar = v
			}
		}
	}

	targetRange := make([]float64, outCols)
	for k := range targetRange {
		targetRange[k] = (float64(k+minOffT) + 0) * T * cStar / 2
	}

	if len(uniqueVelocities) > 1 {
		const relTol = 1e-9
		for n, ci := range soundVelocities {
			if math.IsNaN(ci) || math.Abs(ci-cStar) <= relTol*math.Max(1, cStar) {
				continue
			}
			rowRange := make([]float64, outCols)
			for k := range rowRange {
				rowRange[k] = float64(k+minOffT) * T * ci / 2
			}
			data[n] = interpolateLinear(rowRange, data[n], targetRange)
		}
	}

	pingTimes := make([]int64, len(indices))
	for n, idx := range indices {
		pingTimes[n] = cs.PingTime[idx]
	}

	freq := math.NaN()
	if len(indices) > 0 {
		freq = cs.Frequency[indices[0]]
	}

	return &ProcessedData{
		ChannelID:       firstChannelID(cs.ChannelIDs),
		Frequency:       freq,
		PingTime:        pingTimes,
		Data:            data,
		Range:           targetRange,
		SoundVelocity:   cStar,
		SampleThickness: T * cStar / 2,
		SampleOffset:    float64(minOffT),
		DataType:        dataTypeFor(property),
		IsLog:           isPower,
	}, nil
}

func dataTypeFor(property StoreProperty) DataType {
	switch property {
	case PropertyPower:
		return DataPower
	case PropertyAnglesAlongshipE:
		return DataAnglesAlongshipE
	case PropertyAnglesAthwartshipE:
		return DataAnglesAthwartshipE
	default:
		return ""
	}
}

func firstChannelID(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

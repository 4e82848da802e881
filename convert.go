package echolab

import "math"

// tvgRangeCorrection is the TVG_CORRECTION constant from §4.4.
const tvgRangeCorrection = 2.0

// resolveIndices defaults returnIndices to every logical ping in the store
// when nil, used by every query method so that calibration resolution and
// grid construction agree on the exact same row set.
func (cs *ChannelStore) resolveIndices(returnIndices []int) []int {
	if returnIndices != nil {
		return returnIndices
	}
	all := make([]int, cs.nPings())
	for i := range all {
		all[i] = i
	}
	return all
}

// GetPower returns the raw (uncalibrated) power grid, §6 query surface.
func (cs *ChannelStore) GetPower(target ResampleTarget, returnIndices []int) (*ProcessedData, error) {
	return cs.GetSampleData(PropertyPower, nil, target, cs.resolveIndices(returnIndices))
}

// GetElectricalAngles returns the raw alongship/athwartship electrical
// angle grids, §6 query surface.
func (cs *ChannelStore) GetElectricalAngles(target ResampleTarget, returnIndices []int) (along, athw *ProcessedData, err error) {
	indices := cs.resolveIndices(returnIndices)
	along, err = cs.GetSampleData(PropertyAnglesAlongshipE, nil, target, indices)
	if err != nil {
		return nil, nil, err
	}
	athw, err = cs.GetSampleData(PropertyAnglesAthwartshipE, nil, target, indices)
	if err != nil {
		return nil, nil, err
	}
	return along, athw, nil
}

// GetPhysicalAngles converts electrical alongship/athwartship angles to
// physical (mechanical-degree) angles per §4.4: physical = electrical/sens
// - offset, broadcast per row across every sample column.
func (cs *ChannelStore) GetPhysicalAngles(cal *Calibration, target ResampleTarget, returnIndices []int) (along, athw *ProcessedData, err error) {
	indices := cs.resolveIndices(returnIndices)

	alongE, err := cs.GetSampleData(PropertyAnglesAlongshipE, cal, target, indices)
	if err != nil {
		return nil, nil, err
	}
	athwE, err := cs.GetSampleData(PropertyAnglesAthwartshipE, cal, target, indices)
	if err != nil {
		return nil, nil, err
	}

	sensAlong, err := cs.Resolve(cal, CalAngleSensitivityAlong, indices)
	if err != nil {
		return nil, nil, err
	}
	offAlong, err := cs.Resolve(cal, CalAngleOffsetAlong, indices)
	if err != nil {
		return nil, nil, err
	}
	sensAthw, err := cs.Resolve(cal, CalAngleSensitivityAthw, indices)
	if err != nil {
		return nil, nil, err
	}
	offAthw, err := cs.Resolve(cal, CalAngleOffsetAthw, indices)
	if err != nil {
		return nil, nil, err
	}

	for i, row := range alongE.Data {
		for k := range row {
			if !math.IsNaN(row[k]) {
				row[k] = row[k]/sensAlong[i] - offAlong[i]
			}
		}
	}
	for i, row := range athwE.Data {
		for k := range row {
			if !math.IsNaN(row[k]) {
				row[k] = row[k]/sensAthw[i] - offAthw[i]
			}
		}
	}

	alongE.DataType = DataAnglesAlongship
	athwE.DataType = DataAnglesAthwartship
	alongE.IsLog = false
	athwE.IsLog = false

	return alongE, athwE, nil
}

// convertPower implements the Sv/sv and Sp/sp closed-form conversions of
// §4.4. isSv selects the Sv formula (32π², TVG 20log10, sa_correction
// subtracted) versus the Sp formula (16π², TVG 40log10, no sa_correction).
func (cs *ChannelStore) convertPower(isSv bool, cal *Calibration, linear, tvgCorrection, heaveCorrect, returnDepth bool, target ResampleTarget, returnIndices []int) (*ProcessedData, error) {
	indices := cs.resolveIndices(returnIndices)

	grid, err := cs.GetSampleData(PropertyPower, cal, target, indices)
	if err != nil {
		return nil, err
	}

	gain, err := cs.Resolve(cal, CalGain, indices)
	if err != nil {
		return nil, err
	}
	transmitPower, err := cs.Resolve(cal, CalTransmitPower, indices)
	if err != nil {
		return nil, err
	}
	eqBeamAngle, err := cs.Resolve(cal, CalEquivalentBeamAngle, indices)
	if err != nil {
		return nil, err
	}
	pulseLength, err := cs.Resolve(cal, CalPulseLength, indices)
	if err != nil {
		return nil, err
	}
	absorption, err := cs.Resolve(cal, CalAbsorptionCoefficient, indices)
	if err != nil {
		return nil, err
	}
	var saCorrection []float64
	if isSv {
		saCorrection, err = cs.Resolve(cal, CalSaCorrection, indices)
		if err != nil {
			return nil, err
		}
	}

	cStar := grid.SoundVelocity

	rC := make([]float64, len(grid.Range))
	for k, r := range grid.Range {
		if tvgCorrection {
			rC[k] = math.Max(r-tvgRangeCorrection*grid.SampleThickness, 0)
		} else {
			rC[k] = r
		}
	}

	for i, row := range grid.Data {
		freq := cs.Frequency[indices[i]]
		wavelength := cStar / freq

		var G float64
		if isSv {
			psiLinear := math.Pow(10, eqBeamAngle[i]/10)
			G = 10 * math.Log10(transmitPower[i]*math.Pow(math.Pow(10, gain[i]/10), 2)*wavelength*wavelength*cStar*pulseLength[i]*psiLinear/(32*math.Pi*math.Pi))
		} else {
			G = 10 * math.Log10(transmitPower[i]*math.Pow(math.Pow(10, gain[i]/10), 2)*wavelength*wavelength/(16*math.Pi*math.Pi))
		}

		for k, p := range row {
			if math.IsNaN(p) {
				continue
			}
			var tvg float64
			if isSv {
				tvg = 20 * math.Log10(math.Max(rC[k], 1))
			} else {
				tvg = 40 * math.Log10(math.Max(rC[k], 1))
			}
			result := p + tvg + 2*absorption[i]*rC[k] - G
			if isSv {
				result -= 2 * saCorrection[i]
			}
			row[k] = result
		}
	}

	if isSv {
		grid.DataType = DataSv
	} else {
		grid.DataType = DataSp
	}

	if linear {
		for _, row := range grid.Data {
			for k, v := range row {
				if !math.IsNaN(v) {
					row[k] = math.Pow(10, v/10)
				}
			}
		}
		grid.IsLog = false
		if isSv {
			grid.DataType = DataSv_linear
		} else {
			grid.DataType = DataSp_linear
		}
	}

	if heaveCorrect || returnDepth {
		deltas := make([]float64, len(indices))
		for i, idx := range indices {
			deltas[i] = cs.TransducerDepth[idx]
			if heaveCorrect {
				deltas[i] += cs.Heave[idx]
			}
		}
		grid = applyDepthShift(grid, deltas)
	}

	return grid, nil
}

// applyDepthShift shifts each row of grid by deltas[i] meters on the sample
// axis (§4.4's depth conversion), NaN-padding, and rebuilds the shared
// Range vector so it reads as depth for every row on the same axis.
func applyDepthShift(grid *ProcessedData, deltas []float64) *ProcessedData {
	if grid.SampleThickness <= 0 || len(grid.Data) == 0 {
		return grid
	}

	shifts := make([]int, len(deltas))
	minShift := 0
	for i, d := range deltas {
		s := int(math.Round(d / grid.SampleThickness))
		shifts[i] = s
		if i == 0 || s < minShift {
			minShift = s
		}
	}

	nSamples := len(grid.Range)
	newCols := 0
	for _, s := range shifts {
		end := (s - minShift) + nSamples
		if end > newCols {
			newCols = end
		}
	}

	newData := make([][]float64, len(grid.Data))
	for i, row := range grid.Data {
		padded := make([]float64, newCols)
		for k := range padded {
			padded[k] = math.NaN()
		}
		start := shifts[i] - minShift
		copy(padded[start:start+nSamples], row)
		newData[i] = padded
	}

	depth := make([]float64, newCols)
	base := float64(0)
	if len(grid.Range) > 0 {
		base = grid.Range[0]
	}
	for k := range depth {
		depth[k] = base + (float64(k)+float64(minShift))*grid.SampleThickness
	}

	grid.Data = newData
	grid.Range = depth
	return grid
}

// GetSv returns calibrated volume backscatter. Defaults per §6 are
// tvg_correction=true, heave_correct=false, return_depth=false,
// linear=false; callers that want those defaults should pass (false, true,
// false, false).
func (cs *ChannelStore) GetSv(cal *Calibration, linear, tvgCorrection, heaveCorrect, returnDepth bool, target ResampleTarget, returnIndices []int) (*ProcessedData, error) {
	return cs.convertPower(true, cal, linear, tvgCorrection, heaveCorrect, returnDepth, target, returnIndices)
}

// Getsv is the get_sv convenience wrapper of §6: forces linear=true.
func (cs *ChannelStore) Getsv(cal *Calibration, tvgCorrection, heaveCorrect, returnDepth bool, target ResampleTarget, returnIndices []int) (*ProcessedData, error) {
	return cs.convertPower(true, cal, true, tvgCorrection, heaveCorrect, returnDepth, target, returnIndices)
}

// GetSp returns calibrated point/target strength. Defaults per §6 are
// tvg_correction=false, heave_correct=false, return_depth=false,
// linear=false.
func (cs *ChannelStore) GetSp(cal *Calibration, linear, tvgCorrection, heaveCorrect, returnDepth bool, target ResampleTarget, returnIndices []int) (*ProcessedData, error) {
	return cs.convertPower(false, cal, linear, tvgCorrection, heaveCorrect, returnDepth, target, returnIndices)
}

// Getsp is the get_sp convenience wrapper of §6: forces linear=true.
func (cs *ChannelStore) Getsp(cal *Calibration, tvgCorrection, heaveCorrect, returnDepth bool, target ResampleTarget, returnIndices []int) (*ProcessedData, error) {
	return cs.convertPower(false, cal, true, tvgCorrection, heaveCorrect, returnDepth, target, returnIndices)
}

// GetBottom extracts detected_bottom for the selected pings (§4.4/§6).
// When cal supplies a sound_velocity differing from the recorded value for
// a ping, the bottom value is rescaled by c_requested/c_recorded. Subtracts
// transducer_depth when returnDepth is false (caller wants range rather
// than depth); when heaveCorrect is true, heave is folded into the
// transducer-depth offset the same way it is for ping depth conversion
// (§4.4), an implementer decision documented in DESIGN.md since the source
// does not spell out the heave term for bottom queries.
func (cs *ChannelStore) GetBottom(cal *Calibration, returnDepth, heaveCorrect bool, returnIndices []int) ([]float64, error) {
	indices := cs.resolveIndices(returnIndices)

	if cs.DetectedBottom == nil {
		out := make([]float64, len(indices))
		for i := range out {
			out[i] = math.NaN()
		}
		return out, nil
	}

	recordedC, err := cs.Resolve(nil, CalSoundVelocity, indices)
	if err != nil {
		return nil, err
	}
	var reqC []float64
	if cal != nil && cal.SoundVelocity != nil {
		reqC, err = cs.Resolve(cal, CalSoundVelocity, indices)
		if err != nil {
			return nil, err
		}
	}

	out := make([]float64, len(indices))
	const relTol = 1e-9
	for i, idx := range indices {
		if idx < 0 || idx >= cs.nPings() {
			return nil, ErrIndexOutOfRange
		}
		v := cs.DetectedBottom[idx]
		if reqC != nil && recordedC[i] != 0 && math.Abs(reqC[i]-recordedC[i]) > relTol*math.Max(1, recordedC[i]) {
			v = v * reqC[i] / recordedC[i]
		}
		if heaveCorrect {
			v += cs.Heave[idx]
		}
		if !returnDepth {
			v -= cs.TransducerDepth[idx]
		}
		out[i] = v
	}

	return out, nil
}

package echolab

import "math"

// ChannelStore is the per-channel jagged-but-rectangular store for pings
// (§3/§4.1). It owns the 2-D power and angle matrices plus per-ping
// vectors, and handles growth, rolling, padding and truncation. The only
// mutators are AppendPing, AppendBottom, Insert and Trim; every other
// method is a pure, read-only query.
type ChannelStore struct {
	ChannelIDs      []string
	StorePower      bool
	StoreAngles     bool
	Rolling         bool
	ChunkWidth      int
	MaxSampleNumber int  // 0 means unset
	NPings          int  // -1 before first allocation
	NSamples        int  // current sample-axis capacity
	SampleDType     string

	// per-ping vectors, physical length == pingCapacity
	PingTime              []int64
	ChannelMeta           []*ChannelMetadata
	TransducerDepth       []float64
	Frequency             []float64
	TransmitPower         []float64
	PulseLength           []float64
	Bandwidth             []float64
	SampleInterval        []float64
	SoundVelocity         []float64
	AbsorptionCoefficient []float64
	Heave                 []float64
	Pitch                 []float64
	Roll                  []float64
	Temperature           []float64
	Heading               []float64
	TransmitMode          []int
	SampleOffset          []int
	SampleCount           []int

	// per-ping x per-sample matrices, flat row-major [pingCapacity, NSamples]
	Power               []float64
	AnglesAlongshipE    []float64
	AnglesAthwartshipE  []float64

	// optional, attached lazily on first BOT/DEP
	DetectedBottom     []float64
	BottomReflectivity []float64

	pingCapacity int
}

// NewChannelStore constructs an empty store for one channel. When rolling
// is true, chunkWidth is the fixed number of pings retained and all
// matrices/vectors are allocated up front with NaN/NaT fill, per §4.1.
// When rolling is false, chunkWidth is the ping-axis growth increment and
// allocation is deferred until the first AppendPing.
func NewChannelStore(channelIDs []string, storePower, storeAngles, rolling bool, chunkWidth int, maxSampleNumber int) *ChannelStore {
	cs := &ChannelStore{
		ChannelIDs:      channelIDs,
		StorePower:      storePower,
		StoreAngles:     storeAngles,
		Rolling:         rolling,
		ChunkWidth:      chunkWidth,
		MaxSampleNumber: maxSampleNumber,
		NPings:          -1,
		SampleDType:     "float64",
	}

	if rolling {
		cs.pingCapacity = chunkWidth
		cs.NSamples = maxSampleNumber
		if cs.NSamples <= 0 {
			cs.NSamples = 1
		}
		cs.allocateVectors(cs.pingCapacity, true)
		cs.allocateMatrices(cs.pingCapacity, cs.NSamples, true)
		cs.NPings = 0
	}

	return cs
}

func (cs *ChannelStore) allocateVectors(n int, nanFill bool) {
	cs.PingTime = make([]int64, n)
	cs.ChannelMeta = make([]*ChannelMetadata, n)
	cs.TransducerDepth = make([]float64, n)
	cs.Frequency = make([]float64, n)
	cs.TransmitPower = make([]float64, n)
	cs.PulseLength = make([]float64, n)
	cs.Bandwidth = make([]float64, n)
	cs.SampleInterval = make([]float64, n)
	cs.SoundVelocity = make([]float64, n)
	cs.AbsorptionCoefficient = make([]float64, n)
	cs.Heave = make([]float64, n)
	cs.Pitch = make([]float64, n)
	cs.Roll = make([]float64, n)
	cs.Temperature = make([]float64, n)
	cs.Heading = make([]float64, n)
	cs.TransmitMode = make([]int, n)
	cs.SampleOffset = make([]int, n)
	cs.SampleCount = make([]int, n)

	if nanFill {
		for i := 0; i < n; i++ {
			cs.PingTime[i] = NaT
			cs.TransducerDepth[i] = math.NaN()
			cs.Frequency[i] = math.NaN()
			cs.TransmitPower[i] = math.NaN()
			cs.PulseLength[i] = math.NaN()
			cs.Bandwidth[i] = math.NaN()
			cs.SampleInterval[i] = math.NaN()
			cs.SoundVelocity[i] = math.NaN()
			cs.AbsorptionCoefficient[i] = math.NaN()
			cs.Heave[i] = math.NaN()
			cs.Pitch[i] = math.NaN()
			cs.Roll[i] = math.NaN()
			cs.Temperature[i] = math.NaN()
			cs.Heading[i] = math.NaN()
		}
	}
}

func (cs *ChannelStore) allocateMatrices(pingCapacity, sampleCapacity int, nanFill bool) {
	if cs.StorePower {
		if nanFill {
			cs.Power = newNaNMatrix(pingCapacity, sampleCapacity)
		} else {
			cs.Power = make([]float64, pingCapacity*sampleCapacity)
		}
	}
	if cs.StoreAngles {
		if nanFill {
			cs.AnglesAlongshipE = newNaNMatrix(pingCapacity, sampleCapacity)
			cs.AnglesAthwartshipE = newNaNMatrix(pingCapacity, sampleCapacity)
		} else {
			cs.AnglesAlongshipE = make([]float64, pingCapacity*sampleCapacity)
			cs.AnglesAthwartshipE = make([]float64, pingCapacity*sampleCapacity)
		}
	}
}

// nPings returns the logical ping count, never negative (the -1
// before-first-allocation sentinel collapses to 0 for index-resolution
// purposes).
func (cs *ChannelStore) nPings() int {
	if cs.NPings < 0 {
		return 0
	}
	return cs.NPings
}

// powerDecodeFactor is the indexed-power-to-dB conversion factor from §4.1
// and the power round-trip property in §8.
const powerDecodeFactor = 10.0 * 0.3010299956639812 / 256.0 // 10*log10(2)/256

// angleElectricalScale is the exact electrical-unit scale from §8.
const angleElectricalScale = 180.0 / 128.0

func decodePower(raw []int16) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v) * powerDecodeFactor
	}
	return out
}

func decodeAngles(raw []uint16) (along, athw []float64) {
	along = make([]float64, len(raw))
	athw = make([]float64, len(raw))
	for i, v := range raw {
		alongByte := int8(v >> 8)
		athwByte := int8(v & 0xFF)
		along[i] = float64(alongByte) * angleElectricalScale
		athw[i] = float64(athwByte) * angleElectricalScale
	}
	return along, athw
}

// windowSamples applies the sub-sample-window rule of §4.1 to a decoded
// slice, returning the selected window and the sample_offset to record.
func windowSamples[T any](data []T, hasStart bool, start int, hasEnd bool, end int) (window []T, offset int) {
	count := len(data)
	if hasStart {
		lo := start
		hi := count
		if hasEnd {
			hi = end + 1
		}
		if lo < 0 {
			lo = 0
		}
		if hi > count {
			hi = count
		}
		if lo > hi {
			lo = hi
		}
		return data[lo:hi], start
	}

	hi := count
	if hasEnd {
		hi = end + 1
		if hi > count {
			hi = count
		}
	}
	return data[0:hi], 0
}

// AppendPing is the sole path by which a RAW datagram's samples enter the
// store (§4.1). start_sample/end_sample follow the "inclusive or absent"
// semantics described in §4.1 (hasStart/hasEnd false means "not supplied").
func (cs *ChannelStore) AppendPing(dg Datagram, meta *ChannelMetadata, hasStart bool, startSample int, hasEnd bool, endSample int) error {
	var powerSamples []float64
	var alongSamples, athwSamples []float64
	var offset int
	sampleCount := 0

	if dg.Mode != ModeAngle && cs.StorePower && dg.Power != nil {
		if raw, ok := dg.Power(); ok {
			decoded := decodePower(raw)
			powerSamples, offset = windowSamples(decoded, hasStart, startSample, hasEnd, endSample)
			sampleCount = len(powerSamples)
		}
	}
	if dg.Mode != ModePower && cs.StoreAngles && dg.Angle != nil {
		if raw, ok := dg.Angle(); ok {
			alongDecoded, athwDecoded := decodeAngles(raw)
			alongSamples, offset = windowSamples(alongDecoded, hasStart, startSample, hasEnd, endSample)
			athwSamples, _ = windowSamples(athwDecoded, hasStart, startSample, hasEnd, endSample)
			if len(alongSamples) > sampleCount {
				sampleCount = len(alongSamples)
			}
		}
	}

	if cs.MaxSampleNumber > 0 && sampleCount > cs.MaxSampleNumber {
		sampleCount = cs.MaxSampleNumber
		if powerSamples != nil {
			powerSamples = powerSamples[:sampleCount]
		}
		if alongSamples != nil {
			alongSamples = alongSamples[:sampleCount]
			athwSamples = athwSamples[:sampleCount]
		}
	}

	return cs.appendRow(dg, meta, offset, sampleCount, powerSamples, alongSamples, athwSamples)
}

func (cs *ChannelStore) appendRow(dg Datagram, meta *ChannelMetadata, offset, sampleCount int, power, along, athw []float64) error {
	// initial allocation (non-rolling only; rolling pre-allocates in the
	// constructor per §4.1)
	if cs.NPings == -1 {
		initSamples := cs.MaxSampleNumber
		if initSamples <= 0 {
			initSamples = sampleCount
			if initSamples == 0 {
				initSamples = 1
			}
		}
		cs.pingCapacity = cs.ChunkWidth
		cs.NSamples = initSamples
		cs.allocateVectors(cs.pingCapacity, false)
		cs.allocateMatrices(cs.pingCapacity, cs.NSamples, false)
		for r := 0; r < cs.pingCapacity; r++ {
			cs.initRowSentinels(r)
		}
		cs.NPings = 0
	}

	var row int

	if cs.Rolling {
		if cs.NPings < cs.pingCapacity {
			row = cs.NPings
			cs.NPings++
		} else {
			cs.rollOnce()
			row = cs.pingCapacity - 1
		}
		// sample axis is fixed in rolling mode; truncate oversized pings
		if sampleCount > cs.NSamples {
			sampleCount = cs.NSamples
			if power != nil {
				power = power[:sampleCount]
			}
			if along != nil {
				along = along[:sampleCount]
				athw = athw[:sampleCount]
			}
		}
	} else {
		if cs.NPings == cs.pingCapacity {
			cs.growPingCapacity(cs.pingCapacity + cs.ChunkWidth)
		}
		if sampleCount > cs.NSamples {
			cs.growSampleCapacity(sampleCount)
		}
		row = cs.NPings
		cs.NPings++
	}

	cs.writeRow(row, dg, meta, offset, sampleCount, power, along, athw)
	return nil
}

func (cs *ChannelStore) initRowSentinels(row int) {
	cs.PingTime[row] = NaT
	cs.TransducerDepth[row] = math.NaN()
	cs.Frequency[row] = math.NaN()
	cs.TransmitPower[row] = math.NaN()
	cs.PulseLength[row] = math.NaN()
	cs.Bandwidth[row] = math.NaN()
	cs.SampleInterval[row] = math.NaN()
	cs.SoundVelocity[row] = math.NaN()
	cs.AbsorptionCoefficient[row] = math.NaN()
	cs.Heave[row] = math.NaN()
	cs.Pitch[row] = math.NaN()
	cs.Roll[row] = math.NaN()
	cs.Temperature[row] = math.NaN()
	cs.Heading[row] = math.NaN()
	if cs.StorePower {
		fillNaNRow(cs.Power, row, cs.NSamples)
	}
	if cs.StoreAngles {
		fillNaNRow(cs.AnglesAlongshipE, row, cs.NSamples)
		fillNaNRow(cs.AnglesAthwartshipE, row, cs.NSamples)
	}
}

func (cs *ChannelStore) growPingCapacity(newCap int) {
	oldCap := cs.pingCapacity
	cs.PingTime = append(cs.PingTime, make([]int64, newCap-oldCap)...)
	cs.ChannelMeta = append(cs.ChannelMeta, make([]*ChannelMetadata, newCap-oldCap)...)
	cs.TransducerDepth = append(cs.TransducerDepth, make([]float64, newCap-oldCap)...)
	cs.Frequency = append(cs.Frequency, make([]float64, newCap-oldCap)...)
	cs.TransmitPower = append(cs.TransmitPower, make([]float64, newCap-oldCap)...)
	cs.PulseLength = append(cs.PulseLength, make([]float64, newCap-oldCap)...)
	cs.Bandwidth = append(cs.Bandwidth, make([]float64, newCap-oldCap)...)
	cs.SampleInterval = append(cs.SampleInterval, make([]float64, newCap-oldCap)...)
	cs.SoundVelocity = append(cs.SoundVelocity, make([]float64, newCap-oldCap)...)
	cs.AbsorptionCoefficient = append(cs.AbsorptionCoefficient, make([]float64, newCap-oldCap)...)
	cs.Heave = append(cs.Heave, make([]float64, newCap-oldCap)...)
	cs.Pitch = append(cs.Pitch, make([]float64, newCap-oldCap)...)
	cs.Roll = append(cs.Roll, make([]float64, newCap-oldCap)...)
	cs.Temperature = append(cs.Temperature, make([]float64, newCap-oldCap)...)
	cs.Heading = append(cs.Heading, make([]float64, newCap-oldCap)...)
	cs.TransmitMode = append(cs.TransmitMode, make([]int, newCap-oldCap)...)
	cs.SampleOffset = append(cs.SampleOffset, make([]int, newCap-oldCap)...)
	cs.SampleCount = append(cs.SampleCount, make([]int, newCap-oldCap)...)
	if cs.DetectedBottom != nil {
		cs.DetectedBottom = append(cs.DetectedBottom, make([]float64, newCap-oldCap)...)
	}
	if cs.BottomReflectivity != nil {
		cs.BottomReflectivity = append(cs.BottomReflectivity, make([]float64, newCap-oldCap)...)
	}

	if cs.StorePower {
		cs.Power = growPingAxis(cs.Power, oldCap, newCap, cs.NSamples)
	}
	if cs.StoreAngles {
		cs.AnglesAlongshipE = growPingAxis(cs.AnglesAlongshipE, oldCap, newCap, cs.NSamples)
		cs.AnglesAthwartshipE = growPingAxis(cs.AnglesAthwartshipE, oldCap, newCap, cs.NSamples)
	}

	cs.pingCapacity = newCap

	for r := oldCap; r < newCap; r++ {
		cs.initRowSentinels(r)
	}
}

func (cs *ChannelStore) growSampleCapacity(newSampleCap int) {
	oldCap := cs.NSamples
	if cs.StorePower {
		cs.Power = growSampleAxis(cs.Power, cs.pingCapacity, oldCap, newSampleCap)
	}
	if cs.StoreAngles {
		cs.AnglesAlongshipE = growSampleAxis(cs.AnglesAlongshipE, cs.pingCapacity, oldCap, newSampleCap)
		cs.AnglesAthwartshipE = growSampleAxis(cs.AnglesAthwartshipE, cs.pingCapacity, oldCap, newSampleCap)
	}
	cs.NSamples = newSampleCap
}

func (cs *ChannelStore) rollOnce() {
	rollLeftInt64(cs.PingTime)
	rollLeftMeta(cs.ChannelMeta)
	rollLeftFloat64(cs.TransducerDepth)
	rollLeftFloat64(cs.Frequency)
	rollLeftFloat64(cs.TransmitPower)
	rollLeftFloat64(cs.PulseLength)
	rollLeftFloat64(cs.Bandwidth)
	rollLeftFloat64(cs.SampleInterval)
	rollLeftFloat64(cs.SoundVelocity)
	rollLeftFloat64(cs.AbsorptionCoefficient)
	rollLeftFloat64(cs.Heave)
	rollLeftFloat64(cs.Pitch)
	rollLeftFloat64(cs.Roll)
	rollLeftFloat64(cs.Temperature)
	rollLeftFloat64(cs.Heading)
	rollLeftInt(cs.TransmitMode)
	rollLeftInt(cs.SampleOffset)
	rollLeftInt(cs.SampleCount)
	if cs.DetectedBottom != nil {
		rollLeftFloat64(cs.DetectedBottom)
	}
	if cs.BottomReflectivity != nil {
		rollLeftFloat64(cs.BottomReflectivity)
	}
	if cs.StorePower {
		rollLeftMatrix(cs.Power, cs.pingCapacity, cs.NSamples)
	}
	if cs.StoreAngles {
		rollLeftMatrix(cs.AnglesAlongshipE, cs.pingCapacity, cs.NSamples)
		rollLeftMatrix(cs.AnglesAthwartshipE, cs.pingCapacity, cs.NSamples)
	}
}

func (cs *ChannelStore) writeRow(row int, dg Datagram, meta *ChannelMetadata, offset, sampleCount int, power, along, athw []float64) {
	cs.PingTime[row] = dg.Timestamp
	cs.ChannelMeta[row] = meta
	cs.TransducerDepth[row] = dg.TransducerDepth
	cs.Frequency[row] = dg.Frequency
	cs.TransmitPower[row] = dg.TransmitPower
	cs.PulseLength[row] = dg.PulseLength
	cs.Bandwidth[row] = dg.Bandwidth
	cs.SampleInterval[row] = dg.SampleInterval
	cs.SoundVelocity[row] = dg.SoundVelocity
	cs.AbsorptionCoefficient[row] = dg.AbsorptionCoefficient
	cs.Heave[row] = dg.Heave
	cs.Pitch[row] = dg.Pitch
	cs.Roll[row] = dg.Roll
	cs.Temperature[row] = dg.Temperature
	cs.Heading[row] = dg.Heading
	cs.TransmitMode[row] = int(dg.TransmitMode)
	cs.SampleOffset[row] = offset
	cs.SampleCount[row] = sampleCount

	if cs.StorePower {
		fillNaNRow(cs.Power, row, cs.NSamples)
		base := row * cs.NSamples
		copy(cs.Power[base:base+len(power)], power)
	}
	if cs.StoreAngles {
		fillNaNRow(cs.AnglesAlongshipE, row, cs.NSamples)
		fillNaNRow(cs.AnglesAthwartshipE, row, cs.NSamples)
		base := row * cs.NSamples
		copy(cs.AnglesAlongshipE[base:base+len(along)], along)
		copy(cs.AnglesAthwartshipE[base:base+len(athw)], athw)
	}
}

// AppendBottom attaches a BOT/DEP detection to every row whose ping_time
// equals t, per §4.2's append_bottom. reflectivity is only stored when
// hasReflectivity is true (BOT carries no reflectivity, only DEP does). A timestamp matching no stored ping is
// silently dropped, per §7/§8.
func (cs *ChannelStore) AppendBottom(t int64, depth float64, reflectivity float64, hasReflectivity bool) {
	if cs.DetectedBottom == nil {
		cs.DetectedBottom = make([]float64, cs.pingCapacity)
		for i := range cs.DetectedBottom {
			cs.DetectedBottom[i] = math.NaN()
		}
	}
	if hasReflectivity && cs.BottomReflectivity == nil {
		cs.BottomReflectivity = make([]float64, cs.pingCapacity)
		for i := range cs.BottomReflectivity {
			cs.BottomReflectivity[i] = math.NaN()
		}
	}

	for i := 0; i < cs.nPings(); i++ {
		if cs.PingTime[i] == t {
			cs.DetectedBottom[i] = depth
			if hasReflectivity {
				cs.BottomReflectivity[i] = reflectivity
			}
		}
	}
}

// Trim shrinks every store's physical arrays to n_pings, per §4.2's
// post-ingestion trim step.
func (cs *ChannelStore) Trim() {
	n := cs.nPings()
	if n == cs.pingCapacity {
		return
	}

	cs.PingTime = cs.PingTime[:n]
	cs.ChannelMeta = cs.ChannelMeta[:n]
	cs.TransducerDepth = cs.TransducerDepth[:n]
	cs.Frequency = cs.Frequency[:n]
	cs.TransmitPower = cs.TransmitPower[:n]
	cs.PulseLength = cs.PulseLength[:n]
	cs.Bandwidth = cs.Bandwidth[:n]
	cs.SampleInterval = cs.SampleInterval[:n]
	cs.SoundVelocity = cs.SoundVelocity[:n]
	cs.AbsorptionCoefficient = cs.AbsorptionCoefficient[:n]
	cs.Heave = cs.Heave[:n]
	cs.Pitch = cs.Pitch[:n]
	cs.Roll = cs.Roll[:n]
	cs.Temperature = cs.Temperature[:n]
	cs.Heading = cs.Heading[:n]
	cs.TransmitMode = cs.TransmitMode[:n]
	cs.SampleOffset = cs.SampleOffset[:n]
	cs.SampleCount = cs.SampleCount[:n]
	if cs.DetectedBottom != nil {
		cs.DetectedBottom = cs.DetectedBottom[:n]
	}
	if cs.BottomReflectivity != nil {
		cs.BottomReflectivity = cs.BottomReflectivity[:n]
	}

	if cs.StorePower {
		cs.Power = trimMatrixRows(cs.Power, n, cs.NSamples)
	}
	if cs.StoreAngles {
		cs.AnglesAlongshipE = trimMatrixRows(cs.AnglesAlongshipE, n, cs.NSamples)
		cs.AnglesAthwartshipE = trimMatrixRows(cs.AnglesAthwartshipE, n, cs.NSamples)
	}

	cs.pingCapacity = n
}

func trimMatrixRows(matrix []float64, n, sampleCapacity int) []float64 {
	return append([]float64(nil), matrix[:n*sampleCapacity]...)
}

// Insert merges a shape-compatible secondary store at a caller-chosen
// location, matching ping_time and sample_offset. §9 leaves the exact
// contract to implementers ("insert a shaped-compatible secondary store...
// at a caller-chosen location"); this implementation requires equal
// NSamples and StorePower/StoreAngles configuration, and splices the
// secondary's rows into position at without dropping or renumbering
// existing rows.
func (cs *ChannelStore) Insert(other *ChannelStore, at int) error {
	if other.StorePower != cs.StorePower || other.StoreAngles != cs.StoreAngles {
		return ErrInvalidChannelSelector
	}
	if other.NSamples != cs.NSamples {
		return ErrInvalidCalibrationShape
	}
	if at < 0 || at > cs.nPings() {
		return ErrIndexOutOfRange
	}

	n := other.nPings()
	newCap := cs.pingCapacity + n
	cs.growPingCapacity(newCap)

	// shift existing rows at/after `at` down by n to make room, copying
	// backwards so overlapping source/destination ranges don't clobber
	// each other
	origN := cs.nPings()
	for i := origN - 1; i >= at; i-- {
		cs.PingTime[i+n] = cs.PingTime[i]
		cs.ChannelMeta[i+n] = cs.ChannelMeta[i]
		cs.TransducerDepth[i+n] = cs.TransducerDepth[i]
		cs.Frequency[i+n] = cs.Frequency[i]
		cs.TransmitPower[i+n] = cs.TransmitPower[i]
		cs.PulseLength[i+n] = cs.PulseLength[i]
		cs.Bandwidth[i+n] = cs.Bandwidth[i]
		cs.SampleInterval[i+n] = cs.SampleInterval[i]
		cs.SoundVelocity[i+n] = cs.SoundVelocity[i]
		cs.AbsorptionCoefficient[i+n] = cs.AbsorptionCoefficient[i]
		cs.Heave[i+n] = cs.Heave[i]
		cs.Pitch[i+n] = cs.Pitch[i]
		cs.Roll[i+n] = cs.Roll[i]
		cs.Temperature[i+n] = cs.Temperature[i]
		cs.Heading[i+n] = cs.Heading[i]
		cs.TransmitMode[i+n] = cs.TransmitMode[i]
		cs.SampleOffset[i+n] = cs.SampleOffset[i]
		cs.SampleCount[i+n] = cs.SampleCount[i]
		if cs.StorePower {
			copy(cs.Power[(i+n)*cs.NSamples:(i+n+1)*cs.NSamples], cs.Power[i*cs.NSamples:(i+1)*cs.NSamples])
		}
		if cs.StoreAngles {
			copy(cs.AnglesAlongshipE[(i+n)*cs.NSamples:(i+n+1)*cs.NSamples], cs.AnglesAlongshipE[i*cs.NSamples:(i+1)*cs.NSamples])
			copy(cs.AnglesAthwartshipE[(i+n)*cs.NSamples:(i+n+1)*cs.NSamples], cs.AnglesAthwartshipE[i*cs.NSamples:(i+1)*cs.NSamples])
		}
	}
	for j := 0; j < n; j++ {
		dst := at + j
		cs.PingTime[dst] = other.PingTime[j]
		cs.ChannelMeta[dst] = other.ChannelMeta[j]
		cs.TransducerDepth[dst] = other.TransducerDepth[j]
		cs.Frequency[dst] = other.Frequency[j]
		cs.TransmitPower[dst] = other.TransmitPower[j]
		cs.PulseLength[dst] = other.PulseLength[j]
		cs.Bandwidth[dst] = other.Bandwidth[j]
		cs.SampleInterval[dst] = other.SampleInterval[j]
		cs.SoundVelocity[dst] = other.SoundVelocity[j]
		cs.AbsorptionCoefficient[dst] = other.AbsorptionCoefficient[j]
		cs.Heave[dst] = other.Heave[j]
		cs.Pitch[dst] = other.Pitch[j]
		cs.Roll[dst] = other.Roll[j]
		cs.Temperature[dst] = other.Temperature[j]
		cs.Heading[dst] = other.Heading[j]
		cs.TransmitMode[dst] = other.TransmitMode[j]
		cs.SampleOffset[dst] = other.SampleOffset[j]
		cs.SampleCount[dst] = other.SampleCount[j]
		if cs.StorePower {
			copy(cs.Power[dst*cs.NSamples:(dst+1)*cs.NSamples], other.Power[j*other.NSamples:(j+1)*other.NSamples])
		}
		if cs.StoreAngles {
			copy(cs.AnglesAlongshipE[dst*cs.NSamples:(dst+1)*cs.NSamples], other.AnglesAlongshipE[j*other.NSamples:(j+1)*other.NSamples])
			copy(cs.AnglesAthwartshipE[dst*cs.NSamples:(dst+1)*cs.NSamples], other.AnglesAthwartshipE[j*other.NSamples:(j+1)*other.NSamples])
		}
	}

	cs.NPings = origN + n
	return nil
}

// rowSlice returns the sample-axis slice for row within matrix, given the
// store's current NSamples stride.
func (cs *ChannelStore) rowSlice(matrix []float64, row int) []float64 {
	return matrix[row*cs.NSamples : row*cs.NSamples+cs.NSamples]
}

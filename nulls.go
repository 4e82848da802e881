package echolab

import "math"

// fillNaNRow fills row (0-indexed) of a flat row-major matrix with NaN
// across the full sample capacity. Used to initialise newly grown ping
// rows and to NaN-pad the tail of a ping shorter than the store's current
// sample capacity, per the "padding = NaN" invariant of §3.
func fillNaNRow(matrix []float64, row, sampleCapacity int) {
	start := row * sampleCapacity
	for i := start; i < start+sampleCapacity; i++ {
		matrix[i] = math.NaN()
	}
}

// fillNaNRowRange fills columns [from, sampleCapacity) of row with NaN,
// i.e. the tail beyond an incoming ping's sample_count.
func fillNaNRowRange(matrix []float64, row, from, sampleCapacity int) {
	start := row*sampleCapacity + from
	end := row*sampleCapacity + sampleCapacity
	for i := start; i < end; i++ {
		matrix[i] = math.NaN()
	}
}

// newNaNMatrix allocates a flat [pingCapacity, sampleCapacity] matrix fully
// initialised to NaN, used for the rolling store's up-front allocation
// (§4.1: "if rolling, allocation happens in the constructor with NaN
// fill").
func newNaNMatrix(pingCapacity, sampleCapacity int) []float64 {
	m := make([]float64, pingCapacity*sampleCapacity)
	for i := range m {
		m[i] = math.NaN()
	}
	return m
}

// growPingAxis extends a flat matrix's ping (row) axis from oldPingCap to
// newPingCap at a fixed sampleCapacity, preserving existing rows and
// NaN-filling the new ones.
func growPingAxis(matrix []float64, oldPingCap, newPingCap, sampleCapacity int) []float64 {
	grown := make([]float64, newPingCap*sampleCapacity)
	copy(grown, matrix)
	for r := oldPingCap; r < newPingCap; r++ {
		fillNaNRow(grown, r, sampleCapacity)
	}
	return grown
}

// growSampleAxis extends a flat matrix's sample (column) axis from
// oldSampleCap to newSampleCap, preserving every existing row's content and
// NaN-padding the newly widened tail of each row. Because the matrix is
// row-major this requires a full reallocation, unlike growPingAxis which
// can simply append.
func growSampleAxis(matrix []float64, pingCapacity, oldSampleCap, newSampleCap int) []float64 {
	grown := make([]float64, pingCapacity*newSampleCap)
	for r := 0; r < pingCapacity; r++ {
		src := matrix[r*oldSampleCap : r*oldSampleCap+oldSampleCap]
		copy(grown[r*newSampleCap:], src)
		fillNaNRowRange(grown, r, oldSampleCap, newSampleCap)
	}
	return grown
}

// rollLeftMatrix drops row 0 and shifts every remaining row up by one,
// leaving the final row's contents untouched (the caller immediately
// overwrites it with the incoming ping).
func rollLeftMatrix(matrix []float64, pingCapacity, sampleCapacity int) {
	copy(matrix[0:(pingCapacity-1)*sampleCapacity], matrix[sampleCapacity:pingCapacity*sampleCapacity])
}

// rollLeftFloat64 performs the equivalent per-ping-vector roll for a
// float64 scalar vector.
func rollLeftFloat64(v []float64) {
	copy(v, v[1:])
}

// rollLeftInt64 performs the equivalent per-ping-vector roll for an int64
// scalar vector (ping_time uses the NaT sentinel rather than NaN).
func rollLeftInt64(v []int64) {
	copy(v, v[1:])
}

// rollLeftInt performs the equivalent per-ping-vector roll for an int
// scalar vector (sample_offset, sample_count, transmit_mode).
func rollLeftInt(v []int) {
	copy(v, v[1:])
}

// rollLeftMeta performs the equivalent per-ping-vector roll for the
// ChannelMetadata reference vector.
func rollLeftMeta(v []*ChannelMetadata) {
	copy(v, v[1:])
}

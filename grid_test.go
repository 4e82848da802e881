package echolab

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFixtureStore builds a non-rolling store and fills its vectors/matrix
// directly (bypassing AppendPing) so grid/resample tests can set up exact,
// known sample_interval/sound_velocity/offset scenarios.
func newFixtureStore(nPings, nSamples int) *ChannelStore {
	cs := NewChannelStore([]string{"ch1"}, true, false, false, nPings, 0)
	cs.pingCapacity = nPings
	cs.NSamples = nSamples
	cs.NPings = nPings
	cs.allocateVectors(nPings, false)
	cs.allocateMatrices(nPings, nSamples, false)
	cs.ChannelMeta = make([]*ChannelMetadata, nPings)
	for i := 0; i < nPings; i++ {
		cs.PingTime[i] = int64(i)
		cs.SampleInterval[i] = 1e-4
		cs.SoundVelocity[i] = 1500
		cs.SampleOffset[i] = 0
		cs.SampleCount[i] = nSamples
		cs.Frequency[i] = 38000
	}
	return cs
}

func TestGetSampleDataSingleIntervalIsNoOp(t *testing.T) {
	cs := newFixtureStore(2, 3)
	cs.Power[0*3+0], cs.Power[0*3+1], cs.Power[0*3+2] = 1, 2, 3
	cs.Power[1*3+0], cs.Power[1*3+1], cs.Power[1*3+2] = 4, 5, 6

	grid, err := cs.GetSampleData(PropertyPower, nil, ResampleShortest, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, grid.nPings())
	assert.Equal(t, 3, grid.nSamples())
	assert.Equal(t, []float64{1, 2, 3}, grid.Data[0])
	assert.Equal(t, []float64{4, 5, 6}, grid.Data[1])
	assert.Equal(t, 1500.0, grid.SoundVelocity)
}

func TestGetSampleDataTwoSampleIntervalsResamples(t *testing.T) {
	cs := newFixtureStore(2, 4)
	// ping 0: fine interval (T/2), ping 1: coarse interval (T)
	cs.SampleInterval[0] = 1e-4
	cs.SampleInterval[1] = 2e-4
	cs.SampleCount[0] = 4
	cs.SampleCount[1] = 2
	for k := 0; k < 4; k++ {
		cs.Power[0*4+k] = float64(k)
	}
	cs.Power[1*4+0] = 10
	cs.Power[1*4+1] = 20

	grid, err := cs.GetSampleData(PropertyPower, nil, ResampleLongest, nil)
	require.NoError(t, err)
	// target T = longest = 2e-4 -> ping 0 pools pairs down to 2 samples
	assert.Equal(t, 2, grid.nSamples())
	assert.Len(t, grid.Data[0], 2)
	assert.Len(t, grid.Data[1], 2)
	assert.Equal(t, []float64{10, 20}, grid.Data[1])
}

func TestGetSampleDataUnknownIntervalRatioErrors(t *testing.T) {
	cs := newFixtureStore(2, 3)
	cs.SampleInterval[0] = 1e-4
	cs.SampleInterval[1] = 1.3e-4 // not an integer ratio of 1e-4

	_, err := cs.GetSampleData(PropertyPower, nil, ResampleShortest, nil)
	assert.ErrorIs(t, err, ErrInvalidResampleRate)
}

func TestGetSampleDataUnknownPropertyErrors(t *testing.T) {
	cs := newFixtureStore(1, 1)
	cs.StoreAngles = false
	_, err := cs.GetSampleData(PropertyAnglesAlongshipE, nil, ResampleShortest, nil)
	assert.ErrorIs(t, err, ErrUnknownProperty)
}

func TestGetSampleDataEmptyIndicesReturnsEmptyGrid(t *testing.T) {
	cs := newFixtureStore(2, 2)
	grid, err := cs.GetSampleData(PropertyPower, nil, ResampleShortest, []int{})
	require.NoError(t, err)
	assert.Equal(t, 0, grid.nPings())
}

func TestGetSampleDataSoundSpeedReprojectionPicksMajority(t *testing.T) {
	cs := newFixtureStore(3, 2)
	cs.SoundVelocity[0] = 1500
	cs.SoundVelocity[1] = 1500
	cs.SoundVelocity[2] = 1490

	grid, err := cs.GetSampleData(PropertyPower, nil, ResampleShortest, nil)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, grid.SoundVelocity, "majority sound velocity wins the tie-break")
}

func TestApplyDepthShiftSingleOffsetIsNoOp(t *testing.T) {
	grid := &ProcessedData{
		Data:            [][]float64{{1, 2, 3}, {4, 5, 6}},
		Range:           []float64{0, 1, 2},
		SampleThickness: 1,
	}
	deltas := []float64{5, 5}
	out := applyDepthShift(grid, deltas)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, out.Data, "identical offsets across every row collapse to a no-op shift")
}

func TestApplyDepthShiftPadsDifferingOffsets(t *testing.T) {
	grid := &ProcessedData{
		Data:            [][]float64{{1, 2}, {3, 4}},
		Range:           []float64{0, 1},
		SampleThickness: 1,
	}
	deltas := []float64{0, 2}
	out := applyDepthShift(grid, deltas)
	require.Len(t, out.Data, 2)
	assert.True(t, math.IsNaN(out.Data[0][2]) || math.IsNaN(out.Data[0][len(out.Data[0])-1]))
	assert.Equal(t, 3.0, out.Data[1][2])
	assert.Equal(t, 4.0, out.Data[1][3])
}

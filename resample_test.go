package echolab

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRatioPassThroughAndDown(t *testing.T) {
	ratio, upsample, ok := computeRatio(1.0, 1.0)
	require.True(t, ok)
	assert.Equal(t, 1, ratio)
	assert.False(t, upsample)

	ratio, upsample, ok = computeRatio(4.0, 1.0)
	require.True(t, ok)
	assert.Equal(t, 4, ratio)
	assert.False(t, upsample, "T > si pools samples, not a repeat")

	ratio, upsample, ok = computeRatio(1.0, 4.0)
	require.True(t, ok)
	assert.Equal(t, 4, ratio)
	assert.True(t, upsample, "T < si repeats each input sample")

	_, _, ok = computeRatio(3.0, 2.0)
	assert.False(t, ok, "non-integer ratio is rejected")
}

func TestResampleRowPowerPoolingIsEnergyConserving(t *testing.T) {
	// two equal-power samples pooled should average to the same dB value
	// in the linear domain, not the arithmetic mean of the dB values.
	row := []float64{10, 10, 10, 10}
	out := resampleRow(row, 2, false, true)
	require.Len(t, out, 2)
	assert.InDelta(t, 10, out[0], 1e-9)
	assert.InDelta(t, 10, out[1], 1e-9)

	// pooling two different-power samples in the linear domain must not
	// equal their plain dB average.
	mixed := []float64{0, 20}
	pooled := resampleRow(mixed, 2, false, true)
	plainMean := (mixed[0] + mixed[1]) / 2
	assert.NotEqual(t, plainMean, pooled[0])
	expect := 10 * math.Log10((math.Pow(10, 0) + math.Pow(10, 2)) / 2)
	assert.InDelta(t, expect, pooled[0], 1e-9)
}

func TestResampleRowAnglePoolingIsPlainMean(t *testing.T) {
	row := []float64{2, 4, 6, 8}
	out := resampleRow(row, 2, false, false)
	require.Len(t, out, 2)
	assert.InDelta(t, 3, out[0], 1e-9)
	assert.InDelta(t, 7, out[1], 1e-9)
}

func TestResampleRowUpsampleRepeats(t *testing.T) {
	row := []float64{1, 2}
	out := resampleRow(row, 3, true, false)
	assert.Equal(t, []float64{1, 1, 1, 2, 2, 2}, out)
}

func TestResampleRowNoOpWhenRatioOne(t *testing.T) {
	row := []float64{1, 2, 3}
	out := resampleRow(row, 1, false, true)
	assert.Equal(t, row, out)
}

func TestResolveTargetIntervalShortestLongest(t *testing.T) {
	intervals := []float64{0.0001, 0.0002, 0.0004}

	shortest, err := resolveTargetInterval(ResampleShortest, intervals)
	require.NoError(t, err)
	assert.Equal(t, 0.0001, shortest)

	longest, err := resolveTargetInterval(ResampleLongest, intervals)
	require.NoError(t, err)
	assert.Equal(t, 0.0004, longest)
}

func TestInterpolateLinearOutOfRangeIsNaN(t *testing.T) {
	src := []float64{0, 1, 2}
	row := []float64{10, 20, 30}
	dst := []float64{-1, 0, 0.5, 2, 3}

	out := interpolateLinear(src, row, dst)
	assert.True(t, math.IsNaN(out[0]))
	assert.InDelta(t, 10, out[1], 1e-9)
	assert.InDelta(t, 15, out[2], 1e-9)
	assert.InDelta(t, 30, out[3], 1e-9)
	assert.True(t, math.IsNaN(out[4]))
}

func TestUniqueNonNaNDropsNaNAndDuplicates(t *testing.T) {
	in := []float64{1, math.NaN(), 1, 2, math.NaN(), 2}
	out := uniqueNonNaN(in)
	assert.ElementsMatch(t, []float64{1, 2}, out)
}

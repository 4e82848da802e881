package echolab

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalibratedFixtureStore() *ChannelStore {
	cs := newFixtureStore(2, 2)
	for i := range []int{0, 1} {
		cs.Frequency[i] = 38000
		cs.TransmitPower[i] = 1000
		cs.PulseLength[i] = 1.024e-3
		cs.AbsorptionCoefficient[i] = 0.01
		cs.TransducerDepth[i] = 5
		cs.Heave[i] = 0.5
	}
	cs.Power[0], cs.Power[1] = -50, -40
	cs.Power[2], cs.Power[3] = -45, -35
	cs.ChannelMeta[0] = &ChannelMetadata{Gain: 25, EquivalentBeamAngle: -20, PulseLengthTable: []float64{1.024e-3}, SaCorrectionTable: []float64{-0.5}}
	cs.ChannelMeta[1] = &ChannelMetadata{Gain: 25, EquivalentBeamAngle: -20, PulseLengthTable: []float64{1.024e-3}, SaCorrectionTable: []float64{-0.5}}
	return cs
}

// closed-form Sv for one (row,sample), replicated from §4.4's formula to
// check convertPower's arithmetic independently of the production code.
func referenceSv(p, freq, gain, transmitPower, eqBeamAngle, pulseLength, absorption, sa, c, r, sampleThickness float64, tvgCorrected bool) float64 {
	wavelength := c / freq
	psiLinear := math.Pow(10, eqBeamAngle/10)
	G := 10 * math.Log10(transmitPower*math.Pow(math.Pow(10, gain/10), 2)*wavelength*wavelength*c*pulseLength*psiLinear/(32*math.Pi*math.Pi))
	rC := r
	if tvgCorrected {
		rC = math.Max(r-2*sampleThickness, 0)
	}
	tvg := 20 * math.Log10(math.Max(rC, 1))
	return p + tvg + 2*absorption*rC - G - 2*sa
}

func TestConvertPowerSvMatchesClosedForm(t *testing.T) {
	cs := newCalibratedFixtureStore()

	grid, err := cs.GetSv(nil, false, false, false, false, ResampleShortest, nil)
	require.NoError(t, err)

	c := 1500.0
	for i := 0; i < 2; i++ {
		for k := 0; k < 2; k++ {
			p := []float64{-50, -40, -45, -35}[i*2+k]
			want := referenceSv(p, 38000, 25, 1000, -20, 1.024e-3, 0.01, -0.5, c, grid.Range[k], grid.SampleThickness, false)
			assert.InDelta(t, want, grid.Data[i][k], 1e-6)
		}
	}
	assert.Equal(t, DataSv, grid.DataType)
	assert.False(t, grid.IsLog == false && grid.DataType == DataSv, "log-domain Sv keeps IsLog true")
}

func TestGetsvForcesLinearDomain(t *testing.T) {
	cs := newCalibratedFixtureStore()

	logGrid, err := cs.GetSv(nil, false, false, false, false, ResampleShortest, nil)
	require.NoError(t, err)
	linGrid, err := cs.Getsv(nil, false, false, false, ResampleShortest, nil)
	require.NoError(t, err)

	assert.Equal(t, DataSv_linear, linGrid.DataType)
	assert.False(t, linGrid.IsLog)
	for i := range linGrid.Data {
		for k := range linGrid.Data[i] {
			assert.InDelta(t, math.Pow(10, logGrid.Data[i][k]/10), linGrid.Data[i][k], 1e-6)
		}
	}
}

func TestConvertPowerSpHasNoSaCorrectionAndDifferentTVG(t *testing.T) {
	cs := newCalibratedFixtureStore()
	grid, err := cs.GetSp(nil, false, false, false, false, ResampleShortest, nil)
	require.NoError(t, err)
	assert.Equal(t, DataSp, grid.DataType)

	// closed-form Sp: 16π² gain term, 40log10 TVG, and no sa_correction
	// term even though the fixture's metadata carries one
	c := 1500.0
	wavelength := c / 38000
	G := 10 * math.Log10(1000*math.Pow(math.Pow(10, 25.0/10), 2)*wavelength*wavelength/(16*math.Pi*math.Pi))
	for i := 0; i < 2; i++ {
		for k := 0; k < 2; k++ {
			p := []float64{-50, -40, -45, -35}[i*2+k]
			r := grid.Range[k]
			want := p + 40*math.Log10(math.Max(r, 1)) + 2*0.01*r - G
			assert.InDelta(t, want, grid.Data[i][k], 1e-6)
		}
	}
}

func TestConvertPowerHeaveCorrectShiftsDepth(t *testing.T) {
	cs := newCalibratedFixtureStore()
	grid, err := cs.GetSv(nil, false, false, true, true, ResampleShortest, nil)
	require.NoError(t, err)
	assert.NotNil(t, grid.Range)
	// transducer_depth 5 + heave 0.5: the first sample lands at 5.5 m,
	// to within half a sample of the shift's rounding
	assert.InDelta(t, 5.5, grid.Range[0], grid.SampleThickness/2)
}

func TestGetBottomSoundSpeedReprojection(t *testing.T) {
	cs := newFixtureStore(2, 2)
	cs.SoundVelocity[0] = 1500
	cs.SoundVelocity[1] = 1500
	cs.TransducerDepth[0] = 2
	cs.TransducerDepth[1] = 2
	cs.DetectedBottom = []float64{100, 200}

	cal := &Calibration{SoundVelocity: NewCalScalar(1485)}
	out, err := cs.GetBottom(cal, true, false, nil)
	require.NoError(t, err)

	want0 := 100.0 * 1485.0 / 1500.0
	want1 := 200.0 * 1485.0 / 1500.0
	assert.InDelta(t, want0, out[0], 1e-9)
	assert.InDelta(t, want1, out[1], 1e-9)
}

func TestGetBottomSubtractsTransducerDepthUnlessReturnDepth(t *testing.T) {
	cs := newFixtureStore(1, 1)
	cs.TransducerDepth[0] = 3
	cs.DetectedBottom = []float64{50}

	asRange, err := cs.GetBottom(nil, false, false, nil)
	require.NoError(t, err)
	assert.InDelta(t, 47, asRange[0], 1e-9)

	asDepth, err := cs.GetBottom(nil, true, false, nil)
	require.NoError(t, err)
	assert.InDelta(t, 50, asDepth[0], 1e-9)
}

func TestGetBottomNaNWhenNoDetections(t *testing.T) {
	cs := newFixtureStore(2, 2)
	out, err := cs.GetBottom(nil, false, false, nil)
	require.NoError(t, err)
	for _, v := range out {
		assert.True(t, math.IsNaN(v))
	}
}

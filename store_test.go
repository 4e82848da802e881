package echolab

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func rawPowerDatagram(channel int, t int64, freq float64, samples []int16) Datagram {
	return Datagram{
		Type:           RecordRaw,
		Tag:            "RAW",
		Timestamp:      t,
		Channel:        channel,
		Mode:           ModePower,
		Frequency:      freq,
		SampleInterval: 1e-4,
		SoundVelocity:  1500,
		Power: func() ([]int16, bool) {
			return samples, true
		},
	}
}

func TestChannelStoreAppendPingGrowsAndWrites(t *testing.T) {
	cs := NewChannelStore([]string{"ch1"}, true, false, false, 2, 0)

	meta := &ChannelMetadata{ChannelID: "ch1", Frequency: 38000}
	dg1 := rawPowerDatagram(1, 1000, 38000, []int16{10, 20, 30})
	dg2 := rawPowerDatagram(1, 2000, 38000, []int16{1, 2})
	dg3 := rawPowerDatagram(1, 3000, 38000, []int16{5, 6, 7, 8})

	require.NoError(t, cs.AppendPing(dg1, meta, false, 0, false, 0))
	require.NoError(t, cs.AppendPing(dg2, meta, false, 0, false, 0))
	require.NoError(t, cs.AppendPing(dg3, meta, false, 0, false, 0))

	assert.Equal(t, 3, cs.nPings())
	assert.Equal(t, int64(1000), cs.PingTime[0])
	assert.Equal(t, int64(3000), cs.PingTime[2])
	assert.Equal(t, 3, cs.SampleCount[0])
	assert.Equal(t, 2, cs.SampleCount[1])
	assert.Equal(t, 4, cs.SampleCount[2])

	row2 := cs.rowSlice(cs.Power, 1)
	assert.True(t, math.IsNaN(row2[2]), "unfilled tail of a shorter ping stays NaN")

	cs.Trim()
	assert.Equal(t, 3, cs.nPings())
}

func TestChannelStoreRollingEvictsOldestPing(t *testing.T) {
	cs := NewChannelStore([]string{"ch1"}, true, false, true, 2, 4)
	meta := &ChannelMetadata{ChannelID: "ch1"}

	require.NoError(t, cs.AppendPing(rawPowerDatagram(1, 100, 38000, []int16{1, 2}), meta, false, 0, false, 0))
	require.NoError(t, cs.AppendPing(rawPowerDatagram(1, 200, 38000, []int16{3, 4}), meta, false, 0, false, 0))
	require.NoError(t, cs.AppendPing(rawPowerDatagram(1, 300, 38000, []int16{5, 6}), meta, false, 0, false, 0))

	assert.Equal(t, 2, cs.nPings(), "rolling store never exceeds its fixed ping capacity")
	assert.Equal(t, int64(200), cs.PingTime[0], "oldest ping (t=100) was evicted")
	assert.Equal(t, int64(300), cs.PingTime[1])
}

func TestChannelStoreAppendBottomMatchesByTimestamp(t *testing.T) {
	cs := NewChannelStore([]string{"ch1"}, true, false, false, 4, 0)
	meta := &ChannelMetadata{ChannelID: "ch1"}
	require.NoError(t, cs.AppendPing(rawPowerDatagram(1, 111, 38000, []int16{1}), meta, false, 0, false, 0))
	require.NoError(t, cs.AppendPing(rawPowerDatagram(1, 222, 38000, []int16{1}), meta, false, 0, false, 0))

	cs.AppendBottom(222, 55.5, 0, false)
	assert.True(t, math.IsNaN(cs.DetectedBottom[0]), "ping with non-matching timestamp untouched")
	assert.Equal(t, 55.5, cs.DetectedBottom[1])

	cs.AppendBottom(999, 1.0, 0, false)
}

func TestWindowSamplesInclusiveBounds(t *testing.T) {
	data := []int16{0, 1, 2, 3, 4, 5}

	win, offset := windowSamples(data, true, 2, true, 4)
	assert.Equal(t, []int16{2, 3, 4}, win)
	assert.Equal(t, 2, offset)

	win, offset = windowSamples(data, false, 0, false, 0)
	assert.Equal(t, data, win)
	assert.Equal(t, 0, offset)

	win, _ = windowSamples(data, true, 4, false, 0)
	assert.Equal(t, []int16{4, 5}, win)
}

// TestPowerDecodeRoundTrip checks the indexed-power-to-dB conversion is a
// linear, invertible scale over the full int16 range.
func TestPowerDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		raw := rapid.Int16().Draw(rt, "raw")
		decoded := decodePower([]int16{raw})
		back := int16(math.Round(decoded[0] / powerDecodeFactor))
		assert.Equal(rt, raw, back)
	})
}

func TestAngleDecodeSplitsBytes(t *testing.T) {
	// electrical angle word packs alongship in the high byte, athwartship
	// in the low byte, per §4.1's encoding.
	word := uint16(0x7F01) // along = 127, athw = 1
	along, athw := decodeAngles([]uint16{word})
	assert.InDelta(t, 127*angleElectricalScale, along[0], 1e-9)
	assert.InDelta(t, 1*angleElectricalScale, athw[0], 1e-9)
}

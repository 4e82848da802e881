package echolab

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	dgs []Datagram
	pos int
}

func (r *fakeReader) Next() (Datagram, error) {
	if r.pos >= len(r.dgs) {
		return Datagram{}, io.EOF
	}
	dg := r.dgs[r.pos]
	r.pos++
	return dg, nil
}

func (r *fakeReader) Close() error { return nil }

type fakeNMEA struct {
	entries []string
	trimmed bool
}

func (b *fakeNMEA) Add(timestampMs int64, sentence string) { b.entries = append(b.entries, sentence) }
func (b *fakeNMEA) Trim()                                  { b.trimmed = true }

func configDatagram(channel int, channelID string, freq float64) Datagram {
	return Datagram{
		Type:    RecordConfig,
		Tag:     "CON",
		Channel: channel,
		Config:  ConfigurationRecord{ChannelID: channelID, Frequency: freq},
	}
}

func TestIngestFileTwoChannelsSequencing(t *testing.T) {
	reader := &fakeReader{dgs: []Datagram{
		configDatagram(1, "ch1", 38000),
		configDatagram(2, "ch2", 120000),
		rawPowerDatagram(1, 1000, 38000, []int16{1, 2}),
		rawPowerDatagram(2, 1000, 120000, []int16{3, 4}),
		rawPowerDatagram(1, 2000, 38000, []int16{5, 6}),
		rawPowerDatagram(2, 2000, 120000, []int16{7, 8}),
	}}
	nmea := &fakeNMEA{}

	e := NewEngine(EngineConfig{StorePower: true, ChunkWidth: 10})
	require.NoError(t, e.IngestFile("f.raw", "/data", reader, nmea))

	assert.ElementsMatch(t, []string{"ch1", "ch2"}, e.ChannelOrder)
	assert.Equal(t, 2, e.NPings, "the ping counter advances once per channel-1 RAW datagram")
	assert.Equal(t, 2, e.Stores["ch1"].nPings())
	assert.Equal(t, 2, e.Stores["ch2"].nPings())
	assert.Equal(t, int64(1000), e.StartTime)
	assert.Equal(t, int64(2000), e.EndTime)
}

func TestIngestFileChannelFilterDropsUnselectedConfig(t *testing.T) {
	reader := &fakeReader{dgs: []Datagram{
		configDatagram(1, "ch1", 38000),
		configDatagram(2, "ch2", 120000),
		rawPowerDatagram(1, 1000, 38000, []int16{1}),
		rawPowerDatagram(2, 1000, 120000, []int16{2}),
	}}

	e := NewEngine(EngineConfig{StorePower: true, ChannelIDs: []string{"ch1"}, ChunkWidth: 10})
	require.NoError(t, e.IngestFile("f.raw", "/data", reader, nil))

	assert.Equal(t, []string{"ch1"}, e.ChannelOrder)
	assert.Nil(t, e.Stores["ch2"])
}

func TestIngestFileTimeFilterSkipsOutOfRangeRaw(t *testing.T) {
	reader := &fakeReader{dgs: []Datagram{
		configDatagram(1, "ch1", 38000),
		rawPowerDatagram(1, 100, 38000, []int16{1}),
		rawPowerDatagram(1, 5000, 38000, []int16{2}),
		rawPowerDatagram(1, 9000, 38000, []int16{3}),
	}}

	e := NewEngine(EngineConfig{
		StorePower: true, ChunkWidth: 10,
		HasStartTime: true, StartTime: 1000,
		HasEndTime: true, EndTime: 6000,
	})
	require.NoError(t, e.IngestFile("f.raw", "/data", reader, nil))

	assert.Equal(t, 1, e.Stores["ch1"].nPings(), "only the 5000ms ping passes the time filter")
	assert.Equal(t, 1, e.NPings, "the ping counter only advances for RAW datagrams that pass the time filter")
}

func TestIngestFileNMEAFeedsInjectedBuffer(t *testing.T) {
	reader := &fakeReader{dgs: []Datagram{
		{Type: RecordNMEA, Tag: "NME", Timestamp: 500, NMEASentence: "$GPGGA,..."},
	}}
	nmea := &fakeNMEA{}

	e := NewEngine(EngineConfig{})
	require.NoError(t, e.IngestFile("f.raw", "/data", reader, nmea))

	require.Len(t, nmea.entries, 1)
	assert.Equal(t, "$GPGGA,...", nmea.entries[0])
}

func TestIngestFileTagRecordIsNoOp(t *testing.T) {
	reader := &fakeReader{dgs: []Datagram{
		{Type: RecordTag, Tag: "TAG", Timestamp: 500},
	}}
	e := NewEngine(EngineConfig{})
	assert.NoError(t, e.IngestFile("f.raw", "/data", reader, nil))
}

func TestIngestFileUnknownRecordDoesNotError(t *testing.T) {
	reader := &fakeReader{dgs: []Datagram{
		{Type: RecordUnknown, Tag: "XYZ", Timestamp: 500},
	}}
	e := NewEngine(EngineConfig{})
	assert.NoError(t, e.IngestFile("f.raw", "/data", reader, nil))
}

func TestIngestFileBottomDispatchesByChannelNumberOrder(t *testing.T) {
	reader := &fakeReader{dgs: []Datagram{
		configDatagram(1, "ch1", 38000),
		configDatagram(2, "ch2", 120000),
		rawPowerDatagram(1, 1000, 38000, []int16{1}),
		rawPowerDatagram(2, 1000, 120000, []int16{2}),
		{
			Type:               RecordBottom,
			Tag:                "BOT",
			Timestamp:          1000,
			BottomDepth:        []float64{12.5, 20.0},
			BottomReflectivity: []float64{0.1, 0.2},
		},
	}}

	e := NewEngine(EngineConfig{StorePower: true, ChunkWidth: 10})
	require.NoError(t, e.IngestFile("f.raw", "/data", reader, nil))

	assert.Equal(t, 12.5, e.Stores["ch1"].DetectedBottom[0], "BOT index 0 maps to channel number 1")
	assert.Equal(t, 20.0, e.Stores["ch2"].DetectedBottom[0], "BOT index 1 maps to channel number 2")
	assert.Nil(t, e.Stores["ch1"].BottomReflectivity, "BOT carries no reflectivity")
}

func TestIngestFileDepthCarriesReflectivity(t *testing.T) {
	reader := &fakeReader{dgs: []Datagram{
		configDatagram(1, "ch1", 38000),
		rawPowerDatagram(1, 1000, 38000, []int16{1}),
		{
			Type:               RecordDepth,
			Tag:                "DEP",
			Timestamp:          1000,
			BottomDepth:        []float64{15.0},
			BottomReflectivity: []float64{0.3},
		},
	}}

	e := NewEngine(EngineConfig{StorePower: true, ChunkWidth: 10})
	require.NoError(t, e.IngestFile("f.raw", "/data", reader, nil))

	assert.Equal(t, 15.0, e.Stores["ch1"].DetectedBottom[0])
	require.NotNil(t, e.Stores["ch1"].BottomReflectivity)
	assert.Equal(t, 0.3, e.Stores["ch1"].BottomReflectivity[0])
}

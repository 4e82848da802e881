package echolab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObserveTimeNeverRevisesStartDownward(t *testing.T) {
	e := NewEngine(EngineConfig{})
	e.observeTime(5000)
	e.observeTime(1000) // earlier wall-clock timestamp from a later file
	e.observeTime(9000)

	assert.Equal(t, int64(5000), e.StartTime, "start_time is fixed at the first observation")
	assert.Equal(t, int64(9000), e.EndTime, "end_time still tracks the running maximum")
}

func TestObservePingTracksBounds(t *testing.T) {
	e := NewEngine(EngineConfig{})
	e.observePing(3)
	e.observePing(1)
	e.observePing(7)

	assert.Equal(t, 1, e.StartPing)
	assert.Equal(t, 7, e.EndPing)
}

func TestPassesChannelFilterByIDAndFrequency(t *testing.T) {
	e := NewEngine(EngineConfig{ChannelIDs: []string{"ch1"}, Frequencies: []float64{38000}})

	assert.True(t, e.passesChannelFilter("ch1", 38000))
	assert.False(t, e.passesChannelFilter("ch2", 38000), "wrong channel id")
	assert.False(t, e.passesChannelFilter("ch1", 120000), "wrong frequency")

	open := NewEngine(EngineConfig{})
	assert.True(t, open.passesChannelFilter("anything", 1), "empty filters pass everything")
}

func TestPassesTimeFilterInclusiveBounds(t *testing.T) {
	e := NewEngine(EngineConfig{HasStartTime: true, StartTime: 100, HasEndTime: true, EndTime: 200})
	assert.True(t, e.passesTimeFilter(100))
	assert.True(t, e.passesTimeFilter(200))
	assert.False(t, e.passesTimeFilter(99))
	assert.False(t, e.passesTimeFilter(201))
}

func TestPassesPingFilterInclusiveBounds(t *testing.T) {
	e := NewEngine(EngineConfig{HasStartPing: true, StartPing: 2, HasEndPing: true, EndPing: 5})
	assert.False(t, e.passesPingFilter(1))
	assert.True(t, e.passesPingFilter(2))
	assert.True(t, e.passesPingFilter(5))
	assert.False(t, e.passesPingFilter(6))
}

func TestGetOrCreateStoreIsLazyAndOrdered(t *testing.T) {
	e := NewEngine(EngineConfig{StorePower: true, ChunkWidth: 10})

	first := e.getOrCreateStore("ch2")
	second := e.getOrCreateStore("ch1")
	again := e.getOrCreateStore("ch2")

	assert.Same(t, first, again, "a second lookup returns the same store instance")
	assert.Equal(t, []string{"ch2", "ch1"}, e.ChannelOrder, "channel order reflects first-seen order")
}

func TestFinalizeAllTrimsEveryStore(t *testing.T) {
	e := NewEngine(EngineConfig{StorePower: true, ChunkWidth: 10})
	meta := &ChannelMetadata{ChannelID: "ch1"}
	store := e.getOrCreateStore("ch1")
	_ = store.AppendPing(rawPowerDatagram(1, 1000, 38000, []int16{1, 2}), meta, false, 0, false, 0)

	assert.Greater(t, len(store.Power), store.NPings*store.NSamples, "chunked allocation over-allocates before trimming")
	e.FinalizeAll()
	assert.Equal(t, store.NPings*store.NSamples, len(store.Power), "Trim shrinks the backing array to exactly n_pings*n_samples")
}

func TestStoreReturnsNilForUnknownChannel(t *testing.T) {
	e := NewEngine(EngineConfig{})
	assert.Nil(t, e.Store("ghost"))
}

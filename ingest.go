package echolab

import (
	"errors"
	"io"
)

// IngestFile sequences one file's datagram stream into the engine's
// ChannelStores, implementing §4.2's Ingestor end to end. fileName/fileDir
// are recorded on every ChannelMetadata created from this file's
// configuration records. reader is closed before returning, success or
// error. nmea may be nil if the caller has no interest in NMEA text.
func (e *Engine) IngestFile(fileName, fileDir string, reader DatagramReader, nmea NMEABuffer) error {
	defer reader.Close()

	fileChannelMap := make(map[int]string)   // 1-based channel number -> channel_id, every transceiver
	activeChannelMap := make(map[int]string) // 1-based channel number -> channel_id, selected channels only
	activeMeta := make(map[int]*ChannelMetadata)

	for {
		dg, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch dg.Type {
		case RecordConfig:
			e.ingestConfig(dg, fileName, fileDir, fileChannelMap, activeChannelMap, activeMeta)
			continue
		}

		if !e.passesTimeFilter(dg.Timestamp) {
			continue
		}
		e.observeTime(dg.Timestamp)

		switch dg.Type {
		case RecordRaw:
			e.ingestRaw(dg, activeChannelMap, activeMeta)
		case RecordNMEA:
			if nmea != nil {
				nmea.Add(dg.Timestamp, dg.NMEASentence)
			}
		case RecordTag:
			// reserved, payload ignored, never fails
		case RecordBottom:
			e.ingestBottom(dg, fileChannelMap, false)
		case RecordDepth:
			e.ingestBottom(dg, fileChannelMap, true)
		default:
			reportUnknownRecord(dg.Tag)
		}
	}
}

func (e *Engine) ingestConfig(dg Datagram, fileName, fileDir string, fileChannelMap, activeChannelMap map[int]string, activeMeta map[int]*ChannelMetadata) {
	channelID := dg.Config.ChannelID
	fileChannelMap[dg.Channel] = channelID

	if !e.passesChannelFilter(channelID, dg.Config.Frequency) {
		return
	}

	activeChannelMap[dg.Channel] = channelID
	meta := NewChannelMetadata(dg.Config, fileName, fileDir)
	activeMeta[dg.Channel] = meta

	e.getOrCreateStore(channelID)
}

func (e *Engine) ingestRaw(dg Datagram, activeChannelMap map[int]string, activeMeta map[int]*ChannelMetadata) {
	if dg.Channel == 1 {
		e.NPings++
	}

	ping := e.NPings - 1
	if !e.passesPingFilter(ping) {
		return
	}

	channelID, ok := activeChannelMap[dg.Channel]
	if !ok {
		return
	}

	e.observePing(ping)

	store := e.Stores[channelID]
	if store == nil {
		store = e.getOrCreateStore(channelID)
	}
	meta := activeMeta[dg.Channel]

	hasStart := e.Config.HasStartSample
	hasEnd := e.Config.HasEndSample
	startSample := e.Config.StartSample
	endSample := e.Config.EndSample
	if e.Config.MaxSampleCount > 0 {
		limit := e.Config.MaxSampleCount - 1
		if !hasEnd || endSample > limit {
			hasEnd = true
			endSample = limit
		}
	}

	_ = store.AppendPing(dg, meta, hasStart, startSample, hasEnd, endSample)
}

// ingestBottom implements §4.2's BOT/DEP dispatch: every currently-stored
// channel looks up its index in file_channel_map (by insertion order among
// transceivers, 1-based channel number ascending) and takes the matching
// entry from the datagram's depth/reflectivity sequences.
func (e *Engine) ingestBottom(dg Datagram, fileChannelMap map[int]string, hasReflectivity bool) {
	for channelNumber, channelID := range fileChannelMap {
		store := e.Stores[channelID]
		if store == nil {
			continue
		}
		idx := channelNumber - 1
		if idx < 0 || idx >= len(dg.BottomDepth) {
			continue
		}
		depth := dg.BottomDepth[idx]
		var reflectivity float64
		haveRefl := hasReflectivity && idx < len(dg.BottomReflectivity)
		if haveRefl {
			reflectivity = dg.BottomReflectivity[idx]
		}
		store.AppendBottom(dg.Timestamp, depth, reflectivity, haveRefl)
	}
}

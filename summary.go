package echolab

// RecordingSummary is the temporal/channel extent description over
// everything an Engine has ingested so far, adapted from the teacher's
// SwathBathySummary (lon/lat/depth/time extent decoded from a GSF summary
// record) to this format's lack of an on-disk summary record: rather than
// decoding one, it is computed directly from the Engine's accumulated
// state, keeping the teacher's "a plain struct + one constructor function"
// shape.
type RecordingSummary struct {
	StartTimeMillis int64
	EndTimeMillis   int64
	HasTimeExtent   bool

	StartPing int
	EndPing   int
	NPings    int

	ChannelIDs  []string
	Frequencies []float64

	// Quality, one entry per channel, mirrors the teacher's
	// FileInfo.Quality_Info being populated by finfo.QInfo() as part of
	// building the metadata that gets written out alongside the data.
	Quality map[string]QualityInfo
}

// NewRecordingSummary builds a RecordingSummary from an Engine's current
// bookkeeping; safe to call at any point during or after ingestion.
func NewRecordingSummary(e *Engine) RecordingSummary {
	summary := RecordingSummary{
		StartTimeMillis: e.StartTime,
		EndTimeMillis:   e.EndTime,
		HasTimeExtent:   e.HasStartTime && e.HasEndTime,
		StartPing:       e.StartPing,
		EndPing:         e.EndPing,
		NPings:          e.NPings,
		ChannelIDs:      append([]string(nil), e.ChannelOrder...),
	}

	summary.Frequencies = make([]float64, 0, len(e.ChannelOrder))
	summary.Quality = make(map[string]QualityInfo, len(e.ChannelOrder))
	for _, id := range e.ChannelOrder {
		store := e.Stores[id]
		if store.nPings() > 0 && store.ChannelMeta[0] != nil {
			summary.Frequencies = append(summary.Frequencies, store.ChannelMeta[0].Frequency)
		}
		summary.Quality[id] = store.Diagnose()
	}

	return summary
}

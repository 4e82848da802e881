package echolab

import (
	"github.com/samber/lo"
)

// QualityInfo summarises cross-ping consistency of a ChannelStore, adapted
// from the teacher's QInfo/QualityInfo (min/max beam count, duplicate
// timestamps, schema consistency) to the acoustic domain: min/max sample
// count per ping replaces min/max beam count, and schema consistency is
// judged from sample_offset/sample_interval rather than subrecord counts.
type QualityInfo struct {
	MinMaxSampleCount  []int
	ConsistentSamples  bool
	DuplicatePings     bool
	Duplicates         []int64
	ConsistentSchema   bool
}

// Diagnose computes a QualityInfo over the store's currently logical pings.
// Grounded on the teacher's (*FileInfo).QInfo, reusing samber/lo for the
// same min/max/duplicate/union operations the teacher uses there.
func (cs *ChannelStore) Diagnose() QualityInfo {
	n := cs.nPings()
	var qa QualityInfo

	if n == 0 {
		qa.MinMaxSampleCount = []int{0, 0}
		qa.ConsistentSamples = true
		qa.ConsistentSchema = true
		qa.Duplicates = []int64{}
		return qa
	}

	counts := append([]int(nil), cs.SampleCount[:n]...)
	timestamps := append([]int64(nil), cs.PingTime[:n]...)

	maxCount := lo.Max(counts)
	minCount := lo.Min(counts)
	qa.MinMaxSampleCount = []int{minCount, maxCount}
	qa.ConsistentSamples = minCount == maxCount

	duplicates := lo.FindDuplicates(timestamps)
	qa.DuplicatePings = len(duplicates) > 0
	if qa.DuplicatePings {
		qa.Duplicates = duplicates
	} else {
		qa.Duplicates = []int64{}
	}

	offsets := append([]int(nil), cs.SampleOffset[:n]...)
	offsetSet := lo.Union(offsets)
	intervalSet := uniqueNonNaN(cs.SampleInterval[:n])
	qa.ConsistentSchema = len(offsetSet) <= 1 && len(intervalSet) <= 1

	return qa
}

package echolab

import "math"

// ChannelMetadata is the immutable configuration of a channel as captured
// from one file's header (CON record). It is created once per (file,
// channel) pair and referenced, never copied, by every ping read from that
// file — per §9's "reference-counted handle" guidance, a *ChannelMetadata
// pointer shared across up to millions of pings plays that role in Go
// without needing an explicit refcount, since the garbage collector already
// keeps it alive for as long as any ping references it.
type ChannelMetadata struct {
	FileName string
	FileDir  string

	SurveyName      string
	TransectName    string
	SounderName     string
	FirmwareVersion string

	ChannelID string
	BeamType  int
	Frequency float64

	Gain                  float64
	EquivalentBeamAngle   float64
	BeamwidthAlongship    float64
	BeamwidthAthwartship  float64
	AngleSensitivityAlong float64
	AngleSensitivityAthw  float64
	AngleOffsetAlong      float64
	AngleOffsetAthw       float64

	PosX, PosY, PosZ float64
	DirX, DirY, DirZ float64

	// Parallel, ordered-by-pulse-length tables as read from the
	// transceiver's CON record. Only SaCorrectionTable is consulted by
	// Resolve's pulse-length lookup (§4.5); GainTable is carried for
	// fidelity with the source header but gain resolution always uses
	// the plain Gain scalar.
	PulseLengthTable  []float64
	GainTable         []float64
	SaCorrectionTable []float64
}

// NewChannelMetadata constructs an immutable ChannelMetadata from a
// ConfigurationRecord header and the originating file path.
func NewChannelMetadata(cfg ConfigurationRecord, fileName, fileDir string) *ChannelMetadata {
	return &ChannelMetadata{
		FileName:              fileName,
		FileDir:               fileDir,
		SurveyName:            cfg.SurveyName,
		TransectName:          cfg.TransectName,
		SounderName:           cfg.SounderName,
		FirmwareVersion:       cfg.FirmwareVersion,
		ChannelID:             cfg.ChannelID,
		BeamType:              cfg.BeamType,
		Frequency:             cfg.Frequency,
		Gain:                  cfg.Gain,
		EquivalentBeamAngle:   cfg.EquivalentBeamAngle,
		BeamwidthAlongship:    cfg.BeamwidthAlongship,
		BeamwidthAthwartship:  cfg.BeamwidthAthwartship,
		AngleSensitivityAlong: cfg.AngleSensitivityAlong,
		AngleSensitivityAthw:  cfg.AngleSensitivityAthw,
		AngleOffsetAlong:      cfg.AngleOffsetAlong,
		AngleOffsetAthw:       cfg.AngleOffsetAthw,
		PosX:                  cfg.PosX,
		PosY:                  cfg.PosY,
		PosZ:                  cfg.PosZ,
		DirX:                  cfg.DirX,
		DirY:                  cfg.DirY,
		DirZ:                  cfg.DirZ,
		PulseLengthTable:      cfg.PulseLengthTable,
		GainTable:             cfg.GainTable,
		SaCorrectionTable:     cfg.SaCorrectionTable,
	}
}

// SaCorrectionFor looks up the sa_correction table entry matching
// pulseLength against PulseLengthTable with floating-point tolerance, per
// the special case in §4.5. Returns (0, false) when the metadata is nil,
// the tables are empty, or no entry is within tolerance.
func (cm *ChannelMetadata) SaCorrectionFor(pulseLength float64) (float64, bool) {
	if cm == nil {
		return 0, false
	}
	const relTol = 1e-6
	for i, pl := range cm.PulseLengthTable {
		if i >= len(cm.SaCorrectionTable) {
			break
		}
		tol := relTol * math.Max(1, math.Abs(pl))
		if math.Abs(pl-pulseLength) <= tol {
			return cm.SaCorrectionTable[i], true
		}
	}
	return 0, false
}

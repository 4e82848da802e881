package echolab

// DataType tags the physical meaning of a ProcessedData grid's values, per
// §3.
type DataType string

const (
	DataPower             DataType = "power"
	DataSv                DataType = "Sv"
	DataSv_linear         DataType = "sv"
	DataSp                DataType = "Sp"
	DataSp_linear         DataType = "sp"
	DataAnglesAlongship   DataType = "angles_alongship"
	DataAnglesAthwartship DataType = "angles_athwartship"
	DataAnglesAlongshipE   DataType = "angles_alongship_e"
	DataAnglesAthwartshipE DataType = "angles_athwartship_e"
)

// StoreProperty names one of the raw matrices a ChannelStore carries,
// selected by GridBuilder.GetSampleData before any calibration is applied.
type StoreProperty string

const (
	PropertyPower              StoreProperty = "power"
	PropertyAnglesAlongshipE   StoreProperty = "angles_alongship_e"
	PropertyAnglesAthwartshipE StoreProperty = "angles_athwartship_e"
)

// ProcessedData is the rectangular output record produced by the
// GridBuilder/Resampler pipeline and, after calibration, by the
// AcousticConverter (§3/§4.3/§4.4).
type ProcessedData struct {
	ChannelID       string
	Frequency       float64
	PingTime        []int64
	Data            [][]float64 // [m pings][k samples]
	Range           []float64   // length k; renamed "Depth" in meaning after heave correction, same units
	SoundVelocity   float64
	SampleThickness float64
	SampleOffset    float64
	DataType        DataType
	IsLog           bool
}

// nPings returns the row count of Data.
func (pd *ProcessedData) nPings() int { return len(pd.Data) }

// nSamples returns the column count shared by every row of Data.
func (pd *ProcessedData) nSamples() int { return len(pd.Range) }

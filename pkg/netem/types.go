package netem

const (
	// Values for Direction
	Inbound  Direction = "inbound"
	Outbound Direction = "outbound"
	// Single is the one implicit direction of a single-device deployment
	Single Direction = ""

	// Values for Section
	SectionDelay   Section = "delay"
	SectionReorder Section = "reorder"
	SectionRate    Section = "rate"
	SectionCorrupt Section = "corrupt"
	SectionDupe    Section = "dupe"
	SectionLoss    Section = "loss"

	// Values for Distribution
	DistributionNone         Distribution = ""
	DistributionUniform      Distribution = "uniform"
	DistributionNormal       Distribution = "normal"
	DistributionPareto       Distribution = "pareto"
	DistributionParetoNormal Distribution = "paretonormal"
)

// Direction is a traffic path configured independently of the others
type Direction string

// String returns the direction name, "device" for Single
func (d Direction) String() string {
	if d == Single {
		return "device"
	}
	return string(d)
}

// Section is one impairment category with its own user toggle
type Section string

// Sections lists every section in display order
var Sections = []Section{SectionDelay, SectionReorder, SectionRate, SectionCorrupt, SectionDupe, SectionLoss}

// Distribution is the netem delay distribution table
type Distribution string

// IsValid returns true if d names a distribution known to netem or is DistributionNone
func (d Distribution) IsValid() bool {
	switch d {
	case DistributionNone, DistributionUniform, DistributionNormal, DistributionPareto, DistributionParetoNormal:
		return true
	}
	return false
}

// DelaySettings holds the delay section of Settings
type DelaySettings struct {
	Enabled bool
	// Time in ms
	Time float64
	// Jitter in ms
	Jitter float64
	// Correlation in percent
	Correlation  float64
	Distribution Distribution
}

// ReorderSettings holds the reorder section of Settings
type ReorderSettings struct {
	Enabled     bool
	Percent     float64
	Correlation float64
	Gap         int64
}

// RateSettings holds the rate section of Settings
type RateSettings struct {
	Enabled bool
	// Speed in kbit/s
	Speed          float64
	PacketOverhead int64
	CellSize       int64
	CellOverhead   int64
}

// PercentSettings holds a section made of a probability and its correlation (corrupt, dupe, loss)
type PercentSettings struct {
	Enabled     bool
	Percent     float64
	Correlation float64
}

// Settings is the netem parameter set of one direction
type Settings struct {
	Delay   DelaySettings
	Reorder ReorderSettings
	Rate    RateSettings
	Corrupt PercentSettings
	Dupe    PercentSettings
	Loss    PercentSettings
}

// toggle returns a pointer to the user toggle of section, nil if section is unknown
func (s *Settings) toggle(section Section) *bool {
	switch section {
	case SectionDelay:
		return &s.Delay.Enabled
	case SectionReorder:
		return &s.Reorder.Enabled
	case SectionRate:
		return &s.Rate.Enabled
	case SectionCorrupt:
		return &s.Corrupt.Enabled
	case SectionDupe:
		return &s.Dupe.Enabled
	case SectionLoss:
		return &s.Loss.Enabled
	}
	return nil
}

package model

import "math"

// Metric names the three quantities every module measures.
type Metric string

const (
	MetricMoisture    Metric = "moisture"
	MetricLight       Metric = "light"
	MetricTemperature Metric = "temperature"
)

// Classification is the verdict for one metric reading against its ideal range.
type Classification string

const (
	ClassLow     Classification = "low"
	ClassOptimal Classification = "optimal"
	ClassHigh    Classification = "high"
)

// IdealRange is the [Min,Max] band considered healthy for one metric.
type IdealRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Classify maps a value onto the range. Total over all float64 inputs:
// NaN classifies as low so a broken sensor surfaces as an alert instead of
// passing for optimal.
func (r IdealRange) Classify(v float64) Classification {
	switch {
	case math.IsNaN(v):
		return ClassLow
	case v < r.Min:
		return ClassLow
	case v > r.Max:
		return ClassHigh
	default:
		return ClassOptimal
	}
}

// Contains reports whether v lies inside the range.
func (r IdealRange) Contains(v float64) bool {
	return r.Classify(v) == ClassOptimal
}

// Scale returns a copy of the range with both bounds multiplied by f.
// Always derived from the receiver, never mutating it, so repeated
// application cannot compound.
func (r IdealRange) Scale(f float64) IdealRange {
	return IdealRange{Min: r.Min * f, Max: r.Max * f}
}

// Mid returns the midpoint of the range.
func (r IdealRange) Mid() float64 {
	return (r.Min + r.Max) / 2
}

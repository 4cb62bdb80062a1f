package model

import "time"

// MetricStatus pairs a raw value with its classification.
type MetricStatus struct {
	Value float64        `json:"value"`
	Class Classification `json:"class"`
}

// StatusSnapshot is the result of one read-and-record pass over a module.
type StatusSnapshot struct {
	ModuleID    string       `json:"module_id"`
	Species     Species      `json:"species"`
	TakenAt     time.Time    `json:"taken_at"`
	Moisture    MetricStatus `json:"moisture"`
	Light       MetricStatus `json:"light"`
	Temperature MetricStatus `json:"temperature"`
}

// Status returns the per-metric status for the given metric.
func (s StatusSnapshot) Status(m Metric) MetricStatus {
	switch m {
	case MetricMoisture:
		return s.Moisture
	case MetricLight:
		return s.Light
	default:
		return s.Temperature
	}
}

// AllOptimal reports whether every metric in the snapshot is in range.
func (s StatusSnapshot) AllOptimal() bool {
	return s.Moisture.Class == ClassOptimal &&
		s.Light.Class == ClassOptimal &&
		s.Temperature.Class == ClassOptimal
}

// WateringResult confirms a bookkeeping watering event on a module.
type WateringResult struct {
	ModuleID string    `json:"module_id"`
	Amount   float64   `json:"amount"` // ml
	At       time.Time `json:"at"`
}

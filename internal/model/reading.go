package model

import "time"

// SensorReading is one raw sample from a module's sensor set. Readings are
// ephemeral: they are folded into the module's history as soon as they are
// recorded.
type SensorReading struct {
	Timestamp   time.Time `json:"timestamp"`
	Moisture    float64   `json:"moisture"`    // volumetric, percent
	Light       float64   `json:"light"`       // lux
	Temperature float64   `json:"temperature"` // °C
}

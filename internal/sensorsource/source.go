// Package sensorsource provides the sensor acquisition collaborators: a
// clock, a simulated per-module reading generator and a resilience wrapper
// for flaky physical sources.
package sensorsource

import (
	"time"

	"gardend/internal/model"
)

// Clock supplies the current time. Injected so tests and simulations can
// control it.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// Source produces the next reading for a module on demand.
type Source interface {
	NextReading(moduleID string, species model.Species) (model.SensorReading, error)
}

// Irrigator is implemented by sources whose simulated state should respond
// to watering events (moisture rising after irrigation).
type Irrigator interface {
	ApplyIrrigation(moduleID string, amount float64)
}

package sensorsource

import (
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"gardend/internal/metrics"
	"gardend/internal/model"
)

// Resilient wraps a Source with bounded exponential-backoff retries and a
// circuit breaker. When the inner source stays down it serves the last good
// reading per module, so the monitoring loop always gets a value; only a
// module that never produced a reading surfaces an error.
type Resilient struct {
	inner      Source
	breaker    *gobreaker.CircuitBreaker
	maxRetries uint64
	interval   time.Duration

	mu   sync.Mutex
	last map[string]model.SensorReading
}

// NewResilient wraps inner. maxRetries bounds the per-read retry attempts and
// interval is the initial backoff delay.
func NewResilient(inner Source, maxRetries uint64, interval time.Duration) *Resilient {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sensor-source",
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("sensor source breaker state change")
		},
	})
	return &Resilient{
		inner:      inner,
		breaker:    cb,
		maxRetries: maxRetries,
		interval:   interval,
		last:       make(map[string]model.SensorReading),
	}
}

// NextReading reads through the breaker with retries, falling back to the
// last good reading for the module when the source stays unavailable.
func (r *Resilient) NextReading(moduleID string, species model.Species) (model.SensorReading, error) {
	out, err := r.breaker.Execute(func() (interface{}, error) {
		var reading model.SensorReading
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = r.interval
		op := func() error {
			var err error
			reading, err = r.inner.NextReading(moduleID, species)
			return err
		}
		if err := backoff.Retry(op, backoff.WithMaxRetries(bo, r.maxRetries)); err != nil {
			return nil, err
		}
		return reading, nil
	})
	if err == nil {
		reading := out.(model.SensorReading)
		r.mu.Lock()
		r.last[moduleID] = reading
		r.mu.Unlock()
		return reading, nil
	}

	metrics.SourceFailures.Inc()

	r.mu.Lock()
	held, ok := r.last[moduleID]
	r.mu.Unlock()
	if ok {
		log.Warn().Err(err).Str("module", moduleID).
			Msg("sensor source unavailable, serving last good reading")
		return held, nil
	}
	return model.SensorReading{}, fmt.Errorf("sensor read for module %s: %w", moduleID, err)
}

// ApplyIrrigation forwards to the inner source when it simulates moisture.
func (r *Resilient) ApplyIrrigation(moduleID string, amount float64) {
	if irr, ok := r.inner.(Irrigator); ok {
		irr.ApplyIrrigation(moduleID, amount)
	}
}

// Package reservoir tracks the shared, depletable water resource consumed
// by irrigation across all modules.
package reservoir

import (
	"math/rand"
	"sync"
	"time"
)

const (
	maxLevel = 100.0

	// CriticalLevel is the alert threshold: below it a low-water
	// notification is due.
	CriticalLevel = 20.0

	// IrrigationFloor is the hard gate for automated watering. It sits
	// below CriticalLevel on purpose: the system alerts before it refuses
	// to water.
	IrrigationFloor = 10.0

	// DefaultDecayMin/Max bound the random per-cycle evaporation/seepage.
	DefaultDecayMin = 0.5
	DefaultDecayMax = 1.5
)

// Tank is the water reservoir. The level is always clamped to [0,100].
type Tank struct {
	mu       sync.Mutex
	level    float64
	decayMin float64
	decayMax float64
	rnd      *rand.Rand
}

// New creates a tank at the given initial level. decayMin/decayMax bound the
// per-cycle natural loss; rnd may be nil for a time-seeded source.
func New(initial, decayMin, decayMax float64, rnd *rand.Rand) *Tank {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if decayMax < decayMin {
		decayMax = decayMin
	}
	return &Tank{
		level:    clamp(initial),
		decayMin: decayMin,
		decayMax: decayMax,
		rnd:      rnd,
	}
}

// Level returns the current water level in percent.
func (t *Tank) Level() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.level
}

// Decay applies one cycle of natural loss and returns the new level.
func (t *Tank) Decay() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	loss := t.decayMin + t.rnd.Float64()*(t.decayMax-t.decayMin)
	t.level = clamp(t.level - loss)
	return t.level
}

// Consume subtracts amount, saturating at 0, and returns the new level.
// Never fails even if amount exceeds the current level.
func (t *Tank) Consume(amount float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.level = clamp(t.level - amount)
	return t.level
}

// Refill adds amount, capped at 100, and returns the old and new levels.
func (t *Tank) Refill(amount float64) (old, now float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	old = t.level
	t.level = clamp(t.level + amount)
	return old, t.level
}

// IsCritical reports whether the level is below the alert threshold.
func (t *Tank) IsCritical() bool {
	return t.Level() < CriticalLevel
}

// CanIrrigate reports whether automated watering is permitted.
func (t *Tank) CanIrrigate() bool {
	return t.Level() > IrrigationFloor
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > maxLevel {
		return maxLevel
	}
	return v
}

package sensorsource

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"gardend/internal/model"
)

const (
	// moisture lost per minute while the soil dries out
	defaultDecayPerMin = 0.05

	// moisture gained per unit of irrigation water
	gainPerUnit = 0.25
)

type moduleState struct {
	moisture float64
	lastAt   time.Time
	boost    float64 // pending irrigation gain, released on the next read
	seeded   bool
}

// Simulator generates plausible readings per module: a moisture random walk
// that dries out over time and rises after irrigation, plus diurnal light and
// temperature curves. Implements Source and Irrigator.
type Simulator struct {
	mu          sync.Mutex
	clock       Clock
	rnd         *rand.Rand
	catalog     model.ProfileCatalog
	decayPerMin float64
	state       map[string]*moduleState
}

// NewSimulator creates a simulator seeding each module's moisture near the
// middle of its species' ideal band. rnd may be nil for a time-seeded source;
// decayPerMin <= 0 selects the default drying rate.
func NewSimulator(clock Clock, catalog model.ProfileCatalog, decayPerMin float64, rnd *rand.Rand) *Simulator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if decayPerMin <= 0 {
		decayPerMin = defaultDecayPerMin
	}
	return &Simulator{
		clock:       clock,
		rnd:         rnd,
		catalog:     catalog,
		decayPerMin: decayPerMin,
		state:       make(map[string]*moduleState),
	}
}

// NextReading advances the module's simulated state and returns a reading.
func (s *Simulator) NextReading(moduleID string, species model.Species) (model.SensorReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	profile := s.catalog.For(species)

	st, ok := s.state[moduleID]
	if !ok {
		st = &moduleState{}
		s.state[moduleID] = st
	}
	if !st.seeded {
		st.moisture = profile.Moisture.Mid() + s.rnd.Float64()*4 - 2
		st.lastAt = now
		st.seeded = true
	}

	dtMin := now.Sub(st.lastAt).Minutes()
	if dtMin < 0 {
		dtMin = 0
	}
	st.moisture = clampPct(st.moisture - s.decayPerMin*dtMin + st.boost)
	st.boost = 0
	st.lastAt = now

	return model.SensorReading{
		Timestamp:   now,
		Moisture:    st.moisture,
		Light:       s.lightAt(now, profile),
		Temperature: s.temperatureAt(now, profile),
	}, nil
}

// ApplyIrrigation queues a moisture gain proportional to the watered amount;
// it takes effect on the module's next reading.
func (s *Simulator) ApplyIrrigation(moduleID string, amount float64) {
	if amount <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.state[moduleID]
	if !ok {
		st = &moduleState{}
		s.state[moduleID] = st
	}
	st.boost += gainPerUnit * amount // a full 100-unit watering ≈ +25% moisture
}

// lightAt follows a half-sine day curve between 06:00 and 20:00 peaking at
// the top of the species' ideal band, with noise; near-dark at night.
func (s *Simulator) lightAt(now time.Time, p model.Profile) float64 {
	const dayStart, dayEnd = 6.0, 20.0
	h := float64(now.Hour()) + float64(now.Minute())/60

	if h < dayStart || h >= dayEnd {
		return math.Abs(s.rnd.NormFloat64() * 5) // moon and status LEDs
	}
	phase := (h - dayStart) / (dayEnd - dayStart) // 0..1 across the day
	peak := p.Light.Max * 0.9
	lux := peak*math.Sin(phase*math.Pi) + s.rnd.NormFloat64()*peak*0.03
	if lux < 0 {
		lux = 0
	}
	return lux
}

// temperatureAt wanders around the species midpoint, a little cooler at
// night and warmer mid-afternoon.
func (s *Simulator) temperatureAt(now time.Time, p model.Profile) float64 {
	h := float64(now.Hour()) + float64(now.Minute())/60
	// minimum around 05:00, maximum around 15:00
	swing := (p.Temperature.Max - p.Temperature.Min) / 4
	diurnal := swing * math.Sin((h-9)/24*2*math.Pi)
	return p.Temperature.Mid() + diurnal + s.rnd.NormFloat64()*0.3
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

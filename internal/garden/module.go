// Package garden models single planted enclosures: their sensor histories,
// ideal ranges and actuator bookkeeping.
package garden

import (
	"errors"
	"fmt"
	"time"

	"gardend/internal/model"
)

// ErrNoData is returned when a report is requested for a module that has
// never recorded a reading.
var ErrNoData = errors.New("no readings recorded")

// LightRangeFn derives the effective light range from the species baseline
// at read time. Implementations must not retain or mutate the baseline; the
// module re-derives it from the species profile on every call, so day/night
// overrides cannot drift.
type LightRangeFn func(base model.IdealRange, at time.Time) model.IdealRange

// Module is one independently monitored planting unit.
type Module struct {
	id      string
	species model.Species
	profile model.Profile

	moisture    *History
	light       *History
	temperature *History

	lastWatered  *time.Time
	lightPct     float64
	lastSnapshot *model.StatusSnapshot
}

// NewModule creates a module with the baseline ranges from the given profile.
func NewModule(id string, species model.Species, profile model.Profile) *Module {
	return &Module{
		id:          id,
		species:     species,
		profile:     profile,
		moisture:    NewHistory(),
		light:       NewHistory(),
		temperature: NewHistory(),
	}
}

func (m *Module) ID() string             { return m.id }
func (m *Module) Species() model.Species { return m.species }
func (m *Module) Profile() model.Profile { return m.profile }

// ReadAndRecord classifies the reading against the module's ideal ranges,
// folds it into the histories and returns the resulting snapshot. The light
// range is derived from the baseline through lightRange when given; a nil
// lightRange uses the baseline as-is. Never fails.
func (m *Module) ReadAndRecord(r model.SensorReading, lightRange LightRangeFn) model.StatusSnapshot {
	effLight := m.profile.Light
	if lightRange != nil {
		effLight = lightRange(m.profile.Light, r.Timestamp)
	}

	snap := model.StatusSnapshot{
		ModuleID: m.id,
		Species:  m.species,
		TakenAt:  r.Timestamp,
		Moisture: model.MetricStatus{
			Value: r.Moisture,
			Class: m.profile.Moisture.Classify(r.Moisture),
		},
		Light: model.MetricStatus{
			Value: r.Light,
			Class: effLight.Classify(r.Light),
		},
		Temperature: model.MetricStatus{
			Value: r.Temperature,
			Class: m.profile.Temperature.Classify(r.Temperature),
		},
	}

	m.moisture.Append(r.Timestamp, r.Moisture)
	m.light.Append(r.Timestamp, r.Light)
	m.temperature.Append(r.Timestamp, r.Temperature)
	m.lastSnapshot = &snap

	return snap
}

// Water records a watering event. Pure bookkeeping: resource gating lives in
// the controller.
func (m *Module) Water(now time.Time, amount float64) model.WateringResult {
	t := now
	m.lastWatered = &t
	return model.WateringResult{ModuleID: m.id, Amount: amount, At: now}
}

// SetLightIntensity acknowledges a lighting adjustment. No physical effect
// is modeled.
func (m *Module) SetLightIntensity(pct float64) {
	m.lightPct = pct
}

// LightIntensity returns the last acknowledged lighting level.
func (m *Module) LightIntensity() float64 { return m.lightPct }

// LastWatered returns the last watering time, if the module was ever watered.
func (m *Module) LastWatered() (time.Time, bool) {
	if m.lastWatered == nil {
		return time.Time{}, false
	}
	return *m.lastWatered, true
}

// Snapshot returns the snapshot from the most recent ReadAndRecord.
func (m *Module) Snapshot() (model.StatusSnapshot, bool) {
	if m.lastSnapshot == nil {
		return model.StatusSnapshot{}, false
	}
	return *m.lastSnapshot, true
}

// Report summarizes the retained history. Returns ErrNoData if the module
// has never recorded a reading.
func (m *Module) Report(now time.Time) (model.Report, error) {
	snap := m.lastSnapshot
	if snap == nil {
		return model.Report{}, fmt.Errorf("module %s: %w", m.id, ErrNoData)
	}

	rep := model.Report{
		ModuleID:    m.id,
		Species:     m.species,
		GeneratedAt: now,
		Moisture:    reportMetric(m.moisture, snap.Moisture),
		Light:       reportMetric(m.light, snap.Light),
		Temperature: reportMetric(m.temperature, snap.Temperature),
	}
	if m.lastWatered != nil {
		t := *m.lastWatered
		rep.LastWatered = &t
	}
	rep.Recommendations = m.recommendations(*snap)
	return rep, nil
}

func reportMetric(h *History, latest model.MetricStatus) model.ReportMetric {
	mean, _ := h.Mean()
	return model.ReportMetric{Latest: latest.Value, Class: latest.Class, Mean: mean}
}

// recommendations derives one advisory per out-of-range metric from the
// latest snapshot, or a single all-optimal message.
func (m *Module) recommendations(snap model.StatusSnapshot) []string {
	var recs []string

	switch snap.Moisture.Class {
	case model.ClassLow:
		recs = append(recs, fmt.Sprintf("moisture %.1f%% below ideal %.1f-%.1f%%: irrigation recommended",
			snap.Moisture.Value, m.profile.Moisture.Min, m.profile.Moisture.Max))
	case model.ClassHigh:
		recs = append(recs, fmt.Sprintf("moisture %.1f%% above ideal %.1f-%.1f%%: hold irrigation",
			snap.Moisture.Value, m.profile.Moisture.Min, m.profile.Moisture.Max))
	}

	switch snap.Light.Class {
	case model.ClassLow:
		recs = append(recs, fmt.Sprintf("light %.0f lux below ideal %.0f-%.0f lux: raise light intensity",
			snap.Light.Value, m.profile.Light.Min, m.profile.Light.Max))
	case model.ClassHigh:
		recs = append(recs, fmt.Sprintf("light %.0f lux above ideal %.0f-%.0f lux: reduce light intensity",
			snap.Light.Value, m.profile.Light.Min, m.profile.Light.Max))
	}

	switch snap.Temperature.Class {
	case model.ClassLow:
		recs = append(recs, fmt.Sprintf("temperature %.1f°C below ideal %.1f-%.1f°C: relocate or insulate",
			snap.Temperature.Value, m.profile.Temperature.Min, m.profile.Temperature.Max))
	case model.ClassHigh:
		recs = append(recs, fmt.Sprintf("temperature %.1f°C above ideal %.1f-%.1f°C: improve ventilation",
			snap.Temperature.Value, m.profile.Temperature.Min, m.profile.Temperature.Max))
	}

	if len(recs) == 0 {
		recs = []string{"all metrics within ideal ranges"}
	}
	return recs
}

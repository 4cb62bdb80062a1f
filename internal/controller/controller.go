// Package controller orchestrates the evaluation-automation-notification
// loop over all plant modules, the shared reservoir and the alert log.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"gardend/internal/garden"
	"gardend/internal/metrics"
	"gardend/internal/model"
	"gardend/internal/notification"
	"gardend/internal/reservoir"
	"gardend/internal/sensorsource"
)

const (
	// WateringAmount is the bookkeeping dose per watering event.
	WateringAmount = 100.0

	// WateringConsumption is the reservoir decrement per watering event.
	WateringConsumption = 5.0

	// AutoLightIntensity is the level the light actuator is driven to when
	// a module reads low on light.
	AutoLightIntensity = 90.0
)

var (
	// ErrUnknownModule is returned for operations referencing a module id
	// not present in the controller.
	ErrUnknownModule = errors.New("unknown module")

	// ErrDuplicateModule is returned when adding a module whose id is
	// already in use.
	ErrDuplicateModule = errors.New("module id already in use")

	// ErrReservoirLow is returned when a watering request is refused
	// because the reservoir is at or below the irrigation floor.
	ErrReservoirLow = errors.New("reservoir below irrigation floor")
)

// Controller owns the module collection, the reservoir, the notification log
// and the automation toggle. All state is guarded by one mutex so the HTTP
// gateway can read concurrently with the cycle loop; within a cycle there is
// a single writer, keeping reservoir consumption and low-water detection
// consistent against one level.
type Controller struct {
	mu         sync.Mutex
	modules    map[string]*garden.Module
	tank       *reservoir.Tank
	alerts     *notification.Log
	source     sensorsource.Source
	clock      sensorsource.Clock
	catalog    model.ProfileCatalog
	dayNight   DayNight
	automation bool
}

// New assembles a controller. catalog may be nil for the built-in species
// table; clock may be nil for the wall clock.
func New(source sensorsource.Source, clock sensorsource.Clock, tank *reservoir.Tank, alerts *notification.Log, catalog model.ProfileCatalog, dayNight DayNight, automation bool) *Controller {
	if clock == nil {
		clock = sensorsource.RealClock{}
	}
	if catalog == nil {
		catalog = model.DefaultCatalog()
	}
	return &Controller{
		modules:    make(map[string]*garden.Module),
		tank:       tank,
		alerts:     alerts,
		source:     source,
		clock:      clock,
		catalog:    catalog,
		dayNight:   dayNight,
		automation: automation,
	}
}

// AddModule registers a new module for the given species. The species
// profile is resolved from the catalog, falling back to the default profile
// for unknown species.
func (c *Controller) AddModule(id string, species model.Species) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.modules[id]; exists {
		return fmt.Errorf("module %s: %w", id, ErrDuplicateModule)
	}
	c.modules[id] = garden.NewModule(id, species, c.catalog.For(species))
	log.Info().Str("module", id).Str("species", string(species)).Msg("module added")
	return nil
}

// RemoveModule removes a module and discards its histories. Returns
// ErrUnknownModule if the id is not present.
func (c *Controller) RemoveModule(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.modules[id]; !exists {
		return fmt.Errorf("module %s: %w", id, ErrUnknownModule)
	}
	delete(c.modules, id)
	log.Info().Str("module", id).Msg("module removed")
	return nil
}

// ModuleIDs returns the registered module ids in stable order.
func (c *Controller) ModuleIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortedIDsLocked()
}

// ModuleSpecies returns the species for a module id.
func (c *Controller) ModuleSpecies(id string) (model.Species, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.modules[id]
	if !ok {
		return "", fmt.Errorf("module %s: %w", id, ErrUnknownModule)
	}
	return m.Species(), nil
}

// MonitorAll runs one full cycle: sense every module, decay the reservoir,
// evaluate alerts and — when automation is active and resources allow —
// actuate. Returns the per-module snapshots.
func (c *Controller) MonitorAll() map[string]model.StatusSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	snapshots := make(map[string]model.StatusSnapshot, len(c.modules))

	// phase 1: sense and classify
	for _, id := range c.sortedIDsLocked() {
		m := c.modules[id]
		reading, err := c.source.NextReading(id, m.Species())
		if err != nil {
			log.Warn().Err(err).Str("module", id).Msg("skipping module, no reading")
			continue
		}
		snap := m.ReadAndRecord(reading, c.dayNight.LightRange)
		snapshots[id] = snap

		metrics.Readings.WithLabelValues(id).Inc()
		for _, metric := range []model.Metric{model.MetricMoisture, model.MetricLight, model.MetricTemperature} {
			metrics.Classifications.WithLabelValues(string(metric), string(snap.Status(metric).Class)).Inc()
		}
	}

	// phase 2: reservoir decay and low-water alerting
	level := c.tank.Decay()
	metrics.ReservoirLevel.Set(level)
	if c.tank.IsCritical() {
		c.notify(notification.KindLowWater, "",
			fmt.Sprintf("reservoir level %.1f%% below critical threshold %.0f%%", level, reservoir.CriticalLevel), now)
	}

	// phase 3: per-module alert and actuation policy
	for _, id := range c.sortedIDsLocked() {
		snap, ok := snapshots[id]
		if !ok {
			continue
		}
		c.applyPolicy(c.modules[id], snap, now)
	}

	metrics.Cycles.Inc()
	log.Debug().Int("modules", len(snapshots)).Float64("water_level", c.tank.Level()).Msg("cycle complete")
	return snapshots
}

// applyPolicy emits alerts for out-of-range metrics and drives the actuators
// where one exists. Moisture and light have cheap automated remediation;
// temperature has no actuator and only ever alerts. That asymmetry is
// deliberate.
func (c *Controller) applyPolicy(m *garden.Module, snap model.StatusSnapshot, now time.Time) {
	profile := m.Profile()

	if snap.Moisture.Class == model.ClassLow {
		c.notify(notification.KindLowMoisture, m.ID(),
			fmt.Sprintf("moisture %.1f%% below ideal minimum %.1f%%", snap.Moisture.Value, profile.Moisture.Min), now)
		if c.automation && c.tank.CanIrrigate() {
			c.waterLocked(m, now)
		}
	}

	if snap.Light.Class == model.ClassLow {
		// the effective minimum depends on the day/night band, so the
		// message reports the value only
		c.notify(notification.KindLowLight, m.ID(),
			fmt.Sprintf("light %.0f lux below ideal range", snap.Light.Value), now)
		if c.automation {
			m.SetLightIntensity(AutoLightIntensity)
			log.Info().Str("module", m.ID()).Float64("intensity", AutoLightIntensity).Msg("light adjusted")
		}
	}

	switch snap.Temperature.Class {
	case model.ClassLow:
		c.notify(notification.KindTemperatureLow, m.ID(),
			fmt.Sprintf("temperature %.1f°C below ideal %.1f-%.1f°C", snap.Temperature.Value, profile.Temperature.Min, profile.Temperature.Max), now)
	case model.ClassHigh:
		c.notify(notification.KindTemperatureHigh, m.ID(),
			fmt.Sprintf("temperature %.1f°C above ideal %.1f-%.1f°C", snap.Temperature.Value, profile.Temperature.Min, profile.Temperature.Max), now)
	}
}

// waterLocked performs one watering event: module bookkeeping, reservoir
// consumption and the simulated-moisture feedback hook.
func (c *Controller) waterLocked(m *garden.Module, now time.Time) model.WateringResult {
	res := m.Water(now, WateringAmount)
	level := c.tank.Consume(WateringConsumption)
	metrics.Waterings.WithLabelValues(m.ID()).Inc()
	metrics.ReservoirLevel.Set(level)

	if irr, ok := c.source.(sensorsource.Irrigator); ok {
		irr.ApplyIrrigation(m.ID(), WateringAmount)
	}
	log.Info().Str("module", m.ID()).Float64("amount", WateringAmount).Float64("water_level", level).Msg("module watered")
	return res
}

// WaterModule waters one module on operator request. It passes through the
// same irrigation floor and reservoir consumption as the automated path.
func (c *Controller) WaterModule(id string) (model.WateringResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.modules[id]
	if !ok {
		return model.WateringResult{}, fmt.Errorf("module %s: %w", id, ErrUnknownModule)
	}
	if !c.tank.CanIrrigate() {
		return model.WateringResult{}, ErrReservoirLow
	}
	return c.waterLocked(m, c.clock.Now()), nil
}

// Refill adds water to the reservoir and retracts pending low-water alerts,
// since the condition that caused them no longer holds.
func (c *Controller) Refill(amount float64) (old, now float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old, now = c.tank.Refill(amount)
	metrics.ReservoirLevel.Set(now)
	if removed := c.alerts.ClearKind(notification.KindLowWater); removed > 0 {
		log.Info().Int("retracted", removed).Msg("low-water notifications retracted after refill")
	}
	return old, now
}

// SetAutomation toggles automated remediation. Takes effect on the next
// cycle; notifications already emitted are unaffected.
func (c *Controller) SetAutomation(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.automation = active
	log.Info().Bool("active", active).Msg("automation toggled")
}

// Automation reports whether automated remediation is active.
func (c *Controller) Automation() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.automation
}

// SnapshotFor returns the latest snapshot for a module.
func (c *Controller) SnapshotFor(id string) (model.StatusSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.modules[id]
	if !ok {
		return model.StatusSnapshot{}, fmt.Errorf("module %s: %w", id, ErrUnknownModule)
	}
	snap, ok := m.Snapshot()
	if !ok {
		return model.StatusSnapshot{}, fmt.Errorf("module %s: %w", id, garden.ErrNoData)
	}
	return snap, nil
}

// ReportFor generates a report for a module. Returns garden.ErrNoData if the
// module has never recorded a reading.
func (c *Controller) ReportFor(id string) (model.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.modules[id]
	if !ok {
		return model.Report{}, fmt.Errorf("module %s: %w", id, ErrUnknownModule)
	}
	return m.Report(c.clock.Now())
}

// SystemStatus summarizes the controller for dashboards.
func (c *Controller) SystemStatus() model.SystemStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	return model.SystemStatus{
		Timestamp:           c.clock.Now(),
		OverallStatus:       c.overallStatusLocked(),
		WaterLevel:          c.tank.Level(),
		ModuleCount:         len(c.modules),
		AutomationActive:    c.automation,
		UnreadNotifications: c.alerts.UnreadCount(),
	}
}

// Notifications returns the alert log in insertion order.
func (c *Controller) Notifications(unreadOnly bool) []notification.Notification {
	return c.alerts.List(unreadOnly)
}

// MarkNotificationRead flips a notification's read flag by position.
func (c *Controller) MarkNotificationRead(i int) bool {
	return c.alerts.MarkRead(i)
}

// MarkAllNotificationsRead marks the whole log read.
func (c *Controller) MarkAllNotificationsRead() {
	c.alerts.MarkAllRead()
}

// Run executes monitoring cycles on the given interval until ctx is
// cancelled. The first cycle runs immediately.
func (c *Controller) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.MonitorAll()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("monitor loop stopped")
			return
		case <-ticker.C:
			c.MonitorAll()
		}
	}
}

func (c *Controller) notify(kind notification.Kind, moduleID, message string, at time.Time) {
	if c.alerts.Notify(kind, moduleID, message, at) {
		metrics.Notifications.WithLabelValues(string(kind)).Inc()
		log.Warn().Str("kind", string(kind)).Str("module", moduleID).Msg(message)
	}
}

func (c *Controller) overallStatusLocked() model.OverallStatus {
	if c.tank.IsCritical() {
		return model.StatusLowWater
	}
	for _, m := range c.modules {
		if snap, ok := m.Snapshot(); ok && !snap.AllOptimal() {
			return model.StatusAttention
		}
	}
	return model.StatusOK
}

func (c *Controller) sortedIDsLocked() []string {
	ids := make([]string, 0, len(c.modules))
	for id := range c.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

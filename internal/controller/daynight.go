package controller

import (
	"time"

	"gardend/internal/model"
)

// DayNight is the environmental light modifier: during day hours the species
// baseline applies; at night the target band is scaled down. It is applied
// at read time from the baseline on every cycle and never mutates stored
// ranges, so repeated application cannot compound.
type DayNight struct {
	StartHour  int     // first day hour, inclusive
	EndHour    int     // first night hour
	NightScale float64 // factor applied to both bounds at night
}

// DefaultDayNight matches common grow-light schedules.
func DefaultDayNight() DayNight {
	return DayNight{StartHour: 8, EndHour: 20, NightScale: 0.2}
}

// LightRange derives the effective light range for the given time.
func (d DayNight) LightRange(base model.IdealRange, at time.Time) model.IdealRange {
	h := at.Hour()
	if h >= d.StartHour && h < d.EndHour {
		return base
	}
	return base.Scale(d.NightScale)
}

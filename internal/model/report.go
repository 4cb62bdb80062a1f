package model

import "time"

// ReportMetric summarizes one metric over the retained history.
type ReportMetric struct {
	Latest float64        `json:"latest"`
	Class  Classification `json:"class"`
	Mean   float64        `json:"mean"`
}

// Report is a point-in-time summary of a module's condition.
type Report struct {
	ModuleID        string       `json:"module_id"`
	Species         Species      `json:"species"`
	GeneratedAt     time.Time    `json:"generated_at"`
	Moisture        ReportMetric `json:"moisture"`
	Light           ReportMetric `json:"light"`
	Temperature     ReportMetric `json:"temperature"`
	LastWatered     *time.Time   `json:"last_watered,omitempty"` // nil = never
	Recommendations []string     `json:"recommendations"`
}

// OverallStatus is the coarse health tag reported for the whole system.
type OverallStatus string

const (
	StatusOK        OverallStatus = "ok"
	StatusAttention OverallStatus = "attention"
	StatusLowWater  OverallStatus = "low_water"
)

// SystemStatus is the controller-wide status for dashboards.
type SystemStatus struct {
	Timestamp           time.Time     `json:"timestamp"`
	OverallStatus       OverallStatus `json:"overall_status"`
	WaterLevel          float64       `json:"water_level"`
	ModuleCount         int           `json:"module_count"`
	AutomationActive    bool          `json:"automation_active"`
	UnreadNotifications int           `json:"unread_notifications"`
}

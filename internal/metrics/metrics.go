package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Total completed monitoring cycles
var Cycles = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "gardend_monitor_cycles_total",
		Help: "The total number of completed monitoring cycles",
	},
)

// Readings processed, labeled by module
var Readings = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gardend_readings_total",
		Help: "The total number of sensor readings recorded",
	},
	[]string{"module"},
)

// Classification outcomes, labeled by metric and verdict
var Classifications = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gardend_classifications_total",
		Help: "Threshold classification outcomes per metric",
	},
	[]string{"metric", "class"},
)

// Notifications emitted, labeled by kind (suppressed ones are not counted)
var Notifications = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gardend_notifications_total",
		Help: "Notifications appended to the alert log",
	},
	[]string{"kind"},
)

// Watering events, labeled by module
var Waterings = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gardend_waterings_total",
		Help: "Irrigation events per module",
	},
	[]string{"module"},
)

// Current reservoir level
var ReservoirLevel = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "gardend_reservoir_level_percent",
		Help: "Current water level of the shared reservoir",
	},
)

// Sensor source failures that exhausted retries
var SourceFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "gardend_sensor_source_failures_total",
		Help: "Sensor reads that failed after retries and breaker gating",
	},
)

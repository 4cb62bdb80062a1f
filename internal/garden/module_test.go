package garden

import (
	"errors"
	"strings"
	"testing"
	"time"

	"gardend/internal/model"
)

var testClock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func succulentModule() *Module {
	cat := model.DefaultCatalog()
	return NewModule("1", model.SpeciesSucculent, cat.For(model.SpeciesSucculent))
}

func reading(at time.Time, moisture, light, temp float64) model.SensorReading {
	return model.SensorReading{Timestamp: at, Moisture: moisture, Light: light, Temperature: temp}
}

func TestReadAndRecordClassifies(t *testing.T) {
	m := succulentModule()

	snap := m.ReadAndRecord(reading(testClock, 10, 5000, 25), nil)

	if snap.Moisture.Class != model.ClassLow {
		t.Errorf("moisture class = %q, want low", snap.Moisture.Class)
	}
	if snap.Light.Class != model.ClassOptimal {
		t.Errorf("light class = %q, want optimal", snap.Light.Class)
	}
	if snap.Temperature.Class != model.ClassOptimal {
		t.Errorf("temperature class = %q, want optimal", snap.Temperature.Class)
	}
	if snap.ModuleID != "1" || snap.Species != model.SpeciesSucculent {
		t.Errorf("identity = %s/%s", snap.ModuleID, snap.Species)
	}
	if m.moisture.Len() != 1 || m.light.Len() != 1 || m.temperature.Len() != 1 {
		t.Error("reading not folded into histories")
	}
}

func TestReadAndRecordLightRangeDerivedFresh(t *testing.T) {
	m := succulentModule()
	night := func(base model.IdealRange, _ time.Time) model.IdealRange {
		return base.Scale(0.2)
	}

	// 1500 lux is low for a succulent by day (min 2000) but fine at night
	// (scaled min 400). Applying the modifier many times must keep giving
	// the same verdict: it always starts from the species baseline.
	for i := 0; i < 5; i++ {
		snap := m.ReadAndRecord(reading(testClock.Add(time.Duration(i)*time.Hour), 30, 1500, 25), night)
		if snap.Light.Class != model.ClassOptimal {
			t.Fatalf("pass %d: light class = %q, want optimal", i, snap.Light.Class)
		}
	}

	// without the modifier the baseline is intact
	snap := m.ReadAndRecord(reading(testClock, 30, 1500, 25), nil)
	if snap.Light.Class != model.ClassLow {
		t.Fatalf("baseline light class = %q, want low", snap.Light.Class)
	}
}

func TestWaterSetsLastWatered(t *testing.T) {
	m := succulentModule()
	if _, ok := m.LastWatered(); ok {
		t.Fatal("fresh module should never have been watered")
	}

	res := m.Water(testClock, 100)
	if res.Amount != 100 || !res.At.Equal(testClock) || res.ModuleID != "1" {
		t.Fatalf("watering result = %+v", res)
	}
	got, ok := m.LastWatered()
	if !ok || !got.Equal(testClock) {
		t.Fatalf("LastWatered = %v, %v", got, ok)
	}
}

func TestReportNoData(t *testing.T) {
	m := succulentModule()
	_, err := m.Report(testClock)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestReportMeansAndRecommendations(t *testing.T) {
	m := succulentModule()
	m.ReadAndRecord(reading(testClock, 10, 5000, 25), nil)
	m.ReadAndRecord(reading(testClock.Add(time.Minute), 20, 5000, 25), nil)
	m.Water(testClock.Add(time.Minute), 100)

	rep, err := m.Report(testClock.Add(2 * time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Moisture.Mean != 15 {
		t.Errorf("moisture mean = %v, want 15", rep.Moisture.Mean)
	}
	if rep.Moisture.Latest != 20 || rep.Moisture.Class != model.ClassOptimal {
		t.Errorf("moisture latest = %+v", rep.Moisture)
	}
	if rep.LastWatered == nil {
		t.Error("LastWatered missing")
	}
	if len(rep.Recommendations) != 1 || rep.Recommendations[0] != "all metrics within ideal ranges" {
		t.Errorf("recommendations = %v", rep.Recommendations)
	}
}

func TestReportRecommendsPerOutOfRangeMetric(t *testing.T) {
	m := succulentModule()
	// moisture low, light low, temperature high
	m.ReadAndRecord(reading(testClock, 5, 100, 45), nil)

	rep, err := m.Report(testClock)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Recommendations) != 3 {
		t.Fatalf("recommendations = %v, want 3 entries", rep.Recommendations)
	}
	joined := strings.Join(rep.Recommendations, "\n")
	for _, want := range []string{"irrigation recommended", "raise light intensity", "improve ventilation"} {
		if !strings.Contains(joined, want) {
			t.Errorf("recommendations missing %q:\n%s", want, joined)
		}
	}
}

func TestSetLightIntensity(t *testing.T) {
	m := succulentModule()
	m.SetLightIntensity(90)
	if m.LightIntensity() != 90 {
		t.Fatalf("LightIntensity = %v", m.LightIntensity())
	}
}

func TestSnapshotBeforeFirstReading(t *testing.T) {
	m := succulentModule()
	if _, ok := m.Snapshot(); ok {
		t.Fatal("Snapshot should report no data before the first reading")
	}
}

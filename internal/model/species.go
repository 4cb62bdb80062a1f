package model

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Species identifies a plant species in the profile catalog.
type Species string

const (
	SpeciesSucculent Species = "succulent"
	SpeciesCactus    Species = "cactus"
	SpeciesFern      Species = "fern"
	SpeciesTropical  Species = "tropical"
	SpeciesHerb      Species = "herb"
)

// Profile holds the ideal ranges for one species.
type Profile struct {
	Moisture    IdealRange `json:"moisture"`
	Light       IdealRange `json:"light"`
	Temperature IdealRange `json:"temperature"`
}

// Range returns the ideal range for the given metric.
func (p Profile) Range(m Metric) IdealRange {
	switch m {
	case MetricMoisture:
		return p.Moisture
	case MetricLight:
		return p.Light
	default:
		return p.Temperature
	}
}

// DefaultProfile is the fallback for species missing from the catalog.
var DefaultProfile = Profile{
	Moisture:    IdealRange{Min: 40, Max: 60},
	Light:       IdealRange{Min: 1000, Max: 5000},
	Temperature: IdealRange{Min: 18, Max: 26},
}

// ProfileCatalog maps species to their ideal-range profiles.
type ProfileCatalog map[Species]Profile

// DefaultCatalog returns the built-in species table.
func DefaultCatalog() ProfileCatalog {
	return ProfileCatalog{
		SpeciesSucculent: {
			Moisture:    IdealRange{Min: 20, Max: 40},
			Light:       IdealRange{Min: 2000, Max: 10000},
			Temperature: IdealRange{Min: 15, Max: 30},
		},
		SpeciesCactus: {
			Moisture:    IdealRange{Min: 10, Max: 30},
			Light:       IdealRange{Min: 5000, Max: 12000},
			Temperature: IdealRange{Min: 18, Max: 35},
		},
		SpeciesFern: {
			Moisture:    IdealRange{Min: 60, Max: 80},
			Light:       IdealRange{Min: 500, Max: 2500},
			Temperature: IdealRange{Min: 16, Max: 28},
		},
		SpeciesTropical: {
			Moisture:    IdealRange{Min: 50, Max: 70},
			Light:       IdealRange{Min: 1500, Max: 5000},
			Temperature: IdealRange{Min: 20, Max: 32},
		},
		SpeciesHerb: {
			Moisture:    IdealRange{Min: 40, Max: 60},
			Light:       IdealRange{Min: 3000, Max: 8000},
			Temperature: IdealRange{Min: 15, Max: 25},
		},
	}
}

// For looks up the profile for a species, falling back to DefaultProfile for
// anything unknown.
func (c ProfileCatalog) For(s Species) Profile {
	if p, ok := c[s]; ok {
		return p
	}
	return DefaultProfile
}

// LoadOverrides merges species profiles from a JSON file into the catalog.
// Entries replace built-in profiles of the same name; new species are added.
// A profile with an inverted or missing range is rejected.
func (c ProfileCatalog) LoadOverrides(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var m map[string]Profile
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("parse species file %s: %w", path, err)
	}
	for name, p := range m {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			return fmt.Errorf("species file %s: empty species name", path)
		}
		for _, metric := range []Metric{MetricMoisture, MetricLight, MetricTemperature} {
			r := p.Range(metric)
			if r.Min > r.Max {
				return fmt.Errorf("species %q: %s range min %.1f exceeds max %.1f", name, metric, r.Min, r.Max)
			}
		}
		c[Species(name)] = p
	}
	return nil
}

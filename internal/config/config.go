package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ModuleConfig pre-provisions one module at startup.
type ModuleConfig struct {
	ID      string `mapstructure:"id"`
	Species string `mapstructure:"species"`
}

type ReservoirConfig struct {
	InitialLevel float64 `mapstructure:"initial_level"`
	DecayMin     float64 `mapstructure:"decay_min"`
	DecayMax     float64 `mapstructure:"decay_max"`
}

type DayNightConfig struct {
	StartHour  int     `mapstructure:"start_hour"`
	EndHour    int     `mapstructure:"end_hour"`
	NightScale float64 `mapstructure:"night_scale"`
}

type SimulatorConfig struct {
	DecayPerMin float64 `mapstructure:"decay_per_min"`
	Seed        int64   `mapstructure:"seed"` // 0 = time-seeded
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Config is the full gardend configuration.
type Config struct {
	ListenAddr    string          `mapstructure:"listen_addr"`
	CycleInterval time.Duration   `mapstructure:"cycle_interval"`
	Automation    bool            `mapstructure:"automation"`
	SpeciesFile   string          `mapstructure:"species_file"`
	Reservoir     ReservoirConfig `mapstructure:"reservoir"`
	DayNight      DayNightConfig  `mapstructure:"day_night"`
	Simulator     SimulatorConfig `mapstructure:"simulator"`
	Modules       []ModuleConfig  `mapstructure:"modules"`
	Log           LogConfig       `mapstructure:"log"`
}

// Load reads configuration from the given yaml file (optional), the
// environment (GARDEND_ prefix) and built-in defaults, in that order of
// precedence.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("cycle_interval", "30s")
	v.SetDefault("automation", true)
	v.SetDefault("species_file", "")
	v.SetDefault("reservoir.initial_level", 100.0)
	v.SetDefault("reservoir.decay_min", 0.5)
	v.SetDefault("reservoir.decay_max", 1.5)
	v.SetDefault("day_night.start_hour", 8)
	v.SetDefault("day_night.end_hour", 20)
	v.SetDefault("day_night.night_scale", 0.2)
	v.SetDefault("simulator.decay_per_min", 0.05)
	v.SetDefault("simulator.seed", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetEnvPrefix("GARDEND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("gardend")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/gardend")
		v.AddConfigPath(".")
		// a missing default config file is fine; env and defaults apply
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.CycleInterval <= 0 {
		return fmt.Errorf("cycle_interval must be positive, got %s", c.CycleInterval)
	}
	if c.Reservoir.DecayMin < 0 || c.Reservoir.DecayMax < c.Reservoir.DecayMin {
		return fmt.Errorf("reservoir decay bounds invalid: [%v, %v]", c.Reservoir.DecayMin, c.Reservoir.DecayMax)
	}
	if c.DayNight.StartHour < 0 || c.DayNight.StartHour > 23 ||
		c.DayNight.EndHour < 0 || c.DayNight.EndHour > 24 ||
		c.DayNight.EndHour <= c.DayNight.StartHour {
		return fmt.Errorf("day_night hours invalid: %d..%d", c.DayNight.StartHour, c.DayNight.EndHour)
	}
	if c.DayNight.NightScale <= 0 || c.DayNight.NightScale > 1 {
		return fmt.Errorf("day_night.night_scale must be in (0,1], got %v", c.DayNight.NightScale)
	}
	for i, m := range c.Modules {
		if strings.TrimSpace(m.ID) == "" {
			return fmt.Errorf("modules[%d]: id is required", i)
		}
	}
	return nil
}

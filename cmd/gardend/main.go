package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gardend/internal/config"
	"gardend/internal/controller"
	"gardend/internal/gateway"
	"gardend/internal/model"
	"gardend/internal/notification"
	"gardend/internal/reservoir"
	"gardend/internal/sensorsource"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg.Log.Level, cfg.Log.JSON)
	log.Info().Str("config", configPath).Msg("Starting gardend")

	catalog := model.DefaultCatalog()
	if cfg.SpeciesFile != "" {
		if err := catalog.LoadOverrides(cfg.SpeciesFile); err != nil {
			log.Fatal().Err(err).Str("file", cfg.SpeciesFile).Msg("Failed to load species profiles")
		}
		log.Info().Str("file", cfg.SpeciesFile).Msg("Species profiles loaded")
	}

	var rnd *rand.Rand
	if cfg.Simulator.Seed != 0 {
		rnd = rand.New(rand.NewSource(cfg.Simulator.Seed))
	}

	clock := sensorsource.RealClock{}
	sim := sensorsource.NewSimulator(clock, catalog, cfg.Simulator.DecayPerMin, rnd)
	source := sensorsource.NewResilient(sim, 2, 250*time.Millisecond)

	tank := reservoir.New(cfg.Reservoir.InitialLevel, cfg.Reservoir.DecayMin, cfg.Reservoir.DecayMax, nil)
	dayNight := controller.DayNight{
		StartHour:  cfg.DayNight.StartHour,
		EndHour:    cfg.DayNight.EndHour,
		NightScale: cfg.DayNight.NightScale,
	}

	ctrl := controller.New(source, clock, tank, notification.NewLog(), catalog, dayNight, cfg.Automation)
	for _, m := range cfg.Modules {
		if err := ctrl.AddModule(m.ID, model.Species(m.Species)); err != nil {
			log.Fatal().Err(err).Str("module", m.ID).Msg("Failed to provision module")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		ctrl.Run(ctx, cfg.CycleInterval)
	}()

	srv := gateway.New(ctrl, cfg.ListenAddr)
	go func() {
		defer wg.Done()
		if err := srv.Start(ctx); err != nil {
			log.Error().Err(err).Msg("Gateway stopped with error")
			stop()
		}
	}()

	<-ctx.Done()
	wg.Wait()
	log.Info().Msg("Shutdown complete")
}

func setupLogging(level string, useJSON bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if useJSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

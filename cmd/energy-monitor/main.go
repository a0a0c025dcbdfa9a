package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/afroash/energy-monitor/internal/config"
	"github.com/afroash/energy-monitor/internal/dashboard"
	"github.com/afroash/energy-monitor/internal/logging"
	"github.com/afroash/energy-monitor/internal/simulator"
	"github.com/afroash/energy-monitor/internal/telemetry"
)

const version = "v0.1.0"

func main() {
	configPath := flag.String("config", "", "path to config file (built-in defaults when empty)")
	duration := flag.Duration("duration", 0, "stop after this long (0 runs until interrupted)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, logCloser, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	logger.Info().
		Str("version", version).
		Str("config", cfg.String()).
		Msg("Starting energy monitor")

	store, err := telemetry.New(
		cfg.Seed.TelemetrySeed(),
		telemetry.WithLogger(logger),
		telemetry.WithHistoryCapacity(cfg.Store.HistoryCapacity),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create telemetry store")
	}

	monitor := dashboard.NewMonitor(store, dashboard.Options{
		Tariff:        *cfg.Dashboard.Tariff,
		MeterCapacity: cfg.Dashboard.MeterCapacity,
		TrendWindow:   cfg.Dashboard.TrendWindow,
	}, logger)
	monitor.Mount()

	var driver *simulator.Driver
	if cfg.Simulation.IsEnabled() {
		driver = simulator.New(store, simulator.Config{
			Interval:        cfg.Simulation.Interval,
			SkipProbability: cfg.Simulation.SkipProbability,
			MaxDelta:        cfg.Simulation.MaxDelta,
			Tariff:          *cfg.Dashboard.Tariff,
			Seed:            cfg.Simulation.Seed,
		}, logger)
		store.SetConnectionStatus(true)
		driver.Start()
	} else {
		logger.Warn().Msg("Simulation disabled, dashboard shows the seed only")
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var timeout <-chan time.Time
	if *duration > 0 {
		timeout = time.After(*duration)
	}

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down energy monitor...")
	case <-timeout:
		logger.Info().Dur("duration", *duration).Msg("Run duration reached, shutting down...")
	}

	if driver != nil {
		driver.Stop()
		store.SetConnectionStatus(false)
		logger.Info().Interface("stats", driver.Stats()).Msg("Simulator stopped")
	}

	monitor.Unmount()

	logger.Info().Interface("stats", store.Stats()).Msg("Energy monitor stopped")
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path != "" {
		return config.LoadAppConfig(path)
	}
	cfg := config.Default()
	if err := cfg.OverrideFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

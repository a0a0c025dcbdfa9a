package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/afroash/energy-monitor/internal/models"
)

// AppConfig holds all configuration for the energy monitor
type AppConfig struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Store      StoreConfig      `yaml:"store"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
	Seed       SeedConfig       `yaml:"seed"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SimulationConfig contains the synthetic feed settings
type SimulationConfig struct {
	Enabled         *bool         `yaml:"enabled"`
	Interval        time.Duration `yaml:"interval"`
	SkipProbability *float64      `yaml:"skip_probability"`
	MaxDelta        *float64      `yaml:"max_delta"`
	Seed            uint64        `yaml:"seed"`
}

// IsEnabled reports whether the driver should run (default true)
func (s SimulationConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// StoreConfig contains telemetry store settings
type StoreConfig struct {
	HistoryCapacity int `yaml:"history_capacity"`
}

// DashboardConfig contains view settings
type DashboardConfig struct {
	Tariff        *float64 `yaml:"tariff"`
	MeterCapacity float64  `yaml:"meter_capacity"`
	TrendWindow   int      `yaml:"trend_window"`
}

// SeedConfig is the initial home. Empty rooms means the built-in home.
type SeedConfig struct {
	Rooms     []models.Room         `yaml:"rooms"`
	Budget    *models.Budget        `yaml:"budget"`
	History   []models.UsageHistory `yaml:"history"`
	Connected *bool                 `yaml:"connected"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format     string `yaml:"format"` // "json" or "text"
	FilePath   string `yaml:"file_path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// LoadAppConfig loads configuration from a YAML file
func LoadAppConfig(path string) (*AppConfig, error) {
	yamlData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var config AppConfig
	if err := yaml.Unmarshal(yamlData, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyDefaults()
	if err := config.OverrideFromEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

// Default returns a configuration with every default applied
func Default() *AppConfig {
	config := &AppConfig{}
	config.ApplyDefaults()
	return config
}

// ApplyDefaults sets default values for any unset fields
func (c *AppConfig) ApplyDefaults() {
	if c.Simulation.Interval == 0 {
		c.Simulation.Interval = 2 * time.Second
	}
	if c.Simulation.SkipProbability == nil {
		p := 0.3
		c.Simulation.SkipProbability = &p
	}
	if c.Simulation.MaxDelta == nil {
		d := 50.0
		c.Simulation.MaxDelta = &d
	}
	if c.Store.HistoryCapacity == 0 {
		c.Store.HistoryCapacity = 30
	}
	if c.Dashboard.Tariff == nil {
		t := 6.5
		c.Dashboard.Tariff = &t
	}
	if c.Dashboard.MeterCapacity == 0 {
		c.Dashboard.MeterCapacity = 3000
	}
	if c.Dashboard.TrendWindow == 0 {
		c.Dashboard.TrendWindow = 30
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 100
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 10
	}
}

// OverrideFromEnv overrides config values from environment variables
func (c *AppConfig) OverrideFromEnv() error {
	if v := os.Getenv("SIM_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SIM_INTERVAL: %w", err)
		}
		c.Simulation.Interval = d
	}
	if v := os.Getenv("SIM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SIM_SEED: %w", err)
		}
		c.Simulation.Seed = seed
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *AppConfig) Validate() error {
	if c.Simulation.Interval < 100*time.Millisecond {
		return fmt.Errorf("simulation interval must be at least 100ms")
	}
	if p := c.Simulation.SkipProbability; p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("skip probability must be between 0 and 1")
	}
	if d := c.Simulation.MaxDelta; d != nil && *d < 0 {
		return fmt.Errorf("max delta must not be negative")
	}
	if c.Store.HistoryCapacity < 1 {
		return fmt.Errorf("history capacity must be at least 1")
	}
	if t := c.Dashboard.Tariff; t != nil && *t < 0 {
		return fmt.Errorf("tariff must not be negative")
	}
	if c.Dashboard.MeterCapacity <= 0 {
		return fmt.Errorf("meter capacity must be greater than 0")
	}
	if c.Dashboard.TrendWindow < 1 {
		return fmt.Errorf("trend window must be at least 1")
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log format must be json or text, got %q", c.Logging.Format)
	}
	return c.Seed.validate()
}

func (s SeedConfig) validate() error {
	seen := make(map[string]struct{}, len(s.Rooms))
	for _, r := range s.Rooms {
		if r.ID == "" {
			return fmt.Errorf("seed room %q has no id", r.Name)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("seed room id %q is duplicated", r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.Status != "" && !r.Status.Valid() {
			return fmt.Errorf("seed room %q has invalid status %q", r.ID, r.Status)
		}
		if r.CurrentPower < 0 || r.DailyUsage < 0 {
			return fmt.Errorf("seed room %q has negative power or usage", r.ID)
		}
	}
	if b := s.Budget; b != nil {
		if b.MonthlyLimit < 0 || b.CurrentUsage < 0 || b.ProjectedUsage < 0 || b.DaysRemaining < 0 {
			return fmt.Errorf("seed budget values must not be negative")
		}
	}
	return nil
}

// String returns a one-line representation for startup logs
func (c *AppConfig) String() string {
	return fmt.Sprintf("AppConfig{Simulation: [Enabled=%t, Interval=%s, Skip=%.2f, MaxDelta=%.0f], Store: %+v, Dashboard: [Tariff=%.2f, MeterCapacity=%.0f, TrendWindow=%d], SeedRooms: %d, Logging: %+v}",
		c.Simulation.IsEnabled(),
		c.Simulation.Interval,
		c.skipProbability(),
		deref(c.Simulation.MaxDelta),
		c.Store,
		deref(c.Dashboard.Tariff),
		c.Dashboard.MeterCapacity,
		c.Dashboard.TrendWindow,
		len(c.Seed.Rooms),
		c.Logging,
	)
}

func (c *AppConfig) skipProbability() float64 {
	return deref(c.Simulation.SkipProbability)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/afroash/energy-monitor/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoadAppConfig(t *testing.T) {
	configPath := writeConfig(t, `
simulation:
  interval: 500ms
  skip_probability: 0.5
  max_delta: 25
  seed: 42

store:
  history_capacity: 7

dashboard:
  tariff: 0.3
  meter_capacity: 5000

seed:
  connected: false
  rooms:
    - id: "g"
      name: "Garage"
      icon: "car"
      current_power: 90
      daily_usage: 1.5
      status: "normal"
      devices:
        - id: "ev"
          name: "Charger"
          power: 0
  budget:
    monthly_limit: 300
    current_usage: 100
    days_remaining: 20
    projected_usage: 250

logging:
  level: "debug"
  format: "text"
  file_path: "/var/log/energy-monitor.log"
  max_size_mb: 10
  max_backups: 3
`)

	cfg, err := LoadAppConfig(configPath)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if cfg.Simulation.Interval != 500*time.Millisecond {
		t.Errorf("Simulation.Interval = %v, want 500ms", cfg.Simulation.Interval)
	}
	if *cfg.Simulation.SkipProbability != 0.5 {
		t.Errorf("Simulation.SkipProbability = %v, want 0.5", *cfg.Simulation.SkipProbability)
	}
	if cfg.Simulation.Seed != 42 {
		t.Errorf("Simulation.Seed = %v, want 42", cfg.Simulation.Seed)
	}
	if !cfg.Simulation.IsEnabled() {
		t.Error("Simulation should be enabled by default")
	}
	if cfg.Store.HistoryCapacity != 7 {
		t.Errorf("Store.HistoryCapacity = %v, want 7", cfg.Store.HistoryCapacity)
	}
	if cfg.Dashboard.MeterCapacity != 5000 {
		t.Errorf("Dashboard.MeterCapacity = %v, want 5000", cfg.Dashboard.MeterCapacity)
	}
	if len(cfg.Seed.Rooms) != 1 || cfg.Seed.Rooms[0].Name != "Garage" {
		t.Fatalf("Seed.Rooms = %+v", cfg.Seed.Rooms)
	}
	if cfg.Seed.Budget == nil || cfg.Seed.Budget.MonthlyLimit != 300 {
		t.Errorf("Seed.Budget = %+v", cfg.Seed.Budget)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %v, want text", cfg.Logging.Format)
	}
}

func TestLoadAppConfig_MissingFile(t *testing.T) {
	_, err := LoadAppConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestLoadAppConfig_InvalidYAML(t *testing.T) {
	_, err := LoadAppConfig(writeConfig(t, "simulation: [not a map"))
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
}

func TestLoadAppConfig_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadAppConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Simulation.Interval != 2*time.Second {
		t.Errorf("Simulation.Interval = %v, want 2s", cfg.Simulation.Interval)
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &AppConfig{}
	cfg.ApplyDefaults()

	if cfg.Simulation.Interval != 2*time.Second {
		t.Errorf("Default Simulation.Interval = %v, want 2s", cfg.Simulation.Interval)
	}
	if cfg.Simulation.SkipProbability == nil || *cfg.Simulation.SkipProbability != 0.3 {
		t.Errorf("Default Simulation.SkipProbability = %v, want 0.3", cfg.Simulation.SkipProbability)
	}
	if cfg.Simulation.MaxDelta == nil || *cfg.Simulation.MaxDelta != 50 {
		t.Errorf("Default Simulation.MaxDelta = %v, want 50", cfg.Simulation.MaxDelta)
	}
	if cfg.Store.HistoryCapacity != 30 {
		t.Errorf("Default Store.HistoryCapacity = %v, want 30", cfg.Store.HistoryCapacity)
	}
	if cfg.Dashboard.Tariff == nil || *cfg.Dashboard.Tariff != 6.5 {
		t.Errorf("Default Dashboard.Tariff = %v, want 6.5", cfg.Dashboard.Tariff)
	}
	if cfg.Dashboard.MeterCapacity != 3000 {
		t.Errorf("Default Dashboard.MeterCapacity = %v, want 3000", cfg.Dashboard.MeterCapacity)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Default Logging.Level = %v, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Default Logging.Format = %v, want json", cfg.Logging.Format)
	}
}

func TestConfig_ApplyDefaults_KeepsExplicitZeroSkip(t *testing.T) {
	zero := 0.0
	cfg := &AppConfig{Simulation: SimulationConfig{SkipProbability: &zero}}
	cfg.ApplyDefaults()

	if *cfg.Simulation.SkipProbability != 0 {
		t.Errorf("SkipProbability = %v, want explicit 0 kept", *cfg.Simulation.SkipProbability)
	}
}

func TestLoadAppConfig_ExplicitZerosKept(t *testing.T) {
	cfg, err := LoadAppConfig(writeConfig(t, `
simulation:
  skip_probability: 0
  max_delta: 0
dashboard:
  tariff: 0
`))
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if *cfg.Simulation.SkipProbability != 0 {
		t.Errorf("SkipProbability = %v, want explicit 0 kept", *cfg.Simulation.SkipProbability)
	}
	if *cfg.Simulation.MaxDelta != 0 {
		t.Errorf("MaxDelta = %v, want explicit 0 kept", *cfg.Simulation.MaxDelta)
	}
	if *cfg.Dashboard.Tariff != 0 {
		t.Errorf("Tariff = %v, want explicit 0 kept", *cfg.Dashboard.Tariff)
	}
}

func TestConfig_OverrideFromEnv(t *testing.T) {
	t.Setenv("SIM_INTERVAL", "750ms")
	t.Setenv("SIM_SEED", "99")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg := Default()
	if err := cfg.OverrideFromEnv(); err != nil {
		t.Fatalf("OverrideFromEnv failed: %v", err)
	}

	if cfg.Simulation.Interval != 750*time.Millisecond {
		t.Errorf("Simulation.Interval = %v, want 750ms", cfg.Simulation.Interval)
	}
	if cfg.Simulation.Seed != 99 {
		t.Errorf("Simulation.Seed = %v, want 99", cfg.Simulation.Seed)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %v, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %v, want text", cfg.Logging.Format)
	}
}

func TestConfig_OverrideFromEnv_BadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad interval", "SIM_INTERVAL", "soon"},
		{"bad seed", "SIM_SEED", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if err := Default().OverrideFromEnv(); err == nil {
				t.Errorf("OverrideFromEnv() expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	negative := -0.1
	tooLikely := 1.5

	tests := []struct {
		name      string
		modify    func(c *AppConfig)
		wantError bool
	}{
		{
			name:      "defaults are valid",
			modify:    func(c *AppConfig) {},
			wantError: false,
		},
		{
			name:      "interval too short",
			modify:    func(c *AppConfig) { c.Simulation.Interval = 50 * time.Millisecond },
			wantError: true,
		},
		{
			name:      "negative skip probability",
			modify:    func(c *AppConfig) { c.Simulation.SkipProbability = &negative },
			wantError: true,
		},
		{
			name:      "skip probability above one",
			modify:    func(c *AppConfig) { c.Simulation.SkipProbability = &tooLikely },
			wantError: true,
		},
		{
			name:      "negative max delta",
			modify:    func(c *AppConfig) { d := -5.0; c.Simulation.MaxDelta = &d },
			wantError: true,
		},
		{
			name:      "history capacity zero",
			modify:    func(c *AppConfig) { c.Store.HistoryCapacity = 0 },
			wantError: true,
		},
		{
			name:      "negative tariff",
			modify:    func(c *AppConfig) { tariff := -1.0; c.Dashboard.Tariff = &tariff },
			wantError: true,
		},
		{
			name:      "zero meter capacity",
			modify:    func(c *AppConfig) { c.Dashboard.MeterCapacity = 0 },
			wantError: true,
		},
		{
			name:      "negative trend window",
			modify:    func(c *AppConfig) { c.Dashboard.TrendWindow = -1 },
			wantError: true,
		},
		{
			name:      "unknown log format",
			modify:    func(c *AppConfig) { c.Logging.Format = "xml" },
			wantError: true,
		},
		{
			name: "duplicate seed room id",
			modify: func(c *AppConfig) {
				c.Seed.Rooms = []models.Room{{ID: "1", Name: "A"}, {ID: "1", Name: "B"}}
			},
			wantError: true,
		},
		{
			name: "seed room without id",
			modify: func(c *AppConfig) {
				c.Seed.Rooms = []models.Room{{Name: "Attic"}}
			},
			wantError: true,
		},
		{
			name: "seed room with bad status",
			modify: func(c *AppConfig) {
				c.Seed.Rooms = []models.Room{{ID: "1", Status: "on-fire"}}
			},
			wantError: true,
		},
		{
			name: "seed room with negative power",
			modify: func(c *AppConfig) {
				c.Seed.Rooms = []models.Room{{ID: "1", CurrentPower: -10}}
			},
			wantError: true,
		},
		{
			name: "negative seed budget",
			modify: func(c *AppConfig) {
				c.Seed.Budget = &models.Budget{MonthlyLimit: -400}
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("Validate() expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_String(t *testing.T) {
	str := Default().String()

	for _, want := range []string{"Interval=2s", "Skip=0.30", "SeedRooms: 0"} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %q, missing %q", str, want)
		}
	}
}

func TestSeedConfig_TelemetrySeed(t *testing.T) {
	t.Run("empty uses built-in home", func(t *testing.T) {
		seed := SeedConfig{}.TelemetrySeed()
		if len(seed.Rooms) != 4 {
			t.Errorf("len(Rooms) = %d, want 4", len(seed.Rooms))
		}
		if seed.Budget.MonthlyLimit != 400 {
			t.Errorf("Budget.MonthlyLimit = %v, want 400", seed.Budget.MonthlyLimit)
		}
		if !seed.Connected {
			t.Error("built-in home starts connected")
		}
	})

	t.Run("configured rooms replace built-in", func(t *testing.T) {
		disconnected := false
		cfg := SeedConfig{
			Rooms: []models.Room{
				{ID: "g", Name: "Garage", Devices: []models.Device{{ID: "ev"}}},
			},
			Budget:    &models.Budget{MonthlyLimit: 250},
			History:   []models.UsageHistory{{Date: "2024-01-01", Usage: 9}},
			Connected: &disconnected,
		}

		seed := cfg.TelemetrySeed()
		if len(seed.Rooms) != 1 {
			t.Fatalf("len(Rooms) = %d, want 1", len(seed.Rooms))
		}
		if seed.Rooms[0].Status != models.StatusNormal {
			t.Errorf("Status = %q, want normal by default", seed.Rooms[0].Status)
		}
		if seed.Rooms[0].Devices[0].RoomID != "g" {
			t.Errorf("Device.RoomID = %q, want g", seed.Rooms[0].Devices[0].RoomID)
		}
		if seed.Budget.MonthlyLimit != 250 {
			t.Errorf("Budget.MonthlyLimit = %v, want 250", seed.Budget.MonthlyLimit)
		}
		if len(seed.History) != 1 {
			t.Errorf("len(History) = %d, want 1", len(seed.History))
		}
		if seed.Connected {
			t.Error("Connected should follow the config")
		}
		if cfg.Rooms[0].Status != "" {
			t.Error("TelemetrySeed must not modify the config")
		}
	})
}

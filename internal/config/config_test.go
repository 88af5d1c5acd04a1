package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1200 {
		t.Errorf("expected width 1200, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 700 {
		t.Errorf("expected height 700, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	// Test view defaults
	if cfg.View.Projection != "perspective" {
		t.Errorf("expected perspective projection, got %s", cfg.View.Projection)
	}
	if cfg.View.FOVDeg != 60 || cfg.View.Near != 1 || cfg.View.Far != 5000 {
		t.Errorf("unexpected view defaults: %+v", cfg.View)
	}

	// Test simulation defaults
	if cfg.Simulation.Paused {
		t.Error("expected simulation to start running")
	}
	if cfg.Simulation.SpeedFactor != 0.12 {
		t.Errorf("expected speed factor 0.12, got %f", cfg.Simulation.SpeedFactor)
	}
	if !cfg.Simulation.SameDirection {
		t.Error("expected same_direction to be true by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true

view:
  projection: orthographic
  background: "#101020"

simulation:
  paused: true
  show_orbits: true
  seed: 42
  layout_file: "mini.yaml"

audio:
  volume: 0.25
  muted: true

data:
  asset_dir: "/opt/orrery/data"

logging:
  level: "debug"
  log_file: "orrery.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.View.Projection != "orthographic" {
		t.Errorf("expected orthographic, got %s", cfg.View.Projection)
	}
	// Unset keys keep their defaults.
	if cfg.View.Far != 5000 {
		t.Errorf("expected far plane default 5000, got %f", cfg.View.Far)
	}
	if !cfg.Simulation.Paused || !cfg.Simulation.ShowOrbits {
		t.Error("expected paused and show_orbits from file")
	}
	if cfg.Simulation.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Simulation.Seed)
	}
	if cfg.Simulation.LayoutFile != "mini.yaml" {
		t.Errorf("expected layout mini.yaml, got %s", cfg.Simulation.LayoutFile)
	}
	if cfg.Audio.Volume != 0.25 || !cfg.Audio.Muted {
		t.Errorf("unexpected audio section: %+v", cfg.Audio)
	}
	if cfg.Data.AssetDir != "/opt/orrery/data" {
		t.Errorf("expected asset dir from file, got %s", cfg.Data.AssetDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "orrery.log" {
		t.Errorf("expected log file 'orrery.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, "graphics"},
		{"unknown projection", func(c *Config) { c.View.Projection = "fisheye" }, "projection"},
		{"fov too wide", func(c *Config) { c.View.FOVDeg = 180 }, "fov_deg"},
		{"far before near", func(c *Config) { c.View.Far = 0.5 }, "clip planes"},
		{"bad background", func(c *Config) { c.View.Background = "black" }, "background"},
		{"negative speed factor", func(c *Config) { c.Simulation.SpeedFactor = -1 }, "speed_factor"},
		{"ambient above one", func(c *Config) { c.Lighting.Ambient = 2 }, "ambient"},
		{"volume below zero", func(c *Config) { c.Audio.Volume = -0.1 }, "volume"},
		{"headless without frames", func(c *Config) { c.Headless.Enabled = true; c.Headless.Frames = 0 }, "headless"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Simulation.Seed = 7
	cfg.View.Projection = "orthographic"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to read back config: %v", err)
	}
	if loaded.Simulation.Seed != 7 || loaded.View.Projection != "orthographic" {
		t.Errorf("saved values not preserved: %+v", loaded.Simulation)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Lighting.Debug {
					t.Error("expected light debug markers with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "simulation flags",
			setup: func() {
				*flagPaused = true
				*flagOrbits = true
				*flagSeed = 99
				*flagLayout = "custom.yaml"
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Simulation.Paused || !cfg.Simulation.ShowOrbits {
					t.Error("expected paused and orbits from flags")
				}
				if cfg.Simulation.Seed != 99 {
					t.Errorf("expected seed 99, got %d", cfg.Simulation.Seed)
				}
				if cfg.Simulation.LayoutFile != "custom.yaml" {
					t.Errorf("expected layout custom.yaml, got %s", cfg.Simulation.LayoutFile)
				}
			},
			teardown: func() {
				*flagPaused = false
				*flagOrbits = false
				*flagSeed = 0
				*flagLayout = ""
			},
		},
		{
			name: "headless flags",
			setup: func() {
				*flagHeadless = true
				*flagFrames = 30
				*flagData = "/tmp/assets"
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Headless.Enabled || cfg.Headless.Frames != 30 {
					t.Errorf("unexpected headless section: %+v", cfg.Headless)
				}
				if cfg.Data.AssetDir != "/tmp/assets" {
					t.Errorf("expected asset dir /tmp/assets, got %s", cfg.Data.AssetDir)
				}
			},
			teardown: func() {
				*flagHeadless = false
				*flagFrames = 0
				*flagData = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("view:\n  projection: fisheye\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject an unknown projection")
	}
}

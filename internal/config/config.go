// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Config holds all viewer settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	View       ViewConfig       `yaml:"view"`
	Simulation SimulationConfig `yaml:"simulation"`
	Lighting   LightingConfig   `yaml:"lighting"`
	Audio      AudioConfig      `yaml:"audio"`
	Data       DataConfig       `yaml:"data"`
	Logging    LoggingConfig    `yaml:"logging"`
	Headless   HeadlessConfig   `yaml:"headless"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// ViewConfig holds projection settings.
type ViewConfig struct {
	Projection string  `yaml:"projection"` // "perspective" or "orthographic"
	FOVDeg     float32 `yaml:"fov_deg"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
	Background string  `yaml:"background"` // clear colour, hex
}

// SimulationConfig controls the solar system animation.
type SimulationConfig struct {
	Paused          bool    `yaml:"paused"`
	ShowOrbits      bool    `yaml:"show_orbits"`
	Seed            uint64  `yaml:"seed"` // 0 picks a time-based seed
	SpeedFactor     float32 `yaml:"speed_factor"`
	SameDirection   bool    `yaml:"same_direction"`
	RandomizeAngles bool    `yaml:"randomize_angles"`
	LayoutFile      string  `yaml:"layout_file"` // empty uses the built-in layout
}

// LightingConfig holds scene light settings.
type LightingConfig struct {
	Ambient float32 `yaml:"ambient"` // grey level 0..1
	Debug   bool    `yaml:"debug"`
}

// AudioConfig holds ambience playback settings.
type AudioConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Ambience string  `yaml:"ambience"` // file name inside the data dir
	Volume   float32 `yaml:"volume"`
	Muted    bool    `yaml:"muted"`
}

// DataConfig holds asset locations.
type DataConfig struct {
	AssetDir string `yaml:"asset_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// HeadlessConfig runs the frame loop without a window.
type HeadlessConfig struct {
	Enabled bool    `yaml:"enabled"`
	Frames  int     `yaml:"frames"`
	DT      float32 `yaml:"dt"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1200,
			Height:     700,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		View: ViewConfig{
			Projection: "perspective",
			FOVDeg:     60,
			Near:       1,
			Far:        5000,
			Background: "#000000",
		},
		Simulation: SimulationConfig{
			SpeedFactor:   0.12,
			SameDirection: true,
		},
		Lighting: LightingConfig{
			Ambient: 38.0 / 255.0,
		},
		Audio: AudioConfig{
			Enabled:  true,
			Ambience: "ambience.wav",
			Volume:   0.6,
		},
		Data: DataConfig{
			AssetDir: "data",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Headless: HeadlessConfig{
			Frames: 600,
			DT:     1.0 / 60.0,
		},
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	switch c.View.Projection {
	case "perspective", "orthographic":
	default:
		errs = append(errs, fmt.Errorf("view: unknown projection %q", c.View.Projection))
	}
	if c.View.FOVDeg <= 0 || c.View.FOVDeg >= 180 {
		errs = append(errs, fmt.Errorf("view: fov_deg %v out of range", c.View.FOVDeg))
	}
	if c.View.Near <= 0 || c.View.Far <= c.View.Near {
		errs = append(errs, fmt.Errorf("view: invalid clip planes near=%v far=%v", c.View.Near, c.View.Far))
	}
	if _, err := colorful.Hex(c.View.Background); err != nil {
		errs = append(errs, fmt.Errorf("view: background: %w", err))
	}
	if c.Simulation.SpeedFactor < 0 {
		errs = append(errs, fmt.Errorf("simulation: negative speed_factor %v", c.Simulation.SpeedFactor))
	}
	if c.Lighting.Ambient < 0 || c.Lighting.Ambient > 1 {
		errs = append(errs, fmt.Errorf("lighting: ambient %v outside [0,1]", c.Lighting.Ambient))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio: volume %v outside [0,1]", c.Audio.Volume))
	}
	if c.Headless.Enabled && (c.Headless.Frames <= 0 || c.Headless.DT <= 0) {
		errs = append(errs, fmt.Errorf("headless: frames and dt must be positive"))
	}
	return errors.Join(errs...)
}

package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging and light markers")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagPaused     = flag.Bool("paused", false, "Start with the animation paused")
	flagOrbits     = flag.Bool("orbits", false, "Start with orbit paths visible")
	flagSeed       = flag.Uint64("seed", 0, "Random seed for body speeds (0 = time based)")
	flagLayout     = flag.String("layout", "", "Path to a solar system layout YAML")
	flagData       = flag.String("data", "", "Asset directory")
	flagHeadless   = flag.Bool("headless", false, "Run the frame loop without a window")
	flagFrames     = flag.Int("frames", 0, "Number of frames to run in headless mode")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Lighting.Debug = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagPaused {
		cfg.Simulation.Paused = true
	}
	if *flagOrbits {
		cfg.Simulation.ShowOrbits = true
	}
	if *flagSeed != 0 {
		cfg.Simulation.Seed = *flagSeed
	}
	if *flagLayout != "" {
		cfg.Simulation.LayoutFile = *flagLayout
	}
	if *flagData != "" {
		cfg.Data.AssetDir = *flagData
	}
	if *flagHeadless {
		cfg.Headless.Enabled = true
	}
	if *flagFrames > 0 {
		cfg.Headless.Frames = *flagFrames
	}
}

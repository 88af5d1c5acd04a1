// Package main is the entry point for the Orrery viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/assets"
	"github.com/Faultbox/orrery/internal/config"
	"github.com/Faultbox/orrery/internal/engine/render"
	"github.com/Faultbox/orrery/internal/logger"
	"github.com/Faultbox/orrery/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Orrery ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if cfg.Headless.Enabled {
		if err := runHeadless(cfg); err != nil {
			logger.Error("headless run failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	app, err := viewer.NewApp(cfg)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

// runHeadless drives the frame loop against the recording renderer, still
// resolving assets so missing files show up in the log.
func runHeadless(cfg *config.Config) error {
	mgr := assets.NewManager()
	defer mgr.Close()
	if err := mgr.AddDir(cfg.Data.AssetDir); err != nil {
		logger.Warn("asset directory unavailable", zap.Error(err))
	}
	lib := assets.NewLibrary(mgr, assets.MemoryUploader{})

	v, err := viewer.New(cfg, lib, nil)
	if err != nil {
		return err
	}
	stats := v.RunHeadless(render.NewTracer(), cfg.Headless.Frames, cfg.Headless.DT)
	logger.Info("headless summary",
		zap.Int("frames", stats.Frames),
		zap.Float64("avg_calls_per_frame", float64(stats.Calls)/float64(max(stats.Frames, 1))),
	)
	return nil
}

package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/assets"
	"github.com/Faultbox/orrery/internal/config"
	"github.com/Faultbox/orrery/internal/engine/audio"
	"github.com/Faultbox/orrery/internal/engine/debug"
	"github.com/Faultbox/orrery/internal/engine/hud"
	"github.com/Faultbox/orrery/internal/engine/input"
	"github.com/Faultbox/orrery/internal/engine/input/sdlinput"
	"github.com/Faultbox/orrery/internal/engine/render"
	"github.com/Faultbox/orrery/internal/engine/renderer"
	"github.com/Faultbox/orrery/internal/engine/window"
	"github.com/Faultbox/orrery/internal/logger"
)

// App runs the viewer in an SDL window with the GL renderer.
type App struct {
	cfg      *config.Config
	window   *window.Window
	renderer *renderer.Renderer
	input    *sdlinput.Poller
	assets   *assets.Manager
	audio    *audio.Player
	viewer   *Viewer
	shots    *debug.Screenshots
	overlay  hud.Overlay
	capture  bool
	running  bool
	log      *zap.Logger
}

// NewApp opens the window, initialises GL, loads assets through the
// renderer and builds the scene.
func NewApp(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:   cfg,
		input: sdlinput.New(),
		shots: debug.NewScreenshots("screenshots", "orrery"),
		log:   logger.Named("app"),
	}

	var err error
	a.window, err = window.New(window.ConfigFrom("Orrery", cfg.Graphics))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	bg, err := render.Hex(cfg.View.Background)
	if err != nil {
		a.Close()
		return nil, err
	}
	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: w, Height: h, Background: bg})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.assets = assets.NewManager()
	if err := a.assets.AddDir(cfg.Data.AssetDir); err != nil {
		// Without assets every body is drawn as a coloured sphere.
		a.log.Warn("asset directory unavailable", zap.String("dir", cfg.Data.AssetDir), zap.Error(err))
	}
	lib := assets.NewLibrary(a.assets, a.renderer)

	if cfg.Audio.Enabled {
		a.audio = a.startAudio()
	}

	var ctl Audio
	if a.audio != nil {
		ctl = a.audio
	}
	a.viewer, err = New(cfg, lib, ctl)
	if err != nil {
		a.Close()
		return nil, err
	}
	// Projection sizes are in screen units, matching mouse input.
	a.viewer.Resize(a.window.Size())
	return a, nil
}

func (a *App) startAudio() *audio.Player {
	p := audio.New(float64(a.cfg.Audio.Volume), a.cfg.Audio.Muted)
	if err := p.Init(); err != nil {
		a.log.Warn("audio disabled", zap.Error(err))
		return nil
	}
	if err := p.PlayFrom(a.assets, filepath.ToSlash(a.cfg.Audio.Ambience)); err != nil {
		a.log.Warn("ambience not playing", zap.String("track", a.cfg.Audio.Ambience), zap.Error(err))
	}
	return p
}

// Viewer returns the hosted viewer.
func (a *App) Viewer() *Viewer { return a.viewer }

// Run polls input, updates and renders until the window closes or
// Escape is pressed.
func (a *App) Run() error {
	a.running = true

	var frameBudget time.Duration
	if a.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(a.cfg.Graphics.FPSLimit)
	}

	lastTime := time.Now()
	titleTimer := time.Now()

	a.log.Info("starting frame loop")
	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if a.input.Update() {
			a.running = false
			break
		}
		for _, ev := range a.input.Events() {
			a.handleEvent(ev)
		}

		a.viewer.Update(float32(dt))

		a.renderer.Begin()
		a.viewer.Render(a.renderer)
		if a.overlay.Visible {
			img, changed := a.overlay.Image(append([]string{a.viewer.Title()}, hud.HelpLines...))
			a.renderer.DrawOverlay(img, hud.Padding, hud.Padding, changed)
		}
		a.renderer.End()
		if a.capture {
			a.saveScreenshot()
		}
		a.window.SwapBuffers()

		if time.Since(titleTimer) >= 500*time.Millisecond {
			a.window.SetTitle(a.viewer.Title())
			titleTimer = time.Now()
		}

		if frameBudget > 0 {
			if spent := time.Since(now); spent < frameBudget {
				time.Sleep(frameBudget - spent)
			}
		}
	}
	return nil
}

func (a *App) handleEvent(ev input.Event) {
	switch ev.Type {
	case input.EventWindowResize:
		a.renderer.Resize(a.window.DrawableSize())
		a.viewer.Resize(ev.Width, ev.Height)
		return
	case input.EventKeyDown:
		switch ev.Key {
		case input.KeyEscape:
			a.running = false
			return
		case input.KeyF11:
			a.window.ToggleFullscreen()
			return
		case input.KeyF1:
			a.overlay.Visible = !a.overlay.Visible
			return
		case input.KeyF2:
			a.capture = true
			return
		}
	}
	a.viewer.HandleEvent(ev)
}

// saveScreenshot writes the frame just rendered, before the swap.
func (a *App) saveScreenshot() {
	a.capture = false
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.shots.SaveGL(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases audio, GL and window resources.
func (a *App) Close() {
	a.log.Info("closing")
	if a.audio != nil {
		a.audio.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.assets != nil {
		a.assets.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

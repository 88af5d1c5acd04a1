// Package window owns the SDL2 window and its OpenGL context.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/config"
	"github.com/Faultbox/orrery/internal/logger"
)

func init() {
	// GL and SDL video calls must stay on the main thread.
	runtime.LockOSThread()
}

// Config holds window settings.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	// Samples enables multisampling when > 0.
	Samples int
}

// ConfigFrom derives window settings from the graphics section.
func ConfigFrom(title string, g config.GraphicsConfig) Config {
	return Config{
		Title:      title,
		Width:      g.Width,
		Height:     g.Height,
		Fullscreen: g.Fullscreen,
		VSync:      g.VSync,
		Samples:    4,
	}
}

// Window wraps an SDL2 window with a GL 4.1 core context.
type Window struct {
	config     Config
	sdlWindow  *sdl.Window
	glContext  sdl.GLContext
	fullscreen bool
	log        *zap.Logger
}

// New initialises SDL video and opens the window.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config:     cfg,
		fullscreen: cfg.Fullscreen,
		log:        logger.Named("window"),
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// 4.1 core is the newest profile macOS offers.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	if cfg.Samples > 0 {
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLEBUFFERS, 1)
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLESAMPLES, cfg.Samples)
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		w.log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	w.log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
		zap.Int("samples", cfg.Samples),
	)
	return w, nil
}

// Close destroys the context and window and shuts SDL down.
func (w *Window) Close() {
	w.log.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}
	sdl.Quit()
}

// SwapBuffers presents the back buffer.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// Size returns the window size in screen coordinates, the units of
// mouse events.
func (w *Window) Size() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// DrawableSize returns the framebuffer size in pixels, which differs
// from Size on high-DPI displays.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// ToggleFullscreen switches between windowed and desktop fullscreen.
func (w *Window) ToggleFullscreen() {
	var flags uint32
	if !w.fullscreen {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := w.sdlWindow.SetFullscreen(flags); err != nil {
		w.log.Warn("fullscreen toggle failed", zap.Error(err))
		return
	}
	w.fullscreen = !w.fullscreen
}

// Fullscreen reports whether the window covers the desktop.
func (w *Window) Fullscreen() bool { return w.fullscreen }

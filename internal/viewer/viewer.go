// Package viewer hosts the solar system: it owns the camera, lights,
// background and projection, and routes updates, drawing and input to
// the registered entries.
package viewer

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/config"
	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/engine/input"
	"github.com/Faultbox/orrery/internal/engine/lighting"
	"github.com/Faultbox/orrery/internal/engine/render"
	"github.com/Faultbox/orrery/internal/logger"
	"github.com/Faultbox/orrery/internal/scene"
	"github.com/Faultbox/orrery/internal/solarsystem"
	"github.com/Faultbox/orrery/pkg/math"
)

// Capabilities an entry may provide.
type (
	Animator interface{ Update(dT float32) }
	Drawer   interface{ Display(r render.Renderer) }
	Lighter  interface{ SetupLighting(r render.Renderer) }
	Handler  interface{ HandleEvent(ev input.Event) bool }
)

// Entry is a scene participant. Nil fields are skipped.
type Entry struct {
	Name     string
	Animator Animator
	Drawer   Drawer
	Lighter  Lighter
	Handler  Handler
}

// Viewport is the drawable area and the projection used for it.
type Viewport struct {
	Width  int
	Height int
	Mode   render.ProjectionMode
}

// Audio is the soundtrack control the viewer drives.
type Audio interface {
	SetPaused(paused bool)
	ToggleMute() bool
}

// BackgroundSize is the diameter scale of the star-field sphere.
const BackgroundSize = 3000

// Light positions around the system, above the sun.
var lightPositions = []math.Vec3{
	math.V3(5, 500, -5),
	math.V3(-5, 500, -5),
	math.V3(0, 500, 10),
}

// Viewer is the frame-driven host for the scene.
type Viewer struct {
	cfg      *config.Config
	viewport Viewport
	fovY     float32

	camera     *camera.Controller
	system     *solarsystem.Assembly
	lights     []*lighting.Light
	background *scene.Node
	entries    []Entry

	audio       Audio
	audioPaused bool

	fps fpsCounter
	log *zap.Logger
}

// New builds the scene from cfg. res may be nil, which draws every body
// as a plain sphere; audio may be nil.
func New(cfg *config.Config, res scene.Resolver, audio Audio) (*Viewer, error) {
	mode, ok := render.ParseProjectionMode(cfg.View.Projection)
	if !ok {
		return nil, fmt.Errorf("unknown projection %q", cfg.View.Projection)
	}

	var layout *solarsystem.Layout
	if cfg.Simulation.LayoutFile != "" {
		l, err := solarsystem.LoadLayout(cfg.Simulation.LayoutFile)
		if err != nil {
			return nil, err
		}
		layout = l
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	opts := solarsystem.DefaultOptions()
	opts.Resolver = res
	opts.RNG = rand.New(rand.NewPCG(seed, seed>>1|1))
	opts.SpeedFactor = cfg.Simulation.SpeedFactor
	opts.SameDirection = cfg.Simulation.SameDirection
	opts.RandomizeAngles = cfg.Simulation.RandomizeAngles
	opts.Ambient = render.Gray(cfg.Lighting.Ambient)

	v := &Viewer{
		cfg:      cfg,
		viewport: Viewport{Width: cfg.Graphics.Width, Height: cfg.Graphics.Height, Mode: mode},
		fovY:     math.Radians(cfg.View.FOVDeg),
		audio:    audio,
		log:      logger.Named("viewer"),
	}

	v.system = solarsystem.New(layout, opts)
	v.system.SetPaused(cfg.Simulation.Paused)
	v.system.SetOrbitDisplay(cfg.Simulation.ShowOrbits)
	v.syncAudio()

	v.camera = camera.New(float32(v.viewport.Height))
	v.camera.OnProjection = v.SetProjectionMode

	for _, pos := range lightPositions {
		l := lighting.New(pos)
		l.Debug = cfg.Lighting.Debug
		v.lights = append(v.lights, l)
	}

	v.background = scene.NewBody(res, "background", 0, BackgroundSize,
		scene.WithLit(false),
		scene.WithColor(render.Black),
	)
	v.background.Follow = v.camera.Eye

	v.Add(Entry{Name: "camera", Handler: v.camera})
	v.Add(Entry{Name: "system", Animator: v.system, Drawer: v.system, Handler: v.system})
	for i, l := range v.lights {
		v.Add(Entry{Name: fmt.Sprintf("light%d", i+1), Animator: l, Drawer: l, Lighter: l})
	}
	v.Add(Entry{Name: "background", Animator: v.background, Drawer: v.background})

	v.log.Info("viewer ready",
		zap.Uint64("seed", seed),
		zap.Stringer("projection", mode),
		zap.Int("entries", len(v.entries)),
	)
	return v, nil
}

// Add registers an entry. Entries update, draw and see input in
// registration order.
func (v *Viewer) Add(e Entry) { v.entries = append(v.entries, e) }

// Entries returns the registered entries.
func (v *Viewer) Entries() []Entry { return v.entries }

func (v *Viewer) Camera() *camera.Controller    { return v.camera }
func (v *Viewer) System() *solarsystem.Assembly { return v.system }
func (v *Viewer) Lights() []*lighting.Light     { return v.lights }
func (v *Viewer) Background() *scene.Node       { return v.background }
func (v *Viewer) Viewport() Viewport            { return v.viewport }

// Resize changes the viewport size.
func (v *Viewer) Resize(width, height int) {
	v.viewport.Width, v.viewport.Height = width, height
	v.camera.SetViewportHeight(float32(height))
}

// Projection returns the projection for the current viewport.
func (v *Viewer) Projection() render.Projection {
	return render.Projection{
		Mode:   v.viewport.Mode,
		Width:  float32(v.viewport.Width),
		Height: float32(v.viewport.Height),
		FOVY:   v.fovY,
		Near:   v.cfg.View.Near,
		Far:    v.cfg.View.Far,
	}
}

// Update moves the camera, then advances every animator.
func (v *Viewer) Update(dT float32) {
	v.camera.Update(dT)
	for _, e := range v.entries {
		if e.Animator != nil {
			e.Animator.Update(dT)
		}
	}
	v.syncAudio()
	v.fps.tick(float64(dT))
}

// Render draws one frame: projection, camera, lights, then entries.
func (v *Viewer) Render(r render.Renderer) {
	r.SetProjection(v.Projection())
	v.camera.Setup(r)
	for _, e := range v.entries {
		if e.Lighter != nil {
			e.Lighter.SetupLighting(r)
		}
	}
	for _, e := range v.entries {
		if e.Drawer != nil {
			e.Drawer.Display(r)
		}
	}
}

// HandleEvent runs viewer commands, then offers the event to each
// handler until one consumes it.
func (v *Viewer) HandleEvent(ev input.Event) bool {
	if v.handleCommand(ev) {
		return true
	}
	for _, e := range v.entries {
		if e.Handler != nil && e.Handler.HandleEvent(ev) {
			return true
		}
	}
	return false
}

func (v *Viewer) handleCommand(ev input.Event) bool {
	if ev.Type != input.EventKeyUp {
		return false
	}
	switch {
	case ev.IsKey('l'):
		v.ToggleLightDebug()
	case ev.IsKey('m'):
		v.ToggleMute()
	case ev.IsKey('v'):
		v.ToggleProjection()
	default:
		return false
	}
	return true
}

// TogglePause pauses or resumes the simulation and the soundtrack.
func (v *Viewer) TogglePause() {
	v.system.TogglePause()
	v.syncAudio()
}

// ToggleOrbits shows or hides every orbit path.
func (v *Viewer) ToggleOrbits() { v.system.ToggleOrbitDisplay() }

// ResetCamera returns the camera to its start position.
func (v *Viewer) ResetCamera() { v.camera.Reset() }

// BirdsEye moves the camera below the system looking up through it.
func (v *Viewer) BirdsEye() { v.camera.BirdsEye() }

// ToggleProjection switches between perspective and orthographic.
func (v *Viewer) ToggleProjection() {
	if v.viewport.Mode == render.Perspective {
		v.SetProjectionMode(render.Orthographic)
	} else {
		v.SetProjectionMode(render.Perspective)
	}
}

// SetProjectionMode selects the projection used from the next frame.
func (v *Viewer) SetProjectionMode(m render.ProjectionMode) {
	if v.viewport.Mode == m {
		return
	}
	v.viewport.Mode = m
	v.log.Debug("projection changed", zap.Stringer("mode", m))
}

// ToggleLightDebug shows or hides the light markers.
func (v *Viewer) ToggleLightDebug() {
	for _, l := range v.lights {
		l.Debug = !l.Debug
	}
}

// ToggleMute mutes or unmutes the soundtrack.
func (v *Viewer) ToggleMute() {
	if v.audio != nil {
		v.audio.ToggleMute()
	}
}

// syncAudio keeps the soundtrack paused with the simulation, whichever
// path toggled it.
func (v *Viewer) syncAudio() {
	paused := v.system.Paused()
	if v.audio == nil || paused == v.audioPaused {
		return
	}
	v.audio.SetPaused(paused)
	v.audioPaused = paused
}

// Title is the window title for the current state.
func (v *Viewer) Title() string {
	state := "running"
	if v.system.Paused() {
		state = "paused"
	}
	return fmt.Sprintf("Orrery - %s - %s - %.0f FPS", state, v.viewport.Mode, v.fps.fps)
}

// FPS returns the most recent frame rate estimate.
func (v *Viewer) FPS() float64 { return v.fps.fps }

// fpsCounter averages frame rate over half-second windows.
type fpsCounter struct {
	fps     float64
	frames  int
	elapsed float64
}

func (c *fpsCounter) tick(dt float64) {
	c.frames++
	c.elapsed += dt
	if c.elapsed >= 0.5 {
		c.fps = float64(c.frames) / c.elapsed
		c.frames = 0
		c.elapsed = 0
	}
}

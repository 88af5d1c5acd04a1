// Package solarsystem assembles the animated star system from a layout
// and exposes the controls the viewer binds to keys.
package solarsystem

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/engine/input"
	"github.com/Faultbox/orrery/internal/engine/render"
	"github.com/Faultbox/orrery/internal/logger"
	"github.com/Faultbox/orrery/internal/scene"
	"github.com/Faultbox/orrery/pkg/math"
)

// Options controls assembly construction.
type Options struct {
	// Resolver loads meshes and ring textures; nil draws every body as a
	// coloured sphere.
	Resolver scene.Resolver
	// RNG drives speed and angle randomization.
	RNG *rand.Rand
	// SpeedFactor scales random speeds to [0, π·factor).
	SpeedFactor float32
	// SameDirection keeps every random speed non-negative.
	SameDirection bool
	// RandomizeAngles scatters bodies along their orbits at build time.
	RandomizeAngles bool
	// Ambient is the ambient light set before drawing.
	Ambient render.Color
}

// DefaultOptions matches the classic look: slow prograde orbits and a
// dim grey ambient.
func DefaultOptions() Options {
	return Options{
		SpeedFactor:   0.12,
		SameDirection: true,
		Ambient:       render.Gray(38.0 / 255.0),
	}
}

// Assembly owns the body tree built from a Layout.
type Assembly struct {
	layout *Layout
	opts   Options

	root   *scene.Node
	star   *scene.Node
	bodies map[string]*scene.Node
	order  []*scene.Node

	paused bool
}

// New builds an assembly. A nil layout uses the built-in solar system and
// a nil RNG gets a random seed.
func New(layout *Layout, opts Options) *Assembly {
	if layout == nil {
		layout = DefaultLayout()
	}
	if opts.RNG == nil {
		opts.RNG = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	a := &Assembly{
		layout: layout,
		opts:   opts,
		bodies: make(map[string]*scene.Node),
	}
	a.Build()
	return a
}

// Build constructs the body tree. Calling it again is a no-op.
func (a *Assembly) Build() {
	if a.root != nil {
		return
	}

	a.root = scene.NewNode(a.layout.Name)
	p := a.layout.Position
	a.root.SetPosition(p[0], p[1], p[2])

	a.star = a.buildBody(&a.layout.Star)
	a.root.AddChild(a.star)

	a.star.RandomizeHierarchySpeeds(a.opts.RNG, a.opts.SpeedFactor, a.opts.SameDirection)
	if a.opts.RandomizeAngles {
		a.star.RandomizeHierarchyAngles(a.opts.RNG)
	}
	a.applyOverrides(&a.layout.Star)

	logger.Named("solarsystem").Info("system assembled",
		zap.String("name", a.layout.Name),
		zap.Int("bodies", len(a.order)),
	)
}

func (a *Assembly) buildBody(spec *BodySpec) *scene.Node {
	opts := []scene.BodyOption{scene.WithLit(!spec.Unlit)}
	if spec.Asset != "" {
		opts = append(opts, scene.WithAsset(spec.Asset))
	}
	if spec.Color != "" {
		// Validated with the layout.
		opts = append(opts, scene.WithColor(render.MustHex(spec.Color)))
	}
	if spec.Ring {
		opts = append(opts, scene.WithRing())
	}

	n := scene.NewBody(a.opts.Resolver, spec.Name, spec.OrbitRadius, spec.Size, opts...)
	n.SetPosition(spec.Position[0], spec.Position[1], spec.Position[2])
	a.bodies[spec.Name] = n
	a.order = append(a.order, n)

	for i := range spec.Children {
		n.AddChild(a.buildBody(&spec.Children[i]))
	}
	return n
}

func (a *Assembly) applyOverrides(spec *BodySpec) {
	b := a.bodies[spec.Name].Body
	if spec.OrbitSpeed != nil {
		b.OrbitSpeed = *spec.OrbitSpeed
	}
	if spec.AxisSpeed != nil {
		b.AxisSpeed = *spec.AxisSpeed
	}
	if spec.OrbitAngle != nil {
		b.OrbitAngle = math.WrapAngle(*spec.OrbitAngle)
	}
	if spec.AxisAngle != nil {
		b.AxisAngle = math.WrapAngle(*spec.AxisAngle)
	}
	for i := range spec.Children {
		a.applyOverrides(&spec.Children[i])
	}
}

// Root returns the top grouping node.
func (a *Assembly) Root() *scene.Node { return a.root }

// Layout returns the layout the assembly was built from.
func (a *Assembly) Layout() *Layout { return a.layout }

// Update advances the system unless paused.
func (a *Assembly) Update(dT float32) {
	if a.paused {
		return
	}
	a.root.Update(dT)
}

// Display sets the ambient light and draws the system.
func (a *Assembly) Display(r render.Renderer) {
	r.SetAmbientLight(a.opts.Ambient)
	a.root.Display(r)
}

func (a *Assembly) Paused() bool        { return a.paused }
func (a *Assembly) SetPaused(p bool)    { a.paused = p }
func (a *Assembly) TogglePause()        { a.paused = !a.paused }
func (a *Assembly) OrbitsVisible() bool { return a.star.Body.DrawOrbitPath }

// ToggleOrbitDisplay flips orbit paths for the whole system, following
// the star's current flag.
func (a *Assembly) ToggleOrbitDisplay() {
	a.SetOrbitDisplay(!a.OrbitsVisible())
}

// SetOrbitDisplay shows or hides every orbit path.
func (a *Assembly) SetOrbitDisplay(show bool) {
	a.star.SetDrawOrbitPath(show, true)
}

// HandleEvent toggles pause on P and orbit paths on O, on key release.
func (a *Assembly) HandleEvent(ev input.Event) bool {
	if ev.Type != input.EventKeyUp {
		return false
	}
	switch {
	case ev.IsKey('p'):
		a.TogglePause()
		logger.Named("solarsystem").Debug("pause toggled", zap.Bool("paused", a.paused))
	case ev.IsKey('o'):
		a.ToggleOrbitDisplay()
	default:
		return false
	}
	return true
}

// Body returns the named body node, or nil.
func (a *Assembly) Body(name string) *scene.Node { return a.bodies[name] }

// Bodies returns every body in layout order, star first.
func (a *Assembly) Bodies() []*scene.Node { return a.order }

// Star returns the root body of the layout.
func (a *Assembly) Star() *scene.Node { return a.star }

func (a *Assembly) Sun() *scene.Node     { return a.bodies["sun"] }
func (a *Assembly) Mercury() *scene.Node { return a.bodies["mercury"] }
func (a *Assembly) Venus() *scene.Node   { return a.bodies["venus"] }
func (a *Assembly) Earth() *scene.Node   { return a.bodies["earth"] }
func (a *Assembly) Moon() *scene.Node    { return a.bodies["moon"] }
func (a *Assembly) Mars() *scene.Node    { return a.bodies["mars"] }
func (a *Assembly) Jupiter() *scene.Node { return a.bodies["jupiter"] }
func (a *Assembly) Saturn() *scene.Node  { return a.bodies["saturn"] }
func (a *Assembly) Uranus() *scene.Node  { return a.bodies["uranus"] }
func (a *Assembly) Neptune() *scene.Node { return a.bodies["neptune"] }
func (a *Assembly) Pluto() *scene.Node   { return a.bodies["pluto"] }

// StarPosition returns the star's rest position in world space.
func (a *Assembly) StarPosition() math.Vec3 {
	return a.star.Position.Add(a.root.Position)
}

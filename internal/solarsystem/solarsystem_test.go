package solarsystem

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/orrery/internal/engine/input"
	"github.com/Faultbox/orrery/internal/engine/render"
	"github.com/Faultbox/orrery/internal/scene"
	"github.com/Faultbox/orrery/pkg/math"
)

const eps = 1e-4

func newTestAssembly() *Assembly {
	opts := DefaultOptions()
	opts.RNG = rand.New(rand.NewPCG(3, 4))
	return New(nil, opts)
}

type angles struct{ orbit, axis float32 }

func snapshot(a *Assembly) map[string]angles {
	out := make(map[string]angles)
	for _, n := range a.Bodies() {
		out[n.Name] = angles{n.Body.OrbitAngle, n.Body.AxisAngle}
	}
	return out
}

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	if got := l.Count(); got != 23 {
		t.Errorf("default layout has %d bodies, want 23", got)
	}
	if l.Star.Name != "sun" || len(l.Star.Children) != 9 {
		t.Errorf("star %q with %d planets", l.Star.Name, len(l.Star.Children))
	}
}

func TestBuild(t *testing.T) {
	a := newTestAssembly()

	if len(a.Bodies()) != 23 {
		t.Fatalf("built %d bodies", len(a.Bodies()))
	}
	if a.Bodies()[0] != a.Sun() || a.Star() != a.Sun() {
		t.Error("star should be the sun and come first")
	}
	for name, n := range map[string]*scene.Node{
		"mercury": a.Mercury(), "venus": a.Venus(), "earth": a.Earth(),
		"moon": a.Moon(), "mars": a.Mars(), "jupiter": a.Jupiter(),
		"saturn": a.Saturn(), "uranus": a.Uranus(), "neptune": a.Neptune(),
		"pluto": a.Pluto(),
	} {
		if n == nil || n.Name != name || a.Body(name) != n {
			t.Errorf("accessor for %s returned %v", name, n)
		}
	}

	if a.Moon().Parent() != a.Earth() {
		t.Error("moon should orbit the earth")
	}
	if a.Body("titan").Parent() != a.Saturn() || a.Body("titan").Body.Asset != "moon" {
		t.Error("titan should orbit saturn and share the moon asset")
	}
	if a.Sun().Body.Lit {
		t.Error("sun should be unlit")
	}
	if !a.Saturn().Body.HasRing() {
		t.Error("saturn should request a ring")
	}
	if a.Jupiter().Body.OrbitRadius != 550 || a.Jupiter().Scale.X != 31 {
		t.Errorf("jupiter radius %v size %v", a.Jupiter().Body.OrbitRadius, a.Jupiter().Scale.X)
	}
}

func TestBuildOverrides(t *testing.T) {
	a := newTestAssembly()

	if a.Sun().Body.AxisSpeed != 0.05 {
		t.Errorf("sun axis speed = %v, want 0.05", a.Sun().Body.AxisSpeed)
	}
	if a.Sun().Body.OrbitAngle != 0 {
		t.Errorf("sun orbit angle = %v, want 0", a.Sun().Body.OrbitAngle)
	}
	if !math.ApproxEqual(a.Moon().Body.OrbitSpeed, 1.5*math.Pi, eps) {
		t.Errorf("moon orbit speed = %v, want 1.5π", a.Moon().Body.OrbitSpeed)
	}

	limit := math.Pi * 0.12
	for _, n := range a.Bodies() {
		if n == a.Sun() || n == a.Moon() {
			continue
		}
		for _, s := range []float32{n.Body.OrbitSpeed, n.Body.AxisSpeed} {
			if s < 0 || s > limit {
				t.Errorf("%s speed %v outside [0, %v]", n.Name, s, limit)
			}
		}
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	a := newTestAssembly()
	root := a.Root()
	before := snapshot(a)

	a.Build()

	if a.Root() != root || len(a.Bodies()) != 23 || len(root.Children()) != 1 {
		t.Error("second Build changed the tree")
	}
	after := snapshot(a)
	for name, v := range before {
		if after[name] != v {
			t.Errorf("%s changed on rebuild", name)
		}
	}
}

func TestPausedUpdateLeavesAngles(t *testing.T) {
	a := newTestAssembly()
	a.SetPaused(true)
	before := snapshot(a)

	for i := 0; i < 10; i++ {
		a.Update(0.5)
	}

	after := snapshot(a)
	for name, v := range before {
		if after[name] != v {
			t.Errorf("%s moved while paused: %+v -> %+v", name, v, after[name])
		}
	}
}

func TestDisplayUnaffectedByPause(t *testing.T) {
	a := newTestAssembly()

	running := render.NewTracer()
	a.Display(running)

	a.TogglePause()
	paused := render.NewTracer()
	a.Display(paused)

	if len(running.Calls) != len(paused.Calls) {
		t.Fatalf("call count %d vs %d", len(running.Calls), len(paused.Calls))
	}
	for i := range running.Calls {
		if running.Calls[i].Model != paused.Calls[i].Model {
			t.Fatalf("call %d differs while paused", i)
		}
	}
}

func TestDoubleTogglePause(t *testing.T) {
	a := newTestAssembly()
	b := newTestAssembly()

	a.TogglePause()
	a.TogglePause()
	if a.Paused() {
		t.Fatal("double toggle left the system paused")
	}

	a.Update(0.25)
	b.Update(0.25)
	sa, sb := snapshot(a), snapshot(b)
	for name := range sa {
		if sa[name] != sb[name] {
			t.Errorf("%s diverged after double toggle", name)
		}
	}
}

func TestAnglesInRangeAfterLongRun(t *testing.T) {
	a := newTestAssembly()
	for i := 0; i < 500; i++ {
		a.Update(float32(i%7) * 0.9)
	}
	for _, n := range a.Bodies() {
		for _, v := range []float32{n.Body.OrbitAngle, n.Body.AxisAngle} {
			if v < 0 || v >= math.TwoPi {
				t.Errorf("%s angle %v out of range", n.Name, v)
			}
		}
	}
}

func TestHandleEvent(t *testing.T) {
	a := newTestAssembly()

	if a.HandleEvent(input.KeyDown('p')) || a.Paused() {
		t.Error("pause should toggle on key release only")
	}
	if !a.HandleEvent(input.KeyUp('P')) || !a.Paused() {
		t.Error("P release should pause")
	}

	a.HandleEvent(input.KeyUp('o'))
	for _, n := range a.Bodies() {
		if !n.Body.DrawOrbitPath {
			t.Errorf("%s orbit path not shown", n.Name)
		}
	}
	a.HandleEvent(input.KeyUp('o'))
	if a.OrbitsVisible() || a.Body("triton").Body.DrawOrbitPath {
		t.Error("second O should hide orbits")
	}

	if a.HandleEvent(input.KeyUp('x')) {
		t.Error("unbound key consumed")
	}
}

func TestDisplaySetsAmbientAndDrawsEveryBody(t *testing.T) {
	a := newTestAssembly()
	a.SetOrbitDisplay(true)
	tr := render.NewTracer()

	a.Display(tr)

	if tr.Ambient != render.Gray(38.0/255.0) {
		t.Errorf("ambient = %+v", tr.Ambient)
	}
	if got := len(tr.Filter(render.CallSphere)); got != 23 {
		t.Errorf("spheres = %d, want 23", got)
	}
	// Every body except the sun has an orbit.
	if got := len(tr.Filter(render.CallPolyline)); got != 22 {
		t.Errorf("orbit paths = %d, want 22", got)
	}
	if tr.Depth() != 0 || tr.StyleDepth() != 0 {
		t.Error("unbalanced stacks after display")
	}
}

func TestSunWorldPosition(t *testing.T) {
	a := newTestAssembly()
	if got := a.StarPosition(); got != math.V3(0, 400, 0) {
		t.Errorf("StarPosition = %+v, want (0, 400, 0)", got)
	}

	tr := render.NewTracer()
	a.Display(tr)
	spheres := tr.Filter(render.CallSphere)
	sun := spheres[len(spheres)-1]
	if !sun.Origin().ApproxEqual(a.StarPosition(), eps) {
		t.Errorf("sun drawn at %+v", sun.Origin())
	}
}

func TestParseLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no star", "name: empty\n", "no star"},
		{"negative radius", "star: {name: s, size: 1, orbit_radius: -5}\n", "orbit_radius"},
		{"zero size", "star: {name: s, size: 0}\n", "size"},
		{"bad colour", "star: {name: s, size: 1, color: purple}\n", "colour"},
		{"nan speed", "star: {name: s, size: 1, orbit_speed: .nan}\n", "orbit_speed"},
		{"infinite angle", "star: {name: s, size: 1, axis_angle: .inf}\n", "axis_angle"},
		{"duplicate", "star: {name: s, size: 1, children: [{name: a, size: 1}, {name: a, size: 1}]}\n", "duplicate"},
		{"unnamed", "star: {name: s, size: 1, children: [{size: 1}]}\n", "without a name"},
		{"bad yaml", "star: [\n", "decoding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLayout([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadLayoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary.yaml")
	src := `
name: binary
position: [10, 0, 0]
star:
  name: alpha
  size: 20
  unlit: true
  children:
    - name: beta
      orbit_radius: 80
      size: 12
      color: "#ff8800"
      orbit_speed: 1
      orbit_angle: 7
`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	opts := DefaultOptions()
	opts.RNG = rand.New(rand.NewPCG(1, 1))
	a := New(l, opts)

	if a.Sun() != nil {
		t.Error("custom layout has no sun")
	}
	beta := a.Body("beta")
	if beta.Body.OrbitSpeed != 1 {
		t.Errorf("beta orbit speed = %v, want override 1", beta.Body.OrbitSpeed)
	}
	if !math.ApproxEqual(beta.Body.OrbitAngle, 7-math.TwoPi, eps) {
		t.Errorf("beta orbit angle = %v, want wrapped", beta.Body.OrbitAngle)
	}
	if a.StarPosition() != math.V3(10, 0, 0) {
		t.Errorf("star position = %+v", a.StarPosition())
	}

	if _, err := LoadLayout(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSeedReproducible(t *testing.T) {
	a, b := newTestAssembly(), newTestAssembly()
	if a.Body("io").Body.AxisSpeed != b.Body("io").Body.AxisSpeed {
		t.Error("same seed produced different speeds")
	}
}

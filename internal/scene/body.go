package scene

import (
	"errors"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/assets"
	"github.com/Faultbox/orrery/internal/engine/render"
	"github.com/Faultbox/orrery/internal/logger"
	"github.com/Faultbox/orrery/pkg/math"
)

// Resolver loads meshes and textures by asset name.
type Resolver interface {
	LoadMesh(name string) (render.Mesh, error)
	LoadTexture(name string) (render.Texture, error)
}

// Default sphere used when a body has no mesh.
const (
	defaultSphereDetail = 10
	defaultSphereRadius = 1
)

// Body is the celestial component of a Node: an orbit around the parent's
// origin plus a spin about its own vertical axis.
type Body struct {
	// Asset names the mesh and ring texture; it defaults to the node name.
	Asset string

	OrbitRadius float32
	OrbitAngle  float32 // radians, kept in [0, 2π)
	OrbitSpeed  float32 // radians per second
	AxisAngle   float32 // radians, kept in [0, 2π)
	AxisSpeed   float32 // radians per second

	Color render.Color
	Lit   bool

	DrawOrbitPath bool

	// Mesh is nil when the asset could not be resolved; the default sphere
	// is drawn instead.
	Mesh render.Mesh

	res     Resolver
	hasRing bool
	ring    render.Texture
}

// BodyOption configures a body at construction.
type BodyOption func(*bodyOptions)

type bodyOptions struct {
	asset string
	color render.Color
	lit   bool
	ring  bool
}

// WithAsset overrides the asset name used for mesh and ring lookups.
func WithAsset(name string) BodyOption {
	return func(o *bodyOptions) { o.asset = name }
}

// WithColor sets the fallback sphere and orbit path colour.
func WithColor(c render.Color) BodyOption {
	return func(o *bodyOptions) { o.color = c }
}

// WithLit controls whether scene lighting applies. Self-luminous bodies
// like a star pass false.
func WithLit(lit bool) BodyOption {
	return func(o *bodyOptions) { o.lit = lit }
}

// WithRing requests a textured ring.
func WithRing() BodyOption {
	return func(o *bodyOptions) { o.ring = true }
}

// NewBody creates a node carrying a celestial body. The mesh is resolved
// immediately; a failed lookup is logged and the body falls back to a
// coloured sphere. res may be nil.
func NewBody(res Resolver, name string, orbitRadius, size float32, opts ...BodyOption) *Node {
	o := bodyOptions{asset: name, color: render.White, lit: true}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Body{
		Asset:       o.asset,
		OrbitRadius: orbitRadius,
		Color:       o.color,
		Lit:         o.lit,
		res:         res,
	}
	if res != nil {
		mesh, err := res.LoadMesh(b.Asset)
		if err != nil {
			logAssetMiss("mesh", name, b.Asset, err)
		} else {
			b.Mesh = mesh
		}
	}

	n := NewNode(name)
	n.SetSize(size)
	n.Body = b
	if o.ring {
		b.SetHasRing(true)
	}
	return n
}

func logAssetMiss(kind, body, asset string, err error) {
	log := logger.Named("scene")
	fields := []zap.Field{
		zap.String("body", body),
		zap.String("asset", asset),
		zap.Error(err),
	}
	if errors.Is(err, assets.ErrNotFound) {
		log.Debug(kind+" not found, using default", fields...)
		return
	}
	log.Warn(kind+" failed to load, using default", fields...)
}

// SetHasRing enables or disables the ring. Enabling resolves the
// "<asset>_rings" texture now; without it the ring is not drawn.
func (b *Body) SetHasRing(has bool) {
	b.hasRing = has
	b.ring = nil
	if !has || b.res == nil {
		return
	}
	tex, err := b.res.LoadTexture(b.Asset + "_rings")
	if err != nil {
		logAssetMiss("ring texture", b.Asset, b.Asset+"_rings", err)
		return
	}
	b.ring = tex
}

// HasRing reports whether a ring was requested.
func (b *Body) HasRing() bool { return b.hasRing }

// RingTexture returns the resolved ring texture, or nil.
func (b *Body) RingTexture() render.Texture { return b.ring }

func (b *Body) advance(dT float32) {
	b.AxisAngle = math.WrapAngle(b.AxisAngle + b.AxisSpeed*dT)
	b.OrbitAngle = math.WrapAngle(b.OrbitAngle + b.OrbitSpeed*dT)
}

// RandomizeInitialAngles draws both angles uniformly from [0, 2π).
func (b *Body) RandomizeInitialAngles(rng *rand.Rand) {
	b.OrbitAngle = math.WrapAngle(float32(rng.Float64()) * math.TwoPi)
	b.AxisAngle = math.WrapAngle(float32(rng.Float64()) * math.TwoPi)
}

// RandomizeSpeeds draws orbit and axis speeds from [0, π·factor) when
// sameDirection is set, otherwise from [-π·factor, π·factor).
func (b *Body) RandomizeSpeeds(rng *rand.Rand, factor float32, sameDirection bool) {
	draw := func() float32 {
		v := rng.Float64()
		if !sameDirection {
			v = (v - 0.5) * 2
		}
		return float32(v) * math.Pi * factor
	}
	b.OrbitSpeed = draw()
	b.AxisSpeed = draw()
}

// RandomizeHierarchySpeeds randomizes every body in the subtree,
// depth-first with parents before children.
func (n *Node) RandomizeHierarchySpeeds(rng *rand.Rand, factor float32, sameDirection bool) {
	n.Walk(func(d *Node) {
		if d.Body != nil {
			d.Body.RandomizeSpeeds(rng, factor, sameDirection)
		}
	})
}

// RandomizeHierarchyAngles randomizes initial angles of every body in the
// subtree.
func (n *Node) RandomizeHierarchyAngles(rng *rand.Rand) {
	n.Walk(func(d *Node) {
		if d.Body != nil {
			d.Body.RandomizeInitialAngles(rng)
		}
	})
}

// SetDrawOrbitPath sets the orbit path flag on this node's body and, with
// propagate, on every body below it. Bodies with no orbit keep the flag
// but draw nothing.
func (n *Node) SetDrawOrbitPath(draw, propagate bool) {
	if !propagate {
		if n.Body != nil {
			n.Body.DrawOrbitPath = draw
		}
		return
	}
	n.Walk(func(d *Node) {
		if d.Body != nil {
			d.Body.DrawOrbitPath = draw
		}
	})
}

// displayBody draws the orbit path in the parent's frame, moves to the
// current orbital position, draws the children there and then the body
// itself and its ring on top.
func (n *Node) displayBody(r render.Renderer) {
	b := n.Body
	pos := n.Position

	if b.DrawOrbitPath && b.OrbitRadius > 0 {
		r.PushMatrix()
		r.PushStyle()
		r.Translate(pos.X, pos.Y, pos.Z)
		r.RotateX(math.HalfPi)
		r.Scale(b.OrbitRadius, b.OrbitRadius, b.OrbitRadius)
		r.Stroke(b.Color)
		r.DrawPolyline(OrbitRing())
		r.PopStyle()
		r.PopMatrix()
	}

	r.PushMatrix()
	r.PushStyle()

	r.Translate(pos.X, pos.Y, pos.Z)
	r.RotateY(b.OrbitAngle)
	r.Translate(-b.OrbitRadius, 0, 0)

	n.displaySubtree(r)

	if !b.Lit {
		r.DisableLighting()
	}
	r.PushMatrix()
	r.RotateY(b.AxisAngle * 2)
	r.Scale(n.Scale.X, n.Scale.Y, n.Scale.Z)
	if b.Mesh != nil {
		r.DrawMesh(b.Mesh)
	} else {
		r.Fill(b.Color)
		r.NoStroke()
		r.DrawSphere(defaultSphereDetail, defaultSphereRadius)
	}
	r.PopMatrix()
	if !b.Lit {
		r.EnableLighting()
	}

	if b.hasRing && b.ring != nil {
		if b.Lit {
			r.DisableLighting()
		}
		w := n.Scale.X * 2
		r.NoStroke()
		r.DrawQuad(b.ring, [4]render.QuadVertex{
			{Position: math.V3(w, 0, w), U: 1, V: 1},
			{Position: math.V3(w, 0, -w), U: 1, V: 0},
			{Position: math.V3(-w, 0, -w), U: 0, V: 0},
			{Position: math.V3(-w, 0, w), U: 0, V: 1},
		})
		if b.Lit {
			r.EnableLighting()
		}
	}

	r.PopStyle()
	r.PopMatrix()
}

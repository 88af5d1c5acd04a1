// Package renderer is the OpenGL 4.1 backend for render.Renderer.
// All methods must be called on the thread that owns the GL context.
package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/assets"
	"github.com/Faultbox/orrery/internal/engine/lighting"
	"github.com/Faultbox/orrery/internal/engine/render"
	"github.com/Faultbox/orrery/internal/engine/shader"
	"github.com/Faultbox/orrery/internal/logger"
	"github.com/Faultbox/orrery/pkg/math"
)

var (
	_ render.Renderer = (*Renderer)(nil)
	_ assets.Uploader = (*Renderer)(nil)
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background render.Color
}

const (
	shininess        = 32
	specularStrength = 0.15
)

// Renderer draws through a single shader program with an immediate-mode
// matrix and style stack.
type Renderer struct {
	config  Config
	program *shader.Program
	log     *zap.Logger

	model  matrixStack
	style  style
	styles []style

	view       mgl32.Mat4
	eye        math.Vec3
	projection mgl32.Mat4
	ambient    render.Color
	specular   render.Color
	lights     *lighting.PointLightBuffer
	frameDirty bool
	lightsFull bool

	spheres   map[int]*Mesh
	polylines map[*render.Polyline]*lineBuffer
	quad      *lineBuffer
	line      *lineBuffer
	meshes    []*Mesh
	textures  []*Texture
	overlay   *Texture
}

// New initialises GL and compiles the program. It must be called after
// the GL context exists.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:     cfg,
		log:        logger.Named("renderer"),
		model:      newMatrixStack(),
		style:      defaultStyle(),
		view:       mgl32.Ident4(),
		projection: mgl32.Ident4(),
		lights:     lighting.NewPointLightBuffer(),
		spheres:    make(map[int]*Mesh),
		polylines:  make(map[*render.Polyline]*lineBuffer),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	program, err := shader.New("scene", vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.program = program

	r.quad = newDynamicBuffer(4)
	r.line = newDynamicBuffer(2)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.MULTISAMPLE)
	r.SetBackground(cfg.Background)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// Close releases every GL object the renderer created.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, m := range r.spheres {
		m.delete()
	}
	for _, m := range r.meshes {
		m.delete()
	}
	for _, b := range r.polylines {
		b.delete()
	}
	for _, t := range r.textures {
		gl.DeleteTextures(1, &t.ID)
	}
	if r.overlay != nil {
		gl.DeleteTextures(1, &r.overlay.ID)
	}
	r.quad.delete()
	r.line.delete()
	r.program.Delete()
}

// SetBackground sets the clear colour.
func (r *Renderer) SetBackground(c render.Color) {
	r.config.Background = c
	gl.ClearColor(c.R, c.G, c.B, 1)
}

// Resize updates the viewport to the drawable size.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Begin clears the frame and resets matrices, styles and lights.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.model.reset()
	r.style = defaultStyle()
	r.styles = r.styles[:0]
	r.lights.Clear()
	r.lightsFull = false
	r.specular = render.Black
	r.ambient = render.Black
	r.frameDirty = true
	r.program.Use()
}

// End checks that every push was popped.
func (r *Renderer) End() {
	if n := len(r.model.saved); n != 0 {
		r.log.Warn("unbalanced matrix stack at end of frame", zap.Int("depth", n))
	}
	if n := len(r.styles); n != 0 {
		r.log.Warn("unbalanced style stack at end of frame", zap.Int("depth", n))
	}
}

func (r *Renderer) PushMatrix() { r.model.push() }

func (r *Renderer) PopMatrix() {
	if !r.model.pop() {
		panic("renderer: PopMatrix without PushMatrix")
	}
}

func (r *Renderer) Translate(x, y, z float32) { r.model.translate(x, y, z) }
func (r *Renderer) RotateX(a float32)         { r.model.rotateX(a) }
func (r *Renderer) RotateY(a float32)         { r.model.rotateY(a) }
func (r *Renderer) RotateZ(a float32)         { r.model.rotateZ(a) }
func (r *Renderer) Scale(x, y, z float32)     { r.model.scale(x, y, z) }

func (r *Renderer) PushStyle() { r.styles = append(r.styles, r.style) }

func (r *Renderer) PopStyle() {
	if len(r.styles) == 0 {
		panic("renderer: PopStyle without PushStyle")
	}
	r.style = r.styles[len(r.styles)-1]
	r.styles = r.styles[:len(r.styles)-1]
}

func (r *Renderer) Fill(c render.Color) { r.style.fill = c }

func (r *Renderer) Stroke(c render.Color) {
	r.style.stroke = c
	r.style.hasStroke = true
}

func (r *Renderer) NoStroke() { r.style.hasStroke = false }

func (r *Renderer) SetAmbientLight(c render.Color) {
	r.ambient = c
	r.frameDirty = true
}

func (r *Renderer) SetLightSpecular(c render.Color) { r.specular = c }

func (r *Renderer) SetPointLight(diffuse render.Color, pos math.Vec3) {
	world := r.model.transform(pos)
	if !r.lights.AddLight(lighting.NewPointLight(world, diffuse, r.specular)) {
		if !r.lightsFull {
			r.log.Warn("point light limit reached", zap.Int("max", lighting.MaxPointLights))
			r.lightsFull = true
		}
		return
	}
	r.frameDirty = true
}

func (r *Renderer) DisableLighting() { r.style.lit = false }
func (r *Renderer) EnableLighting()  { r.style.lit = true }

func (r *Renderer) SetLookAt(eye, center, up math.Vec3) {
	r.view = viewMatrix(eye, center, up)
	r.eye = eye
	r.frameDirty = true
}

func (r *Renderer) SetProjection(p render.Projection) {
	r.projection = projectionMatrix(p)
	r.frameDirty = true
}

// flushFrame uploads per-frame uniforms changed since the last draw.
func (r *Renderer) flushFrame() {
	if !r.frameDirty {
		return
	}
	p := r.program
	p.SetMat4("uView", r.view)
	p.SetMat4("uProjection", r.projection)
	p.SetVec3("uEye", toVec3(r.eye))
	p.SetVec3("uAmbient", colorVec3(r.ambient))
	p.SetInt("uLightCount", int32(r.lights.Count))
	p.SetVec3Array("uLightPos", r.lights.Positions())
	p.SetVec3Array("uLightDiffuse", r.lights.Diffuse())
	p.SetVec3Array("uLightSpecular", r.lights.Specular())
	gl.Uniform1f(p.Uniform("uShininess"), shininess)
	gl.Uniform1f(p.Uniform("uSpecularStrength"), specularStrength)
	p.SetInt("uTexture", 0)
	r.frameDirty = false
}

// prepare sets per-draw uniforms. tex may be nil.
func (r *Renderer) prepare(model mgl32.Mat4, color render.Color, lit bool, tex *Texture) {
	r.flushFrame()
	p := r.program
	p.SetMat4("uModel", model)
	p.SetMat3("uNormalMatrix", normalMatrix(model))
	p.SetVec4("uColor", colorVec4(color))
	p.SetBool("uLit", lit)
	p.SetBool("uUseTexture", tex != nil)
	if tex != nil {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex.ID)
	}
}

func (r *Renderer) drawIndexed(m *Mesh) {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DrawSphere draws a filled sphere, plus a wireframe in the stroke colour
// when stroke is on.
func (r *Renderer) DrawSphere(detail int, radius float32) {
	m := r.sphere(detail)
	model := r.model.current.Mul4(mgl32.Scale3D(radius, radius, radius))

	r.prepare(model, r.style.fill, r.style.lit, nil)
	r.drawIndexed(m)

	if r.style.hasStroke {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		r.prepare(model, r.style.stroke, false, nil)
		r.drawIndexed(m)
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// DrawMesh draws an uploaded mesh. Textured meshes ignore the fill.
func (r *Renderer) DrawMesh(mesh render.Mesh) {
	m, ok := mesh.(*Mesh)
	if !ok {
		r.log.Warn("mesh from another backend skipped", zap.String("mesh", mesh.Name()))
		return
	}
	color := r.style.fill
	if m.texture != nil {
		color = render.White
	}
	r.prepare(r.model.current, color, r.style.lit, m.texture)
	r.drawIndexed(m)
}

// DrawQuad draws a textured quad, or a filled one when tex is nil.
func (r *Renderer) DrawQuad(tex render.Texture, v [4]render.QuadVertex) {
	t, _ := tex.(*Texture)
	color := r.style.fill
	if t != nil {
		color = render.White
	}
	r.quad.update(quadVertices(v))
	r.prepare(r.model.current, color, r.style.lit, t)
	gl.BindVertexArray(r.quad.vao)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)
	gl.BindVertexArray(0)
}

// DrawPolyline strokes p. Nothing is drawn without a stroke.
func (r *Renderer) DrawPolyline(p *render.Polyline) {
	if !r.style.hasStroke || len(p.Points) < 2 {
		return
	}
	b := r.polyline(p)
	mode := uint32(gl.LINE_STRIP)
	if p.Closed {
		mode = gl.LINE_LOOP
	}
	r.prepare(r.model.current, r.style.stroke, false, nil)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(mode, 0, b.count)
	gl.BindVertexArray(0)
}

// DrawLine strokes a single segment.
func (r *Renderer) DrawLine(a, b math.Vec3) {
	if !r.style.hasStroke {
		return
	}
	r.line.update(polylineVertices([]math.Vec3{a, b}))
	r.prepare(r.model.current, r.style.stroke, false, nil)
	gl.BindVertexArray(r.line.vao)
	gl.DrawArrays(gl.LINES, 0, 2)
	gl.BindVertexArray(0)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// DrawOverlay draws img in screen pixels with its top-left corner at x, y,
// over everything drawn so far. Pass changed when img differs from the
// previous call.
func (r *Renderer) DrawOverlay(img *image.RGBA, x, y int, changed bool) {
	if r.overlay == nil || changed {
		r.uploadOverlay(img)
	}
	fx, fy := float32(x), float32(y)
	fw, fh := float32(r.overlay.Width), float32(r.overlay.Height)
	r.quad.update(quadVertices([4]render.QuadVertex{
		{Position: math.V3(fx, fy, 0), U: 0, V: 0},
		{Position: math.V3(fx+fw, fy, 0), U: 1, V: 0},
		{Position: math.V3(fx+fw, fy+fh, 0), U: 1, V: 1},
		{Position: math.V3(fx, fy+fh, 0), U: 0, V: 1},
	}))

	gl.Disable(gl.DEPTH_TEST)
	r.prepare(mgl32.Ident4(), render.White, false, r.overlay)
	r.program.SetMat4("uView", mgl32.Ident4())
	r.program.SetMat4("uProjection", mgl32.Ortho(0, float32(r.config.Width), float32(r.config.Height), 0, -1, 1))
	// The scene matrices are restored on the next scene draw.
	r.frameDirty = true

	gl.BindVertexArray(r.quad.vao)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

func (r *Renderer) uploadOverlay(img *image.RGBA) {
	if r.overlay == nil {
		r.overlay = &Texture{name: "overlay"}
		gl.GenTextures(1, &r.overlay.ID)
	}
	r.overlay.Width, r.overlay.Height = img.Bounds().Dx(), img.Bounds().Dy()

	gl.BindTexture(gl.TEXTURE_2D, r.overlay.ID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(r.overlay.Width), int32(r.overlay.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

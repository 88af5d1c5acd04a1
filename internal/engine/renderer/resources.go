package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/engine/render"
)

// Texture is an uploaded GL texture.
type Texture struct {
	ID     uint32
	name   string
	Width  int
	Height int
}

func (t *Texture) Name() string { return t.name }

// Mesh is an uploaded indexed triangle mesh.
type Mesh struct {
	name    string
	vao     uint32
	vbo     uint32
	ebo     uint32
	count   int32
	texture *Texture
}

func (m *Mesh) Name() string { return m.name }

func (m *Mesh) delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}

// lineBuffer holds polyline vertices.
type lineBuffer struct {
	vao   uint32
	vbo   uint32
	count int32
}

func (b *lineBuffer) delete() {
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.vbo)
}

// UploadTexture creates a mipmapped, repeating texture from img.
func (r *Renderer) UploadTexture(name string, img *image.RGBA) (render.Texture, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("texture %s: empty image", name)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 4)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	tex := &Texture{ID: id, name: name, Width: w, Height: h}
	r.textures = append(r.textures, tex)
	r.log.Debug("texture uploaded", zap.String("name", name), zap.Int("width", w), zap.Int("height", h))
	return tex, nil
}

// UploadMesh creates vertex and index buffers for data. tex may be nil.
func (r *Renderer) UploadMesh(data *render.MeshData, tex render.Texture) (render.Mesh, error) {
	if len(data.Vertices) == 0 || len(data.Indices) == 0 {
		return nil, fmt.Errorf("mesh %s: no geometry", data.Name)
	}
	m := r.uploadMeshData(data)
	if t, ok := tex.(*Texture); ok {
		m.texture = t
	} else if tex != nil {
		r.log.Warn("foreign texture ignored", zap.String("mesh", data.Name), zap.String("texture", tex.Name()))
	}
	r.meshes = append(r.meshes, m)
	r.log.Debug("mesh uploaded",
		zap.String("name", data.Name),
		zap.Int("vertices", len(data.Vertices)),
		zap.Int32("indices", m.count),
	)
	return m, nil
}

func (r *Renderer) uploadMeshData(data *render.MeshData) *Mesh {
	m := &Mesh{name: data.Name, count: int32(len(data.Indices))}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data.Vertices)*int(unsafe.Sizeof(render.Vertex{})), unsafe.Pointer(&data.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, unsafe.Pointer(&data.Indices[0]), gl.STATIC_DRAW)

	setVertexLayout()
	gl.BindVertexArray(0)
	return m
}

// newDynamicBuffer allocates a stream-draw buffer of n vertices.
func newDynamicBuffer(n int) *lineBuffer {
	b := &lineBuffer{}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, n*floatsPerVertex*4, nil, gl.STREAM_DRAW)
	setVertexLayout()
	gl.BindVertexArray(0)
	return b
}

func newStaticBuffer(vertices []float32) *lineBuffer {
	b := &lineBuffer{count: int32(len(vertices) / floatsPerVertex)}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	setVertexLayout()
	gl.BindVertexArray(0)
	return b
}

func (b *lineBuffer) update(vertices []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	b.count = int32(len(vertices) / floatsPerVertex)
}

// setVertexLayout describes render.Vertex to the bound VAO.
func setVertexLayout() {
	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)
}

// sphere returns the unit sphere for detail, uploading it on first use.
func (r *Renderer) sphere(detail int) *Mesh {
	if m, ok := r.spheres[detail]; ok {
		return m
	}
	data := render.SphereData(detail)
	m := r.uploadMeshData(&data)
	r.spheres[detail] = m
	return m
}

// polyline returns the cached buffer for p. Polylines are immutable once
// drawn, so the pointer is the key.
func (r *Renderer) polyline(p *render.Polyline) *lineBuffer {
	if b, ok := r.polylines[p]; ok {
		return b
	}
	b := newStaticBuffer(polylineVertices(p.Points))
	r.polylines[p] = b
	return b
}

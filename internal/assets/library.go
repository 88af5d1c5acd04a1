package assets

import (
	"errors"
	"fmt"
	"image"
	"path"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/engine/render"
	"github.com/Faultbox/orrery/internal/logger"
)

// Uploader turns decoded assets into renderer handles.
type Uploader interface {
	UploadMesh(data *render.MeshData, tex render.Texture) (render.Mesh, error)
	UploadTexture(name string, img *image.RGBA) (render.Texture, error)
}

// Texture file extensions tried in order.
var textureExts = []string{".png", ".jpg", ".jpeg", ".bmp", ".tga"}

type meshEntry struct {
	mesh render.Mesh
	err  error
}

type textureEntry struct {
	tex render.Texture
	err error
}

// Library resolves meshes ("<name>.obj") and textures ("<name>.png" and
// friends) by asset name. Results, including failures, are cached so each
// asset is read and uploaded at most once.
type Library struct {
	mgr *Manager
	up  Uploader

	mu       sync.Mutex
	meshes   map[string]meshEntry
	textures map[string]textureEntry
}

// NewLibrary creates a library reading from mgr and uploading through up.
func NewLibrary(mgr *Manager, up Uploader) *Library {
	return &Library{
		mgr:      mgr,
		up:       up,
		meshes:   make(map[string]meshEntry),
		textures: make(map[string]textureEntry),
	}
}

// LoadMesh loads and uploads "<name>.obj" with its diffuse texture.
func (l *Library) LoadMesh(name string) (render.Mesh, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.meshes[name]; ok {
		return e.mesh, e.err
	}
	mesh, err := l.loadMesh(name)
	l.meshes[name] = meshEntry{mesh, err}
	return mesh, err
}

func (l *Library) loadMesh(name string) (render.Mesh, error) {
	file := name + ".obj"
	data, err := l.mgr.Load(file)
	if err != nil {
		return nil, err
	}
	obj, err := ParseOBJ(file, data)
	if err != nil {
		return nil, err
	}

	var tex render.Texture
	if obj.MaterialLib != "" && obj.Material != "" {
		tex = l.materialTexture(path.Dir(file), obj)
	}

	mesh, err := l.up.UploadMesh(&obj.Mesh, tex)
	if err != nil {
		return nil, fmt.Errorf("uploading mesh %s: %w", name, err)
	}
	min, max := obj.Mesh.Bounds()
	logger.Named("assets").Debug("mesh loaded",
		zap.String("name", name),
		zap.Int("vertices", len(obj.Mesh.Vertices)),
		zap.Int("triangles", len(obj.Mesh.Indices)/3),
		zap.Float32("extent", max.Sub(min).Length()),
	)
	return mesh, nil
}

// materialTexture resolves the object's diffuse map. Failures leave the
// mesh untextured.
func (l *Library) materialTexture(dir string, obj *OBJ) render.Texture {
	log := logger.Named("assets")
	mtlPath := path.Join(dir, obj.MaterialLib)
	data, err := l.mgr.Load(mtlPath)
	if err != nil {
		log.Warn("material library missing", zap.String("path", mtlPath), zap.Error(err))
		return nil
	}
	file, ok := ParseMTL(data)[obj.Material]
	if !ok {
		return nil
	}
	texPath := path.Join(dir, file)
	tex, err := l.textureFile(texPath)
	if err != nil {
		log.Warn("material texture failed", zap.String("path", texPath), zap.Error(err))
		return nil
	}
	return tex
}

// LoadTexture loads and uploads the first "<name>.<ext>" that exists.
func (l *Library) LoadTexture(name string) (render.Texture, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, ext := range textureExts {
		tex, err := l.textureFile(name + ext)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return tex, err
	}
	return nil, fmt.Errorf("texture %s: %w", name, ErrNotFound)
}

// textureFile loads one file; l.mu must be held.
func (l *Library) textureFile(file string) (render.Texture, error) {
	if e, ok := l.textures[file]; ok {
		return e.tex, e.err
	}

	tex, err := l.uploadTexture(file)
	l.textures[file] = textureEntry{tex, err}
	return tex, err
}

func (l *Library) uploadTexture(file string) (render.Texture, error) {
	data, err := l.mgr.Load(file)
	if err != nil {
		return nil, err
	}
	img, err := DecodeImage(file, data)
	if err != nil {
		return nil, err
	}
	tex, err := l.up.UploadTexture(file, img)
	if err != nil {
		return nil, fmt.Errorf("uploading texture %s: %w", file, err)
	}
	logger.Named("assets").Debug("texture loaded",
		zap.String("file", file),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return tex, nil
}

// MemoryMesh is a mesh handle that keeps CPU-side data only.
type MemoryMesh struct {
	Data    *render.MeshData
	Texture render.Texture
}

func (m *MemoryMesh) Name() string { return m.Data.Name }

// MemoryTexture is a texture handle that keeps the decoded image.
type MemoryTexture struct {
	File  string
	Image *image.RGBA
}

func (t *MemoryTexture) Name() string { return t.File }

// MemoryUploader keeps assets in memory. Headless runs and tests use it in
// place of a GPU.
type MemoryUploader struct{}

func (MemoryUploader) UploadMesh(data *render.MeshData, tex render.Texture) (render.Mesh, error) {
	return &MemoryMesh{Data: data, Texture: tex}, nil
}

func (MemoryUploader) UploadTexture(name string, img *image.RGBA) (render.Texture, error) {
	return &MemoryTexture{File: name, Image: img}, nil
}

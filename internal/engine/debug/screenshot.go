// Package debug holds developer aids for the viewer.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshots writes frame captures as numbered PNG files.
type Screenshots struct {
	dir    string
	prefix string
	now    func() time.Time
	last   string
	seq    int
}

// NewScreenshots creates a writer saving into dir ("" for the working
// directory).
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{dir: dir, prefix: prefix, now: time.Now}
}

// SaveGL writes bottom-up RGBA rows, as glReadPixels returns them, to a
// new file and returns its path.
func (s *Screenshots) SaveGL(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return s.Save(img)
}

// Save writes img to a new file and returns its path.
func (s *Screenshots) Save(img image.Image) (string, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating screenshot dir: %w", err)
		}
	}

	name := s.nextName()
	f, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("creating screenshot: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return name, nil
}

// nextName stamps the file with the time, adding a counter when several
// captures land in the same second.
func (s *Screenshots) nextName() string {
	stamp := s.now().Format("2006-01-02_15-04-05")
	if stamp == s.last {
		s.seq++
	} else {
		s.last, s.seq = stamp, 0
	}
	name := fmt.Sprintf("%s_%s.png", s.prefix, stamp)
	if s.seq > 0 {
		name = fmt.Sprintf("%s_%s_%d.png", s.prefix, stamp, s.seq)
	}
	return filepath.Join(s.dir, name)
}

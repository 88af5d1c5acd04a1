package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestSaveGLFlipsRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "orrery")
	s.now = fixedClock()

	// 1x2: bottom row red, top row blue.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := s.SaveGL(pixels, 1, 2)
	if err != nil {
		t.Fatalf("SaveGL: %v", err)
	}
	if filepath.Base(path) != "orrery_2024-03-01_12-30-00.png" {
		t.Errorf("path = %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	r, _, b, _ := img.At(0, 0).RGBA()
	if b == 0 || r != 0 {
		t.Error("top row should be blue after flip")
	}
	r, _, b, _ = img.At(0, 1).RGBA()
	if r == 0 || b != 0 {
		t.Error("bottom row should be red after flip")
	}
}

func TestSaveGLSizeMismatch(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "x")
	if _, err := s.SaveGL(make([]byte, 7), 1, 2); err == nil {
		t.Error("expected size error")
	}
}

func TestNamesDoNotCollide(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "orrery")
	s.now = fixedClock()

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		path, err := s.SaveGL(make([]byte, 4), 1, 1)
		if err != nil {
			t.Fatal(err)
		}
		if seen[path] {
			t.Fatalf("duplicate name %s", path)
		}
		seen[path] = true
	}
}

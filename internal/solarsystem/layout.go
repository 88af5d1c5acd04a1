package solarsystem

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/orrery/internal/engine/render"
)

//go:embed default.yaml
var defaultLayout []byte

// Layout describes a star system: where it sits and the body tree.
type Layout struct {
	Name     string     `yaml:"name"`
	Position [3]float32 `yaml:"position"`
	Star     BodySpec   `yaml:"star"`
}

// BodySpec describes one body and its satellites. Pointer fields are
// optional overrides applied after speeds are randomized.
type BodySpec struct {
	Name        string     `yaml:"name"`
	Asset       string     `yaml:"asset,omitempty"`
	Position    [3]float32 `yaml:"position,omitempty"`
	OrbitRadius float32    `yaml:"orbit_radius"`
	Size        float32    `yaml:"size"`
	Color       string     `yaml:"color,omitempty"`
	Unlit       bool       `yaml:"unlit,omitempty"`
	Ring        bool       `yaml:"ring,omitempty"`

	OrbitSpeed *float32 `yaml:"orbit_speed,omitempty"`
	AxisSpeed  *float32 `yaml:"axis_speed,omitempty"`
	OrbitAngle *float32 `yaml:"orbit_angle,omitempty"`
	AxisAngle  *float32 `yaml:"axis_angle,omitempty"`

	Children []BodySpec `yaml:"children,omitempty"`
}

// DefaultLayout returns the built-in solar system.
func DefaultLayout() *Layout {
	l, err := ParseLayout(defaultLayout)
	if err != nil {
		panic(fmt.Sprintf("solarsystem: built-in layout: %v", err))
	}
	return l
}

// LoadLayout reads and validates a layout file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	l, err := ParseLayout(data)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return l, nil
}

// ParseLayout decodes and validates YAML layout data.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decoding layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate checks every body and returns all problems found.
func (l *Layout) Validate() error {
	if l.Star.Name == "" {
		return errors.New("layout has no star")
	}
	var errs []error
	seen := make(map[string]bool)
	var check func(path string, b *BodySpec)
	check = func(path string, b *BodySpec) {
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("%s: body without a name", path))
		} else if seen[b.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate body name %q", path, b.Name))
		}
		seen[b.Name] = true
		path = path + "/" + b.Name

		if b.OrbitRadius < 0 || !finite(b.OrbitRadius) {
			errs = append(errs, fmt.Errorf("%s: invalid orbit_radius %v", path, b.OrbitRadius))
		}
		if b.Size <= 0 || !finite(b.Size) {
			errs = append(errs, fmt.Errorf("%s: size must be positive, got %v", path, b.Size))
		}
		if b.Color != "" {
			if _, err := render.Hex(b.Color); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
			}
		}
		for name, v := range map[string]*float32{
			"orbit_speed": b.OrbitSpeed,
			"axis_speed":  b.AxisSpeed,
			"orbit_angle": b.OrbitAngle,
			"axis_angle":  b.AxisAngle,
		} {
			if v != nil && !finite(*v) {
				errs = append(errs, fmt.Errorf("%s: %s is not finite", path, name))
			}
		}
		for i := range b.Children {
			check(path, &b.Children[i])
		}
	}
	check("", &l.Star)
	return errors.Join(errs...)
}

// Count returns the number of bodies in the layout.
func (l *Layout) Count() int {
	n := 0
	var count func(b *BodySpec)
	count = func(b *BodySpec) {
		n++
		for i := range b.Children {
			count(&b.Children[i])
		}
	}
	count(&l.Star)
	return n
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

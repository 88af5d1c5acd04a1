package math

import (
	"math"
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 12}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}

	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("zero vector Normalize() = %v, want zero", z)
	}
}

func TestVec3Horizontal(t *testing.T) {
	got := Vec3{1, 2, 3}.Horizontal()
	if got != (Vec3{1, 0, 3}) {
		t.Errorf("Horizontal() = %v, want (1, 0, 3)", got)
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in   float32
		want float32
	}{
		{0, 0},
		{1, 1},
		{TwoPi, 0},
		{TwoPi + 0.5, 0.5},
		{-0.5, TwoPi - 0.5},
		{5*TwoPi + 1, 1},
		{-3*TwoPi - 1, TwoPi - 1},
	}

	for _, tt := range tests {
		got := WrapAngle(tt.in)
		if !ApproxEqual(got, tt.want, 1e-4) {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got < 0 || got >= TwoPi {
			t.Errorf("WrapAngle(%v) = %v, outside [0, 2π)", tt.in, got)
		}
	}
}

func TestWrapAngleTinyNegative(t *testing.T) {
	got := WrapAngle(-1e-9)
	if got < 0 || got >= TwoPi {
		t.Errorf("WrapAngle(-1e-9) = %v, outside [0, 2π)", got)
	}
}

func TestRadians(t *testing.T) {
	if got := Radians(180); !ApproxEqual(got, float32(math.Pi), 1e-6) {
		t.Errorf("Radians(180) = %v, want π", got)
	}
}

package math

import "math"

// TwoPi is a full turn in radians.
const TwoPi = float32(2 * math.Pi)

// Pi as float32.
const Pi = float32(math.Pi)

// HalfPi is a quarter turn in radians.
const HalfPi = float32(math.Pi / 2)

// WrapAngle maps any finite angle into [0, 2π).
// Unlike a single subtraction it handles arbitrarily large steps and
// negative angles.
func WrapAngle(a float32) float32 {
	r := float32(math.Mod(float64(a), 2*math.Pi))
	if r < 0 {
		r += TwoPi
	}
	// float32 rounding can land exactly on 2π for tiny negative inputs
	if r >= TwoPi {
		r = 0
	}
	return r
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * Pi / 180
}

// ApproxEqual reports whether a and b differ by at most eps.
func ApproxEqual(a, b, eps float32) bool {
	d := a - b
	return d <= eps && d >= -eps
}

// Package math provides the small vector and matrix toolkit used by the
// scene graph, the camera and the software renderer.
package math

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalize returns a unit vector, or the zero vector if v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Horizontal returns v with the Y component dropped.
func (v Vec3) Horizontal() Vec3 {
	return Vec3{v.X, 0, v.Z}
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// ApproxEqual reports whether every component of v is within eps of other.
func (v Vec3) ApproxEqual(other Vec3, eps float32) bool {
	return ApproxEqual(v.X, other.X, eps) &&
		ApproxEqual(v.Y, other.Y, eps) &&
		ApproxEqual(v.Z, other.Z, eps)
}

// Array returns the components as an array, the layout GPU uploads expect.
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

package common

import "fmt"

// Vec2 represents a point or vector in the simulation plane (meters).
type Vec2 struct {
	X float64
	Y float64
}

// NewVec2 creates a new vector from its components.
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add adds another vector to this vector.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// MultiplyByScalar multiplies the vector by a scalar value.
func (v Vec2) MultiplyByScalar(scalar float64) Vec2 {
	return Vec2{X: v.X * scalar, Y: v.Y * scalar}
}

// String returns a string representation of the vector.
func (v Vec2) String() string {
	return fmt.Sprintf("[%.3f, %.3f]", v.X, v.Y)
}

package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the absolute tolerance used by geometric predicates.
const Epsilon = 1e-9

// Point is a location in 3D space with double-precision coordinates.
// The zero value is the origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Origin is the point (0, 0, 0).
var Origin = Point{}

// NewPoint creates a point from its three coordinates.
func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// Distance returns the Euclidean distance between a and b.
// It is symmetric and zero iff a == b.
func Distance(a, b Point) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

// DistanceSquared returns the squared Euclidean distance between a and b.
func DistanceSquared(a, b Point) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return dx*dx + dy*dy + dz*dz
}

// DistanceTo returns the Euclidean distance from p to q.
func (p Point) DistanceTo(q Point) float64 { return Distance(p, q) }

// Translate returns p moved by the given offsets.
func (p Point) Translate(dx, dy, dz float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

// Add returns p displaced by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y, Z: p.Z + v.Z}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// ToVector returns the position vector of p.
func (p Point) ToVector() Vector { return Vector(p) }

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, Z: (a.Z + b.Z) / 2}
}

// ApproxEqual reports whether p and q are within [Epsilon] of each other.
func (p Point) ApproxEqual(q Point) bool {
	return DistanceSquared(p, q) < Epsilon*Epsilon
}

// IsFinite reports whether all coordinates are finite (no NaN or Inf).
func (p Point) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Z)
}

// Array returns the coordinates as [x, y, z].
func (p Point) Array() [3]float64 { return [3]float64{p.X, p.Y, p.Z} }

// PointFromArray creates a point from [x, y, z].
func PointFromArray(a [3]float64) Point { return Point{X: a[0], Y: a[1], Z: a[2]} }

// String implements fmt.Stringer.
func (p Point) String() string {
	return fmt.Sprintf("Point(%g, %g, %g)", p.X, p.Y, p.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

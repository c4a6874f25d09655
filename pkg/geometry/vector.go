package geometry

import (
	"fmt"
	"math"

	"github.com/matzehuels/openmodel/pkg/errors"
)

// Vector is a direction and magnitude in 3D space.
// The zero value is the zero vector.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Unit axis vectors.
var (
	XAxis = Vector{X: 1}
	YAxis = Vector{Y: 1}
	ZAxis = Vector{Z: 1}
)

// NewVector creates a vector from its three components.
func NewVector(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}

// Add returns v + w.
func (v Vector) Add(w Vector) Vector {
	return Vector{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Sub returns v - w.
func (v Vector) Sub(w Vector) Vector {
	return Vector{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z}
}

// Scale returns v multiplied by s.
func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Neg returns -v.
func (v Vector) Neg() Vector { return Vector{X: -v.X, Y: -v.Y, Z: -v.Z} }

// Dot returns the dot product of v and w.
func (v Vector) Dot(w Vector) float64 { return Dot(v, w) }

// Cross returns v × w.
func (v Vector) Cross(w Vector) Vector { return Cross(v, w) }

// Dot returns the dot product of a and b.
func Dot(a, b Vector) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the right-handed cross product a × b.
// The result is the zero vector iff a and b are parallel or either is zero.
func Cross(a, b Vector) Vector {
	return Vector{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vector) Length() float64 { return math.Sqrt(v.LengthSquared()) }

// LengthSquared returns the squared length of v.
func (v Vector) LengthSquared() float64 { return Dot(v, v) }

// IsZero reports whether v is shorter than [Epsilon].
func (v Vector) IsZero() bool { return v.Length() < Epsilon }

// Normalize returns the unit vector in the direction of v.
// Returns a DEGENERATE_VECTOR error if v is shorter than [Epsilon]; no
// fallback direction is ever substituted.
func (v Vector) Normalize() (Vector, error) {
	l := v.Length()
	if l < Epsilon {
		return Vector{}, errors.New(errors.CodeDegenerateVector, "cannot normalize vector %v of length %g", v, l)
	}
	return v.Scale(1 / l), nil
}

// Angle returns the angle between v and w in radians, in [0, π].
// Returns a DEGENERATE_VECTOR error if either vector is zero.
func (v Vector) Angle(w Vector) (float64, error) {
	lv, lw := v.Length(), w.Length()
	if lv < Epsilon || lw < Epsilon {
		return 0, errors.New(errors.CodeDegenerateVector, "angle undefined for zero-length vector")
	}
	// atan2 keeps precision for nearly parallel vectors where acos does not.
	return math.Atan2(Cross(v, w).Length(), Dot(v, w)), nil
}

// ProjectOnto returns the projection of v onto the direction of w.
// Returns a DEGENERATE_VECTOR error if w is zero.
func (v Vector) ProjectOnto(w Vector) (Vector, error) {
	l2 := w.LengthSquared()
	if l2 < Epsilon*Epsilon {
		return Vector{}, errors.New(errors.CodeDegenerateVector, "cannot project onto zero-length vector")
	}
	return w.Scale(Dot(v, w) / l2), nil
}

// IsParallel reports whether v and w are parallel or anti-parallel.
// Zero vectors are parallel to everything.
func (v Vector) IsParallel(w Vector) bool {
	return Cross(v, w).Length() < Epsilon*math.Max(1, v.Length()*w.Length())
}

// ApproxEqual reports whether v and w differ by less than [Epsilon].
func (v Vector) ApproxEqual(w Vector) bool {
	return v.Sub(w).LengthSquared() < Epsilon*Epsilon
}

// IsFinite reports whether all components are finite.
func (v Vector) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// ToPoint returns the point at v measured from the origin.
func (v Vector) ToPoint() Point { return Point(v) }

// Array returns the components as [x, y, z].
func (v Vector) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// VectorFromArray creates a vector from [x, y, z].
func VectorFromArray(a [3]float64) Vector { return Vector{X: a[0], Y: a[1], Z: a[2]} }

// String implements fmt.Stringer.
func (v Vector) String() string {
	return fmt.Sprintf("Vector(%g, %g, %g)", v.X, v.Y, v.Z)
}

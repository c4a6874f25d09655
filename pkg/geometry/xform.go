package geometry

import (
	"fmt"
	"math"

	"github.com/matzehuels/openmodel/pkg/errors"
)

// Xform is a 4x4 affine transform stored column-major: the element in
// row r and column c is at index c*4+r. The translation lives in
// elements 12, 13 and 14.
//
// The zero value is NOT the identity; use [Identity].
type Xform [16]float64

// Identity returns the identity transform.
func Identity() Xform {
	return Xform{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a transform moving points by (tx, ty, tz).
func Translation(tx, ty, tz float64) Xform {
	x := Identity()
	x[12], x[13], x[14] = tx, ty, tz
	return x
}

// Scaling returns a transform scaling about the origin.
func Scaling(sx, sy, sz float64) Xform {
	x := Identity()
	x[0], x[5], x[10] = sx, sy, sz
	return x
}

// Rotation returns a right-handed rotation of angle radians about axis
// through the origin. Returns a DEGENERATE_VECTOR error for a zero axis.
func Rotation(axis Vector, angle float64) (Xform, error) {
	u, err := axis.Normalize()
	if err != nil {
		return Xform{}, err
	}
	s, c := math.Sincos(angle)
	t := 1 - c
	x := Identity()
	x.set(0, 0, t*u.X*u.X+c)
	x.set(0, 1, t*u.X*u.Y-s*u.Z)
	x.set(0, 2, t*u.X*u.Z+s*u.Y)
	x.set(1, 0, t*u.X*u.Y+s*u.Z)
	x.set(1, 1, t*u.Y*u.Y+c)
	x.set(1, 2, t*u.Y*u.Z-s*u.X)
	x.set(2, 0, t*u.X*u.Z-s*u.Y)
	x.set(2, 1, t*u.Y*u.Z+s*u.X)
	x.set(2, 2, t*u.Z*u.Z+c)
	return x, nil
}

// PlaneToWorld returns the transform mapping WorldXY coordinates onto p:
// the origin goes to p.Origin and the X, Y, Z axes to p's frame.
func PlaneToWorld(p Plane) Xform {
	return Xform{
		p.XAxis.X, p.XAxis.Y, p.XAxis.Z, 0,
		p.YAxis.X, p.YAxis.Y, p.YAxis.Z, 0,
		p.Normal.X, p.Normal.Y, p.Normal.Z, 0,
		p.Origin.X, p.Origin.Y, p.Origin.Z, 1,
	}
}

// WorldToPlane returns the inverse of [PlaneToWorld]: it expresses world
// points in p's local frame.
func WorldToPlane(p Plane) Xform {
	o := p.Origin.ToVector()
	return Xform{
		p.XAxis.X, p.YAxis.X, p.Normal.X, 0,
		p.XAxis.Y, p.YAxis.Y, p.Normal.Y, 0,
		p.XAxis.Z, p.YAxis.Z, p.Normal.Z, 0,
		-Dot(p.XAxis, o), -Dot(p.YAxis, o), -Dot(p.Normal, o), 1,
	}
}

// PlaneToPlane returns the transform that maps the frame of from onto to.
func PlaneToPlane(from, to Plane) Xform {
	return PlaneToWorld(to).Mul(WorldToPlane(from))
}

// At returns the element in row r and column c.
func (x Xform) At(r, c int) float64 { return x[c*4+r] }

func (x *Xform) set(r, c int, v float64) { x[c*4+r] = v }

// Mul returns the product x·y. Applying the result is equivalent to
// applying y first, then x.
func (x Xform) Mul(y Xform) Xform {
	var out Xform
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += x.At(r, k) * y.At(k, c)
			}
			out.set(r, c, sum)
		}
	}
	return out
}

// TransformPoint applies x to p, including translation.
// A non-unit homogeneous w is divided out.
func (x Xform) TransformPoint(p Point) Point {
	px := x[0]*p.X + x[4]*p.Y + x[8]*p.Z + x[12]
	py := x[1]*p.X + x[5]*p.Y + x[9]*p.Z + x[13]
	pz := x[2]*p.X + x[6]*p.Y + x[10]*p.Z + x[14]
	w := x[3]*p.X + x[7]*p.Y + x[11]*p.Z + x[15]
	if w != 1 && w != 0 {
		px, py, pz = px/w, py/w, pz/w
	}
	return Point{X: px, Y: py, Z: pz}
}

// TransformVector applies the linear part of x to v, ignoring translation.
func (x Xform) TransformVector(v Vector) Vector {
	return Vector{
		X: x[0]*v.X + x[4]*v.Y + x[8]*v.Z,
		Y: x[1]*v.X + x[5]*v.Y + x[9]*v.Z,
		Z: x[2]*v.X + x[6]*v.Y + x[10]*v.Z,
	}
}

// Determinant returns the determinant of the full 4x4 matrix.
func (x Xform) Determinant() float64 {
	inv := x.adjugate()
	return x[0]*inv[0] + x[1]*inv[4] + x[2]*inv[8] + x[3]*inv[12]
}

// Inverse returns the inverse transform.
// Returns a SINGULAR_TRANSFORM error if x is not invertible.
func (x Xform) Inverse() (Xform, error) {
	inv := x.adjugate()
	det := x[0]*inv[0] + x[1]*inv[4] + x[2]*inv[8] + x[3]*inv[12]
	if math.Abs(det) < Epsilon*Epsilon || !isFinite(det) {
		return Xform{}, errors.New(errors.CodeSingularTransform, "transform is not invertible (det=%g)", det)
	}
	for i := range inv {
		inv[i] /= det
	}
	return inv, nil
}

// adjugate returns the transposed cofactor matrix of x.
func (x Xform) adjugate() Xform {
	m := x
	var inv Xform
	inv[0] = m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] + m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	inv[4] = -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] - m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	inv[8] = m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] + m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	inv[12] = -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] - m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	inv[1] = -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] - m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	inv[5] = m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] + m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	inv[9] = -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] - m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	inv[13] = m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] + m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	inv[2] = m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] + m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	inv[6] = -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] - m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	inv[10] = m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] + m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	inv[14] = -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] - m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	inv[3] = -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] - m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]
	inv[7] = m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] + m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]
	inv[11] = -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] - m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]
	inv[15] = m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] + m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]
	return inv
}

// IsIdentity reports whether every element is within [Epsilon] of the identity.
func (x Xform) IsIdentity() bool {
	id := Identity()
	for i := range x {
		if math.Abs(x[i]-id[i]) >= Epsilon {
			return false
		}
	}
	return true
}

// ApproxEqual reports whether every element of x and y differs by less than [Epsilon].
func (x Xform) ApproxEqual(y Xform) bool {
	for i := range x {
		if math.Abs(x[i]-y[i]) >= Epsilon {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer, printing rows top to bottom.
func (x Xform) String() string {
	return fmt.Sprintf("Xform[%g %g %g %g; %g %g %g %g; %g %g %g %g; %g %g %g %g]",
		x.At(0, 0), x.At(0, 1), x.At(0, 2), x.At(0, 3),
		x.At(1, 0), x.At(1, 1), x.At(1, 2), x.At(1, 3),
		x.At(2, 0), x.At(2, 1), x.At(2, 2), x.At(2, 3),
		x.At(3, 0), x.At(3, 1), x.At(3, 2), x.At(3, 3))
}

package geometry

import (
	"fmt"
	"math"

	"github.com/matzehuels/openmodel/pkg/errors"
)

// Plane is an oriented plane with an orthonormal in-plane frame.
//
// Normal, XAxis and YAxis are unit vectors forming a right-handed frame
// (XAxis × YAxis == Normal). Construct planes with [NewPlane],
// [PlaneFromPoints] or [PlaneFromFrame]; the zero value is not a valid plane.
type Plane struct {
	Origin Point  `json:"origin"`
	XAxis  Vector `json:"xaxis"`
	YAxis  Vector `json:"yaxis"`
	Normal Vector `json:"normal"`
}

// WorldXY is the plane through the origin spanned by the X and Y axes.
var WorldXY = Plane{Origin: Origin, XAxis: XAxis, YAxis: YAxis, Normal: ZAxis}

// NewPlane creates a plane through origin with the given normal.
// The in-plane X axis is derived from the world axis least aligned with
// the normal. Returns a DEGENERATE_VECTOR error for a zero normal.
func NewPlane(origin Point, normal Vector) (Plane, error) {
	n, err := normal.Normalize()
	if err != nil {
		return Plane{}, err
	}
	var ref Vector
	switch ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z); {
	case ax <= ay && ax <= az:
		ref = XAxis
	case ay <= az:
		ref = YAxis
	default:
		ref = ZAxis
	}
	y, err := Cross(n, ref).Normalize()
	if err != nil {
		return Plane{}, err
	}
	x := Cross(y, n)
	return Plane{Origin: origin, XAxis: x, YAxis: y, Normal: n}, nil
}

// PlaneFromPoints creates the plane through a, b and c.
// The origin is a, the X axis points from a to b, and the normal follows
// the right-hand rule over (b-a, c-a). Returns a COLLINEAR_POINTS error if
// the three points are collinear.
func PlaneFromPoints(a, b, c Point) (Plane, error) {
	ab := b.Sub(a)
	n := Cross(ab, c.Sub(a))
	if n.Length() < Epsilon {
		return Plane{}, errors.New(errors.CodeCollinearPoints, "points %v, %v, %v are collinear", a, b, c)
	}
	n = n.Scale(1 / n.Length())
	x := ab.Scale(1 / ab.Length())
	return Plane{Origin: a, XAxis: x, YAxis: Cross(n, x), Normal: n}, nil
}

// PlaneFromFrame creates a plane from an origin and two in-plane directions.
// The directions need not be unit length or perpendicular; the frame is
// orthonormalized keeping xaxis fixed. Returns a COLLINEAR_POINTS error if
// the directions are parallel or either is zero.
func PlaneFromFrame(origin Point, xaxis, yaxis Vector) (Plane, error) {
	n := Cross(xaxis, yaxis)
	if n.Length() < Epsilon {
		return Plane{}, errors.New(errors.CodeCollinearPoints, "frame axes %v and %v are parallel", xaxis, yaxis)
	}
	n = n.Scale(1 / n.Length())
	x := xaxis.Scale(1 / xaxis.Length())
	return Plane{Origin: origin, XAxis: x, YAxis: Cross(n, x), Normal: n}, nil
}

// Coefficients returns (a, b, c, d) of the implicit form ax + by + cz + d = 0.
func (p Plane) Coefficients() (a, b, c, d float64) {
	return p.Normal.X, p.Normal.Y, p.Normal.Z, -Dot(p.Normal, p.Origin.ToVector())
}

// SignedDistance returns the distance from q to the plane, positive on the
// side the normal points to.
func (p Plane) SignedDistance(q Point) float64 {
	return Dot(p.Normal, q.Sub(p.Origin))
}

// Project returns the orthogonal projection of q onto the plane.
func (p Plane) Project(q Point) Point {
	return q.Add(p.Normal.Scale(-p.SignedDistance(q)))
}

// Contains reports whether q lies on the plane within [Epsilon].
func (p Plane) Contains(q Point) bool {
	return math.Abs(p.SignedDistance(q)) < Epsilon
}

// Flip returns the plane with reversed orientation.
func (p Plane) Flip() Plane {
	return Plane{Origin: p.Origin, XAxis: p.YAxis, YAxis: p.XAxis, Normal: p.Normal.Neg()}
}

// String implements fmt.Stringer.
func (p Plane) String() string {
	return fmt.Sprintf("Plane(origin=%v, normal=%v)", p.Origin, p.Normal)
}

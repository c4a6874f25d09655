package geometry

import (
	"fmt"

	"github.com/matzehuels/openmodel/pkg/errors"
)

// Line is an ordered pair of points. A line whose endpoints coincide is
// degenerate; it is still a valid value and is reported by [Line.IsDegenerate].
type Line struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// NewLine creates a line from start to end.
func NewLine(start, end Point) Line {
	return Line{Start: start, End: end}
}

// Length returns the distance between the endpoints.
func (l Line) Length() float64 { return Distance(l.Start, l.End) }

// Direction returns the vector from Start to End (not normalized).
func (l Line) Direction() Vector { return l.End.Sub(l.Start) }

// IsDegenerate reports whether Start and End are within [Epsilon].
func (l Line) IsDegenerate() bool { return l.Start.ApproxEqual(l.End) }

// Midpoint returns the point halfway along the line.
func (l Line) Midpoint() Point { return Midpoint(l.Start, l.End) }

// PointAt returns Start + t*(End-Start). t=0 is Start, t=1 is End;
// values outside [0, 1] extrapolate along the infinite line.
func (l Line) PointAt(t float64) Point {
	return l.Start.Add(l.Direction().Scale(t))
}

// Reverse returns the line with its endpoints swapped.
func (l Line) Reverse() Line { return Line{Start: l.End, End: l.Start} }

// ClosestParameter returns the parameter t of the point on the infinite
// line closest to p. Returns a DEGENERATE_VECTOR error for degenerate lines.
func (l Line) ClosestParameter(p Point) (float64, error) {
	d := l.Direction()
	l2 := d.LengthSquared()
	if l2 < Epsilon*Epsilon {
		return 0, errors.New(errors.CodeDegenerateVector, "closest point undefined on degenerate line")
	}
	return Dot(p.Sub(l.Start), d) / l2, nil
}

// ClosestPoint returns the point on the segment closest to p.
// Returns a DEGENERATE_VECTOR error for degenerate lines.
func (l Line) ClosestPoint(p Point) (Point, error) {
	t, err := l.ClosestParameter(p)
	if err != nil {
		return Point{}, err
	}
	return l.PointAt(min(max(t, 0), 1)), nil
}

// DistanceTo returns the distance from p to the segment.
// For degenerate lines it is the distance to Start.
func (l Line) DistanceTo(p Point) float64 {
	c, err := l.ClosestPoint(p)
	if err != nil {
		return Distance(l.Start, p)
	}
	return Distance(c, p)
}

// Transform returns the line with both endpoints transformed by x.
func (l Line) Transform(x Xform) Line {
	return Line{Start: x.TransformPoint(l.Start), End: x.TransformPoint(l.End)}
}

// String implements fmt.Stringer.
func (l Line) String() string {
	return fmt.Sprintf("Line(%v -> %v)", l.Start, l.End)
}

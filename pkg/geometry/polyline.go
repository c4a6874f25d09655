package geometry

import (
	"fmt"
	"slices"
)

// Polyline is an ordered sequence of points joined by straight segments.
// A closed polyline has an implicit segment from the last point back to
// the first; the first point is not repeated.
type Polyline struct {
	Points []Point `json:"points"`
	Closed bool    `json:"closed,omitempty"`
}

// NewPolyline creates an open polyline through points.
func NewPolyline(points ...Point) Polyline {
	return Polyline{Points: slices.Clone(points)}
}

// Segments returns the straight segments in order. A polyline with fewer
// than two points has none.
func (p Polyline) Segments() []Line {
	n := len(p.Points)
	if n < 2 {
		return nil
	}
	segs := make([]Line, 0, n)
	for i := 1; i < n; i++ {
		segs = append(segs, NewLine(p.Points[i-1], p.Points[i]))
	}
	if p.Closed {
		segs = append(segs, NewLine(p.Points[n-1], p.Points[0]))
	}
	return segs
}

// Length returns the summed segment lengths.
func (p Polyline) Length() float64 {
	var sum float64
	for _, s := range p.Segments() {
		sum += s.Length()
	}
	return sum
}

// PointAt returns the point at parameter t along the polyline's length;
// t=0 is the first point and t=1 the end of the last segment. t is clamped
// to [0, 1]. An empty polyline yields the origin.
func (p Polyline) PointAt(t float64) Point {
	segs := p.Segments()
	if len(segs) == 0 {
		if len(p.Points) == 1 {
			return p.Points[0]
		}
		return Origin
	}
	target := min(max(t, 0), 1) * p.Length()
	for _, s := range segs {
		l := s.Length()
		if target <= l && l > 0 {
			return s.PointAt(target / l)
		}
		target -= l
	}
	return segs[len(segs)-1].End
}

// DistanceTo returns the distance from q to the nearest segment.
func (p Polyline) DistanceTo(q Point) float64 {
	segs := p.Segments()
	if len(segs) == 0 {
		if len(p.Points) == 1 {
			return Distance(p.Points[0], q)
		}
		return 0
	}
	d := segs[0].DistanceTo(q)
	for _, s := range segs[1:] {
		d = min(d, s.DistanceTo(q))
	}
	return d
}

// Transform returns a copy with every point transformed by x.
func (p Polyline) Transform(x Xform) Polyline {
	out := Polyline{Points: make([]Point, len(p.Points)), Closed: p.Closed}
	for i, q := range p.Points {
		out.Points[i] = x.TransformPoint(q)
	}
	return out
}

// String implements fmt.Stringer.
func (p Polyline) String() string {
	kind := "open"
	if p.Closed {
		kind = "closed"
	}
	return fmt.Sprintf("Polyline(%d points, %s)", len(p.Points), kind)
}

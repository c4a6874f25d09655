package mesh

import (
	"math"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/geometry"
	"github.com/matzehuels/openmodel/pkg/identity"
)

// Edge is an undirected edge between two vertices. A is the endpoint seen
// first while walking the faces.
type Edge struct {
	A, B identity.ID
}

// Triangle is one triangle of a face triangulation, wound like its face.
type Triangle struct {
	Face    identity.ID
	A, B, C identity.ID
}

// Edges returns the unique undirected edges of all faces, in face order.
// Consecutive repeats of the same vertex in a loop produce no edge.
func (m *Mesh) Edges() []Edge {
	type key struct{ lo, hi identity.ID }
	seen := make(map[key]bool)
	var out []Edge
	for _, fid := range m.faceOrder {
		loop := m.faces[fid].Vertices
		for i, a := range loop {
			b := loop[(i+1)%len(loop)]
			if a == b {
				continue
			}
			k := key{a, b}
			if identity.Compare(a, b) > 0 {
				k = key{b, a}
			}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, Edge{A: a, B: b})
		}
	}
	return out
}

// newell returns the Newell vector of a face: its direction is the face
// normal and its length is twice the face area.
func (m *Mesh) newell(f *Face) geometry.Vector {
	var n geometry.Vector
	for i, id := range f.Vertices {
		p := m.vertices[id].Point
		q := m.vertices[f.Vertices[(i+1)%len(f.Vertices)]].Point
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}

func (m *Mesh) face(id identity.ID) (*Face, error) {
	f, ok := m.faces[id]
	if !ok {
		return nil, errors.New(errors.CodeUnknownFace, "face %s not in mesh", id)
	}
	return f, nil
}

// FaceNormal returns the unit normal of a face, oriented by its winding.
// Returns UNKNOWN_FACE for a missing face and DEGENERATE_VECTOR for a face
// with zero area.
func (m *Mesh) FaceNormal(id identity.ID) (geometry.Vector, error) {
	f, err := m.face(id)
	if err != nil {
		return geometry.Vector{}, err
	}
	n, err := m.newell(f).Normalize()
	if err != nil {
		return geometry.Vector{}, errors.Wrap(errors.CodeDegenerateVector, err, "face %s has no area", id)
	}
	return n, nil
}

// FaceArea returns the area of a face projected onto its best-fit plane.
func (m *Mesh) FaceArea(id identity.ID) (float64, error) {
	f, err := m.face(id)
	if err != nil {
		return 0, err
	}
	return m.newell(f).Length() / 2, nil
}

// FaceCentroid returns the average of a face's vertex positions.
func (m *Mesh) FaceCentroid(id identity.ID) (geometry.Point, error) {
	f, err := m.face(id)
	if err != nil {
		return geometry.Point{}, err
	}
	var sum geometry.Vector
	for _, vid := range f.Vertices {
		sum = sum.Add(m.vertices[vid].Point.ToVector())
	}
	return sum.Scale(1 / float64(len(f.Vertices))).ToPoint(), nil
}

// FaceBoundary returns the face's vertex loop as a closed polyline.
func (m *Mesh) FaceBoundary(id identity.ID) (geometry.Polyline, error) {
	f, err := m.face(id)
	if err != nil {
		return geometry.Polyline{}, err
	}
	pts := make([]geometry.Point, len(f.Vertices))
	for i, vid := range f.Vertices {
		pts[i] = m.vertices[vid].Point
	}
	return geometry.Polyline{Points: pts, Closed: true}, nil
}

// VertexNormal returns the area-weighted average normal of the faces using
// a vertex. Returns UNKNOWN_VERTEX for a missing vertex and
// DEGENERATE_VECTOR when the vertex is unused or its faces cancel out.
func (m *Mesh) VertexNormal(id identity.ID) (geometry.Vector, error) {
	if _, ok := m.vertices[id]; !ok {
		return geometry.Vector{}, errors.New(errors.CodeUnknownVertex, "vertex %s not in mesh", id)
	}
	var sum geometry.Vector
	for _, fid := range m.FacesUsing(id) {
		sum = sum.Add(m.newell(m.faces[fid]))
	}
	n, err := sum.Normalize()
	if err != nil {
		return geometry.Vector{}, errors.Wrap(errors.CodeDegenerateVector, err, "vertex %s has no defined normal", id)
	}
	return n, nil
}

// FaceTriangles fan-triangulates a face around its first vertex.
// A face with n vertices yields n-2 triangles. The fan is exact for convex
// faces only.
func (m *Mesh) FaceTriangles(id identity.ID) ([]Triangle, error) {
	f, err := m.face(id)
	if err != nil {
		return nil, err
	}
	return fan(f), nil
}

func fan(f *Face) []Triangle {
	out := make([]Triangle, 0, len(f.Vertices)-2)
	for i := 1; i+1 < len(f.Vertices); i++ {
		out = append(out, Triangle{Face: f.ID, A: f.Vertices[0], B: f.Vertices[i], C: f.Vertices[i+1]})
	}
	return out
}

// Triangles fan-triangulates every face, in face order.
func (m *Mesh) Triangles() []Triangle {
	var out []Triangle
	for _, fid := range m.faceOrder {
		out = append(out, fan(m.faces[fid])...)
	}
	return out
}

// Bounds returns the axis-aligned bounding box of all vertices.
// ok is false for a mesh without vertices.
func (m *Mesh) Bounds() (lo, hi geometry.Point, ok bool) {
	if len(m.vertices) == 0 {
		return geometry.Point{}, geometry.Point{}, false
	}
	lo = geometry.NewPoint(math.Inf(1), math.Inf(1), math.Inf(1))
	hi = geometry.NewPoint(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for _, v := range m.vertices {
		p := v.Point
		lo = geometry.NewPoint(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z))
		hi = geometry.NewPoint(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z))
	}
	return lo, hi, true
}

// Transform applies x to every vertex position. Topology is unchanged.
func (m *Mesh) Transform(x geometry.Xform) {
	for _, v := range m.vertices {
		v.Point = x.TransformPoint(v.Point)
	}
}

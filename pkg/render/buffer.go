package render

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/geometry"
	"github.com/matzehuels/openmodel/pkg/identity"
	"github.com/matzehuels/openmodel/pkg/mesh"
)

// Stride is the number of float32 values per vertex.
const Stride = 9

// Attribute offsets within one vertex, in float32 units.
const (
	PositionOffset = 0
	NormalOffset   = 3
	ColorOffset    = 6
)

// ColorKey is the attribute key colors are read from.
const ColorKey = "color"

// Options configures buffer export.
type Options struct {
	// DefaultColor applies when neither face, vertex nor mesh has a color.
	DefaultColor [3]float32
}

// DefaultOptions returns light grey as the default color.
func DefaultOptions() Options {
	return Options{DefaultColor: [3]float32{0.8, 0.8, 0.8}}
}

// Buffer is an interleaved vertex buffer, see [Stride].
type Buffer struct {
	Data    []float32 `json:"data"`
	Indices []uint32  `json:"indices,omitempty"` // triangle list; empty for flat buffers
}

// VertexCount returns the number of vertices in the buffer.
func (b *Buffer) VertexCount() int { return len(b.Data) / Stride }

// TriangleCount returns the number of triangles the buffer draws.
func (b *Buffer) TriangleCount() int {
	if len(b.Indices) > 0 {
		return len(b.Indices) / 3
	}
	return b.VertexCount() / 3
}

// Vertex returns the attributes of vertex i.
func (b *Buffer) Vertex(i int) (pos, normal, color [3]float32) {
	v := b.Data[i*Stride : (i+1)*Stride]
	copy(pos[:], v[PositionOffset:])
	copy(normal[:], v[NormalOffset:])
	copy(color[:], v[ColorOffset:])
	return pos, normal, color
}

// WriteTo writes the vertex data as little-endian float32 values, the
// layout GPU APIs expect. Indices are not written.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 4*len(b.Data))
	for i, f := range b.Data {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	n, err := w.Write(buf)
	return int64(n), err
}

func (b *Buffer) push(p geometry.Point, n geometry.Vector, c [3]float32) {
	b.Data = append(b.Data,
		float32(p.X), float32(p.Y), float32(p.Z),
		float32(n.X), float32(n.Y), float32(n.Z),
		c[0], c[1], c[2],
	)
}

// BuildFlat exports m with one normal per face: each triangle of the fan
// triangulation gets three vertices carrying its face normal.
//
// Returns DEGENERATE_VECTOR for a face without area and ATTRIBUTE_TYPE
// for a "color" attribute that is not a vector.
func BuildFlat(m *mesh.Mesh, opts Options) (*Buffer, error) {
	meshColor, hasMeshColor, err := color(m.Attributes)
	if err != nil {
		return nil, err
	}
	b := &Buffer{Data: make([]float32, 0, len(m.Triangles())*3*Stride)}
	for _, f := range m.Faces() {
		n, err := m.FaceNormal(f.ID)
		if err != nil {
			return nil, err
		}
		faceColor, hasFaceColor, err := color(f.Attributes)
		if err != nil {
			return nil, err
		}
		tris, _ := m.FaceTriangles(f.ID)
		for _, t := range tris {
			for _, vid := range [3]identity.ID{t.A, t.B, t.C} {
				v, _ := m.Vertex(vid)
				c := opts.DefaultColor
				switch vc, hasVertexColor, err := color(v.Attributes); {
				case err != nil:
					return nil, err
				case hasFaceColor:
					c = faceColor
				case hasVertexColor:
					c = vc
				case hasMeshColor:
					c = meshColor
				}
				b.push(v.Point, n, c)
			}
		}
	}
	return b, nil
}

// BuildSmooth exports m with shared vertices and area-weighted vertex
// normals. Vertices no face uses are left out. Face colors cannot apply to
// shared vertices, so colors resolve vertex, then mesh, then default.
func BuildSmooth(m *mesh.Mesh, opts Options) (*Buffer, error) {
	meshColor, hasMeshColor, err := color(m.Attributes)
	if err != nil {
		return nil, err
	}
	b := &Buffer{}
	index := make(map[identity.ID]uint32)
	for _, v := range m.Vertices() {
		if len(m.FacesUsing(v.ID)) == 0 {
			continue
		}
		n, err := m.VertexNormal(v.ID)
		if err != nil {
			return nil, err
		}
		c := opts.DefaultColor
		vc, ok, err := color(v.Attributes)
		switch {
		case err != nil:
			return nil, err
		case ok:
			c = vc
		case hasMeshColor:
			c = meshColor
		}
		index[v.ID] = uint32(len(index))
		b.push(v.Point, n, c)
	}
	for _, t := range m.Triangles() {
		b.Indices = append(b.Indices, index[t.A], index[t.B], index[t.C])
	}
	return b, nil
}

func color(attrs identity.Attributes) ([3]float32, bool, error) {
	if !attrs.Has(ColorKey) {
		return [3]float32{}, false, nil
	}
	v, err := attrs.Vector(ColorKey)
	if err != nil {
		return [3]float32{}, false, errors.Wrap(errors.CodeAttributeType, err, "color must be a vector")
	}
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}, true, nil
}

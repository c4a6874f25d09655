package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/geometry"
	"github.com/matzehuels/openmodel/pkg/identity"
)

func TestFaceNormalTriangle(t *testing.T) {
	m, _, f := triangle(t)

	n, err := m.FaceNormal(f)
	require.NoError(t, err)
	assert.True(t, n.ApproxEqual(geometry.NewVector(0, 0, 1)), "got %v", n)

	area, err := m.FaceArea(f)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, area, geometry.Epsilon)
}

func TestFaceNormalWinding(t *testing.T) {
	m, ids, _ := triangle(t)
	back, err := m.AddFace([]identity.ID{ids[0], ids[2], ids[1]})
	require.NoError(t, err)

	n, err := m.FaceNormal(back)
	require.NoError(t, err)
	assert.True(t, n.ApproxEqual(geometry.NewVector(0, 0, -1)))
}

func TestFaceNormalDegenerate(t *testing.T) {
	m := newMeshT(t)
	ids := []identity.ID{
		m.AddVertex(geometry.NewPoint(0, 0, 0)),
		m.AddVertex(geometry.NewPoint(1, 0, 0)),
		m.AddVertex(geometry.NewPoint(2, 0, 0)),
	}
	f, err := m.AddFace(ids)
	require.NoError(t, err, "collinear faces are topologically valid")

	_, err = m.FaceNormal(f)
	assert.True(t, errors.Is(err, errors.CodeDegenerateVector))

	_, err = m.FaceNormal(identity.New())
	assert.True(t, errors.Is(err, errors.CodeUnknownFace))
}

func TestVertexNormal(t *testing.T) {
	m := newMeshT(t)
	o := m.AddVertex(geometry.NewPoint(0, 0, 0))
	x := m.AddVertex(geometry.NewPoint(1, 0, 0))
	y := m.AddVertex(geometry.NewPoint(0, 1, 0))
	z := m.AddVertex(geometry.NewPoint(0, 0, 1))
	_, err := m.AddFace([]identity.ID{o, x, y}) // normal +Z
	require.NoError(t, err)
	_, err = m.AddFace([]identity.ID{o, z, x}) // normal +Y
	require.NoError(t, err)

	n, err := m.VertexNormal(o)
	require.NoError(t, err)
	want, _ := geometry.NewVector(0, 1, 1).Normalize()
	assert.True(t, n.ApproxEqual(want), "got %v", n)

	lonely := m.AddVertex(geometry.NewPoint(5, 5, 5))
	_, err = m.VertexNormal(lonely)
	assert.True(t, errors.Is(err, errors.CodeDegenerateVector))
}

func TestTriangles(t *testing.T) {
	m := newMeshT(t)
	ids := []identity.ID{
		m.AddVertex(geometry.NewPoint(0, 0, 0)),
		m.AddVertex(geometry.NewPoint(1, 0, 0)),
		m.AddVertex(geometry.NewPoint(1, 1, 0)),
		m.AddVertex(geometry.NewPoint(0, 1, 0)),
		m.AddVertex(geometry.NewPoint(-0.5, 0.5, 0)),
	}
	f, err := m.AddFace(ids)
	require.NoError(t, err)

	tris, err := m.FaceTriangles(f)
	require.NoError(t, err)
	require.Len(t, tris, 3)
	for _, tri := range tris {
		assert.Equal(t, ids[0], tri.A)
		assert.Equal(t, f, tri.Face)
	}
	assert.Equal(t, tris, m.Triangles())
}

func TestEdges(t *testing.T) {
	m := newMeshT(t)
	a := m.AddVertex(geometry.NewPoint(0, 0, 0))
	b := m.AddVertex(geometry.NewPoint(1, 0, 0))
	c := m.AddVertex(geometry.NewPoint(1, 1, 0))
	d := m.AddVertex(geometry.NewPoint(0, 1, 0))
	_, err := m.AddFace([]identity.ID{a, b, c})
	require.NoError(t, err)
	_, err = m.AddFace([]identity.ID{a, c, d})
	require.NoError(t, err)

	edges := m.Edges()
	assert.Len(t, edges, 5, "shared diagonal counted once")
	assert.Equal(t, Edge{A: a, B: b}, edges[0])
}

func TestBoundsAndTransform(t *testing.T) {
	m := newMeshT(t)
	_, _, ok := m.Bounds()
	assert.False(t, ok)

	m.AddVertex(geometry.NewPoint(-1, 2, 0))
	m.AddVertex(geometry.NewPoint(3, -4, 5))
	lo, hi, ok := m.Bounds()
	require.True(t, ok)
	assert.Equal(t, geometry.NewPoint(-1, -4, 0), lo)
	assert.Equal(t, geometry.NewPoint(3, 2, 5), hi)

	m.Transform(geometry.Translation(1, 1, 1))
	lo, hi, _ = m.Bounds()
	assert.Equal(t, geometry.NewPoint(0, -3, 1), lo)
	assert.Equal(t, geometry.NewPoint(4, 3, 6), hi)
}

func TestFaceCentroid(t *testing.T) {
	m, _, f := triangle(t)
	c, err := m.FaceCentroid(f)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, c.X, 1e-12)
	assert.InDelta(t, 1.0/3, c.Y, 1e-12)
	assert.False(t, math.IsNaN(c.Z))
}

func TestFaceBoundary(t *testing.T) {
	m, ids, f := triangle(t)
	b, err := m.FaceBoundary(f)
	require.NoError(t, err)
	assert.True(t, b.Closed)
	require.Len(t, b.Points, 3)
	for i, id := range ids {
		v, _ := m.Vertex(id)
		assert.Equal(t, v.Point, b.Points[i])
	}
	assert.InDelta(t, 2+math.Sqrt2, b.Length(), 1e-12)

	_, err = m.FaceBoundary(identity.New())
	assert.True(t, errors.Is(err, errors.CodeUnknownFace))
}

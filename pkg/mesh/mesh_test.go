package mesh

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/geometry"
	"github.com/matzehuels/openmodel/pkg/identity"
)

func newMeshT(t *testing.T) *Mesh {
	t.Helper()
	m, err := New("test")
	require.NoError(t, err)
	return m
}

// triangle builds the unit right triangle in the XY plane.
func triangle(t *testing.T) (*Mesh, []identity.ID, identity.ID) {
	t.Helper()
	m := newMeshT(t)
	ids := []identity.ID{
		m.AddVertex(geometry.NewPoint(0, 0, 0)),
		m.AddVertex(geometry.NewPoint(1, 0, 0)),
		m.AddVertex(geometry.NewPoint(0, 1, 0)),
	}
	f, err := m.AddFace(ids)
	require.NoError(t, err)
	return m, ids, f
}

func TestNew(t *testing.T) {
	m, err := New("slab")
	require.NoError(t, err)
	assert.Equal(t, "slab", m.Name)
	assert.False(t, m.ID.IsNil())
	assert.Zero(t, m.VertexCount())
	assert.Zero(t, m.FaceCount())

	_, err = New("a name that is far too long for a mesh")
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
}

func TestFromMeta(t *testing.T) {
	id := identity.New()
	m, err := FromMeta(identity.Meta{ID: id, Name: "roof"})
	require.NoError(t, err)
	assert.Equal(t, id, m.ID)
	assert.NotNil(t, m.Attributes)

	_, err = FromMeta(identity.Meta{})
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
}

func TestAddVertex(t *testing.T) {
	m := newMeshT(t)
	a := m.AddVertex(geometry.NewPoint(1, 2, 3))
	b := m.AddVertex(geometry.NewPoint(1, 2, 3))

	assert.NotEqual(t, a, b, "each vertex gets a fresh identity")
	v, ok := m.Vertex(a)
	require.True(t, ok)
	assert.Equal(t, geometry.NewPoint(1, 2, 3), v.Point)
	assert.NotNil(t, v.Attributes)
	assert.Equal(t, 2, m.VertexCount())
}

func TestAddFace(t *testing.T) {
	m := newMeshT(t)
	a := m.AddVertex(geometry.NewPoint(0, 0, 0))
	b := m.AddVertex(geometry.NewPoint(1, 0, 0))
	c := m.AddVertex(geometry.NewPoint(1, 1, 0))
	d := m.AddVertex(geometry.NewPoint(0, 1, 0))
	stranger := identity.New()

	tests := []struct {
		name     string
		ids      []identity.ID
		wantCode errors.Code
	}{
		{"triangle", []identity.ID{a, b, c}, ""},
		{"quad", []identity.ID{a, b, c, d}, ""},
		{"repeat beyond three distinct", []identity.ID{a, b, c, a}, ""},
		{"unknown vertex", []identity.ID{a, b, stranger}, errors.CodeUnknownVertex},
		{"two vertices", []identity.ID{a, b}, errors.CodeDegenerateFace},
		{"three ids two distinct", []identity.ID{a, b, a}, errors.CodeDegenerateFace},
		{"empty", nil, errors.CodeDegenerateFace},
		{"unknown wins over degenerate", []identity.ID{stranger}, errors.CodeUnknownVertex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := m.FaceCount()
			id, err := m.AddFace(tt.ids)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantCode), "got %v", err)
				assert.Equal(t, before, m.FaceCount(), "failed AddFace must not change the mesh")
				return
			}
			require.NoError(t, err)
			f, ok := m.Face(id)
			require.True(t, ok)
			assert.Equal(t, tt.ids, f.Vertices)
		})
	}
	require.NoError(t, m.Validate())
}

func TestAddFaceCopiesInput(t *testing.T) {
	m, ids, f := triangle(t)
	ids[0] = identity.New()

	face, _ := m.Face(f)
	assert.True(t, m.HasVertex(face.Vertices[0]))

	face.Vertices[1] = identity.New()
	again, _ := m.Face(f)
	assert.True(t, m.HasVertex(again.Vertices[1]), "returned faces are copies")
	require.NoError(t, m.Validate())
}

func TestInsert(t *testing.T) {
	m := newMeshT(t)
	v := Vertex{ID: identity.New(), Point: geometry.NewPoint(1, 1, 1)}
	require.NoError(t, m.InsertVertex(v))

	assert.True(t, errors.Is(m.InsertVertex(v), errors.CodeDuplicateID))
	assert.True(t, errors.Is(m.InsertVertex(Vertex{}), errors.CodeInvalidInput))

	b := m.AddVertex(geometry.NewPoint(2, 1, 1))
	c := m.AddVertex(geometry.NewPoint(1, 2, 1))
	f := Face{ID: identity.New(), Vertices: []identity.ID{v.ID, b, c}}
	require.NoError(t, m.InsertFace(f))
	assert.True(t, errors.Is(m.InsertFace(f), errors.CodeDuplicateID))

	clash := Face{ID: b, Vertices: []identity.ID{v.ID, b, c}}
	assert.True(t, errors.Is(m.InsertFace(clash), errors.CodeDuplicateID), "ids are unique across vertices and faces")

	dangling := Face{ID: identity.New(), Vertices: []identity.ID{v.ID, b, identity.New()}}
	assert.True(t, errors.Is(m.InsertFace(dangling), errors.CodeUnknownVertex))
}

func TestRemoveFace(t *testing.T) {
	m, ids, f := triangle(t)

	require.NoError(t, m.RemoveFace(f))
	assert.Zero(t, m.FaceCount())
	assert.Equal(t, 3, m.VertexCount())
	assert.Empty(t, m.FacesUsing(ids[0]))

	assert.True(t, errors.Is(m.RemoveFace(f), errors.CodeUnknownFace))
	require.NoError(t, m.Validate())
}

func TestMoveVertex(t *testing.T) {
	m, ids, f := triangle(t)

	require.NoError(t, m.MoveVertex(ids[1], geometry.NewPoint(2, 0, 0)))
	area, err := m.FaceArea(f)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, area, geometry.Epsilon)

	assert.True(t, errors.Is(m.MoveVertex(identity.New(), geometry.Origin), errors.CodeUnknownVertex))
}

func TestOrdering(t *testing.T) {
	m := newMeshT(t)
	var want []identity.ID
	for i := 0; i < 20; i++ {
		want = append(want, m.AddVertex(geometry.NewPoint(float64(i), 0, 0)))
	}

	var got []identity.ID
	for _, v := range m.Vertices() {
		got = append(got, v.ID)
	}
	assert.Equal(t, want, got)
}

func TestFacesUsing(t *testing.T) {
	m := newMeshT(t)
	a := m.AddVertex(geometry.NewPoint(0, 0, 0))
	b := m.AddVertex(geometry.NewPoint(1, 0, 0))
	c := m.AddVertex(geometry.NewPoint(1, 1, 0))
	d := m.AddVertex(geometry.NewPoint(0, 1, 0))
	f1, err := m.AddFace([]identity.ID{a, b, c})
	require.NoError(t, err)
	f2, err := m.AddFace([]identity.ID{a, c, d})
	require.NoError(t, err)

	assert.Equal(t, []identity.ID{f1, f2}, m.FacesUsing(a))
	assert.Equal(t, []identity.ID{f1}, m.FacesUsing(b))
	assert.Nil(t, m.FacesUsing(identity.New()))
}

func TestClone(t *testing.T) {
	m, ids, f := triangle(t)
	require.NoError(t, m.Attributes.SetString("material", "glass"))
	fc, _ := m.Face(f)
	require.NoError(t, fc.Attributes.SetInt("layer", 2))

	c := m.Clone()
	assert.Equal(t, m.ID, c.ID)
	assert.Equal(t, m.Vertices(), c.Vertices())
	assert.Equal(t, m.Faces(), c.Faces())

	require.NoError(t, c.MoveVertex(ids[0], geometry.NewPoint(9, 9, 9)))
	require.NoError(t, c.RemoveFace(f))
	cf, _ := c.Vertex(ids[1])
	require.NoError(t, cf.Attributes.SetBool("moved", true))

	v, _ := m.Vertex(ids[0])
	assert.Equal(t, geometry.Origin, v.Point)
	assert.True(t, m.HasFace(f))
	orig, _ := m.Vertex(ids[1])
	assert.False(t, orig.Attributes.Has("moved"))
	require.NoError(t, c.Validate())
}

// TestReferentialIntegrityProperty drives random add/remove sequences and
// checks that every face reference resolves after each successful step.
func TestReferentialIntegrityProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := newMeshT(t)
	var verts []identity.ID

	pick := func() identity.ID {
		if len(verts) == 0 || rng.Intn(10) == 0 {
			return identity.New()
		}
		return verts[rng.Intn(len(verts))]
	}

	for step := 0; step < 2000; step++ {
		switch op := rng.Intn(10); {
		case op < 4:
			verts = append(verts, m.AddVertex(geometry.NewPoint(rng.Float64(), rng.Float64(), rng.Float64())))
		case op < 8:
			n := 3 + rng.Intn(3)
			ids := make([]identity.ID, n)
			for i := range ids {
				ids[i] = pick()
			}
			_, _ = m.AddFace(ids)
		default:
			mode := Restrict
			if rng.Intn(2) == 0 {
				mode = Cascade
			}
			_ = m.RemoveVertex(pick(), mode)
		}

		for _, f := range m.Faces() {
			for _, vid := range f.Vertices {
				require.True(t, m.HasVertex(vid), "step %d: face %s has dangling vertex %s", step, f.ID, vid)
			}
		}
	}
	require.NoError(t, m.Validate())
}

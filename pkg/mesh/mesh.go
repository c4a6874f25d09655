package mesh

import (
	"slices"

	"github.com/ErikKalkoken/go-set"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/geometry"
	"github.com/matzehuels/openmodel/pkg/identity"
)

// MinFaceVertices is the minimum number of distinct vertices in a face.
const MinFaceVertices = 3

// Vertex is a uniquely identified point of a mesh.
type Vertex struct {
	ID         identity.ID
	Point      geometry.Point
	Attributes identity.Attributes // never nil once part of a mesh
}

// Face is an ordered loop of vertex references.
type Face struct {
	ID         identity.ID
	Vertices   []identity.ID
	Attributes identity.Attributes // never nil once part of a mesh
}

// Mesh is a vertex/face mesh. The zero value is not usable; create meshes
// with [New] or [FromMeta].
type Mesh struct {
	identity.Meta

	vertices    map[identity.ID]*Vertex
	vertexOrder []identity.ID
	faces       map[identity.ID]*Face
	faceOrder   []identity.ID
	usage       map[identity.ID]*set.Set[identity.ID] // vertex -> faces using it
	revision    uint64
}

// New creates an empty mesh with a fresh ID.
// Returns an INVALID_INPUT error if name is too long or malformed.
func New(name string) (*Mesh, error) {
	meta, err := identity.NewMeta(name)
	if err != nil {
		return nil, err
	}
	return newMesh(meta), nil
}

// FromMeta creates an empty mesh carrying existing identity and metadata,
// as needed when decoding a stored mesh. The attribute map is adopted, not
// copied.
func FromMeta(meta identity.Meta) (*Mesh, error) {
	if meta.ID.IsNil() {
		return nil, errors.New(errors.CodeInvalidInput, "mesh identity must not be nil")
	}
	if err := errors.ValidateName(meta.Name); err != nil {
		return nil, err
	}
	if meta.Attributes == nil {
		meta.Attributes = identity.NewAttributes()
	}
	return newMesh(meta), nil
}

func newMesh(meta identity.Meta) *Mesh {
	return &Mesh{
		Meta:     meta,
		vertices: make(map[identity.ID]*Vertex),
		faces:    make(map[identity.ID]*Face),
		usage:    make(map[identity.ID]*set.Set[identity.ID]),
	}
}

// Revision returns a counter that increases on every topology change
// (vertices or faces added or removed). Moving vertices does not count.
func (m *Mesh) Revision() uint64 { return m.revision }

// AddVertex adds a vertex at p with a fresh ID and returns the ID.
// It always succeeds.
func (m *Mesh) AddVertex(p geometry.Point) identity.ID {
	v := Vertex{ID: identity.New(), Point: p}
	m.insertVertex(v)
	return v.ID
}

// InsertVertex adds a vertex with a caller-supplied ID.
// Returns INVALID_INPUT for the nil ID and DUPLICATE_ID if the ID is
// already used by a vertex or face of this mesh.
func (m *Mesh) InsertVertex(v Vertex) error {
	if err := m.checkNewID(v.ID); err != nil {
		return err
	}
	m.insertVertex(v)
	return nil
}

func (m *Mesh) insertVertex(v Vertex) {
	if v.Attributes == nil {
		v.Attributes = identity.NewAttributes()
	}
	m.vertices[v.ID] = &v
	m.vertexOrder = append(m.vertexOrder, v.ID)
	m.revision++
}

// AddFace adds a face over the given vertex loop and returns its fresh ID.
//
// Returns UNKNOWN_VERTEX if any ID is not a vertex of this mesh, or
// DEGENERATE_FACE if the loop has fewer than [MinFaceVertices] distinct
// vertices. On error the mesh is unchanged.
func (m *Mesh) AddFace(ids []identity.ID) (identity.ID, error) {
	f := Face{ID: identity.New(), Vertices: ids}
	if err := m.checkFace(f); err != nil {
		return identity.Nil, err
	}
	m.insertFace(f)
	return f.ID, nil
}

// InsertFace adds a face with a caller-supplied ID. It performs the same
// validation as [Mesh.AddFace] and additionally fails with DUPLICATE_ID
// if the ID is already in use.
func (m *Mesh) InsertFace(f Face) error {
	if err := m.checkNewID(f.ID); err != nil {
		return err
	}
	if err := m.checkFace(f); err != nil {
		return err
	}
	m.insertFace(f)
	return nil
}

func (m *Mesh) checkFace(f Face) error {
	var missing []identity.ID
	for _, id := range f.Vertices {
		if _, ok := m.vertices[id]; !ok && !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.CodeUnknownVertex, "face %s references unknown vertices %v", f.ID, identity.Strings(missing))
	}
	if n := set.Of(f.Vertices...).Size(); n < MinFaceVertices {
		return errors.New(errors.CodeDegenerateFace, "face %s has %d distinct vertices, need at least %d", f.ID, n, MinFaceVertices)
	}
	return nil
}

func (m *Mesh) insertFace(f Face) {
	f.Vertices = slices.Clone(f.Vertices)
	if f.Attributes == nil {
		f.Attributes = identity.NewAttributes()
	}
	m.faces[f.ID] = &f
	m.faceOrder = append(m.faceOrder, f.ID)
	for _, vid := range f.Vertices {
		users, ok := m.usage[vid]
		if !ok {
			users = &set.Set[identity.ID]{}
			m.usage[vid] = users
		}
		users.Add(f.ID)
	}
	m.revision++
}

func (m *Mesh) checkNewID(id identity.ID) error {
	if id.IsNil() {
		return errors.New(errors.CodeInvalidInput, "identity must not be nil")
	}
	_, isVertex := m.vertices[id]
	_, isFace := m.faces[id]
	if isVertex || isFace {
		return errors.New(errors.CodeDuplicateID, "identity %s already used in mesh %s", id, m.ID)
	}
	return nil
}

// RemoveFace removes a face. Its vertices stay in the mesh.
// Returns UNKNOWN_FACE if the face does not exist.
func (m *Mesh) RemoveFace(id identity.ID) error {
	if _, ok := m.faces[id]; !ok {
		return errors.New(errors.CodeUnknownFace, "face %s not in mesh", id)
	}
	m.removeFace(id)
	return nil
}

func (m *Mesh) removeFace(id identity.ID) {
	f := m.faces[id]
	for _, vid := range f.Vertices {
		if users, ok := m.usage[vid]; ok {
			users.Delete(id)
			if users.Size() == 0 {
				delete(m.usage, vid)
			}
		}
	}
	delete(m.faces, id)
	m.faceOrder = slices.DeleteFunc(m.faceOrder, func(x identity.ID) bool { return x == id })
	m.revision++
}

func (m *Mesh) removeVertex(id identity.ID) {
	delete(m.vertices, id)
	delete(m.usage, id)
	m.vertexOrder = slices.DeleteFunc(m.vertexOrder, func(x identity.ID) bool { return x == id })
	m.revision++
}

// MoveVertex sets the position of a vertex. Faces using it see the new
// position immediately. Returns UNKNOWN_VERTEX if the vertex does not exist.
func (m *Mesh) MoveVertex(id identity.ID, p geometry.Point) error {
	v, ok := m.vertices[id]
	if !ok {
		return errors.New(errors.CodeUnknownVertex, "vertex %s not in mesh", id)
	}
	v.Point = p
	return nil
}

// Vertex returns a copy of the vertex with the given ID and true, or the
// zero Vertex and false if not found. The Attributes map is shared with
// the mesh, so attribute edits through it take effect.
func (m *Mesh) Vertex(id identity.ID) (Vertex, bool) {
	v, ok := m.vertices[id]
	if !ok {
		return Vertex{}, false
	}
	return *v, true
}

// Face returns a copy of the face with the given ID and true, or the zero
// Face and false if not found. The vertex list is a copy; the Attributes
// map is shared with the mesh.
func (m *Mesh) Face(id identity.ID) (Face, bool) {
	f, ok := m.faces[id]
	if !ok {
		return Face{}, false
	}
	out := *f
	out.Vertices = slices.Clone(f.Vertices)
	return out, true
}

// HasVertex reports whether id is a vertex of the mesh.
func (m *Mesh) HasVertex(id identity.ID) bool {
	_, ok := m.vertices[id]
	return ok
}

// HasFace reports whether id is a face of the mesh.
func (m *Mesh) HasFace(id identity.ID) bool {
	_, ok := m.faces[id]
	return ok
}

// Vertices returns all vertices in insertion order.
func (m *Mesh) Vertices() []Vertex {
	out := make([]Vertex, 0, len(m.vertexOrder))
	for _, id := range m.vertexOrder {
		out = append(out, *m.vertices[id])
	}
	return out
}

// Faces returns all faces in insertion order.
func (m *Mesh) Faces() []Face {
	out := make([]Face, 0, len(m.faceOrder))
	for _, id := range m.faceOrder {
		f, _ := m.Face(id)
		out = append(out, f)
	}
	return out
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.vertices) }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.faces) }

// FacesUsing returns the IDs of faces that reference the vertex, in face
// insertion order. Returns nil for unused or unknown vertices.
func (m *Mesh) FacesUsing(vertex identity.ID) []identity.ID {
	users, ok := m.usage[vertex]
	if !ok {
		return nil
	}
	var out []identity.ID
	for _, fid := range m.faceOrder {
		if users.Contains(fid) {
			out = append(out, fid)
		}
	}
	return out
}

// Clone returns a deep copy of the mesh. Identities are preserved, so the
// clone denotes the same logical mesh.
func (m *Mesh) Clone() *Mesh {
	c := newMesh(m.Meta.Copy(true))
	for _, v := range m.Vertices() {
		v.Attributes = v.Attributes.Clone()
		c.insertVertex(v)
	}
	for _, f := range m.Faces() {
		f.Attributes = f.Attributes.Clone()
		c.insertFace(f)
	}
	return c
}

package mesh

import (
	"github.com/ErikKalkoken/go-set"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/identity"
)

// Validate checks the mesh invariants and returns nil if they hold:
//
//  1. Every face vertex reference resolves to a vertex of the mesh
//  2. Every face has at least [MinFaceVertices] distinct vertices
//  3. The vertex usage index agrees with the faces
//  4. The mesh name is valid
//
// A dangling reference is reported as a *errors.ReferentialIntegrityError.
// The mutating methods maintain these invariants, so a failure here means
// the mesh was corrupted through unexported state or a bug.
func (m *Mesh) Validate() error {
	if err := errors.ValidateName(m.Name); err != nil {
		return err
	}
	uses := 0
	for _, fid := range m.faceOrder {
		f := m.faces[fid]
		var missing []identity.ID
		for _, vid := range f.Vertices {
			if _, ok := m.vertices[vid]; !ok {
				missing = append(missing, vid)
			}
		}
		if len(missing) > 0 {
			return &errors.ReferentialIntegrityError{Entity: "face", ID: fid.String(), Missing: identity.Strings(missing)}
		}
		distinct := set.Of(f.Vertices...)
		if distinct.Size() < MinFaceVertices {
			return errors.New(errors.CodeDegenerateFace, "face %s has %d distinct vertices", fid, distinct.Size())
		}
		for vid := range distinct.All() {
			users, ok := m.usage[vid]
			if !ok || !users.Contains(fid) {
				return errors.New(errors.CodeInternal, "usage index lost face %s on vertex %s", fid, vid)
			}
		}
		uses += distinct.Size()
	}
	indexed := 0
	for _, users := range m.usage {
		indexed += users.Size()
	}
	if indexed != uses {
		return errors.New(errors.CodeInternal, "usage index holds %d entries, faces hold %d", indexed, uses)
	}
	return nil
}

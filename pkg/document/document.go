package document

import (
	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/identity"
	"github.com/matzehuels/openmodel/pkg/mesh"
	"github.com/matzehuels/openmodel/pkg/structure"
)

// Format and Version identify the serialized document layout.
const (
	Format  = "openmodel"
	Version = 1
)

// Document is the root of a serialized model.
type Document struct {
	identity.Meta

	Meshes    []*mesh.Mesh
	Structure *structure.Model // nil when the document has no structure
}

// New returns an empty document with a fresh ID.
func New(name string) (*Document, error) {
	meta, err := identity.NewMeta(name)
	if err != nil {
		return nil, err
	}
	return &Document{Meta: meta}, nil
}

// Mesh returns the mesh with the given ID.
func (d *Document) Mesh(id identity.ID) (*mesh.Mesh, bool) {
	for _, m := range d.Meshes {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// MeshByName returns the first mesh with the given name.
func (d *Document) MeshByName(name string) (*mesh.Mesh, bool) {
	for _, m := range d.Meshes {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Validate checks the document name, that mesh IDs are distinct, and the
// invariants of every mesh and of the structure.
func (d *Document) Validate() error {
	if err := errors.ValidateName(d.Name); err != nil {
		return err
	}
	seen := make(map[identity.ID]bool, len(d.Meshes))
	for _, m := range d.Meshes {
		if m == nil {
			return errors.New(errors.CodeInvalidInput, "document %s contains a nil mesh", d.ID)
		}
		if seen[m.ID] {
			return errors.New(errors.CodeDuplicateID, "mesh %s appears twice", m.ID)
		}
		seen[m.ID] = true
		if err := m.Validate(); err != nil {
			return err
		}
	}
	if d.Structure != nil {
		return d.Structure.Validate()
	}
	return nil
}

// Stats summarizes the size of a document.
type Stats struct {
	Meshes   int `json:"meshes"`
	Vertices int `json:"vertices"`
	Faces    int `json:"faces"`
	Nodes    int `json:"nodes"`
	Members  int `json:"members"`
	Supports int `json:"supports"`
	Loads    int `json:"loads"`
}

// Stats counts the entities in the document.
func (d *Document) Stats() Stats {
	s := Stats{Meshes: len(d.Meshes)}
	for _, m := range d.Meshes {
		s.Vertices += m.VertexCount()
		s.Faces += m.FaceCount()
	}
	if d.Structure != nil {
		s.Nodes = d.Structure.NodeCount()
		s.Members = d.Structure.MemberCount()
		s.Supports = d.Structure.SupportCount()
		s.Loads = d.Structure.LoadCount()
	}
	return s
}

package mesh

import (
	"slices"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/identity"
)

// RemoveMode selects how a removal treats entities that still reference
// the removed one.
type RemoveMode int

const (
	// Restrict fails the removal while any reference exists.
	Restrict RemoveMode = iota
	// Cascade removes the referencing entities first.
	Cascade
)

// String returns "restrict" or "cascade".
func (m RemoveMode) String() string {
	if m == Cascade {
		return "cascade"
	}
	return "restrict"
}

// VertexRemoval is a validated, not yet applied vertex removal produced by
// [Mesh.PlanVertexRemoval].
type VertexRemoval struct {
	mesh     *Mesh
	vertex   identity.ID
	faces    []identity.ID
	revision uint64
}

// Vertex returns the vertex to be removed.
func (r *VertexRemoval) Vertex() identity.ID { return r.vertex }

// Faces returns the faces that will be removed along with the vertex,
// in face insertion order. Empty when the vertex is unused.
func (r *VertexRemoval) Faces() []identity.ID { return slices.Clone(r.faces) }

// Apply performs the removal. It fails with STALE_PLAN if the mesh
// topology changed since the plan was made, including a previous Apply of
// the same plan.
func (r *VertexRemoval) Apply() error {
	if r.mesh.revision != r.revision {
		return errors.New(errors.CodeStalePlan, "mesh %s changed since removal of vertex %s was planned", r.mesh.ID, r.vertex)
	}
	for _, fid := range r.faces {
		r.mesh.removeFace(fid)
	}
	r.mesh.removeVertex(r.vertex)
	return nil
}

// PlanVertexRemoval validates the removal of a vertex without changing the
// mesh.
//
// Returns UNKNOWN_VERTEX if the vertex does not exist. In [Restrict] mode
// it returns VERTEX_IN_USE if any face references the vertex. In [Cascade]
// mode the plan lists the faces that [VertexRemoval.Apply] will remove.
func (m *Mesh) PlanVertexRemoval(id identity.ID, mode RemoveMode) (*VertexRemoval, error) {
	if _, ok := m.vertices[id]; !ok {
		return nil, errors.New(errors.CodeUnknownVertex, "vertex %s not in mesh", id)
	}
	users := m.FacesUsing(id)
	if len(users) > 0 && mode != Cascade {
		return nil, errors.New(errors.CodeVertexInUse, "vertex %s is used by faces %v", id, identity.Strings(users))
	}
	return &VertexRemoval{mesh: m, vertex: id, faces: users, revision: m.revision}, nil
}

// RemoveVertex plans and applies a vertex removal in one step.
// See [Mesh.PlanVertexRemoval] for the errors it returns.
func (m *Mesh) RemoveVertex(id identity.ID, mode RemoveMode) error {
	plan, err := m.PlanVertexRemoval(id, mode)
	if err != nil {
		return err
	}
	return plan.Apply()
}

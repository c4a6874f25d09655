// Package mesh provides polygon meshes with enforced referential integrity.
//
// # Overview
//
// A [Mesh] owns a set of identity-keyed vertices and a set of faces. Each
// face is an ordered list of vertex IDs; the order defines the winding and
// therefore the direction of the face normal (counter-clockwise seen from
// the front).
//
// The central invariant is that every vertex ID referenced by a face
// resolves to a vertex in the same mesh. Every mutating method either keeps
// that invariant or fails without changing the mesh:
//
//	m, _ := mesh.New("slab")
//	a := m.AddVertex(geometry.NewPoint(0, 0, 0))
//	b := m.AddVertex(geometry.NewPoint(1, 0, 0))
//	c := m.AddVertex(geometry.NewPoint(0, 1, 0))
//	f, err := m.AddFace([]identity.ID{a, b, c})
//
// # Removing Vertices
//
// Removing a vertex that a face still uses fails with VERTEX_IN_USE unless
// [Cascade] is requested, in which case the referencing faces are removed
// first. Removal is a two-phase edit: [Mesh.PlanVertexRemoval] validates and
// reports which faces would go, and [VertexRemoval.Apply] performs it.
// [Mesh.RemoveVertex] runs both phases. A plan applied after any other
// topology change fails with STALE_PLAN instead of acting on outdated
// information.
//
// # Derived Geometry
//
// Normals, areas, edges, bounds and triangulations are computed on each call
// from the current vertex positions; nothing is cached. [Mesh.FaceNormal]
// uses Newell's method, which is robust for slightly non-planar polygons.
//
// # Concurrency
//
// A Mesh is not safe for concurrent mutation. Share read-only snapshots
// produced by [Mesh.Clone] instead.
package mesh

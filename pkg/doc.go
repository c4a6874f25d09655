// Package pkg provides the libraries behind openmodel, a geometric kernel
// for building-scale models.
//
// # Overview
//
// A document holds polygon meshes and a structural element model. Every
// entity carries a stable identity, and every reference between entities
// is checked when it is made, so a model in memory is always internally
// consistent. The pkg directory is organized in layers, each depending
// only on the ones above it:
//
//  1. [errors] - Coded error taxonomy shared by all packages
//  2. [geometry] - Points, vectors, lines, planes and affine transforms
//  3. [identity] - UUID identities, typed attributes and named metadata
//  4. [mesh] - Vertex/face topology with derived normals and areas
//  5. [structure] - Nodes, members, supports and loads
//  6. [document] - JSON and YAML interchange, optional zstd compression
//  7. [store], [render], [config], [observability] - Persistence, export and
//     ambient infrastructure
//
// # Quick Start
//
//	m, _ := mesh.New("roof")
//	a := m.AddVertex(geometry.NewPoint(0, 0, 3))
//	b := m.AddVertex(geometry.NewPoint(4, 0, 3))
//	c := m.AddVertex(geometry.NewPoint(4, 2, 3))
//	f, _ := m.AddFace([]identity.ID{a, b, c})
//	n, _ := m.FaceNormal(f) // Vector(0, 0, 1)
//
//	doc, _ := document.New("pavilion")
//	doc.Meshes = append(doc.Meshes, m)
//	_ = document.ExportFile(doc, "pavilion.json.zst")
//
// # Removal
//
// Removing a referenced entity is a two-step operation: plan it with
// [mesh.Mesh.PlanVertexRemoval] or [structure.Model.PlanNodeRemoval], inspect
// what would be affected, then apply the plan. A plan refuses to apply if
// the container changed in between.
//
// # Concurrency
//
// Meshes and models do no locking: one writer or many readers. Use Clone
// to hand an independent snapshot to another goroutine. Stores are safe for
// concurrent use.
//
// [errors]: github.com/matzehuels/openmodel/pkg/errors
// [geometry]: github.com/matzehuels/openmodel/pkg/geometry
// [identity]: github.com/matzehuels/openmodel/pkg/identity
// [mesh]: github.com/matzehuels/openmodel/pkg/mesh
// [structure]: github.com/matzehuels/openmodel/pkg/structure
// [document]: github.com/matzehuels/openmodel/pkg/document
// [store]: github.com/matzehuels/openmodel/pkg/store
// [render]: github.com/matzehuels/openmodel/pkg/render
// [config]: github.com/matzehuels/openmodel/pkg/config
// [observability]: github.com/matzehuels/openmodel/pkg/observability
package pkg

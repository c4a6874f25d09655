// Package structure provides the structural element model used for statics:
// nodes, members, supports and loads.
//
// # Overview
//
// A [Model] owns identity-keyed entities of four kinds:
//
//   - [Node]: a point in space
//   - [Member]: a bar or beam between a start node and an end node
//   - [Support]: a restraint attached to a node
//   - [Load]: a force and moment acting on a node
//
// Members, supports and loads refer to nodes by [identity.ID] only. A
// member stores no geometry of its own; [Model.MemberLine] derives the line
// from the current node positions on every call, so moving a node is
// immediately visible in every member that uses it.
//
//	m, _ := structure.New("portal")
//	a := m.AddNode(geometry.NewPoint(0, 0, 0))
//	b := m.AddNode(geometry.NewPoint(0, 0, 3))
//	beam, _ := m.AddMember(a, b)
//	_, _ = m.AddSupport(a, structure.Fixed)
//	_, _ = m.AddLoad(b, geometry.NewVector(10, 0, 0), geometry.Vector{})
//
// Several supports or loads on the same node are stored side by side. The
// model does not combine them; summation is the job of a downstream solver.
//
// # Removing Nodes
//
// Like vertex removal in package mesh, node removal is a two-phase edit.
// [Model.PlanNodeRemoval] lists the members, supports and loads that
// reference the node; in [Restrict] mode any reference fails the plan with
// REFERENTIAL_INTEGRITY, in [Cascade] mode they are removed together with
// the node by [NodeRemoval.Apply].
package structure

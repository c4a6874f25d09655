package structure

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/identity"
)

// RemoveMode selects how node removal treats elements attached to the node.
type RemoveMode int

const (
	// Restrict fails while any member, support or load references the node.
	Restrict RemoveMode = iota
	// Cascade removes the referencing elements first.
	Cascade
)

// String returns "restrict" or "cascade".
func (m RemoveMode) String() string {
	if m == Cascade {
		return "cascade"
	}
	return "restrict"
}

// NodeRemoval is a validated, not yet applied node removal.
type NodeRemoval struct {
	model    *Model
	node     identity.ID
	members  []identity.ID
	supports []identity.ID
	loads    []identity.ID
	revision uint64
}

// Node returns the node to be removed.
func (r *NodeRemoval) Node() identity.ID { return r.node }

// Members returns the members that will be removed with the node.
func (r *NodeRemoval) Members() []identity.ID { return slices.Clone(r.members) }

// Supports returns the supports that will be removed with the node.
func (r *NodeRemoval) Supports() []identity.ID { return slices.Clone(r.supports) }

// Loads returns the loads that will be removed with the node.
func (r *NodeRemoval) Loads() []identity.ID { return slices.Clone(r.loads) }

// Apply performs the removal. It fails with STALE_PLAN if entities were
// added to or removed from the model since planning.
func (r *NodeRemoval) Apply() error {
	m := r.model
	if m.revision != r.revision {
		return errors.New(errors.CodeStalePlan, "model %s changed since removal of node %s was planned", m.ID, r.node)
	}
	for _, id := range r.members {
		m.removeMember(id)
	}
	for _, id := range r.supports {
		m.removeSupport(id)
	}
	for _, id := range r.loads {
		m.removeLoad(id)
	}
	delete(m.refs, r.node)
	m.nodes.remove(r.node)
	m.revision++
	return nil
}

// PlanNodeRemoval validates the removal of a node without changing the
// model.
//
// Returns UNKNOWN_NODE if the node does not exist. In [Restrict] mode a
// referenced node yields a *errors.ReferentialIntegrityError naming the
// referencing elements.
func (m *Model) PlanNodeRemoval(id identity.ID, mode RemoveMode) (*NodeRemoval, error) {
	if !m.nodes.has(id) {
		return nil, errors.New(errors.CodeUnknownNode, "node %s not in model", id)
	}
	r := &NodeRemoval{
		model:    m,
		node:     id,
		members:  m.MembersAt(id),
		supports: m.SupportsAt(id),
		loads:    m.LoadsAt(id),
		revision: m.revision,
	}
	if mode != Cascade && len(r.members)+len(r.supports)+len(r.loads) > 0 {
		return nil, &errors.ReferentialIntegrityError{
			Entity: "node",
			ID:     id.String(),
			Msg:    fmt.Sprintf("node %s is still referenced by %s", id, r.describe()),
		}
	}
	return r, nil
}

func (r *NodeRemoval) describe() string {
	var parts []string
	add := func(kind string, ids []identity.ID) {
		if len(ids) > 0 {
			parts = append(parts, fmt.Sprintf("%s %v", kind, identity.Strings(ids)))
		}
	}
	add("members", r.members)
	add("supports", r.supports)
	add("loads", r.loads)
	return strings.Join(parts, ", ")
}

// RemoveNode plans and applies a node removal in one step.
func (m *Model) RemoveNode(id identity.ID, mode RemoveMode) error {
	plan, err := m.PlanNodeRemoval(id, mode)
	if err != nil {
		return err
	}
	return plan.Apply()
}

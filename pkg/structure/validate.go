package structure

import (
	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/identity"
)

// Validate checks that every member, support and load references an
// existing node, and that the model name is valid. A dangling reference is
// reported as a *errors.ReferentialIntegrityError.
func (m *Model) Validate() error {
	if err := errors.ValidateName(m.Name); err != nil {
		return err
	}
	check := func(entity string, id identity.ID, nodes ...identity.ID) error {
		var missing []string
		for _, n := range nodes {
			if !m.nodes.has(n) {
				missing = append(missing, n.String())
			}
		}
		if len(missing) > 0 {
			return &errors.ReferentialIntegrityError{Entity: entity, ID: id.String(), Missing: missing}
		}
		return nil
	}
	for _, mb := range m.members.values() {
		if err := check("member", mb.ID, mb.Start, mb.End); err != nil {
			return err
		}
	}
	for _, s := range m.supports.values() {
		if err := check("support", s.ID, s.Node); err != nil {
			return err
		}
	}
	for _, l := range m.loads.values() {
		if err := check("load", l.ID, l.Node); err != nil {
			return err
		}
	}
	return nil
}

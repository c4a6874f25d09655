package identity

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/geometry"
)

// Meta is the identity and descriptive metadata shared by every
// identity-bearing container.
//
// The zero Meta has no parent, no adjacencies and the identity
// transformation.
type Meta struct {
	ID         ID
	Name       string
	Attributes Attributes

	// Parent is the enclosing object, or Nil for a top-level object. It is
	// a plain reference and need not resolve inside the same document.
	Parent ID

	adjacency []Adjacency
	xform     *geometry.Xform
}

// Adjacency is a typed link from one object to another, such as
// "connected_to" or "supports".
type Adjacency struct {
	ID   ID
	Type string
}

// NewMeta returns metadata with a fresh ID, the given name and empty
// attributes. The name is validated as in [Meta.SetName].
func NewMeta(name string) (Meta, error) {
	m := Meta{ID: New(), Attributes: NewAttributes()}
	if err := m.SetName(name); err != nil {
		return Meta{}, err
	}
	return m, nil
}

// SetName validates and sets the display name.
// Names are at most [errors.MaxNameLength] bytes.
func (m *Meta) SetName(name string) error {
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	m.Name = name
	return nil
}

// AddAdjacency appends a link to id. Links keep insertion order and may
// repeat. A nil id fails with INVALID_INPUT.
func (m *Meta) AddAdjacency(id ID, typ string) error {
	if id.IsNil() {
		return errors.New(errors.CodeInvalidInput, "adjacency %q: nil identity", typ)
	}
	// Copies of a Meta may share the backing array.
	m.adjacency = append(slices.Clip(m.adjacency), Adjacency{ID: id, Type: typ})
	return nil
}

// Adjacencies returns a copy of the links in insertion order.
func (m Meta) Adjacencies() []Adjacency { return slices.Clone(m.adjacency) }

// Adjacent returns the identities linked with the given type.
func (m Meta) Adjacent(typ string) []ID {
	var out []ID
	for _, a := range m.adjacency {
		if a.Type == typ {
			out = append(out, a.ID)
		}
	}
	return out
}

// ClearAdjacencies removes all links.
func (m *Meta) ClearAdjacencies() { m.adjacency = nil }

// Transformation returns the object's placement transform, identity unless
// set.
func (m Meta) Transformation() geometry.Xform {
	if m.xform == nil {
		return geometry.Identity()
	}
	return *m.xform
}

// SetTransformation stores a placement transform. The transform is kept as
// metadata; coordinates are not changed. Non-finite entries fail with
// INVALID_INPUT.
func (m *Meta) SetTransformation(x geometry.Xform) error {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.CodeInvalidInput, "transformation[%d] is %v", i, v)
		}
	}
	if x == geometry.Identity() {
		m.xform = nil
		return nil
	}
	m.xform = &x
	return nil
}

// ResetTransformation restores the identity transform.
func (m *Meta) ResetTransformation() { m.xform = nil }

// HasTransformation reports whether a non-identity transform is set.
func (m Meta) HasTransformation() bool { return m.xform != nil }

// Copy returns a deep copy. With keepID false the copy receives a fresh
// ID and becomes a distinct logical object; parent, links and
// transformation are kept either way.
func (m Meta) Copy(keepID bool) Meta {
	out := Meta{
		ID:         m.ID,
		Name:       m.Name,
		Attributes: m.Attributes.Clone(),
		Parent:     m.Parent,
		adjacency:  slices.Clone(m.adjacency),
	}
	if m.xform != nil {
		x := *m.xform
		out.xform = &x
	}
	if !keepID {
		out.ID = New()
	}
	return out
}

// String implements fmt.Stringer.
func (m Meta) String() string {
	if m.Name == "" {
		return m.ID.String()
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.ID)
}

package structure

import (
	"github.com/ErikKalkoken/go-set"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/geometry"
	"github.com/matzehuels/openmodel/pkg/identity"
)

// Node is a point of the structure that other elements attach to.
type Node struct {
	ID         identity.ID
	Point      geometry.Point
	Attributes identity.Attributes // never nil once part of a model
}

// Member connects two nodes. Its geometry is derived; see [Model.MemberLine].
type Member struct {
	ID         identity.ID
	Start      identity.ID
	End        identity.ID
	Attributes identity.Attributes // e.g. material, cross-section
}

// Support blocks degrees of freedom at a node.
type Support struct {
	ID         identity.ID
	Node       identity.ID
	Restraint  Restraint
	Attributes identity.Attributes
}

// Load is a force and moment acting on a node.
type Load struct {
	ID         identity.ID
	Node       identity.ID
	Force      geometry.Vector
	Moment     geometry.Vector
	Attributes identity.Attributes // e.g. load case
}

// Model is a structural element model. IDs are unique across all four
// entity kinds. The zero value is not usable; create models with [New] or
// [FromMeta].
//
// Model is not safe for concurrent mutation.
type Model struct {
	identity.Meta

	nodes    table[Node]
	members  table[Member]
	supports table[Support]
	loads    table[Load]
	refs     map[identity.ID]*set.Set[identity.ID] // node -> referencing element IDs
	revision uint64
}

// New creates an empty model with a fresh ID.
// Returns an INVALID_INPUT error for an invalid name.
func New(name string) (*Model, error) {
	meta, err := identity.NewMeta(name)
	if err != nil {
		return nil, err
	}
	return newModel(meta), nil
}

// FromMeta creates an empty model carrying existing identity and metadata.
func FromMeta(meta identity.Meta) (*Model, error) {
	if meta.ID.IsNil() {
		return nil, errors.New(errors.CodeInvalidInput, "model identity must not be nil")
	}
	if err := errors.ValidateName(meta.Name); err != nil {
		return nil, err
	}
	if meta.Attributes == nil {
		meta.Attributes = identity.NewAttributes()
	}
	return newModel(meta), nil
}

func newModel(meta identity.Meta) *Model {
	return &Model{
		Meta:     meta,
		nodes:    newTable[Node](),
		members:  newTable[Member](),
		supports: newTable[Support](),
		loads:    newTable[Load](),
		refs:     make(map[identity.ID]*set.Set[identity.ID]),
	}
}

// Revision returns a counter that increases whenever entities are added
// or removed. Moving nodes does not count.
func (m *Model) Revision() uint64 { return m.revision }

func (m *Model) checkNewID(id identity.ID) error {
	if id.IsNil() {
		return errors.New(errors.CodeInvalidInput, "identity must not be nil")
	}
	if m.nodes.has(id) || m.members.has(id) || m.supports.has(id) || m.loads.has(id) {
		return errors.New(errors.CodeDuplicateID, "identity %s already used in model %s", id, m.ID)
	}
	return nil
}

func (m *Model) checkNodes(ids ...identity.ID) error {
	var missing []identity.ID
	for _, id := range ids {
		if !m.nodes.has(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.CodeUnknownNode, "unknown nodes %v", identity.Strings(missing))
	}
	return nil
}

func (m *Model) ref(node, element identity.ID) {
	r, ok := m.refs[node]
	if !ok {
		r = &set.Set[identity.ID]{}
		m.refs[node] = r
	}
	r.Add(element)
}

func (m *Model) unref(node, element identity.ID) {
	if r, ok := m.refs[node]; ok {
		r.Delete(element)
		if r.Size() == 0 {
			delete(m.refs, node)
		}
	}
}

// ============================================================================
// Nodes
// ============================================================================

// AddNode adds a node at p with a fresh ID and returns the ID.
func (m *Model) AddNode(p geometry.Point) identity.ID {
	n := Node{ID: identity.New(), Point: p}
	m.putNode(n)
	return n.ID
}

// InsertNode adds a node with a caller-supplied ID.
// Returns INVALID_INPUT for the nil ID and DUPLICATE_ID on reuse.
func (m *Model) InsertNode(n Node) error {
	if err := m.checkNewID(n.ID); err != nil {
		return err
	}
	m.putNode(n)
	return nil
}

func (m *Model) putNode(n Node) {
	if n.Attributes == nil {
		n.Attributes = identity.NewAttributes()
	}
	m.nodes.put(n.ID, &n)
	m.revision++
}

// MoveNode sets the position of a node. Returns UNKNOWN_NODE if missing.
func (m *Model) MoveNode(id identity.ID, p geometry.Point) error {
	n, ok := m.nodes.get(id)
	if !ok {
		return errors.New(errors.CodeUnknownNode, "node %s not in model", id)
	}
	n.Point = p
	return nil
}

// Node returns a copy of the node and true, or the zero Node and false.
// The Attributes map is shared with the model.
func (m *Model) Node(id identity.ID) (Node, bool) {
	n, ok := m.nodes.get(id)
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// HasNode reports whether id is a node of the model.
func (m *Model) HasNode(id identity.ID) bool { return m.nodes.has(id) }

// Nodes returns all nodes in insertion order.
func (m *Model) Nodes() []Node { return m.nodes.values() }

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int { return m.nodes.len() }

// ============================================================================
// Members
// ============================================================================

// AddMember connects two existing nodes and returns the member ID.
// Returns UNKNOWN_NODE if either endpoint is not a node of this model.
// A member whose endpoints coincide is accepted; its line is degenerate.
func (m *Model) AddMember(start, end identity.ID) (identity.ID, error) {
	mb := Member{ID: identity.New(), Start: start, End: end}
	if err := m.checkNodes(start, end); err != nil {
		return identity.Nil, err
	}
	m.putMember(mb)
	return mb.ID, nil
}

// InsertMember adds a member with a caller-supplied ID, validated like
// [Model.AddMember].
func (m *Model) InsertMember(mb Member) error {
	if err := m.checkNewID(mb.ID); err != nil {
		return err
	}
	if err := m.checkNodes(mb.Start, mb.End); err != nil {
		return err
	}
	m.putMember(mb)
	return nil
}

func (m *Model) putMember(mb Member) {
	if mb.Attributes == nil {
		mb.Attributes = identity.NewAttributes()
	}
	m.members.put(mb.ID, &mb)
	m.ref(mb.Start, mb.ID)
	m.ref(mb.End, mb.ID)
	m.revision++
}

// RemoveMember removes a member. Its nodes stay.
// Returns UNKNOWN_MEMBER if missing.
func (m *Model) RemoveMember(id identity.ID) error {
	if !m.members.has(id) {
		return errors.New(errors.CodeUnknownMember, "member %s not in model", id)
	}
	m.removeMember(id)
	return nil
}

func (m *Model) removeMember(id identity.ID) {
	mb, _ := m.members.get(id)
	m.unref(mb.Start, id)
	m.unref(mb.End, id)
	m.members.remove(id)
	m.revision++
}

// Member returns a copy of the member and true, or the zero Member and false.
func (m *Model) Member(id identity.ID) (Member, bool) {
	mb, ok := m.members.get(id)
	if !ok {
		return Member{}, false
	}
	return *mb, true
}

// Members returns all members in insertion order.
func (m *Model) Members() []Member { return m.members.values() }

// MemberCount returns the number of members.
func (m *Model) MemberCount() int { return m.members.len() }

// MemberLine returns the line from the member's start node to its end node,
// computed from the current node positions.
// Returns UNKNOWN_MEMBER if the member does not exist.
func (m *Model) MemberLine(id identity.ID) (geometry.Line, error) {
	mb, ok := m.members.get(id)
	if !ok {
		return geometry.Line{}, errors.New(errors.CodeUnknownMember, "member %s not in model", id)
	}
	start, _ := m.nodes.get(mb.Start)
	end, _ := m.nodes.get(mb.End)
	return geometry.NewLine(start.Point, end.Point), nil
}

// MemberLength returns the current length of a member.
func (m *Model) MemberLength(id identity.ID) (float64, error) {
	l, err := m.MemberLine(id)
	if err != nil {
		return 0, err
	}
	return l.Length(), nil
}

// MembersAt returns the members that start or end at node, in insertion order.
func (m *Model) MembersAt(node identity.ID) []identity.ID {
	return referencing(&m.members, m.refs[node])
}

// ============================================================================
// Supports
// ============================================================================

// AddSupport attaches a support to a node and returns its ID.
// Returns UNKNOWN_NODE if the node is missing. A node may carry several
// supports.
func (m *Model) AddSupport(node identity.ID, r Restraint) (identity.ID, error) {
	if err := m.checkNodes(node); err != nil {
		return identity.Nil, err
	}
	s := Support{ID: identity.New(), Node: node, Restraint: r}
	m.putSupport(s)
	return s.ID, nil
}

// InsertSupport adds a support with a caller-supplied ID.
func (m *Model) InsertSupport(s Support) error {
	if err := m.checkNewID(s.ID); err != nil {
		return err
	}
	if err := m.checkNodes(s.Node); err != nil {
		return err
	}
	m.putSupport(s)
	return nil
}

func (m *Model) putSupport(s Support) {
	if s.Attributes == nil {
		s.Attributes = identity.NewAttributes()
	}
	m.supports.put(s.ID, &s)
	m.ref(s.Node, s.ID)
	m.revision++
}

// RemoveSupport removes a support. Returns UNKNOWN_SUPPORT if missing.
func (m *Model) RemoveSupport(id identity.ID) error {
	if !m.supports.has(id) {
		return errors.New(errors.CodeUnknownSupport, "support %s not in model", id)
	}
	m.removeSupport(id)
	return nil
}

func (m *Model) removeSupport(id identity.ID) {
	s, _ := m.supports.get(id)
	m.unref(s.Node, id)
	m.supports.remove(id)
	m.revision++
}

// Support returns a copy of the support and true, or the zero Support and false.
func (m *Model) Support(id identity.ID) (Support, bool) {
	s, ok := m.supports.get(id)
	if !ok {
		return Support{}, false
	}
	return *s, true
}

// Supports returns all supports in insertion order.
func (m *Model) Supports() []Support { return m.supports.values() }

// SupportCount returns the number of supports.
func (m *Model) SupportCount() int { return m.supports.len() }

// SupportsAt returns the supports attached to node, in insertion order.
func (m *Model) SupportsAt(node identity.ID) []identity.ID {
	return referencing(&m.supports, m.refs[node])
}

// ============================================================================
// Loads
// ============================================================================

// AddLoad applies a force and moment to a node and returns the load ID.
// Returns UNKNOWN_NODE if the node is missing. Loads on the same node are
// kept separately, never summed.
func (m *Model) AddLoad(node identity.ID, force, moment geometry.Vector) (identity.ID, error) {
	if err := m.checkNodes(node); err != nil {
		return identity.Nil, err
	}
	l := Load{ID: identity.New(), Node: node, Force: force, Moment: moment}
	m.putLoad(l)
	return l.ID, nil
}

// InsertLoad adds a load with a caller-supplied ID.
func (m *Model) InsertLoad(l Load) error {
	if err := m.checkNewID(l.ID); err != nil {
		return err
	}
	if err := m.checkNodes(l.Node); err != nil {
		return err
	}
	m.putLoad(l)
	return nil
}

func (m *Model) putLoad(l Load) {
	if l.Attributes == nil {
		l.Attributes = identity.NewAttributes()
	}
	m.loads.put(l.ID, &l)
	m.ref(l.Node, l.ID)
	m.revision++
}

// RemoveLoad removes a load. Returns UNKNOWN_LOAD if missing.
func (m *Model) RemoveLoad(id identity.ID) error {
	if !m.loads.has(id) {
		return errors.New(errors.CodeUnknownLoad, "load %s not in model", id)
	}
	m.removeLoad(id)
	return nil
}

func (m *Model) removeLoad(id identity.ID) {
	l, _ := m.loads.get(id)
	m.unref(l.Node, id)
	m.loads.remove(id)
	m.revision++
}

// Load returns a copy of the load and true, or the zero Load and false.
func (m *Model) Load(id identity.ID) (Load, bool) {
	l, ok := m.loads.get(id)
	if !ok {
		return Load{}, false
	}
	return *l, true
}

// Loads returns all loads in insertion order.
func (m *Model) Loads() []Load { return m.loads.values() }

// LoadCount returns the number of loads.
func (m *Model) LoadCount() int { return m.loads.len() }

// LoadsAt returns the loads acting on node, in insertion order.
func (m *Model) LoadsAt(node identity.ID) []identity.ID {
	return referencing(&m.loads, m.refs[node])
}

func referencing[T any](t *table[T], refs *set.Set[identity.ID]) []identity.ID {
	if refs == nil {
		return nil
	}
	var out []identity.ID
	for _, id := range t.order {
		if refs.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// ============================================================================
// Whole-model operations
// ============================================================================

// Transform applies x to every node position and the linear part of x to
// every load force and moment. Members follow their nodes.
func (m *Model) Transform(x geometry.Xform) {
	for _, n := range m.nodes.byID {
		n.Point = x.TransformPoint(n.Point)
	}
	for _, l := range m.loads.byID {
		l.Force = x.TransformVector(l.Force)
		l.Moment = x.TransformVector(l.Moment)
	}
}

// Clone returns a deep copy that keeps all identities.
func (m *Model) Clone() *Model {
	c := newModel(m.Meta.Copy(true))
	for _, n := range m.Nodes() {
		n.Attributes = n.Attributes.Clone()
		c.putNode(n)
	}
	for _, mb := range m.Members() {
		mb.Attributes = mb.Attributes.Clone()
		c.putMember(mb)
	}
	for _, s := range m.Supports() {
		s.Attributes = s.Attributes.Clone()
		c.putSupport(s)
	}
	for _, l := range m.Loads() {
		l.Attributes = l.Attributes.Clone()
		c.putLoad(l)
	}
	return c
}

package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/geometry"
	"github.com/matzehuels/openmodel/pkg/identity"
)

func newModelT(t *testing.T) *Model {
	t.Helper()
	m, err := New("frame")
	require.NoError(t, err)
	return m
}

// column builds a 3 m column fixed at its base with a lateral load on top.
func column(t *testing.T) (m *Model, base, top, member identity.ID) {
	t.Helper()
	m = newModelT(t)
	base = m.AddNode(geometry.NewPoint(0, 0, 0))
	top = m.AddNode(geometry.NewPoint(0, 0, 3))
	member, err := m.AddMember(base, top)
	require.NoError(t, err)
	_, err = m.AddSupport(base, Fixed)
	require.NoError(t, err)
	_, err = m.AddLoad(top, geometry.NewVector(10, 0, 0), geometry.Vector{})
	require.NoError(t, err)
	return m, base, top, member
}

func TestAddMemberUnknownNodes(t *testing.T) {
	m := newModelT(t)
	known := m.AddNode(geometry.Origin)

	tests := []struct {
		name       string
		start, end identity.ID
	}{
		{"both unregistered", identity.New(), identity.New()},
		{"start unregistered", identity.New(), known},
		{"end unregistered", known, identity.New()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.AddMember(tt.start, tt.end)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.CodeUnknownNode), "got %v", err)
			assert.Zero(t, m.MemberCount())
		})
	}
}

func TestMemberLineFollowsNodes(t *testing.T) {
	m, base, top, member := column(t)

	l, err := m.MemberLine(member)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewPoint(0, 0, 0), l.Start)
	assert.Equal(t, geometry.NewPoint(0, 0, 3), l.End)

	require.NoError(t, m.MoveNode(top, geometry.NewPoint(4, 0, 3)))
	length, err := m.MemberLength(member)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, length, geometry.Epsilon)

	require.NoError(t, m.MoveNode(base, geometry.NewPoint(4, 0, 0)))
	l, err = m.MemberLine(member)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewPoint(4, 0, 0), l.Start)

	_, err = m.MemberLine(identity.New())
	assert.True(t, errors.Is(err, errors.CodeUnknownMember))
	assert.True(t, errors.Is(m.MoveNode(identity.New(), geometry.Origin), errors.CodeUnknownNode))
}

func TestDegenerateMember(t *testing.T) {
	m := newModelT(t)
	n := m.AddNode(geometry.NewPoint(1, 1, 1))

	id, err := m.AddMember(n, n)
	require.NoError(t, err)
	l, err := m.MemberLine(id)
	require.NoError(t, err)
	assert.True(t, l.IsDegenerate())
}

func TestDuplicateSupportsAndLoads(t *testing.T) {
	m := newModelT(t)
	n := m.AddNode(geometry.Origin)

	s1, err := m.AddSupport(n, Pinned)
	require.NoError(t, err)
	s2, err := m.AddSupport(n, Pinned)
	require.NoError(t, err)
	f := geometry.NewVector(0, 0, -10)
	l1, err := m.AddLoad(n, f, geometry.Vector{})
	require.NoError(t, err)
	l2, err := m.AddLoad(n, f, geometry.Vector{})
	require.NoError(t, err)

	assert.Equal(t, []identity.ID{s1, s2}, m.SupportsAt(n))
	assert.Equal(t, []identity.ID{l1, l2}, m.LoadsAt(n))

	load, ok := m.Load(l2)
	require.True(t, ok)
	assert.Equal(t, f, load.Force, "loads are stored as given, never combined")
}

func TestAttachToUnknownNode(t *testing.T) {
	m := newModelT(t)
	_, err := m.AddSupport(identity.New(), Fixed)
	assert.True(t, errors.Is(err, errors.CodeUnknownNode))
	_, err = m.AddLoad(identity.New(), geometry.XAxis, geometry.Vector{})
	assert.True(t, errors.Is(err, errors.CodeUnknownNode))
}

func TestInsertElements(t *testing.T) {
	m := newModelT(t)
	n := Node{ID: identity.New(), Point: geometry.Origin}
	require.NoError(t, m.InsertNode(n))
	assert.True(t, errors.Is(m.InsertNode(n), errors.CodeDuplicateID))

	other := m.AddNode(geometry.XAxis.ToPoint())
	mb := Member{ID: identity.New(), Start: n.ID, End: other}
	require.NoError(t, m.InsertMember(mb))
	assert.True(t, errors.Is(m.InsertMember(mb), errors.CodeDuplicateID))
	assert.True(t, errors.Is(m.InsertMember(Member{ID: identity.New(), Start: n.ID, End: identity.New()}), errors.CodeUnknownNode))

	s := Support{ID: mb.ID, Node: n.ID, Restraint: Fixed}
	assert.True(t, errors.Is(m.InsertSupport(s), errors.CodeDuplicateID), "ids are unique across kinds")
	s.ID = identity.New()
	require.NoError(t, m.InsertSupport(s))

	l := Load{ID: identity.New(), Node: other, Force: geometry.ZAxis}
	require.NoError(t, m.InsertLoad(l))
	got, ok := m.Load(l.ID)
	require.True(t, ok)
	assert.NotNil(t, got.Attributes)
	require.NoError(t, m.Validate())
}

func TestRemoveElements(t *testing.T) {
	m, base, top, member := column(t)
	support := m.SupportsAt(base)[0]
	load := m.LoadsAt(top)[0]

	require.NoError(t, m.RemoveMember(member))
	require.NoError(t, m.RemoveSupport(support))
	require.NoError(t, m.RemoveLoad(load))

	assert.True(t, errors.Is(m.RemoveMember(member), errors.CodeUnknownMember))
	assert.True(t, errors.Is(m.RemoveSupport(support), errors.CodeUnknownSupport))
	assert.True(t, errors.Is(m.RemoveLoad(load), errors.CodeUnknownLoad))

	assert.Empty(t, m.MembersAt(base))
	require.NoError(t, m.RemoveNode(base, Restrict), "node is free once detached")
}

func TestTransform(t *testing.T) {
	m, _, top, member := column(t)
	r, err := geometry.Rotation(geometry.ZAxis, 1.5707963267948966)
	require.NoError(t, err)
	m.Transform(geometry.Translation(1, 0, 0).Mul(r))

	n, _ := m.Node(top)
	assert.True(t, n.Point.ApproxEqual(geometry.NewPoint(1, 0, 3)))
	l := m.Loads()[0]
	assert.True(t, l.Force.ApproxEqual(geometry.NewVector(0, 10, 0)), "got %v", l.Force)
	length, _ := m.MemberLength(member)
	assert.InDelta(t, 3.0, length, geometry.Epsilon)
}

func TestClone(t *testing.T) {
	m, _, top, _ := column(t)
	c := m.Clone()

	assert.Equal(t, m.ID, c.ID)
	assert.Equal(t, m.Nodes(), c.Nodes())
	assert.Equal(t, m.Members(), c.Members())
	assert.Equal(t, m.Supports(), c.Supports())
	assert.Equal(t, m.Loads(), c.Loads())

	require.NoError(t, c.RemoveNode(top, Cascade))
	assert.True(t, m.HasNode(top))
	assert.Equal(t, 1, m.MemberCount())
	require.NoError(t, c.Validate())
}

func TestListingOrder(t *testing.T) {
	m := newModelT(t)
	var want []identity.ID
	for i := 0; i < 10; i++ {
		want = append(want, m.AddNode(geometry.NewPoint(float64(i), 0, 0)))
	}
	var got []identity.ID
	for _, n := range m.Nodes() {
		got = append(got, n.ID)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 10, m.NodeCount())
}

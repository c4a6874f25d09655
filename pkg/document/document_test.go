package document

import (
	"encoding/json"
	stderrors "errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/geometry"
	"github.com/matzehuels/openmodel/pkg/identity"
	"github.com/matzehuels/openmodel/pkg/mesh"
	"github.com/matzehuels/openmodel/pkg/structure"
)

// sample builds a document with one tetrahedron mesh and a two-bar truss.
func sample(t *testing.T) *Document {
	t.Helper()
	doc, err := New("pavilion")
	require.NoError(t, err)
	require.NoError(t, doc.Attributes.SetString("author", "jm"))

	m, err := mesh.New("tetra")
	require.NoError(t, err)
	require.NoError(t, m.Attributes.SetVector("color", geometry.NewVector(0.8, 0.1, 0.1)))
	a := m.AddVertex(geometry.NewPoint(0, 0, 0))
	b := m.AddVertex(geometry.NewPoint(1, 0, 0))
	c := m.AddVertex(geometry.NewPoint(0, 1, 0))
	d := m.AddVertex(geometry.NewPoint(0.1, 0.2, 1.0/3))
	for _, loop := range [][]identity.ID{{a, c, b}, {a, b, d}, {b, c, d}, {c, a, d}} {
		_, err := m.AddFace(loop)
		require.NoError(t, err)
	}
	v, _ := m.Vertex(d)
	require.NoError(t, v.Attributes.SetFloat("weight", math.Pi))
	doc.Meshes = append(doc.Meshes, m)

	s, err := structure.New("truss")
	require.NoError(t, err)
	n1 := s.AddNode(geometry.NewPoint(0, 0, 0))
	n2 := s.AddNode(geometry.NewPoint(4, 0, 0))
	n3 := s.AddNode(geometry.NewPoint(2, 0, 1.5))
	for _, pair := range [][2]identity.ID{{n1, n3}, {n3, n2}, {n1, n2}} {
		id, err := s.AddMember(pair[0], pair[1])
		require.NoError(t, err)
		mb, _ := s.Member(id)
		require.NoError(t, mb.Attributes.SetString("section", "RHS 100x50x4"))
	}
	_, err = s.AddSupport(n1, structure.Pinned)
	require.NoError(t, err)
	_, err = s.AddSupport(n2, structure.TZ)
	require.NoError(t, err)
	l, err := s.AddLoad(n3, geometry.NewVector(0, 0, -10.5), geometry.Vector{})
	require.NoError(t, err)
	load, _ := s.Load(l)
	require.NoError(t, load.Attributes.SetInt("case", 1))
	doc.Structure = s
	return doc
}

func assertSameDocument(t *testing.T, want, got *Document) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.True(t, want.Attributes.Equal(got.Attributes), "document attributes")
	assertSameRelations(t, want.Meta, got.Meta)
	require.Len(t, got.Meshes, len(want.Meshes))

	for i, wm := range want.Meshes {
		gm := got.Meshes[i]
		assert.Equal(t, wm.ID, gm.ID)
		assert.Equal(t, wm.Name, gm.Name)
		assert.True(t, wm.Attributes.Equal(gm.Attributes), "mesh attributes")
		assertSameRelations(t, wm.Meta, gm.Meta)

		wv, gv := wm.Vertices(), gm.Vertices()
		require.Len(t, gv, len(wv))
		for j := range wv {
			assert.Equal(t, wv[j].ID, gv[j].ID)
			assert.Equal(t, wv[j].Point, gv[j].Point, "coordinates must round-trip exactly")
			assert.True(t, wv[j].Attributes.Equal(gv[j].Attributes))
		}
		wf, gf := wm.Faces(), gm.Faces()
		require.Len(t, gf, len(wf))
		for j := range wf {
			assert.Equal(t, wf[j].ID, gf[j].ID)
			assert.Equal(t, wf[j].Vertices, gf[j].Vertices)
			assert.True(t, wf[j].Attributes.Equal(gf[j].Attributes))
		}
	}

	if want.Structure == nil {
		assert.Nil(t, got.Structure)
		return
	}
	ws, gs := want.Structure, got.Structure
	require.NotNil(t, gs)
	assert.Equal(t, ws.ID, gs.ID)
	assertSameRelations(t, ws.Meta, gs.Meta)
	require.Equal(t, ws.NodeCount(), gs.NodeCount())
	for i, n := range ws.Nodes() {
		g := gs.Nodes()[i]
		assert.Equal(t, n.ID, g.ID)
		assert.Equal(t, n.Point, g.Point)
	}
	for i, mb := range ws.Members() {
		g := gs.Members()[i]
		assert.Equal(t, [3]identity.ID{mb.ID, mb.Start, mb.End}, [3]identity.ID{g.ID, g.Start, g.End})
		assert.True(t, mb.Attributes.Equal(g.Attributes))
	}
	for i, s := range ws.Supports() {
		g := gs.Supports()[i]
		assert.Equal(t, s.ID, g.ID)
		assert.Equal(t, s.Node, g.Node)
		assert.Equal(t, s.Restraint, g.Restraint)
	}
	for i, l := range ws.Loads() {
		g := gs.Loads()[i]
		assert.Equal(t, l.ID, g.ID)
		assert.Equal(t, l.Force, g.Force)
		assert.Equal(t, l.Moment, g.Moment)
		assert.True(t, l.Attributes.Equal(g.Attributes))
	}
}

func assertSameRelations(t *testing.T, want, got identity.Meta) {
	t.Helper()
	assert.Equal(t, want.Parent, got.Parent, "parent of %s", want.ID)
	assert.Equal(t, want.Adjacencies(), got.Adjacencies(), "adjacency of %s", want.ID)
	assert.Equal(t, want.Transformation(), got.Transformation(), "transformation of %s", want.ID)
}

// related adds parent, adjacency and placement metadata to a sample.
func related(t *testing.T) *Document {
	t.Helper()
	doc := sample(t)
	doc.Parent = identity.New()
	m := doc.Meshes[0]
	m.Parent = doc.ID
	require.NoError(t, m.AddAdjacency(doc.Structure.ID, "represents"))
	require.NoError(t, m.AddAdjacency(identity.New(), "touches"))
	r, err := geometry.Rotation(geometry.ZAxis, 0.3)
	require.NoError(t, err)
	require.NoError(t, m.SetTransformation(geometry.Translation(1e-7, -2, 3).Mul(r)))
	require.NoError(t, doc.Structure.SetTransformation(geometry.Scaling(0.001, 0.001, 0.001)))
	return doc
}

func TestRoundTripRelations(t *testing.T) {
	doc := related(t)

	text, err := ToText(doc)
	require.NoError(t, err)
	assert.Contains(t, string(text), `"transformation"`)
	assert.Contains(t, string(text), `"type": "represents"`)
	got, err := FromText(text)
	require.NoError(t, err)
	assertSameDocument(t, doc, got)

	data, err := ToYAML(doc)
	require.NoError(t, err)
	got, err = FromYAML(data)
	require.NoError(t, err)
	assertSameDocument(t, doc, got)

	plain, err := ToText(sample(t))
	require.NoError(t, err)
	assert.NotContains(t, string(plain), `"transformation"`)
	assert.NotContains(t, string(plain), `"parent"`)
}

func TestFromTextRelationErrors(t *testing.T) {
	base, err := ToText(related(t))
	require.NoError(t, err)
	var tree map[string]any
	require.NoError(t, json.Unmarshal(base, &tree))
	meshes := tree["meshes"].([]any)
	m := meshes[0].(map[string]any)

	tests := []struct {
		name string
		key  string
		val  any
		path string
	}{
		{"short transformation", "transformation", []any{1, 0, 0, 1}, "meshes[0].transformation"},
		{"bad parent", "parent", "not-a-guid", "meshes[0].parent"},
		{"bad adjacency", "adjacency", []any{map[string]any{"guid": "x", "type": "touches"}}, "meshes[0].adjacency[0].guid"},
		{"nil adjacency", "adjacency", []any{map[string]any{"guid": identity.Nil.String(), "type": "touches"}}, "meshes[0].adjacency[0].guid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := m[tt.key]
			m[tt.key] = tt.val
			defer func() { m[tt.key] = saved }()
			data, err := json.Marshal(tree)
			require.NoError(t, err)

			_, err = FromText(data)
			var pe *errors.ParseError
			require.True(t, stderrors.As(err, &pe), "got %v", err)
			assert.Equal(t, tt.path, pe.Path)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	doc := sample(t)

	text, err := ToText(doc)
	require.NoError(t, err)

	got, err := FromText(text)
	require.NoError(t, err)
	assertSameDocument(t, doc, got)
	require.NoError(t, got.Validate())

	again, err := ToText(got)
	require.NoError(t, err)
	assert.Equal(t, string(text), string(again), "encoding must be deterministic")
}

func TestRoundTripFloatPrecision(t *testing.T) {
	doc, err := New("floats")
	require.NoError(t, err)
	m, err := mesh.New("m")
	require.NoError(t, err)
	values := []float64{
		0.1 + 0.2, 1e-300, -1e300, math.SmallestNonzeroFloat64,
		math.MaxFloat64, 1.0 / 3, -0.0, 123456789.123456789,
	}
	for _, f := range values {
		m.AddVertex(geometry.NewPoint(f, -f, f/7))
	}
	doc.Meshes = []*mesh.Mesh{m}

	text, err := ToText(doc)
	require.NoError(t, err)
	got, err := FromText(text)
	require.NoError(t, err)

	for i, v := range got.Meshes[0].Vertices() {
		want := m.Vertices()[i].Point
		assert.Equal(t, want, v.Point)
		assert.Equal(t, math.Signbit(want.Y), math.Signbit(v.Point.Y))
	}
}

func TestToTextNonFinite(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T, doc *Document)
		path  string
	}{
		{"vertex", func(t *testing.T, doc *Document) {
			doc.Meshes[0].AddVertex(geometry.NewPoint(math.NaN(), 0, 0))
		}, "meshes[0].vertices[4].point"},
		{"load", func(t *testing.T, doc *Document) {
			n := doc.Structure.Nodes()[0].ID
			_, err := doc.Structure.AddLoad(n, geometry.NewVector(0, math.Inf(1), 0), geometry.Vector{})
			require.NoError(t, err)
		}, "structure.loads[1].force"},
		{"attribute", func(t *testing.T, doc *Document) {
			require.NoError(t, doc.Attributes.SetFloat("bad", math.Inf(-1)))
		}, "attributes.bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sample(t)
			tt.build(t, doc)
			_, err := ToText(doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.CodeInvalidInput), "got %v", err)
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

func TestFromTextMissingVertex(t *testing.T) {
	doc := sample(t)
	m := doc.Meshes[0]
	victim := m.Vertices()[1].ID

	text, err := ToText(doc)
	require.NoError(t, err)

	// Drop the vertex entry from the text while faces still reference it.
	tampered := dropVertex(t, string(text), victim)

	_, err = FromText([]byte(tampered))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeReferentialIntegrity), "got %v", err)

	var rie *errors.ReferentialIntegrityError
	require.True(t, stderrors.As(err, &rie))
	assert.Equal(t, "face", rie.Entity)
	assert.Equal(t, []string{victim.String()}, rie.Missing)
}

// dropVertex removes the vertex object with the given guid from indented
// JSON produced by ToText.
func dropVertex(t *testing.T, text string, id identity.ID) string {
	t.Helper()
	key := `"guid": "` + id.String() + `"`
	at := strings.Index(text, key)
	require.Positive(t, at)
	start := strings.LastIndex(text[:at], "{")
	end := at + strings.Index(text[at:], "}") + 1
	// The last vertex is followed by "]" rather than ",", so eat the comma
	// before it instead.
	if strings.HasPrefix(strings.TrimSpace(text[end:]), ",") {
		end += strings.Index(text[end:], ",") + 1
	} else {
		start = strings.LastIndex(text[:start], ",")
	}
	return text[:start] + text[end:]
}

func TestFromTextMemberReferences(t *testing.T) {
	n1, n2, ghost := identity.New(), identity.New(), identity.New()
	text := `{
  "format": "openmodel", "version": 1, "guid": "` + identity.New().String() + `",
  "meshes": [],
  "structure": {
    "guid": "` + identity.New().String() + `",
    "nodes": [
      {"guid": "` + n1.String() + `", "point": [0, 0, 0]},
      {"guid": "` + n2.String() + `", "point": [1, 0, 0]}
    ],
    "members": [{"guid": "` + identity.New().String() + `", "start": "` + n1.String() + `", "end": "` + ghost.String() + `"}],
    "supports": [], "loads": []
  }
}`
	_, err := FromText([]byte(text))
	var rie *errors.ReferentialIntegrityError
	require.True(t, stderrors.As(err, &rie), "got %v", err)
	assert.Equal(t, "member", rie.Entity)
	assert.Equal(t, []string{ghost.String()}, rie.Missing)
}

func TestFromTextParseErrors(t *testing.T) {
	guid := identity.New().String()
	header := `"format": "openmodel", "version": 1, "guid": "` + guid + `"`

	tests := []struct {
		name     string
		in       string
		wantPath string
		wantLine int
	}{
		{"empty", ``, "", 1},
		{"truncated", "{\n  " + header + ",\n  \"meshes\": [", "", 3},
		{"syntax", "{\n  " + header + ",\n  \"meshes\": [}\n}", "", 3},
		{"wrong type", "{\n  " + header + ",\n  \"meshes\": 5\n}", "meshes", 3},
		{"wrong format", `{"format": "stl", "version": 1}`, "format", 0},
		{"future version", `{"format": "openmodel", "version": 2}`, "version", 0},
		{"bad guid", `{"format": "openmodel", "version": 1, "guid": "xyz"}`, "guid", 0},
		{"short point", `{` + header + `, "meshes": [{"guid": "` + identity.New().String() + `",
			"vertices": [{"guid": "` + identity.New().String() + `", "point": [1, 2]}], "faces": []}]}`,
			"meshes[0].vertices[0].point", 0},
		{"bad attribute", `{` + header + `, "attributes": {"k": {"type": "float", "value": "x"}}, "meshes": []}`,
			"attributes.k", 0},
		{"bad restraint", `{` + header + `, "meshes": [], "structure": {"guid": "` + identity.New().String() + `",
			"nodes": [{"guid": "` + guid + `", "point": [0,0,0]}],
			"supports": [{"guid": "` + identity.New().String() + `", "node": "` + guid + `", "restraint": "TQ"}]}}`,
			"structure.supports[0].restraint", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromText([]byte(tt.in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.CodeParse), "got %v", err)

			var pe *errors.ParseError
			require.True(t, stderrors.As(err, &pe))
			assert.Equal(t, tt.wantPath, pe.Path)
			if tt.wantLine > 0 {
				assert.Equal(t, tt.wantLine, pe.Line)
				assert.Positive(t, pe.Column)
			}
		})
	}
}

func TestFromTextDuplicateIdentity(t *testing.T) {
	v := identity.New().String()
	text := `{"format": "openmodel", "version": 1, "guid": "` + identity.New().String() + `",
		"meshes": [{"guid": "` + identity.New().String() + `", "vertices": [
			{"guid": "` + v + `", "point": [0, 0, 0]},
			{"guid": "` + v + `", "point": [1, 0, 0]}], "faces": []}]}`

	_, err := FromText([]byte(text))
	assert.True(t, errors.Is(err, errors.CodeParse))
	assert.True(t, errors.Is(err, errors.CodeDuplicateID))
}

func TestPosition(t *testing.T) {
	data := []byte("ab\ncd\n\nefg")
	tests := []struct {
		offset    int64
		line, col int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{7, 4, 1},
		{9, 4, 3},
		{100, 4, 4},
	}
	for _, tt := range tests {
		line, col := position(data, tt.offset)
		assert.Equal(t, tt.line, line, "offset %d", tt.offset)
		assert.Equal(t, tt.col, col, "offset %d", tt.offset)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	doc := sample(t)

	data, err := ToYAML(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "format: openmodel")

	got, err := FromYAML(data)
	require.NoError(t, err)
	assertSameDocument(t, doc, got)

	_, err = FromYAML([]byte("format: [unclosed"))
	assert.True(t, errors.Is(err, errors.CodeParse))
}

func TestYAMLRoundTripFloatForms(t *testing.T) {
	values := []float64{
		1e-7, math.SmallestNonzeroFloat64, 1e21, math.Copysign(0, -1),
		-2.5e-300, 1e20, math.MaxFloat64, 3,
	}
	for _, f := range values {
		t.Run(strconv.FormatFloat(f, 'g', -1, 64), func(t *testing.T) {
			doc, err := New("floats")
			require.NoError(t, err)
			s, err := structure.New("s")
			require.NoError(t, err)
			n := s.AddNode(geometry.NewPoint(f, 1, -f))
			_, err = s.AddLoad(n, geometry.NewVector(0, f, 0), geometry.Vector{})
			require.NoError(t, err)
			doc.Structure = s

			data, err := ToYAML(doc)
			require.NoError(t, err)
			got, err := FromYAML(data)
			require.NoError(t, err, "yaml:\n%s", data)

			node, ok := got.Structure.Node(n)
			require.True(t, ok)
			assert.Equal(t, f, node.Point.X)
			assert.Equal(t, math.Signbit(f), math.Signbit(node.Point.X))
			assert.Equal(t, math.Signbit(-f), math.Signbit(node.Point.Z))
			loads := got.Structure.Loads()
			require.Len(t, loads, 1)
			assert.Equal(t, f, loads[0].Force.Y)
		})
	}
}

func TestFiles(t *testing.T) {
	doc := sample(t)
	dir := t.TempDir()

	for _, name := range []string{"model.json", "model.json.zst", "model.yaml", "model.yml.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, ExportFile(doc, path))

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, strings.HasSuffix(name, ".zst"), IsCompressed(raw))

			got, err := ImportFile(path)
			require.NoError(t, err)
			assertSameDocument(t, doc, got)
		})
	}

	path := filepath.Join(dir, "plain.json.zst")
	require.NoError(t, ExportJSON(doc, path))
	got, err := ImportJSON(path)
	require.NoError(t, err)
	assertSameDocument(t, doc, got)

	_, err = ImportJSON(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestEncodingFor(t *testing.T) {
	tests := []struct {
		path       string
		enc        Encoding
		compressed bool
	}{
		{"a.json", EncodingJSON, false},
		{"a.JSON.ZST", EncodingJSON, true},
		{"dir.yaml/a.om", EncodingJSON, false},
		{"a.yml", EncodingYAML, false},
		{"a.yaml.zst", EncodingYAML, true},
	}
	for _, tt := range tests {
		enc, compressed := EncodingFor(tt.path)
		assert.Equal(t, tt.enc, enc, tt.path)
		assert.Equal(t, tt.compressed, compressed, tt.path)
	}
}

func TestCompress(t *testing.T) {
	plain := []byte(strings.Repeat("openmodel ", 100))
	packed, err := Compress(plain)
	require.NoError(t, err)
	assert.True(t, IsCompressed(packed))
	assert.Less(t, len(packed), len(plain))

	back, err := Decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, plain, back)

	same, err := Decompress(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, same)

	_, err = Decompress(append(append([]byte{}, zstdMagic...), 1, 2, 3))
	assert.True(t, errors.Is(err, errors.CodeParse))
}

func TestValidateAndStats(t *testing.T) {
	doc := sample(t)
	require.NoError(t, doc.Validate())

	assert.Equal(t, Stats{Meshes: 1, Vertices: 4, Faces: 4, Nodes: 3, Members: 3, Supports: 2, Loads: 1}, doc.Stats())

	doc.Meshes = append(doc.Meshes, doc.Meshes[0])
	assert.True(t, errors.Is(doc.Validate(), errors.CodeDuplicateID))

	m, ok := doc.MeshByName("tetra")
	require.True(t, ok)
	same, ok := doc.Mesh(m.ID)
	require.True(t, ok)
	assert.Same(t, m, same)
}

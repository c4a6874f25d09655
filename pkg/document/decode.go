package document

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"slices"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/geometry"
	"github.com/matzehuels/openmodel/pkg/identity"
	"github.com/matzehuels/openmodel/pkg/mesh"
	"github.com/matzehuels/openmodel/pkg/structure"
)

// FromText decodes a JSON document.
//
// Structurally invalid input fails with an *errors.ParseError; this
// includes malformed JSON, a wrong format tag or version, malformed
// identities, coordinates that are not triples, duplicate identities and
// faces with fewer than three distinct vertices. A reference to an identity
// that is absent from the document fails with an
// *errors.ReferentialIntegrityError.
func FromText(data []byte) (*Document, error) {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, syntaxError(data, err)
	}
	if in.Format != Format {
		return nil, parseErr("format", nil, "not an %s document (format %q)", Format, in.Format)
	}
	if in.Version != Version {
		return nil, parseErr("version", nil, "unsupported version %d", in.Version)
	}

	doc := &Document{}
	var err error
	if doc.Meta, err = decodeMeta(in.metaJSON, ""); err != nil {
		return nil, err
	}
	for i, mj := range in.Meshes {
		m, err := decodeMesh(mj, fmt.Sprintf("meshes[%d]", i))
		if err != nil {
			return nil, err
		}
		if _, dup := doc.Mesh(m.ID); dup {
			return nil, parseErr(fmt.Sprintf("meshes[%d].guid", i), errors.New(errors.CodeDuplicateID, "mesh %s", m.ID), "duplicate mesh")
		}
		doc.Meshes = append(doc.Meshes, m)
	}
	if in.Structure != nil {
		if doc.Structure, err = decodeStructure(in.Structure); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// ReadJSON reads r to the end and decodes it with [FromText].
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return FromText(data)
}

func parseErr(path string, cause error, format string, args ...any) *errors.ParseError {
	return &errors.ParseError{Offset: -1, Path: path, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// syntaxError converts an encoding/json failure into a ParseError with
// position information.
func syntaxError(data []byte, err error) error {
	var (
		syn *json.SyntaxError
		typ *json.UnmarshalTypeError
	)
	pe := &errors.ParseError{Offset: -1, Msg: "invalid JSON", Cause: err}
	switch {
	case stderrors.As(err, &syn):
		pe.Offset = syn.Offset
	case stderrors.As(err, &typ):
		pe.Offset = typ.Offset
		pe.Path = typ.Field
		pe.Msg = fmt.Sprintf("expected %s, got %s", typ.Type, typ.Value)
	case stderrors.Is(err, io.ErrUnexpectedEOF):
		pe.Offset = int64(len(data))
	}
	if pe.Offset >= 0 {
		pe.Line, pe.Column = position(data, pe.Offset)
	}
	return pe
}

// position returns the 1-based line and column of a byte offset.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	prefix := data[:offset]
	line = bytes.Count(prefix, []byte{'\n'}) + 1
	col = int(offset) - bytes.LastIndexByte(prefix, '\n')
	return line, col
}

func parseID(s, path string) (identity.ID, error) {
	id, err := identity.Parse(s)
	if err != nil {
		return identity.Nil, parseErr(path, err, "invalid identity")
	}
	return id, nil
}

// parseRefs parses identities used as references. Malformed references are
// parse errors; well-formed ones are resolved by the caller.
func parseRefs(ss []string, path string) ([]identity.ID, error) {
	out := make([]identity.ID, len(ss))
	for i, s := range ss {
		id, err := parseID(s, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func decodeMeta(in metaJSON, path string) (identity.Meta, error) {
	prefix := path
	if prefix != "" {
		prefix += "."
	}
	id, err := parseID(in.GUID, prefix+"guid")
	if err != nil {
		return identity.Meta{}, err
	}
	if err := errors.ValidateName(in.Name); err != nil {
		return identity.Meta{}, parseErr(prefix+"name", err, "invalid name")
	}
	a, err := decodeAttributes(in.Attributes, prefix+"attributes")
	if err != nil {
		return identity.Meta{}, err
	}
	meta := identity.Meta{ID: id, Name: in.Name, Attributes: a}

	if in.Parent != "" {
		if meta.Parent, err = parseID(in.Parent, prefix+"parent"); err != nil {
			return identity.Meta{}, err
		}
	}
	for i, aj := range in.Adjacency {
		apath := fmt.Sprintf("%sadjacency[%d].guid", prefix, i)
		other, err := parseID(aj.GUID, apath)
		if err != nil {
			return identity.Meta{}, err
		}
		if err := meta.AddAdjacency(other, aj.Type); err != nil {
			return identity.Meta{}, parseErr(apath, err, "invalid adjacency")
		}
	}
	if in.Transformation != nil {
		if len(in.Transformation) != 16 {
			return identity.Meta{}, parseErr(prefix+"transformation", nil, "expected 16 values, got %d", len(in.Transformation))
		}
		if err := meta.SetTransformation(geometry.Xform(in.Transformation)); err != nil {
			return identity.Meta{}, parseErr(prefix+"transformation", err, "invalid transformation")
		}
	}
	return meta, nil
}

func decodeAttributes(in attributesJSON, path string) (identity.Attributes, error) {
	out := identity.NewAttributes()
	for k, raw := range in {
		var v identity.Value
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, parseErr(path+"."+k, err, "invalid attribute")
		}
		if err := out.Set(k, v); err != nil {
			return nil, parseErr(path+"."+k, err, "invalid attribute")
		}
	}
	return out, nil
}

func decodeTriple(a []float64, path string) ([3]float64, error) {
	if len(a) != 3 {
		return [3]float64{}, parseErr(path, nil, "expected 3 components, got %d", len(a))
	}
	return [3]float64{a[0], a[1], a[2]}, nil
}

func decodeMesh(in meshJSON, path string) (*mesh.Mesh, error) {
	meta, err := decodeMeta(in.metaJSON, path)
	if err != nil {
		return nil, err
	}
	m, err := mesh.FromMeta(meta)
	if err != nil {
		return nil, parseErr(path, err, "invalid mesh")
	}

	for i, vj := range in.Vertices {
		vpath := fmt.Sprintf("%s.vertices[%d]", path, i)
		id, err := parseID(vj.GUID, vpath+".guid")
		if err != nil {
			return nil, err
		}
		p, err := decodeTriple(vj.Point, vpath+".point")
		if err != nil {
			return nil, err
		}
		attrs, err := decodeAttributes(vj.Attributes, vpath+".attributes")
		if err != nil {
			return nil, err
		}
		v := mesh.Vertex{ID: id, Point: geometry.PointFromArray(p), Attributes: attrs}
		if err := m.InsertVertex(v); err != nil {
			return nil, parseErr(vpath+".guid", err, "cannot add vertex")
		}
	}

	for i, fj := range in.Faces {
		fpath := fmt.Sprintf("%s.faces[%d]", path, i)
		id, err := parseID(fj.GUID, fpath+".guid")
		if err != nil {
			return nil, err
		}
		ids, err := parseRefs(fj.Vertices, fpath+".vertices")
		if err != nil {
			return nil, err
		}
		if missing := unresolved(ids, m.HasVertex); len(missing) > 0 {
			return nil, &errors.ReferentialIntegrityError{Entity: "face", ID: id.String(), Missing: missing}
		}
		attrs, err := decodeAttributes(fj.Attributes, fpath+".attributes")
		if err != nil {
			return nil, err
		}
		if err := m.InsertFace(mesh.Face{ID: id, Vertices: ids, Attributes: attrs}); err != nil {
			return nil, parseErr(fpath, err, "cannot add face")
		}
	}
	return m, nil
}

func decodeStructure(in *structureJSON) (*structure.Model, error) {
	const path = "structure"
	meta, err := decodeMeta(in.metaJSON, path)
	if err != nil {
		return nil, err
	}
	s, err := structure.FromMeta(meta)
	if err != nil {
		return nil, parseErr(path, err, "invalid structure")
	}

	for i, nj := range in.Nodes {
		npath := fmt.Sprintf("%s.nodes[%d]", path, i)
		id, err := parseID(nj.GUID, npath+".guid")
		if err != nil {
			return nil, err
		}
		p, err := decodeTriple(nj.Point, npath+".point")
		if err != nil {
			return nil, err
		}
		attrs, err := decodeAttributes(nj.Attributes, npath+".attributes")
		if err != nil {
			return nil, err
		}
		if err := s.InsertNode(structure.Node{ID: id, Point: geometry.PointFromArray(p), Attributes: attrs}); err != nil {
			return nil, parseErr(npath+".guid", err, "cannot add node")
		}
	}

	for i, mj := range in.Members {
		mpath := fmt.Sprintf("%s.members[%d]", path, i)
		id, err := parseID(mj.GUID, mpath+".guid")
		if err != nil {
			return nil, err
		}
		start, err := parseID(mj.Start, mpath+".start")
		if err != nil {
			return nil, err
		}
		end, err := parseID(mj.End, mpath+".end")
		if err != nil {
			return nil, err
		}
		if missing := unresolved([]identity.ID{start, end}, s.HasNode); len(missing) > 0 {
			return nil, &errors.ReferentialIntegrityError{Entity: "member", ID: id.String(), Missing: missing}
		}
		attrs, err := decodeAttributes(mj.Attributes, mpath+".attributes")
		if err != nil {
			return nil, err
		}
		if err := s.InsertMember(structure.Member{ID: id, Start: start, End: end, Attributes: attrs}); err != nil {
			return nil, parseErr(mpath+".guid", err, "cannot add member")
		}
	}

	for i, sj := range in.Supports {
		spath := fmt.Sprintf("%s.supports[%d]", path, i)
		id, node, err := decodeAttached(sj.GUID, sj.Node, spath, "support", s)
		if err != nil {
			return nil, err
		}
		r, err := structure.ParseRestraint(sj.Restraint)
		if err != nil {
			return nil, parseErr(spath+".restraint", err, "invalid restraint")
		}
		attrs, err := decodeAttributes(sj.Attributes, spath+".attributes")
		if err != nil {
			return nil, err
		}
		if err := s.InsertSupport(structure.Support{ID: id, Node: node, Restraint: r, Attributes: attrs}); err != nil {
			return nil, parseErr(spath+".guid", err, "cannot add support")
		}
	}

	for i, lj := range in.Loads {
		lpath := fmt.Sprintf("%s.loads[%d]", path, i)
		id, node, err := decodeAttached(lj.GUID, lj.Node, lpath, "load", s)
		if err != nil {
			return nil, err
		}
		force, err := decodeTriple(lj.Force, lpath+".force")
		if err != nil {
			return nil, err
		}
		var moment [3]float64
		if lj.Moment != nil {
			if moment, err = decodeTriple(lj.Moment, lpath+".moment"); err != nil {
				return nil, err
			}
		}
		attrs, err := decodeAttributes(lj.Attributes, lpath+".attributes")
		if err != nil {
			return nil, err
		}
		l := structure.Load{
			ID:         id,
			Node:       node,
			Force:      geometry.VectorFromArray(force),
			Moment:     geometry.VectorFromArray(moment),
			Attributes: attrs,
		}
		if err := s.InsertLoad(l); err != nil {
			return nil, parseErr(lpath+".guid", err, "cannot add load")
		}
	}
	return s, nil
}

// attached parses the identity of a node-attached element and resolves its
// node reference.
func decodeAttached(guid, node, path, entity string, s *structure.Model) (identity.ID, identity.ID, error) {
	id, err := parseID(guid, path+".guid")
	if err != nil {
		return identity.Nil, identity.Nil, err
	}
	n, err := parseID(node, path+".node")
	if err != nil {
		return identity.Nil, identity.Nil, err
	}
	if !s.HasNode(n) {
		return identity.Nil, identity.Nil, &errors.ReferentialIntegrityError{Entity: entity, ID: id.String(), Missing: []string{n.String()}}
	}
	return id, n, nil
}

func unresolved(ids []identity.ID, has func(identity.ID) bool) []string {
	var missing []string
	for _, id := range ids {
		if !has(id) {
			s := id.String()
			if !slices.Contains(missing, s) {
				missing = append(missing, s)
			}
		}
	}
	return missing
}

package document

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/geometry"
	"github.com/matzehuels/openmodel/pkg/identity"
)

// ToText encodes doc as indented JSON.
//
// Returns an INVALID_INPUT error naming the path of the first NaN or
// infinite coordinate, vector component or float attribute.
func ToText(doc *Document) ([]byte, error) {
	out, err := toWire(doc)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "encode document %s", doc.ID)
	}
	return append(data, '\n'), nil
}

// WriteJSON encodes doc as JSON and writes it to w.
func WriteJSON(doc *Document, w io.Writer) error {
	data, err := ToText(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func toWire(doc *Document) (*documentJSON, error) {
	meta, err := encodeMeta(doc.Meta, "")
	if err != nil {
		return nil, err
	}
	out := &documentJSON{
		Format:   Format,
		Version:  Version,
		metaJSON: meta,
		Meshes:   make([]meshJSON, 0, len(doc.Meshes)),
	}

	for i, m := range doc.Meshes {
		path := fmt.Sprintf("meshes[%d]", i)
		var mj meshJSON
		if mj.metaJSON, err = encodeMeta(m.Meta, path); err != nil {
			return nil, err
		}
		for j, v := range m.Vertices() {
			vpath := fmt.Sprintf("%s.vertices[%d]", path, j)
			vj := vertexJSON{GUID: v.ID.String()}
			if vj.Point, err = encodePoint(v.Point, vpath+".point"); err != nil {
				return nil, err
			}
			if vj.Attributes, err = encodeAttributes(v.Attributes, vpath+".attributes"); err != nil {
				return nil, err
			}
			mj.Vertices = append(mj.Vertices, vj)
		}
		for j, f := range m.Faces() {
			fj := faceJSON{GUID: f.ID.String(), Vertices: identity.Strings(f.Vertices)}
			if fj.Attributes, err = encodeAttributes(f.Attributes, fmt.Sprintf("%s.faces[%d].attributes", path, j)); err != nil {
				return nil, err
			}
			mj.Faces = append(mj.Faces, fj)
		}
		if mj.Vertices == nil {
			mj.Vertices = []vertexJSON{}
		}
		if mj.Faces == nil {
			mj.Faces = []faceJSON{}
		}
		out.Meshes = append(out.Meshes, mj)
	}

	if doc.Structure != nil {
		if out.Structure, err = encodeStructure(doc); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func encodeStructure(doc *Document) (*structureJSON, error) {
	s := doc.Structure
	meta, err := encodeMeta(s.Meta, "structure")
	if err != nil {
		return nil, err
	}
	out := &structureJSON{
		metaJSON: meta,
		Nodes:    []nodeJSON{},
		Members:  []memberJSON{},
		Supports: []supportJSON{},
		Loads:    []loadJSON{},
	}

	for i, n := range s.Nodes() {
		path := fmt.Sprintf("structure.nodes[%d]", i)
		nj := nodeJSON{GUID: n.ID.String()}
		if nj.Point, err = encodePoint(n.Point, path+".point"); err != nil {
			return nil, err
		}
		if nj.Attributes, err = encodeAttributes(n.Attributes, path+".attributes"); err != nil {
			return nil, err
		}
		out.Nodes = append(out.Nodes, nj)
	}
	for i, mb := range s.Members() {
		mj := memberJSON{GUID: mb.ID.String(), Start: mb.Start.String(), End: mb.End.String()}
		if mj.Attributes, err = encodeAttributes(mb.Attributes, fmt.Sprintf("structure.members[%d].attributes", i)); err != nil {
			return nil, err
		}
		out.Members = append(out.Members, mj)
	}
	for i, sp := range s.Supports() {
		r, err := sp.Restraint.MarshalText()
		if err != nil {
			return nil, errors.Wrap(errors.CodeInvalidInput, err, "structure.supports[%d].restraint", i)
		}
		sj := supportJSON{GUID: sp.ID.String(), Node: sp.Node.String(), Restraint: string(r)}
		if sj.Attributes, err = encodeAttributes(sp.Attributes, fmt.Sprintf("structure.supports[%d].attributes", i)); err != nil {
			return nil, err
		}
		out.Supports = append(out.Supports, sj)
	}
	for i, l := range s.Loads() {
		path := fmt.Sprintf("structure.loads[%d]", i)
		lj := loadJSON{GUID: l.ID.String(), Node: l.Node.String()}
		if lj.Force, err = encodeVector(l.Force, path+".force"); err != nil {
			return nil, err
		}
		if lj.Moment, err = encodeVector(l.Moment, path+".moment"); err != nil {
			return nil, err
		}
		if lj.Attributes, err = encodeAttributes(l.Attributes, path+".attributes"); err != nil {
			return nil, err
		}
		out.Loads = append(out.Loads, lj)
	}
	return out, nil
}

func encodeMeta(m identity.Meta, path string) (metaJSON, error) {
	prefix := path
	if prefix != "" {
		prefix += "."
	}
	out := metaJSON{GUID: m.ID.String(), Name: m.Name}
	var err error
	if out.Attributes, err = encodeAttributes(m.Attributes, prefix+"attributes"); err != nil {
		return metaJSON{}, err
	}
	if !m.Parent.IsNil() {
		out.Parent = m.Parent.String()
	}
	for _, a := range m.Adjacencies() {
		out.Adjacency = append(out.Adjacency, adjacencyJSON{GUID: a.ID.String(), Type: a.Type})
	}
	if m.HasTransformation() {
		x := m.Transformation()
		out.Transformation = x[:]
	}
	return out, nil
}

func encodePoint(p geometry.Point, path string) ([]float64, error) {
	return encodeTriple(p.Array(), path)
}

func encodeVector(v geometry.Vector, path string) ([]float64, error) {
	return encodeTriple(v.Array(), path)
}

func encodeTriple(a [3]float64, path string) ([]float64, error) {
	for _, f := range a {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.New(errors.CodeInvalidInput, "%s: non-finite value %v", path, f)
		}
	}
	return a[:], nil
}

func encodeAttributes(attrs identity.Attributes, path string) (attributesJSON, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	out := make(attributesJSON, len(attrs))
	for _, k := range attrs.Keys() {
		raw, err := json.Marshal(attrs[k])
		if err != nil {
			return nil, errors.Wrap(errors.CodeInvalidInput, err, "%s.%s", path, k)
		}
		out[k] = raw
	}
	return out, nil
}

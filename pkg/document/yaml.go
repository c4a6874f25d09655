package document

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/matzehuels/openmodel/pkg/errors"
)

// ToYAML encodes doc as YAML. The YAML tree mirrors the JSON layout, so
// both encodings carry the same information.
func ToYAML(doc *Document) ([]byte, error) {
	data, err := ToText(doc)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tree, err := yamlTree(dec)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "convert document %s to YAML", doc.ID)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "convert document %s to YAML", doc.ID)
	}
	return out, nil
}

// FromYAML decodes a YAML document. Syntax errors are reported as
// *errors.ParseError without byte offsets; the cause carries the YAML
// position.
func FromYAML(data []byte) (*Document, error) {
	js, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, &errors.ParseError{Offset: -1, Msg: "invalid YAML", Cause: err}
	}
	return FromText(js)
}

// yamlTree reads one JSON value into an ordered tree that yaml.Marshal
// writes in the same key order.
func yamlTree(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		if t == '[' {
			seq := []any{}
			for dec.More() {
				v, err := yamlTree(dec)
				if err != nil {
					return nil, err
				}
				seq = append(seq, v)
			}
			_, err := dec.Token()
			return seq, err
		}
		m := yaml.MapSlice{}
		for dec.More() {
			key, err := dec.Token()
			if err != nil {
				return nil, err
			}
			v, err := yamlTree(dec)
			if err != nil {
				return nil, err
			}
			m = append(m, yaml.MapItem{Key: key, Value: v})
		}
		_, err := dec.Token()
		return m, err
	case json.Number:
		return yamlNumber(t), nil
	default:
		return t, nil
	}
}

// yamlNumber writes a JSON number as a YAML scalar that reads back with
// the same value. The YAML reader only takes a scalar as a float when it
// contains a '.', so exponent forms and negative zero get one.
type yamlNumber json.Number

// MarshalYAML implements yaml.BytesMarshaler.
func (n yamlNumber) MarshalYAML() ([]byte, error) {
	s := string(n)
	switch {
	case strings.Contains(s, "."):
	case strings.ContainsAny(s, "eE"):
		i := strings.IndexAny(s, "eE")
		s = s[:i] + ".0" + s[i:]
	case s == "-0":
		s += ".0"
	default:
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			s += ".0"
		}
	}
	return []byte(s), nil
}

package identity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/geometry"
)

// Kind identifies the type held by a [Value].
type Kind int

const (
	// KindInvalid is the kind of the zero Value.
	KindInvalid Kind = iota
	KindString
	KindFloat
	KindInt
	KindBool
	KindVector
	KindStrings
)

var kindNames = map[Kind]string{
	KindString:  "string",
	KindFloat:   "float",
	KindInt:     "int",
	KindBool:    "bool",
	KindVector:  "vector",
	KindStrings: "strings",
}

// String returns the kind name used in serialized documents.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindInvalid, false
}

// Value is a typed attribute value. The zero Value is invalid and is never
// stored by [Attributes].
type Value struct {
	kind Kind
	s    string
	f    float64
	i    int64
	b    bool
	v    geometry.Vector
	ss   []string
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// FloatValue returns a float Value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// IntValue returns an int Value.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// BoolValue returns a bool Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// VectorValue returns a vector Value.
func VectorValue(v geometry.Vector) Value { return Value{kind: KindVector, v: v} }

// StringsValue returns a string-list Value. The slice is copied.
func StringsValue(ss []string) Value { return Value{kind: KindStrings, ss: slices.Clone(ss)} }

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// Interface returns the held value as a plain Go value.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindFloat:
		return v.f
	case KindInt:
		return v.i
	case KindBool:
		return v.b
	case KindVector:
		return v.v
	case KindStrings:
		return slices.Clone(v.ss)
	default:
		return nil
	}
}

// Equal reports whether v and w have the same kind and value.
// Floats compare exactly.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == w.s
	case KindFloat:
		return v.f == w.f
	case KindInt:
		return v.i == w.i
	case KindBool:
		return v.b == w.b
	case KindVector:
		return v.v == w.v
	case KindStrings:
		return slices.Equal(v.ss, w.ss)
	default:
		return true
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.s)
	case KindInvalid:
		return "<invalid>"
	default:
		return fmt.Sprint(v.Interface())
	}
}

type valueJSON struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes v as {"type": kind, "value": ...} so the kind
// survives a round trip.
func (v Value) MarshalJSON() ([]byte, error) {
	var raw any
	switch v.kind {
	case KindString:
		raw = v.s
	case KindFloat:
		raw = v.f
	case KindInt:
		raw = v.i
	case KindBool:
		raw = v.b
	case KindVector:
		raw = v.v.Array()
	case KindStrings:
		ss := v.ss
		if ss == nil {
			ss = []string{}
		}
		raw = ss
	default:
		return nil, errors.New(errors.CodeInvalidInput, "cannot encode invalid attribute value")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidInput, err, "encode %s attribute", v.kind)
	}
	return json.Marshal(valueJSON{Type: v.kind.String(), Value: data})
}

// UnmarshalJSON decodes the form produced by [Value.MarshalJSON].
func (v *Value) UnmarshalJSON(b []byte) error {
	var raw valueJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	kind, ok := ParseKind(raw.Type)
	if !ok {
		return errors.New(errors.CodeInvalidInput, "unknown attribute type %q", raw.Type)
	}
	if len(raw.Value) == 0 {
		return errors.New(errors.CodeInvalidInput, "attribute of type %s has no value", kind)
	}

	out := Value{kind: kind}
	var err error
	switch kind {
	case KindString:
		err = json.Unmarshal(raw.Value, &out.s)
	case KindFloat:
		err = json.Unmarshal(raw.Value, &out.f)
	case KindInt:
		dec := json.NewDecoder(bytes.NewReader(raw.Value))
		dec.UseNumber()
		var n json.Number
		if err = dec.Decode(&n); err == nil {
			out.i, err = n.Int64()
		}
	case KindBool:
		err = json.Unmarshal(raw.Value, &out.b)
	case KindVector:
		var a []float64
		if err = json.Unmarshal(raw.Value, &a); err == nil {
			if len(a) != 3 {
				return errors.New(errors.CodeInvalidInput, "vector attribute has %d components, want 3", len(a))
			}
			out.v = geometry.NewVector(a[0], a[1], a[2])
		}
	case KindStrings:
		err = json.Unmarshal(raw.Value, &out.ss)
	}
	if err != nil {
		return errors.Wrap(errors.CodeInvalidInput, err, "decode %s attribute", kind)
	}
	*v = out
	return nil
}

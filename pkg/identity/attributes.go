package identity

import (
	"maps"
	"slices"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/geometry"
)

// Attributes stores typed key-value metadata attached to an entity, such as
// material, cross-section or color. Insertion order is irrelevant and the
// last write to a key wins.
//
// Attributes maps owned by openmodel containers are never nil. A nil
// Attributes can be read but not written.
type Attributes map[string]Value

// NewAttributes returns an empty attribute map.
func NewAttributes() Attributes { return Attributes{} }

// Set stores v under key, replacing any previous value.
// Returns an INVALID_INPUT error for an invalid key or the zero Value.
func (a Attributes) Set(key string, v Value) error {
	if err := errors.ValidateAttributeKey(key); err != nil {
		return err
	}
	if v.kind == KindInvalid {
		return errors.New(errors.CodeInvalidInput, "attribute %q: invalid value", key)
	}
	a[key] = v
	return nil
}

// SetString stores a string attribute.
func (a Attributes) SetString(key, s string) error { return a.Set(key, StringValue(s)) }

// SetFloat stores a float attribute.
func (a Attributes) SetFloat(key string, f float64) error { return a.Set(key, FloatValue(f)) }

// SetInt stores an int attribute.
func (a Attributes) SetInt(key string, i int64) error { return a.Set(key, IntValue(i)) }

// SetBool stores a bool attribute.
func (a Attributes) SetBool(key string, b bool) error { return a.Set(key, BoolValue(b)) }

// SetVector stores a vector attribute.
func (a Attributes) SetVector(key string, v geometry.Vector) error {
	return a.Set(key, VectorValue(v))
}

// SetStrings stores a string-list attribute.
func (a Attributes) SetStrings(key string, ss []string) error {
	return a.Set(key, StringsValue(ss))
}

// Get returns the value stored under key.
func (a Attributes) Get(key string) (Value, bool) {
	v, ok := a[key]
	return v, ok
}

// Has reports whether key is present.
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Delete removes key. Deleting a missing key is a no-op.
func (a Attributes) Delete(key string) { delete(a, key) }

// Len returns the number of attributes.
func (a Attributes) Len() int { return len(a) }

// Keys returns all keys in ascending order.
func (a Attributes) Keys() []string { return slices.Sorted(maps.Keys(a)) }

// String returns the string attribute under key.
func (a Attributes) String(key string) (string, error) {
	v, err := a.lookup(key, KindString)
	return v.s, err
}

// Float returns the float attribute under key.
func (a Attributes) Float(key string) (float64, error) {
	v, err := a.lookup(key, KindFloat)
	return v.f, err
}

// Int returns the int attribute under key.
func (a Attributes) Int(key string) (int64, error) {
	v, err := a.lookup(key, KindInt)
	return v.i, err
}

// Bool returns the bool attribute under key.
func (a Attributes) Bool(key string) (bool, error) {
	v, err := a.lookup(key, KindBool)
	return v.b, err
}

// Vector returns the vector attribute under key.
func (a Attributes) Vector(key string) (geometry.Vector, error) {
	v, err := a.lookup(key, KindVector)
	return v.v, err
}

// Strings returns a copy of the string-list attribute under key.
func (a Attributes) Strings(key string) ([]string, error) {
	v, err := a.lookup(key, KindStrings)
	return slices.Clone(v.ss), err
}

func (a Attributes) lookup(key string, want Kind) (Value, error) {
	v, ok := a[key]
	if !ok {
		return Value{}, errors.New(errors.CodeAttributeNotFound, "attribute %q not set", key)
	}
	if v.kind != want {
		return Value{}, errors.New(errors.CodeAttributeType, "attribute %q is %s, not %s", key, v.kind, want)
	}
	return v, nil
}

// Clone returns a deep copy. Cloning nil yields an empty map.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		if v.kind == KindStrings {
			v.ss = slices.Clone(v.ss)
		}
		out[k] = v
	}
	return out
}

// Equal reports whether a and b hold the same keys with equal values.
// A nil map equals an empty one.
func (a Attributes) Equal(b Attributes) bool {
	return maps.EqualFunc(a, b, Value.Equal)
}

package identity

import (
	"github.com/google/uuid"

	"github.com/matzehuels/openmodel/pkg/errors"
)

// ID is a 128-bit universally unique identifier.
// The zero value is the nil UUID and never identifies an entity.
type ID uuid.UUID

// Nil is the zero ID.
var Nil ID

// New returns a fresh random ID.
func New() ID {
	return ID(uuid.New())
}

// Parse parses the canonical string form of an ID.
// Returns an INVALID_INPUT error for malformed input or the nil UUID.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, errors.Wrap(errors.CodeInvalidInput, err, "invalid identity %q", s)
	}
	if u == uuid.Nil {
		return Nil, errors.New(errors.CodeInvalidInput, "nil identity is not allowed")
	}
	return ID(u), nil
}

// MustParse is like [Parse] but panics on error. Intended for tests and
// package-level constants.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical lowercase hyphenated form.
func (id ID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether id is the zero ID.
func (id ID) IsNil() bool { return id == Nil }

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Compare orders IDs by their byte representation. It returns -1, 0 or +1.
func Compare(a, b ID) int {
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Strings converts a slice of IDs to their canonical strings.
func Strings(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

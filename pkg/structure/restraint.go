package structure

import (
	"strings"

	"github.com/matzehuels/openmodel/pkg/errors"
)

// Restraint is a set of blocked degrees of freedom at a support.
type Restraint uint8

// Degrees of freedom: translations along and rotations about X, Y and Z.
const (
	TX Restraint = 1 << iota
	TY
	TZ
	RX
	RY
	RZ
)

// Common restraint presets.
const (
	Free   Restraint = 0
	Pinned           = TX | TY | TZ
	Fixed            = Pinned | RX | RY | RZ
)

var dofNames = []struct {
	r    Restraint
	name string
}{
	{TX, "TX"}, {TY, "TY"}, {TZ, "TZ"},
	{RX, "RX"}, {RY, "RY"}, {RZ, "RZ"},
}

// Has reports whether every degree of freedom in dof is blocked.
func (r Restraint) Has(dof Restraint) bool { return r&dof == dof }

// Count returns the number of blocked degrees of freedom.
func (r Restraint) Count() int {
	n := 0
	for _, d := range dofNames {
		if r&d.r != 0 {
			n++
		}
	}
	return n
}

// String returns the blocked degrees of freedom joined by "|", for
// example "TX|TY|TZ", or "FREE" when nothing is blocked.
func (r Restraint) String() string {
	if r == Free {
		return "FREE"
	}
	var parts []string
	for _, d := range dofNames {
		if r&d.r != 0 {
			parts = append(parts, d.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseRestraint parses the form produced by [Restraint.String]. Names are
// case-insensitive and may repeat; "FREE" and the empty string both mean
// [Free].
func ParseRestraint(s string) (Restraint, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "FREE") {
		return Free, nil
	}
	var r Restraint
	for _, part := range strings.Split(s, "|") {
		part = strings.ToUpper(strings.TrimSpace(part))
		found := false
		for _, d := range dofNames {
			if d.name == part {
				r |= d.r
				found = true
				break
			}
		}
		if !found {
			return Free, errors.New(errors.CodeInvalidInput, "unknown degree of freedom %q in restraint %q", part, s)
		}
	}
	return r, nil
}

// MarshalText implements encoding.TextMarshaler.
func (r Restraint) MarshalText() ([]byte, error) {
	if r&^Fixed != 0 {
		return nil, errors.New(errors.CodeInvalidInput, "restraint has unknown bits %#x", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Restraint) UnmarshalText(b []byte) error {
	parsed, err := ParseRestraint(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

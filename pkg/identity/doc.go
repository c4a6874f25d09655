// Package identity provides stable entity identity and typed metadata.
//
// # Identity
//
// Every identity-bearing entity (meshes, vertices, faces, structural nodes,
// members, supports, loads) carries an [ID]: a random (version 4) UUID
// assigned at creation and never reassigned. Two entities are the same
// logical object iff their IDs match, regardless of later geometric edits.
//
// IDs are generated locally with no coordination; collisions are treated as
// impossible. The canonical text form is the lowercase hyphenated RFC 4122
// representation, used as the cross-reference key in serialized documents.
//
// # Attributes
//
// [Attributes] is a string-keyed map of typed [Value]s. Setting a key twice
// keeps the last value. Typed getters never coerce:
//
//	attrs.SetInt("segments", 4)
//	_, err := attrs.Float("segments")
//	// errors.Is(err, errors.CodeAttributeType) == true
//
// # Meta
//
// [Meta] bundles an ID, an optional short name and attributes; container
// types embed it.
package identity

// Package geometry provides the primitive value types of the openmodel kernel.
//
// # Overview
//
// All types in this package are small immutable values passed by copy:
//
//   - [Point]: a location in 3D space
//   - [Vector]: a direction and magnitude
//   - [Line]: an ordered pair of points
//   - [Plane]: an origin with a unit normal and an in-plane frame
//   - [Xform]: a 4x4 column-major affine transform
//
// Operations never mutate their receiver; methods such as [Point.Translate]
// return a new value.
//
// # Tolerance
//
// Geometric predicates (zero length, collinearity, approximate equality) use
// [Epsilon]. Exact comparison with == is still meaningful and is what the
// serialization layer preserves across round trips.
//
// # Degenerate Input
//
// Degenerate input is reported, never corrected:
//
//	n, err := v.Normalize()
//	if errors.Is(err, errors.CodeDegenerateVector) {
//	    // v was (close to) the zero vector
//	}
//
// [Line.IsDegenerate] flags zero-length lines without failing, since a
// degenerate line is still a valid value.
package geometry

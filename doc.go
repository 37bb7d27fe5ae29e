// Package smalldiff is a structural equality checker intended for test
// assertions, where a boolean equality check is insufficient & developers need
// to see exactly which field differs.
//
// smalldiff operates in two steps. First both values are normalized into
// canonical trees made of three kinds of value:
//
//	primitives: Null, Bool, Int, Uint, Float, String
//	Sequence:   an ordered list of values
//	*Mapping:   string keys bound to values
//
// Normalization reflects over structs, maps & slices, and honors a small set of
// capabilities values can implement to control their own canonical form:
// Enumerated, Set, Mapper, json.Marshaler, encoding.TextMarshaler &
// proto.Message. Callers can take over normalization entirely with a custom
// Normalizer.
//
// Second, the two trees are walked together, producing a flat DiffMap that
// records an expected & actual value for every location where the trees
// disagree. Locations are addressed by dotted paths like
// "users.0.addresses.1.city". Disagreements are never nested: a changed leaf
// three levels deep is a single entry under its full path.
//
// smalldiff doesn't compute minimal edit scripts, and doesn't patch or merge
// values. See github.com/qri-io/deepdiff for that.
package smalldiff

// Package matchers provides the predicates used by response expectations.
//
// A Matcher is a pure value: Match(actual) returns nil when actual
// satisfies it, a *TypeMismatchError when actual has a type the matcher
// cannot evaluate (for example a string given to GreaterThan), or a plain
// error describing the mismatch. Matchers hold no state and may be shared.
//
// Actual values are those produced by decoding JSON into any: float64,
// string, bool, nil, []any and map[string]any. Go integer and json.Number
// values are accepted as well.
package matchers

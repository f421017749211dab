// Package key implements the cube key model.
//
// A Value is a closed variant over the scalar kinds a dimension key or an
// aggregator state may hold: null, the missing-field marker, the wildcard
// sentinel, booleans, runes, every fixed-width integer, floats, fixed-point
// decimals, timestamps, strings and nested arrays. A Tuple is an ordered list
// of values, one per cube dimension.
//
// # Equality
//
// Values of the same kind compare exactly. Values of different kinds are equal
// only when both are fixed-point representable (any integer width or a
// decimal) and hold the same number, so Int8(5), Uint64(5) and a decimal 5.00
// address the same cell:
//
//	key.Equal(key.Int8(5), key.Decimal(decimal.RequireFromString("5.00"))) // true
//	key.Equal(key.Int64(1), key.Float64(1))                                // false
//
// Hash is consistent with Equal. Tuple equality and hashing are unrolled for
// up to four dimensions.
//
// # Ordering
//
// Compare defines the natural order used by sorting and by the ordering
// aggregators. SortAs builds an explicit-order comparer.
//
// # Maps
//
// TupleMap and Map are insertion-ordered hash maps keyed by Tuple and Value.
// They back the cube stores and the unique/mode aggregators.
package key

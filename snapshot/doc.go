// Package snapshot serializes the content of a cube.
//
// A State is the cube's leaf cells in table form: every distinct key value is
// stored once in KeyValues, each cell's key is a row of indexes into that
// table in ValueKeys, and the aggregator state of the cell at the same
// position is stored in Values.
//
// Three representations are supported:
//   - the binary snapshot (Marshal, Unmarshal, Write, Read)
//   - the compressed envelope around the binary snapshot (MarshalCompressed)
//   - structured interchange as JSON or YAML (MarshalJSON, MarshalYAML)
//
// The binary reader is strict: a foreign type name, another major version,
// an unknown section name, a bad type code, truncated input or trailing bytes
// fail the whole read.
package snapshot

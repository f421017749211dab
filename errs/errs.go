// Package errs defines the sentinel errors returned across cubo packages.
//
// Call sites wrap these with operation context, so callers should match
// them with errors.Is rather than comparing error values directly.
package errs

import "errors"

// Configuration errors.
var (
	// ErrDimensionMismatch is returned when two cubes, or a cube and a snapshot,
	// disagree on their dimension lists.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrUnknownDimension is returned when a dimension name is not part of a cube.
	ErrUnknownDimension = errors.New("unknown dimension")
	// ErrFactoryMismatch is returned when merging cubes built by different aggregator factories.
	ErrFactoryMismatch = errors.New("aggregator factory mismatch")
	// ErrTooManyDimensions is returned when eager totals are requested for more than 63 dimensions.
	ErrTooManyDimensions = errors.New("too many dimensions for eager totals")
	// ErrInvalidMeasure is returned for a measure index or formula parent that does not exist.
	ErrInvalidMeasure = errors.New("invalid measure")
	// ErrInvalidOption is returned when a functional option carries an unusable value.
	ErrInvalidOption = errors.New("invalid option")
)

// Key and lookup errors.
var (
	// ErrKeyLength is returned when a key tuple length differs from the dimension count.
	ErrKeyLength = errors.New("key length does not match dimension count")
	// ErrWildcardInLeaf is returned when ingestion produces a wildcard key component.
	ErrWildcardInLeaf = errors.New("wildcard value in leaf key")
	// ErrNoValue is returned by lookups of keys that have no cell.
	ErrNoValue = errors.New("no value")
)

// Aggregator errors.
var (
	// ErrAggregatorMismatch is returned when merging aggregators of different kinds.
	ErrAggregatorMismatch = errors.New("aggregator kind mismatch")
	// ErrNotOrderable is returned when a value without an ordering reaches an ordering aggregator.
	ErrNotOrderable = errors.New("value is not orderable")
	// ErrInvalidState is returned for malformed aggregator state or snapshot content.
	ErrInvalidState = errors.New("invalid state")
)

// Snapshot codec errors.
var (
	// ErrInvalidTypeName is returned when a snapshot starts with an unexpected type name.
	ErrInvalidTypeName = errors.New("invalid snapshot type name")
	// ErrVersionMismatch is returned for a snapshot written with another major version.
	ErrVersionMismatch = errors.New("snapshot version mismatch")
	// ErrUnknownSection is returned for a section name the reader does not know.
	ErrUnknownSection = errors.New("unknown snapshot section")
	// ErrMissingSection is returned when a section is absent or out of order.
	ErrMissingSection = errors.New("missing snapshot section")
	// ErrUnknownTypeCode is returned for a value tag the decoder does not know.
	ErrUnknownTypeCode = errors.New("unknown value type code")
	// ErrTruncated is returned when the input ends in the middle of an item.
	ErrTruncated = errors.New("truncated data")
	// ErrTrailingData is returned when bytes remain after a complete snapshot.
	ErrTrailingData = errors.New("trailing data after snapshot")
	// ErrInvalidCompression is returned for an unsupported compression type.
	ErrInvalidCompression = errors.New("invalid compression type")
)

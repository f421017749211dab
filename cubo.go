// Package cubo provides an in-memory OLAP cube: records are grouped by the
// values of named dimensions and measured by pluggable aggregators, with
// totals over any combination of dimensions.
//
// # Core Features
//
//   - Heterogeneous dimension keys with numeric coercion (int32(5) == uint16(5) == decimal 5)
//   - Thirteen aggregators, composable into composite and formula measures
//   - Lazy or eager totals addressed with key.Wildcard()
//   - Cube merge for partitioned and parallel aggregation
//   - Slice queries that re-dimension, filter and derive measures
//   - A cache of reduced projections for repeated total lookups
//   - Binary snapshots with optional compression (Zstd, S2, LZ4) and JSON/YAML interchange
//
// # Basic Usage
//
// Building a cube and reading totals:
//
//	import "github.com/arloliu/cubo"
//
//	c, _ := cubo.NewCube([]string{"country", "year"}, aggregator.Composite{
//	    Factories: []aggregator.Factory{aggregator.Count{}, aggregator.Sum{Field: "amount"}},
//	})
//	_ = cube.ProcessSlice(c, records, aggregator.MapAccessor)
//
//	all := key.Wildcard()
//	usa2024 := c.Value(key.T("USA", 2024))  // [count, sum] of one cell
//	usa := c.Value(key.T("USA", all))       // total over every year
//	grand := c.Value(key.T(all, all))       // grand total
//
// Saving and restoring:
//
//	_, err := cubo.SaveCompressed(w, c, format.CompressionZstd)
//
//	restored, _ := cubo.NewCube([]string{"country", "year"}, factory)
//	err = cubo.Load(r, restored)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the cube,
// query, subcube and snapshot packages for the most common use cases. For
// fine-grained control, use those packages directly.
package cubo

import (
	"fmt"
	"io"

	"github.com/arloliu/cubo/aggregator"
	"github.com/arloliu/cubo/cube"
	"github.com/arloliu/cubo/format"
	"github.com/arloliu/cubo/query"
	"github.com/arloliu/cubo/snapshot"
	"github.com/arloliu/cubo/subcube"
)

var defaultEagerOptions = []cube.Option{
	cube.WithLazyTotals(false),
}

// NewCube creates an empty cube with lazy totals.
//
// Lazy totals are computed by scanning the leaf cells on first lookup and
// cached until the next mutation. They suit cubes that are built once and
// read for a handful of totals.
//
// Parameters:
//   - dims: Dimension names in key order
//   - f: Aggregator factory of the cells
//   - opts: Optional cube configuration (see cube.Option)
//
// Returns:
//   - *cube.Cube: The created cube
//   - error: An error if the configuration is invalid
//
// Example:
//
//	c, err := cubo.NewCube([]string{"region", "host"}, aggregator.Average{Field: "latency"})
func NewCube(dims []string, f aggregator.Factory, opts ...cube.Option) (*cube.Cube, error) {
	return cube.New(dims, f, opts...)
}

// NewEagerCube creates an empty cube that maintains every total during
// ingestion.
//
// Each ingested record updates 2^n total cells for n dimensions, so eager
// totals suit cubes with few dimensions whose totals are all read, such as
// a pivot table rendering every subtotal. At most 63 dimensions are
// supported.
//
// Parameters:
//   - dims: Dimension names in key order
//   - f: Aggregator factory of the cells
//   - opts: Optional cube configuration, applied after the eager default
//
// Returns:
//   - *cube.Cube: The created cube
//   - error: ErrTooManyDimensions above 63 dimensions, or an option error
func NewEagerCube(dims []string, f aggregator.Factory, opts ...cube.Option) (*cube.Cube, error) {
	allOpts := append(append([]cube.Option{}, defaultEagerOptions...), opts...)
	return cube.New(dims, f, allOpts...)
}

// NewQuery starts a slice query over src.
//
// Example:
//
//	byYear, err := cubo.NewQuery(c).Dimension("year").Where("country", "USA").Execute()
func NewQuery(src cube.Reader) *query.Builder {
	return query.New(src)
}

// NewTotalsCache wraps src in a cache of reduced projections.
//
// Use this when many totals under the same wildcard patterns are read, for
// example to render every row and column total of a pivot table over a lazy
// cube.
func NewTotalsCache(src cube.Reader, opts ...subcube.Option) (*subcube.Cache, error) {
	return subcube.New(src, opts...)
}

// Save writes the leaf cells of c to w as an uncompressed binary snapshot.
//
// The snapshot does not carry dimension names or the aggregator factory;
// the cube passed to Load supplies them.
//
// Parameters:
//   - w: Destination writer
//   - c: Cube to save
//   - opts: Optional snapshot configuration (see snapshot.WriteOption)
//
// Returns:
//   - int64: Number of bytes written
//   - error: An encoding or write error
func Save(w io.Writer, c *cube.Cube, opts ...snapshot.WriteOption) (int64, error) {
	n, err := snapshot.Write(w, c.ExportState(), opts...)
	if err != nil {
		return n, fmt.Errorf("save cube: %w", err)
	}

	return n, nil
}

// SaveCompressed writes the leaf cells of c to w as a compressed snapshot.
//
// Parameters:
//   - w: Destination writer
//   - c: Cube to save
//   - compression: format.CompressionZstd, CompressionS2, CompressionLZ4 or CompressionNone
//   - opts: Optional snapshot configuration
//
// Returns:
//   - int64: Number of bytes written
//   - error: ErrInvalidCompression, or an encoding or write error
func SaveCompressed(w io.Writer, c *cube.Cube, compression format.CompressionType, opts ...snapshot.WriteOption) (int64, error) {
	data, err := snapshot.MarshalCompressed(c.ExportState(), compression, opts...)
	if err != nil {
		return 0, fmt.Errorf("save cube: %w", err)
	}

	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("save cube: %w", err)
	}

	return int64(n), nil
}

// Load replaces the content of c with a snapshot read from r.
//
// Both plain and compressed snapshots are accepted. On error c is left
// unchanged.
//
// Returns:
//   - error: A decoding error, ErrDimensionMismatch when the snapshot was
//     written from a cube of another dimension count, or an aggregator state
//     error when the factory of c does not match the saved cells
func Load(r io.Reader, c *cube.Cube) error {
	s, err := snapshot.Read(r)
	if err != nil {
		return fmt.Errorf("load cube: %w", err)
	}
	if err := c.ImportState(s); err != nil {
		return fmt.Errorf("load cube: %w", err)
	}

	return nil
}

// MarshalJSON returns the leaf cells of c in the JSON interchange form.
func MarshalJSON(c *cube.Cube) ([]byte, error) {
	return snapshot.MarshalJSON(c.ExportState())
}

// UnmarshalJSON replaces the content of c with a JSON interchange document.
func UnmarshalJSON(data []byte, c *cube.Cube) error {
	s, err := snapshot.UnmarshalJSON(data)
	if err != nil {
		return fmt.Errorf("load cube json: %w", err)
	}

	return c.ImportState(s)
}

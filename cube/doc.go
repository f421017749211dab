// Package cube implements an in-memory OLAP cube.
//
// A Cube groups records by a fixed list of dimensions. Every distinct
// combination of dimension values (a leaf key) owns one aggregator that
// accumulates the records of that combination. Totals and sub-totals are
// addressed with keys that hold key.Wildcard() in the rolled-up positions:
//
//	c, err := cube.New([]string{"country", "product"}, aggregator.Sum{Field: "amount"})
//	if err != nil {
//		return err
//	}
//	if err := c.Process(slices.Values(rows), aggregator.MapAccessor); err != nil {
//		return err
//	}
//	usa, _ := c.Get(key.T("USA", key.Wildcard()))
//	grand, _ := c.Get(key.T(key.Wildcard(), key.Wildcard()))
//
// # Totals
//
// With lazy totals (the default) a total is computed on first read by
// merging every matching leaf, then cached until the next mutation. With
// eager totals every total cell is maintained during ingestion. Eager mode
// enumerates the 2^n-1 wildcard patterns of each leaf and is limited to 63
// dimensions.
//
// # Concurrency
//
// Mutating methods (Process, Merge, ImportState, Clear) must not run
// concurrently with any other method. Concurrent Get calls are safe: the
// cache fills they perform are serialized internally.
package cube

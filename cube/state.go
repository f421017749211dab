package cube

import (
	"fmt"

	"github.com/arloliu/cubo/aggregator"
	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/internal/collision"
	"github.com/arloliu/cubo/key"
	"github.com/arloliu/cubo/snapshot"
)

// ExportState returns the leaf cells of c in table form. Totals are not
// exported; they are derived again on import.
func (c *Cube) ExportState() *snapshot.State {
	entries := c.leaves.Entries()
	table := collision.NewTable(len(entries))
	s := &snapshot.State{
		DimCount:  uint32(len(c.dims)),
		ValueKeys: make([][]uint32, 0, len(entries)),
		Values:    make([]key.Value, 0, len(entries)),
	}
	for i := range entries {
		s.ValueKeys = append(s.ValueKeys, table.TrackTuple(entries[i].Key))
		s.Values = append(s.Values, entries[i].Value.State())
	}
	s.KeyValues = table.Values()

	if table.HasCollision() {
		c.log.V(4).Info("key values share hashes", "values", table.Count())
	}
	c.log.V(1).Info("exported state", "cells", len(entries), "keyValues", table.Count())

	return s
}

// ImportState replaces the content of c with s.
//
// Cells of equal keys are merged. The dimension names and the factory are
// not part of the state; the caller pairs a state with a compatible cube.
// On error c is left unchanged.
//
// Returns:
//   - error: ErrDimensionMismatch when s.DimCount differs from the cube,
//     ErrInvalidState for malformed content, ErrWildcardInLeaf for total keys
func (c *Cube) ImportState(s *snapshot.State) error {
	if s.DimCount != uint32(len(c.dims)) {
		return fmt.Errorf("import state: %d dimensions, cube has %d: %w", s.DimCount, len(c.dims), errs.ErrDimensionMismatch)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("import state: %w", err)
	}

	leaves := key.NewTupleMap[aggregator.Aggregator](s.Len())
	for i := range s.Len() {
		k := normalizeKey(s.Key(i))
		if k.HasWildcard() {
			return fmt.Errorf("import state: cell %d key %s: %w", i, k, errs.ErrWildcardInLeaf)
		}
		a, err := c.factory.FromState(s.Values[i])
		if err != nil {
			return fmt.Errorf("import state: cell %d: %w", i, err)
		}
		dst, inserted := leaves.GetOrInsert(k, func() aggregator.Aggregator { return a })
		if inserted {
			continue
		}
		if err := dst.Merge(a); err != nil {
			return fmt.Errorf("import state: cell %d: %w", i, err)
		}
	}

	c.mu.Lock()
	c.leaves = leaves
	c.totals.Clear()
	c.snap = nil
	c.version++
	c.mu.Unlock()

	if !c.lazyTotals {
		if err := c.batchTotals(); err != nil {
			return fmt.Errorf("import state: %w", err)
		}
	}
	c.log.V(1).Info("imported state", "cells", s.Len(), "leaves", leaves.Len())

	return nil
}

package cube

import (
	"fmt"

	"github.com/arloliu/cubo/aggregator"
	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/key"
)

// Merge adds the leaf cells of other into c.
//
// Cells of keys present only in other are created; cells of shared keys are
// merged with the aggregator Merge, never replaced. Eager totals are then
// recomputed. This is the reduce step of partitioned aggregation.
//
// Returns:
//   - error: ErrFactoryMismatch or ErrDimensionMismatch for incompatible
//     cubes, or the first aggregator merge error
func (c *Cube) Merge(other Reader) error {
	if err := c.checkCompatible("merge cube", other); err != nil {
		return err
	}

	// merging a cube into itself must not observe its own updates
	var entries []Entry
	if other == Reader(c) {
		entries = append(entries, c.leaves.Entries()...)
	}

	c.touch()
	var mergeErr error
	merged := 0
	mergeOne := func(k key.Tuple, a aggregator.Aggregator) bool {
		dst, _ := c.leaves.GetOrInsert(k, c.factory.Create)
		if err := dst.Merge(a); err != nil {
			mergeErr = fmt.Errorf("merge cube: key %s: %w", k, err)
			return false
		}
		merged++

		return true
	}
	if entries != nil {
		for _, e := range entries {
			if !mergeOne(e.Key, e.Value) {
				break
			}
		}
	} else {
		for k, a := range other.All() {
			if !mergeOne(k, a) {
				break
			}
		}
	}
	c.touchVersion()

	if !c.lazyTotals {
		if err := c.batchTotals(); err != nil && mergeErr == nil {
			mergeErr = err
		}
	}
	c.log.V(1).Info("merged cube", "cells", merged, "leaves", c.leaves.Len())

	return mergeErr
}

// MergeEntry merges one leaf cell into c, creating the cell when absent.
// Eager totals are updated incrementally.
//
// Returns:
//   - error: ErrKeyLength, ErrWildcardInLeaf for a total key, or the
//     aggregator merge error
func (c *Cube) MergeEntry(k key.Tuple, a aggregator.Aggregator) error {
	if len(k) != len(c.dims) {
		return fmt.Errorf("merge entry %s: %d positions for %d dimensions: %w", k, len(k), len(c.dims), errs.ErrKeyLength)
	}
	if k.HasWildcard() {
		return fmt.Errorf("merge entry %s: %w", k, errs.ErrWildcardInLeaf)
	}
	k = normalizeKey(k)

	c.touch()
	dst, _ := c.leaves.GetOrInsert(k, c.factory.Create)
	if err := dst.Merge(a); err != nil {
		return fmt.Errorf("merge entry %s: %w", k, err)
	}
	c.touchVersion()

	if c.lazyTotals {
		return nil
	}

	buf := make(key.Tuple, len(c.dims))
	err := forEachTotalKey(k, buf, func(total key.Tuple) error {
		return c.totalCell(total).Merge(a)
	})
	if err != nil {
		if rerr := c.batchTotals(); rerr != nil {
			c.log.Error(rerr, "rebuilding totals after failed merge")
		}

		return fmt.Errorf("merge entry %s: %w", k, err)
	}

	return nil
}

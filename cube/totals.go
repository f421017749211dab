package cube

import (
	"github.com/arloliu/cubo/aggregator"
	"github.com/arloliu/cubo/key"
)

// forEachTotalKey calls fn with every total key of leaf: leaf with each
// non-empty subset of positions replaced by the wildcard. buf holds the key
// passed to fn and is overwritten between calls.
//
// A mask bit set means the position keeps the leaf value, so masks run from
// 0 (grand total) to 2^n-2; 2^n-1 would be the leaf itself.
func forEachTotalKey(leaf, buf key.Tuple, fn func(total key.Tuple) error) error {
	n := len(leaf)
	wc := key.Wildcard()

	switch n {
	case 0:
		return nil
	case 1:
		buf[0] = wc
		return fn(buf)
	case 2:
		buf[0], buf[1] = leaf[0], wc
		if err := fn(buf); err != nil {
			return err
		}
		buf[0], buf[1] = wc, leaf[1]
		if err := fn(buf); err != nil {
			return err
		}
		buf[0], buf[1] = wc, wc

		return fn(buf)
	}

	last := uint64(1)<<uint(n) - 1
	for mask := uint64(0); mask < last; mask++ {
		for i := range n {
			if mask&(1<<uint(i)) != 0 {
				buf[i] = leaf[i]
			} else {
				buf[i] = wc
			}
		}
		if err := fn(buf); err != nil {
			return err
		}
	}

	return nil
}

// totalCell returns the total aggregator stored under k, creating it.
// Callers hold no lock; only ingestion paths use it.
func (c *Cube) totalCell(k key.Tuple) aggregator.Aggregator {
	a, _ := c.totals.GetOrInsert(k, c.factory.Create)
	return a
}

// batchTotals rebuilds every total cell from the leaves.
func (c *Cube) batchTotals() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totals.Clear()
	buf := make(key.Tuple, len(c.dims))
	entries := c.leaves.Entries()
	for i := range entries {
		leaf := entries[i].Value
		err := forEachTotalKey(entries[i].Key, buf, func(total key.Tuple) error {
			return c.totalCell(total).Merge(leaf)
		})
		if err != nil {
			return err
		}
	}
	c.log.V(1).Info("computed totals", "leaves", len(entries), "totals", c.totals.Len())

	return nil
}

// scanTotal merges every leaf matching k into total. Callers hold c.mu.
func (c *Cube) scanTotal(k key.Tuple, total aggregator.Aggregator) error {
	if c.snap == nil || c.snapVersion != c.version {
		entries := c.leaves.Entries()
		c.snap = append(c.snap[:0], entries...)
		c.snapVersion = c.version
	}

	for i := range c.snap {
		if !k.Matches(c.snap[i].Key) {
			continue
		}
		if err := total.Merge(c.snap[i].Value); err != nil {
			return err
		}
	}

	return nil
}

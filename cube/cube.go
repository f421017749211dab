package cube

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/go-logr/logr"

	"github.com/arloliu/cubo/aggregator"
	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/internal/options"
	"github.com/arloliu/cubo/key"
)

// MaxEagerDimensions is the largest dimension count supported by eager totals.
const MaxEagerDimensions = 63

// Cube is an in-memory multidimensional dataset.
type Cube struct {
	dims       []string
	factory    aggregator.Factory
	lazyTotals bool
	lazyAdd    bool
	log        logr.Logger

	leaves  *key.TupleMap[aggregator.Aggregator]
	totals  *key.TupleMap[aggregator.Aggregator]
	version uint64

	// mu serializes the cache fills of Get
	mu          sync.Mutex
	snap        []Entry
	snapVersion uint64
}

// New creates an empty cube.
//
// Parameters:
//   - dims: Dimension names in key order; may be empty for a grand-total cube
//   - f: Factory of the cell aggregators
//   - opts: WithLazyTotals, WithLazyAdd, WithLogger
//
// Returns:
//   - *Cube: Empty cube
//   - error: ErrInvalidMeasure for a nil factory, ErrTooManyDimensions for
//     eager totals over more than 63 dimensions
func New(dims []string, f aggregator.Factory, opts ...Option) (*Cube, error) {
	if f == nil {
		return nil, fmt.Errorf("create cube: nil aggregator factory: %w", errs.ErrInvalidMeasure)
	}

	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if !cfg.lazyTotals && len(dims) > MaxEagerDimensions {
		return nil, fmt.Errorf("create cube: %d dimensions, eager totals support %d: %w",
			len(dims), MaxEagerDimensions, errs.ErrTooManyDimensions)
	}

	logger := cfg.log
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}

	return &Cube{
		dims:       slices.Clone(dims),
		factory:    f,
		lazyTotals: cfg.lazyTotals,
		lazyAdd:    cfg.lazyAdd,
		log:        logger.WithName("cube"),
		leaves:     key.NewTupleMap[aggregator.Aggregator](0),
		totals:     key.NewTupleMap[aggregator.Aggregator](0),
	}, nil
}

// Dimensions returns the dimension names. The slice must not be modified.
func (c *Cube) Dimensions() []string { return c.dims }

// Factory returns the aggregator factory.
func (c *Cube) Factory() aggregator.Factory { return c.factory }

// LazyTotals reports whether totals are computed on first read.
func (c *Cube) LazyTotals() bool { return c.lazyTotals }

// LazyAdd reports whether lookups of unseen leaf keys create empty cells.
func (c *Cube) LazyAdd() bool { return c.lazyAdd }

// Version returns a counter that changes on every mutation that can change a
// total. Lookups that materialize an empty leaf do not move it.
func (c *Cube) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.version
}

// Len returns the number of leaf cells. Totals are not counted.
func (c *Cube) Len() int { return c.leaves.Len() }

// All iterates the leaf cells in insertion order.
func (c *Cube) All() iter.Seq2[key.Tuple, aggregator.Aggregator] { return c.leaves.All() }

// Entries returns the leaf cells in insertion order. The slice is only valid
// until the next mutation.
func (c *Cube) Entries() []Entry { return c.leaves.Entries() }

// TotalsLen returns the number of total cells currently held.
func (c *Cube) TotalsLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.totals.Len()
}

// Get returns the aggregator of k.
//
// Leaf keys return the leaf cell. Keys holding wildcards return the total
// cell, computing and caching it when absent. An unseen leaf key creates an
// empty cell when lazy add is enabled. Null key positions are treated as
// key.Missing(), the key ingestion assigns to records without a value.
//
// Returns:
//   - aggregator.Aggregator: Cell aggregator, owned by the cube
//   - error: ErrKeyLength for a key of the wrong length, ErrNoValue for an
//     unseen leaf key when lazy add is disabled
func (c *Cube) Get(k key.Tuple) (aggregator.Aggregator, error) {
	if len(k) != len(c.dims) {
		return nil, fmt.Errorf("get %s: %d positions for %d dimensions: %w", k, len(k), len(c.dims), errs.ErrKeyLength)
	}
	k = normalizeKey(k)

	c.mu.Lock()
	defer c.mu.Unlock()

	if a, ok := c.leaves.Get(k); ok {
		return a, nil
	}
	if a, ok := c.totals.Get(k); ok {
		return a, nil
	}

	if k.HasWildcard() {
		total := c.factory.Create()
		if c.lazyTotals {
			if err := c.scanTotal(k, total); err != nil {
				return nil, fmt.Errorf("get %s: %w", k, err)
			}
			c.log.V(4).Info("computed lazy total", "key", k.String(), "count", total.Count())
		}
		c.totals.Put(k.Clone(), total)

		return total, nil
	}

	if !c.lazyAdd {
		return nil, fmt.Errorf("get %s: %w", k, errs.ErrNoValue)
	}
	// Empty leaves change no total and do not move the version.
	leaf := c.factory.Create()
	c.leaves.Put(k.Clone(), leaf)

	return leaf, nil
}

// Value returns the measure value of k, or key.Null() when the lookup fails.
func (c *Cube) Value(k key.Tuple) key.Value {
	a, err := c.Get(k)
	if err != nil || a == nil {
		return key.Null()
	}

	return a.Value()
}

// Clear removes every leaf and total cell.
func (c *Cube) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.leaves.Clear()
	c.totals.Clear()
	c.snap = nil
	c.version++
}

// touch invalidates totals derived from leaves that are about to change.
func (c *Cube) touch() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lazyTotals {
		c.totals.Clear()
	}
	c.version++
}

func (c *Cube) checkCompatible(op string, other Reader) error {
	if !c.factory.Equal(other.Factory()) {
		return fmt.Errorf("%s: factory %s, other %s: %w", op, c.factory, other.Factory(), errs.ErrFactoryMismatch)
	}
	if !slices.Equal(c.dims, other.Dimensions()) {
		return fmt.Errorf("%s: dimensions %v, other %v: %w", op, c.dims, other.Dimensions(), errs.ErrDimensionMismatch)
	}

	return nil
}

// normalizeKey maps null positions to key.Missing, copying k only when needed.
func normalizeKey(k key.Tuple) key.Tuple {
	for i := range k {
		if k[i].IsNull() {
			n := k.Clone()
			for j := i; j < len(n); j++ {
				if n[j].IsNull() {
					n[j] = key.Missing()
				}
			}

			return n
		}
	}

	return k
}

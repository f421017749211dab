package subcube

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/go-logr/logr"

	"github.com/arloliu/cubo/aggregator"
	"github.com/arloliu/cubo/cube"
	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/internal/options"
	"github.com/arloliu/cubo/key"
	"github.com/arloliu/cubo/query"
)

// MaxWordDimensions is the largest dimension count keyed by a uint64 mask.
const MaxWordDimensions = 64

// projection is a cube reduced to the fixed positions of a mask.
type projection struct {
	cube  *cube.Cube
	fixed []int // source positions, ascending
}

// Cache answers lookups of a source cube, serving wildcard keys from cached
// projections. It is a cube.Reader over the same leaf cells as its source.
type Cache struct {
	src  cube.Reader
	log  logr.Logger
	word bool

	mu      sync.Mutex
	index   index
	version uint64
}

var _ cube.Reader = (*Cache)(nil)

// New creates an empty cache over src.
//
// Parameters:
//   - src: Source cube; any cube.Reader works, a cube.Versioned source also
//     invalidates the cache on mutation
//   - opts: WithArrayMask, WithLogger
//
// Returns:
//   - *Cache: Empty cache
//   - error: Option error
func New(src cube.Reader, opts ...Option) (*Cache, error) {
	cfg := &config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	logger := cfg.log
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}

	c := &Cache{
		src:  src,
		log:  logger.WithName("subcube"),
		word: !cfg.arrayMask && len(src.Dimensions()) <= MaxWordDimensions,
	}
	if c.word {
		c.index = newWordIndex()
	} else {
		c.index = newBitIndex(len(src.Dimensions()))
	}
	c.version = c.sourceVersion()

	return c, nil
}

func (c *Cache) Dimensions() []string { return c.src.Dimensions() }

func (c *Cache) Factory() aggregator.Factory { return c.src.Factory() }

// Len returns the number of leaf cells of the source.
func (c *Cache) Len() int { return c.src.Len() }

// All iterates the leaf cells of the source.
func (c *Cache) All() iter.Seq2[key.Tuple, aggregator.Aggregator] { return c.src.All() }

// Projections returns the number of cached projections.
func (c *Cache) Projections() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.index.len()
}

// WordMask reports whether projections are keyed by a uint64 mask.
func (c *Cache) WordMask() bool { return c.word }

// Reset drops every cached projection.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index.clear()
	c.version = c.sourceVersion()
}

// Get returns the aggregator of k.
//
// Keys without wildcards are read from the source. Other keys are read from
// the projection fixing exactly their non-wildcard positions, built on first
// use; a key of only wildcards reads the grand total.
//
// Returns:
//   - aggregator.Aggregator: Cell aggregator; must not be modified
//   - error: ErrKeyLength for a key of the wrong length, ErrNoValue when no
//     source cell matches k
func (c *Cache) Get(k key.Tuple) (aggregator.Aggregator, error) {
	dims := c.src.Dimensions()
	if len(k) != len(dims) {
		return nil, fmt.Errorf("subcube get %s: %d positions for %d dimensions: %w", k, len(k), len(dims), errs.ErrKeyLength)
	}
	if !k.HasWildcard() {
		return c.src.Get(k)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if v := c.sourceVersion(); v != c.version {
		c.log.V(1).Info("source changed, dropping projections", "projections", c.index.len(), "version", v)
		c.index.clear()
		c.version = v
	}

	p, ok := c.index.lookup(k)
	if !ok {
		var err error
		if p, err = c.project(c.index.base(k), k); err != nil {
			return nil, fmt.Errorf("subcube get %s: %w", k, err)
		}
		c.index.store(k, p)
	}

	a, err := p.cube.Get(reduce(k))
	if err != nil {
		return nil, fmt.Errorf("subcube get %s: %w", k, err)
	}

	return a, nil
}

// project slices base, or the source when base is nil, down to the fixed
// positions of k.
func (c *Cache) project(base *projection, k key.Tuple) (*projection, error) {
	var (
		src      = c.src
		position = func(i int) int { return i }
	)
	if base != nil {
		src = base.cube
		position = func(i int) int {
			j, _ := slices.BinarySearch(base.fixed, i)
			return j
		}
	}

	p := &projection{}
	for i, v := range k {
		if !v.IsWildcard() {
			p.fixed = append(p.fixed, i)
		}
	}

	if len(p.fixed) == 0 {
		gt, err := grandTotal(src)
		if err != nil {
			return nil, err
		}
		p.cube = gt
	} else {
		dims := c.src.Dimensions()
		q := query.New(src)
		for _, i := range p.fixed {
			j := position(i)
			q.DerivedDimension(dims[i], func(t key.Tuple) key.Value { return t[j] })
		}
		res, err := q.Execute(cube.WithLazyAdd(false))
		if err != nil {
			return nil, err
		}
		p.cube = res
	}

	c.log.V(4).Info("built projection", "fixed", len(p.fixed), "fromCache", base != nil,
		"scanned", src.Len(), "cells", p.cube.Len())

	return p, nil
}

// grandTotal returns a zero-dimension cube whose single cell merges every
// leaf of src.
func grandTotal(src cube.Reader) (*cube.Cube, error) {
	total := src.Factory().Create()
	for _, a := range src.All() {
		if err := total.Merge(a); err != nil {
			return nil, fmt.Errorf("grand total: %w", err)
		}
	}

	gt, err := cube.New(nil, src.Factory(), cube.WithLazyAdd(false))
	if err != nil {
		return nil, err
	}
	if err := gt.MergeEntry(key.Tuple{}, total); err != nil {
		return nil, err
	}

	return gt, nil
}

// reduce drops the wildcard positions of k.
func reduce(k key.Tuple) key.Tuple {
	out := make(key.Tuple, 0, len(k))
	for _, v := range k {
		if !v.IsWildcard() {
			out = append(out, v)
		}
	}

	return out
}

func (c *Cache) sourceVersion() uint64 {
	if v, ok := c.src.(cube.Versioned); ok {
		return v.Version()
	}

	return 0
}

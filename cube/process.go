package cube

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/arloliu/cubo/aggregator"
	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/key"
)

// processor runs one ingestion pass.
//
// Eager totals are updated per record only when the cube already had
// leaves; a first load computes them in one batch at finish.
type processor struct {
	c           *Cube
	get         aggregator.Accessor
	incremental bool
	buf         key.Tuple
	totalBuf    key.Tuple
	records     int
	started     time.Time
}

func (c *Cube) begin(get aggregator.Accessor) *processor {
	c.touch()

	return &processor{
		c:           c,
		get:         get,
		incremental: !c.lazyTotals && c.leaves.Len() > 0,
		buf:         make(key.Tuple, len(c.dims)),
		totalBuf:    make(key.Tuple, len(c.dims)),
		started:     time.Now(),
	}
}

func (p *processor) push(record any) error {
	c := p.c
	for d, dim := range c.dims {
		v := p.get(record, dim)
		switch {
		case v.IsNull():
			v = key.Missing()
		case v.IsWildcard():
			return fmt.Errorf("process record %d: dimension %q: %w", p.records, dim, errs.ErrWildcardInLeaf)
		}
		p.buf[d] = v
	}

	leaf, _ := c.leaves.GetOrInsert(p.buf, c.factory.Create)
	if err := leaf.Push(record, p.get); err != nil {
		return fmt.Errorf("process record %d: %w", p.records, err)
	}

	if p.incremental {
		err := forEachTotalKey(p.buf, p.totalBuf, func(total key.Tuple) error {
			return c.totalCell(total).Push(record, p.get)
		})
		if err != nil {
			return fmt.Errorf("process record %d: %w", p.records, err)
		}
	}
	p.records++

	return nil
}

func (p *processor) finish() error {
	c := p.c
	if !c.lazyTotals && !p.incremental {
		if err := c.batchTotals(); err != nil {
			return err
		}
	}
	c.touchVersion()
	c.log.V(1).Info("processed records", "records", p.records, "leaves", c.leaves.Len(),
		"elapsed", time.Since(p.started))

	return nil
}

// abort restores consistency after a failed push: eager totals are rebuilt
// from the leaves that were updated so far.
func (p *processor) abort(cause error) error {
	c := p.c
	c.touchVersion()
	if !c.lazyTotals {
		if err := c.batchTotals(); err != nil {
			c.log.Error(err, "rebuilding totals after failed ingestion")
		}
	}
	c.log.V(1).Info("ingestion failed", "records", p.records, "error", cause.Error())

	return cause
}

func (c *Cube) touchVersion() {
	c.mu.Lock()
	c.version++
	c.mu.Unlock()
}

// Process ingests records.
//
// Every record is keyed by the accessor values of the cube dimensions; a
// null value keys as key.Missing(). The cell aggregator then pushes the
// record with the same accessor.
//
// Returns:
//   - error: ErrWildcardInLeaf when the accessor yields a wildcard, or the
//     first aggregator error; the cube stays consistent either way
func (c *Cube) Process(records iter.Seq[any], get aggregator.Accessor) error {
	p := c.begin(get)
	for r := range records {
		if err := p.push(r); err != nil {
			return p.abort(err)
		}
	}

	return p.finish()
}

// ProcessSlice ingests a slice of records.
func ProcessSlice[R any](c *Cube, records []R, get aggregator.Accessor) error {
	return c.Process(func(yield func(any) bool) {
		for i := range records {
			if !yield(records[i]) {
				return
			}
		}
	}, get)
}

// ProcessChan ingests records received from ch until it is closed.
//
// When ctx is canceled the pass stops pulling, finishes so that totals
// match the records ingested so far, and returns ctx.Err().
func (c *Cube) ProcessChan(ctx context.Context, ch <-chan any, get aggregator.Accessor) error {
	p := c.begin(get)
	for {
		select {
		case <-ctx.Done():
			if err := p.finish(); err != nil {
				return err
			}

			return ctx.Err()
		case r, ok := <-ch:
			if !ok {
				return p.finish()
			}
			if err := p.push(r); err != nil {
				return p.abort(err)
			}
		}
	}
}

// ProcessCube ingests the leaf cells of src as records.
//
// Field names resolve to the key positions of src dimensions, and measures
// name the values of src cells in order: the children of a composite
// aggregator, or the single value of any other aggregator.
//
// Returns:
//   - error: ErrInvalidMeasure when more measures are named than src has
func (c *Cube) ProcessCube(src Reader, measures ...string) error {
	get, err := EntryAccessor(src, measures...)
	if err != nil {
		return err
	}

	return c.Process(func(yield func(any) bool) {
		for k, a := range src.All() {
			if !yield(Entry{Key: k, Value: a}) {
				return
			}
		}
	}, get)
}

// MeasureCount returns the number of measures of cells created by f.
func MeasureCount(f aggregator.Factory) int {
	if comp, ok := f.(aggregator.Composite); ok {
		return len(comp.Factories)
	}

	return 1
}

// EntryAccessor returns an accessor over Entry records of src.
//
// Names of src dimensions return the key value at that position, measures
// return the value of the matching measure. Other names and records of
// other types yield key.Null().
func EntryAccessor(src Reader, measures ...string) (aggregator.Accessor, error) {
	if n := MeasureCount(src.Factory()); len(measures) > n {
		return nil, fmt.Errorf("entry accessor: %d measure names for %d measures: %w",
			len(measures), n, errs.ErrInvalidMeasure)
	}

	dimIdx := make(map[string]int, len(src.Dimensions()))
	for i, d := range src.Dimensions() {
		dimIdx[d] = i
	}
	measureIdx := make(map[string]int, len(measures))
	for i, m := range measures {
		measureIdx[m] = i
	}

	return func(record any, field string) key.Value {
		e, ok := record.(Entry)
		if !ok {
			return key.Null()
		}
		if i, ok := dimIdx[field]; ok && i < len(e.Key) {
			return e.Key[i]
		}
		i, ok := measureIdx[field]
		if !ok {
			return key.Null()
		}
		if comp, ok := e.Value.(*aggregator.CompositeAggregator); ok {
			if i < len(comp.Children()) {
				return comp.Child(i).Value()
			}

			return key.Null()
		}
		if i == 0 {
			return e.Value.Value()
		}

		return key.Null()
	}, nil
}

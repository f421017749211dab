package query

import (
	"fmt"
	"iter"
	"slices"

	"github.com/arloliu/cubo/aggregator"
	"github.com/arloliu/cubo/cube"
	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/key"
)

// KeyFunc derives a dimension value from a full source key.
type KeyFunc func(k key.Tuple) key.Value

// MeasureFunc derives the aggregator of a projected cell from a source cell.
// The result is merged into the destination and is not retained.
type MeasureFunc func(e cube.Entry) (aggregator.Aggregator, error)

type dimSelector struct {
	name string
	key  KeyFunc
}

type measureSelector struct {
	factory aggregator.Factory
	derive  MeasureFunc
}

// Builder describes a projection of a source cube. It is not safe for
// concurrent use.
type Builder struct {
	src      cube.Reader
	dims     []dimSelector
	measures []measureSelector
	filters  []func(cube.Entry) bool
	err      error
}

// New starts a query over the leaf cells of src.
func New(src cube.Reader) *Builder {
	return &Builder{src: src}
}

// Err returns the first configuration error recorded so far.
func (b *Builder) Err() error { return b.err }

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}

	return b
}

func (b *Builder) dimIndex(op, name string) (int, bool) {
	i := slices.Index(b.src.Dimensions(), name)
	if i < 0 {
		b.fail(fmt.Errorf("query %s: %q: %w", op, name, errs.ErrUnknownDimension))
		return 0, false
	}

	return i, true
}

// Dimension copies the source dimension name into the result.
func (b *Builder) Dimension(name string) *Builder {
	i, ok := b.dimIndex("dimension", name)
	if !ok {
		return b
	}
	b.dims = append(b.dims, dimSelector{name: name, key: func(k key.Tuple) key.Value { return k[i] }})

	return b
}

// DerivedDimension adds a dimension computed by fn from the full source key.
func (b *Builder) DerivedDimension(name string, fn KeyFunc) *Builder {
	if fn == nil {
		return b.fail(fmt.Errorf("query derived dimension %q: nil key function: %w", name, errs.ErrInvalidOption))
	}
	b.dims = append(b.dims, dimSelector{name: name, key: fn})

	return b
}

// Measure copies the measure at index from the source cells. Index 0 selects
// the single measure of a non-composite source.
func (b *Builder) Measure(index int) *Builder {
	f, err := b.measureFactory(index)
	if err != nil {
		return b.fail(err)
	}
	b.measures = append(b.measures, measureSelector{
		factory: f,
		derive: func(e cube.Entry) (aggregator.Aggregator, error) {
			return measureOf(e.Value, index)
		},
	})

	return b
}

// CustomMeasure adds a measure of factory f whose cells are built by fn.
func (b *Builder) CustomMeasure(f aggregator.Factory, fn MeasureFunc) *Builder {
	if f == nil || fn == nil {
		return b.fail(fmt.Errorf("query custom measure: nil factory or function: %w", errs.ErrInvalidMeasure))
	}
	b.measures = append(b.measures, measureSelector{factory: f, derive: fn})

	return b
}

// FormulaMeasure adds a measure whose value fn computes from copies of the
// parent measures, given by source index.
func (b *Builder) FormulaMeasure(name string, fn aggregator.FormulaFunc, parents ...int) *Builder {
	factories := make([]aggregator.Factory, len(parents))
	for i, p := range parents {
		f, err := b.measureFactory(p)
		if err != nil {
			return b.fail(fmt.Errorf("formula %q: %w", name, err))
		}
		factories[i] = f
	}

	formula := aggregator.Formula{Name: name, Fn: fn, Factories: factories}
	b.measures = append(b.measures, measureSelector{
		factory: formula,
		derive: func(e cube.Entry) (aggregator.Aggregator, error) {
			children := make([]aggregator.Aggregator, len(parents))
			for i, p := range parents {
				a, err := measureOf(e.Value, p)
				if err != nil {
					return nil, err
				}
				if children[i], err = factories[i].FromState(a.State()); err != nil {
					return nil, fmt.Errorf("formula %q: parent %d: %w", name, p, err)
				}
			}

			return aggregator.NewFormulaAggregator(fn, children...), nil
		},
	})

	return b
}

// Where keeps cells whose dimension value equals one of values. Numeric
// values match across integer and decimal kinds. No values keeps every cell.
func (b *Builder) Where(dim string, values ...any) *Builder {
	if len(values) == 0 {
		return b
	}
	if len(values) == 1 {
		want := whereKey(values[0])
		return b.WhereFunc(dim, func(v key.Value) bool { return key.Equal(want, v) })
	}

	set := key.NewMap[struct{}](len(values))
	for _, v := range values {
		set.Put(whereKey(v), struct{}{})
	}

	return b.WhereFunc(dim, func(v key.Value) bool {
		_, ok := set.Get(v)
		return ok
	})
}

// whereKey converts a filter value the way stored keys hold it: nil addresses
// the missing-value cell.
func whereKey(v any) key.Value {
	k := key.Of(v)
	if k.IsNull() {
		return key.Missing()
	}

	return k
}

// WhereFunc keeps cells whose value of dim satisfies pred.
func (b *Builder) WhereFunc(dim string, pred func(key.Value) bool) *Builder {
	i, ok := b.dimIndex("where", dim)
	if !ok {
		return b
	}
	b.filters = append(b.filters, func(e cube.Entry) bool { return pred(e.Key[i]) })

	return b
}

// Filter keeps cells accepted by pred. Filters run on source cells before
// projection and combine with AND.
func (b *Builder) Filter(pred func(cube.Entry) bool) *Builder {
	b.filters = append(b.filters, pred)
	return b
}

// Execute runs the query in one pass over the source leaf cells.
//
// Without dimension selectors the result keeps every source dimension, and
// without measure selectors it keeps the source factory. More than one
// measure selector yields a composite measure in selector order.
//
// Parameters:
//   - opts: Options of the result cube
//
// Returns:
//   - *cube.Cube: New cube holding the merged projection
//   - error: The first configuration error of the builder, or an error
//     raised while deriving or merging cells
func (b *Builder) Execute(opts ...cube.Option) (*cube.Cube, error) {
	if b.err != nil {
		return nil, b.err
	}

	p := b.projection()
	dst, err := cube.New(p.dims, p.factory, opts...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if err := dst.Merge(p); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if p.err != nil {
		return nil, fmt.Errorf("query: %w", p.err)
	}

	return dst, nil
}

func (b *Builder) projection() *projection {
	p := &projection{src: b.src, filters: slices.Clone(b.filters)}

	if len(b.dims) == 0 {
		p.dims = b.src.Dimensions()
	} else {
		p.dims = make([]string, len(b.dims))
		p.keys = make([]KeyFunc, len(b.dims))
		for i, d := range b.dims {
			p.dims[i] = d.name
			p.keys[i] = d.key
		}
	}

	switch len(b.measures) {
	case 0:
		p.factory = b.src.Factory()
	case 1:
		p.factory = b.measures[0].factory
		p.derive = b.measures[0].derive
	default:
		selectors := slices.Clone(b.measures)
		factories := make([]aggregator.Factory, len(selectors))
		for i, m := range selectors {
			factories[i] = m.factory
		}
		p.factory = aggregator.Composite{Factories: factories}
		p.derive = func(e cube.Entry) (aggregator.Aggregator, error) {
			children := make([]aggregator.Aggregator, len(selectors))
			for i, m := range selectors {
				a, err := m.derive(e)
				if err != nil {
					return nil, err
				}
				children[i] = a
			}

			return aggregator.NewCompositeAggregator(children...), nil
		}
	}

	return p
}

func (b *Builder) measureFactory(index int) (aggregator.Factory, error) {
	f := b.src.Factory()
	if comp, ok := f.(aggregator.Composite); ok {
		if index < 0 || index >= len(comp.Factories) {
			return nil, fmt.Errorf("query measure %d: source has %d measures: %w", index, len(comp.Factories), errs.ErrInvalidMeasure)
		}

		return comp.Factories[index], nil
	}
	if index != 0 {
		return nil, fmt.Errorf("query measure %d: source has 1 measure: %w", index, errs.ErrInvalidMeasure)
	}

	return f, nil
}

func measureOf(a aggregator.Aggregator, index int) (aggregator.Aggregator, error) {
	if comp, ok := a.(*aggregator.CompositeAggregator); ok {
		if index < len(comp.Children()) {
			return comp.Child(index), nil
		}
	} else if index == 0 {
		return a, nil
	}

	return nil, fmt.Errorf("measure %d of %T: %w", index, a, errs.ErrInvalidMeasure)
}

// projection is the filtered and derived view of a source cube that the
// result cube merges. Iteration stops at the first derivation error, which
// is kept in err.
type projection struct {
	src     cube.Reader
	dims    []string
	factory aggregator.Factory
	keys    []KeyFunc
	derive  MeasureFunc
	filters []func(cube.Entry) bool
	err     error
}

var _ cube.Reader = (*projection)(nil)

func (p *projection) Dimensions() []string { return p.dims }

func (p *projection) Factory() aggregator.Factory { return p.factory }

func (p *projection) Get(k key.Tuple) (aggregator.Aggregator, error) {
	return nil, fmt.Errorf("query projection get %s: %w", k, errs.ErrNoValue)
}

// Len counts the source cells that pass the filters.
func (p *projection) Len() int {
	n := 0
	for k, a := range p.src.All() {
		if p.keep(cube.Entry{Key: k, Value: a}) {
			n++
		}
	}

	return n
}

func (p *projection) All() iter.Seq2[key.Tuple, aggregator.Aggregator] {
	return func(yield func(key.Tuple, aggregator.Aggregator) bool) {
		for k, a := range p.src.All() {
			e := cube.Entry{Key: k, Value: a}
			if !p.keep(e) {
				continue
			}

			dk, err := p.key(k)
			if err != nil {
				p.err = err
				return
			}
			da := a
			if p.derive != nil {
				if da, err = p.derive(e); err != nil {
					p.err = fmt.Errorf("key %s: %w", k, err)
					return
				}
			}
			if !yield(dk, da) {
				return
			}
		}
	}
}

func (p *projection) keep(e cube.Entry) bool {
	for _, f := range p.filters {
		if !f(e) {
			return false
		}
	}

	return true
}

// key derives the destination key of a source key. Derived nulls become
// key.Missing like ingested ones; derived wildcards are rejected.
func (p *projection) key(k key.Tuple) (key.Tuple, error) {
	if p.keys == nil {
		return k, nil
	}

	dk := make(key.Tuple, len(p.keys))
	for i, fn := range p.keys {
		v := fn(k)
		switch {
		case v.IsNull():
			v = key.Missing()
		case v.IsWildcard():
			return nil, fmt.Errorf("dimension %q of key %s: %w", p.dims[i], k, errs.ErrWildcardInLeaf)
		}
		dk[i] = v
	}

	return dk, nil
}

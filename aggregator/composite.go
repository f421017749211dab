package aggregator

import (
	"fmt"
	"strings"

	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/key"
)

// Composite fuses several measures into one aggregator. Its value is the
// array of the children's values, in factory order.
type Composite struct {
	Factories []Factory
}

var _ Factory = Composite{}

func (f Composite) Create() Aggregator {
	return &CompositeAggregator{children: createAll(f.Factories)}
}

func (f Composite) FromState(state key.Value) (Aggregator, error) {
	children, err := childrenFromState("composite", f.Factories, state)
	if err != nil {
		return nil, err
	}

	return &CompositeAggregator{children: children}, nil
}

func (f Composite) Equal(other Factory) bool {
	o, ok := other.(Composite)
	return ok && factoriesEqual(f.Factories, o.Factories)
}

func (f Composite) String() string {
	return "Composite(" + joinFactories(f.Factories) + ")"
}

// FormulaFunc computes a derived measure from live child aggregators.
// It must not modify them.
type FormulaFunc func(children []Aggregator) key.Value

// Formula is a composite whose value is computed by Fn over its children,
// for example a weighted average derived from two sums.
type Formula struct {
	Name      string
	Fn        FormulaFunc
	Factories []Factory
}

var _ Factory = Formula{}

func (f Formula) Create() Aggregator {
	return &FormulaAggregator{fn: f.Fn, CompositeAggregator: CompositeAggregator{children: createAll(f.Factories)}}
}

func (f Formula) FromState(state key.Value) (Aggregator, error) {
	children, err := childrenFromState("formula "+f.Name, f.Factories, state)
	if err != nil {
		return nil, err
	}

	return &FormulaAggregator{fn: f.Fn, CompositeAggregator: CompositeAggregator{children: children}}, nil
}

// Equal compares the name and the child factories. Functions are not comparable.
func (f Formula) Equal(other Factory) bool {
	o, ok := other.(Formula)
	return ok && o.Name == f.Name && factoriesEqual(f.Factories, o.Factories)
}

func (f Formula) String() string { return f.Name }

// NewFormulaAggregator wraps existing aggregators, which become owned by the result.
func NewFormulaAggregator(fn FormulaFunc, children ...Aggregator) *FormulaAggregator {
	return &FormulaAggregator{fn: fn, CompositeAggregator: CompositeAggregator{children: children}}
}

func createAll(fs []Factory) []Aggregator {
	children := make([]Aggregator, len(fs))
	for i, f := range fs {
		children[i] = f.Create()
	}

	return children
}

// childrenFromState restores [child states..., count].
func childrenFromState(op string, fs []Factory, state key.Value) ([]Aggregator, error) {
	items, err := stateArray(op, state, len(fs)+1)
	if err != nil {
		return nil, err
	}
	if _, err := stateCount(op, items[len(fs)]); err != nil {
		return nil, err
	}

	children := make([]Aggregator, len(fs))
	for i, f := range fs {
		if children[i], err = f.FromState(items[i]); err != nil {
			return nil, fmt.Errorf("%s: child %d: %w", op, i, err)
		}
	}

	return children, nil
}

func factoriesEqual(a, b []Factory) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}

	return true
}

func joinFactories(fs []Factory) string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.String()
	}

	return strings.Join(names, ", ")
}

// CompositeAggregator is created by Composite.
type CompositeAggregator struct {
	children []Aggregator
}

var _ Aggregator = (*CompositeAggregator)(nil)

// NewCompositeAggregator wraps existing aggregators, which become owned by the result.
func NewCompositeAggregator(children ...Aggregator) *CompositeAggregator {
	return &CompositeAggregator{children: children}
}

func (a *CompositeAggregator) Push(record any, get Accessor) error {
	for _, c := range a.children {
		if err := c.Push(record, get); err != nil {
			return err
		}
	}

	return nil
}

func (a *CompositeAggregator) Value() key.Value {
	vals := make([]key.Value, len(a.children))
	for i, c := range a.children {
		vals[i] = c.Value()
	}

	return key.Array(vals...)
}

// Count returns the largest child count.
func (a *CompositeAggregator) Count() uint64 {
	var n uint64
	for _, c := range a.children {
		n = max(n, c.Count())
	}

	return n
}

// Children returns the child aggregators in factory order.
func (a *CompositeAggregator) Children() []Aggregator { return a.children }

// Child returns the i-th child aggregator.
func (a *CompositeAggregator) Child(i int) Aggregator { return a.children[i] }

func (a *CompositeAggregator) mergeChildren(op string, o *CompositeAggregator) error {
	if len(o.children) != len(a.children) {
		return fmt.Errorf("%s: merge %d children into %d: %w",
			op, len(o.children), len(a.children), errs.ErrAggregatorMismatch)
	}
	for i, c := range a.children {
		if err := c.Merge(o.children[i]); err != nil {
			return fmt.Errorf("%s: child %d: %w", op, i, err)
		}
	}

	return nil
}

func (a *CompositeAggregator) Merge(other Aggregator) error {
	o, ok := other.(*CompositeAggregator)
	if !ok {
		return mismatch("composite", a, other)
	}

	return a.mergeChildren("composite", o)
}

func (a *CompositeAggregator) State() key.Value {
	items := make([]key.Value, len(a.children)+1)
	for i, c := range a.children {
		items[i] = c.State()
	}
	items[len(a.children)] = key.Uint64(a.Count())

	return key.Array(items...)
}

// FormulaAggregator is created by Formula.
type FormulaAggregator struct {
	CompositeAggregator
	fn FormulaFunc
}

var _ Aggregator = (*FormulaAggregator)(nil)

// Value applies the formula to the children. A nil formula yields key.Null.
func (a *FormulaAggregator) Value() key.Value {
	if a.fn == nil {
		return key.Null()
	}

	return a.fn(a.children)
}

func (a *FormulaAggregator) Merge(other Aggregator) error {
	o, ok := other.(*FormulaAggregator)
	if !ok {
		return mismatch("formula", a, other)
	}

	return a.mergeChildren("formula", &o.CompositeAggregator)
}

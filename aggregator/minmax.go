package aggregator

import (
	"github.com/arloliu/cubo/key"
)

// Min keeps the smallest value of a field in natural order.
type Min struct {
	Field string
}

var _ Factory = Min{}

func (f Min) Create() Aggregator { return &MinAggregator{extremum{field: f.Field, sign: -1}} }

func (f Min) FromState(state key.Value) (Aggregator, error) {
	e, err := extremumFromState("min", f.Field, -1, state)
	if err != nil {
		return nil, err
	}

	return &MinAggregator{e}, nil
}

func (f Min) Equal(other Factory) bool {
	o, ok := other.(Min)
	return ok && o.Field == f.Field
}

func (f Min) String() string { return "Min of " + f.Field }

// Max keeps the largest value of a field in natural order.
type Max struct {
	Field string
}

var _ Factory = Max{}

func (f Max) Create() Aggregator { return &MaxAggregator{extremum{field: f.Field, sign: 1}} }

func (f Max) FromState(state key.Value) (Aggregator, error) {
	e, err := extremumFromState("max", f.Field, 1, state)
	if err != nil {
		return nil, err
	}

	return &MaxAggregator{e}, nil
}

func (f Max) Equal(other Factory) bool {
	o, ok := other.(Max)
	return ok && o.Field == f.Field
}

func (f Max) String() string { return "Max of " + f.Field }

// extremum keeps the best value seen; sign is -1 for min and +1 for max.
type extremum struct {
	field string
	sign  int
	count uint64
	best  key.Value
}

func (e *extremum) offer(v key.Value) {
	if e.best.IsNull() || key.Compare(v, e.best)*e.sign > 0 {
		e.best = v
	}
}

func (e *extremum) push(op string, record any, get Accessor) error {
	v := fieldValue(record, get, e.field)
	if v.IsNullish() {
		return nil
	}
	if !v.Orderable() {
		return notOrderable(op, v)
	}
	e.count++
	e.offer(v)

	return nil
}

func (e *extremum) merge(o *extremum) {
	if o.count == 0 {
		return
	}
	e.count += o.count
	e.offer(o.best)
}

func (e *extremum) state() key.Value {
	return key.Array(key.Uint64(e.count), e.best)
}

func extremumFromState(op string, field string, sign int, state key.Value) (extremum, error) {
	items, err := stateArray(op, state, 2)
	if err != nil {
		return extremum{}, err
	}
	n, err := stateCount(op, items[0])
	if err != nil {
		return extremum{}, err
	}
	if !items[1].IsNull() && !items[1].Orderable() {
		return extremum{}, invalidState(op, "value of kind %s is not orderable", items[1].Kind())
	}

	return extremum{field: field, sign: sign, count: n, best: items[1]}, nil
}

// MinAggregator is created by Min.
type MinAggregator struct {
	extremum
}

var _ Aggregator = (*MinAggregator)(nil)

func (a *MinAggregator) Push(record any, get Accessor) error { return a.push("min", record, get) }

// Value returns the smallest value seen, or key.Null.
func (a *MinAggregator) Value() key.Value { return a.best }

func (a *MinAggregator) Count() uint64 { return a.count }

func (a *MinAggregator) Merge(other Aggregator) error {
	o, ok := other.(*MinAggregator)
	if !ok {
		return mismatch("min", a, other)
	}
	a.merge(&o.extremum)

	return nil
}

func (a *MinAggregator) State() key.Value { return a.state() }

// MaxAggregator is created by Max.
type MaxAggregator struct {
	extremum
}

var _ Aggregator = (*MaxAggregator)(nil)

func (a *MaxAggregator) Push(record any, get Accessor) error { return a.push("max", record, get) }

// Value returns the largest value seen, or key.Null.
func (a *MaxAggregator) Value() key.Value { return a.best }

func (a *MaxAggregator) Count() uint64 { return a.count }

func (a *MaxAggregator) Merge(other Aggregator) error {
	o, ok := other.(*MaxAggregator)
	if !ok {
		return mismatch("max", a, other)
	}
	a.merge(&o.extremum)

	return nil
}

func (a *MaxAggregator) State() key.Value { return a.state() }

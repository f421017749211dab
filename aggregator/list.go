package aggregator

import (
	"github.com/arloliu/cubo/key"
)

// List collects every value of a field in push order, nulls included.
type List struct {
	Field string
}

var _ Factory = List{}

func (f List) Create() Aggregator { return &ListAggregator{field: f.Field} }

func (f List) FromState(state key.Value) (Aggregator, error) {
	vals, err := stateArray("list", state, -1)
	if err != nil {
		return nil, err
	}

	return &ListAggregator{field: f.Field, values: append([]key.Value(nil), vals...)}, nil
}

func (f List) Equal(other Factory) bool {
	o, ok := other.(List)
	return ok && o.Field == f.Field
}

func (f List) String() string { return "List of " + f.Field }

// ListAggregator is created by List.
type ListAggregator struct {
	field  string
	values []key.Value
}

var _ Aggregator = (*ListAggregator)(nil)

func (a *ListAggregator) Push(record any, get Accessor) error {
	a.values = append(a.values, fieldValue(record, get, a.field))
	return nil
}

func (a *ListAggregator) Value() key.Value { return key.Array(a.values...) }

func (a *ListAggregator) Count() uint64 { return uint64(len(a.values)) }

func (a *ListAggregator) Merge(other Aggregator) error {
	o, ok := other.(*ListAggregator)
	if !ok {
		return mismatch("list", a, other)
	}
	a.values = append(a.values, o.values...)

	return nil
}

func (a *ListAggregator) State() key.Value { return key.Array(a.values...) }

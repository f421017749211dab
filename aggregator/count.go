package aggregator

import (
	"github.com/arloliu/cubo/key"
)

// Count counts records. With Field set, only records whose field is neither
// null nor missing are counted.
type Count struct {
	Field string
}

var _ Factory = Count{}

func (f Count) Create() Aggregator {
	return &CountAggregator{field: f.Field}
}

func (f Count) FromState(state key.Value) (Aggregator, error) {
	n, err := stateCount("count", state)
	if err != nil {
		return nil, err
	}

	return &CountAggregator{field: f.Field, count: n}, nil
}

func (f Count) Equal(other Factory) bool {
	o, ok := other.(Count)
	return ok && o.Field == f.Field
}

func (f Count) String() string {
	if f.Field == "" {
		return "Count"
	}

	return "Count of " + f.Field
}

// CountAggregator is created by Count.
type CountAggregator struct {
	field string
	count uint64
}

var _ Aggregator = (*CountAggregator)(nil)

func (a *CountAggregator) Push(record any, get Accessor) error {
	if a.field == "" || !fieldValue(record, get, a.field).IsNullish() {
		a.count++
	}

	return nil
}

func (a *CountAggregator) Value() key.Value { return key.Uint64(a.count) }

func (a *CountAggregator) Count() uint64 { return a.count }

func (a *CountAggregator) Merge(other Aggregator) error {
	o, ok := other.(*CountAggregator)
	if !ok {
		return mismatch("count", a, other)
	}
	a.count += o.count

	return nil
}

func (a *CountAggregator) State() key.Value { return key.Uint64(a.count) }

package aggregator

import (
	"github.com/shopspring/decimal"

	"github.com/arloliu/cubo/convert"
	"github.com/arloliu/cubo/key"
)

// Sum totals a numeric field with decimal precision.
type Sum struct {
	Field string
}

var _ Factory = Sum{}

func (f Sum) Create() Aggregator {
	return &SumAggregator{total: total{field: f.Field}}
}

func (f Sum) FromState(state key.Value) (Aggregator, error) {
	t, err := totalFromState("sum", f.Field, state)
	if err != nil {
		return nil, err
	}

	return &SumAggregator{total: t}, nil
}

func (f Sum) Equal(other Factory) bool {
	o, ok := other.(Sum)
	return ok && o.Field == f.Field
}

func (f Sum) String() string { return "Sum of " + f.Field }

// Average computes the arithmetic mean of a numeric field.
type Average struct {
	Field string
}

var _ Factory = Average{}

func (f Average) Create() Aggregator {
	return &AverageAggregator{total: total{field: f.Field}}
}

func (f Average) FromState(state key.Value) (Aggregator, error) {
	t, err := totalFromState("average", f.Field, state)
	if err != nil {
		return nil, err
	}

	return &AverageAggregator{total: t}, nil
}

func (f Average) Equal(other Factory) bool {
	o, ok := other.(Average)
	return ok && o.Field == f.Field
}

func (f Average) String() string { return "Average of " + f.Field }

// total is the running count and decimal sum shared by Sum and Average.
type total struct {
	field string
	count uint64
	sum   decimal.Decimal
}

func (t *total) push(record any, get Accessor) {
	d, ok := convert.ToDecimal(fieldValue(record, get, t.field))
	if !ok {
		return
	}
	t.count++
	t.sum = t.sum.Add(d)
}

func (t *total) merge(o *total) {
	if o.count == 0 {
		return
	}
	t.count += o.count
	t.sum = t.sum.Add(o.sum)
}

// state is [count, sum], with a null sum while empty.
func (t *total) state() key.Value {
	if t.count == 0 {
		return key.Array(key.Uint64(0), key.Null())
	}

	return key.Array(key.Uint64(t.count), key.Decimal(t.sum))
}

func totalFromState(op string, field string, state key.Value) (total, error) {
	items, err := stateArray(op, state, 2)
	if err != nil {
		return total{}, err
	}
	n, err := stateCount(op, items[0])
	if err != nil {
		return total{}, err
	}

	t := total{field: field}
	if items[1].IsNull() {
		return t, nil
	}
	d, ok := convert.ToDecimal(items[1])
	if !ok || !items[1].IsNumeric() {
		return total{}, invalidState(op, "expected numeric total, got %s", items[1].Kind())
	}
	t.count = n
	t.sum = d

	return t, nil
}

// SumAggregator is created by Sum.
type SumAggregator struct {
	total
}

var _ Aggregator = (*SumAggregator)(nil)

func (a *SumAggregator) Push(record any, get Accessor) error {
	a.push(record, get)
	return nil
}

// Value returns the decimal total, or key.Null when nothing was summed.
func (a *SumAggregator) Value() key.Value {
	if a.count == 0 {
		return key.Null()
	}

	return key.Decimal(a.sum)
}

func (a *SumAggregator) Count() uint64 { return a.count }

// Total returns the running sum, zero when empty.
func (a *SumAggregator) Total() decimal.Decimal { return a.sum }

func (a *SumAggregator) Merge(other Aggregator) error {
	o, ok := other.(*SumAggregator)
	if !ok {
		return mismatch("sum", a, other)
	}
	a.merge(&o.total)

	return nil
}

func (a *SumAggregator) State() key.Value { return a.state() }

// AverageAggregator is created by Average.
type AverageAggregator struct {
	total
}

var _ Aggregator = (*AverageAggregator)(nil)

func (a *AverageAggregator) Push(record any, get Accessor) error {
	a.push(record, get)
	return nil
}

// Value returns the decimal mean, or key.Null when nothing was pushed.
func (a *AverageAggregator) Value() key.Value {
	if a.count == 0 {
		return key.Null()
	}

	return key.Decimal(a.sum.Div(decimal.NewFromInt(int64(a.count))))
}

func (a *AverageAggregator) Count() uint64 { return a.count }

func (a *AverageAggregator) Merge(other Aggregator) error {
	o, ok := other.(*AverageAggregator)
	if !ok {
		return mismatch("average", a, other)
	}
	a.merge(&o.total)

	return nil
}

func (a *AverageAggregator) State() key.Value { return a.state() }

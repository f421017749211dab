package aggregator

import (
	"slices"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/arloliu/cubo/convert"
	"github.com/arloliu/cubo/key"
)

// Quantile estimates the Q-quantile (0 <= Q <= 1) of a numeric field.
//
// The estimate is the midpoint of the sorted values at floor and ceil of
// Q*(n-1). Every value is retained.
type Quantile struct {
	Field string
	Q     float64
}

var _ Factory = Quantile{}

func (f Quantile) Create() Aggregator { return &QuantileAggregator{field: f.Field, q: f.Q} }

func (f Quantile) FromState(state key.Value) (Aggregator, error) {
	vals, err := stateArray("quantile", state, -1)
	if err != nil {
		return nil, err
	}

	a := &QuantileAggregator{field: f.Field, q: f.Q, values: make([]decimal.Decimal, 0, len(vals))}
	for _, v := range vals {
		d, ok := convert.ToDecimal(v)
		if !ok || !v.IsNumeric() {
			return nil, invalidState("quantile", "expected numeric value, got %s", v.Kind())
		}
		a.values = append(a.values, d)
	}

	return a, nil
}

func (f Quantile) Equal(other Factory) bool {
	o, ok := other.(Quantile)
	return ok && o.Field == f.Field && o.Q == f.Q
}

func (f Quantile) String() string {
	return "Quantile " + strconv.FormatFloat(f.Q, 'g', -1, 64) + " of " + f.Field
}

// QuantileAggregator is created by Quantile.
//
// Readers may call Value, Quantile and State concurrently; mu serializes the
// lazy in-place sort against them.
type QuantileAggregator struct {
	field  string
	q      float64
	mu     sync.Mutex
	values []decimal.Decimal
	sorted bool
}

var _ Aggregator = (*QuantileAggregator)(nil)

func (a *QuantileAggregator) Push(record any, get Accessor) error {
	d, ok := convert.ToDecimal(fieldValue(record, get, a.field))
	if !ok {
		return nil
	}
	a.values = append(a.values, d)
	a.sorted = false

	return nil
}

// Value returns the configured quantile as a decimal, or key.Null when empty.
func (a *QuantileAggregator) Value() key.Value {
	d, ok := a.Quantile(a.q)
	if !ok {
		return key.Null()
	}

	return key.Decimal(d)
}

// Quantile returns the q-quantile of the values pushed so far. q is clamped to [0, 1].
func (a *QuantileAggregator) Quantile(q float64) (decimal.Decimal, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := len(a.values)
	if n == 0 {
		return decimal.Zero, false
	}
	if !a.sorted {
		slices.SortFunc(a.values, decimal.Decimal.Cmp)
		a.sorted = true
	}

	q = min(max(q, 0), 1)
	pos := decimal.NewFromFloat(q).Mul(decimal.NewFromInt(int64(n - 1)))
	lo := int(pos.Floor().IntPart())
	hi := int(pos.Ceil().IntPart())

	return a.values[lo].Add(a.values[hi]).Div(decimal.NewFromInt(2)), true
}

func (a *QuantileAggregator) Count() uint64 { return uint64(len(a.values)) }

func (a *QuantileAggregator) Merge(other Aggregator) error {
	o, ok := other.(*QuantileAggregator)
	if !ok {
		return mismatch("quantile", a, other)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.values) == 0 {
		return nil
	}
	a.values = append(a.values, o.values...)
	a.sorted = false

	return nil
}

func (a *QuantileAggregator) State() key.Value {
	a.mu.Lock()
	defer a.mu.Unlock()

	vals := make([]key.Value, len(a.values))
	for i, d := range a.values {
		vals[i] = key.Decimal(d)
	}

	return key.Array(vals...)
}

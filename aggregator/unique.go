package aggregator

import (
	"slices"
	"sync"

	"github.com/arloliu/cubo/key"
)

// CountUnique counts the distinct non-null values of a field.
type CountUnique struct {
	Field string
}

var _ Factory = CountUnique{}

func (f CountUnique) Create() Aggregator {
	return &CountUniqueAggregator{newUniqueSet(f.Field)}
}

func (f CountUnique) FromState(state key.Value) (Aggregator, error) {
	u, err := uniqueFromState("count unique", f.Field, state)
	if err != nil {
		return nil, err
	}

	return &CountUniqueAggregator{u}, nil
}

func (f CountUnique) Equal(other Factory) bool {
	o, ok := other.(CountUnique)
	return ok && o.Field == f.Field
}

func (f CountUnique) String() string { return "Count Unique of " + f.Field }

// ListUnique collects the distinct non-null values of a field.
type ListUnique struct {
	Field string
}

var _ Factory = ListUnique{}

func (f ListUnique) Create() Aggregator {
	return &ListUniqueAggregator{uniqueSet: newUniqueSet(f.Field)}
}

func (f ListUnique) FromState(state key.Value) (Aggregator, error) {
	u, err := uniqueFromState("list unique", f.Field, state)
	if err != nil {
		return nil, err
	}

	return &ListUniqueAggregator{uniqueSet: u}, nil
}

func (f ListUnique) Equal(other Factory) bool {
	o, ok := other.(ListUnique)
	return ok && o.Field == f.Field
}

func (f ListUnique) String() string { return "List Unique of " + f.Field }

// uniqueSet counts contributions and keeps distinct values in first-seen order.
type uniqueSet struct {
	field  string
	count  uint64
	values *key.Map[struct{}]
}

func newUniqueSet(field string) uniqueSet {
	return uniqueSet{field: field, values: key.NewMap[struct{}](0)}
}

func (u *uniqueSet) push(record any, get Accessor) bool {
	v := fieldValue(record, get, u.field)
	if v.IsNullish() {
		return false
	}
	u.count++
	_, inserted := u.values.GetOrInsert(v, func() struct{} { return struct{}{} })

	return inserted
}

func (u *uniqueSet) merge(o *uniqueSet) {
	u.count += o.count
	for v := range o.values.All() {
		u.values.GetOrInsert(v, func() struct{} { return struct{}{} })
	}
}

func (u *uniqueSet) list() []key.Value {
	out := make([]key.Value, 0, u.values.Len())
	for v := range u.values.All() {
		out = append(out, v)
	}

	return out
}

func (u *uniqueSet) state() key.Value {
	return key.Array(key.Uint64(u.count), key.Array(u.list()...))
}

func uniqueFromState(op string, field string, state key.Value) (uniqueSet, error) {
	items, err := stateArray(op, state, 2)
	if err != nil {
		return uniqueSet{}, err
	}
	n, err := stateCount(op, items[0])
	if err != nil {
		return uniqueSet{}, err
	}
	vals, err := stateArray(op, items[1], -1)
	if err != nil {
		return uniqueSet{}, err
	}

	u := newUniqueSet(field)
	u.count = n
	for _, v := range vals {
		u.values.GetOrInsert(v, func() struct{} { return struct{}{} })
	}

	return u, nil
}

// CountUniqueAggregator is created by CountUnique.
type CountUniqueAggregator struct {
	uniqueSet
}

var _ Aggregator = (*CountUniqueAggregator)(nil)

func (a *CountUniqueAggregator) Push(record any, get Accessor) error {
	a.push(record, get)
	return nil
}

// Value returns the number of distinct values.
func (a *CountUniqueAggregator) Value() key.Value { return key.Uint64(uint64(a.values.Len())) }

func (a *CountUniqueAggregator) Count() uint64 { return a.count }

func (a *CountUniqueAggregator) Merge(other Aggregator) error {
	o, ok := other.(*CountUniqueAggregator)
	if !ok {
		return mismatch("count unique", a, other)
	}
	a.merge(&o.uniqueSet)

	return nil
}

func (a *CountUniqueAggregator) State() key.Value { return a.state() }

// ListUniqueAggregator is created by ListUnique.
type ListUniqueAggregator struct {
	uniqueSet
	mu     sync.Mutex // guards sorted
	sorted []key.Value
}

var _ Aggregator = (*ListUniqueAggregator)(nil)

func (a *ListUniqueAggregator) Push(record any, get Accessor) error {
	if a.push(record, get) {
		a.sorted = nil
	}

	return nil
}

// Value returns the distinct values as an array sorted in natural order.
func (a *ListUniqueAggregator) Value() key.Value {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sorted == nil {
		a.sorted = a.list()
		slices.SortStableFunc(a.sorted, key.Compare)
	}

	return key.Array(a.sorted...)
}

func (a *ListUniqueAggregator) Count() uint64 { return a.count }

func (a *ListUniqueAggregator) Merge(other Aggregator) error {
	o, ok := other.(*ListUniqueAggregator)
	if !ok {
		return mismatch("list unique", a, other)
	}
	a.merge(&o.uniqueSet)
	a.sorted = nil

	return nil
}

func (a *ListUniqueAggregator) State() key.Value { return a.state() }

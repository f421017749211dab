package aggregator

import (
	"slices"
	"sync"

	"github.com/arloliu/cubo/key"
)

// Mode finds the most frequent non-null value of a field.
//
// The unimodal result breaks frequency ties by taking the largest tied value
// in natural order, and is null when no value occurs more than once. With
// Multimodal set the value is the sorted array of every value sharing the top
// frequency.
type Mode struct {
	Field      string
	Multimodal bool
}

var _ Factory = Mode{}

func (f Mode) Create() Aggregator {
	return &ModeAggregator{field: f.Field, multimodal: f.Multimodal, index: key.NewMap[int](0)}
}

func (f Mode) FromState(state key.Value) (Aggregator, error) {
	items, err := stateArray("mode", state, 3)
	if err != nil {
		return nil, err
	}
	n, err := stateCount("mode", items[0])
	if err != nil {
		return nil, err
	}
	vals, err := stateArray("mode", items[1], -1)
	if err != nil {
		return nil, err
	}
	counts, err := stateArray("mode", items[2], len(vals))
	if err != nil {
		return nil, err
	}

	a := &ModeAggregator{field: f.Field, multimodal: f.Multimodal, count: n, index: key.NewMap[int](len(vals))}
	for i, v := range vals {
		if !v.Orderable() {
			return nil, invalidState("mode", "value of kind %s is not orderable", v.Kind())
		}
		c, err := stateCount("mode", counts[i])
		if err != nil {
			return nil, err
		}
		a.add(v, c)
	}

	return a, nil
}

func (f Mode) Equal(other Factory) bool {
	o, ok := other.(Mode)
	return ok && o.Field == f.Field && o.Multimodal == f.Multimodal
}

func (f Mode) String() string {
	if f.Multimodal {
		return "Multimodal Mode of " + f.Field
	}

	return "Mode of " + f.Field
}

// ModeAggregator is created by Mode.
type ModeAggregator struct {
	field      string
	multimodal bool
	count      uint64
	index      *key.Map[int] // value -> position in freq
	freq       []uint64
	mu         sync.Mutex // guards memo
	memo       *key.Value
}

var _ Aggregator = (*ModeAggregator)(nil)

func (a *ModeAggregator) add(v key.Value, n uint64) {
	i, inserted := a.index.GetOrInsert(v, func() int { return len(a.freq) })
	if inserted {
		a.freq = append(a.freq, 0)
	}
	a.freq[i] += n
	a.memo = nil
}

func (a *ModeAggregator) Push(record any, get Accessor) error {
	v := fieldValue(record, get, a.field)
	if v.IsNullish() {
		return nil
	}
	if !v.Orderable() {
		return notOrderable("mode", v)
	}
	a.count++
	a.add(v, 1)

	return nil
}

// Value returns the mode, or the sorted modes array when multimodal.
func (a *ModeAggregator) Value() key.Value {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.memo == nil {
		var v key.Value
		if a.multimodal {
			v = key.Array(a.Modes()...)
		} else {
			v = a.unimodal()
		}
		a.memo = &v
	}

	return *a.memo
}

func (a *ModeAggregator) unimodal() key.Value {
	mode := key.Null()
	maxCount := uint64(1)
	canCompare := false
	for _, e := range a.index.Entries() {
		c := a.freq[e.Value]
		switch {
		case c > maxCount:
			mode, maxCount = e.Key, c
			canCompare = mode.Orderable()
		case c == maxCount && canCompare && key.Compare(mode, e.Key) < 0:
			mode = e.Key
		}
	}

	return mode
}

// Modes returns every value sharing the highest frequency, sorted.
func (a *ModeAggregator) Modes() []key.Value {
	maxCount := uint64(1)
	for _, c := range a.freq {
		maxCount = max(maxCount, c)
	}

	var modes []key.Value
	for _, e := range a.index.Entries() {
		if a.freq[e.Value] == maxCount {
			modes = append(modes, e.Key)
		}
	}
	slices.SortStableFunc(modes, key.Compare)

	return modes
}

// Frequency returns how many times v was pushed.
func (a *ModeAggregator) Frequency(v key.Value) uint64 {
	if i, ok := a.index.Get(v); ok {
		return a.freq[i]
	}

	return 0
}

func (a *ModeAggregator) Count() uint64 { return a.count }

func (a *ModeAggregator) Merge(other Aggregator) error {
	o, ok := other.(*ModeAggregator)
	if !ok {
		return mismatch("mode", a, other)
	}
	a.count += o.count
	for _, e := range o.index.Entries() {
		a.add(e.Key, o.freq[e.Value])
	}
	a.memo = nil

	return nil
}

func (a *ModeAggregator) State() key.Value {
	entries := a.index.Entries()
	vals := make([]key.Value, len(entries))
	counts := make([]key.Value, len(entries))
	for i, e := range entries {
		vals[i] = e.Key
		counts[i] = key.Uint64(a.freq[e.Value])
	}

	return key.Array(key.Uint64(a.count), key.Array(vals...), key.Array(counts...))
}

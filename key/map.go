package key

import "iter"

// Entry is a key/value pair stored in a TupleMap or Map.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// table is an insertion-ordered hash table with chained collisions.
type table[K, V any] struct {
	hash    func(K) uint64
	equal   func(a, b K) bool
	clone   func(K) K
	index   map[uint64]int // hash -> head entry
	next    []int          // chain link per entry, -1 terminates
	entries []Entry[K, V]
}

func newTable[K, V any](capacity int, h func(K) uint64, eq func(a, b K) bool, clone func(K) K) table[K, V] {
	return table[K, V]{
		hash:    h,
		equal:   eq,
		clone:   clone,
		index:   make(map[uint64]int, capacity),
		next:    make([]int, 0, capacity),
		entries: make([]Entry[K, V], 0, capacity),
	}
}

func (m *table[K, V]) find(k K, h uint64) int {
	i, ok := m.index[h]
	if !ok {
		return -1
	}
	for i >= 0 {
		if m.equal(m.entries[i].Key, k) {
			return i
		}
		i = m.next[i]
	}

	return -1
}

func (m *table[K, V]) insert(k K, v V, h uint64) *Entry[K, V] {
	idx := len(m.entries)
	if head, ok := m.index[h]; ok {
		m.next = append(m.next, head)
	} else {
		m.next = append(m.next, -1)
	}
	m.index[h] = idx
	m.entries = append(m.entries, Entry[K, V]{Key: k, Value: v})

	return &m.entries[idx]
}

// Len returns the number of entries.
func (m *table[K, V]) Len() int { return len(m.entries) }

// Get returns the value stored under k.
func (m *table[K, V]) Get(k K) (V, bool) {
	if i := m.find(k, m.hash(k)); i >= 0 {
		return m.entries[i].Value, true
	}

	var zero V

	return zero, false
}

// Put stores v under k, replacing any previous value. k is retained as is.
func (m *table[K, V]) Put(k K, v V) {
	h := m.hash(k)
	if i := m.find(k, h); i >= 0 {
		m.entries[i].Value = v
		return
	}
	m.insert(k, v, h)
}

// GetOrInsert returns the value stored under k, or stores create() under a
// copy of k. inserted reports whether create was called.
func (m *table[K, V]) GetOrInsert(k K, create func() V) (v V, inserted bool) {
	h := m.hash(k)
	if i := m.find(k, h); i >= 0 {
		return m.entries[i].Value, false
	}
	if m.clone != nil {
		k = m.clone(k)
	}

	return m.insert(k, create(), h).Value, true
}

// Entries returns the entries in insertion order. The slice is owned by the
// map and only valid until the next mutation.
func (m *table[K, V]) Entries() []Entry[K, V] { return m.entries }

// All iterates entries in insertion order.
func (m *table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range m.entries {
			if !yield(m.entries[i].Key, m.entries[i].Value) {
				return
			}
		}
	}
}

// Clear removes all entries and keeps the allocated capacity.
func (m *table[K, V]) Clear() {
	clear(m.index)
	clear(m.entries)
	m.entries = m.entries[:0]
	m.next = m.next[:0]
}

// TupleMap is an insertion-ordered map keyed by Tuple.
//
// It is not safe for concurrent mutation.
type TupleMap[V any] struct {
	table[Tuple, V]
}

// NewTupleMap creates an empty TupleMap.
func NewTupleMap[V any](capacity int) *TupleMap[V] {
	return &TupleMap[V]{table: newTable[Tuple, V](capacity, Tuple.Hash, Tuple.Equal, Tuple.Clone)}
}

// Map is an insertion-ordered map keyed by Value.
type Map[V any] struct {
	table[Value, V]
}

// NewMap creates an empty Map.
func NewMap[V any](capacity int) *Map[V] {
	return &Map[V]{table: newTable[Value, V](capacity, Hash, Equal, nil)}
}

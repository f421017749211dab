// Package collision builds the deduplicated value table of a snapshot.
package collision

import (
	"github.com/arloliu/cubo/key"
)

// Table assigns a stable slot to every distinct key value.
//
// Values share a slot when key.Equal reports true, so Int32(1), Int64(1) and
// Decimal(1.0) are stored once, with the kind seen first. Cube keys already
// coerce that way, so every cell still resolves to itself on import. Values
// sharing a hash are chained; HasCollision reports whether any chain ever held
// more than one value.
type Table struct {
	slots        map[uint64][]uint32
	values       []key.Value
	hasCollision bool
}

// NewTable creates a table sized for capacity distinct values.
func NewTable(capacity int) *Table {
	return &Table{
		slots:  make(map[uint64][]uint32, capacity),
		values: make([]key.Value, 0, capacity),
	}
}

// Track returns the slot of v, appending v when it is new.
func (t *Table) Track(v key.Value) uint32 {
	h := key.Hash(v)
	chain := t.slots[h]
	for _, slot := range chain {
		if key.Equal(t.values[slot], v) {
			return slot
		}
	}
	if len(chain) > 0 {
		t.hasCollision = true
	}

	slot := uint32(len(t.values))
	t.values = append(t.values, v)
	t.slots[h] = append(chain, slot)

	return slot
}

// TrackTuple tracks every value of k and returns the slots in order.
func (t *Table) TrackTuple(k key.Tuple) []uint32 {
	out := make([]uint32, len(k))
	for i := range k {
		out[i] = t.Track(k[i])
	}

	return out
}

// HasCollision reports whether two distinct values shared a hash.
func (t *Table) HasCollision() bool {
	return t.hasCollision
}

// Values returns the values in slot order.
func (t *Table) Values() []key.Value {
	return t.values
}

// Count returns the number of distinct values.
func (t *Table) Count() int {
	return len(t.values)
}

// Reset clears the table, keeping its capacity.
func (t *Table) Reset() {
	clear(t.slots)
	t.values = t.values[:0]
	t.hasCollision = false
}

package key

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTupleMap(t *testing.T) {
	m := NewTupleMap[int](0)

	v, inserted := m.GetOrInsert(T("A", 1), func() int { return 10 })
	require.True(t, inserted)
	require.Equal(t, 10, v)

	// numerically equal keys of another width address the same entry
	v, inserted = m.GetOrInsert(Tuple{String("A"), Decimal(decimal.NewFromInt(1))}, func() int { return 99 })
	require.False(t, inserted)
	require.Equal(t, 10, v)

	m.Put(T("B", 2), 20)
	m.Put(T("A", int8(1)), 11)
	require.Equal(t, 2, m.Len())

	got, ok := m.Get(T("A", uint16(1)))
	require.True(t, ok)
	require.Equal(t, 11, got)

	_, ok = m.Get(T("C", 1))
	require.False(t, ok)

	var keys []string
	for k, v := range m.All() {
		keys = append(keys, k.String())
		require.Positive(t, v)
	}
	require.Equal(t, []string{"(A,1)", "(B,2)"}, keys)

	m.Clear()
	require.Equal(t, 0, m.Len())
	_, ok = m.Get(T("A", 1))
	require.False(t, ok)
}

func TestTupleMap_ClonesScratchKeys(t *testing.T) {
	m := NewTupleMap[string](4)
	scratch := T("x", "y")
	m.GetOrInsert(scratch, func() string { return "first" })
	scratch[1] = String("z")
	m.GetOrInsert(scratch, func() string { return "second" })

	require.Equal(t, 2, m.Len())
	require.Equal(t, "(x,y)", m.Entries()[0].Key.String())
}

func TestMap_Collisions(t *testing.T) {
	m := NewMap[int](0)
	// force every key into one chain
	m.hash = func(Value) uint64 { return 1 }

	for i := 0; i < 50; i++ {
		m.Put(Int64(int64(i)), i)
	}
	require.Equal(t, 50, m.Len())
	for i := 0; i < 50; i++ {
		v, ok := m.Get(Int32(int32(i)))
		require.True(t, ok)
		require.Equal(t, i, v)
	}

	m.Put(Int64(7), -7)
	v, _ := m.Get(Int64(7))
	require.Equal(t, -7, v)
	require.Equal(t, 50, m.Len())
}

func TestMap_AllStopsEarly(t *testing.T) {
	m := NewMap[int](0)
	for i := 0; i < 5; i++ {
		m.Put(Int64(int64(i)), i)
	}
	n := 0
	for range m.All() {
		n++
		if n == 2 {
			break
		}
	}
	require.Equal(t, 2, n)
}

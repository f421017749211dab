package key

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	d := decimal.RequireFromString("12.50")

	tests := []struct {
		name string
		in   any
		kind Kind
	}{
		{"nil", nil, KindNull},
		{"bool", true, KindBool},
		{"int", 7, KindInt64},
		{"int8", int8(-3), KindInt8},
		{"int16", int16(300), KindInt16},
		{"int32", int32(1 << 20), KindInt32},
		{"uint", uint(9), KindUint64},
		{"uint8", uint8(200), KindUint8},
		{"uint16", uint16(60000), KindUint16},
		{"uint32", uint32(1 << 31), KindUint32},
		{"float32", float32(1.5), KindFloat32},
		{"float64", 2.25, KindFloat64},
		{"decimal", d, KindDecimal},
		{"decimal pointer", &d, KindDecimal},
		{"nil decimal pointer", (*decimal.Decimal)(nil), KindNull},
		{"time", ts, KindTime},
		{"string", "A", KindString},
		{"bytes", []byte("B"), KindString},
		{"values", []Value{Int64(1)}, KindArray},
		{"any slice", []any{1, "x"}, KindArray},
		{"value", Char('z'), KindChar},
		{"stringer", time.Second, KindString},
		{"other", struct{ A int }{1}, KindString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, Of(tt.in).Kind())
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	require.Equal(t, int64(-5), Int8(-5).Int64())
	require.Equal(t, uint64(math.MaxUint64), Uint64(math.MaxUint64).Uint64())
	require.Equal(t, float32(1.25), Float32(1.25).Float32())
	require.InDelta(t, 1.25, Float32(1.25).Float64(), 0)
	require.Equal(t, 'x', Char('x').Rune())
	require.True(t, Bool(true).Bool())
	require.False(t, Bool(false).Bool())
	require.Equal(t, "s", String("s").Str())
	require.Equal(t, 2, Array(Int64(1), Int64(2)).Len())
	require.Equal(t, 0, Array().Len())
	require.True(t, Decimal(decimal.NewFromInt(3)).Decimal().Equal(decimal.NewFromInt(3)))

	// accessors of other kinds return zero values
	require.Zero(t, String("1").Int64())
	require.Zero(t, Int64(1).Float64())
	require.Nil(t, Int64(1).Elems())
}

func TestValue_Predicates(t *testing.T) {
	var zero Value
	require.True(t, zero.IsNull())
	require.True(t, Missing().IsNullish())
	require.True(t, Wildcard().IsWildcard())
	require.False(t, Wildcard().Orderable())
	require.False(t, Array().Orderable())
	require.True(t, String("a").Orderable())

	require.True(t, Int16(1).IsFixedPoint())
	require.True(t, Decimal(decimal.Zero).IsFixedPoint())
	require.False(t, Float64(1).IsFixedPoint())
	require.True(t, Float64(1).IsNumeric())
	require.False(t, Char('1').IsNumeric())
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), ""},
		{Missing(), ""},
		{Wildcard(), "*"},
		{Bool(true), "true"},
		{Char('Z'), "Z"},
		{Int32(-42), "-42"},
		{Uint64(math.MaxUint64), "18446744073709551615"},
		{Float32(0.1), "0.1"},
		{Float64(2.5), "2.5"},
		{Decimal(decimal.RequireFromString("1.50")), "1.5"},
		{Time(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)), "2024-01-02T03:04:05Z"},
		{String("abc"), "abc"},
		{Array(Int64(1), String("b")), "[1 b]"},
	}
	for _, tt := range tests {
		t.Run(tt.v.GoString(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestKind_String(t *testing.T) {
	for k := KindNull; k <= KindArray; k++ {
		parsed, ok := ParseKind(k.String())
		require.True(t, ok)
		require.Equal(t, k, parsed)
	}
	_, ok := ParseKind("complex128")
	require.False(t, ok)
	require.Equal(t, "Kind(99)", Kind(99).String())
}

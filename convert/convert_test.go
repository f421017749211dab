package convert

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cubo/key"
)

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name string
		in   key.Value
		want string
		ok   bool
	}{
		{"int8", key.Int8(-8), "-8", true},
		{"uint32", key.Uint32(7), "7", true},
		{"max uint64", key.Uint64(math.MaxUint64), "18446744073709551615", true},
		{"float32", key.Float32(0.5), "0.5", true},
		{"float64", key.Float64(1.1), "1.1", true},
		{"decimal", key.Decimal(decimal.RequireFromString("3.14")), "3.14", true},
		{"true", key.Bool(true), "1", true},
		{"false", key.Bool(false), "0", true},
		{"numeric string", key.String(" 42.5 "), "42.5", true},
		{"word", key.String("abc"), "0", false},
		{"nan", key.Float64(math.NaN()), "0", false},
		{"inf", key.Float32(float32(math.Inf(1))), "0", false},
		{"null", key.Null(), "0", false},
		{"missing", key.Missing(), "0", false},
		{"char", key.Char('1'), "0", false},
		{"time", key.Time(time.Now()), "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToDecimal(tt.in)
			require.Equal(t, tt.ok, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestToDecimalOr(t *testing.T) {
	def := decimal.NewFromInt(-1)
	assert.True(t, ToDecimalOr(key.String("x"), def).Equal(def))
	assert.True(t, ToDecimalOr(key.Int64(3), def).Equal(decimal.NewFromInt(3)))
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name string
		in   key.Value
		want float64
		ok   bool
	}{
		{"int", key.Int64(-3), -3, true},
		{"uint", key.Uint16(9), 9, true},
		{"float32", key.Float32(0.25), 0.25, true},
		{"decimal", key.Decimal(decimal.RequireFromString("2.5")), 2.5, true},
		{"bool", key.Bool(true), 1, true},
		{"string", key.String("1e3"), 1000, true},
		{"bad string", key.String("1,000"), 0, false},
		{"null", key.Null(), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.in)
			require.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	f, ok := ToFloat64(key.Float64(math.Inf(-1)))
	require.True(t, ok)
	require.True(t, math.IsInf(f, -1))
	require.InDelta(t, 7.0, ToFloat64Or(key.Missing(), 7), 0)
}

package key

import (
	"math"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestValue_JSON(t *testing.T) {
	values := []Value{
		Null(), Missing(), Wildcard(),
		Bool(true), Char('é'),
		Int8(math.MinInt8), Uint8(math.MaxUint8),
		Int16(math.MinInt16), Uint16(math.MaxUint16),
		Int32(math.MinInt32), Uint32(math.MaxUint32),
		Int64(math.MinInt64), Uint64(math.MaxUint64),
		Float32(0.1), Float64(math.Inf(-1)), Float64(math.NaN()),
		Decimal(decimal.RequireFromString("-123.4567")),
		Time(time.Date(2024, 2, 29, 23, 59, 59, 123456789, time.UTC)),
		String("hello \"world\""),
		Array(Int64(1), Array(String("nested")), Null()),
	}

	for _, v := range values {
		t.Run(v.Kind().String(), func(t *testing.T) {
			data, err := json.Marshal(v)
			require.NoError(t, err)

			var got Value
			require.NoError(t, json.Unmarshal(data, &got))
			require.Equal(t, v.Kind(), got.Kind())
			require.True(t, Equal(v, got), "%s -> %s", v.GoString(), string(data))
		})
	}
}

func TestValue_JSONShape(t *testing.T) {
	data, err := json.Marshal(Int32(5))
	require.NoError(t, err)
	require.JSONEq(t, `{"t":"int32","v":5}`, string(data))

	data, err = json.Marshal(Wildcard())
	require.NoError(t, err)
	require.JSONEq(t, `{"t":"wildcard"}`, string(data))
}

func TestValue_JSON_DecimalKeepsScale(t *testing.T) {
	tests := []struct {
		name string
		in   decimal.Decimal
		text string
	}{
		{"trailing zero", decimal.New(150, -2), `"1.50"`},
		{"negative", decimal.New(-1000, -3), `"-1.000"`},
		{"integer", decimal.New(42, 0), `"42"`},
		{"positive exponent", decimal.New(5, 2), `"5e2"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(Decimal(tt.in))
			require.NoError(t, err)
			require.JSONEq(t, `{"t":"decimal","v":`+tt.text+`}`, string(data))

			var got Value
			require.NoError(t, json.Unmarshal(data, &got))
			require.Equal(t, tt.in.Exponent(), got.Decimal().Exponent())
			require.Zero(t, tt.in.Coefficient().Cmp(got.Decimal().Coefficient()))
		})
	}
}

func TestValue_JSONErrors(t *testing.T) {
	var v Value
	require.Error(t, json.Unmarshal([]byte(`{"t":"complex"}`), &v))
	require.Error(t, json.Unmarshal([]byte(`{"t":"int8","v":300}`), &v))
	require.Error(t, json.Unmarshal([]byte(`{"t":"char","v":"ab"}`), &v))
	require.Error(t, json.Unmarshal([]byte(`{"t":"decimal","v":"x"}`), &v))
}

// Package convert provides best-effort numeric coercion of key values.
//
// The numeric aggregators use these helpers to read measure fields: a value
// that does not convert is skipped by the aggregator rather than reported.
package convert

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/arloliu/cubo/key"
)

// ToDecimal converts v to a decimal.
//
// Integers, decimals, finite floats, booleans (0 or 1) and numeric strings
// convert. Null, missing, NaN, infinities and other kinds do not.
func ToDecimal(v key.Value) (decimal.Decimal, bool) {
	switch v.Kind() {
	case key.KindInt8, key.KindInt16, key.KindInt32, key.KindInt64:
		return decimal.NewFromInt(v.Int64()), true
	case key.KindUint8, key.KindUint16, key.KindUint32, key.KindUint64:
		u := v.Uint64()
		if u <= math.MaxInt64 {
			return decimal.NewFromInt(int64(u)), true
		}

		return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0), true
	case key.KindFloat32:
		f := v.Float32()
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return decimal.Zero, false
		}

		return decimal.NewFromFloat32(f), true
	case key.KindFloat64:
		f := v.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}

		return decimal.NewFromFloat(f), true
	case key.KindDecimal:
		return v.Decimal(), true
	case key.KindBool:
		if v.Bool() {
			return decimal.NewFromInt(1), true
		}

		return decimal.Zero, true
	case key.KindString:
		d, err := decimal.NewFromString(strings.TrimSpace(v.Str()))
		if err != nil {
			return decimal.Zero, false
		}

		return d, true
	default:
		return decimal.Zero, false
	}
}

// ToDecimalOr converts v to a decimal, returning def when it does not convert.
func ToDecimalOr(v key.Value, def decimal.Decimal) decimal.Decimal {
	if d, ok := ToDecimal(v); ok {
		return d
	}

	return def
}

// ToFloat64 converts v to a float64.
//
// Every numeric kind converts, including NaN and infinities. Booleans convert
// to 0 or 1 and strings are parsed after trimming spaces.
func ToFloat64(v key.Value) (float64, bool) {
	switch v.Kind() {
	case key.KindInt8, key.KindInt16, key.KindInt32, key.KindInt64:
		return float64(v.Int64()), true
	case key.KindUint8, key.KindUint16, key.KindUint32, key.KindUint64:
		return float64(v.Uint64()), true
	case key.KindFloat32, key.KindFloat64:
		return v.Float64(), true
	case key.KindDecimal:
		return v.Decimal().InexactFloat64(), true
	case key.KindBool:
		if v.Bool() {
			return 1, true
		}

		return 0, true
	case key.KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}

// ToFloat64Or converts v to a float64, returning def when it does not convert.
func ToFloat64Or(v key.Value, def float64) float64 {
	if f, ok := ToFloat64(v); ok {
		return f
	}

	return def
}

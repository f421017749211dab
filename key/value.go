package key

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull     Kind = iota // KindNull is the absent value.
	KindMissing              // KindMissing marks a record field that carried no value.
	KindWildcard             // KindWildcard is the "all values" sentinel of total keys.
	KindBool
	KindChar
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindDecimal
	KindTime
	KindString
	KindArray
)

var kindNames = [...]string{
	KindNull:     "null",
	KindMissing:  "missing",
	KindWildcard: "wildcard",
	KindBool:     "bool",
	KindChar:     "char",
	KindInt8:     "int8",
	KindUint8:    "uint8",
	KindInt16:    "int16",
	KindUint16:   "uint16",
	KindInt32:    "int32",
	KindUint32:   "uint32",
	KindInt64:    "int64",
	KindUint64:   "uint64",
	KindFloat32:  "float32",
	KindFloat64:  "float64",
	KindDecimal:  "decimal",
	KindTime:     "time",
	KindString:   "string",
	KindArray:    "array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}

	return 0, false
}

// Value is an immutable dimension key component or aggregator state item.
//
// The zero Value is Null.
type Value struct {
	kind Kind
	bits uint64 // bool, rune, integer bits, float bits
	str  string
	ext  any // decimal.Decimal, time.Time or []Value
}

var (
	null     = Value{kind: KindNull}
	missing  = Value{kind: KindMissing}
	wildcard = Value{kind: KindWildcard}
)

// Null returns the absent value.
func Null() Value { return null }

// Missing returns the marker stored for record fields that have no value.
func Missing() Value { return missing }

// Wildcard returns the sentinel meaning "all values of this dimension".
func Wildcard() Value { return wildcard }

// Bool returns a boolean value.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, bits: 1}
	}

	return Value{kind: KindBool}
}

// Char returns a single character value.
func Char(r rune) Value { return Value{kind: KindChar, bits: uint64(uint32(r))} }

func Int8(v int8) Value     { return Value{kind: KindInt8, bits: uint64(int64(v))} }
func Int16(v int16) Value   { return Value{kind: KindInt16, bits: uint64(int64(v))} }
func Int32(v int32) Value   { return Value{kind: KindInt32, bits: uint64(int64(v))} }
func Int64(v int64) Value   { return Value{kind: KindInt64, bits: uint64(v)} }
func Uint8(v uint8) Value   { return Value{kind: KindUint8, bits: uint64(v)} }
func Uint16(v uint16) Value { return Value{kind: KindUint16, bits: uint64(v)} }
func Uint32(v uint32) Value { return Value{kind: KindUint32, bits: uint64(v)} }
func Uint64(v uint64) Value { return Value{kind: KindUint64, bits: v} }

// Float32 returns a single precision value. The bits are kept exactly.
func Float32(v float32) Value { return Value{kind: KindFloat32, bits: uint64(math.Float32bits(v))} }

// Float64 returns a double precision value. The bits are kept exactly.
func Float64(v float64) Value { return Value{kind: KindFloat64, bits: math.Float64bits(v)} }

// Decimal returns a fixed-point decimal value.
func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, ext: d} }

// Time returns a timestamp value.
func Time(t time.Time) Value { return Value{kind: KindTime, ext: t} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array returns a nested array value. The slice is retained.
func Array(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}

	return Value{kind: KindArray, ext: vs}
}

// Of converts a native Go value into a Value.
//
// nil maps to Null, int and uint map to the 64-bit kinds, []any and []Value
// map to Array. Types outside the variant are stored as their fmt string.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return null
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int64(int64(x))
	case int8:
		return Int8(x)
	case int16:
		return Int16(x)
	case int32:
		return Int32(x)
	case int64:
		return Int64(x)
	case uint:
		return Uint64(uint64(x))
	case uint8:
		return Uint8(x)
	case uint16:
		return Uint16(x)
	case uint32:
		return Uint32(x)
	case uint64:
		return Uint64(x)
	case float32:
		return Float32(x)
	case float64:
		return Float64(x)
	case decimal.Decimal:
		return Decimal(x)
	case *decimal.Decimal:
		if x == nil {
			return null
		}

		return Decimal(*x)
	case time.Time:
		return Time(x)
	case string:
		return String(x)
	case []byte:
		return String(string(x))
	case []Value:
		return Array(x...)
	case []any:
		vs := make([]Value, len(x))
		for i, e := range x {
			vs[i] = Of(e)
		}

		return Array(vs...)
	case fmt.Stringer:
		return String(x.String())
	default:
		return String(fmt.Sprint(x))
	}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsMissing reports whether v is the missing-field marker.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsWildcard reports whether v is the wildcard sentinel.
func (v Value) IsWildcard() bool { return v.kind == KindWildcard }

// IsNullish reports whether v is Null or Missing.
func (v Value) IsNullish() bool { return v.kind == KindNull || v.kind == KindMissing }

// IsNumeric reports whether v holds an integer, float or decimal.
func (v Value) IsNumeric() bool { return v.kind >= KindInt8 && v.kind <= KindDecimal }

// IsFixedPoint reports whether v holds an integer or decimal.
func (v Value) IsFixedPoint() bool {
	return (v.kind >= KindInt8 && v.kind <= KindUint64) || v.kind == KindDecimal
}

// Orderable reports whether v takes part in the natural ordering.
// Arrays and the wildcard sentinel do not.
func (v Value) Orderable() bool { return v.kind != KindArray && v.kind != KindWildcard }

func (v Value) isInteger() bool { return v.kind >= KindInt8 && v.kind <= KindUint64 }

func (v Value) isSigned() bool {
	switch v.kind {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	default:
		return false
	}
}

func (v Value) isFloat() bool { return v.kind == KindFloat32 || v.kind == KindFloat64 }

// Bool returns the boolean payload, false for other kinds.
func (v Value) Bool() bool { return v.kind == KindBool && v.bits != 0 }

// Rune returns the character payload, 0 for other kinds.
func (v Value) Rune() rune {
	if v.kind != KindChar {
		return 0
	}

	return rune(uint32(v.bits))
}

// Int64 returns integer payloads as int64. Unsigned values wrap. Other kinds return 0.
func (v Value) Int64() int64 {
	if !v.isInteger() {
		return 0
	}

	return int64(v.bits)
}

// Uint64 returns integer payloads as uint64. Negative values wrap. Other kinds return 0.
func (v Value) Uint64() uint64 {
	if !v.isInteger() {
		return 0
	}

	return v.bits
}

// Float64 returns float payloads as float64, 0 for other kinds.
func (v Value) Float64() float64 {
	switch v.kind {
	case KindFloat32:
		return float64(math.Float32frombits(uint32(v.bits)))
	case KindFloat64:
		return math.Float64frombits(v.bits)
	default:
		return 0
	}
}

// Float32 returns the payload of a KindFloat32 value.
func (v Value) Float32() float32 {
	if v.kind != KindFloat32 {
		return float32(v.Float64())
	}

	return math.Float32frombits(uint32(v.bits))
}

// Decimal returns the payload of a KindDecimal value, zero otherwise.
func (v Value) Decimal() decimal.Decimal {
	d, _ := v.ext.(decimal.Decimal)
	return d
}

// Time returns the payload of a KindTime value, the zero time otherwise.
func (v Value) Time() time.Time {
	t, _ := v.ext.(time.Time)
	return t
}

// Str returns the payload of a KindString value, "" otherwise.
func (v Value) Str() string { return v.str }

// Elems returns the elements of an array value. The slice must not be modified.
func (v Value) Elems() []Value {
	vs, _ := v.ext.([]Value)
	return vs
}

// Len returns the number of elements of an array value.
func (v Value) Len() int { return len(v.Elems()) }

// fixed returns a fixed-point value as a decimal.
func (v Value) fixed() decimal.Decimal {
	switch {
	case v.kind == KindDecimal:
		return v.Decimal()
	case v.isSigned():
		return decimal.NewFromInt(int64(v.bits))
	default:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v.bits), 0)
	}
}

// String formats v for display and for the string fallback of the natural order.
func (v Value) String() string {
	switch v.kind {
	case KindNull, KindMissing:
		return ""
	case KindWildcard:
		return "*"
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindChar:
		return string(v.Rune())
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(int64(v.bits), 10)
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return strconv.FormatUint(v.bits, 10)
	case KindFloat32:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case KindDecimal:
		return v.Decimal().String()
	case KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case KindString:
		return v.str
	case KindArray:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range v.Elems() {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(e.String())
		}
		sb.WriteByte(']')

		return sb.String()
	default:
		return ""
	}
}

// GoString shows the kind next to the payload.
func (v Value) GoString() string {
	return v.kind.String() + "(" + v.String() + ")"
}

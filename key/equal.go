package key

import (
	"cmp"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/arloliu/cubo/internal/hash"
)

var (
	minInt64Dec = decimal.NewFromInt(math.MinInt64)
	maxInt64Dec = decimal.NewFromInt(math.MaxInt64)
)

// Equal reports whether a and b address the same key component.
//
// Values of one kind compare exactly: floats treat NaN as equal to NaN and
// times compare instants. Values of different kinds are equal only when both
// are fixed-point representable and numerically equal.
func Equal(a, b Value) bool {
	if a.kind == b.kind {
		return sameKindEqual(a, b)
	}
	if !a.IsFixedPoint() || !b.IsFixedPoint() {
		return false
	}
	if a.isInteger() && b.isInteger() {
		return integerEqual(a, b)
	}

	return a.fixed().Equal(b.fixed())
}

func sameKindEqual(a, b Value) bool {
	switch a.kind {
	case KindNull, KindMissing, KindWildcard:
		return true
	case KindFloat32, KindFloat64:
		fa, fb := a.Float64(), b.Float64()
		return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
	case KindDecimal:
		return a.Decimal().Equal(b.Decimal())
	case KindTime:
		return a.Time().Equal(b.Time())
	case KindString:
		return a.str == b.str
	case KindArray:
		ea, eb := a.Elems(), b.Elems()
		if len(ea) != len(eb) {
			return false
		}
		for i := range ea {
			if !Equal(ea[i], eb[i]) {
				return false
			}
		}

		return true
	default:
		return a.bits == b.bits
	}
}

func integerEqual(a, b Value) bool {
	as, bs := a.isSigned(), b.isSigned()
	switch {
	case as == bs:
		return a.bits == b.bits
	case as:
		return int64(a.bits) >= 0 && a.bits == b.bits
	default:
		return int64(b.bits) >= 0 && a.bits == b.bits
	}
}

// Hash returns a hash of v consistent with Equal.
func Hash(v Value) uint64 {
	switch v.kind {
	case KindNull:
		return hash.Uint64('0', 0)
	case KindMissing:
		return hash.Uint64('m', 0)
	case KindWildcard:
		return hash.Uint64('w', 0)
	case KindBool:
		return hash.Uint64('b', v.bits)
	case KindChar:
		return hash.Uint64('c', v.bits)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return hash.Int64(int64(v.bits))
	case KindUint8, KindUint16, KindUint32, KindUint64:
		if v.bits <= math.MaxInt64 {
			return hash.Int64(int64(v.bits))
		}

		return hash.Tagged('n', strconv.FormatUint(v.bits, 10))
	case KindFloat32, KindFloat64:
		return hash.Float64(v.Float64())
	case KindDecimal:
		d := v.Decimal()
		if d.IsInteger() && d.Cmp(minInt64Dec) >= 0 && d.Cmp(maxInt64Dec) <= 0 {
			return hash.Int64(d.IntPart())
		}

		return hash.Tagged('n', d.String())
	case KindTime:
		t := v.Time()
		return hash.Combine(hash.Uint64('t', uint64(t.Unix())), uint64(t.Nanosecond()))
	case KindString:
		return hash.String(v.str)
	case KindArray:
		h := hash.Uint64('a', uint64(v.Len()))
		for _, e := range v.Elems() {
			h = hash.Combine(h, Hash(e))
		}

		return h
	default:
		return 0
	}
}

// Compare is the natural order of values. It returns -1, 0 or +1.
//
// Null and Missing sort first and compare equal to each other. Numbers of any
// kind compare numerically. Strings, booleans, characters and times use their
// intrinsic order. Values of unrelated kinds compare by their String form.
// The wildcard sorts after everything.
func Compare(a, b Value) int {
	an, bn := a.IsNullish(), b.IsNullish()
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	}

	aw, bw := a.kind == KindWildcard, b.kind == KindWildcard
	switch {
	case aw && bw:
		return 0
	case aw:
		return 1
	case bw:
		return -1
	}

	if a.IsNumeric() && b.IsNumeric() {
		return compareNumeric(a, b)
	}
	if a.kind == b.kind {
		switch a.kind {
		case KindBool, KindChar:
			return cmp.Compare(a.bits, b.bits)
		case KindString:
			return strings.Compare(a.str, b.str)
		case KindTime:
			return a.Time().Compare(b.Time())
		case KindArray:
			return compareArrays(a.Elems(), b.Elems())
		}
	}

	return strings.Compare(a.String(), b.String())
}

func compareNumeric(a, b Value) int {
	switch {
	case a.isFloat() && b.isFloat():
		return compareFloat(a.Float64(), b.Float64())
	case a.isInteger() && b.isInteger():
		return compareIntegers(a, b)
	case a.isFloat():
		return -compareFloatFixed(b.fixed(), a.Float64())
	case b.isFloat():
		return compareFloatFixed(a.fixed(), b.Float64())
	default:
		return a.fixed().Cmp(b.fixed())
	}
}

// compareFloat sorts NaN before every other float.
func compareFloat(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	}

	return cmp.Compare(a, b)
}

func compareFloatFixed(d decimal.Decimal, f float64) int {
	switch {
	case math.IsNaN(f):
		return 1
	case math.IsInf(f, 1):
		return -1
	case math.IsInf(f, -1):
		return 1
	}

	return d.Cmp(decimal.NewFromFloat(f))
}

func compareIntegers(a, b Value) int {
	as, bs := a.isSigned(), b.isSigned()
	switch {
	case as && bs:
		return cmp.Compare(int64(a.bits), int64(b.bits))
	case !as && !bs:
		return cmp.Compare(a.bits, b.bits)
	case as:
		if int64(a.bits) < 0 {
			return -1
		}

		return cmp.Compare(a.bits, b.bits)
	default:
		if int64(b.bits) < 0 {
			return 1
		}

		return cmp.Compare(a.bits, b.bits)
	}
}

func compareArrays(a, b []Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}

	return cmp.Compare(len(a), len(b))
}

package key

import (
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// jsonValue is the tagged JSON form of a Value: {"t":"int64","v":5}.
//
// Floats, decimals and 64-bit integers travel as strings so that NaN,
// infinities and full precision survive generic JSON tooling.
type jsonValue struct {
	T string          `json:"t"`
	V json.RawMessage `json:"v,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	var payload any
	switch v.kind {
	case KindNull, KindMissing, KindWildcard:
	case KindBool:
		payload = v.Bool()
	case KindChar:
		payload = string(v.Rune())
	case KindInt8, KindInt16, KindInt32:
		payload = int64(v.bits)
	case KindUint8, KindUint16, KindUint32:
		payload = v.bits
	case KindInt64:
		payload = strconv.FormatInt(int64(v.bits), 10)
	case KindUint64:
		payload = strconv.FormatUint(v.bits, 10)
	case KindFloat32:
		payload = strconv.FormatFloat(v.Float64(), 'g', -1, 32)
	case KindFloat64:
		payload = strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case KindDecimal:
		payload = decimalText(v.Decimal())
	case KindTime:
		payload = v.Time().Format(time.RFC3339Nano)
	case KindString:
		payload = v.str
	case KindArray:
		payload = v.Elems()
	default:
		return nil, fmt.Errorf("key: marshal unknown kind %d", v.kind)
	}

	jv := jsonValue{T: v.kind.String()}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		jv.V = raw
	}

	return json.Marshal(jv)
}

// decimalText formats d so that decimal.NewFromString restores its exponent:
// 1.50 stays "1.50" and 5 x 10^2 becomes "5e2".
func decimalText(d decimal.Decimal) string {
	if exp := d.Exponent(); exp > 0 {
		return d.Coefficient().String() + "e" + strconv.Itoa(int(exp))
	}

	return d.StringFixed(-d.Exponent())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}

	kind, ok := ParseKind(jv.T)
	if !ok {
		return fmt.Errorf("key: unknown value kind %q", jv.T)
	}

	switch kind {
	case KindNull:
		*v = null
		return nil
	case KindMissing:
		*v = missing
		return nil
	case KindWildcard:
		*v = wildcard
		return nil
	case KindBool:
		var b bool
		if err := json.Unmarshal(jv.V, &b); err != nil {
			return err
		}
		*v = Bool(b)

		return nil
	case KindArray:
		var elems []Value
		if err := json.Unmarshal(jv.V, &elems); err != nil {
			return err
		}
		*v = Array(elems...)

		return nil
	case KindInt8, KindInt16, KindInt32:
		var n int64
		if err := json.Unmarshal(jv.V, &n); err != nil {
			return err
		}

		return v.setSigned(kind, n)
	case KindUint8, KindUint16, KindUint32:
		var n uint64
		if err := json.Unmarshal(jv.V, &n); err != nil {
			return err
		}

		return v.setUnsigned(kind, n)
	}

	var s string
	if err := json.Unmarshal(jv.V, &s); err != nil {
		return err
	}

	return v.parseText(kind, s)
}

func (v *Value) setSigned(kind Kind, n int64) error {
	switch {
	case kind == KindInt8 && n >= math.MinInt8 && n <= math.MaxInt8:
		*v = Int8(int8(n))
	case kind == KindInt16 && n >= math.MinInt16 && n <= math.MaxInt16:
		*v = Int16(int16(n))
	case kind == KindInt32 && n >= math.MinInt32 && n <= math.MaxInt32:
		*v = Int32(int32(n))
	default:
		return fmt.Errorf("key: %d out of range for %s", n, kind)
	}

	return nil
}

func (v *Value) setUnsigned(kind Kind, n uint64) error {
	switch {
	case kind == KindUint8 && n <= math.MaxUint8:
		*v = Uint8(uint8(n))
	case kind == KindUint16 && n <= math.MaxUint16:
		*v = Uint16(uint16(n))
	case kind == KindUint32 && n <= math.MaxUint32:
		*v = Uint32(uint32(n))
	default:
		return fmt.Errorf("key: %d out of range for %s", n, kind)
	}

	return nil
}

func (v *Value) parseText(kind Kind, s string) error {
	switch kind {
	case KindChar:
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) {
			return fmt.Errorf("key: invalid char %q", s)
		}
		*v = Char(r)
	case KindInt64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*v = Int64(n)
	case KindUint64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		*v = Uint64(n)
	case KindFloat32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return err
		}
		*v = Float32(float32(f))
	case KindFloat64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*v = Float64(f)
	case KindDecimal:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		*v = Decimal(d)
	case KindTime:
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return err
		}
		*v = Time(t)
	case KindString:
		*v = String(s)
	default:
		return fmt.Errorf("key: cannot decode %s from text", kind)
	}

	return nil
}

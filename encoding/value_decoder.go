package encoding

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arloliu/cubo/endian"
	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/format"
	"github.com/arloliu/cubo/key"
)

// MaxArrayDepth bounds the nesting of decoded arrays.
const MaxArrayDepth = 64

// ValueDecoder reads snapshot primitives from a byte slice.
type ValueDecoder struct {
	data   []byte
	offset int
	engine endian.EndianEngine
}

// NewValueDecoder creates a decoder over data.
func NewValueDecoder(engine endian.EndianEngine, data []byte) *ValueDecoder {
	return &ValueDecoder{data: data, engine: engine}
}

// Offset returns the number of bytes consumed.
func (d *ValueDecoder) Offset() int { return d.offset }

// Remaining returns the number of unread bytes.
func (d *ValueDecoder) Remaining() int { return len(d.data) - d.offset }

func (d *ValueDecoder) take(n int, what string) ([]byte, error) {
	if n < 0 || d.Remaining() < n {
		return nil, fmt.Errorf("read %s at offset %d: need %d bytes, have %d: %w",
			what, d.offset, n, d.Remaining(), errs.ErrTruncated)
	}
	b := d.data[d.offset : d.offset+n]
	d.offset += n

	return b, nil
}

// ReadByte reads one byte.
func (d *ValueDecoder) ReadByte() (byte, error) {
	b, err := d.take(1, "byte")
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadBytes reads n raw bytes. The result aliases the input.
func (d *ValueDecoder) ReadBytes(n int) ([]byte, error) {
	return d.take(n, "bytes")
}

// ReadUvarint reads an unsigned 7-bit group varint.
func (d *ValueDecoder) ReadUvarint() (uint64, error) {
	u, n := binary.Uvarint(d.data[d.offset:])
	switch {
	case n == 0:
		return 0, fmt.Errorf("read varint at offset %d: %w", d.offset, errs.ErrTruncated)
	case n < 0:
		return 0, fmt.Errorf("read varint at offset %d: value overflows 64 bits: %w", d.offset, errs.ErrInvalidState)
	}
	d.offset += n

	return u, nil
}

// ReadLength reads a uvarint length that must fit in the remaining input
// when every counted item takes at least minItemSize bytes.
func (d *ValueDecoder) ReadLength(minItemSize int) (int, error) {
	u, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if minItemSize < 1 {
		minItemSize = 1
	}
	if u > uint64(d.Remaining()/minItemSize) {
		return 0, fmt.Errorf("read length %d at offset %d: exceeds remaining %d bytes: %w",
			u, d.offset, d.Remaining(), errs.ErrTruncated)
	}

	return int(u), nil
}

// ReadUint16 reads a fixed-width uint16.
func (d *ValueDecoder) ReadUint16() (uint16, error) {
	b, err := d.take(2, "uint16")
	if err != nil {
		return 0, err
	}

	return d.engine.Uint16(b), nil
}

// ReadUint32 reads a fixed-width uint32.
func (d *ValueDecoder) ReadUint32() (uint32, error) {
	b, err := d.take(4, "uint32")
	if err != nil {
		return 0, err
	}

	return d.engine.Uint32(b), nil
}

// ReadInt32 reads a fixed-width int32.
func (d *ValueDecoder) ReadInt32() (int32, error) {
	u, err := d.ReadUint32()
	return int32(u), err
}

// ReadUint64 reads a fixed-width uint64.
func (d *ValueDecoder) ReadUint64() (uint64, error) {
	b, err := d.take(8, "uint64")
	if err != nil {
		return 0, err
	}

	return d.engine.Uint64(b), nil
}

// ReadString reads a length-prefixed string.
func (d *ValueDecoder) ReadString() (string, error) {
	n, err := d.ReadLength(1)
	if err != nil {
		return "", err
	}
	b, err := d.take(n, "string")
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadValue reads one tagged value.
func (d *ValueDecoder) ReadValue() (key.Value, error) {
	return d.readValue(0)
}

func (d *ValueDecoder) readValue(depth int) (key.Value, error) {
	start := d.offset
	tag, err := d.ReadByte()
	if err != nil {
		return key.Null(), err
	}

	code := format.TypeCode(tag)
	switch code {
	case format.TypeNull:
		return key.Null(), nil
	case format.TypeMissing:
		return key.Missing(), nil
	case format.TypeWildcard:
		return key.Wildcard(), nil
	case format.TypeBool:
		b, err := d.ReadByte()
		if err != nil {
			return key.Null(), err
		}
		if b > 1 {
			return key.Null(), fmt.Errorf("read bool at offset %d: byte %d: %w", start, b, errs.ErrInvalidState)
		}

		return key.Bool(b == 1), nil
	case format.TypeChar:
		u, err := d.ReadUvarint()
		if err != nil {
			return key.Null(), err
		}
		if u > math.MaxInt32 {
			return key.Null(), fmt.Errorf("read char at offset %d: code point %d: %w", start, u, errs.ErrInvalidState)
		}

		return key.Char(rune(u)), nil
	case format.TypeInt8:
		b, err := d.ReadByte()
		return key.Int8(int8(b)), err
	case format.TypeUint8:
		b, err := d.ReadByte()
		return key.Uint8(b), err
	case format.TypeInt16:
		u, err := d.ReadUint16()
		return key.Int16(int16(u)), err
	case format.TypeUint16:
		u, err := d.ReadUint16()
		return key.Uint16(u), err
	case format.TypeInt32:
		v, err := d.ReadInt32()
		return key.Int32(v), err
	case format.TypeUint32:
		u, err := d.ReadUvarint()
		if err != nil {
			return key.Null(), err
		}
		if u > math.MaxUint32 {
			return key.Null(), fmt.Errorf("read uint32 at offset %d: %d overflows: %w", start, u, errs.ErrInvalidState)
		}

		return key.Uint32(uint32(u)), nil
	case format.TypeInt64:
		u, err := d.ReadUint64()
		return key.Int64(int64(u)), err
	case format.TypeUint64:
		u, err := d.ReadUvarint()
		return key.Uint64(u), err
	case format.TypeVarInt32:
		u, err := d.ReadUvarint()
		if err != nil {
			return key.Null(), err
		}
		v := unzigzag(u)
		if v < math.MinInt32 || v > math.MaxInt32 {
			return key.Null(), fmt.Errorf("read varint32 at offset %d: %d overflows: %w", start, v, errs.ErrInvalidState)
		}

		return key.Int32(int32(v)), nil
	case format.TypeVarInt64:
		u, err := d.ReadUvarint()
		return key.Int64(unzigzag(u)), err
	case format.TypeFloat32:
		u, err := d.ReadUint32()
		return key.Float32(math.Float32frombits(u)), err
	case format.TypeFloat64:
		u, err := d.ReadUint64()
		return key.Float64(math.Float64frombits(u)), err
	case format.TypeDecimal:
		return d.readDecimal()
	case format.TypeTime:
		return d.readTime(start)
	case format.TypeString:
		s, err := d.ReadString()
		return key.String(s), err
	case format.TypeArray:
		if depth >= MaxArrayDepth {
			return key.Null(), fmt.Errorf("read array at offset %d: nesting deeper than %d: %w",
				start, MaxArrayDepth, errs.ErrInvalidState)
		}
		n, err := d.ReadLength(1)
		if err != nil {
			return key.Null(), err
		}
		elems := make([]key.Value, n)
		for i := range elems {
			if elems[i], err = d.readValue(depth + 1); err != nil {
				return key.Null(), err
			}
		}

		return key.Array(elems...), nil
	default:
		return key.Null(), fmt.Errorf("read value at offset %d: type code %d: %w", start, tag, errs.ErrUnknownTypeCode)
	}
}

func (d *ValueDecoder) readDecimal() (key.Value, error) {
	exp, err := d.ReadInt32()
	if err != nil {
		return key.Null(), err
	}
	sign, err := d.ReadByte()
	if err != nil {
		return key.Null(), err
	}
	n, err := d.ReadLength(1)
	if err != nil {
		return key.Null(), err
	}
	mag, err := d.take(n, "decimal")
	if err != nil {
		return key.Null(), err
	}

	coef := new(big.Int).SetBytes(mag)
	if sign == 1 {
		coef.Neg(coef)
	}

	return key.Decimal(decimal.NewFromBigInt(coef, exp)), nil
}

func (d *ValueDecoder) readTime(start int) (key.Value, error) {
	sec, err := d.ReadUint64()
	if err != nil {
		return key.Null(), err
	}
	nsec, err := d.ReadUvarint()
	if err != nil {
		return key.Null(), err
	}
	if nsec >= uint64(time.Second) {
		return key.Null(), fmt.Errorf("read time at offset %d: %d nanoseconds: %w", start, nsec, errs.ErrInvalidState)
	}

	return key.Time(time.Unix(int64(sec), int64(nsec)).UTC()), nil
}

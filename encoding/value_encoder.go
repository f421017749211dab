package encoding

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arloliu/cubo/endian"
	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/format"
	"github.com/arloliu/cubo/internal/pool"
	"github.com/arloliu/cubo/key"
)

// ValueEncoder appends snapshot primitives to a pooled buffer.
//
// The zero value is not usable; create encoders with NewValueEncoder and
// release them with Finish.
type ValueEncoder struct {
	buf           *pool.ByteBuffer
	engine        endian.EndianEngine
	compactSigned bool
}

// NewValueEncoder creates an encoder using engine for fixed-width integers.
func NewValueEncoder(engine endian.EndianEngine) *ValueEncoder {
	return &ValueEncoder{buf: pool.GetValueBuffer(), engine: engine}
}

// SetCompactSigned makes WriteValue store Int32 and Int64 values as zig-zag
// varints (TypeVarInt32, TypeVarInt64) instead of fixed-width integers.
func (e *ValueEncoder) SetCompactSigned(compact bool) {
	e.compactSigned = compact
}

// Bytes returns the encoded bytes. The slice is valid until the next write or Finish.
func (e *ValueEncoder) Bytes() []byte { return e.buf.Bytes() }

// Len returns the number of encoded bytes.
func (e *ValueEncoder) Len() int { return e.buf.Len() }

// Reset discards the encoded bytes.
func (e *ValueEncoder) Reset() { e.buf.Reset() }

// Finish releases the buffer. The encoder must not be used afterwards.
func (e *ValueEncoder) Finish() {
	pool.PutValueBuffer(e.buf)
	e.buf = nil
}

// WriteByte appends one byte.
func (e *ValueEncoder) WriteByte(b byte) error {
	e.buf.B = append(e.buf.B, b)
	return nil
}

// WriteBytes appends raw bytes.
func (e *ValueEncoder) WriteBytes(b []byte) {
	e.buf.B = append(e.buf.B, b...)
}

// WriteUvarint appends u as an unsigned 7-bit group varint.
func (e *ValueEncoder) WriteUvarint(u uint64) {
	e.buf.B = binary.AppendUvarint(e.buf.B, u)
}

// WriteUint16 appends a fixed-width uint16.
func (e *ValueEncoder) WriteUint16(v uint16) {
	e.buf.B = e.engine.AppendUint16(e.buf.B, v)
}

// WriteUint32 appends a fixed-width uint32.
func (e *ValueEncoder) WriteUint32(v uint32) {
	e.buf.B = e.engine.AppendUint32(e.buf.B, v)
}

// WriteInt32 appends a fixed-width int32.
func (e *ValueEncoder) WriteInt32(v int32) {
	e.buf.B = e.engine.AppendUint32(e.buf.B, uint32(v))
}

// WriteUint64 appends a fixed-width uint64.
func (e *ValueEncoder) WriteUint64(v uint64) {
	e.buf.B = e.engine.AppendUint64(e.buf.B, v)
}

// WriteString appends s as [length:uvarint][bytes:UTF-8].
func (e *ValueEncoder) WriteString(s string) {
	e.buf.Grow(varintLen(uint64(len(s))) + len(s))
	e.buf.B = binary.AppendUvarint(e.buf.B, uint64(len(s)))
	e.buf.B = append(e.buf.B, s...)
}

// WriteValue appends the tagged encoding of v.
func (e *ValueEncoder) WriteValue(v key.Value) error {
	switch v.Kind() {
	case key.KindNull:
		e.tag(format.TypeNull)
	case key.KindMissing:
		e.tag(format.TypeMissing)
	case key.KindWildcard:
		e.tag(format.TypeWildcard)
	case key.KindBool:
		e.tag(format.TypeBool)
		if v.Bool() {
			e.buf.B = append(e.buf.B, 1)
		} else {
			e.buf.B = append(e.buf.B, 0)
		}
	case key.KindChar:
		e.tag(format.TypeChar)
		e.WriteUvarint(uint64(uint32(v.Rune())))
	case key.KindInt8:
		e.tag(format.TypeInt8)
		e.buf.B = append(e.buf.B, byte(int8(v.Int64())))
	case key.KindUint8:
		e.tag(format.TypeUint8)
		e.buf.B = append(e.buf.B, byte(v.Uint64()))
	case key.KindInt16:
		e.tag(format.TypeInt16)
		e.WriteUint16(uint16(int16(v.Int64())))
	case key.KindUint16:
		e.tag(format.TypeUint16)
		e.WriteUint16(uint16(v.Uint64()))
	case key.KindInt32:
		if e.compactSigned {
			e.tag(format.TypeVarInt32)
			e.WriteUvarint(zigzag(v.Int64()))
		} else {
			e.tag(format.TypeInt32)
			e.WriteInt32(int32(v.Int64()))
		}
	case key.KindUint32:
		e.tag(format.TypeUint32)
		e.WriteUvarint(v.Uint64())
	case key.KindInt64:
		if e.compactSigned {
			e.tag(format.TypeVarInt64)
			e.WriteUvarint(zigzag(v.Int64()))
		} else {
			e.tag(format.TypeInt64)
			e.WriteUint64(uint64(v.Int64()))
		}
	case key.KindUint64:
		e.tag(format.TypeUint64)
		e.WriteUvarint(v.Uint64())
	case key.KindFloat32:
		e.tag(format.TypeFloat32)
		e.WriteUint32(math.Float32bits(v.Float32()))
	case key.KindFloat64:
		e.tag(format.TypeFloat64)
		e.WriteUint64(math.Float64bits(v.Float64()))
	case key.KindDecimal:
		e.tag(format.TypeDecimal)
		e.writeDecimal(v)
	case key.KindTime:
		t := v.Time()
		e.tag(format.TypeTime)
		e.WriteUint64(uint64(t.Unix()))
		e.WriteUvarint(uint64(t.Nanosecond()))
	case key.KindString:
		e.tag(format.TypeString)
		e.WriteString(v.Str())
	case key.KindArray:
		elems := v.Elems()
		e.tag(format.TypeArray)
		e.WriteUvarint(uint64(len(elems)))
		for i := range elems {
			if err := e.WriteValue(elems[i]); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("encode value of kind %s: %w", v.Kind(), errs.ErrUnknownTypeCode)
	}

	return nil
}

func (e *ValueEncoder) tag(c format.TypeCode) {
	e.buf.B = append(e.buf.B, byte(c))
}

// writeDecimal stores the exponent, the sign and the big-endian magnitude of
// the coefficient, which keeps the scale of the decimal exact.
func (e *ValueEncoder) writeDecimal(v key.Value) {
	d := v.Decimal()
	coef := d.Coefficient()
	e.WriteInt32(d.Exponent())
	if coef.Sign() < 0 {
		e.buf.B = append(e.buf.B, 1)
	} else {
		e.buf.B = append(e.buf.B, 0)
	}
	mag := coef.Bytes()
	e.WriteUvarint(uint64(len(mag)))
	e.buf.B = append(e.buf.B, mag...)
}

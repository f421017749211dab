// Package encoding implements the primitives of the cubo snapshot format:
// unsigned 7-bit group varints, length-prefixed strings, fixed-width integers
// and tagged scalar values.
//
// Every Value is written as a one-byte format.TypeCode followed by its
// payload. Arrays nest: a TypeArray tag, a uvarint element count and the
// tagged elements.
//
//	enc := encoding.NewValueEncoder(endian.GetLittleEndianEngine())
//	defer enc.Finish()
//	if err := enc.WriteValue(key.Array(key.Int64(1), key.String("a"))); err != nil {
//		return err
//	}
//
//	dec := encoding.NewValueDecoder(endian.GetLittleEndianEngine(), enc.Bytes())
//	v, err := dec.ReadValue()
//
// Decoding never panics on malformed input: truncation yields
// errs.ErrTruncated and unknown tags yield errs.ErrUnknownTypeCode.
package encoding

package snapshot

import (
	"fmt"

	"github.com/arloliu/cubo/compress"
	"github.com/arloliu/cubo/encoding"
	"github.com/arloliu/cubo/endian"
	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/format"
	"github.com/arloliu/cubo/section"
)

const (
	// maxRawLength bounds the declared uncompressed size of an envelope.
	maxRawLength = 1 << 31
	// maxPreallocRatio bounds the output buffer allocated from the declared
	// size before any byte is decoded. LZ4 cannot expand further; larger
	// declarations decode into a growing buffer instead.
	maxPreallocRatio = 255
)

// MarshalCompressed encodes s as a binary snapshot and wraps it in a
// compressed envelope.
//
// Parameters:
//   - s: State to encode
//   - compression: Codec applied to the whole plain snapshot
//   - opts: Write options of the plain snapshot
//
// Returns:
//   - []byte: Envelope bytes, readable by Unmarshal
//   - error: ErrInvalidCompression for unknown codecs, or encoding errors
func MarshalCompressed(s *State, compression format.CompressionType, opts ...WriteOption) ([]byte, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	plain, err := encodeState(s, opts)
	if err != nil {
		return nil, err
	}
	defer plain.Finish()

	packed, err := codec.Compress(plain.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress snapshot with %s: %w", compression, err)
	}

	enc := encoding.NewValueEncoder(endian.GetLittleEndianEngine())
	defer enc.Finish()
	section.NewHeader(section.CompressedTypeName).Write(enc)
	section.Envelope{Compression: compression, RawLength: uint64(plain.Len())}.Write(enc)
	enc.WriteBytes(packed)

	return append([]byte(nil), enc.Bytes()...), nil
}

func unmarshalCompressed(dec *encoding.ValueDecoder) (*State, error) {
	var env section.Envelope
	if err := env.Parse(dec); err != nil {
		return nil, err
	}
	if env.RawLength > maxRawLength {
		return nil, fmt.Errorf("snapshot raw length %d exceeds %d: %w", env.RawLength, maxRawLength, errs.ErrInvalidState)
	}

	codec, err := compress.GetCodec(env.Compression)
	if err != nil {
		return nil, err
	}
	packed, _ := dec.ReadBytes(dec.Remaining())
	size := int(env.RawLength)
	if env.RawLength > uint64(len(packed))*maxPreallocRatio {
		size = -1
	}
	plain, err := compress.Decompress(codec, packed, size)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot with %s: %w", env.Compression, err)
	}
	if uint64(len(plain)) != env.RawLength {
		return nil, fmt.Errorf("decompressed %d bytes, envelope declares %d: %w",
			len(plain), env.RawLength, errs.ErrInvalidState)
	}

	inner := encoding.NewValueDecoder(endian.GetLittleEndianEngine(), plain)
	var h section.Header
	if err := h.Parse(inner); err != nil {
		return nil, err
	}
	if h.IsCompressed() {
		return nil, fmt.Errorf("nested compressed snapshot: %w", errs.ErrInvalidTypeName)
	}

	s, err := decodeSections(inner)
	if err != nil {
		return nil, err
	}
	if inner.Remaining() > 0 {
		return nil, fmt.Errorf("snapshot has %d bytes after offset %d: %w",
			inner.Remaining(), inner.Offset(), errs.ErrTrailingData)
	}

	return s, nil
}

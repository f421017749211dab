package section

import (
	"fmt"

	"github.com/arloliu/cubo/encoding"
	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/format"
)

// Header is the type name and version pair at the start of a snapshot.
type Header struct {
	TypeName string
	Major    int32
	Minor    int32
}

// NewHeader returns the header of the current version for typeName.
func NewHeader(typeName string) Header {
	return Header{TypeName: typeName, Major: MajorVersion, Minor: MinorVersion}
}

// IsCompressed reports whether the header opens a compressed envelope.
func (h Header) IsCompressed() bool { return h.TypeName == CompressedTypeName }

// Write appends the header to enc.
func (h Header) Write(enc *encoding.ValueEncoder) {
	enc.WriteString(h.TypeName)
	enc.WriteInt32(h.Major)
	enc.WriteInt32(h.Minor)
}

// Parse reads and validates a header.
//
// Parameters:
//   - dec: Decoder positioned at the start of a snapshot
//
// Returns:
//   - error: ErrInvalidTypeName for a foreign type name, ErrVersionMismatch
//     for a different major version, ErrTruncated for short input
func (h *Header) Parse(dec *encoding.ValueDecoder) error {
	name, err := dec.ReadString()
	if err != nil {
		return fmt.Errorf("read snapshot type name: %w", err)
	}
	if name != TypeName && name != CompressedTypeName {
		return fmt.Errorf("snapshot type name %q: %w", name, errs.ErrInvalidTypeName)
	}

	major, err := dec.ReadInt32()
	if err != nil {
		return fmt.Errorf("read snapshot major version: %w", err)
	}
	minor, err := dec.ReadInt32()
	if err != nil {
		return fmt.Errorf("read snapshot minor version: %w", err)
	}
	if major != MajorVersion {
		return fmt.Errorf("snapshot version %d.%d, supported %d.x: %w",
			major, minor, MajorVersion, errs.ErrVersionMismatch)
	}

	h.TypeName, h.Major, h.Minor = name, major, minor

	return nil
}

// Envelope is the header of a compressed snapshot that follows Header.
type Envelope struct {
	Compression format.CompressionType
	RawLength   uint64
}

// Write appends the envelope fields to enc.
func (e Envelope) Write(enc *encoding.ValueEncoder) {
	_ = enc.WriteByte(byte(e.Compression))
	enc.WriteUvarint(e.RawLength)
}

// Parse reads the envelope fields and validates the compression type.
func (e *Envelope) Parse(dec *encoding.ValueDecoder) error {
	b, err := dec.ReadByte()
	if err != nil {
		return fmt.Errorf("read snapshot compression: %w", err)
	}
	c := format.CompressionType(b)
	switch c {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
	default:
		return fmt.Errorf("snapshot compression %d: %w", b, errs.ErrInvalidCompression)
	}

	n, err := dec.ReadUvarint()
	if err != nil {
		return fmt.Errorf("read snapshot raw length: %w", err)
	}
	e.Compression, e.RawLength = c, n

	return nil
}

package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cubo/encoding"
	"github.com/arloliu/cubo/endian"
	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/format"
)

func encode(fn func(enc *encoding.ValueEncoder)) []byte {
	enc := encoding.NewValueEncoder(endian.GetLittleEndianEngine())
	defer enc.Finish()
	fn(enc)

	return append([]byte(nil), enc.Bytes()...)
}

func TestName_String(t *testing.T) {
	for _, n := range Order {
		parsed, err := ParseName(n.String())
		require.NoError(t, err)
		require.Equal(t, n, parsed)
	}
	require.Equal(t, "Unknown", Name(0).String())

	_, err := ParseName("Extra")
	require.ErrorIs(t, err, errs.ErrUnknownSection)
}

func TestHeader_RoundTrip(t *testing.T) {
	for _, name := range []string{TypeName, CompressedTypeName} {
		data := encode(NewHeader(name).Write)

		var h Header
		dec := encoding.NewValueDecoder(endian.GetLittleEndianEngine(), data)
		require.NoError(t, h.Parse(dec))
		require.Equal(t, NewHeader(name), h)
		require.Equal(t, name == CompressedTypeName, h.IsCompressed())
		require.Zero(t, dec.Remaining())
	}
}

func TestHeader_Parse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		header Header
		err    error
	}{
		{"foreign type name", Header{TypeName: "other.State", Major: MajorVersion}, errs.ErrInvalidTypeName},
		{"newer major", Header{TypeName: TypeName, Major: MajorVersion + 1}, errs.ErrVersionMismatch},
		{"older major", Header{TypeName: TypeName, Major: MajorVersion - 1}, errs.ErrVersionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encode(tt.header.Write)
			var h Header
			err := h.Parse(encoding.NewValueDecoder(endian.GetLittleEndianEngine(), data))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestHeader_Parse_NewerMinorAccepted(t *testing.T) {
	data := encode(Header{TypeName: TypeName, Major: MajorVersion, Minor: MinorVersion + 3}.Write)

	var h Header
	require.NoError(t, h.Parse(encoding.NewValueDecoder(endian.GetLittleEndianEngine(), data)))
	require.Equal(t, MinorVersion+3, h.Minor)
}

func TestHeader_Parse_Truncated(t *testing.T) {
	data := encode(NewHeader(TypeName).Write)
	for n := 0; n < len(data); n++ {
		var h Header
		err := h.Parse(encoding.NewValueDecoder(endian.GetLittleEndianEngine(), data[:n]))
		require.Error(t, err, "prefix %d", n)
	}
}

func TestEnvelope_RoundTrip(t *testing.T) {
	want := Envelope{Compression: format.CompressionZstd, RawLength: 123456}
	data := encode(want.Write)

	var got Envelope
	require.NoError(t, got.Parse(encoding.NewValueDecoder(endian.GetLittleEndianEngine(), data)))
	require.Equal(t, want, got)
}

func TestEnvelope_Parse_InvalidCompression(t *testing.T) {
	var e Envelope
	err := e.Parse(encoding.NewValueDecoder(endian.GetLittleEndianEngine(), []byte{0x9, 0}))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

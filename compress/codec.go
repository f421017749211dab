package compress

import (
	"fmt"

	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/format"
)

// Compressor compresses a whole snapshot block.
//
// The returned slice is owned by the caller. The input is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm.
//
// Corrupted input or input produced by another algorithm returns an error.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// SizedDecompressor decodes into a buffer of a known uncompressed size.
type SizedDecompressor interface {
	DecompressSized(data []byte, size int) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in codec for compressionType.
//
// Returns:
//   - Codec: Shared codec instance, safe for concurrent use
//   - error: ErrInvalidCompression for unknown types
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("compression type %s (%d): %w", compressionType, uint8(compressionType), errs.ErrInvalidCompression)
}

// Decompress decodes data with codec, using the exact size when the codec supports it.
func Decompress(codec Decompressor, data []byte, size int) ([]byte, error) {
	if sd, ok := codec.(SizedDecompressor); ok && size >= 0 {
		return sd.DecompressSized(data, size)
	}

	return codec.Decompress(data)
}

// Package compress provides the codecs of the compressed snapshot envelope.
//
// A plain snapshot is produced first and then compressed as one block:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//		return err
//	}
//	packed, err := codec.Compress(plain)
//
// Supported algorithms:
//   - None: returns the input unchanged
//   - Zstd: best ratio, the default for archived cubes
//   - S2: fast, moderate ratio
//   - LZ4: fastest decompression; block format without a stored length
//
// The envelope records the uncompressed length, so codecs that implement
// SizedDecompressor (LZ4) decode into an exactly sized buffer.
//
// Zstd uses klauspost/compress by default. Building with cgo and the
// cubo_gozstd tag switches to the valyala/gozstd bindings; both produce
// standard zstd frames and decode each other's output.
//
// All codecs are stateless values backed by pooled encoders and are safe for
// concurrent use.
package compress

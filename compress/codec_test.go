package compress

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cubo/errs"
	"github.com/arloliu/cubo/format"
)

var allTypes = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

// snapshotLike mimics a plain snapshot: repeated tags and short strings.
func snapshotLike(size int) []byte {
	rng := rand.New(rand.NewPCG(1, 2))
	words := []string{"Apple", "Pear", "Kiwi", "2024-01", "2024-02", "store-17"}
	var buf bytes.Buffer
	for buf.Len() < size {
		w := words[rng.IntN(len(words))]
		buf.WriteByte(18)
		buf.WriteByte(byte(len(w)))
		buf.WriteString(w)
		buf.WriteByte(byte(rng.IntN(4)))
	}

	return buf.Bytes()[:size]
}

func TestGetCodec(t *testing.T) {
	for _, ct := range allTypes {
		codec, err := GetCodec(ct)
		require.NoError(t, err, ct.String())
		require.NotNil(t, codec)
	}

	_, err := GetCodec(format.CompressionType(0x7F))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	for _, ct := range allTypes {
		for _, size := range []int{1, 17, 1024, 64 * 1024} {
			t.Run(fmt.Sprintf("%s/%d", ct, size), func(t *testing.T) {
				codec, err := GetCodec(ct)
				require.NoError(t, err)

				data := snapshotLike(size)
				packed, err := codec.Compress(data)
				require.NoError(t, err)

				out, err := codec.Decompress(packed)
				require.NoError(t, err)
				require.Equal(t, data, out)

				out, err = Decompress(codec, packed, len(data))
				require.NoError(t, err)
				require.Equal(t, data, out)
			})
		}
	}
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for _, ct := range allTypes {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		packed, err := codec.Compress(nil)
		require.NoError(t, err)
		out, err := codec.Decompress(packed)
		require.NoError(t, err)
		require.Empty(t, out, ct.String())
	}
}

func TestAllCodecs_Compresses(t *testing.T) {
	data := snapshotLike(32 * 1024)
	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)
		packed, err := codec.Compress(data)
		require.NoError(t, err)
		require.Less(t, len(packed), len(data), ct.String())
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	garbage := []byte{0xFF, 0xEE, 0xDD, 0xCC, 0xBB, 0xAA, 0x99, 0x88}
	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)
		_, err = codec.Decompress(garbage)
		require.Error(t, err, ct.String())
	}
}

func TestLZ4Compressor_LargeExpansion(t *testing.T) {
	data := bytes.Repeat([]byte{'a'}, 1<<20)
	codec := NewLZ4Compressor()

	packed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Less(t, len(packed)*4, len(data))

	out, err := codec.Decompress(packed)
	require.NoError(t, err)
	require.Equal(t, data, out)

	out, err = codec.DecompressSized(packed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestLZ4Compressor_DecompressSized_TooSmall(t *testing.T) {
	data := snapshotLike(4096)
	codec := NewLZ4Compressor()
	packed, err := codec.Compress(data)
	require.NoError(t, err)

	_, err = codec.DecompressSized(packed, 10)
	require.Error(t, err)
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	data := snapshotLike(8192)
	for _, ct := range allTypes {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		var wg sync.WaitGroup
		errCh := make(chan error, 16)
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				packed, err := codec.Compress(data)
				if err != nil {
					errCh <- err
					return
				}
				out, err := codec.Decompress(packed)
				if err != nil {
					errCh <- err
					return
				}
				if !bytes.Equal(out, data) {
					errCh <- fmt.Errorf("%s: round trip mismatch", ct)
				}
			}()
		}
		wg.Wait()
		close(errCh)
		for err := range errCh {
			require.NoError(t, err)
		}
	}
}

func BenchmarkCodec_Compress(b *testing.B) {
	data := snapshotLike(64 * 1024)
	for _, ct := range allTypes {
		codec, _ := GetCodec(ct)
		b.Run(ct.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				_, _ = codec.Compress(data)
			}
		})
	}
}

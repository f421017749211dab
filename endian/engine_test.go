package endian

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngines(t *testing.T) {
	le := GetLittleEndianEngine()
	be := GetBigEndianEngine()

	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, le.AppendUint32(nil, 0x01020304))
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, be.AppendUint32(nil, 0x01020304))

	buf := le.AppendUint64(nil, 0x0102030405060708)
	require.Equal(t, uint64(0x0102030405060708), le.Uint64(buf))
	require.NotEqual(t, le.Uint64(buf), be.Uint64(buf))

	require.Equal(t, "LittleEndian", le.String())
	require.Equal(t, "BigEndian", be.String())
}

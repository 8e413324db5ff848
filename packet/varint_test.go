package packet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarIntRoundTrip(t *testing.T) {
	samples := []uint32{0, 1, 127, 128, 16383, 16384, 2097151, 2097152, 268435455}
	for _, v := range samples {
		buf := make([]byte, 4)
		n := encodeVarInt(buf, v)
		require.Equal(t, varIntSize(v), n)
		got, consumed, err := decodeVarInt(buf[:n])
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, n, consumed)
	}
}

func TestVarIntCanonicity(t *testing.T) {
	// 0x80 0x00 is a non-minimal encoding of zero: reject it.
	_, _, err := decodeVarInt([]byte{0x80, 0x00})
	require.ErrorIs(t, err, ErrMalformedPacket)
}

func TestVarIntMaxValueScenarioS8(t *testing.T) {
	buf := make([]byte, 4)
	n := encodeVarInt(buf, 268435455)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0x7F}, buf)

	v, consumed, err := decodeVarInt(buf)
	require.NoError(t, err)
	require.Equal(t, uint32(268435455), v)
	require.Equal(t, 4, consumed)

	_, _, err = decodeVarInt([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x7F})
	require.ErrorIs(t, err, ErrMalformedPacket)
}

func TestVarIntNeedMoreBytes(t *testing.T) {
	_, _, err := decodeVarInt([]byte{0x80})
	require.ErrorIs(t, err, ErrNeedMoreBytes)
}

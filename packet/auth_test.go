package packet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthShorthandSuccessRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	n, err := EncodeAuth(&FixedBuffer{Buffer: buf}, &AuthOptions{ReasonCode: 0x00})
	require.NoError(t, err)
	require.Equal(t, []byte{0xF0, 0x00}, buf[:n])

	fh, hn, err := decodeFixedHeader(buf[:n])
	require.NoError(t, err)
	var out Auth
	err = DecodeAuth(fh, buf[hn:n], &out)
	require.NoError(t, err)
	require.Equal(t, uint8(0x00), out.ReasonCode)
}

func TestAuthContinueAuthenticationRoundTrip(t *testing.T) {
	method := []byte("GS2-KRB5")
	buf := make([]byte, 64)
	n, err := EncodeAuth(&FixedBuffer{Buffer: buf}, &AuthOptions{
		ReasonCode: 0x18, // Continue Authentication
		Properties: &PropertySet{AuthenticationMethod: method},
	})
	require.NoError(t, err)

	fh, hn, err := decodeFixedHeader(buf[:n])
	require.NoError(t, err)
	var out Auth
	err = DecodeAuth(fh, buf[hn:n], &out)
	require.NoError(t, err)
	require.Equal(t, uint8(0x18), out.ReasonCode)
	require.Equal(t, method, out.Properties.AuthenticationMethod)
}

func TestAuthRejectsReasonCodeOutsideAuthFamily(t *testing.T) {
	_, err := SizeAuth(&AuthOptions{ReasonCode: 0x01}) // Granted QoS 1, a SUBACK-only code
	require.ErrorIs(t, err, ErrBadParameter)
}

func TestAuthDecodeRejectsDisallowedReasonCode(t *testing.T) {
	fh := FixedHeader{Kind: AUTH, RemainingLength: 1}
	var out Auth
	err := DecodeAuth(fh, []byte{0x01}, &out)
	require.ErrorIs(t, err, ErrProtocolError)
}

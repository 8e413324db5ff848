package packet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnackV5ResponseInformationRequiresRequest(t *testing.T) {
	buf := make([]byte, 64)
	n, err := EncodeConnack(&FixedBuffer{Buffer: buf}, &ConnackOptions{
		Version:    VERSION500,
		ReturnCode: 0x00,
		Properties: &PropertySet{ResponseInformation: []byte("proxy/")},
	})
	require.NoError(t, err)
	fh, hn, err := decodeFixedHeader(buf[:n])
	require.NoError(t, err)

	var out Connack
	err = DecodeConnack(fh, VERSION500, buf[hn:n], nil, &out)
	require.ErrorIs(t, err, ErrProtocolError)

	err = DecodeConnack(fh, VERSION500, buf[hn:n], &ConnectContext{RequestResponseInformation: true}, &out)
	require.NoError(t, err)
	require.Equal(t, []byte("proxy/"), out.Properties.ResponseInformation)
}

func TestConnackV5AuthenticationPropertiesRequireMethodSent(t *testing.T) {
	buf := make([]byte, 64)
	n, err := EncodeConnack(&FixedBuffer{Buffer: buf}, &ConnackOptions{
		Version:    VERSION500,
		ReturnCode: 0x00,
		Properties: &PropertySet{AuthenticationMethod: []byte("GS2-KRB5")},
	})
	require.NoError(t, err)
	fh, hn, err := decodeFixedHeader(buf[:n])
	require.NoError(t, err)

	var out Connack
	err = DecodeConnack(fh, VERSION500, buf[hn:n], nil, &out)
	require.ErrorIs(t, err, ErrProtocolError)

	err = DecodeConnack(fh, VERSION500, buf[hn:n], &ConnectContext{AuthenticationMethodSent: true}, &out)
	require.NoError(t, err)
	require.Equal(t, []byte("GS2-KRB5"), out.Properties.AuthenticationMethod)
}

package packet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScenarioS1PingreqSerialize(t *testing.T) {
	buf := make([]byte, 16)
	n, err := EncodePingreq(&FixedBuffer{Buffer: buf})
	require.NoError(t, err)
	require.Equal(t, []byte{0xC0, 0x00}, buf[:n])
}

func TestScenarioS2DisconnectV311Serialize(t *testing.T) {
	buf := make([]byte, 16)
	n, err := EncodeDisconnect(&FixedBuffer{Buffer: buf}, &DisconnectOptions{Version: VERSION311})
	require.NoError(t, err)
	require.Equal(t, []byte{0xE0, 0x00}, buf[:n])
}

func TestScenarioS3ConnectV311Serialize(t *testing.T) {
	buf := make([]byte, 32)
	n, err := EncodeConnect(&FixedBuffer{Buffer: buf}, &ConnectOptions{
		Version:      VERSION311,
		CleanSession: true,
		KeepAlive:    60,
		ClientID:     []byte("ab"),
	})
	require.NoError(t, err)
	want := []byte{
		0x10, 0x0E,
		0x00, 0x04, 'M', 'Q', 'T', 'T',
		0x04,
		0x02,
		0x00, 0x3C,
		0x00, 0x02, 'a', 'b',
	}
	require.Equal(t, want, buf[:n])
}

func TestScenarioS4PublishSerialize(t *testing.T) {
	buf := make([]byte, 32)
	n, err := EncodePublish(&FixedBuffer{Buffer: buf}, &PublishOptions{
		Version: VERSION311,
		QoS:     0,
		Retain:  true,
		Topic:   []byte("a/b"),
		Payload: []byte("hi"),
	})
	require.NoError(t, err)
	want := []byte{0x31, 0x07, 0x00, 0x03, 'a', '/', 'b', 'h', 'i'}
	require.Equal(t, want, buf[:n])
}

func TestScenarioS5ConnackSuccessV311(t *testing.T) {
	var fh FixedHeader
	fh.RemainingLength = 2
	var out Connack
	err := DecodeConnack(fh, VERSION311, []byte{0x00, 0x00}, nil, &out)
	require.NoError(t, err)
	require.False(t, out.SessionPresent)
	require.Equal(t, uint8(ConnackAccepted), out.ReturnCode)
}

func TestScenarioS6ConnackSessionPresentWithReasonIsBadResponse(t *testing.T) {
	var fh FixedHeader
	fh.RemainingLength = 2
	var out Connack
	err := DecodeConnack(fh, VERSION311, []byte{0x01, 0x01}, nil, &out)
	require.ErrorIs(t, err, ErrBadResponse)
}

func TestScenarioS7SubackMixedGrantAndRefusal(t *testing.T) {
	var fh FixedHeader
	fh.RemainingLength = 4
	var out Suback
	err := DecodeSuback(fh, VERSION311, []byte{0x00, 0x2A, 0x02, 0x80}, &out)
	require.ErrorIs(t, err, ErrServerRefused)
	require.EqualValues(t, 42, out.PacketID)
	require.Equal(t, []uint8{0x02, 0x80}, out.ReasonCodes)
}

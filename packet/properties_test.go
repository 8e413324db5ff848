package packet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPropertyUniquenessRejectsDuplicateMaximumQoS(t *testing.T) {
	// prop_len=4, two Maximum-QoS (0x24) records of value 1.
	block := []byte{0x04, 0x24, 0x01, 0x24, 0x01}
	var ps PropertySet
	_, err := decodeProperties(block, ctxConnack, &ps)
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestPropertyUniquenessAllowsRepeatedUserProperty(t *testing.T) {
	rec := func(k, v string) []byte {
		b := []byte{0x26}
		b = append(b, byte(len(k)>>8), byte(len(k)))
		b = append(b, k...)
		b = append(b, byte(len(v)>>8), byte(len(v)))
		b = append(b, v...)
		return b
	}
	body := append(rec("a", "1"), rec("a", "2")...)
	block := append([]byte{byte(len(body))}, body...)
	var ps PropertySet
	n, err := decodeProperties(block, ctxConnack, &ps)
	require.NoError(t, err)
	require.Equal(t, len(block), n)
	require.Equal(t, 2, ps.NumUserProperties)
}

func TestPropertyBoundsRejectZeroReceiveMaximum(t *testing.T) {
	block := []byte{0x03, 0x21, 0x00, 0x00}
	var ps PropertySet
	_, err := decodeProperties(block, ctxConnack, &ps)
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestPropertyBoundsRejectZeroMaximumPacketSize(t *testing.T) {
	block := []byte{0x05, 0x27, 0x00, 0x00, 0x00, 0x00}
	var ps PropertySet
	_, err := decodeProperties(block, ctxConnack, &ps)
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestPropertyDisallowedForContextIsProtocolError(t *testing.T) {
	// Assigned-Client-Identifier (0x12) is CONNACK-only; illegal in a PUBLISH context.
	block := []byte{0x03, 0x12, 0x00, 0x00}
	var ps PropertySet
	_, err := decodeProperties(block, ctxPublish, &ps)
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestPropertyEncodeDecodeRoundTrip(t *testing.T) {
	sei := uint32(30)
	rm := uint16(20)
	ps := &PropertySet{
		SessionExpiryInterval: &sei,
		ReceiveMaximum:        &rm,
	}
	ps.UserProperties[0] = UserProperty{Key: []byte("k"), Value: []byte("v")}
	ps.NumUserProperties = 1

	dst := make([]byte, 64)
	n := encodeProperties(dst, ps)

	var got PropertySet
	consumed, err := decodeProperties(dst[:n], ctxConnect, &got)
	require.NoError(t, err)
	require.Equal(t, n, consumed)
	require.NotNil(t, got.SessionExpiryInterval)
	require.Equal(t, sei, *got.SessionExpiryInterval)
	require.NotNil(t, got.ReceiveMaximum)
	require.Equal(t, rm, *got.ReceiveMaximum)
	require.Equal(t, 1, got.NumUserProperties)
	require.Equal(t, []byte("k"), got.UserProperties[0].Key)
	require.Equal(t, []byte("v"), got.UserProperties[0].Value)
}

package packet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizerSerializerAgreementPublish(t *testing.T) {
	opts := &PublishOptions{
		Version:  VERSION311,
		QoS:      1,
		Topic:    []byte("topic/x"),
		PacketID: 7,
		Payload:  []byte("payload-bytes"),
	}
	total, err := SizePublish(opts)
	require.NoError(t, err)

	exact := make([]byte, total)
	n, err := EncodePublish(&FixedBuffer{Buffer: exact}, opts)
	require.NoError(t, err)
	require.EqualValues(t, total, n)

	short := make([]byte, total-1)
	_, err = EncodePublish(&FixedBuffer{Buffer: short}, opts)
	require.ErrorIs(t, err, ErrNoMemory)
}

func TestPublishRejectsOversizeRemainingLength(t *testing.T) {
	opts := &PublishOptions{
		Version: VERSION311,
		Topic:   []byte("t"),
		Payload: make([]byte, MaxRemainingLength),
	}
	_, err := SizePublish(opts)
	require.ErrorIs(t, err, ErrBadParameter)
}

func TestPublishDupWithoutQoSIsRejected(t *testing.T) {
	opts := &PublishOptions{Version: VERSION311, Dup: true, QoS: 0, Topic: []byte("t")}
	_, err := SizePublish(opts)
	require.ErrorIs(t, err, ErrBadParameter)
}

func TestPublishDecodeRejectsQoS3(t *testing.T) {
	fh := FixedHeader{Kind: PUBLISH, Flags: 0x06, RemainingLength: 3}
	var out Publish
	err := DecodePublish(fh, VERSION311, []byte{0x00, 0x01, 'x'}, &out)
	require.ErrorIs(t, err, ErrMalformedPacket)
}

func TestPubrelWrongFlagsRejectedAtFixedHeader(t *testing.T) {
	_, _, err := decodeFixedHeader([]byte{0x60, 0x02}) // PUBREL with flags 0x0 instead of 0x2
	require.ErrorIs(t, err, ErrMalformedPacket)
}

func TestFixedHeaderRejectsKindNotValidIncoming(t *testing.T) {
	// 0x10 = CONNECT nibble 1 - client-to-broker only, never legal as an
	// incoming packet read by this codec's client-side readers.
	_, _, err := decodeFixedHeader([]byte{0x10, 0x00})
	require.ErrorIs(t, err, ErrBadResponse)

	// 0x00 = RESERVED nibble 0 - never legal either direction.
	_, _, err = decodeFixedHeader([]byte{0x00, 0x00})
	require.ErrorIs(t, err, ErrBadResponse)
}

func TestReadIncomingPacketHeaderRejectsKindNotValidIncoming(t *testing.T) {
	data := []byte{0x10, 0x00} // CONNECT
	pos := 0
	recv := Receiver(func(_ context.Context, buf []byte) (int, error) {
		if pos >= len(data) {
			return 0, nil
		}
		n := copy(buf, data[pos:pos+1])
		pos += n
		return n, nil
	})
	_, err := ReadIncomingPacketHeader(context.Background(), recv)
	require.ErrorIs(t, err, ErrBadResponse)
}

func TestPacketIDZeroRejectedEverywhere(t *testing.T) {
	_, err := SizePublish(&PublishOptions{Version: VERSION311, QoS: 1, Topic: []byte("t"), PacketID: 0})
	require.ErrorIs(t, err, ErrBadParameter)

	_, err = SizeAck(&AckOptions{Version: VERSION311, Kind: PUBACK, PacketID: 0})
	require.ErrorIs(t, err, ErrBadParameter)

	var ack Ack
	err = DecodeAck(FixedHeader{Kind: PUBACK, RemainingLength: 2}, VERSION311, []byte{0x00, 0x00}, &ack)
	require.ErrorIs(t, err, ErrMalformedPacket)

	_, err = SizeSubscribe(&SubscribeOptions{Version: VERSION311, PacketID: 0, Requests: []SubscribeRequest{{Topic: []byte("t")}}})
	require.ErrorIs(t, err, ErrBadParameter)
}

func TestPublishDecodeZeroPacketIDIsBadResponse(t *testing.T) {
	fh := FixedHeader{Kind: PUBLISH, Flags: 0x02, RemainingLength: 5} // QoS 1
	var out Publish
	err := DecodePublish(fh, VERSION311, []byte{0x00, 0x01, 't', 0x00, 0x00}, &out)
	require.ErrorIs(t, err, ErrBadResponse)
}

func TestConnackRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	n, err := EncodeConnack(&FixedBuffer{Buffer: buf}, &ConnackOptions{
		Version:        VERSION311,
		SessionPresent: true,
		ReturnCode:     ConnackAccepted,
	})
	require.NoError(t, err)

	fh, hn, err := decodeFixedHeader(buf[:n])
	require.NoError(t, err)
	var out Connack
	err = DecodeConnack(fh, VERSION311, buf[hn:n], nil, &out)
	require.NoError(t, err)
	require.True(t, out.SessionPresent)
	require.Equal(t, uint8(ConnackAccepted), out.ReturnCode)
}

func TestAckRoundTripV5ShorthandSuccess(t *testing.T) {
	buf := make([]byte, 16)
	n, err := EncodeAck(&FixedBuffer{Buffer: buf}, &AckOptions{
		Version:    VERSION500,
		Kind:       PUBACK,
		PacketID:   5,
		ReasonCode: 0x00,
	})
	require.NoError(t, err)
	require.Equal(t, 4, n) // fixed header(2) + packet id(2), shorthand omits reason+properties

	fh, hn, err := decodeFixedHeader(buf[:n])
	require.NoError(t, err)
	var out Ack
	err = DecodeAck(fh, VERSION500, buf[hn:n], &out)
	require.NoError(t, err)
	require.EqualValues(t, 5, out.PacketID)
	require.Equal(t, uint8(0x00), out.ReasonCode)
}

func TestPingrespRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	n, err := EncodePingresp(&FixedBuffer{Buffer: buf})
	require.NoError(t, err)
	fh, _, err := decodeFixedHeader(buf[:n])
	require.NoError(t, err)
	require.NoError(t, DecodePingresp(fh))
}

func TestStreamingParseNeedsMoreBytes(t *testing.T) {
	buf := []byte{0x30, 0x82, 0x01} // type byte + 2-byte varint remaining length (130), incomplete
	for i := 1; i < len(buf); i++ {
		_, _, err := decodeFixedHeader(buf[:i])
		require.ErrorIs(t, err, ErrNeedMoreBytes)
	}
	fh, n, err := decodeFixedHeader(buf)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.EqualValues(t, 130, fh.RemainingLength)
}

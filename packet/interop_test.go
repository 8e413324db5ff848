package packet_test

import (
	"bytes"
	"testing"

	pahopackets "github.com/eclipse/paho.mqtt.golang/packets"
	"github.com/stretchr/testify/require"

	"github.com/golang-io/mqtt/packet"
)

// These tests feed our v3.1.1 output through an independent implementation
// (Eclipse Paho's wire decoder) to check the two agree on what MQTT 3.1.1
// CONNECT and PUBLISH look like on the wire, rather than only round-tripping
// against ourselves.

func TestInteropConnectReadableByPaho(t *testing.T) {
	buf := make([]byte, 256)
	n, err := packet.EncodeConnect(&packet.FixedBuffer{Buffer: buf}, &packet.ConnectOptions{
		Version:      packet.VERSION311,
		CleanSession: true,
		KeepAlive:    60,
		ClientID:     []byte("ab"),
	})
	require.NoError(t, err)

	cp, err := pahopackets.ReadPacket(bytes.NewReader(buf[:n]))
	require.NoError(t, err)
	connect, ok := cp.(*pahopackets.ConnectPacket)
	require.True(t, ok)
	require.Equal(t, "ab", connect.ClientIdentifier)
	require.EqualValues(t, 60, connect.Keepalive)
	require.True(t, connect.CleanSession)
}

func TestInteropPublishReadableByPaho(t *testing.T) {
	buf := make([]byte, 256)
	n, err := packet.EncodePublish(&packet.FixedBuffer{Buffer: buf}, &packet.PublishOptions{
		Version: packet.VERSION311,
		QoS:     0,
		Retain:  true,
		Topic:   []byte("a/b"),
		Payload: []byte("hi"),
	})
	require.NoError(t, err)

	cp, err := pahopackets.ReadPacket(bytes.NewReader(buf[:n]))
	require.NoError(t, err)
	pub, ok := cp.(*pahopackets.PublishPacket)
	require.True(t, ok)
	require.Equal(t, "a/b", pub.TopicName)
	require.Equal(t, []byte("hi"), pub.Payload)
	require.True(t, pub.Retain)
	require.EqualValues(t, 0, pub.Qos)
}

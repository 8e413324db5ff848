// Package transport adapts real connections to the packet.Receiver
// signature the codec's pull-style fixed-header reader is driven by. The
// codec itself never imports this package or knows a websocket exists;
// transport is explicitly out of scope for the codec (spec section 1) and
// lives here as an optional collaborator, grounded on the teacher's own use
// of golang.org/x/net/websocket as its connection type.
package transport

import (
	"context"
	"io"

	"golang.org/x/net/websocket"

	"github.com/golang-io/mqtt/packet"
)

// WebSocketReceiver adapts a *websocket.Conn to packet.Receiver. Each call
// reads up to len(buf) bytes from conn; ReadIncomingPacketHeader passes a
// one-byte buffer, so the header is read one byte at a time. io.EOF is
// reported as (0, nil), which the codec treats as no data available.
func WebSocketReceiver(conn *websocket.Conn) packet.Receiver {
	return func(_ context.Context, buf []byte) (int, error) {
		n, err := conn.Read(buf)
		if err != nil {
			if err == io.EOF {
				return 0, nil
			}
			return 0, err
		}
		return n, nil
	}
}

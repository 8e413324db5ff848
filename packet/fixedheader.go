package packet

// FixedHeader is the decoded view of the 2-to-5 byte header common to every
// control packet: the type/flags byte followed by the varint Remaining
// Length. It carries no payload; per-type deserializers read the variable
// header and payload that follow it from the same input slice.
type FixedHeader struct {
	Kind            byte
	Flags           byte
	RemainingLength uint32
}

// reservedFlags lists the fixed-flag-nibble packet types: PUBREL, SUBSCRIBE
// and UNSUBSCRIBE carry a fixed 0x02 low nibble in both protocol versions: a
// peer that sends anything else has violated the wire format.
var reservedFlags = map[byte]byte{
	PUBREL:      0x02,
	SUBSCRIBE:   0x02,
	UNSUBSCRIBE: 0x02,
}

// zeroFlagsKinds lists packet types whose low nibble must be exactly 0.
var zeroFlagsKinds = map[byte]bool{
	CONNECT:     true,
	CONNACK:     true,
	PUBACK:      true,
	PUBREC:      true,
	PUBCOMP:     true,
	SUBACK:      true,
	UNSUBACK:    true,
	PINGREQ:     true,
	PINGRESP:    true,
	DISCONNECT:  true,
	AUTH:        true,
}

// validIncomingKinds lists the packet types a peer may legally send to this
// codec's incoming-packet readers: CONNACK, PUBLISH, PUBACK, PUBREC, PUBREL,
// PUBCOMP, SUBACK, UNSUBACK, PINGRESP, DISCONNECT and AUTH. CONNECT,
// SUBSCRIBE, UNSUBSCRIBE and PINGREQ are sent the other direction (this
// codec's broker-side DecodeConnect/DecodeSubscribe/DecodeUnsubscribe
// callers parse a FixedHeader built without this check - see
// decodeAnyFixedHeader in the test helpers). RESERVED (0x0) is never legal
// either direction.
var validIncomingKinds = map[byte]bool{
	CONNACK:    true,
	PUBLISH:    true,
	PUBACK:     true,
	PUBREC:     true,
	PUBREL:     true,
	PUBCOMP:    true,
	SUBACK:     true,
	UNSUBACK:   true,
	PINGRESP:   true,
	DISCONNECT: true,
	AUTH:       true,
}

// decodeFixedHeader reads the fixed header from the start of src and returns
// the decoded header plus the number of bytes consumed (1 + however many
// varint bytes the Remaining Length took). It validates the flag nibble for
// every packet type except PUBLISH, whose flags (DUP/QoS/RETAIN) are decoded
// separately by the caller, and rejects a high nibble outside
// validIncomingKinds.
func decodeFixedHeader(src []byte) (fh FixedHeader, consumed int, err error) {
	if len(src) < 1 {
		return FixedHeader{}, 0, ErrNeedMoreBytes
	}
	kind := src[0] >> 4
	flags := src[0] & 0x0F

	if !validIncomingKinds[kind] {
		return FixedHeader{}, 0, ErrBadResponse
	}
	if want, ok := reservedFlags[kind]; ok && flags != want {
		return FixedHeader{}, 0, ErrMalformedPacket
	}
	if zeroFlagsKinds[kind] && flags != 0 {
		return FixedHeader{}, 0, ErrMalformedPacket
	}

	rl, n, err := decodeVarInt(src[1:])
	if err != nil {
		return FixedHeader{}, 0, err
	}
	if rl > MaxRemainingLength {
		return FixedHeader{}, 0, ErrMalformedPacket
	}
	return FixedHeader{Kind: kind, Flags: flags, RemainingLength: rl}, 1 + n, nil
}

// encodeFixedHeader writes the type/flags byte and the Remaining Length
// varint into dst and returns the number of bytes written.
func encodeFixedHeader(dst []byte, kind, flags byte, remainingLength uint32) int {
	dst[0] = (kind << 4) | (flags & 0x0F)
	return 1 + encodeVarInt(dst[1:], remainingLength)
}

// fixedHeaderSize reports how many bytes encodeFixedHeader would write for a
// packet whose variable-header+payload length is remainingLength.
func fixedHeaderSize(remainingLength uint32) int {
	return 1 + varIntSize(remainingLength)
}

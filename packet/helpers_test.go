package packet

// decodeAnyFixedHeader parses a fixed header the same way decodeFixedHeader
// does, but without the validIncomingKinds restriction, for tests that
// round-trip the packet types this codec's broker-side callers
// (DecodeConnect, DecodeSubscribe, DecodeUnsubscribe) decode - CONNECT,
// SUBSCRIBE and UNSUBSCRIBE travel client-to-broker, the opposite direction
// validIncomingKinds guards.
func decodeAnyFixedHeader(src []byte) (fh FixedHeader, consumed int, err error) {
	if len(src) < 1 {
		return FixedHeader{}, 0, ErrNeedMoreBytes
	}
	kind := src[0] >> 4
	flags := src[0] & 0x0F
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

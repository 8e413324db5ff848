package packet

// PINGREQ and PINGRESP carry no variable header or payload in either
// protocol version: Remaining Length is always 0.

// SizePingreq/SizePingresp report the fixed 2-byte size of these packets.
func SizePingreq() uint32  { return uint32(fixedHeaderSize(0)) }
func SizePingresp() uint32 { return uint32(fixedHeaderSize(0)) }

// EncodePingreq serializes a PINGREQ packet into fb.Buffer.
func EncodePingreq(fb *FixedBuffer) (int, error) {
	if fb.Cap() < int(SizePingreq()) {
		return 0, ErrNoMemory
	}
	return encodeFixedHeader(fb.Buffer, PINGREQ, 0, 0), nil
}

// EncodePingresp serializes a PINGRESP packet into fb.Buffer.
func EncodePingresp(fb *FixedBuffer) (int, error) {
	if fb.Cap() < int(SizePingresp()) {
		return 0, ErrNoMemory
	}
	return encodeFixedHeader(fb.Buffer, PINGRESP, 0, 0), nil
}

// DecodePingreq validates that fh describes an empty PINGREQ.
func DecodePingreq(fh FixedHeader) error {
	if fh.RemainingLength != 0 {
		return ErrMalformedPacket
	}
	return nil
}

// DecodePingresp validates that fh describes an empty PINGRESP.
func DecodePingresp(fh FixedHeader) error {
	if fh.RemainingLength != 0 {
		return ErrMalformedPacket
	}
	return nil
}

package packet

// UNSUBACK differs by version more than any other acknowledgement packet:
// MQTT 3.1.1 carries only the Packet Identifier, no payload at all; MQTT 5
// adds a property block and one reason code per Topic Filter in the
// originating UNSUBSCRIBE, in the same order.

// UnsubackOptions describes an UNSUBACK packet to serialize.
type UnsubackOptions struct {
	Version     byte
	PacketID    uint16
	Properties  *PropertySet // v5 only
	ReasonCodes []uint8      // v5 only; ignored for v3.1.1
}

// Unsuback is the decoded view of an inbound UNSUBACK packet.
type Unsuback struct {
	Version     byte
	PacketID    uint16
	Properties  PropertySet
	ReasonCodes []uint8 // empty for v3.1.1
}

func validateUnsubackOptions(o *UnsubackOptions) error {
	if o == nil || (o.Version != VERSION311 && o.Version != VERSION500) {
		return ErrBadParameter
	}
	if o.PacketID == 0 {
		return ErrBadParameter
	}
	if o.Version == VERSION500 {
		if len(o.ReasonCodes) == 0 {
			return ErrBadParameter
		}
		for _, rc := range o.ReasonCodes {
			if _, ok := ReasonCodes[rc]; !ok {
				return ErrBadParameter
			}
		}
	}
	return nil
}

// SizeUnsuback reports the exact number of bytes EncodeUnsuback would write.
func SizeUnsuback(o *UnsubackOptions) (uint32, error) {
	if err := validateUnsubackOptions(o); err != nil {
		return 0, err
	}
	rl := uint32(2)
	if o.Version == VERSION500 {
		propLen := sizeProperties(o.Properties)
		rl += uint32(varIntSize(propLen)) + propLen
		rl += uint32(len(o.ReasonCodes))
	}
	if rl > MaxRemainingLength {
		return 0, ErrBadParameter
	}
	return uint32(fixedHeaderSize(rl)) + rl, nil
}

// EncodeUnsuback serializes an UNSUBACK packet into fb.Buffer.
func EncodeUnsuback(fb *FixedBuffer, o *UnsubackOptions) (int, error) {
	total, err := SizeUnsuback(o)
	if err != nil {
		return 0, err
	}
	if fb.Cap() < int(total) {
		return 0, ErrNoMemory
	}
	dst := fb.Buffer
	rl := uint32(2)
	if o.Version == VERSION500 {
		rl += uint32(varIntSize(sizeProperties(o.Properties))) + sizeProperties(o.Properties)
		rl += uint32(len(o.ReasonCodes))
	}
	off := encodeFixedHeader(dst, UNSUBACK, 0, rl)
	putUint16(dst[off:], o.PacketID)
	off += 2
	if o.Version == VERSION500 {
		off += encodeProperties(dst[off:], o.Properties)
		off += copy(dst[off:], o.ReasonCodes)
	}
	return off, nil
}

// DecodeUnsuback reads an UNSUBACK packet's variable header and payload
// from src into out.
func DecodeUnsuback(fh FixedHeader, version byte, src []byte, out *Unsuback) error {
	if uint32(len(src)) < fh.RemainingLength {
		return ErrNeedMoreBytes
	}
	body := src[:fh.RemainingLength]
	if len(body) < 2 {
		return ErrMalformedPacket
	}
	out.Version = version
	out.PacketID = getUint16(body)
	if out.PacketID == 0 {
		return ErrMalformedPacket
	}
	out.Properties = PropertySet{}
	out.ReasonCodes = nil

	if version == VERSION311 {
		if len(body) != 2 {
			return ErrMalformedPacket
		}
		return nil
	}

	pos := 2
	n, err := decodeProperties(body[pos:], ctxUnsuback, &out.Properties)
	if err != nil {
		return err
	}
	pos += n
	if pos == len(body) {
		return ErrMalformedPacket
	}
	codes := body[pos:]
	for _, rc := range codes {
		if _, ok := ReasonCodes[rc]; !ok {
			return ErrMalformedPacket
		}
	}
	out.ReasonCodes = codes
	return nil
}

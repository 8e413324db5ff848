package packet

// PUBACK, PUBREC, PUBREL and PUBCOMP share one variable-header shape: Packet
// Identifier, then (MQTT 5 only) an optional Reason Code and an optional
// property block. MQTT 5 allows two shorthand forms that omit trailing
// fields whose value would otherwise be the default: Remaining Length 2
// means "Success, no properties"; Remaining Length 3 means "this reason
// code, no properties, no property-length byte at all".

// AckOptions describes a PUBACK/PUBREC/PUBREL/PUBCOMP packet to serialize.
type AckOptions struct {
	Version    byte
	Kind       byte // PUBACK, PUBREC, PUBREL or PUBCOMP
	PacketID   uint16
	ReasonCode uint8
	Properties *PropertySet // v5 only
}

// Ack is the decoded view of an inbound PUBACK/PUBREC/PUBREL/PUBCOMP packet.
type Ack struct {
	Version    byte
	Kind       byte
	PacketID   uint16
	ReasonCode uint8
	Properties PropertySet
}

func validateAckOptions(o *AckOptions) error {
	if o == nil || (o.Version != VERSION311 && o.Version != VERSION500) {
		return ErrBadParameter
	}
	switch o.Kind {
	case PUBACK, PUBREC, PUBREL, PUBCOMP:
	default:
		return ErrBadParameter
	}
	if o.PacketID == 0 {
		return ErrBadParameter
	}
	if o.Version == VERSION500 {
		if _, ok := ReasonCodes[o.ReasonCode]; !ok {
			return ErrBadParameter
		}
	}
	return nil
}

func ackFlags(kind byte) byte {
	if kind == PUBREL {
		return 0x02
	}
	return 0x00
}

// ackHasTrailer reports whether the reason code and property block are
// present at all, applying the two MQTT 5 shorthand forms.
func ackHasTrailer(o *AckOptions) (includeReasonCode, includeProperties bool) {
	if o.Version != VERSION500 {
		return false, false
	}
	propLen := sizeProperties(o.Properties)
	if o.ReasonCode == 0x00 && propLen == 0 {
		return false, false
	}
	if propLen == 0 {
		return true, false
	}
	return true, true
}

// SizeAck reports the exact number of bytes EncodeAck would write.
func SizeAck(o *AckOptions) (uint32, error) {
	if err := validateAckOptions(o); err != nil {
		return 0, err
	}
	rl := uint32(2)
	includeReasonCode, includeProperties := ackHasTrailer(o)
	if includeReasonCode {
		rl++
	}
	if includeProperties {
		propLen := sizeProperties(o.Properties)
		rl += uint32(varIntSize(propLen)) + propLen
	}
	return uint32(fixedHeaderSize(rl)) + rl, nil
}

// EncodeAck serializes a PUBACK/PUBREC/PUBREL/PUBCOMP packet into fb.Buffer.
func EncodeAck(fb *FixedBuffer, o *AckOptions) (int, error) {
	total, err := SizeAck(o)
	if err != nil {
		return 0, err
	}
	if fb.Cap() < int(total) {
		return 0, ErrNoMemory
	}
	dst := fb.Buffer
	includeReasonCode, includeProperties := ackHasTrailer(o)
	rl := uint32(2)
	if includeReasonCode {
		rl++
	}
	if includeProperties {
		rl += uint32(varIntSize(sizeProperties(o.Properties))) + sizeProperties(o.Properties)
	}
	off := encodeFixedHeader(dst, o.Kind, ackFlags(o.Kind), rl)
	putUint16(dst[off:], o.PacketID)
	off += 2
	if includeReasonCode {
		dst[off] = o.ReasonCode
		off++
	}
	if includeProperties {
		off += encodeProperties(dst[off:], o.Properties)
	}
	return off, nil
}

// DecodeAck reads a PUBACK/PUBREC/PUBREL/PUBCOMP packet's variable header
// from src into out.
func DecodeAck(fh FixedHeader, version byte, src []byte, out *Ack) error {
	if uint32(len(src)) < fh.RemainingLength {
		return ErrNeedMoreBytes
	}
	body := src[:fh.RemainingLength]
	if len(body) < 2 {
		return ErrMalformedPacket
	}
	out.Version = version
	out.Kind = fh.Kind
	out.PacketID = getUint16(body)
	if out.PacketID == 0 {
		return ErrMalformedPacket
	}
	out.ReasonCode = 0x00
	out.Properties = PropertySet{}

	if version == VERSION311 {
		if len(body) != 2 {
			return ErrMalformedPacket
		}
		return nil
	}

	if len(body) == 2 {
		return nil // shorthand: Success, no properties
	}
	out.ReasonCode = body[2]
	if _, ok := ReasonCodes[out.ReasonCode]; !ok {
		return ErrMalformedPacket
	}
	if len(body) == 3 {
		return nil // shorthand: this reason code, no properties
	}
	n, err := decodeProperties(body[3:], ctxAck, &out.Properties)
	if err != nil {
		return err
	}
	if 3+n != len(body) {
		return ErrMalformedPacket
	}
	return nil
}

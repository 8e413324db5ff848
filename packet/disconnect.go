package packet

// DISCONNECT carries no variable header in MQTT 3.1.1 (Remaining Length is
// always 0). MQTT 5 adds the same shorthand family as the acknowledgement
// packets, but anchored at zero instead of two bytes since there is no
// Packet Identifier here: Remaining Length 0 means Success with no
// properties, 1 means just a reason code, 2+ means reason code plus a
// property block.

// DisconnectOptions describes a DISCONNECT packet to serialize.
type DisconnectOptions struct {
	Version    byte
	ReasonCode uint8
	Properties *PropertySet // v5 only
}

// Disconnect is the decoded view of an inbound DISCONNECT packet.
type Disconnect struct {
	Version    byte
	ReasonCode uint8
	Properties PropertySet
}

func validateDisconnectOptions(o *DisconnectOptions) error {
	if o == nil || (o.Version != VERSION311 && o.Version != VERSION500) {
		return ErrBadParameter
	}
	if o.Version == VERSION500 {
		if _, ok := ReasonCodes[o.ReasonCode]; !ok {
			return ErrBadParameter
		}
	} else if o.ReasonCode != 0 {
		return ErrBadParameter
	}
	return nil
}

func disconnectTrailer(o *DisconnectOptions) (includeReasonCode, includeProperties bool) {
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

// SizeDisconnect reports the exact number of bytes EncodeDisconnect would write.
func SizeDisconnect(o *DisconnectOptions) (uint32, error) {
	if err := validateDisconnectOptions(o); err != nil {
		return 0, err
	}
	var rl uint32
	includeReasonCode, includeProperties := disconnectTrailer(o)
	if includeReasonCode {
		rl++
	}
	if includeProperties {
		propLen := sizeProperties(o.Properties)
		rl += uint32(varIntSize(propLen)) + propLen
	}
	return uint32(fixedHeaderSize(rl)) + rl, nil
}

// EncodeDisconnect serializes a DISCONNECT packet into fb.Buffer.
func EncodeDisconnect(fb *FixedBuffer, o *DisconnectOptions) (int, error) {
	total, err := SizeDisconnect(o)
	if err != nil {
		return 0, err
	}
	if fb.Cap() < int(total) {
		return 0, ErrNoMemory
	}
	dst := fb.Buffer
	includeReasonCode, includeProperties := disconnectTrailer(o)
	var rl uint32
	if includeReasonCode {
		rl++
	}
	if includeProperties {
		rl += uint32(varIntSize(sizeProperties(o.Properties))) + sizeProperties(o.Properties)
	}
	off := encodeFixedHeader(dst, DISCONNECT, 0, rl)
	if includeReasonCode {
		dst[off] = o.ReasonCode
		off++
	}
	if includeProperties {
		off += encodeProperties(dst[off:], o.Properties)
	}
	return off, nil
}

// DecodeDisconnect reads a DISCONNECT packet's variable header from src into out.
func DecodeDisconnect(fh FixedHeader, version byte, src []byte, out *Disconnect) error {
	if uint32(len(src)) < fh.RemainingLength {
		return ErrNeedMoreBytes
	}
	body := src[:fh.RemainingLength]
	out.Version = version
	out.ReasonCode = 0x00
	out.Properties = PropertySet{}

	if version == VERSION311 {
		if len(body) != 0 {
			return ErrMalformedPacket
		}
		return nil
	}
	if len(body) == 0 {
		return nil
	}
	out.ReasonCode = body[0]
	if _, ok := ReasonCodes[out.ReasonCode]; !ok {
		return ErrMalformedPacket
	}
	if len(body) == 1 {
		return nil
	}
	n, err := decodeProperties(body[1:], ctxDisconnect, &out.Properties)
	if err != nil {
		return err
	}
	if 1+n != len(body) {
		return ErrMalformedPacket
	}
	return nil
}

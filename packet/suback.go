package packet

// SUBACK variable header: Packet Identifier, then (MQTT 5) a property block,
// then one return/reason code per Topic Filter in the originating SUBSCRIBE,
// in the same order.

// SubackOptions describes a SUBACK packet to serialize.
type SubackOptions struct {
	Version     byte
	PacketID    uint16
	Properties  *PropertySet // v5 only
	ReasonCodes []uint8
}

// Suback is the decoded view of an inbound SUBACK packet.
type Suback struct {
	Version     byte
	PacketID    uint16
	Properties  PropertySet
	ReasonCodes []uint8
}

// v311SubackCodes are the only return codes legal in a v3.1.1 SUBACK.
var v311SubackCodes = map[uint8]bool{0x00: true, 0x01: true, 0x02: true, 0x80: true}

func validateSubackOptions(o *SubackOptions) error {
	if o == nil || (o.Version != VERSION311 && o.Version != VERSION500) {
		return ErrBadParameter
	}
	if o.PacketID == 0 || len(o.ReasonCodes) == 0 {
		return ErrBadParameter
	}
	for _, rc := range o.ReasonCodes {
		if o.Version == VERSION311 {
			if !v311SubackCodes[rc] {
				return ErrBadParameter
			}
			continue
		}
		if _, ok := ReasonCodes[rc]; !ok {
			return ErrBadParameter
		}
	}
	return nil
}

// SizeSuback reports the exact number of bytes EncodeSuback would write.
func SizeSuback(o *SubackOptions) (uint32, error) {
	if err := validateSubackOptions(o); err != nil {
		return 0, err
	}
	rl := uint32(2 + len(o.ReasonCodes))
	if o.Version == VERSION500 {
		propLen := sizeProperties(o.Properties)
		rl += uint32(varIntSize(propLen)) + propLen
	}
	if rl > MaxRemainingLength {
		return 0, ErrBadParameter
	}
	return uint32(fixedHeaderSize(rl)) + rl, nil
}

// EncodeSuback serializes a SUBACK packet into fb.Buffer.
func EncodeSuback(fb *FixedBuffer, o *SubackOptions) (int, error) {
	total, err := SizeSuback(o)
	if err != nil {
		return 0, err
	}
	if fb.Cap() < int(total) {
		return 0, ErrNoMemory
	}
	dst := fb.Buffer
	rl := uint32(2 + len(o.ReasonCodes))
	if o.Version == VERSION500 {
		rl += uint32(varIntSize(sizeProperties(o.Properties))) + sizeProperties(o.Properties)
	}
	off := encodeFixedHeader(dst, SUBACK, 0, rl)
	putUint16(dst[off:], o.PacketID)
	off += 2
	if o.Version == VERSION500 {
		off += encodeProperties(dst[off:], o.Properties)
	}
	off += copy(dst[off:], o.ReasonCodes)
	return off, nil
}

// DecodeSuback reads a SUBACK packet's variable header and payload from src
// into out. out.ReasonCodes borrows directly from src.
func DecodeSuback(fh FixedHeader, version byte, src []byte, out *Suback) error {
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
	pos := 2
	out.Properties = PropertySet{}
	if version == VERSION500 {
		n, err := decodeProperties(body[pos:], ctxSuback, &out.Properties)
		if err != nil {
			return err
		}
		pos += n
	}
	if pos == len(body) {
		return ErrMalformedPacket // at least one reason code required
	}
	codes := body[pos:]
	refused := false
	for _, rc := range codes {
		if version == VERSION311 {
			if !v311SubackCodes[rc] {
				return ErrBadResponse
			}
		} else if _, ok := ReasonCodes[rc]; !ok {
			return ErrMalformedPacket
		}
		if rc >= 0x80 {
			refused = true
		}
	}
	out.ReasonCodes = codes
	if refused {
		return ErrServerRefused
	}
	return nil
}

package packet

// UNSUBSCRIBE variable header (Packet Identifier, then MQTT 5 properties)
// followed by a payload of one or more Topic Filters.

// UnsubscribeOptions describes an UNSUBSCRIBE packet to serialize.
type UnsubscribeOptions struct {
	Version    byte
	PacketID   uint16
	Properties *PropertySet // v5 only
	Topics     [][]byte
}

// Unsubscribe is the decoded view of an inbound UNSUBSCRIBE packet.
type Unsubscribe struct {
	Version    byte
	PacketID   uint16
	Properties PropertySet
	Topics     [][]byte
}

func validateUnsubscribeOptions(o *UnsubscribeOptions) error {
	if o == nil || (o.Version != VERSION311 && o.Version != VERSION500) {
		return ErrBadParameter
	}
	if o.PacketID == 0 || len(o.Topics) == 0 {
		return ErrBadParameter
	}
	for _, t := range o.Topics {
		if len(t) == 0 || len(t) > maxPrefixedLength {
			return ErrBadParameter
		}
	}
	return nil
}

// SizeUnsubscribe reports the exact number of bytes EncodeUnsubscribe would write.
func SizeUnsubscribe(o *UnsubscribeOptions) (uint32, error) {
	if err := validateUnsubscribeOptions(o); err != nil {
		return 0, err
	}
	rl := uint32(2)
	if o.Version == VERSION500 {
		propLen := sizeProperties(o.Properties)
		rl += uint32(varIntSize(propLen)) + propLen
	}
	for _, t := range o.Topics {
		rl += uint32(2 + len(t))
	}
	if rl > MaxRemainingLength {
		return 0, ErrBadParameter
	}
	return uint32(fixedHeaderSize(rl)) + rl, nil
}

// EncodeUnsubscribe serializes an UNSUBSCRIBE packet into fb.Buffer.
func EncodeUnsubscribe(fb *FixedBuffer, o *UnsubscribeOptions) (int, error) {
	total, err := SizeUnsubscribe(o)
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
	}
	for _, t := range o.Topics {
		rl += uint32(2 + len(t))
	}
	off := encodeFixedHeader(dst, UNSUBSCRIBE, 0x02, rl)
	putUint16(dst[off:], o.PacketID)
	off += 2
	if o.Version == VERSION500 {
		off += encodeProperties(dst[off:], o.Properties)
	}
	for _, t := range o.Topics {
		off += putPrefixed(dst[off:], t)
	}
	return off, nil
}

// DecodeUnsubscribe reads an UNSUBSCRIBE packet's variable header and
// payload from src into out.Topics. It truncates out.Topics to length zero
// before appending, so any earlier contents are replaced.
func DecodeUnsubscribe(fh FixedHeader, version byte, src []byte, out *Unsubscribe) error {
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
		n, err := decodeProperties(body[pos:], ctxUnsubscribe, &out.Properties)
		if err != nil {
			return err
		}
		pos += n
	}
	out.Topics = out.Topics[:0]
	if pos == len(body) {
		return ErrMalformedPacket
	}
	for pos < len(body) {
		topic, n, err := getPrefixed(body[pos:])
		if err != nil {
			return err
		}
		out.Topics = append(out.Topics, topic)
		pos += n
	}
	return nil
}

package packet

// SUBSCRIBE variable header (Packet Identifier, then MQTT 5 properties)
// followed by a payload of one or more (Topic Filter, Subscription Options)
// pairs. MQTT 3.1.1's options byte is just a requested QoS; MQTT 5 adds
// No Local, Retain As Published and a Retain Handling enum in the same byte.

// SubscribeRequest is one Topic Filter entry in a SUBSCRIBE payload.
type SubscribeRequest struct {
	Topic             []byte
	QoS               uint8
	NoLocal           bool  // v5 only
	RetainAsPublished bool  // v5 only
	RetainHandling    uint8 // v5 only, 0-2
}

// SubscribeOptions describes a SUBSCRIBE packet to serialize.
type SubscribeOptions struct {
	Version    byte
	PacketID   uint16
	Properties *PropertySet // v5 only
	Requests   []SubscribeRequest
}

// Subscribe is the decoded view of an inbound SUBSCRIBE packet.
type Subscribe struct {
	Version    byte
	PacketID   uint16
	Properties PropertySet
	Requests   []SubscribeRequest
}

func subscribeOptionsByte(version byte, r SubscribeRequest) (byte, error) {
	if r.QoS > MaxQoS {
		return 0, ErrBadParameter
	}
	b := r.QoS
	if version == VERSION500 {
		if r.RetainHandling > 2 {
			return 0, ErrBadParameter
		}
		if r.NoLocal {
			b |= 0x04
		}
		if r.RetainAsPublished {
			b |= 0x08
		}
		b |= r.RetainHandling << 4
	}
	return b, nil
}

func validateSubscribeOptions(o *SubscribeOptions) error {
	if o == nil || (o.Version != VERSION311 && o.Version != VERSION500) {
		return ErrBadParameter
	}
	if o.PacketID == 0 || len(o.Requests) == 0 {
		return ErrBadParameter
	}
	for _, r := range o.Requests {
		if len(r.Topic) == 0 || len(r.Topic) > maxPrefixedLength {
			return ErrBadParameter
		}
		if _, err := subscribeOptionsByte(o.Version, r); err != nil {
			return err
		}
	}
	return nil
}

// SizeSubscribe reports the exact number of bytes EncodeSubscribe would write.
func SizeSubscribe(o *SubscribeOptions) (uint32, error) {
	if err := validateSubscribeOptions(o); err != nil {
		return 0, err
	}
	rl := uint32(2)
	if o.Version == VERSION500 {
		propLen := sizeProperties(o.Properties)
		rl += uint32(varIntSize(propLen)) + propLen
	}
	for _, r := range o.Requests {
		rl += uint32(2+len(r.Topic)) + 1
	}
	if rl > MaxRemainingLength {
		return 0, ErrBadParameter
	}
	return uint32(fixedHeaderSize(rl)) + rl, nil
}

// EncodeSubscribe serializes a SUBSCRIBE packet into fb.Buffer.
func EncodeSubscribe(fb *FixedBuffer, o *SubscribeOptions) (int, error) {
	total, err := SizeSubscribe(o)
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
	for _, r := range o.Requests {
		rl += uint32(2+len(r.Topic)) + 1
	}
	off := encodeFixedHeader(dst, SUBSCRIBE, 0x02, rl)
	putUint16(dst[off:], o.PacketID)
	off += 2
	if o.Version == VERSION500 {
		off += encodeProperties(dst[off:], o.Properties)
	}
	for _, r := range o.Requests {
		off += putPrefixed(dst[off:], r.Topic)
		b, _ := subscribeOptionsByte(o.Version, r)
		dst[off] = b
		off++
	}
	return off, nil
}

// DecodeSubscribe reads a SUBSCRIBE packet's variable header and payload
// from src into out.Requests. It truncates out.Requests to length zero
// before appending, so any earlier contents are replaced; a caller that
// passes a slice with enough spare capacity avoids a reallocation per call.
func DecodeSubscribe(fh FixedHeader, version byte, src []byte, out *Subscribe) error {
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
		n, err := decodeProperties(body[pos:], ctxSubscribe, &out.Properties)
		if err != nil {
			return err
		}
		pos += n
	}
	out.Requests = out.Requests[:0]
	if pos == len(body) {
		return ErrMalformedPacket // at least one Topic Filter required
	}
	for pos < len(body) {
		topic, n, err := getPrefixed(body[pos:])
		if err != nil {
			return err
		}
		pos += n
		if pos >= len(body) {
			return ErrMalformedPacket
		}
		opts := body[pos]
		pos++
		r := SubscribeRequest{Topic: topic, QoS: opts & 0x03}
		if r.QoS > MaxQoS {
			return ErrMalformedPacket
		}
		if version == VERSION500 {
			if opts&0xC0 != 0 {
				return ErrMalformedPacket
			}
			r.NoLocal = opts&0x04 != 0
			r.RetainAsPublished = opts&0x08 != 0
			r.RetainHandling = (opts & 0x30) >> 4
			if r.RetainHandling > 2 {
				return ErrMalformedPacket
			}
		} else if opts&0xFC != 0 {
			return ErrMalformedPacket
		}
		out.Requests = append(out.Requests, r)
	}
	return nil
}

package packet

// PUBLISH variable header: Topic Name, Packet Identifier (only when QoS>0),
// then (MQTT 5) a property block, then the application payload, which runs
// to the end of Remaining Length with no length prefix of its own.

// PublishOptions describes a PUBLISH packet to serialize.
type PublishOptions struct {
	Version    byte
	Dup        bool
	QoS        uint8
	Retain     bool
	Topic      []byte
	PacketID   uint16 // must be nonzero when QoS > 0; ignored when QoS == 0
	Properties *PropertySet // v5 only
	Payload    []byte
}

// Publish is the decoded view of an inbound PUBLISH packet.
type Publish struct {
	Version    byte
	Dup        bool
	QoS        uint8
	Retain     bool
	Topic      []byte
	PacketID   uint16
	Properties PropertySet
	Payload    []byte
}

func validatePublishOptions(o *PublishOptions) error {
	if o == nil || (o.Version != VERSION311 && o.Version != VERSION500) {
		return ErrBadParameter
	}
	if o.QoS > MaxQoS {
		return ErrBadParameter
	}
	if o.QoS == 0 && o.Dup {
		return ErrBadParameter
	}
	if o.QoS > 0 && o.PacketID == 0 {
		return ErrBadParameter
	}
	if len(o.Topic) == 0 || len(o.Topic) > maxPrefixedLength {
		return ErrBadParameter
	}
	return nil
}

// SizePublish reports the exact number of bytes EncodePublish would write.
func SizePublish(o *PublishOptions) (uint32, error) {
	if err := validatePublishOptions(o); err != nil {
		return 0, err
	}
	rl := uint32(2 + len(o.Topic))
	if o.QoS > 0 {
		rl += 2
	}
	if o.Version == VERSION500 {
		propLen := sizeProperties(o.Properties)
		rl += uint32(varIntSize(propLen)) + propLen
	}
	rl += uint32(len(o.Payload))
	// The payload limit also subtracts the encoded size of the Remaining
	// Length field, which itself depends on rl, so check both forms.
	if rl > MaxRemainingLength || rl+uint32(varIntSize(rl)) > MaxRemainingLength {
		return 0, ErrBadParameter
	}
	return uint32(fixedHeaderSize(rl)) + rl, nil
}

// EncodePublish serializes a PUBLISH packet into fb.Buffer.
func EncodePublish(fb *FixedBuffer, o *PublishOptions) (int, error) {
	total, err := SizePublish(o)
	if err != nil {
		return 0, err
	}
	if fb.Cap() < int(total) {
		return 0, ErrNoMemory
	}
	dst := fb.Buffer
	rl := uint32(2 + len(o.Topic))
	if o.QoS > 0 {
		rl += 2
	}
	if o.Version == VERSION500 {
		rl += uint32(varIntSize(sizeProperties(o.Properties))) + sizeProperties(o.Properties)
	}
	rl += uint32(len(o.Payload))

	off := encodeFixedHeader(dst, PUBLISH, byte(publishFlags(o.Dup, o.QoS, o.Retain)), rl)
	off += putPrefixed(dst[off:], o.Topic)
	if o.QoS > 0 {
		putUint16(dst[off:], o.PacketID)
		off += 2
	}
	if o.Version == VERSION500 {
		off += encodeProperties(dst[off:], o.Properties)
	}
	off += copy(dst[off:], o.Payload)
	return off, nil
}

// EncodePublishHeader writes the fixed header, topic, packet identifier (if
// any) and property block of a PUBLISH - everything except the payload -
// and returns the number of bytes written. Callers that hold the payload in
// a separate buffer (e.g. one owned by the transport's scatter-gather write)
// use this to avoid copying it through fb first.
func EncodePublishHeader(fb *FixedBuffer, o *PublishOptions) (int, error) {
	total, err := SizePublish(o)
	if err != nil {
		return 0, err
	}
	headerLen := int(total) - len(o.Payload)
	if fb.Cap() < headerLen {
		return 0, ErrNoMemory
	}
	dst := fb.Buffer
	rl := uint32(2 + len(o.Topic))
	if o.QoS > 0 {
		rl += 2
	}
	if o.Version == VERSION500 {
		rl += uint32(varIntSize(sizeProperties(o.Properties))) + sizeProperties(o.Properties)
	}
	rl += uint32(len(o.Payload))

	off := encodeFixedHeader(dst, PUBLISH, byte(publishFlags(o.Dup, o.QoS, o.Retain)), rl)
	off += putPrefixed(dst[off:], o.Topic)
	if o.QoS > 0 {
		putUint16(dst[off:], o.PacketID)
		off += 2
	}
	if o.Version == VERSION500 {
		off += encodeProperties(dst[off:], o.Properties)
	}
	return off, nil
}

// DecodePublish reads a PUBLISH packet's variable header and payload from
// src into out.
func DecodePublish(fh FixedHeader, version byte, src []byte, out *Publish) error {
	if uint32(len(src)) < fh.RemainingLength {
		return ErrNeedMoreBytes
	}
	body := src[:fh.RemainingLength]
	flags := PublishFlags(fh.Flags)
	qos := flags.QoS()
	if qos > MaxQoS {
		return ErrMalformedPacket
	}
	if qos == 0 && flags.Dup() {
		return ErrMalformedPacket
	}

	topic, n, err := getPrefixed(body)
	if err != nil {
		return err
	}
	pos := n

	out.Version = version
	out.Dup = flags.Dup()
	out.QoS = qos
	out.Retain = flags.Retain()
	out.Topic = topic
	out.Properties = PropertySet{}
	out.PacketID = 0

	if qos > 0 {
		if len(body) < pos+2 {
			return ErrMalformedPacket
		}
		out.PacketID = getUint16(body[pos:])
		if out.PacketID == 0 {
			return ErrBadResponse
		}
		pos += 2
	}

	if version == VERSION500 {
		n, err := decodeProperties(body[pos:], ctxPublish, &out.Properties)
		if err != nil {
			return err
		}
		pos += n
	}

	out.Payload = body[pos:]
	return nil
}

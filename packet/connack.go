package packet

// CONNACK variable header. v3.1.1 carries a Connect Acknowledge Flags byte
// (only bit 0, Session Present, defined) and a return code from the fixed
// table in errors.go; MQTT 5 reuses the same two bytes as Session Present +
// Reason Code and appends a property block.

// ConnackOptions describes a CONNACK packet to serialize.
type ConnackOptions struct {
	Version        byte
	SessionPresent bool
	ReturnCode     uint8
	Properties     *PropertySet // v5 only
}

// Connack is the decoded view of an inbound CONNACK packet.
type Connack struct {
	Version        byte
	SessionPresent bool
	ReturnCode     uint8
	Properties     PropertySet
}

// ConnectContext carries the subset of the originating CONNECT's properties
// that MQTT 5 CONNACK decoding must cross-check: Response-Information is
// only legal in CONNACK if that CONNECT set Request-Response-Information=1,
// and Authentication-Method/Authentication-Data are only legal in CONNACK if
// that CONNECT already sent an Authentication-Method. A nil *ConnectContext
// is treated as "CONNECT requested neither," matching
// core_mqtt_serializer.c's zero-initialized MQTTConnectProperties_t.
type ConnectContext struct {
	RequestResponseInformation bool
	AuthenticationMethodSent   bool
}

func validateConnackOptions(o *ConnackOptions) error {
	if o == nil || (o.Version != VERSION311 && o.Version != VERSION500) {
		return ErrBadParameter
	}
	if o.Version == VERSION311 && o.ReturnCode > ConnackRefusedNotAuthorized {
		return ErrBadParameter
	}
	if o.Version == VERSION500 {
		if o.ReturnCode != 0x00 && o.ReturnCode < 0x80 {
			return ErrBadParameter
		}
		if _, ok := ReasonCodes[o.ReturnCode]; !ok {
			return ErrBadParameter
		}
	}
	if o.SessionPresent && o.ReturnCode != 0x00 {
		return ErrBadParameter
	}
	return nil
}

// SizeConnack reports the exact number of bytes EncodeConnack would write.
func SizeConnack(o *ConnackOptions) (uint32, error) {
	if err := validateConnackOptions(o); err != nil {
		return 0, err
	}
	rl := uint32(2)
	if o.Version == VERSION500 {
		propLen := sizeProperties(o.Properties)
		rl += uint32(varIntSize(propLen)) + propLen
	}
	return uint32(fixedHeaderSize(rl)) + rl, nil
}

// EncodeConnack serializes a CONNACK packet into fb.Buffer.
func EncodeConnack(fb *FixedBuffer, o *ConnackOptions) (int, error) {
	total, err := SizeConnack(o)
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
	off := encodeFixedHeader(dst, CONNACK, 0, rl)
	var flagsByte byte
	if o.SessionPresent {
		flagsByte = 0x01
	}
	dst[off] = flagsByte
	off++
	dst[off] = o.ReturnCode
	off++
	if o.Version == VERSION500 {
		off += encodeProperties(dst[off:], o.Properties)
	}
	return off, nil
}

// DecodeConnack reads a CONNACK packet's variable header from src into out.
// connectCtx carries the originating CONNECT's Request-Response-Information
// and Authentication-Method state so the v5 cross-packet property rules in
// SPEC_FULL.md §4.5 can be enforced; it is ignored for v3.1.1 and may be nil
// there.
//
// A property-length field of zero is treated as "no properties present",
// not a protocol violation: the wire simply carries an empty property
// block, which decodeProperties already accepts.
func DecodeConnack(fh FixedHeader, version byte, src []byte, connectCtx *ConnectContext, out *Connack) error {
	if uint32(len(src)) < fh.RemainingLength {
		return ErrNeedMoreBytes
	}
	body := src[:fh.RemainingLength]
	if len(body) < 2 {
		return ErrMalformedPacket
	}
	ackFlags := body[0]
	if ackFlags&0xFE != 0 {
		return ErrMalformedPacket
	}
	out.Version = version
	out.SessionPresent = ackFlags&0x01 != 0
	out.ReturnCode = body[1]
	out.Properties = PropertySet{}

	if version == VERSION311 {
		if out.ReturnCode > ConnackRefusedNotAuthorized {
			return ErrBadResponse
		}
		if len(body) != 2 {
			return ErrMalformedPacket
		}
		if out.SessionPresent && out.ReturnCode != ConnackAccepted {
			return ErrBadResponse
		}
		if out.ReturnCode != ConnackAccepted {
			return ErrServerRefused
		}
		return nil
	}

	if out.ReturnCode != 0x00 && (out.ReturnCode < 0x80 || out.ReturnCode > 0x9F) {
		return ErrBadResponse
	}
	if _, ok := ReasonCodes[out.ReturnCode]; !ok {
		return ErrBadResponse
	}
	n, err := decodeProperties(body[2:], ctxConnack, &out.Properties)
	if err != nil {
		return err
	}
	if 2+n != len(body) {
		return ErrMalformedPacket
	}
	requestedResponseInfo := connectCtx != nil && connectCtx.RequestResponseInformation
	if out.Properties.ResponseInformation != nil && !requestedResponseInfo {
		return ErrProtocolError
	}
	authMethodSent := connectCtx != nil && connectCtx.AuthenticationMethodSent
	if (out.Properties.AuthenticationMethod != nil || out.Properties.AuthenticationData != nil) && !authMethodSent {
		return ErrProtocolError
	}
	if out.SessionPresent && out.ReturnCode != 0x00 {
		return ErrBadResponse
	}
	if out.ReturnCode != 0x00 {
		return ErrServerRefused
	}
	return nil
}

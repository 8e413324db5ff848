package packet

// AUTH is MQTT 5 only (the fixed-header type nibble 0xF has no meaning in
// 3.1.1). Its shape mirrors DISCONNECT: Remaining Length 0 means Success
// with no properties, 1 means just a reason code, 2+ means reason code plus
// a property block - in practice AUTH almost always carries at least the
// Authentication-Method property, since that's what makes it AUTH rather
// than just a no-op.

// AuthOptions describes an AUTH packet to serialize.
type AuthOptions struct {
	ReasonCode uint8
	Properties *PropertySet
}

// Auth is the decoded view of an inbound AUTH packet.
type Auth struct {
	ReasonCode uint8
	Properties PropertySet
}

func validateAuthOptions(o *AuthOptions) error {
	if o == nil {
		return ErrBadParameter
	}
	if _, ok := ReasonCodes[o.ReasonCode]; !ok {
		return ErrBadParameter
	}
	switch o.ReasonCode {
	case 0x00, 0x18, 0x19:
	default:
		return ErrBadParameter
	}
	return nil
}

func authTrailer(o *AuthOptions) (includeReasonCode, includeProperties bool) {
	propLen := sizeProperties(o.Properties)
	if o.ReasonCode == 0x00 && propLen == 0 {
		return false, false
	}
	if propLen == 0 {
		return true, false
	}
	return true, true
}

// SizeAuth reports the exact number of bytes EncodeAuth would write.
func SizeAuth(o *AuthOptions) (uint32, error) {
	if err := validateAuthOptions(o); err != nil {
		return 0, err
	}
	var rl uint32
	includeReasonCode, includeProperties := authTrailer(o)
	if includeReasonCode {
		rl++
	}
	if includeProperties {
		propLen := sizeProperties(o.Properties)
		rl += uint32(varIntSize(propLen)) + propLen
	}
	return uint32(fixedHeaderSize(rl)) + rl, nil
}

// EncodeAuth serializes an AUTH packet into fb.Buffer.
func EncodeAuth(fb *FixedBuffer, o *AuthOptions) (int, error) {
	total, err := SizeAuth(o)
	if err != nil {
		return 0, err
	}
	if fb.Cap() < int(total) {
		return 0, ErrNoMemory
	}
	dst := fb.Buffer
	includeReasonCode, includeProperties := authTrailer(o)
	var rl uint32
	if includeReasonCode {
		rl++
	}
	if includeProperties {
		rl += uint32(varIntSize(sizeProperties(o.Properties))) + sizeProperties(o.Properties)
	}
	off := encodeFixedHeader(dst, AUTH, 0, rl)
	if includeReasonCode {
		dst[off] = o.ReasonCode
		off++
	}
	if includeProperties {
		off += encodeProperties(dst[off:], o.Properties)
	}
	return off, nil
}

// DecodeAuth reads an AUTH packet's variable header from src into out.
func DecodeAuth(fh FixedHeader, src []byte, out *Auth) error {
	if uint32(len(src)) < fh.RemainingLength {
		return ErrNeedMoreBytes
	}
	body := src[:fh.RemainingLength]
	out.ReasonCode = 0x00
	out.Properties = PropertySet{}

	if len(body) == 0 {
		return nil
	}
	out.ReasonCode = body[0]
	switch out.ReasonCode {
	case 0x00, 0x18, 0x19:
	default:
		return ErrProtocolError
	}
	if len(body) == 1 {
		return nil
	}
	n, err := decodeProperties(body[1:], ctxAuth, &out.Properties)
	if err != nil {
		return err
	}
	if 1+n != len(body) {
		return ErrMalformedPacket
	}
	return nil
}

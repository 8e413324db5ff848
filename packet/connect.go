package packet

// CONNECT variable header + payload. Grounded on the teacher's
// 0x1.connect.go for field layout, rewritten against []byte offsets instead
// of bytes.Buffer/io.Writer so serializing one never allocates; decoding an
// MQTT 5 CONNECT allocates only for property values held by pointer and for
// the Will property set.

// WillInfo is the optional Will Message carried by CONNECT: QoS/Retain flags
// packed into the CONNECT flags byte, topic and payload carried in the
// payload section, and (MQTT 5 only) its own property block.
type WillInfo struct {
	QoS        uint8
	Retain     bool
	Topic      []byte
	Payload    []byte
	Properties *PropertySet // v5 only; nil in v3.1.1
}

// ConnectOptions describes a CONNECT packet to serialize.
type ConnectOptions struct {
	Version      byte
	CleanSession bool
	KeepAlive    uint16
	ClientID     []byte
	Username     []byte // nil means the User Name flag is unset
	Password     []byte // nil means the Password flag is unset
	Will         *WillInfo
	Properties   *PropertySet // v5 only; ignored for v3.1.1
}

// Connect is the decoded view of an inbound CONNECT packet. Every []byte
// field borrows from the buffer passed to DecodeConnect.
type Connect struct {
	Version    byte
	Flags      ConnectFlags
	KeepAlive  uint16
	Properties PropertySet
	ClientID   []byte
	Will       WillInfo
	Username   []byte
	Password   []byte
}

func validateConnectOptions(o *ConnectOptions) error {
	if o == nil || (o.Version != VERSION311 && o.Version != VERSION500) {
		return ErrBadParameter
	}
	if len(o.ClientID) == 0 || len(o.ClientID) > maxPrefixedLength {
		return ErrBadParameter
	}
	if o.Will != nil {
		if o.Will.QoS > MaxQoS {
			return ErrBadParameter
		}
		if len(o.Will.Topic) > maxPrefixedLength || len(o.Will.Payload) > maxPrefixedLength {
			return ErrBadParameter
		}
	}
	if o.Password != nil && o.Username == nil {
		// MQTT 3.1.1 forbids Password without User Name; MQTT 5 lifted the
		// restriction but this codec keeps the stricter, portable rule.
		return ErrBadParameter
	}
	return nil
}

// SizeConnect reports the exact number of bytes EncodeConnect would write.
func SizeConnect(o *ConnectOptions) (uint32, error) {
	if err := validateConnectOptions(o); err != nil {
		return 0, err
	}
	var vh uint32 = uint32(len(protocolName)) + 1 /* protocol level */ + 1 /* flags */ + 2 /* keep alive */
	if o.Version == VERSION500 {
		propLen := sizeProperties(o.Properties)
		vh += uint32(varIntSize(propLen)) + propLen
	}
	payload := uint32(2 + len(o.ClientID))
	if o.Will != nil {
		if o.Version == VERSION500 {
			wpl := sizeProperties(o.Will.Properties)
			payload += uint32(varIntSize(wpl)) + wpl
		}
		payload += uint32(2 + len(o.Will.Topic))
		payload += uint32(2 + len(o.Will.Payload))
	}
	if o.Username != nil {
		payload += uint32(2 + len(o.Username))
	}
	if o.Password != nil {
		payload += uint32(2 + len(o.Password))
	}
	remaining := vh + payload
	if remaining > MaxRemainingLength {
		return 0, ErrBadParameter
	}
	return uint32(fixedHeaderSize(remaining)) + remaining, nil
}

// EncodeConnect serializes a CONNECT packet into fb.Buffer and returns the
// number of bytes written, or ErrNoMemory if fb is too small.
func EncodeConnect(fb *FixedBuffer, o *ConnectOptions) (int, error) {
	total, err := SizeConnect(o)
	if err != nil {
		return 0, err
	}
	if fb.Cap() < int(total) {
		return 0, ErrNoMemory
	}
	dst := fb.Buffer

	var vh uint32 = uint32(len(protocolName)) + 1 + 1 + 2
	if o.Version == VERSION500 {
		vh += uint32(varIntSize(sizeProperties(o.Properties))) + sizeProperties(o.Properties)
	}
	payload := uint32(2 + len(o.ClientID))
	if o.Will != nil {
		if o.Version == VERSION500 {
			payload += uint32(varIntSize(sizeProperties(o.Will.Properties))) + sizeProperties(o.Will.Properties)
		}
		payload += uint32(2 + len(o.Will.Topic))
		payload += uint32(2 + len(o.Will.Payload))
	}
	if o.Username != nil {
		payload += uint32(2 + len(o.Username))
	}
	if o.Password != nil {
		payload += uint32(2 + len(o.Password))
	}
	rl := vh + payload

	off := encodeFixedHeader(dst, CONNECT, 0, rl)
	copy(dst[off:], protocolName[:])
	off += len(protocolName)
	dst[off] = o.Version
	off++
	dst[off] = byte(connectFlags(o.CleanSession, o.Will, o.Username != nil, o.Password != nil))
	off++
	putUint16(dst[off:], o.KeepAlive)
	off += 2
	if o.Version == VERSION500 {
		off += encodeProperties(dst[off:], o.Properties)
	}
	off += putPrefixed(dst[off:], o.ClientID)
	if o.Will != nil {
		if o.Version == VERSION500 {
			off += encodeProperties(dst[off:], o.Will.Properties)
		}
		off += putPrefixed(dst[off:], o.Will.Topic)
		off += putPrefixed(dst[off:], o.Will.Payload)
	}
	if o.Username != nil {
		off += putPrefixed(dst[off:], o.Username)
	}
	if o.Password != nil {
		off += putPrefixed(dst[off:], o.Password)
	}
	return off, nil
}

// DecodeConnect reads a CONNECT packet's variable header and payload from
// src (the bytes after the fixed header) into out. fh.RemainingLength bounds
// how much of src belongs to this packet.
func DecodeConnect(fh FixedHeader, src []byte, out *Connect) error {
	if uint32(len(src)) < fh.RemainingLength {
		return ErrNeedMoreBytes
	}
	body := src[:fh.RemainingLength]
	if len(body) < len(protocolName)+1+1+2 {
		return ErrMalformedPacket
	}
	for i, b := range protocolName {
		if body[i] != b {
			return ErrMalformedPacket
		}
	}
	pos := len(protocolName)
	version := body[pos]
	pos++
	if version != VERSION311 && version != VERSION500 {
		return ErrBadResponse
	}
	flags := ConnectFlags(body[pos])
	pos++
	if flags.Reserved() {
		return ErrMalformedPacket
	}
	keepAlive := getUint16(body[pos:])
	pos += 2

	out.Version = version
	out.Flags = flags
	out.KeepAlive = keepAlive
	out.Properties = PropertySet{}
	out.Will = WillInfo{}

	if version == VERSION500 {
		n, err := decodeProperties(body[pos:], ctxConnect, &out.Properties)
		if err != nil {
			return err
		}
		pos += n
	}

	clientID, n, err := getPrefixed(body[pos:])
	if err != nil {
		return err
	}
	out.ClientID = clientID
	pos += n

	if flags.WillFlag() {
		if flags.WillQoS() > MaxQoS {
			return ErrMalformedPacket
		}
		out.Will.QoS = flags.WillQoS()
		out.Will.Retain = flags.WillRetain()
		if version == VERSION500 {
			var wp PropertySet
			n, err = decodeProperties(body[pos:], ctxWill, &wp)
			if err != nil {
				return err
			}
			out.Will.Properties = &wp
			pos += n
		}
		topic, n, err := getPrefixed(body[pos:])
		if err != nil {
			return err
		}
		out.Will.Topic = topic
		pos += n
		payload, n, err := getPrefixed(body[pos:])
		if err != nil {
			return err
		}
		out.Will.Payload = payload
		pos += n
	} else if flags.WillQoS() != 0 || flags.WillRetain() {
		return ErrMalformedPacket
	}

	if flags.UserNameFlag() {
		username, n, err := getPrefixed(body[pos:])
		if err != nil {
			return err
		}
		out.Username = username
		pos += n
	}
	if flags.PasswordFlag() {
		password, n, err := getPrefixed(body[pos:])
		if err != nil {
			return err
		}
		out.Password = password
		pos += n
	}
	if pos != len(body) {
		return ErrMalformedPacket
	}
	return nil
}
